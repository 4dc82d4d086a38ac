package service

import (
	"context"

	"github.com/google/uuid"

	"fundacion-portal-backend/internal/domains/volunteer/model"
	"fundacion-portal-backend/internal/shared/payload"
)

// ServiceInterface defines the volunteer business operations.
type ServiceInterface interface {
	Create(ctx context.Context, p payload.CreateVolunteerPayload) (*model.Volunteer, error)
	Update(ctx context.Context, id uuid.UUID, p payload.UpdateVolunteerPayload) (*model.Volunteer, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Volunteer, error)
	List(ctx context.Context, req model.ListRequest) (*model.ListResponse, error)
	Approve(ctx context.Context, id uuid.UUID) (*model.Volunteer, error)
	Reject(ctx context.Context, id uuid.UUID) (*model.Volunteer, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.Volunteer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
