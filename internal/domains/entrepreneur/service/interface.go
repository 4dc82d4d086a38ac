package service

import (
	"context"

	"github.com/google/uuid"

	"fundacion-portal-backend/internal/domains/entrepreneur/model"
	"fundacion-portal-backend/internal/shared/payload"
)

// ServiceInterface defines the entrepreneur business operations.
type ServiceInterface interface {
	Create(ctx context.Context, p payload.CreateEntrepreneurPayload, images [model.NumImages]model.ImageInput) (*model.Entrepreneur, error)
	Update(ctx context.Context, id uuid.UUID, p payload.UpdateEntrepreneurPayload, images map[int]model.ImageInput) (*model.Entrepreneur, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Entrepreneur, error)
	List(ctx context.Context, req model.ListRequest) (*model.ListResponse, error)
	Approve(ctx context.Context, id uuid.UUID) (*model.Entrepreneur, error)
	Reject(ctx context.Context, id uuid.UUID) (*model.Entrepreneur, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.Entrepreneur, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
