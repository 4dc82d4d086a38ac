package repository

import (
	"context"

	"github.com/google/uuid"

	"fundacion-portal-backend/internal/domains/volunteer/model"
)

// RepositoryInterface defines the volunteer data access methods.
type RepositoryInterface interface {
	Create(ctx context.Context, v *model.Volunteer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Volunteer, error)
	ListAll(ctx context.Context) ([]model.Volunteer, error)
	Update(ctx context.Context, v *model.Volunteer) error
	Delete(ctx context.Context, id uuid.UUID) error
	EmailExists(ctx context.Context, email string, exceptID uuid.UUID) (bool, error)
	PhoneExists(ctx context.Context, number string, exceptID uuid.UUID) (bool, error)
}
