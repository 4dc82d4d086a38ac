package repository

import (
	"context"

	"github.com/google/uuid"

	"fundacion-portal-backend/internal/domains/entrepreneur/model"
)

// RepositoryInterface defines the entrepreneur data access methods.
type RepositoryInterface interface {
	Create(ctx context.Context, e *model.Entrepreneur) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Entrepreneur, error)
	ListAll(ctx context.Context) ([]model.Entrepreneur, error)
	Update(ctx context.Context, e *model.Entrepreneur) error
	Delete(ctx context.Context, id uuid.UUID) error
	EmailExists(ctx context.Context, email string, exceptID uuid.UUID) (bool, error)
	PhoneExists(ctx context.Context, number string, exceptID uuid.UUID) (bool, error)
	VentureNameExists(ctx context.Context, name string, exceptID uuid.UUID) (bool, error)
}
