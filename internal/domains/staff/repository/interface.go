package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fundacion-portal-backend/internal/domains/staff/model"
)

// RepositoryInterface defines the staff data access methods.
type RepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*model.Staff, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Staff, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
