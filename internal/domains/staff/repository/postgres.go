package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fundacion-portal-backend/internal/domains/staff/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the pgx-backed staff repository.
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const staffColumns = `
	id, email, password_hash, full_name, role, is_active, last_login_at, created_at, updated_at`

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE lower(email) = lower($1)`
	return r.queryOne(ctx, query, email)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE staff SET last_login_at = $2, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (r *postgresRepository) queryOne(ctx context.Context, query string, arg interface{}) (*model.Staff, error) {
	var s model.Staff
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.Email, &s.PasswordHash, &s.FullName, &s.Role,
		&s.IsActive, &s.LastLoginAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("query staff: %w", err)
	}
	return &s, nil
}
