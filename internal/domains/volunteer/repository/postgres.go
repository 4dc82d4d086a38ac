package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fundacion-portal-backend/internal/domains/volunteer/model"
	"fundacion-portal-backend/pkg/logger"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the pgx-backed volunteer repository.
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const volunteerColumns = `
	id, first_name, second_name, first_surname, second_surname, email, phones,
	status, is_active, registered_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, v *model.Volunteer) error {
	phones, err := json.Marshal(v.Phones)
	if err != nil {
		return fmt.Errorf("marshal phones: %w", err)
	}

	query := `
		INSERT INTO volunteers (` + volunteerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.pool.Exec(ctx, query,
		v.ID, v.FirstName, nullable(v.SecondName), v.FirstSurname, nullable(v.SecondSurname),
		v.Email, phones, v.Status, v.IsActive, v.RegisteredAt, v.UpdatedAt,
	)
	if err != nil {
		logger.Error("insert volunteer failed", err, map[string]interface{}{"id": v.ID.String()})
		return fmt.Errorf("insert volunteer: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	v, err := scanVolunteer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get volunteer: %w", err)
	}
	return v, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]model.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers ORDER BY registered_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	defer rows.Close()

	var out []model.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan volunteer: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list volunteers rows: %w", err)
	}
	return out, nil
}

func (r *postgresRepository) Update(ctx context.Context, v *model.Volunteer) error {
	phones, err := json.Marshal(v.Phones)
	if err != nil {
		return fmt.Errorf("marshal phones: %w", err)
	}

	query := `
		UPDATE volunteers SET
			first_name = $2, second_name = $3, first_surname = $4, second_surname = $5,
			email = $6, phones = $7, status = $8, is_active = $9, updated_at = $10
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		v.ID, v.FirstName, nullable(v.SecondName), v.FirstSurname, nullable(v.SecondSurname),
		v.Email, phones, v.Status, v.IsActive, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM volunteers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) EmailExists(ctx context.Context, email string, exceptID uuid.UUID) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS(SELECT 1 FROM volunteers WHERE lower(email) = lower($1) AND id <> $2)`,
		email, exceptID)
}

func (r *postgresRepository) PhoneExists(ctx context.Context, number string, exceptID uuid.UUID) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM volunteers, jsonb_array_elements(phones) AS p
			WHERE p->>'number' = $1 AND id <> $2)`,
		number, exceptID)
}

func (r *postgresRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var found bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return found, nil
}

func scanVolunteer(row pgx.Row) (*model.Volunteer, error) {
	var (
		v          model.Volunteer
		secondName *string
		secondSur  *string
		phones     []byte
	)

	err := row.Scan(
		&v.ID, &v.FirstName, &secondName, &v.FirstSurname, &secondSur, &v.Email, &phones,
		&v.Status, &v.IsActive, &v.RegisteredAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.SecondName = deref(secondName)
	v.SecondSurname = deref(secondSur)
	if err := json.Unmarshal(phones, &v.Phones); err != nil {
		return nil, fmt.Errorf("unmarshal phones: %w", err)
	}
	return &v, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
