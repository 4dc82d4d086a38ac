package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fundacion-portal-backend/internal/domains/entrepreneur/model"
	"fundacion-portal-backend/pkg/logger"
)

// Raw SQL with pgxpool. Phones and images are stored as JSONB columns:
// they are owned wholesale by their record and always read together with it.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the pgx-backed entrepreneur repository.
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const entrepreneurColumns = `
	id, first_name, second_name, first_surname, second_surname, email, phones,
	experience_years, facebook_url, instagram_url,
	venture_name, venture_description, venture_location, category, approach, images,
	status, is_active, registered_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, e *model.Entrepreneur) error {
	phones, images, err := marshalOwned(e)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO entrepreneurs (` + entrepreneurColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err = r.pool.Exec(ctx, query,
		e.ID, e.FirstName, nullable(e.SecondName), e.FirstSurname, nullable(e.SecondSurname),
		e.Email, phones,
		e.ExperienceYears, nullable(e.FacebookURL), nullable(e.InstagramURL),
		e.Entrepreneurship.Name, e.Entrepreneurship.Description, e.Entrepreneurship.Location,
		e.Entrepreneurship.Category, e.Entrepreneurship.Approach, images,
		e.Status, e.IsActive, e.RegisteredAt, e.UpdatedAt,
	)
	if err != nil {
		logger.Error("insert entrepreneur failed", err, map[string]interface{}{"id": e.ID.String()})
		return fmt.Errorf("insert entrepreneur: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Entrepreneur, error) {
	query := `SELECT ` + entrepreneurColumns + ` FROM entrepreneurs WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	e, err := scanEntrepreneur(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get entrepreneur: %w", err)
	}
	return e, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]model.Entrepreneur, error) {
	query := `SELECT ` + entrepreneurColumns + ` FROM entrepreneurs ORDER BY registered_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list entrepreneurs: %w", err)
	}
	defer rows.Close()

	var out []model.Entrepreneur
	for rows.Next() {
		e, err := scanEntrepreneur(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entrepreneur: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entrepreneurs rows: %w", err)
	}
	return out, nil
}

func (r *postgresRepository) Update(ctx context.Context, e *model.Entrepreneur) error {
	phones, images, err := marshalOwned(e)
	if err != nil {
		return err
	}

	query := `
		UPDATE entrepreneurs SET
			first_name = $2, second_name = $3, first_surname = $4, second_surname = $5,
			email = $6, phones = $7,
			experience_years = $8, facebook_url = $9, instagram_url = $10,
			venture_name = $11, venture_description = $12, venture_location = $13,
			category = $14, approach = $15, images = $16,
			status = $17, is_active = $18, updated_at = $19
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		e.ID, e.FirstName, nullable(e.SecondName), e.FirstSurname, nullable(e.SecondSurname),
		e.Email, phones,
		e.ExperienceYears, nullable(e.FacebookURL), nullable(e.InstagramURL),
		e.Entrepreneurship.Name, e.Entrepreneurship.Description, e.Entrepreneurship.Location,
		e.Entrepreneurship.Category, e.Entrepreneurship.Approach, images,
		e.Status, e.IsActive, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update entrepreneur: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entrepreneurs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete entrepreneur: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) EmailExists(ctx context.Context, email string, exceptID uuid.UUID) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS(SELECT 1 FROM entrepreneurs WHERE lower(email) = lower($1) AND id <> $2)`,
		email, exceptID)
}

func (r *postgresRepository) PhoneExists(ctx context.Context, number string, exceptID uuid.UUID) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM entrepreneurs, jsonb_array_elements(phones) AS p
			WHERE p->>'number' = $1 AND id <> $2)`,
		number, exceptID)
}

func (r *postgresRepository) VentureNameExists(ctx context.Context, name string, exceptID uuid.UUID) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS(SELECT 1 FROM entrepreneurs WHERE lower(venture_name) = lower($1) AND id <> $2)`,
		name, exceptID)
}

func (r *postgresRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var found bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return found, nil
}

func marshalOwned(e *model.Entrepreneur) (phones, images []byte, err error) {
	phones, err = json.Marshal(e.Phones)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal phones: %w", err)
	}
	images, err = json.Marshal(e.Entrepreneurship.Images)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal images: %w", err)
	}
	return phones, images, nil
}

func scanEntrepreneur(row pgx.Row) (*model.Entrepreneur, error) {
	var (
		e          model.Entrepreneur
		secondName *string
		secondSur  *string
		facebook   *string
		instagram  *string
		phones     []byte
		images     []byte
	)

	err := row.Scan(
		&e.ID, &e.FirstName, &secondName, &e.FirstSurname, &secondSur, &e.Email, &phones,
		&e.ExperienceYears, &facebook, &instagram,
		&e.Entrepreneurship.Name, &e.Entrepreneurship.Description, &e.Entrepreneurship.Location,
		&e.Entrepreneurship.Category, &e.Entrepreneurship.Approach, &images,
		&e.Status, &e.IsActive, &e.RegisteredAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.SecondName = deref(secondName)
	e.SecondSurname = deref(secondSur)
	e.FacebookURL = deref(facebook)
	e.InstagramURL = deref(instagram)

	if err := json.Unmarshal(phones, &e.Phones); err != nil {
		return nil, fmt.Errorf("unmarshal phones: %w", err)
	}
	if err := json.Unmarshal(images, &e.Entrepreneurship.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	return &e, nil
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
