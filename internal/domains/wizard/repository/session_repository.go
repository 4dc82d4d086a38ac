package repository

import (
	"context"
	"time"

	"fundacion-portal-backend/internal/domains/wizard/model"
	"fundacion-portal-backend/pkg/cache"
)

const sessionKeyPrefix = "wizard:session:"

// RepositoryInterface defines the wizard session store. Sessions are
// ephemeral by design: they live under a TTL and every save renews it, so an
// abandoned wizard simply ages out.
type RepositoryInterface interface {
	Save(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type sessionRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewSessionRepository creates the redis-backed session store.
func NewSessionRepository(c cache.Cache, ttl time.Duration) RepositoryInterface {
	return &sessionRepository{cache: c, ttl: ttl}
}

func (r *sessionRepository) Save(ctx context.Context, s *model.Session) error {
	s.UpdatedAt = time.Now().UTC()
	return r.cache.Set(ctx, sessionKeyPrefix+s.ID, s, r.ttl)
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	found, err := r.cache.Get(ctx, sessionKeyPrefix+id, &s)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.ErrSessionNotFound
	}
	return &s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, sessionKeyPrefix+id)
}

func (r *sessionRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.cache.Exists(ctx, sessionKeyPrefix+id)
}
