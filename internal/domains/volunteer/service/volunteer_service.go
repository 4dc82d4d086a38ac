package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fundacion-portal-backend/internal/domains/volunteer/model"
	"fundacion-portal-backend/internal/domains/volunteer/repository"
	"fundacion-portal-backend/internal/shared/listquery"
	"fundacion-portal-backend/internal/shared/payload"
	"fundacion-portal-backend/pkg/cache"
	"fundacion-portal-backend/pkg/logger"
)

const (
	listCachePrefix = "volunteers:list:"
	listCacheTTL    = 2 * time.Minute
)

type volunteerService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
}

// NewVolunteerService wires the volunteer business logic.
func NewVolunteerService(repo repository.RepositoryInterface, c cache.Cache) ServiceInterface {
	return &volunteerService{repo: repo, cache: c}
}

func (s *volunteerService) Create(ctx context.Context, p payload.CreateVolunteerPayload) (*model.Volunteer, error) {
	if err := model.ValidateCreatePayload(p); err != nil {
		return nil, model.NewInvalidPayloadError(err.Error())
	}
	if err := s.checkDuplicates(ctx, p.Person.Email, p.Person.Phones, uuid.Nil); err != nil {
		return nil, err
	}

	v := model.NewVolunteerFromCreate(p)
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	logger.Info("volunteer created", map[string]interface{}{
		"id":    v.ID.String(),
		"email": v.Email,
	})
	return v, nil
}

func (s *volunteerService) Update(ctx context.Context, id uuid.UUID, p payload.UpdateVolunteerPayload) (*model.Volunteer, error) {
	// The edit flow reports every failing field at once rather than
	// stopping at the first.
	if messages := model.ValidateUpdatePayload(p); len(messages) > 0 {
		return nil, model.NewInvalidPayloadError(messages...)
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	if p.IsEmpty() {
		return v, nil
	}

	email, phones := "", []payload.Phone(nil)
	if p.Person != nil {
		email = p.Person.Email
		phones = p.Person.Phones
	}
	if err := s.checkDuplicates(ctx, email, phones, id); err != nil {
		return nil, err
	}

	v.ApplyUpdate(p)
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, wrapNotFound(err, id)
	}

	s.invalidateListCache(ctx)
	return v, nil
}

func (s *volunteerService) Get(ctx context.Context, id uuid.UUID) (*model.Volunteer, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	return v, nil
}

func (s *volunteerService) List(ctx context.Context, req model.ListRequest) (*model.ListResponse, error) {
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidPayloadError(err.Error())
	}

	cacheKey := fmt.Sprintf("%s%s:%s:%s:%d",
		listCachePrefix, req.View, req.Search, req.Status, req.Page)
	var cached model.ListResponse
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := listquery.Query(model.ToListItems(records), listquery.Options{
		SearchTerm: req.Search,
		Status:     listquery.StatusFilter(req.Status),
		Page:       req.Page,
		PageSize:   req.PageSize(),
	})

	items := make([]model.Volunteer, len(result.Items))
	for i, it := range result.Items {
		items[i] = it.Volunteer
	}
	resp := &model.ListResponse{Items: items, Stats: result.Stats, Page: result.Page}

	if err := s.cache.Set(ctx, cacheKey, resp, listCacheTTL); err != nil {
		logger.Warn("list cache set failed", map[string]interface{}{"error": err.Error()})
	}
	return resp, nil
}

func (s *volunteerService) Approve(ctx context.Context, id uuid.UUID) (*model.Volunteer, error) {
	return s.setStatus(ctx, id, model.StatusApproved)
}

func (s *volunteerService) Reject(ctx context.Context, id uuid.UUID) (*model.Volunteer, error) {
	return s.setStatus(ctx, id, model.StatusRejected)
}

func (s *volunteerService) setStatus(ctx context.Context, id uuid.UUID, status string) (*model.Volunteer, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	if v.Status != model.StatusPending {
		return nil, model.NewAlreadyProcessedError()
	}

	v.Status = status
	v.IsActive = status == model.StatusApproved
	v.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, wrapNotFound(err, id)
	}

	s.invalidateListCache(ctx)
	logger.Info("volunteer status changed", map[string]interface{}{
		"id":     id.String(),
		"status": status,
	})
	return v, nil
}

func (s *volunteerService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.Volunteer, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	if v.IsActive == active {
		return v, nil
	}

	v.IsActive = active
	v.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, wrapNotFound(err, id)
	}

	s.invalidateListCache(ctx)
	return v, nil
}

func (s *volunteerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapNotFound(err, id)
	}
	s.invalidateListCache(ctx)
	return nil
}

func (s *volunteerService) checkDuplicates(ctx context.Context, email string, phones []payload.Phone, exceptID uuid.UUID) error {
	if email != "" {
		exists, err := s.repo.EmailExists(ctx, email, exceptID)
		if err != nil {
			return err
		}
		if exists {
			return model.NewDuplicateEmailError()
		}
	}
	for _, ph := range phones {
		exists, err := s.repo.PhoneExists(ctx, ph.Number, exceptID)
		if err != nil {
			return err
		}
		if exists {
			return model.NewDuplicatePhoneError()
		}
	}
	return nil
}

func (s *volunteerService) invalidateListCache(ctx context.Context) {
	keys, err := s.cache.Keys(ctx, listCachePrefix+"*")
	if err != nil {
		logger.Warn("list cache scan failed", map[string]interface{}{"error": err.Error()})
		return
	}
	for _, k := range keys {
		_ = s.cache.Delete(ctx, k)
	}
}

func wrapNotFound(err error, id uuid.UUID) error {
	if err == model.ErrNotFound {
		return model.NewNotFoundError(id.String())
	}
	return err
}
