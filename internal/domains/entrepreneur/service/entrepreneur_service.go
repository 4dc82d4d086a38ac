package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fundacion-portal-backend/internal/domains/entrepreneur/model"
	"fundacion-portal-backend/internal/domains/entrepreneur/repository"
	"fundacion-portal-backend/internal/shared/listquery"
	"fundacion-portal-backend/internal/shared/payload"
	"fundacion-portal-backend/pkg/cache"
	"fundacion-portal-backend/pkg/logger"
)

const (
	listCachePrefix = "entrepreneurs:list:"
	listCacheTTL    = 2 * time.Minute
)

// ImageStore is the slice of object storage the service needs: persist
// incoming image content (or promote an already-staged object) and clean up
// what a record leaves behind.
type ImageStore interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
	MoveObject(ctx context.Context, fromKey, toKey string) error
	URLFor(key string) string
	Delete(ctx context.Context, key string) error
	RemoveFolder(ctx context.Context, prefix string) error
}

type entrepreneurService struct {
	repo    repository.RepositoryInterface
	storage ImageStore
	cache   cache.Cache
}

// NewEntrepreneurService wires the entrepreneur business logic.
func NewEntrepreneurService(repo repository.RepositoryInterface, storage ImageStore, c cache.Cache) ServiceInterface {
	return &entrepreneurService{repo: repo, storage: storage, cache: c}
}

func (s *entrepreneurService) Create(ctx context.Context, p payload.CreateEntrepreneurPayload, images [model.NumImages]model.ImageInput) (*model.Entrepreneur, error) {
	if err := model.ValidateCreatePayload(p); err != nil {
		return nil, model.NewInvalidPayloadError(err.Error())
	}
	for slot, img := range images {
		if img.StagedKey == "" && len(img.Content) == 0 {
			return nil, model.NewIncompleteMediaError(fmt.Sprintf("image %d is missing", slot+1))
		}
	}

	if err := s.checkDuplicates(ctx, p.Person.Email, p.Person.Phones, p.Entrepreneurship.Name, uuid.Nil); err != nil {
		return nil, err
	}

	id := uuid.New()
	var urls [model.NumImages]string
	for slot, img := range images {
		url, err := s.persistImage(ctx, id, slot, img)
		if err != nil {
			// Best effort rollback of what already landed.
			_ = s.storage.RemoveFolder(ctx, imageFolder(id))
			return nil, model.NewImageStorageError(err)
		}
		urls[slot] = url
	}

	e := model.NewEntrepreneurFromCreate(p, urls)
	e.ID = id
	if err := s.repo.Create(ctx, e); err != nil {
		_ = s.storage.RemoveFolder(ctx, imageFolder(id))
		return nil, err
	}

	s.invalidateListCache(ctx)
	logger.Info("entrepreneur created", map[string]interface{}{
		"id":    e.ID.String(),
		"email": e.Email,
	})
	return e, nil
}

func (s *entrepreneurService) Update(ctx context.Context, id uuid.UUID, p payload.UpdateEntrepreneurPayload, images map[int]model.ImageInput) (*model.Entrepreneur, error) {
	if err := model.ValidateUpdatePayload(p); err != nil {
		return nil, model.NewInvalidPayloadError(err.Error())
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	if p.IsEmpty() && len(images) == 0 {
		return e, nil
	}

	email, phones, venture := "", []payload.Phone(nil), ""
	if p.Person != nil {
		email = p.Person.Email
		phones = p.Person.Phones
	}
	if p.Entrepreneurship != nil {
		venture = p.Entrepreneurship.Name
	}
	if err := s.checkDuplicates(ctx, email, phones, venture, id); err != nil {
		return nil, err
	}

	// Resolve slot sentinels to persisted URLs before the merge. Old
	// objects are overwritten in place (fixed per-slot keys), so no
	// orphan cleanup is needed.
	if p.Entrepreneurship != nil {
		resolved := *p.Entrepreneurship
		for slot := 0; slot < model.NumImages; slot++ {
			field := resolved.Image(slot)
			if _, ok := payload.ParseReplaceSentinel(field); !ok {
				continue
			}
			img, present := images[slot]
			if !present {
				return nil, model.NewIncompleteMediaError(fmt.Sprintf("image %d announced but not sent", slot+1))
			}
			url, err := s.persistImage(ctx, id, slot, img)
			if err != nil {
				return nil, model.NewImageStorageError(err)
			}
			setImage(&resolved, slot, url)
		}
		p.Entrepreneurship = &resolved
	}

	e.ApplyUpdate(p)
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, wrapNotFound(err, id)
	}

	s.invalidateListCache(ctx)
	return e, nil
}

func (s *entrepreneurService) Get(ctx context.Context, id uuid.UUID) (*model.Entrepreneur, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	return e, nil
}

func (s *entrepreneurService) List(ctx context.Context, req model.ListRequest) (*model.ListResponse, error) {
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidPayloadError(err.Error())
	}

	cacheKey := fmt.Sprintf("%s%s:%s:%s:%s:%d",
		listCachePrefix, req.View, req.Search, req.Category, req.Status, req.Page)
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
		Category:   req.Category,
		Status:     listquery.StatusFilter(req.Status),
		Page:       req.Page,
		PageSize:   req.PageSize(),
	})

	items := make([]model.Entrepreneur, len(result.Items))
	for i, it := range result.Items {
		items[i] = it.Entrepreneur
	}
	resp := &model.ListResponse{Items: items, Stats: result.Stats, Page: result.Page}

	if err := s.cache.Set(ctx, cacheKey, resp, listCacheTTL); err != nil {
		logger.Warn("list cache set failed", map[string]interface{}{"error": err.Error()})
	}
	return resp, nil
}

func (s *entrepreneurService) Approve(ctx context.Context, id uuid.UUID) (*model.Entrepreneur, error) {
	return s.setStatus(ctx, id, model.StatusApproved)
}

func (s *entrepreneurService) Reject(ctx context.Context, id uuid.UUID) (*model.Entrepreneur, error) {
	return s.setStatus(ctx, id, model.StatusRejected)
}

func (s *entrepreneurService) setStatus(ctx context.Context, id uuid.UUID, status string) (*model.Entrepreneur, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	if e.Status != model.StatusPending {
		return nil, model.NewAlreadyProcessedError()
	}

	e.Status = status
	e.IsActive = status == model.StatusApproved
	e.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, wrapNotFound(err, id)
	}

	s.invalidateListCache(ctx)
	logger.Info("entrepreneur status changed", map[string]interface{}{
		"id":     id.String(),
		"status": status,
	})
	return e, nil
}

func (s *entrepreneurService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.Entrepreneur, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	if e.IsActive == active {
		return e, nil
	}

	e.IsActive = active
	e.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, wrapNotFound(err, id)
	}

	s.invalidateListCache(ctx)
	return e, nil
}

func (s *entrepreneurService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return wrapNotFound(err, id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapNotFound(err, id)
	}

	if err := s.storage.RemoveFolder(ctx, imageFolder(id)); err != nil {
		// The record is gone; orphaned objects are a cleanup concern,
		// not a request failure.
		logger.Warn("image folder cleanup failed", map[string]interface{}{
			"id":    id.String(),
			"error": err.Error(),
		})
	}

	s.invalidateListCache(ctx)
	return nil
}

func (s *entrepreneurService) checkDuplicates(ctx context.Context, email string, phones []payload.Phone, venture string, exceptID uuid.UUID) error {
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
	if venture != "" {
		exists, err := s.repo.VentureNameExists(ctx, venture, exceptID)
		if err != nil {
			return err
		}
		if exists {
			return model.NewDuplicateVentureError()
		}
	}
	return nil
}

// persistImage lands one image at its fixed per-record key: staged wizard
// objects are moved, direct uploads are written from bytes.
func (s *entrepreneurService) persistImage(ctx context.Context, id uuid.UUID, slot int, img model.ImageInput) (string, error) {
	key := imageKey(id, slot)
	if img.StagedKey != "" {
		if err := s.storage.MoveObject(ctx, img.StagedKey, key); err != nil {
			return "", err
		}
		return s.storage.URLFor(key), nil
	}
	if _, err := s.storage.UploadBytes(ctx, key, img.Content, img.ContentType); err != nil {
		return "", err
	}
	return s.storage.URLFor(key), nil
}

func (s *entrepreneurService) invalidateListCache(ctx context.Context) {
	keys, err := s.cache.Keys(ctx, listCachePrefix+"*")
	if err != nil {
		logger.Warn("list cache scan failed", map[string]interface{}{"error": err.Error()})
		return
	}
	for _, k := range keys {
		_ = s.cache.Delete(ctx, k)
	}
}

func imageFolder(id uuid.UUID) string {
	return fmt.Sprintf("entrepreneurs/%s/", id)
}

func imageKey(id uuid.UUID, slot int) string {
	return fmt.Sprintf("entrepreneurs/%s/image_%d", id, slot+1)
}

func setImage(g *payload.EntrepreneurshipGroup, slot int, url string) {
	switch slot {
	case 0:
		g.Image1 = url
	case 1:
		g.Image2 = url
	case 2:
		g.Image3 = url
	}
}

func wrapNotFound(err error, id uuid.UUID) error {
	if err == model.ErrNotFound {
		return model.NewNotFoundError(id.String())
	}
	return err
}
