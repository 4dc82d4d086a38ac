package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundacion-portal-backend/internal/domains/entrepreneur/model"
	"fundacion-portal-backend/internal/shared/payload"
)

type fakeRepo struct {
	records map[uuid.UUID]*model.Entrepreneur
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[uuid.UUID]*model.Entrepreneur{}}
}

func (r *fakeRepo) Create(_ context.Context, e *model.Entrepreneur) error {
	cp := *e
	r.records[e.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Entrepreneur, error) {
	e, ok := r.records[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeRepo) ListAll(_ context.Context) ([]model.Entrepreneur, error) {
	out := make([]model.Entrepreneur, 0, len(r.records))
	for _, e := range r.records {
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, e *model.Entrepreneur) error {
	if _, ok := r.records[e.ID]; !ok {
		return model.ErrNotFound
	}
	cp := *e
	r.records[e.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.records[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeRepo) EmailExists(_ context.Context, email string, exceptID uuid.UUID) (bool, error) {
	for id, e := range r.records {
		if id != exceptID && strings.EqualFold(e.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) PhoneExists(_ context.Context, number string, exceptID uuid.UUID) (bool, error) {
	for id, e := range r.records {
		if id == exceptID {
			continue
		}
		for _, ph := range e.Phones {
			if ph.Number == number {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeRepo) VentureNameExists(_ context.Context, name string, exceptID uuid.UUID) (bool, error) {
	for id, e := range r.records {
		if id != exceptID && strings.EqualFold(e.Entrepreneurship.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

type fakeStorage struct {
	objects map[string][]byte
	moves   []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) UploadBytes(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.objects[key] = data
	return s.URLFor(key), nil
}

func (s *fakeStorage) MoveObject(_ context.Context, from, to string) error {
	s.objects[to] = s.objects[from]
	delete(s.objects, from)
	s.moves = append(s.moves, from+" -> "+to)
	return nil
}

func (s *fakeStorage) URLFor(key string) string { return "https://cdn.test/" + key }

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) RemoveFolder(_ context.Context, prefix string) error {
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			delete(s.objects, k)
		}
	}
	return nil
}

type fakeCache struct {
	values map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{values: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.values[key]
	return ok, nil
}

func (c *fakeCache) Expire(_ context.Context, _ string, _ time.Duration) error { return nil }

func (c *fakeCache) Keys(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var out []string
	for k := range c.values {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }

func newTestService() (ServiceInterface, *fakeRepo, *fakeStorage) {
	repo := newFakeRepo()
	storage := newFakeStorage()
	return NewEntrepreneurService(repo, storage, newFakeCache()), repo, storage
}

func validCreatePayload() payload.CreateEntrepreneurPayload {
	years := 5
	return payload.CreateEntrepreneurPayload{
		Person: payload.PersonGroup{
			FirstName:    "María",
			FirstSurname: "González",
			Email:        "maria@example.com",
			Phones: []payload.Phone{
				{Number: "+506 8888 1111", Type: payload.PhoneTypePersonal, IsPrimary: true},
			},
		},
		Attributes: payload.EntrepreneurAttrs{ExperienceYears: &years},
		Entrepreneurship: payload.EntrepreneurshipGroup{
			Name:        "Tejidos del Valle",
			Description: "Handwoven textiles made with natural dyes",
			Location:    "Cartago",
			Category:    model.CategoryCrafts,
			Approach:    model.ApproachCultural,
		},
	}
}

func threeImages() [model.NumImages]model.ImageInput {
	var imgs [model.NumImages]model.ImageInput
	for i := range imgs {
		imgs[i] = model.ImageInput{Content: []byte{0xFF, 0xD8}, Name: "img.jpg", ContentType: "image/jpeg"}
	}
	return imgs
}

func TestCreate_PersistsRecordAndImages(t *testing.T) {
	svc, repo, storage := newTestService()

	e, err := svc.Create(context.Background(), validCreatePayload(), threeImages())
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, e.Status)
	assert.True(t, e.IsActive)
	assert.Len(t, repo.records, 1)
	for slot := 0; slot < model.NumImages; slot++ {
		assert.Contains(t, e.Entrepreneurship.Images[slot], e.ID.String())
	}
	assert.Len(t, storage.objects, model.NumImages)
}

func TestCreate_PromotesStagedObjects(t *testing.T) {
	svc, _, storage := newTestService()
	var imgs [model.NumImages]model.ImageInput
	for i := range imgs {
		key := "staging/sess1/slot_" + string(rune('1'+i))
		storage.objects[key] = []byte{1}
		imgs[i] = model.ImageInput{StagedKey: key}
	}

	_, err := svc.Create(context.Background(), validCreatePayload(), imgs)
	require.NoError(t, err)

	assert.Len(t, storage.moves, model.NumImages)
	for k := range storage.objects {
		assert.False(t, strings.HasPrefix(k, "staging/"), "staged object %s left behind", k)
	}
}

func TestCreate_DuplicateEmailRejected(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), validCreatePayload(), threeImages())
	require.NoError(t, err)

	p := validCreatePayload()
	p.Person.Phones[0].Number = "+506 8888 2222"
	p.Entrepreneurship.Name = "Other Venture"
	_, err = svc.Create(context.Background(), p, threeImages())

	var domainErr *model.EntrepreneurError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeDuplicateEmail, domainErr.Code)
	assert.Equal(t, 409, domainErr.HTTPStatus())
	assert.Contains(t, strings.ToLower(domainErr.Message), "email")
}

func TestCreate_MissingImageRejected(t *testing.T) {
	svc, _, _ := newTestService()
	imgs := threeImages()
	imgs[1] = model.ImageInput{}

	_, err := svc.Create(context.Background(), validCreatePayload(), imgs)

	var domainErr *model.EntrepreneurError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeIncompleteMedia, domainErr.Code)
}

func TestUpdate_ResolvesSentinelSlots(t *testing.T) {
	svc, _, _ := newTestService()
	e, err := svc.Create(context.Background(), validCreatePayload(), threeImages())
	require.NoError(t, err)
	originalImage1 := e.Entrepreneurship.Images[0]

	upd := payload.UpdateEntrepreneurPayload{
		Entrepreneurship: &payload.EntrepreneurshipGroup{
			Image1: e.Entrepreneurship.Images[0],
			Image2: payload.ReplaceSentinel(1),
			Image3: e.Entrepreneurship.Images[2],
		},
	}
	images := map[int]model.ImageInput{
		1: {Content: []byte{0xFF}, Name: "new.jpg", ContentType: "image/jpeg"},
	}

	got, err := svc.Update(context.Background(), e.ID, upd, images)
	require.NoError(t, err)

	assert.Equal(t, originalImage1, got.Entrepreneurship.Images[0])
	assert.NotContains(t, got.Entrepreneurship.Images[1], "__FILE_REPLACE")
	assert.Contains(t, got.Entrepreneurship.Images[1], e.ID.String())
}

func TestUpdate_SentinelWithoutFileRejected(t *testing.T) {
	svc, _, _ := newTestService()
	e, err := svc.Create(context.Background(), validCreatePayload(), threeImages())
	require.NoError(t, err)

	upd := payload.UpdateEntrepreneurPayload{
		Entrepreneurship: &payload.EntrepreneurshipGroup{
			Image2: payload.ReplaceSentinel(1),
		},
	}

	_, err = svc.Update(context.Background(), e.ID, upd, nil)

	var domainErr *model.EntrepreneurError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeIncompleteMedia, domainErr.Code)
}

func TestUpdate_OmittedGroupsUntouched(t *testing.T) {
	svc, _, _ := newTestService()
	e, err := svc.Create(context.Background(), validCreatePayload(), threeImages())
	require.NoError(t, err)

	name := "Tejidos Renovados"
	upd := payload.UpdateEntrepreneurPayload{
		Entrepreneurship: &payload.EntrepreneurshipGroup{Name: name},
	}

	got, err := svc.Update(context.Background(), e.ID, upd, nil)
	require.NoError(t, err)

	assert.Equal(t, name, got.Entrepreneurship.Name)
	assert.Equal(t, e.Email, got.Email)
	assert.Equal(t, e.Entrepreneurship.Images, got.Entrepreneurship.Images)
	assert.Equal(t, e.ExperienceYears, got.ExperienceYears)
}

func TestUpdate_SecondNameCleared(t *testing.T) {
	svc, _, _ := newTestService()
	p := validCreatePayload()
	second := "Inés"
	p.Person.SecondName = &second
	e, err := svc.Create(context.Background(), p, threeImages())
	require.NoError(t, err)
	require.Equal(t, "Inés", e.SecondName)

	blank := ""
	upd := payload.UpdateEntrepreneurPayload{
		Person: &payload.PersonGroup{SecondName: &blank},
	}

	got, err := svc.Update(context.Background(), e.ID, upd, nil)
	require.NoError(t, err)
	assert.Empty(t, got.SecondName)
}

func TestApprove_OnlyFromPending(t *testing.T) {
	svc, _, _ := newTestService()
	e, err := svc.Create(context.Background(), validCreatePayload(), threeImages())
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)

	_, err = svc.Reject(context.Background(), e.ID)
	var domainErr *model.EntrepreneurError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeAlreadyProcessed, domainErr.Code)
}

func TestDelete_RemovesImages(t *testing.T) {
	svc, repo, storage := newTestService()
	e, err := svc.Create(context.Background(), validCreatePayload(), threeImages())
	require.NoError(t, err)
	require.NotEmpty(t, storage.objects)

	require.NoError(t, svc.Delete(context.Background(), e.ID))

	assert.Empty(t, repo.records)
	assert.Empty(t, storage.objects)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	svc, _, _ := newTestService()
	for i := 0; i < 12; i++ {
		p := validCreatePayload()
		p.Person.Email = "user" + string(rune('a'+i)) + "@example.com"
		p.Person.Phones[0].Number = "+506 8888 10" + string(rune('a'+i))
		p.Entrepreneurship.Name = "Venture " + string(rune('A'+i))
		if i%2 == 0 {
			p.Entrepreneurship.Category = model.CategoryFood
		}
		_, err := svc.Create(context.Background(), p, threeImages())
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), model.ListRequest{View: "cards", Page: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 9)
	assert.Equal(t, 12, resp.Stats.Total)
	assert.Equal(t, 2, resp.Page.TotalPages)

	resp, err = svc.List(context.Background(), model.ListRequest{Category: model.CategoryFood})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Stats.Total)
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get(context.Background(), uuid.New())

	var domainErr *model.EntrepreneurError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeNotFound, domainErr.Code)
	assert.Equal(t, 404, domainErr.HTTPStatus())
}
