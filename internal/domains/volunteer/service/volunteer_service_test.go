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

	"fundacion-portal-backend/internal/domains/volunteer/model"
	"fundacion-portal-backend/internal/shared/payload"
)

type fakeRepo struct {
	records map[uuid.UUID]*model.Volunteer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[uuid.UUID]*model.Volunteer{}}
}

func (r *fakeRepo) Create(_ context.Context, v *model.Volunteer) error {
	cp := *v
	r.records[v.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Volunteer, error) {
	v, ok := r.records[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeRepo) ListAll(_ context.Context) ([]model.Volunteer, error) {
	out := make([]model.Volunteer, 0, len(r.records))
	for _, v := range r.records {
		out = append(out, *v)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, v *model.Volunteer) error {
	if _, ok := r.records[v.ID]; !ok {
		return model.ErrNotFound
	}
	cp := *v
	r.records[v.ID] = &cp
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
	for id, v := range r.records {
		if id != exceptID && strings.EqualFold(v.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) PhoneExists(_ context.Context, number string, exceptID uuid.UUID) (bool, error) {
	for id, v := range r.records {
		if id == exceptID {
			continue
		}
		for _, ph := range v.Phones {
			if ph.Number == number {
				return true, nil
			}
		}
	}
	return false, nil
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

func newTestService() (ServiceInterface, *fakeRepo) {
	repo := newFakeRepo()
	return NewVolunteerService(repo, newFakeCache()), repo
}

func validCreatePayload() payload.CreateVolunteerPayload {
	return payload.CreateVolunteerPayload{
		Person: payload.PersonGroup{
			FirstName:    "Carlos",
			FirstSurname: "Jiménez",
			Email:        "carlos@example.com",
			Phones: []payload.Phone{
				{Number: "+506 7000 1111", Type: payload.PhoneTypePersonal, IsPrimary: true},
			},
		},
	}
}

func TestCreate_DefaultsActiveTrue(t *testing.T) {
	svc, repo := newTestService()

	v, err := svc.Create(context.Background(), validCreatePayload())
	require.NoError(t, err)

	assert.True(t, v.IsActive)
	assert.Equal(t, model.StatusPending, v.Status)
	assert.Len(t, repo.records, 1)
}

func TestCreate_MissingPhoneRejected(t *testing.T) {
	svc, _ := newTestService()
	p := validCreatePayload()
	p.Person.Phones = nil

	_, err := svc.Create(context.Background(), p)

	var domainErr *model.VolunteerError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeInvalidPayload, domainErr.Code)
	assert.Equal(t, 400, domainErr.HTTPStatus())
}

func TestCreate_DuplicatePhoneRejected(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), validCreatePayload())
	require.NoError(t, err)

	p := validCreatePayload()
	p.Person.Email = "other@example.com"
	_, err = svc.Create(context.Background(), p)

	var domainErr *model.VolunteerError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeDuplicatePhone, domainErr.Code)
	assert.Equal(t, 409, domainErr.HTTPStatus())
	assert.Contains(t, strings.ToLower(domainErr.Message), "phone")
}

func TestUpdate_CollectsAllFieldMessages(t *testing.T) {
	svc, _ := newTestService()
	v, err := svc.Create(context.Background(), validCreatePayload())
	require.NoError(t, err)

	upd := payload.UpdateVolunteerPayload{
		Person: &payload.PersonGroup{
			Email: "not-an-email",
			Phones: []payload.Phone{
				{Number: "abc", Type: payload.PhoneTypePersonal},
			},
		},
	}

	_, err = svc.Update(context.Background(), v.ID, upd)

	var domainErr *model.VolunteerError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeInvalidPayload, domainErr.Code)
	assert.Len(t, domainErr.Details(), 2)
}

func TestUpdate_ActiveFlagToggle(t *testing.T) {
	svc, _ := newTestService()
	v, err := svc.Create(context.Background(), validCreatePayload())
	require.NoError(t, err)

	inactive := false
	upd := payload.UpdateVolunteerPayload{
		Attributes: &payload.VolunteerAttrs{Active: &inactive},
	}

	got, err := svc.Update(context.Background(), v.ID, upd)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, v.Email, got.Email)
}

func TestApproveThenReject_Conflicts(t *testing.T) {
	svc, _ := newTestService()
	v, err := svc.Create(context.Background(), validCreatePayload())
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)

	_, err = svc.Reject(context.Background(), v.ID)
	var domainErr *model.VolunteerError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeAlreadyProcessed, domainErr.Code)
}

func TestList_MiniViewPageSize(t *testing.T) {
	svc, _ := newTestService()
	for i := 0; i < 5; i++ {
		p := validCreatePayload()
		p.Person.Email = "v" + string(rune('a'+i)) + "@example.com"
		p.Person.Phones[0].Number = "+506 7000 200" + string(rune('a'+i))
		_, err := svc.Create(context.Background(), p)
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), model.ListRequest{View: "mini"})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 3)
	assert.Equal(t, 5, resp.Stats.Total)
	assert.Equal(t, 2, resp.Page.TotalPages)
}
