package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entmodel "fundacion-portal-backend/internal/domains/entrepreneur/model"
	volmodel "fundacion-portal-backend/internal/domains/volunteer/model"
	"fundacion-portal-backend/internal/domains/wizard/model"
	"fundacion-portal-backend/internal/shared/payload"
)

type fakeSessions struct {
	sessions map[string]*model.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[string]*model.Session{}}
}

func (r *fakeSessions) Save(_ context.Context, s *model.Session) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessions) Get(_ context.Context, id string) (*model.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessions) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessions) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.sessions[id]
	return ok, nil
}

type fakeStaging struct {
	objects map[string][]byte
	deletes []string
}

func newFakeStaging() *fakeStaging { return &fakeStaging{objects: map[string][]byte{}} }

func (s *fakeStaging) UploadBytes(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.objects[key] = data
	return key, nil
}

func (s *fakeStaging) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *fakeStaging) RemoveFolder(_ context.Context, prefix string) error {
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			delete(s.objects, k)
		}
	}
	return nil
}

type fakeEntrepreneurs struct {
	createErr error
	updateErr error
	created   *payload.CreateEntrepreneurPayload
	updated   *payload.UpdateEntrepreneurPayload
	images    map[int]entmodel.ImageInput
	record    *entmodel.Entrepreneur
}

func (f *fakeEntrepreneurs) Create(_ context.Context, p payload.CreateEntrepreneurPayload, images [entmodel.NumImages]entmodel.ImageInput) (*entmodel.Entrepreneur, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &p
	f.images = map[int]entmodel.ImageInput{}
	for i, img := range images {
		f.images[i] = img
	}
	return &entmodel.Entrepreneur{ID: uuid.New()}, nil
}

func (f *fakeEntrepreneurs) Update(_ context.Context, id uuid.UUID, p payload.UpdateEntrepreneurPayload, images map[int]entmodel.ImageInput) (*entmodel.Entrepreneur, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = &p
	f.images = images
	return &entmodel.Entrepreneur{ID: id}, nil
}

func (f *fakeEntrepreneurs) Get(_ context.Context, id uuid.UUID) (*entmodel.Entrepreneur, error) {
	if f.record == nil {
		return nil, entmodel.NewNotFoundError(id.String())
	}
	return f.record, nil
}

type fakeVolunteers struct {
	createErr error
	updateErr error
	created   *payload.CreateVolunteerPayload
	updated   *payload.UpdateVolunteerPayload
	record    *volmodel.Volunteer
}

func (f *fakeVolunteers) Create(_ context.Context, p payload.CreateVolunteerPayload) (*volmodel.Volunteer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &p
	return &volmodel.Volunteer{ID: uuid.New()}, nil
}

func (f *fakeVolunteers) Update(_ context.Context, id uuid.UUID, p payload.UpdateVolunteerPayload) (*volmodel.Volunteer, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = &p
	return &volmodel.Volunteer{ID: id}, nil
}

func (f *fakeVolunteers) Get(_ context.Context, id uuid.UUID) (*volmodel.Volunteer, error) {
	if f.record == nil {
		return nil, volmodel.NewNotFoundError(id.String())
	}
	return f.record, nil
}

type fixture struct {
	svc      ServiceInterface
	sessions *fakeSessions
	staging  *fakeStaging
	ents     *fakeEntrepreneurs
	vols     *fakeVolunteers
}

func newFixture() *fixture {
	sessions := newFakeSessions()
	staging := newFakeStaging()
	ents := &fakeEntrepreneurs{}
	vols := &fakeVolunteers{}
	return &fixture{
		svc:      NewWizardService(sessions, staging, ents, vols, 5<<20),
		sessions: sessions,
		staging:  staging,
		ents:     ents,
		vols:     vols,
	}
}

func fillStep1(t *testing.T, fx *fixture, id string) {
	t.Helper()
	fields := map[string]string{
		payload.FieldFirstName:    "Laura",
		payload.FieldFirstSurname: "Mora",
		payload.FieldEmail:        "laura@example.com",
		payload.FieldPhone1:       "+506 8888 0001",
	}
	for field, value := range fields {
		_, err := fx.svc.SetField(context.Background(), id, field, value)
		require.NoError(t, err)
	}
}

func fillEntrepreneurStep2(t *testing.T, fx *fixture, id string) {
	t.Helper()
	fields := map[string]string{
		payload.FieldExperienceYears:      "4",
		payload.FieldEntrepreneurshipName: "Café del Bosque",
		payload.FieldDescription:          "Shade-grown coffee from a family farm",
		payload.FieldLocation:             "Pérez Zeledón",
		payload.FieldCategory:             "food",
		payload.FieldApproach:             "environmental",
	}
	for field, value := range fields {
		_, err := fx.svc.SetField(context.Background(), id, field, value)
		require.NoError(t, err)
	}
}

func attachAllImages(t *testing.T, fx *fixture, id string) {
	t.Helper()
	for slot := 0; slot < payload.NumImageSlots; slot++ {
		_, err := fx.svc.AttachImage(context.Background(), id, slot, "photo.jpg", "image/jpeg", []byte{0xFF, 0xD8})
		require.NoError(t, err)
	}
}

func TestOpen_CreateStartsAtStep1(t *testing.T) {
	fx := newFixture()

	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowCreate, "")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Step)
	assert.Equal(t, model.StatusStep1, s.Status)
	assert.Empty(t, s.Form.Values)
}

func TestOpen_EditPrefillsFromRecord(t *testing.T) {
	fx := newFixture()
	recordID := uuid.New()
	fx.ents.record = &entmodel.Entrepreneur{
		ID: recordID,
		Person: entmodel.Person{
			FirstName:    "Rosa",
			FirstSurname: "Vargas",
			Email:        "rosa@example.com",
			Phones:       []entmodel.Phone{{Number: "+506 8888 0002", Type: "personal", IsPrimary: true}},
		},
		ExperienceYears: 7,
		Entrepreneurship: entmodel.Entrepreneurship{
			Name:   "Miel del Norte",
			Images: [3]string{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg", "https://cdn.test/c.jpg"},
		},
	}

	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowEdit, recordID.String())
	require.NoError(t, err)

	assert.Equal(t, "Rosa", s.Form.Value(payload.FieldFirstName))
	assert.Equal(t, "7", s.Form.Value(payload.FieldExperienceYears))
	for slot := 0; slot < payload.NumImageSlots; slot++ {
		assert.Equal(t, payload.SlotKept, s.Form.Slots[slot].State)
		assert.Equal(t, fx.ents.record.Entrepreneurship.Images[slot], s.Baseline.Images[slot])
	}
}

func TestNext_GatesOnFirstFailingField(t *testing.T) {
	fx := newFixture()
	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowCreate, "")
	require.NoError(t, err)

	got, err := fx.svc.Next(context.Background(), s.ID)
	require.NoError(t, err)

	// Schema order: first name is the first required field.
	require.NotNil(t, got.Error)
	assert.Equal(t, payload.FieldFirstName, got.Error.Field)
	assert.Equal(t, 1, got.Step)
}

func TestSetField_ClearsErrorForThatFieldOnly(t *testing.T) {
	fx := newFixture()
	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowCreate, "")
	require.NoError(t, err)
	got, err := fx.svc.Next(context.Background(), s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Error)

	// Editing an unrelated field keeps the error.
	got, err = fx.svc.SetField(context.Background(), s.ID, payload.FieldEmail, "laura@example.com")
	require.NoError(t, err)
	assert.NotNil(t, got.Error)

	// Editing the offending field clears it.
	got, err = fx.svc.SetField(context.Background(), s.ID, payload.FieldFirstName, "Laura")
	require.NoError(t, err)
	assert.Nil(t, got.Error)
}

func TestNext_AdvancesWhenStepValid(t *testing.T) {
	fx := newFixture()
	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowCreate, "")
	require.NoError(t, err)
	fillStep1(t, fx, s.ID)

	got, err := fx.svc.Next(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, got.Step)
	assert.Equal(t, model.StatusStep2, got.Status)
	assert.Nil(t, got.Error)
}

func TestBack_NeverValidates(t *testing.T) {
	fx := newFixture()
	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowCreate, "")
	require.NoError(t, err)
	fillStep1(t, fx, s.ID)
	_, err = fx.svc.Next(context.Background(), s.ID)
	require.NoError(t, err)

	// Step 2 is completely unfilled, Back must still succeed.
	got, err := fx.svc.Back(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Step)
	assert.Equal(t, "Laura", got.Form.Value(payload.FieldFirstName))
}

func TestAttachImage_ReplacesAndReleasesExactlyOnce(t *testing.T) {
	fx := newFixture()
	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowCreate, "")
	require.NoError(t, err)

	first, err := fx.svc.AttachImage(context.Background(), s.ID, 0, "one.jpg", "image/jpeg", []byte{1})
	require.NoError(t, err)
	firstKey := first.Form.Slots[0].File.Key

	second, err := fx.svc.AttachImage(context.Background(), s.ID, 0, "two.jpg", "image/jpeg", []byte{2})
	require.NoError(t, err)

	assert.NotEqual(t, firstKey, second.Form.Slots[0].File.Key)
	assert.Equal(t, []string{firstKey}, fx.staging.deletes)
	assert.Len(t, fx.staging.objects, 1)
}

func TestSubmit_CreateEntrepreneurHappyPath(t *testing.T) {
	fx := newFixture()
	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowCreate, "")
	require.NoError(t, err)
	fillStep1(t, fx, s.ID)
	_, err = fx.svc.Next(context.Background(), s.ID)
	require.NoError(t, err)
	fillEntrepreneurStep2(t, fx, s.ID)
	attachAllImages(t, fx, s.ID)

	got, err := fx.svc.Submit(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusSuccess, got.Status)
	assert.NotEmpty(t, got.RecordID)
	require.NotNil(t, fx.ents.created)
	// The wire payload carries sentinels, never binaries, in image fields.
	for slot := 0; slot < payload.NumImageSlots; slot++ {
		assert.Equal(t, payload.ReplaceSentinel(slot), fx.ents.created.Entrepreneurship.Image(slot))
		assert.NotEmpty(t, fx.receivedImage(slot).StagedKey)
	}
	// Session discarded whole.
	_, err = fx.svc.Get(context.Background(), s.ID)
	require.Error(t, err)
}

func TestSubmit_MissingImagesBlockedBeforeBackendCall(t *testing.T) {
	fx := newFixture()
	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowCreate, "")
	require.NoError(t, err)
	fillStep1(t, fx, s.ID)
	_, err = fx.svc.Next(context.Background(), s.ID)
	require.NoError(t, err)
	fillEntrepreneurStep2(t, fx, s.ID)
	// Only two of three images attached.
	for slot := 0; slot < 2; slot++ {
		_, err := fx.svc.AttachImage(context.Background(), s.ID, slot, "p.jpg", "image/jpeg", []byte{1})
		require.NoError(t, err)
	}

	got, err := fx.svc.Submit(context.Background(), s.ID)
	require.NoError(t, err)

	require.NotNil(t, got.Error)
	assert.Equal(t, payload.ImageField(2), got.Error.Field)
	assert.Nil(t, fx.ents.created, "backend must not be called")
}

func TestSubmit_FailureReturnsToStep2WithMessage(t *testing.T) {
	fx := newFixture()
	fx.ents.createErr = entmodel.NewDuplicateEmailError()
	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowCreate, "")
	require.NoError(t, err)
	fillStep1(t, fx, s.ID)
	_, err = fx.svc.Next(context.Background(), s.ID)
	require.NoError(t, err)
	fillEntrepreneurStep2(t, fx, s.ID)
	attachAllImages(t, fx, s.ID)

	got, err := fx.svc.Submit(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusFailed, got.Status)
	assert.Equal(t, 2, got.Step)
	assert.Equal(t, "A record with this email address already exists.", got.FailureMessage)

	// The user can still edit and retry.
	after, err := fx.svc.SetField(context.Background(), s.ID, payload.FieldEmail, "new@example.com")
	require.NoError(t, err)
	assert.Empty(t, after.FailureMessage)
	assert.Equal(t, model.StatusStep2, after.Status)

	fx.ents.createErr = nil
	final, err := fx.svc.Submit(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, final.Status)
}

func TestSubmit_EditVolunteerJoinsVerbatimMessages(t *testing.T) {
	fx := newFixture()
	recordID := uuid.New()
	fx.vols.record = &volmodel.Volunteer{
		ID: recordID,
		Person: volmodel.Person{
			FirstName:    "Pedro",
			FirstSurname: "Campos",
			Email:        "pedro@example.com",
			Phones:       []volmodel.Phone{{Number: "+506 8888 0003", Type: "personal", IsPrimary: true}},
		},
		IsActive: true,
	}
	fx.vols.updateErr = volmodel.NewInvalidPayloadError("first name is too short", "invalid email format")

	s, err := fx.svc.Open(context.Background(), model.DomainVolunteer, model.FlowEdit, recordID.String())
	require.NoError(t, err)
	_, err = fx.svc.Next(context.Background(), s.ID)
	require.NoError(t, err)

	got, err := fx.svc.Submit(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusFailed, got.Status)
	assert.Equal(t, "first name is too short. invalid email format", got.FailureMessage)
}

func TestSubmit_EditKeepsUntouchedSlots(t *testing.T) {
	fx := newFixture()
	recordID := uuid.New()
	fx.ents.record = &entmodel.Entrepreneur{
		ID: recordID,
		Person: entmodel.Person{
			FirstName:    "Rosa",
			FirstSurname: "Vargas",
			Email:        "rosa@example.com",
			Phones:       []entmodel.Phone{{Number: "+506 8888 0002", Type: "personal", IsPrimary: true}},
		},
		ExperienceYears: 7,
		Entrepreneurship: entmodel.Entrepreneurship{
			Name:     "Miel del Norte",
			Category: "food",
			Approach: "social",
			Images:   [3]string{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg", "https://cdn.test/c.jpg"},
		},
	}

	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowEdit, recordID.String())
	require.NoError(t, err)
	_, err = fx.svc.Next(context.Background(), s.ID)
	require.NoError(t, err)
	// Replace only the middle image.
	_, err = fx.svc.AttachImage(context.Background(), s.ID, 1, "new.jpg", "image/jpeg", []byte{9})
	require.NoError(t, err)

	got, err := fx.svc.Submit(context.Background(), s.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusSuccess, got.Status)

	require.NotNil(t, fx.ents.updated)
	ent := fx.ents.updated.Entrepreneurship
	require.NotNil(t, ent)
	assert.Equal(t, "https://cdn.test/a.jpg", ent.Image(0))
	assert.Equal(t, payload.ReplaceSentinel(1), ent.Image(1))
	assert.Equal(t, "https://cdn.test/c.jpg", ent.Image(2))
	assert.Len(t, fx.ents.images, 1)
}

func TestCancel_BlockedWhileSubmittingCreateWithStagedFiles(t *testing.T) {
	fx := newFixture()
	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowCreate, "")
	require.NoError(t, err)
	_, err = fx.svc.AttachImage(context.Background(), s.ID, 0, "p.jpg", "image/jpeg", []byte{1})
	require.NoError(t, err)

	// Force the persisted submitting window.
	stored := fx.sessions.sessions[s.ID]
	stored.Status = model.StatusSubmitting

	err = fx.svc.Cancel(context.Background(), s.ID)
	var wizErr *model.WizardError
	require.ErrorAs(t, err, &wizErr)
	assert.Equal(t, model.ErrCodeCancelBlocked, wizErr.Code)

	// Edits are refused during the same window.
	_, err = fx.svc.SetField(context.Background(), s.ID, payload.FieldFirstName, "X")
	require.ErrorAs(t, err, &wizErr)
	assert.Equal(t, model.ErrCodeSubmitInProgress, wizErr.Code)

	// Duplicate submit conflicts too.
	_, err = fx.svc.Submit(context.Background(), s.ID)
	require.ErrorAs(t, err, &wizErr)
	assert.Equal(t, model.ErrCodeSubmitInProgress, wizErr.Code)
}

func TestCancel_RemovesStagingAndSession(t *testing.T) {
	fx := newFixture()
	s, err := fx.svc.Open(context.Background(), model.DomainEntrepreneur, model.FlowCreate, "")
	require.NoError(t, err)
	_, err = fx.svc.AttachImage(context.Background(), s.ID, 0, "p.jpg", "image/jpeg", []byte{1})
	require.NoError(t, err)
	require.NotEmpty(t, fx.staging.objects)

	require.NoError(t, fx.svc.Cancel(context.Background(), s.ID))

	assert.Empty(t, fx.staging.objects)
	_, err = fx.svc.Get(context.Background(), s.ID)
	require.Error(t, err)
}

func TestSetField_UnknownFieldRejected(t *testing.T) {
	fx := newFixture()
	s, err := fx.svc.Open(context.Background(), model.DomainVolunteer, model.FlowCreate, "")
	require.NoError(t, err)

	_, err = fx.svc.SetField(context.Background(), s.ID, "entrepreneurship_name", "x")

	var wizErr *model.WizardError
	require.ErrorAs(t, err, &wizErr)
	assert.Equal(t, model.ErrCodeInvalidRequest, wizErr.Code)
}

// receivedImage returns the ImageInput the backend call received for a slot.
func (fx *fixture) receivedImage(slot int) entmodel.ImageInput {
	return fx.ents.images[slot]
}
