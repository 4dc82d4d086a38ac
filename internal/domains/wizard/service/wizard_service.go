package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	entmodel "fundacion-portal-backend/internal/domains/entrepreneur/model"
	volmodel "fundacion-portal-backend/internal/domains/volunteer/model"
	"fundacion-portal-backend/internal/domains/wizard/model"
	"fundacion-portal-backend/internal/domains/wizard/repository"
	"fundacion-portal-backend/internal/shared/classify"
	"fundacion-portal-backend/internal/shared/forms"
	"fundacion-portal-backend/internal/shared/payload"
	"fundacion-portal-backend/pkg/logger"
)

// StagingPrefix is where wizard uploads live until a submission promotes
// them. The sweep job reclaims folders whose session has expired.
const StagingPrefix = "staging/"

// EntrepreneurSubmitter is the slice of the entrepreneur service the wizard
// drives.
type EntrepreneurSubmitter interface {
	Create(ctx context.Context, p payload.CreateEntrepreneurPayload, images [entmodel.NumImages]entmodel.ImageInput) (*entmodel.Entrepreneur, error)
	Update(ctx context.Context, id uuid.UUID, p payload.UpdateEntrepreneurPayload, images map[int]entmodel.ImageInput) (*entmodel.Entrepreneur, error)
	Get(ctx context.Context, id uuid.UUID) (*entmodel.Entrepreneur, error)
}

// VolunteerSubmitter is the slice of the volunteer service the wizard drives.
type VolunteerSubmitter interface {
	Create(ctx context.Context, p payload.CreateVolunteerPayload) (*volmodel.Volunteer, error)
	Update(ctx context.Context, id uuid.UUID, p payload.UpdateVolunteerPayload) (*volmodel.Volunteer, error)
	Get(ctx context.Context, id uuid.UUID) (*volmodel.Volunteer, error)
}

// StagingStore is the slice of object storage the wizard needs for staged
// uploads.
type StagingStore interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	RemoveFolder(ctx context.Context, prefix string) error
}

// ServiceInterface defines the wizard operations.
type ServiceInterface interface {
	Open(ctx context.Context, domain, flow, recordID string) (*model.Session, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	SetField(ctx context.Context, id, field, value string) (*model.Session, error)
	AttachImage(ctx context.Context, id string, slot int, name, contentType string, data []byte) (*model.Session, error)
	ClearImage(ctx context.Context, id string, slot int) (*model.Session, error)
	Next(ctx context.Context, id string) (*model.Session, error)
	Back(ctx context.Context, id string) (*model.Session, error)
	Submit(ctx context.Context, id string) (*model.Session, error)
	Cancel(ctx context.Context, id string) error
}

type wizardService struct {
	sessions       repository.RepositoryInterface
	storage        StagingStore
	entrepreneurs  EntrepreneurSubmitter
	volunteers     VolunteerSubmitter
	maxUploadBytes int64
}

// NewWizardService wires the wizard state machine.
func NewWizardService(
	sessions repository.RepositoryInterface,
	storage StagingStore,
	entrepreneurs EntrepreneurSubmitter,
	volunteers VolunteerSubmitter,
	maxUploadBytes int64,
) ServiceInterface {
	return &wizardService{
		sessions:       sessions,
		storage:        storage,
		entrepreneurs:  entrepreneurs,
		volunteers:     volunteers,
		maxUploadBytes: maxUploadBytes,
	}
}

func (s *wizardService) Open(ctx context.Context, domain, flow, recordID string) (*model.Session, error) {
	if domain != model.DomainEntrepreneur && domain != model.DomainVolunteer {
		return nil, model.NewInvalidRequestError("unknown wizard domain")
	}
	if flow != model.FlowCreate && flow != model.FlowEdit {
		return nil, model.NewInvalidRequestError("unknown wizard flow")
	}
	if flow == model.FlowEdit && recordID == "" {
		return nil, model.NewInvalidRequestError("edit wizards require a record id")
	}
	if flow == model.FlowCreate && recordID != "" {
		return nil, model.NewInvalidRequestError("create wizards take no record id")
	}

	session := &model.Session{
		ID:        uuid.NewString(),
		Domain:    domain,
		Flow:      flow,
		RecordID:  recordID,
		Step:      1,
		Status:    model.StatusStep1,
		Form:      payload.Form{Values: map[string]string{}},
		CreatedAt: time.Now().UTC(),
	}

	if flow == model.FlowEdit {
		if err := s.prefill(ctx, session); err != nil {
			return nil, err
		}
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	logger.Info("wizard opened", map[string]interface{}{
		"session": session.ID,
		"domain":  domain,
		"flow":    flow,
	})
	return session, nil
}

func (s *wizardService) Get(ctx context.Context, id string) (*model.Session, error) {
	return s.load(ctx, id)
}

func (s *wizardService) SetField(ctx context.Context, id, field, value string) (*model.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Editable() {
		return nil, notEditable(session)
	}
	if !model.KnownField(session.Domain, field) {
		return nil, model.NewInvalidRequestError(fmt.Sprintf("unknown field %q", field))
	}

	session.Form.Values[field] = value
	// Editing the offending field clears the current validation error;
	// editing any field after a failed submission clears the failure banner.
	if session.Error != nil && session.Error.Field == field {
		session.Error = nil
	}
	s.clearFailure(session)

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *wizardService) AttachImage(ctx context.Context, id string, slot int, name, contentType string, data []byte) (*model.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Editable() {
		return nil, notEditable(session)
	}
	if session.Domain != model.DomainEntrepreneur {
		return nil, model.NewInvalidRequestError("this wizard has no image slots")
	}
	if slot < 0 || slot >= payload.NumImageSlots {
		return nil, model.NewInvalidRequestError("image slot out of range")
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, model.NewUploadTooLargeError(s.maxUploadBytes)
	}

	key := stagingKey(session.ID, slot)
	if _, err := s.storage.UploadBytes(ctx, key, data, contentType); err != nil {
		return nil, model.NewStorageFailureError(err)
	}

	released := session.Form.Slots[slot].SetFile(payload.StagedFile{
		Key:         key,
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
	})
	if released != "" {
		if err := s.storage.Delete(ctx, released); err != nil {
			logger.Warn("staged object release failed", map[string]interface{}{
				"key":   released,
				"error": err.Error(),
			})
		}
	}

	field := payload.ImageField(slot)
	if session.Error != nil && session.Error.Field == field {
		session.Error = nil
	}
	s.clearFailure(session)

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *wizardService) ClearImage(ctx context.Context, id string, slot int) (*model.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Editable() {
		return nil, notEditable(session)
	}
	if slot < 0 || slot >= payload.NumImageSlots {
		return nil, model.NewInvalidRequestError("image slot out of range")
	}

	released := session.Form.Slots[slot].Clear()
	if released != "" {
		if err := s.storage.Delete(ctx, released); err != nil {
			logger.Warn("staged object release failed", map[string]interface{}{
				"key":   released,
				"error": err.Error(),
			})
		}
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *wizardService) Next(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Editable() {
		return nil, notEditable(session)
	}
	if session.Step != 1 {
		return nil, model.NewInvalidRequestError("the wizard is already on its last step")
	}

	if fieldErr := s.validateStep(session); fieldErr != nil {
		session.Error = fieldErr
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	session.Error = nil
	session.Step = 2
	session.Status = model.StatusStep2
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *wizardService) Back(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Editable() {
		return nil, notEditable(session)
	}
	if session.Step != 2 {
		return nil, model.NewInvalidRequestError("the wizard is already on its first step")
	}

	// Backward navigation never validates and never loses state.
	session.Step = 1
	session.Status = model.StatusStep1
	session.Error = nil
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *wizardService) Submit(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == model.StatusSubmitting {
		return nil, model.NewSubmitInProgressError()
	}
	if session.Step != 2 || !session.Editable() {
		return nil, notEditable(session)
	}

	if fieldErr := s.validateStep(session); fieldErr != nil {
		session.Error = fieldErr
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}
	session.Error = nil

	// The submitting window: persisted before the backend call so every
	// concurrent request observes the disabled state.
	session.Status = model.StatusSubmitting
	session.FailureMessage = ""
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	resultID, submitErr := s.dispatch(ctx, session)
	if submitErr != nil {
		result := classify.FromError(submitErr, classify.Options{
			VerbatimDetails: session.Domain == model.DomainVolunteer && session.Flow == model.FlowEdit,
		})
		session.Status = model.StatusFailed
		session.Step = 2
		session.FailureMessage = result.Message
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		logger.Warn("wizard submission failed", map[string]interface{}{
			"session":  session.ID,
			"category": string(result.Category),
		})
		return session, nil
	}

	session.Status = model.StatusSuccess
	session.RecordID = resultID
	// The session and any staging leftovers are discarded whole; promoted
	// objects already moved out of the staging folder.
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		logger.Warn("session cleanup failed", map[string]interface{}{"session": session.ID})
	}
	if err := s.storage.RemoveFolder(ctx, StagingPrefix+session.ID+"/"); err != nil {
		logger.Warn("staging cleanup failed", map[string]interface{}{"session": session.ID})
	}
	logger.Info("wizard submitted", map[string]interface{}{
		"session": session.ID,
		"record":  resultID,
	})
	return session, nil
}

func (s *wizardService) Cancel(ctx context.Context, id string) error {
	session, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	// Mid-submit cancellation would race the backend call on a create flow
	// holding staged files: the submission may still succeed and promote
	// them, so the wizard refuses to tear anything down.
	if session.Status == model.StatusSubmitting && session.Flow == model.FlowCreate && session.HasStagedFiles() {
		return model.NewCancelBlockedError()
	}

	if err := s.storage.RemoveFolder(ctx, StagingPrefix+session.ID+"/"); err != nil {
		logger.Warn("staging cleanup failed", map[string]interface{}{"session": session.ID})
	}
	return s.sessions.Delete(ctx, session.ID)
}

func (s *wizardService) load(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if err == model.ErrSessionNotFound {
			return nil, model.NewSessionNotFoundError()
		}
		return nil, err
	}
	if session.Form.Values == nil {
		session.Form.Values = map[string]string{}
	}
	return session, nil
}

// validateStep runs the current step's field schema over the form. Fields
// never touched read as undefined (nil), letting required rules fire.
func (s *wizardService) validateStep(session *model.Session) *forms.FieldError {
	specs := model.Schema(session.Domain, session.Flow, session.Step)
	return forms.ValidateSet(specs, func(name string) interface{} {
		if slot, ok := imageSlotFor(name); ok {
			return session.Form.Slots[slot].FormValue()
		}
		if !session.Form.Defined(name) {
			return ""
		}
		return session.Form.Value(name)
	})
}

func (s *wizardService) clearFailure(session *model.Session) {
	if session.Status == model.StatusFailed {
		session.Status = model.StatusStep2
	}
	session.FailureMessage = ""
}

func (s *wizardService) prefill(ctx context.Context, session *model.Session) error {
	switch session.Domain {
	case model.DomainEntrepreneur:
		id, err := uuid.Parse(session.RecordID)
		if err != nil {
			return model.NewInvalidRequestError("invalid record id")
		}
		e, err := s.entrepreneurs.Get(ctx, id)
		if err != nil {
			return err
		}
		prefillPerson(session, e.FirstName, e.SecondName, e.FirstSurname, e.SecondSurname, e.Email, personPhones(e.Phones))
		session.Form.Values[payload.FieldExperienceYears] = strconv.Itoa(e.ExperienceYears)
		session.Form.Values[payload.FieldFacebookURL] = e.FacebookURL
		session.Form.Values[payload.FieldInstagramURL] = e.InstagramURL
		session.Form.Values[payload.FieldEntrepreneurshipName] = e.Entrepreneurship.Name
		session.Form.Values[payload.FieldDescription] = e.Entrepreneurship.Description
		session.Form.Values[payload.FieldLocation] = e.Entrepreneurship.Location
		session.Form.Values[payload.FieldCategory] = e.Entrepreneurship.Category
		session.Form.Values[payload.FieldApproach] = e.Entrepreneurship.Approach
		for slot := 0; slot < payload.NumImageSlots; slot++ {
			url := e.Entrepreneurship.Images[slot]
			session.Form.Slots[slot] = payload.KeptSlot(url)
			session.Baseline.Images[slot] = url
		}
	case model.DomainVolunteer:
		id, err := uuid.Parse(session.RecordID)
		if err != nil {
			return model.NewInvalidRequestError("invalid record id")
		}
		v, err := s.volunteers.Get(ctx, id)
		if err != nil {
			return err
		}
		prefillPerson(session, v.FirstName, v.SecondName, v.FirstSurname, v.SecondSurname, v.Email, volunteerPhones(v.Phones))
		session.Form.Values[payload.FieldActive] = strconv.FormatBool(v.IsActive)
	}
	return nil
}

func (s *wizardService) dispatch(ctx context.Context, session *model.Session) (string, error) {
	switch {
	case session.Domain == model.DomainEntrepreneur && session.Flow == model.FlowCreate:
		p, files, err := payload.BuildCreateEntrepreneur(session.Form)
		if err != nil {
			return "", entmodel.NewIncompleteMediaError(err.Error())
		}
		var images [entmodel.NumImages]entmodel.ImageInput
		for i, f := range files {
			images[i] = entmodel.ImageInput{StagedKey: f.Key, Name: f.Name, ContentType: f.ContentType}
		}
		e, err := s.entrepreneurs.Create(ctx, p, images)
		if err != nil {
			return "", err
		}
		return e.ID.String(), nil

	case session.Domain == model.DomainEntrepreneur && session.Flow == model.FlowEdit:
		id, err := uuid.Parse(session.RecordID)
		if err != nil {
			return "", model.NewInvalidRequestError("invalid record id")
		}
		p, files := payload.BuildUpdateEntrepreneur(session.Form, session.Baseline)
		images := map[int]entmodel.ImageInput{}
		next := 0
		for slot := 0; slot < payload.NumImageSlots; slot++ {
			if session.Form.Slots[slot].State != payload.SlotReplaced {
				continue
			}
			f := files[next]
			next++
			images[slot] = entmodel.ImageInput{StagedKey: f.Key, Name: f.Name, ContentType: f.ContentType}
		}
		e, err := s.entrepreneurs.Update(ctx, id, p, images)
		if err != nil {
			return "", err
		}
		return e.ID.String(), nil

	case session.Domain == model.DomainVolunteer && session.Flow == model.FlowCreate:
		v, err := s.volunteers.Create(ctx, payload.BuildCreateVolunteer(session.Form))
		if err != nil {
			return "", err
		}
		return v.ID.String(), nil

	default:
		id, err := uuid.Parse(session.RecordID)
		if err != nil {
			return "", model.NewInvalidRequestError("invalid record id")
		}
		v, err := s.volunteers.Update(ctx, id, payload.BuildUpdateVolunteer(session.Form))
		if err != nil {
			return "", err
		}
		return v.ID.String(), nil
	}
}

func prefillPerson(session *model.Session, first, second, firstSur, secondSur, email string, phones []payload.Phone) {
	v := session.Form.Values
	v[payload.FieldFirstName] = first
	v[payload.FieldSecondName] = second
	v[payload.FieldFirstSurname] = firstSur
	v[payload.FieldSecondSurname] = secondSur
	v[payload.FieldEmail] = email
	if len(phones) > 0 {
		v[payload.FieldPhone1] = phones[0].Number
		v[payload.FieldPhone1Type] = phones[0].Type
	}
	if len(phones) > 1 {
		v[payload.FieldPhone2] = phones[1].Number
		v[payload.FieldPhone2Type] = phones[1].Type
	}
}

func personPhones(phones []entmodel.Phone) []payload.Phone {
	out := make([]payload.Phone, len(phones))
	for i, ph := range phones {
		out[i] = payload.Phone{Number: ph.Number, Type: ph.Type, IsPrimary: ph.IsPrimary}
	}
	return out
}

func volunteerPhones(phones []volmodel.Phone) []payload.Phone {
	out := make([]payload.Phone, len(phones))
	for i, ph := range phones {
		out[i] = payload.Phone{Number: ph.Number, Type: ph.Type, IsPrimary: ph.IsPrimary}
	}
	return out
}

// imageSlotFor maps an image field name back to its zero-based slot.
func imageSlotFor(name string) (int, bool) {
	for slot := 0; slot < payload.NumImageSlots; slot++ {
		if payload.ImageField(slot) == name {
			return slot, true
		}
	}
	return 0, false
}

func stagingKey(sessionID string, slot int) string {
	return fmt.Sprintf("%s%s/slot_%d_%s", StagingPrefix, sessionID, slot+1, uuid.NewString()[:8])
}

func notEditable(session *model.Session) *model.WizardError {
	if session.Status == model.StatusSubmitting {
		return model.NewSubmitInProgressError()
	}
	return model.NewNotEditableError()
}
