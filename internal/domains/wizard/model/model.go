package model

import (
	"time"

	"fundacion-portal-backend/internal/shared/forms"
	"fundacion-portal-backend/internal/shared/payload"
)

// Wizard domains and flows.
const (
	DomainEntrepreneur = "entrepreneur"
	DomainVolunteer    = "volunteer"

	FlowCreate = "create"
	FlowEdit   = "edit"
)

// Session statuses. Submitting is the disabled-controls window: field edits,
// navigation and (for create flows with staged files) cancellation are all
// refused while it is set. A failed submission lands back on step2 with the
// failure message; success is terminal.
const (
	StatusStep1      = "step1"
	StatusStep2      = "step2"
	StatusSubmitting = "submitting"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
)

// Session is a wizard's full working state. It lives in redis for the
// wizard's lifetime and is discarded whole on success or cancel; it is never
// partially persisted into a record.
type Session struct {
	ID       string `json:"id"`
	Domain   string `json:"domain"`
	Flow     string `json:"flow"`
	RecordID string `json:"record_id,omitempty"`

	Step   int    `json:"step"`
	Status string `json:"status"`

	Form payload.Form `json:"form"`
	// Baseline is the immutable snapshot taken at open time on edit flows,
	// used solely for diffing.
	Baseline payload.Baseline `json:"baseline"`

	// Error is the single current validation error: one message plus the
	// field that produced it, replaced on every validation run and cleared
	// when that field is edited.
	Error *forms.FieldError `json:"error,omitempty"`
	// FailureMessage is the user-facing classification of the last failed
	// submission.
	FailureMessage string `json:"failure_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Editable reports whether the session accepts field mutations. A failed
// session stays editable so the user can correct fields and retry.
func (s *Session) Editable() bool {
	return s.Status == StatusStep1 || s.Status == StatusStep2 || s.Status == StatusFailed
}

// HasStagedFiles reports whether any image slot holds an unpersisted upload.
func (s *Session) HasStagedFiles() bool {
	for _, slot := range s.Form.Slots {
		if slot.State == payload.SlotReplaced {
			return true
		}
	}
	return false
}

// StagedKeys lists the staging keys of every replaced slot, in slot order.
func (s *Session) StagedKeys() []string {
	var keys []string
	for _, slot := range s.Form.Slots {
		if slot.State == payload.SlotReplaced && slot.File != nil {
			keys = append(keys, slot.File.Key)
		}
	}
	return keys
}
