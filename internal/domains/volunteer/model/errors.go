package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound         = "VOL001"
	ErrCodeDuplicateEmail   = "VOL002"
	ErrCodeDuplicatePhone   = "VOL003"
	ErrCodeInvalidPayload   = "VOL004"
	ErrCodeAlreadyProcessed = "VOL005"
)

// Sentinel errors
var (
	ErrNotFound         = errors.New("volunteer not found")
	ErrDuplicateEmail   = errors.New("duplicate email")
	ErrDuplicatePhone   = errors.New("duplicate phone")
	ErrAlreadyProcessed = errors.New("record already processed")
)

// VolunteerError is the domain error type. The edit flow may carry several
// field messages at once; Details surfaces them for verbatim joining.
type VolunteerError struct {
	Code     string
	Message  string
	Messages []string
	Status   int
	Err      error
}

func (e *VolunteerError) Error() string {
	return e.Message
}

func (e *VolunteerError) Unwrap() error {
	return e.Err
}

func (e *VolunteerError) HTTPStatus() int {
	return e.Status
}

// Details feeds the verbatim-join option of the error classifier.
func (e *VolunteerError) Details() []string {
	return e.Messages
}

// Error constructors

func NewNotFoundError(id string) *VolunteerError {
	return &VolunteerError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("Volunteer %s not found", id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

func NewDuplicateEmailError() *VolunteerError {
	return &VolunteerError{
		Code:    ErrCodeDuplicateEmail,
		Message: "A volunteer with this email is already registered",
		Status:  http.StatusConflict,
		Err:     ErrDuplicateEmail,
	}
}

func NewDuplicatePhoneError() *VolunteerError {
	return &VolunteerError{
		Code:    ErrCodeDuplicatePhone,
		Message: "A volunteer with this phone is already registered",
		Status:  http.StatusConflict,
		Err:     ErrDuplicatePhone,
	}
}

func NewInvalidPayloadError(messages ...string) *VolunteerError {
	msg := "Please review all fields and try again"
	if len(messages) == 1 {
		msg = messages[0]
	}
	return &VolunteerError{
		Code:     ErrCodeInvalidPayload,
		Message:  msg,
		Messages: messages,
		Status:   http.StatusBadRequest,
	}
}

func NewAlreadyProcessedError() *VolunteerError {
	return &VolunteerError{
		Code:    ErrCodeAlreadyProcessed,
		Message: "This registration request was already processed",
		Status:  http.StatusConflict,
		Err:     ErrAlreadyProcessed,
	}
}
