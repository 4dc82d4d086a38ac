package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeSessionNotFound  = "WIZ001"
	ErrCodeInvalidRequest   = "WIZ002"
	ErrCodeNotEditable      = "WIZ003"
	ErrCodeValidationFailed = "WIZ004"
	ErrCodeSubmitInProgress = "WIZ005"
	ErrCodeCancelBlocked    = "WIZ006"
	ErrCodeUploadTooLarge   = "WIZ007"
	ErrCodeStorageFailure   = "WIZ008"
)

// Sentinel errors
var (
	ErrSessionNotFound  = errors.New("wizard session not found")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrCancelBlocked    = errors.New("cancellation blocked during submission")
)

// WizardError is the domain error type.
type WizardError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *WizardError) Error() string {
	return e.Message
}

func (e *WizardError) Unwrap() error {
	return e.Err
}

func (e *WizardError) HTTPStatus() int {
	return e.Status
}

// Error constructors

func NewSessionNotFoundError() *WizardError {
	return &WizardError{
		Code:    ErrCodeSessionNotFound,
		Message: "Wizard session not found or expired",
		Status:  http.StatusNotFound,
		Err:     ErrSessionNotFound,
	}
}

func NewInvalidRequestError(reason string) *WizardError {
	return &WizardError{
		Code:    ErrCodeInvalidRequest,
		Message: reason,
		Status:  http.StatusBadRequest,
	}
}

func NewNotEditableError() *WizardError {
	return &WizardError{
		Code:    ErrCodeNotEditable,
		Message: "The wizard cannot be modified in its current state",
		Status:  http.StatusConflict,
	}
}

func NewSubmitInProgressError() *WizardError {
	return &WizardError{
		Code:    ErrCodeSubmitInProgress,
		Message: "A submission is already in progress",
		Status:  http.StatusConflict,
		Err:     ErrSubmitInProgress,
	}
}

func NewCancelBlockedError() *WizardError {
	return &WizardError{
		Code:    ErrCodeCancelBlocked,
		Message: "The wizard cannot be cancelled while a submission is in progress",
		Status:  http.StatusConflict,
		Err:     ErrCancelBlocked,
	}
}

func NewUploadTooLargeError(maxBytes int64) *WizardError {
	return &WizardError{
		Code:    ErrCodeUploadTooLarge,
		Message: fmt.Sprintf("The uploaded image exceeds the %d byte limit", maxBytes),
		Status:  http.StatusBadRequest,
	}
}

func NewStorageFailureError(err error) *WizardError {
	return &WizardError{
		Code:    ErrCodeStorageFailure,
		Message: "Failed to store the uploaded image",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}
