package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound         = "ENT001"
	ErrCodeDuplicateEmail   = "ENT002"
	ErrCodeDuplicatePhone   = "ENT003"
	ErrCodeDuplicateVenture = "ENT004"
	ErrCodeInvalidPayload   = "ENT005"
	ErrCodeIncompleteMedia  = "ENT006"
	ErrCodeImageStorage     = "ENT007"
	ErrCodeAlreadyProcessed = "ENT008"
)

// Sentinel errors
var (
	ErrNotFound         = errors.New("entrepreneur not found")
	ErrDuplicateEmail   = errors.New("duplicate email")
	ErrDuplicatePhone   = errors.New("duplicate phone")
	ErrDuplicateVenture = errors.New("duplicate entrepreneurship name")
	ErrAlreadyProcessed = errors.New("record already processed")
)

// EntrepreneurError is the domain error type. Status is the HTTP status the
// failure maps to; the error classifier reads it through HTTPStatus.
type EntrepreneurError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *EntrepreneurError) Error() string {
	return e.Message
}

func (e *EntrepreneurError) Unwrap() error {
	return e.Err
}

func (e *EntrepreneurError) HTTPStatus() int {
	return e.Status
}

// Error constructors

func NewNotFoundError(id string) *EntrepreneurError {
	return &EntrepreneurError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("Entrepreneur %s not found", id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

func NewDuplicateEmailError() *EntrepreneurError {
	return &EntrepreneurError{
		Code:    ErrCodeDuplicateEmail,
		Message: "An entrepreneur with this email is already registered",
		Status:  http.StatusConflict,
		Err:     ErrDuplicateEmail,
	}
}

func NewDuplicatePhoneError() *EntrepreneurError {
	return &EntrepreneurError{
		Code:    ErrCodeDuplicatePhone,
		Message: "An entrepreneur with this phone is already registered",
		Status:  http.StatusConflict,
		Err:     ErrDuplicatePhone,
	}
}

func NewDuplicateVentureError() *EntrepreneurError {
	return &EntrepreneurError{
		Code:    ErrCodeDuplicateVenture,
		Message: "An entrepreneurship with this name is already registered",
		Status:  http.StatusConflict,
		Err:     ErrDuplicateVenture,
	}
}

func NewInvalidPayloadError(reason string) *EntrepreneurError {
	return &EntrepreneurError{
		Code:    ErrCodeInvalidPayload,
		Message: reason,
		Status:  http.StatusBadRequest,
	}
}

func NewIncompleteMediaError(reason string) *EntrepreneurError {
	return &EntrepreneurError{
		Code:    ErrCodeIncompleteMedia,
		Message: reason,
		Status:  http.StatusBadRequest,
	}
}

func NewImageStorageError(err error) *EntrepreneurError {
	return &EntrepreneurError{
		Code:    ErrCodeImageStorage,
		Message: "Failed to store entrepreneurship images",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func NewAlreadyProcessedError() *EntrepreneurError {
	return &EntrepreneurError{
		Code:    ErrCodeAlreadyProcessed,
		Message: "This registration request was already processed",
		Status:  http.StatusConflict,
		Err:     ErrAlreadyProcessed,
	}
}
