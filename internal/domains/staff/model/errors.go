package model

import (
	"errors"
	"net/http"
)

// Error codes
const (
	ErrCodeInvalidCredentials = "STF001"
	ErrCodeAccountDisabled    = "STF002"
	ErrCodeNotFound           = "STF003"
)

// Sentinel errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrNotFound           = errors.New("staff member not found")
)

// StaffError is the domain error type.
type StaffError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *StaffError) Error() string {
	return e.Message
}

func (e *StaffError) Unwrap() error {
	return e.Err
}

func (e *StaffError) HTTPStatus() int {
	return e.Status
}

// NewInvalidCredentialsError deliberately does not reveal whether the email
// or the password was wrong.
func NewInvalidCredentialsError() *StaffError {
	return &StaffError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid email or password",
		Status:  http.StatusUnauthorized,
		Err:     ErrInvalidCredentials,
	}
}

func NewAccountDisabledError() *StaffError {
	return &StaffError{
		Code:    ErrCodeAccountDisabled,
		Message: "This account has been disabled",
		Status:  http.StatusForbidden,
		Err:     ErrAccountDisabled,
	}
}

func NewNotFoundError() *StaffError {
	return &StaffError{
		Code:    ErrCodeNotFound,
		Message: "Staff member not found",
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}
