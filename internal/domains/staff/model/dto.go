package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gin-gonic/gin"

	"fundacion-portal-backend/internal/shared/response"
)

// LoginRequest is the credentials body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
	)
}

// LoginResponse carries the signed token and the authenticated profile.
type LoginResponse struct {
	Token string `json:"token"`
	Staff Staff  `json:"staff"`
}

// HandleStaffError writes the proper error response for a domain error and
// reports whether the request is finished.
func HandleStaffError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *StaffError
	if errors.As(err, &domainErr) {
		response.ErrorResponse(c, domainErr.Status, domainErr.Code, domainErr.Message)
		return true
	}

	response.InternalServerError(c, "Internal server error")
	return true
}
