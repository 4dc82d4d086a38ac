package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gin-gonic/gin"

	"fundacion-portal-backend/internal/shared/forms"
	"fundacion-portal-backend/internal/shared/listquery"
	"fundacion-portal-backend/internal/shared/payload"
	"fundacion-portal-backend/internal/shared/response"
)

// ValidateCreatePayload runs business validation over a full create payload.
func ValidateCreatePayload(p payload.CreateVolunteerPayload) error {
	return validatePerson(p.Person, true)
}

// ValidateUpdatePayload validates a partial update. It collects every field
// failure instead of short-circuiting: the edit flow surfaces all messages
// joined verbatim.
func ValidateUpdatePayload(p payload.UpdateVolunteerPayload) []string {
	if p.Person == nil {
		return nil
	}

	var messages []string
	g := p.Person
	if g.FirstName != "" {
		if err := validation.Validate(g.FirstName, validation.Length(2, 50).Error("first name must be between 2 and 50 characters")); err != nil {
			messages = append(messages, err.Error())
		}
	}
	if g.FirstSurname != "" {
		if err := validation.Validate(g.FirstSurname, validation.Length(2, 50).Error("first surname must be between 2 and 50 characters")); err != nil {
			messages = append(messages, err.Error())
		}
	}
	if g.Email != "" {
		if err := validation.Validate(g.Email, is.Email.Error("invalid email format")); err != nil {
			messages = append(messages, err.Error())
		}
	}
	for _, ph := range g.Phones {
		if err := validatePhone(ph); err != nil {
			messages = append(messages, err.Error())
		}
	}
	return messages
}

func validatePerson(g payload.PersonGroup, create bool) error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.FirstName,
			validation.When(create, validation.Required.Error("first name is required")),
			validation.When(g.FirstName != "", validation.Length(2, 50)),
		),
		validation.Field(&g.FirstSurname,
			validation.When(create, validation.Required.Error("first surname is required")),
			validation.When(g.FirstSurname != "", validation.Length(2, 50)),
		),
		validation.Field(&g.Email,
			validation.When(create, validation.Required.Error("email is required")),
			validation.When(g.Email != "", is.Email.Error("invalid email format"), validation.Length(5, 100)),
		),
		validation.Field(&g.Phones,
			validation.When(create, validation.Required.Error("at least one phone is required")),
			validation.Each(validation.By(func(v interface{}) error {
				ph, ok := v.(payload.Phone)
				if !ok {
					return errors.New("invalid phone entry")
				}
				return validatePhone(ph)
			})),
		),
	)
}

func validatePhone(p payload.Phone) error {
	if p.Number == "" {
		return errors.New("phone number is required")
	}
	if !forms.PhonePattern.MatchString(p.Number) {
		return errors.New("phone number has an invalid format")
	}
	if p.Type != payload.PhoneTypePersonal && p.Type != payload.PhoneTypeBusiness {
		return errors.New("phone type must be personal or business")
	}
	return nil
}

// ListRequest carries the list endpoint's query parameters. Volunteers have
// no category filter; the compact view is the default table.
type ListRequest struct {
	Search string `form:"search"`
	Status string `form:"status"`
	View   string `form:"view"`
	Page   int    `form:"page"`
}

func (r *ListRequest) SetDefaults() {
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Status == "" {
		r.Status = string(listquery.StatusAll)
	}
	if r.View == "" {
		r.View = "compact"
	}
}

func (r ListRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.In("all", "active", "inactive").Error("status must be all, active or inactive"),
		),
		validation.Field(&r.View,
			validation.In("compact", "mini").Error("view must be compact or mini"),
		),
	)
}

// PageSize maps the view to its fixed page size: the full table shows 10,
// the dashboard mini list 3.
func (r ListRequest) PageSize() int {
	if r.View == "mini" {
		return listquery.PageSizeMini
	}
	return listquery.PageSizeCompact
}

// ListResponse is the list endpoint body.
type ListResponse struct {
	Items []Volunteer     `json:"items"`
	Stats listquery.Stats `json:"stats"`
	Page  listquery.Page  `json:"page"`
}

// HandleVolunteerError writes the proper error response for a domain error
// and reports whether the request is finished.
func HandleVolunteerError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *VolunteerError
	if errors.As(err, &domainErr) {
		if len(domainErr.Messages) > 1 {
			response.ErrorWithDetails(c, domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Messages)
			return true
		}
		response.ErrorResponse(c, domainErr.Status, domainErr.Code, domainErr.Message)
		return true
	}

	response.InternalServerError(c, "Internal server error")
	return true
}
