package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"fundacion-portal-backend/internal/shared/forms"
	"fundacion-portal-backend/internal/shared/listquery"
	"fundacion-portal-backend/internal/shared/payload"
	"fundacion-portal-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ImageInput carries one image for create/update. Exactly one source is set:
// wizard submissions hand over objects already staged in object storage,
// direct API uploads carry the bytes.
type ImageInput struct {
	StagedKey   string
	Content     []byte
	Name        string
	ContentType string
}

// ValidateCreatePayload runs business validation over a full create payload.
// Field-level gating already happened in the wizard; this is the service's
// own defense for direct API callers.
func ValidateCreatePayload(p payload.CreateEntrepreneurPayload) error {
	if err := validatePerson(p.Person, true); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&p.Attributes,
		validation.Field(&p.Attributes.ExperienceYears,
			validation.NotNil.Error("experience years is required"),
			validation.Min(0).Error("experience years must be at least 0"),
			validation.Max(100).Error("experience years must be at most 100"),
		),
		validation.Field(&p.Attributes.FacebookURL,
			validation.When(p.Attributes.FacebookURL != "", is.URL.Error("facebook url is invalid")),
		),
		validation.Field(&p.Attributes.InstagramURL,
			validation.When(p.Attributes.InstagramURL != "", is.URL.Error("instagram url is invalid")),
		),
	); err != nil {
		return err
	}

	return validateEntrepreneurship(p.Entrepreneurship, true)
}

// ValidateUpdatePayload validates only the groups present in a partial
// update.
func ValidateUpdatePayload(p payload.UpdateEntrepreneurPayload) error {
	if p.Person != nil {
		if err := validatePerson(*p.Person, false); err != nil {
			return err
		}
	}
	if p.Attributes != nil {
		attrs := p.Attributes
		if err := validation.ValidateStruct(attrs,
			validation.Field(&attrs.ExperienceYears,
				validation.When(attrs.ExperienceYears != nil,
					validation.Min(0).Error("experience years must be at least 0"),
					validation.Max(100).Error("experience years must be at most 100"),
				),
			),
		); err != nil {
			return err
		}
	}
	if p.Entrepreneurship != nil {
		if err := validateEntrepreneurship(*p.Entrepreneurship, false); err != nil {
			return err
		}
	}
	return nil
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
			validation.Each(validation.By(validatePhone)),
		),
	)
}

func validatePhone(value interface{}) error {
	p, ok := value.(payload.Phone)
	if !ok {
		return errors.New("invalid phone entry")
	}
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

func validateEntrepreneurship(g payload.EntrepreneurshipGroup, create bool) error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Name,
			validation.When(create, validation.Required.Error("entrepreneurship name is required")),
			validation.When(g.Name != "", validation.Length(3, 100)),
		),
		validation.Field(&g.Description,
			validation.When(create, validation.Required.Error("description is required")),
			validation.When(g.Description != "", validation.Length(10, 500)),
		),
		validation.Field(&g.Location,
			validation.When(create, validation.Required.Error("location is required")),
			validation.When(g.Location != "", validation.Length(3, 100)),
		),
		validation.Field(&g.Category,
			validation.When(create, validation.Required.Error("category is required")),
			validation.When(g.Category != "", validation.In(toInterfaces(ValidCategories())...).Error("unknown category")),
		),
		validation.Field(&g.Approach,
			validation.When(create, validation.Required.Error("approach is required")),
			validation.When(g.Approach != "", validation.In(toInterfaces(ValidApproaches())...).Error("unknown approach")),
		),
	)
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// ListRequest carries the list endpoint's query parameters.
type ListRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status"`
	View     string `form:"view"`
	Page     int    `form:"page"`
}

// SetDefaults applies the per-screen defaults. Any filter change on the SPA
// resets page to 1; the server treats a missing page the same way.
func (r *ListRequest) SetDefaults() {
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Status == "" {
		r.Status = string(listquery.StatusAll)
	}
	if r.View == "" {
		r.View = "cards"
	}
}

func (r ListRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.In("all", "active", "inactive").Error("status must be all, active or inactive"),
		),
		validation.Field(&r.View,
			validation.In("cards", "table").Error("view must be cards or table"),
		),
		validation.Field(&r.Category,
			validation.When(r.Category != "", validation.In(toInterfaces(ValidCategories())...).Error("unknown category")),
		),
	)
}

// PageSize maps the view to its fixed page size.
func (r ListRequest) PageSize() int {
	if r.View == "table" {
		return listquery.PageSizeTable
	}
	return listquery.PageSizeCards
}

// ListResponse is the list endpoint body.
type ListResponse struct {
	Items []Entrepreneur  `json:"items"`
	Stats listquery.Stats `json:"stats"`
	Page  listquery.Page  `json:"page"`
}

// HandleEntrepreneurError writes the proper error response for a domain
// error and reports whether the request is finished.
func HandleEntrepreneurError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *EntrepreneurError
	if errors.As(err, &domainErr) {
		response.ErrorResponse(c, domainErr.Status, domainErr.Code, domainErr.Message)
		return true
	}

	response.InternalServerError(c, "Internal server error")
	return true
}
