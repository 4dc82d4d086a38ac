package model

import (
	"fundacion-portal-backend/internal/shared/forms"
	"fundacion-portal-backend/internal/shared/payload"
)

// Field schemas are enumerated per screen, not derived from a shared record
// schema: each domain/flow/step names its fields, labels and rules in the
// order they are validated (and therefore the order errors surface).

var personStep = []forms.FieldSpec{
	{Name: payload.FieldFirstName, Label: "First name", Rule: forms.Rule{Required: true, MinLength: 2, MaxLength: 50}},
	{Name: payload.FieldSecondName, Label: "Second name", Rule: forms.Rule{MaxLength: 50}},
	{Name: payload.FieldFirstSurname, Label: "First surname", Rule: forms.Rule{Required: true, MinLength: 2, MaxLength: 50}},
	{Name: payload.FieldSecondSurname, Label: "Second surname", Rule: forms.Rule{MaxLength: 50}},
	{Name: payload.FieldEmail, Label: "Email", Rule: forms.Rule{Required: true, MinLength: 5, MaxLength: 100, Pattern: forms.EmailPattern}},
	{Name: payload.FieldPhone1, Label: "Primary phone", Rule: forms.Rule{Required: true, MinLength: 8, MaxLength: 20, Pattern: forms.PhonePattern}},
	{Name: payload.FieldPhone2, Label: "Secondary phone", Rule: forms.Rule{MinLength: 8, MaxLength: 20, Pattern: forms.PhonePattern}},
}

func entrepreneurStep2(flow string) []forms.FieldSpec {
	expMin, expMax := forms.IntRange(0, 100)
	specs := []forms.FieldSpec{
		{Name: payload.FieldExperienceYears, Label: "Experience years", Rule: forms.Rule{Required: true, Min: expMin, Max: expMax}},
		{Name: payload.FieldFacebookURL, Label: "Facebook URL", Rule: forms.Rule{MaxLength: 200, Pattern: forms.URLPattern}},
		{Name: payload.FieldInstagramURL, Label: "Instagram URL", Rule: forms.Rule{MaxLength: 200, Pattern: forms.URLPattern}},
		{Name: payload.FieldEntrepreneurshipName, Label: "Entrepreneurship name", Rule: forms.Rule{Required: true, MinLength: 3, MaxLength: 100}},
		{Name: payload.FieldDescription, Label: "Description", Rule: forms.Rule{Required: true, MinLength: 10, MaxLength: 500}},
		{Name: payload.FieldLocation, Label: "Location", Rule: forms.Rule{Required: true, MinLength: 3, MaxLength: 100}},
		{Name: payload.FieldCategory, Label: "Category", Rule: forms.Rule{Required: true}},
		{Name: payload.FieldApproach, Label: "Approach", Rule: forms.Rule{Required: true}},
	}
	// On create every slot must resolve to a file; on edit a kept URL
	// satisfies the same rule, and untouched slots are allowed because the
	// server keeps what it has.
	for slot := 0; slot < payload.NumImageSlots; slot++ {
		specs = append(specs, forms.FieldSpec{
			Name:  payload.ImageField(slot),
			Label: imageLabel(slot),
			Rule:  forms.Rule{Required: flow == FlowCreate, IsFile: true},
		})
	}
	return specs
}

var volunteerStep2 = []forms.FieldSpec{
	{Name: payload.FieldActive, Label: "Active", Rule: forms.Rule{}},
}

// Schema returns the field specs validated when leaving the given step.
func Schema(domain, flow string, step int) []forms.FieldSpec {
	if step == 1 {
		return personStep
	}
	if domain == DomainEntrepreneur {
		return entrepreneurStep2(flow)
	}
	return volunteerStep2
}

// KnownField reports whether a field name belongs to the domain's schema on
// any step. Image slots are excluded: they mutate through the image
// endpoints, not as scalar fields.
func KnownField(domain, name string) bool {
	for _, spec := range personStep {
		if spec.Name == name {
			return true
		}
	}
	// Phone types ride along with their number fields.
	if name == payload.FieldPhone1Type || name == payload.FieldPhone2Type {
		return true
	}
	if domain == DomainEntrepreneur {
		for _, spec := range entrepreneurStep2(FlowCreate) {
			if spec.Name == name && !spec.Rule.IsFile {
				return true
			}
		}
		return false
	}
	for _, spec := range volunteerStep2 {
		if spec.Name == name {
			return true
		}
	}
	return false
}

func imageLabel(slot int) string {
	switch slot {
	case 0:
		return "First"
	case 1:
		return "Second"
	default:
		return "Third"
	}
}
