package payload

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical form field names shared by the wizard schemas and the transforms.
const (
	FieldFirstName     = "first_name"
	FieldSecondName    = "second_name"
	FieldFirstSurname  = "first_surname"
	FieldSecondSurname = "second_surname"
	FieldEmail         = "email"
	FieldPhone1        = "phone_1"
	FieldPhone1Type    = "phone_1_type"
	FieldPhone2        = "phone_2"
	FieldPhone2Type    = "phone_2_type"

	FieldExperienceYears      = "experience_years"
	FieldFacebookURL          = "facebook_url"
	FieldInstagramURL         = "instagram_url"
	FieldEntrepreneurshipName = "entrepreneurship_name"
	FieldDescription          = "description"
	FieldLocation             = "location"
	FieldCategory             = "category"
	FieldApproach             = "approach"

	FieldActive = "active"
)

// ImageField returns the form field name for a zero-based slot index.
func ImageField(slot int) string {
	return fmt.Sprintf("image_%d", slot+1)
}

// Form is a wizard's working state as the transforms see it: scalar values
// keyed by field name, plus the image slots. Presence of a key in Values
// means the field is defined (was prefilled or touched), which is distinct
// from holding an empty string.
type Form struct {
	Values map[string]string        `json:"values"`
	Slots  [NumImageSlots]ImageSlot `json:"slots"`
}

// Value returns the value of a defined field, or "".
func (f Form) Value(name string) string {
	return f.Values[name]
}

// Defined reports whether the field was ever set, including to blank.
func (f Form) Defined(name string) bool {
	_, ok := f.Values[name]
	return ok
}

// Baseline is the immutable snapshot of a record taken at wizard-open time
// on edit flows. It is used solely for diffing and never mutated.
type Baseline struct {
	Images [NumImageSlots]string `json:"images"`
}

// IncompleteMediaError is raised by the create transform when not all image
// slots resolve to files. It blocks submission before any network call.
type IncompleteMediaError struct {
	MissingSlots []int
}

func (e *IncompleteMediaError) Error() string {
	return fmt.Sprintf("create submission requires all %d images, missing slots %v", NumImageSlots, e.MissingSlots)
}

// phones collects the non-blank phone entries of a form, preserving input
// order. The first entry is flagged primary.
func phones(f Form) []Phone {
	raw := []struct{ number, typ string }{
		{f.Value(FieldPhone1), f.Value(FieldPhone1Type)},
		{f.Value(FieldPhone2), f.Value(FieldPhone2Type)},
	}

	var out []Phone
	for _, p := range raw {
		if strings.TrimSpace(p.number) == "" {
			continue
		}
		typ := p.typ
		if typ == "" {
			typ = PhoneTypePersonal
		}
		out = append(out, Phone{
			Number:    strings.TrimSpace(p.number),
			Type:      typ,
			IsPrimary: len(out) == 0,
		})
	}
	return out
}

// createPerson builds the person group for create payloads, where every
// provided field is carried as-is.
func createPerson(f Form) PersonGroup {
	g := PersonGroup{
		FirstName:     f.Value(FieldFirstName),
		FirstSurname:  f.Value(FieldFirstSurname),
		SecondSurname: f.Value(FieldSecondSurname),
		Email:         f.Value(FieldEmail),
		Phones:        phones(f),
	}
	if v := f.Value(FieldSecondName); v != "" {
		g.SecondName = &v
	}
	return g
}

// updatePerson builds the person group for partial updates. Required fields
// are emitted only when truthy ("only overwrite if provided"); the optional
// second name is emitted whenever defined at all, so a deliberate blank
// reaches the server as an explicit clear.
func updatePerson(f Form) *PersonGroup {
	g := PersonGroup{
		FirstName:     f.Value(FieldFirstName),
		FirstSurname:  f.Value(FieldFirstSurname),
		SecondSurname: f.Value(FieldSecondSurname),
		Email:         f.Value(FieldEmail),
		Phones:        phones(f),
	}
	if f.Defined(FieldSecondName) {
		v := f.Value(FieldSecondName)
		g.SecondName = &v
	}
	if g.IsEmpty() {
		return nil
	}
	return &g
}

// BuildCreateEntrepreneur turns a completed create-flow form into the full
// create payload plus its staged files in slot order. All three image slots
// must hold files; kept URLs cannot occur here because nothing is persisted
// yet.
func BuildCreateEntrepreneur(f Form) (CreateEntrepreneurPayload, []StagedFile, error) {
	var missing []int
	for i := 0; i < NumImageSlots; i++ {
		if f.Slots[i].State != SlotReplaced {
			missing = append(missing, i)
		}
	}
	if len(missing) > 0 {
		return CreateEntrepreneurPayload{}, nil, &IncompleteMediaError{MissingSlots: missing}
	}

	files := make([]StagedFile, 0, NumImageSlots)
	ent := EntrepreneurshipGroup{
		Name:        f.Value(FieldEntrepreneurshipName),
		Description: f.Value(FieldDescription),
		Location:    f.Value(FieldLocation),
		Category:    f.Value(FieldCategory),
		Approach:    f.Value(FieldApproach),
	}
	for i := 0; i < NumImageSlots; i++ {
		files = append(files, *f.Slots[i].File)
		setImage(&ent, i, ReplaceSentinel(i))
	}

	p := CreateEntrepreneurPayload{
		Person:           createPerson(f),
		Attributes:       entrepreneurAttrs(f),
		Entrepreneurship: ent,
	}
	return p, files, nil
}

// BuildUpdateEntrepreneur turns an edit-flow form and its baseline into the
// minimal partial-update payload plus the staged files backing any slot
// sentinels, in slot order.
func BuildUpdateEntrepreneur(f Form, baseline Baseline) (UpdateEntrepreneurPayload, []StagedFile) {
	p := UpdateEntrepreneurPayload{
		Person: updatePerson(f),
	}

	if attrs := entrepreneurAttrs(f); !attrs.IsEmpty() {
		p.Attributes = &attrs
	}

	ent := EntrepreneurshipGroup{
		Name:        f.Value(FieldEntrepreneurshipName),
		Description: f.Value(FieldDescription),
		Location:    f.Value(FieldLocation),
		Category:    f.Value(FieldCategory),
		Approach:    f.Value(FieldApproach),
	}

	var files []StagedFile
	for i := 0; i < NumImageSlots; i++ {
		slot := f.Slots[i]
		switch slot.State {
		case SlotReplaced:
			// The binary travels separately; the sentinel lets the receiver
			// correlate it back to this slot.
			files = append(files, *slot.File)
			setImage(&ent, i, ReplaceSentinel(i))
		case SlotKept:
			url := slot.URL
			if url == "" {
				url = baseline.Images[i]
			}
			setImage(&ent, i, url)
		case SlotUnset:
			// Untouched/cleared slots contribute nothing; the server keeps
			// what it has.
		}
	}

	if !ent.IsEmpty() {
		p.Entrepreneurship = &ent
	}

	return p, files
}

// BuildCreateVolunteer turns a completed create-flow form into the volunteer
// create payload. New volunteers start active unless the form says otherwise.
func BuildCreateVolunteer(f Form) CreateVolunteerPayload {
	active := true
	if f.Defined(FieldActive) {
		active = f.Value(FieldActive) == "true"
	}
	return CreateVolunteerPayload{
		Person:     createPerson(f),
		Attributes: VolunteerAttrs{Active: &active},
	}
}

// BuildUpdateVolunteer builds the volunteer partial-update payload.
func BuildUpdateVolunteer(f Form) UpdateVolunteerPayload {
	p := UpdateVolunteerPayload{
		Person: updatePerson(f),
	}
	if f.Defined(FieldActive) {
		active := f.Value(FieldActive) == "true"
		p.Attributes = &VolunteerAttrs{Active: &active}
	}
	return p
}

func entrepreneurAttrs(f Form) EntrepreneurAttrs {
	attrs := EntrepreneurAttrs{
		FacebookURL:  f.Value(FieldFacebookURL),
		InstagramURL: f.Value(FieldInstagramURL),
	}
	if v := strings.TrimSpace(f.Value(FieldExperienceYears)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			attrs.ExperienceYears = &n
		}
	}
	return attrs
}

func setImage(g *EntrepreneurshipGroup, slot int, value string) {
	switch slot {
	case 0:
		g.Image1 = value
	case 1:
		g.Image2 = value
	case 2:
		g.Image3 = value
	}
}
