package payload

import (
	"fmt"
	"regexp"
	"strconv"
)

// Phone types.
const (
	PhoneTypePersonal = "personal"
	PhoneTypeBusiness = "business"
)

// Phone is one phone entry of a person group. The first non-blank phone of a
// submission is the primary one, by position rather than user choice.
type Phone struct {
	Number    string `json:"number"`
	Type      string `json:"type"`
	IsPrimary bool   `json:"is_primary"`
}

// PersonGroup is the person field group embedded by value in both record
// payloads. SecondName is a pointer so that a deliberately blanked optional
// field ("clear it") is distinguishable from "no change" (absent).
type PersonGroup struct {
	FirstName     string  `json:"first_name,omitempty"`
	SecondName    *string `json:"second_name,omitempty"`
	FirstSurname  string  `json:"first_surname,omitempty"`
	SecondSurname string  `json:"second_surname,omitempty"`
	Email         string  `json:"email,omitempty"`
	Phones        []Phone `json:"phones,omitempty"`
}

// IsEmpty reports whether every member field is empty/undefined, in which
// case the whole group is omitted from an update payload.
func (g PersonGroup) IsEmpty() bool {
	return g.FirstName == "" &&
		g.SecondName == nil &&
		g.FirstSurname == "" &&
		g.SecondSurname == "" &&
		g.Email == "" &&
		len(g.Phones) == 0
}

// EntrepreneurAttrs is the entrepreneur-specific attribute group.
type EntrepreneurAttrs struct {
	ExperienceYears *int   `json:"experience_years,omitempty"`
	FacebookURL     string `json:"facebook_url,omitempty"`
	InstagramURL    string `json:"instagram_url,omitempty"`
}

func (g EntrepreneurAttrs) IsEmpty() bool {
	return g.ExperienceYears == nil && g.FacebookURL == "" && g.InstagramURL == ""
}

// EntrepreneurshipGroup is the embedded sub-entity of an entrepreneur record.
// The image fields carry either a literal persisted URL or a slot sentinel
// from the ReplaceSentinel vocabulary.
type EntrepreneurshipGroup struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Category    string `json:"category,omitempty"`
	Approach    string `json:"approach,omitempty"`
	Image1      string `json:"image_1,omitempty"`
	Image2      string `json:"image_2,omitempty"`
	Image3      string `json:"image_3,omitempty"`
}

func (g EntrepreneurshipGroup) IsEmpty() bool {
	return g.Name == "" && g.Description == "" && g.Location == "" &&
		g.Category == "" && g.Approach == "" &&
		g.Image1 == "" && g.Image2 == "" && g.Image3 == ""
}

// Image returns the image field for a zero-based slot index.
func (g EntrepreneurshipGroup) Image(slot int) string {
	switch slot {
	case 0:
		return g.Image1
	case 1:
		return g.Image2
	case 2:
		return g.Image3
	}
	return ""
}

// VolunteerAttrs is the volunteer-specific attribute group.
type VolunteerAttrs struct {
	Active *bool `json:"active,omitempty"`
}

func (g VolunteerAttrs) IsEmpty() bool {
	return g.Active == nil
}

// NumImageSlots is the fixed number of entrepreneurship image slots.
const NumImageSlots = 3

var sentinelPattern = regexp.MustCompile(`^__FILE_REPLACE_([0-9])__$`)

// ReplaceSentinel is the reserved literal placed in an image field to signal
// "the real content is the positionally-corresponding entry of the files
// list". The files and their target slots travel in physically separate
// parts of a multipart request, and order alone cannot re-join them when
// fewer than three files are present.
func ReplaceSentinel(slot int) string {
	return fmt.Sprintf("__FILE_REPLACE_%d__", slot)
}

// ParseReplaceSentinel reports whether s is a slot sentinel and which slot
// it addresses.
func ParseReplaceSentinel(s string) (slot int, ok bool) {
	m := sentinelPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	slot, err := strconv.Atoi(m[1])
	if err != nil || slot >= NumImageSlots {
		return 0, false
	}
	return slot, true
}

// CreateEntrepreneurPayload is the full create request body. All three image
// slots must have resolved to files before this can be built.
type CreateEntrepreneurPayload struct {
	Person           PersonGroup           `json:"person"`
	Attributes       EntrepreneurAttrs     `json:"attributes"`
	Entrepreneurship EntrepreneurshipGroup `json:"entrepreneurship"`
}

// UpdateEntrepreneurPayload is the partial update body: every group is
// optional and omitted entirely when untouched, so the backend never
// overwrites untouched groups with empties.
type UpdateEntrepreneurPayload struct {
	Person           *PersonGroup           `json:"person,omitempty"`
	Attributes       *EntrepreneurAttrs     `json:"attributes,omitempty"`
	Entrepreneurship *EntrepreneurshipGroup `json:"entrepreneurship,omitempty"`
}

// IsEmpty reports a no-op update.
func (p UpdateEntrepreneurPayload) IsEmpty() bool {
	return p.Person == nil && p.Attributes == nil && p.Entrepreneurship == nil
}

// CreateVolunteerPayload is the volunteer create body.
type CreateVolunteerPayload struct {
	Person     PersonGroup    `json:"person"`
	Attributes VolunteerAttrs `json:"attributes"`
}

// UpdateVolunteerPayload is the volunteer partial update body.
type UpdateVolunteerPayload struct {
	Person     *PersonGroup    `json:"person,omitempty"`
	Attributes *VolunteerAttrs `json:"attributes,omitempty"`
}

func (p UpdateVolunteerPayload) IsEmpty() bool {
	return p.Person == nil && p.Attributes == nil
}
