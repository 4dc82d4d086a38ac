package model

import (
	"time"

	"github.com/google/uuid"

	"fundacion-portal-backend/internal/shared/listquery"
)

// Entrepreneurship categories.
const (
	CategoryCrafts      = "crafts"
	CategoryFood        = "food"
	CategoryFashion     = "fashion"
	CategoryServices    = "services"
	CategoryAgriculture = "agriculture"
	CategoryTechnology  = "technology"
	CategoryOther       = "other"
)

// Entrepreneurship approaches.
const (
	ApproachSocial        = "social"
	ApproachEnvironmental = "environmental"
	ApproachCultural      = "cultural"
)

// Record statuses. Public submissions start pending; staff approval
// activates them.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// NumImages is the fixed number of entrepreneurship image slots.
const NumImages = 3

// Phone is one phone entry of a person. Owned entirely by its person record.
type Phone struct {
	Number    string `json:"number"`
	Type      string `json:"type"` // personal | business
	IsPrimary bool   `json:"is_primary"`
}

// Person holds the name parts, email and phones embedded by value in every
// subject record. At least one phone carries a non-empty number and exactly
// one is primary.
type Person struct {
	FirstName     string  `json:"first_name"`
	SecondName    string  `json:"second_name,omitempty"`
	FirstSurname  string  `json:"first_surname"`
	SecondSurname string  `json:"second_surname,omitempty"`
	Email         string  `json:"email"`
	Phones        []Phone `json:"phones"`
}

// FullName joins the non-empty name parts.
func (p Person) FullName() string {
	parts := []string{p.FirstName, p.SecondName, p.FirstSurname, p.SecondSurname}
	out := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += part
	}
	return out
}

// Entrepreneurship is the sub-entity embedded in an entrepreneur record.
type Entrepreneurship struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Location    string            `json:"location"`
	Category    string            `json:"category"`
	Approach    string            `json:"approach"`
	Images      [NumImages]string `json:"images"`
}

// Entrepreneur is the full subject record.
type Entrepreneur struct {
	ID uuid.UUID `json:"id"`
	Person
	ExperienceYears  int              `json:"experience_years"`
	FacebookURL      string           `json:"facebook_url,omitempty"`
	InstagramURL     string           `json:"instagram_url,omitempty"`
	Entrepreneurship Entrepreneurship `json:"entrepreneurship"`
	Status           string           `json:"status"`
	IsActive         bool             `json:"is_active"`
	RegisteredAt     time.Time        `json:"registered_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

var _ listquery.Item = ListItem{}

// ListItem adapts an Entrepreneur for the list query engine.
type ListItem struct {
	Entrepreneur
}

func (i ListItem) RegisteredAt() time.Time { return i.Entrepreneur.RegisteredAt }

func (i ListItem) SearchFields() []string {
	return []string{i.FullName(), i.Entrepreneurship.Name, i.Email}
}

func (i ListItem) CategoryKey() string { return i.Entrepreneurship.Category }

func (i ListItem) IsActive() bool { return i.Entrepreneur.IsActive }

// ValidCategories lists the accepted category values.
func ValidCategories() []string {
	return []string{CategoryCrafts, CategoryFood, CategoryFashion, CategoryServices, CategoryAgriculture, CategoryTechnology, CategoryOther}
}

// ValidApproaches lists the accepted approach values.
func ValidApproaches() []string {
	return []string{ApproachSocial, ApproachEnvironmental, ApproachCultural}
}
