package model

import (
	"time"

	"github.com/google/uuid"

	"fundacion-portal-backend/internal/shared/listquery"
)

// Record statuses. Public submissions start pending; staff approval
// activates them.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Phone is one phone entry of a person.
type Phone struct {
	Number    string `json:"number"`
	Type      string `json:"type"` // personal | business
	IsPrimary bool   `json:"is_primary"`
}

// Person holds the name parts, email and phones embedded by value in the
// volunteer record.
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

// Volunteer is the full subject record. Unlike entrepreneurs it carries no
// sub-entity: the active flag is its only domain attribute.
type Volunteer struct {
	ID uuid.UUID `json:"id"`
	Person
	Status       string    `json:"status"`
	IsActive     bool      `json:"is_active"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var _ listquery.Item = ListItem{}

// ListItem adapts a Volunteer for the list query engine. Volunteers have no
// categories, so CategoryKey is always empty.
type ListItem struct {
	Volunteer
}

func (i ListItem) RegisteredAt() time.Time { return i.Volunteer.RegisteredAt }

func (i ListItem) SearchFields() []string {
	return []string{i.FullName(), i.Email}
}

func (i ListItem) CategoryKey() string { return "" }

func (i ListItem) IsActive() bool { return i.Volunteer.IsActive }
