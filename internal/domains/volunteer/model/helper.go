package model

import (
	"time"

	"github.com/google/uuid"

	"fundacion-portal-backend/internal/shared/payload"
)

// NewVolunteerFromCreate builds a fresh record from a full create payload.
// The active flag defaults to true when the payload leaves it unset.
func NewVolunteerFromCreate(p payload.CreateVolunteerPayload) *Volunteer {
	now := time.Now().UTC()

	v := &Volunteer{
		ID:           uuid.New(),
		Person:       personFromGroup(p.Person),
		Status:       StatusPending,
		IsActive:     true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	if p.Attributes.Active != nil {
		v.IsActive = *p.Attributes.Active
	}
	return v
}

// ApplyUpdate merges a partial update. Absent groups leave their fields
// untouched; second name's pointer distinguishes "clear" from "no change".
func (v *Volunteer) ApplyUpdate(p payload.UpdateVolunteerPayload) {
	if p.Person != nil {
		g := p.Person
		if g.FirstName != "" {
			v.FirstName = g.FirstName
		}
		if g.SecondName != nil {
			v.SecondName = *g.SecondName
		}
		if g.FirstSurname != "" {
			v.FirstSurname = g.FirstSurname
		}
		if g.SecondSurname != "" {
			v.SecondSurname = g.SecondSurname
		}
		if g.Email != "" {
			v.Email = g.Email
		}
		if len(g.Phones) > 0 {
			v.Phones = phonesFromGroup(g.Phones)
		}
	}

	if p.Attributes != nil && p.Attributes.Active != nil {
		v.IsActive = *p.Attributes.Active
	}

	v.UpdatedAt = time.Now().UTC()
}

func personFromGroup(g payload.PersonGroup) Person {
	p := Person{
		FirstName:     g.FirstName,
		FirstSurname:  g.FirstSurname,
		SecondSurname: g.SecondSurname,
		Email:         g.Email,
		Phones:        phonesFromGroup(g.Phones),
	}
	if g.SecondName != nil {
		p.SecondName = *g.SecondName
	}
	return p
}

func phonesFromGroup(phones []payload.Phone) []Phone {
	out := make([]Phone, len(phones))
	for i, ph := range phones {
		out[i] = Phone{Number: ph.Number, Type: ph.Type, IsPrimary: ph.IsPrimary}
	}
	return out
}

// ToListItems adapts a slice of records for the list query engine.
func ToListItems(records []Volunteer) []ListItem {
	items := make([]ListItem, len(records))
	for i, r := range records {
		items[i] = ListItem{Volunteer: r}
	}
	return items
}
