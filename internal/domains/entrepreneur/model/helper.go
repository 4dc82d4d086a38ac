package model

import (
	"time"

	"github.com/google/uuid"

	"fundacion-portal-backend/internal/shared/payload"
)

// NewEntrepreneurFromCreate builds a fresh record from a full create payload.
// imageURLs must already point at persisted storage objects.
func NewEntrepreneurFromCreate(p payload.CreateEntrepreneurPayload, imageURLs [NumImages]string) *Entrepreneur {
	now := time.Now().UTC()

	e := &Entrepreneur{
		ID:     uuid.New(),
		Person: personFromGroup(p.Person),
		Entrepreneurship: Entrepreneurship{
			Name:        p.Entrepreneurship.Name,
			Description: p.Entrepreneurship.Description,
			Location:    p.Entrepreneurship.Location,
			Category:    p.Entrepreneurship.Category,
			Approach:    p.Entrepreneurship.Approach,
			Images:      imageURLs,
		},
		FacebookURL:  p.Attributes.FacebookURL,
		InstagramURL: p.Attributes.InstagramURL,
		Status:       StatusPending,
		IsActive:     true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	if p.Attributes.ExperienceYears != nil {
		e.ExperienceYears = *p.Attributes.ExperienceYears
	}
	return e
}

// ApplyUpdate merges a partial update into an existing record. Groups absent
// from the payload leave their fields untouched; within a present person
// group, blank fields are also left untouched except second name, whose
// pointer distinguishes "clear" from "no change". Image fields are applied
// verbatim and must already be resolved to URLs by the caller.
func (e *Entrepreneur) ApplyUpdate(p payload.UpdateEntrepreneurPayload) {
	if p.Person != nil {
		g := p.Person
		if g.FirstName != "" {
			e.FirstName = g.FirstName
		}
		if g.SecondName != nil {
			e.SecondName = *g.SecondName
		}
		if g.FirstSurname != "" {
			e.FirstSurname = g.FirstSurname
		}
		if g.SecondSurname != "" {
			e.SecondSurname = g.SecondSurname
		}
		if g.Email != "" {
			e.Email = g.Email
		}
		if len(g.Phones) > 0 {
			e.Phones = phonesFromGroup(g.Phones)
		}
	}

	if p.Attributes != nil {
		a := p.Attributes
		if a.ExperienceYears != nil {
			e.ExperienceYears = *a.ExperienceYears
		}
		if a.FacebookURL != "" {
			e.FacebookURL = a.FacebookURL
		}
		if a.InstagramURL != "" {
			e.InstagramURL = a.InstagramURL
		}
	}

	if p.Entrepreneurship != nil {
		g := p.Entrepreneurship
		if g.Name != "" {
			e.Entrepreneurship.Name = g.Name
		}
		if g.Description != "" {
			e.Entrepreneurship.Description = g.Description
		}
		if g.Location != "" {
			e.Entrepreneurship.Location = g.Location
		}
		if g.Category != "" {
			e.Entrepreneurship.Category = g.Category
		}
		if g.Approach != "" {
			e.Entrepreneurship.Approach = g.Approach
		}
		for slot := 0; slot < NumImages; slot++ {
			if url := g.Image(slot); url != "" {
				e.Entrepreneurship.Images[slot] = url
			}
		}
	}

	e.UpdatedAt = time.Now().UTC()
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
func ToListItems(records []Entrepreneur) []ListItem {
	items := make([]ListItem, len(records))
	for i, r := range records {
		items[i] = ListItem{Entrepreneur: r}
	}
	return items
}
