package domain

import (
	"fmt"
	"strings"
)

// Member is a candidate that can receive points and take part in the lucky draw.
type Member struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Photo *string `json:"photo"`
}

// Validate trims the name and checks the required fields.
func (m *Member) Validate() error {
	m.ID = strings.TrimSpace(m.ID)
	m.Name = strings.TrimSpace(m.Name)
	if m.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidMember)
	}
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMember)
	}
	if m.Photo != nil && *m.Photo == "" {
		m.Photo = nil
	}
	return nil
}

func indexMembers(members []Member) map[string]Member {
	byID := make(map[string]Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return byID
}
