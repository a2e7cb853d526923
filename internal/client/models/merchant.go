package models

import "strings"

// Merchant is a trading counterparty.
type Merchant struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	DNI       string `json:"dni" validate:"required"`
	Phone     string `json:"phone,omitempty"`
	// Name is set by some backend versions instead of first/last name.
	Name string `json:"name,omitempty" validate:"-"`
}

// FullName prefers the backend-provided Name and falls back to first + last.
func (m Merchant) FullName() string {
	if m.Name != "" {
		return m.Name
	}
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}
