package models

import (
	"fmt"
	"time"
)

// Role is the closed set of back-office roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RolePersonal Role = "personal"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePersonal:
		return true
	default:
		return false
	}
}

// ParseRole converts a wire string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Identity is the authenticated user's profile.
type Identity struct {
	ID        int64      `json:"id,omitempty"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// HasRole reports whether the identity carries any of roles.
func (i *Identity) HasRole(roles ...Role) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// CreateUserRequest is the admin payload for POST /users.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=admin personal"`
}

// UpdateUserRequest is the admin payload for PUT /users/{id}. Empty fields
// are left unchanged by the backend.
type UpdateUserRequest struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=admin personal"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
}
