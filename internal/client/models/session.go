package models

import "time"

// Session pairs the identity with its credential. Authenticated is derived
// by the session store from credential freshness; it is never persisted.
type Session struct {
	Identity      *Identity
	Credential    string
	ExpiresAt     time.Time
	Authenticated bool
}

// Anonymous reports whether neither a credential nor an identity is held.
func (s Session) Anonymous() bool {
	return s.Credential == "" && s.Identity == nil
}

// Claims is the diagnostic view of a bearer token.
type Claims struct {
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by login and refresh. ExpiresIn is in seconds
// and optional.
type LoginResponse struct {
	Token     string    `json:"token"`
	User      *Identity `json:"user"`
	ExpiresIn int64     `json:"expiresIn,omitempty"`
}

// ChangePasswordRequest is the body sent to the password-change endpoint.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,nefield=CurrentPassword"`
}

// ChangePasswordResponse optionally carries the updated identity.
type ChangePasswordResponse struct {
	Message string    `json:"message"`
	Success bool      `json:"success"`
	User    *Identity `json:"user,omitempty"`
}
