package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

// SessionStore is the part of session.Store the auth service drives.
type SessionStore interface {
	Login(ctx context.Context, req models.LoginRequest) (models.Session, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*models.ChangePasswordResponse, error)
	Current() models.Session
}

// ClaimsReader describes a credential for display.
type ClaimsReader interface {
	Describe(tok string) *models.Claims
}

// AuthService validates sign-in and password forms before they reach the
// session store.
type AuthService struct {
	store    SessionStore
	claims   ClaimsReader
	validate *Validator
}

func NewAuthService(store SessionStore, claims ClaimsReader, v *Validator) *AuthService {
	return &AuthService{store: store, claims: claims, validate: v}
}

// Login normalises the email and signs in.
func (a *AuthService) Login(ctx context.Context, email string, password []byte) (models.Session, error) {
	req := models.LoginRequest{Email: strings.TrimSpace(strings.ToLower(email)), Password: string(password)}
	if err := a.validate.Struct(req); err != nil {
		return models.Session{}, err
	}
	return a.store.Login(ctx, req)
}

func (a *AuthService) Logout(ctx context.Context) error {
	return a.store.Logout(ctx)
}

// ChangePassword requires the new password to be confirmed.
func (a *AuthService) ChangePassword(ctx context.Context, current, next, confirm []byte) (*models.ChangePasswordResponse, error) {
	if string(next) != string(confirm) {
		return nil, &ValidationError{Fields: map[string]string{"confirmPassword": "does not match the new password"}}
	}
	req := models.ChangePasswordRequest{CurrentPassword: string(current), NewPassword: string(next)}
	if err := a.validate.Struct(req); err != nil {
		return nil, err
	}
	return a.store.ChangePassword(ctx, req)
}

// Whoami returns the session and, when a credential is held, its claims.
func (a *AuthService) Whoami() (models.Session, *models.Claims) {
	s := a.store.Current()
	if s.Credential == "" {
		return s, nil
	}
	return s, a.claims.Describe(s.Credential)
}
