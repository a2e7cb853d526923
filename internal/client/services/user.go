package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

// UserAPI is the admin user part of the REST client.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]models.Identity, error)
	GetUser(ctx context.Context, id int64) (*models.Identity, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.Identity, error)
	UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.Identity, error)
	DeleteUser(ctx context.Context, id int64) error
}

// IdentityUpdater receives the signed-in user's profile when an admin edits
// their own account.
type IdentityUpdater interface {
	Current() models.Session
	UpdateIdentity(ctx context.Context, id models.Identity) error
}

type UserService struct {
	api      UserAPI
	session  IdentityUpdater
	validate *Validator
}

func NewUserService(api UserAPI, session IdentityUpdater, v *Validator) *UserService {
	return &UserService{api: api, session: session, validate: v}
}

func (s *UserService) List(ctx context.Context) ([]models.Identity, error) {
	return s.api.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.Identity, error) {
	return s.api.GetUser(ctx, id)
}

func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.Identity, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	return s.api.CreateUser(ctx, req)
}

// Update edits a user. Editing the signed-in account also refreshes the
// cached identity.
func (s *UserService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.Identity, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.api.UpdateUser(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if me := s.session.Current().Identity; me != nil && me.ID == u.ID {
		if err := s.session.UpdateIdentity(ctx, *u); err != nil {
			return u, err
		}
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.api.DeleteUser(ctx, id)
}
