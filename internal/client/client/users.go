package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

func userPath(id int64) string { return "/users/" + strconv.FormatInt(id, 10) }

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.Identity, error) {
	var out []models.Identity
	if err := c.do(ctx, request{op: OpUsers, method: http.MethodGet, path: "/users"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id int64) (*models.Identity, error) {
	var out models.Identity
	if err := c.do(ctx, request{op: OpUsers, method: http.MethodGet, path: userPath(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.Identity, error) {
	var out models.Identity
	if err := c.do(ctx, request{op: OpUsers, method: http.MethodPost, path: "/users", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.Identity, error) {
	var out models.Identity
	if err := c.do(ctx, request{op: OpUsers, method: http.MethodPut, path: userPath(id), body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, request{op: OpUsers, method: http.MethodDelete, path: userPath(id)}, nil)
}
