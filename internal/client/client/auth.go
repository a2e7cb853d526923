package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/common"
)

// Login exchanges credentials for a token. A 401 yields
// KindInvalidCredentials.
func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, request{op: OpLogin, method: http.MethodPost, path: "/auth/login", body: req}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, fmt.Errorf("%s: token or user missing: %w", OpLogin, common.ErrMalformedResponse)
	}
	return &resp, nil
}

// Logout tells the backend the session is over.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, request{op: OpLogout, method: http.MethodPost, path: "/auth/logout", body: struct{}{}}, nil)
}

// Refresh trades the current credential for a new one.
func (c *HTTPClient) Refresh(ctx context.Context) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, request{op: OpRefresh, method: http.MethodPost, path: "/auth/refresh", body: struct{}{}}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%s: token missing: %w", OpRefresh, common.ErrMalformedResponse)
	}
	return &resp, nil
}

// ChangePassword posts req to a single candidate path relative to the API
// root. Trying several paths is up to the caller.
func (c *HTTPClient) ChangePassword(ctx context.Context, path string, req models.ChangePasswordRequest) (*models.ChangePasswordResponse, error) {
	var resp models.ChangePasswordResponse
	if err := c.do(ctx, request{op: OpChangePassword, method: http.MethodPost, path: path, body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
