package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

func (c *HTTPClient) ListMovements(ctx context.Context) ([]models.Movement, error) {
	var out []models.Movement
	if err := c.do(ctx, request{op: OpMovements, method: http.MethodGet, path: "/movements"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateMovement(ctx context.Context, m models.Movement) (*models.Movement, error) {
	var out models.Movement
	if err := c.do(ctx, request{op: OpMovements, method: http.MethodPost, path: "/movements", body: m}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
