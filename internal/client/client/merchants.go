package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

func (c *HTTPClient) ListMerchants(ctx context.Context) ([]models.Merchant, error) {
	var out []models.Merchant
	if err := c.do(ctx, request{op: OpMerchants, method: http.MethodGet, path: "/merchants"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateMerchant(ctx context.Context, m models.Merchant) (*models.Merchant, error) {
	var out models.Merchant
	if err := c.do(ctx, request{op: OpMerchants, method: http.MethodPost, path: "/merchants", body: m}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateMerchant(ctx context.Context, id int64, m models.Merchant) (*models.Merchant, error) {
	var out models.Merchant
	p := "/merchants/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, request{op: OpMerchants, method: http.MethodPut, path: p, body: m}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteMerchant(ctx context.Context, id int64) error {
	p := "/merchants/" + strconv.FormatInt(id, 10)
	return c.do(ctx, request{op: OpMerchants, method: http.MethodDelete, path: p}, nil)
}
