package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

// maxExport caps report downloads.
const maxExport = 64 << 20

func rangeQuery(r models.DateRange) url.Values {
	q := url.Values{}
	if r.From != "" {
		q.Set("desde", r.From)
	}
	if r.To != "" {
		q.Set("hasta", r.To)
	}
	return q
}

func (c *HTTPClient) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.do(ctx, request{op: OpReports, method: http.MethodGet, path: "/reports/dashboard-stats"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ProfitStats(ctx context.Context, r models.DateRange) (*models.ProfitStats, error) {
	var out models.ProfitStats
	req := request{op: OpReports, method: http.MethodGet, path: "/reports/ganancias", query: rangeQuery(r)}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) IncomeBySpecies(ctx context.Context, r models.DateRange) ([]models.SpeciesStats, error) {
	var out []models.SpeciesStats
	req := request{op: OpReports, method: http.MethodGet, path: "/reports/por_especie", query: rangeQuery(r)}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) IncomeByVehicle(ctx context.Context, r models.DateRange) ([]models.VehicleStats, error) {
	var out []models.VehicleStats
	req := request{op: OpReports, method: http.MethodGet, path: "/reports/por_vehiculo", query: rangeQuery(r)}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PeriodReport fetches /reports/{daily,monthly,yearly} as raw JSON.
func (c *HTTPClient) PeriodReport(ctx context.Context, p models.Period) (models.PeriodReport, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown report period %q", p)
	}
	var out json.RawMessage
	if err := c.do(ctx, request{op: OpReports, method: http.MethodGet, path: "/reports/" + string(p)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportReport downloads the report file generated by the backend.
func (c *HTTPClient) ExportReport(ctx context.Context, f models.ExportFormat, r models.DateRange) (*models.Export, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("unknown export format %q", f)
	}
	q := rangeQuery(r)
	q.Set("format", string(f))

	resp, err := c.send(ctx, request{op: OpExport, method: http.MethodGet, path: "/reports/export", query: q})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxExport))
	if err != nil {
		return nil, newAPIError(OpExport, 0, "", nil, err)
	}

	fallback := fmt.Sprintf("report-%s.%s", time.Now().Format("2006-01-02"), f)
	return &models.Export{
		Name:        filenameFrom(resp, fallback),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
