package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

// ReportAPI is the report part of the REST client.
type ReportAPI interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	ProfitStats(ctx context.Context, r models.DateRange) (*models.ProfitStats, error)
	IncomeBySpecies(ctx context.Context, r models.DateRange) ([]models.SpeciesStats, error)
	IncomeByVehicle(ctx context.Context, r models.DateRange) ([]models.VehicleStats, error)
	PeriodReport(ctx context.Context, p models.Period) (models.PeriodReport, error)
	ExportReport(ctx context.Context, f models.ExportFormat, r models.DateRange) (*models.Export, error)
}

// Sink stores a downloaded export and returns where it went.
type Sink interface {
	Put(ctx context.Context, e *models.Export) (string, error)
}

type ReportService struct {
	api      ReportAPI
	sink     Sink
	validate *Validator
}

func NewReportService(api ReportAPI, sink Sink, v *Validator) *ReportService {
	return &ReportService{api: api, sink: sink, validate: v}
}

func (s *ReportService) checkRange(r models.DateRange) error {
	if err := s.validate.Struct(r); err != nil {
		return err
	}
	if r.From != "" && r.To != "" && r.From > r.To {
		return &ValidationError{Fields: map[string]string{"To": "must not be before From"}}
	}
	return nil
}

func (s *ReportService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	return s.api.DashboardStats(ctx)
}

// Summary bundles the figures shown on the statistics screen.
type Summary struct {
	Profit    *models.ProfitStats
	Species   []models.SpeciesStats
	Vehicles  []models.VehicleStats
	DateRange models.DateRange
}

// Summary fetches profit, species and vehicle figures for the range. The
// first failure aborts.
func (s *ReportService) Summary(ctx context.Context, r models.DateRange) (*Summary, error) {
	if err := s.checkRange(r); err != nil {
		return nil, err
	}
	profit, err := s.api.ProfitStats(ctx, r)
	if err != nil {
		return nil, err
	}
	species, err := s.api.IncomeBySpecies(ctx, r)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.api.IncomeByVehicle(ctx, r)
	if err != nil {
		return nil, err
	}
	return &Summary{Profit: profit, Species: species, Vehicles: vehicles, DateRange: r}, nil
}

func (s *ReportService) Period(ctx context.Context, p models.Period) (models.PeriodReport, error) {
	return s.api.PeriodReport(ctx, p)
}

// Export downloads the report in format f and hands it to the sink.
func (s *ReportService) Export(ctx context.Context, f models.ExportFormat, r models.DateRange) (string, error) {
	if !f.Valid() {
		return "", &ValidationError{Fields: map[string]string{"format": "must be one of: csv xlsx"}}
	}
	if err := s.checkRange(r); err != nil {
		return "", err
	}
	e, err := s.api.ExportReport(ctx, f, r)
	if err != nil {
		return "", err
	}
	loc, err := s.sink.Put(ctx, e)
	if err != nil {
		return "", fmt.Errorf("store export %s: %w", e.Name, err)
	}
	return loc, nil
}
