package models

import "encoding/json"

// DashboardStats is served by GET /reports/dashboard-stats.
type DashboardStats struct {
	TotalMerchants int     `json:"totalMerchants"`
	TotalMovements int     `json:"totalMovements"`
	TodayIncome    float64 `json:"todayIncome"`
	MonthlyIncome  float64 `json:"monthlyIncome"`
}

// ProfitStats is served by GET /reports/ganancias.
type ProfitStats struct {
	Income   float64 `json:"ingresos"`
	Expenses float64 `json:"gastos"`
	Net      float64 `json:"neto"`
}

// SpeciesStats is one row of GET /reports/por_especie.
type SpeciesStats struct {
	Species string  `json:"species"`
	Total   float64 `json:"total"`
}

// VehicleStats is one row of GET /reports/por_vehiculo.
type VehicleStats struct {
	VehicleType string `json:"vehicle_type"`
	Count       int    `json:"count"`
}

// Period selects the daily, monthly or yearly report.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	return p == PeriodDaily || p == PeriodMonthly || p == PeriodYearly
}

// PeriodReport is kept raw: its shape differs between backend versions.
type PeriodReport = json.RawMessage

// ExportFormat is the file format requested from /reports/export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// Valid reports whether f is a supported export format.
func (f ExportFormat) Valid() bool {
	return f == ExportCSV || f == ExportXLSX
}

// DateRange bounds report queries; dates are YYYY-MM-DD and optional.
type DateRange struct {
	From string `validate:"omitempty,datetime=2006-01-02"`
	To   string `validate:"omitempty,datetime=2006-01-02"`
}

// Export is a downloaded report file.
type Export struct {
	Name        string
	ContentType string
	Data        []byte
}
