package models

import "time"

// Category classifies a movement item. The values are the backend's wire
// strings.
type Category string

const (
	CategoryLivestock Category = "ganado"
	CategoryVehicle   Category = "vehículo"
	CategoryGarage    Category = "cochera"
)

// Categories lists all known categories in display order.
var Categories = []Category{CategoryLivestock, CategoryVehicle, CategoryGarage}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// MovementItem is one line of a movement.
type MovementItem struct {
	Category  Category `json:"category" validate:"required,category"`
	Type      string   `json:"type" validate:"required"`
	Breed     string   `json:"breed,omitempty"`
	Note      string   `json:"note,omitempty"`
	QtyIn     int      `json:"qty_in" validate:"gte=1"`
	UnitPrice float64  `json:"unit_price" validate:"gte=0"`
	Subtotal  float64  `json:"subtotal"`
}

// Movement is an income transaction registered against a merchant.
type Movement struct {
	ID         int64          `json:"id,omitempty"`
	MerchantID int64          `json:"merchant_id" validate:"required,gt=0"`
	TruckID    *int64         `json:"truck_id,omitempty"`
	Items      []MovementItem `json:"items" validate:"required,min=1,dive"`
	Total      float64        `json:"total"`
	Date       *time.Time     `json:"date,omitempty"`
	Vendor     string         `json:"vendor,omitempty"`
}
