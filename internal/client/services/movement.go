package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

// MovementAPI is the movement part of the REST client.
type MovementAPI interface {
	ListMovements(ctx context.Context) ([]models.Movement, error)
	CreateMovement(ctx context.Context, m models.Movement) (*models.Movement, error)
}

// DefaultMerchantID is preselected in new movements when it exists.
const DefaultMerchantID = 1

type MovementService struct {
	api      MovementAPI
	validate *Validator
	now      func() time.Time
}

func NewMovementService(api MovementAPI, v *Validator) *MovementService {
	return &MovementService{api: api, validate: v, now: time.Now}
}

func (s *MovementService) List(ctx context.Context) ([]models.Movement, error) {
	return s.api.ListMovements(ctx)
}

// Draft is a movement being composed.
type Draft struct {
	MerchantID int64
	TruckID    *int64
	Vendor     string
	Items      []models.MovementItem
}

// AddItem appends an item and fills in its subtotal.
func (d *Draft) AddItem(it models.MovementItem) {
	it.Subtotal = Subtotal(it)
	d.Items = append(d.Items, it)
}

// RemoveItem drops the i-th item; out of range indexes are ignored.
func (d *Draft) RemoveItem(i int) {
	if i < 0 || i >= len(d.Items) {
		return
	}
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
}

// Total sums the item subtotals.
func (d *Draft) Total() float64 {
	var t float64
	for _, it := range d.Items {
		t += Subtotal(it)
	}
	return t
}

func Subtotal(it models.MovementItem) float64 {
	return float64(it.QtyIn) * it.UnitPrice
}

// DefaultMerchant picks merchant DefaultMerchantID, else the first one.
func DefaultMerchant(all []models.Merchant) (models.Merchant, bool) {
	for _, m := range all {
		if m.ID == DefaultMerchantID {
			return m, true
		}
	}
	if len(all) > 0 {
		return all[0], true
	}
	return models.Merchant{}, false
}

// Submit validates the draft, stamps the date and sends it.
func (s *MovementService) Submit(ctx context.Context, d Draft) (*models.Movement, error) {
	items := make([]models.MovementItem, len(d.Items))
	for i, it := range d.Items {
		it.Subtotal = Subtotal(it)
		items[i] = it
	}
	date := s.now().UTC()
	m := models.Movement{
		MerchantID: d.MerchantID,
		TruckID:    d.TruckID,
		Vendor:     d.Vendor,
		Items:      items,
		Total:      d.Total(),
		Date:       &date,
	}
	if err := s.validate.Struct(m); err != nil {
		return nil, err
	}
	return s.api.CreateMovement(ctx, m)
}
