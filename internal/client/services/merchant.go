package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

// MerchantAPI is the merchant part of the REST client.
type MerchantAPI interface {
	ListMerchants(ctx context.Context) ([]models.Merchant, error)
	CreateMerchant(ctx context.Context, m models.Merchant) (*models.Merchant, error)
	UpdateMerchant(ctx context.Context, id int64, m models.Merchant) (*models.Merchant, error)
	DeleteMerchant(ctx context.Context, id int64) error
}

type MerchantService struct {
	api      MerchantAPI
	validate *Validator
}

func NewMerchantService(api MerchantAPI, v *Validator) *MerchantService {
	return &MerchantService{api: api, validate: v}
}

func (s *MerchantService) List(ctx context.Context) ([]models.Merchant, error) {
	return s.api.ListMerchants(ctx)
}

// Search lists merchants whose full name or DNI contains term, ignoring
// case. An empty term matches nothing.
func (s *MerchantService) Search(ctx context.Context, term string) ([]models.Merchant, error) {
	all, err := s.api.ListMerchants(ctx)
	if err != nil {
		return nil, err
	}
	return FilterMerchants(all, term), nil
}

func FilterMerchants(all []models.Merchant, term string) []models.Merchant {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var out []models.Merchant
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.FullName()), term) || strings.Contains(strings.ToLower(m.DNI), term) {
			out = append(out, m)
		}
	}
	return out
}

var dniPattern = regexp.MustCompile(`^\d{8}$`)

// Prefill turns a search term that found nothing into a new-merchant draft:
// an 8-digit term is a DNI, otherwise the last word is the last name.
func Prefill(term string) models.Merchant {
	term = strings.TrimSpace(term)
	if dniPattern.MatchString(term) {
		return models.Merchant{DNI: term}
	}
	parts := strings.Fields(term)
	if len(parts) < 2 {
		return models.Merchant{FirstName: term}
	}
	return models.Merchant{
		FirstName: strings.Join(parts[:len(parts)-1], " "),
		LastName:  parts[len(parts)-1],
	}
}

func normalizeMerchant(m models.Merchant) models.Merchant {
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	m.DNI = strings.TrimSpace(m.DNI)
	m.Phone = strings.TrimSpace(m.Phone)
	return m
}

func (s *MerchantService) Create(ctx context.Context, m models.Merchant) (*models.Merchant, error) {
	m = normalizeMerchant(m)
	if err := s.validate.Struct(m); err != nil {
		return nil, err
	}
	return s.api.CreateMerchant(ctx, m)
}

func (s *MerchantService) Update(ctx context.Context, id int64, m models.Merchant) (*models.Merchant, error) {
	m = normalizeMerchant(m)
	if err := s.validate.Struct(m); err != nil {
		return nil, err
	}
	return s.api.UpdateMerchant(ctx, id, m)
}

func (s *MerchantService) Delete(ctx context.Context, id int64) error {
	return s.api.DeleteMerchant(ctx, id)
}
