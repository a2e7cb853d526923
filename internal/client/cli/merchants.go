package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/stockyard/internal/client/client"
	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/client/services"
)

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, &services.ValidationError{Fields: map[string]string{"id": "is required"}}
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, &services.ValidationError{Fields: map[string]string{"id": "must be a positive number"}}
	}
	return id, nil
}

func (a *App) listMerchants(ctx context.Context, args []string) error {
	term := strings.Join(args, " ")
	var (
		ms  []models.Merchant
		err error
	)
	if term == "" {
		ms, err = a.merchantService.List(ctx)
	} else {
		ms, err = a.merchantService.Search(ctx, term)
	}
	if err != nil {
		return err
	}
	if len(ms) == 0 {
		if term != "" {
			a.infof("No merchant matches %q; use 'merchant-add %s' to create one", term, term)
		} else {
			a.infof("No merchants yet")
		}
		return nil
	}
	a.table(merchantRows(ms))
	return nil
}

func (a *App) findMerchant(ctx context.Context, id int64) (models.Merchant, error) {
	all, err := a.merchantService.List(ctx)
	if err != nil {
		return models.Merchant{}, err
	}
	for _, m := range all {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Merchant{}, fmt.Errorf("merchant %d: %w", id, client.ErrNotFound)
}

// merchantForm prompts for every merchant field, offering m's values as
// defaults.
func (a *App) merchantForm(m models.Merchant) (models.Merchant, error) {
	var err error
	if m.FirstName, err = a.promptDefault("First name", m.FirstName); err != nil {
		return m, err
	}
	if m.LastName, err = a.promptDefault("Last name", m.LastName); err != nil {
		return m, err
	}
	if m.DNI, err = a.promptDefault("DNI", m.DNI); err != nil {
		return m, err
	}
	if m.Phone, err = a.promptDefault("Phone", m.Phone); err != nil {
		return m, err
	}
	m.Name = ""
	return m, nil
}

func (a *App) addMerchant(ctx context.Context, args []string) error {
	draft := services.Prefill(strings.Join(args, " "))
	m, err := a.merchantForm(draft)
	if err != nil {
		return err
	}
	created, err := a.merchantService.Create(ctx, m)
	if err != nil {
		return err
	}
	a.successf("Merchant #%d %s created", created.ID, created.FullName())
	return nil
}

func (a *App) editMerchant(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	cur, err := a.findMerchant(ctx, id)
	if err != nil {
		return err
	}
	m, err := a.merchantForm(cur)
	if err != nil {
		return err
	}
	updated, err := a.merchantService.Update(ctx, id, m)
	if err != nil {
		return err
	}
	a.successf("Merchant #%d %s updated", id, updated.FullName())
	return nil
}

func (a *App) deleteMerchant(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	ok, err := a.confirm(fmt.Sprintf("Delete merchant #%d?", id))
	if err != nil || !ok {
		return err
	}
	if err := a.merchantService.Delete(ctx, id); err != nil {
		if errors.Is(err, client.ErrConflict) {
			return fmt.Errorf("merchant #%d has movements and cannot be deleted: %w", id, err)
		}
		return err
	}
	a.successf("Merchant #%d deleted", id)
	return nil
}
