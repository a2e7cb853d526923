package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/client/services"
)

func (a *App) listMovements(ctx context.Context, _ []string) error {
	mvs, err := a.movementService.List(ctx)
	if err != nil {
		return err
	}
	if len(mvs) == 0 {
		a.infof("No movements yet")
		return nil
	}
	data := pterm.TableData{{"ID", "DATE", "MERCHANT", "VENDOR", "ITEMS", "TOTAL"}}
	for _, m := range mvs {
		data = append(data, []string{
			strconv.FormatInt(m.ID, 10), formatTime(m.Date), strconv.FormatInt(m.MerchantID, 10),
			m.Vendor, strconv.Itoa(len(m.Items)), formatMoney(m.Total),
		})
	}
	a.table(data)
	return nil
}

// addMovement composes a draft interactively and submits it.
func (a *App) addMovement(ctx context.Context, _ []string) error {
	merchants, err := a.merchantService.List(ctx)
	if err != nil {
		return err
	}
	var draft services.Draft
	def := ""
	if m, ok := services.DefaultMerchant(merchants); ok {
		def = strconv.FormatInt(m.ID, 10)
	}
	raw, err := a.promptDefault("Merchant ID", def)
	if err != nil {
		return err
	}
	if raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return &services.ValidationError{Fields: map[string]string{"merchant_id": "must be a number"}}
		}
		draft.MerchantID = id
	}
	if draft.Vendor, err = a.promptDefault("Vendor (optional)", ""); err != nil {
		return err
	}

	for {
		it, err := a.itemForm(len(draft.Items))
		if err != nil {
			return err
		}
		draft.AddItem(it)
		more, err := a.confirm("Add another item?")
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	a.table(itemRows(draft.Items))
	a.infof("Total: %s", formatMoney(draft.Total()))
	ok, err := a.confirm("Save movement?")
	if err != nil {
		return err
	}
	if !ok {
		a.infof("Movement discarded")
		return nil
	}

	mv, err := a.movementService.Submit(ctx, draft)
	if err != nil {
		return err
	}
	a.successf("Movement #%d saved, total %s", mv.ID, formatMoney(mv.Total))
	return nil
}

// itemForm reads item i of the draft. A quantity or price that does not
// parse aborts the form with a validation error for that field.
func (a *App) itemForm(i int) (models.MovementItem, error) {
	var it models.MovementItem

	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	cat, err := a.promptDefault("Category ("+strings.Join(names, ", ")+")", string(models.CategoryLivestock))
	if err != nil {
		return it, err
	}
	it.Category = models.Category(strings.ToLower(cat))

	if it.Type, err = a.promptDefault("Type", ""); err != nil {
		return it, err
	}
	if it.Breed, err = a.promptDefault("Breed (optional)", ""); err != nil {
		return it, err
	}
	qty, err := a.promptDefault("Quantity", "1")
	if err != nil {
		return it, err
	}
	if it.QtyIn, err = strconv.Atoi(strings.TrimSpace(qty)); err != nil {
		return it, itemFieldError(i, "qty_in", "must be a whole number")
	}
	price, err := a.promptDefault("Unit price", "0")
	if err != nil {
		return it, err
	}
	if it.UnitPrice, err = strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(price), ",", "."), 64); err != nil || math.IsNaN(it.UnitPrice) || math.IsInf(it.UnitPrice, 0) {
		return it, itemFieldError(i, "unit_price", "must be a number")
	}
	if it.Note, err = a.promptDefault("Note (optional)", ""); err != nil {
		return it, err
	}
	return it, nil
}

func itemFieldError(i int, field, msg string) error {
	return &services.ValidationError{Fields: map[string]string{
		fmt.Sprintf("items[%d].%s", i, field): msg,
	}}
}
