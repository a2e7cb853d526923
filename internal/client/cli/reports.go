package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/client/services"
	"github.com/dmitrijs2005/stockyard/internal/flagx"
)

// dateRange reads --from and --to (single-dash forms work too).
func dateRange(args []string) models.DateRange {
	return models.DateRange{
		From: flagx.LookupValue(args, "-from", "--from"),
		To:   flagx.LookupValue(args, "-to", "--to"),
	}
}

// positional returns the arguments that are neither flags nor flag values.
func positional(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			out = append(out, arg)
			continue
		}
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}
	return out
}

func (a *App) dashboard(ctx context.Context, _ []string) error {
	st, err := a.reportService.Dashboard(ctx)
	if err != nil {
		return err
	}
	a.section("Dashboard")
	a.table(pterm.TableData{
		{"FIGURE", "VALUE"},
		{"Merchants", strconv.Itoa(st.TotalMerchants)},
		{"Movements", strconv.Itoa(st.TotalMovements)},
		{"Income today", formatMoney(st.TodayIncome)},
		{"Income this month", formatMoney(st.MonthlyIncome)},
	})
	return nil
}

func (a *App) report(ctx context.Context, args []string) error {
	sum, err := a.reportService.Summary(ctx, dateRange(args))
	if err != nil {
		return err
	}

	a.section("Profit " + rangeLabel(sum.DateRange))
	if sum.Profit != nil {
		a.table(pterm.TableData{
			{"INCOME", "EXPENSES", "NET"},
			{formatMoney(sum.Profit.Income), formatMoney(sum.Profit.Expenses), formatMoney(sum.Profit.Net)},
		})
	}

	a.section("Income by species")
	species := pterm.TableData{{"SPECIES", "TOTAL"}}
	for _, s := range sum.Species {
		species = append(species, []string{s.Species, formatMoney(s.Total)})
	}
	a.table(species)

	a.section("Vehicles")
	vehicles := pterm.TableData{{"TYPE", "COUNT"}}
	for _, v := range sum.Vehicles {
		vehicles = append(vehicles, []string{v.VehicleType, strconv.Itoa(v.Count)})
	}
	a.table(vehicles)
	return nil
}

func rangeLabel(r models.DateRange) string {
	if r.From == "" && r.To == "" {
		return "(all time)"
	}
	return fmt.Sprintf("(%s to %s)", formatDateOr(r.From, "start"), formatDateOr(r.To, "today"))
}

func formatDateOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return formatDate(s)
}

func (a *App) periodReport(ctx context.Context, args []string) error {
	pos := positional(args)
	p := models.PeriodDaily
	if len(pos) > 0 {
		p = models.Period(strings.ToLower(pos[0]))
	}
	if !p.Valid() {
		return &services.ValidationError{Fields: map[string]string{"period": "must be one of: daily monthly yearly"}}
	}
	raw, err := a.reportService.Period(ctx, p)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	a.section(string(p) + " report")
	fmt.Fprintln(a.out, buf.String())
	return nil
}

func (a *App) exportReport(ctx context.Context, args []string) error {
	pos := positional(args)
	f := models.ExportCSV
	if len(pos) > 0 {
		f = models.ExportFormat(strings.ToLower(pos[0]))
	}
	loc, err := a.reportService.Export(ctx, f, dateRange(args))
	if err != nil {
		return err
	}
	a.successf("Report saved to %s", loc)
	return nil
}
