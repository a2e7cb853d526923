package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/dmitrijs2005/stockyard/internal/client/client"
	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/client/services"
)

const displayDate = "02/01/2006"

var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// formatDate renders a backend timestamp as dd/mm/yyyy.
func formatDate(s string) string {
	if s == "" {
		return "n/a"
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayDate)
		}
	}
	return "invalid date"
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "n/a"
	}
	return t.Format(displayDate)
}

func formatMoney(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

func (a *App) table(data pterm.TableData) {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		a.failf("render table: %v", err)
		return
	}
	fmt.Fprintln(a.out, s)
}

func (a *App) section(title string) {
	fmt.Fprint(a.out, pterm.DefaultSection.Sprintln(title))
}

func (a *App) infof(format string, args ...any) {
	fmt.Fprint(a.out, pterm.Info.Sprintfln(format, args...))
}

func (a *App) successf(format string, args ...any) {
	fmt.Fprint(a.out, pterm.Success.Sprintfln(format, args...))
}

func (a *App) warnf(format string, args ...any) {
	fmt.Fprint(a.out, pterm.Warning.Sprintfln(format, args...))
}

func (a *App) failf(format string, args ...any) {
	fmt.Fprint(a.out, pterm.Error.Sprintfln(format, args...))
}

// Report prints err in terms a console user can act on.
func (a *App) Report(err error) {
	var verr *services.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		a.failf("Please fix the following fields:")
		keys := make([]string, 0, len(verr.Fields))
		for k := range verr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(a.out, "  %s: %s\n", k, verr.Fields[k])
		}
	case errors.Is(err, errAccessDenied):
		a.failf("Access denied: %v", err)
	case errors.Is(err, client.ErrInvalidCredentials):
		a.failf("Invalid email or password")
	case client.IsAuthFailure(err):
		a.warnf("Your session has ended, please sign in again")
	case client.IsNetwork(err):
		a.failf("Backend unreachable: %v", err)
	default:
		a.failf("%v", err)
	}
}

func merchantRows(ms []models.Merchant) pterm.TableData {
	rows := pterm.TableData{{"ID", "NAME", "DNI", "PHONE"}}
	for _, m := range ms {
		rows = append(rows, []string{strconv.FormatInt(m.ID, 10), m.FullName(), m.DNI, m.Phone})
	}
	return rows
}

func itemRows(items []models.MovementItem) pterm.TableData {
	rows := pterm.TableData{{"#", "CATEGORY", "TYPE", "BREED", "QTY", "UNIT PRICE", "SUBTOTAL"}}
	for i, it := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), string(it.Category), it.Type, it.Breed,
			strconv.Itoa(it.QtyIn), formatMoney(it.UnitPrice), formatMoney(services.Subtotal(it)),
		})
	}
	return rows
}

func userRows(us []models.Identity) pterm.TableData {
	rows := pterm.TableData{{"ID", "EMAIL", "ROLE", "CREATED", "UPDATED"}}
	for _, u := range us {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10), u.Email, string(u.Role),
			formatTime(u.CreatedAt), formatTime(u.UpdatedAt),
		})
	}
	return rows
}
