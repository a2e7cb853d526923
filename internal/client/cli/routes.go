package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/dmitrijs2005/stockyard/internal/client/authz"
	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

var (
	errExit           = errors.New("exit")
	errAccessDenied   = errors.New("access denied")
	errUnknownCommand = errors.New("unknown command")
	errNotSignedIn    = errors.New("not signed in")
)

type handler func(a *App, ctx context.Context, args []string) error

// route is a console command. Protected routes require a fresh session;
// roles, when set, narrow them further.
type route struct {
	name      string
	aliases   []string
	usage     string
	summary   string
	protected bool
	roles     []models.Role
	run       handler
}

func (r route) access() string {
	switch {
	case len(r.roles) > 0:
		parts := make([]string, len(r.roles))
		for i, role := range r.roles {
			parts[i] = string(role)
		}
		return strings.Join(parts, ", ")
	case r.protected:
		return "signed in"
	default:
		return "anyone"
	}
}

var adminOnly = []models.Role{models.RoleAdmin}

func commandTable() []route {
	return []route{
		{name: "help", aliases: []string{"h", "?"}, summary: "show available commands", run: (*App).help},
		{name: "login", summary: "sign in", run: (*App).login},
		{name: "logout", summary: "sign out and forget the cached session", run: (*App).logout},
		{name: "whoami", summary: "show the current session", run: (*App).whoami},
		{name: "passwd", summary: "change your password", protected: true, run: (*App).changePassword},

		{name: "dashboard", aliases: []string{"home"}, summary: "show today's figures", protected: true, run: (*App).dashboard},

		{name: "merchants", aliases: []string{"m"}, usage: "[search term]", summary: "list or search merchants", protected: true, run: (*App).listMerchants},
		{name: "merchant-add", usage: "[search term]", summary: "create a merchant", protected: true, run: (*App).addMerchant},
		{name: "merchant-edit", usage: "<id>", summary: "edit a merchant", protected: true, run: (*App).editMerchant},
		{name: "merchant-delete", usage: "<id>", summary: "delete a merchant", protected: true, run: (*App).deleteMerchant},

		{name: "movements", aliases: []string{"mv"}, summary: "list movements", protected: true, run: (*App).listMovements},
		{name: "movement-add", summary: "record a movement", protected: true, run: (*App).addMovement},

		{name: "report", usage: "[--from YYYY-MM-DD] [--to YYYY-MM-DD]", summary: "profit, species and vehicle statistics", protected: true, roles: adminOnly, run: (*App).report},
		{name: "period", usage: "<daily|monthly|yearly>", summary: "period report", protected: true, roles: adminOnly, run: (*App).periodReport},
		{name: "export", usage: "<csv|xlsx> [--from YYYY-MM-DD] [--to YYYY-MM-DD]", summary: "download a report", protected: true, roles: adminOnly, run: (*App).exportReport},

		{name: "users", summary: "list users", protected: true, roles: adminOnly, run: (*App).listUsers},
		{name: "user-add", summary: "create a user", protected: true, roles: adminOnly, run: (*App).addUser},
		{name: "user-edit", usage: "<id>", summary: "edit a user", protected: true, roles: adminOnly, run: (*App).editUser},
		{name: "user-delete", usage: "<id>", summary: "delete a user", protected: true, roles: adminOnly, run: (*App).deleteUser},

		{name: "exit", aliases: []string{"quit", "q"}, summary: "leave the console", run: func(*App, context.Context, []string) error { return errExit }},
	}
}

func (a *App) lookup(name string) (route, bool) {
	for _, r := range a.routes {
		if r.name == name {
			return r, true
		}
		for _, alias := range r.aliases {
			if alias == name {
				return r, true
			}
		}
	}
	return route{}, false
}

// activate decides whether r may run now. A credential close to expiry is
// refreshed first.
func (a *App) activate(ctx context.Context, r route) authz.Decision {
	if !r.protected {
		return authz.Decision{Allowed: true}
	}
	if _, err := a.store.Revalidate(ctx); err != nil {
		a.logger.Warn(ctx, "revalidation failed", "command", r.name, "error", err)
	}
	return a.guard.Guard(r.roles...)
}

// Exec runs the command name. An anonymous user reaching a protected
// command is taken through login first; a user lacking the role gets
// errAccessDenied.
func (a *App) Exec(ctx context.Context, name string, args []string) error {
	r, ok := a.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s (type 'help')", errUnknownCommand, name)
	}

	d := a.activate(ctx, r)
	if d.Redirect == authz.RedirectLogin {
		a.infof("%s requires signing in", r.name)
		if err := a.login(ctx, nil); err != nil {
			return err
		}
		d = a.guard.Guard(r.roles...)
	}
	switch d.Redirect {
	case authz.RedirectNone:
	case authz.RedirectUnauthorized:
		return fmt.Errorf("%w: %s is restricted to %s", errAccessDenied, r.name, r.access())
	default:
		return errNotSignedIn
	}
	return r.run(a, ctx, args)
}

func (a *App) help(context.Context, []string) error {
	data := pterm.TableData{{"COMMAND", "USAGE", "ACCESS", "DESCRIPTION"}}
	for _, r := range a.routes {
		name := r.name
		if len(r.aliases) > 0 {
			name += " (" + strings.Join(r.aliases, ", ") + ")"
		}
		data = append(data, []string{name, r.usage, r.access(), r.summary})
	}
	a.table(data)
	return nil
}
