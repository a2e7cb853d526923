package cli

import (
	"context"
	"time"

	"github.com/pterm/pterm"

	"github.com/dmitrijs2005/stockyard/internal/common"
)

// login prompts for credentials and signs in. The password is wiped before
// returning.
func (a *App) login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.successf("Signed in as %s (%s)", s.Identity.Email, s.Identity.Role)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if a.store.Current().Anonymous() {
		a.infof("Not signed in")
		return nil
	}
	return a.authService.Logout(ctx)
}

func (a *App) whoami(context.Context, []string) error {
	s, claims := a.authService.Whoami()
	if s.Identity == nil {
		a.infof("Not signed in")
		return nil
	}

	data := pterm.TableData{
		{"FIELD", "VALUE"},
		{"Email", s.Identity.Email},
		{"Role", string(s.Identity.Role)},
		{"Authenticated", yesNo(s.Authenticated)},
		{"Member since", formatTime(s.Identity.CreatedAt)},
	}
	if !s.ExpiresAt.IsZero() {
		data = append(data, []string{"Session expires", s.ExpiresAt.Local().Format(time.DateTime)})
	}
	if claims != nil {
		data = append(data,
			[]string{"Token issued", claims.IssuedAt.Local().Format(time.DateTime)},
			[]string{"Token expires", claims.ExpiresAt.Local().Format(time.DateTime)},
		)
	}
	a.table(data)
	return nil
}

func (a *App) changePassword(ctx context.Context, _ []string) error {
	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)
	next, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)
	confirm, err := getPassword("Confirm new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	resp, err := a.authService.ChangePassword(ctx, current, next, confirm)
	if err != nil {
		return err
	}
	msg := resp.Message
	if msg == "" {
		msg = "Password changed"
	}
	a.successf("%s", msg)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
