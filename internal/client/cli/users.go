package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/common"
)

func (a *App) listUsers(ctx context.Context, _ []string) error {
	us, err := a.userService.List(ctx)
	if err != nil {
		return err
	}
	a.table(userRows(us))
	return nil
}

func (a *App) addUser(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	role, err := a.promptDefault("Role (admin, personal)", string(models.RolePersonal))
	if err != nil {
		return err
	}

	u, err := a.userService.Create(ctx, models.CreateUserRequest{
		Email:    email,
		Password: string(password),
		Role:     models.Role(role),
	})
	if err != nil {
		return err
	}
	a.successf("User #%d %s created", u.ID, u.Email)
	return nil
}

func (a *App) editUser(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	cur, err := a.userService.Get(ctx, id)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if req.Email, err = a.promptDefault("Email", cur.Email); err != nil {
		return err
	}
	role, err := a.promptDefault("Role (admin, personal)", string(cur.Role))
	if err != nil {
		return err
	}
	req.Role = models.Role(role)
	password, err := getPassword("New password (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	u, err := a.userService.Update(ctx, id, req)
	if err != nil {
		return err
	}
	a.successf("User #%d %s updated", u.ID, u.Email)
	return nil
}

func (a *App) deleteUser(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if me := a.store.Current().Identity; me != nil && me.ID == id {
		return fmt.Errorf("%w: you cannot delete the account you are signed in with", errAccessDenied)
	}
	ok, err := a.confirm(fmt.Sprintf("Delete user #%d?", id))
	if err != nil || !ok {
		return err
	}
	if err := a.userService.Delete(ctx, id); err != nil {
		return err
	}
	a.successf("User #%d deleted", id)
	return nil
}
