package cli

import (
	"context"
	"fmt"
)

// Users prints every account registered on the server.
func (a *App) Users(ctx context.Context) error {
	users, err := a.admin.ListUsers(ctx)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	for _, u := range users {
		marker := " "
		if u.IsAdministrator {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%6d %s %-20s %-30s files: %d (%d bytes)", u.ID, marker, u.Username, u.Email, u.FilesCount, u.TotalSize))
	}
	return nil
}

// Grant gives administrator rights to the account with the given id.
func (a *App) Grant(ctx context.Context, args []string) error {
	return a.setAdmin(ctx, args[0], true, "Granted administrator rights to user %d")
}

// Revoke removes administrator rights from the account with the given id.
// Revoking your own rights is rejected locally.
func (a *App) Revoke(ctx context.Context, args []string) error {
	return a.setAdmin(ctx, args[0], false, "Revoked administrator rights from user %d")
}

func (a *App) setAdmin(ctx context.Context, arg string, isAdmin bool, okFormat string) error {
	id, err := parseID(arg)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	if err := a.admin.SetAdministrator(ctx, id, isAdmin); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf(okFormat, id))
	return nil
}

// UserDel deletes the account with the given id along with its files.
// Deleting your own account is rejected locally.
func (a *App) UserDel(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	if err := a.admin.DeleteUser(ctx, id); err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Deleted user %d", id))
	return nil
}
