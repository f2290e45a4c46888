package cli

import (
	"context"
	"fmt"
	"os"

	"cloudbox/internal/client/models"
	"cloudbox/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Register prompts the user for account details and attempts to create a new
// account. A successful registration also signs the user in.
//
// The password byte slice is securely wiped before returning. Any I/O or
// session error is returned unchanged; session errors are reported to the
// user before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	profile := models.RegisterProfile{
		Username: userName,
		Email:    email,
		FullName: fullName,
		Password: string(password),
	}

	user, err := a.session.Register(ctx, profile)
	if err != nil {
		printlnFn("Registration unsuccessful:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", user.Username))
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
//
// The password is securely wiped before returning. A failed attempt is
// reported to the user and the error returned; the session keeps any
// previously cached identity untouched.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	creds := models.Credentials{Username: userName, Password: string(password)}

	user, err := a.session.Login(ctx, creds)
	if err != nil {
		printlnFn("Login unsuccessful:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Logged in as %s", user.Username))
	return nil
}

// Logout drops the local session and cached identity. The server is
// notified in the background on a best-effort basis.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("Logged out")
	return nil
}

// Whoami prints the current account as the session sees it.
func (a *App) Whoami(ctx context.Context) error {
	snap := a.session.Snapshot()
	if snap.Identity == nil {
		printlnFn("Not logged in")
		return nil
	}

	u := snap.Identity
	printlnFn(fmt.Sprintf("Username:  %s", u.Username))
	printlnFn(fmt.Sprintf("Email:     %s", u.Email))
	printlnFn(fmt.Sprintf("Full name: %s", u.FullName))
	printlnFn(fmt.Sprintf("Admin:     %t", u.IsAdministrator))
	printlnFn(fmt.Sprintf("Files:     %d (%d bytes)", u.FilesCount, u.TotalSize))
	if snap.Verifying {
		printlnFn("(restored from cache, awaiting server confirmation)")
	}
	return nil
}
