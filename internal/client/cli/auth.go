package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

func (a *App) readCredentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(password)

	return email, string(password), nil
}

// Register prompts for an email and password and creates the account.
// It does not log the user in.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	u, err := a.client.Register(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %s). You can log in now.\n", u.Email, u.ID)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	if err := a.client.Login(ctx, email, password); err != nil {
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.client.Me(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:     %s\nEmail:  %s\nActive: %t\n", u.ID, u.Email, u.IsActive)
	return nil
}

// Unregister deletes the account and all its tasks after confirmation.
func (a *App) Unregister(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Delete your account and all tasks? Type 'yes' to confirm", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.client.DeleteAccount(ctx); err != nil {
		return err
	}

	a.email = ""
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
