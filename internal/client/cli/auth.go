package cli

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/client/rest"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) askSecret(prompt string) (string, error) {
	return getPassword(a.reader, prompt, a.out)
}

// askNewPassword reads a password twice and insists both entries match.
func (a *App) askNewPassword(prompt string) (string, error) {
	pw, err := a.askSecret(prompt)
	if err != nil {
		return "", err
	}
	again, err := a.askSecret("Repeat password")
	if err != nil {
		return "", err
	}
	if pw != again {
		return "", errPasswordMismatch
	}
	return pw, nil
}

// guard records the call outcome and drops the session once the server
// stops accepting the token.
func (a *App) guard(ctx context.Context, err error) error {
	err = a.track(ctx, err)
	if rest.IsStatus(err, http.StatusUnauthorized) {
		a.forgetSession(ctx)
		return errSessionExpired
	}
	return err
}

// Register prompts for name, email and password and creates an account.
// The new session is remembered on success.
func (a *App) Register(ctx context.Context) error {
	name, err := a.ask("Enter name")
	if err != nil {
		return err
	}
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}
	password, err := a.askNewPassword("Enter password")
	if err != nil {
		return err
	}

	res, err := a.api.Register(ctx, name, email, password)
	if err := a.track(ctx, err); err != nil {
		return err
	}

	a.rememberSession(ctx, res)
	a.println("Welcome,", res.User.Name+"!")
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Enter password")
	if err != nil {
		return err
	}

	res, err := a.api.Login(ctx, email, password)
	if err := a.track(ctx, err); err != nil {
		return err
	}

	a.rememberSession(ctx, res)
	a.println("Logged in as", res.User.Email)
	return nil
}

// Logout forgets the local session. Tokens are not revoked server-side.
func (a *App) Logout(ctx context.Context) error {
	a.forgetSession(ctx)
	a.println("Logged out")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	u, err := a.api.Me(ctx)
	if rest.IsStatus(err, http.StatusNotFound) {
		a.forgetSession(ctx)
		return errSessionExpired
	}
	if err := a.guard(ctx, err); err != nil {
		return err
	}

	a.user = u
	a.println(u.Name, "<"+u.Email+">", "id:", u.ID)
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	current, err := a.askSecret("Current password")
	if err != nil {
		return err
	}
	next, err := a.askNewPassword("New password")
	if err != nil {
		return err
	}

	if err := a.guard(ctx, a.api.ChangePassword(ctx, current, next)); err != nil {
		return err
	}
	a.println("Password updated")
	return nil
}

// DeleteAccount disables the account after confirmation and logs out.
func (a *App) DeleteAccount(ctx context.Context) error {
	ok, err := Confirm(a.reader, "Disable your account? Saved passwords become inaccessible.", a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled")
		return nil
	}

	if err := a.guard(ctx, a.api.DeleteAccount(ctx)); err != nil {
		return err
	}
	a.forgetSession(ctx)
	a.println("Account disabled")
	return nil
}
