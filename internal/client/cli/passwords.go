package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/passvault/internal/client/rest"
	"github.com/dmitrijs2005/passvault/internal/generator"
)

const passwordMask = "********"

// Generate prints a new password and its strength. The password is kept
// so the next save can offer it.
func (a *App) Generate(ctx context.Context, args []string) error {
	length := a.config.DefaultLength
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid length %q", args[0])
		}
		length = n
	}

	pw, err := a.gen.Generate(length)
	if err != nil {
		return err
	}

	score := generator.Strength(pw)
	a.lastGenerated = pw
	a.println("Password:", pw)
	a.println(fmt.Sprintf("Strength: %s (%d/%d)", generator.StrengthLabel(score), score, generator.MaxStrength))
	return nil
}

// Save stores a credential for a product and login. An empty password
// answer takes the last generated one.
func (a *App) Save(ctx context.Context) error {
	product, err := a.ask("Product")
	if err != nil {
		return err
	}
	login, err := a.ask("Login")
	if err != nil {
		return err
	}
	if product == "" || login == "" {
		return errProductRequired
	}

	prompt := "Password"
	if a.lastGenerated != "" {
		prompt = "Password (Enter to use the last generated one)"
	}
	password, err := a.askSecret(prompt)
	if err != nil {
		return err
	}
	if password == "" {
		password = a.lastGenerated
	}
	if password == "" {
		return errPasswordRequired
	}

	_, created, err := a.api.SavePassword(ctx, product, login, password)
	if err := a.guard(ctx, err); err != nil {
		return err
	}

	a.listed = nil
	if created {
		a.println("Saved")
	} else {
		a.println("Updated existing entry")
	}
	return nil
}

// List prints the saved credentials, newest first. Passwords are masked
// unless -s is given.
func (a *App) List(ctx context.Context, args []string) error {
	show := len(args) > 0 && (args[0] == "-s" || args[0] == "--show")

	items, err := a.api.ListPasswords(ctx)
	if err := a.guard(ctx, err); err != nil {
		return err
	}

	a.listed = items
	if len(items) == 0 {
		a.println("No saved passwords")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPRODUCT\tLOGIN\tPASSWORD\tCREATED")
	for i, c := range items {
		pw := passwordMask
		if show {
			pw = c.Password
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, c.Product, c.Login, pw, c.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// Delete removes a credential given either its number in the last listing
// or its id.
func (a *App) Delete(ctx context.Context, args []string) error {
	var target string
	if len(args) > 0 {
		target = args[0]
	} else {
		var err error
		if target, err = a.ask("Enter # from the list or id"); err != nil {
			return err
		}
	}
	target = strings.TrimPrefix(target, "#")
	if target == "" {
		return errors.New("nothing to delete")
	}

	id := target
	if n, err := strconv.Atoi(target); err == nil {
		if n < 1 || n > len(a.listed) {
			return fmt.Errorf("no entry #%d, run list first", n)
		}
		id = a.listed[n-1].ID
	}

	err := a.api.DeletePassword(ctx, id)
	if rest.IsStatus(err, http.StatusUnauthorized) {
		// the same status means "not yours" when the token still works
		if _, meErr := a.api.Me(ctx); meErr == nil {
			return a.track(ctx, err)
		}
	}
	if err := a.guard(ctx, err); err != nil {
		return err
	}

	a.listed = nil
	a.println("Deleted")
	return nil
}
