package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/validation"
)

type LoginCmd struct {
	Email string `arg:"" optional:"" help:"Email to sign in with. Prompts when omitted."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		if !ctx.IsInteractive() {
			return errors.New("email is required")
		}
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&email).
				Validate(validation.ValidateEmail),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				ctx.Println("Login cancelled.")
				return nil
			}
			return fmt.Errorf("login form failed: %w", err)
		}
		email = strings.TrimSpace(email)
	}

	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	a, err := ctx.App()
	if err != nil {
		return err
	}
	a.Session.Login(email)
	ctx.Printf("✓ Signed in as %s\n", email)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if !a.Session.IsLoggedIn() {
		ctx.Println("Not signed in.")
		return nil
	}
	a.Session.Logout()
	ctx.Println("✓ Signed out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if !a.Session.IsLoggedIn() {
		return cli.ErrNotSignedIn
	}
	ctx.Println(a.Session.Email())
	return nil
}
