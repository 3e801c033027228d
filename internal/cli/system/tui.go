package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/cli/account"
	"github.com/julianstephens/wellday/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if !a.Session.IsLoggedIn() {
		if err := (&account.LoginCmd{}).Run(ctx); err != nil {
			return err
		}
		if !a.Session.IsLoggedIn() {
			return nil
		}
	}

	// Perform automatic backup on TUI startup (after successful load)
	if err := a.Flush(ctx.Context()); err == nil {
		ctx.PerformAutomaticBackup()
	}

	model := tui.NewModel(a)
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	return nil
}
