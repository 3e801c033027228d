package system

import (
	"fmt"

	"github.com/julianstephens/wellday/internal/app"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/kv"
)

// WipeCmd erases the session, plan and check-in history from the backend
type WipeCmd struct {
	Yes bool `short:"y" help:"Erase without asking for confirmation."`
}

func (cmd *WipeCmd) Run(ctx *cli.Context) error {
	if !cmd.Yes {
		ctx.Println("⚠️  This signs you out and erases your plan, check-ins and questionnaire.")
		ok, err := ctx.Confirm("Erase all data?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Wipe cancelled.")
			return nil
		}
	}

	// Close the stores first so no pending write lands after the wipe
	if err := ctx.Close(); err != nil {
		return fmt.Errorf("failed to close stores: %w", err)
	}
	backend, release, err := ctx.Backend()
	if err != nil {
		return err
	}
	defer release()

	if err := app.Wipe(ctx.Context(), backend); err != nil {
		return err
	}
	ctx.Printf("✓ Erased all data from %s\n", kv.Describe(backend))
	return nil
}
