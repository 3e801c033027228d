package system

import (
	"errors"

	"github.com/julianstephens/wellday/internal/cli"
)

// ValidateCmd checks the stored state without loading it into the stores
type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	backend, release, err := ctx.Backend()
	if err != nil {
		return err
	}
	defer release()

	st, err := loadStoredState(ctx.Context(), backend)
	if err != nil {
		return err
	}
	result := st.validate()
	ctx.Println(result.FormatReport())
	if result.HasIssues() {
		return errors.New("stored data has validation issues")
	}
	return nil
}
