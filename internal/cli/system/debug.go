package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/kv"
)

type DebugCmd struct {
	DBPath *DebugDBPathCmd `cmd:"" name:"db-path" help:"Show where state is stored."`
	Dump   *DebugDumpCmd   `cmd:"" help:"Dump a store's persisted state as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"backend": ctx.Config.Backend,
		"path":    ctx.Config.Path,
	}
	return printJSON(ctx, output)
}

type DebugDumpCmd struct {
	Store string `arg:"" enum:"session,plan,entries" help:"Store to dump (session, plan or entries)."`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	backend, release, err := ctx.Backend()
	if err != nil {
		return err
	}
	defer release()

	st, err := loadStoredState(ctx.Context(), backend)
	if err != nil {
		return err
	}

	var key string
	var state any
	switch cmd.Store {
	case "session":
		key, state = constants.SessionStorageKey, st.Session
	case "plan":
		key, state = constants.PlanStorageKey, st.Plan
	case "entries":
		key, state = constants.EntriesStorageKey, st.Entries
	default:
		return fmt.Errorf("unknown store %q", cmd.Store)
	}
	if !st.Present[key] {
		return fmt.Errorf("nothing stored under %s in %s", key, kv.Describe(backend))
	}
	return printJSON(ctx, state)
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
