package system

import (
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/kv"
)

// StatusCmd reports where state is stored and how each store's writes are going
type StatusCmd struct{}

func (cmd *StatusCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if err := a.Flush(ctx.Context()); err != nil {
		ctx.Printf("Warning: pending writes did not finish: %v\n", err)
	}

	ctx.Printf("Backend: %s\n", kv.Describe(a.Backend))
	if a.Session.IsLoggedIn() {
		ctx.Printf("Signed in as: %s\n", a.Session.Email())
	} else {
		ctx.Println("Signed in as: nobody")
	}
	ctx.Println()

	for _, st := range a.Statuses() {
		lastSaved := "not saved this session"
		if !st.LastSaved.IsZero() {
			lastSaved = st.LastSaved.Format("2006-01-02 15:04:05")
		}
		ctx.Printf("%-16s last saved: %s, writes: %d\n", st.Key, lastSaved, st.Writes)
		if st.Pending {
			ctx.Println("                 write pending")
		}
		if st.LastError != nil {
			ctx.Printf("                 last error: %v\n", st.LastError)
		}
	}
	return nil
}
