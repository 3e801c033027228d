// Package clitest builds command contexts for tests.
package clitest

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/julianstephens/wellday/internal/app"
	"github.com/julianstephens/wellday/internal/cli"
	"github.com/julianstephens/wellday/internal/clock"
	"github.com/julianstephens/wellday/internal/config"
	"github.com/julianstephens/wellday/internal/constants"
)

// Env is a command context backed by a temporary sqlite database and a manual clock
type Env struct {
	Ctx   *cli.Context
	Out   *bytes.Buffer
	Clock *clock.Manual
}

// New returns an Env whose clock reads today. Stores are closed on cleanup.
func New(t *testing.T, today string) *Env {
	t.Helper()
	cfg := config.DefaultConfig(t.TempDir())
	cfg.Backend = constants.BackendSQLite

	clk := clock.NewManual(today)
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}

	ctx := cli.New(context.Background(), cfg, app.WithClock(clk), app.WithIDGenerator(ids))
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.In = strings.NewReader("")
	t.Cleanup(func() { _ = ctx.Close() })

	return &Env{Ctx: ctx, Out: out, Clock: clk}
}

// Input sets what Confirm prompts will read
func (e *Env) Input(s string) {
	e.Ctx.In = strings.NewReader(s)
}

// Login signs in a@b.co
func (e *Env) Login(t *testing.T) *app.App {
	t.Helper()
	a, err := e.Ctx.App()
	if err != nil {
		t.Fatalf("failed to open stores: %v", err)
	}
	a.Session.Login("a@b.co")
	return a
}

// Reopen closes the stores so the next command hydrates from disk
func (e *Env) Reopen(t *testing.T) {
	t.Helper()
	if err := e.Ctx.Close(); err != nil {
		t.Fatalf("failed to close stores: %v", err)
	}
}
