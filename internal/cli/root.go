package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/wellday/internal/app"
	"github.com/julianstephens/wellday/internal/backup"
	"github.com/julianstephens/wellday/internal/config"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/kv"
	"github.com/julianstephens/wellday/internal/logger"
)

// ErrNotSignedIn is returned by commands that need a signed-in user
var ErrNotSignedIn = errors.New("not signed in, run 'wellday login' first")

// Context is passed to every command's Run method
type Context struct {
	Config *config.Config
	Out    io.Writer
	In     io.Reader

	ctx     context.Context
	appOpts []app.Option
	app     *app.App

	reader    *bufio.Reader
	readerSrc io.Reader
}

// New returns a command context. Stores are opened on first use.
func New(ctx context.Context, cfg *config.Config, opts ...app.Option) *Context {
	return &Context{
		Config:  cfg,
		Out:     os.Stdout,
		In:      os.Stdin,
		ctx:     ctx,
		appOpts: opts,
	}
}

// Context returns the context commands should pass to blocking calls
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// App opens and hydrates the stores the first time it is called
func (c *Context) App() (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := app.Open(c.Context(), c.Config, c.appOpts...)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// RequireLogin opens the stores and checks someone is signed in
func (c *Context) RequireLogin() (*app.App, error) {
	a, err := c.App()
	if err != nil {
		return nil, err
	}
	if !a.Session.IsLoggedIn() {
		return nil, ErrNotSignedIn
	}
	return a, nil
}

// Backend returns a backend holding the latest state. When the stores are open
// their pending writes are flushed and their backend is shared; otherwise the
// configured backend is opened. release closes only what Backend opened.
func (c *Context) Backend() (backend kv.Backend, release func(), err error) {
	if c.app != nil {
		if err := c.app.Flush(c.Context()); err != nil {
			return nil, nil, fmt.Errorf("failed to flush pending writes: %w", err)
		}
		return c.app.Backend, func() {}, nil
	}
	backend, err = app.OpenBackend(c.Context(), c.Config)
	if err != nil {
		return nil, nil, err
	}
	return backend, func() {
		if err := backend.Close(); err != nil {
			logger.Warn("Failed to close backend", "error", err)
		}
	}, nil
}

// Close flushes pending writes and closes the stores, if they were opened
func (c *Context) Close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close(context.WithoutCancel(c.Context()))
	c.app = nil
	return err
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Config.Backend != constants.BackendSQLite {
		return
	}
	mgr := backup.NewManager(c.Config.Path)
	if _, err := mgr.CreateBackup(c.Context()); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Print(args ...any) {
	fmt.Fprint(c.Out, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Confirm asks a yes/no question on In; anything but y or yes is a no
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	if c.reader == nil || c.readerSrc != c.In {
		c.reader = bufio.NewReader(c.In)
		c.readerSrc = c.In
	}
	response, err := c.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// IsInteractive reports whether In is a terminal
func (c *Context) IsInteractive() bool {
	f, ok := c.In.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
