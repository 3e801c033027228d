// Package app assembles the stores on top of the configured backend.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/wellday/internal/clock"
	"github.com/julianstephens/wellday/internal/config"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/entries"
	"github.com/julianstephens/wellday/internal/keyring"
	"github.com/julianstephens/wellday/internal/kv"
	"github.com/julianstephens/wellday/internal/kv/file"
	"github.com/julianstephens/wellday/internal/kv/memory"
	"github.com/julianstephens/wellday/internal/kv/postgres"
	"github.com/julianstephens/wellday/internal/kv/sqlite"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/persist"
	"github.com/julianstephens/wellday/internal/plan"
	"github.com/julianstephens/wellday/internal/session"
)

// StorageKeys lists the key of every store
var StorageKeys = []string{
	constants.SessionStorageKey,
	constants.PlanStorageKey,
	constants.EntriesStorageKey,
}

// App holds the open backend and the three stores
type App struct {
	Config  *config.Config
	Backend kv.Backend
	Clock   clock.Clock
	Session *session.Store
	Plan    *plan.Store
	Entries *entries.Store

	// NewID generates ids for records built outside the stores, like questionnaire answers
	NewID func() string
}

// Option customizes Open
type Option func(*options)

type options struct {
	backend kv.Backend
	clock   clock.Clock
	newID   func() string
}

// WithBackend uses b instead of opening the configured backend
func WithBackend(b kv.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithClock overrides the timezone clock
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIDGenerator overrides uuid generation for tasks and check-ins
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// OpenBackend opens the backend named in cfg
func OpenBackend(ctx context.Context, cfg *config.Config) (kv.Backend, error) {
	switch cfg.Backend {
	case constants.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case constants.BackendPostgres:
		connStr, err := keyring.ResolveConnectionString(cfg.Connection)
		if err != nil {
			return nil, err
		}
		store, err := postgres.Open(ctx, connStr)
		if err != nil {
			return nil, err
		}
		return store, nil
	case constants.BackendFile:
		return file.New(cfg.Path), nil
	case constants.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Open builds the stores, hydrates them and rolls the plan over if the day changed.
// A store that fails to hydrate aborts Open so stored state is never overwritten
// with defaults.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.clock == nil {
		sys, err := clock.NewSystem(cfg.Timezone)
		if err != nil {
			return nil, err
		}
		o.clock = sys
	}

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = OpenBackend(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
		}
	}

	planOpts := []plan.Option{plan.WithTitles(cfg.TaskTitles())}
	var entryOpts []entries.Option
	if o.newID != nil {
		planOpts = append(planOpts, plan.WithIDGenerator(o.newID))
		entryOpts = append(entryOpts, entries.WithIDGenerator(o.newID))
	}

	a := &App{
		Config:  cfg,
		Backend: backend,
		Clock:   o.clock,
		Session: session.New(backend),
		Plan:    plan.New(backend, o.clock, planOpts...),
		Entries: entries.New(backend, o.clock, entryOpts...),
		NewID:   uuid.NewString,
	}
	if o.newID != nil {
		a.NewID = o.newID
	}

	if err := a.hydrate(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	if a.Plan.CheckAndResetIfNewDay() {
		logger.Info("Started a new daily plan", "date", o.clock.Today())
	}

	logger.Debug("Opened stores", "backend", kv.Describe(backend))
	return a, nil
}

func (a *App) hydrate(ctx context.Context) error {
	if err := a.Session.Hydrate(ctx); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := a.Plan.Hydrate(ctx); err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	if err := a.Entries.Hydrate(ctx); err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}
	return nil
}

// Flush waits for every store's pending writes
func (a *App) Flush(ctx context.Context) error {
	return errors.Join(a.Session.Flush(ctx), a.Plan.Flush(ctx), a.Entries.Flush(ctx))
}

// Close flushes the stores within FlushTimeout and closes the backend
func (a *App) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.FlushTimeout)
	defer cancel()

	err := errors.Join(a.Session.Close(ctx), a.Plan.Close(ctx), a.Entries.Close(ctx))
	if cerr := a.Backend.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

// Statuses reports the persistence status of each store
func (a *App) Statuses() []persist.Status {
	return []persist.Status{a.Session.Status(), a.Plan.Status(), a.Entries.Status()}
}

// Wipe removes every store's state from backend
func Wipe(ctx context.Context, backend kv.Backend) error {
	for _, key := range StorageKeys {
		if err := backend.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	logger.Info("Wiped stored state", "backend", kv.Describe(backend))
	return nil
}
