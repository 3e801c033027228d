package persist

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/wellday/internal/kv"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/observe"
)

// Options configure a Container
type Options[T any] struct {
	Key     string
	Version int
	// Clone deep-copies state handed to readers and subscribers
	Clone func(T) T
	// Normalize repairs hydrated state; optional
	Normalize func(T) T
	// Migrate upgrades state stored at an older version; optional
	Migrate MigrateFunc
}

// Container holds one store's state, persists it on every change and
// notifies subscribers.
type Container[T any] struct {
	opts    Options[T]
	backend kv.Backend
	writer  *Writer
	subject observe.Subject[T]

	mu       sync.Mutex
	state    T
	hydrated bool
}

// NewContainer returns a container holding initial until Hydrate runs
func NewContainer[T any](backend kv.Backend, initial T, opts Options[T]) *Container[T] {
	if opts.Clone == nil {
		opts.Clone = func(v T) T { return v }
	}
	return &Container[T]{
		opts:    opts,
		backend: backend,
		writer:  NewWriter(backend, opts.Key),
		state:   initial,
	}
}

// Get returns a copy of the current state
func (c *Container[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.Clone(c.state)
}

// Hydrated reports whether stored state has been loaded
func (c *Container[T]) Hydrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hydrated
}

// Hydrate replaces the in-memory state with the stored one. A missing key keeps
// the current state. On a read or decode error the current state is kept and
// the error is returned.
func (c *Container[T]) Hydrate(ctx context.Context) error {
	stored, ok, err := Load[T](ctx, c.backend, c.opts.Key, c.opts.Version, c.opts.Migrate)
	if err != nil {
		logger.Warn("Keeping default state", "key", c.opts.Key, "error", err)
		return err
	}

	c.mu.Lock()
	c.hydrated = true
	if !ok {
		c.mu.Unlock()
		logger.Debug("No stored state", "key", c.opts.Key)
		return nil
	}
	if c.opts.Normalize != nil {
		stored = c.opts.Normalize(stored)
	}
	c.state = stored
	snapshot := c.opts.Clone(c.state)
	c.mu.Unlock()

	logger.Debug("Hydrated state", "key", c.opts.Key)
	c.subject.Publish(snapshot)
	return nil
}

// Update applies fn to the state under the lock. When fn reports a change the
// new state is queued for writing and published. An error from fn leaves
// the state as fn left it and skips persistence; fn must not mutate before failing.
func (c *Container[T]) Update(fn func(state *T) (changed bool, err error)) error {
	c.mu.Lock()
	changed, err := fn(&c.state)
	if err != nil || !changed {
		c.mu.Unlock()
		return err
	}
	c.save()
	snapshot := c.opts.Clone(c.state)
	c.mu.Unlock()

	c.subject.Publish(snapshot)
	return nil
}

// Subscribe registers fn for every state change
func (c *Container[T]) Subscribe(fn func(T)) func() {
	return c.subject.Subscribe(fn)
}

// Subject exposes the underlying subject for selector subscriptions
func (c *Container[T]) Subject() *observe.Subject[T] {
	return &c.subject
}

// Flush waits for queued writes
func (c *Container[T]) Flush(ctx context.Context) error {
	return c.writer.Flush(ctx)
}

// Close flushes and stops the writer. The backend is left open.
func (c *Container[T]) Close(ctx context.Context) error {
	return c.writer.Close(ctx)
}

// Status reports the writer's progress
func (c *Container[T]) Status() Status {
	return c.writer.Status()
}

// save must be called with c.mu held so writes are queued in mutation order
func (c *Container[T]) save() {
	data, err := Encode(c.state, c.opts.Version)
	if err != nil {
		logger.Error("Failed to encode state", "key", c.opts.Key, "error", err)
		c.writer.Fail(fmt.Errorf("failed to encode state: %w", err))
		return
	}
	c.writer.Save(data)
}
