package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/kv"
	"github.com/julianstephens/wellday/internal/logger"
)

// ErrWriterClosed is recorded when a save arrives after Close
var ErrWriterClosed = errors.New("writer is closed")

// Status describes the outcome of the most recent writes
type Status struct {
	Key       string
	LastSaved time.Time
	LastError error
	Writes    int
	Pending   bool
}

// Writer writes the newest value for one key in the background.
// Saves never block; while a write is in flight further saves coalesce and
// only the latest value reaches the backend.
type Writer struct {
	backend kv.Backend
	key     string
	timeout time.Duration
	now     func() time.Time

	mu       sync.Mutex
	pending  []byte
	dirty    bool
	inflight bool
	closed   bool
	waiters  []chan struct{}
	status   Status
	failed   error

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewWriter starts a writer for key
func NewWriter(backend kv.Backend, key string) *Writer {
	w := &Writer{
		backend: backend,
		key:     key,
		timeout: constants.FlushTimeout,
		now:     time.Now,
		status:  Status{Key: key},
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Save queues data as the newest value for the key
func (w *Writer) Save(data []byte) {
	w.mu.Lock()
	if w.closed {
		w.status.LastError = ErrWriterClosed
		w.mu.Unlock()
		logger.Warn("Dropped write after close", "key", w.key)
		return
	}
	w.pending = data
	w.dirty = true
	w.failed = nil
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Fail records err for a value that could not be handed to Save.
// It sticks until the next Save.
func (w *Writer) Fail(err error) {
	w.mu.Lock()
	w.failed = err
	w.status.LastError = err
	w.mu.Unlock()
}

// Flush waits until every save issued before the call has been written.
// It returns the error of the last write, if any.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	if !w.dirty && !w.inflight {
		err := w.status.LastError
		w.mu.Unlock()
		return err
	}
	ch := make(chan struct{})
	w.waiters = append(w.waiters, ch)
	w.mu.Unlock()

	select {
	case <-ch:
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.status.LastError
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes anything pending and stops the writer
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status.LastError
}

// Status returns a snapshot of the writer's progress
func (w *Writer) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.status
	s.Pending = w.dirty || w.inflight
	return s
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *Writer) drain() {
	for {
		w.mu.Lock()
		if !w.dirty {
			waiters := w.waiters
			w.waiters = nil
			w.mu.Unlock()
			for _, ch := range waiters {
				close(ch)
			}
			return
		}
		data := w.pending
		w.pending = nil
		w.dirty = false
		w.inflight = true
		w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		err := w.backend.Set(ctx, w.key, string(data))
		cancel()

		w.mu.Lock()
		w.inflight = false
		w.status.Writes++
		if err != nil {
			w.status.LastError = err
		} else {
			w.status.LastSaved = w.now()
			w.status.LastError = w.failed
		}
		w.mu.Unlock()

		if err != nil {
			logger.Error("Failed to persist state", "key", w.key, "error", err)
		} else {
			logger.Debug("Persisted state", "key", w.key, "bytes", len(data))
		}
	}
}
