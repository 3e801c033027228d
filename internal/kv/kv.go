// Package kv defines the key-value capability the stores persist through.
//
// Every store writes a single serialized blob under a fixed key. A missing key is
// not an error: Get reports ok == false and the caller falls back to its defaults.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned by backends used after Close
	ErrClosed = errors.New("key-value backend is closed")
	// ErrEmptyKey is returned for operations on the empty key
	ErrEmptyKey = errors.New("key must not be empty")
)

// Backend is a string key-value store
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Describer is implemented by backends that can name their location without secrets
type Describer interface {
	Describe() string
}

// Describe names a backend for logs and diagnostics
func Describe(b Backend) string {
	if d, ok := b.(Describer); ok {
		return d.Describe()
	}
	return "unknown"
}
