// Package persist serializes store state into the versioned envelope and keeps
// the key-value backend in step with in-memory state.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/wellday/internal/kv"
)

// ErrVersionTooNew is returned when the stored state was written by a newer schema
var ErrVersionTooNew = errors.New("stored state version is newer than supported")

// Envelope is the on-disk shape of every store: {"state": ..., "version": N}
type Envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// MigrateFunc upgrades raw state written at an older version to the current one
type MigrateFunc func(fromVersion int, state json.RawMessage) (json.RawMessage, error)

// Encode wraps state in an envelope tagged with version
func Encode(state any, version int) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	data, err := json.Marshal(Envelope{State: raw, Version: version})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return data, nil
}

// Decode unwraps an envelope into T. Older versions are passed through migrate
// when it is set; without a migrate hook the state is read as-is.
func Decode[T any](data []byte, version int, migrate MigrateFunc) (T, error) {
	var zero T

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, fmt.Errorf("failed to parse envelope: %w", err)
	}
	if env.Version > version {
		return zero, fmt.Errorf("%w: got %d, support up to %d", ErrVersionTooNew, env.Version, version)
	}

	raw := env.State
	if env.Version < version && migrate != nil {
		migrated, err := migrate(env.Version, raw)
		if err != nil {
			return zero, fmt.Errorf("failed to migrate state from version %d: %w", env.Version, err)
		}
		raw = migrated
	}

	var state T
	if len(raw) == 0 || string(raw) == "null" {
		return zero, nil
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return zero, fmt.Errorf("failed to parse state: %w", err)
	}
	return state, nil
}

// Load reads and decodes the state stored under key. ok is false when nothing is stored.
func Load[T any](ctx context.Context, backend kv.Backend, key string, version int, migrate MigrateFunc) (state T, ok bool, err error) {
	value, found, err := backend.Get(ctx, key)
	if err != nil {
		return state, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found {
		return state, false, nil
	}
	state, err = Decode[T]([]byte(value), version, migrate)
	if err != nil {
		return state, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return state, true, nil
}
