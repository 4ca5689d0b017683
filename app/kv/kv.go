// Package kv is the persistence adapter behind every store in the
// application. It mirrors the contract of the browser storage the original
// system ran on: string keys, JSON text values, whole-value overwrites with
// last-write-wins semantics, no transactions and no multi-key atomicity.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Store is a synchronous key-value backend. Implementations must keep the
// documented semantics: Set fully overwrites the prior value, concurrent
// writers to the same key race with last-write-wins, and no operation spans
// more than one key.
type Store interface {
	// Get returns the stored value, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites the value under key. Values are JSON text.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists all keys with the given prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Event is a passive change notification. Key may be empty when the backend
// cannot tell which key changed; consumers re-read whatever they care about.
type Event struct {
	Key string
}

// Watcher is implemented by backends that can report external changes, the
// analog of the browser "storage" event. Watching is best-effort only and is
// never used for conflict resolution.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// ErrWatchUnsupported is returned by WatchStore when the backend cannot
// observe external changes.
var ErrWatchUnsupported = errors.New("kv: backend does not support watching")

// WatchStore starts a watch on s if the backend supports it.
func WatchStore(ctx context.Context, s Store) (<-chan Event, error) {
	w, ok := s.(Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}

// GetJSON reads key and unmarshals it into dst. Absent keys and malformed
// stored JSON are treated identically: dst is left untouched and ok is
// false. Malformed data must never surface as an error to callers.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("kv get %q: %w", key, err)
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and overwrites key with it.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv marshal %q: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}
