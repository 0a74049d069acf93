// Package store provides the persistent client store: keyed JSON slots in
// either durable (SQLite-backed) or session-scoped (in-memory) storage.
//
// The store is a convenience cache for reload survival, not a source of
// truth. A slot holding unparseable JSON is indistinguishable from an empty
// slot: Load reports it absent and deletes it as a side effect.
package store

import (
	"context"
	"encoding/json"
)

// Well-known slot keys. Credentials and the compare selection live in
// independent slots and are never coupled.
const (
	SlotAuth    = "beij_auth"
	SlotCompare = "beij_compare_items"
)

// Store is a keyed JSON slot store. Implementations are SQLiteStore
// (durable across restarts) and MemoryStore (scoped to the process).
type Store interface {
	// Load returns the raw JSON stored under key. Missing and corrupt
	// slots report ok=false without error; a corrupt slot is deleted.
	Load(ctx context.Context, key string) (json.RawMessage, bool, error)

	// Save serializes value to JSON and writes it under key.
	Save(ctx context.Context, key string, value any) error

	// Clear deletes the slot unconditionally. Clearing a missing slot
	// is a no-op.
	Clear(ctx context.Context, key string) error
}

// Get loads and decodes the slot into T. Any decode failure is treated as
// corruption: the slot is cleared and the value reported absent. Storage
// errors are also reported as absent since the store is non-authoritative.
func Get[T any](ctx context.Context, s Store, key string) (T, bool) {
	var out T
	raw, ok, err := s.Load(ctx, key)
	if err != nil || !ok {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		_ = s.Clear(ctx, key)
		var zero T
		return zero, false
	}
	return out, true
}
