// Package compare maintains the compare selection: an ordered set of at
// most two product ids, mirrored to the persistent client store on every
// mutation.
package compare

import (
	"context"
	"log/slog"
	"sync"

	"github.com/beij-labs/beijshop/store"
)

// MaxItems is the compare selection capacity.
const MaxItems = 2

// Manager owns the compare selection. All methods are safe for
// concurrent use.
type Manager struct {
	store  store.Store
	logger *slog.Logger

	mu sync.RWMutex
	// ids holds at most MaxItems unique product ids in insertion order.
	ids []string
	// hydrated gates write-through: until the initial load has run, no
	// save may overwrite the stored value with the empty default.
	hydrated bool
}

// Config configures a compare selection manager.
type Config struct {
	// Store receives the write-through copy of the selection. Required.
	Store store.Store

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// NewManager creates a compare selection manager. The selection starts
// empty; call Hydrate to adopt a previously stored selection.
func NewManager(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  cfg.Store,
		logger: logger,
	}
}

// Hydrate loads the stored selection. A stored array is deduplicated,
// then clamped to MaxItems entries; anything else leaves the selection
// empty. Hydrate also lifts the write-through suppression, so it must
// run before the first mutation is expected to persist.
func (m *Manager) Hydrate(ctx context.Context) {
	ids, ok := store.Get[[]string](ctx, m.store, store.SlotCompare)

	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		ids = dedupe(ids)
		if len(ids) > MaxItems {
			ids = ids[:MaxItems]
		}
		m.ids = ids
	}
	m.hydrated = true
}

// Add appends a product id to the selection. It returns false without
// mutation or storage write when the selection is full or already
// contains the id.
func (m *Manager) Add(ctx context.Context, productID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.ids) >= MaxItems || contains(m.ids, productID) {
		return false
	}
	m.ids = append(m.ids, productID)
	m.persistLocked(ctx)
	return true
}

// Remove deletes a product id from the selection. Removing an absent id
// is a no-op that still writes through, matching add/clear symmetry.
func (m *Manager) Remove(ctx context.Context, productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.ids[:0]
	for _, id := range m.ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	m.ids = kept
	m.persistLocked(ctx)
}

// Clear resets the selection to empty.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ids = nil
	m.persistLocked(ctx)
}

// Contains reports whether the selection holds the product id.
func (m *Manager) Contains(productID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return contains(m.ids, productID)
}

// IsFull reports whether the selection is at capacity.
func (m *Manager) IsFull() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids) >= MaxItems
}

// IDs returns a copy of the selection in insertion order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// persistLocked writes the selection through to storage. The store is a
// convenience cache; failures are logged and not surfaced. Writes are
// suppressed until Hydrate has run.
func (m *Manager) persistLocked(ctx context.Context) {
	if !m.hydrated || m.store == nil {
		return
	}
	ids := m.ids
	if ids == nil {
		ids = []string{}
	}
	if err := m.store.Save(ctx, store.SlotCompare, ids); err != nil {
		m.logger.Warn("persisting compare selection failed", "error", err)
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	out := ids[:0]
	for _, id := range ids {
		if !contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
