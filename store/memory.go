package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore is the session-scoped storage strategy: slots live only for
// the lifetime of the process, mirroring session storage semantics.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryStore creates an empty in-memory slot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[string][]byte),
	}
}

// Load returns the JSON payload stored under key.
func (s *MemoryStore) Load(ctx context.Context, key string) (json.RawMessage, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	payload, ok := s.slots[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !json.Valid(payload) {
		_ = s.Clear(ctx, key)
		return nil, false, nil
	}

	out := make(json.RawMessage, len(payload))
	copy(out, payload)
	return out, true, nil
}

// Save serializes value and stores it under key.
func (s *MemoryStore) Save(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("store: slot key is required")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode slot %q: %w", key, err)
	}

	s.mu.Lock()
	s.slots[key] = payload
	s.mu.Unlock()
	return nil
}

// Clear deletes the slot.
func (s *MemoryStore) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.slots, key)
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
