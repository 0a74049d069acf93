// Package session maintains the current user identity, bearer token, and
// the derived saved-items list. Credentials are mirrored into a persistent
// store selected by the remember flag: the durable store survives
// restarts, the session-scoped store does not.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/beij-labs/beijshop/core"
	"github.com/beij-labs/beijshop/store"
)

// Backend is the subset of the API client the session manager calls.
type Backend interface {
	Logout(ctx context.Context, token string) error
	GetSavedItems(ctx context.Context, userID string) ([]string, error)
	SaveItem(ctx context.Context, userID, productID string) ([]string, error)
	UnsaveItem(ctx context.Context, userID, productID string) ([]string, error)
}

// Config configures a session manager. Both stores are required: the
// manager clears them jointly on logout regardless of which one holds
// the credentials.
type Config struct {
	Backend Backend

	// Durable survives restarts (remember = true).
	Durable store.Store

	// Scoped lives for the current process only (remember = false).
	Scoped store.Store

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Manager owns the session state. All methods are safe for concurrent
// use. Two ToggleSaveItem calls in flight concurrently can race on the
// saved-items list; the last backend response to resolve wins.
type Manager struct {
	backend Backend
	durable store.Store
	scoped  store.Store
	logger  *slog.Logger

	mu           sync.RWMutex
	user         *core.User
	token        string
	savedItemIDs []string
}

// NewManager creates an anonymous session manager. Call Hydrate to adopt
// previously stored credentials.
func NewManager(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		backend: cfg.Backend,
		durable: cfg.Durable,
		scoped:  cfg.Scoped,
		logger:  logger,
	}
}

// Hydrate loads stored credentials, preferring the durable store, and
// refetches the saved-items list when a user appears. It is a no-op when
// nothing usable is stored.
func (m *Manager) Hydrate(ctx context.Context) {
	creds, ok := store.Get[core.Credentials](ctx, m.durable, store.SlotAuth)
	if !ok {
		creds, ok = store.Get[core.Credentials](ctx, m.scoped, store.SlotAuth)
	}
	if !ok || creds.Token == "" || creds.User.UserID == "" {
		return
	}

	m.mu.Lock()
	user := creds.User
	m.user = &user
	m.token = creds.Token
	m.mu.Unlock()

	m.refreshSavedItems(ctx)
}

// Login adopts already-validated credentials. No network round trip
// happens here; authentication itself is the API client's concern. The
// credential bundle is persisted into the durable store when remember is
// set, otherwise into the session-scoped store.
func (m *Manager) Login(ctx context.Context, user core.User, token string, remember bool) {
	m.mu.Lock()
	u := user
	m.user = &u
	m.token = token
	m.savedItemIDs = nil
	m.mu.Unlock()

	target := m.scoped
	if remember {
		target = m.durable
	}
	if err := target.Save(ctx, store.SlotAuth, core.Credentials{Token: token, User: user}); err != nil {
		m.logger.Warn("persisting credentials failed", "error", err)
	}

	m.refreshSavedItems(ctx)
}

// Logout tears the session down. The server-side token invalidation is
// best-effort: success, HTTP error, and transport error all lead to the
// same local outcome, a cleared session and cleared storage slots in
// both stores.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.user = nil
	m.token = ""
	m.savedItemIDs = nil
	m.mu.Unlock()

	if token != "" && m.backend != nil {
		if err := m.backend.Logout(ctx, token); err != nil {
			m.logger.Warn("server-side logout failed", "error", err)
		}
	}

	if err := m.durable.Clear(ctx, store.SlotAuth); err != nil {
		m.logger.Warn("clearing durable credentials failed", "error", err)
	}
	if err := m.scoped.Clear(ctx, store.SlotAuth); err != nil {
		m.logger.Warn("clearing session credentials failed", "error", err)
	}
}

// UpdateUser replaces the user record wholesale. Storage is rewritten
// only where a credential bundle already exists; an unpersisted session
// is not newly persisted by an update.
func (m *Manager) UpdateUser(ctx context.Context, user core.User) {
	m.mu.Lock()
	u := user
	m.user = &u
	token := m.token
	m.mu.Unlock()

	creds := core.Credentials{Token: token, User: user}
	for _, st := range []store.Store{m.durable, m.scoped} {
		if _, ok, _ := st.Load(ctx, store.SlotAuth); !ok {
			continue
		}
		if err := st.Save(ctx, store.SlotAuth, creds); err != nil {
			m.logger.Warn("rewriting credentials failed", "error", err)
		}
	}
}

// ToggleSaveItem saves the product when it is not in the saved list and
// unsaves it when it is. The backend returns the authoritative full id
// list, which replaces the local list verbatim; there is no optimistic
// local mutation. Returns core.ErrUnauthenticated without any network
// call when no user is present.
func (m *Manager) ToggleSaveItem(ctx context.Context, productID string) ([]string, error) {
	m.mu.RLock()
	user := m.user
	saved := contains(m.savedItemIDs, productID)
	m.mu.RUnlock()

	if user == nil {
		return nil, core.ErrUnauthenticated
	}

	var (
		ids []string
		err error
	)
	if saved {
		ids, err = m.backend.UnsaveItem(ctx, user.UserID, productID)
	} else {
		ids, err = m.backend.SaveItem(ctx, user.UserID, productID)
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.savedItemIDs = ids
	m.mu.Unlock()
	return ids, nil
}

// IsItemSaved reports membership in the saved-items list.
func (m *Manager) IsItemSaved(productID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return contains(m.savedItemIDs, productID)
}

// IsAuthenticated reports whether both a user and a token are present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.token != ""
}

// User returns the current user record, if any.
func (m *Manager) User() (core.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return core.User{}, false
	}
	return *m.user, true
}

// Token returns the current bearer token, or "" when anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// SavedItemIDs returns a copy of the saved-items list in server order.
func (m *Manager) SavedItemIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.savedItemIDs))
	copy(out, m.savedItemIDs)
	return out
}

// refreshSavedItems fetches the saved-items list for the current user.
// Saved-item data is supplementary: on failure the list stays empty
// rather than surfacing an error.
func (m *Manager) refreshSavedItems(ctx context.Context) {
	m.mu.RLock()
	user := m.user
	m.mu.RUnlock()
	if user == nil || m.backend == nil {
		return
	}

	ids, err := m.backend.GetSavedItems(ctx, user.UserID)
	if err != nil {
		m.logger.Warn("fetching saved items failed", "user_id", user.UserID, "error", err)
		return
	}

	m.mu.Lock()
	m.savedItemIDs = ids
	m.mu.Unlock()
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
