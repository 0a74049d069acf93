// Package beijshop is the client SDK for the BeijShop storefront backend.
// It bundles the API client, the persistent client store, and the session
// and compare-selection managers behind one composition root.
//
// The subpackages can also be used directly:
//
//	import "github.com/beij-labs/beijshop/api"
//	import "github.com/beij-labs/beijshop/session"
//	import "github.com/beij-labs/beijshop/compare"
//	import "github.com/beij-labs/beijshop/catalog"
package beijshop

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/beij-labs/beijshop/api"
	"github.com/beij-labs/beijshop/catalog"
	"github.com/beij-labs/beijshop/compare"
	"github.com/beij-labs/beijshop/config"
	"github.com/beij-labs/beijshop/core"
	"github.com/beij-labs/beijshop/session"
	"github.com/beij-labs/beijshop/store"
)

// Re-exported core types, so most callers only import beijshop.
type (
	// User is the public account record.
	User = core.User

	// Product is the full catalog record.
	Product = core.Product

	// ProductPreview is the reduced-field listing record.
	ProductPreview = core.ProductPreview

	// LoginResponse is the backend's answer to a successful login.
	LoginResponse = core.LoginResponse

	// APIError is a normalized non-2xx backend response.
	APIError = core.APIError
)

// ErrUnauthenticated is returned by operations requiring a logged-in user.
var ErrUnauthenticated = core.ErrUnauthenticated

// Options configures the composition root.
type Options struct {
	// Config carries the backend address and storage locations.
	Config config.Config

	// Observer receives per-request observations (see telemetry).
	Observer api.Observer

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// App wires the client stack: stores, API client, read cache, browser,
// and the two state managers. State is hydrated from the durable store
// during New, so a remembered session survives process restarts.
type App struct {
	Config  config.Config
	Client  *api.Client
	Cache   *api.Cache
	Browser *catalog.Browser
	Session *session.Manager
	Compare *compare.Manager

	durable *store.SQLiteStore
}

// New builds and hydrates an App.
func New(ctx context.Context, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client, err := api.NewClient(api.Config{
		BaseURL:    opts.Config.API.BaseURL,
		HTTPClient: opts.HTTPClient,
		Observer:   opts.Observer,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	sqlitePath := opts.Config.Storage.SQLitePath
	if sqlitePath == "" {
		sqlitePath, err = store.DefaultSQLitePath()
		if err != nil {
			return nil, err
		}
	}
	durable, err := store.NewSQLiteStore(store.SQLiteConfig{DSN: sqlitePath})
	if err != nil {
		return nil, fmt.Errorf("opening durable store: %w", err)
	}

	cache := api.NewCache(client, api.CacheConfig{})
	browser, err := catalog.NewBrowser(cache)
	if err != nil {
		_ = durable.Close()
		return nil, err
	}

	sess := session.NewManager(session.Config{
		Backend: client,
		Durable: durable,
		Scoped:  store.NewMemoryStore(),
		Logger:  logger,
	})
	sess.Hydrate(ctx)

	cmp := compare.NewManager(compare.Config{
		Store:  durable,
		Logger: logger,
	})
	cmp.Hydrate(ctx)

	return &App{
		Config:  opts.Config,
		Client:  client,
		Cache:   cache,
		Browser: browser,
		Session: sess,
		Compare: cmp,
		durable: durable,
	}, nil
}

// Close releases the durable store.
func (a *App) Close() error {
	if a == nil || a.durable == nil {
		return nil
	}
	return a.durable.Close()
}
