// Package cli implements the beijshop command-line interface.
package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	otelapi "go.opentelemetry.io/otel"

	"github.com/beij-labs/beijshop"
	"github.com/beij-labs/beijshop/config"
	"github.com/beij-labs/beijshop/core"
	"github.com/beij-labs/beijshop/telemetry"
)

// buildApp assembles the client stack for a command invocation: config
// discovery, telemetry, and the hydrated App. The returned cleanup
// closes the durable store and flushes telemetry; callers defer it.
func buildApp(cmd *cobra.Command) (*beijshop.App, func(), error) {
	explicitConfig, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(explicitConfig)
	if err != nil {
		return nil, nil, exitError(exitConfig, "loading configuration: %v", err)
	}
	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	shutdown, err := telemetry.Setup(cmd.Context(), telemetry.SetupConfig{
		Endpoint: cfg.Telemetry.OTLPEndpoint,
		Insecure: cfg.Telemetry.Insecure,
	})
	if err != nil {
		return nil, nil, exitError(exitConfig, "initializing telemetry: %v", err)
	}

	observer, err := telemetry.NewRequestObserver(
		otelapi.GetMeterProvider().Meter("beijshop/api"),
		otelapi.GetTracerProvider().Tracer("beijshop/api"),
	)
	if err != nil {
		_ = shutdown(context.Background())
		return nil, nil, exitError(exitConfig, "initializing request observability: %v", err)
	}

	app, err := beijshop.New(cmd.Context(), beijshop.Options{
		Config:   cfg,
		Observer: observer,
		Logger:   logger,
	})
	if err != nil {
		_ = shutdown(context.Background())
		return nil, nil, exitError(exitConfig, "%v", err)
	}

	cleanup := func() {
		_ = app.Close()
		_ = shutdown(context.Background())
	}
	return app, cleanup, nil
}

// requireUser returns the signed-in user or an auth exit error.
func requireUser(app *beijshop.App) (core.User, error) {
	user, ok := app.Session.User()
	if !ok {
		return core.User{}, exitError(exitAuth, "not logged in (run \"beijshop login\" first)")
	}
	return user, nil
}

// apiExitError maps a backend failure to the matching exit code.
func apiExitError(err error) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return exitError(exitNotFound, "%v", err)
	case errors.Is(err, core.ErrUnauthenticated), errors.Is(err, core.ErrForbidden):
		return exitError(exitAuth, "%v", err)
	default:
		return exitError(exitAPI, "%v", err)
	}
}
