package telemetry

import (
	"context"
	"fmt"
	"strings"

	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceName = "beijshop"

// SetupConfig configures the OTLP bootstrap.
type SetupConfig struct {
	// Endpoint is the OTLP/HTTP collector host:port. Empty disables
	// export: the global providers stay no-op and Setup returns a
	// no-op shutdown.
	Endpoint string

	// Insecure disables TLS towards the collector.
	Insecure bool
}

// Setup installs global tracer and meter providers backed by an
// OTLP/HTTP trace exporter. The returned shutdown flushes and stops the
// providers.
func Setup(ctx context.Context, cfg SetupConfig) (func(context.Context) error, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating OTLP trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry: building resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res))

	otelapi.SetTracerProvider(tp)
	otelapi.SetMeterProvider(mp)

	return func(ctx context.Context) error {
		traceErr := tp.Shutdown(ctx)
		meterErr := mp.Shutdown(ctx)
		if traceErr != nil {
			return traceErr
		}
		return meterErr
	}, nil
}
