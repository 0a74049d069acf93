package telemetry_test

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/beij-labs/beijshop/api"
	"github.com/beij-labs/beijshop/telemetry"
)

// newTestMeter returns a meter backed by a manual reader for collecting
// metrics in tests.
func newTestMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return reader, mp
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func TestRequestObserver_RecordsMetrics(t *testing.T) {
	reader, mp := newTestMeter()
	meter := mp.Meter("test-request-observer")
	tracer := noop.NewTracerProvider().Tracer("test-request-observer")

	observer, err := telemetry.NewRequestObserver(meter, tracer)
	if err != nil {
		t.Fatalf("NewRequestObserver() error = %v", err)
	}

	observer.ObserveRequest(api.RequestObservation{
		Operation:  "get_product",
		Method:     "GET",
		Status:     200,
		DurationMS: 40,
		Success:    true,
	})
	observer.ObserveRequest(api.RequestObservation{
		Operation:  "login",
		Method:     "POST",
		Status:     401,
		DurationMS: 15,
		Success:    false,
	})

	rm := collectMetrics(t, reader)

	requests := findMetric(rm, "beijshop.api.requests")
	if requests == nil {
		t.Fatal("beijshop.api.requests metric missing")
	}
	sum, ok := requests.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("requests data type = %T", requests.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 2 {
		t.Fatalf("requests total = %d, want 2", total)
	}

	failures := findMetric(rm, "beijshop.api.failures")
	if failures == nil {
		t.Fatal("beijshop.api.failures metric missing")
	}
	failSum, ok := failures.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("failures data type = %T", failures.Data)
	}
	var failTotal int64
	for _, dp := range failSum.DataPoints {
		failTotal += dp.Value
	}
	if failTotal != 1 {
		t.Fatalf("failures total = %d, want 1", failTotal)
	}

	if findMetric(rm, "beijshop.api.latency") == nil {
		t.Fatal("beijshop.api.latency metric missing")
	}
}

func TestRequestObserver_EmitsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, mp := newTestMeter()
	observer, err := telemetry.NewRequestObserver(mp.Meter("test"), tp.Tracer("test"))
	if err != nil {
		t.Fatalf("NewRequestObserver() error = %v", err)
	}

	observer.ObserveRequest(api.RequestObservation{
		Operation: "get_previews",
		Method:    "GET",
		Status:    200,
		Success:   true,
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Name != "api.get_previews" {
		t.Fatalf("span name = %q", spans[0].Name)
	}
}

func TestSetup_EmptyEndpointIsNoop(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), telemetry.SetupConfig{})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}
}
