// Package telemetry provides OpenTelemetry integration for the client:
// a per-request observer and the OTLP exporter bootstrap.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/beij-labs/beijshop/api"
)

// RequestObserver records backend request signals into OpenTelemetry:
// one span per request plus request counters and a latency histogram.
type RequestObserver struct {
	tracer trace.Tracer

	requests metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewRequestObserver creates a request observer bound to the provided
// meter and tracer.
func NewRequestObserver(meter metric.Meter, tracer trace.Tracer) (*RequestObserver, error) {
	requests, err := meter.Int64Counter(
		"beijshop.api.requests",
		metric.WithDescription("Number of backend requests"),
	)
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter(
		"beijshop.api.failures",
		metric.WithDescription("Number of failed backend requests"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"beijshop.api.latency",
		metric.WithDescription("Backend request latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RequestObserver{
		tracer:   tracer,
		requests: requests,
		failures: failures,
		latency:  latency,
	}, nil
}

// ObserveRequest records one backend request outcome.
func (o *RequestObserver) ObserveRequest(observation api.RequestObservation) {
	if o == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", observation.Operation),
		attribute.String("http.method", observation.Method),
		attribute.Bool("success", observation.Success),
	}
	if observation.Status != 0 {
		attrs = append(attrs, attribute.Int("http.status_code", observation.Status))
	}

	ctx := context.Background()
	options := metric.WithAttributes(attrs...)
	o.requests.Add(ctx, 1, options)
	o.latency.Record(ctx, float64(time.Duration(observation.DurationMS)*time.Millisecond)/float64(time.Second), options)
	if !observation.Success {
		o.failures.Add(ctx, 1, options)
	}

	if o.tracer == nil {
		return
	}
	_, span := o.tracer.Start(ctx, "api."+observation.Operation, trace.WithAttributes(attrs...))
	if !observation.Success {
		span.SetStatus(codes.Error, observation.Operation)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

var _ api.Observer = (*RequestObserver)(nil)
