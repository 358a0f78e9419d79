// internal/common/observability/metrics.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records gateway call counts and latencies through an
// OpenTelemetry meter exported on the default Prometheus registry.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	callCounter   otelmetric.Int64Counter
	callDuration  otelmetric.Float64Histogram
}

func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return newWithProvider(provider, serviceName), nil
}

// NewWithReader wires an explicit reader, used by tests with a ManualReader.
func NewWithReader(reader metric.Reader, serviceName string) *Observability {
	return newWithProvider(metric.NewMeterProvider(metric.WithReader(reader)), serviceName)
}

func newWithProvider(provider *metric.MeterProvider, serviceName string) *Observability {
	meter := provider.Meter(serviceName)

	callCounter, _ := meter.Int64Counter(
		"gateway.calls",
		otelmetric.WithDescription("Number of gateway calls"),
	)

	callDuration, _ := meter.Float64Histogram(
		"gateway.duration",
		otelmetric.WithDescription("Gateway call duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		callCounter:   callCounter,
		callDuration:  callDuration,
	}
}

// RecordCall counts one gateway call and its latency. Safe on a nil receiver.
func (o *Observability) RecordCall(ctx context.Context, operation, outcome string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	if o.callCounter != nil {
		o.callCounter.Add(ctx, 1, attrs)
	}
	if o.callDuration != nil {
		o.callDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
