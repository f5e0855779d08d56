// Package observability provides ready-made extensions that observe
// activation lifecycle events: structured logging via log/slog and
// counters via OpenTelemetry. Register them with an ext.Registry.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xraph/layered"
	"github.com/xraph/layered/ext"
)

// meterName is the instrumentation scope name for layered lifecycle metrics.
const meterName = "github.com/xraph/layered/observability"

// Compile-time interface checks.
var (
	_ ext.Extension        = (*MetricsExtension)(nil)
	_ ext.LayerActivated   = (*MetricsExtension)(nil)
	_ ext.LayerDeactivated = (*MetricsExtension)(nil)
	_ ext.RequestQueued    = (*MetricsExtension)(nil)
	_ ext.CriticalEnded    = (*MetricsExtension)(nil)

	_ ext.Extension        = (*LoggingExtension)(nil)
	_ ext.LayerActivated   = (*LoggingExtension)(nil)
	_ ext.LayerDeactivated = (*LoggingExtension)(nil)
	_ ext.RequestQueued    = (*LoggingExtension)(nil)
	_ ext.CriticalBegan    = (*LoggingExtension)(nil)
	_ ext.CriticalEnded    = (*LoggingExtension)(nil)
)

// MetricsExtension records activation lifecycle counters. Register it
// as an extension to automatically track activation and deactivation
// rates, deferred requests, and critical-section commits.
//
// Instruments (all Int64Counter, attribute "layer" where applicable):
//   - layered.layer.activations
//   - layered.layer.deactivations
//   - layered.requests.queued
//   - layered.critical.commits
type MetricsExtension struct {
	activations   metric.Int64Counter
	deactivations metric.Int64Counter
	queued        metric.Int64Counter
	commits       metric.Int64Counter
}

// NewMetricsExtension creates a MetricsExtension using the global OTel
// MeterProvider. With no provider configured the instruments are noop.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithMeter(otel.Meter(meterName))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the
// provided meter. This variant allows injecting a specific
// MeterProvider for testing.
func NewMetricsExtensionWithMeter(meter metric.Meter) *MetricsExtension {
	m := &MetricsExtension{}
	// On error, the OTel API returns noop instruments so the extension
	// degrades gracefully.
	m.activations, _ = meter.Int64Counter("layered.layer.activations",
		metric.WithDescription("Total layer activations"),
		metric.WithUnit("{activation}"),
	)
	m.deactivations, _ = meter.Int64Counter("layered.layer.deactivations",
		metric.WithDescription("Total layer deactivations"),
		metric.WithUnit("{deactivation}"),
	)
	m.queued, _ = meter.Int64Counter("layered.requests.queued",
		metric.WithDescription("Activation requests deferred by an open critical section"),
		metric.WithUnit("{request}"),
	)
	m.commits, _ = meter.Int64Counter("layered.critical.commits",
		metric.WithDescription("Critical sections committed"),
		metric.WithUnit("{commit}"),
	)
	return m
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnLayerActivated implements ext.LayerActivated.
func (m *MetricsExtension) OnLayerActivated(_ *layered.State, layer layered.LayerID) error {
	m.activations.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("layer", string(layer))))
	return nil
}

// OnLayerDeactivated implements ext.LayerDeactivated.
func (m *MetricsExtension) OnLayerDeactivated(_ *layered.State, layer layered.LayerID) error {
	m.deactivations.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("layer", string(layer))))
	return nil
}

// OnRequestQueued implements ext.RequestQueued.
func (m *MetricsExtension) OnRequestQueued(_ *layered.State, req layered.Request) error {
	m.queued.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("layer", string(req.Layer)),
			attribute.String("op", req.Op.String()),
		))
	return nil
}

// OnCriticalEnded implements ext.CriticalEnded.
func (m *MetricsExtension) OnCriticalEnded(_ *layered.State, _ int) error {
	m.commits.Add(context.Background(), 1)
	return nil
}
