package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xraph/layered"
)

// meterName is the instrumentation scope name for layered metrics.
const meterName = "github.com/xraph/layered"

// Metrics returns middleware that records per-dispatch metrics using
// the global OTel MeterProvider. If no MeterProvider is configured,
// noop instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - layered.call.duration (Float64Histogram): dispatch time in
//     seconds, with attributes: type, method, status ("ok" or "error")
//   - layered.call.executions (Int64Counter): total dispatches,
//     with attributes: type, method, status ("ok" or "error")
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// Create instruments once at middleware construction time. On
	// error, the OTel API returns noop instruments so the middleware
	// degrades gracefully.
	duration, dErr := meter.Float64Histogram(
		"layered.call.duration",
		metric.WithDescription("Duration of guarded-method dispatch in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr // noop fallback guaranteed by OTel API contract

	executions, eErr := meter.Int64Counter(
		"layered.call.executions",
		metric.WithDescription("Total number of guarded-method dispatches"),
		metric.WithUnit("{execution}"),
	)
	_ = eErr // noop fallback guaranteed by OTel API contract

	return func(ctx context.Context, c *layered.CallInfo, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("type", c.Type),
			attribute.String("method", c.Method),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		executions.Add(ctx, 1, attrs)

		return err
	}
}
