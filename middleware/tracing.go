package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/layered"
)

// tracerName is the instrumentation scope name for layered tracing.
const tracerName = "github.com/xraph/layered"

// Tracing returns middleware that wraps each dispatch in an
// OpenTelemetry span. If no TracerProvider is configured globally, the
// default noop tracer is used and this middleware becomes a
// pass-through with zero overhead.
//
// Span attributes include: layered.call.id, layered.type,
// layered.method, layered.instance.id, layered.layers. On error, the
// span status is set to codes.Error with the error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided
// tracer. This variant allows injecting a specific TracerProvider for
// testing or when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, c *layered.CallInfo, next Handler) error {
		layers := make([]string, len(c.Layers))
		for i, l := range c.Layers {
			layers[i] = string(l)
		}

		ctx, span := tracer.Start(ctx, "layered.dispatch",
			trace.WithAttributes(
				attribute.String("layered.call.id", c.Call.String()),
				attribute.String("layered.type", c.Type),
				attribute.String("layered.method", c.Method),
				attribute.String("layered.instance.id", c.Instance.String()),
				attribute.StringSlice("layered.layers", layers),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
