// Package middleware provides composable call middleware for
// guarded-method dispatch.
//
// A [Middleware] wraps one dispatch of a guarded method. Register
// middleware per type with layered.Registry.Use; the first middleware
// registered is the outermost wrapper. [Chain] pre-composes several
// middleware into one.
//
//	reg.Use(middleware.Logging(logger), middleware.Recover(logger))
//
// # Built-in Middleware
//
//   - [Logging] — logs type, method, contributing layers, duration, and outcome
//   - [Recover] — catches panics in advice and converts them to errors
//   - [Tracing] — wraps dispatch in an OpenTelemetry span
//   - [Metrics] — records per-method duration and outcome counters
//
// # Writing Custom Middleware
//
//	func MyMiddleware() middleware.Middleware {
//	    return func(ctx context.Context, c *layered.CallInfo, next middleware.Handler) error {
//	        // pre-processing
//	        err := next(ctx)
//	        // post-processing
//	        return err
//	    }
//	}
//
// Middleware MUST call next to continue the dispatch unless
// intentionally short-circuiting.
package middleware
