package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/layered"
)

// Recover returns middleware that recovers from panics in the advice
// chain. Panics are converted to errors and logged with a stack trace.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *layered.CallInfo, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("advice panicked",
					slog.String("type", c.Type),
					slog.String("method", c.Method),
					slog.String("call_id", c.Call.String()),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in %s.%s: %v", c.Type, c.Method, r)
			}
		}()
		return next(ctx)
	}
}
