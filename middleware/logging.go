package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/layered"
)

// Logging returns middleware that logs dispatch start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *layered.CallInfo, next Handler) error {
		logger.Debug("dispatch started",
			slog.String("type", c.Type),
			slog.String("method", c.Method),
			slog.String("call_id", c.Call.String()),
			slog.Any("layers", c.Layers),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("dispatch failed",
				slog.String("type", c.Type),
				slog.String("method", c.Method),
				slog.String("call_id", c.Call.String()),
				slog.String("instance_id", c.Instance.String()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Debug("dispatch completed",
				slog.String("type", c.Type),
				slog.String("method", c.Method),
				slog.String("call_id", c.Call.String()),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
