package middleware

import (
	"context"

	"github.com/xraph/layered"
)

// Handler is the terminal function that executes the resolved advice
// chain for one dispatch.
type Handler = layered.Handler

// Middleware wraps guarded-method dispatch with cross-cutting logic.
// It receives the current context, the call being dispatched, and the
// next handler to call. Middleware MUST call next to continue the
// chain (unless short-circuiting on error).
type Middleware = layered.Middleware

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover, tracing) executes as:
//
//	logging → recover → tracing → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, c *layered.CallInfo, next Handler) error {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw, prev := mws[i], h
			h = func(ctx context.Context) error {
				return mw(ctx, c, prev)
			}
		}
		return h(ctx)
	}
}
