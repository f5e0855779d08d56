package layered

import (
	"context"

	"github.com/xraph/layered/id"
)

// CallInfo describes one in-flight dispatch of a guarded method. It is
// passed to call middleware; the middleware subpackage ships logging,
// recovery, tracing, and metrics built on it.
type CallInfo struct {
	// Call is the unique identity of this dispatch.
	Call id.ID

	// Instance is the identity of the receiving instance.
	Instance id.ID

	// Type is the receiver type's registry name.
	Type string

	// Method is the guarded method name.
	Method string

	// Layers are the layers contributing advice to this call, outermost
	// first. Base is implicit and not listed.
	Layers []LayerID
}

// Handler is the terminal function that executes the resolved advice
// chain for one dispatch.
type Handler func(ctx context.Context) error

// Middleware wraps guarded-method dispatch with cross-cutting logic.
// It receives the current context, the call being dispatched, and the
// next handler. Middleware MUST call next to continue the chain
// (unless short-circuiting on error).
type Middleware func(ctx context.Context, c *CallInfo, next Handler) error

// compose applies middleware right-to-left: the first middleware in
// the list is the outermost wrapper.
func compose(mws []Middleware, c *CallInfo, terminal Handler) Handler {
	h := terminal
	for i := len(mws) - 1; i >= 0; i-- {
		mw, prev := mws[i], h
		h = func(ctx context.Context) error {
			return mw(ctx, c, prev)
		}
	}
	return h
}
