package layered

import (
	"context"

	"github.com/xraph/layered/id"
)

// Advice is a callable bound to a (layer, method) pair. It receives
// the owning instance, the call arguments, and the continuation for
// the rest of the chain. The base implementation has the same shape
// and terminates every chain.
//
// Methods taking several arguments bundle them in A (typically a small
// struct); methods without arguments or results use struct{}.
type Advice[T Stateful, A, R any] func(ctx context.Context, recv T, args A, next *Next[T, A, R]) (R, error)

// Method is the dispatch entry point for one guarded operation,
// constructed once per type at definition time. It owns the layer
// overrides for the operation and resolves the advice chain against
// each receiver's active set at call time.
type Method[T Stateful, A, R any] struct {
	reg       *Registry
	name      string
	base      Advice[T, A, R]
	overrides map[LayerID]Advice[T, A, R]
}

// NewMethod declares the base operation name on reg and returns its
// dispatcher. Bind overrides before any instance of the type calls the
// operation. Configuration errors (nil registry or base, empty or
// duplicate name) are fatal at definition time.
func NewMethod[T Stateful, A, R any](reg *Registry, name string, base Advice[T, A, R]) *Method[T, A, R] {
	if reg == nil {
		panic("layered: nil registry for method " + name)
	}
	if name == "" {
		panic("layered: method name must not be empty")
	}
	if base == nil {
		panic("layered: nil base implementation for method " + name)
	}
	reg.claimMethod(name)
	return &Method[T, A, R]{
		reg:       reg,
		name:      name,
		base:      base,
		overrides: make(map[LayerID]Advice[T, A, R]),
	}
}

// Name returns the guarded method name.
func (m *Method[T, A, R]) Name() string { return m.name }

// Override binds layer's advice for this method, lazily creating the
// layer under the owning registry. Re-binding the same (layer, method)
// overwrites: last write wins. Overriding Base or binding nil advice
// is fatal at definition time.
func (m *Method[T, A, R]) Override(layer LayerID, adv Advice[T, A, R]) *Method[T, A, R] {
	if layer == Base {
		panic("layered: cannot override the base layer for method " + m.name)
	}
	if adv == nil {
		panic("layered: nil advice for method " + m.name)
	}
	m.reg.ensureLayer(layer)
	m.overrides[layer] = adv
	return m
}

// Call dispatches the operation on recv: it resolves the advice chain
// for recv's active set, creates a fresh execution state, and proceeds
// into the first element. Errors from any chain element surface
// unmodified; there is no chain-level recovery.
//
// Each invocation gets an independent execution state, so reentrant or
// recursive calls of the same method do not disturb one another.
func (m *Method[T, A, R]) Call(ctx context.Context, recv T, args A) (R, error) {
	st := recv.layerState()
	rc := m.resolve(st)
	next := &Next[T, A, R]{recv: recv, chain: rc.chain}

	if len(m.reg.middleware) == 0 {
		return next.Proceed(ctx, args)
	}

	info := &CallInfo{
		Call:     id.NewCallID(),
		Instance: st.ID(),
		Type:     m.reg.name,
		Method:   m.name,
		Layers:   rc.layers,
	}
	var result R
	terminal := func(ctx context.Context) error {
		r, err := next.Proceed(ctx, args)
		result = r
		return err
	}
	err := compose(m.reg.middleware, info, terminal)(ctx)
	return result, err
}

// resolved is one memoized chain: the advice in execution order with
// the base implementation last, plus the contributing layer ids.
type resolved[T Stateful, A, R any] struct {
	chain  []Advice[T, A, R]
	layers []LayerID
}

// resolve returns the memoized chain for this method on st, rebuilding
// it after any activation change. When no active layer contributes an
// override the chain is exactly the base implementation.
func (m *Method[T, A, R]) resolve(st *State) resolved[T, A, R] {
	if c, ok := st.cachedChain(m.name); ok {
		if rc, ok := c.(resolved[T, A, R]); ok {
			return rc
		}
	}

	var rc resolved[T, A, R]
	for _, l := range m.reg.ordering(st.active) {
		if adv, ok := m.overrides[l]; ok {
			rc.chain = append(rc.chain, adv)
			rc.layers = append(rc.layers, l)
		}
	}
	rc.chain = append(rc.chain, m.base)

	st.storeChain(m.name, rc)
	return rc
}
