package layered

import "context"

// Next is the execution state of one in-flight dispatch: the resolved
// chain and a cursor. It is created fresh for every invocation and
// never shared between concurrently in-flight calls on the same
// instance.
type Next[T Stateful, A, R any] struct {
	recv  T
	chain []Advice[T, A, R]
	pos   int
}

// Proceed advances the cursor and invokes the next chain element with
// the receiving instance and args, returning its result. An override
// that never proceeds short-circuits the rest of the chain, including
// the base implementation; that is the mechanism by which a layer
// vetoes or replaces behavior.
//
// Proceeding when no element remains (from the base implementation, or
// from a completed call whose state was retained) returns
// ErrChainExhausted.
func (n *Next[T, A, R]) Proceed(ctx context.Context, args A) (R, error) {
	if n.pos >= len(n.chain) {
		var zero R
		return zero, ErrChainExhausted
	}
	adv := n.chain[n.pos]
	n.pos++
	return adv(ctx, n.recv, args, n)
}

// Remaining reports how many chain elements have not yet run,
// counting the base implementation.
func (n *Next[T, A, R]) Remaining() int {
	return len(n.chain) - n.pos
}
