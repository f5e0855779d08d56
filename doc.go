// Package layered provides a layered-dispatch runtime for Go: a base
// operation can be wrapped by zero or more named layers, each
// contributing an optional override, composed at call time into an
// ordered advice chain that callers invoke transparently.
//
// Layered is designed as a library, not a framework. Define a Registry
// per guarded type, declare operations as ordinary Go functions, and
// toggle behavior at runtime by activating layers per instance or
// broadcast through a Directory.
//
// # Quick Start
//
//	type Doc struct {
//	    layered.State
//	    body string
//	}
//
//	var (
//	    docs = layered.NewRegistry("Doc")
//	    render = layered.NewMethod(docs, "render",
//	        func(ctx context.Context, d *Doc, _ struct{}, _ *layered.Next[*Doc, struct{}, string]) (string, error) {
//	            return d.body, nil
//	        })
//	)
//
//	func init() {
//	    render.Override("shout",
//	        func(ctx context.Context, d *Doc, args struct{}, next *layered.Next[*Doc, struct{}, string]) (string, error) {
//	            s, err := next.Proceed(ctx, args)
//	            return strings.ToUpper(s), err
//	        })
//	}
//
//	d := &Doc{body: "hello"}
//	d.Activate("shout")
//	out, err := render.Call(ctx, d, struct{}{}) // "HELLO"
//
// # Architecture
//
// Each guarded type owns a Registry (its layer table) and one Method
// dispatcher per operation. Instances embed State, which tracks the
// active layer set, memoizes resolved chains, and implements the
// deferred-commit critical section. A Directory broadcasts activation
// to all live instances through non-owning (weak) registration.
//
// An override delegates to the rest of its chain by calling Proceed on
// the continuation it receives; omitting the call short-circuits every
// later element, including the base implementation.
//
// The core performs no I/O, never blocks, and carries no internal
// locking: all mutation is single-writer by design, and a
// multi-threaded host supplies its own synchronization around
// activation and dispatch on the same instance.
//
// Cross-cutting concerns hook in at two points: call middleware
// (Registry.Use, implementations in the middleware subpackage) wraps
// each dispatch, and lifecycle extensions (the ext subpackage) observe
// activation changes and critical-section commits.
package layered
