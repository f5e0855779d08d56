// Package ext defines the extension system for layered. Extensions are
// notified of activation lifecycle events (layer activated, request
// queued, critical section committed, etc.) and can react to them —
// logging, metrics, invariant checks.
//
// Each lifecycle hook is a separate interface so extensions opt in
// only to the events they care about. Register extensions with a
// [Registry] and attach it to an instance:
//
//	hooks := ext.NewRegistry(logger)
//	hooks.Register(observability.NewLoggingExtension(logger))
//	inst.SetEmitter(hooks)
//
// Hook errors are logged and swallowed: an extension must never be
// able to fail an activation change.
package ext
