package layered

import (
	"slices"

	"github.com/xraph/layered/id"
)

// Stateful is satisfied by any type that embeds State. Guarded types
// embed State to gain per-instance layer activation; the interface is
// deliberately unsatisfiable any other way.
type Stateful interface {
	layerState() *State
}

// Emitter observes activation lifecycle events on an instance.
// ext.Registry implements it; the indirection keeps the root package
// free of a dependency on the extension layer.
type Emitter interface {
	EmitLayerActivated(s *State, layer LayerID)
	EmitLayerDeactivated(s *State, layer LayerID)
	EmitRequestQueued(s *State, req Request)
	EmitCriticalBegan(s *State)
	EmitCriticalEnded(s *State, applied int)
}

// State holds the per-instance layer machinery: the ordered set of
// active layers, the memoized advice chains, and the deferred-commit
// queue for critical sections. Embed it (by value) in each guarded
// type; the zero value is ready to use.
//
// State is single-writer: a multi-threaded host must synchronize
// activation calls and guarded-method invocation on the same instance
// externally.
type State struct {
	id         id.ID
	active     []LayerID
	cache      map[string]any
	pending    []Request
	inCritical bool
	emitter    Emitter
}

func (s *State) layerState() *State { return s }

// ID returns the instance identity, assigning one on first use.
func (s *State) ID() id.ID {
	if s.id.IsNil() {
		s.id = id.NewInstanceID()
	}
	return s.id
}

// SetEmitter attaches a lifecycle emitter (typically an *ext.Registry).
// Pass nil to detach.
func (s *State) SetEmitter(e Emitter) { s.emitter = e }

// Activate requests activation of layer on this instance. Outside a
// critical section the change applies immediately; inside one it is
// queued and applied when the section ends. Activating an already
// active layer, or Base, is a no-op.
func (s *State) Activate(layer LayerID) {
	s.request(Request{Op: OpActivate, Layer: layer})
}

// Deactivate requests deactivation of layer on this instance, with the
// same queueing behavior as Activate. Deactivating a layer that is not
// active, or Base, is a no-op.
func (s *State) Deactivate(layer LayerID) {
	s.request(Request{Op: OpDeactivate, Layer: layer})
}

// request routes an activation change through the deferred-commit
// queue when a critical section is open.
func (s *State) request(r Request) {
	if s.inCritical {
		s.pending = append(s.pending, r)
		if s.emitter != nil {
			s.emitter.EmitRequestQueued(s, r)
		}
		return
	}
	s.apply(r)
}

// apply performs an activation change immediately, bypassing the queue.
func (s *State) apply(r Request) {
	switch r.Op {
	case OpActivate:
		s.applyActivate(r.Layer)
	case OpDeactivate:
		s.applyDeactivate(r.Layer)
	}
}

func (s *State) applyActivate(layer LayerID) {
	if layer == Base || s.IsActive(layer) {
		return
	}
	s.active = append(s.active, layer)
	s.invalidate()
	if s.emitter != nil {
		s.emitter.EmitLayerActivated(s, layer)
	}
}

func (s *State) applyDeactivate(layer LayerID) {
	i := slices.Index(s.active, layer)
	if layer == Base || i < 0 {
		return
	}
	s.active = slices.Delete(s.active, i, i+1)
	s.invalidate()
	if s.emitter != nil {
		s.emitter.EmitLayerDeactivated(s, layer)
	}
}

// Active returns the explicitly active layers in activation order.
// Base is implicit and never included.
func (s *State) Active() []LayerID {
	return slices.Clone(s.active)
}

// IsActive reports whether layer is in effect on this instance.
// Always true for Base.
func (s *State) IsActive(layer LayerID) bool {
	return layer == Base || slices.Contains(s.active, layer)
}

// BeginCritical opens a critical section: until EndCritical, activation
// requests are queued instead of applied, and guarded methods observe
// the pre-section activation state. Nested sections are rejected with
// ErrNestedCritical.
func (s *State) BeginCritical() error {
	if s.inCritical {
		return ErrNestedCritical
	}
	s.inCritical = true
	if s.emitter != nil {
		s.emitter.EmitCriticalBegan(s)
	}
	return nil
}

// EndCritical replays every queued request in arrival order through
// the immediate activate/deactivate path, clears the queue, then
// closes the section. Calling it with no open section is a no-op.
func (s *State) EndCritical() {
	if !s.inCritical {
		return
	}
	queued := s.pending
	s.pending = nil
	for _, r := range queued {
		s.apply(r)
	}
	s.inCritical = false
	if s.emitter != nil {
		s.emitter.EmitCriticalEnded(s, len(queued))
	}
}

// Critical runs fn inside a critical section and guarantees the
// section is closed (queued requests replayed) on every exit path,
// including a panic in fn.
func (s *State) Critical(fn func() error) error {
	if err := s.BeginCritical(); err != nil {
		return err
	}
	defer s.EndCritical()
	return fn()
}

// InCritical reports whether a critical section is open.
func (s *State) InCritical() bool { return s.inCritical }

// Pending returns a copy of the queued activation requests.
func (s *State) Pending() []Request {
	return slices.Clone(s.pending)
}

// cachedChain returns the memoized chain for method, if present.
func (s *State) cachedChain(method string) (any, bool) {
	c, ok := s.cache[method]
	return c, ok
}

// storeChain memoizes a resolved chain for method.
func (s *State) storeChain(method string, chain any) {
	if s.cache == nil {
		s.cache = make(map[string]any)
	}
	s.cache[method] = chain
}

// invalidate drops every memoized chain. Called on any activation
// change; rebuild cost is bounded by the active-layer count.
func (s *State) invalidate() {
	clear(s.cache)
}
