package ext

import (
	"log/slog"

	"github.com/xraph/layered"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time. This avoids type-asserting back to
// Extension inside the emit methods.
type layerActivatedEntry struct {
	name string
	hook LayerActivated
}

type layerDeactivatedEntry struct {
	name string
	hook LayerDeactivated
}

type requestQueuedEntry struct {
	name string
	hook RequestQueued
}

type criticalBeganEntry struct {
	name string
	hook CriticalBegan
}

type criticalEndedEntry struct {
	name string
	hook CriticalEnded
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It implements layered.Emitter; attach it to an instance
// with State.SetEmitter. Register all extensions before attaching —
// the registry carries no internal locking.
type Registry struct {
	logger     *slog.Logger
	extensions []Extension

	layerActivated   []layerActivatedEntry
	layerDeactivated []layerDeactivatedEntry
	requestQueued    []requestQueuedEntry
	criticalBegan    []criticalBeganEntry
	criticalEnded    []criticalEndedEntry
}

var _ layered.Emitter = (*Registry)(nil)

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(LayerActivated); ok {
		r.layerActivated = append(r.layerActivated, layerActivatedEntry{name, h})
	}
	if h, ok := e.(LayerDeactivated); ok {
		r.layerDeactivated = append(r.layerDeactivated, layerDeactivatedEntry{name, h})
	}
	if h, ok := e.(RequestQueued); ok {
		r.requestQueued = append(r.requestQueued, requestQueuedEntry{name, h})
	}
	if h, ok := e.(CriticalBegan); ok {
		r.criticalBegan = append(r.criticalBegan, criticalBeganEntry{name, h})
	}
	if h, ok := e.(CriticalEnded); ok {
		r.criticalEnded = append(r.criticalEnded, criticalEndedEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// EmitLayerActivated notifies all extensions that implement LayerActivated.
func (r *Registry) EmitLayerActivated(s *layered.State, layer layered.LayerID) {
	for _, e := range r.layerActivated {
		if err := e.hook.OnLayerActivated(s, layer); err != nil {
			r.logHookError("OnLayerActivated", e.name, err)
		}
	}
}

// EmitLayerDeactivated notifies all extensions that implement LayerDeactivated.
func (r *Registry) EmitLayerDeactivated(s *layered.State, layer layered.LayerID) {
	for _, e := range r.layerDeactivated {
		if err := e.hook.OnLayerDeactivated(s, layer); err != nil {
			r.logHookError("OnLayerDeactivated", e.name, err)
		}
	}
}

// EmitRequestQueued notifies all extensions that implement RequestQueued.
func (r *Registry) EmitRequestQueued(s *layered.State, req layered.Request) {
	for _, e := range r.requestQueued {
		if err := e.hook.OnRequestQueued(s, req); err != nil {
			r.logHookError("OnRequestQueued", e.name, err)
		}
	}
}

// EmitCriticalBegan notifies all extensions that implement CriticalBegan.
func (r *Registry) EmitCriticalBegan(s *layered.State) {
	for _, e := range r.criticalBegan {
		if err := e.hook.OnCriticalBegan(s); err != nil {
			r.logHookError("OnCriticalBegan", e.name, err)
		}
	}
}

// EmitCriticalEnded notifies all extensions that implement CriticalEnded.
func (r *Registry) EmitCriticalEnded(s *layered.State, applied int) {
	for _, e := range r.criticalEnded {
		if err := e.hook.OnCriticalEnded(s, applied); err != nil {
			r.logHookError("OnCriticalEnded", e.name, err)
		}
	}
}

func (r *Registry) logHookError(hook, extension string, err error) {
	r.logger.Warn("extension hook failed",
		slog.String("hook", hook),
		slog.String("extension", extension),
		slog.String("error", err.Error()),
	)
}
