package ext

import "github.com/xraph/layered"

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// LayerActivated is called after a layer becomes active on an instance.
type LayerActivated interface {
	OnLayerActivated(s *layered.State, layer layered.LayerID) error
}

// LayerDeactivated is called after a layer is removed from an
// instance's active set.
type LayerDeactivated interface {
	OnLayerDeactivated(s *layered.State, layer layered.LayerID) error
}

// RequestQueued is called when an activation request is deferred
// because the instance is inside an open critical section.
type RequestQueued interface {
	OnRequestQueued(s *layered.State, req layered.Request) error
}

// CriticalBegan is called when a critical section opens on an instance.
type CriticalBegan interface {
	OnCriticalBegan(s *layered.State) error
}

// CriticalEnded is called after a critical section closes and its
// queued requests have been applied. applied is the number of requests
// replayed.
type CriticalEnded interface {
	OnCriticalEnded(s *layered.State, applied int) error
}
