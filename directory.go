package layered

import (
	"slices"
	"weak"
)

// Directory is a process-wide registry of instances for broadcast
// (global) activation. Registration is non-owning: the directory holds
// weak pointers, so membership never extends an instance's lifetime,
// and entries for collected instances are pruned as they are
// encountered. Explicit Unregister is available for deterministic
// teardown.
//
// Like the rest of the core, a Directory is single-writer; a
// multi-threaded host synchronizes externally.
type Directory struct {
	entries []weak.Pointer[State]
}

// NewDirectory creates an empty instance directory.
func NewDirectory() *Directory {
	return &Directory{}
}

// Default is the package-wide directory used by globally-activatable
// types that do not carry their own.
var Default = NewDirectory()

// Register adds an instance to the directory. Constructors of
// globally-activatable types call this. Registering an instance that
// is already present is a no-op.
func (d *Directory) Register(obj Stateful) {
	st := obj.layerState()
	st.ID() // assign identity while the instance is known to be live
	p := weak.Make(st)
	if slices.Contains(d.entries, p) {
		return
	}
	d.entries = append(d.entries, p)
}

// Unregister removes an instance from the directory.
func (d *Directory) Unregister(obj Stateful) {
	p := weak.Make(obj.layerState())
	d.entries = slices.DeleteFunc(d.entries, func(e weak.Pointer[State]) bool {
		return e == p
	})
}

// Activate broadcasts an activation request to every live instance.
// Instances inside an open critical section queue the request;
// the rest apply it immediately.
func (d *Directory) Activate(layer LayerID) {
	d.broadcast(Request{Op: OpActivate, Layer: layer})
}

// Deactivate broadcasts a deactivation request to every live instance,
// with the same queueing behavior as Activate.
func (d *Directory) Deactivate(layer LayerID) {
	d.broadcast(Request{Op: OpDeactivate, Layer: layer})
}

func (d *Directory) broadcast(r Request) {
	kept := d.entries[:0]
	for _, e := range d.entries {
		st := e.Value()
		if st == nil {
			continue // collected; drop the entry
		}
		st.request(r)
		kept = append(kept, e)
	}
	d.entries = kept
}

// WithLayer activates layer on every live instance, runs fn, and
// deactivates the layer again on every exit path, including a panic
// in fn.
func (d *Directory) WithLayer(layer LayerID, fn func() error) error {
	d.Activate(layer)
	defer d.Deactivate(layer)
	return fn()
}

// Len returns the number of live registered instances, pruning
// collected entries along the way.
func (d *Directory) Len() int {
	kept := d.entries[:0]
	for _, e := range d.entries {
		if e.Value() != nil {
			kept = append(kept, e)
		}
	}
	d.entries = kept
	return len(d.entries)
}
