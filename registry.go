package layered

import (
	"fmt"
	"slices"
)

// Registry is the per-type layer table: it records which layers a type
// declares, in what order, and which guarded methods the type defines.
// Build one per concrete type at package init; registries of two
// independently defined types never share entries, even when both
// declare a layer with the same identifier.
//
// Registries are written only at type-definition time and carry no
// internal locking.
type Registry struct {
	name       string
	declared   []LayerID           // explicit declaration order
	lazy       []LayerID           // created by Override, first-override order
	layers     map[LayerID]struct{}
	methods    map[string]struct{}
	middleware []Middleware
}

// NewRegistry creates the layer registry for the named type.
// It panics if typeName is empty (programming error).
func NewRegistry(typeName string) *Registry {
	if typeName == "" {
		panic("layered: registry type name must not be empty")
	}
	return &Registry{
		name:    typeName,
		layers:  make(map[LayerID]struct{}),
		methods: make(map[string]struct{}),
	}
}

// TypeName returns the name of the type this registry belongs to.
func (r *Registry) TypeName() string { return r.name }

// DeclareLayer declares a layer and appends it to the type's explicit
// layer order. Declaring Base, or a layer identifier that already
// exists under this registry, is a configuration error.
func (r *Registry) DeclareLayer(layer LayerID) error {
	if layer == Base {
		return fmt.Errorf("%w: cannot declare %q", ErrReservedLayer, layer)
	}
	if _, ok := r.layers[layer]; ok {
		return fmt.Errorf("%w: %q under type %q", ErrLayerDeclared, layer, r.name)
	}
	r.layers[layer] = struct{}{}
	r.declared = append(r.declared, layer)
	return nil
}

// MustDeclareLayers declares layers in order and panics on any error.
// Use in package init where a duplicate is a programming error.
func (r *Registry) MustDeclareLayers(layers ...LayerID) {
	for _, l := range layers {
		if err := r.DeclareLayer(l); err != nil {
			panic(err.Error())
		}
	}
}

// Layers returns every known layer: explicitly declared layers in
// declaration order, then lazily created ones in first-override order.
func (r *Registry) Layers() []LayerID {
	out := make([]LayerID, 0, len(r.declared)+len(r.lazy))
	out = append(out, r.declared...)
	out = append(out, r.lazy...)
	return out
}

// Use appends call middleware applied around every guarded-method
// dispatch on this type. The first middleware registered is the
// outermost wrapper.
func (r *Registry) Use(mws ...Middleware) {
	r.middleware = append(r.middleware, mws...)
}

// ensureLayer lazily creates a layer on first override binding.
func (r *Registry) ensureLayer(layer LayerID) {
	if _, ok := r.layers[layer]; ok {
		return
	}
	r.layers[layer] = struct{}{}
	r.lazy = append(r.lazy, layer)
}

// claimMethod reserves a guarded-method name. Two dispatchers with the
// same name on one registry would share a chain-cache key, so a
// duplicate is fatal at definition time.
func (r *Registry) claimMethod(name string) {
	if _, ok := r.methods[name]; ok {
		panic(fmt.Sprintf("layered: method %q already defined on type %q", name, r.name))
	}
	r.methods[name] = struct{}{}
}

// ordering returns the chain ordering source filtered to the active
// set. With explicitly declared layers, declaration order wins over
// activation order (lazily created layers follow, in first-override
// order); otherwise the instance's activation order is used as-is.
func (r *Registry) ordering(active []LayerID) []LayerID {
	if len(r.declared) == 0 {
		return active
	}
	out := make([]LayerID, 0, len(active))
	for _, l := range r.declared {
		if slices.Contains(active, l) {
			out = append(out, l)
		}
	}
	for _, l := range r.lazy {
		if slices.Contains(active, l) {
			out = append(out, l)
		}
	}
	return out
}
