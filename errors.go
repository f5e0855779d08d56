package layered

import "errors"

var (
	// Configuration errors.
	ErrLayerDeclared = errors.New("layered: layer already declared")
	ErrReservedLayer = errors.New("layered: base layer is reserved")

	// Usage errors.
	ErrChainExhausted = errors.New("layered: proceed called with no remaining chain element")
	ErrNestedCritical = errors.New("layered: critical section already open")
)
