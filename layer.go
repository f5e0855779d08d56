package layered

// LayerID names a layer. Callers define their own identifiers; the
// runtime is generic over them and only compares for equality.
type LayerID string

// Base is the implicit pseudo-layer carrying every base implementation.
// It is always active, cannot be deactivated, and never appears in a
// registry's layer set or an instance's explicit active set.
const Base LayerID = "base"

// Op is the kind of a deferred activation request.
type Op uint8

// Request operations queued while a critical section is open.
const (
	OpActivate Op = iota + 1
	OpDeactivate
)

// String returns "activate" or "deactivate".
func (o Op) String() string {
	switch o {
	case OpActivate:
		return "activate"
	case OpDeactivate:
		return "deactivate"
	default:
		return "unknown"
	}
}

// Request is one deferred activation change, queued on an instance
// while a critical section is open and replayed in FIFO order when
// the section ends.
type Request struct {
	Op    Op
	Layer LayerID
}
