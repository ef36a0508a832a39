package ring

import (
	"errors"
	"fmt"
)

// ErrCapacity indicates an invalid ring capacity.
// Capacity must be a power of two so the wrap is a mask.
var ErrCapacity = errors.New("capacity must be a power of two")

// Ring is a fixed-capacity byte buffer with a single write index.
// Only the receive controller mutates it; everyone else holds a View.
type Ring struct {
	storage []byte
	index   uint32
	mask    uint32
}

// New creates a Ring. The capacity must be a power of two.
func New(capacity int) (*Ring, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, ErrCapacity
	}
	return &Ring{
		storage: make([]byte, capacity),
		mask:    uint32(capacity - 1),
	}, nil
}

// MustNew creates a Ring and panics on invalid capacity.
func MustNew(capacity int) *Ring {
	r, err := New(capacity)
	if err != nil {
		panic(fmt.Sprintf("ring: capacity %d: %v", capacity, err))
	}
	return r
}

// Capacity returns the fixed capacity.
func (r *Ring) Capacity() int {
	return len(r.storage)
}

// Index returns the current write index, always in [0, capacity).
func (r *Ring) Index() int {
	return int(r.index)
}

// Advance moves the write index one slot forward, wrapping at capacity,
// and returns the new index. Called only from the completion context.
func (r *Ring) Advance() int {
	r.index = (r.index + 1) & r.mask
	return int(r.index)
}

// Slot returns the one-byte destination for the next transfer,
// storage[index : index+1]. The returned slice aliases the storage.
func (r *Ring) Slot() []byte {
	return r.storage[r.index : r.index+1]
}

// Bytes returns the live storage. See the package doc for the
// reader consistency contract.
func (r *Ring) Bytes() []byte {
	return r.storage
}

// Snapshot returns a copy of the storage taken slot by slot.
// The copy is stable but may mix bytes from different wrap generations.
func (r *Ring) Snapshot() []byte {
	b := make([]byte, len(r.storage))
	copy(b, r.storage)
	return b
}

// View returns the read-only handle for consumers.
func (r *Ring) View() View {
	return View{r: r}
}

// View is a read-only handle to a Ring. It cannot advance the index.
type View struct {
	r *Ring
}

// Capacity returns the ring capacity.
func (v View) Capacity() int { return v.r.Capacity() }

// Index returns the current write index.
func (v View) Index() int { return v.r.Index() }

// Bytes returns the live storage, same contract as Ring.Bytes.
func (v View) Bytes() []byte { return v.r.Bytes() }

// Snapshot returns a copy of the storage.
func (v View) Snapshot() []byte { return v.r.Snapshot() }
