// Package ring provides the reception ring buffer.
package ring

// The ring holds the bytes captured by a transfer engine, one byte per
// completed transfer, wrapping to the start once the end is reached and
// overwriting the oldest contents.
//
// The write index is advanced only by the receive controller, from the
// completion context. Readers get no synchronization: a reader may observe
// the index mid-advance or a slot concurrently with a write to the adjacent
// slot. Each individual byte write is atomic, nothing more. Readers needing
// a stable image should use Snapshot, or restrict themselves to slots the
// index has already wrapped past.
//
// Producer: transfer engine via the receive controller
// Consumer: anything holding a View
