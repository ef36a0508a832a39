// Package receive sequences single-byte transfers into a reception ring.
package receive

// The controller arms a one-byte transfer with the engine, and on each
// completion advances the ring index and re-arms at the new slot. Exactly
// one transfer is outstanding from Start onward; there is no idle state and
// no termination path. Stopping reception means stopping the engine.
