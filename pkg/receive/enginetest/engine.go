// Package enginetest provides a recording fake of receive.Engine
// for controller and engine-integration tests.
package enginetest

import (
	"context"
	"errors"

	"github.com/serialkit/ringrx/pkg/receive"
)

// ErrNotArmed indicates a completion was driven with no transfer armed.
var ErrNotArmed = errors.New("no transfer armed")

// RecordingEngine records every armed destination and lets tests drive
// completions byte by byte.
type RecordingEngine struct {
	// Storage is the ring storage the destinations are offsets into.
	Storage []byte
	// ArmErr, when set, is returned by the next Arm call and cleared.
	ArmErr error

	offsets []int
	dst     []byte
}

// New creates a RecordingEngine observing the given ring storage.
func New(storage []byte) *RecordingEngine {
	return &RecordingEngine{Storage: storage}
}

// Arm implements receive.Engine.
func (e *RecordingEngine) Arm(dst []byte) error {
	if e.dst != nil {
		return receive.ErrBusy
	}
	if err := e.ArmErr; err != nil {
		e.ArmErr = nil
		return err
	}
	e.offsets = append(e.offsets, e.offsetOf(dst))
	e.dst = dst
	return nil
}

// Complete writes b into the armed destination and delivers the
// completion to handler, as the engine would on byte arrival.
func (e *RecordingEngine) Complete(ctx context.Context, handler receive.CompletionHandler, b byte) error {
	if e.dst == nil {
		return ErrNotArmed
	}
	e.dst[0] = b
	e.dst = nil
	return handler.TransferComplete(ctx)
}

// Armed indicates a destination is currently armed.
func (e *RecordingEngine) Armed() bool {
	return e.dst != nil
}

// Offsets returns the storage offsets passed to Arm, in order.
func (e *RecordingEngine) Offsets() []int {
	return e.offsets
}

func (e *RecordingEngine) offsetOf(dst []byte) int {
	if len(dst) != 1 {
		panic("enginetest: armed destination must be one byte")
	}
	for i := range e.Storage {
		if &e.Storage[i] == &dst[0] {
			return i
		}
	}
	panic("enginetest: armed destination outside observed storage")
}
