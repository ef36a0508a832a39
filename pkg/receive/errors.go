package receive

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted indicates Start was called more than once.
	ErrAlreadyStarted = errors.New("already started")
	// ErrBusy indicates an arm request while a transfer is still
	// outstanding. Engines return it from Arm.
	ErrBusy = errors.New("transfer already armed")
)

// ArmError wraps an engine arm failure. A failed arm halts all future
// reception, so the controller latches it and the run loop must stop.
type ArmError struct {
	Index int
	Err   error
}

// Error implements error.
func (e *ArmError) Error() string {
	return fmt.Sprintf("arm at slot %d: %v", e.Index, e.Err)
}
