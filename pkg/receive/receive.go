package receive

import (
	"context"
	"sync"

	"github.com/serialkit/ringrx/pkg/ring"
)

// Engine abstracts the transfer engine moving bytes from the peripheral
// into memory. Arm requests capture of exactly one incoming byte into dst,
// len(dst) == 1. Arm must be callable from the completion context and must
// not block.
//
// The controller assumes the engine accepts a new arm immediately after it
// delivers a completion. Validate that against the engine; an engine that
// can refuse at that point returns an error and reception halts.
type Engine interface {
	Arm(dst []byte) error
}

// CompletionHandler is invoked by the engine exactly once per completed
// one-byte transfer. A non-nil error tells the engine to stop delivering.
type CompletionHandler interface {
	TransferComplete(context.Context) error
}

// CompletionFunc is func type of CompletionHandler.
type CompletionFunc func(context.Context) error

// TransferComplete implements CompletionHandler.
func (f CompletionFunc) TransferComplete(ctx context.Context) error {
	return f(ctx)
}

// Controller owns the receive cycle: it holds the only mutable handle to
// the ring and is the only caller of Engine.Arm.
type Controller struct {
	ring   *ring.Ring
	engine Engine

	lock        sync.Mutex
	started     bool
	armed       bool
	completions uint64
	fault       error
}

// NewController creates a Controller over a ring and an engine.
func NewController(r *ring.Ring, e Engine) *Controller {
	return &Controller{ring: r, engine: e}
}

// Ring returns the read-only view for consumers.
func (c *Controller) Ring() ring.View {
	return c.ring.View()
}

// Start arms the seed transfer at slot 0. It must be called exactly once,
// before the engine can deliver completions.
func (c *Controller) Start() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true
	return c.arm()
}

// TransferComplete implements CompletionHandler. It advances the ring
// index, then re-arms at the new slot. The advance fully completes before
// the new destination is computed; re-arming at the stale index would make
// the next byte overwrite the one just received.
func (c *Controller) TransferComplete(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.armed = false
	c.completions++
	c.ring.Advance()
	return c.arm()
}

// Completions returns the number of completed transfers so far.
func (c *Controller) Completions() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.completions
}

// Armed indicates a transfer is outstanding.
func (c *Controller) Armed() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.armed
}

// Err returns the latched arm failure, if any. Once set, reception has
// halted and will not resume.
func (c *Controller) Err() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.fault
}

func (c *Controller) arm() error {
	if c.fault != nil {
		return c.fault
	}
	if err := c.engine.Arm(c.ring.Slot()); err != nil {
		c.fault = &ArmError{Index: c.ring.Index(), Err: err}
		return c.fault
	}
	c.armed = true
	return nil
}
