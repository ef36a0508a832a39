// Package bridge runs the transfer cycle against a remote peripheral
// bridge that publishes received bytes as MQTT payloads.
package bridge

import (
	"context"
	"sync"

	"github.com/eapache/queue"
	"github.com/golang/glog"

	"github.com/serialkit/ringrx/pkg/comm/mqtt"
	"github.com/serialkit/ringrx/pkg/receive"
)

// DefaultPendingLimit bounds the engine-side FIFO holding bytes that
// arrive while no transfer is armed.
const DefaultPendingLimit = 1024

// Engine captures one byte per armed transfer from a bridge topic.
// Bytes arriving while no transfer is armed wait in a bounded FIFO, the
// software stand-in for the peripheral's hardware FIFO; once it is full
// the oldest byte is dropped.
//
// It implements receive.Engine and framework.Runnable.
type Engine struct {
	Queue        *mqtt.Queue
	Topic        string
	Handler      receive.CompletionHandler
	PendingLimit int

	lock    sync.Mutex
	pending *queue.Queue
	dst     []byte
	dropped uint64

	wakeCh chan struct{}
}

// NewEngine creates an Engine subscribing to topic on q.
func NewEngine(q *mqtt.Queue, topic string) *Engine {
	return &Engine{
		Queue:        q,
		Topic:        topic,
		PendingLimit: DefaultPendingLimit,
		pending:      queue.New(),
		wakeCh:       make(chan struct{}, 1),
	}
}

// WithHandler sets the completion handler.
func (e *Engine) WithHandler(h receive.CompletionHandler) *Engine {
	e.Handler = h
	return e
}

// Arm implements receive.Engine.
func (e *Engine) Arm(dst []byte) error {
	e.lock.Lock()
	if e.dst != nil {
		e.lock.Unlock()
		return receive.ErrBusy
	}
	e.dst = dst
	e.lock.Unlock()
	e.wake()
	return nil
}

// Dropped returns the number of bytes dropped from the pending FIFO.
func (e *Engine) Dropped() uint64 {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.dropped
}

// Pending returns the number of bytes waiting for a transfer.
func (e *Engine) Pending() int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.pending.Length()
}

// Run implements Runnable. It subscribes to the bridge topic and delivers
// one pending byte per armed transfer until the context is canceled or a
// completion fails.
func (e *Engine) Run(ctx context.Context) error {
	sub := e.Queue.Sub(e.Topic, e.handleMsg)
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.wakeCh:
			if err := e.deliver(ctx); err != nil {
				return err
			}
		}
	}
}

// deliver completes armed transfers while pending bytes remain. The
// completion handler re-arms from within TransferComplete, so this loops
// instead of recursing.
func (e *Engine) deliver(ctx context.Context) error {
	for e.take() {
		if err := e.Handler.TransferComplete(ctx); err != nil {
			return err
		}
	}
	return nil
}

// take captures one pending byte into the armed destination.
func (e *Engine) take() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.dst == nil || e.pending.Length() == 0 {
		return false
	}
	dst := e.dst
	e.dst = nil
	dst[0] = e.pending.Remove().(byte)
	return true
}

func (e *Engine) handleMsg(_ string, payload []byte) {
	e.lock.Lock()
	for _, b := range payload {
		if limit := e.limit(); e.pending.Length() >= limit {
			e.pending.Remove()
			e.dropped++
			if glog.V(1) {
				glog.Warningf("pending FIFO full (%d), dropped oldest byte", limit)
			}
		}
		e.pending.Add(b)
	}
	e.lock.Unlock()
	e.wake()
}

func (e *Engine) limit() int {
	if e.PendingLimit > 0 {
		return e.PendingLimit
	}
	return DefaultPendingLimit
}

func (e *Engine) wake() {
	select {
	case e.wakeCh <- struct{}{}:
	default:
	}
}
