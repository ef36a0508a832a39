// Package serial runs the transfer cycle against a local byte stream,
// typically a serial device file.
package serial

import (
	"context"
	"io"

	"github.com/serialkit/ringrx/pkg/receive"
)

// Engine captures one byte per armed transfer from a Reader.
// It implements receive.Engine and framework.Runnable.
type Engine struct {
	Reader  io.Reader
	Handler receive.CompletionHandler

	armCh chan []byte
}

// New creates an Engine over a reader.
func New(r io.Reader) *Engine {
	return &Engine{
		Reader: r,
		armCh:  make(chan []byte, 1),
	}
}

// WithHandler sets the completion handler.
func (e *Engine) WithHandler(h receive.CompletionHandler) *Engine {
	e.Handler = h
	return e
}

// Arm implements receive.Engine. It never blocks: the destination is
// handed to the run loop, and arming while a transfer is outstanding
// returns receive.ErrBusy.
func (e *Engine) Arm(dst []byte) error {
	select {
	case e.armCh <- dst:
		return nil
	default:
		return receive.ErrBusy
	}
}

// Run implements Runnable. For each armed destination it captures exactly
// one byte from the Reader into it, then delivers the completion. A reader
// error or a non-nil completion result ends the run.
func (e *Engine) Run(ctx context.Context) error {
	byteCh, errCh := make(chan byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go e.readLoop(subCtx, byteCh, errCh)
	for {
		var dst []byte
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case dst = <-e.armCh:
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case b := <-byteCh:
			dst[0] = b
			if err := e.Handler.TransferComplete(ctx); err != nil {
				return err
			}
		}
	}
}

func (e *Engine) readLoop(ctx context.Context, byteCh chan byte, errCh chan error) {
	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return
		default:
			n, err := e.Reader.Read(buf)
			if err != nil {
				errCh <- err
				return
			}
			if n == 0 {
				continue
			}
			select {
			case byteCh <- buf[0]:
			case <-ctx.Done():
				return
			}
		}
	}
}
