package serial

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/serialkit/ringrx/pkg/receive"
	"github.com/serialkit/ringrx/pkg/ring"
)

type countingHandler struct {
	ctl  *receive.Controller
	done chan struct{}
}

func (h *countingHandler) TransferComplete(ctx context.Context) error {
	err := h.ctl.TransferComplete(ctx)
	h.done <- struct{}{}
	return err
}

func TestReceiveCycle(t *testing.T) {
	r := ring.MustNew(8)
	pr, pw := io.Pipe()
	engine := New(pr)
	ctl := receive.NewController(r, engine)
	handler := &countingHandler{ctl: ctl, done: make(chan struct{})}
	engine.WithHandler(handler)

	require.NoError(t, ctl.Start())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- engine.Run(ctx) }()
	go func() {
		_, err := pw.Write([]byte("ABCDEFGHI"))
		require.NoError(t, err)
	}()

	for n := 0; n < 9; n++ {
		select {
		case <-handler.done:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for completion %d", n+1)
		}
	}

	// 9 bytes into a capacity-8 ring: the 9th overwrote the 1st
	require.Equal(t, []byte("IBCDEFGH"), r.Bytes())
	require.Equal(t, 1, r.Index())
	require.True(t, ctl.Armed())

	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestArmWhileArmed(t *testing.T) {
	engine := New(nil)
	dst := make([]byte, 1)
	require.NoError(t, engine.Arm(dst))
	require.Equal(t, receive.ErrBusy, engine.Arm(dst))
}

func TestReaderError(t *testing.T) {
	r := ring.MustNew(4)
	pr, pw := io.Pipe()
	engine := New(pr)
	ctl := receive.NewController(r, engine)
	engine.WithHandler(ctl)
	require.NoError(t, ctl.Start())

	errCh := make(chan error, 1)
	go func() { errCh <- engine.Run(context.Background()) }()
	require.NoError(t, pw.CloseWithError(io.ErrUnexpectedEOF))

	select {
	case err := <-errCh:
		require.Equal(t, io.ErrUnexpectedEOF, err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for run to stop")
	}
}
