package bridge

import (
	"context"
	"testing"

	"github.com/eapache/queue"
	"github.com/stretchr/testify/require"

	"github.com/serialkit/ringrx/pkg/receive"
	"github.com/serialkit/ringrx/pkg/ring"
)

func newTestEngine(t *testing.T, capacity int) (*ring.Ring, *receive.Controller, *Engine) {
	r := ring.MustNew(capacity)
	e := &Engine{
		Topic:        "rx",
		PendingLimit: DefaultPendingLimit,
		pending:      queue.New(),
		wakeCh:       make(chan struct{}, 1),
	}
	ctl := receive.NewController(r, e)
	e.Handler = ctl
	return r, ctl, e
}

func TestDeliverPendingBytes(t *testing.T) {
	r, ctl, e := newTestEngine(t, 8)
	require.NoError(t, ctl.Start())

	e.handleMsg("rx", []byte("ABC"))
	require.NoError(t, e.deliver(context.Background()))
	require.Equal(t, 3, r.Index())
	require.Equal(t, []byte("ABC"), r.Bytes()[:3])
	require.Equal(t, 0, e.Pending())
	require.True(t, ctl.Armed())
}

func TestDeliverWrapsAndOverwrites(t *testing.T) {
	r, ctl, e := newTestEngine(t, 8)
	require.NoError(t, ctl.Start())

	e.handleMsg("rx", []byte("ABCDEFGH"))
	e.handleMsg("rx", []byte("I"))
	require.NoError(t, e.deliver(context.Background()))
	require.Equal(t, 1, r.Index())
	require.Equal(t, []byte("IBCDEFGH"), r.Bytes())
}

func TestBytesHeldUntilArmed(t *testing.T) {
	r, ctl, e := newTestEngine(t, 8)

	// nothing armed yet: bytes wait in the FIFO
	e.handleMsg("rx", []byte("AB"))
	require.NoError(t, e.deliver(context.Background()))
	require.Equal(t, 2, e.Pending())
	require.Equal(t, 0, r.Index())

	require.NoError(t, ctl.Start())
	require.NoError(t, e.deliver(context.Background()))
	require.Equal(t, 2, r.Index())
	require.Equal(t, []byte("AB"), r.Bytes()[:2])
}

func TestPendingOverflowDropsOldest(t *testing.T) {
	r, ctl, e := newTestEngine(t, 8)
	e.PendingLimit = 4

	e.handleMsg("rx", []byte("ABCDEF"))
	require.Equal(t, 4, e.Pending())
	require.Equal(t, uint64(2), e.Dropped())

	require.NoError(t, ctl.Start())
	require.NoError(t, e.deliver(context.Background()))
	// A and B were dropped, delivery starts at C
	require.Equal(t, []byte("CDEF"), r.Bytes()[:4])
}

func TestArmWhileArmed(t *testing.T) {
	_, _, e := newTestEngine(t, 8)
	dst := make([]byte, 1)
	require.NoError(t, e.Arm(dst))
	require.Equal(t, receive.ErrBusy, e.Arm(dst))
}
