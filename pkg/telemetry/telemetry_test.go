package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/serialkit/ringrx/pkg/receive"
	"github.com/serialkit/ringrx/pkg/receive/enginetest"
	"github.com/serialkit/ringrx/pkg/ring"
)

type fixedDrops uint64

func (d fixedDrops) Dropped() uint64 { return uint64(d) }

func TestStatus(t *testing.T) {
	r := ring.MustNew(8)
	engine := enginetest.New(r.Bytes())
	ctl := receive.NewController(r, engine)
	require.NoError(t, ctl.Start())

	p := &Publisher{
		ID:         "machine-1",
		EngineName: "serial",
		Ring:       ctl.Ring(),
		Controller: ctl,
		Drops:      fixedDrops(3),
	}

	for _, b := range []byte("hello") {
		require.NoError(t, engine.Complete(context.Background(), ctl, b))
	}

	status := p.Status()
	require.Equal(t, "machine-1", status.Id)
	require.Equal(t, "serial", status.Engine)
	require.Equal(t, uint32(8), status.Capacity)
	require.Equal(t, uint32(5), status.WriteIndex)
	require.Equal(t, uint64(5), status.Received)
	require.Equal(t, uint64(3), status.Dropped)
	require.Equal(t, "", status.Fault)
}

func TestStatusFault(t *testing.T) {
	r := ring.MustNew(8)
	engine := enginetest.New(r.Bytes())
	ctl := receive.NewController(r, engine)
	require.NoError(t, ctl.Start())

	engine.ArmErr = errors.New("engine wedged")
	require.Error(t, engine.Complete(context.Background(), ctl, 0))

	p := &Publisher{ID: "machine-1", Ring: ctl.Ring(), Controller: ctl}
	require.Contains(t, p.Status().Fault, "engine wedged")
}
