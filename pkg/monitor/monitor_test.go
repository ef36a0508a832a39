package monitor

import (
	"context"
	"encoding/hex"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/serialkit/ringrx/pkg/receive"
	"github.com/serialkit/ringrx/pkg/receive/enginetest"
	"github.com/serialkit/ringrx/pkg/ring"
)

func newServer(t *testing.T) (*Server, *enginetest.RecordingEngine, *receive.Controller) {
	r := ring.MustNew(8)
	engine := enginetest.New(r.Bytes())
	ctl := receive.NewController(r, engine)
	require.NoError(t, ctl.Start())
	s := NewServer(":0", "machine-1", ctl)
	return s, engine, ctl
}

func TestFrame(t *testing.T) {
	s, engine, ctl := newServer(t)
	for _, b := range []byte("abc") {
		require.NoError(t, engine.Complete(context.Background(), ctl, b))
	}

	f := s.Frame()
	require.Equal(t, "machine-1", f.ID)
	require.Equal(t, 8, f.Capacity)
	require.Equal(t, 3, f.WriteIndex)
	require.Equal(t, uint64(3), f.Received)
	require.Equal(t, "", f.Fault)

	storage, err := hex.DecodeString(f.Storage)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), storage[:3])
}

func TestServeFrames(t *testing.T) {
	s, engine, ctl := newServer(t)
	s.Interval = 10 * time.Millisecond
	require.NoError(t, engine.Complete(context.Background(), ctl, 'x'))

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	var f Frame
	require.NoError(t, websocket.JSON.Receive(conn, &f))
	require.Equal(t, "machine-1", f.ID)
	require.Equal(t, 1, f.WriteIndex)
}
