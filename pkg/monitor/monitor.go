// Package monitor streams the receiver state to viewers over websocket.
// It holds only the read-only view of the ring; nothing here consumes it.
package monitor

import (
	"context"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/serialkit/ringrx/pkg/framework"
	"github.com/serialkit/ringrx/pkg/receive"
	"github.com/serialkit/ringrx/pkg/ring"
)

// DefaultInterval is the default frame interval.
const DefaultInterval = time.Second

// Frame is one state report sent to a viewer. Storage is the hex of a
// snapshot taken without synchronizing against the writer.
type Frame struct {
	ID         string `json:"id"`
	Capacity   int    `json:"capacity"`
	WriteIndex int    `json:"write_index"`
	Received   uint64 `json:"received"`
	Fault      string `json:"fault,omitempty"`
	Storage    string `json:"storage"`
}

// Server serves the websocket stream on Addr.
type Server struct {
	Addr       string
	ID         string
	Ring       ring.View
	Controller *receive.Controller
	Interval   time.Duration
}

// NewServer creates a Server for a controller.
func NewServer(addr, id string, ctl *receive.Controller) *Server {
	return &Server{
		Addr:       addr,
		ID:         id,
		Ring:       ctl.Ring(),
		Controller: ctl,
		Interval:   DefaultInterval,
	}
}

// Name implements Named.
func (s *Server) Name() string {
	return "monitor"
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler()}
	glog.Infof("monitor listening on %s", s.Addr)
	return framework.RunWithContextCloser(ctx, srv, func() error {
		err := srv.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
}

// Handler returns the websocket handler serving frames.
func (s *Server) Handler() http.Handler {
	return websocket.Handler(s.serve)
}

// Frame builds the current frame.
func (s *Server) Frame() Frame {
	f := Frame{
		ID:         s.ID,
		Capacity:   s.Ring.Capacity(),
		WriteIndex: s.Ring.Index(),
		Received:   s.Controller.Completions(),
		Storage:    hex.EncodeToString(s.Ring.Snapshot()),
	}
	if err := s.Controller.Err(); err != nil {
		f.Fault = err.Error()
	}
	return f
}

func (s *Server) serve(conn *websocket.Conn) {
	defer conn.Close()
	interval := s.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	if err := websocket.JSON.Send(conn, s.Frame()); err != nil {
		return
	}
	for range ticker.C {
		if err := websocket.JSON.Send(conn, s.Frame()); err != nil {
			return
		}
	}
}
