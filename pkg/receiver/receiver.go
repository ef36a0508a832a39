// Package receiver assembles the receive cycle with its engine,
// telemetry and monitor for the daemon.
package receiver

import (
	"os"

	"github.com/golang/glog"

	"github.com/serialkit/ringrx/pkg/comm/mqtt"
	"github.com/serialkit/ringrx/pkg/engine/bridge"
	"github.com/serialkit/ringrx/pkg/engine/serial"
	"github.com/serialkit/ringrx/pkg/framework"
	"github.com/serialkit/ringrx/pkg/monitor"
	"github.com/serialkit/ringrx/pkg/receive"
	"github.com/serialkit/ringrx/pkg/ring"
	"github.com/serialkit/ringrx/pkg/telemetry"
)

// Receiver is an assembled receive cycle.
type Receiver struct {
	Config     *Config
	Queue      *mqtt.Queue
	Ring       *ring.Ring
	Controller *receive.Controller

	engineName string
	runners    []framework.Runnable
	device     *os.File
}

// NewReceiver assembles a Receiver from the config.
func (c *Config) NewReceiver() (*Receiver, error) {
	r, err := ring.New(c.Capacity)
	if err != nil {
		return nil, err
	}
	queue, err := mqtt.NewQueueFromURL(c.BrokerURL)
	if err != nil {
		return nil, err
	}

	rcv := &Receiver{Config: c, Queue: queue, Ring: r}
	var engine receive.Engine
	if c.Device != "" {
		f, err := os.OpenFile(c.Device, os.O_RDONLY, 0)
		if err != nil {
			return nil, err
		}
		e := serial.New(f)
		rcv.device = f
		rcv.engineName = "serial:" + c.Device
		rcv.runners = append(rcv.runners, framework.NamedRun("serial", e))
		rcv.Controller = receive.NewController(r, e)
		e.WithHandler(rcv.Controller)
		engine = e
	} else {
		e := bridge.NewEngine(queue, c.BridgeTopic)
		if c.PendingLimit > 0 {
			e.PendingLimit = c.PendingLimit
		}
		rcv.engineName = "bridge:" + c.BridgeTopic
		rcv.runners = append(rcv.runners, framework.NamedRun("bridge", e))
		rcv.Controller = receive.NewController(r, e)
		e.WithHandler(rcv.Controller)
		engine = e
	}

	pub := telemetry.NewPublisher(queue, c.ID, rcv.Controller)
	pub.EngineName = rcv.engineName
	pub.Interval = c.StatusInterval
	if drops, ok := engine.(telemetry.DropCounter); ok {
		pub.Drops = drops
	}
	rcv.runners = append(rcv.runners, pub)

	if c.MonitorAddr != "" {
		rcv.runners = append(rcv.runners, monitor.NewServer(c.MonitorAddr, c.ID, rcv.Controller))
	}
	return rcv, nil
}

// Start connects the broker and arms the seed transfer. It must be
// called before Runnables are spawned.
func (r *Receiver) Start() error {
	token := r.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	if err := r.Controller.Start(); err != nil {
		return err
	}
	glog.Infof("receiver %s started: engine %s, capacity %d",
		r.Config.ID, r.engineName, r.Ring.Capacity())
	return nil
}

// Runnables returns the background runners of the receiver.
func (r *Receiver) Runnables() []framework.Runnable {
	return r.runners
}

// Close releases the broker connection and the device.
func (r *Receiver) Close() error {
	var errs framework.AggregatedError
	if r.device != nil {
		errs.Add(r.device.Close())
	}
	errs.Add(r.Queue.Close())
	return errs.Aggregate()
}
