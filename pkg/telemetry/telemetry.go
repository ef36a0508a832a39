// Package telemetry publishes receiver state over MQTT and answers
// inspection requests from the CLI.
//
// Topics relative to the queue prefix:
//   <id>/meta      retained engine name, used for discovery
//   <id>/status    periodic and on-request ReceiverStatus
//   <id>/snapshot  RingSnapshot, on request
//   <id>/cmd       inbound requests: "status", "dump"
package telemetry

import (
	"context"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/serialkit/ringrx/pkg/comm/mqtt"
	"github.com/serialkit/ringrx/pkg/msgs"
	"github.com/serialkit/ringrx/pkg/receive"
	"github.com/serialkit/ringrx/pkg/ring"
)

// DefaultInterval is the default status publish interval.
const DefaultInterval = 5 * time.Second

// DropCounter reports engine-side dropped bytes. Engines without a
// pending FIFO have none to report.
type DropCounter interface {
	Dropped() uint64
}

// MachineID retrieves the unique ID identifying this machine.
func MachineID() string {
	id, err := machineid.ID()
	if err != nil {
		panic(err)
	}
	return id
}

// Publisher periodically publishes ReceiverStatus and answers cmd
// requests. It holds only the read-only view of the ring.
type Publisher struct {
	Queue      *mqtt.Queue
	ID         string
	EngineName string
	Ring       ring.View
	Controller *receive.Controller
	Drops      DropCounter
	Interval   time.Duration
}

// NewPublisher creates a Publisher for a controller.
func NewPublisher(q *mqtt.Queue, id string, ctl *receive.Controller) *Publisher {
	return &Publisher{
		Queue:      q,
		ID:         id,
		Ring:       ctl.Ring(),
		Controller: ctl,
		Interval:   DefaultInterval,
	}
}

// Name implements Named.
func (p *Publisher) Name() string {
	return "telemetry"
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.ID+"/cmd", p.handleCmd)
	defer sub.Close()
	p.Queue.PubWith(p.ID+"/meta", []byte(p.EngineName), 0, true)

	interval := p.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.publishStatus()
		}
	}
}

func (p *Publisher) handleCmd(_ string, payload []byte) {
	switch string(payload) {
	case "status":
		p.publishStatus()
	case "dump":
		p.publishSnapshot()
	default:
		glog.Warningf("unknown request %q", payload)
	}
}

// Status builds the current ReceiverStatus.
func (p *Publisher) Status() *msgs.ReceiverStatus {
	status := &msgs.ReceiverStatus{
		Id:         p.ID,
		Engine:     p.EngineName,
		Capacity:   uint32(p.Ring.Capacity()),
		WriteIndex: uint32(p.Ring.Index()),
		Received:   p.Controller.Completions(),
	}
	if p.Drops != nil {
		status.Dropped = p.Drops.Dropped()
	}
	if err := p.Controller.Err(); err != nil {
		status.Fault = err.Error()
	}
	return status
}

func (p *Publisher) publishStatus() {
	p.publish(p.ID+"/status", p.Status())
}

func (p *Publisher) publishSnapshot() {
	p.publish(p.ID+"/snapshot", &msgs.RingSnapshot{
		Id:         p.ID,
		WriteIndex: uint32(p.Ring.Index()),
		Storage:    p.Ring.Snapshot(),
	})
}

func (p *Publisher) publish(topic string, m proto.Message) {
	payload, err := msgs.Marshal(m)
	if err != nil {
		glog.Errorf("marshal %s: %v", topic, err)
		return
	}
	p.Queue.Pub(topic, payload)
}
