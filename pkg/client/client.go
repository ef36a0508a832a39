// Package client talks to running receivers over MQTT for discovery and
// inspection.
package client

import (
	"context"
	"errors"
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/serialkit/ringrx/pkg/comm/mqtt"
	"github.com/serialkit/ringrx/pkg/msgs"
)

// Default timeouts.
const (
	DefaultDiscoverTimeout = 500 * time.Millisecond
	DefaultRequestTimeout  = 2 * time.Second
)

// ErrTimeout indicates a receiver did not reply in time.
var ErrTimeout = errors.New("request timeout")

// ReceiverInfo describes a discovered receiver.
type ReceiverInfo struct {
	ID     string `json:"id"`
	Engine string `json:"engine"`
}

// Client inspects receivers through a shared broker.
type Client struct {
	Queue           *mqtt.Queue
	DiscoverTimeout time.Duration
	RequestTimeout  time.Duration
}

// New creates a Client and connects to the broker.
func New(brokerURL string) (*Client, error) {
	q, err := mqtt.NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	token := q.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return &Client{
		Queue:           q,
		DiscoverTimeout: DefaultDiscoverTimeout,
		RequestTimeout:  DefaultRequestTimeout,
	}, nil
}

// Close implements io.Closer.
func (c *Client) Close() error {
	return c.Queue.Close()
}

// Discover collects receivers from their retained meta topics.
func (c *Client) Discover(ctx context.Context) (res []ReceiverInfo, err error) {
	resCh := make(chan ReceiverInfo, 16)
	sub := c.Queue.Sub("+/meta", func(topic string, payload []byte) {
		id := topic[:len(topic)-len("/meta")]
		select {
		case resCh <- ReceiverInfo{ID: id, Engine: string(payload)}:
		case <-time.After(time.Second):
		}
	})
	defer sub.Close()

	dur := c.DiscoverTimeout
	if dur == 0 {
		dur = DefaultDiscoverTimeout
	}
	timeout := time.After(dur)
	for {
		select {
		case info := <-resCh:
			res = append(res, info)
		case <-timeout:
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}

// Status requests the current status of a receiver.
func (c *Client) Status(ctx context.Context, id string) (*msgs.ReceiverStatus, error) {
	var status msgs.ReceiverStatus
	err := c.request(ctx, id, "status", id+"/status", &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Snapshot requests a copy of a receiver's ring storage.
func (c *Client) Snapshot(ctx context.Context, id string) (*msgs.RingSnapshot, error) {
	var snap msgs.RingSnapshot
	err := c.request(ctx, id, "dump", id+"/snapshot", &snap)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) request(ctx context.Context, id, cmd, replyTopic string, reply proto.Message) error {
	payloadCh := make(chan []byte, 1)
	sub := c.Queue.Sub(replyTopic, func(_ string, payload []byte) {
		select {
		case payloadCh <- payload:
		default:
		}
	})
	defer sub.Close()

	token := c.Queue.Pub(id+"/cmd", []byte(cmd))
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}

	dur := c.RequestTimeout
	if dur == 0 {
		dur = DefaultRequestTimeout
	}
	select {
	case payload := <-payloadCh:
		return msgs.Unmarshal(payload, reply)
	case <-time.After(dur):
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
