package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
)

// Conn is the slice of a NATS connection the publisher needs
type Conn interface {
	Publish(subject string, data []byte) error
}

// Client owns a NATS connection
type Client struct{ nc *nats.Conn }

// Connect dials NATS with unlimited reconnects
func Connect(url string) (*Client, error) {
	nc, err := nats.Connect(url,
		nats.Name("processor-sim"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return &Client{nc: nc}, nil
}

// Close drains pending publishes before closing
func (c *Client) Close() {
	if c.nc != nil {
		_ = c.nc.Drain()
	}
}

// Conn exposes the underlying connection
func (c *Client) Conn() *nats.Conn { return c.nc }

// EventPublisher publishes lifecycle events as JSON on <prefix>.<event type>,
// e.g. processor.process.completed
type EventPublisher struct {
	conn   Conn
	prefix string
}

// NewEventPublisher creates a publisher on conn
func NewEventPublisher(conn Conn, prefix string) *EventPublisher {
	return &EventPublisher{conn: conn, prefix: prefix}
}

// Subject returns the subject an event type is published on
func (p *EventPublisher) Subject(eventType appProcessing.EventType) string {
	if p.prefix == "" {
		return string(eventType)
	}
	return p.prefix + "." + string(eventType)
}

// Publish implements appProcessing.EventPublisher
func (p *EventPublisher) Publish(ctx context.Context, event appProcessing.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.conn.Publish(p.Subject(event.Type), data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

var _ appProcessing.EventPublisher = (*EventPublisher)(nil)
