// Package events publishes best-effort domain events over NATS.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher publishes JSON-encoded domain events. Publishing is
// fire-and-forget: consumers are external and the engine never waits for
// them.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to the NATS server at url.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// Publish encodes payload as JSON and publishes it on subject.
func (p *Publisher) Publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe registers a handler for every subject matching pattern. Exposed
// for consumers embedded in the same process, such as tests.
func (p *Publisher) Subscribe(pattern string, handler func(subject string, data []byte)) (*nats.Subscription, error) {
	return p.conn.Subscribe(pattern, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Flush()
	p.conn.Close()
}
