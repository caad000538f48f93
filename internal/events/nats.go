// internal/events/nats.go
package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher publishes each event on "<prefix>.<event type>".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *zap.Logger
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, prefix string, logger *zap.Logger) (*NATSPublisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url, nats.Name("backend-api"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	logger.Info("NATS publisher initialized", zap.String("url", url), zap.String("prefix", prefix))
	return &NATSPublisher{conn: conn, prefix: prefix, logger: logger}, nil
}

func (p *NATSPublisher) subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

// Publish sends event. The context is unused because nats.Conn.Publish only buffers.
func (p *NATSPublisher) Publish(_ context.Context, event Event) error {
	payload, err := encode(event)
	if err != nil {
		return err
	}
	subject := p.subject(event.Type)
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Error("Failed to publish event to NATS", zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	p.logger.Debug("Published event", zap.String("subject", subject), zap.String("key", event.Key))
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	p.logger.Info("NATS publisher closed.")
	return nil
}
