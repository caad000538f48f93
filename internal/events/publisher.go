// internal/events/publisher.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Event types published by the services.
const (
	TypeTransactionCreated = "transaction.created"
	TypeUserDeleted        = "user.deleted"
)

// Supported brokers.
const (
	BrokerNone  = "none"
	BrokerNATS  = "nats"
	BrokerKafka = "kafka"
)

// Event is the envelope sent to the broker.
type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data,omitempty"`
}

// NewEvent stamps a new event with the current time.
func NewEvent(eventType, key string, data interface{}) Event {
	return Event{Type: eventType, Key: key, OccurredAt: time.Now().UTC(), Data: data}
}

// Publisher delivers domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Config selects and configures the broker.
type Config struct {
	Broker        string
	NATSURL       string
	SubjectPrefix string
	KafkaBrokers  []string
	KafkaTopic    string
}

// New builds the publisher for cfg.Broker. An empty broker means events are dropped.
func New(cfg Config, logger *zap.Logger) (Publisher, error) {
	switch strings.ToLower(cfg.Broker) {
	case "", BrokerNone:
		return NoopPublisher{}, nil
	case BrokerNATS:
		return NewNATSPublisher(cfg.NATSURL, cfg.SubjectPrefix, logger)
	case BrokerKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	default:
		return nil, fmt.Errorf("unsupported events broker %q", cfg.Broker)
	}
}

func encode(event Event) ([]byte, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}
	return b, nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
