// internal/events/kafka.go
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// kafkaBatchTimeout bounds how long a synchronous write waits for its batch to fill.
const kafkaBatchTimeout = 10 * time.Millisecond

// KafkaPublisher writes events to a single topic keyed by Event.Key.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher needs at least one broker")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka publisher needs a topic")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           kafkaBatchTimeout,
		AllowAutoTopicCreation: true,
		Logger:                 zap.NewStdLog(logger.With(zap.String("kafka_component", "producer"))),
		ErrorLogger:            zap.NewStdLog(logger.With(zap.String("kafka_component", "producer_errors"))),
	}
	logger.Info("Kafka publisher initialized", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return &KafkaPublisher{writer: writer, logger: logger}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := encode(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.Key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to produce event to Kafka",
			zap.String("topic", p.writer.Topic),
			zap.String("type", event.Type),
			zap.Error(err))
		return fmt.Errorf("failed to produce %s event: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	p.logger.Info("Kafka publisher closed.")
	return nil
}
