// Package kafka publishes session activity events to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"intentos/internal/events"
	applog "intentos/internal/log"
)

type Publisher struct {
	writer *kafka.Writer
}

var logger = applog.WithComponent(applog.ComponentKafka)

// NewPublisher returns a publisher writing to topic on brokers. Messages are
// keyed by session id so one session's events stay ordered within a
// partition. Writes are asynchronous; delivery failures are only logged.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			Completion:   logCompletion,
		},
	}
}

func logCompletion(messages []kafka.Message, err error) {
	if err != nil {
		logger.Warn("Kafka delivery failed", "messages", len(messages), applog.FieldError, err)
	}
}

// Message builds the Kafka record for e.
func Message(e events.Event) (kafka.Message, error) {
	data, err := e.ToJSON()
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(e.SessionID),
		Value: data,
		Time:  e.Timestamp,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}, nil
}

// Publish implements events.Publisher.
func (p *Publisher) Publish(ctx context.Context, e events.Event) error {
	msg, err := Message(e)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ events.Publisher = (*Publisher)(nil)
