// Package kafka publishes mutation events to a Kafka topic. Events for the
// same user share a partition key, so consumers see a user's mutations in
// order.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/pulsespark/engram/pkg/eventstream"
)

// Config carries Kafka connection settings for the publisher.
type Config struct {
	Brokers []string
	Topic   string
}

// Publisher writes mutation events to a Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
}

// NewPublisher creates a Kafka-backed mutation event publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("no kafka topic configured")
	}

	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafkago.Hash{},
	}

	return &Publisher{writer: writer}, nil
}

// PublishMutation serializes the event and writes it keyed by user ID.
func (p *Publisher) PublishMutation(ctx context.Context, event *eventstream.MutationEvent) error {
	if event == nil {
		return eventstream.ErrNilMutationEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling mutation event: %w", err)
	}

	message := kafkago.Message{
		Key:   []byte(event.UserID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("writing mutation event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
