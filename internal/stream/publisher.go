// Package stream publishes scored events to Kafka for downstream
// dashboards and alerting. Publishing is optional and fire-and-forget from
// the request path.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher writes scored-event payloads to a single topic. A nil
// *Publisher is a valid disabled publisher.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher builds a publisher for the given brokers and topic. Returns
// nil (disabled) when no brokers are configured.
func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 250 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish marshals payload and writes it keyed by the market key.
func (p *Publisher) Publish(ctx context.Context, key string, payload any) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("stream: marshal payload: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  time.Now().UTC(),
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
