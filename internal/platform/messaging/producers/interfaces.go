// Package producers contains the Kafka publishers used by the outbox poller
// to relay completed transactions and to park unprocessable events.
package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// EventPublisher publishes transaction events to the primary topic
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher parks events that repeatedly fail processing
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
