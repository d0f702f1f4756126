// Package archiver moves committed ledger transactions into the archive:
// an outbox poller relays them to Kafka, and a consumer drains the topic
// into MongoDB through a worker pool.
package archiver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KOlivier2119/SecureBank/internal/domain/outbox"
	"github.com/KOlivier2119/SecureBank/internal/platform/messaging/producers"
)

// EventRelay pushes one outbox message onto the event stream
type EventRelay interface {
	Relay(ctx context.Context, message *outbox.Message) error
}

// KafkaEventRelay publishes outbox payloads to the event topic and marks
// them processed. The publish is keyed by account ID to keep per-account
// ordering.
type KafkaEventRelay struct {
	outboxRepo outbox.Repository
	publisher  producers.EventPublisher
	logger     *slog.Logger
}

// NewKafkaEventRelay creates a relay writing through the given publisher
func NewKafkaEventRelay(
	logger *slog.Logger,
	outboxRepo outbox.Repository,
	publisher producers.EventPublisher,
) EventRelay {
	return &KafkaEventRelay{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Relay publishes the message's transaction record. A payload that cannot
// be decoded is marked FAILED_TO_PUBLISH immediately; retrying it can never
// succeed.
func (r *KafkaEventRelay) Relay(ctx context.Context, message *outbox.Message) error {
	record, err := message.GetTransaction()
	if err != nil {
		r.logger.Error("Failed to unmarshal transaction from outbox payload",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		if updateErr := r.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusFailedToPublish); updateErr != nil {
			r.logger.Error("Also failed to mark outbox message FAILED_TO_PUBLISH",
				"outbox_id", message.ID, "update_error", updateErr,
			)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	if err := r.publisher.Publish(ctx, record.AccountID.String(), record); err != nil {
		return fmt.Errorf("failed to publish transaction %s: %w", record.ID, err)
	}

	if err := r.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusProcessed); err != nil {
		r.logger.Error("Published event but failed to mark outbox message PROCESSED",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		return fmt.Errorf("publish for %s OK, but failed to mark outbox %d as PROCESSED: %w",
			message.TransactionID, message.ID, err)
	}

	r.logger.Info("Relayed outbox message to event stream",
		"outbox_id", message.ID, "transaction_id", message.TransactionID,
	)
	return nil
}
