package archiver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
	"github.com/KOlivier2119/SecureBank/internal/platform/messaging/producers"
)

// EventHandler consumes transaction events from Kafka and archives them.
// Poison messages go to the dead letter topic when one is configured.
type EventHandler struct {
	archiving ArchivingService
	dlq       producers.DeadLetterPublisher
	logger    *slog.Logger
}

func NewEventHandler(
	logger *slog.Logger,
	archiving ArchivingService,
	dlq producers.DeadLetterPublisher,
) *EventHandler {
	return &EventHandler{
		archiving: archiving,
		dlq:       dlq,
		logger:    logger,
	}
}

// HandleMessage decodes one event and archives it. Returning an error
// leaves the offset uncommitted so the event is redelivered.
func (h *EventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var record transaction.Transaction
	if err := json.Unmarshal(value, &record); err != nil {
		h.logger.Error("Failed to unmarshal transaction event",
			"error", err,
			"message_key", string(key),
		)

		if h.dlq != nil {
			reason := fmt.Sprintf("failed to unmarshal transaction event: %s", err.Error())
			if dlqErr := h.dlq.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
				h.logger.Error("Failed to publish poison event to DLQ",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				// Parked successfully, safe to commit the offset
				return nil
			}
		}
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	h.logger.Debug("Received transaction event",
		"transaction_id", record.ID.String(),
		"account_id", record.AccountID.String(),
		"type", string(record.Type),
	)

	if err := h.archiving.Archive(ctx, &record); err != nil {
		h.logger.Error("Failed to archive transaction event",
			"transaction_id", record.ID.String(),
			"error", err,
		)
		return err
	}

	return nil
}
