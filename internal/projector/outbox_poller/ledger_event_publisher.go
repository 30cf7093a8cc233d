package outbox_poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/compost-credit-ledger/internal/domain/outbox"
	"github.com/compost-credit-ledger/internal/platform/messaging/producers"
)

// EventPublisher pushes one outbox message onto the ledger events topic
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// KafkaEventPublisher publishes outbox payloads to Kafka and marks them
// processed. The outbox row is only marked after the broker acknowledged
// the write, so a crash in between redelivers rather than loses the event.
type KafkaEventPublisher struct {
	producer   producers.MessagePublisher
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

// NewKafkaEventPublisher creates a new publisher
func NewKafkaEventPublisher(
	producer producers.MessagePublisher,
	outboxRepo outbox.Repository,
	logger *slog.Logger,
) EventPublisher {
	return &KafkaEventPublisher{
		producer:   producer,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// PublishEvent validates and publishes a message, then marks it processed
func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, message *outbox.Message) error {
	var txn ledger.Transaction
	if err := json.Unmarshal(message.Payload, &txn); err != nil {
		p.logger.Error("Failed to unmarshal ledger transaction from outbox payload",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to mark outbox message FAILED_TO_PUBLISH after unmarshal error",
				"outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	// Key by destination account so one account's events stay ordered.
	if err := p.producer.Publish(ctx, message.AccountID.String(), json.RawMessage(message.Payload)); err != nil {
		return fmt.Errorf("failed to publish outbox %d to ledger events topic: %w", message.ID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusProcessed); err != nil {
		p.logger.Error("Published ledger event but failed to mark outbox message PROCESSED",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		return fmt.Errorf("ledger event for %s published, but failed to mark outbox %d as PROCESSED: %w",
			message.TransactionID, message.ID, err)
	}

	p.logger.Info("Outbox message published to ledger events topic",
		"outbox_id", message.ID,
		"transaction_id", message.TransactionID,
		"category", string(txn.Category),
	)
	return nil
}
