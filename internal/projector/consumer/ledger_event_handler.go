package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/compost-credit-ledger/internal/platform/messaging/producers"
	"github.com/compost-credit-ledger/internal/projector/service"
)

// LedgerEventHandler handles committed ledger transactions arriving from Kafka
type LedgerEventHandler struct {
	projectionService service.ProjectionService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewLedgerEventHandler creates a new handler
func NewLedgerEventHandler(
	logger *slog.Logger,
	projectionService service.ProjectionService,
	producer producers.DeadLetterPublisher,
) *LedgerEventHandler {
	return &LedgerEventHandler{
		projectionService: projectionService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages
func (h *LedgerEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var txn ledger.Transaction
	if err := json.Unmarshal(value, &txn); err != nil {
		return h.sendToDLQ(ctx, key, value,
			fmt.Sprintf("Failed to unmarshal ledger transaction from Kafka message: %s", err.Error()), err)
	}

	h.logger.Info("Received ledger transaction for projection",
		"transaction_id", txn.ID.String(),
		"category", string(txn.Category),
		"amount", txn.Amount.String(),
	)

	if err := h.projectionService.ProjectTransaction(ctx, &txn); err != nil {
		if errors.Is(err, service.ErrMalformedTransaction) {
			// Retrying a malformed event will never succeed.
			return h.sendToDLQ(ctx, key, value, err.Error(), err)
		}

		h.logger.Error("Failed to project ledger transaction",
			"transaction_id", txn.ID.String(),
			"error", err,
		)
		return fmt.Errorf("projecting transaction %s failed: %w", txn.ID.String(), err)
	}

	h.logger.Info("Successfully projected ledger transaction", "transaction_id", txn.ID.String())
	return nil // Success, commit offset
}

func (h *LedgerEventHandler) sendToDLQ(ctx context.Context, key []byte, value []byte, reason string, cause error) error {
	h.logger.Error("Unprocessable ledger event",
		"error", cause,
		"message_key", string(key),
	)

	if h.producer != nil {
		if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
			h.logger.Error("Failed to publish message to DLQ",
				"dlq_error", dlqErr,
				"original_error", cause,
				"message_key", string(key),
			)
			// Return original error if DLQ fails
		} else {
			h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", reason)
			// Message handled, commit offset
			return nil
		}
	}
	// Allow Kafka retries
	return fmt.Errorf("ledger event not handled: %w", cause)
}
