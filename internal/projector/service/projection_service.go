package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// ErrMalformedTransaction marks events that can never be projected and
// belong on the dead letter queue rather than in the retry loop.
var ErrMalformedTransaction = errors.New("malformed ledger transaction")

type ProjectionServiceImpl struct {
	store  ReadModelStore
	logger *slog.Logger
}

func NewProjectionService(store ReadModelStore, logger *slog.Logger) ProjectionService {
	return &ProjectionServiceImpl{
		store:  store,
		logger: logger,
	}
}

// ProjectTransaction applies one ledger transaction to the reporting store.
// The store upsert is idempotent on the transaction id, so Kafka redelivery
// is safe.
func (s *ProjectionServiceImpl) ProjectTransaction(ctx context.Context, txn *ledger.Transaction) error {
	s.logger.Info("Projecting ledger transaction",
		"transaction_id", txn.ID.String(),
		"category", string(txn.Category),
	)

	if txn.ID == uuid.Nil || txn.DestinationAccountID == uuid.Nil || !txn.Amount.IsPositive() {
		return fmt.Errorf("refusing to project malformed ledger transaction %s: %w", txn.ID, ErrMalformedTransaction)
	}
	if _, err := ledger.ParseCategory(string(txn.Category)); err != nil {
		return fmt.Errorf("refusing to project ledger transaction %s (%v): %w", txn.ID, err, ErrMalformedTransaction)
	}

	if err := s.store.ApplyTransaction(ctx, txn); err != nil {
		return fmt.Errorf("failed to apply transaction %s to read models: %w", txn.ID, err)
	}

	s.logger.Debug("Ledger transaction projected", "transaction_id", txn.ID.String())
	return nil
}
