package service

import (
	"context"

	"github.com/compost-credit-ledger/internal/domain/ledger"
)

// ProjectionService applies committed ledger transactions to the read models.
type ProjectionService interface {
	ProjectTransaction(ctx context.Context, txn *ledger.Transaction) error
}

// ReadModelStore persists the reporting view of a ledger transaction
type ReadModelStore interface {
	ApplyTransaction(ctx context.Context, txn *ledger.Transaction) error
}
