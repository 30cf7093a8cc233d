package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages ledger transaction persistence. Balances live on the
// accounts table; rows here are the append-only record of movements and
// pending proposals.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// LockPendingByID row-locks a pending transaction for the duration of
	// the enclosing database transaction. Returns ErrTransactionNotFound if
	// the id does not exist or the row is already finalized, which is what
	// makes request resolution exactly-once.
	LockPendingByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// Finalize flips pending to false, recording the category the movement
	// settled as. A transaction never reverts to pending.
	Finalize(ctx context.Context, id uuid.UUID, category Category) error

	// Delete removes a pending transaction (request rejection).
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByAccountID returns transactions where the account is either
	// endpoint, newest first.
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
	GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*Transaction, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates a missing ledger transaction, or — when
// resolving a request — one that was already finalized or deleted.
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "ledger transaction not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	// If the target TransactionID is empty, consider it a match for any ErrTransactionNotFound
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

// ErrDuplicateTransaction indicates transaction id uniqueness violation
type ErrDuplicateTransaction struct {
	TransactionID uuid.UUID
}

func (e ErrDuplicateTransaction) Error() string {
	return "duplicate ledger transaction: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrDuplicateTransaction
func (e ErrDuplicateTransaction) Is(target error) bool {
	t, ok := target.(ErrDuplicateTransaction)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
