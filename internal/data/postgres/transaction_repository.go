package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/compost-credit-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TransactionRepository implements the ledger.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL ledger transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so ledger rows commit or
// abort together with the balance adjustments they describe.
func (r *TransactionRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const transactionColumns = "id, category, amount, source_account_id, destination_account_id, reason, pending, created_at"

func (r *TransactionRepository) scanTransaction(row pgx.Row) (*ledger.Transaction, error) {
	var tx ledger.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.Category,
		&tx.Amount,
		&tx.SourceAccountID,
		&tx.DestinationAccountID,
		&tx.Reason,
		&tx.Pending,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Create appends a ledger transaction row
func (r *TransactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO ledger_transactions (id, category, amount, source_account_id, destination_account_id, reason, pending, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		tx.ID,
		tx.Category,
		tx.Amount,
		tx.SourceAccountID,
		tx.DestinationAccountID,
		tx.Reason,
		tx.Pending,
		tx.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ledger.ErrDuplicateTransaction{TransactionID: tx.ID}
		}
		r.logger.Error("Failed to create ledger transaction", "transaction_id", tx.ID.String(), "error", err)
		return fmt.Errorf("failed to create ledger transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a ledger transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transactions
		WHERE id = $1
	`

	tx, err := r.scanTransaction(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get ledger transaction", "transaction_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get ledger transaction: %w", err)
	}

	return tx, nil
}

// LockPendingByID row-locks a pending transaction. A missing row and an
// already-finalized row are indistinguishable to the caller, which is what
// makes resolution exactly-once.
func (r *TransactionRepository) LockPendingByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transactions
		WHERE id = $1 AND pending = TRUE
		FOR UPDATE
	`

	tx, err := r.scanTransaction(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to lock pending transaction", "transaction_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock pending transaction: %w", err)
	}

	return tx, nil
}

// Finalize flips a pending transaction to final, settling it as category
func (r *TransactionRepository) Finalize(ctx context.Context, id uuid.UUID, category ledger.Category) error {
	query := `
		UPDATE ledger_transactions
		SET pending = FALSE, category = $1
		WHERE id = $2 AND pending = TRUE
	`

	result, err := r.querier.Exec(ctx, query, category, id)
	if err != nil {
		r.logger.Error("Failed to finalize transaction", "transaction_id", id.String(), "error", err)
		return fmt.Errorf("failed to finalize transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound{TransactionID: id}
	}

	return nil
}

// Delete removes a pending transaction (request rejection)
func (r *TransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM ledger_transactions
		WHERE id = $1 AND pending = TRUE
	`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete pending transaction", "transaction_id", id.String(), "error", err)
		return fmt.Errorf("failed to delete pending transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound{TransactionID: id}
	}

	return nil
}

// GetByAccountID retrieves paginated transactions where the account is the
// source or the destination, newest first.
func (r *TransactionRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transactions
		WHERE source_account_id = $1 OR destination_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to get transactions by account", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to get transactions by account: %w", err)
	}
	defer rows.Close()

	return r.collectTransactions(rows)
}

// CountByAccountID counts transactions where the account is either endpoint
func (r *TransactionRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM ledger_transactions
		WHERE source_account_id = $1 OR destination_account_id = $1
	`

	var count int64
	if err := r.querier.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		r.logger.Error("Failed to count transactions by account", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count transactions by account: %w", err)
	}

	return count, nil
}

// GetByTimeRange retrieves paginated transactions created within the window
func (r *TransactionRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*ledger.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transactions
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.querier.Query(ctx, query, startTime, endTime, limit, offset)
	if err != nil {
		r.logger.Error("Failed to get transactions by time range", "error", err)
		return nil, fmt.Errorf("failed to get transactions by time range: %w", err)
	}
	defer rows.Close()

	return r.collectTransactions(rows)
}

func (r *TransactionRepository) collectTransactions(rows pgx.Rows) ([]*ledger.Transaction, error) {
	var transactions []*ledger.Transaction
	for rows.Next() {
		tx, err := r.scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger transactions: %w", err)
	}
	return transactions, nil
}
