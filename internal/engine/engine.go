// Package engine implements the balance-affecting operations of the compost
// credit ledger: direct transfers, the two-phase request workflow, and the
// deposit reward engine. Every operation here runs inside a single database
// transaction so the ledger rows, the balance adjustments, and the outbox
// rows they produce commit or abort together.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/compost-credit-ledger/internal/config"
	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/compost-credit-ledger/internal/domain/outbox"
	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Ledger reason strings recorded on engine-generated transactions.
const (
	ReasonDeposit           = "Deposit"
	ReasonStandAdminPayment = "StandAdminPayment"
)

// TxRunner runs a function inside a committed-or-aborted database
// transaction. Satisfied by persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Engine executes ledger operations against the account store and the
// transaction log.
type Engine struct {
	db          TxRunner
	accountRepo account.Repository
	ledgerRepo  ledger.Repository
	standRepo   stand.Repository
	reportRepo  stand.ReportRepository
	outboxRepo  outbox.Repository
	cfg         config.RewardsConfig
	logger      *slog.Logger
}

// NewEngine creates a ledger engine
func NewEngine(
	db TxRunner,
	accountRepo account.Repository,
	ledgerRepo ledger.Repository,
	standRepo stand.Repository,
	reportRepo stand.ReportRepository,
	outboxRepo outbox.Repository,
	cfg config.RewardsConfig,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		db:          db,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		standRepo:   standRepo,
		reportRepo:  reportRepo,
		outboxRepo:  outboxRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// runTx executes fn inside a database transaction, retrying on lock and
// serialization conflicts up to the configured retry budget. Any other
// error aborts immediately.
func (e *Engine) runTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	attempts := e.cfg.ConflictRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = e.db.ExecuteTx(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if !isRetryableConflict(lastErr) {
			return lastErr
		}
		e.logger.Warn("Retrying after database conflict", "attempt", i+1, "error", lastErr)
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrConcurrencyConflict, attempts, lastErr)
}

// isRetryableConflict reports whether the error is a transient lock or
// serialization conflict worth retrying on a fresh transaction.
func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}

// appendTransaction writes a finalized ledger row together with its outbox
// row on the given database transaction.
func (e *Engine) appendTransaction(ctx context.Context, tx pgx.Tx, txn *ledger.Transaction) error {
	if err := e.ledgerRepo.WithTx(tx).Create(ctx, txn); err != nil {
		return err
	}

	msg, err := outbox.NewMessage(txn)
	if err != nil {
		return fmt.Errorf("failed to build outbox message: %w", err)
	}
	return e.outboxRepo.WithTx(tx).Create(ctx, msg)
}

// debit subtracts amount from the locked source account, enforcing the
// minimum-balance policy when enabled. The caller must already hold the row
// lock on the account.
func (e *Engine) debit(ctx context.Context, repo account.Repository, acc *account.Account, amount decimal.Decimal) error {
	if e.cfg.EnforceBalance && acc.Balance.LessThan(amount) {
		return ErrInsufficientFunds{AccountID: acc.ID, Balance: acc.Balance, Amount: amount}
	}
	_, err := repo.AdjustBalance(ctx, acc.ID, amount.Neg())
	return err
}
