// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the compost credit ledger.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls. The returned repository will use the provided
// transaction for all database operations.
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account in the database. If an account with the same
// phone number already exists, ErrDuplicatePhoneNumber is returned.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, owner_name, phone_number, balance, local_stand_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.OwnerName,
		acc.PhoneNumber,
		acc.Balance,
		acc.LocalStandID,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return account.ErrDuplicatePhoneNumber{PhoneNumber: acc.PhoneNumber}
		}
		r.logger.Error("Failed to create account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, owner_name, phone_number, balance, local_stand_id, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.OwnerName,
		&acc.PhoneNumber,
		&acc.Balance,
		&acc.LocalStandID,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// GetByPhoneNumber retrieves an account by its phone number. Returns nil, nil
// when no account matches, as callers use this for duplicate checks and
// identity resolution.
func (r *AccountRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*account.Account, error) {
	query := `
		SELECT id, owner_name, phone_number, balance, local_stand_id, created_at, updated_at
		FROM accounts
		WHERE phone_number = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, phoneNumber).Scan(
		&acc.ID,
		&acc.OwnerName,
		&acc.PhoneNumber,
		&acc.Balance,
		&acc.LocalStandID,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get account by phone number", "error", err)
		return nil, fmt.Errorf("failed to get account by phone number: %w", err)
	}

	return &acc, nil
}

// SetLocalStand records the stand a participant usually deposits at
func (r *AccountRepository) SetLocalStand(ctx context.Context, id uuid.UUID, standID int32) error {
	query := `
		UPDATE accounts
		SET local_stand_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, standID, id)
	if err != nil {
		r.logger.Error("Failed to set local stand", "id", id.String(), "error", err)
		return fmt.Errorf("failed to set local stand: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}

// AdjustBalance applies delta to the account balance in a single atomic
// statement and returns the new balance. Callers that need the adjustment
// tied to other writes must run it on a repository wrapped with WithTx.
func (r *AccountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance
	`

	var newBalance decimal.Decimal
	err := r.querier.QueryRow(ctx, query, delta, id).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to adjust account balance", "id", id.String(), "error", err)
		return decimal.Zero, fmt.Errorf("failed to adjust account balance: %w", err)
	}

	return newBalance, nil
}

// LockForUpdate obtains a row lock on the account and returns its current state.
// Must be used within a transaction; the lock holds until commit or rollback.
func (r *AccountRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, owner_name, phone_number, balance, local_stand_id, created_at, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.OwnerName,
		&acc.PhoneNumber,
		&acc.Balance,
		&acc.LocalStandID,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to lock account for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock account for update: %w", err)
	}

	return &acc, nil
}
