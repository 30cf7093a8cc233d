package service

import (
	"context"
	"time"

	"github.com/compost-credit-ledger/internal/data/mongo"
	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/compost-credit-ledger/internal/engine"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService defines the interface for account directory operations
type AccountService interface {
	// CreateAccount creates a new account with the given details
	// Returns ErrDuplicatePhoneNumber if an account with the same phone number exists
	CreateAccount(ctx context.Context, ownerName string, phoneNumber string, initialBalance decimal.Decimal) (*account.Account, error)

	// GetAccountByID retrieves an account by its ID
	// Returns ErrAccountNotFound if the account doesn't exist
	GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// GetAccountByPhoneNumber looks up an account by phone number
	GetAccountByPhoneNumber(ctx context.Context, phoneNumber string) (*account.Account, error)

	// SetLocalStand records the stand the participant usually deposits at
	SetLocalStand(ctx context.Context, id uuid.UUID, standID int32) (*account.Account, error)
}

// StandService defines the interface for compost stand directory operations
type StandService interface {
	CreateStand(ctx context.Context, id int32, name string) (*stand.CompostStand, error)
	GetStand(ctx context.Context, id int32) (*stand.CompostStand, error)
	ListStands(ctx context.Context) ([]*stand.CompostStand, error)
	AddAdmin(ctx context.Context, standID int32, accountID uuid.UUID) (*stand.CompostStand, error)
	RemoveAdmin(ctx context.Context, standID int32, accountID uuid.UUID) (*stand.CompostStand, error)

	// GetStandDeposits returns the deposit reports recorded against a stand
	// within the given time range, newest first.
	GetStandDeposits(ctx context.Context, standID int32, startTime, endTime time.Time) ([]*stand.DepositReport, error)
}

// LedgerEngine is the synchronous ledger core surface the handlers call.
// Implemented by *engine.Engine.
type LedgerEngine interface {
	Transfer(ctx context.Context, sourceID *uuid.UUID, destinationID uuid.UUID, amount decimal.Decimal, category ledger.Category, reason string) (*ledger.Transaction, error)
	CreateRequest(ctx context.Context, payerID, payeeID uuid.UUID, amount decimal.Decimal, reason string) (*ledger.Transaction, error)
	ResolveRequest(ctx context.Context, id uuid.UUID, accept bool) (*ledger.Transaction, error)
	ProcessDeposit(ctx context.Context, dep engine.Deposit) (*engine.DepositResult, error)
}

// TransactionReadService serves ledger history queries from the
// authoritative transaction log
type TransactionReadService interface {
	// GetTransactionByID retrieves a ledger transaction by its ID
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)

	// GetTransactionsByAccountID retrieves a paginated transaction history
	// for an account, along with the total row count.
	GetTransactionsByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error)
}

// StatsService serves aggregate reporting queries from the projected read
// models. Eventually consistent with the transaction log.
type StatsService interface {
	GetDailyStats(ctx context.Context, startDay, endDay string) ([]*mongo.DailyCategoryStat, error)
}
