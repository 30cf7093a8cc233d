package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*Account, error)
	SetLocalStand(ctx context.Context, id uuid.UUID, standID int32) error

	// AdjustBalance applies delta (positive or negative) to the account
	// balance in a single atomic statement and returns the new balance.
	// No minimum-balance policy is enforced here; that belongs to the
	// engines, which must allow minting credits to accounts regardless of
	// the source side.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)

	// LockForUpdate acquires a row lock on the account for the duration of
	// the enclosing transaction and returns its current state.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is implements errors.Is matching; a target with a nil AccountID matches
// any ErrAccountNotFound.
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrDuplicatePhoneNumber indicates phone number uniqueness violation
type ErrDuplicatePhoneNumber struct {
	PhoneNumber string
}

func (e ErrDuplicatePhoneNumber) Error() string {
	return "account with phone number already exists: " + e.PhoneNumber
}
