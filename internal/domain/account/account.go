package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrEmptyOwnerName   = errors.New("owner name cannot be empty")
	ErrEmptyPhoneNumber = errors.New("phone number cannot be empty")
	ErrNegativeBalance  = errors.New("initial balance cannot be negative")
)

// Account represents a ledger participant with a current credit balance.
// The balance is a stored value, not a derived sum, and is mutated only
// through the ledger engines.
type Account struct {
	ID          uuid.UUID       `json:"id"`
	OwnerName   string          `json:"owner_name"`
	PhoneNumber string          `json:"phone_number"`
	Balance     decimal.Decimal `json:"balance"`
	// LocalStandID is the stand the participant usually deposits at.
	// Directory metadata only; deposits may name any stand.
	LocalStandID *int32    `json:"local_stand_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAccount creates a new account with the given parameters
func NewAccount(ownerName string, phoneNumber string, initialBalance decimal.Decimal) (*Account, error) {
	if ownerName == "" {
		return nil, ErrEmptyOwnerName
	}
	if phoneNumber == "" {
		return nil, ErrEmptyPhoneNumber
	}
	if initialBalance.IsNegative() {
		return nil, ErrNegativeBalance
	}

	now := time.Now()
	return &Account{
		ID:          uuid.New(),
		OwnerName:   ownerName,
		PhoneNumber: phoneNumber,
		Balance:     initialBalance,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
