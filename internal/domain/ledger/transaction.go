package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates a non-positive transaction amount
var ErrInvalidAmount = errors.New("amount must be positive")

// Category classifies a ledger transaction. It is a closed enumeration:
// conservation movements debit one account and credit another, minting
// movements credit a destination with no corresponding debit.
type Category string

const (
	// CategoryTransfer is a conservation movement between two accounts.
	CategoryTransfer Category = "TRANSFER"
	// CategoryDepositReward is the minting credit to a depositor for a
	// physical compost deposit.
	CategoryDepositReward Category = "DEPOSIT_REWARD"
	// CategoryAdminBonus is the minting credit of one administrator's share
	// of a deposit's bonus pool. The source account records the depositor
	// for provenance; no debit occurs.
	CategoryAdminBonus Category = "ADMIN_BONUS"
	// CategoryRequest is a proposed transfer awaiting acceptance. Always
	// pending; acceptance finalizes the row as a TRANSFER.
	CategoryRequest Category = "REQUEST"
)

// ErrInvalidCategory indicates an unknown transaction category
var ErrInvalidCategory = errors.New("invalid transaction category")

// ParseCategory converts a string into a Category, rejecting unknown values
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryTransfer, CategoryDepositReward, CategoryAdminBonus, CategoryRequest:
		return Category(s), nil
	}
	return "", ErrInvalidCategory
}

// Minting reports whether the category credits value into existence rather
// than moving it between accounts.
func (c Category) Minting() bool {
	return c == CategoryDepositReward || c == CategoryAdminBonus
}

// Transaction is one recorded balance movement, or a pending proposal of
// one. Immutable once finalized: a pending transaction is finalized exactly
// once (on accept) or deleted (on reject), and never reverts.
type Transaction struct {
	ID       uuid.UUID       `json:"id" bson:"id"`
	Category Category        `json:"category" bson:"category"`
	Amount   decimal.Decimal `json:"amount" bson:"amount"`
	// SourceAccountID is the payer. Nil for DEPOSIT_REWARD; for ADMIN_BONUS
	// it records the depositor even though no debit occurs.
	SourceAccountID      *uuid.UUID `json:"source_account_id,omitempty" bson:"source_account_id,omitempty"`
	DestinationAccountID uuid.UUID  `json:"destination_account_id" bson:"destination_account_id"`
	Reason               string     `json:"reason,omitempty" bson:"reason,omitempty"`
	// Pending marks a proposal whose amount has never been reflected in any
	// account balance.
	Pending   bool      `json:"pending" bson:"pending"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewTransaction builds a finalized transaction record for a movement the
// caller has applied (or is applying in the same transactional scope).
func NewTransaction(category Category, amount decimal.Decimal, sourceID *uuid.UUID, destinationID uuid.UUID, reason string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &Transaction{
		ID:                   uuid.New(),
		Category:             category,
		Amount:               amount,
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		Reason:               reason,
		Pending:              false,
		CreatedAt:            time.Now(),
	}, nil
}

// NewRequest builds a pending transfer proposal. No balance is affected
// until the request is accepted.
func NewRequest(payerID, payeeID uuid.UUID, amount decimal.Decimal, reason string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	payer := payerID
	return &Transaction{
		ID:                   uuid.New(),
		Category:             CategoryRequest,
		Amount:               amount,
		SourceAccountID:      &payer,
		DestinationAccountID: payeeID,
		Reason:               reason,
		Pending:              true,
		CreatedAt:            time.Now(),
	}, nil
}
