package engine

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrConcurrencyConflict indicates a balance-affecting operation was aborted
// after exhausting its retry budget for lock and serialization conflicts.
var ErrConcurrencyConflict = errors.New("transaction aborted after repeated lock conflicts")

// ErrInsufficientFunds indicates a debit was rejected because it would drive
// the source balance negative. Only returned when balance enforcement is
// enabled in the rewards configuration.
type ErrInsufficientFunds struct {
	AccountID uuid.UUID
	Balance   decimal.Decimal
	Amount    decimal.Decimal
}

func (e ErrInsufficientFunds) Error() string {
	return "insufficient funds on account " + e.AccountID.String() +
		": balance " + e.Balance.String() + ", requested " + e.Amount.String()
}

// Is implements errors.Is matching; a target with a nil AccountID matches
// any ErrInsufficientFunds.
func (e ErrInsufficientFunds) Is(target error) bool {
	t, ok := target.(ErrInsufficientFunds)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrPartialFailureAborted indicates a multi-credit sequence failed part way
// through and the whole database transaction was rolled back. No credit from
// the sequence is visible.
type ErrPartialFailureAborted struct {
	Cause error
}

func (e ErrPartialFailureAborted) Error() string {
	return "credit sequence aborted, all effects rolled back: " + e.Cause.Error()
}

func (e ErrPartialFailureAborted) Unwrap() error {
	return e.Cause
}
