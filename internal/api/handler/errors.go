package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/compost-credit-ledger/internal/engine"
	"github.com/gin-gonic/gin"
)

// respondDomainError maps typed domain and engine errors onto HTTP statuses.
// Anything unrecognized is a 500.
func respondDomainError(c *gin.Context, logger *slog.Logger, err error) {
	var partial engine.ErrPartialFailureAborted
	if errors.As(err, &partial) {
		// The whole deposit rolled back; map the underlying cause.
		respondDomainError(c, logger, partial.Cause)
		return
	}

	var insufficient engine.ErrInsufficientFunds
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidCategory),
		errors.Is(err, stand.ErrInvalidWeight),
		errors.Is(err, account.ErrEmptyOwnerName),
		errors.Is(err, account.ErrEmptyPhoneNumber),
		errors.Is(err, account.ErrNegativeBalance),
		errors.Is(err, stand.ErrEmptyName):
		RespondBadRequest(c, err.Error())

	case errors.Is(err, account.ErrAccountNotFound{}),
		errors.Is(err, ledger.ErrTransactionNotFound{}),
		isStandNotFound(err),
		isReportNotFound(err):
		RespondNotFound(c, err.Error())

	case isDuplicate(err):
		RespondConflict(c, err.Error())

	case errors.As(err, &insufficient):
		RespondWithError(c, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", insufficient.Error())

	case errors.Is(err, engine.ErrConcurrencyConflict):
		RespondWithError(c, http.StatusConflict, "CONCURRENCY_CONFLICT",
			"The operation conflicted with concurrent activity, try again")

	default:
		logger.Error("Unhandled domain error", "error", err)
		RespondInternalError(c)
	}
}

func isStandNotFound(err error) bool {
	var e stand.ErrStandNotFound
	return errors.As(err, &e)
}

func isReportNotFound(err error) bool {
	var e stand.ErrReportNotFound
	return errors.As(err, &e)
}

func isDuplicate(err error) bool {
	var dupPhone account.ErrDuplicatePhoneNumber
	var dupStand stand.ErrDuplicateStand
	var dupTxn ledger.ErrDuplicateTransaction
	return errors.As(err, &dupPhone) || errors.As(err, &dupStand) || errors.As(err, &dupTxn)
}
