package engine

import (
	"context"

	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/compost-credit-ledger/internal/domain/outbox"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CreateRequest records a pending transfer proposal from payer to payee. No
// balance is affected; the proposal becomes a movement only on acceptance.
// Both accounts must exist at creation time.
func (e *Engine) CreateRequest(ctx context.Context, payerID, payeeID uuid.UUID, amount decimal.Decimal, reason string) (*ledger.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}

	if _, err := e.accountRepo.GetByID(ctx, payerID); err != nil {
		return nil, err
	}
	if payeeID != payerID {
		if _, err := e.accountRepo.GetByID(ctx, payeeID); err != nil {
			return nil, err
		}
	}

	txn, err := ledger.NewRequest(payerID, payeeID, amount, reason)
	if err != nil {
		return nil, err
	}

	if err := e.ledgerRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	e.logger.Info("Transfer request created",
		"transaction_id", txn.ID.String(),
		"payer_id", payerID.String(),
		"payee_id", payeeID.String(),
		"amount", amount.String(),
	)
	return txn, nil
}

// ResolveRequest settles a pending transfer request exactly once.
//
// Accepting applies the conservation movement and finalizes the row as a
// TRANSFER in the same database transaction. Rejecting deletes the pending
// row without touching any balance. Either way the request stops being
// resolvable: a second resolution of any kind fails with
// ledger.ErrTransactionNotFound.
func (e *Engine) ResolveRequest(ctx context.Context, id uuid.UUID, accept bool) (*ledger.Transaction, error) {
	var resolved *ledger.Transaction

	err := e.runTx(ctx, func(tx pgx.Tx) error {
		ledgerRepo := e.ledgerRepo.WithTx(tx)

		txn, err := ledgerRepo.LockPendingByID(ctx, id)
		if err != nil {
			return err
		}

		if !accept {
			if err := ledgerRepo.Delete(ctx, id); err != nil {
				return err
			}
			resolved = txn
			return nil
		}

		accountRepo := e.accountRepo.WithTx(tx)
		sourceID := *txn.SourceAccountID

		locked := make(map[uuid.UUID]*account.Account, 2)
		for _, accID := range lockOrder(sourceID, txn.DestinationAccountID) {
			acc, err := accountRepo.LockForUpdate(ctx, accID)
			if err != nil {
				return err
			}
			locked[accID] = acc
		}

		if err := e.debit(ctx, accountRepo, locked[sourceID], txn.Amount); err != nil {
			return err
		}
		if _, err := accountRepo.AdjustBalance(ctx, txn.DestinationAccountID, txn.Amount); err != nil {
			return err
		}
		if err := ledgerRepo.Finalize(ctx, id, ledger.CategoryTransfer); err != nil {
			return err
		}

		txn.Category = ledger.CategoryTransfer
		txn.Pending = false

		msg, err := outbox.NewMessage(txn)
		if err != nil {
			return err
		}
		if err := e.outboxRepo.WithTx(tx).Create(ctx, msg); err != nil {
			return err
		}

		resolved = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := "rejected"
	if accept {
		outcome = "accepted"
	}
	e.logger.Info("Transfer request resolved",
		"transaction_id", id.String(),
		"outcome", outcome,
	)
	return resolved, nil
}
