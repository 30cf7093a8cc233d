package engine

import (
	"context"
	"sort"

	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Transfer moves amount between accounts as a finalized ledger transaction.
//
// For conservation categories (TRANSFER) the source account is debited and
// the destination credited atomically, with row locks taken in ascending
// account-id order. For minting categories (DEPOSIT_REWARD, ADMIN_BONUS)
// only the destination is credited; sourceID, when present, is recorded for
// provenance and is neither locked nor debited.
func (e *Engine) Transfer(ctx context.Context, sourceID *uuid.UUID, destinationID uuid.UUID, amount decimal.Decimal, category ledger.Category, reason string) (*ledger.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if _, err := ledger.ParseCategory(string(category)); err != nil {
		return nil, err
	}
	if category == ledger.CategoryRequest {
		// Requests are created pending through CreateRequest, never as
		// finalized movements.
		return nil, ledger.ErrInvalidCategory
	}
	if !category.Minting() && sourceID == nil {
		return nil, account.ErrAccountNotFound{AccountID: uuid.Nil}
	}

	txn, err := ledger.NewTransaction(category, amount, sourceID, destinationID, reason)
	if err != nil {
		return nil, err
	}

	err = e.runTx(ctx, func(tx pgx.Tx) error {
		if category.Minting() {
			return e.creditOnly(ctx, tx, txn)
		}
		return e.moveBetween(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Ledger transaction committed",
		"transaction_id", txn.ID.String(),
		"category", string(txn.Category),
		"amount", txn.Amount.String(),
	)
	return txn, nil
}

// creditOnly applies a minting movement: destination credit plus ledger row,
// no debit anywhere.
func (e *Engine) creditOnly(ctx context.Context, tx pgx.Tx, txn *ledger.Transaction) error {
	accountRepo := e.accountRepo.WithTx(tx)

	if _, err := accountRepo.LockForUpdate(ctx, txn.DestinationAccountID); err != nil {
		return err
	}
	if _, err := accountRepo.AdjustBalance(ctx, txn.DestinationAccountID, txn.Amount); err != nil {
		return err
	}
	return e.appendTransaction(ctx, tx, txn)
}

// moveBetween applies a conservation movement: debit source, credit
// destination, append the ledger row. Locks are acquired in ascending
// account-id order so concurrent movements over the same pair cannot
// deadlock.
func (e *Engine) moveBetween(ctx context.Context, tx pgx.Tx, txn *ledger.Transaction) error {
	accountRepo := e.accountRepo.WithTx(tx)
	sourceID := *txn.SourceAccountID

	locked := make(map[uuid.UUID]*account.Account, 2)
	for _, id := range lockOrder(sourceID, txn.DestinationAccountID) {
		acc, err := accountRepo.LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		locked[id] = acc
	}

	if err := e.debit(ctx, accountRepo, locked[sourceID], txn.Amount); err != nil {
		return err
	}
	if _, err := accountRepo.AdjustBalance(ctx, txn.DestinationAccountID, txn.Amount); err != nil {
		return err
	}
	return e.appendTransaction(ctx, tx, txn)
}

// lockOrder returns the distinct account ids in ascending order. A
// self-transfer yields a single id, locked once.
func lockOrder(ids ...uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	ordered := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].String() < ordered[j].String()
	})
	return ordered
}
