package engine

import (
	"context"
	"errors"

	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Deposit describes one physical compost deposit to be rewarded.
type Deposit struct {
	DepositorID uuid.UUID
	StandID     int32
	WeightKg    decimal.Decimal
	Quality     stand.QualityObservation
}

// DepositResult carries everything a deposit produced: the stored report,
// the depositor's reward transaction (nil when the reward rounds to zero),
// and the admin bonus transactions in ascending admin account-id order.
type DepositResult struct {
	Report            *stand.DepositReport
	RewardTransaction *ledger.Transaction
	BonusTransactions []*ledger.Transaction
}

// Transactions returns all ledger transactions the deposit created.
func (r *DepositResult) Transactions() []*ledger.Transaction {
	txns := make([]*ledger.Transaction, 0, 1+len(r.BonusTransactions))
	if r.RewardTransaction != nil {
		txns = append(txns, r.RewardTransaction)
	}
	return append(txns, r.BonusTransactions...)
}

// ProcessDeposit mints credit for a compost deposit.
//
// The depositor is credited weight times the reward rate, and the stand's
// administrators split weight times the bonus rate into equal shares, the
// rounding drift going to the first admin in ascending account-id order.
// The deposit report, every balance credit, and every ledger row commit in
// one database transaction; a failure anywhere in the sequence rolls the
// whole deposit back and surfaces as ErrPartialFailureAborted.
//
// The stand is resolved before any mutation, so an unknown stand fails with
// stand.ErrStandNotFound and no side effects. An empty administrator set
// forfeits the bonus pool: minting less than the configured rates is safe,
// minting to nobody in particular is not.
func (e *Engine) ProcessDeposit(ctx context.Context, dep Deposit) (*DepositResult, error) {
	report, err := stand.NewDepositReport(dep.StandID, dep.DepositorID, dep.WeightKg, dep.Quality)
	if err != nil {
		return nil, err
	}

	st, err := e.standRepo.GetByID(ctx, dep.StandID)
	if err != nil {
		return nil, err
	}

	netReward := dep.WeightKg.Mul(e.cfg.RewardRate).Round(e.cfg.Precision)
	bonusPool := dep.WeightKg.Mul(e.cfg.BonusRate).Round(e.cfg.Precision)
	shares := SplitEqual(bonusPool, len(st.AdminIDs), e.cfg.Precision)

	if len(st.AdminIDs) == 0 && bonusPool.IsPositive() {
		e.logger.Warn("No administrators on stand, bonus pool forfeited",
			"stand_id", st.ID,
			"bonus_pool", bonusPool.String(),
		)
	}

	result := &DepositResult{Report: report}

	err = e.runTx(ctx, func(tx pgx.Tx) error {
		result.RewardTransaction = nil
		result.BonusTransactions = nil

		accountRepo := e.accountRepo.WithTx(tx)

		if err := e.reportRepo.WithTx(tx).Create(ctx, report); err != nil {
			return err
		}

		if netReward.IsPositive() {
			txn, err := e.mint(ctx, tx, accountRepo, ledger.CategoryDepositReward, netReward, nil, dep.DepositorID, ReasonDeposit)
			if err != nil {
				return err
			}
			result.RewardTransaction = txn
		}

		depositor := dep.DepositorID
		for i, adminID := range st.AdminIDs {
			if !shares[i].IsPositive() {
				continue
			}
			txn, err := e.mint(ctx, tx, accountRepo, ledger.CategoryAdminBonus, shares[i], &depositor, adminID, ReasonStandAdminPayment)
			if err != nil {
				return err
			}
			result.BonusTransactions = append(result.BonusTransactions, txn)
		}

		return nil
	})
	if err != nil {
		return nil, wrapDepositFailure(err)
	}

	e.logger.Info("Deposit processed",
		"report_id", report.ID.String(),
		"stand_id", st.ID,
		"depositor_id", dep.DepositorID.String(),
		"weight_kg", dep.WeightKg.String(),
		"net_reward", netReward.String(),
		"bonus_pool", bonusPool.String(),
		"admin_count", len(st.AdminIDs),
	)
	return result, nil
}

// mint credits amount to the destination and appends the matching finalized
// ledger row on the current database transaction.
func (e *Engine) mint(ctx context.Context, tx pgx.Tx, accountRepo account.Repository, category ledger.Category, amount decimal.Decimal, sourceID *uuid.UUID, destinationID uuid.UUID, reason string) (*ledger.Transaction, error) {
	txn, err := ledger.NewTransaction(category, amount, sourceID, destinationID, reason)
	if err != nil {
		return nil, err
	}

	if _, err := accountRepo.AdjustBalance(ctx, destinationID, amount); err != nil {
		return nil, err
	}
	if err := e.appendTransaction(ctx, tx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// wrapDepositFailure classifies a failed deposit transaction. Conflicts
// that already exhausted their retry budget keep their identity; everything
// else aborted a partially-applied credit sequence.
func wrapDepositFailure(err error) error {
	if errors.Is(err, ErrConcurrencyConflict) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return ErrPartialFailureAborted{Cause: err}
}
