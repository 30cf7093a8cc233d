package service

import (
	"context"
	"time"

	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*account.Account, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) SetLocalStand(ctx context.Context, id uuid.UUID, standID int32) error {
	args := m.Called(ctx, id, standID)
	return args.Error(0)
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) WithTx(tx pgx.Tx) account.Repository {
	m.Called(tx)
	return m
}

type MockStandRepository struct {
	mock.Mock
}

func (m *MockStandRepository) Create(ctx context.Context, st *stand.CompostStand) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStandRepository) GetByID(ctx context.Context, id int32) (*stand.CompostStand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stand.CompostStand), args.Error(1)
}

func (m *MockStandRepository) List(ctx context.Context) ([]*stand.CompostStand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stand.CompostStand), args.Error(1)
}

func (m *MockStandRepository) GetAdminIDs(ctx context.Context, standID int32) ([]uuid.UUID, error) {
	args := m.Called(ctx, standID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockStandRepository) AddAdmin(ctx context.Context, standID int32, accountID uuid.UUID) error {
	args := m.Called(ctx, standID, accountID)
	return args.Error(0)
}

func (m *MockStandRepository) RemoveAdmin(ctx context.Context, standID int32, accountID uuid.UUID) error {
	args := m.Called(ctx, standID, accountID)
	return args.Error(0)
}

func (m *MockStandRepository) WithTx(tx pgx.Tx) stand.Repository {
	m.Called(tx)
	return m
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *stand.DepositReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*stand.DepositReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stand.DepositReport), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, limit, offset int) ([]*stand.DepositReport, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stand.DepositReport), args.Error(1)
}

func (m *MockReportRepository) GetByStandID(ctx context.Context, standID int32, startTime, endTime time.Time) ([]*stand.DepositReport, error) {
	args := m.Called(ctx, standID, startTime, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stand.DepositReport), args.Error(1)
}

func (m *MockReportRepository) WithTx(tx pgx.Tx) stand.ReportRepository {
	m.Called(tx)
	return m
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Create(ctx context.Context, txn *ledger.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) LockPendingByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) Finalize(ctx context.Context, id uuid.UUID, category ledger.Category) error {
	args := m.Called(ctx, id, category)
	return args.Error(0)
}

func (m *MockLedgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, startTime, endTime, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	m.Called(tx)
	return m
}
