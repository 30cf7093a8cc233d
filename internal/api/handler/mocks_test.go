package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/compost-credit-ledger/internal/data/mongo"
	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/compost-credit-ledger/internal/engine"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newHandlerTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	return r
}

// decodeData unmarshals the "data" field of the standard response envelope
// into out.
func decodeData(t *testing.T, body []byte, out interface{}) {
	t.Helper()
	var envelope Response
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.NotNil(t, envelope.Data)
	dataBytes, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(dataBytes, out))
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, ownerName string, phoneNumber string, initialBalance decimal.Decimal) (*account.Account, error) {
	args := m.Called(ctx, ownerName, phoneNumber, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByPhoneNumber(ctx context.Context, phoneNumber string) (*account.Account, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) SetLocalStand(ctx context.Context, id uuid.UUID, standID int32) (*account.Account, error) {
	args := m.Called(ctx, id, standID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

type MockStandService struct {
	mock.Mock
}

func (m *MockStandService) CreateStand(ctx context.Context, id int32, name string) (*stand.CompostStand, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stand.CompostStand), args.Error(1)
}

func (m *MockStandService) GetStand(ctx context.Context, id int32) (*stand.CompostStand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stand.CompostStand), args.Error(1)
}

func (m *MockStandService) ListStands(ctx context.Context) ([]*stand.CompostStand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stand.CompostStand), args.Error(1)
}

func (m *MockStandService) AddAdmin(ctx context.Context, standID int32, accountID uuid.UUID) (*stand.CompostStand, error) {
	args := m.Called(ctx, standID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stand.CompostStand), args.Error(1)
}

func (m *MockStandService) RemoveAdmin(ctx context.Context, standID int32, accountID uuid.UUID) (*stand.CompostStand, error) {
	args := m.Called(ctx, standID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stand.CompostStand), args.Error(1)
}

func (m *MockStandService) GetStandDeposits(ctx context.Context, standID int32, startTime, endTime time.Time) ([]*stand.DepositReport, error) {
	args := m.Called(ctx, standID, startTime, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stand.DepositReport), args.Error(1)
}

type MockLedgerEngine struct {
	mock.Mock
}

func (m *MockLedgerEngine) Transfer(ctx context.Context, sourceID *uuid.UUID, destinationID uuid.UUID, amount decimal.Decimal, category ledger.Category, reason string) (*ledger.Transaction, error) {
	args := m.Called(ctx, sourceID, destinationID, amount, category, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerEngine) CreateRequest(ctx context.Context, payerID, payeeID uuid.UUID, amount decimal.Decimal, reason string) (*ledger.Transaction, error) {
	args := m.Called(ctx, payerID, payeeID, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerEngine) ResolveRequest(ctx context.Context, id uuid.UUID, accept bool) (*ledger.Transaction, error) {
	args := m.Called(ctx, id, accept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerEngine) ProcessDeposit(ctx context.Context, dep engine.Deposit) (*engine.DepositResult, error) {
	args := m.Called(ctx, dep)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.DepositResult), args.Error(1)
}

type MockTransactionReadService struct {
	mock.Mock
}

func (m *MockTransactionReadService) GetTransactionByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionReadService) GetTransactionsByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error) {
	args := m.Called(ctx, accountID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.Transaction), args.Get(1).(int64), args.Error(2)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetDailyStats(ctx context.Context, startDay, endDay string) ([]*mongo.DailyCategoryStat, error) {
	args := m.Called(ctx, startDay, endDay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*mongo.DailyCategoryStat), args.Error(1)
}

// decimalEq matches a decimal argument by numeric equality
func decimalEq(want string) interface{} {
	target := decimal.RequireFromString(want)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(target)
	})
}
