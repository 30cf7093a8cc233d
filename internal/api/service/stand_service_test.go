package service

import (
	"context"
	"testing"
	"time"

	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStandService_CreateStand(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		standRepo := new(MockStandRepository)
		svc := NewStandService(standRepo, new(MockReportRepository), new(MockAccountRepository))

		standRepo.On("Create", ctx, mock.MatchedBy(func(st *stand.CompostStand) bool {
			return st.ID == int32(4) && st.Name == "Community Garden"
		})).Return(nil)

		st, err := svc.CreateStand(ctx, 4, "Community Garden")

		require.NoError(t, err)
		assert.Equal(t, int32(4), st.ID)
		standRepo.AssertExpectations(t)
	})

	t.Run("EmptyName", func(t *testing.T) {
		standRepo := new(MockStandRepository)
		svc := NewStandService(standRepo, new(MockReportRepository), new(MockAccountRepository))

		_, err := svc.CreateStand(ctx, 4, "")

		assert.ErrorIs(t, err, stand.ErrEmptyName)
		standRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestStandService_AddAdmin(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		standRepo := new(MockStandRepository)
		accountRepo := new(MockAccountRepository)
		svc := NewStandService(standRepo, new(MockReportRepository), accountRepo)

		accountRepo.On("GetByID", ctx, accountID).Return(&account.Account{ID: accountID}, nil)
		standRepo.On("AddAdmin", ctx, int32(4), accountID).Return(nil)
		standRepo.On("GetByID", ctx, int32(4)).
			Return(&stand.CompostStand{ID: 4, Name: "Community Garden", AdminIDs: []uuid.UUID{accountID}}, nil)

		st, err := svc.AddAdmin(ctx, 4, accountID)

		require.NoError(t, err)
		assert.Contains(t, st.AdminIDs, accountID)
		standRepo.AssertExpectations(t)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		standRepo := new(MockStandRepository)
		accountRepo := new(MockAccountRepository)
		svc := NewStandService(standRepo, new(MockReportRepository), accountRepo)

		accountRepo.On("GetByID", ctx, accountID).Return(nil, account.ErrAccountNotFound{AccountID: accountID})

		_, err := svc.AddAdmin(ctx, 4, accountID)

		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		standRepo.AssertNotCalled(t, "AddAdmin", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownStand", func(t *testing.T) {
		standRepo := new(MockStandRepository)
		accountRepo := new(MockAccountRepository)
		svc := NewStandService(standRepo, new(MockReportRepository), accountRepo)

		accountRepo.On("GetByID", ctx, accountID).Return(&account.Account{ID: accountID}, nil)
		standRepo.On("AddAdmin", ctx, int32(99), accountID).Return(stand.ErrStandNotFound{StandID: 99})

		_, err := svc.AddAdmin(ctx, 99, accountID)

		var notFound stand.ErrStandNotFound
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestStandService_GetStandDeposits(t *testing.T) {
	ctx := context.Background()
	start := time.Now().AddDate(0, 0, -7)
	end := time.Now()

	t.Run("Success", func(t *testing.T) {
		standRepo := new(MockStandRepository)
		reportRepo := new(MockReportRepository)
		svc := NewStandService(standRepo, reportRepo, new(MockAccountRepository))

		standRepo.On("GetByID", ctx, int32(4)).Return(&stand.CompostStand{ID: 4, Name: "Community Garden"}, nil)
		report, _ := stand.NewDepositReport(4, uuid.New(), decimal.RequireFromString("1.5"), stand.QualityObservation{})
		reportRepo.On("GetByStandID", ctx, int32(4), start, end).Return([]*stand.DepositReport{report}, nil)

		reports, err := svc.GetStandDeposits(ctx, 4, start, end)

		require.NoError(t, err)
		assert.Len(t, reports, 1)
	})

	t.Run("UnknownStand", func(t *testing.T) {
		standRepo := new(MockStandRepository)
		reportRepo := new(MockReportRepository)
		svc := NewStandService(standRepo, reportRepo, new(MockAccountRepository))

		standRepo.On("GetByID", ctx, int32(99)).Return(nil, stand.ErrStandNotFound{StandID: 99})

		_, err := svc.GetStandDeposits(ctx, 99, start, end)

		assert.Error(t, err)
		reportRepo.AssertNotCalled(t, "GetByStandID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
