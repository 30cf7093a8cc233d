package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"log/slog"

	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProjectionService mocks the ProjectionService interface
type MockProjectionService struct {
	mock.Mock
}

func (m *MockProjectionService) ProjectTransaction(ctx context.Context, txn *ledger.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func TestWorkerPoolProjectionService_ProjectTransaction(t *testing.T) {
	logger := slog.Default()
	txn := testTransaction()

	tests := []struct {
		name          string
		setupMocks    func(base *MockProjectionService)
		expectedError error
	}{
		{
			name: "successful projection",
			setupMocks: func(base *MockProjectionService) {
				base.On("ProjectTransaction", mock.Anything, mock.MatchedBy(func(got *ledger.Transaction) bool {
					return got.ID == txn.ID
				})).Return(nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "projection error",
			setupMocks: func(base *MockProjectionService) {
				base.On("ProjectTransaction", mock.Anything, mock.MatchedBy(func(got *ledger.Transaction) bool {
					return got.ID == txn.ID
				})).Return(errors.New("projection error")).Once()
			},
			expectedError: errors.New("projection error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBaseService := &MockProjectionService{}

			workerPoolService, err := NewWorkerPoolProjectionService(
				mockBaseService,
				WorkerPoolConfig{
					Size: 2,
				},
				logger,
			)
			assert.NoError(t, err)
			defer workerPoolService.Shutdown()

			tt.setupMocks(mockBaseService)
			ctx := context.Background()

			err = workerPoolService.ProjectTransaction(ctx, txn)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockBaseService.AssertExpectations(t)
		})
	}
}

func TestWorkerPoolProjectionService_Concurrency(t *testing.T) {
	mockBaseService := &MockProjectionService{}
	logger := slog.Default()

	workerPoolService, err := NewWorkerPoolProjectionService(
		mockBaseService,
		WorkerPoolConfig{
			Size: 4,
		},
		logger,
	)
	assert.NoError(t, err)
	defer workerPoolService.Shutdown()

	numTransactions := 20
	mockBaseService.On("ProjectTransaction", mock.Anything, mock.Anything).Return(nil).Times(numTransactions)

	var wg sync.WaitGroup
	wg.Add(numTransactions)

	for i := 0; i < numTransactions; i++ {
		go func() {
			defer wg.Done()
			txn := &ledger.Transaction{
				ID:                   uuid.New(),
				Category:             ledger.CategoryDepositReward,
				Amount:               decimal.RequireFromString("0.90"),
				DestinationAccountID: uuid.New(),
				Reason:               "Deposit",
			}
			err := workerPoolService.ProjectTransaction(context.Background(), txn)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	mockBaseService.AssertExpectations(t)
	assert.Equal(t, 4, workerPoolService.Capacity())
}
