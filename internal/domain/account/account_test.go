package account

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		ownerName := "John Doe"
		phoneNumber := "+972501234567"
		initialBalance := decimal.RequireFromString("100.00")

		beforeCreation := time.Now()
		acc, err := NewAccount(ownerName, phoneNumber, initialBalance)
		afterCreation := time.Now()

		require.NoError(t, err)
		require.NotNil(t, acc)

		assert.NotEqual(t, uuid.Nil, acc.ID, "Account ID should not be nil")
		assert.Equal(t, ownerName, acc.OwnerName)
		assert.Equal(t, phoneNumber, acc.PhoneNumber)
		assert.True(t, acc.Balance.Equal(initialBalance))
		assert.Nil(t, acc.LocalStandID)

		assert.WithinDuration(t, beforeCreation, acc.CreatedAt, afterCreation.Sub(beforeCreation)+time.Millisecond, "CreatedAt should be around the time of creation")
		assert.Equal(t, acc.CreatedAt, acc.UpdatedAt, "CreatedAt and UpdatedAt should match on creation")
	})

	t.Run("EmptyOwnerName", func(t *testing.T) {
		acc, err := NewAccount("", "+972501234567", decimal.Zero)
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, ErrEmptyOwnerName)
	})

	t.Run("EmptyPhoneNumber", func(t *testing.T) {
		acc, err := NewAccount("John Doe", "", decimal.Zero)
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, ErrEmptyPhoneNumber)
	})

	t.Run("NegativeInitialBalance", func(t *testing.T) {
		acc, err := NewAccount("John Doe", "+972501234567", decimal.RequireFromString("-0.01"))
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, ErrNegativeBalance)
	})
}

func TestErrAccountNotFound_Is(t *testing.T) {
	id := uuid.New()
	err := ErrAccountNotFound{AccountID: id}

	assert.ErrorIs(t, err, ErrAccountNotFound{AccountID: id})
	assert.ErrorIs(t, err, ErrAccountNotFound{}, "nil target ID should match any ErrAccountNotFound")
	assert.NotErrorIs(t, err, ErrAccountNotFound{AccountID: uuid.New()})
}
