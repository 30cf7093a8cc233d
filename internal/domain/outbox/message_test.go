package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		source := uuid.New()
		tx := &ledger.Transaction{
			ID:                   uuid.New(),
			Category:             ledger.CategoryTransfer,
			Amount:               decimal.RequireFromString("10.00"),
			SourceAccountID:      &source,
			DestinationAccountID: uuid.New(),
			Reason:               "veg box",
			CreatedAt:            time.Now().Add(-time.Minute),
		}

		beforeCreation := time.Now()
		msg, err := NewMessage(tx)
		afterCreation := time.Now()

		require.NoError(t, err)
		require.NotNil(t, msg)

		assert.Equal(t, tx.ID, msg.TransactionID)
		assert.Equal(t, tx.DestinationAccountID, msg.AccountID)
		assert.Equal(t, StatusPending, msg.Status)
		assert.Equal(t, 0, msg.Attempts)
		assert.Nil(t, msg.LastAttemptAt)
		assert.WithinDuration(t, beforeCreation, msg.CreatedAt, afterCreation.Sub(beforeCreation)+time.Millisecond)

		// Check payload
		var decoded ledger.Transaction
		err = json.Unmarshal(msg.Payload, &decoded)
		require.NoError(t, err)
		assert.Equal(t, tx.ID, decoded.ID)
		assert.True(t, tx.Amount.Equal(decoded.Amount))
	})
}

func TestMessage_IncrementAttempts(t *testing.T) {
	t.Run("SuccessfulIncrement", func(t *testing.T) {
		initialTime := time.Now().Add(-time.Hour)
		msg := &Message{
			Attempts:      1,
			LastAttemptAt: &initialTime,
		}
		initialAttempts := msg.Attempts

		time.Sleep(10 * time.Millisecond) // Ensure time changes
		beforeUpdate := time.Now()
		msg.IncrementAttempts()
		afterUpdate := time.Now()

		assert.Equal(t, initialAttempts+1, msg.Attempts)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
		assert.WithinDuration(t, beforeUpdate, *msg.LastAttemptAt, afterUpdate.Sub(beforeUpdate)+time.Millisecond)
	})
}

func TestMessage_MarkAsProcessed(t *testing.T) {
	t.Run("SuccessfulMarkAsProcessed", func(t *testing.T) {
		initialTime := time.Now().Add(-time.Hour)
		msg := &Message{
			Status:        StatusPending,
			LastAttemptAt: &initialTime,
		}
		time.Sleep(10 * time.Millisecond) // Ensure time changes
		beforeUpdate := time.Now()
		msg.MarkAsProcessed()
		afterUpdate := time.Now()

		assert.Equal(t, StatusProcessed, msg.Status)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
		assert.WithinDuration(t, beforeUpdate, *msg.LastAttemptAt, afterUpdate.Sub(beforeUpdate)+time.Millisecond)
	})
}

func TestMessage_MarkAsFailed(t *testing.T) {
	t.Run("SuccessfulMarkAsFailed", func(t *testing.T) {
		initialTime := time.Now().Add(-time.Hour)
		msg := &Message{
			Status:        StatusPending,
			LastAttemptAt: &initialTime,
		}
		time.Sleep(10 * time.Millisecond) // Ensure time changes
		beforeUpdate := time.Now()
		msg.MarkAsFailed()
		afterUpdate := time.Now()

		assert.Equal(t, StatusFailedToPublish, msg.Status)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
		assert.WithinDuration(t, beforeUpdate, *msg.LastAttemptAt, afterUpdate.Sub(beforeUpdate)+time.Millisecond)
	})
}

func TestMessage_GetTransaction(t *testing.T) {
	t.Run("SuccessfulGetTransaction", func(t *testing.T) {
		original := &ledger.Transaction{
			ID:                   uuid.New(),
			Category:             ledger.CategoryAdminBonus,
			Amount:               decimal.RequireFromString("0.34"),
			DestinationAccountID: uuid.New(),
			Reason:               "StandAdminPayment",
			CreatedAt:            time.Now().Truncate(time.Millisecond), // Truncate for consistent comparison
		}
		payload, err := json.Marshal(original)
		require.NoError(t, err)

		msg := &Message{Payload: payload}
		decoded, err := msg.GetTransaction()

		require.NoError(t, err)
		require.NotNil(t, decoded)
		assert.Equal(t, original.ID, decoded.ID)
		assert.Equal(t, original.Category, decoded.Category)
		assert.True(t, original.Amount.Equal(decoded.Amount))
		assert.Nil(t, decoded.SourceAccountID)
		assert.Equal(t, original.DestinationAccountID, decoded.DestinationAccountID)
		assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt), "CreatedAt should match")
	})
}
