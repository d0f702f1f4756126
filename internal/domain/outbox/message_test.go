package outbox

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOlivier2119/SecureBank/internal/domain/money"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
)

func TestNewMessage(t *testing.T) {
	accountID := uuid.New()
	tx := transaction.New(accountID, "TXN4K7Q2ZB81XCD", transaction.TypeDeposit, money.MustParse("50.00"))

	msg, err := NewMessage(tx)
	require.NoError(t, err)

	assert.Equal(t, tx.ID, msg.TransactionID)
	assert.Equal(t, accountID, msg.AccountID)
	assert.Equal(t, StatusPending, msg.Status)
	assert.Zero(t, msg.Attempts)
	assert.NotEmpty(t, msg.Payload)
	assert.Nil(t, msg.LastAttemptAt)
}

func TestMessage_GetTransaction(t *testing.T) {
	tx := transaction.New(uuid.New(), "TXN4K7Q2ZB81XCD", transaction.TypeWithdrawal, money.MustParse("25.00").Neg())
	tx.Category = "Withdrawal"

	msg, err := NewMessage(tx)
	require.NoError(t, err)

	got, err := msg.GetTransaction()
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, tx.Reference, got.Reference)
	assert.Equal(t, transaction.TypeWithdrawal, got.Type)
	assert.Equal(t, "-25.00", got.Amount.String())
	assert.Equal(t, "Withdrawal", got.Category)

	t.Run("MalformedPayload", func(t *testing.T) {
		msg.Payload = []byte("{not json")
		_, err := msg.GetTransaction()
		assert.Error(t, err)
	})
}

func TestMessage_StateTransitions(t *testing.T) {
	tx := transaction.New(uuid.New(), "TXNAAAABBBBCCCC", transaction.TypeDeposit, money.MustParse("5.00"))
	msg, err := NewMessage(tx)
	require.NoError(t, err)

	msg.IncrementAttempts()
	assert.Equal(t, 1, msg.Attempts)
	require.NotNil(t, msg.LastAttemptAt)

	msg.MarkAsProcessed()
	assert.Equal(t, StatusProcessed, msg.Status)

	msg.MarkAsFailed()
	assert.Equal(t, StatusFailedToPublish, msg.Status)
}
