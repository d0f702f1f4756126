package archiver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KOlivier2119/SecureBank/internal/domain/money"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
)

type MockArchivingService struct {
	mock.Mock
}

func (m *MockArchivingService) Archive(ctx context.Context, record *transaction.Transaction) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	args := m.Called(ctx, key, originalMessageValue, reason)
	return args.Error(0)
}

func (m *MockDeadLetterPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestEventHandler_HandleMessage(t *testing.T) {
	ctx := context.Background()

	record := transaction.New(uuid.New(), "TXN4K7Q2ZB81XCD", transaction.TypeWithdrawal, money.MustParse("10.00").Neg())
	value, err := json.Marshal(record)
	require.NoError(t, err)
	key := []byte(record.AccountID.String())

	t.Run("Success", func(t *testing.T) {
		archiving := new(MockArchivingService)
		handler := NewEventHandler(testLogger(), archiving, nil)

		archiving.On("Archive", ctx, mock.MatchedBy(func(r *transaction.Transaction) bool {
			return r.ID == record.ID && r.Type == record.Type
		})).Return(nil).Once()

		err := handler.HandleMessage(ctx, key, value)
		require.NoError(t, err)
		archiving.AssertExpectations(t)
	})

	t.Run("ArchiveFailureRetriesMessage", func(t *testing.T) {
		archiving := new(MockArchivingService)
		handler := NewEventHandler(testLogger(), archiving, nil)

		storeErr := errors.New("mongo down")
		archiving.On("Archive", ctx, mock.Anything).Return(storeErr).Once()

		err := handler.HandleMessage(ctx, key, value)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("PoisonMessageGoesToDLQ", func(t *testing.T) {
		archiving := new(MockArchivingService)
		dlq := new(MockDeadLetterPublisher)
		handler := NewEventHandler(testLogger(), archiving, dlq)

		poison := []byte("{not json")
		dlq.On("PublishToDLQ", ctx, string(key), poison, mock.AnythingOfType("string")).Return(nil).Once()

		err := handler.HandleMessage(ctx, key, poison)
		assert.NoError(t, err, "a parked poison message must commit its offset")
		archiving.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything)
		dlq.AssertExpectations(t)
	})

	t.Run("PoisonMessageWithoutDLQ", func(t *testing.T) {
		archiving := new(MockArchivingService)
		handler := NewEventHandler(testLogger(), archiving, nil)

		err := handler.HandleMessage(ctx, key, []byte("{not json"))
		assert.Error(t, err, "without a DLQ the poison message stays uncommitted")
	})

	t.Run("DLQFailureKeepsMessage", func(t *testing.T) {
		archiving := new(MockArchivingService)
		dlq := new(MockDeadLetterPublisher)
		handler := NewEventHandler(testLogger(), archiving, dlq)

		poison := []byte("{not json")
		dlq.On("PublishToDLQ", ctx, string(key), poison, mock.AnythingOfType("string")).
			Return(errors.New("dlq down")).Once()

		err := handler.HandleMessage(ctx, key, poison)
		assert.Error(t, err)
	})
}
