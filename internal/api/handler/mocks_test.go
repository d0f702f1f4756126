package handler

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/KOlivier2119/SecureBank/internal/api/middleware"
	"github.com/KOlivier2119/SecureBank/internal/domain/account"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
	"github.com/KOlivier2119/SecureBank/internal/ledger"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateAccount(ctx context.Context, actorID uuid.UUID, kind account.Kind) (*account.Account, error) {
	args := m.Called(ctx, actorID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockLedgerService) SetAccountActive(ctx context.Context, accountID uuid.UUID, active bool) (*account.Account, error) {
	args := m.Called(ctx, accountID, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockLedgerService) GetAccount(ctx context.Context, actorID, accountID uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, actorID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockLedgerService) ListAccounts(ctx context.Context, actorID uuid.UUID) ([]*account.Account, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockLedgerService) Deposit(ctx context.Context, actorID uuid.UUID, req ledger.DepositRequest) (*transaction.Transaction, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, actorID uuid.UUID, req ledger.WithdrawRequest) (*transaction.Transaction, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, actorID uuid.UUID, req ledger.TransferRequest) (*transaction.Transaction, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockLedgerService) Pay(ctx context.Context, actorID uuid.UUID, req ledger.PaymentRequest) (*transaction.Transaction, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, actorID, accountID uuid.UUID, limit, offset int) ([]*transaction.Transaction, int64, error) {
	args := m.Called(ctx, actorID, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*transaction.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) GetTransaction(ctx context.Context, actorID, transactionID uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, actorID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// setupTestRouter returns a router with the actor middleware installed, the
// same way the production router mounts handlers.
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Actor())
	return r
}
