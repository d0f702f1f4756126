package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/KOlivier2119/SecureBank/internal/domain/account"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
	"github.com/KOlivier2119/SecureBank/internal/ledger"
)

// LedgerService is the engine surface the HTTP layer consumes.
// Satisfied by *ledger.Service.
type LedgerService interface {
	CreateAccount(ctx context.Context, actorID uuid.UUID, kind account.Kind) (*account.Account, error)
	SetAccountActive(ctx context.Context, accountID uuid.UUID, active bool) (*account.Account, error)
	GetAccount(ctx context.Context, actorID, accountID uuid.UUID) (*account.Account, error)
	ListAccounts(ctx context.Context, actorID uuid.UUID) ([]*account.Account, error)

	Deposit(ctx context.Context, actorID uuid.UUID, req ledger.DepositRequest) (*transaction.Transaction, error)
	Withdraw(ctx context.Context, actorID uuid.UUID, req ledger.WithdrawRequest) (*transaction.Transaction, error)
	Transfer(ctx context.Context, actorID uuid.UUID, req ledger.TransferRequest) (*transaction.Transaction, error)
	Pay(ctx context.Context, actorID uuid.UUID, req ledger.PaymentRequest) (*transaction.Transaction, error)

	ListTransactions(ctx context.Context, actorID, accountID uuid.UUID, limit, offset int) ([]*transaction.Transaction, int64, error)
	GetTransaction(ctx context.Context, actorID, transactionID uuid.UUID) (*transaction.Transaction, error)
}
