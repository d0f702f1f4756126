package ledger

import (
	"github.com/google/uuid"

	"github.com/KOlivier2119/SecureBank/internal/domain/money"
)

// DepositRequest describes funds entering an account from outside the system
type DepositRequest struct {
	AccountID    uuid.UUID
	Amount       money.Money
	Description  string
	MerchantName string
}

// WithdrawRequest describes funds leaving an account to outside the system
type WithdrawRequest struct {
	AccountID    uuid.UUID
	Amount       money.Money
	Description  string
	MerchantName string
}

// TransferRequest describes an internal movement between two accounts
type TransferRequest struct {
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               money.Money
	Description          string
}

// PaymentRequest describes a merchant payment debited from an account
type PaymentRequest struct {
	AccountID    uuid.UUID
	Amount       money.Money
	MerchantName string
	Category     string
	Description  string
}
