package handler

import (
	"time"

	"github.com/KOlivier2119/SecureBank/internal/domain/account"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
)

// CreateAccountRequest represents a request to open a new account. The owner
// is the acting user; only the kind is chosen by the caller.
type CreateAccountRequest struct {
	Kind string `json:"kind" binding:"required,oneof=CHECKING SAVINGS CREDIT"`
}

// DepositRequest represents a request to credit an account from outside funds
type DepositRequest struct {
	AccountID    string `json:"account_id" binding:"required,uuid"`
	Amount       string `json:"amount" binding:"required"`
	Description  string `json:"description,omitempty"`
	MerchantName string `json:"merchant_name,omitempty"`
}

// WithdrawRequest represents a request to debit an account to outside funds
type WithdrawRequest struct {
	AccountID    string `json:"account_id" binding:"required,uuid"`
	Amount       string `json:"amount" binding:"required"`
	Description  string `json:"description,omitempty"`
	MerchantName string `json:"merchant_name,omitempty"`
}

// TransferRequest represents a request to move funds between two accounts
type TransferRequest struct {
	SourceAccountID      string `json:"source_account_id" binding:"required,uuid"`
	DestinationAccountID string `json:"destination_account_id" binding:"required,uuid"`
	Amount               string `json:"amount" binding:"required"`
	Description          string `json:"description,omitempty"`
}

// PaymentRequest represents a request to pay a merchant from an account
type PaymentRequest struct {
	AccountID    string `json:"account_id" binding:"required,uuid"`
	Amount       string `json:"amount" binding:"required"`
	MerchantName string `json:"merchant_name" binding:"required"`
	Category     string `json:"category,omitempty"`
	Description  string `json:"description,omitempty"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID            string `json:"id"`
	AccountNumber string `json:"account_number"`
	OwnerID       string `json:"owner_id"`
	Kind          string `json:"kind"`
	Balance       string `json:"balance"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// TransactionResponse represents a transaction record in API responses
type TransactionResponse struct {
	ID                   string `json:"id"`
	ReferenceNumber      string `json:"reference_number"`
	Type                 string `json:"type"`
	Amount               string `json:"amount"`
	Status               string `json:"status"`
	Description          string `json:"description,omitempty"`
	Category             string `json:"category,omitempty"`
	MerchantName         string `json:"merchant_name,omitempty"`
	AccountID            string `json:"account_id"`
	DestinationAccountID string `json:"destination_account_id,omitempty"`
	Timestamp            string `json:"timestamp"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:            acc.ID.String(),
		AccountNumber: acc.Number,
		OwnerID:       acc.OwnerID.String(),
		Kind:          string(acc.Kind),
		Balance:       acc.Balance.String(),
		Active:        acc.Active,
		CreatedAt:     acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     acc.UpdatedAt.Format(time.RFC3339),
	}
}

func mapTransactionToResponse(record *transaction.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:              record.ID.String(),
		ReferenceNumber: record.Reference,
		Type:            string(record.Type),
		Amount:          record.Amount.String(),
		Status:          string(record.Status),
		Description:     record.Description,
		Category:        record.Category,
		MerchantName:    record.MerchantName,
		AccountID:       record.AccountID.String(),
		Timestamp:       record.Timestamp.Format(time.RFC3339),
	}

	if record.DestinationAccountID != nil {
		response.DestinationAccountID = record.DestinationAccountID.String()
	}

	return response
}
