package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/KOlivier2119/SecureBank/internal/domain/money"
)

// Type defines the movement a transaction records
type Type string

const (
	TypeDeposit     Type = "DEPOSIT"
	TypeWithdrawal  Type = "WITHDRAWAL"
	TypeTransferOut Type = "TRANSFER_OUT"
	TypeTransferIn  Type = "TRANSFER_IN"
	TypePayment     Type = "PAYMENT"
)

// Status defines transaction settlement states. The synchronous ledger paths
// only ever produce COMPLETED; the remaining states are reserved for
// asynchronous settlement and compensating reversals.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusReversed  Status = "REVERSED"
)

// Transaction is an immutable audit record of a single balance delta.
// Amount is signed from the primary account's perspective: positive for
// funds entering, negative for funds leaving. A transfer produces two
// records, one per leg, each pointing at the counter-account through
// DestinationAccountID.
type Transaction struct {
	ID                   uuid.UUID   `json:"id" bson:"id"`
	Reference            string      `json:"reference_number" bson:"reference_number"`
	Type                 Type        `json:"type" bson:"type"`
	Amount               money.Money `json:"amount" bson:"amount"`
	Status               Status      `json:"status" bson:"status"`
	Description          string      `json:"description,omitempty" bson:"description,omitempty"`
	Category             string      `json:"category,omitempty" bson:"category,omitempty"`
	MerchantName         string      `json:"merchant_name,omitempty" bson:"merchant_name,omitempty"`
	AccountID            uuid.UUID   `json:"account_id" bson:"account_id"`
	DestinationAccountID *uuid.UUID  `json:"destination_account_id,omitempty" bson:"destination_account_id,omitempty"`
	Timestamp            time.Time   `json:"timestamp" bson:"timestamp"`
}

// New creates a COMPLETED transaction record for the given account
func New(accountID uuid.UUID, reference string, txType Type, amount money.Money) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		Reference: reference,
		Type:      txType,
		Amount:    amount,
		Status:    StatusCompleted,
		AccountID: accountID,
		Timestamp: time.Now(),
	}
}

// IsDebit reports whether the record represents funds leaving the account
func (t *Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}
