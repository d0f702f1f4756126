package account

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/KOlivier2119/SecureBank/internal/domain/money"
)

// Common errors
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidKind       = errors.New("account kind must be CHECKING, SAVINGS or CREDIT")
)

// Kind classifies an account. Fixed at creation.
type Kind string

const (
	KindChecking Kind = "CHECKING"
	KindSavings  Kind = "SAVINGS"
	KindCredit   Kind = "CREDIT"
)

// ParseKind validates a display string as an account Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindChecking, KindSavings, KindCredit:
		return Kind(s), nil
	default:
		return "", ErrInvalidKind
	}
}

// Account represents a user-held bank account. Balance is mutated only by
// the ledger engine through the repository; it always equals the sum of the
// signed amounts of COMPLETED transactions referencing the account.
type Account struct {
	ID        uuid.UUID   `json:"id"`
	Number    string      `json:"account_number"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	Kind      Kind        `json:"kind"`
	Balance   money.Money `json:"balance"`
	Active    bool        `json:"active"`
	Version   int         `json:"version"` // For optimistic locking
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// New creates an account for the given owner with a zero balance
func New(ownerID uuid.UUID, kind Kind, number string) (*Account, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if ownerID == uuid.Nil {
		return nil, errors.New("owner id cannot be empty")
	}

	now := time.Now()
	return &Account{
		ID:        uuid.New(),
		Number:    number,
		OwnerID:   ownerID,
		Kind:      kind,
		Balance:   money.Zero(),
		Active:    true,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// OwnedBy reports whether the account belongs to the given actor
func (a *Account) OwnedBy(actorID uuid.UUID) bool {
	return a.OwnerID == actorID
}

// Credit adds the amount to the balance. Activity policy is enforced by the
// ledger engine, not here.
func (a *Account) Credit(amount money.Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

// Debit subtracts the amount from the balance. The balance never goes below
// zero; a debit exceeding the balance fails with ErrInsufficientFunds.
func (a *Account) Debit(amount money.Money) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !a.Balance.GreaterOrEqual(amount) {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = time.Now()
	a.Version++
	return nil
}

// CanDebit checks whether the account has sufficient funds
func (a *Account) CanDebit(amount money.Money) bool {
	return a.Balance.GreaterOrEqual(amount)
}
