package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByNumber(ctx context.Context, number string) (*Account, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Account, error)

	// Update persists the full account state using optimistic locking;
	// returns ErrConcurrentModification when the stored version has moved on
	Update(ctx context.Context, account *Account) error

	// LockForUpdate acquires a pessimistic per-account lock inside the
	// surrounding transaction and returns the current state. Callers that
	// touch several accounts must lock them in ascending ID order.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)

	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Account, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	AccountID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for account: " + e.AccountID.String()
}

// Is matches any ErrConcurrentModification when the target carries a nil ID
func (e ErrConcurrentModification) Is(target error) bool {
	t, ok := target.(ErrConcurrentModification)
	if !ok {
		return false
	}
	return t.AccountID == uuid.Nil || e.AccountID == t.AccountID
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is matches any ErrAccountNotFound when the target carries a nil ID
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.AccountID == uuid.Nil || e.AccountID == t.AccountID
}

// ErrAccountInactive indicates a movement against a deactivated account
type ErrAccountInactive struct {
	AccountID uuid.UUID
}

func (e ErrAccountInactive) Error() string {
	return "account is inactive: " + e.AccountID.String()
}

// Is matches any ErrAccountInactive when the target carries a nil ID
func (e ErrAccountInactive) Is(target error) bool {
	t, ok := target.(ErrAccountInactive)
	if !ok {
		return false
	}
	return t.AccountID == uuid.Nil || e.AccountID == t.AccountID
}

// ErrDuplicateNumber indicates account number uniqueness violation
type ErrDuplicateNumber struct {
	Number string
}

func (e ErrDuplicateNumber) Error() string {
	return "account with number already exists: " + e.Number
}

// Is matches any ErrDuplicateNumber when the target carries no number
func (e ErrDuplicateNumber) Is(target error) bool {
	t, ok := target.(ErrDuplicateNumber)
	if !ok {
		return false
	}
	return t.Number == "" || e.Number == t.Number
}
