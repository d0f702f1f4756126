package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the append-only transaction log. Records are never updated
// or deleted; compensations append new records.
type Repository interface {
	// Create appends a record. Returns ErrDuplicateReference when the
	// reference number collides with an existing record; callers retry with
	// a freshly generated reference.
	Create(ctx context.Context, tx *Transaction) error

	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetByReference(ctx context.Context, reference string) (*Transaction, error)

	// ListByAccount returns records whose primary account matches accountID,
	// newest first: ordered by timestamp descending, ties broken by ID
	// descending.
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates a missing transaction record
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}

// Is matches any ErrTransactionNotFound when the target carries a nil ID
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	return t.TransactionID == uuid.Nil || e.TransactionID == t.TransactionID
}

// ErrDuplicateReference indicates a reference number collision
type ErrDuplicateReference struct {
	Reference string
}

func (e ErrDuplicateReference) Error() string {
	return "transaction with reference already exists: " + e.Reference
}

// Is matches any ErrDuplicateReference when the target carries no reference
func (e ErrDuplicateReference) Is(target error) bool {
	t, ok := target.(ErrDuplicateReference)
	if !ok {
		return false
	}
	return t.Reference == "" || e.Reference == t.Reference
}
