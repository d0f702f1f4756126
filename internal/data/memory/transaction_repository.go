package memory

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
)

// TransactionRepository implements transaction.Repository against a Store
type TransactionRepository struct {
	store *Store
	inTx  bool
}

func (r *TransactionRepository) WithTx(pgx.Tx) transaction.Repository {
	return &TransactionRepository{store: r.store, inTx: true}
}

func (r *TransactionRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *TransactionRepository) Create(_ context.Context, tx *transaction.Transaction) error {
	defer r.lock()()

	for _, existing := range r.store.transactions {
		if existing.Reference == tx.Reference {
			return transaction.ErrDuplicateReference{Reference: tx.Reference}
		}
	}

	stored := *tx
	r.store.transactions = append(r.store.transactions, &stored)
	return nil
}

func (r *TransactionRepository) GetByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	defer r.lock()()

	for _, tx := range r.store.transactions {
		if tx.ID == id {
			copied := *tx
			return &copied, nil
		}
	}
	return nil, transaction.ErrTransactionNotFound{TransactionID: id}
}

func (r *TransactionRepository) GetByReference(_ context.Context, reference string) (*transaction.Transaction, error) {
	defer r.lock()()

	for _, tx := range r.store.transactions {
		if tx.Reference == reference {
			copied := *tx
			return &copied, nil
		}
	}
	return nil, transaction.ErrTransactionNotFound{}
}

func (r *TransactionRepository) ListByAccount(_ context.Context, accountID uuid.UUID, limit, offset int) ([]*transaction.Transaction, error) {
	defer r.lock()()

	var matched []*transaction.Transaction
	for _, tx := range r.store.transactions {
		if tx.AccountID == accountID {
			copied := *tx
			matched = append(matched, &copied)
		}
	}

	// Newest first; ties broken by ID descending for a deterministic order
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return bytes.Compare(matched[i].ID[:], matched[j].ID[:]) > 0
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *TransactionRepository) CountByAccount(_ context.Context, accountID uuid.UUID) (int64, error) {
	defer r.lock()()

	var count int64
	for _, tx := range r.store.transactions {
		if tx.AccountID == accountID {
			count++
		}
	}
	return count, nil
}
