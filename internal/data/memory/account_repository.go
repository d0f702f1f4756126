package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KOlivier2119/SecureBank/internal/domain/account"
)

// AccountRepository implements account.Repository against a Store. The base
// repository locks the store per call; the variant returned by WithTx skips
// locking because ExecuteTx already holds the store mutex.
type AccountRepository struct {
	store *Store
	inTx  bool
}

func (r *AccountRepository) WithTx(pgx.Tx) account.Repository {
	return &AccountRepository{store: r.store, inTx: true}
}

func (r *AccountRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *AccountRepository) Create(_ context.Context, acc *account.Account) error {
	defer r.lock()()

	for _, existing := range r.store.accounts {
		if existing.Number == acc.Number {
			return account.ErrDuplicateNumber{Number: acc.Number}
		}
	}

	stored := *acc
	r.store.accounts[acc.ID] = &stored
	return nil
}

func (r *AccountRepository) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	defer r.lock()()
	return r.getLocked(id)
}

func (r *AccountRepository) GetByNumber(_ context.Context, number string) (*account.Account, error) {
	defer r.lock()()

	for _, acc := range r.store.accounts {
		if acc.Number == number {
			copied := *acc
			return &copied, nil
		}
	}
	return nil, account.ErrAccountNotFound{}
}

func (r *AccountRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*account.Account, error) {
	defer r.lock()()

	var accounts []*account.Account
	for _, acc := range r.store.accounts {
		if acc.OwnerID == ownerID {
			copied := *acc
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

// LockForUpdate returns the current state. The store mutex held by ExecuteTx
// already serializes concurrent transactions, so no row lock is needed.
func (r *AccountRepository) LockForUpdate(_ context.Context, id uuid.UUID) (*account.Account, error) {
	defer r.lock()()
	return r.getLocked(id)
}

func (r *AccountRepository) Update(_ context.Context, acc *account.Account) error {
	defer r.lock()()

	current, ok := r.store.accounts[acc.ID]
	if !ok {
		return account.ErrAccountNotFound{AccountID: acc.ID}
	}
	if current.Version != acc.Version-1 {
		return account.ErrConcurrentModification{AccountID: acc.ID}
	}

	stored := *acc
	r.store.accounts[acc.ID] = &stored
	return nil
}

func (r *AccountRepository) SetActive(_ context.Context, id uuid.UUID, active bool) (*account.Account, error) {
	defer r.lock()()

	current, ok := r.store.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound{AccountID: id}
	}

	updated := *current
	updated.Active = active
	updated.Version++
	r.store.accounts[id] = &updated

	copied := updated
	return &copied, nil
}

func (r *AccountRepository) getLocked(id uuid.UUID) (*account.Account, error) {
	acc, ok := r.store.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound{AccountID: id}
	}
	copied := *acc
	return &copied, nil
}
