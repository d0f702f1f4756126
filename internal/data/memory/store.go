// Package memory provides in-memory implementations of the domain
// repositories. It backs the ledger engine tests and any deployment that has
// no durable storage attached. A single store-wide mutex serializes
// transactions; ExecuteTx snapshots state and restores it when the supplied
// function fails, giving the same all-or-nothing visibility as the
// PostgreSQL implementation.
package memory

import (
	"context"

	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KOlivier2119/SecureBank/internal/domain/account"
	"github.com/KOlivier2119/SecureBank/internal/domain/outbox"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
)

// Store holds all in-memory state
type Store struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*account.Account
	transactions []*transaction.Transaction
	outbox       []*outbox.Message
	nextOutboxID int64
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]*account.Account),
		nextOutboxID: 1,
	}
}

// ExecuteTx runs fn atomically against the store. On error the state observed
// before fn ran is restored, so partial effects are never visible. The pgx.Tx
// passed to fn is always nil; repositories returned by WithTx operate on the
// already-locked store.
func (s *Store) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.clone()
	if err := fn(nil); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type storeSnapshot struct {
	accounts     map[uuid.UUID]*account.Account
	transactions []*transaction.Transaction
	outbox       []*outbox.Message
	nextOutboxID int64
}

// Repositories never mutate stored records in place (updates replace the
// stored pointer), so copying the containers is enough for rollback.
func (s *Store) clone() storeSnapshot {
	accounts := make(map[uuid.UUID]*account.Account, len(s.accounts))
	for id, acc := range s.accounts {
		accounts[id] = acc
	}
	return storeSnapshot{
		accounts:     accounts,
		transactions: append([]*transaction.Transaction(nil), s.transactions...),
		outbox:       append([]*outbox.Message(nil), s.outbox...),
		nextOutboxID: s.nextOutboxID,
	}
}

func (s *Store) restore(snap storeSnapshot) {
	s.accounts = snap.accounts
	s.transactions = snap.transactions
	s.outbox = snap.outbox
	s.nextOutboxID = snap.nextOutboxID
}

// Accounts returns the account repository backed by this store
func (s *Store) Accounts() account.Repository {
	return &AccountRepository{store: s}
}

// Transactions returns the transaction log backed by this store
func (s *Store) Transactions() transaction.Repository {
	return &TransactionRepository{store: s}
}

// Outbox returns the outbox repository backed by this store
func (s *Store) Outbox() outbox.Repository {
	return &OutboxRepository{store: s}
}
