package ledger

import (
	"errors"
	"fmt"

	"context"

	"github.com/google/uuid"

	"github.com/KOlivier2119/SecureBank/internal/domain/account"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
)

// CreateAccount opens a zero-balance account of the given kind for the
// actor. The account number is regenerated on collision.
func (s *Service) CreateAccount(ctx context.Context, actorID uuid.UUID, kind account.Kind) (*account.Account, error) {
	var acc *account.Account
	var err error
	for attempt := 0; attempt < maxReferenceRetries; attempt++ {
		var number string
		number, err = s.refs.AccountNumber()
		if err != nil {
			return nil, err
		}

		acc, err = account.New(actorID, kind, number)
		if err != nil {
			return nil, err
		}

		err = s.accounts.Create(ctx, acc)
		if err == nil {
			s.logger.Info("Account created",
				"account_id", acc.ID.String(),
				"account_number", acc.Number,
				"kind", string(kind),
			)
			return acc, nil
		}

		var dup account.ErrDuplicateNumber
		if !errors.As(err, &dup) {
			return nil, err
		}
		s.logger.Warn("Account number collision, regenerating", "account_number", number, "attempt", attempt+1)
	}
	return nil, fmt.Errorf("failed to create account after %d number attempts: %w", maxReferenceRetries, err)
}

// SetAccountActive toggles the active flag. This is an administrative
// pass-through: privilege checks belong to the caller.
func (s *Service) SetAccountActive(ctx context.Context, accountID uuid.UUID, active bool) (*account.Account, error) {
	acc, err := s.accounts.SetActive(ctx, accountID, active)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Account activity toggled", "account_id", accountID.String(), "active", active)
	return acc, nil
}

// GetAccount returns the account if the actor owns it
func (s *Service) GetAccount(ctx context.Context, actorID, accountID uuid.UUID) (*account.Account, error) {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !acc.OwnedBy(actorID) {
		return nil, ErrForbidden{AccountID: accountID}
	}
	return acc, nil
}

// ListAccounts returns all accounts owned by the actor
func (s *Service) ListAccounts(ctx context.Context, actorID uuid.UUID) ([]*account.Account, error) {
	return s.accounts.ListByOwner(ctx, actorID)
}

// ListTransactions returns a page of the account's history, newest first,
// along with the total record count. The actor must own the account.
func (s *Service) ListTransactions(ctx context.Context, actorID, accountID uuid.UUID, limit, offset int) ([]*transaction.Transaction, int64, error) {
	if _, err := s.GetAccount(ctx, actorID, accountID); err != nil {
		return nil, 0, err
	}

	records, err := s.transactions.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transactions.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// GetTransaction returns a single record if the actor owns its primary
// account.
func (s *Service) GetTransaction(ctx context.Context, actorID, transactionID uuid.UUID) (*transaction.Transaction, error) {
	record, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetAccount(ctx, actorID, record.AccountID); err != nil {
		return nil, err
	}
	return record, nil
}
