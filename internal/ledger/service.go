// Package ledger implements the invariant-preserving state transition logic
// for money movement: deposits, withdrawals, transfers and payments, plus the
// account lifecycle operations the API layer passes through. Every movement
// executes as a single database transaction; either all balance mutations,
// transaction records and outbox events commit, or none become visible.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KOlivier2119/SecureBank/internal/domain/account"
	"github.com/KOlivier2119/SecureBank/internal/domain/money"
	"github.com/KOlivier2119/SecureBank/internal/domain/outbox"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
	"github.com/KOlivier2119/SecureBank/internal/refgen"
)

const (
	// maxReferenceRetries bounds regeneration attempts on reference or
	// account-number collisions before the conflict surfaces to the caller
	maxReferenceRetries = 3

	// maxConflictRetries bounds whole-operation retries after an optimistic
	// lock conflict; the operation re-reads and revalidates from current state
	maxConflictRetries = 3

	categoryDeposit    = "Deposit"
	categoryWithdrawal = "Withdrawal"
	categoryTransfer   = "Transfer"
	categoryPayment    = "Payment"

	merchantInternalTransfer = "Internal Transfer"
)

// TxRunner executes a function within a database transaction, rolling back
// on error. *persistence.PostgresDB and *memory.Store both satisfy it.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Policy controls the transfer edge cases the source system left unguarded
type Policy struct {
	// AllowSelfTransfer permits transfers where source equals destination.
	// Disabled by default: the movement is a no-op that still burns two
	// transaction records.
	AllowSelfTransfer bool

	// AllowInactiveDestination permits transfers into deactivated accounts.
	// Disabled by default: inactive accounts reject movement.
	AllowInactiveDestination bool
}

// Service is the ledger engine. All operations take the acting user's
// identity explicitly; nothing is read from ambient state.
type Service struct {
	db           TxRunner
	accounts     account.Repository
	transactions transaction.Repository
	outbox       outbox.Repository
	refs         refgen.Generator
	policy       Policy
	logger       *slog.Logger
}

// NewService creates a ledger engine over the given storage collaborators
func NewService(
	logger *slog.Logger,
	db TxRunner,
	accounts account.Repository,
	transactions transaction.Repository,
	outboxRepo outbox.Repository,
	refs refgen.Generator,
	policy Policy,
) *Service {
	return &Service{
		db:           db,
		accounts:     accounts,
		transactions: transactions,
		outbox:       outboxRepo,
		refs:         refs,
		policy:       policy,
		logger:       logger,
	}
}

// Deposit credits the amount to the actor's account and appends a DEPOSIT
// record, atomically.
func (s *Service) Deposit(ctx context.Context, actorID uuid.UUID, req DepositRequest) (*transaction.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, money.ErrInvalidAmount
	}

	var result *transaction.Transaction
	err := s.withConflictRetry(ctx, func() error {
		return s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
			accounts := s.accounts.WithTx(tx)

			acc, err := accounts.LockForUpdate(ctx, req.AccountID)
			if err != nil {
				return err
			}
			if !acc.OwnedBy(actorID) {
				return ErrForbidden{AccountID: acc.ID}
			}
			if !acc.Active {
				return account.ErrAccountInactive{AccountID: acc.ID}
			}

			if err := acc.Credit(req.Amount); err != nil {
				return err
			}
			if err := accounts.Update(ctx, acc); err != nil {
				return err
			}

			result, err = s.appendRecord(ctx, tx, recordSpec{
				accountID:   acc.ID,
				txType:      transaction.TypeDeposit,
				amount:      req.Amount,
				description: req.Description,
				category:    categoryDeposit,
				merchant:    req.MerchantName,
			})
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit completed",
		"transaction_id", result.ID.String(),
		"account_id", req.AccountID.String(),
		"amount", req.Amount.String(),
	)
	return result, nil
}

// Withdraw debits the amount from the actor's account and appends a
// WITHDRAWAL record with a negative amount, atomically. Fails with
// account.ErrInsufficientFunds before any mutation when the balance does not
// cover the amount.
func (s *Service) Withdraw(ctx context.Context, actorID uuid.UUID, req WithdrawRequest) (*transaction.Transaction, error) {
	return s.debitOperation(ctx, actorID, debitSpec{
		accountID:   req.AccountID,
		amount:      req.Amount,
		txType:      transaction.TypeWithdrawal,
		description: req.Description,
		category:    categoryWithdrawal,
		merchant:    req.MerchantName,
	})
}

// Pay debits the amount from the actor's account and appends a PAYMENT
// record tagged with merchant and category metadata, atomically.
func (s *Service) Pay(ctx context.Context, actorID uuid.UUID, req PaymentRequest) (*transaction.Transaction, error) {
	category := req.Category
	if category == "" {
		category = categoryPayment
	}
	return s.debitOperation(ctx, actorID, debitSpec{
		accountID:   req.AccountID,
		amount:      req.Amount,
		txType:      transaction.TypePayment,
		description: req.Description,
		category:    category,
		merchant:    req.MerchantName,
	})
}

type debitSpec struct {
	accountID   uuid.UUID
	amount      money.Money
	txType      transaction.Type
	description string
	category    string
	merchant    string
}

func (s *Service) debitOperation(ctx context.Context, actorID uuid.UUID, spec debitSpec) (*transaction.Transaction, error) {
	if !spec.amount.IsPositive() {
		return nil, money.ErrInvalidAmount
	}

	var result *transaction.Transaction
	err := s.withConflictRetry(ctx, func() error {
		return s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
			accounts := s.accounts.WithTx(tx)

			acc, err := accounts.LockForUpdate(ctx, spec.accountID)
			if err != nil {
				return err
			}
			if !acc.OwnedBy(actorID) {
				return ErrForbidden{AccountID: acc.ID}
			}
			if !acc.Active {
				return account.ErrAccountInactive{AccountID: acc.ID}
			}

			if err := acc.Debit(spec.amount); err != nil {
				return err
			}
			if err := accounts.Update(ctx, acc); err != nil {
				return err
			}

			result, err = s.appendRecord(ctx, tx, recordSpec{
				accountID:   acc.ID,
				txType:      spec.txType,
				amount:      spec.amount.Neg(),
				description: spec.description,
				category:    spec.category,
				merchant:    spec.merchant,
			})
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Debit completed",
		"transaction_id", result.ID.String(),
		"account_id", spec.accountID.String(),
		"type", string(spec.txType),
		"amount", spec.amount.String(),
	)
	return result, nil
}

// Transfer moves the amount between two accounts as one atomic unit: both
// balance writes and both transaction records (TRANSFER_OUT on the source,
// TRANSFER_IN on the destination) commit together or not at all. The actor
// must own the source; the destination may belong to anyone. Accounts are
// locked in ascending ID order so opposite-direction transfers between the
// same pair cannot deadlock. The TRANSFER_OUT record is returned.
func (s *Service) Transfer(ctx context.Context, actorID uuid.UUID, req TransferRequest) (*transaction.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, money.ErrInvalidAmount
	}
	if req.SourceAccountID == req.DestinationAccountID && !s.policy.AllowSelfTransfer {
		return nil, ErrSelfTransfer
	}

	var outRecord *transaction.Transaction
	err := s.withConflictRetry(ctx, func() error {
		return s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
			accounts := s.accounts.WithTx(tx)

			src, dst, err := s.lockPair(ctx, accounts, req.SourceAccountID, req.DestinationAccountID)
			if err != nil {
				return err
			}

			if !src.OwnedBy(actorID) {
				return ErrForbidden{AccountID: src.ID}
			}
			if !src.Active {
				return account.ErrAccountInactive{AccountID: src.ID}
			}
			if !dst.Active && !s.policy.AllowInactiveDestination {
				return account.ErrAccountInactive{AccountID: dst.ID}
			}

			if src == dst {
				// Self-transfer under the permissive policy: one account,
				// one lock, net zero balance change, two records. The
				// funds check still applies; the balance is left untouched.
				if !src.CanDebit(req.Amount) {
					return account.ErrInsufficientFunds
				}
			} else {
				if err := src.Debit(req.Amount); err != nil {
					return err
				}
				if err := dst.Credit(req.Amount); err != nil {
					return err
				}
				if err := accounts.Update(ctx, src); err != nil {
					return err
				}
				if err := accounts.Update(ctx, dst); err != nil {
					return err
				}
			}

			outRecord, err = s.appendRecord(ctx, tx, recordSpec{
				accountID:     src.ID,
				destinationID: &dst.ID,
				txType:        transaction.TypeTransferOut,
				amount:        req.Amount.Neg(),
				description:   req.Description,
				category:      categoryTransfer,
				merchant:      merchantInternalTransfer,
			})
			if err != nil {
				return err
			}

			_, err = s.appendRecord(ctx, tx, recordSpec{
				accountID:     dst.ID,
				destinationID: &src.ID,
				txType:        transaction.TypeTransferIn,
				amount:        req.Amount,
				description:   req.Description,
				category:      categoryTransfer,
				merchant:      merchantInternalTransfer,
			})
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer completed",
		"transaction_id", outRecord.ID.String(),
		"source_account_id", req.SourceAccountID.String(),
		"destination_account_id", req.DestinationAccountID.String(),
		"amount", req.Amount.String(),
	)
	return outRecord, nil
}

// lockPair acquires both accounts in ascending ID order and hands back the
// locked states mapped to their source/destination roles. For a self-transfer
// the same state is returned twice.
func (s *Service) lockPair(ctx context.Context, accounts account.Repository, sourceID, destinationID uuid.UUID) (src, dst *account.Account, err error) {
	if sourceID == destinationID {
		acc, err := accounts.LockForUpdate(ctx, sourceID)
		if err != nil {
			return nil, nil, err
		}
		return acc, acc, nil
	}

	first, second := sourceID, destinationID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}

	firstAcc, err := accounts.LockForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	secondAcc, err := accounts.LockForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}

	if firstAcc.ID == sourceID {
		return firstAcc, secondAcc, nil
	}
	return secondAcc, firstAcc, nil
}

type recordSpec struct {
	accountID     uuid.UUID
	destinationID *uuid.UUID
	txType        transaction.Type
	amount        money.Money
	description   string
	category      string
	merchant      string
}

// appendRecord creates an immutable transaction record plus its outbox event
// inside the surrounding database transaction, regenerating the reference
// number on collision.
func (s *Service) appendRecord(ctx context.Context, tx pgx.Tx, spec recordSpec) (*transaction.Transaction, error) {
	transactions := s.transactions.WithTx(tx)

	var record *transaction.Transaction
	var err error
	for attempt := 0; attempt < maxReferenceRetries; attempt++ {
		var reference string
		reference, err = s.refs.TransactionReference()
		if err != nil {
			return nil, err
		}

		record = transaction.New(spec.accountID, reference, spec.txType, spec.amount)
		record.Description = spec.description
		record.Category = spec.category
		record.MerchantName = spec.merchant
		record.DestinationAccountID = spec.destinationID

		err = transactions.Create(ctx, record)
		if err == nil {
			break
		}
		if !errors.Is(err, transaction.ErrDuplicateReference{}) {
			return nil, err
		}
		s.logger.Warn("Reference number collision, regenerating",
			"reference", reference,
			"attempt", attempt+1,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append transaction record after %d reference attempts: %w", maxReferenceRetries, err)
	}

	message, err := outbox.NewMessage(record)
	if err != nil {
		return nil, fmt.Errorf("failed to build outbox message: %w", err)
	}
	if err := s.outbox.WithTx(tx).Create(ctx, message); err != nil {
		return nil, err
	}

	return record, nil
}

// withConflictRetry re-runs op after optimistic lock conflicts. The
// operation revalidates from current state on every attempt, so re-running
// is safe; after the retry budget the conflict surfaces as-is.
func (s *Service) withConflictRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err = op()
		if err == nil || !errors.Is(err, account.ErrConcurrentModification{}) {
			return err
		}
		s.logger.Warn("Concurrent modification, retrying operation", "attempt", attempt+1)
	}
	return err
}
