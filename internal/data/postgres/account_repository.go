// Package postgres implements the domain repositories on PostgreSQL, the
// authoritative store for accounts and the transaction log.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/KOlivier2119/SecureBank/internal/domain/account"
	"github.com/KOlivier2119/SecureBank/internal/domain/money"
	"github.com/KOlivier2119/SecureBank/internal/platform/persistence"
)

// Balances are stored as NUMERIC and moved across the wire as text so no
// binary float conversion ever touches a monetary value.
const accountColumns = `id, number, owner_id, kind, balance::text, active, version, created_at, updated_at`

// AccountRepository implements account.Repository on PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Either the pool or an enclosing pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a pool-backed account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository whose operations run inside tx
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account. A number collision surfaces as
// ErrDuplicateNumber so callers can regenerate and retry.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, number, owner_id, kind, balance, active, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Number,
		acc.OwnerID,
		string(acc.Kind),
		acc.Balance.String(),
		acc.Active,
		acc.Version,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateNumber{Number: acc.Number}
		}
		r.logger.Error("Failed to create account", "error", err)
		return persistence.ErrUnavailable{Op: "create account", Err: err}
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, persistence.ErrUnavailable{Op: "get account", Err: err}
	}

	return acc, nil
}

// GetByNumber retrieves an account by its display number
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE number = $1`

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{}
		}
		r.logger.Error("Failed to get account by number", "number", number, "error", err)
		return nil, persistence.ErrUnavailable{Op: "get account by number", Err: err}
	}

	return acc, nil
}

// ListByOwner retrieves all accounts held by the given owner, oldest first
func (r *AccountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY created_at ASC`

	rows, err := r.querier.Query(ctx, query, ownerID)
	if err != nil {
		r.logger.Error("Failed to list accounts by owner", "owner_id", ownerID.String(), "error", err)
		return nil, persistence.ErrUnavailable{Op: "list accounts by owner", Err: err}
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := r.scanAccount(rows)
		if err != nil {
			r.logger.Error("Failed to scan account", "error", err)
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence.ErrUnavailable{Op: "list accounts by owner", Err: err}
	}

	return accounts, nil
}

// Update persists the full account state using optimistic locking. The row
// must still carry the version the caller read; otherwise the write is lost
// to a concurrent update and ErrConcurrentModification is returned.
func (r *AccountRepository) Update(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET balance = $1::numeric, active = $2, version = $3, updated_at = $4
		WHERE id = $5 AND version = $6
	`

	result, err := r.querier.Exec(ctx, query,
		acc.Balance.String(),
		acc.Active,
		acc.Version,
		acc.UpdatedAt,
		acc.ID,
		acc.Version-1,
	)
	if err != nil {
		r.logger.Error("Failed to update account", "id", acc.ID.String(), "error", err)
		return persistence.ErrUnavailable{Op: "update account", Err: err}
	}

	if result.RowsAffected() == 0 {
		return account.ErrConcurrentModification{AccountID: acc.ID}
	}

	return nil
}

// LockForUpdate obtains a row lock on the account and returns its current
// state. Must run inside a transaction; callers that lock several accounts
// do so in ascending ID order.
func (r *AccountRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to lock account for update", "id", id.String(), "error", err)
		return nil, persistence.ErrUnavailable{Op: "lock account", Err: err}
	}

	return acc, nil
}

// SetActive flips the active flag and returns the updated state
func (r *AccountRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*account.Account, error) {
	query := `
		UPDATE accounts
		SET active = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + accountColumns

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, active, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to set account active flag", "id", id.String(), "error", err)
		return nil, persistence.ErrUnavailable{Op: "set account active", Err: err}
	}

	return acc, nil
}

// scanAccount reads one account row, converting the text balance back into
// an exact decimal.
func (r *AccountRepository) scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	var kind, balance string
	err := row.Scan(
		&acc.ID,
		&acc.Number,
		&acc.OwnerID,
		&kind,
		&balance,
		&acc.Active,
		&acc.Version,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("invalid stored balance %q: %w", balance, err)
	}
	acc.Kind = account.Kind(kind)
	acc.Balance = money.New(d)
	return &acc, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
