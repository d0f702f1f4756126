package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/KOlivier2119/SecureBank/internal/domain/money"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
	"github.com/KOlivier2119/SecureBank/internal/platform/persistence"
)

const transactionColumns = `id, reference, type, amount::text, status, description, category, merchant_name, account_id, destination_account_id, timestamp`

// TransactionRepository implements the append-only transaction log on
// PostgreSQL. Rows are inserted and read, never updated or deleted.
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a pool-backed transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository whose operations run inside tx
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create appends a record. A reference collision surfaces as
// ErrDuplicateReference so callers can regenerate and retry.
func (r *TransactionRepository) Create(ctx context.Context, record *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, reference, type, amount, status, description, category, merchant_name, account_id, destination_account_id, timestamp)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		record.ID,
		record.Reference,
		string(record.Type),
		record.Amount.String(),
		string(record.Status),
		record.Description,
		record.Category,
		record.MerchantName,
		record.AccountID,
		record.DestinationAccountID,
		record.Timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return transaction.ErrDuplicateReference{Reference: record.Reference}
		}
		r.logger.Error("Failed to create transaction record", "reference", record.Reference, "error", err)
		return persistence.ErrUnavailable{Op: "create transaction", Err: err}
	}

	return nil
}

// GetByID retrieves a record by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	record, err := r.scanTransaction(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, persistence.ErrUnavailable{Op: "get transaction", Err: err}
	}

	return record, nil
}

// GetByReference retrieves a record by its reference number
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1`

	record, err := r.scanTransaction(r.querier.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{}
		}
		r.logger.Error("Failed to get transaction by reference", "reference", reference, "error", err)
		return nil, persistence.ErrUnavailable{Op: "get transaction by reference", Err: err}
	}

	return record, nil
}

// ListByAccount returns a page of the account's records, newest first with
// ties broken by ID so pagination is stable.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions", "account_id", accountID.String(), "error", err)
		return nil, persistence.ErrUnavailable{Op: "list transactions", Err: err}
	}
	defer rows.Close()

	var records []*transaction.Transaction
	for rows.Next() {
		record, err := r.scanTransaction(rows)
		if err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence.ErrUnavailable{Op: "list transactions", Err: err}
	}

	return records, nil
}

// CountByAccount returns the total number of records for the account
func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE account_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		r.logger.Error("Failed to count transactions", "account_id", accountID.String(), "error", err)
		return 0, persistence.ErrUnavailable{Op: "count transactions", Err: err}
	}

	return count, nil
}

func (r *TransactionRepository) scanTransaction(row pgx.Row) (*transaction.Transaction, error) {
	var record transaction.Transaction
	var txType, status, amount string
	err := row.Scan(
		&record.ID,
		&record.Reference,
		&txType,
		&amount,
		&status,
		&record.Description,
		&record.Category,
		&record.MerchantName,
		&record.AccountID,
		&record.DestinationAccountID,
		&record.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	record.Type = transaction.Type(txType)
	record.Status = transaction.Status(status)
	record.Amount = money.New(d)
	return &record, nil
}
