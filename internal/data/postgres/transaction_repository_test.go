package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOlivier2119/SecureBank/internal/domain/money"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
	"github.com/KOlivier2119/SecureBank/internal/platform/persistence"
)

var transactionColumnNames = []string{"id", "reference", "type", "amount", "status", "description", "category", "merchant_name", "account_id", "destination_account_id", "timestamp"}

func transactionRow(record *transaction.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionColumnNames).
		AddRow(record.ID, record.Reference, string(record.Type), record.Amount.String(), string(record.Status),
			record.Description, record.Category, record.MerchantName, record.AccountID, record.DestinationAccountID, record.Timestamp)
}

func testRecord() *transaction.Transaction {
	return &transaction.Transaction{
		ID:        uuid.New(),
		Reference: "TXN4K7Q2ZB81XCD",
		Type:      transaction.TypeDeposit,
		Amount:    money.MustParse("50.00"),
		Status:    transaction.StatusCompleted,
		Category:  "Deposit",
		AccountID: uuid.New(),
		Timestamp: time.Now(),
	}
}

func TestTransactionRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: newTestLogger()}
	record := testRecord()

	query := `INSERT INTO transactions`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(record.ID, record.Reference, string(record.Type), record.Amount.String(), string(record.Status),
				record.Description, record.Category, record.MerchantName, record.AccountID, record.DestinationAccountID, record.Timestamp).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, record)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate reference", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(record.ID, record.Reference, string(record.Type), record.Amount.String(), string(record.Status),
				record.Description, record.Category, record.MerchantName, record.AccountID, record.DestinationAccountID, record.Timestamp).
			WillReturnError(uniqueViolation("transactions_reference_key"))

		err := repo.Create(ctx, record)
		var dupErr transaction.ErrDuplicateReference
		assert.ErrorAs(t, err, &dupErr)
		assert.Equal(t, record.Reference, dupErr.Reference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(record.ID, record.Reference, string(record.Type), record.Amount.String(), string(record.Status),
				record.Description, record.Category, record.MerchantName, record.AccountID, record.DestinationAccountID, record.Timestamp).
			WillReturnError(dbErr)

		err := repo.Create(ctx, record)
		assert.ErrorIs(t, err, persistence.ErrUnavailable{})
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: newTestLogger()}
	expected := testRecord()

	query := `FROM transactions WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnRows(transactionRow(expected))

		record, err := repo.GetByID(ctx, expected.ID)
		require.NoError(t, err)
		assert.Equal(t, expected.Reference, record.Reference)
		assert.Equal(t, expected.Type, record.Type)
		assert.True(t, expected.Amount.Equal(record.Amount))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, expected.ID)
		assert.ErrorIs(t, err, transaction.ErrTransactionNotFound{TransactionID: expected.ID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_GetByReference(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: newTestLogger()}
	expected := testRecord()

	query := `FROM transactions WHERE reference = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.Reference).WillReturnRows(transactionRow(expected))

		record, err := repo.GetByReference(ctx, expected.Reference)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, record.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.Reference).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByReference(ctx, expected.Reference)
		assert.ErrorIs(t, err, transaction.ErrTransactionNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_ListByAccount(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: newTestLogger()}
	accountID := uuid.New()

	newer := testRecord()
	newer.AccountID = accountID
	older := testRecord()
	older.AccountID = accountID
	older.Timestamp = newer.Timestamp.Add(-time.Hour)

	query := `FROM transactions\s+WHERE account_id = \$1\s+ORDER BY timestamp DESC, id DESC\s+LIMIT \$2 OFFSET \$3`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(transactionColumnNames).
			AddRow(newer.ID, newer.Reference, string(newer.Type), newer.Amount.String(), string(newer.Status),
				newer.Description, newer.Category, newer.MerchantName, newer.AccountID, newer.DestinationAccountID, newer.Timestamp).
			AddRow(older.ID, older.Reference, string(older.Type), older.Amount.String(), string(older.Status),
				older.Description, older.Category, older.MerchantName, older.AccountID, older.DestinationAccountID, older.Timestamp)
		mock.ExpectQuery(query).WithArgs(accountID, 10, 0).WillReturnRows(rows)

		records, err := repo.ListByAccount(ctx, accountID, 10, 0)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, newer.ID, records[0].ID)
		assert.Equal(t, older.ID, records[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(accountID, 10, 0).WillReturnRows(pgxmock.NewRows(transactionColumnNames))

		records, err := repo.ListByAccount(ctx, accountID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_CountByAccount(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: newTestLogger()}
	accountID := uuid.New()

	query := `SELECT COUNT\(\*\) FROM transactions WHERE account_id = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(accountID).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

		count, err := repo.CountByAccount(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(accountID).WillReturnError(dbErr)

		_, err := repo.CountByAccount(ctx, accountID)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
