package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOlivier2119/SecureBank/internal/domain/account"
	"github.com/KOlivier2119/SecureBank/internal/domain/money"
	"github.com/KOlivier2119/SecureBank/internal/platform/persistence"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func uniqueViolation(constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

var accountColumnNames = []string{"id", "number", "owner_id", "kind", "balance", "active", "version", "created_at", "updated_at"}

func accountRow(acc *account.Account) *pgxmock.Rows {
	return pgxmock.NewRows(accountColumnNames).
		AddRow(acc.ID, acc.Number, acc.OwnerID, string(acc.Kind), acc.Balance.String(), acc.Active, acc.Version, acc.CreatedAt, acc.UpdatedAt)
}

func testAccount() *account.Account {
	now := time.Now()
	return &account.Account{
		ID:        uuid.New(),
		Number:    "1234567890",
		OwnerID:   uuid.New(),
		Kind:      account.KindChecking,
		Balance:   money.MustParse("100.00"),
		Active:    true,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	acc := testAccount()

	query := `INSERT INTO accounts \(id, number, owner_id, kind, balance, active, version, created_at, updated_at\)`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Number, acc.OwnerID, string(acc.Kind), acc.Balance.String(), acc.Active, acc.Version, acc.CreatedAt, acc.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate number", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Number, acc.OwnerID, string(acc.Kind), acc.Balance.String(), acc.Active, acc.Version, acc.CreatedAt, acc.UpdatedAt).
			WillReturnError(uniqueViolation("accounts_number_key"))

		err := repo.Create(ctx, acc)
		var dupErr account.ErrDuplicateNumber
		assert.ErrorAs(t, err, &dupErr)
		assert.Equal(t, acc.Number, dupErr.Number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Number, acc.OwnerID, string(acc.Kind), acc.Balance.String(), acc.Active, acc.Version, acc.CreatedAt, acc.UpdatedAt).
			WillReturnError(dbErr)

		err := repo.Create(ctx, acc)
		assert.ErrorIs(t, err, persistence.ErrUnavailable{})
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	expected := testAccount()

	query := `SELECT id, number, owner_id, kind, balance::text, active, version, created_at, updated_at FROM accounts WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnRows(accountRow(expected))

		acc, err := repo.GetByID(ctx, expected.ID)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, acc.ID)
		assert.Equal(t, expected.Number, acc.Number)
		assert.Equal(t, expected.Kind, acc.Kind)
		assert.True(t, expected.Balance.Equal(acc.Balance))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnError(pgx.ErrNoRows)

		acc, err := repo.GetByID(ctx, expected.ID)
		assert.Nil(t, acc)
		var notFound account.ErrAccountNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.Equal(t, expected.ID, notFound.AccountID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("some db error")
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnError(dbErr)

		acc, err := repo.GetByID(ctx, expected.ID)
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, persistence.ErrUnavailable{})
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByNumber(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	expected := testAccount()

	query := `FROM accounts WHERE number = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.Number).WillReturnRows(accountRow(expected))

		acc, err := repo.GetByNumber(ctx, expected.Number)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, acc.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.Number).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByNumber(ctx, expected.Number)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_ListByOwner(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	ownerID := uuid.New()
	first := testAccount()
	first.OwnerID = ownerID
	second := testAccount()
	second.OwnerID = ownerID

	query := `FROM accounts WHERE owner_id = \$1 ORDER BY created_at ASC`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(accountColumnNames).
			AddRow(first.ID, first.Number, first.OwnerID, string(first.Kind), first.Balance.String(), first.Active, first.Version, first.CreatedAt, first.UpdatedAt).
			AddRow(second.ID, second.Number, second.OwnerID, string(second.Kind), second.Balance.String(), second.Active, second.Version, second.CreatedAt, second.UpdatedAt)
		mock.ExpectQuery(query).WithArgs(ownerID).WillReturnRows(rows)

		accounts, err := repo.ListByOwner(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, first.ID, accounts[0].ID)
		assert.Equal(t, second.ID, accounts[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(ownerID).WillReturnRows(pgxmock.NewRows(accountColumnNames))

		accounts, err := repo.ListByOwner(ctx, ownerID)
		require.NoError(t, err)
		assert.Empty(t, accounts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_Update(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	acc := testAccount()
	acc.Version = 2 // A version bump the domain applied before persisting

	query := `UPDATE accounts\s+SET balance = \$1::numeric, active = \$2, version = \$3, updated_at = \$4\s+WHERE id = \$5 AND version = \$6`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Balance.String(), acc.Active, acc.Version, acc.UpdatedAt, acc.ID, acc.Version-1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.Update(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent modification", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.Balance.String(), acc.Active, acc.Version, acc.UpdatedAt, acc.ID, acc.Version-1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(ctx, acc)
		assert.ErrorIs(t, err, account.ErrConcurrentModification{AccountID: acc.ID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_LockForUpdate(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	expected := testAccount()

	query := `FROM accounts WHERE id = \$1 FOR UPDATE`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnRows(accountRow(expected))

		acc, err := repo.LockForUpdate(ctx, expected.ID)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, acc.ID)
		assert.True(t, expected.Balance.Equal(acc.Balance))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnError(pgx.ErrNoRows)

		_, err := repo.LockForUpdate(ctx, expected.ID)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{AccountID: expected.ID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_SetActive(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	expected := testAccount()
	expected.Active = false

	query := `UPDATE accounts\s+SET active = \$1, version = version \+ 1, updated_at = NOW\(\)\s+WHERE id = \$2\s+RETURNING`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(false, expected.ID).WillReturnRows(accountRow(expected))

		acc, err := repo.SetActive(ctx, expected.ID, false)
		require.NoError(t, err)
		assert.False(t, acc.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(false, expected.ID).WillReturnError(pgx.ErrNoRows)

		_, err := repo.SetActive(ctx, expected.ID, false)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{AccountID: expected.ID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
