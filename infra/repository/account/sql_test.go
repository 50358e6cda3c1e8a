package account_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	infraaccount "github.com/amirasaad/accounts/infra/repository/account"
	"github.com/amirasaad/accounts/pkg/domain"
	"github.com/amirasaad/accounts/pkg/domain/account"
	repo "github.com/amirasaad/accounts/pkg/repository/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (repo.Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return infraaccount.New(db), mock
}

func TestAccountRepository_ListBalancesQuery(t *testing.T) {
	accRepo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "balance" FROM "accounts" ORDER BY created_at ASC, id ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).
			AddRow("100.0000").
			AddRow("250.5000").
			AddRow("0.0000"))

	balances, err := accRepo.ListBalances(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"100.0000", "250.5000", "0.0000"}, balances)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_ListBalancesError(t *testing.T) {
	accRepo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "balance" FROM "accounts"`)).
		WillReturnError(context.DeadlineExceeded)

	balances, err := accRepo.ListBalances(context.Background())
	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Nil(t, balances)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Get(t *testing.T) {
	accRepo, mock := newMockRepository(t)
	accountID := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "name", "number", "balance", "created_at", "updated_at"}).
		AddRow(accountID, "Alice", "ACC-1", "42.5000", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE id = $1 ORDER BY "accounts"."id" LIMIT $2`)).
		WithArgs(accountID, 1).
		WillReturnRows(rows)

	acc, err := accRepo.Get(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, accountID, acc.ID)
	assert.True(t, decimal.RequireFromString("42.5").Equal(acc.Balance), "got %s", acc.Balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetNotFound(t *testing.T) {
	accRepo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE number = $1`)).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	acc, err := accRepo.GetByNumber(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, acc)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_DeleteMissing(t *testing.T) {
	accRepo, mock := newMockRepository(t)
	accountID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "accounts" WHERE id = $1`)).
		WithArgs(accountID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := accRepo.Delete(context.Background(), accountID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateUnmappedError(t *testing.T) {
	accRepo, mock := newMockRepository(t)
	boom := errors.New("syntax error at or near")

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts" SET`)).
		WillReturnError(boom)

	acc := mustAccount(t)
	err := accRepo.Update(context.Background(), acc)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func mustAccount(t *testing.T) *account.Account {
	t.Helper()
	acc, err := account.New().WithName("Alice").WithNumber("ACC-1").Build()
	require.NoError(t, err)
	return acc
}
