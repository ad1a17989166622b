package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apikeyUseCase "github.com/allisson/envshare/internal/apikey/usecase"
)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type sqlDialect struct {
	name    string
	newRepo func(db *sql.DB) apikeyUseCase.APIKeyRepository
	insert  string
	exists  string
	delete  string
}

var sqlDialects = []sqlDialect{
	{
		name:    "postgresql",
		newRepo: func(db *sql.DB) apikeyUseCase.APIKeyRepository { return NewPostgreSQLAPIKeyRepository(db) },
		insert:  "INSERT INTO api_keys (key_hash) VALUES ($1) ON CONFLICT (key_hash) DO NOTHING",
		exists:  "SELECT EXISTS(SELECT 1 FROM api_keys WHERE key_hash = $1)",
		delete:  "DELETE FROM api_keys WHERE key_hash = $1",
	},
	{
		name:    "mysql",
		newRepo: func(db *sql.DB) apikeyUseCase.APIKeyRepository { return NewMySQLAPIKeyRepository(db) },
		insert:  "INSERT IGNORE INTO api_keys (key_hash) VALUES (?)",
		exists:  "SELECT EXISTS(SELECT 1 FROM api_keys WHERE key_hash = ?)",
		delete:  "DELETE FROM api_keys WHERE key_hash = ?",
	},
}

func TestSQLAPIKeyRepository_Create(t *testing.T) {
	for _, d := range sqlDialects {
		t.Run(d.name, func(t *testing.T) {
			db, mock := newSQLMock(t)
			repo := d.newRepo(db)

			mock.ExpectExec(regexp.QuoteMeta(d.insert)).
				WithArgs(testHashA).
				WillReturnResult(sqlmock.NewResult(0, 1))
			require.NoError(t, repo.Create(context.Background(), testHashA))

			mock.ExpectExec(regexp.QuoteMeta(d.insert)).
				WithArgs(testHashB).
				WillReturnError(errors.New("connection reset"))
			err := repo.Create(context.Background(), testHashB)
			assert.ErrorContains(t, err, "failed to create api key")
			assert.ErrorContains(t, err, "connection reset")

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLAPIKeyRepository_Exists(t *testing.T) {
	for _, d := range sqlDialects {
		t.Run(d.name, func(t *testing.T) {
			db, mock := newSQLMock(t)
			repo := d.newRepo(db)

			mock.ExpectQuery(regexp.QuoteMeta(d.exists)).
				WithArgs(testHashA).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			exists, err := repo.Exists(context.Background(), testHashA)
			require.NoError(t, err)
			assert.True(t, exists)

			mock.ExpectQuery(regexp.QuoteMeta(d.exists)).
				WithArgs(testHashB).
				WillReturnError(errors.New("timeout"))
			_, err = repo.Exists(context.Background(), testHashB)
			assert.ErrorContains(t, err, "failed to check api key")

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLAPIKeyRepository_Delete(t *testing.T) {
	for _, d := range sqlDialects {
		t.Run(d.name, func(t *testing.T) {
			db, mock := newSQLMock(t)
			repo := d.newRepo(db)

			mock.ExpectExec(regexp.QuoteMeta(d.delete)).
				WithArgs(testHashA).
				WillReturnResult(sqlmock.NewResult(0, 1))
			deleted, err := repo.Delete(context.Background(), testHashA)
			require.NoError(t, err)
			assert.True(t, deleted)

			mock.ExpectExec(regexp.QuoteMeta(d.delete)).
				WithArgs(testHashB).
				WillReturnResult(sqlmock.NewResult(0, 0))
			deleted, err = repo.Delete(context.Background(), testHashB)
			require.NoError(t, err)
			assert.False(t, deleted)

			mock.ExpectExec(regexp.QuoteMeta(d.delete)).
				WithArgs(testHashB).
				WillReturnResult(sqlmock.NewErrorResult(errors.New("unsupported")))
			_, err = repo.Delete(context.Background(), testHashB)
			assert.ErrorContains(t, err, "failed to get affected rows")

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
