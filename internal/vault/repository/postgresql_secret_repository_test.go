package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

var secretColumns = []string{
	"id", "ciphertext", "nonce", "algorithm", "reads_left", "expires_at", "created_at",
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestNewPostgreSQLSecretRepository(t *testing.T) {
	db, _ := newSQLMock(t)

	repo := NewPostgreSQLSecretRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLSecretRepository{}, repo)
}

func TestPostgreSQLSecretRepository_Create(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLSecretRepository(db)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	secret := vaultDomain.NewSecret([]byte{0x01, 0x02}, []byte{0x03}, vaultDomain.AESGCM, 2, time.Minute, now)

	mock.ExpectExec("INSERT INTO secrets").
		WithArgs(secret.ID, "AQI=", "Aw==", "aes-gcm", int64(2), secret.ExpiresAt, secret.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), secret))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSecretRepository_CreateError(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLSecretRepository(db)

	secret := vaultDomain.NewSecret([]byte{1}, []byte{2}, vaultDomain.AESGCM, 1, time.Minute, time.Now())

	mock.ExpectExec("INSERT INTO secrets").WillReturnError(errors.New("disk full"))

	err := repo.Create(context.Background(), secret)
	assert.ErrorContains(t, err, "failed to create secret")
	assert.ErrorContains(t, err, "disk full")
}

func TestPostgreSQLSecretRepository_Get(t *testing.T) {
	id := uuid.New()
	expiresAt := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM secrets WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(secretColumns).
				AddRow(id.String(), "AQI=", "Aw==", "chacha20-poly1305", int64(3), expiresAt, createdAt))

		secret, err := repo.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, secret.ID)
		assert.Equal(t, []byte{0x01, 0x02}, secret.Ciphertext)
		assert.Equal(t, []byte{0x03}, secret.Nonce)
		assert.Equal(t, vaultDomain.ChaCha20, secret.Algorithm)
		assert.Equal(t, int64(3), secret.ReadsLeft)
		assert.True(t, expiresAt.Equal(secret.ExpiresAt))
		assert.True(t, createdAt.Equal(secret.CreatedAt))
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM secrets WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(secretColumns))

		secret, err := repo.Get(context.Background(), id)
		assert.Nil(t, secret)
		assert.ErrorIs(t, err, vaultDomain.ErrSecretNotFound)
	})

	t.Run("corrupted column", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM secrets WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(secretColumns).
				AddRow(id.String(), "not base64!", "Aw==", "aes-gcm", int64(3), expiresAt, createdAt))

		_, err := repo.Get(context.Background(), id)
		assert.ErrorContains(t, err, "failed to get secret")
	})
}

func TestPostgreSQLSecretRepository_UpdateReadsLeft(t *testing.T) {
	id := uuid.New()

	t.Run("updated", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectExec("UPDATE secrets SET reads_left").
			WithArgs(int64(4), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateReadsLeft(context.Background(), id, 4))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing id", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectExec("UPDATE secrets SET reads_left").
			WithArgs(int64(4), id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateReadsLeft(context.Background(), id, 4)
		assert.ErrorContains(t, err, "secret does not exist")
	})
}

func TestPostgreSQLSecretRepository_DeleteExpired(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLSecretRepository(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM secrets WHERE expires_at <=").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 7))

	count, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestPostgreSQLSecretRepository_Consume(t *testing.T) {
	id := uuid.New()
	now := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	expiresAt := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("decrements without deleting", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE secrets SET reads_left = reads_left - 1").
			WithArgs(id, now).
			WillReturnRows(sqlmock.NewRows(secretColumns).
				AddRow(id.String(), "AQI=", "Aw==", "aes-gcm", int64(2), expiresAt, createdAt))
		mock.ExpectCommit()

		secret, err := repo.Consume(context.Background(), id, now)
		require.NoError(t, err)
		assert.Equal(t, int64(2), secret.ReadsLeft)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes on last read", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE secrets SET reads_left = reads_left - 1").
			WithArgs(id, now).
			WillReturnRows(sqlmock.NewRows(secretColumns).
				AddRow(id.String(), "AQI=", "Aw==", "aes-gcm", int64(0), expiresAt, createdAt))
		mock.ExpectExec("DELETE FROM secrets WHERE id").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		secret, err := repo.Consume(context.Background(), id, now)
		require.NoError(t, err)
		assert.Equal(t, int64(0), secret.ReadsLeft)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired secret", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE secrets SET reads_left = reads_left - 1").
			WithArgs(id, now).
			WillReturnRows(sqlmock.NewRows(secretColumns))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		secret, err := repo.Consume(context.Background(), id, now)
		assert.Nil(t, secret)
		assert.ErrorIs(t, err, vaultDomain.ErrSecretExpired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing secret", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE secrets SET reads_left = reads_left - 1").
			WithArgs(id, now).
			WillReturnRows(sqlmock.NewRows(secretColumns))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		_, err := repo.Consume(context.Background(), id, now)
		assert.ErrorIs(t, err, vaultDomain.ErrSecretNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage failure", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLSecretRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE secrets SET reads_left = reads_left - 1").
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := repo.Consume(context.Background(), id, now)
		assert.ErrorContains(t, err, "failed to consume secret")
		assert.False(t, vaultDomain.IsGone(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
