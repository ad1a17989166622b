package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_UnknownDriver(t *testing.T) {
	db, err := Connect(context.Background(), Config{Driver: "oracle", ConnectionString: "x"})
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "failed to open database")
}

func TestPing(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectPing()

		assert.NoError(t, Ping(context.Background(), db, time.Second))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		err = Ping(context.Background(), db, 0)
		assert.ErrorContains(t, err, "failed to ping database")
	})
}
