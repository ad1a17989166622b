package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/envshare/internal/database"
	apperrors "github.com/allisson/envshare/internal/errors"
)

// MySQLAPIKeyRepository implements API key persistence for MySQL databases.
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// NewMySQLAPIKeyRepository creates a new MySQL API key repository.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}

// Create inserts a key hash, ignoring duplicates.
func (m *MySQLAPIKeyRepository) Create(ctx context.Context, keyHash string) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT IGNORE INTO api_keys (key_hash) VALUES (?)`

	if _, err := querier.ExecContext(ctx, query, keyHash); err != nil {
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// Exists checks whether a key hash is registered.
func (m *MySQLAPIKeyRepository) Exists(ctx context.Context, keyHash string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS(SELECT 1 FROM api_keys WHERE key_hash = ?)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, keyHash).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check api key")
	}
	return exists, nil
}

// Delete removes a key hash.
func (m *MySQLAPIKeyRepository) Delete(ctx context.Context, keyHash string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM api_keys WHERE key_hash = ?`

	result, err := querier.ExecContext(ctx, query, keyHash)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete api key")
	}
	return affected(result)
}
