// Package repository implements API key hash persistence for every supported store.
package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/envshare/internal/database"
	apperrors "github.com/allisson/envshare/internal/errors"
)

// PostgreSQLAPIKeyRepository implements API key persistence for PostgreSQL databases.
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL API key repository.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}

// Create inserts a key hash, ignoring duplicates.
func (p *PostgreSQLAPIKeyRepository) Create(ctx context.Context, keyHash string) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_keys (key_hash) VALUES ($1) ON CONFLICT (key_hash) DO NOTHING`

	if _, err := querier.ExecContext(ctx, query, keyHash); err != nil {
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// Exists checks whether a key hash is registered.
func (p *PostgreSQLAPIKeyRepository) Exists(ctx context.Context, keyHash string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS(SELECT 1 FROM api_keys WHERE key_hash = $1)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, keyHash).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check api key")
	}
	return exists, nil
}

// Delete removes a key hash.
func (p *PostgreSQLAPIKeyRepository) Delete(ctx context.Context, keyHash string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM api_keys WHERE key_hash = $1`

	result, err := querier.ExecContext(ctx, query, keyHash)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete api key")
	}
	return affected(result)
}

func affected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get affected rows")
	}
	return rows > 0, nil
}
