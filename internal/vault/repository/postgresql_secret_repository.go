package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/envshare/internal/database"
	apperrors "github.com/allisson/envshare/internal/errors"
	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

const postgresSecretColumns = `id, ciphertext, nonce, algorithm, reads_left, expires_at, created_at`

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL databases.
type PostgreSQLSecretRepository struct {
	db        *sql.DB
	txManager database.TxManager
}

// Create inserts a new secret into the PostgreSQL database.
func (p *PostgreSQLSecretRepository) Create(ctx context.Context, secret *vaultDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secrets (id, ciphertext, nonce, algorithm, reads_left, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID,
		encodeBytes(secret.Ciphertext),
		encodeBytes(secret.Nonce),
		string(secret.Algorithm),
		secret.ReadsLeft,
		secret.ExpiresAt.UTC(),
		secret.CreatedAt.UTC(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get retrieves a secret by its identifier.
func (p *PostgreSQLSecretRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresSecretColumns + ` FROM secrets WHERE id = $1`

	secret, err := p.scan(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}
	return secret, nil
}

// UpdateReadsLeft overwrites the read counter of an existing secret.
func (p *PostgreSQLSecretRepository) UpdateReadsLeft(
	ctx context.Context,
	id uuid.UUID,
	readsLeft int64,
) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `UPDATE secrets SET reads_left = $1 WHERE id = $2`, readsLeft, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret reads left")
	}
	return requireOneRow(result, "failed to update secret reads left")
}

// Delete removes a secret. Missing secrets are ignored.
func (p *PostgreSQLSecretRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE id = $1`, id); err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	return nil
}

// DeleteExpired removes every secret whose expiry instant is at or before now.
func (p *PostgreSQLSecretRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired secrets")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get deleted secrets count")
	}
	return count, nil
}

// Consume decrements reads_left with a single conditional UPDATE and deletes the row in the
// same transaction when the counter reaches zero. The row lock taken by the UPDATE
// serializes concurrent reveals of the same secret.
func (p *PostgreSQLSecretRepository) Consume(
	ctx context.Context,
	id uuid.UUID,
	now time.Time,
) (*vaultDomain.Secret, error) {
	var consumed *vaultDomain.Secret

	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, p.db)

		query := `UPDATE secrets SET reads_left = reads_left - 1
				  WHERE id = $1 AND reads_left > 0 AND expires_at > $2
				  RETURNING ` + postgresSecretColumns

		secret, err := p.scan(querier.QueryRowContext(ctx, query, id, now.UTC()))
		if errors.Is(err, sql.ErrNoRows) {
			return p.classifyMiss(ctx, querier, id)
		}
		if err != nil {
			return apperrors.Wrap(err, "failed to consume secret")
		}

		if secret.Exhausted() {
			if _, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE id = $1`, id); err != nil {
				return apperrors.Wrap(err, "failed to delete exhausted secret")
			}
		}

		consumed = secret
		return nil
	})
	if err != nil {
		return nil, err
	}
	return consumed, nil
}

// classifyMiss tells a missing secret apart from one that exists but cannot be consumed.
func (p *PostgreSQLSecretRepository) classifyMiss(
	ctx context.Context,
	querier database.Querier,
	id uuid.UUID,
) error {
	var exists bool
	err := querier.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM secrets WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return apperrors.Wrap(err, "failed to check secret existence")
	}
	if exists {
		return vaultDomain.ErrSecretExpired
	}
	return vaultDomain.ErrSecretNotFound
}

func (p *PostgreSQLSecretRepository) scan(row rowScanner) (*vaultDomain.Secret, error) {
	var r sqlSecretRow
	err := row.Scan(
		&r.secret.ID,
		&r.ciphertext,
		&r.nonce,
		&r.algorithm,
		&r.secret.ReadsLeft,
		&r.secret.ExpiresAt,
		&r.secret.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r.decode()
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository instance.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db, txManager: database.NewTxManager(db)}
}

func requireOneRow(result sql.Result, msg string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, msg)
	}
	if rows == 0 {
		return apperrors.Wrap(errors.New("secret does not exist"), msg)
	}
	return nil
}
