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

const mysqlSecretColumns = `id, ciphertext, nonce, algorithm, reads_left, expires_at, created_at`

// MySQLSecretRepository implements Secret persistence for MySQL databases.
// Identifiers are stored as BINARY(16).
type MySQLSecretRepository struct {
	db        *sql.DB
	txManager database.TxManager
}

// Create inserts a new secret into the MySQL database.
func (m *MySQLSecretRepository) Create(ctx context.Context, secret *vaultDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO secrets (id, ciphertext, nonce, algorithm, reads_left, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLSecretRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.Secret, error) {
	return m.get(ctx, database.GetTx(ctx, m.db), id, false)
}

// UpdateReadsLeft overwrites the read counter of an existing secret.
func (m *MySQLSecretRepository) UpdateReadsLeft(
	ctx context.Context,
	id uuid.UUID,
	readsLeft int64,
) error {
	querier := database.GetTx(ctx, m.db)

	binID, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	result, err := querier.ExecContext(ctx, `UPDATE secrets SET reads_left = ? WHERE id = ?`, readsLeft, binID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret reads left")
	}
	return requireOneRow(result, "failed to update secret reads left")
}

// Delete removes a secret. Missing secrets are ignored.
func (m *MySQLSecretRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	binID, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	if _, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE id = ?`, binID); err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	return nil
}

// DeleteExpired removes every secret whose expiry instant is at or before now.
func (m *MySQLSecretRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired secrets")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get deleted secrets count")
	}
	return count, nil
}

// Consume locks the row with SELECT ... FOR UPDATE, applies the domain state machine and
// writes the decremented counter, or deletes the row, before the transaction commits.
func (m *MySQLSecretRepository) Consume(
	ctx context.Context,
	id uuid.UUID,
	now time.Time,
) (*vaultDomain.Secret, error) {
	binID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal secret id")
	}

	var consumed *vaultDomain.Secret

	err = m.txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, m.db)

		secret, err := m.get(ctx, querier, id, true)
		if err != nil {
			return err
		}

		if err := secret.Consume(now); err != nil {
			return err
		}

		if secret.Exhausted() {
			if _, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE id = ?`, binID); err != nil {
				return apperrors.Wrap(err, "failed to delete exhausted secret")
			}
		} else {
			_, err := querier.ExecContext(
				ctx,
				`UPDATE secrets SET reads_left = ? WHERE id = ?`,
				secret.ReadsLeft,
				binID,
			)
			if err != nil {
				return apperrors.Wrap(err, "failed to consume secret")
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

func (m *MySQLSecretRepository) get(
	ctx context.Context,
	querier database.Querier,
	id uuid.UUID,
	forUpdate bool,
) (*vaultDomain.Secret, error) {
	binID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal secret id")
	}

	query := `SELECT ` + mysqlSecretColumns + ` FROM secrets WHERE id = ?`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var r sqlSecretRow
	var rawID []byte
	err = querier.QueryRowContext(ctx, query, binID).Scan(
		&rawID,
		&r.ciphertext,
		&r.nonce,
		&r.algorithm,
		&r.secret.ReadsLeft,
		&r.secret.ExpiresAt,
		&r.secret.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}

	if err := r.secret.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret id")
	}

	return r.decode()
}

// NewMySQLSecretRepository creates a new MySQL Secret repository instance.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db, txManager: database.NewTxManager(db)}
}
