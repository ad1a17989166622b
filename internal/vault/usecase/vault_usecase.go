package usecase

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/allisson/envshare/internal/errors"
	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
	vaultService "github.com/allisson/envshare/internal/vault/service"
)

// Limits bounds what Create accepts. A zero field disables that bound.
type Limits struct {
	MaxReads        int64
	MaxTTL          time.Duration
	MaxContentBytes int
}

// vaultUseCase implements the VaultUseCase interface.
type vaultUseCase struct {
	secretRepo SecretRepository
	cipher     vaultService.Cipher
	limits     Limits
	logger     *slog.Logger
	now        func() time.Time
}

// NewVaultUseCase creates a new VaultUseCase.
func NewVaultUseCase(
	secretRepo SecretRepository,
	cipher vaultService.Cipher,
	limits Limits,
	logger *slog.Logger,
) VaultUseCase {
	return &vaultUseCase{
		secretRepo: secretRepo,
		cipher:     cipher,
		limits:     limits,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create seals content under a fresh key, persists the Fresh record and mints the token.
// The key lives only in this call; it is zeroed before returning.
func (v *vaultUseCase) Create(
	ctx context.Context,
	content []byte,
	maxReads int64,
	ttl time.Duration,
) (string, error) {
	if err := v.validate(content, maxReads, ttl); err != nil {
		return "", err
	}

	sealed, err := v.cipher.Seal(content)
	if err != nil {
		return "", err
	}
	defer vaultDomain.Zero(sealed.Key)

	secret := vaultDomain.NewSecret(
		sealed.Ciphertext,
		sealed.Nonce,
		sealed.Algorithm,
		maxReads,
		ttl,
		v.now(),
	)

	if err := v.secretRepo.Create(ctx, secret); err != nil {
		return "", err
	}

	return vaultDomain.EncodeToken(sealed.Key, secret.ID)
}

// Reveal decodes the token, spends one read atomically and only then decrypts, so a
// forged key paired with a valid id still costs a read.
func (v *vaultUseCase) Reveal(ctx context.Context, token string) (*vaultDomain.Secret, error) {
	key, id, err := vaultDomain.DecodeToken(token)
	if err != nil {
		return nil, err
	}
	defer vaultDomain.Zero(key)

	secret, err := v.secretRepo.Consume(ctx, id, v.now())
	if err != nil {
		if apperrors.Is(err, vaultDomain.ErrSecretExpired) {
			v.purge(ctx, id)
		}
		return nil, err
	}

	plaintext, err := v.cipher.Open(secret.Algorithm, key, secret.Nonce, secret.Ciphertext)
	if err != nil {
		return nil, vaultDomain.ErrDecryptionFailed
	}

	secret.Plaintext = plaintext
	return secret, nil
}

// SweepExpired deletes every record whose expiry instant has passed.
func (v *vaultUseCase) SweepExpired(ctx context.Context) (int64, error) {
	return v.secretRepo.DeleteExpired(ctx, v.now())
}

// purge is the best-effort delete of a secret found expired on reveal. Failures are
// logged and otherwise ignored; the sweep removes the record later.
func (v *vaultUseCase) purge(ctx context.Context, id uuid.UUID) {
	if err := v.secretRepo.Delete(ctx, id); err != nil {
		v.logger.Warn("failed to delete expired secret",
			slog.String("secret_id", id.String()),
			slog.Any("error", err),
		)
	}
}

func (v *vaultUseCase) validate(content []byte, maxReads int64, ttl time.Duration) error {
	if maxReads <= 0 || ttl < time.Second {
		return vaultDomain.ErrInvalidRequest
	}
	if v.limits.MaxReads > 0 && maxReads > v.limits.MaxReads {
		return vaultDomain.ErrInvalidRequest
	}
	if v.limits.MaxTTL > 0 && ttl > v.limits.MaxTTL {
		return vaultDomain.ErrInvalidRequest
	}
	if v.limits.MaxContentBytes > 0 && len(content) > v.limits.MaxContentBytes {
		return vaultDomain.ErrInvalidRequest
	}
	if !utf8.Valid(content) {
		return vaultDomain.ErrInvalidRequest
	}
	return nil
}
