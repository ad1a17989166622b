package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apikeyDomain "github.com/allisson/envshare/internal/apikey/domain"
	apikeyService "github.com/allisson/envshare/internal/apikey/service"
	apikeyUsecaseMocks "github.com/allisson/envshare/internal/apikey/usecase/mocks"
	apperrors "github.com/allisson/envshare/internal/errors"
)

func TestAPIKeyUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	keyService := apikeyService.NewKeyService()

	t.Run("Success", func(t *testing.T) {
		repo := &apikeyUsecaseMocks.MockAPIKeyRepository{}
		uc := NewAPIKeyUseCase(repo, keyService)

		repo.On("Exists", ctx, keyService.Hash("raw-key")).Return(true, nil).Once()

		keyHash, err := uc.Authenticate(ctx, "raw-key")
		require.NoError(t, err)
		assert.Equal(t, keyService.Hash("raw-key"), keyHash)
		repo.AssertExpectations(t)
	})

	t.Run("Error_MissingCredential", func(t *testing.T) {
		repo := &apikeyUsecaseMocks.MockAPIKeyRepository{}
		uc := NewAPIKeyUseCase(repo, keyService)

		_, err := uc.Authenticate(ctx, "")
		assert.ErrorIs(t, err, apikeyDomain.ErrMissingCredential)
		repo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})

	t.Run("Error_UnknownKey", func(t *testing.T) {
		repo := &apikeyUsecaseMocks.MockAPIKeyRepository{}
		uc := NewAPIKeyUseCase(repo, keyService)

		repo.On("Exists", ctx, mock.Anything).Return(false, nil).Once()

		_, err := uc.Authenticate(ctx, "forged")
		assert.ErrorIs(t, err, apikeyDomain.ErrInvalidCredential)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Error_Backend", func(t *testing.T) {
		repo := &apikeyUsecaseMocks.MockAPIKeyRepository{}
		uc := NewAPIKeyUseCase(repo, keyService)

		repo.On("Exists", ctx, mock.Anything).Return(false, errors.New("dial tcp: connection refused")).Once()

		_, err := uc.Authenticate(ctx, "raw-key")
		assert.ErrorIs(t, err, apikeyDomain.ErrAuthBackend)
		assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestAPIKeyUseCase_Create(t *testing.T) {
	ctx := context.Background()
	keyService := apikeyService.NewKeyService()

	t.Run("Success", func(t *testing.T) {
		repo := &apikeyUsecaseMocks.MockAPIKeyRepository{}
		uc := NewAPIKeyUseCase(repo, keyService)

		var storedHash string
		repo.On("Create", ctx, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { storedHash = args.String(1) }).
			Return(nil).
			Once()

		rawKey, err := uc.Create(ctx)
		require.NoError(t, err)
		assert.Len(t, rawKey, 43)
		assert.Equal(t, keyService.Hash(rawKey), storedHash)
		assert.NotEqual(t, rawKey, storedHash)
	})

	t.Run("Error_Store", func(t *testing.T) {
		repo := &apikeyUsecaseMocks.MockAPIKeyRepository{}
		uc := NewAPIKeyUseCase(repo, keyService)

		repo.On("Create", ctx, mock.Anything).Return(errors.New("read-only transaction")).Once()

		rawKey, err := uc.Create(ctx)
		assert.Empty(t, rawKey)
		assert.ErrorContains(t, err, "read-only transaction")
	})
}

func TestAPIKeyUseCase_Revoke(t *testing.T) {
	ctx := context.Background()
	keyService := apikeyService.NewKeyService()

	t.Run("Success", func(t *testing.T) {
		repo := &apikeyUsecaseMocks.MockAPIKeyRepository{}
		uc := NewAPIKeyUseCase(repo, keyService)

		repo.On("Delete", ctx, keyService.Hash("raw-key")).Return(true, nil).Once()

		assert.NoError(t, uc.Revoke(ctx, "raw-key"))
		repo.AssertExpectations(t)
	})

	t.Run("Error_UnknownKey", func(t *testing.T) {
		repo := &apikeyUsecaseMocks.MockAPIKeyRepository{}
		uc := NewAPIKeyUseCase(repo, keyService)

		repo.On("Delete", ctx, mock.Anything).Return(false, nil).Once()

		assert.ErrorIs(t, uc.Revoke(ctx, "raw-key"), apikeyDomain.ErrAPIKeyNotFound)
	})

	t.Run("Error_EmptyKey", func(t *testing.T) {
		repo := &apikeyUsecaseMocks.MockAPIKeyRepository{}
		uc := NewAPIKeyUseCase(repo, keyService)

		assert.ErrorIs(t, uc.Revoke(ctx, ""), apikeyDomain.ErrMissingCredential)
	})

	t.Run("Error_Store", func(t *testing.T) {
		repo := &apikeyUsecaseMocks.MockAPIKeyRepository{}
		uc := NewAPIKeyUseCase(repo, keyService)

		repo.On("Delete", ctx, mock.Anything).Return(false, errors.New("timeout")).Once()

		assert.ErrorContains(t, uc.Revoke(ctx, "raw-key"), "timeout")
	})
}
