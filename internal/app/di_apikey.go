package app

import (
	"fmt"
	"sync"

	apikeyRepository "github.com/allisson/envshare/internal/apikey/repository"
	apikeyService "github.com/allisson/envshare/internal/apikey/service"
	apikeyUseCase "github.com/allisson/envshare/internal/apikey/usecase"
	"github.com/allisson/envshare/internal/config"
)

type apiKeyComponents struct {
	keyService       apikeyService.KeyService
	apiKeyRepository apikeyUseCase.APIKeyRepository
	apiKeyUseCase    apikeyUseCase.APIKeyUseCase

	keyServiceInit       sync.Once
	apiKeyRepositoryInit sync.Once
	apiKeyUseCaseInit    sync.Once
}

// KeyService returns the API key generation and hashing service.
func (c *Container) KeyService() apikeyService.KeyService {
	c.keyServiceInit.Do(func() {
		c.keyService = apikeyService.NewKeyService()
	})
	return c.keyService
}

// APIKeyRepository returns the API key repository for the configured store driver.
func (c *Container) APIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	c.apiKeyRepositoryInit.Do(func() {
		var err error
		c.apiKeyRepository, err = c.initAPIKeyRepository()
		c.setInitError("apiKeyRepository", err)
	})
	return c.apiKeyRepository, c.initError("apiKeyRepository")
}

// APIKeyUseCase returns the API key use case, wrapped with metrics when enabled.
func (c *Container) APIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	c.apiKeyUseCaseInit.Do(func() {
		var err error
		c.apiKeyUseCase, err = c.initAPIKeyUseCase()
		c.setInitError("apiKeyUseCase", err)
	})
	return c.apiKeyUseCase, c.initError("apiKeyUseCase")
}

func (c *Container) initAPIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	switch c.config.StoreDriver {
	case config.StoreDriverPostgres, config.StoreDriverMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for api key repository: %w", err)
		}
		if c.config.StoreDriver == config.StoreDriverMySQL {
			return apikeyRepository.NewMySQLAPIKeyRepository(db), nil
		}
		return apikeyRepository.NewPostgreSQLAPIKeyRepository(db), nil
	case config.StoreDriverRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for api key repository: %w", err)
		}
		return apikeyRepository.NewRedisAPIKeyRepository(client, c.config.RedisKeyPrefix), nil
	case config.StoreDriverPebble:
		db, err := c.PebbleDB()
		if err != nil {
			return nil, fmt.Errorf("failed to get pebble database for api key repository: %w", err)
		}
		return apikeyRepository.NewPebbleAPIKeyRepository(db), nil
	case config.StoreDriverMemory:
		keyService := c.KeyService()
		hashes := make([]string, 0, len(c.config.AuthStaticAPIKeys))
		for _, rawKey := range c.config.AuthStaticAPIKeys {
			hashes = append(hashes, keyService.Hash(rawKey))
		}
		return apikeyRepository.NewMemoryAPIKeyRepository(hashes...), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", c.config.StoreDriver)
	}
}

func (c *Container) initAPIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	repo, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for api key use case: %w", err)
	}

	baseUseCase := apikeyUseCase.NewAPIKeyUseCase(repo, c.KeyService())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for api key use case: %w", err)
		}
		return apikeyUseCase.NewAPIKeyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
