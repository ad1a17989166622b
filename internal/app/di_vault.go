package app

import (
	"fmt"
	"sync"

	"github.com/allisson/envshare/internal/config"
	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
	vaultHTTP "github.com/allisson/envshare/internal/vault/http"
	vaultRepository "github.com/allisson/envshare/internal/vault/repository"
	vaultService "github.com/allisson/envshare/internal/vault/service"
	vaultUseCase "github.com/allisson/envshare/internal/vault/usecase"
)

type vaultComponents struct {
	secretRepository   vaultUseCase.SecretRepository
	cipher             vaultService.Cipher
	vaultUseCase       vaultUseCase.VaultUseCase
	secretHandler      *vaultHTTP.SecretHandler
	healthCheckHandler *vaultHTTP.HealthCheckHandler
	sweeper            *vaultUseCase.Sweeper

	secretRepositoryInit   sync.Once
	cipherInit             sync.Once
	vaultUseCaseInit       sync.Once
	secretHandlerInit      sync.Once
	healthCheckHandlerInit sync.Once
	sweeperInit            sync.Once
}

// SecretRepository returns the secret repository for the configured store driver.
func (c *Container) SecretRepository() (vaultUseCase.SecretRepository, error) {
	c.secretRepositoryInit.Do(func() {
		var err error
		c.secretRepository, err = c.initSecretRepository()
		c.setInitError("secretRepository", err)
	})
	return c.secretRepository, c.initError("secretRepository")
}

// Cipher returns the AEAD service used to seal new secrets.
func (c *Container) Cipher() (vaultService.Cipher, error) {
	c.cipherInit.Do(func() {
		var err error
		c.cipher, err = c.initCipher()
		c.setInitError("cipher", err)
	})
	return c.cipher, c.initError("cipher")
}

// VaultUseCase returns the vault use case, wrapped with metrics when enabled.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	c.vaultUseCaseInit.Do(func() {
		var err error
		c.vaultUseCase, err = c.initVaultUseCase()
		c.setInitError("vaultUseCase", err)
	})
	return c.vaultUseCase, c.initError("vaultUseCase")
}

// SecretHandler returns the HTTP handler for the secret routes.
func (c *Container) SecretHandler() (*vaultHTTP.SecretHandler, error) {
	c.secretHandlerInit.Do(func() {
		var err error
		c.secretHandler, err = c.initSecretHandler()
		c.setInitError("secretHandler", err)
	})
	return c.secretHandler, c.initError("secretHandler")
}

// HealthCheckHandler returns the HTTP handler for the sweeping health check.
func (c *Container) HealthCheckHandler() (*vaultHTTP.HealthCheckHandler, error) {
	c.healthCheckHandlerInit.Do(func() {
		var err error
		c.healthCheckHandler, err = c.initHealthCheckHandler()
		c.setInitError("healthCheckHandler", err)
	})
	return c.healthCheckHandler, c.initError("healthCheckHandler")
}

// Sweeper returns the background expiry sweeper, or nil when sweeping is disabled.
func (c *Container) Sweeper() (*vaultUseCase.Sweeper, error) {
	c.sweeperInit.Do(func() {
		var err error
		c.sweeper, err = c.initSweeper()
		c.setInitError("sweeper", err)
	})
	return c.sweeper, c.initError("sweeper")
}

func (c *Container) initSecretRepository() (vaultUseCase.SecretRepository, error) {
	switch c.config.StoreDriver {
	case config.StoreDriverPostgres, config.StoreDriverMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for secret repository: %w", err)
		}
		if c.config.StoreDriver == config.StoreDriverMySQL {
			return vaultRepository.NewMySQLSecretRepository(db), nil
		}
		return vaultRepository.NewPostgreSQLSecretRepository(db), nil
	case config.StoreDriverRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for secret repository: %w", err)
		}
		return vaultRepository.NewRedisSecretRepository(client, c.config.RedisKeyPrefix), nil
	case config.StoreDriverPebble:
		db, err := c.PebbleDB()
		if err != nil {
			return nil, fmt.Errorf("failed to get pebble database for secret repository: %w", err)
		}
		return vaultRepository.NewPebbleSecretRepository(db), nil
	case config.StoreDriverMemory:
		return vaultRepository.NewMemorySecretRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", c.config.StoreDriver)
	}
}

func (c *Container) initCipher() (vaultService.Cipher, error) {
	algorithm, err := vaultDomain.ParseAlgorithm(c.config.VaultAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid vault algorithm %q: %w", c.config.VaultAlgorithm, err)
	}
	return vaultService.NewCipherService(algorithm), nil
}

func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	secretRepository, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for vault use case: %w", err)
	}

	cipher, err := c.Cipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for vault use case: %w", err)
	}

	baseUseCase := vaultUseCase.NewVaultUseCase(
		secretRepository,
		cipher,
		vaultUseCase.Limits{
			MaxReads:        c.config.VaultMaxReads,
			MaxTTL:          c.config.VaultMaxTTL,
			MaxContentBytes: c.config.VaultMaxContentBytes,
		},
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
		}
		return vaultUseCase.NewVaultUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initSecretHandler() (*vaultHTTP.SecretHandler, error) {
	useCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for secret handler: %w", err)
	}
	return vaultHTTP.NewSecretHandler(useCase, c.Logger()), nil
}

func (c *Container) initHealthCheckHandler() (*vaultHTTP.HealthCheckHandler, error) {
	useCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for health check handler: %w", err)
	}
	return vaultHTTP.NewHealthCheckHandler(useCase, c.Logger()), nil
}

func (c *Container) initSweeper() (*vaultUseCase.Sweeper, error) {
	if !c.config.SweepEnabled {
		return nil, nil
	}

	useCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for sweeper: %w", err)
	}

	return vaultUseCase.NewSweeper(useCase, vaultUseCase.SweeperConfig{
		Schedule: c.config.SweepSchedule,
		Timeout:  c.config.SweepTimeout,
	}, c.Logger())
}
