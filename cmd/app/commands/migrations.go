package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/envshare/internal/config"
)

// RunMigrations applies all pending SQL migrations for the postgres or mysql driver.
// The redis, pebble and memory drivers have no schema and are skipped.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	switch driver {
	case config.StoreDriverRedis, config.StoreDriverPebble, config.StoreDriverMemory:
		logger.Info("store driver has no schema, skipping migrations", slog.String("driver", driver))
		return nil
	}

	logger.Info("running database migrations", slog.String("driver", driver))

	migrationsPath := "file://migrations/postgresql"
	databaseURL := connectionString
	if driver == config.StoreDriverMySQL {
		migrationsPath = "file://migrations/mysql"
		if !strings.HasPrefix(databaseURL, "mysql://") {
			databaseURL = "mysql://" + databaseURL
		}
	}

	m, err := migrate.New(migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
