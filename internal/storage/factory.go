package storage

import (
	"fmt"

	"planclan/internal/common/errors"
	"planclan/internal/config"
)

// NewStorage creates a storage adapter based on configuration. The adapter
// packages register themselves with the default registry via init; main
// imports them for that side effect.
func NewStorage(cfg *config.Config) (Storage, error) {
	var storageConfig StorageConfig

	switch cfg.DatabaseType {
	case "sqlite":
		storageConfig = GenericConfig{
			"path": cfg.DatabasePath,
		}

	case "postgres", "postgresql":
		storageConfig = GenericConfig{
			"host":     cfg.PostgresHost,
			"port":     cfg.PostgresPort,
			"database": cfg.PostgresDB,
			"username": cfg.PostgresUser,
			"password": cfg.PostgresPassword,
			"sslmode":  cfg.PostgresSSLMode,
		}
		return Create("postgres", storageConfig)

	default:
		return nil, errors.ConfigError(fmt.Sprintf("unsupported database type: %s", cfg.DatabaseType))
	}

	return Create(cfg.DatabaseType, storageConfig)
}
