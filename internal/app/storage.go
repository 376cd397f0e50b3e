package app

import (
	"fmt"

	"planclan/internal/common/logging"
	"planclan/internal/storage"

	// Adapter packages register themselves with the storage registry.
	_ "planclan/internal/storage/postgres"
	_ "planclan/internal/storage/sqlite"
)

func (app *App) initializeStorage() error {
	switch app.Config.DatabaseType {
	case "postgres", "postgresql":
		app.Logger.Info("Database: PostgreSQL",
			logging.Field{Key: "host", Value: app.Config.PostgresHost},
			logging.Field{Key: "port", Value: app.Config.PostgresPort},
			logging.Field{Key: "database", Value: app.Config.PostgresDB},
		)
	default:
		app.Logger.Info("Database: SQLite",
			logging.Field{Key: "path", Value: app.Config.DatabasePath},
		)
	}

	store, err := storage.NewStorage(app.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.Storage = store
	return nil
}
