package storage

import (
	"time"

	"planclan/internal/models"
)

// Storage is the persistence boundary for the scheduling application. Two
// adapters implement it (SQLite and PostgreSQL); both migrate their schema
// on construction and seed the default user and member roster.
type Storage interface {
	// Connection management
	Close() error
	Health() error

	// Users
	CreateUser(username, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	ValidateUser(username, password string) (*models.User, error)
	GetUserCount() (int, error)

	// Events. The listing order - start time ascending - is a contract:
	// the schedule summarizer relies on the store having sorted already.
	CreateEvent(event *models.Event) error
	GetEvent(id, ownerID string) (*models.Event, error)
	ListEventsByOwner(ownerID string) ([]*models.Event, error)

	// SetEventCompleted is the only event mutation the application performs.
	SetEventCompleted(id, ownerID string, completed bool) error

	// Members (static roster, read-only after seeding)
	ListMembers() ([]*models.Member, error)

	// Per-user settings (display preferences such as show_completed)
	GetSetting(userID, key string) (string, error)
	SetSetting(userID, key, value string) error

	// Suggestion activity log
	CreateSuggestionLog(log *models.SuggestionLog) error
	ListSuggestionLogsWithCount(userID string, limit, offset int) ([]*models.SuggestionLog, int, error)
	DeleteSuggestionLogsBefore(before time.Time) (int64, error)
}

// StorageConfig is implemented by adapter-specific configurations.
type StorageConfig interface {
	Validate() error
	GetType() string
	GetConnectionString() string
}

// StorageFactory creates a connected Storage from its configuration.
type StorageFactory interface {
	Create(config StorageConfig) (Storage, error)
	GetType() string
}

// GenericConfig is a simple map-based implementation of StorageConfig used
// by the top-level factory before an adapter claims it.
type GenericConfig map[string]interface{}

func (gc GenericConfig) Validate() error {
	return nil
}

func (gc GenericConfig) GetType() string {
	if t, ok := gc["type"].(string); ok {
		return t
	}
	return "unknown"
}

func (gc GenericConfig) GetConnectionString() string {
	if cs, ok := gc["connection_string"].(string); ok {
		return cs
	}
	return ""
}

// GetString reads a string value from a GenericConfig.
func (gc GenericConfig) GetString(key string) string {
	if v, ok := gc[key].(string); ok {
		return v
	}
	return ""
}
