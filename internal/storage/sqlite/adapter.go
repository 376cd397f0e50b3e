package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"planclan/internal/common/errors"
	"planclan/internal/common/logging"
	"planclan/internal/models"
)

type Adapter struct {
	db     *sql.DB
	config *Config
}

func NewAdapter(config *Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid SQLite config: %w", err)
	}

	db, err := sql.Open("sqlite3", config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	adapter := &Adapter{
		db:     db,
		config: config,
	}

	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := adapter.createDefaultUser(); err != nil {
		return nil, fmt.Errorf("failed to create default user: %w", err)
	}

	if err := adapter.seedMembers(); err != nil {
		return nil, fmt.Errorf("failed to seed member roster: %w", err)
	}

	return adapter, nil
}

func (a *Adapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *Adapter) Health() error {
	return a.db.Ping()
}

func (a *Adapter) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_default BOOLEAN DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS members (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			avatar TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL,
			assigned_member_ids TEXT NOT NULL DEFAULT '[]',
			or_assigned_member_ids TEXT NOT NULL DEFAULT '[]',
			description TEXT DEFAULT '',
			is_recurring BOOLEAN DEFAULT 0,
			conflicting_event TEXT DEFAULT '',
			is_completed BOOLEAN DEFAULT 0,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (owner_id) REFERENCES users (id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_owner_start ON events (owner_id, start_time)`,
		`CREATE TABLE IF NOT EXISTS settings (
			user_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, key)
		)`,
		`CREATE TABLE IF NOT EXISTS suggestion_logs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			description TEXT NOT NULL,
			duration TEXT NOT NULL,
			members TEXT NOT NULL,
			outcome TEXT NOT NULL,
			error_text TEXT DEFAULT '',
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestion_logs_user_created ON suggestion_logs (user_id, created_at)`,
	}

	for _, query := range queries {
		if _, err := a.db.Exec(query); err != nil {
			return fmt.Errorf("migration query failed: %w", err)
		}
	}

	return nil
}

// createDefaultUser seeds an admin account when the users table is empty so
// a fresh install is reachable. The credentials must be changed immediately.
func (a *Adapter) createDefaultUser() error {
	count, err := a.GetUserCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	user, err := a.createUserWithDefault("admin", "admin", true)
	if err != nil {
		return err
	}

	logging.Warn("Created default admin user, change the password immediately",
		logging.Field{Key: "username", Value: user.Username},
	)
	return nil
}

// seedMembers installs the initial clan roster when the table is empty.
func (a *Adapter) seedMembers() error {
	var count int
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM members`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	roster := []models.Member{
		{ID: "1", Name: "James", Avatar: "https://placehold.co/40x40.png"},
		{ID: "2", Name: "Brendan", Avatar: "https://placehold.co/40x40.png"},
		{ID: "3", Name: "Bobby", Avatar: "https://placehold.co/40x40.png"},
		{ID: "4", Name: "Seb", Avatar: "https://placehold.co/40x40.png"},
	}

	for _, m := range roster {
		if _, err := a.db.Exec(`INSERT INTO members (id, name, avatar) VALUES (?, ?, ?)`,
			m.ID, m.Name, m.Avatar); err != nil {
			return err
		}
	}
	return nil
}

// Users

func (a *Adapter) CreateUser(username, password string) (*models.User, error) {
	return a.createUserWithDefault(username, password, false)
}

func (a *Adapter) createUserWithDefault(username, password string, isDefault bool) (*models.User, error) {
	if username == "" || password == "" {
		return nil, errors.ValidationError("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		IsDefault:    isDefault,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = a.db.Exec(
		`INSERT INTO users (id, username, password_hash, is_default, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash, user.IsDefault, user.CreatedAt,
	)
	if err != nil {
		return nil, errors.InternalError("failed to create user", err)
	}

	return user, nil
}

func (a *Adapter) GetUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	err := a.db.QueryRow(
		`SELECT id, username, password_hash, is_default, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsDefault, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NotFoundError("user")
	}
	if err != nil {
		return nil, errors.InternalError("failed to query user", err)
	}
	return user, nil
}

func (a *Adapter) ValidateUser(username, password string) (*models.User, error) {
	user, err := a.GetUserByUsername(username)
	if err != nil {
		if errors.IsType(err, errors.ErrTypeNotFound) {
			return nil, errors.AuthError("invalid username or password")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errors.AuthError("invalid username or password")
	}

	return user, nil
}

func (a *Adapter) GetUserCount() (int, error) {
	var count int
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, errors.InternalError("failed to count users", err)
	}
	return count, nil
}

// Events

func (a *Adapter) CreateEvent(event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	assigned, err := json.Marshal(event.AssignedMemberIDs)
	if err != nil {
		return errors.InternalError("failed to encode assigned members", err)
	}
	orAssigned, err := json.Marshal(event.OrAssignedMemberIDs)
	if err != nil {
		return errors.InternalError("failed to encode alternate members", err)
	}

	_, err = a.db.Exec(
		`INSERT INTO events (
			id, owner_id, title, category, start_time, end_time,
			assigned_member_ids, or_assigned_member_ids, description,
			is_recurring, conflicting_event, is_completed, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.OwnerID, event.Title, string(event.Category),
		event.StartTime.UTC(), event.EndTime.UTC(),
		string(assigned), string(orAssigned), event.Description,
		event.IsRecurring, event.ConflictingEvent, event.IsCompleted, event.CreatedAt,
	)
	if err != nil {
		return errors.InternalError("failed to create event", err)
	}
	return nil
}

const eventColumns = `id, owner_id, title, category, start_time, end_time,
	assigned_member_ids, or_assigned_member_ids, description,
	is_recurring, conflicting_event, is_completed, created_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	event := &models.Event{}
	var category, assigned, orAssigned string

	err := row.Scan(
		&event.ID, &event.OwnerID, &event.Title, &category,
		&event.StartTime, &event.EndTime,
		&assigned, &orAssigned, &event.Description,
		&event.IsRecurring, &event.ConflictingEvent, &event.IsCompleted, &event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Category = models.Category(category)
	if err := json.Unmarshal([]byte(assigned), &event.AssignedMemberIDs); err != nil {
		return nil, fmt.Errorf("corrupt assigned member list for event %s: %w", event.ID, err)
	}
	if err := json.Unmarshal([]byte(orAssigned), &event.OrAssignedMemberIDs); err != nil {
		return nil, fmt.Errorf("corrupt alternate member list for event %s: %w", event.ID, err)
	}
	return event, nil
}

func (a *Adapter) GetEvent(id, ownerID string) (*models.Event, error) {
	row := a.db.QueryRow(
		`SELECT `+eventColumns+` FROM events WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)

	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundError("event")
	}
	if err != nil {
		return nil, errors.InternalError("failed to query event", err)
	}
	return event, nil
}

func (a *Adapter) ListEventsByOwner(ownerID string) ([]*models.Event, error) {
	rows, err := a.db.Query(
		`SELECT `+eventColumns+` FROM events WHERE owner_id = ? ORDER BY start_time ASC`,
		ownerID,
	)
	if err != nil {
		return nil, errors.InternalError("failed to list events", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, errors.InternalError("failed to scan event", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.InternalError("failed to iterate events", err)
	}
	return events, nil
}

func (a *Adapter) SetEventCompleted(id, ownerID string, completed bool) error {
	result, err := a.db.Exec(
		`UPDATE events SET is_completed = ? WHERE id = ? AND owner_id = ?`,
		completed, id, ownerID,
	)
	if err != nil {
		return errors.InternalError("failed to update event", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.InternalError("failed to read update result", err)
	}
	if affected == 0 {
		return errors.NotFoundError("event")
	}
	return nil
}

// Members

func (a *Adapter) ListMembers() ([]*models.Member, error) {
	rows, err := a.db.Query(`SELECT id, name, avatar FROM members ORDER BY name ASC`)
	if err != nil {
		return nil, errors.InternalError("failed to list members", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m := &models.Member{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Avatar); err != nil {
			return nil, errors.InternalError("failed to scan member", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.InternalError("failed to iterate members", err)
	}
	return members, nil
}

// Settings

func (a *Adapter) GetSetting(userID, key string) (string, error) {
	var value string
	err := a.db.QueryRow(
		`SELECT value FROM settings WHERE user_id = ? AND key = ?`,
		userID, key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return "", errors.NotFoundError("setting")
	}
	if err != nil {
		return "", errors.InternalError("failed to query setting", err)
	}
	return value, nil
}

func (a *Adapter) SetSetting(userID, key, value string) error {
	_, err := a.db.Exec(
		`INSERT INTO settings (user_id, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		userID, key, value,
	)
	if err != nil {
		return errors.InternalError("failed to set setting", err)
	}
	return nil
}

// Suggestion logs

func (a *Adapter) CreateSuggestionLog(log *models.SuggestionLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := a.db.Exec(
		`INSERT INTO suggestion_logs (id, user_id, description, duration, members, outcome, error_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.UserID, log.Description, log.Duration, log.Members,
		log.Outcome, log.ErrorText, log.CreatedAt,
	)
	if err != nil {
		return errors.InternalError("failed to create suggestion log", err)
	}
	return nil
}

func (a *Adapter) ListSuggestionLogsWithCount(userID string, limit, offset int) ([]*models.SuggestionLog, int, error) {
	var total int
	if err := a.db.QueryRow(
		`SELECT COUNT(*) FROM suggestion_logs WHERE user_id = ?`, userID,
	).Scan(&total); err != nil {
		return nil, 0, errors.InternalError("failed to count suggestion logs", err)
	}

	rows, err := a.db.Query(
		`SELECT id, user_id, description, duration, members, outcome, error_text, created_at
		 FROM suggestion_logs WHERE user_id = ?
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, errors.InternalError("failed to list suggestion logs", err)
	}
	defer rows.Close()

	var logs []*models.SuggestionLog
	for rows.Next() {
		l := &models.SuggestionLog{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.Description, &l.Duration, &l.Members,
			&l.Outcome, &l.ErrorText, &l.CreatedAt); err != nil {
			return nil, 0, errors.InternalError("failed to scan suggestion log", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.InternalError("failed to iterate suggestion logs", err)
	}
	return logs, total, nil
}

func (a *Adapter) DeleteSuggestionLogsBefore(before time.Time) (int64, error) {
	result, err := a.db.Exec(`DELETE FROM suggestion_logs WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, errors.InternalError("failed to prune suggestion logs", err)
	}
	return result.RowsAffected()
}
