// Package models defines the domain types shared across storage, handlers
// and the scheduling core.
package models

import (
	"time"
)

// Category classifies an event. The set is fixed; anything else is rejected
// at the form boundary.
type Category string

const (
	CategoryAppointment Category = "Appointment"
	CategoryTask        Category = "Task"
	CategoryActivity    Category = "Activity"
	CategoryReminder    Category = "Reminder"
)

// ValidCategory reports whether c is one of the known event categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryAppointment, CategoryTask, CategoryActivity, CategoryReminder:
		return true
	}
	return false
}

// CategoryNames lists the valid categories, for validation messages.
func CategoryNames() []string {
	return []string{
		string(CategoryAppointment),
		string(CategoryTask),
		string(CategoryActivity),
		string(CategoryReminder),
	}
}

// Event is a scheduled occurrence owned by a single user. EndTime is always
// strictly after StartTime. ConflictingEvent is a legacy free-text label and
// is never interpreted by the server.
type Event struct {
	ID                  string    `json:"id"`
	OwnerID             string    `json:"owner_id"`
	Title               string    `json:"title"`
	Category            Category  `json:"category"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	AssignedMemberIDs   []string  `json:"assigned_member_ids"`
	OrAssignedMemberIDs []string  `json:"or_assigned_member_ids,omitempty"`
	Description         string    `json:"description,omitempty"`
	IsRecurring         bool      `json:"is_recurring,omitempty"`
	ConflictingEvent    string    `json:"conflicting_event,omitempty"`
	IsCompleted         bool      `json:"is_completed"`
	CreatedAt           time.Time `json:"created_at"`
}

// Member is a named participant in the shared calendar. The roster is
// static from the server's point of view and seeded at first run.
type Member struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// User is an account that owns events.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
}

// SuggestionLog records one suggestion attempt, successful or not. It backs
// the activity log page and is pruned by the retention job.
type SuggestionLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Members     string    `json:"members"`
	Outcome     string    `json:"outcome"` // "success", "error" or "timeout"
	ErrorText   string    `json:"error_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Suggestion log outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)
