// Package jobs runs the periodic maintenance work: sweeping expired login
// sessions and pruning old suggestion log entries.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"

	"planclan/internal/auth"
	"planclan/internal/common/logging"
	"planclan/internal/storage"
)

// DefaultLogRetention keeps suggestion logs for 90 days.
const DefaultLogRetention = 90 * 24 * time.Hour

type Scheduler struct {
	cron      *cron.Cron
	storage   storage.Storage
	auth      *auth.Auth
	retention time.Duration
}

func New(store storage.Storage, a *auth.Auth, retention time.Duration) *Scheduler {
	if retention <= 0 {
		retention = DefaultLogRetention
	}

	return &Scheduler{
		cron:      cron.New(),
		storage:   store,
		auth:      a,
		retention: retention,
	}
}

// Start registers the jobs and begins running them.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.sweepSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@daily", s.pruneSuggestionLogs); err != nil {
		return err
	}

	s.cron.Start()
	logging.Info("Background jobs started",
		logging.Field{Key: "log_retention", Value: s.retention.String()},
	)
	return nil
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweepSessions() {
	removed := s.auth.CleanupExpiredSessions()
	if removed > 0 {
		logging.Info("Swept expired sessions",
			logging.Field{Key: "removed", Value: removed},
		)
	}
}

func (s *Scheduler) pruneSuggestionLogs() {
	cutoff := time.Now().Add(-s.retention)
	deleted, err := s.storage.DeleteSuggestionLogsBefore(cutoff)
	if err != nil {
		logging.Error("Failed to prune suggestion logs", err)
		return
	}
	if deleted > 0 {
		logging.Info("Pruned suggestion logs",
			logging.Field{Key: "deleted", Value: deleted},
			logging.Field{Key: "cutoff", Value: cutoff.Format(time.RFC3339)},
		)
	}
}
