package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planclan/internal/auth"
	"planclan/internal/models"
	"planclan/internal/storage/sqlite"
)

func testScheduler(t *testing.T) (*Scheduler, *sqlite.Adapter) {
	t.Helper()
	adapter, err := sqlite.NewAdapter(&sqlite.Config{DatabasePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	a := auth.New(adapter, "0123456789abcdef0123456789abcdef")
	return New(adapter, a, 30*24*time.Hour), adapter
}

func TestPruneSuggestionLogs(t *testing.T) {
	scheduler, adapter := testScheduler(t)

	old := time.Now().Add(-60 * 24 * time.Hour)
	recent := time.Now().Add(-time.Hour)

	require.NoError(t, adapter.CreateSuggestionLog(&models.SuggestionLog{
		UserID: "u1", Description: "stale", Outcome: models.OutcomeSuccess, CreatedAt: old,
	}))
	require.NoError(t, adapter.CreateSuggestionLog(&models.SuggestionLog{
		UserID: "u1", Description: "fresh", Outcome: models.OutcomeSuccess, CreatedAt: recent,
	}))

	scheduler.pruneSuggestionLogs()

	logs, total, err := adapter.ListSuggestionLogsWithCount("u1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "fresh", logs[0].Description)
}

func TestStartAndStop(t *testing.T) {
	scheduler, _ := testScheduler(t)

	require.NoError(t, scheduler.Start())
	scheduler.Stop()
}

func TestNewDefaultsRetention(t *testing.T) {
	scheduler, _ := testScheduler(t)
	assert.Equal(t, 30*24*time.Hour, scheduler.retention)

	adapter := scheduler.storage
	defaulted := New(adapter, scheduler.auth, 0)
	assert.Equal(t, DefaultLogRetention, defaulted.retention)
}
