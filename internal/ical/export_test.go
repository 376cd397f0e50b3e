package ical

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planclan/internal/models"
)

func TestWriteCalendar(t *testing.T) {
	roster := []*models.Member{
		{ID: "1", Name: "James"},
		{ID: "3", Name: "Bobby"},
	}

	start := time.Date(2026, time.September, 3, 16, 30, 0, 0, time.UTC)
	events := []*models.Event{
		{
			ID:                "e1",
			Title:             "Swimming Lesson",
			Category:          models.CategoryActivity,
			StartTime:         start,
			EndTime:           start.Add(45 * time.Minute),
			AssignedMemberIDs: []string{"3"},
			Description:       "Bring goggles",
		},
		{
			ID:          "e2",
			Title:       "Dentist",
			Category:    models.CategoryAppointment,
			StartTime:   start.Add(24 * time.Hour),
			EndTime:     start.Add(25 * time.Hour),
			IsCompleted: true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCalendar(&buf, events, roster))
	out := buf.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))

	assert.Contains(t, out, "UID:e1@planclan")
	assert.Contains(t, out, "SUMMARY:Swimming Lesson")
	assert.Contains(t, out, "CATEGORIES:Activity")
	assert.Contains(t, out, "For: Bobby")
	assert.Contains(t, out, "Bring goggles")

	// Completed events are exported as cancelled.
	assert.Contains(t, out, "STATUS:CANCELLED")
}

func TestWriteCalendar_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCalendar(&buf, nil, nil))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
