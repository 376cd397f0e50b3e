// Package schedule turns stored events into the text forms the suggestion
// flow works with, and applies accepted suggestions back onto events.
package schedule

import (
	"fmt"
	"strings"

	"planclan/internal/models"
)

const (
	clockLayout = "3:04 PM"
	dayLayout   = "Jan 2"
)

// Summarize renders events as one line each, for inclusion in a suggestion
// prompt. Events must already be in start-time order; the storage layer
// guarantees that. An empty event list yields an empty string.
func Summarize(events []*models.Event, roster []*models.Member) string {
	lines := make([]string, 0, len(events))
	for _, event := range events {
		lines = append(lines, summaryLine(event, roster))
	}
	return strings.Join(lines, "\n")
}

func summaryLine(event *models.Event, roster []*models.Member) string {
	names := namesForIDs(event.AssignedMemberIDs, roster)
	return fmt.Sprintf("- %s for %s from %s to %s on %s",
		event.Title,
		strings.Join(names, ", "),
		event.StartTime.Format(clockLayout),
		event.EndTime.Format(clockLayout),
		event.StartTime.Format(dayLayout),
	)
}

// namesForIDs resolves member IDs against the roster, preserving the
// event's assignment order. IDs with no roster entry are dropped.
func namesForIDs(ids []string, roster []*models.Member) []string {
	byID := make(map[string]string, len(roster))
	for _, member := range roster {
		byID[member.ID] = member.Name
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
