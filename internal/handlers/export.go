package handlers

import (
	"net/http"

	"planclan/internal/common/logging"
	"planclan/internal/ical"
	"planclan/internal/models"
)

// ExportCalendar serves the caller's schedule as an iCalendar feed.
// Completed events are excluded unless ?include_completed=true.
func (h *Handlers) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	events, err := h.storage.ListEventsByOwner(userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	roster, err := h.storage.ListMembers()
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("include_completed") != "true" {
		upcoming := make([]*models.Event, 0, len(events))
		for _, event := range events {
			if !event.IsCompleted {
				upcoming = append(upcoming, event)
			}
		}
		events = upcoming
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="planclan.ics"`)

	if err := ical.WriteCalendar(w, events, roster); err != nil {
		logging.Error("Failed to write calendar export", err)
	}
}
