package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"planclan/internal/common/errors"
	"planclan/internal/common/validation"
	"planclan/internal/models"
)

// ListEvents returns the caller's events, start time ascending. Completed
// events are included unless ?include_completed=false.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.storage.ListEventsByOwner(userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("include_completed") == "false" {
		filtered := events[:0]
		for _, event := range events {
			if !event.IsCompleted {
				filtered = append(filtered, event)
			}
		}
		events = filtered
	}

	writeJSON(w, http.StatusOK, events)
}

// GetEvent returns a single owned event.
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.storage.GetEvent(mux.Vars(r)["id"], userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// CreateEvent validates and stores a new event for the caller.
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, errors.ValidationError("invalid JSON body"))
		return
	}

	v := validation.NewValidatorWithPrefix("event")
	v.RequireString(event.Title, "title").
		RequireOneOf(string(event.Category), models.CategoryNames(), "category").
		RequireNonEmptySlice(event.AssignedMemberIDs, "assigned_member_ids").
		RequireAfter(event.EndTime, event.StartTime, "end_time", "start_time")
	if v.HasErrors() {
		writeError(w, errors.ValidationError(v.Error().Error()))
		return
	}

	// Identity comes from the session, never from the payload.
	event.OwnerID = userID(r)
	event.IsCompleted = false

	if err := h.storage.CreateEvent(&event); err != nil {
		writeError(w, err)
		return
	}

	h.bus.EventCreated(r.Context(), &event)
	writeJSON(w, http.StatusCreated, &event)
}

// CompleteEvent toggles the completion flag, the only field-level update
// the application performs on a stored event.
func (h *Handlers) CompleteEvent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.ValidationError("invalid JSON body"))
		return
	}

	id := mux.Vars(r)["id"]
	owner := userID(r)

	if err := h.storage.SetEventCompleted(id, owner, body.Completed); err != nil {
		writeError(w, err)
		return
	}

	h.bus.EventCompleted(r.Context(), owner, id)

	event, err := h.storage.GetEvent(id, owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}
