package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"planclan/internal/common/errors"
	"planclan/internal/common/logging"
	"planclan/internal/models"
	"planclan/internal/schedule"
	"planclan/internal/suggest"
)

// inFlightGuard allows one outstanding suggestion per user. A second
// request while the first is unsettled gets a 409 instead of queueing,
// since each round trip spends backend quota.
type inFlightGuard struct {
	m sync.Map
}

func (g *inFlightGuard) acquire(key string) bool {
	_, loaded := g.m.LoadOrStore(key, struct{}{})
	return !loaded
}

func (g *inFlightGuard) release(key string) {
	g.m.Delete(key)
}

type suggestRequest struct {
	Description      string `json:"description"`
	NewEventDuration string `json:"newEventDuration"`
	Members          string `json:"members"`
	Constraints      string `json:"constraints,omitempty"`
	PreferredDate    string `json:"preferredDate,omitempty"`
}

// HandleSuggest runs one suggestion round trip. The existing-schedule
// summary is built server-side from the caller's stored events, snapshotted
// at request time; every attempt is recorded in the suggestion log.
func (h *Handlers) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var body suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.ValidationError("invalid JSON body"))
		return
	}

	owner := userID(r)
	if !h.inFlight.acquire(owner) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "a suggestion request is already in flight",
		})
		return
	}
	defer h.inFlight.release(owner)

	events, err := h.storage.ListEventsByOwner(owner)
	if err != nil {
		writeError(w, err)
		return
	}
	roster, err := h.storage.ListMembers()
	if err != nil {
		writeError(w, err)
		return
	}

	// Completed events no longer occupy their slot.
	upcoming := make([]*models.Event, 0, len(events))
	for _, event := range events {
		if !event.IsCompleted {
			upcoming = append(upcoming, event)
		}
	}

	req := &suggest.SuggestionRequest{
		ExistingSchedule: schedule.Summarize(upcoming, roster),
		NewEventDuration: body.NewEventDuration,
		Description:      body.Description,
		Constraints:      body.Constraints,
		// The prompt gets canonical roster names, not the raw text:
		// "Bobby and Grandma" dispatches as "Bobby".
		Members:       strings.Join(schedule.ResolveMemberNames(body.Members, roster), ", "),
		PreferredDate: body.PreferredDate,
	}

	result, err := h.suggester.Suggest(r.Context(), req)
	h.logSuggestion(owner, body, err)

	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) logSuggestion(owner string, body suggestRequest, callErr error) {
	entry := &models.SuggestionLog{
		UserID:      owner,
		Description: body.Description,
		Duration:    body.NewEventDuration,
		Members:     body.Members,
		Outcome:     models.OutcomeSuccess,
		CreatedAt:   time.Now().UTC(),
	}

	switch {
	case callErr == nil:
	case errors.IsType(callErr, errors.ErrTypeTimeout):
		entry.Outcome = models.OutcomeTimeout
		entry.ErrorText = callErr.Error()
	default:
		entry.Outcome = models.OutcomeError
		entry.ErrorText = callErr.Error()
	}

	if err := h.storage.CreateSuggestionLog(entry); err != nil {
		logging.Error("Failed to record suggestion log", err,
			logging.Field{Key: "user_id", Value: owner},
		)
	}
}

type applyRequest struct {
	Result           suggest.SuggestionResult `json:"result"`
	Description      string                   `json:"description"`
	NewEventDuration string                   `json:"newEventDuration"`
	Members          string                   `json:"members"`
	Draft            models.Event             `json:"draft"`
}

// HandleApplySuggestion merges an accepted suggestion into an event draft
// and returns it. Nothing is persisted; the caller submits the returned
// draft through the normal create endpoint.
func (h *Handlers) HandleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	var body applyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.ValidationError("invalid JSON body"))
		return
	}

	roster, err := h.storage.ListMembers()
	if err != nil {
		writeError(w, err)
		return
	}

	// The draft keeps the user's own description; the model's reasoning is
	// display material, not event content.
	draft := body.Draft
	err = schedule.ApplySuggestion(&draft, schedule.Suggestion{
		Title:       body.Result.SuggestedTitle,
		TimeText:    body.Result.SuggestedTime,
		Duration:    body.NewEventDuration,
		Description: body.Description,
		MemberNames: body.Members,
	}, roster)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &draft)
}
