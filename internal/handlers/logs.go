package handlers

import (
	"net/http"
	"strconv"

	"planclan/internal/models"
)

const (
	defaultLogPageSize = 20
	maxLogPageSize     = 100
)

// ListSuggestionLogs returns the caller's suggestion activity, newest
// first, with limit/offset pagination.
func (h *Handlers) ListSuggestionLogs(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", defaultLogPageSize)
	if limit > maxLogPageSize {
		limit = maxLogPageSize
	}
	offset := intQuery(r, "offset", 0)

	logs, total, err := h.storage.ListSuggestionLogsWithCount(userID(r), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if logs == nil {
		logs = []*models.SuggestionLog{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
