package handlers

import "net/http"

// HandleHealth reports storage reachability and whether the live change
// feed is available. Storage failure makes the whole check unhealthy;
// a missing notifier only degrades it.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	components := map[string]string{
		"storage":       "ok",
		"notifications": "ok",
	}

	if err := h.storage.Health(); err != nil {
		components["storage"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if !h.bus.Enabled() {
		components["notifications"] = "disabled"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	writeJSON(w, status, map[string]interface{}{
		"status":     overall,
		"components": components,
	})
}
