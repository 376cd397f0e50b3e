package handlers

import "net/http"

// ListMembers returns the household roster.
func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.storage.ListMembers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}
