package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"planclan/internal/common/errors"
)

// GetSetting returns one per-user display preference.
func (h *Handlers) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	value, err := h.storage.GetSetting(userID(r), key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// SetSetting stores one per-user display preference, overwriting any
// previous value.
func (h *Handlers) SetSetting(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.ValidationError("invalid JSON body"))
		return
	}

	key := mux.Vars(r)["key"]
	if err := h.storage.SetSetting(userID(r), key, body.Value); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": body.Value})
}
