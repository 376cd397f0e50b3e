package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"planclan/internal/common/logging"
)

const (
	streamKeepAlive = 30 * time.Second
	streamMaxAge    = 5 * time.Minute
)

// StreamEvents is a Server-Sent Events feed of the caller's event changes.
// Clients re-fetch the event list when a change arrives. The connection is
// closed after streamMaxAge; clients are expected to reconnect.
func (h *Handlers) StreamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	if !h.bus.Enabled() {
		http.Error(w, "Event streaming is not configured", http.StatusNotImplemented)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), streamMaxAge)
	defer cancel()

	owner := userID(r)
	changes, err := h.bus.Subscribe(ctx, owner)
	if err != nil {
		logging.Error("Failed to open change subscription", err,
			logging.Field{Key: "user_id", Value: owner},
		)
		http.Error(w, "Failed to subscribe", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case change, ok := <-changes:
			if !ok {
				return
			}
			payload, err := json.Marshal(change)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.Kind, payload)
			flusher.Flush()
		}
	}
}
