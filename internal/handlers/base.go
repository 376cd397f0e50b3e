// Package handlers implements the HTTP API.
package handlers

import (
	"encoding/json"
	"net/http"

	"planclan/internal/auth"
	"planclan/internal/common/errors"
	"planclan/internal/common/logging"
	"planclan/internal/config"
	"planclan/internal/notify"
	"planclan/internal/storage"
	"planclan/internal/suggest"
)

type Handlers struct {
	storage   storage.Storage
	config    *config.Config
	auth      *auth.Auth
	suggester *suggest.Service
	bus       *notify.Bus

	inFlight inFlightGuard
}

func New(store storage.Storage, cfg *config.Config, authHandler *auth.Auth, suggester *suggest.Service, bus *notify.Bus) *Handlers {
	return &Handlers{
		storage:   store,
		config:    cfg,
		auth:      authHandler,
		suggester: suggester,
		bus:       bus,
	}
}

// userID reads the identity the auth middleware stamped on the request.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode response", err)
	}
}

// writeError maps application error types onto HTTP status codes. Backend
// and timeout failures keep their literal message so the UI can display it;
// internal errors are masked.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	if appErr, ok := err.(*errors.AppError); ok {
		switch appErr.Type {
		case errors.ErrTypeValidation:
			status = http.StatusBadRequest
			message = appErr.Message
		case errors.ErrTypeAuth:
			status = http.StatusUnauthorized
			message = appErr.Message
		case errors.ErrTypeNotFound:
			status = http.StatusNotFound
			message = appErr.Message
		case errors.ErrTypeRateLimit:
			status = http.StatusTooManyRequests
			message = appErr.Message
		case errors.ErrTypeBackend, errors.ErrTypeBadResponse:
			status = http.StatusBadGateway
			message = appErr.Message
		case errors.ErrTypeTimeout:
			status = http.StatusGatewayTimeout
			message = appErr.Message
		case errors.ErrTypeTimeParse:
			status = http.StatusUnprocessableEntity
			message = appErr.Message
		default:
			logging.Error("Unhandled application error", err)
		}
	} else {
		logging.Error("Unhandled error", err)
	}

	writeJSON(w, status, map[string]string{"error": message})
}
