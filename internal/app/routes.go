package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"planclan/internal/handlers"
	"planclan/internal/middleware"
	"planclan/internal/ratelimit"
)

// SetupRoutes configures all HTTP routes for the application. The suggest
// endpoint gets its own rate limit because every call spends backend quota.
func SetupRoutes(router *mux.Router, h *handlers.Handlers, authMiddleware func(http.Handler) http.Handler, limiter *ratelimit.Limiter) {
	router.Use(middleware.LoggingMiddleware)

	// No auth required.
	router.HandleFunc("/api/auth/login", h.HandleLogin).Methods("POST")
	router.HandleFunc("/api/auth/logout", h.HandleLogout).Methods("POST")
	router.HandleFunc("/api/auth/register", h.HandleRegister).Methods("POST")
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")

	// Everything else requires identity.
	protected := router.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	api := protected.PathPrefix("/api").Subrouter()

	api.HandleFunc("/events", h.ListEvents).Methods("GET")
	api.HandleFunc("/events", h.CreateEvent).Methods("POST")
	api.HandleFunc("/events/stream", h.StreamEvents).Methods("GET")
	api.HandleFunc("/events/{id}", h.GetEvent).Methods("GET")
	api.HandleFunc("/events/{id}/complete", h.CompleteEvent).Methods("PATCH")

	api.HandleFunc("/calendar.ics", h.ExportCalendar).Methods("GET")
	api.HandleFunc("/members", h.ListMembers).Methods("GET")

	api.HandleFunc("/settings/{key}", h.GetSetting).Methods("GET")
	api.HandleFunc("/settings/{key}", h.SetSetting).Methods("PUT")

	suggestHandler := http.HandlerFunc(h.HandleSuggest)
	if limiter != nil {
		api.Handle("/suggest", limiter.HTTPMiddleware(ratelimit.UserBasedKey)(suggestHandler)).Methods("POST")
	} else {
		api.Handle("/suggest", suggestHandler).Methods("POST")
	}
	api.HandleFunc("/suggest/apply", h.HandleApplySuggestion).Methods("POST")

	api.HandleFunc("/logs", h.ListSuggestionLogs).Methods("GET")
}
