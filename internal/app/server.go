package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"planclan/internal/handlers"
	"planclan/internal/ratelimit"
	"planclan/internal/server"
)

// RunServer builds the HTTP stack and returns the server, ready to start.
func (app *App) RunServer() (*server.Server, http.Handler) {
	h := handlers.New(app.Storage, app.Config, app.Auth, app.Suggester, app.Bus)

	router := mux.NewRouter()
	SetupRoutes(router, h, app.Auth.RequireAuth, app.buildRateLimiter())

	srv := server.New(router, app.Config.Port, app.Config.TLSCertFile, app.Config.TLSKeyFile)
	return srv, router
}

func (app *App) buildRateLimiter() *ratelimit.Limiter {
	if app.RedisClient == nil || !app.Config.RateLimitEnabled {
		return nil
	}

	limit := 10
	if parsed, err := strconv.Atoi(app.Config.RateLimitDefault); err == nil {
		limit = parsed
	}
	window := time.Minute
	if parsed, err := time.ParseDuration(app.Config.RateLimitWindow); err == nil {
		window = parsed
	}

	return ratelimit.NewLimiter(app.RedisClient, &ratelimit.Config{
		DefaultLimit:  limit,
		DefaultWindow: window,
		Enabled:       true,
	})
}
