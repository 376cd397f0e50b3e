// Package app wires the application together: storage, Redis, auth, the
// suggestion service and the background jobs.
package app

import (
	"planclan/internal/auth"
	"planclan/internal/circuitbreaker"
	"planclan/internal/common/logging"
	"planclan/internal/config"
	"planclan/internal/jobs"
	"planclan/internal/notify"
	"planclan/internal/redis"
	"planclan/internal/storage"
	"planclan/internal/suggest"
)

// App holds all the application dependencies.
type App struct {
	Config      *config.Config
	Storage     storage.Storage
	RedisClient *redis.Client
	Auth        *auth.Auth
	Suggester   *suggest.Service
	Bus         *notify.Bus
	Jobs        *jobs.Scheduler
	Logger      logging.Logger
}

// New creates the application with all dependencies, in dependency order.
// Redis is optional; without it the change feed and rate limiting are
// disabled but everything else works.
func New(cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	if err := app.initializeStorage(); err != nil {
		return nil, err
	}

	if err := app.initializeRedis(); err != nil {
		app.Logger.Warn("Redis initialization failed, continuing without live updates",
			logging.Field{Key: "error", Value: err.Error()})
	}
	app.Bus = notify.NewBus(app.RedisClient)

	app.Auth = auth.New(app.Storage, cfg.JWTSecret)

	backend := suggest.NewGeminiClient(cfg.GeminiEndpoint, cfg.GeminiAPIKey, cfg.GeminiModel)
	breaker := circuitbreaker.New("suggestion-backend", circuitbreaker.BackendConfig, app.Logger)
	app.Suggester = suggest.NewService(backend, cfg.SuggestTimeout, suggest.WithBreaker(breaker))

	app.Jobs = jobs.New(app.Storage, app.Auth, jobs.DefaultLogRetention)

	return app, nil
}

// Cleanup releases all resources.
func (app *App) Cleanup() {
	if app.Jobs != nil {
		app.Jobs.Stop()
	}
	if app.Storage != nil {
		app.Storage.Close()
	}
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
