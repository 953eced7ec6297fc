// Package app holds the assembled application and its lifecycle.
package app

import (
	"log/slog"

	"github.com/sevigo/review-pilot/internal/config"
	"github.com/sevigo/review-pilot/internal/core"
	"github.com/sevigo/review-pilot/internal/server"
)

// App bundles the running components of the service.
type App struct {
	Cfg    *config.Config
	Logger *slog.Logger

	server     *server.Server
	dispatcher core.JobDispatcher
}

// NewApp assembles the application from its already-constructed parts.
func NewApp(cfg *config.Config, srv *server.Server, dispatcher core.JobDispatcher, logger *slog.Logger) *App {
	return &App{
		Cfg:        cfg,
		Logger:     logger,
		server:     srv,
		dispatcher: dispatcher,
	}
}

// Start runs the HTTP server and blocks until shutdown.
func (a *App) Start() error {
	a.Logger.Info("starting review-pilot",
		"port", a.Cfg.Server.Port,
		"auth_mode", a.Cfg.GitHub.AuthMode,
		"llm_provider", a.Cfg.AI.LLMProvider,
		"model", a.Cfg.AI.GeneratorModel,
		"max_workers", a.Cfg.MaxWorkers)

	return a.server.Start()
}

// Stop shuts the application down: the server first so no new deliveries
// arrive, then the dispatcher so in-flight reviews can finish.
func (a *App) Stop() error {
	a.Logger.Info("shutting down review-pilot")

	err := a.server.Stop()
	if err != nil {
		a.Logger.Error("error during HTTP server shutdown", "error", err)
	}

	a.dispatcher.Stop()

	if err != nil {
		return err
	}
	a.Logger.Info("review-pilot stopped")
	return nil
}
