// Package app wires the system components together and owns their lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"codelab/internal/api"
	"codelab/internal/catalog"
	"codelab/internal/config"
	"codelab/internal/session"
	"codelab/pkg/logger"
)

// Application coordinates all components. Construction follows dependency
// order: logger -> catalog -> session manager -> API -> HTTP server.
type Application struct {
	config     *config.Config
	logger     logger.Logger
	catalog    *catalog.Catalog
	manager    *session.Manager
	apiServer  *api.Server
	httpServer *http.Server
}

// New builds an application from validated configuration.
func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})

	var cat *catalog.Catalog
	if cfg.Session.SeedTemplates {
		cat = catalog.New()
	} else {
		cat = catalog.NewEmpty()
	}

	manager := session.NewManager(cat, session.Config{
		MaxSessionsPerUser:   cfg.Session.MaxSessionsPerUser,
		MaxParticipantsLimit: cfg.Session.MaxParticipantsLimit,
	}, log.With("component", "session"))

	apiServer := api.NewServer(manager, cat, log.With("component", "api"))

	mux := http.NewServeMux()
	mux.Handle("/api/", apiServer)
	mux.Handle("/health", apiServer)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &Application{
		config:     cfg,
		logger:     log,
		catalog:    cat,
		manager:    manager,
		apiServer:  apiServer,
		httpServer: httpServer,
	}, nil
}

// Manager exposes the session registry, mainly for tests and tooling.
func (a *Application) Manager() *session.Manager {
	return a.manager
}

// Catalog exposes the template catalog.
func (a *Application) Catalog() *catalog.Catalog {
	return a.catalog
}

// Start begins serving and returns once the listener is up or failed.
func (a *Application) Start(ctx context.Context) error {
	a.logger.Info("starting codelab", "addr", a.httpServer.Addr, "templates", a.catalog.Len())

	serverErrCh := make(chan error, 1)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-time.After(100 * time.Millisecond):
		a.logger.Info("codelab started")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts the HTTP listener down gracefully. The in-memory registry is
// discarded with the process; there is nothing to flush.
func (a *Application) Stop(ctx context.Context) error {
	a.logger.Info("shutting down codelab")

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	a.logger.Info("codelab shutdown complete")
	return nil
}
