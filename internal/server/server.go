// Package server exposes the analysis as a single dashboard page over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/expense-insights/internal/logging"
	"fjacquet/expense-insights/internal/pipeline"
	"fjacquet/expense-insights/internal/render"
	srvmiddleware "fjacquet/expense-insights/internal/server/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Analyzer runs one analysis request.
type Analyzer interface {
	Run(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
}

// Dependencies are the collaborators of the web boundary.
type Dependencies struct {
	Analyzer Analyzer
	Renderer *render.Renderer
}

// Config configures the server.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	InputPath       string
	OutputDir       string
	Persist         bool
	Dependencies    Dependencies
}

// WebAPI is the HTTP server.
type WebAPI struct {
	router *chi.Mux
	logger logging.Logger
	server *http.Server
	config Config
}

// NewWebAPI builds the router and the underlying http.Server.
func NewWebAPI(logger logging.Logger, config Config) *WebAPI {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	h := newDashboardHandler(logger, config)

	router := chi.NewRouter()
	router.Use(srvmiddleware.Logger(logger))
	router.Use(middleware.Recoverer)

	router.Get("/", h.Index)
	router.Get("/healthz", h.Health)

	return &WebAPI{
		router: router,
		logger: logger,
		config: config,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the router, for tests and embedding.
func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM is received, then shuts the
// server down gracefully.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info("Starting server", logging.F("addr", w.server.Addr))
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
	case <-ctx.Done():
	}

	w.logger.Info("Shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), w.config.ShutdownTimeout)
	defer cancel()

	if err := w.server.Shutdown(shutdownCtx); err != nil {
		w.logger.WithError(err).Error("Graceful shutdown failed")
		return w.server.Close()
	}
	return nil
}
