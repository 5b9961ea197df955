// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer. It connects handlers, middleware, and
// routes, and owns the lifecycle of the store handed to it:
//
//	main.go opens:  repository.Store (sqlite or redis)
//	Server.New():   Store → SnippetService → SnippetHandler
//	Server.Start(): serve until SIGINT/SIGTERM, drain, close the Store
//
// Nothing here is a process-wide singleton; tests build as many servers as
// they like, each over its own store.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sakif/notecode/internal/config"
	"github.com/sakif/notecode/internal/handler"
	"github.com/sakif/notecode/internal/idgen"
	"github.com/sakif/notecode/internal/middleware"
	"github.com/sakif/notecode/internal/repository"
	"github.com/sakif/notecode/internal/service"
)

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger zerolog.Logger
	store  repository.Store
}

// New wires the dependency chain over an already-open store.
// The Server takes ownership of store and closes it when Start returns.
func New(cfg *config.Config, logger zerolog.Logger, store repository.Store) (*Server, error) {
	gen, err := idgen.UUIDHex(cfg.IDLength)
	if err != nil {
		return nil, fmt.Errorf("creating id generator: %w", err)
	}

	snippetService := service.NewSnippetService(store, logger,
		service.WithIDGenerator(gen),
		service.WithMaxAttempts(cfg.MaxCreateAttempts),
	)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	s.setupRoutes(handler.NewSnippetHandler(snippetService, logger, cfg.MaxBodyBytes))

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /healthz                → liveness
// GET    /readyz                 → readiness (pings the store)
// GET    /metrics                → Prometheus exposition
// GET    /api/snippets/default   → default sample
// POST   /api/snippets           → create snippet
// GET    /api/snippets/{id}      → get snippet
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns unique ID to each request (for tracing)
// 2. RealIP: extracts real client IP from proxy headers
// 3. Logger / Metrics: observe the final status, including recovered panics
// 4. Recoverer: catches panics and returns 500 instead of crashing
// 5. CORS: the editor may be served from a different origin
func (s *Server) setupRoutes(snippetHandler *handler.SnippetHandler) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleReady)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", snippetHandler.Routes)
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (SHUTDOWN_TIMEOUT)
// 3. Close the store (flushes WAL / returns pooled connections)
func (s *Server) Start() error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error().Err(err).Msg("closing store")
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().
			Int("port", s.config.Port).
			Str("store", s.config.StoreDriver).
			Strs("allowed_origins", s.config.AllowedOrigins).
			Msg("server starting")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info().Msg("server stopped gracefully")
	}

	return nil
}
