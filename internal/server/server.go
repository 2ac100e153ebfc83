// Package server provides the HTTP server and routing for ledgerview.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/ledgerview/internal/modules/auth"
	"github.com/aristath/ledgerview/internal/modules/ledger"
)

// Config holds server configuration
type Config struct {
	Port    int
	Log     zerolog.Logger
	DevMode bool

	LedgerHandlers *ledger.Handlers
	AuthHandlers   *auth.Handlers
	SystemHandlers *SystemHandlers
	EventsStream   *EventsStreamHandler
	EventsSocket   *EventsSocketHandler
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	ledgerHandlers *ledger.Handlers
	authHandlers   *auth.Handlers
	systemHandlers *SystemHandlers
	eventsStream   *EventsStreamHandler
	eventsSocket   *EventsSocketHandler
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		ledgerHandlers: cfg.LedgerHandlers,
		authHandlers:   cfg.AuthHandlers,
		systemHandlers: cfg.SystemHandlers,
		eventsStream:   cfg.EventsStream,
		eventsSocket:   cfg.EventsSocket,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses. The event stream and websocket endpoints need
	// unbuffered writes, so compression stays off in dev mode.
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// System
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
		})

		// Transaction ledger
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/transactions", s.ledgerHandlers.HandleListTransactions)
			r.Get("/transactions/{id}", s.ledgerHandlers.HandleGetTransaction)
			r.Post("/refresh", s.ledgerHandlers.HandleRefresh)
			r.Get("/refresh/status", s.ledgerHandlers.HandleRefreshStatus)
		})

		// Authentication gate
		r.Route("/auth", func(r chi.Router) {
			r.Post("/activate", s.authHandlers.HandleActivate)
			r.Post("/deactivate", s.authHandlers.HandleDeactivate)
			r.Get("/status", s.authHandlers.HandleStatus)
		})

		// Event streaming
		r.Route("/events", func(r chi.Router) {
			r.Get("/stream", s.eventsStream.ServeHTTP)
			r.Get("/ws", s.eventsSocket.ServeHTTP)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
