// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/gateway are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/litbooks/litbooks/internal/books"
	"github.com/litbooks/litbooks/internal/platform/config"
	"github.com/litbooks/litbooks/internal/platform/constants"
	"github.com/litbooks/litbooks/internal/platform/middleware"
	"github.com/litbooks/litbooks/internal/platform/respond"
	"github.com/litbooks/litbooks/internal/session"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Session handles the session lifecycle (login, register, logout, me).
	Session *session.Handler

	// Books handles the catalog views and actions.
	Books *books.Handler

	// Catalog backs the home view's recent-books strip.
	Catalog *books.Service
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, resolver middleware.SessionResolver, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution. ResolveSession runs
	// for every route so the guards and handlers only read the context, and
	// runs before StructuredLogger so the request log carries the account.
	r.Use(middleware.RequestID())
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.ResolveSession(resolver))
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Home
	// The app shell's bootstrap payload: who am I, where can I go.
	r.Get("/", home(h.Catalog, log))

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/session", h.Session.Routes(middleware.GuestOnly))
		api.Mount("/books", h.Books.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// recentBooksCount is how many books the home view's recent strip shows.
const recentBooksCount = 8

// home returns the GET / handler.
//
// It tells the app shell whether the browser is signed in, and as whom,
// without forcing a round trip to /api/v1/session/me. Signed-in visitors
// also get the most recently added books. The strip is best effort: if the
// catalog is unreachable the shell still boots, just without it.
func home(catalog *books.Service, log *slog.Logger) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		payload := map[string]any{
			constants.FieldApp:     constants.AppName,
			constants.FieldVersion: constants.AppVersion,
			"authenticated":        false,
		}

		if sess := session.FromContext(request.Context()); sess != nil {
			payload["authenticated"] = true
			if sess.User != nil {
				payload["user"] = sess.User
			}

			recent, err := catalog.Recent(request.Context(), sess.Token, recentBooksCount)
			if err != nil {
				log.Warn("home_recent_books_unavailable", slog.String("error", err.Error()))
			} else {
				payload["recent_books"] = books.Views(recent)
			}
		}

		respond.OK(writer, payload)
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
