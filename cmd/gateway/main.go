// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

// Command gateway is the entry point for the Litbooks web gateway.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis (optional; in-memory sessions without it).
//  4. Construct the catalog API client.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/litbooks/litbooks/internal/api"
	"github.com/litbooks/litbooks/internal/books"
	"github.com/litbooks/litbooks/internal/platform/config"
	"github.com/litbooks/litbooks/internal/platform/constants"
	redisstore "github.com/litbooks/litbooks/internal/platform/redis"
	"github.com/litbooks/litbooks/internal/platform/sec"
	"github.com/litbooks/litbooks/internal/session"
	"github.com/litbooks/litbooks/internal/upstream"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Litbooks] gateway_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("catalog_api", cfg.CatalogAPIURL),
	)

	// Root context for startup and background workers. Startup gets a 30s
	// deadline so misconfiguration is caught quickly rather than hanging.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Session Store ──────────────────────────────────────────────────
	// Redis when configured, in-memory otherwise. The catalog token is
	// sealed before it leaves the process.
	sealer, err := sec.NewTokenSealer(cfg.SessionSecret)
	must(log, err, "initialize token sealer")

	var sessionRepository session.Repository
	var rdb *goredis.Client

	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
		sessionRepository = session.NewRedisRepository(rdb, sealer)
	} else {
		log.Warn("no_redis_configured_using_memory_sessions")
		sessionRepository = session.NewMemoryRepository()
	}

	// ── 4. Catalog Client ─────────────────────────────────────────────────
	catalog := upstream.NewClient(cfg.CatalogAPIURL, log)

	// ── 5. Health handlers (wired with real dependency checkers) ──────────
	healthDeps := api.HealthDependencies{
		CheckUpstream: func() error {
			return catalog.Ping(context.Background())
		},
	}
	if rdb != nil {
		healthDeps.CheckCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	sessionService := session.NewService(catalog, sessionRepository, log)
	sessionHandler := session.NewHandler(sessionService, cfg.IsProduction())

	booksState := books.NewState()
	booksService := books.NewService(catalog, booksState, log)
	booksHandler := books.NewHandler(booksService)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Session:   sessionHandler,
		Books:     booksHandler,
		Catalog:   booksService,
	}

	server := api.NewServer(rootCtx, cfg, log, sessionService, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
