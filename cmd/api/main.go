// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the character browser HTTP API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Build the upstream client with its shared rate limiter.
//  4. Connect to Redis and wrap the client in the page cache (optional).
//  5. Connect to PostgreSQL, run migrations and wrap in the archive (optional).
//  6. Wire session, detail and archive handlers.
//  7. Start HTTP server with graceful shutdown.
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

	"golang.org/x/time/rate"

	"github.com/taibuivan/rickmorty/internal/api"
	"github.com/taibuivan/rickmorty/internal/character"
	"github.com/taibuivan/rickmorty/internal/character/detail"
	"github.com/taibuivan/rickmorty/internal/platform/config"
	"github.com/taibuivan/rickmorty/internal/platform/constants"
	"github.com/taibuivan/rickmorty/internal/platform/migration"
	pgstore "github.com/taibuivan/rickmorty/internal/platform/postgres"
	redisstore "github.com/taibuivan/rickmorty/internal/platform/redis"
	"github.com/taibuivan/rickmorty/internal/platform/sec"
	"github.com/taibuivan/rickmorty/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.Bool("archive", cfg.ArchiveEnabled()),
		slog.Bool("cache", cfg.CacheEnabled()),
	)

	// Cancelled on shutdown; stops the rate-limit and session sweepers and
	// any first-page load still running.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Startup deadline so misconfiguration is caught quickly rather than
	// hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(appCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Upstream Client ────────────────────────────────────────────────
	limiter := rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), cfg.UpstreamBurst)
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	var source character.Source = character.NewClient(cfg.APIBaseURL, httpClient, limiter, log)

	health := api.HealthDependencies{}

	// ── 4. Redis Page Cache ───────────────────────────────────────────────
	if cfg.CacheEnabled() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		source = character.NewCachedSource(source, rdb, cfg.PageCacheTTL, log)
		health.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}

	// ── 5. PostgreSQL Archive ─────────────────────────────────────────────
	var archiveHandler api.RouteRegistrar
	if cfg.ArchiveEnabled() {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer pool.Close()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		repository := character.NewRepository(source, character.NewPostgresArchive(pool), log)
		source = repository
		archiveHandler = character.NewArchiveHandler(repository)
		health.CheckDatabase = func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }
	}

	// ── 6. Sessions ───────────────────────────────────────────────────────
	tokens, err := sec.NewSessionTokens(cfg.SessionSecret, constants.SessionKeyInfo, constants.SessionIssuer, cfg.SessionTTL)
	must(log, err, "initialize session tokens")

	registry := session.NewRegistry(source, cfg.SessionTTL, log)
	go registry.Run(appCtx)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(health, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Detail:    detail.NewHandler(source),
		Sessions:  session.NewHandler(appCtx, registry, tokens, constants.GlobalRequestTimeout, log),
	}
	if archiveHandler != nil {
		handlers.Archive = archiveHandler
	}

	server := api.NewServer(appCtx, cfg, log, handlers)

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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Cancelling first ends open event streams, which would otherwise hold
	// Shutdown until its deadline.
	appCancel()

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
