// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Yomira support site backend.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Seed default categories and promote configured owners.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/yomira-support/internal/api"
	"github.com/taibuivan/yomira-support/internal/forum/category"
	"github.com/taibuivan/yomira-support/internal/forum/moderation"
	"github.com/taibuivan/yomira-support/internal/forum/thread"
	"github.com/taibuivan/yomira-support/internal/messaging/conversation"
	"github.com/taibuivan/yomira-support/internal/platform/config"
	"github.com/taibuivan/yomira-support/internal/platform/constants"
	"github.com/taibuivan/yomira-support/internal/platform/gate"
	"github.com/taibuivan/yomira-support/internal/platform/migration"
	"github.com/taibuivan/yomira-support/internal/platform/pagecache"
	pgstore "github.com/taibuivan/yomira-support/internal/platform/postgres"
	redisstore "github.com/taibuivan/yomira-support/internal/platform/redis"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/users/account"
	"github.com/taibuivan/yomira-support/internal/users/auth"
	"github.com/taibuivan/yomira-support/internal/users/role"
)

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

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
		slog.Int("owner_emails", len(cfg.OwnerEmails)),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security & Shared Infrastructure ───────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	pages := pagecache.New(rdb, cfg.PageCacheTTL)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	refreshRepository := auth.NewRefreshTokenRepository(rdb)
	authService := auth.NewService(userRepository, refreshRepository, jwtSvc, log)

	accountService := account.NewService(userRepository, account.NewActivityRepository(pool), pages, log)
	roleService := role.NewService(userRepository, role.NewAdminRepository(pool), pages, log)

	categoryRepository := category.NewPostgresRepository(pool)
	categoryService := category.NewService(categoryRepository, log)
	threadService := thread.NewService(thread.NewPostgresRepository(pool), categoryRepository, pages, log)
	moderationService := moderation.NewService(moderation.NewPostgresRepository(pool), userRepository, pages, log)
	conversationService := conversation.NewService(conversation.NewPostgresRepository(pool), userRepository, log)

	// ── 8. Bootstrap Data ─────────────────────────────────────────────────
	must(log, categoryService.EnsureDefaultCategories(startupCtx), "seed default categories")
	must(log, authService.PromoteOwners(startupCtx, cfg.OwnerEmails), "promote owners")

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         auth.NewHandler(authService),
		Account:      account.NewHandler(accountService),
		Role:         role.NewHandler(roleService),
		Category:     category.NewHandler(categoryService),
		Thread:       thread.NewHandler(threadService),
		Moderation:   moderation.NewHandler(moderationService),
		Conversation: conversation.NewHandler(conversationService),
	}

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, api.Pages{
		Gate:  gate.New(authService, cfg.LoginPath, cfg.FallbackPath),
		Cache: pages.Middleware,
	}, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
