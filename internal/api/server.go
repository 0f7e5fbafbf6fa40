// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Three route families share one middleware chain: public pages served
    through the page cache, gated pages behind [gate.Gate], and the JSON API.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/yomira-support/internal/forum/category"
	"github.com/taibuivan/yomira-support/internal/forum/moderation"
	"github.com/taibuivan/yomira-support/internal/forum/thread"
	"github.com/taibuivan/yomira-support/internal/messaging/conversation"
	"github.com/taibuivan/yomira-support/internal/platform/config"
	"github.com/taibuivan/yomira-support/internal/platform/constants"
	"github.com/taibuivan/yomira-support/internal/platform/gate"
	"github.com/taibuivan/yomira-support/internal/platform/middleware"
	"github.com/taibuivan/yomira-support/internal/users/account"
	"github.com/taibuivan/yomira-support/internal/users/auth"
	"github.com/taibuivan/yomira-support/internal/users/role"
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
type Handlers struct {
	// Liveness is the /health handler; it answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; it answers 200 when Postgres and Redis respond.
	Readiness http.HandlerFunc

	Auth         *auth.Handler
	Account      *account.Handler
	Role         *role.Handler
	Category     *category.Handler
	Thread       *thread.Handler
	Moderation   *moderation.Handler
	Conversation *conversation.Handler
}

// Pages are the page-level collaborators: the access gate and the public page cache.
type Pages struct {
	Gate *gate.Gate

	// Cache wraps the public pages. Nil disables caching.
	Cache func(http.Handler) http.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// context bounds background work owned by the middleware (rate limiter cleanup).
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, pages Pages, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Public Pages
	// Identical for every visitor, so their payloads may be cached by path.
	r.Group(func(public chi.Router) {
		if pages.Cache != nil {
			public.Use(pages.Cache)
		}
		public.Get(constants.PathForum, h.Category.ForumPage)
		public.Get(constants.PathForum+"/{slug}", h.Thread.CategoryPage)
		public.Get(constants.PathForumThread+"{id}", h.Thread.ThreadPage)
		public.Get(constants.PathProfile+"{id}", h.Account.PublicProfile)
	})

	// # Gated Pages
	r.With(pages.Gate.Require(gate.AdminOrAbove)).Get(constants.PathAdmin, h.Role.DashboardPage)
	r.With(pages.Gate.Require(gate.AdminOrAbove)).Get(constants.PathAdminUsers, h.Role.UsersPage)
	r.With(pages.Gate.Require(gate.ModOrAbove)).Get(constants.PathMod, h.Moderation.QueuePage)
	r.With(pages.Gate.Require(gate.Authenticated)).Get(constants.PathMessages, h.Conversation.MessagesPage)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/me", h.Account.MeRoutes())
		api.Get("/users/{id}", h.Account.PublicProfile)
		api.Mount("/threads", h.Thread.APIRoutes())
		api.Mount("/admin", h.Role.APIRoutes())
		api.Mount("/mod", h.Moderation.APIRoutes())
		api.Mount("/conversations", h.Conversation.APIRoutes())
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

// Handler returns the root router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
