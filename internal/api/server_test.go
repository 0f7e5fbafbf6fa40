// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-support/internal/api"
	"github.com/taibuivan/yomira-support/internal/forum/category"
	"github.com/taibuivan/yomira-support/internal/forum/moderation"
	"github.com/taibuivan/yomira-support/internal/forum/thread"
	"github.com/taibuivan/yomira-support/internal/messaging/conversation"
	"github.com/taibuivan/yomira-support/internal/platform/apperr"
	"github.com/taibuivan/yomira-support/internal/platform/config"
	"github.com/taibuivan/yomira-support/internal/platform/gate"
	"github.com/taibuivan/yomira-support/internal/platform/pagecache"
	"github.com/taibuivan/yomira-support/internal/platform/sec"
	"github.com/taibuivan/yomira-support/internal/users/account"
	"github.com/taibuivan/yomira-support/internal/users/auth"
	"github.com/taibuivan/yomira-support/internal/users/role"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type rejectAll struct{}

func (rejectAll) VerifyToken(string) (*sec.AuthClaims, error) { return nil, errors.New("invalid") }

// seededCategories is a read-only category store holding the defaults.
type seededCategories struct{}

func (seededCategories) Count(context.Context) (int, error) { return len(category.Defaults), nil }
func (seededCategories) InsertIfAbsent(context.Context, category.Category) (bool, error) {
	return false, nil
}
func (seededCategories) List(context.Context) ([]*category.Category, error) {
	out := make([]*category.Category, 0, len(category.Defaults))
	for _, c := range category.Defaults {
		out = append(out, &c)
	}
	return out, nil
}
func (seededCategories) FindBySlug(context.Context, string) (*category.Category, error) {
	return nil, apperr.NotFound("Category")
}
func (seededCategories) FindByID(context.Context, string) (*category.Category, error) {
	return nil, apperr.NotFound("Category")
}

func newTestServer(t *testing.T, readiness api.HealthDependencies) http.Handler {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{ServerPort: "0", Environment: "test", LoginPath: "/login", FallbackPath: "/support"}
	pages := api.Pages{
		Gate:  gate.New(gate.ResolverFunc(func(context.Context, string) (*gate.Principal, error) { return nil, apperr.NotFound("User") }), cfg.LoginPath, cfg.FallbackPath),
		Cache: pagecache.New(client, time.Minute).Middleware,
	}

	liveness, ready := api.NewHealthHandlers(readiness, discard)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, cfg, discard, rejectAll{}, pages, api.Handlers{
		Liveness:     liveness,
		Readiness:    ready,
		Auth:         auth.NewHandler(nil),
		Account:      account.NewHandler(nil),
		Role:         role.NewHandler(nil),
		Category:     category.NewHandler(category.NewService(seededCategories{}, discard)),
		Thread:       thread.NewHandler(nil),
		Moderation:   moderation.NewHandler(nil),
		Conversation: conversation.NewHandler(nil),
	})
	return server.Handler()
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return nil },
	})

	recorder := get(handler, "/health")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = get(handler, "/ready")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ready"`)
}

func TestReady_Degraded(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return errors.New("dial tcp 10.0.0.5:5432: connection refused") },
		CheckCache:    func(context.Context) error { return nil },
	})

	recorder := get(handler, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
	assert.NotContains(t, recorder.Body.String(), "10.0.0.5")
}

func TestGatedPages_RedirectAnonymous(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})

	for _, path := range []string{"/admin", "/admin/users", "/mod", "/messages"} {
		t.Run(path, func(t *testing.T) {
			recorder := get(handler, path)
			require.Equal(t, http.StatusSeeOther, recorder.Code)
			assert.Contains(t, recorder.Header().Get("Location"), "/login?callbackUrl=")
		})
	}
}

func TestPublicPages_Cached(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})

	first := get(handler, "/support/forum")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Page-Cache"))

	second := get(handler, "/support/forum")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Page-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestAPI_RequiresSession(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/api/v1/mod/threads/0190a6e4-0000-7000-8000-0000000000a1", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = get(handler, "/api/v1/me")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
