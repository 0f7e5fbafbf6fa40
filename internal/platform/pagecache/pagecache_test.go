// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagecache_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-support/internal/platform/pagecache"
)

func newCache(t *testing.T, ttl time.Duration) (*pagecache.Cache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return pagecache.New(client, ttl), server
}

func TestCache_SetGetRevalidate(t *testing.T) {
	cache, server := newCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "/support/forum")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "/support/forum", pagecache.Entry{ContentType: "application/json", Body: []byte(`{"data":[]}`)}))
	require.NoError(t, cache.Set(ctx, "/admin", pagecache.Entry{ContentType: "application/json", Body: []byte(`{}`)}))
	assert.Equal(t, time.Minute, server.TTL("page:/support/forum"))

	entry, ok, err := cache.Get(ctx, "/support/forum")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"data":[]}`, string(entry.Body))
	assert.Equal(t, "application/json", entry.ContentType)

	require.NoError(t, cache.Revalidate(ctx, "/support/forum", "/admin", "/never-cached"))
	assert.False(t, server.Exists("page:/support/forum"))
	assert.False(t, server.Exists("page:/admin"))

	assert.NoError(t, cache.Revalidate(ctx))
}

func TestCache_ZeroTTLDisablesStore(t *testing.T) {
	cache, server := newCache(t, 0)

	require.NoError(t, cache.Set(context.Background(), "/support/forum", pagecache.Entry{Body: []byte("x")}))
	assert.False(t, server.Exists("page:/support/forum"))
}

func TestMiddleware(t *testing.T) {
	cache, _ := newCache(t, time.Minute)

	renders := 0
	page := cache.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		renders++
		writer.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(writer, `{"render":%d}`, renders)
	}))

	get := func(target string) *httptest.ResponseRecorder {
		recorder := httptest.NewRecorder()
		page.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
		return recorder
	}

	first := get("/support/forum/general")
	assert.Equal(t, "MISS", first.Header().Get("X-Page-Cache"))
	assert.Equal(t, `{"render":1}`, first.Body.String())

	second := get("/support/forum/general")
	assert.Equal(t, "HIT", second.Header().Get("X-Page-Cache"))
	assert.Equal(t, `{"render":1}`, second.Body.String())
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))

	// Paginated reads bypass the cache
	paged := get("/support/forum/general?page=2")
	assert.Empty(t, paged.Header().Get("X-Page-Cache"))
	assert.Equal(t, 2, renders)

	require.NoError(t, cache.Revalidate(context.Background(), "/support/forum/general"))
	third := get("/support/forum/general")
	assert.Equal(t, "MISS", third.Header().Get("X-Page-Cache"))
	assert.Equal(t, `{"render":3}`, third.Body.String())
}

func TestMiddleware_ErrorsNotCached(t *testing.T) {
	cache, server := newCache(t, time.Minute)

	page := cache.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		http.Error(writer, "missing", http.StatusNotFound)
	}))

	recorder := httptest.NewRecorder()
	page.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/support/forum/nope", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.False(t, server.Exists("page:/support/forum/nope"))
}

func TestMiddleware_RedisDown(t *testing.T) {
	cache, server := newCache(t, time.Minute)
	server.Close()

	page := cache.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte("fresh"))
	}))

	recorder := httptest.NewRecorder()
	page.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/support/forum", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "fresh", recorder.Body.String())
}

func TestMiddleware_NonCanonicalPathSharesEntry(t *testing.T) {
	cache, server := newCache(t, time.Minute)

	body := "v1"
	page := cache.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte(body))
	}))

	get := func(target string) string {
		recorder := httptest.NewRecorder()
		page.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
		return recorder.Body.String()
	}

	assert.Equal(t, "v1", get("//support/forum"))
	assert.True(t, server.Exists("page:/support/forum"))

	body = "v2"
	require.NoError(t, cache.Revalidate(context.Background(), "/support/forum"))

	assert.Equal(t, "v2", get("/support/forum"))
	assert.Equal(t, "v2", get("//support/forum/"))
}
