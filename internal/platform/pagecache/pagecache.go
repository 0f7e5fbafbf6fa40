// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pagecache keeps rendered public page payloads in Redis, keyed by path.

Reads are served from the cache until a mutation revalidates the paths whose
content it changed. The TTL only bounds staleness when a revalidation is lost.
*/
package pagecache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-support/internal/platform/constants"
	"github.com/taibuivan/yomira-support/internal/platform/ctxutil"
)

const (
	fieldContentType = "ct"
	fieldBody        = "body"

	// maxEntrySize keeps a runaway listing out of Redis.
	maxEntrySize = 512 << 10
)

// Entry is one cached page response.
type Entry struct {
	ContentType string
	Body        []byte
}

// Cache is the Redis-backed page cache.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New creates a [Cache]. A zero ttl disables caching; revalidation still runs.
func New(client redis.UniversalClient, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// key normalizes page so that "//support/forum/" and "/support/forum" share one entry.
func key(page string) string {
	if page == "" {
		page = "/"
	}
	return constants.RedisPrefixPage + path.Clean(page)
}

// Get returns the entry for page. ok is false on a miss.
func (cache *Cache) Get(ctx context.Context, page string) (entry *Entry, ok bool, err error) {
	values, err := cache.client.HGetAll(ctx, key(page)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("pagecache_get_failed: %w", err)
	}

	body, found := values[fieldBody]
	if !found {
		return nil, false, nil
	}

	return &Entry{ContentType: values[fieldContentType], Body: []byte(body)}, true, nil
}

// Set stores entry for page with the cache TTL.
func (cache *Cache) Set(ctx context.Context, page string, entry Entry) error {
	if cache.ttl <= 0 {
		return nil
	}

	k := key(page)
	_, err := cache.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, fieldContentType, entry.ContentType, fieldBody, entry.Body)
		pipe.Expire(ctx, k, cache.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("pagecache_set_failed: %w", err)
	}

	return nil
}

// Revalidate drops the cached payloads of paths so the next read renders fresh data.
func (cache *Cache) Revalidate(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	keys := make([]string, 0, len(paths))
	for _, page := range paths {
		keys = append(keys, key(page))
	}

	if err := cache.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("pagecache_revalidate_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).DebugContext(ctx, "pages_revalidated", slog.Any("paths", paths))
	return nil
}

// # Middleware

type bufferingWriter struct {
	http.ResponseWriter
	status int
	buffer bytes.Buffer
}

func (writer *bufferingWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}

func (writer *bufferingWriter) Write(p []byte) (int, error) {
	if writer.status == 0 {
		writer.status = http.StatusOK
	}
	if writer.buffer.Len()+len(p) <= maxEntrySize {
		writer.buffer.Write(p)
	} else {
		// Too large to cache; stop buffering but keep serving
		writer.status = -1
	}
	return writer.ResponseWriter.Write(p)
}

// Middleware serves GET requests without a query string from the cache and
// stores successful responses on a miss. Redis failures degrade to an uncached
// render.
func (cache *Cache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodGet || request.URL.RawQuery != "" {
			next.ServeHTTP(writer, request)
			return
		}

		ctx := request.Context()
		page := request.URL.Path
		logger := ctxutil.GetLogger(ctx)

		entry, ok, err := cache.Get(ctx, page)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.WarnContext(ctx, "pagecache_unavailable", slog.Any("error", err))
		}

		if ok {
			writer.Header().Set("Content-Type", entry.ContentType)
			writer.Header().Set(constants.HeaderXPageCache, "HIT")
			writer.WriteHeader(http.StatusOK)
			_, _ = writer.Write(entry.Body)
			return
		}

		writer.Header().Set(constants.HeaderXPageCache, "MISS")
		buffered := &bufferingWriter{ResponseWriter: writer}
		next.ServeHTTP(buffered, request)

		if buffered.status != http.StatusOK {
			return
		}

		stored := Entry{ContentType: writer.Header().Get("Content-Type"), Body: buffered.buffer.Bytes()}
		if err := cache.Set(ctx, page, stored); err != nil {
			logger.WarnContext(ctx, "pagecache_store_failed", slog.Any("error", err))
		}
	})
}
