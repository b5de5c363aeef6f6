// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache of rendered JSON responses.
// Entries are keyed by request path and a hash of the User-Agent header, so
// every client variant gets its own copy. A nil *ResponseCache is valid and
// caches nothing, which is how the cache is disabled.
package cache

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached responses.
	responseKeyPrefix = "resp:"

	// DefaultResponseTTL is how long a response stays cached.
	DefaultResponseTTL = 30 * time.Second
)

// ResponseCache stores response bodies in Valkey.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey
// client. Returns nil when client is nil.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Key returns the cache key for a request path as seen by a user agent.
func Key(path, userAgent string) string {
	return responseKeyPrefix + path + "|" + strconv.FormatUint(xxhash.Sum64String(userAgent), 16)
}

// Get retrieves a cached body. Returns false on a miss or any Valkey error.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("response cache get error")
		return nil, false
	}
	return val, true
}

// Set stores a body under key with the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("response cache set error")
	}
}

// InvalidatePath removes every cached variant of every path starting with
// pathPrefix.
func (c *ResponseCache) InvalidatePath(ctx context.Context, pathPrefix string) {
	if c == nil {
		return
	}
	logger := zerolog.Ctx(ctx)
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, responseKeyPrefix+pathPrefix+"*", 100).Result()
		if err != nil {
			logger.Warn().Err(err).Msg("response cache scan error")
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				logger.Warn().Err(err).Msg("response cache bulk delete error")
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		logger.Debug().Int("deleted", deleted).Str("prefix", pathPrefix).Msg("response cache invalidated")
	}
}

// Middleware serves GET requests from the cache and stores successful
// responses on a miss. Responses carry X-Cache: HIT or MISS.
func (c *ResponseCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c == nil || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := Key(r.URL.Path, r.UserAgent())
		if body, ok := c.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if rec.status == http.StatusOK {
			c.Set(r.Context(), key, rec.body.Bytes())
		}
	})
}

// recorder tees the response body so it can be cached after the handler returns.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
