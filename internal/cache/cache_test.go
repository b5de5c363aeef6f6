// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, responseKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	require.NoError(t, err)
	assert.Equal(t, "PONG", pong)
}

func TestKeyVariesByUserAgent(t *testing.T) {
	a := Key("/v1/categories", "curl/8.0")
	b := Key("/v1/categories", "Mozilla/5.0")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Key("/v1/categories", "curl/8.0"))
	assert.Contains(t, a, responseKeyPrefix+"/v1/categories|")
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *ResponseCache
	ctx := context.Background()

	assert.Nil(t, NewResponseCache(nil, time.Minute))

	c.Set(ctx, "k", []byte("v"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	c.InvalidatePath(ctx, "/v1")

	calls := 0
	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[]`))
	}))
	for range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/categories", nil))
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}

func TestResponseCacheSetGetInvalidate(t *testing.T) {
	c := NewResponseCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	catKey := Key("/v1/categories", "ua")
	prodKey := Key("/v1/products", "ua")
	c.Set(ctx, catKey, []byte(`[{"Id":1}]`))
	c.Set(ctx, prodKey, []byte(`[]`))

	got, ok := c.Get(ctx, catKey)
	require.True(t, ok)
	assert.Equal(t, `[{"Id":1}]`, string(got))

	c.InvalidatePath(ctx, "/v1/categories")

	_, ok = c.Get(ctx, catKey)
	assert.False(t, ok)
	_, ok = c.Get(ctx, prodKey)
	assert.True(t, ok, "other paths must survive")
}

func TestResponseCacheMiddleware(t *testing.T) {
	c := NewResponseCache(testValkeyClient(t), time.Minute)

	calls := 0
	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["fresh"]`))
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/categories", nil))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/categories", nil))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, `["fresh"]`, second.Body.String())
	assert.Equal(t, 1, calls)

	other := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
	other.Header.Set("User-Agent", "another-client")
	third := httptest.NewRecorder()
	h.ServeHTTP(third, other)
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}
