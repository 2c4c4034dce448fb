// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache for rendered public responses.
// Post pages carry the rendered markdown body and the approved comment
// tree; caching the serialized response skips the database and the
// artifact read on repeat requests.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached responses.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered response stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages cached public responses in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// PostKey is the cache key for one post page in one locale.
func PostKey(locale, slug string) string {
	return locale + ":post:" + slug
}

// ListKey is the cache key for the post listing in one locale.
func ListKey(locale string) string {
	return locale + ":posts"
}

// Get retrieves a cached response body. Returns false on miss.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a response body under the key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, body []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// Invalidate removes one cached response.
func (pc *PageCache) Invalidate(ctx context.Context, key string) {
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil {
		slog.Warn("page cache invalidate error", "key", key, "error", err)
	}
}

// InvalidatePost drops a post's cached page and the listing for every
// locale the post translates into. Called after saves, deletes, and
// comment approvals, since all of them change what the page shows.
func (pc *PageCache) InvalidatePost(ctx context.Context, slugsByLocale map[string]string) {
	for locale, slug := range slugsByLocale {
		pc.Invalidate(ctx, PostKey(locale, slug))
		pc.Invalidate(ctx, ListKey(locale))
	}
}
