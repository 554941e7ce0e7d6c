// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// scrape.go provides a Valkey-backed cache for raw scrape results.
// Re-running the pipeline against an unchanged page serves the stored
// extraction instead of spinning up a browser tab.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScrapeCache stores serialized extraction bundles keyed by URL.
// Failures degrade to cache misses; the pipeline never fails on Valkey
// trouble.
type ScrapeCache struct {
	client *redis.Client
}

func NewScrapeCache(client *redis.Client) *ScrapeCache {
	return &ScrapeCache{client: client}
}

// Get returns the cached bundle for a key, or (nil, false) on miss.
func (c *ScrapeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("scrape cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a bundle with the given TTL.
func (c *ScrapeCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, val, ttl).Err(); err != nil {
		slog.Warn("scrape cache set error", "key", key, "error", err)
	}
}
