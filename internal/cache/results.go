// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// results.go provides a Valkey-backed cache for computed vote results.
// Aggregation scans the whole ledger, so the results endpoint reads from
// here until a ledger or catalog change advances the generation counter.
// Entries live under results:<generation>:<key>; superseded generations
// are never read again and age out through their TTL.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"nordicos/internal/models"
)

const (
	// resultsKeyPrefix is the Valkey key prefix for cached results.
	resultsKeyPrefix = "results:"

	// generationKey holds the current results generation. It has no TTL.
	generationKey = resultsKeyPrefix + "gen"

	// DefaultResultsTTL bounds how stale results can get if an
	// invalidation is lost.
	DefaultResultsTTL = 30 * time.Second
)

// ResultsCache stores aggregated results in Valkey. Every failure is logged
// and reported as a miss, so a Valkey outage only costs recomputation.
type ResultsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultsCache creates a results cache backed by the given Valkey client.
func NewResultsCache(client *redis.Client, ttl time.Duration) *ResultsCache {
	if ttl == 0 {
		ttl = DefaultResultsTTL
	}
	return &ResultsCache{client: client, ttl: ttl}
}

func entryKey(gen int64, key string) string {
	return fmt.Sprintf("%s%d:%s", resultsKeyPrefix, gen, key)
}

// Generation returns the current generation. A missing counter is
// generation zero.
func (rc *ResultsCache) Generation(ctx context.Context) (int64, bool) {
	gen, err := rc.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		slog.Warn("results cache generation error", "error", err)
		return 0, false
	}
	return gen, true
}

// Get returns the results cached for key in generation gen.
func (rc *ResultsCache) Get(ctx context.Context, gen int64, key string) ([]models.CategoryResult, bool) {
	val, err := rc.client.Get(ctx, entryKey(gen, key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("results cache get error", "key", key, "error", err)
		return nil, false
	}

	var results []models.CategoryResult
	if err := json.Unmarshal(val, &results); err != nil {
		slog.Warn("results cache decode error", "key", key, "error", err)
		return nil, false
	}
	return results, true
}

// Set stores results for key in generation gen with the configured TTL.
// Writing to a superseded generation is harmless.
func (rc *ResultsCache) Set(ctx context.Context, gen int64, key string, results []models.CategoryResult) {
	data, err := json.Marshal(results)
	if err != nil {
		slog.Warn("results cache encode error", "key", key, "error", err)
		return
	}
	if err := rc.client.Set(ctx, entryKey(gen, key), data, rc.ttl).Err(); err != nil {
		slog.Warn("results cache set error", "key", key, "error", err)
	}
}

// InvalidateAll advances the generation, which hides every cached result.
// A single vote changes both the global view and its category view, so
// entries are never cleared singly.
func (rc *ResultsCache) InvalidateAll(ctx context.Context) {
	gen, err := rc.client.Incr(ctx, generationKey).Result()
	if err != nil {
		slog.Warn("results cache invalidate error", "error", err)
		return
	}
	slog.Debug("results cache invalidated", "generation", gen)
}
