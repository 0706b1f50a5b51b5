// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/rickmorty/internal/platform/constants"
)

// CachedSource decorates a [Source] with a Redis read-through cache.
//
// # Failure Policy
//
// The cache is best-effort. Redis errors are logged and the call falls
// through to the wrapped source; upstream failures are never cached.
type CachedSource struct {
	next   Source
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedSource wraps next with a Redis cache whose entries live for ttl.
func NewCachedSource(next Source, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// PageKey returns the cache key for a page number.
func PageKey(page int) string {
	return fmt.Sprintf("%s%d", constants.RedisPrefixCharacterPage, page)
}

// CharacterKey returns the cache key for a character ID.
func CharacterKey(id int) string {
	return fmt.Sprintf("%s%d", constants.RedisPrefixCharacter, id)
}

// FetchPage serves the page from Redis when present, otherwise from the
// wrapped source, storing successful results.
func (source *CachedSource) FetchPage(ctx context.Context, page int) (Page, error) {
	key := PageKey(page)

	var cached Page
	if source.load(ctx, key, &cached) {
		return cached, nil
	}

	result, err := source.next.FetchPage(ctx, page)
	if err != nil {
		return Page{}, err
	}

	source.store(ctx, key, result)
	return result, nil
}

// FetchCharacter serves the character from Redis when present, otherwise
// from the wrapped source, storing successful results.
func (source *CachedSource) FetchCharacter(ctx context.Context, id int) (Character, error) {
	key := CharacterKey(id)

	var cached Character
	if source.load(ctx, key, &cached) {
		return cached, nil
	}

	result, err := source.next.FetchCharacter(ctx, id)
	if err != nil {
		return Character{}, err
	}

	source.store(ctx, key, result)
	return result, nil
}

// load reports whether key was found and decoded into target.
func (source *CachedSource) load(ctx context.Context, key string, target any) bool {
	raw, err := source.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			source.logger.WarnContext(ctx, "redis_cache_get_failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
		return false
	}

	if err := json.Unmarshal(raw, target); err != nil {
		source.logger.WarnContext(ctx, "redis_cache_decode_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return false
	}

	source.logger.DebugContext(ctx, "redis_cache_hit", slog.String("key", key))
	return true
}

func (source *CachedSource) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		source.logger.WarnContext(ctx, "redis_cache_encode_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return
	}

	if err := source.client.Set(ctx, key, raw, source.ttl).Err(); err != nil {
		source.logger.WarnContext(ctx, "redis_cache_set_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
