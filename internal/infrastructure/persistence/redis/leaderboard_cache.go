package redis

import (
	"context"
	"time"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// CACHED LEADERBOARD READER
// ══════════════════════════════════════════════════════════════════════════════

// keyLeaderboardTop is the cache key for the top-N projection.
// The projection is one JSON blob: the leaderboard is small and always
// read whole, so a sorted set buys nothing here.
const keyLeaderboardTop = "leaderboard:top"

// DefaultLeaderboardTTL bounds staleness when an invalidation is missed.
const DefaultLeaderboardTTL = 30 * time.Second

// CachedLeaderboard decorates a leaderboard.Reader with a Redis cache.
// It also implements the invalidation hook the command side calls after
// a point award.
type CachedLeaderboard struct {
	source leaderboard.Reader
	cache  *Cache
	ttl    time.Duration
}

// NewCachedLeaderboard creates a new CachedLeaderboard. A nil cache
// disables caching; every read then falls through to the source.
func NewCachedLeaderboard(source leaderboard.Reader, cache *Cache, ttl time.Duration) *CachedLeaderboard {
	if ttl <= 0 {
		ttl = DefaultLeaderboardTTL
	}
	return &CachedLeaderboard{
		source: source,
		cache:  cache,
		ttl:    ttl,
	}
}

// TopAccounts returns the cached projection when it is fresh and covers
// the requested limit, and rebuilds it from the source otherwise. Cache
// failures never fail the read.
func (c *CachedLeaderboard) TopAccounts(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 {
		limit = leaderboard.DefaultLimit
	}

	if c.cache != nil {
		var cached []leaderboard.Entry
		err := c.cache.Get(ctx, keyLeaderboardTop, &cached)
		if err == nil && len(cached) >= limit {
			return cached[:limit], nil
		}
		// A miss, a short projection, or a degraded cache all fall
		// through to the source.
	}

	entries, err := c.source.TopAccounts(ctx, limit)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, keyLeaderboardTop, entries, c.ttl)
	}

	return entries, nil
}

// Invalidate drops the cached projection so the next read rebuilds it.
func (c *CachedLeaderboard) Invalidate(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Delete(ctx, keyLeaderboardTop)
}
