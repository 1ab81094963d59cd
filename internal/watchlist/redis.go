package watchlist

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheKey is the Redis key holding the cached watchlist.
const CacheKey = "optionsflow:watchlist"

// CachedSource wraps a primary Source with a Redis read-through cache.
// Reads check Redis first then fall back to the primary; a successful
// primary read repopulates the cache.
type CachedSource struct {
	primary Source
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedSource creates a cached wrapper around a primary source.
func NewCachedSource(primary Source, rdb *redis.Client, ttl time.Duration) *CachedSource {
	return &CachedSource{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

func (s *CachedSource) Load(ctx context.Context) (Symbols, error) {
	// Try cache.
	data, err := s.rdb.Get(ctx, CacheKey).Bytes()
	if err == nil {
		var syms Symbols
		if json.Unmarshal(data, &syms) == nil && syms.Len() > 0 {
			return syms, nil
		}
	}

	// Cache miss: read from primary.
	syms, err := s.primary.Load(ctx)
	if err != nil {
		return Symbols{}, err
	}

	if data, err := json.Marshal(syms); err == nil {
		s.rdb.Set(ctx, CacheKey, data, s.ttl)
	}
	return syms, nil
}

// Invalidate drops the cached copy; the next Load reads the primary.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.rdb.Del(ctx, CacheKey).Err()
}

func (s *CachedSource) Name() string { return s.primary.Name() + "+redis" }
