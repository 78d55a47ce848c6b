package dataset

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/gridiron-predictor/internal/metrics"
)

// CachedProvider wraps a StatsProvider with a TTL cache. Completed seasons
// never change upstream, so even a short TTL removes almost all repeat
// provider traffic within a run.
type CachedProvider struct {
	provider StatsProvider
	cache    *cache.Cache
	ttl      time.Duration
	maxItems int
	logger   *log.Logger

	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewCachedProvider wraps provider with an in-memory cache
func NewCachedProvider(provider StatsProvider, ttl time.Duration, maxItems int, logger *log.Logger) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache.New(ttl, ttl*2),
		ttl:      ttl,
		maxItems: maxItems,
		logger:   logger,
	}
}

func seasonKey(season int) string {
	return fmt.Sprintf("season:%d", season)
}

func gameKey(gameID string) string {
	return "game:" + gameID
}

// FetchSeason returns the cached season when present, otherwise delegates
func (c *CachedProvider) FetchSeason(ctx context.Context, season int) ([]RawGame, error) {
	key := seasonKey(season)
	if cached, found := c.cache.Get(key); found {
		if games, ok := cached.([]RawGame); ok {
			c.recordHit()
			return games, nil
		}
	}
	c.recordMiss()

	games, err := c.provider.FetchSeason(ctx, season)
	if err != nil {
		return nil, err
	}
	c.set(key, games)
	return games, nil
}

// FetchGame returns the cached game when present, otherwise delegates
func (c *CachedProvider) FetchGame(ctx context.Context, gameID string) (*RawGame, error) {
	key := gameKey(gameID)
	if cached, found := c.cache.Get(key); found {
		if game, ok := cached.(*RawGame); ok {
			c.recordHit()
			return game, nil
		}
	}
	c.recordMiss()

	game, err := c.provider.FetchGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	c.set(key, game)
	return game, nil
}

func (c *CachedProvider) set(key string, value interface{}) {
	// Check size limit
	if c.maxItems > 0 && c.cache.ItemCount() >= c.maxItems {
		// Remove expired items first
		c.cache.DeleteExpired()
	}
	c.cache.Set(key, value, c.ttl)
}

// Name returns the underlying provider's name
func (c *CachedProvider) Name() string {
	return c.provider.Name()
}

// IsEnabled returns whether the underlying provider is enabled
func (c *CachedProvider) IsEnabled() bool {
	return c.provider.IsEnabled()
}

// InvalidateSeason drops one season from the cache
func (c *CachedProvider) InvalidateSeason(season int) {
	c.cache.Delete(seasonKey(season))
}

// Clear flushes the entire cache
func (c *CachedProvider) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.hitCount = 0
	c.missCount = 0
}

// Stats returns cache statistics
func (c *CachedProvider) Stats() (hits, misses uint64, ratio float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hits = c.hitCount
	misses = c.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (c *CachedProvider) ItemCount() int {
	return c.cache.ItemCount()
}

func (c *CachedProvider) recordHit() {
	c.mu.Lock()
	c.hitCount++
	c.mu.Unlock()
	metrics.RecordCacheEvent(c.provider.Name(), "hit")
}

func (c *CachedProvider) recordMiss() {
	c.mu.Lock()
	c.missCount++
	c.mu.Unlock()
	metrics.RecordCacheEvent(c.provider.Name(), "miss")
}
