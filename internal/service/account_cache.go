package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/businesstalksnetwork/erp-ai-assistant-sub012/pkg/redis"
)

// AccountGetter is the slice of the account repository the cache needs.
type AccountGetter interface {
	GetAccountCode(ctx context.Context, tenantID, accountID string) (string, error)
	GetAccountCodes(ctx context.Context, tenantID string, accountIDs []string) (map[string]string, error)
}

// AccountCache layers an in-memory map and Redis over the account store so
// repeated fixed-line resolutions avoid database round-trips. It implements
// engine.AccountStore.
type AccountCache struct {
	repo     AccountGetter
	redis    *redis.Client
	logger   *zap.Logger
	memCache *memoryCache
	ttl      time.Duration
}

type memoryCache struct {
	mu     sync.RWMutex
	data   map[string]*cacheEntry
	maxAge time.Duration
}

type cacheEntry struct {
	code     string
	cachedAt time.Time
}

// NewAccountCache creates the cache. redisClient may be nil, in which case
// only the memory layer is used.
func NewAccountCache(repo AccountGetter, redisClient *redis.Client, logger *zap.Logger) *AccountCache {
	return &AccountCache{
		repo:     repo,
		redis:    redisClient,
		logger:   logger,
		memCache: newMemoryCache(5 * time.Minute),
		ttl:      5 * time.Minute,
	}
}

func newMemoryCache(maxAge time.Duration) *memoryCache {
	mc := &memoryCache{
		data:   make(map[string]*cacheEntry),
		maxAge: maxAge,
	}
	go mc.cleanupLoop()
	return mc
}

// cleanupLoop drops expired entries for the life of the process so a
// long-running service does not accumulate stale tenant/account keys.
func (mc *memoryCache) cleanupLoop() {
	ticker := time.NewTicker(mc.maxAge)
	defer ticker.Stop()

	for range ticker.C {
		mc.evictExpired()
	}
}

func (mc *memoryCache) evictExpired() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for key, entry := range mc.data {
		if time.Since(entry.cachedAt) > mc.maxAge {
			delete(mc.data, key)
		}
	}
}

// GetAccountCode resolves an account id to its ledger code, checking memory,
// then Redis, then the account store. Store errors pass through unchanged.
func (c *AccountCache) GetAccountCode(ctx context.Context, tenantID, accountID string) (string, error) {
	key := c.cacheKey(tenantID, accountID)

	if code, ok := c.memCache.get(key); ok {
		accountCacheRequests.WithLabelValues("hit_memory").Inc()
		return code, nil
	}

	if c.redis != nil {
		if code, err := c.redis.Get(ctx, key); err == nil && code != "" {
			accountCacheRequests.WithLabelValues("hit_redis").Inc()
			c.memCache.set(key, code)
			return code, nil
		}
	}

	accountCacheRequests.WithLabelValues("miss").Inc()

	code, err := c.repo.GetAccountCode(ctx, tenantID, accountID)
	if err != nil {
		return "", err
	}

	c.store(ctx, key, code)
	return code, nil
}

// Warm batch-resolves account ids into an id->code map for the resolver's
// cache, populating both cache layers along the way.
func (c *AccountCache) Warm(ctx context.Context, tenantID string, accountIDs []string) (map[string]string, error) {
	warmed := make(map[string]string, len(accountIDs))

	var missing []string
	for _, id := range accountIDs {
		if code, ok := c.memCache.get(c.cacheKey(tenantID, id)); ok {
			warmed[id] = code
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return warmed, nil
	}

	codes, err := c.repo.GetAccountCodes(ctx, tenantID, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to warm account cache: %w", err)
	}

	for id, code := range codes {
		warmed[id] = code
		c.store(ctx, c.cacheKey(tenantID, id), code)
	}

	return warmed, nil
}

func (c *AccountCache) store(ctx context.Context, key, code string) {
	c.memCache.set(key, code)

	if c.redis != nil {
		if err := c.redis.Set(ctx, key, code, c.ttl); err != nil {
			c.logger.Warn("failed to cache account code in redis",
				zap.Error(err),
				zap.String("key", key))
		}
	}
}

func (c *AccountCache) cacheKey(tenantID, accountID string) string {
	return fmt.Sprintf("account:%s:%s", tenantID, accountID)
}

func (mc *memoryCache) get(key string) (string, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	entry, exists := mc.data[key]
	if !exists {
		return "", false
	}

	if time.Since(entry.cachedAt) > mc.maxAge {
		return "", false
	}

	return entry.code, true
}

func (mc *memoryCache) set(key, code string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.data[key] = &cacheEntry{
		code:     code,
		cachedAt: time.Now(),
	}
}
