package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/phishdefender/phish-defender/internal/core"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a cache entry is not found
	ErrNotFound = errors.New("cache entry not found")
	// ErrExpired is returned when a cache entry has expired
	ErrExpired = errors.New("cache entry expired")
)

type entry struct {
	result    *core.AnalysisResult
	expiresAt time.Time
}

var _ core.VerdictCache = (*MemoryCache)(nil)

// MemoryCache is an in-memory implementation of core.VerdictCache
type MemoryCache struct {
	entries     map[string]entry
	mu          sync.RWMutex
	logger      *zap.Logger
	cleanupFreq time.Duration
	now         func() time.Time
	stopCh      chan struct{}
	stopOnce    sync.Once
	done        chan struct{}
}

// DefaultCleanupFrequency is used when NewMemoryCache gets a non-positive interval
const DefaultCleanupFrequency = 10 * time.Minute

// NewMemoryCache creates a new in-memory cache and starts its cleanup task
func NewMemoryCache(logger *zap.Logger, cleanupFreq time.Duration) *MemoryCache {
	if cleanupFreq <= 0 {
		cleanupFreq = DefaultCleanupFrequency
	}
	cache := &MemoryCache{
		entries:     make(map[string]entry),
		logger:      logger,
		cleanupFreq: cleanupFreq,
		now:         time.Now,
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}

	go cache.startCleanupTask()

	return cache
}

// Get retrieves a cached result
func (c *MemoryCache) Get(ctx context.Context, key string) (*core.AnalysisResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	if c.now().After(e.expiresAt) {
		return nil, ErrExpired
	}
	return e.result, nil
}

// Set stores a result for ttl
func (c *MemoryCache) Set(ctx context.Context, key string, result *core.AnalysisResult, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{result: result, expiresAt: c.now().Add(ttl)}
	return nil
}

// Len returns the number of entries, expired or not
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired entries
func (c *MemoryCache) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expiredCount := 0

	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expiredCount))
	return nil
}

func (c *MemoryCache) startCleanupTask() {
	defer close(c.done)

	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and waits for it to exit.
// It is safe to call more than once.
func (c *MemoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	<-c.done
}
