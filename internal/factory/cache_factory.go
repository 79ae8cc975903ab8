package factory

import (
	"github.com/phishdefender/phish-defender/internal/adapters/cache"
	"github.com/phishdefender/phish-defender/internal/analyzer"
	"github.com/phishdefender/phish-defender/internal/config"
	"github.com/phishdefender/phish-defender/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates the verdict cache and the analyzer service on top of it
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateVerdictCache creates the in-memory verdict cache. The caller owns
// the cleanup goroutine and must call Stop.
func (f *CacheFactory) CreateVerdictCache() (*cache.MemoryCache, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, err
	}
	return cache.NewMemoryCache(f.logger, cacheCfg.CleanupFrequency), nil
}

// CreateAnalyzer creates the analyzer service backed by c. A nil c runs
// the analyzers uncached.
func (f *CacheFactory) CreateAnalyzer(c *cache.MemoryCache) (*analyzer.Service, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, err
	}
	var vc core.VerdictCache
	if c != nil {
		vc = c
	}
	return analyzer.NewService(vc, f.logger, cacheCfg.Enabled, cacheCfg.TTL), nil
}
