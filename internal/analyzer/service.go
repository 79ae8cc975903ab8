package analyzer

import (
	"context"
	"errors"
	"time"

	"github.com/phishdefender/phish-defender/internal/core"
	"go.uber.org/zap"
)

// Service runs the analyzers for the TUI, the CLI and the drop box, with
// verdict caching and logging on top of the pure rule sets
type Service struct {
	cache        core.VerdictCache
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewService creates a new analyzer service
func NewService(
	cache core.VerdictCache,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
) *Service {
	return &Service{
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
	}
}

// AnalyzeURL analyzes a URL. Parse failures are returned alongside the
// fail-safe result and are never cached.
func (s *Service) AnalyzeURL(ctx context.Context, input string) (*core.AnalysisResult, error) {
	key := cacheKey(core.AnalysisURL, input)
	if cached := s.lookup(ctx, key); cached != nil {
		return cached, nil
	}

	result, err := AnalyzeURL(input)
	if err != nil {
		s.logger.Debug("URL could not be parsed",
			zap.String("input", input),
			zap.Error(err))
		return result, err
	}

	s.logVerdict(result)
	s.store(ctx, key, result)
	return result, nil
}

// AnalyzeHeader analyzes a raw header block
func (s *Service) AnalyzeHeader(ctx context.Context, input string) *core.AnalysisResult {
	key := cacheKey(core.AnalysisHeader, input)
	if cached := s.lookup(ctx, key); cached != nil {
		return cached
	}

	result := AnalyzeHeader(input)
	s.logVerdict(result)
	s.store(ctx, key, result)
	return result
}

func (s *Service) lookup(ctx context.Context, key string) *core.AnalysisResult {
	if !s.cacheEnabled {
		return nil
	}
	result, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	s.logger.Debug("Cache hit for analysis", zap.String("kind", string(result.Kind)))
	return result.Clone()
}

func (s *Service) store(ctx context.Context, key string, result *core.AnalysisResult) {
	if !s.cacheEnabled {
		return
	}
	if err := s.cache.Set(ctx, key, result.Clone(), s.cacheTTL); err != nil {
		s.logger.Error("Failed to update cache", zap.Error(err))
	}
}

func (s *Service) logVerdict(result *core.AnalysisResult) {
	s.logger.Debug("Analysis complete",
		zap.String("kind", string(result.Kind)),
		zap.String("input", result.Input),
		zap.Bool("suspicious", result.Suspicious),
		zap.Strings("reasons", result.Reasons))
}

func cacheKey(kind core.AnalysisKind, input string) string {
	return string(kind) + "\x00" + input
}

// IsInvalidURL reports whether err came from unparseable URL input
func IsInvalidURL(err error) bool {
	return errors.Is(err, ErrInvalidURL)
}
