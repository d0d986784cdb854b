package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/hilamalka1/onboard-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached projections.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// CacheService wraps projection cache access with metrics and logging.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
	generation atomic.Uint64
}

// NewCacheService constructs a cache service. A disabled service turns every call into a miss.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get loads key into dest and reports whether the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

// Set stores value under key. ttl <= 0 uses the default.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Generation counts writes that made cached projections stale.
func (s *CacheService) Generation() uint64 {
	if s == nil {
		return 0
	}
	return s.generation.Load()
}

// MarkStale advances the generation, so projections computed before a write are not stored.
func (s *CacheService) MarkStale() {
	if s != nil {
		s.generation.Add(1)
	}
}

// SetIfCurrent stores value only while the generation still equals gen.
func (s *CacheService) SetIfCurrent(ctx context.Context, key string, value interface{}, ttl time.Duration, gen uint64) error {
	if s.Generation() != gen {
		s.logger.Debug("skip stale projection write", zap.String("key", key))
		return nil
	}
	return s.Set(ctx, key, value, ttl)
}

// Invalidate removes every key matching pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}
	removed, err := s.repo.DeleteByPattern(ctx, pattern)
	s.metrics.RecordInvalidation(removed)
	if err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return removed, err
	}
	return removed, nil
}
