package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// Cache key layout.
const (
	dashboardCacheKey     = "dashboard:summary"
	dashboardCachePattern = "dashboard:*"
	insuranceCacheKey     = "insurance:policies"
	insuranceCachePattern = "insurance:*"
	reportCachePrefix     = "report:class:"
)

func reportCacheKey(classID, denominator string) string {
	return fmt.Sprintf("%s%s:%s", reportCachePrefix, classID, denominator)
}

func reportCachePattern(classID string) string {
	return reportCachePrefix + classID + ":*"
}

// CacheService fronts the cache repository with hit/miss metrics. A nil or
// disabled service misses every read.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
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

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
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

// Set stores the value in cache.
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

// InvalidateClass drops the cached reports of one class along with the
// dashboard, whose counts any roster or attendance change moves.
func (s *CacheService) InvalidateClass(ctx context.Context, classID string) error {
	return s.Invalidate(ctx, reportCachePattern(classID), dashboardCachePattern)
}

// Invalidate removes cached values for the provided patterns. Failures are
// logged and the first one is returned.
func (s *CacheService) Invalidate(ctx context.Context, patterns ...string) error {
	if !s.Enabled() {
		return nil
	}
	var first error
	for _, pattern := range patterns {
		removed, err := s.repo.DeleteByPattern(ctx, pattern)
		if err != nil {
			s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
			if first == nil {
				first = err
			}
			continue
		}
		if removed > 0 {
			s.logger.Debug("cache invalidated", zap.String("pattern", pattern), zap.Int("keys", removed))
		}
	}
	return first
}

// readThrough serves key from cache or runs load and stores its result for
// ttl. Cache failures degrade to a load; only load errors are returned.
func readThrough[T any](ctx context.Context, c *CacheService, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, bool, error) {
	var cached T
	if hit, err := c.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}
	fresh, err := load(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	_ = c.Set(ctx, key, fresh, ttl)
	return fresh, false, nil
}
