package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/mcu-dashboard-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService fronts Redis for the dashboard summary. All methods are safe
// on a nil receiver so callers can pass no cache at all; every operation
// then degrades to a miss or a no-op.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	logger     *zap.Logger
	defaultTTL time.Duration
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
	return &CacheService{
		repo:       repo,
		metrics:    metrics,
		logger:     logger,
		defaultTTL: defaultTTL,
		enabled:    enabled,
	}
}

// Enabled reports whether cache operations will actually touch the backend.
func (c *CacheService) Enabled() bool {
	return c != nil && c.enabled && c.repo != nil
}

func (c *CacheService) record(hit bool, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordCacheOperation(hit, time.Since(start))
	}
}

// Get loads a cached entry into dest and reports whether it was a hit. A
// backend failure is returned so the caller can decide whether to fall
// through to the source.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := c.repo.Get(ctx, key, dest)
	if err == nil {
		c.record(true, start)
		return true, nil
	}
	c.record(false, start)
	if errors.Is(err, appErrors.ErrCacheMiss) {
		return false, nil
	}
	c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	return false, err
}

// Set stores a value, falling back to the default TTL when none is given.
func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	start := time.Now()
	err := c.repo.Set(ctx, key, value, ttl)
	if c.metrics != nil {
		c.metrics.ObserveCacheWrite(time.Since(start))
	}
	if err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate drops every key matching the pattern. Employee and history
// writes call this with "dash:*" so the next summary recomputes.
func (c *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.repo.DeleteByPattern(ctx, pattern); err != nil {
		c.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}
