package bi

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fricdix/bi-dashboard/internal/domain"
	"github.com/fricdix/bi-dashboard/internal/observability"
)

// CachedClient is a read-through Redis cache in front of the data API.
// Cache trouble degrades to a direct upstream fetch; it never fails a read.
type CachedClient struct {
	inner   Client
	redis   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewCachedClient wraps the client with a response cache. Hits and misses
// feed the service counters.
func NewCachedClient(inner Client, rdb *redis.Client, ttl time.Duration, logger *zap.Logger, metrics *observability.Metrics) *CachedClient {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedClient{inner: inner, redis: rdb, ttl: ttl, logger: logger, metrics: metrics}
}

func (c *CachedClient) Summary(ctx context.Context) (*domain.Summary, error) {
	return cached(ctx, c, "bi:summary", c.inner.Summary)
}

func (c *CachedClient) TimeSeries(ctx context.Context) (*domain.TimeSeries, error) {
	return cached(ctx, c, "bi:timeseries", c.inner.TimeSeries)
}

func (c *CachedClient) Influencers(ctx context.Context) ([]domain.Influencer, error) {
	return cachedSlice(ctx, c, "bi:influencers", c.inner.Influencers)
}

func (c *CachedClient) Recommendations(ctx context.Context) ([]domain.Recommendation, error) {
	return cachedSlice(ctx, c, "bi:recommendations", c.inner.Recommendations)
}

func (c *CachedClient) Reports(ctx context.Context, filter domain.ReportFilter) (*domain.ReportPage, error) {
	key := "bi:reports:" + filterQuery(filter, "").Encode()
	return cached(ctx, c, key, func(ctx context.Context) (*domain.ReportPage, error) {
		return c.inner.Reports(ctx, filter)
	})
}

// ExportReport streams straight from upstream; exports are one-shot
// downloads and not worth caching.
func (c *CachedClient) ExportReport(ctx context.Context, filter domain.ReportFilter, format string) (io.ReadCloser, string, error) {
	return c.inner.ExportReport(ctx, filter, format)
}

func cached[T any](ctx context.Context, c *CachedClient, key string, fetch func(context.Context) (*T, error)) (*T, error) {
	if c.redis != nil {
		if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
			var value T
			if err := json.Unmarshal(raw, &value); err == nil {
				c.metrics.RecordCacheHit(key)
				return &value, nil
			}
		}
	}
	c.metrics.RecordCacheMiss(key)

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, value)
	return value, nil
}

func cachedSlice[T any](ctx context.Context, c *CachedClient, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if c.redis != nil {
		if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
			var value []T
			if err := json.Unmarshal(raw, &value); err == nil {
				c.metrics.RecordCacheHit(key)
				return value, nil
			}
		}
	}
	c.metrics.RecordCacheMiss(key)

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, value)
	return value, nil
}

func (c *CachedClient) store(ctx context.Context, key string, value any) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
