package cache

import (
	"context"
	"sync"
	"time"

	"darksky-sensors/datasource"
	"darksky-sensors/models"

	"github.com/sirupsen/logrus"
)

// CachedForecastSource wraps a ForecastSource and adds caching functionality
type CachedForecastSource struct {
	source         datasource.ForecastSource
	store          Store
	cacheDuration  time.Duration
	logger         *logrus.Entry
	mutex          sync.Mutex
	cacheHitCount  int
	cacheMissCount int
}

// NewCachedForecastSource creates a new cached wrapper around a forecast source
func NewCachedForecastSource(source datasource.ForecastSource, store Store, cacheDuration time.Duration, logger *logrus.Logger) *CachedForecastSource {
	return &CachedForecastSource{
		source:        source,
		store:         store,
		cacheDuration: cacheDuration,
		logger:        logger.WithField("component", "forecast-cache"),
	}
}

// Name returns the name of the underlying forecast source with [Cached] suffix
func (c *CachedForecastSource) Name() string {
	return c.source.Name() + " [Cached]"
}

// GetForecast fetches forecast data, using the cache when available. A broken
// store degrades to a plain fetch.
func (c *CachedForecastSource) GetForecast(ctx context.Context, req datasource.Request) (*models.Forecast, error) {
	key := req.Key()
	fields := logrus.Fields{"key": key, "source": c.source.Name()}

	forecast, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WithError(err).WithFields(fields).Warn("cache lookup failed")
	}
	if found {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		c.logger.WithFields(fields).WithField("age", time.Since(forecast.Fetched).Round(time.Second).String()).
			Debug("forecast cache hit")
		return forecast, nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	c.logger.WithFields(fields).Debug("forecast cache miss, fetching fresh data")

	forecast, err = c.source.GetForecast(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, forecast, c.cacheDuration); err != nil {
		c.logger.WithError(err).WithFields(fields).Warn("cache store failed")
	}

	return forecast, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedForecastSource) CacheStats() (hits, misses int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.cacheHitCount, c.cacheMissCount
}

// Ensure CachedForecastSource implements ForecastSource
var _ datasource.ForecastSource = (*CachedForecastSource)(nil)
