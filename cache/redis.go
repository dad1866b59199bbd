package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"darksky-sensors/models"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "darksky:forecast:"

// RedisStore shares cached forecasts between instances through redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store on top of an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get loads and decodes the forecast stored under key
func (r *RedisStore) Get(ctx context.Context, key string) (*models.Forecast, bool, error) {
	res, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("unexpected error during redis fetch(%s): %w", key, err)
	}

	forecast, err := decodeForecast(res)
	if err != nil {
		return nil, false, err
	}
	return forecast, true, nil
}

// Set encodes forecast and stores it with an expiry
func (r *RedisStore) Set(ctx context.Context, key string, forecast *models.Forecast, ttl time.Duration) error {
	data, err := encodeForecast(forecast)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("unexpected error during redis store(%s): %w", key, err)
	}
	return nil
}

func encodeForecast(forecast *models.Forecast) ([]byte, error) {
	if forecast == nil {
		return nil, errors.New("refusing to cache an empty forecast")
	}
	data, err := json.Marshal(forecast)
	if err != nil {
		return nil, fmt.Errorf("failed to encode forecast: %w", err)
	}
	return data, nil
}

func decodeForecast(data []byte) (*models.Forecast, error) {
	var forecast models.Forecast
	if err := json.Unmarshal(data, &forecast); err != nil {
		return nil, fmt.Errorf("failed to decode cached forecast: %w", err)
	}
	return &forecast, nil
}

var _ Store = (*RedisStore)(nil)
