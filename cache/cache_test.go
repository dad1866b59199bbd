package cache

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"darksky-sensors/datasource"
	"darksky-sensors/models"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) GetForecast(ctx context.Context, req datasource.Request) (*models.Forecast, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Forecast{Timezone: "UTC", Fetched: time.Now(), Flags: models.Flags{Units: models.UnitsSI}}, nil
}

func (s *countingSource) Name() string { return "counting" }

type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string) (*models.Forecast, bool, error) {
	return nil, false, errors.New("connection reset")
}

func (brokenStore) Set(ctx context.Context, key string, f *models.Forecast, ttl time.Duration) error {
	return errors.New("connection reset")
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	forecast := &models.Forecast{Timezone: "UTC"}
	if err := store.Set(ctx, "k", forecast, time.Minute); err != nil {
		t.Fatal(err)
	}

	if got, found, _ := store.Get(ctx, "k"); !found || got != forecast {
		t.Fatal("expected a hit before expiry")
	}

	now = now.Add(time.Minute)
	if _, found, _ := store.Get(ctx, "k"); found {
		t.Error("expected a miss at expiry")
	}
	if removed := store.Prune(); removed != 1 {
		t.Errorf("Prune() = %d, want 1", removed)
	}
}

func TestCachedForecastSource(t *testing.T) {
	src := &countingSource{}
	cached := NewCachedForecastSource(src, NewMemoryStore(), time.Minute, quietLogger())
	req := datasource.Request{Latitude: 1, Longitude: 2, Language: "en", Units: models.UnitsSI}

	first, err := cached.GetForecast(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cached.GetForecast(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first != second || src.calls != 1 {
		t.Errorf("expected the second call to be served from cache, calls = %d", src.calls)
	}

	other := req
	other.Language = "de"
	if _, err := cached.GetForecast(context.Background(), other); err != nil {
		t.Fatal(err)
	}
	if src.calls != 2 {
		t.Errorf("a different request must miss, calls = %d", src.calls)
	}

	hits, misses := cached.CacheStats()
	if hits != 1 || misses != 2 {
		t.Errorf("CacheStats() = %d, %d; want 1, 2", hits, misses)
	}
	if cached.Name() != "counting [Cached]" {
		t.Errorf("Name() = %q", cached.Name())
	}
}

func TestCachedForecastSourceErrors(t *testing.T) {
	t.Run("failed fetch is not cached", func(t *testing.T) {
		src := &countingSource{err: datasource.ErrUpstream}
		cached := NewCachedForecastSource(src, NewMemoryStore(), time.Minute, quietLogger())

		for i := 0; i < 2; i++ {
			if _, err := cached.GetForecast(context.Background(), datasource.Request{}); !errors.Is(err, datasource.ErrUpstream) {
				t.Fatalf("expected ErrUpstream, got %v", err)
			}
		}
		if src.calls != 2 {
			t.Errorf("calls = %d, want 2", src.calls)
		}
	})

	t.Run("broken store falls through", func(t *testing.T) {
		src := &countingSource{}
		cached := NewCachedForecastSource(src, brokenStore{}, time.Minute, quietLogger())
		if _, err := cached.GetForecast(context.Background(), datasource.Request{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestForecastEncoding(t *testing.T) {
	forecast := &models.Forecast{
		Timezone:  "UTC",
		Currently: models.DataPoint{Temperature: models.Float(21.4)},
		Flags:     models.Flags{Units: models.UnitsUK2},
	}
	data, err := encodeForecast(forecast)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := decodeForecast(data)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Flags.Units != models.UnitsUK2 || *decoded.Currently.Temperature != 21.4 || decoded.Currently.Humidity != nil {
		t.Errorf("decoded = %+v", decoded)
	}

	if _, err := encodeForecast(nil); err == nil {
		t.Error("expected an error for a nil forecast")
	}
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("DARKSKY_TEST_REDIS_URL")
	if url == "" {
		t.Skip("DARKSKY_TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		t.Fatal(err)
	}
	client := redis.NewClient(opt)
	defer client.Close()

	store := NewRedisStore(client)
	ctx := context.Background()
	key := "test:" + t.Name()

	if _, found, err := store.Get(ctx, key+":missing"); err != nil || found {
		t.Fatalf("expected a clean miss, got found=%t err=%v", found, err)
	}
	if err := store.Set(ctx, key, &models.Forecast{Timezone: "UTC"}, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, found, err := store.Get(ctx, key)
	if err != nil || !found || got.Timezone != "UTC" {
		t.Fatalf("Get() = %+v, %t, %v", got, found, err)
	}
}
