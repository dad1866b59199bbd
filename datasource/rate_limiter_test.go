package datasource

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"darksky-sensors/models"
)

// mockForecastSource counts calls and optionally fails
type mockForecastSource struct {
	mutex     sync.Mutex
	callCount int
	err       error
}

func (m *mockForecastSource) GetForecast(ctx context.Context, req Request) (*models.Forecast, error) {
	m.mutex.Lock()
	m.callCount++
	m.mutex.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return &models.Forecast{Latitude: req.Latitude, Longitude: req.Longitude, Flags: models.Flags{Units: req.Units}}, nil
}

func (m *mockForecastSource) Name() string {
	return "MockSource"
}

func (m *mockForecastSource) calls() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.callCount
}

func TestRateLimitedForecastSource(t *testing.T) {
	t.Run("forwards within burst", func(t *testing.T) {
		mock := &mockForecastSource{}
		limited := NewRateLimitedForecastSource(mock, 1000, 3)

		for i := 0; i < 3; i++ {
			f, err := limited.GetForecast(context.Background(), Request{Latitude: 1, Longitude: 2, Units: models.UnitsSI})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Flags.Units != models.UnitsSI {
				t.Errorf("expected si units, got %s", f.Flags.Units)
			}
		}
		if mock.calls() != 3 {
			t.Errorf("expected 3 calls, got %d", mock.calls())
		}
	})

	t.Run("gives up when the wait exceeds the deadline", func(t *testing.T) {
		mock := &mockForecastSource{}
		limited := NewRateLimitedForecastSource(mock, 0.001, 1)

		if _, err := limited.GetForecast(context.Background(), Request{}); err != nil {
			t.Fatalf("first call should pass: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if _, err := limited.GetForecast(ctx, Request{}); err == nil {
			t.Fatal("expected rate limit error")
		}
		if mock.calls() != 1 {
			t.Errorf("expected the source to be called once, got %d", mock.calls())
		}
	})

	t.Run("passes source errors through", func(t *testing.T) {
		mock := &mockForecastSource{err: ErrUpstream}
		limited := NewRateLimitedForecastSource(mock, 1000, 1)

		_, err := limited.GetForecast(context.Background(), Request{})
		if !errors.Is(err, ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", err)
		}
	})

	t.Run("name", func(t *testing.T) {
		limited := NewRateLimitedForecastSource(&mockForecastSource{}, 1, 1)
		if limited.Name() != "MockSource [Rate Limited]" {
			t.Errorf("unexpected name %q", limited.Name())
		}
	})
}

func TestRequestKey(t *testing.T) {
	req := Request{Latitude: 39.11539, Longitude: -107.6584, Language: "en", Units: models.UnitsUS}
	if got := req.Key(); got != "39.1154,-107.6584:en:us" {
		t.Errorf("unexpected key %q", got)
	}
}
