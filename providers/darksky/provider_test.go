package darksky

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"darksky-sensors/datasource"
	"darksky-sensors/models"

	"github.com/sirupsen/logrus"
)

const sampleForecast = `{
  "latitude": 39.1154,
  "longitude": -107.6584,
  "timezone": "America/Denver",
  "currently": {
    "time": 1588291200,
    "summary": "Clear",
    "icon": "clear-day",
    "temperature": 21.37,
    "humidity": 0.31,
    "pressure": 1013.2,
    "precipProbability": 0.05
  },
  "hourly": {
    "summary": "Clear throughout the day.",
    "icon": "clear-day",
    "data": [
      {"time": 1588291200, "icon": "clear-day", "temperature": 21.37, "precipIntensity": 0.1},
      {"time": 1588294800, "icon": "partly-cloudy-day", "temperature": 22.5}
    ]
  },
  "daily": {
    "summary": "No precipitation throughout the week.",
    "icon": "clear-day",
    "data": [
      {"time": 1588269600, "icon": "clear-day", "temperatureHigh": 24.1, "temperatureLow": 9.8, "sunriseTime": 1588248000}
    ]
  },
  "alerts": [
    {"title": "Red Flag Warning", "regions": ["Mesa"], "severity": "warning", "time": 1588291200, "expires": 1588334400, "description": "Critical fire weather.", "uri": "https://alerts.example/1"}
  ],
  "flags": {"units": "si", "sources": ["cmc", "gfs"], "nearest-station": 12.3}
}`

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestClientGetForecast(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleForecast)
	}))
	defer server.Close()

	client := NewClient("secret", time.Second, 0, testLogger(), WithBaseURL(server.URL))
	forecast, err := client.GetForecast(context.Background(), datasource.Request{
		Latitude:  39.1154,
		Longitude: -107.6584,
		Language:  "en",
		Units:     models.UnitsAuto,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/forecast/secret/39.1154,-107.6584" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "lang=en&units=auto" {
		t.Errorf("query = %q", gotQuery)
	}

	if forecast.Flags.Units != models.UnitsSI {
		t.Errorf("units = %q, want si", forecast.Flags.Units)
	}
	if forecast.Currently.Temperature == nil || *forecast.Currently.Temperature != 21.37 {
		t.Errorf("currently temperature = %v", forecast.Currently.Temperature)
	}
	if forecast.Currently.WindSpeed != nil {
		t.Errorf("absent wind speed should stay nil")
	}
	if forecast.Minutely != nil {
		t.Errorf("absent minutely block should stay nil")
	}
	if forecast.Hourly == nil || len(forecast.Hourly.Data) != 2 {
		t.Fatalf("hourly block not decoded: %+v", forecast.Hourly)
	}
	if forecast.Daily == nil || forecast.Daily.At(0).SunriseTime == nil {
		t.Fatalf("daily sunrise not decoded")
	}
	if name, _ := forecast.Currently.Time.Zone(); name != "MDT" {
		t.Errorf("currently time zone = %q, want MDT", name)
	}
	if len(forecast.Alerts) != 1 || forecast.Alerts[0].Regions[0] != "Mesa" {
		t.Errorf("alerts = %+v", forecast.Alerts)
	}
	if forecast.Flags.NearestStation == nil || *forecast.Flags.NearestStation != 12.3 {
		t.Errorf("nearest station = %v", forecast.Flags.NearestStation)
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"forbidden", http.StatusForbidden, "daily usage limit exceeded", "status 403"},
		{"bad json", http.StatusOK, "{not json", "failed to parse"},
		{"bad request", http.StatusBadRequest, `{"code":400,"error":"The given location is invalid."}`, "status 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			client := NewClient("key", time.Second, 0, testLogger(), WithBaseURL(server.URL))
			_, err := client.GetForecast(context.Background(), datasource.Request{Latitude: 1, Longitude: 2})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, datasource.ErrUpstream) {
				t.Errorf("error %v does not wrap ErrUpstream", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, sampleForecast)
	}))
	defer server.Close()

	client := NewClient("key", 5*time.Second, 1, testLogger(), WithBaseURL(server.URL))
	if _, err := client.GetForecast(context.Background(), datasource.Request{Latitude: 1, Longitude: 2}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestClientUnknownTimezoneFallsBackToUTC(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"timezone":"Nowhere/Special","currently":{"time":0},"flags":{"units":"us"}}`)
	}))
	defer server.Close()

	client := NewClient("key", time.Second, 0, testLogger(), WithBaseURL(server.URL))
	forecast, err := client.GetForecast(context.Background(), datasource.Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if forecast.Currently.Time.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", forecast.Currently.Time.Location())
	}
}
