package formatter

import (
	"testing"
	"time"

	"darksky-sensors/models"
)

func TestMapCondition(t *testing.T) {
	tests := []struct {
		icon     string
		expected string
		ok       bool
	}{
		{"clear-day", "sunny", true},
		{"clear-night", "clear-night", true},
		{"rain", "rainy", true},
		{"sleet", "snowy-rainy", true},
		{"partly-cloudy-night", "partlycloudy", true},
		{"thunderstorm", "lightning", true},
		{"tornado", "", false},
		{"volcano", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.icon, func(t *testing.T) {
			result, ok := MapCondition(tt.icon)
			if result != tt.expected || ok != tt.ok {
				t.Errorf("MapCondition(%q) = (%q, %t), want (%q, %t)", tt.icon, result, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestFormatDailyForecast(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		result := FormatDailyForecast(nil)
		if result == nil || len(result) != 0 {
			t.Fatalf("expected empty slice, got %v", result)
		}
	})

	t.Run("single clear day", func(t *testing.T) {
		loc := time.FixedZone("MST", -7*3600)
		day := models.DataPoint{
			Time:            time.Date(2020, 5, 1, 0, 0, 0, 0, loc),
			Icon:            "clear-day",
			TemperatureHigh: models.Float(24.1),
			TemperatureLow:  models.Float(9.8),
			PrecipIntensity: models.Float(0.02),
			WindSpeed:       models.Float(4.2),
			WindBearing:     models.Float(270),
		}

		result := FormatDailyForecast([]models.DataPoint{day})
		if len(result) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(result))
		}

		entry := result[0]
		if entry.Condition != "sunny" {
			t.Errorf("expected condition sunny, got %q", entry.Condition)
		}
		if entry.Time != "2020-05-01T00:00:00-07:00" {
			t.Errorf("unexpected time %q", entry.Time)
		}
		if entry.Temperature == nil || *entry.Temperature != 24.1 {
			t.Errorf("unexpected high temperature %v", entry.Temperature)
		}
		if entry.TempLow == nil || *entry.TempLow != 9.8 {
			t.Errorf("unexpected low temperature %v", entry.TempLow)
		}
		if entry.Precipitation == nil || *entry.Precipitation != 0.5 {
			t.Errorf("unexpected precipitation %v", entry.Precipitation)
		}
		if entry.WindBearing == nil || *entry.WindBearing != 270 {
			t.Errorf("unexpected wind bearing %v", entry.WindBearing)
		}
	})
}

func TestFormatHourlyForecast(t *testing.T) {
	hours := []models.DataPoint{
		{Time: time.Unix(1588316400, 0).UTC(), Icon: "rain", Temperature: models.Float(12), PrecipIntensity: models.Float(1.26)},
		{Time: time.Unix(1588320000, 0).UTC(), Icon: "tornado", Temperature: models.Float(11)},
	}

	result := FormatHourlyForecast(hours)
	if len(result) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result))
	}

	if result[0].Condition != "rainy" {
		t.Errorf("expected rainy, got %q", result[0].Condition)
	}
	if result[0].Precipitation == nil || *result[0].Precipitation != 1.3 {
		t.Errorf("unexpected precipitation %v", result[0].Precipitation)
	}
	if result[0].TempLow != nil || result[0].WindSpeed != nil {
		t.Errorf("hourly entries carry no low temperature or wind")
	}
	if result[1].Condition != "" {
		t.Errorf("expected no condition for tornado, got %q", result[1].Condition)
	}
	if result[1].Precipitation != nil {
		t.Errorf("expected no precipitation, got %v", *result[1].Precipitation)
	}
}

func TestIcon(t *testing.T) {
	tests := []struct {
		name      string
		field     models.Field
		condition string
		expected  string
	}{
		{"static field icon", models.FieldTemperature, "rain", "mdi:thermometer"},
		{"summary follows condition", models.FieldSummary, "rain", "mdi:weather-pouring"},
		{"daily summary follows condition", models.FieldDailySummary, "clear-night", "mdi:weather-night"},
		{"summary with unknown condition", models.FieldSummary, "hail", ""},
		{"field without icon", models.FieldIcon, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Icon(tt.field, tt.condition); result != tt.expected {
				t.Errorf("Icon(%s, %s) = %q, want %q", tt.field, tt.condition, result, tt.expected)
			}
		})
	}
}

func TestConditionPicture(t *testing.T) {
	if got := ConditionPicture("sleet"); got != "/static/images/darksky/weather-hail.svg" {
		t.Errorf("unexpected picture %q", got)
	}
	if got := ConditionPicture("hail"); got != "" {
		t.Errorf("expected no picture, got %q", got)
	}
}
