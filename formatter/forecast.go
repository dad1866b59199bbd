package formatter

import (
	"time"

	"darksky-sensors/models"
)

// ForecastEntry is one element of the weather entity's forecast array
type ForecastEntry struct {
	Time          string   `json:"datetime"`
	Temperature   *float64 `json:"temperature"`
	TempLow       *float64 `json:"templow,omitempty"`
	Precipitation *float64 `json:"precipitation"`
	WindSpeed     *float64 `json:"wind_speed,omitempty"`
	WindBearing   *float64 `json:"wind_bearing,omitempty"`
	Condition     string   `json:"condition,omitempty"`
}

var conditions = map[string]string{
	"clear-day":           "sunny",
	"clear-night":         "clear-night",
	"rain":                "rainy",
	"snow":                "snowy",
	"sleet":               "snowy-rainy",
	"wind":                "windy",
	"fog":                 "fog",
	"cloudy":              "cloudy",
	"partly-cloudy-day":   "partlycloudy",
	"partly-cloudy-night": "partlycloudy",
	"hail":                "hail",
	"thunderstorm":        "lightning",
	"tornado":             "",
}

// MapCondition maps a vendor icon code to the normalized condition vocabulary
func MapCondition(icon string) (string, bool) {
	c, ok := conditions[icon]
	if !ok || c == "" {
		return "", false
	}
	return c, true
}

func condition(icon string) string {
	c, _ := MapCondition(icon)
	return c
}

// FormatDailyForecast projects daily data points; precipitation covers 24h
func FormatDailyForecast(points []models.DataPoint) []ForecastEntry {
	entries := make([]ForecastEntry, 0, len(points))
	for _, p := range points {
		entries = append(entries, ForecastEntry{
			Time:          p.Time.Format(time.RFC3339),
			Temperature:   p.TemperatureHigh,
			TempLow:       p.TemperatureLow,
			Precipitation: CalcPrecipitation(p.PrecipIntensity, 24),
			WindSpeed:     p.WindSpeed,
			WindBearing:   p.WindBearing,
			Condition:     condition(p.Icon),
		})
	}
	return entries
}

// FormatHourlyForecast projects hourly data points; precipitation covers 1h
func FormatHourlyForecast(points []models.DataPoint) []ForecastEntry {
	entries := make([]ForecastEntry, 0, len(points))
	for _, p := range points {
		entries = append(entries, ForecastEntry{
			Time:          p.Time.Format(time.RFC3339),
			Temperature:   p.Temperature,
			Precipitation: CalcPrecipitation(p.PrecipIntensity, 1),
			Condition:     condition(p.Icon),
		})
	}
	return entries
}
