package entity

import (
	"fmt"
	"strings"

	"darksky-sensors/formatter"
	"darksky-sensors/models"
)

// Mode selects which block feeds the weather entity's forecast
type Mode string

const (
	ModeHourly Mode = "hourly"
	ModeDaily  Mode = "daily"
)

// ParseMode validates a configured forecast mode
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeHourly, ModeDaily:
		return m, nil
	}
	return "", fmt.Errorf("unknown forecast mode %q", s)
}

// Weather summarizes the current conditions and the forecast
type Weather struct {
	subscription

	name     string
	mode     Mode
	uniqueID string
}

// NewWeather creates the weather entity
func NewWeather(source Source, name string, mode Mode, lat, lon float64) *Weather {
	return &Weather{
		subscription: subscription{source: source},
		name:         name,
		mode:         mode,
		uniqueID:     uniqueID(lat, lon, "weather_"+string(mode)),
	}
}

func (w *Weather) Domain() string   { return "weather" }
func (w *Weather) UniqueID() string { return w.uniqueID }
func (w *Weather) Name() string     { return w.name }
func (w *Weather) Unit() string     { return "" }
func (w *Weather) Icon() string     { return "" }
func (w *Weather) Picture() string  { return "" }

// State is the normalized condition of the current data point
func (w *Weather) State() any {
	f := w.source.Snapshot()
	if f == nil {
		return nil
	}
	if c, ok := formatter.MapCondition(f.Currently.Icon); ok {
		return c
	}
	return nil
}

func (w *Weather) Attributes() map[string]any {
	f := w.source.Snapshot()
	if f == nil {
		return map[string]any{}
	}
	units := w.units(f)
	cur := f.Currently

	attrs := map[string]any{
		"temperature_unit": formatter.TemperatureUnit(units),
		"forecast":         w.forecast(f),
	}
	setFloat(attrs, "temperature", cur.Temperature)
	if cur.Humidity != nil {
		attrs["humidity"] = formatter.Round(*cur.Humidity*100, 2)
	}
	if cur.Pressure != nil {
		if units == models.UnitsUS {
			attrs["pressure"] = formatter.ImperialPressure(*cur.Pressure)
		} else {
			attrs["pressure"] = *cur.Pressure
		}
	}
	setFloat(attrs, "wind_speed", cur.WindSpeed)
	setFloat(attrs, "wind_bearing", cur.WindBearing)
	setFloat(attrs, "ozone", cur.Ozone)
	setFloat(attrs, "visibility", cur.Visibility)
	return attrs
}

// Forecast returns the forecast array for the configured mode
func (w *Weather) Forecast() []formatter.ForecastEntry {
	return w.forecast(w.source.Snapshot())
}

func (w *Weather) forecast(f *models.Forecast) []formatter.ForecastEntry {
	if f == nil {
		return []formatter.ForecastEntry{}
	}
	if w.mode == ModeDaily {
		if f.Daily == nil {
			return []formatter.ForecastEntry{}
		}
		return formatter.FormatDailyForecast(f.Daily.Data)
	}
	if f.Hourly == nil {
		return []formatter.ForecastEntry{}
	}
	return formatter.FormatHourlyForecast(f.Hourly.Data)
}

func setFloat(attrs map[string]any, key string, v *float64) {
	if v != nil {
		attrs[key] = *v
	}
}
