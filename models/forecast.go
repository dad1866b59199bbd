package models

import (
	"time"
)

// Forecast is one successful fetch from the forecast API. A Forecast is never
// mutated after it has been built; refreshes replace it wholesale.
type Forecast struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Currently DataPoint  `json:"currently"`
	Minutely  *DataBlock `json:"minutely,omitempty"`
	Hourly    *DataBlock `json:"hourly,omitempty"`
	Daily     *DataBlock `json:"daily,omitempty"`
	Alerts    []Alert    `json:"alerts"`
	Flags     Flags      `json:"flags"`
	Fetched   time.Time  `json:"fetched"` // when the snapshot was received
}

// DataBlock is an ordered run of data points with a block level summary
type DataBlock struct {
	Summary string      `json:"summary"`
	Icon    string      `json:"icon"`
	Data    []DataPoint `json:"data"`
}

// At returns the data point at index i, or nil if the block is too short.
func (b *DataBlock) At(i int) *DataPoint {
	if b == nil || i < 0 || i >= len(b.Data) {
		return nil
	}
	return &b.Data[i]
}

// DataPoint holds the conditions for one instant (currently), one hour or one day.
// Numeric fields are nil when the API omitted them.
type DataPoint struct {
	Time       time.Time `json:"time"`
	Summary    string    `json:"summary,omitempty"`
	Icon       string    `json:"icon,omitempty"`
	PrecipType string    `json:"precip_type,omitempty"`

	NearestStormDistance *float64 `json:"nearest_storm_distance,omitempty"`
	NearestStormBearing  *float64 `json:"nearest_storm_bearing,omitempty"`

	PrecipIntensity    *float64 `json:"precip_intensity,omitempty"`
	PrecipIntensityMax *float64 `json:"precip_intensity_max,omitempty"`
	PrecipProbability  *float64 `json:"precip_probability,omitempty"`
	PrecipAccumulation *float64 `json:"precip_accumulation,omitempty"`

	Temperature             *float64 `json:"temperature,omitempty"`
	ApparentTemperature     *float64 `json:"apparent_temperature,omitempty"`
	TemperatureHigh         *float64 `json:"temperature_high,omitempty"`
	TemperatureLow          *float64 `json:"temperature_low,omitempty"`
	TemperatureMax          *float64 `json:"temperature_max,omitempty"`
	TemperatureMin          *float64 `json:"temperature_min,omitempty"`
	ApparentTemperatureHigh *float64 `json:"apparent_temperature_high,omitempty"`
	ApparentTemperatureLow  *float64 `json:"apparent_temperature_low,omitempty"`
	ApparentTemperatureMax  *float64 `json:"apparent_temperature_max,omitempty"`
	ApparentTemperatureMin  *float64 `json:"apparent_temperature_min,omitempty"`
	DewPoint                *float64 `json:"dew_point,omitempty"`

	Humidity    *float64 `json:"humidity,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
	WindSpeed   *float64 `json:"wind_speed,omitempty"`
	WindGust    *float64 `json:"wind_gust,omitempty"`
	WindBearing *float64 `json:"wind_bearing,omitempty"`
	CloudCover  *float64 `json:"cloud_cover,omitempty"`
	UVIndex     *float64 `json:"uv_index,omitempty"`
	Visibility  *float64 `json:"visibility,omitempty"`
	Ozone       *float64 `json:"ozone,omitempty"`
	MoonPhase   *float64 `json:"moon_phase,omitempty"`

	SunriseTime *time.Time `json:"sunrise_time,omitempty"`
	SunsetTime  *time.Time `json:"sunset_time,omitempty"`
}

// Alert is a severe weather alert issued for the requested location
type Alert struct {
	Title       string    `json:"title"`
	Regions     []string  `json:"regions"`
	Severity    string    `json:"severity"`
	Time        time.Time `json:"time"`
	Expires     time.Time `json:"expires"`
	Description string    `json:"description"`
	URI         string    `json:"uri"`
}

// Flags carries response metadata; Units is the unit system the values are in.
type Flags struct {
	Units          Units    `json:"units"`
	Sources        []string `json:"sources,omitempty"`
	NearestStation *float64 `json:"nearest_station,omitempty"`
}

// Float returns a pointer to v. Handy for building data points by hand.
func Float(v float64) *float64 {
	return &v
}
