package darksky

import (
	"time"
	_ "time/tzdata"

	"darksky-sensors/models"
)

// forecastResponse mirrors the forecast endpoint's JSON document
type forecastResponse struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Currently dataPoint  `json:"currently"`
	Minutely  *dataBlock `json:"minutely"`
	Hourly    *dataBlock `json:"hourly"`
	Daily     *dataBlock `json:"daily"`
	Alerts    []alert    `json:"alerts"`
	Flags     struct {
		Units          string   `json:"units"`
		Sources        []string `json:"sources"`
		NearestStation *float64 `json:"nearest-station"`
	} `json:"flags"`
}

type dataBlock struct {
	Summary string      `json:"summary"`
	Icon    string      `json:"icon"`
	Data    []dataPoint `json:"data"`
}

type dataPoint struct {
	Time       int64  `json:"time"`
	Summary    string `json:"summary"`
	Icon       string `json:"icon"`
	PrecipType string `json:"precipType"`

	NearestStormDistance *float64 `json:"nearestStormDistance"`
	NearestStormBearing  *float64 `json:"nearestStormBearing"`

	PrecipIntensity    *float64 `json:"precipIntensity"`
	PrecipIntensityMax *float64 `json:"precipIntensityMax"`
	PrecipProbability  *float64 `json:"precipProbability"`
	PrecipAccumulation *float64 `json:"precipAccumulation"`

	Temperature             *float64 `json:"temperature"`
	ApparentTemperature     *float64 `json:"apparentTemperature"`
	TemperatureHigh         *float64 `json:"temperatureHigh"`
	TemperatureLow          *float64 `json:"temperatureLow"`
	TemperatureMax          *float64 `json:"temperatureMax"`
	TemperatureMin          *float64 `json:"temperatureMin"`
	ApparentTemperatureHigh *float64 `json:"apparentTemperatureHigh"`
	ApparentTemperatureLow  *float64 `json:"apparentTemperatureLow"`
	ApparentTemperatureMax  *float64 `json:"apparentTemperatureMax"`
	ApparentTemperatureMin  *float64 `json:"apparentTemperatureMin"`
	DewPoint                *float64 `json:"dewPoint"`

	Humidity    *float64 `json:"humidity"`
	Pressure    *float64 `json:"pressure"`
	WindSpeed   *float64 `json:"windSpeed"`
	WindGust    *float64 `json:"windGust"`
	WindBearing *float64 `json:"windBearing"`
	CloudCover  *float64 `json:"cloudCover"`
	UVIndex     *float64 `json:"uvIndex"`
	Visibility  *float64 `json:"visibility"`
	Ozone       *float64 `json:"ozone"`
	MoonPhase   *float64 `json:"moonPhase"`

	SunriseTime *int64 `json:"sunriseTime"`
	SunsetTime  *int64 `json:"sunsetTime"`
}

type alert struct {
	Title       string   `json:"title"`
	Regions     []string `json:"regions"`
	Severity    string   `json:"severity"`
	Time        int64    `json:"time"`
	Expires     int64    `json:"expires"`
	Description string   `json:"description"`
	URI         string   `json:"uri"`
}

// toModel converts the wire document into a snapshot. Unix times are placed in
// the forecast location's timezone when it is known.
func (r *forecastResponse) toModel(fetched time.Time) *models.Forecast {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil || r.Timezone == "" {
		loc = time.UTC
	}

	forecast := &models.Forecast{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Timezone:  r.Timezone,
		Currently: r.Currently.toModel(loc),
		Minutely:  r.Minutely.toModel(loc),
		Hourly:    r.Hourly.toModel(loc),
		Daily:     r.Daily.toModel(loc),
		Alerts:    make([]models.Alert, 0, len(r.Alerts)),
		Flags: models.Flags{
			Units:          models.Units(r.Flags.Units),
			Sources:        r.Flags.Sources,
			NearestStation: r.Flags.NearestStation,
		},
		Fetched: fetched,
	}

	for _, a := range r.Alerts {
		forecast.Alerts = append(forecast.Alerts, models.Alert{
			Title:       a.Title,
			Regions:     a.Regions,
			Severity:    a.Severity,
			Time:        time.Unix(a.Time, 0).In(loc),
			Expires:     time.Unix(a.Expires, 0).In(loc),
			Description: a.Description,
			URI:         a.URI,
		})
	}

	return forecast
}

func (b *dataBlock) toModel(loc *time.Location) *models.DataBlock {
	if b == nil {
		return nil
	}

	block := &models.DataBlock{
		Summary: b.Summary,
		Icon:    b.Icon,
		Data:    make([]models.DataPoint, 0, len(b.Data)),
	}
	for _, p := range b.Data {
		block.Data = append(block.Data, p.toModel(loc))
	}
	return block
}

func (p dataPoint) toModel(loc *time.Location) models.DataPoint {
	return models.DataPoint{
		Time:       time.Unix(p.Time, 0).In(loc),
		Summary:    p.Summary,
		Icon:       p.Icon,
		PrecipType: p.PrecipType,

		NearestStormDistance: p.NearestStormDistance,
		NearestStormBearing:  p.NearestStormBearing,

		PrecipIntensity:    p.PrecipIntensity,
		PrecipIntensityMax: p.PrecipIntensityMax,
		PrecipProbability:  p.PrecipProbability,
		PrecipAccumulation: p.PrecipAccumulation,

		Temperature:             p.Temperature,
		ApparentTemperature:     p.ApparentTemperature,
		TemperatureHigh:         p.TemperatureHigh,
		TemperatureLow:          p.TemperatureLow,
		TemperatureMax:          p.TemperatureMax,
		TemperatureMin:          p.TemperatureMin,
		ApparentTemperatureHigh: p.ApparentTemperatureHigh,
		ApparentTemperatureLow:  p.ApparentTemperatureLow,
		ApparentTemperatureMax:  p.ApparentTemperatureMax,
		ApparentTemperatureMin:  p.ApparentTemperatureMin,
		DewPoint:                p.DewPoint,

		Humidity:    p.Humidity,
		Pressure:    p.Pressure,
		WindSpeed:   p.WindSpeed,
		WindGust:    p.WindGust,
		WindBearing: p.WindBearing,
		CloudCover:  p.CloudCover,
		UVIndex:     p.UVIndex,
		Visibility:  p.Visibility,
		Ozone:       p.Ozone,
		MoonPhase:   p.MoonPhase,

		SunriseTime: unixIn(p.SunriseTime, loc),
		SunsetTime:  unixIn(p.SunsetTime, loc),
	}
}

func unixIn(sec *int64, loc *time.Location) *time.Time {
	if sec == nil {
		return nil
	}
	t := time.Unix(*sec, 0).In(loc)
	return &t
}
