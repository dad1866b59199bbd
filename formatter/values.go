package formatter

import (
	"time"

	"darksky-sensors/models"

	"github.com/shopspring/decimal"
)

// Pa per inch of mercury
const pascalsPerInHg = 3386.389

type valueFunc func(p *models.DataPoint) any

func number(get func(p *models.DataPoint) *float64) valueFunc {
	return func(p *models.DataPoint) any {
		if v := get(p); v != nil {
			return *v
		}
		return nil
	}
}

func text(get func(p *models.DataPoint) string) valueFunc {
	return func(p *models.DataPoint) any {
		if v := get(p); v != "" {
			return v
		}
		return nil
	}
}

func instant(get func(p *models.DataPoint) *time.Time) valueFunc {
	return func(p *models.DataPoint) any {
		if v := get(p); v != nil {
			return *v
		}
		return nil
	}
}

var pointValues = map[models.Field]valueFunc{
	models.FieldSummary:    text(func(p *models.DataPoint) string { return p.Summary }),
	models.FieldIcon:       text(func(p *models.DataPoint) string { return p.Icon }),
	models.FieldPrecipType: text(func(p *models.DataPoint) string { return p.PrecipType }),

	models.FieldNearestStormDistance: number(func(p *models.DataPoint) *float64 { return p.NearestStormDistance }),
	models.FieldNearestStormBearing:  number(func(p *models.DataPoint) *float64 { return p.NearestStormBearing }),

	models.FieldPrecipIntensity:    number(func(p *models.DataPoint) *float64 { return p.PrecipIntensity }),
	models.FieldPrecipIntensityMax: number(func(p *models.DataPoint) *float64 { return p.PrecipIntensityMax }),
	models.FieldPrecipProbability:  number(func(p *models.DataPoint) *float64 { return p.PrecipProbability }),
	models.FieldPrecipAccumulation: number(func(p *models.DataPoint) *float64 { return p.PrecipAccumulation }),

	models.FieldTemperature:             number(func(p *models.DataPoint) *float64 { return p.Temperature }),
	models.FieldApparentTemperature:     number(func(p *models.DataPoint) *float64 { return p.ApparentTemperature }),
	models.FieldTemperatureHigh:         number(func(p *models.DataPoint) *float64 { return p.TemperatureHigh }),
	models.FieldTemperatureLow:          number(func(p *models.DataPoint) *float64 { return p.TemperatureLow }),
	models.FieldTemperatureMax:          number(func(p *models.DataPoint) *float64 { return p.TemperatureMax }),
	models.FieldTemperatureMin:          number(func(p *models.DataPoint) *float64 { return p.TemperatureMin }),
	models.FieldApparentTemperatureHigh: number(func(p *models.DataPoint) *float64 { return p.ApparentTemperatureHigh }),
	models.FieldApparentTemperatureLow:  number(func(p *models.DataPoint) *float64 { return p.ApparentTemperatureLow }),
	models.FieldApparentTemperatureMax:  number(func(p *models.DataPoint) *float64 { return p.ApparentTemperatureMax }),
	models.FieldApparentTemperatureMin:  number(func(p *models.DataPoint) *float64 { return p.ApparentTemperatureMin }),
	models.FieldDewPoint:                number(func(p *models.DataPoint) *float64 { return p.DewPoint }),

	models.FieldHumidity:    number(func(p *models.DataPoint) *float64 { return p.Humidity }),
	models.FieldPressure:    number(func(p *models.DataPoint) *float64 { return p.Pressure }),
	models.FieldWindSpeed:   number(func(p *models.DataPoint) *float64 { return p.WindSpeed }),
	models.FieldWindGust:    number(func(p *models.DataPoint) *float64 { return p.WindGust }),
	models.FieldWindBearing: number(func(p *models.DataPoint) *float64 { return p.WindBearing }),
	models.FieldCloudCover:  number(func(p *models.DataPoint) *float64 { return p.CloudCover }),
	models.FieldUVIndex:     number(func(p *models.DataPoint) *float64 { return p.UVIndex }),
	models.FieldVisibility:  number(func(p *models.DataPoint) *float64 { return p.Visibility }),
	models.FieldOzone:       number(func(p *models.DataPoint) *float64 { return p.Ozone }),
	models.FieldMoonPhase:   number(func(p *models.DataPoint) *float64 { return p.MoonPhase }),

	models.FieldSunriseTime: instant(func(p *models.DataPoint) *time.Time { return p.SunriseTime }),
	models.FieldSunsetTime:  instant(func(p *models.DataPoint) *time.Time { return p.SunsetTime }),
}

// Reported as fractions, displayed as percentages
var percentFields = map[models.Field]bool{
	models.FieldPrecipProbability: true,
	models.FieldCloudCover:        true,
	models.FieldHumidity:          true,
}

var roundedFields = map[models.Field]bool{
	models.FieldDewPoint:                true,
	models.FieldTemperature:             true,
	models.FieldApparentTemperature:     true,
	models.FieldTemperatureLow:          true,
	models.FieldApparentTemperatureLow:  true,
	models.FieldTemperatureMin:          true,
	models.FieldApparentTemperatureMin:  true,
	models.FieldTemperatureHigh:         true,
	models.FieldApparentTemperatureHigh: true,
	models.FieldTemperatureMax:          true,
	models.FieldApparentTemperatureMax:  true,
	models.FieldPrecipAccumulation:      true,
	models.FieldPressure:                true,
	models.FieldOzone:                   true,
}

// Round rounds the shortest decimal form of v to places decimals.
// Ties round half away from zero, so 21.45 becomes 21.5 and -2.5 becomes -3.
func Round(v float64, places int32) float64 {
	r, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return r
}

// RawValue returns the unshaped value of field at p, or nil
func RawValue(field models.Field, p *models.DataPoint) any {
	if p == nil {
		return nil
	}
	get, ok := pointValues[field]
	if !ok {
		return nil
	}
	return get(p)
}

// StateValue returns the display value of field at p. The result is a float64,
// a string, a time.Time, or nil when the value is absent.
func StateValue(field models.Field, p *models.DataPoint) any {
	v := RawValue(field, p)
	n, ok := v.(float64)
	if !ok {
		return v
	}

	switch {
	case percentFields[field]:
		return Round(n*100, 1)
	case roundedFields[field]:
		return Round(n, 1)
	}
	return n
}

// CalcPrecipitation turns an hourly intensity into an accumulation over hours.
// No intensity, or no accumulation, yields nil.
func CalcPrecipitation(intensity *float64, hours float64) *float64 {
	if intensity == nil {
		return nil
	}
	amount := Round(*intensity*hours, 1)
	if amount <= 0 {
		return nil
	}
	return &amount
}

// ImperialPressure converts hPa to inHg
func ImperialPressure(hpa float64) float64 {
	return Round(hpa*100/pascalsPerInHg, 2)
}
