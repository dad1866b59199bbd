// Package formatter turns raw forecast values into display ready values.
// Everything here is a pure function over static tables.
package formatter

import (
	"darksky-sensors/models"
)

const (
	unitPercentage = "%"
	unitUVIndex    = "UV index"
	unitDegrees    = "°"
	unitCelsius    = "°C"
	unitFahrenheit = "°F"
)

type unitRule func(u models.Units) string

func fixed(unit string) unitRule {
	return func(models.Units) string { return unit }
}

// usOr returns us for the US system and other for everything else
func usOr(us, other string) unitRule {
	return func(u models.Units) string {
		if u == models.UnitsUS {
			return us
		}
		return other
	}
}

func distance(u models.Units) string {
	if u == models.UnitsUS || u == models.UnitsUK2 {
		return "mi"
	}
	return "km"
}

func speed(u models.Units) string {
	switch u {
	case models.UnitsUS, models.UnitsUK2:
		return "mph"
	case models.UnitsCA:
		return "km/h"
	default:
		return "m/s"
	}
}

var temperature = usOr(unitFahrenheit, unitCelsius)

var unitRules = map[models.Field]unitRule{
	models.FieldNearestStormDistance: distance,
	models.FieldVisibility:           distance,

	models.FieldPrecipIntensity:    usOr("in", "mm/h"),
	models.FieldPrecipIntensityMax: usOr("in", "mm/h"),

	models.FieldTemperature:             temperature,
	models.FieldApparentTemperature:     temperature,
	models.FieldDewPoint:                temperature,
	models.FieldApparentTemperatureMax:  temperature,
	models.FieldApparentTemperatureHigh: temperature,
	models.FieldApparentTemperatureMin:  temperature,
	models.FieldApparentTemperatureLow:  temperature,
	models.FieldTemperatureMax:          temperature,
	models.FieldTemperatureHigh:         temperature,
	models.FieldTemperatureMin:          temperature,
	models.FieldTemperatureLow:          temperature,

	models.FieldWindSpeed: speed,
	models.FieldWindGust:  speed,

	models.FieldPrecipProbability: fixed(unitPercentage),
	models.FieldCloudCover:        fixed(unitPercentage),
	models.FieldHumidity:          fixed(unitPercentage),

	models.FieldPressure:           fixed("mbar"),
	models.FieldOzone:              fixed("DU"),
	models.FieldUVIndex:            fixed(unitUVIndex),
	models.FieldPrecipAccumulation: usOr("in", "cm"),

	models.FieldNearestStormBearing: fixed(unitDegrees),
	models.FieldWindBearing:         fixed(unitDegrees),
}

// UnitOfMeasurement returns the unit attached to field when values are reported
// in units. Fields without a unit, and unresolved unit systems, yield "".
func UnitOfMeasurement(field models.Field, units models.Units) string {
	if !units.Resolved() {
		return ""
	}
	rule, ok := unitRules[field]
	if !ok {
		return ""
	}
	return rule(units)
}

// TemperatureUnit is the unit of every temperature reported in units
func TemperatureUnit(units models.Units) string {
	return temperature(units)
}
