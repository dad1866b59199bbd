package models

import "sort"

// Field names a monitored condition
type Field string

const (
	FieldAlerts                  Field = "alerts"
	FieldApparentTemperatureHigh Field = "apparent_temperature_high"
	FieldApparentTemperatureLow  Field = "apparent_temperature_low"
	FieldApparentTemperatureMax  Field = "apparent_temperature_max"
	FieldApparentTemperatureMin  Field = "apparent_temperature_min"
	FieldApparentTemperature     Field = "apparent_temperature"
	FieldCloudCover              Field = "cloud_cover"
	FieldDailySummary            Field = "daily_summary"
	FieldDewPoint                Field = "dew_point"
	FieldHourlySummary           Field = "hourly_summary"
	FieldHumidity                Field = "humidity"
	FieldIcon                    Field = "icon"
	FieldMinutelySummary         Field = "minutely_summary"
	FieldMoonPhase               Field = "moon_phase"
	FieldNearestStormBearing     Field = "nearest_storm_bearing"
	FieldNearestStormDistance    Field = "nearest_storm_distance"
	FieldOzone                   Field = "ozone"
	FieldPrecipAccumulation      Field = "precip_accumulation"
	FieldPrecipIntensityMax      Field = "precip_intensity_max"
	FieldPrecipIntensity         Field = "precip_intensity"
	FieldPrecipProbability       Field = "precip_probability"
	FieldPrecipType              Field = "precip_type"
	FieldPressure                Field = "pressure"
	FieldSummary                 Field = "summary"
	FieldSunriseTime             Field = "sunrise_time"
	FieldSunsetTime              Field = "sunset_time"
	FieldTemperatureHigh         Field = "temperature_high"
	FieldTemperatureLow          Field = "temperature_low"
	FieldTemperatureMax          Field = "temperature_max"
	FieldTemperatureMin          Field = "temperature_min"
	FieldTemperature             Field = "temperature"
	FieldUVIndex                 Field = "uv_index"
	FieldVisibility              Field = "visibility"
	FieldWindBearing             Field = "wind_bearing"
	FieldWindGust                Field = "wind_gust"
	FieldWindSpeed               Field = "wind_speed"
)

var fieldLabels = map[Field]string{
	FieldAlerts:                  "Alerts",
	FieldApparentTemperatureHigh: "Daytime High Apparent Temperature",
	FieldApparentTemperatureLow:  "Overnight Low Apparent Temperature",
	FieldApparentTemperatureMax:  "Daily High Apparent Temperature",
	FieldApparentTemperatureMin:  "Daily Low Apparent Temperature",
	FieldApparentTemperature:     "Apparent Temperature",
	FieldCloudCover:              "Cloud Coverage",
	FieldDailySummary:            "Daily Summary",
	FieldDewPoint:                "Dew Point",
	FieldHourlySummary:           "Hourly Summary",
	FieldHumidity:                "Humidity",
	FieldIcon:                    "Icon",
	FieldMinutelySummary:         "Minutely Summary",
	FieldMoonPhase:               "Moon Phase",
	FieldNearestStormBearing:     "Nearest Storm Bearing",
	FieldNearestStormDistance:    "Nearest Storm Distance",
	FieldOzone:                   "Ozone",
	FieldPrecipAccumulation:      "Precip Accumulation",
	FieldPrecipIntensityMax:      "Daily Max Precip Intensity",
	FieldPrecipIntensity:         "Precip Intensity",
	FieldPrecipProbability:       "Precip Probability",
	FieldPrecipType:              "Precip",
	FieldPressure:                "Pressure",
	FieldSummary:                 "Summary",
	FieldSunriseTime:             "Sunrise",
	FieldSunsetTime:              "Sunset",
	FieldTemperatureHigh:         "Daytime High Temperature",
	FieldTemperatureLow:          "Overnight Low Temperature",
	FieldTemperatureMax:          "Daily High Temperature",
	FieldTemperatureMin:          "Daily Low Temperature",
	FieldTemperature:             "Temperature",
	FieldUVIndex:                 "UV Index",
	FieldVisibility:              "Visibility",
	FieldWindBearing:             "Wind Bearing",
	FieldWindGust:                "Wind Gust",
	FieldWindSpeed:               "Wind Speed",
}

// Label returns the human readable name of the field
func (f Field) Label() string {
	return fieldLabels[f]
}

// IsSummary reports whether the field's icon follows the reported condition
func (f Field) IsSummary() bool {
	switch f {
	case FieldSummary, FieldMinutelySummary, FieldHourlySummary, FieldDailySummary:
		return true
	}
	return false
}

// ParseField looks up a configured field name
func ParseField(s string) (Field, bool) {
	f := Field(s)
	_, ok := fieldLabels[f]
	return f, ok
}

// KnownFields returns every field name, sorted
func KnownFields() []Field {
	fields := make([]Field, 0, len(fieldLabels))
	for f := range fieldLabels {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// FieldSet is an immutable membership table
type FieldSet map[Field]struct{}

// Has reports whether f is in the set
func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

func newFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// Fields available on the currently data point
var CurrentlyFields = newFieldSet(
	FieldApparentTemperature,
	FieldCloudCover,
	FieldDewPoint,
	FieldHumidity,
	FieldIcon,
	FieldNearestStormBearing,
	FieldNearestStormDistance,
	FieldOzone,
	FieldPrecipIntensity,
	FieldPrecipProbability,
	FieldPrecipType,
	FieldPressure,
	FieldSummary,
	FieldTemperature,
	FieldUVIndex,
	FieldVisibility,
	FieldWindBearing,
	FieldWindGust,
	FieldWindSpeed,
)

// Fields available on each daily data point
var DailyFields = newFieldSet(
	FieldApparentTemperatureHigh,
	FieldApparentTemperatureLow,
	FieldApparentTemperatureMax,
	FieldApparentTemperatureMin,
	FieldCloudCover,
	FieldDewPoint,
	FieldHumidity,
	FieldIcon,
	FieldMoonPhase,
	FieldOzone,
	FieldPrecipAccumulation,
	FieldPrecipIntensityMax,
	FieldPrecipIntensity,
	FieldPrecipProbability,
	FieldPrecipType,
	FieldPressure,
	FieldSummary,
	FieldSunriseTime,
	FieldSunsetTime,
	FieldTemperatureHigh,
	FieldTemperatureLow,
	FieldTemperatureMax,
	FieldTemperatureMin,
	FieldUVIndex,
	FieldVisibility,
	FieldWindBearing,
	FieldWindGust,
	FieldWindSpeed,
)

// Fields available on each hourly data point
var HourlyFields = newFieldSet(
	FieldApparentTemperature,
	FieldCloudCover,
	FieldDewPoint,
	FieldHumidity,
	FieldIcon,
	FieldOzone,
	FieldPrecipAccumulation,
	FieldPrecipIntensity,
	FieldPrecipProbability,
	FieldPrecipType,
	FieldPressure,
	FieldSummary,
	FieldTemperature,
	FieldUVIndex,
	FieldVisibility,
	FieldWindBearing,
	FieldWindGust,
	FieldWindSpeed,
)

// BlockSummaryFields read the summary of the first point of a data block,
// or of currently for minutely_summary
var BlockSummaryFields = newFieldSet(
	FieldMinutelySummary,
	FieldHourlySummary,
	FieldDailySummary,
)

// DeprecatedFields still work but log a warning at setup
var DeprecatedFields = newFieldSet(
	FieldApparentTemperatureMax,
	FieldApparentTemperatureMin,
	FieldTemperatureMax,
	FieldTemperatureMin,
)
