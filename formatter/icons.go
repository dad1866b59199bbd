package formatter

import "darksky-sensors/models"

const (
	AlertIcon       = "mdi:alert-circle"
	NoAlertIcon     = "mdi:alert-circle-outline"
	picturesBaseURL = "/static/images/darksky/"
)

var fieldIcons = map[models.Field]string{
	models.FieldAlerts:                  NoAlertIcon,
	models.FieldApparentTemperatureHigh: "mdi:thermometer",
	models.FieldApparentTemperatureLow:  "mdi:thermometer",
	models.FieldApparentTemperatureMax:  "mdi:thermometer",
	models.FieldApparentTemperatureMin:  "mdi:thermometer",
	models.FieldApparentTemperature:     "mdi:thermometer",
	models.FieldCloudCover:              "mdi:weather-partly-cloudy",
	models.FieldDewPoint:                "mdi:thermometer",
	models.FieldHumidity:                "mdi:water-percent",
	models.FieldMoonPhase:               "mdi:weather-night",
	models.FieldNearestStormBearing:     "mdi:weather-lightning",
	models.FieldNearestStormDistance:    "mdi:weather-lightning",
	models.FieldOzone:                   "mdi:eye",
	models.FieldPrecipAccumulation:      "mdi:weather-snowy",
	models.FieldPrecipIntensityMax:      "mdi:thermometer",
	models.FieldPrecipIntensity:         "mdi:weather-rainy",
	models.FieldPrecipProbability:       "mdi:water-percent",
	models.FieldPrecipType:              "mdi:weather-pouring",
	models.FieldPressure:                "mdi:gauge",
	models.FieldSunriseTime:             "mdi:white-balance-sunny",
	models.FieldSunsetTime:              "mdi:weather-night",
	models.FieldTemperatureHigh:         "mdi:thermometer",
	models.FieldTemperatureLow:          "mdi:thermometer",
	models.FieldTemperatureMax:          "mdi:thermometer",
	models.FieldTemperatureMin:          "mdi:thermometer",
	models.FieldTemperature:             "mdi:thermometer",
	models.FieldUVIndex:                 "mdi:weather-sunny",
	models.FieldVisibility:              "mdi:eye",
	models.FieldWindBearing:             "mdi:compass",
	models.FieldWindGust:                "mdi:weather-windy-variant",
	models.FieldWindSpeed:               "mdi:weather-windy",
}

var conditionIcons = map[string]string{
	"clear-day":           "mdi:weather-sunny",
	"clear-night":         "mdi:weather-night",
	"cloudy":              "mdi:weather-cloudy",
	"fog":                 "mdi:weather-fog",
	"partly-cloudy-day":   "mdi:weather-partly-cloudy",
	"partly-cloudy-night": "mdi:weather-night-partly-cloudy",
	"rain":                "mdi:weather-pouring",
	"sleet":               "mdi:weather-snowy-rainy",
	"snow":                "mdi:weather-snowy",
	"wind":                "mdi:weather-windy",
}

var conditionPictures = map[string]string{
	"clear-day":           "weather-sunny.svg",
	"clear-night":         "weather-night.svg",
	"cloudy":              "weather-cloudy.svg",
	"fog":                 "weather-fog.svg",
	"partly-cloudy-day":   "weather-partlycloudy.svg",
	"partly-cloudy-night": "weather-cloudy.svg",
	"rain":                "weather-pouring.svg",
	"sleet":               "weather-hail.svg",
	"snow":                "weather-snowy.svg",
	"wind":                "weather-windy.svg",
}

// Icon picks the frontend icon for a sensor. Summary fields follow the
// reported condition code when one is known.
func Icon(field models.Field, conditionCode string) string {
	if field.IsSummary() {
		if icon, ok := conditionIcons[conditionCode]; ok {
			return icon
		}
	}
	return fieldIcons[field]
}

// ConditionPicture returns the picture path for a condition code, or ""
func ConditionPicture(conditionCode string) string {
	if name, ok := conditionPictures[conditionCode]; ok {
		return picturesBaseURL + name
	}
	return ""
}
