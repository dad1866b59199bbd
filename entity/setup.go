package entity

import (
	"darksky-sensors/host"
	"darksky-sensors/models"

	"github.com/sirupsen/logrus"
)

var (
	_ host.Entity = (*Sensor)(nil)
	_ host.Entity = (*AlertSensor)(nil)
	_ host.Entity = (*Weather)(nil)
)

// SensorConfig is the sensor platform configuration
type SensorConfig struct {
	Name        string
	Latitude    float64
	Longitude   float64
	Conditions  []models.Field
	DayOffsets  []int
	HourOffsets []int
}

// SetupSensors creates the entities for every monitored condition, in the
// configured order. Fields that exist on the daily or hourly data get one
// sensor per configured offset.
func SetupSensors(cfg SensorConfig, source Source, logger *logrus.Logger) []host.Entity {
	log := logger.WithField("component", "sensor-setup")
	name := cfg.Name
	if name == "" {
		name = DefaultName
	}
	lat, lon := cfg.Latitude, cfg.Longitude

	var entities []host.Entity
	for _, field := range cfg.Conditions {
		if models.DeprecatedFields.Has(field) {
			log.WithField("condition", field).Warn("monitored condition is deprecated")
		}

		if field == models.FieldAlerts {
			entities = append(entities, NewAlertSensor(source, name, lat, lon))
			continue
		}

		if models.CurrentlyFields.Has(field) || models.BlockSummaryFields.Has(field) {
			entities = append(entities, NewSensor(source, name, field, lat, lon))
		}
		if models.DailyFields.Has(field) {
			for _, day := range cfg.DayOffsets {
				entities = append(entities, NewDailySensor(source, name, field, day, lat, lon))
			}
		}
		if models.HourlyFields.Has(field) {
			for _, hour := range cfg.HourOffsets {
				entities = append(entities, NewHourlySensor(source, name, field, hour, lat, lon))
			}
		}
	}

	log.WithField("count", len(entities)).Debug("sensors created")
	return entities
}
