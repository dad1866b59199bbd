package entity

import (
	"fmt"

	"darksky-sensors/formatter"
	"darksky-sensors/models"
)

// AlertSensor counts the active weather alerts and exposes their details as attributes
type AlertSensor struct {
	subscription

	clientName string
	uniqueID   string
}

// NewAlertSensor creates the alerts sensor
func NewAlertSensor(source Source, clientName string, lat, lon float64) *AlertSensor {
	return &AlertSensor{
		subscription: subscription{source: source},
		clientName:   clientName,
		uniqueID:     uniqueID(lat, lon, string(models.FieldAlerts)),
	}
}

func (a *AlertSensor) Domain() string   { return "sensor" }
func (a *AlertSensor) UniqueID() string { return a.uniqueID }
func (a *AlertSensor) Name() string     { return fmt.Sprintf("%s %s", a.clientName, models.FieldAlerts.Label()) }
func (a *AlertSensor) Unit() string     { return "" }
func (a *AlertSensor) Picture() string  { return "" }

func (a *AlertSensor) State() any {
	f := a.source.Snapshot()
	if f == nil {
		return nil
	}
	return len(f.Alerts)
}

func (a *AlertSensor) Icon() string {
	if f := a.source.Snapshot(); f != nil && len(f.Alerts) > 0 {
		return formatter.AlertIcon
	}
	return formatter.NoAlertIcon
}

func (a *AlertSensor) Attributes() map[string]any {
	f := a.source.Snapshot()
	if f == nil {
		return map[string]any{}
	}
	return FlattenAlerts(f.Alerts)
}

// FlattenAlerts turns alerts into a flat attribute map. With more than one
// alert every key carries the alert's index as a suffix.
func FlattenAlerts(alerts []models.Alert) map[string]any {
	attrs := make(map[string]any, len(alerts)*7)
	multiple := len(alerts) > 1
	for i, alert := range alerts {
		suffix := ""
		if multiple {
			suffix = fmt.Sprintf("_%d", i)
		}
		attrs["title"+suffix] = alert.Title
		attrs["regions"+suffix] = alert.Regions
		attrs["severity"+suffix] = alert.Severity
		attrs["time"+suffix] = alert.Time
		attrs["expires"+suffix] = alert.Expires
		attrs["description"+suffix] = alert.Description
		attrs["uri"+suffix] = alert.URI
	}
	return attrs
}
