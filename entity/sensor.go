package entity

import (
	"fmt"
	"strconv"

	"darksky-sensors/formatter"
	"darksky-sensors/models"
)

type offsetKind int

const (
	offsetNone offsetKind = iota
	offsetDay
	offsetHour
)

// Sensor exposes one field of the currently, daily or hourly data
type Sensor struct {
	subscription

	clientName string
	field      models.Field
	kind       offsetKind
	offset     int
	uniqueID   string
}

// NewSensor creates a sensor for the currently data point
func NewSensor(source Source, clientName string, field models.Field, lat, lon float64) *Sensor {
	return newSensor(source, clientName, field, offsetNone, 0, lat, lon)
}

// NewDailySensor creates a sensor for the daily data point day days from today
func NewDailySensor(source Source, clientName string, field models.Field, day int, lat, lon float64) *Sensor {
	return newSensor(source, clientName, field, offsetDay, day, lat, lon)
}

// NewHourlySensor creates a sensor for the hourly data point hour hours from now
func NewHourlySensor(source Source, clientName string, field models.Field, hour int, lat, lon float64) *Sensor {
	return newSensor(source, clientName, field, offsetHour, hour, lat, lon)
}

func newSensor(source Source, clientName string, field models.Field, kind offsetKind, offset int, lat, lon float64) *Sensor {
	s := &Sensor{
		subscription: subscription{source: source},
		clientName:   clientName,
		field:        field,
		kind:         kind,
		offset:       offset,
	}
	s.uniqueID = uniqueID(lat, lon, string(field)+s.suffix())
	return s
}

func (s *Sensor) suffix() string {
	switch s.kind {
	case offsetDay:
		return "_" + strconv.Itoa(s.offset) + "d"
	case offsetHour:
		return "_" + strconv.Itoa(s.offset) + "h"
	}
	return ""
}

// Field returns the monitored field
func (s *Sensor) Field() models.Field { return s.field }

func (s *Sensor) Domain() string   { return "sensor" }
func (s *Sensor) UniqueID() string { return s.uniqueID }

func (s *Sensor) Name() string {
	name := fmt.Sprintf("%s %s", s.clientName, s.field.Label())
	switch s.kind {
	case offsetDay:
		return fmt.Sprintf("%s %dd", name, s.offset)
	case offsetHour:
		return fmt.Sprintf("%s %dh", name, s.offset)
	}
	return name
}

// point returns the data point the sensor reads, or nil when the snapshot
// has no data at the sensor's offset. Block summaries read the first point
// of their block; minutely reads the currently point.
func (s *Sensor) point(f *models.Forecast) *models.DataPoint {
	if f == nil {
		return nil
	}
	switch s.field {
	case models.FieldMinutelySummary:
		return &f.Currently
	case models.FieldHourlySummary:
		return f.Hourly.At(0)
	case models.FieldDailySummary:
		return f.Daily.At(0)
	}
	switch s.kind {
	case offsetDay:
		return f.Daily.At(s.offset)
	case offsetHour:
		return f.Hourly.At(s.offset)
	}
	return &f.Currently
}

// conditionCode returns the vendor icon code backing a summary sensor
func (s *Sensor) conditionCode(f *models.Forecast) string {
	if p := s.point(f); p != nil {
		return p.Icon
	}
	return ""
}

func (s *Sensor) State() any {
	f := s.source.Snapshot()
	if models.BlockSummaryFields.Has(s.field) {
		p := s.point(f)
		if p == nil || p.Summary == "" {
			return nil
		}
		return p.Summary
	}
	return formatter.StateValue(s.field, s.point(f))
}

func (s *Sensor) Unit() string {
	return formatter.UnitOfMeasurement(s.field, s.units(s.source.Snapshot()))
}

func (s *Sensor) Icon() string {
	return formatter.Icon(s.field, s.conditionCode(s.source.Snapshot()))
}

// Picture is only set for summary sensors
func (s *Sensor) Picture() string {
	if !s.field.IsSummary() {
		return ""
	}
	return formatter.ConditionPicture(s.conditionCode(s.source.Snapshot()))
}

func (s *Sensor) Attributes() map[string]any { return nil }
