package host

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	StateUnavailable = "unavailable"
	StateUnknown     = "unknown"
)

// Attribute keys added to every rendered state
const (
	AttrFriendlyName      = "friendly_name"
	AttrUnitOfMeasurement = "unit_of_measurement"
	AttrIcon              = "icon"
	AttrEntityPicture     = "entity_picture"
	AttrAttribution       = "attribution"
)

// FormatState renders an entity state value as a string
func FormatState(v any) string {
	switch s := v.(type) {
	case nil:
		return StateUnknown
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case time.Time:
		return s.Format(time.RFC3339)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

// Render builds the state of e. prev is the entity's previous state, if any;
// LastChanged only moves forward when the state string differs from it.
func Render(entityID string, e Entity, prev *State, now time.Time) State {
	state := StateUnavailable
	if e.Available() {
		state = FormatState(e.State())
	}

	attrs := make(map[string]any)
	for k, v := range e.Attributes() {
		attrs[k] = v
	}
	attrs[AttrFriendlyName] = e.Name()
	setIfNotEmpty(attrs, AttrUnitOfMeasurement, e.Unit())
	setIfNotEmpty(attrs, AttrIcon, e.Icon())
	setIfNotEmpty(attrs, AttrEntityPicture, e.Picture())
	setIfNotEmpty(attrs, AttrAttribution, e.Attribution())

	lastChanged := now
	if prev != nil && prev.State == state {
		lastChanged = prev.LastChanged
	}

	return State{
		EntityID:    entityID,
		State:       state,
		Attributes:  attrs,
		LastChanged: lastChanged,
		LastUpdated: now,
		Context:     Context{ID: uuid.New().String()},
	}
}

func setIfNotEmpty(attrs map[string]any, key, value string) {
	if value != "" {
		attrs[key] = value
	}
}

// Slugify turns a display name into the object id part of an entity id
func Slugify(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
