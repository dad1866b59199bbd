// Package entity adapts the coordinator's forecast snapshot into host entities.
// Entities hold no forecast data of their own: every read goes back to the
// snapshot the source currently holds.
package entity

import (
	"fmt"
	"sync"

	"darksky-sensors/models"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
)

const (
	// Attribution is shown on every entity
	Attribution = "Powered by Dark Sky"

	// DefaultName is used for sensors and the weather entity when no name is configured
	DefaultName = "Custom Dark Sky"
)

// Source is the read side of the refresh coordinator
type Source interface {
	Snapshot() *models.Forecast
	LastUpdateSuccess() bool
	AddListener(fn func()) (remove func())
	Units() models.Units
}

// subscription implements the lifecycle shared by all entities
type subscription struct {
	source Source

	mu     sync.Mutex
	remove func()
}

func (s *subscription) AddedToHost(write func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remove != nil {
		s.remove()
	}
	s.remove = s.source.AddListener(write)
}

func (s *subscription) WillRemoveFromHost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remove != nil {
		s.remove()
		s.remove = nil
	}
}

func (s *subscription) Available() bool {
	return s.source.LastUpdateSuccess()
}

func (s *subscription) Attribution() string {
	return Attribution
}

// units returns the unit system the snapshot reports, or the requested one
func (s *subscription) units(f *models.Forecast) models.Units {
	if f != nil && f.Flags.Units.Resolved() {
		return f.Flags.Units
	}
	return s.source.Units()
}

// uniqueID derives a stable id from the location and the entity's key
func uniqueID(lat, lon float64, key string) string {
	name := fmt.Sprintf("darksky/%s/%s", geohash.Encode(lat, lon), key)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
