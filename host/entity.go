// Package host is the small entity runtime the sensors live in: it binds
// entities, renders their state and hands every state write to the registered
// writers.
package host

import (
	"context"
	"time"
)

// Entity is anything the registry can render
type Entity interface {
	// Domain is the entity id prefix, e.g. "sensor" or "weather"
	Domain() string
	UniqueID() string
	Name() string

	// State returns a float64, int, string, time.Time or nil
	State() any
	Unit() string
	Icon() string
	Picture() string
	Attribution() string
	Attributes() map[string]any
	Available() bool

	// AddedToHost subscribes the entity to its data source. write must be
	// called whenever the entity's state may have changed.
	AddedToHost(write func())
	WillRemoveFromHost()
}

// Context identifies a single state write
type Context struct {
	ID string `json:"id"`
}

// State is the rendered state of one entity at one point in time
type State struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged time.Time      `json:"last_changed"`
	LastUpdated time.Time      `json:"last_updated"`
	Context     Context        `json:"context"`
}

// StateWriter receives every state write
type StateWriter interface {
	WriteState(ctx context.Context, state State) error
}

// StateRemover is implemented by writers that keep the last state of each
// entity and must drop it when the entity is unbound
type StateRemover interface {
	RemoveState(ctx context.Context, entityID string) error
}

// StateWriterFunc adapts a function to the StateWriter interface
type StateWriterFunc func(ctx context.Context, state State) error

// WriteState calls f
func (f StateWriterFunc) WriteState(ctx context.Context, state State) error {
	return f(ctx, state)
}
