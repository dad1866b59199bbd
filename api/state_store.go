package api

import (
	"context"
	"sort"
	"sync"

	"darksky-sensors/host"
)

// StateStore holds the latest rendered state of every entity
type StateStore struct {
	data  map[string]host.State // key is entity id
	mutex sync.RWMutex
}

// NewStateStore creates a new in-memory state store
func NewStateStore() *StateStore {
	return &StateStore{
		data: make(map[string]host.State),
	}
}

// WriteState adds or replaces the state of an entity
func (s *StateStore) WriteState(ctx context.Context, state host.State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[state.EntityID] = state
	return nil
}

// RemoveState drops the state of an unbound entity
func (s *StateStore) RemoveState(ctx context.Context, entityID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, entityID)
	return nil
}

// GetState retrieves the state of a single entity
func (s *StateStore) GetState(entityID string) (host.State, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	state, exists := s.data[entityID]
	return state, exists
}

// GetAllStates returns every state ordered by entity id
func (s *StateStore) GetAllStates() []host.State {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	states := make([]host.State, 0, len(s.data))
	for _, state := range s.data {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].EntityID < states[j].EntityID })
	return states
}

var (
	_ host.StateWriter  = (*StateStore)(nil)
	_ host.StateRemover = (*StateStore)(nil)
)
