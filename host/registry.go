package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type binding struct {
	entityID string
	entity   Entity
	last     *State
}

// Registry tracks bound entities and fans their state writes out to writers
type Registry struct {
	mu        sync.Mutex
	bindings  map[string]*binding
	uniqueIDs map[string]string
	order     []string
	writers   []StateWriter
	logger    *logrus.Entry
	now       func() time.Time
}

// NewRegistry creates an empty registry. Writers are called in the given order.
func NewRegistry(logger *logrus.Logger, writers ...StateWriter) *Registry {
	return &Registry{
		bindings:  make(map[string]*binding),
		uniqueIDs: make(map[string]string),
		writers:   writers,
		logger:    logger.WithField("component", "registry"),
		now:       time.Now,
	}
}

// AddWriter appends a writer to the fan-out list
func (r *Registry) AddWriter(w StateWriter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writers = append(r.writers, w)
}

// Add binds entities and writes their initial state. It returns the assigned
// entity ids; entities whose unique id is already registered are skipped.
func (r *Registry) Add(entities ...Entity) []string {
	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		id, err := r.bind(e)
		if err != nil {
			r.logger.WithError(err).WithField("name", e.Name()).Warn("skipping entity")
			continue
		}
		ids = append(ids, id)

		e.AddedToHost(func() { r.write(id) })
		r.write(id)
	}
	return ids
}

func (r *Registry) bind(e Entity) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if uid := e.UniqueID(); uid != "" {
		if existing, ok := r.uniqueIDs[uid]; ok {
			return "", fmt.Errorf("unique id %s already belongs to %s", uid, existing)
		}
	}

	base := e.Domain() + "." + Slugify(e.Name())
	id := base
	for n := 2; r.bindings[id] != nil; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}

	r.bindings[id] = &binding{entityID: id, entity: e}
	r.order = append(r.order, id)
	if uid := e.UniqueID(); uid != "" {
		r.uniqueIDs[uid] = id
	}

	r.logger.WithFields(logrus.Fields{"entity_id": id, "unique_id": e.UniqueID()}).Debug("entity added")
	return id, nil
}

// Remove unbinds the entity with the given id and clears it from writers
// that implement StateRemover
func (r *Registry) Remove(entityID string) bool {
	r.mu.Lock()
	b, ok := r.bindings[entityID]
	if ok {
		delete(r.bindings, entityID)
		delete(r.uniqueIDs, b.entity.UniqueID())
		for i, id := range r.order {
			if id == entityID {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	writers := append([]StateWriter(nil), r.writers...)
	r.mu.Unlock()

	if !ok {
		return false
	}
	b.entity.WillRemoveFromHost()

	ctx := context.Background()
	for _, w := range writers {
		rm, ok := w.(StateRemover)
		if !ok {
			continue
		}
		if err := rm.RemoveState(ctx, entityID); err != nil {
			r.logger.WithError(err).WithField("entity_id", entityID).Error("state remover failed")
		}
	}
	r.logger.WithField("entity_id", entityID).Debug("entity removed")
	return true
}

// RemoveAll unbinds every entity
func (r *Registry) RemoveAll() {
	for _, id := range r.EntityIDs() {
		r.Remove(id)
	}
}

// EntityIDs returns the bound entity ids in the order they were added
func (r *Registry) EntityIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// State returns the last state written for entityID
func (r *Registry) State(entityID string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bindings[entityID]
	if !ok || b.last == nil {
		return State{}, false
	}
	return *b.last, true
}

// write renders the entity and hands the result to every writer
func (r *Registry) write(entityID string) {
	r.mu.Lock()
	b, ok := r.bindings[entityID]
	if !ok {
		r.mu.Unlock()
		return
	}
	state := Render(entityID, b.entity, b.last, r.now())
	b.last = &state
	writers := append([]StateWriter(nil), r.writers...)
	r.mu.Unlock()

	ctx := context.Background()
	for _, w := range writers {
		if err := w.WriteState(ctx, state); err != nil {
			r.logger.WithError(err).WithField("entity_id", entityID).Error("state writer failed")
		}
	}
}
