package cache

import (
	"context"
	"sync"
	"time"

	"darksky-sensors/models"
)

// Store keeps forecasts for a limited time
type Store interface {
	// Get returns the forecast stored under key; found is false on a miss
	Get(ctx context.Context, key string) (forecast *models.Forecast, found bool, err error)
	Set(ctx context.Context, key string, forecast *models.Forecast, ttl time.Duration) error
}

// MemoryStore is a process local Store
type MemoryStore struct {
	entries map[string]cacheEntry
	mutex   sync.RWMutex
	now     func() time.Time
}

// cacheEntry represents a cached forecast with its expiry
type cacheEntry struct {
	Data    *models.Forecast
	Expires time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the entry for key if it has not expired
func (m *MemoryStore) Get(ctx context.Context, key string) (*models.Forecast, bool, error) {
	m.mutex.RLock()
	entry, found := m.entries[key]
	m.mutex.RUnlock()

	if !found || !m.now().Before(entry.Expires) {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores forecast under key for ttl and drops expired entries
func (m *MemoryStore) Set(ctx context.Context, key string, forecast *models.Forecast, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	m.prune(now)
	m.entries[key] = cacheEntry{
		Data:    forecast,
		Expires: now.Add(ttl),
	}
	return nil
}

// Prune drops expired entries and returns how many were removed
func (m *MemoryStore) Prune() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.prune(m.now())
}

func (m *MemoryStore) prune(now time.Time) int {
	removed := 0
	for key, entry := range m.entries {
		if !now.Before(entry.Expires) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

var _ Store = (*MemoryStore)(nil)
