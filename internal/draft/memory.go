package draft

import (
	"context"
	"sort"
	"sync"
)

// MemoryStorage keeps draft collections in memory. Used in tests and when
// running without redis.
type MemoryStorage struct {
	mu     sync.RWMutex
	states map[string]StoredState
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{states: make(map[string]StoredState)}
}

func (m *MemoryStorage) Load(_ context.Context, clientID string) (StoredState, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[clientID]
	return state, ok, nil
}

func (m *MemoryStorage) Save(_ context.Context, clientID string, state StoredState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[clientID] = state
	return nil
}

func (m *MemoryStorage) Clients(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

var _ Storage = (*MemoryStorage)(nil)
