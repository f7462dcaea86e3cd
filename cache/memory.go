package cache

import (
	"context"
	"sync"
	"time"
)

// StateStore holds OAuth state nonces between redirect and callback.
type StateStore interface {
	Save(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) (bool, error)
}

// MemoryStore is the in-process fallback used when Redis is not reachable.
// It implements StateStore and session.Revoker for a single instance.
type MemoryStore struct {
	mu      sync.Mutex
	states  map[string]time.Time
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:  map[string]time.Time{},
		revoked: map[string]time.Time{},
		now:     time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.states[state] = m.now().Add(StateTTL)
	return nil
}

func (m *MemoryStore) Consume(_ context.Context, state string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.states[state]
	delete(m.states, state)
	return ok && m.now().Before(exp), nil
}

func (m *MemoryStore) Revoke(_ context.Context, id string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.revoked[id] = until
	return nil
}

func (m *MemoryStore) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.revoked[id]
	return ok && m.now().Before(until), nil
}

// sweep drops expired entries; callers hold mu.
func (m *MemoryStore) sweep() {
	now := m.now()
	for k, exp := range m.states {
		if !now.Before(exp) {
			delete(m.states, k)
		}
	}
	for k, until := range m.revoked {
		if !now.Before(until) {
			delete(m.revoked, k)
		}
	}
}
