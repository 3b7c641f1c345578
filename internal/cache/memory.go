package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value    []byte
	storedAt time.Time
	ttl      time.Duration
}

// Memory is a mutex-guarded in-process store with lazy TTL eviction. Expired
// entries are treated as absent on read and purged opportunistically on write.
// No size bound: the working set is bounded by the assets queried in a session.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	ttls    TTLTable
	now     func() time.Time
}

func NewMemory(ttls TTLTable) *Memory {
	if ttls == nil {
		ttls = DefaultTTLTable()
	}
	return &Memory{
		entries: make(map[string]entry),
		ttls:    ttls,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.storedAt) >= e.ttl {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Put(_ context.Context, key string, value []byte, category Category) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.entries[key] = entry{value: value, storedAt: now, ttl: m.ttls.TTL(category)}

	// Opportunistic purge keeps the map from accumulating dead entries in
	// long sessions.
	for k, e := range m.entries {
		if now.Sub(e.storedAt) >= e.ttl {
			delete(m.entries, k)
		}
	}
}
