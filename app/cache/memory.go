package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]map[string]entry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]map[string]entry)}
}

func (m *Memory) Get(_ context.Context, path, variant string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[path][variant]
	if !ok {
		return nil, false, nil
	}
	if m.now().After(e.expires) {
		m.drop(path, variant)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, path, variant string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, ok := m.entries[path]
	if !ok {
		slots = make(map[string]entry)
		m.entries[path] = slots
	}
	slots[variant] = entry{value: value, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Revalidate(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, path)
	return nil
}

// Sweep drops expired entries and reports how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for path, slots := range m.entries {
		for variant, e := range slots {
			if now.After(e.expires) {
				m.drop(path, variant)
				n++
			}
		}
	}
	return n
}

// drop must be called with mu held.
func (m *Memory) drop(path, variant string) {
	delete(m.entries[path], variant)
	if len(m.entries[path]) == 0 {
		delete(m.entries, path)
	}
}
