// Package cache memoizes normalized datasets by source identity.
package cache

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/pable/go-gps-metrics/internal/model"
)

// Cache stores normalized datasets keyed by source identity. Cached datasets
// are shared; callers must not mutate them.
type Cache interface {
	Lookup(key string) (*model.Dataset, bool, error)
	Store(key string, ds *model.Dataset) error
}

// SourceKey returns the identity of a source's content.
func SourceKey(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}

// Memory is an in-process Cache. With a positive limit, the oldest entry is
// evicted once the limit is reached.
type Memory struct {
	mu      sync.Mutex
	limit   int
	order   []string
	entries map[string]*model.Dataset
}

// NewMemory returns an in-memory cache holding at most limit datasets
// (unbounded when limit <= 0).
func NewMemory(limit int) *Memory {
	return &Memory{limit: limit, entries: make(map[string]*model.Dataset)}
}

func (m *Memory) Lookup(key string) (*model.Dataset, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ds, ok := m.entries[key]
	return ds, ok, nil
}

func (m *Memory) Store(key string, ds *model.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
	}
	m.entries[key] = ds
	for m.limit > 0 && len(m.order) > m.limit {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}
	return nil
}

// Len returns the number of cached datasets.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Nop never caches.
type Nop struct{}

func (Nop) Lookup(string) (*model.Dataset, bool, error) { return nil, false, nil }
func (Nop) Store(string, *model.Dataset) error          { return nil }
