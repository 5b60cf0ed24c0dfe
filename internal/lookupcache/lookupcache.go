// Package lookupcache holds process-wide keyed lookups such as resolved platform
// ids and localized summaries. Values are stored JSON-encoded so the in-memory
// and Redis stores behave the same, including cached negative results.
package lookupcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ryanm101/gameshelf/internal/metrics"
)

// Store is a keyed cache with monotonic keys and no eviction beyond an optional TTL.
type Store interface {
	// Get decodes the value for key into dst and reports whether it was present.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error
}

// Memory is a mutex-guarded in-process Store.
type Memory struct {
	name string
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory(name string) *Memory {
	return &Memory{name: name, data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()

	metrics.RecordLookup(m.name, ok)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s entry %q: %w", m.name, key, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s entry %q: %w", m.name, key, err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}
