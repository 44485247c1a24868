// Package prefs stores remembered per-field and per-form UI preferences (last
// search text, collapsed group state, sort order) keyed by a stable form or
// field id. The default store is in-memory; hosts that want persistence across
// page loads supply their own Store.
package prefs

import (
	"strings"
	"sync"
)

// Store is the persistence surface for UI preferences. Implementations must
// be safe for concurrent use.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// Key builds a stable preference key from id segments. Empty segments are
// dropped.
func Key(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	return strings.Join(clean, ".")
}

// Memory is the default in-process Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set implements Store.
func (m *Memory) Set(key, value string) {
	if strings.TrimSpace(key) == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Delete implements Store.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}
