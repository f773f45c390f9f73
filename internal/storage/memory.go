package storage

import (
	"fmt"
	"sync"

	"github.com/starford/moodmate/internal/apperr"
)

// Memory is an in-process Backend, used by tests and dry runs.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	// FailSet, when non-nil, is returned by every Set.
	FailSet error
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("storage: get %s: %w", key, apperr.ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}
