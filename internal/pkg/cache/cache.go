// Package cache stores JSON-encoded values under string keys with no expiry.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Store is the key-value contract used by the catalog read path
type Store interface {
	// Get decodes the value at key into dest and reports whether it was present
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// MemoryStore is an in-process Store used when no Redis address is configured
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}
