package kvstore

import (
	"context"
	"sync"
)

// memoryStore is a process-local Store used in tests and when the client
// runs without a Redis instance.
type memoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() Store {
	return &memoryStore{values: make(map[string]string)}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]

	return value, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}

func (m *memoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)

	return nil
}

func (m *memoryStore) Close() error {
	return nil
}
