package kvstore

import (
	"context"
	"sync"
)

// Memory keeps values for the lifetime of the process.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	value, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), value...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}

	stored := append([]byte(nil), value...)
	m.mu.Lock()
	m.entries[key] = stored
	m.mu.Unlock()

	return nil
}
