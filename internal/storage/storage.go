// Package storage provides the string key-value slot the attendance store
// persists itself into.
package storage

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("key not found")

// KV is a string key-value backend.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Memory is a KV held in process memory.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}
