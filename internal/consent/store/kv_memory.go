package store

import (
	"context"
	"sync"
)

// InMemoryKV is a process-local KV for development and tests.
type InMemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewInMemoryKV() *InMemoryKV {
	return &InMemoryKV{values: make(map[string]string)}
}

func (kv *InMemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.values[key]
	return v, ok, nil
}

func (kv *InMemoryKV) Set(_ context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.values[key] = value
	return nil
}

func (kv *InMemoryKV) Remove(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.values, key)
	return nil
}
