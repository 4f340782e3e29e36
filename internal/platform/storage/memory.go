// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"sync"
)

// MemoryStore implements [Store] with a mutex-guarded in-process map.
//
// It is the last fallback tier: state written here survives backend outages
// for the lifetime of the process, which keeps the admin panel usable while
// Redis or the disk recovers. It also backs unit tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns a copy of the value at key, or [ErrKeyNotFound].
func (store *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	raw, ok := store.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	// Copy so callers cannot mutate the stored document
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// Set stores a copy of value at key.
func (store *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	store.data[key] = stored
	return nil
}

// Delete removes the key. Absent keys are not an error.
func (store *MemoryStore) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.data, key)
	return nil
}

// Name identifies this backend in logs and health checks.
func (store *MemoryStore) Name() string { return "memory" }
