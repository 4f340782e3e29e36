// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore implements [Store] with one JSON file per key under a data
// directory. It is the development backend and the second fallback tier
// behind Redis in production.
//
// # Concurrency
//
// A process-wide mutex serializes writes. The server is the only writer to
// the data directory, so file-level locking is unnecessary.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the data directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file_store: failed to create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

/*
Get reads the document for key from disk.

Parameters:
  - ctx: context.Context (unused; disk reads are not cancellable)
  - key: string

Returns:
  - []byte: The stored document
  - error: ErrKeyNotFound when the file is absent, I/O errors otherwise
*/
func (store *FileStore) Get(_ context.Context, key string) ([]byte, error) {

	raw, err := os.ReadFile(store.path(key))

	// Map a missing file to the storage-level sentinel
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("file_store_get_failed: %w", err)
	}

	return raw, nil
}

/*
Set writes the document for key atomically (temp file + rename).

Parameters:
  - ctx: context.Context (unused)
  - key: string
  - value: []byte

Returns:
  - error: I/O errors
*/
func (store *FileStore) Set(_ context.Context, key string, value []byte) error {

	store.mu.Lock()
	defer store.mu.Unlock()

	target := store.path(key)

	// Write to a temp file first so a crash never leaves a torn document
	tmp, err := os.CreateTemp(store.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("file_store_set_failed: %w", err)
	}

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("file_store_set_failed: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("file_store_set_failed: %w", err)
	}

	// Rename is atomic on POSIX filesystems
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("file_store_set_failed: %w", err)
	}

	return nil
}

/*
Delete removes the document file for key. Absent files are not an error.
*/
func (store *FileStore) Delete(_ context.Context, key string) error {

	store.mu.Lock()
	defer store.mu.Unlock()

	if err := os.Remove(store.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file_store_delete_failed: %w", err)
	}

	return nil
}

// Name identifies this backend in logs and health checks.
func (store *FileStore) Name() string { return "file" }

// path maps a storage key to a filesystem path. Colons in namespaced keys
// (e.g. "metrics:visits:2026-08-29") are not portable, so they become
// double underscores.
func (store *FileStore) path(key string) string {
	safe := strings.ReplaceAll(key, ":", "__")
	return filepath.Join(store.dir, safe+".json")
}
