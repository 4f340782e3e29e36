// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps image files in a directory on local disk and serves them
// under /uploads. It is the development backend.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the uploads directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: failed to create uploads dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

/*
Put writes the image bytes to disk.

Parameters:
  - ctx: context.Context (unused; disk writes are not cancellable)
  - filename: string (already sanitized by the upload path)
  - data: []byte
  - contentType: string (ignored; the static file server infers it)

Returns:
  - string: Public URL (/uploads/<filename>)
  - error: I/O errors
*/
func (store *LocalStore) Put(_ context.Context, filename string, data []byte, _ string) (string, error) {

	if err := os.WriteFile(filepath.Join(store.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("blob_local_put_failed: %w", err)
	}

	return store.URL(filename), nil
}

/*
List enumerates the image files in the uploads directory.

Description: Dot-files and subdirectories are skipped; the uploads dir is
flat by construction.

Returns:
  - []Object: One entry per stored image
  - error: I/O errors
*/
func (store *LocalStore) List(_ context.Context) ([]Object, error) {

	entries, err := os.ReadDir(store.dir)
	if err != nil {
		return nil, fmt.Errorf("blob_local_list_failed: %w", err)
	}

	objects := make([]Object, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		objects = append(objects, Object{
			Filename:   entry.Name(),
			URL:        store.URL(entry.Name()),
			Size:       info.Size(),
			UploadedAt: info.ModTime(),
		})
	}

	return objects, nil
}

/*
Delete removes the image file. Absent files are not an error.
*/
func (store *LocalStore) Delete(_ context.Context, filename string) error {

	err := os.Remove(filepath.Join(store.dir, filename))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("blob_local_delete_failed: %w", err)
	}

	return nil
}

// URL returns the path the static file server exposes the image under.
func (store *LocalStore) URL(filename string) string {
	return "/uploads/" + filename
}

// Dir exposes the uploads directory for the static file server mount.
func (store *LocalStore) Dir() string { return store.dir }

// Name identifies this backend in logs and health checks.
func (store *LocalStore) Name() string { return "local" }
