// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/lumina/internal/platform/constants"
	"github.com/taibuivan/lumina/internal/platform/storage"
)

// Existence answers whether filenames currently exist in durable image
// storage. Albums, the cover set, and the gallery order all hold filename
// references that can go stale; this oracle is what invalidates them.
//
// An image exists when the blob backend lists it AND it is not in the
// soft-deleted set. The soft-deleted set covers serverless deployments
// where a blob delete may lag or fail; adding the filename to the set makes
// the deletion visible immediately and idempotently.
type Existence struct {
	blobs Store
	kv    storage.Store
}

// NewExistence builds the oracle over a blob backend and the key-value
// store holding the soft-deleted set.
func NewExistence(blobs Store, kv storage.Store) *Existence {
	return &Existence{blobs: blobs, kv: kv}
}

/*
Existing returns the set of filenames that currently exist.

Description: One blob listing per call. Callers that need several
membership checks should call this once and probe the returned map rather
than calling Exists in a loop.

Parameters:
  - ctx: context.Context

Returns:
  - map[string]bool: Present filenames (true for every entry)
  - error: Blob listing failures
*/
func (oracle *Existence) Existing(ctx context.Context) (map[string]bool, error) {

	// 1. Enumerate durable storage
	objects, err := oracle.blobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("existence: blob listing failed: %w", err)
	}

	// 2. Load the soft-deleted set (absent document means empty set)
	deleted, err := oracle.deletedSet(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Subtract
	existing := make(map[string]bool, len(objects))
	for _, object := range objects {
		if !deleted[object.Filename] {
			existing[object.Filename] = true
		}
	}

	return existing, nil
}

/*
Exists reports whether a single filename currently exists.

Parameters:
  - ctx: context.Context
  - filename: string

Returns:
  - bool: Presence
  - error: Blob listing failures
*/
func (oracle *Existence) Exists(ctx context.Context, filename string) (bool, error) {
	existing, err := oracle.Existing(ctx)
	if err != nil {
		return false, err
	}
	return existing[filename], nil
}

/*
MarkDeleted adds a filename to the soft-deleted set.

Description: Idempotent — re-marking an already-deleted filename is a no-op
write of the same set.
*/
func (oracle *Existence) MarkDeleted(ctx context.Context, filename string) error {

	deleted, err := oracle.deletedSet(ctx)
	if err != nil {
		return err
	}

	if deleted[filename] {
		return nil
	}
	deleted[filename] = true

	// Persist as a sorted-free JSON list; set semantics live in memory
	list := make([]string, 0, len(deleted))
	for name := range deleted {
		list = append(list, name)
	}

	return storage.SetJSON(ctx, oracle.kv, constants.StorageKeyDeletedImages, list)
}

// deletedSet loads the soft-deleted filename set, treating an absent
// document as an empty set.
func (oracle *Existence) deletedSet(ctx context.Context) (map[string]bool, error) {

	var list []string
	err := storage.GetJSON(ctx, oracle.kv, constants.StorageKeyDeletedImages, &list)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("existence: failed to load deleted set: %w", err)
	}

	deleted := make(map[string]bool, len(list))
	for _, name := range list {
		deleted[name] = true
	}

	return deleted, nil
}
