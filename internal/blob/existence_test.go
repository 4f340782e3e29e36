// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lumina/internal/blob"
	"github.com/taibuivan/lumina/internal/platform/storage"
)

func newLocalFixture(t *testing.T, filenames ...string) (*blob.LocalStore, *blob.Existence) {
	t.Helper()

	store, err := blob.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	for _, name := range filenames {
		_, err := store.Put(ctx, name, []byte("jpeg-bytes"), "image/jpeg")
		require.NoError(t, err)
	}

	return store, blob.NewExistence(store, storage.NewMemoryStore())
}

/*
TestLocalStore_PutListDelete covers the development blob backend.
*/
func TestLocalStore_PutListDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newLocalFixture(t)

	url, err := store.Put(ctx, "a.jpg", []byte("bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.jpg", url)

	objects, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "a.jpg", objects[0].Filename)
	assert.Equal(t, int64(5), objects[0].Size)

	// Idempotent delete
	require.NoError(t, store.Delete(ctx, "a.jpg"))
	require.NoError(t, store.Delete(ctx, "a.jpg"))

	objects, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, objects)
}

/*
TestExistence_SubtractsDeletedSet verifies that soft-deleted filenames
disappear from the oracle even while the blob still exists.
*/
func TestExistence_SubtractsDeletedSet(t *testing.T) {
	ctx := context.Background()
	_, oracle := newLocalFixture(t, "a.jpg", "b.jpg")

	existing, err := oracle.Existing(ctx)
	require.NoError(t, err)
	assert.True(t, existing["a.jpg"])
	assert.True(t, existing["b.jpg"])

	// Soft-delete a.jpg
	require.NoError(t, oracle.MarkDeleted(ctx, "a.jpg"))
	// Re-marking is a no-op
	require.NoError(t, oracle.MarkDeleted(ctx, "a.jpg"))

	existing, err = oracle.Existing(ctx)
	require.NoError(t, err)
	assert.False(t, existing["a.jpg"])
	assert.True(t, existing["b.jpg"])

	ok, err := oracle.Exists(ctx, "a.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = oracle.Exists(ctx, "ghost.jpg")
	require.NoError(t, err)
	assert.False(t, ok)
}
