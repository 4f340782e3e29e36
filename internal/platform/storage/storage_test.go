// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lumina/internal/platform/storage"
)

// failingStore simulates a backend whose every operation errors out.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("backend down")
}
func (failingStore) Set(context.Context, string, []byte) error { return errors.New("backend down") }
func (failingStore) Delete(context.Context, string) error      { return errors.New("backend down") }
func (failingStore) Name() string                              { return "failing" }

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

/*
TestFileStore_RoundTrip exercises set/get/delete against a temp directory.
*/
func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	// Missing key yields the sentinel
	_, err = store.Get(ctx, "albums")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	// Round trip
	require.NoError(t, store.Set(ctx, "albums", []byte(`[{"id":"1"}]`)))
	raw, err := store.Get(ctx, "albums")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(raw))

	// Namespaced keys must be filesystem safe
	require.NoError(t, store.Set(ctx, "metrics:visits:2026-08-29", []byte(`3`)))
	raw, err = store.Get(ctx, "metrics:visits:2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, "3", string(raw))

	// Delete is idempotent
	require.NoError(t, store.Delete(ctx, "albums"))
	require.NoError(t, store.Delete(ctx, "albums"))
	_, err = store.Get(ctx, "albums")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

/*
TestMemoryStore_CopiesValues guards against aliasing of stored documents.
*/
func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	payload := []byte(`{"heroImage":"a.jpg"}`)
	require.NoError(t, store.Set(ctx, "hero_config", payload))

	// Mutating the original buffer must not corrupt the stored document
	payload[2] = 'X'

	raw, err := store.Get(ctx, "hero_config")
	require.NoError(t, err)
	assert.JSONEq(t, `{"heroImage":"a.jpg"}`, string(raw))
}

/*
TestFallbackStore_DegradesOnBackendError verifies that a broken primary tier
falls through to the next one for reads and that writes still land.
*/
func TestFallbackStore_DegradesOnBackendError(t *testing.T) {
	ctx := context.Background()
	memory := storage.NewMemoryStore()
	chain := storage.NewFallbackStore(testLogger(), failingStore{}, memory)

	// Write goes through despite the broken primary
	require.NoError(t, chain.Set(ctx, "cover_images", []byte(`["a.jpg"]`)))

	// Read falls through to the memory tier
	raw, err := chain.Get(ctx, "cover_images")
	require.NoError(t, err)
	assert.JSONEq(t, `["a.jpg"]`, string(raw))
}

/*
TestFallbackStore_MissIsAuthoritative checks that a key miss on a healthy
tier does NOT fall through to stale mirrors.
*/
func TestFallbackStore_MissIsAuthoritative(t *testing.T) {
	ctx := context.Background()

	primary := storage.NewMemoryStore()
	stale := storage.NewMemoryStore()
	require.NoError(t, stale.Set(ctx, "albums", []byte(`["ghost"]`)))

	chain := storage.NewFallbackStore(testLogger(), primary, stale)

	// Primary is healthy and has no value: the miss must win over the mirror
	_, err := chain.Get(ctx, "albums")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

/*
TestFallbackStore_AllTiersFailing surfaces the last error only when no tier
could serve the write.
*/
func TestFallbackStore_AllTiersFailing(t *testing.T) {
	ctx := context.Background()
	chain := storage.NewFallbackStore(testLogger(), failingStore{}, failingStore{})

	err := chain.Set(ctx, "albums", []byte(`[]`))
	assert.Error(t, err)
}

/*
TestGetJSON_SetJSON covers the typed document helpers.
*/
func TestGetJSON_SetJSON(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	type heroConfig struct {
		HeroImage string `json:"heroImage"`
		Title     string `json:"title"`
	}

	require.NoError(t, storage.SetJSON(ctx, store, "hero_config", heroConfig{
		HeroImage: "a.jpg",
		Title:     "Hello",
	}))

	var loaded heroConfig
	require.NoError(t, storage.GetJSON(ctx, store, "hero_config", &loaded))
	assert.Equal(t, "a.jpg", loaded.HeroImage)
	assert.Equal(t, "Hello", loaded.Title)

	err := storage.GetJSON(ctx, store, "missing", &loaded)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}
