// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage provides the uniform key-value abstraction all portfolio
state lives behind (albums, cover set, hero config, gallery order, deleted
image set, visit counters).

Architecture:

  - Store: One interface, three backends (Redis, JSON files, in-process memory).
  - Fallback: Backends are chained; a backend error degrades to the next tier.
  - Documents: Every key holds one opaque JSON document. The domain layer
    owns (de)serialization; this layer never inspects values.

Consistency model: per-key get/set is atomic within a backend, but there is
no compare-and-swap. Concurrent writers to the same key are last-write-wins,
and clients re-fetch authoritative state after every mutation.
*/
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when a key has no value in the consulted tier.
//
// A key miss is an authoritative answer, not a failure: the fallback chain
// does NOT consult lower tiers on a miss, only on backend errors.
var ErrKeyNotFound = errors.New("storage: key not found")

// Store is the uniform key-value contract the domain layer depends on.
//
// Values are opaque byte slices; callers marshal/unmarshal JSON themselves.
type Store interface {
	// Get returns the value stored at key, or [ErrKeyNotFound].
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Name identifies the backend in logs and health checks.
	Name() string
}

// GetJSON fetches the document at key and unmarshals it into target.
//
// Returns [ErrKeyNotFound] untouched so callers can fall back to defaults.
func GetJSON(ctx context.Context, store Store, key string, target interface{}) error {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	return unmarshalJSON(raw, target)
}

// SetJSON marshals the document and stores it at key.
func SetJSON(ctx context.Context, store Store, key string, value interface{}) error {
	raw, err := marshalJSON(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, raw)
}
