// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"log/slog"
)

// FallbackStore composes an ordered list of tiers into one [Store].
//
// # Degradation Policy
//
//   - Reads consult tiers in order. A backend error is logged and the next
//     tier is tried; [ErrKeyNotFound] from a healthy tier is authoritative
//     and stops the chain.
//   - Writes go to every tier. Lower tiers act as warm mirrors so a later
//     read that falls through still sees recent state. A write only fails
//     when ALL tiers reject it — single-tier failures are logged and
//     swallowed, per the degradation contract callers rely on.
//
// The composition is what lets the rest of the codebase treat storage as
// effectively non-failing.
type FallbackStore struct {
	tiers  []Store
	logger *slog.Logger
}

// NewFallbackStore builds the chain. Tier order is priority order; the
// first tier is the source of truth for healthy reads.
func NewFallbackStore(logger *slog.Logger, tiers ...Store) *FallbackStore {
	return &FallbackStore{tiers: tiers, logger: logger}
}

/*
Get returns the value from the first tier that gives an authoritative answer.

Description: A key miss does not fall through — only backend errors do.
Falling through on a miss would resurrect deleted keys from stale mirrors.

Parameters:
  - ctx: context.Context
  - key: string

Returns:
  - []byte: The stored document
  - error: ErrKeyNotFound, or the last tier error if every tier failed
*/
func (store *FallbackStore) Get(ctx context.Context, key string) ([]byte, error) {

	var lastErr error

	for _, tier := range store.tiers {
		raw, err := tier.Get(ctx, key)

		// Authoritative answers: a value, or a definite miss
		if err == nil {
			return raw, nil
		}
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}

		// Backend error: log and degrade to the next tier
		store.logger.Warn("storage_tier_degraded",
			slog.String("tier", tier.Name()),
			slog.String("op", "get"),
			slog.String("key", key),
			slog.Any("error", err),
		)
		lastErr = err
	}

	return nil, lastErr
}

/*
Set writes the value to every tier, keeping lower tiers warm.

Returns:
  - error: Only when all tiers failed
*/
func (store *FallbackStore) Set(ctx context.Context, key string, value []byte) error {

	var lastErr error
	succeeded := false

	for _, tier := range store.tiers {
		if err := tier.Set(ctx, key, value); err != nil {
			store.logger.Warn("storage_tier_degraded",
				slog.String("tier", tier.Name()),
				slog.String("op", "set"),
				slog.String("key", key),
				slog.Any("error", err),
			)
			lastErr = err
			continue
		}
		succeeded = true
	}

	if !succeeded {
		return lastErr
	}

	return nil
}

/*
Delete removes the key from every tier.

Returns:
  - error: Only when all tiers failed
*/
func (store *FallbackStore) Delete(ctx context.Context, key string) error {

	var lastErr error
	succeeded := false

	for _, tier := range store.tiers {
		if err := tier.Delete(ctx, key); err != nil {
			store.logger.Warn("storage_tier_degraded",
				slog.String("tier", tier.Name()),
				slog.String("op", "delete"),
				slog.String("key", key),
				slog.Any("error", err),
			)
			lastErr = err
			continue
		}
		succeeded = true
	}

	if !succeeded {
		return lastErr
	}

	return nil
}

// Name identifies this backend in logs and health checks.
func (store *FallbackStore) Name() string { return "fallback" }
