// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements [Store] on top of a Redis (or Upstash-compatible)
// client. It is the durable tier in serverless deployments.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. All keys are namespaced under
// the given prefix (e.g. "lumina:") so one instance can share a database.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

/*
Get retrieves the raw document stored at key.

Parameters:
  - ctx: context.Context
  - key: string

Returns:
  - []byte: The stored document
  - error: ErrKeyNotFound when absent, connectivity errors otherwise
*/
func (store *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {

	// Fetch the raw value
	raw, err := store.client.Get(ctx, store.prefix+key).Bytes()

	// Map the redis miss sentinel to the storage-level sentinel
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis_store_get_failed: %w", err)
	}

	// Return the document
	return raw, nil
}

/*
Set stores the raw document at key without expiry.

Parameters:
  - ctx: context.Context
  - key: string
  - value: []byte

Returns:
  - error: Connectivity errors
*/
func (store *RedisStore) Set(ctx context.Context, key string, value []byte) error {

	// Portfolio state never expires; 0 disables the TTL
	if err := store.client.Set(ctx, store.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis_store_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Delete removes the key. Absent keys are not an error.

Parameters:
  - ctx: context.Context
  - key: string

Returns:
  - error: Connectivity errors
*/
func (store *RedisStore) Delete(ctx context.Context, key string) error {

	if err := store.client.Del(ctx, store.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis_store_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}

// Name identifies this backend in logs and health checks.
func (store *RedisStore) Name() string { return "redis" }
