// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// # Staleness Signal

// Reasons attached to a [StaleEvent].
const (
	ReasonToggle = "toggle"
	ReasonBulk   = "bulk"
	ReasonUpdate = "update"
)

// Redis keys used by [RedisInvalidator].
const (
	VersionKey   = "catalog:version"
	StaleChannel = "catalog:stale"
)

// Invalidator tells consumers that previously fetched projections are outdated.
type Invalidator interface {
	// Invalidate bumps the catalog version after a successful mutation.
	Invalidate(context context.Context, reason string, bookIDs []int) error

	// Version returns the current catalog version (0 before any mutation).
	Version(context context.Context) (int64, error)
}

// StaleEvent is the message published on [StaleChannel].
type StaleEvent struct {
	Version int64  `json:"version"`
	Reason  string `json:"reason"`
	BookIDs []int  `json:"book_ids,omitempty"`
}

// NopInvalidator discards every signal and always reports version 0.
type NopInvalidator struct{}

// Invalidate implements [Invalidator].
func (NopInvalidator) Invalidate(context.Context, string, []int) error { return nil }

// Version implements [Invalidator].
func (NopInvalidator) Version(context.Context) (int64, error) { return 0, nil }

// redisCommander is the subset of [redis.Cmdable] the invalidator needs.
type redisCommander interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisInvalidator keeps a monotonically increasing version in Redis and
// publishes a [StaleEvent] for every bump.
type RedisInvalidator struct {
	client redisCommander
}

// NewRedisInvalidator wraps a go-redis client (or anything with the same commands).
func NewRedisInvalidator(client redisCommander) *RedisInvalidator {
	return &RedisInvalidator{client: client}
}

/*
Invalidate increments the version and announces it.

Parameters:
  - context: context.Context
  - reason: string mutation kind
  - bookIDs: []int affected books

Returns:
  - error: Redis failures
*/
func (invalidator *RedisInvalidator) Invalidate(context context.Context, reason string, bookIDs []int) error {
	version, err := invalidator.client.Incr(context, VersionKey).Result()
	if err != nil {
		return fmt.Errorf("catalog: bump version: %w", err)
	}

	payload, err := json.Marshal(StaleEvent{Version: version, Reason: reason, BookIDs: bookIDs})
	if err != nil {
		return fmt.Errorf("catalog: encode stale event: %w", err)
	}

	if err := invalidator.client.Publish(context, StaleChannel, payload).Err(); err != nil {
		return fmt.Errorf("catalog: publish stale event: %w", err)
	}

	return nil
}

// Version reads the current version; a missing key means nothing changed yet.
func (invalidator *RedisInvalidator) Version(context context.Context) (int64, error) {
	version, err := invalidator.client.Get(context, VersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("catalog: read version: %w", err)
	}
	return version, nil
}
