// Package cachemanager provides a typed cache interface with a go-cache
// backed in-memory implementation and a read-through wrapper. The draft
// store uses it to avoid re-reading the snapshot from disk on every
// hydration while the file watcher flushes it on external change.
package cachemanager

import (
	"context"
	"time"
)

type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
