// Package cache stores downloaded POM documents between runs.
//
// BOM imports are resolved at configuration time, usually against the same
// handful of platform BOMs. Caching the raw POM bytes keyed by repository and
// coordinate avoids re-downloading them on every invocation.
//
// Three backends are provided:
//   - [FileCache]: one JSON file per entry under a directory, for CLI usage
//   - [RedisCache]: a shared Redis instance, for servers and CI fleets
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are produced by a [Keyer] so that callers never concatenate key
// strings by hand.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long released POMs are kept. Released artifacts in a
// Maven repository are immutable, so a long TTL is safe.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. Errors are reserved for
// backend failures, and callers treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
