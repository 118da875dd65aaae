// Package cache implements the read-through / write-invalidate layer that sits
// between the catalog repositories and a shared key-value store.
//
// Backends only move bytes. Serialization, hit/miss accounting and the key
// naming scheme live in Manager and keys.go so every backend behaves the same.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Backend when a key does not exist or has expired.
var ErrNotFound = errors.New("cache: key not found")

// Backend abstracts a key-value store with TTL support.
// All operations are safe for concurrent use.
type Backend interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero TTL means the entry does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	Ping(ctx context.Context) error

	Close() error
}
