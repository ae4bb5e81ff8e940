// Package storage persists client state between runs.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist
var ErrNotFound = errors.New("key not found")

// KV is a minimal key-value store
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
