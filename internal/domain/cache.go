package domain

import (
	"context"
	"time"
)

// Cache is the key-value store holding per-session state.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// ErrCacheMiss is returned when a key is not found in the cache.
var ErrCacheMiss = CacheError("cache: key not found")

type CacheError string

func (e CacheError) Error() string {
	return string(e)
}
