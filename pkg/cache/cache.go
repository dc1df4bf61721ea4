// Package cache stores computed pipeline results as opaque byte blobs.
//
// Backends implement [Cache]:
//   - [FileCache]: one file per key under a directory (CLI default)
//   - [SQLiteCache]: a single SQLite database file
//   - [RedisCache]: a shared Redis server
//   - [NullCache]: stores nothing
//
// Keys are produced by a [Keyer] from the content hash of the input dataset
// and every option that influences the result, so a changed dataset or a
// changed option never reads a stale entry.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default entry lifetimes.
const (
	TTLDataset = 24 * time.Hour
	TTLLayout  = 7 * 24 * time.Hour
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Backends lists the supported backend names.
var Backends = []string{BackendFile, BackendSQLite, BackendRedis, BackendNone}

// Config selects and configures a backend.
type Config struct {
	Backend    string
	Dir        string // file backend
	SQLitePath string // sqlite backend
	RedisURL   string // redis backend, e.g. redis://localhost:6379/0
}

// Open creates the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case BackendFile, "":
		c, err = NewFileCache(cfg.Dir)
	case BackendSQLite:
		c, err = NewSQLiteCache(ctx, cfg.SQLitePath)
	case BackendRedis:
		c, err = NewRedisCache(ctx, cfg.RedisURL)
	case BackendNone:
		c = NewNullCache()
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
