package store

import (
	"context"
	"fmt"
)

// Driver identifies a concrete storage backend.
type Driver string

const (
	DriverMemory   Driver = "memory"   // process memory (tests / ephemeral)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
	DriverS3       Driver = "s3"       // S3 / MinIO compatible bucket
)

// Store is the ordered key-value mapping from storage keys to records.
type Store interface {
	// Get returns the record at key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) (*Record, error)

	// Put stores rec at key, replacing any existing record.
	Put(ctx context.Context, key string, rec Record) error

	// DeleteRange removes every key in [prefix, prefix+"\xff").
	DeleteRange(ctx context.Context, prefix string) error

	// GetMany returns one entry per key, in key order of the argument.
	// Missing keys and keys whose read failed are nil; GetMany never fails
	// as a whole.
	GetMany(ctx context.Context, keys []string) []*Record

	// Driver returns the backend identifier.
	Driver() Driver

	// Close releases backend resources.
	Close() error
}

// Config selects and parameterizes a driver for Open.
type Config struct {
	Driver      Driver
	SQLitePath  string
	PostgresDSN string
	S3          S3Config
}

// Open constructs the store named by cfg.Driver. An empty driver selects
// the memory store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN)
	case DriverS3:
		return OpenS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// getEach performs sequential point reads, degrading any failure to an
// absent entry. Drivers without a native multi-get use it directly and the
// SQL drivers fall back to it when their batched query fails.
func getEach(ctx context.Context, s Store, keys []string) []*Record {
	out := make([]*Record, len(keys))
	for i, key := range keys {
		rec, err := s.Get(ctx, key)
		if err != nil {
			continue
		}
		out[i] = rec
	}
	return out
}
