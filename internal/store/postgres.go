package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion.
var _ Store = (*PostgresStore)(nil)

const pgxDriverName = "pgx"

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// PostgresStore persists records in a PostgreSQL table with the same shape
// as the SQLite driver.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to dsn and ensures the signals table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("open postgres: dsn is required")
	}
	openMu.Lock()
	db, err := sqlOpen(pgxDriverName, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureSignalsTable(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

// ensureSignalsTable creates the signals table. payload is TEXT, not JSONB:
// ascii records carry NUL channel bytes, which encode as \u0000 and which
// jsonb refuses. Tables created with a JSONB payload are converted in place.
func ensureSignalsTable(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			key        TEXT COLLATE "C" PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`ALTER TABLE signals ALTER COLUMN payload TYPE TEXT USING payload::text`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure signals table: %w", err)
		}
	}
	return nil
}

// Driver returns DriverPostgres.
func (s *PostgresStore) Driver() Driver { return DriverPostgres }

// DB exposes the underlying sql.DB for integration tests.
func (s *PostgresStore) DB() *sql.DB { return s.db }

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get reads one record.
func (s *PostgresStore) Get(ctx context.Context, key string) (*Record, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM signals WHERE key = $1`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	rec, err := unmarshalRecord([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return &rec, nil
}

// Put upserts a record.
func (s *PostgresStore) Put(ctx context.Context, key string, rec Record) error {
	payload, err := marshalRecord(rec)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO signals (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`, key, string(payload))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// DeleteRange removes every key starting with prefix. Postgres rejects the
// 0xff byte in text parameters, so the range is expressed as a prefix match;
// for valid UTF-8 keys the two are equivalent.
func (s *PostgresStore) DeleteRange(ctx context.Context, prefix string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM signals WHERE starts_with(key, $1)`, prefix); err != nil {
		return fmt.Errorf("delete range %s: %w", prefix, err)
	}
	return nil
}

// GetMany reads all keys with one query, falling back to point reads.
func (s *PostgresStore) GetMany(ctx context.Context, keys []string) []*Record {
	if len(keys) == 0 {
		return []*Record{}
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, payload FROM signals WHERE key = ANY($1)`, keys)
	if err != nil {
		return getEach(ctx, s, keys)
	}
	defer func() { _ = rows.Close() }()

	found, err := scanPayloads(rows)
	if err != nil {
		return getEach(ctx, s, keys)
	}
	return alignRecords(keys, found)
}
