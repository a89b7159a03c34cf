package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/onoff/internal/daykey"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on signals.updated_at
const currentSchemaVersion = 1

// Compile-time contract assertion.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore persists records in a single SQLite table.
// Uses WAL mode so readers are not blocked by the writer.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//
// Opening the same path repeatedly is safe.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("open sqlite: path is required")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Driver returns DriverSQLite.
func (s *SQLiteStore) Driver() Driver { return DriverSQLite }

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get reads one record.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Record, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM signals WHERE key = ?`, key).Scan(&payload)
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

// Put upserts a record. The last write for a key wins.
func (s *SQLiteStore) Put(ctx context.Context, key string, rec Record) error {
	payload, err := marshalRecord(rec)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO signals (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, key, string(payload), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// DeleteRange removes the range inside one transaction.
func (s *SQLiteStore) DeleteRange(ctx context.Context, prefix string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete range %s: begin: %w", prefix, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM signals WHERE key >= ? AND key < ?`,
		prefix, daykey.RangeEnd(prefix),
	)
	if err != nil {
		return fmt.Errorf("delete range %s: %w", prefix, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete range %s: commit: %w", prefix, err)
	}
	return nil
}

// GetMany reads all keys with one query. If the query fails it falls back
// to point reads so a single bad row does not hide the rest.
func (s *SQLiteStore) GetMany(ctx context.Context, keys []string) []*Record {
	if len(keys) == 0 {
		return []*Record{}
	}

	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, payload FROM signals WHERE key IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return getEach(ctx, s, keys)
	}
	defer rows.Close()

	found, err := scanPayloads(rows)
	if err != nil {
		return getEach(ctx, s, keys)
	}
	return alignRecords(keys, found)
}

// keyCount returns the number of stored rows. Used by tests.
func (s *SQLiteStore) keyCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM signals`).Scan(&n)
	return n, err
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 indexes updated_at for retention sweeps.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_signals_updated_at
		ON signals(updated_at)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *SQLiteStore) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
