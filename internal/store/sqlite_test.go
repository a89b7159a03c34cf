package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()
	key := testKey("2024-03-01", "default", 7)

	s1, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("first OpenSQLite() failed: %v", err)
	}
	if err := s1.Put(ctx, key, createTestRecord("2024-03-01", "default", 7, "2")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	s1.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("second OpenSQLite() failed: %v", err)
	}
	defer s2.Close()

	rec, err := s2.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if rec == nil || rec.Symbol != "2" {
		t.Errorf("Get() after reopen = %+v, want symbol 2", rec)
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("final OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='signals'").Scan(&name)
	if err != nil {
		t.Errorf("signals table not found after idempotent opens: %v", err)
	}
}

func TestOpenSQLite_InvalidPath(t *testing.T) {
	_, err := OpenSQLite("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestSQLiteClose_NilDB(t *testing.T) {
	s := &SQLiteStore{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

// Pragma tests

func TestPragma_JournalMode(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
}

func TestPragma_Synchronous(t *testing.T) {
	s := createTestStore(t)
	// NORMAL = 1
	if err := s.verifyPragma("synchronous", "1"); err != nil {
		t.Error(err)
	}
}

func TestPragma_BusyTimeout(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
}

func TestSchema_UserVersion(t *testing.T) {
	s := createTestStore(t)
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("query user_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}

	var name string
	err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name='idx_signals_updated_at'").Scan(&name)
	if err != nil {
		t.Errorf("migration index missing: %v", err)
	}
}

func TestSQLiteGetMany_SkipsCorruptPayload(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	good := testKey("2024-01-01", "default", 0)
	bad := testKey("2024-01-01", "default", 1)

	if err := s.Put(ctx, good, createTestRecord("2024-01-01", "default", 0, "1")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if _, err := s.db.Exec(`INSERT INTO signals (key, payload) VALUES (?, ?)`, bad, "{not json"); err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	got := s.GetMany(ctx, []string{good, bad})
	if len(got) != 2 {
		t.Fatalf("GetMany() returned %d entries, want 2", len(got))
	}
	if got[0] == nil {
		t.Error("good record missing")
	}
	if got[1] != nil {
		t.Errorf("corrupt record should read as absent, got %+v", got[1])
	}

	if _, err := s.Get(ctx, bad); err == nil {
		t.Error("Get() on corrupt payload should error")
	}
}

func TestSQLiteDeleteRange_LeavesNeighbours(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Namespace "default" starts with "def" but lies outside the "def" range.
	keys := []string{
		testKey("2024-01-01", "default", 0),
		testKey("2024-01-01", "def", 0),
	}
	for i, key := range keys {
		if err := s.Put(ctx, key, createTestRecord("2024-01-01", "x", i, "1")); err != nil {
			t.Fatalf("Put() failed: %v", err)
		}
	}

	if err := s.DeleteRange(ctx, "signal:2024-01-01:def:"); err != nil {
		t.Fatalf("DeleteRange() failed: %v", err)
	}

	n, err := s.keyCount(ctx)
	if err != nil {
		t.Fatalf("keyCount() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("keyCount() = %d, want 1", n)
	}
	if rec, _ := s.Get(ctx, keys[0]); rec == nil {
		t.Error("namespace sharing a prefix was deleted")
	}
}
