package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// driverFactories returns one constructor per driver available in this
// environment. Postgres runs only when ONOFF_TEST_POSTGRES_DSN is set.
func driverFactories(t *testing.T) map[Driver]func(t *testing.T) Store {
	t.Helper()
	factories := map[Driver]func(t *testing.T) Store{
		DriverMemory: func(t *testing.T) Store { return NewMemory() },
		DriverSQLite: func(t *testing.T) Store { return createTestStore(t) },
		DriverS3:     func(t *testing.T) Store { return newS3Store(newFakeS3(), "test-bucket") },
	}
	if dsn := os.Getenv("ONOFF_TEST_POSTGRES_DSN"); dsn != "" {
		factories[DriverPostgres] = func(t *testing.T) Store {
			s, err := OpenPostgres(context.Background(), dsn)
			require.NoError(t, err)
			_, err = s.DB().Exec(`TRUNCATE signals`)
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		}
	}
	return factories
}

func TestStore_Contract(t *testing.T) {
	for driver, open := range driverFactories(t) {
		t.Run(string(driver), func(t *testing.T) {
			t.Run("get missing", func(t *testing.T) {
				s := open(t)
				rec, err := s.Get(context.Background(), testKey("2024-01-01", "default", 0))
				require.NoError(t, err)
				assert.Nil(t, rec)
			})

			t.Run("put then get", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				want := createTestRecord("2024-01-01", "default", 5, "1")
				key := testKey("2024-01-01", "default", 5)

				require.NoError(t, s.Put(ctx, key, want))
				got, err := s.Get(ctx, key)
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, want.ID, got.ID)
				assert.Equal(t, want.Symbol, got.Symbol)
				assert.Equal(t, want.Raw, got.Raw)
				assert.True(t, want.Timestamp.Equal(got.Timestamp))
				assert.Equal(t, driver, s.Driver())
			})

			t.Run("ascii record with NUL channel byte", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				want := createASCIITestRecord("2024-01-01", "default", 13)
				key := testKey("2024-01-01", "default", 13)

				require.NoError(t, s.Put(ctx, key, want))

				got, err := s.Get(ctx, key)
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, KindASCII, got.Kind)
				assert.Equal(t, "H\x00", got.Symbol)
				assert.Equal(t, want.Raw, got.Raw)
				require.NotNil(t, got.Checksum)
				assert.Equal(t, 72, *got.Checksum)

				many := s.GetMany(ctx, []string{key})
				require.Len(t, many, 1)
				require.NotNil(t, many[0])
				assert.Equal(t, "H\x00", many[0].Symbol)
			})

			t.Run("last write wins", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				key := testKey("2024-01-01", "default", 1)

				require.NoError(t, s.Put(ctx, key, createTestRecord("2024-01-01", "default", 1, "0")))
				require.NoError(t, s.Put(ctx, key, createTestRecord("2024-01-01", "default", 1, "2")))

				got, err := s.Get(ctx, key)
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, "2", got.Symbol)
			})

			t.Run("get many aligns with keys", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				for _, h := range []int{0, 2} {
					require.NoError(t, s.Put(ctx, testKey("2024-01-01", "default", h),
						createTestRecord("2024-01-01", "default", h, "1")))
				}
				keys := []string{
					testKey("2024-01-01", "default", 0),
					testKey("2024-01-01", "default", 1),
					testKey("2024-01-01", "default", 2),
					testKey("2024-01-01", "default", 3),
				}
				got := s.GetMany(ctx, keys)
				require.Len(t, got, 4)
				assert.NotNil(t, got[0])
				assert.Nil(t, got[1])
				assert.NotNil(t, got[2])
				assert.Nil(t, got[3])
				assert.Equal(t, 2, got[2].Hour)
			})

			t.Run("get many empty", func(t *testing.T) {
				s := open(t)
				assert.Empty(t, s.GetMany(context.Background(), nil))
			})

			t.Run("delete range scoped to day prefix", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				seed := []struct {
					day, ns string
					hour    int
				}{
					{"2024-01-01", "default", 0},
					{"2024-01-01", "default", 23},
					{"2024-01-01", "other", 4},
					{"2024-01-02", "default", 0},
				}
				for _, r := range seed {
					require.NoError(t, s.Put(ctx, testKey(r.day, r.ns, r.hour), createTestRecord(r.day, r.ns, r.hour, "1")))
				}

				require.NoError(t, s.DeleteRange(ctx, "signal:2024-01-01:default:"))

				for _, r := range seed {
					got, err := s.Get(ctx, testKey(r.day, r.ns, r.hour))
					require.NoError(t, err)
					if r.day == "2024-01-01" && r.ns == "default" {
						assert.Nil(t, got, "%v should be deleted", r)
					} else {
						assert.NotNil(t, got, "%v should survive", r)
					}
				}
			})

			t.Run("delete range global prefix", func(t *testing.T) {
				s := open(t)
				ctx := context.Background()
				require.NoError(t, s.Put(ctx, testKey("2024-01-01", "a", 0), createTestRecord("2024-01-01", "a", 0, "1")))
				require.NoError(t, s.Put(ctx, testKey("2025-06-30", "b", 9), createTestRecord("2025-06-30", "b", 9, "1")))

				require.NoError(t, s.DeleteRange(ctx, "signal:"))

				got := s.GetMany(ctx, []string{testKey("2024-01-01", "a", 0), testKey("2025-06-30", "b", 9)})
				assert.Nil(t, got[0])
				assert.Nil(t, got[1])
			})

			t.Run("delete empty range", func(t *testing.T) {
				s := open(t)
				assert.NoError(t, s.DeleteRange(context.Background(), "signal:1999-01-01:default:"))
			})
		})
	}
}

func TestOpen_SelectsDriver(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, s.Driver())

	s, err = Open(ctx, Config{Driver: DriverSQLite, SQLitePath: t.TempDir() + "/open.db"})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	assert.Equal(t, DriverSQLite, s.Driver())
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Config{Driver: "mongo"})
	assert.ErrorContains(t, err, "unknown storage driver")

	_, err = Open(ctx, Config{Driver: DriverSQLite})
	assert.ErrorContains(t, err, "path is required")

	_, err = Open(ctx, Config{Driver: DriverPostgres})
	assert.ErrorContains(t, err, "dsn is required")

	_, err = Open(ctx, Config{Driver: DriverS3})
	assert.ErrorContains(t, err, "bucket required")
}
