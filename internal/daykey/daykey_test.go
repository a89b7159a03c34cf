package daykey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)

	// 2024-03-01 02:00 in UTC+9 is still 2024-02-29 in UTC.
	instant := time.Date(2024, 3, 1, 2, 0, 0, 0, loc)
	assert.Equal(t, "2024-02-29", NormalizeDay(instant))
	assert.Equal(t, "2023-12-31", NormalizeDay(time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)))
}

func TestValidateDay(t *testing.T) {
	tests := []struct {
		name    string
		day     string
		wantErr error
	}{
		{"valid", "2024-03-01", nil},
		{"leap day", "2024-02-29", nil},
		{"empty", "", ErrDayRequired},
		{"february 30", "2023-02-30", ErrInvalidDay},
		{"non leap february 29", "2023-02-29", ErrInvalidDay},
		{"month 13", "2023-13-01", ErrInvalidDay},
		{"day zero", "2023-01-00", ErrInvalidDay},
		{"short shape", "23-1-1", ErrInvalidDay},
		{"slashes", "2023/01/01", ErrInvalidDay},
		{"trailing text", "2023-01-01T00:00:00Z", ErrInvalidDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDay(tt.day)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateHour(t *testing.T) {
	for h := 0; h <= MaxHour; h++ {
		assert.NoError(t, ValidateHour(h), "hour %d", h)
	}
	assert.ErrorIs(t, ValidateHour(-1), ErrInvalidHour)
	assert.ErrorIs(t, ValidateHour(24), ErrInvalidHour)
}

func TestKey(t *testing.T) {
	key, err := Key(7, "2024-03-01", "default")
	require.NoError(t, err)
	assert.Equal(t, "signal:2024-03-01:default:07", key)

	key, err = Key(23, "2024-03-01", "traffic")
	require.NoError(t, err)
	assert.Equal(t, "signal:2024-03-01:traffic:23", key)
}

func TestKey_Errors(t *testing.T) {
	_, err := Key(1, "", "default")
	assert.ErrorIs(t, err, ErrDayRequired)

	_, err = Key(24, "2024-03-01", "default")
	assert.ErrorIs(t, err, ErrInvalidHour)

	_, err = Key(1, "2024-02-30", "default")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestKey_SortsByHour(t *testing.T) {
	var prev string
	for h := 0; h <= MaxHour; h++ {
		key, err := Key(h, "2024-03-01", "default")
		require.NoError(t, err)
		assert.Greater(t, key, prev)
		prev = key
	}
}

func TestDayPrefix(t *testing.T) {
	prefix, err := DayPrefix("2024-03-01", "default")
	require.NoError(t, err)
	assert.Equal(t, "signal:2024-03-01:default:", prefix)

	_, err = DayPrefix("2024-3-1", "default")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestInRange(t *testing.T) {
	prefix := "signal:2024-03-01:default:"

	assert.True(t, InRange("signal:2024-03-01:default:00", prefix))
	assert.True(t, InRange("signal:2024-03-01:default:23", prefix))
	assert.False(t, InRange("signal:2024-03-02:default:00", prefix))
	assert.False(t, InRange("signal:2024-03-01:defaults:00", prefix))
	assert.False(t, InRange("signal:2024-03-01:other:00", prefix))

	assert.True(t, InRange("signal:2024-03-02:other:05", GlobalPrefix))
	assert.False(t, InRange("other:2024-03-02", GlobalPrefix))
}

func TestNormalizeNamespace(t *testing.T) {
	ns, err := NormalizeNamespace("")
	require.NoError(t, err)
	assert.Equal(t, DefaultNamespace, ns)

	ns, err = NormalizeNamespace("  traffic  ")
	require.NoError(t, err)
	assert.Equal(t, "traffic", ns)

	// "e" followed by a combining acute accent composes to a single rune.
	ns, err = NormalizeNamespace("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", ns)

	_, err = NormalizeNamespace("a:b")
	assert.ErrorIs(t, err, ErrInvalidNamespace)
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func TestToday(t *testing.T) {
	c := fixedClock(time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-01", Today(c))

	now := SystemClock{}.Now()
	assert.Equal(t, time.UTC, now.Location())
}
