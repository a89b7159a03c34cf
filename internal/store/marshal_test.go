package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRecord_FieldNames(t *testing.T) {
	rec := createTestRecord("2024-01-01", "default", 4, "1")
	data, err := marshalRecord(rec)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"ns":"default"`)
	assert.Contains(t, s, `"type":"baseN"`)
	assert.Contains(t, s, `"hour":4`)
	assert.Contains(t, s, `"raw":{"count":2,"digitIndex":1}`)
	assert.NotContains(t, s, "checksum")
	assert.NotContains(t, s, "\n")
}

func TestMarshalRecord_ASCIIPreservesControlBytes(t *testing.T) {
	sum := 72
	rec := Record{
		ID:        "a",
		Namespace: "default",
		Kind:      KindASCII,
		Day:       "2024-01-01",
		Hour:      13,
		Symbol:    "H\x00",
		Raw:       Raw{Clones: 200, Views: 256, ClonesByte: 72},
		Timestamp: time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC),
		Checksum:  &sum,
	}
	data, err := marshalRecord(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"checksum":72`)
	// The payload must stay free of raw NUL bytes so TEXT columns accept it.
	assert.NotContains(t, string(data), "\x00")
	assert.Contains(t, string(data), `"symbol":"H\u0000"`)

	got, err := unmarshalRecord(data)
	require.NoError(t, err)
	assert.Equal(t, "H\x00", got.Symbol)
	require.NotNil(t, got.Checksum)
	assert.Equal(t, 72, *got.Checksum)
	assert.Equal(t, int64(256), got.Raw.Views)
	assert.Equal(t, 0, got.Raw.ViewsByte)
}

func TestMarshalRecord_NoHTMLEscaping(t *testing.T) {
	rec := createTestRecord("2024-01-01", "default", 0, "<>")
	data, err := marshalRecord(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"symbol":"<>"`)
}

func TestUnmarshalRecord_Invalid(t *testing.T) {
	_, err := unmarshalRecord([]byte("{"))
	assert.ErrorContains(t, err, "unmarshal record")
}
