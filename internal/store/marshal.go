package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// marshalRecord converts a record to its JSON payload.
// HTML escaping is disabled so symbols such as '<' are stored verbatim.
func marshalRecord(rec Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// unmarshalRecord parses a JSON payload.
func unmarshalRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}
