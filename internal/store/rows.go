package store

import (
	"database/sql"
	"fmt"
)

// scanPayloads collects (key, payload) rows into decoded records.
// A payload that fails to decode is skipped; its key reads as absent.
func scanPayloads(rows *sql.Rows) (map[string]*Record, error) {
	found := make(map[string]*Record)
	for rows.Next() {
		var key, payload string
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		rec, err := unmarshalRecord([]byte(payload))
		if err != nil {
			continue
		}
		found[key] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signals: %w", err)
	}
	return found, nil
}

// alignRecords orders found records by the requested keys.
func alignRecords(keys []string, found map[string]*Record) []*Record {
	out := make([]*Record, len(keys))
	for i, key := range keys {
		out[i] = found[key]
	}
	return out
}
