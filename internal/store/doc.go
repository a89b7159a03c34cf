// Package store provides the ordered key-value storage behind signal records.
//
// Every record lives under a key of the form signal:{day}:{namespace}:{hh}
// (see package daykey). The Store interface exposes only what the protocol
// needs:
//   - Get / Put: point lookup and upsert (last write wins)
//   - DeleteRange: remove every key in [prefix, prefix+"\xff")
//   - GetMany: best-effort batched lookup; a failed entry reads as absent
//
// # Drivers
//
//   - memory:   process-local map, the non-persistent profile
//   - sqlite:   embedded SQLite file (github.com/mattn/go-sqlite3)
//   - postgres: PostgreSQL server through pgx's database/sql driver
//   - s3:       one object per key in an S3 / MinIO bucket
//
// Open selects a driver from a Config.
//
// # Atomicity
//
// DeleteRange is a single statement on the SQL drivers and a single locked
// section on the memory driver, so a concurrent reader never observes a
// partially cleared range. S3 has no multi-object transaction; the s3 driver
// deletes in batches of up to 1000 keys.
//
// # Payloads
//
// Records are stored as JSON (see Record). A payload that fails to decode is
// an error for Get and an absent entry for GetMany.
package store
