// Package daykey validates calendar days and hour slots and builds the
// storage keys every signal record lives under.
//
// # Key Layout
//
//	signal:{day}:{namespace}:{hh}
//
// where day is a UTC calendar day in YYYY-MM-DD form, namespace is the
// caller-chosen stream identifier and hh is the zero-padded hour (00-23).
//
// Keys sort lexicographically by day, then namespace, then hour. Range
// operations use half-open intervals [prefix, prefix+"\xff"):
//
//	signal:2024-03-01:default:   one day of one namespace
//	signal:                      every record in the store
//
// # Days
//
// A day string is valid only if it has the YYYY-MM-DD shape AND it survives a
// round trip through the UTC calendar. "2023-02-30" has the right shape but
// normalizes to "2023-03-02", so it is rejected.
//
// Callers that omit a day get the current UTC day from an injected Clock,
// never from an ambient time.Now call inside the protocol.
package daykey
