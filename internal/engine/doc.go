// Package engine implements the hourly-signal protocol on top of a store.
//
// A producer calls RecordSignal once per hour with a raw count. The count is
// reduced to one base-N digit (see package codec) and stored under
// signal:{day}:{namespace}:{hh}. ReconstructMessage later reads a range of
// hours, stitches their digits together, and decodes fixed-width chunks of
// digits into base-36 characters.
//
// Missing data is never an error during reconstruction. An hour with no
// record, an hour whose read failed, and an hour recorded with a zero count
// all yield the sentinel (a space), and any chunk containing a sentinel
// decodes to a single space.
//
// The ascii variant (RecordASCII, ReconstructASCII, Verify) stores two
// 7-bit characters per hour with a parity checksum instead of a digit.
//
// Validation always runs before the store is touched. Errors are typed:
//   - *ValidationError: malformed hour, day, base or range
//   - *NotFoundError: Verify on an hour with no record
//   - *StoreError: the backing store failed; never retried
//
// Time is injected through daykey.Clock so an empty day argument and the
// record timestamp are deterministic under test.
package engine
