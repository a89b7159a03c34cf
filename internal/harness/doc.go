// Package harness runs YAML scenarios against a signal engine.
//
// # Scenario Format
//
//	name: hello_base3
//	description: "Five base-3 chunks spell HELLO"
//	namespace: default        # optional
//	day: "2024-05-17"
//	now: "2024-05-17T12:00:00Z" # optional, defaults to noon of day
//	steps:
//	  - op: record
//	    base: 3
//	    hour: 0
//	    counts: [1, 2, 3, 3]     # consecutive hours from hour
//	  - op: record_ascii
//	    hour: 13
//	    clones: 200
//	    views: 256
//	  - op: clear                # day defaults to the scenario day
//	  - op: clear_all
//	assertions:
//	  - type: message
//	    base: 3
//	    start: 0
//	    end: 19
//	    expect: "HELLO"
//
// # Assertion Types
//
//   - message: ReconstructMessage over [start, end] equals expect
//   - ascii_message: ReconstructASCII over [start, end] equals expect
//   - verify: Verify at hour equals valid
//   - symbol: the record at hour has symbol expect
//   - absent: there is no record at hour
//
// # Determinism
//
// Every run uses a fresh memory store, a fixed clock and sequential record
// ids, so the trace is stable enough for golden comparison.
package harness
