package store

import "time"

// Kind tags how a record's symbols were derived.
type Kind string

const (
	// KindBaseN records carry one base-N digit symbol per hour.
	KindBaseN Kind = "baseN"

	// KindASCII records carry two 7-bit characters per hour plus a checksum.
	KindASCII Kind = "ascii"
)

// Record is one hour of signal for one namespace.
// Identity is (Namespace, Day, Hour); a second write for the same identity
// replaces the first.
type Record struct {
	// ID identifies this particular write (UUIDv7).
	ID string `json:"id"`

	Namespace string `json:"ns"`
	Kind      Kind   `json:"type"`
	Day       string `json:"day"`
	Hour      int    `json:"hour"`

	// Base is the digit radix of a baseN record.
	Base int `json:"base,omitempty"`

	// Symbol is one digit symbol (baseN) or two characters (ascii).
	Symbol string `json:"symbol"`

	Raw Raw `json:"raw"`

	// Timestamp is when the record was written, from the engine clock.
	Timestamp time.Time `json:"timestamp"`

	// Checksum is set on ascii records only.
	Checksum *int `json:"checksum,omitempty"`
}

// Raw holds the counts a record was derived from.
type Raw struct {
	// baseN
	Count      int64 `json:"count,omitempty"`
	DigitIndex int   `json:"digitIndex,omitempty"`

	// ascii
	Clones     int64 `json:"clones,omitempty"`
	Views      int64 `json:"views,omitempty"`
	ClonesByte int   `json:"clonesByte,omitempty"`
	ViewsByte  int   `json:"viewsByte,omitempty"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	if r.Checksum != nil {
		sum := *r.Checksum
		r.Checksum = &sum
	}
	return r
}
