package daykey

import "time"

// Clock supplies the current instant. The protocol never reads wall time
// directly, so records and default days stay deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process wall clock.
type SystemClock struct{}

// Now returns time.Now in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Today returns the UTC calendar day of c.Now().
func Today(c Clock) string {
	return NormalizeDay(c.Now())
}
