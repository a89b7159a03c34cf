package testutil

import (
	"sync"
	"time"
)

// FixedClock is a settable wall clock for tests. It implements daykey.Clock.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at now (converted to UTC).
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now.UTC()}
}

// NewFixedClockAt parses an RFC 3339 instant. Panics on a malformed value,
// which is always a test bug.
func NewFixedClockAt(rfc3339 string) *FixedClock {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		panic("testutil: bad clock time " + rfc3339 + ": " + err.Error())
	}
	return NewFixedClock(t)
}

// Now returns the frozen instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sequence is a resettable monotonic counter for numbering trace events.
//
// The first call to Next() returns 1.
type Sequence struct {
	mu  sync.Mutex
	seq int64
}

// Next increments and returns the next sequence number.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Current returns the current sequence number without incrementing.
func (s *Sequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset returns the sequence to 0.
func (s *Sequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}
