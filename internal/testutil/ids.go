package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator produces "{prefix}-0001", "{prefix}-0002", ...
//
// Unlike engine.FixedGenerator it never runs out, so it suits tests and
// scenarios whose write count is not known up front. Implements
// engine.IDGenerator.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator. An empty prefix becomes "rec".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "rec"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
