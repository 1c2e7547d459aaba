package testutil

import (
	"fmt"
	"sync"
)

// SequentialRunIDs generates run identifiers in sequence: "run-0001",
// "run-0002", ...
//
// This enables deterministic test execution and golden snapshot comparison.
// Two stores fed the same runs with fresh generators record identical IDs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialRunIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialRunIDs creates a generator. An empty prefix defaults to "run".
func NewSequentialRunIDs(prefix string) *SequentialRunIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialRunIDs{prefix: prefix}
}

// Generate returns the next identifier.
//
// Implements store.RunIDGenerator.
func (g *SequentialRunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// Reset restarts the sequence at 1.
func (g *SequentialRunIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}

// FixedRunID returns the same identifier every time.
type FixedRunID string

// Generate returns the fixed identifier.
func (f FixedRunID) Generate() string { return string(f) }
