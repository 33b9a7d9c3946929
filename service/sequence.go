package service

import "sync"

// SequenceGate tags outgoing requests with increasing numbers and accepts a
// response only if it is newer than the last one applied.
type SequenceGate struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Next issues the number for a new request.
func (g *SequenceGate) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return g.issued
}

// Apply records seq as applied when it is newer than the current one and
// reports whether the response should be used.
func (g *SequenceGate) Apply(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq <= g.applied {
		return false
	}
	g.applied = seq
	return true
}

// Applied returns the last applied number, 0 if none.
func (g *SequenceGate) Applied() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.applied
}
