package intake

import "sync/atomic"

// Sequence hands out provisional intake line ids. Each parser/service pair
// gets its own instance; ids are unique within it, not globally.
type Sequence struct {
	counter atomic.Uint64
}

// NewSequence starts a fresh sequence at 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next provisional id.
func (s *Sequence) Next() uint64 {
	return s.counter.Add(1)
}
