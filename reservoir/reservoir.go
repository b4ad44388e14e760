// Package reservoir implements one-pass weighted reservoir sampling: given
// a stream of (weight, value) pairs of unknown length, it selects exactly
// one value with probability proportional to its weight, without ever
// materialising the stream.
package reservoir

import "github.com/jyh0082007/libprotobuf-mutator/rand"

// Sampler accumulates a weighted stream and holds the currently-selected
// item. The zero value is not usable; construct with New.
type Sampler[T any] struct {
	random   *rand.Source
	total    uint64
	selected T
	has      bool
}

// New returns a Sampler drawing its selection randomness from random.
func New[T any](random *rand.Source) *Sampler[T] {
	return &Sampler[T]{random: random}
}

// Try offers one (weight, value) pair to the sampler. A weight of 0 is
// ignored. Otherwise, the running total is advanced by weight and the
// stored value is replaced by v with probability weight / (running total
// after this call) — the standard online weighted-reservoir update.
func (s *Sampler[T]) Try(weight uint64, v T) {
	if weight == 0 {
		return
	}
	u := s.random.UniformIndex64(s.total + weight)
	if u < weight {
		s.selected = v
		s.has = true
	}
	s.total += weight
}

// Selected returns the item chosen so far. It panics if Empty.
func (s *Sampler[T]) Selected() T {
	if !s.has {
		panic("reservoir: Selected called on an empty sampler")
	}
	return s.selected
}

// Empty reports whether Try has not yet been called with a non-zero
// weight.
func (s *Sampler[T]) Empty() bool {
	return !s.has
}
