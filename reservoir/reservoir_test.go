package reservoir_test

import (
	"math"
	"testing"

	"github.com/jyh0082007/libprotobuf-mutator/rand"
	"github.com/jyh0082007/libprotobuf-mutator/reservoir"
)

func TestEmptySampler(t *testing.T) {
	s := reservoir.New[int](rand.New(1))
	if !s.Empty() {
		t.Fatal("new sampler should be Empty")
	}
}

func TestZeroWeightIgnored(t *testing.T) {
	s := reservoir.New[string](rand.New(1))
	s.Try(0, "never")
	if !s.Empty() {
		t.Fatal("a weight-0 Try should leave the sampler Empty")
	}
	s.Try(1, "only")
	if got := s.Selected(); got != "only" {
		t.Fatalf("Selected() = %q, want %q", got, "only")
	}
}

// TestWeightedUniformity checks spec.md §8's "Weighted-reservoir
// uniformity" property: over many trials on a fixed stream, the
// empirical selection frequency of each item converges to
// w_i / sum(w_j).
func TestWeightedUniformity(t *testing.T) {
	weights := []uint64{1, 2, 3, 4}
	var total uint64
	for _, w := range weights {
		total += w
	}

	const trials = 200000
	counts := make([]int, len(weights))
	for trial := 0; trial < trials; trial++ {
		s := reservoir.New[int](rand.New(uint32(trial)))
		for i, w := range weights {
			s.Try(w, i)
		}
		counts[s.Selected()]++
	}

	for i, w := range weights {
		want := float64(w) / float64(total)
		got := float64(counts[i]) / trials
		if math.Abs(want-got) > 0.01 {
			t.Errorf("item %d: want freq %.4f, got %.4f", i, want, got)
		}
	}
}
