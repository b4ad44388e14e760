package mutator

import (
	"testing"

	"github.com/jyh0082007/libprotobuf-mutator/rand"
)

// TestEnumChangeLaw is spec.md §8: for count >= 2, mutateEnumIndex(i,
// count) != i.
func TestEnumChangeLaw(t *testing.T) {
	r := rand.New(1)
	for count := 2; count < 10; count++ {
		for index := 0; index < count; index++ {
			for trial := 0; trial < 20; trial++ {
				got := mutateEnumIndex(r, index, count)
				if got == index {
					t.Fatalf("mutateEnumIndex(%d, %d) = %d, want != %d", index, count, got, index)
				}
				if got < 0 || got >= count {
					t.Fatalf("mutateEnumIndex(%d, %d) = %d, want in [0, %d)", index, count, got, count)
				}
			}
		}
	}
}

// TestEnumRotationExample is spec.md §8 scenario 3: mutate_enum(3, 4)
// with a draw of uniform_index(3) == 2 returns (3+1+2) mod 4 == 2. Since
// rand.Source has no seam to stub its draw directly, find a seed whose
// first UniformIndex(3) call (the exact call mutateEnumIndex(r, 3, 4)
// makes internally) yields 2, then drive the real function with a fresh
// source of that seed and check its result against the formula.
func TestEnumRotationExample(t *testing.T) {
	var seed uint32
	for {
		if rand.New(seed).UniformIndex(3) == 2 {
			break
		}
		seed++
	}

	got := mutateEnumIndex(rand.New(seed), 3, 4)
	if got != 2 {
		t.Fatalf("mutateEnumIndex(3, 4) with draw 2 = %d, want 2", got)
	}
}

// TestBoolInvolution is spec.md §8: mutate_bool(mutate_bool(v)) == v.
func TestBoolInvolution(t *testing.T) {
	r := rand.New(1)
	hooks := newScalarHooks(r)
	for _, v := range []bool{true, false} {
		if got := hooks.MutateBool(hooks.MutateBool(v)); got != v {
			t.Fatalf("MutateBool(MutateBool(%v)) = %v, want %v", v, got, v)
		}
	}
}

// TestStringBitFlipOnNonEmpty is spec.md §8: mutate_string(v, 0) (no
// coins favour growth) differs from v in at least one bit when |v| >= 1.
func TestStringBitFlipOnNonEmpty(t *testing.T) {
	r := rand.New(2)
	for trial := 0; trial < 200; trial++ {
		v := "hi"
		got := mutateString(r, v, 0)
		if len(got) == 0 {
			// The shrink phase emptied the buffer before the mandatory
			// bit-flip could apply; that is allowed by §4.5 ("If the
			// buffer is non-empty, flip one uniformly-chosen bit").
			continue
		}
		if got == v {
			t.Fatalf("mutateString(%q, 0) = %q, want different value", v, got)
		}
	}
}

// TestStringMutatorEventuallyEmpties is spec.md §8 scenario 2: repeated
// application of mutate_string to a short buffer eventually empties it
// with probability tending to 1.
func TestStringMutatorEventuallyEmpties(t *testing.T) {
	r := rand.New(0)
	v := "hi"
	for i := 0; i < 10000 && len(v) > 0; i++ {
		v = mutateString(r, v, 0)
	}
	if v != "" {
		t.Fatalf("mutateString never emptied the buffer, got %q", v)
	}
}
