package rand_test

import (
	"math"
	"testing"

	"github.com/jyh0082007/libprotobuf-mutator/rand"
)

func TestUniformIndexSingleton(t *testing.T) {
	s := rand.New(1)
	for i := 0; i < 100; i++ {
		if got := s.UniformIndex(1); got != 0 {
			t.Fatalf("UniformIndex(1) = %d, want 0", got)
		}
	}
}

func TestUniformIndexInRange(t *testing.T) {
	s := rand.New(42)
	for i := 0; i < 1000; i++ {
		v := s.UniformIndex(7)
		if v < 0 || v >= 7 {
			t.Fatalf("UniformIndex(7) = %d, want in [0, 7)", v)
		}
	}
}

func TestBiasedBoolFrequency(t *testing.T) {
	s := rand.New(7)
	heads := 0
	const trials = 20000
	for i := 0; i < trials; i++ {
		if s.BiasedBool(4) {
			heads++
		}
	}
	got := float64(heads) / trials
	if math.Abs(got-0.25) > 0.02 {
		t.Fatalf("BiasedBool(4) frequency = %.4f, want close to 0.25", got)
	}
}

func TestFlipBitChangesExactlyOneBit(t *testing.T) {
	s := rand.New(3)
	for i := 0; i < 50; i++ {
		buf := []byte{0x00, 0x00, 0x00, 0x00}
		before := append([]byte(nil), buf...)
		s.FlipBit(buf)

		diffBits := 0
		for j := range buf {
			x := before[j] ^ buf[j]
			for x != 0 {
				diffBits += int(x & 1)
				x >>= 1
			}
		}
		if diffBits != 1 {
			t.Fatalf("FlipBit changed %d bits, want 1", diffBits)
		}
	}
}

func TestDeterminism(t *testing.T) {
	a := rand.New(99)
	b := rand.New(99)
	for i := 0; i < 100; i++ {
		if ai, bi := a.UniformIndex(50), b.UniformIndex(50); ai != bi {
			t.Fatalf("UniformIndex diverged at step %d: %d != %d", i, ai, bi)
		}
		if ab, bb := a.BiasedBool(3), b.BiasedBool(3); ab != bb {
			t.Fatalf("BiasedBool diverged at step %d: %v != %v", i, ab, bb)
		}
	}
}
