package rng_test

import (
	"testing"

	"github.com/db47h/btorsim/rng"
)

func TestDeterministic(t *testing.T) {
	a := rng.New(0)
	b := rng.New(0)
	for i := 0; i < 16; i++ {
		x, y := a.Next(), b.Next()
		if x != y {
			t.Fatalf("output %d diverged: %d != %d", i, x, y)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := rng.New(0)
	b := rng.New(1)
	same := true
	for i := 0; i < 16; i++ {
		if a.Next() != b.Next() {
			same = false
		}
	}
	if same {
		t.Fatal("seed 0 and seed 1 produced identical sequences")
	}
}

func TestPickRange(t *testing.T) {
	r := rng.New(42)
	for i := 0; i < 1000; i++ {
		v := r.Pick(3, 7)
		if v < 3 || v > 7 {
			t.Fatalf("Pick(3,7) returned %d, out of range", v)
		}
	}
}

func TestPickClampsMaxUint(t *testing.T) {
	r := rng.New(1)
	for i := 0; i < 100; i++ {
		v := r.Pick(0, ^uint32(0))
		if v == ^uint32(0) {
			t.Fatal("Pick(0, MaxUint32) returned the clamped-out top value")
		}
	}
}

func TestNewBitVectorWidth(t *testing.T) {
	r := rng.New(7)
	for _, w := range []uint32{1, 7, 8, 31, 32, 33, 64, 65} {
		v := r.NewBitVector(w)
		if v.Width() != w {
			t.Fatalf("NewBitVector(%d).Width() = %d", w, v.Width())
		}
	}
}
