package bv_test

import (
	"testing"

	"github.com/db47h/btorsim/bv"
)

func mustBin(t *testing.T, s string) bv.BV {
	t.Helper()
	v, err := bv.FromBinaryString(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestCanonicalForm(t *testing.T) {
	v := bv.FromUint(0xFF, 4)
	if got := v.ToBinaryString(); got != "1111" {
		t.Fatalf("FromUint did not canonicalize: got %q", got)
	}
}

func TestNotInvolution(t *testing.T) {
	v := mustBin(t, "1011001")
	if got := v.Not().Not(); got.ToBinaryString() != v.ToBinaryString() {
		t.Fatalf("not(not(x)) = %s, want %s", got.ToBinaryString(), v.ToBinaryString())
	}
}

func TestNegInvolution(t *testing.T) {
	v := mustBin(t, "0110")
	if got := v.Neg().Neg(); got.ToBinaryString() != v.ToBinaryString() {
		t.Fatalf("neg(neg(x)) = %s, want %s", got.ToBinaryString(), v.ToBinaryString())
	}
}

func TestSliceIdentity(t *testing.T) {
	v := mustBin(t, "10110100")
	if got := v.Slice(7, 0); got.ToBinaryString() != v.ToBinaryString() {
		t.Fatalf("slice(x, w-1, 0) = %s, want %s", got.ToBinaryString(), v.ToBinaryString())
	}
}

func TestBinaryStringRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "0000", "1010", "11111111"} {
		v := mustBin(t, s)
		if got := v.ToBinaryString(); got != s {
			t.Errorf("round trip %q: got %q", s, got)
		}
	}
}

func TestDecimalStringRoundTrip(t *testing.T) {
	cases := []struct {
		v uint64
		w uint32
	}{
		{0, 4}, {1, 4}, {15, 4}, {255, 8}, {12345, 16},
	}
	for _, c := range cases {
		x := bv.FromUint(c.v, c.w)
		back, err := bv.FromDecimalString(x.ToDecimalString(), c.w)
		if err != nil {
			t.Fatalf("FromDecimalString(%q): %v", x.ToDecimalString(), err)
		}
		if back.Compare(x) != 0 {
			t.Errorf("round trip %d/%d: got %s, want %s", c.v, c.w, back.ToDecimalString(), x.ToDecimalString())
		}
	}
}

func TestMinSignedDecimal(t *testing.T) {
	v, err := bv.FromDecimalString("-128", 8)
	if err != nil {
		t.Fatal(err)
	}
	if v.ToBinaryString() != "10000000" {
		t.Fatalf("got %s, want 10000000", v.ToBinaryString())
	}
}

func TestUdivByZero(t *testing.T) {
	a := bv.FromUint(5, 4)
	z := bv.Zero(4)
	if got := a.Udiv(z); !got.IsOnes() {
		t.Fatalf("udiv(x,0) = %s, want all-ones", got.ToBinaryString())
	}
	if got := a.Urem(z); got.Compare(a) != 0 {
		t.Fatalf("urem(x,0) = %s, want %s", got.ToBinaryString(), a.ToBinaryString())
	}
}

func TestShiftOutOfRange(t *testing.T) {
	a := mustBin(t, "1111")
	amt := bv.FromUint(4, 4)
	if got := a.Sll(amt); !got.IsZero() {
		t.Fatalf("sll by >= width = %s, want 0", got.ToBinaryString())
	}
	if got := a.Srl(amt); !got.IsZero() {
		t.Fatalf("srl by >= width = %s, want 0", got.ToBinaryString())
	}
	neg := mustBin(t, "1000")
	if got := neg.Sra(amt); !got.IsOnes() {
		t.Fatalf("sra by >= width of negative = %s, want all-ones", got.ToBinaryString())
	}
}

func TestIteRequiresWidth1Condition(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-width-1 condition")
		}
	}()
	c := bv.FromUint(0, 2)
	bv.Ite(c, bv.One(4), bv.Zero(4))
}

func TestConcatSlice(t *testing.T) {
	a := mustBin(t, "1010")
	b := mustBin(t, "0101")
	c := a.Concat(b)
	if c.ToBinaryString() != "10100101" {
		t.Fatalf("concat = %s, want 10100101", c.ToBinaryString())
	}
	if got := c.Slice(7, 4); got.ToBinaryString() != "1010" {
		t.Fatalf("slice hi = %s, want 1010", got.ToBinaryString())
	}
	if got := c.Slice(3, 0); got.ToBinaryString() != "0101" {
		t.Fatalf("slice lo = %s, want 0101", got.ToBinaryString())
	}
}

func TestSextSignFill(t *testing.T) {
	neg := mustBin(t, "1010")
	if got := neg.Sext(4); got.ToBinaryString() != "11111010" {
		t.Fatalf("sext(neg) = %s, want 11111010", got.ToBinaryString())
	}
	pos := mustBin(t, "0101")
	if got := pos.Sext(4); got.ToBinaryString() != "00000101" {
		t.Fatalf("sext(pos) = %s, want 00000101", got.ToBinaryString())
	}
}

func TestSignedDivRem(t *testing.T) {
	negFour := mustBin(t, "1100") // -4 in 4 bits
	two := bv.FromUint(2, 4)
	if got := negFour.Sdiv(two); got.ToBinaryString() != "1110" { // -2
		t.Fatalf("sdiv(-4,2) = %s, want 1110", got.ToBinaryString())
	}
	if got := negFour.Srem(two); !got.IsZero() {
		t.Fatalf("srem(-4,2) = %s, want 0", got.ToBinaryString())
	}
}
