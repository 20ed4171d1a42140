// Package bv implements arbitrary-width, immutable, canonically-represented
// unsigned bit vectors together with the full set of arithmetic, logical,
// relational and structural operators needed to evaluate a BTOR2 netlist.
//
// Every value carries its declared width and a magnitude that is always
// kept in [0, 2^width): constructors and operators re-establish this
// canonical form before returning, so two BVs of the same width and value
// always compare equal with Compare regardless of how they were produced.
package bv

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// BV is an immutable bit vector of a fixed declared width. The zero value
// is not a valid BV; use one of the constructors below.
type BV struct {
	width uint32
	mag   *big.Int // canonical: 0 <= mag < 2^width
}

var (
	bigOne = big.NewInt(1)
)

func powerOfTwo(w uint32) *big.Int {
	return new(big.Int).Lsh(bigOne, uint(w))
}

func wrap(w uint32, x *big.Int) BV {
	m := new(big.Int).Mod(x, powerOfTwo(w))
	return BV{width: w, mag: m}
}

func mustWidth(w uint32) {
	if w == 0 {
		panic("bv: zero width")
	}
}

// Width returns the declared bit width of v.
func (v BV) Width() uint32 { return v.width }

// Zero returns the all-zero value of width w.
func Zero(w uint32) BV {
	mustWidth(w)
	return BV{width: w, mag: new(big.Int)}
}

// One returns the value 1 of width w.
func One(w uint32) BV {
	mustWidth(w)
	return BV{width: w, mag: big.NewInt(1)}
}

// Ones returns the all-ones value (2^w - 1) of width w.
func Ones(w uint32) BV {
	mustWidth(w)
	return wrap(w, big.NewInt(-1))
}

// FromUint returns the low-order w bits of v.
func FromUint(v uint64, w uint32) BV {
	mustWidth(w)
	return wrap(w, new(big.Int).SetUint64(v))
}

// FromMagnitude returns the low-order w bits of mag, which must be
// non-negative. Used by callers (such as the RNG's bit-vector filler) that
// assemble a magnitude limb-by-limb rather than from a single uint64.
func FromMagnitude(mag *big.Int, w uint32) BV {
	mustWidth(w)
	return wrap(w, mag)
}

// FromBinaryString parses a string of '0'/'1' characters, MSB first. The
// resulting width equals len(s).
func FromBinaryString(s string) (BV, error) {
	if len(s) == 0 {
		return BV{}, errors.New("empty binary constant")
	}
	mag := new(big.Int)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0', '1':
			mag.Lsh(mag, 1)
			if s[i] == '1' {
				mag.Or(mag, bigOne)
			}
		default:
			return BV{}, errors.Errorf("invalid character %q in binary constant %q", s[i], s)
		}
	}
	return BV{width: uint32(len(s)), mag: mag}, nil
}

// FromDecimalString parses an optionally-signed decimal literal into a BV
// of width w. Negative values must fit in the two's-complement range for a
// w-bit value; -2^(w-1) (the minimum signed value) is accepted.
func FromDecimalString(s string, w uint32) (BV, error) {
	mustWidth(w)
	if s == "" {
		return BV{}, errors.New("empty decimal constant")
	}
	neg := false
	digits := s
	if s[0] == '-' {
		neg = true
		digits = s[1:]
	}
	if digits == "" {
		return BV{}, errors.Errorf("malformed decimal constant %q", s)
	}
	if len(digits) > 1 && digits[0] == '0' {
		return BV{}, errors.Errorf("surplus leading zero in decimal constant %q", s)
	}
	mag, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return BV{}, errors.Errorf("malformed decimal constant %q", s)
	}
	limit := powerOfTwo(w)
	if neg {
		half := new(big.Int).Rsh(limit, 1)
		if mag.Cmp(half) > 0 {
			return BV{}, errors.Errorf("decimal constant %q does not fit in %d bits", s, w)
		}
		mag.Neg(mag)
	} else if mag.Cmp(limit) >= 0 {
		return BV{}, errors.Errorf("decimal constant %q does not fit in %d bits", s, w)
	}
	return wrap(w, mag), nil
}

// FromHexString parses a case-insensitive hexadecimal literal into a BV of
// width w. The magnitude must fit in w bits.
func FromHexString(s string, w uint32) (BV, error) {
	mustWidth(w)
	if s == "" {
		return BV{}, errors.New("empty hexadecimal constant")
	}
	mag, ok := new(big.Int).SetString(strings.ToLower(s), 16)
	if !ok || mag.Sign() < 0 {
		return BV{}, errors.Errorf("malformed hexadecimal constant %q", s)
	}
	if mag.Cmp(powerOfTwo(w)) >= 0 {
		return BV{}, errors.Errorf("hexadecimal constant %q does not fit in %d bits", s, w)
	}
	return BV{width: w, mag: mag}, nil
}

func sameWidth(a, b BV) {
	if a.width != b.width {
		panic("bv: width mismatch")
	}
}

// Not returns the bitwise complement of v.
func (v BV) Not() BV {
	return BV{v.width, new(big.Int).Xor(v.mag, new(big.Int).Sub(powerOfTwo(v.width), bigOne))}
}

// Neg returns the two's-complement negation of v.
func (v BV) Neg() BV {
	if v.mag.Sign() == 0 {
		return v
	}
	return wrap(v.width, new(big.Int).Neg(v.mag))
}

// Inc returns v + 1.
func (v BV) Inc() BV { return wrap(v.width, new(big.Int).Add(v.mag, bigOne)) }

// Dec returns v - 1.
func (v BV) Dec() BV { return wrap(v.width, new(big.Int).Sub(v.mag, bigOne)) }

// RedAnd returns a width-1 BV that is 1 iff every bit of v is set.
func (v BV) RedAnd() BV {
	if v.IsOnes() {
		return One(1)
	}
	return Zero(1)
}

// RedOr returns a width-1 BV that is 1 iff any bit of v is set.
func (v BV) RedOr() BV {
	if v.IsZero() {
		return Zero(1)
	}
	return One(1)
}

// And returns the bitwise AND of a and b, which must share a width.
func (a BV) And(b BV) BV { sameWidth(a, b); return BV{a.width, new(big.Int).And(a.mag, b.mag)} }

// Or returns the bitwise OR of a and b, which must share a width.
func (a BV) Or(b BV) BV { sameWidth(a, b); return BV{a.width, new(big.Int).Or(a.mag, b.mag)} }

// Xor returns the bitwise XOR of a and b, which must share a width.
func (a BV) Xor(b BV) BV { sameWidth(a, b); return BV{a.width, new(big.Int).Xor(a.mag, b.mag)} }

// Nand returns the bitwise complement of And.
func (a BV) Nand(b BV) BV { return a.And(b).Not() }

// Nor returns the bitwise complement of Or.
func (a BV) Nor(b BV) BV { return a.Or(b).Not() }

// Xnor returns the bitwise complement of Xor. Also backs the `iff` tag on
// width-1 operands, which is a synonym in this evaluator.
func (a BV) Xnor(b BV) BV { return a.Xor(b).Not() }

// Implies returns the bitwise material implication (NOT a) OR b.
func (a BV) Implies(b BV) BV { return a.Not().Or(b) }

// Add returns a + b modulo 2^width.
func (a BV) Add(b BV) BV { sameWidth(a, b); return wrap(a.width, new(big.Int).Add(a.mag, b.mag)) }

// Sub returns a - b modulo 2^width.
func (a BV) Sub(b BV) BV { sameWidth(a, b); return wrap(a.width, new(big.Int).Sub(a.mag, b.mag)) }

// Mul returns a * b modulo 2^width.
func (a BV) Mul(b BV) BV { sameWidth(a, b); return wrap(a.width, new(big.Int).Mul(a.mag, b.mag)) }

// Udiv returns the unsigned quotient of a / b. Division by zero returns
// Ones(width).
func (a BV) Udiv(b BV) BV {
	sameWidth(a, b)
	if b.IsZero() {
		return Ones(a.width)
	}
	return BV{a.width, new(big.Int).Quo(a.mag, b.mag)}
}

// Urem returns the unsigned remainder of a / b. Division by zero returns a.
func (a BV) Urem(b BV) BV {
	sameWidth(a, b)
	if b.IsZero() {
		return a
	}
	return BV{a.width, new(big.Int).Rem(a.mag, b.mag)}
}

func (v BV) signBit() bool {
	return v.mag.Bit(int(v.width)-1) == 1
}

// Sdiv returns the signed quotient of a / b, per two's-complement
// semantics: operands are normalized to their magnitudes, unsigned
// division is performed, and the result is negated iff the operand signs
// differ. Division by zero follows the same convention as Udiv on the
// normalized magnitudes.
func (a BV) Sdiv(b BV) BV {
	sameWidth(a, b)
	if a.width == 1 {
		return a.Not().And(b).Not()
	}
	negA, negB := a.signBit(), b.signBit()
	ua, ub := a, b
	if negA {
		ua = a.Neg()
	}
	if negB {
		ub = b.Neg()
	}
	q := ua.Udiv(ub)
	if negA != negB {
		return q.Neg()
	}
	return q
}

// Srem returns the signed remainder of a / b, taking the sign of the
// dividend, computed analogously to Sdiv.
func (a BV) Srem(b BV) BV {
	sameWidth(a, b)
	if a.width == 1 {
		return a.And(b.Not())
	}
	negA, negB := a.signBit(), b.signBit()
	ua, ub := a, b
	if negA {
		ua = a.Neg()
	}
	if negB {
		ub = b.Neg()
	}
	r := ua.Urem(ub)
	if negA {
		return r.Neg()
	}
	return r
}

// shiftAmount returns the shift count as an int, or width if the shift
// operand encodes a value >= width (callers treat any such amount as a
// full shift-out).
func (v BV) shiftAmount(width uint32) uint {
	if v.mag.BitLen() > 32 || uint32(v.mag.Uint64()) >= width {
		return uint(width)
	}
	return uint(v.mag.Uint64())
}

// Sll returns a shifted left by the unsigned value of b, shifting in
// zeroes. Shift amounts >= width produce 0.
func (a BV) Sll(b BV) BV {
	sameWidth(a, b)
	n := b.shiftAmount(a.width)
	if n >= uint(a.width) {
		return Zero(a.width)
	}
	return wrap(a.width, new(big.Int).Lsh(a.mag, n))
}

// Srl returns a shifted right by the unsigned value of b, shifting in
// zeroes. Shift amounts >= width produce 0.
func (a BV) Srl(b BV) BV {
	sameWidth(a, b)
	n := b.shiftAmount(a.width)
	if n >= uint(a.width) {
		return Zero(a.width)
	}
	return BV{a.width, new(big.Int).Rsh(a.mag, n)}
}

// Sra returns a arithmetically shifted right by the unsigned value of b,
// shifting in copies of a's original sign bit. Shift amounts >= width
// produce all-zero (sign bit 0) or all-ones (sign bit 1).
func (a BV) Sra(b BV) BV {
	sameWidth(a, b)
	n := b.shiftAmount(a.width)
	if !a.signBit() {
		if n >= uint(a.width) {
			return Zero(a.width)
		}
		return BV{a.width, new(big.Int).Rsh(a.mag, n)}
	}
	if n >= uint(a.width) {
		return Ones(a.width)
	}
	shifted := new(big.Int).Rsh(a.mag, n)
	fill := new(big.Int).Sub(powerOfTwo(uint32(n)), bigOne)
	fill.Lsh(fill, uint(a.width)-n)
	return BV{a.width, new(big.Int).Or(shifted, fill)}
}

func bool1(b bool) BV {
	if b {
		return One(1)
	}
	return Zero(1)
}

// Eq returns a width-1 BV that is 1 iff a and b (which must share a width)
// are equal.
func (a BV) Eq(b BV) BV { sameWidth(a, b); return bool1(a.mag.Cmp(b.mag) == 0) }

// Neq returns a width-1 BV that is 1 iff a and b are not equal.
func (a BV) Neq(b BV) BV { sameWidth(a, b); return bool1(a.mag.Cmp(b.mag) != 0) }

// Ult returns a width-1 BV that is 1 iff a < b, unsigned.
func (a BV) Ult(b BV) BV { sameWidth(a, b); return bool1(a.mag.Cmp(b.mag) < 0) }

// Ulte returns a width-1 BV that is 1 iff a <= b, unsigned.
func (a BV) Ulte(b BV) BV { sameWidth(a, b); return bool1(a.mag.Cmp(b.mag) <= 0) }

// Ugt returns a width-1 BV that is 1 iff a > b, unsigned.
func (a BV) Ugt(b BV) BV { return b.Ult(a) }

// Ugte returns a width-1 BV that is 1 iff a >= b, unsigned.
func (a BV) Ugte(b BV) BV { return b.Ulte(a) }

// signed returns v's magnitude reinterpreted as a two's-complement signed
// integer.
func (v BV) signed() *big.Int {
	if !v.signBit() {
		return v.mag
	}
	return new(big.Int).Sub(v.mag, powerOfTwo(v.width))
}

// Slt returns a width-1 BV that is 1 iff a < b, signed.
func (a BV) Slt(b BV) BV { sameWidth(a, b); return bool1(a.signed().Cmp(b.signed()) < 0) }

// Slte returns a width-1 BV that is 1 iff a <= b, signed.
func (a BV) Slte(b BV) BV { sameWidth(a, b); return bool1(a.signed().Cmp(b.signed()) <= 0) }

// Sgt returns a width-1 BV that is 1 iff a > b, signed.
func (a BV) Sgt(b BV) BV { return b.Slt(a) }

// Sgte returns a width-1 BV that is 1 iff a >= b, signed.
func (a BV) Sgte(b BV) BV { return b.Slte(a) }

// Concat returns a ‖ b, with a occupying the most-significant bits.
func (a BV) Concat(b BV) BV {
	w := a.width + b.width
	mag := new(big.Int).Lsh(a.mag, uint(b.width))
	mag.Or(mag, b.mag)
	return BV{w, mag}
}

// Slice extracts bits [hi..lo] of v, requiring 0 <= lo <= hi < v.Width().
func (v BV) Slice(hi, lo uint32) BV {
	if lo > hi || hi >= v.width {
		panic("bv: invalid slice bounds")
	}
	w := hi - lo + 1
	return wrap(w, new(big.Int).Rsh(v.mag, uint(lo)))
}

// Uext zero-extends v by k bits.
func (v BV) Uext(k uint32) BV {
	if k == 0 {
		return v
	}
	return BV{v.width + k, new(big.Int).Set(v.mag)}
}

// Sext sign-extends v by k bits.
func (v BV) Sext(k uint32) BV {
	if k == 0 {
		return v
	}
	if !v.signBit() {
		return BV{v.width + k, new(big.Int).Set(v.mag)}
	}
	fill := new(big.Int).Sub(powerOfTwo(k), bigOne)
	fill.Lsh(fill, uint(v.width))
	return BV{v.width + k, new(big.Int).Or(v.mag, fill)}
}

// Ite returns t if c (a width-1 BV) is nonzero, else e. t and e must share
// a width.
func Ite(c, t, e BV) BV {
	if c.width != 1 {
		panic("bv: ite condition must be width 1")
	}
	sameWidth(t, e)
	if c.IsZero() {
		return e
	}
	return t
}

// IsZero reports whether v is the all-zero value.
func (v BV) IsZero() bool { return v.mag.Sign() == 0 }

// IsOne reports whether v equals 1.
func (v BV) IsOne() bool { return v.mag.Cmp(bigOne) == 0 }

// IsOnes reports whether v is the all-ones value.
func (v BV) IsOnes() bool { return v.mag.Cmp(new(big.Int).Sub(powerOfTwo(v.width), bigOne)) == 0 }

// IsTrue reports whether v is a width-1 BV equal to 1.
func (v BV) IsTrue() bool { return v.width == 1 && v.IsOne() }

// Compare returns -1, 0 or 1 as v is numerically less than, equal to, or
// greater than o, ignoring any width difference (callers are expected to
// only compare same-width values, as the witness checker does).
func (v BV) Compare(o BV) int { return v.mag.Cmp(o.mag) }

// ToBinaryString renders v as exactly Width() '0'/'1' characters, MSB
// first.
func (v BV) ToBinaryString() string {
	s := v.mag.Text(2)
	if pad := int(v.width) - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s
}

// ToHexString renders v's unsigned magnitude as lowercase hexadecimal,
// zero-padded to ceil(width/4) digits.
func (v BV) ToHexString() string {
	s := v.mag.Text(16)
	digits := (int(v.width) + 3) / 4
	if pad := digits - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s
}

// ToDecimalString renders v's unsigned magnitude in base 10.
func (v BV) ToDecimalString() string { return v.mag.Text(10) }
