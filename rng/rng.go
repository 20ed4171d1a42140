// Package rng implements the deterministic multiply-with-carry pseudorandom
// generator used to fill uninitialized inputs and states in random-mode
// simulation. Its constants and mixing steps are a fixed contract: any
// change to them invalidates previously-recorded traces for a given seed.
package rng

import (
	"math/big"

	"github.com/db47h/btorsim/bv"
)

// RNG is a 64-bit multiply-with-carry generator seeded from a single
// 32-bit integer. The zero value is not seeded; use New.
type RNG struct {
	w, z uint32
}

// Mixing constants for the initial seed spread. Both are odd 32-bit
// primes.
const (
	mixW = 2654435761 // 0x9E3779B1
	mixZ = 2246822519 // 0x85EBCA77
)

// New returns a generator seeded from seed.
func New(seed uint32) *RNG {
	r := &RNG{w: seed, z: ^seed}
	r.w = (r.w<<1 | 1) * mixW
	r.z = (r.z<<1 | 1) * mixZ
	return r
}

// Next returns the next 32-bit pseudorandom value in the sequence.
func (r *RNG) Next() uint32 {
	r.z = 36969*(r.z&0xFFFF) + (r.z >> 16)
	r.w = 18000*(r.w&0xFFFF) + (r.w >> 16)
	return (r.z << 16) + r.w
}

// Pick returns a pseudorandom value in [from, to], inclusive. to is
// clamped to one below ^uint32(0) to avoid overflowing the range width.
func (r *RNG) Pick(from, to uint32) uint32 {
	if to == ^uint32(0) {
		to--
	}
	span := to - from + 1
	return from + r.Next()%span
}

// NewBitVector returns a uniformly random bit vector of width w: whole
// 32-bit limbs are filled from Next(), and any partial top limb is filled
// with Pick over exactly its bit range so that widths that aren't multiples
// of 32 don't waste, or bias, any bits.
func (r *RNG) NewBitVector(w uint32) bv.BV {
	mag := new(big.Int)
	limbs := (w + 31) / 32
	rem := w % 32
	for i := uint32(0); i < limbs; i++ {
		var limb uint32
		if i == limbs-1 && rem != 0 {
			limb = r.Pick(0, uint32(1)<<rem-1)
		} else {
			limb = r.Next()
		}
		chunk := new(big.Int).Lsh(new(big.Int).SetUint64(uint64(limb)), uint(i*32))
		mag.Or(mag, chunk)
	}
	return bv.FromMagnitude(mag, w)
}
