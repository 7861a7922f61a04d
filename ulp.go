// Package reflop ULP distance over IEEE-754 bit patterns
package reflop

import (
	"math"
	"math/bits"
)

// MaxULPDistance is the sentinel distance returned when no finite ULP
// count relates two patterns: differing signs or a NaN operand.
// IEEE-754 magnitude ordering is not monotonic across the sign bit, so
// no ULP count can bridge it.
const MaxULPDistance = math.MaxUint64

// IsNaNBits32 reports whether bits encodes a binary32 NaN.
func IsNaNBits32(b uint32) bool {
	return b&0x7F800000 == 0x7F800000 && b&0x007FFFFF != 0
}

// IsNaNBits64 reports whether bits encodes a binary64 NaN.
func IsNaNBits64(b uint64) bool {
	return b&0x7FF0000000000000 == 0x7FF0000000000000 && b&0x000FFFFFFFFFFFFF != 0
}

// IsNaNBits80 reports whether the canonical big-endian 10-byte pattern
// encodes an 80-bit extended NaN. The explicit integer bit is ignored:
// an all-ones exponent with any other mantissa bit set is a NaN.
func IsNaNBits80(b [10]byte) bool {
	signExp := uint16(b[0])<<8 | uint16(b[1])
	if signExp&0x7FFF != 0x7FFF {
		return false
	}
	var frac uint64
	for _, c := range b[2:] {
		frac = frac<<8 | uint64(c)
	}
	// Infinity has only the integer bit set.
	return frac<<1 != 0
}

// ULPDistance32 returns the integer gap between two binary32 bit
// patterns interpreted as signed magnitudes. The distance is
// MaxULPDistance when the signs differ or either operand is a NaN.
func ULPDistance32(a, b uint32) uint64 {
	if IsNaNBits32(a) || IsNaNBits32(b) {
		return MaxULPDistance
	}
	if (a^b)&0x80000000 != 0 {
		return MaxULPDistance
	}
	magA := a & 0x7FFFFFFF
	magB := b & 0x7FFFFFFF
	if magA > magB {
		return uint64(magA - magB)
	}
	return uint64(magB - magA)
}

// ULPDistance64 returns the integer gap between two binary64 bit
// patterns interpreted as signed magnitudes. The distance is
// MaxULPDistance when the signs differ or either operand is a NaN.
func ULPDistance64(a, b uint64) uint64 {
	if IsNaNBits64(a) || IsNaNBits64(b) {
		return MaxULPDistance
	}
	if (a^b)&0x8000000000000000 != 0 {
		return MaxULPDistance
	}
	magA := a &^ uint64(0x8000000000000000)
	magB := b &^ uint64(0x8000000000000000)
	if magA > magB {
		return magA - magB
	}
	return magB - magA
}

// ULPDistance80 returns the integer gap between two canonical 10-byte
// extended-precision patterns interpreted as signed 79-bit magnitudes.
// Distances that do not fit in 64 bits clamp to MaxULPDistance, as do
// differing signs and NaN operands.
func ULPDistance80(a, b [10]byte) uint64 {
	if IsNaNBits80(a) || IsNaNBits80(b) {
		return MaxULPDistance
	}
	if (a[0]^b[0])&0x80 != 0 {
		return MaxULPDistance
	}
	hiA, loA := split80(a)
	hiB, loB := split80(b)
	if hiA < hiB || (hiA == hiB && loA < loB) {
		hiA, hiB = hiB, hiA
		loA, loB = loB, loA
	}
	lo, borrow := bits.Sub64(loA, loB, 0)
	hi := hiA - hiB - borrow
	if hi != 0 {
		return MaxULPDistance
	}
	return lo
}

// split80 splits a canonical pattern into its 15-bit exponent and
// 64-bit mantissa words, dropping the sign.
func split80(b [10]byte) (hi, lo uint64) {
	hi = (uint64(b[0])<<8 | uint64(b[1])) & 0x7FFF
	for _, c := range b[2:] {
		lo = lo<<8 | uint64(c)
	}
	return hi, lo
}
