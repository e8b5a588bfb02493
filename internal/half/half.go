/*
DESCRIPTION
  half.go provides bit-exact float32<->binary16 (IEEE 754 half precision)
  conversion, used to index half-domain 1D LUTs by the raw bits of the
  input sample.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package half implements IEEE 754 binary16 (half-precision float)
// conversion to and from float32, bit-exact, including a defined NaN
// slot. There is no general-purpose half-float dependency anywhere in
// the retrieval pack, and this is a small, self-contained bit-twiddling
// routine, so it is implemented directly against the standard library.
package half

import "math"

// Bits is a raw IEEE 754 binary16 bit pattern. There are exactly 65536
// distinct values, which is what makes half-domain 1D LUTs (one sample
// per possible half value) practical.
type Bits uint16

// NaNBits is the canonical quiet-NaN half pattern used when FromFloat32
// receives a NaN float32; it is the slot "NaN maps to a well-defined
// slot" in spec.md §3 resolves to.
const NaNBits Bits = 0x7e00

// FromFloat32 converts f to its nearest binary16 representation,
// rounding to nearest-even. NaN always maps to NaNBits regardless of
// payload or sign, so that NaN indexing into a half-domain LUT is
// deterministic.
func FromFloat32(f float32) Bits {
	if math.IsNaN(float64(f)) {
		return NaNBits
	}

	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xff) - 127 + 15
	mant := bits & 0x7fffff

	switch {
	case math.IsInf(float64(f), 0):
		return Bits(sign | 0x7c00)
	case exp <= 0:
		if exp < -10 {
			// Too small even for a subnormal half; flush to signed zero.
			return Bits(sign)
		}
		// Subnormal half: add the implicit leading 1 bit back in and
		// shift down by the extra exponent deficit.
		mant |= 0x800000
		shift := uint32(14 - exp)
		half := uint16(mant >> shift)
		// Round to nearest-even on the bits shifted out.
		rem := mant & (1<<shift - 1)
		halfway := uint32(1) << (shift - 1)
		if rem > halfway || (rem == halfway && half&1 == 1) {
			half++
		}
		return Bits(sign | half)
	case exp >= 0x1f:
		// Overflow: map to infinity.
		return Bits(sign | 0x7c00)
	default:
		half := uint16(exp)<<10 | uint16(mant>>13)
		// Round to nearest-even based on the bits shifted out of the mantissa.
		roundBits := mant & 0x1fff
		if roundBits > 0x1000 || (roundBits == 0x1000 && half&1 == 1) {
			half++
		}
		return Bits(sign | half)
	}
}

// ToFloat32 expands a binary16 bit pattern to its exact float32 value.
func (b Bits) ToFloat32() float32 {
	sign := uint32(b&0x8000) << 16
	exp := uint32(b>>10) & 0x1f
	mant := uint32(b & 0x3ff)

	switch {
	case exp == 0 && mant == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// Subnormal half -> normalize into a float32.
		e := int32(0)
		m := mant
		for m&0x400 == 0 {
			m <<= 1
			e--
		}
		m &= 0x3ff
		fexp := uint32(127 - 15 + 1 + e)
		return math.Float32frombits(sign | fexp<<23 | m<<13)
	case exp == 0x1f:
		if mant == 0 {
			return math.Float32frombits(sign | 0x7f800000)
		}
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	default:
		fexp := exp - 15 + 127
		return math.Float32frombits(sign | fexp<<23 | mant<<13)
	}
}

// Index returns b as an index in [0, 65536) suitable for a half-domain
// LUT lookup table.
func (b Bits) Index() int { return int(b) }

// NumValues is the number of distinct binary16 bit patterns.
const NumValues = 1 << 16
