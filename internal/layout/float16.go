package layout

import "math"

// IEEE-754 binary16 conversion. Nothing in the dependency set carries
// a half-float type, so the bit manipulation lives here. Values that
// overflow the 5-bit exponent saturate to infinity, matching what a C
// compiler's float -> _Float16 narrowing does.

func halfFromFloat32(f float32) uint16 {
	b := math.Float32bits(f)
	sign := uint16(b>>16) & 0x8000
	exp32 := int32(b >> 23 & 0xff)
	mant := b & 0x7fffff

	if exp32 == 0xff {
		if mant != 0 {
			return sign | 0x7e00 // NaN
		}
		return sign | 0x7c00 // Inf
	}

	exp := exp32 - 127 + 15
	switch {
	case exp >= 0x1f:
		return sign | 0x7c00 // overflow -> Inf
	case exp <= 0:
		if exp < -10 {
			return sign // underflow -> signed zero
		}
		// Subnormal half: shift the implicit bit into the mantissa.
		mant |= 0x800000
		shift := uint32(14 - exp)
		half := uint16(mant >> shift)
		if mant>>(shift-1)&1 != 0 {
			half++ // round away the dropped bit
		}
		return sign | half
	default:
		half := sign | uint16(exp)<<10 | uint16(mant>>13)
		if mant&0x1000 != 0 {
			half++ // may carry into the exponent, which is correct
		}
		return half
	}
}

func halfToFloat32(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h >> 10 & 0x1f)
	mant := uint32(h & 0x3ff)

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal half: normalize into a float32 exponent.
		shift := uint32(0)
		for mant&0x400 == 0 {
			mant <<= 1
			shift++
		}
		return math.Float32frombits(sign | (113-shift)<<23 | (mant&0x3ff)<<13)
	case 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	default:
		return math.Float32frombits(sign | (exp+112)<<23 | mant<<13)
	}
}
