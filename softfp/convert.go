package softfp

import (
	"math"

	"github.com/x448/float16"
)

// roundIntegral rounds v to an integral value under mode.
func roundIntegral(v float64, mode RoundingMode) float64 {
	switch mode {
	case RoundUp:
		return math.Ceil(v)
	case RoundDown:
		return math.Floor(v)
	case RoundZero:
		return math.Trunc(v)
	case RoundTieAway:
		return math.Round(v)
	default:
		return math.RoundToEven(v)
	}
}

// RoundInt16 rounds a half-precision value to an integral value in the
// same format. When exact is set, an inexact result raises the flag.
func RoundInt16(a uint16, exact bool, s *Status) uint16 {
	if isNaN16(a) {
		if isSNaN16(a) {
			s.Invalid = true
			if s.DefaultNaN {
				return DefaultNaN16
			}
			return a | 0x0200
		}
		return a
	}
	v := float64(float16.Frombits(a).Float32())
	r := roundIntegral(v, s.Rounding)
	if exact && r != v {
		s.Inexact = true
	}
	if r == 0 {
		// Keep the sign of a rounded-off negative.
		return a & 0x8000
	}
	return float16.Fromfloat32(float32(r)).Bits()
}

// RoundInt32 rounds a single-precision value to an integral value in
// the same format.
func RoundInt32(a uint32, exact bool, s *Status) uint32 {
	if isNaN32(a) {
		if isSNaN32(a) {
			s.Invalid = true
			if s.DefaultNaN {
				return DefaultNaN32
			}
			return a | 0x00400000
		}
		return a
	}
	v := float64(math.Float32frombits(a))
	r := roundIntegral(v, s.Rounding)
	if exact && r != v {
		s.Inexact = true
	}
	if r == 0 {
		return a & 0x80000000
	}
	return math.Float32bits(float32(r))
}

// RoundInt64 rounds a double-precision value to an integral value in
// the same format.
func RoundInt64(a uint64, exact bool, s *Status) uint64 {
	if isNaN64(a) {
		if isSNaN64(a) {
			s.Invalid = true
			if s.DefaultNaN {
				return DefaultNaN64
			}
			return a | 0x0008000000000000
		}
		return a
	}
	v := math.Float64frombits(a)
	r := roundIntegral(v, s.Rounding)
	if exact && r != v {
		s.Inexact = true
	}
	if r == 0 {
		return a & 0x8000000000000000
	}
	return math.Float64bits(r)
}

// F16toF32 widens half to single precision.
func F16toF32(a uint16, s *Status) uint32 {
	if isNaN16(a) {
		if isSNaN16(a) {
			s.Invalid = true
		}
		if s.DefaultNaN || isSNaN16(a) {
			return DefaultNaN32
		}
	}
	return math.Float32bits(float16.Frombits(a).Float32())
}

// F32toF16 narrows single to half precision.
func F32toF16(a uint32, s *Status) uint16 {
	if isNaN32(a) {
		if isSNaN32(a) {
			s.Invalid = true
		}
		return DefaultNaN16
	}
	return narrow16(float64(math.Float32frombits(squash32(a, s))), 0, s)
}

// F16toF64 widens half to double precision.
func F16toF64(a uint16, s *Status) uint64 {
	if isNaN16(a) {
		if isSNaN16(a) {
			s.Invalid = true
		}
		if s.DefaultNaN || isSNaN16(a) {
			return DefaultNaN64
		}
	}
	return math.Float64bits(float64(float16.Frombits(a).Float32()))
}

// F64toF16 narrows double to half precision.
func F64toF16(a uint64, s *Status) uint16 {
	if isNaN64(a) {
		if isSNaN64(a) {
			s.Invalid = true
		}
		return DefaultNaN16
	}
	return narrow16(math.Float64frombits(squash64(a, s)), 0, s)
}

// F32toF64 widens single to double precision.
func F32toF64(a uint32, s *Status) uint64 {
	if isNaN32(a) {
		if isSNaN32(a) {
			s.Invalid = true
		}
		if s.DefaultNaN || isSNaN32(a) {
			return DefaultNaN64
		}
		return uint64(a&0x80000000)<<32 | 0x7FF8000000000000 |
			uint64(a&0x003FFFFF)<<29
	}
	return math.Float64bits(float64(math.Float32frombits(squash32(a, s))))
}

// F64toF32 narrows double to single precision.
func F64toF32(a uint64, s *Status) uint32 {
	if isNaN64(a) {
		if isSNaN64(a) {
			s.Invalid = true
		}
		if s.DefaultNaN || isSNaN64(a) {
			return DefaultNaN32
		}
		return uint32(a>>32)&0x80000000 | 0x7FC00000 |
			uint32(a>>29)&0x003FFFFF
	}
	return narrow32(math.Float64frombits(squash64(a, s)), 0, s)
}

// Int32toF16 converts a 32-bit integer to half precision. When unsigned
// is set the value is taken as unsigned.
func Int32toF16(a uint32, unsigned bool, s *Status) uint16 {
	var v float64
	if unsigned {
		v = float64(a)
	} else {
		v = float64(int32(a))
	}
	return narrow16(v, 0, s)
}

// Int32toF32 converts a 32-bit integer to single precision.
func Int32toF32(a uint32, unsigned bool, s *Status) uint32 {
	var v float64
	if unsigned {
		v = float64(a)
	} else {
		v = float64(int32(a))
	}
	return narrow32(v, 0, s)
}

// Int32toF64 converts a 32-bit integer to double precision. The
// conversion is always exact.
func Int32toF64(a uint32, unsigned bool, _ *Status) uint64 {
	if unsigned {
		return math.Float64bits(float64(a))
	}
	return math.Float64bits(float64(int32(a)))
}

// toInt32 rounds v under mode and saturates to the 32-bit integer
// range selected by unsigned.
func toInt32(v float64, unsigned bool, s *Status) uint32 {
	r := roundIntegral(v, s.Rounding)
	if r != v {
		s.Inexact = true
	}
	if unsigned {
		if r < 0 {
			s.Invalid = true
			return 0
		}
		if r > math.MaxUint32 {
			s.Invalid = true
			return math.MaxUint32
		}
		return uint32(r)
	}
	if r < math.MinInt32 {
		s.Invalid = true
		return 0x80000000
	}
	if r > math.MaxInt32 {
		s.Invalid = true
		return 0x7FFFFFFF
	}
	return uint32(int32(r))
}

// F16toInt32 converts half precision to a 32-bit integer under the
// status rounding mode, saturating out-of-range values.
func F16toInt32(a uint16, unsigned bool, s *Status) uint32 {
	if isNaN16(a) {
		s.Invalid = true
		return 0
	}
	return toInt32(float64(float16.Frombits(a).Float32()), unsigned, s)
}

// F32toInt32 converts single precision to a 32-bit integer.
func F32toInt32(a uint32, unsigned bool, s *Status) uint32 {
	if isNaN32(a) {
		s.Invalid = true
		return 0
	}
	return toInt32(float64(math.Float32frombits(squash32(a, s))), unsigned, s)
}

// F64toInt32 converts double precision to a 32-bit integer.
func F64toInt32(a uint64, unsigned bool, s *Status) uint32 {
	if isNaN64(a) {
		s.Invalid = true
		return 0
	}
	return toInt32(math.Float64frombits(squash64(a, s)), unsigned, s)
}

// Fixed-point operation codes for the CvtFix conversions: bit 2 set
// converts float to fixed, bit 1 selects unsigned, bit 0 selects a
// 32-bit rather than 16-bit field.
const (
	FixToFixed  uint8 = 0b100
	FixUnsigned uint8 = 0b010
	FixWide     uint8 = 0b001
)

// fixBounds returns the saturation bounds of the selected fixed field.
func fixBounds(opc uint8) (lo, hi float64) {
	switch opc & (FixUnsigned | FixWide) {
	case 0:
		return math.MinInt16, math.MaxInt16
	case FixWide:
		return math.MinInt32, math.MaxInt32
	case FixUnsigned:
		return 0, math.MaxUint16
	default:
		return 0, math.MaxUint32
	}
}

// fixSource widens the fixed field in the low bits of a to a float64.
func fixSource(a uint64, opc uint8) float64 {
	switch opc & (FixUnsigned | FixWide) {
	case 0:
		return float64(int16(a))
	case FixWide:
		return float64(int32(a))
	case FixUnsigned:
		return float64(uint16(a))
	default:
		return float64(uint32(a))
	}
}

// toFixed rounds v*2^fracbits to zero and saturates it to the field.
func toFixed(v float64, fracbits uint32, opc uint8, s *Status) uint64 {
	scaled := v * math.Ldexp(1, int(fracbits))
	r := math.Trunc(scaled)
	if r != scaled {
		s.Inexact = true
	}
	lo, hi := fixBounds(opc)
	if r < lo {
		s.Invalid = true
		r = lo
	} else if r > hi {
		s.Invalid = true
		r = hi
	}
	if opc&FixUnsigned != 0 {
		if opc&FixWide != 0 {
			return uint64(uint32(r))
		}
		return uint64(uint16(r))
	}
	if opc&FixWide != 0 {
		return uint64(int64(int32(r)))
	}
	return uint64(int64(int16(r)))
}

// CvtFix16 converts between half precision and fixed point.
func CvtFix16(a uint64, fracbits uint32, opc uint8, s *Status) uint64 {
	if opc&FixToFixed != 0 {
		bits := uint16(a)
		if isNaN16(bits) {
			s.Invalid = true
			return 0
		}
		v := float64(float16.Frombits(bits).Float32())
		return toFixed(v, fracbits, opc, s) & 0xFFFFFFFF
	}
	v := fixSource(a, opc) / math.Ldexp(1, int(fracbits))
	return uint64(narrow16(v, 0, s))
}

// CvtFix32 converts between single precision and fixed point.
func CvtFix32(a uint64, fracbits uint32, opc uint8, s *Status) uint64 {
	if opc&FixToFixed != 0 {
		bits := uint32(a)
		if isNaN32(bits) {
			s.Invalid = true
			return 0
		}
		v := float64(math.Float32frombits(squash32(bits, s)))
		return toFixed(v, fracbits, opc, s) & 0xFFFFFFFF
	}
	v := fixSource(a, opc) / math.Ldexp(1, int(fracbits))
	return uint64(narrow32(v, 0, s))
}

// CvtFix64 converts between double precision and fixed point.
func CvtFix64(a uint64, fracbits uint32, opc uint8, s *Status) uint64 {
	if opc&FixToFixed != 0 {
		if isNaN64(a) {
			s.Invalid = true
			return 0
		}
		v := math.Float64frombits(squash64(a, s))
		return toFixed(v, fracbits, opc, s)
	}
	v := fixSource(a, opc) / math.Ldexp(1, int(fracbits))
	return math.Float64bits(v)
}

// JSCvt converts double precision to a signed 32-bit integer with the
// Javascript rule: round to zero, out-of-range results take the low 32
// bits of the integer, and the returned flag nibble has Z set only for
// an exact in-range conversion.
func JSCvt(a uint64, s *Status) (uint32, uint32) {
	if isNaN64(a) {
		s.Invalid = true
		return 0, 0
	}
	v := math.Float64frombits(a)
	if math.IsInf(v, 0) {
		s.Invalid = true
		return 0, 0
	}
	r := math.Trunc(v)
	if r != v {
		s.Inexact = true
	}
	if r < math.MinInt32 || r > math.MaxInt32 {
		s.Invalid = true
		// Modulo 2^32 of the integral value.
		m := math.Mod(r, 4294967296)
		if m < 0 {
			m += 4294967296
		}
		return uint32(m), 0
	}
	result := uint32(int32(r))
	if r == v {
		return result, 0b0100
	}
	return result, 0
}
