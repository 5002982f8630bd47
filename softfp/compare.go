package softfp

import (
	"math"

	"github.com/x448/float16"
)

// CmpResult is the outcome of a floating-point comparison.
type CmpResult uint8

const (
	// CmpLess means a < b.
	CmpLess CmpResult = iota
	// CmpEqual means a == b.
	CmpEqual
	// CmpGreater means a > b.
	CmpGreater
	// CmpUnordered means at least one operand was NaN.
	CmpUnordered
)

// NZCV maps the comparison outcome to the ARM flag nibble, N in bit 3
// through V in bit 0.
func (r CmpResult) NZCV() uint32 {
	switch r {
	case CmpLess:
		return 0b1000
	case CmpEqual:
		return 0b0110
	case CmpGreater:
		return 0b0010
	default:
		return 0b0011
	}
}

func orderResult(lt, eq bool) CmpResult {
	switch {
	case lt:
		return CmpLess
	case eq:
		return CmpEqual
	default:
		return CmpGreater
	}
}

// Cmp16 compares half-precision values. A signaling comparison raises
// invalid on any NaN; a quiet one only on signaling NaNs.
func Cmp16(a, b uint16, signaling bool, s *Status) CmpResult {
	if isNaN16(a) || isNaN16(b) {
		if signaling || isSNaN16(a) || isSNaN16(b) {
			s.Invalid = true
		}
		return CmpUnordered
	}
	fa := float16.Frombits(a).Float32()
	fb := float16.Frombits(b).Float32()
	return orderResult(fa < fb, fa == fb)
}

// Cmp32 compares single-precision values.
func Cmp32(a, b uint32, signaling bool, s *Status) CmpResult {
	if isNaN32(a) || isNaN32(b) {
		if signaling || isSNaN32(a) || isSNaN32(b) {
			s.Invalid = true
		}
		return CmpUnordered
	}
	fa := math.Float32frombits(squash32(a, s))
	fb := math.Float32frombits(squash32(b, s))
	return orderResult(fa < fb, fa == fb)
}

// Cmp64 compares double-precision values.
func Cmp64(a, b uint64, signaling bool, s *Status) CmpResult {
	if isNaN64(a) || isNaN64(b) {
		if signaling || isSNaN64(a) || isSNaN64(b) {
			s.Invalid = true
		}
		return CmpUnordered
	}
	fa := math.Float64frombits(squash64(a, s))
	fb := math.Float64frombits(squash64(b, s))
	return orderResult(fa < fb, fa == fb)
}
