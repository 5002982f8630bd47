package softfp

import (
	"math"

	"github.com/x448/float16"
)

// Default NaN bit patterns per ARM DefaultNaN().
const (
	DefaultNaN16 uint16 = 0x7E00
	DefaultNaN32 uint32 = 0x7FC00000
	DefaultNaN64 uint64 = 0x7FF8000000000000
)

// Neg16 flips the sign bit. NaN operands keep their payload.
func Neg16(a uint16) uint16 { return a ^ 0x8000 }

// Neg32 flips the sign bit. NaN operands keep their payload.
func Neg32(a uint32) uint32 { return a ^ 0x80000000 }

// Neg64 flips the sign bit. NaN operands keep their payload.
func Neg64(a uint64) uint64 { return a ^ 0x8000000000000000 }

// Abs16 clears the sign bit.
func Abs16(a uint16) uint16 { return a &^ 0x8000 }

// Abs32 clears the sign bit.
func Abs32(a uint32) uint32 { return a &^ 0x80000000 }

// Abs64 clears the sign bit.
func Abs64(a uint64) uint64 { return a &^ 0x8000000000000000 }

func isNaN32(a uint32) bool {
	return a&0x7F800000 == 0x7F800000 && a&0x007FFFFF != 0
}

func isSNaN32(a uint32) bool {
	return isNaN32(a) && a&0x00400000 == 0
}

func isNaN64(a uint64) bool {
	return a&0x7FF0000000000000 == 0x7FF0000000000000 &&
		a&0x000FFFFFFFFFFFFF != 0
}

func isSNaN64(a uint64) bool {
	return isNaN64(a) && a&0x0008000000000000 == 0
}

func isNaN16(a uint16) bool {
	return a&0x7C00 == 0x7C00 && a&0x03FF != 0
}

func isSNaN16(a uint16) bool {
	return isNaN16(a) && a&0x0200 == 0
}

// squash32 applies flush-to-zero to an input operand.
func squash32(a uint32, s *Status) uint32 {
	if s.FlushToZero && a&0x7F800000 == 0 && a&0x007FFFFF != 0 {
		s.InputDenormal = true
		return a & 0x80000000
	}
	return a
}

func squash64(a uint64, s *Status) uint64 {
	if s.FlushToZero && a&0x7FF0000000000000 == 0 && a&0x000FFFFFFFFFFFFF != 0 {
		s.InputDenormal = true
		return a & 0x8000000000000000
	}
	return a
}

func pack32(v float32, s *Status) uint32 {
	bits := math.Float32bits(v)
	if s.FlushToZero && bits&0x7F800000 == 0 && bits&0x007FFFFF != 0 {
		s.Underflow = true
		return bits & 0x80000000
	}
	return bits
}

func pack64(v float64, s *Status) uint64 {
	bits := math.Float64bits(v)
	if s.FlushToZero && bits&0x7FF0000000000000 == 0 && bits&0x000FFFFFFFFFFFFF != 0 {
		s.Underflow = true
		return bits & 0x8000000000000000
	}
	return bits
}

// settleNaN32 handles a NaN result of a binary operation: books the
// invalid flag and picks the propagated or default payload.
func settleNaN32(operands []uint32, s *Status) uint32 {
	anyNaN := false
	for _, a := range operands {
		if isSNaN32(a) {
			s.Invalid = true
		}
		if isNaN32(a) {
			anyNaN = true
		}
	}
	if !anyNaN {
		// NaN out of non-NaN operands: an invalid operation.
		s.Invalid = true
	}
	if s.DefaultNaN || !anyNaN {
		return DefaultNaN32
	}
	for _, a := range operands {
		if isNaN32(a) {
			return a | 0x00400000
		}
	}
	return DefaultNaN32
}

func settleNaN64(operands []uint64, s *Status) uint64 {
	anyNaN := false
	for _, a := range operands {
		if isSNaN64(a) {
			s.Invalid = true
		}
		if isNaN64(a) {
			anyNaN = true
		}
	}
	if !anyNaN {
		s.Invalid = true
	}
	if s.DefaultNaN || !anyNaN {
		return DefaultNaN64
	}
	for _, a := range operands {
		if isNaN64(a) {
			return a | 0x0008000000000000
		}
	}
	return DefaultNaN64
}

// The binary operations compute in double precision and keep the sign
// of the error discarded by that intermediate rounding. The pair is
// enough to produce the correctly rounded result in any mode at any of
// the three widths: the directed modes nudge by one ulp when the error
// points past the rounded value, and to-nearest uses the sign to break
// ties the intermediate landed on exactly.

// twoSum returns the rounded sum of x and y along with the exact
// rounding error (Knuth's branch-free two-sum).
func twoSum(x, y float64) (float64, float64) {
	s := x + y
	bv := s - x
	av := s - bv
	return s, (x - av) + (y - bv)
}

func fsign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func addExact(x, y float64) (float64, int) {
	z, e := twoSum(x, y)
	if math.IsInf(z, 0) {
		return z, 0
	}
	return z, fsign(e)
}

func subExact(x, y float64) (float64, int) {
	return addExact(x, -y)
}

func mulExact(x, y float64) (float64, int) {
	z := x * y
	if z != z || math.IsInf(z, 0) {
		return z, 0
	}
	return z, fsign(math.FMA(x, y, -z))
}

func divExact(x, y float64) (float64, int) {
	z := x / y
	if z != z || math.IsInf(z, 0) || math.IsInf(y, 0) || y == 0 {
		return z, 0
	}
	// sign(x/y - z) = sign(x - z*y) / sign(y)
	r := fsign(-math.FMA(z, y, -x))
	if y < 0 {
		r = -r
	}
	return z, r
}

func sqrtExact(x, _ float64) (float64, int) {
	z := math.Sqrt(x)
	if z != z || math.IsInf(z, 0) {
		return z, 0
	}
	return z, fsign(-math.FMA(z, z, -x))
}

// fmaExact computes the fused multiply-add and recovers the sign of
// the discarded error from an exact two-product and two two-sums.
func fmaExact(x, y, c float64) (float64, int) {
	z := math.FMA(x, y, c)
	if z != z || math.IsInf(z, 0) {
		return z, 0
	}
	p := x * y
	if math.IsInf(p, 0) {
		return z, 0
	}
	pe := math.FMA(x, y, -p)
	s1, e1 := twoSum(c, pe)
	s2, e2 := twoSum(p, s1)
	return z, fsign(s2 - z + e2 + e1)
}

// roundDir64 applies the directed-mode correction to a to-nearest
// double result, given the sign of the discarded error.
func roundDir64(z float64, resid int, s *Status) float64 {
	if resid == 0 {
		return z
	}
	s.Inexact = true
	switch s.Rounding {
	case RoundUp:
		if resid > 0 {
			return math.Nextafter(z, math.Inf(1))
		}
	case RoundDown:
		if resid < 0 {
			return math.Nextafter(z, math.Inf(-1))
		}
	case RoundZero:
		if z > 0 && resid < 0 {
			return math.Nextafter(z, math.Inf(-1))
		}
		if z < 0 && resid > 0 {
			return math.Nextafter(z, math.Inf(1))
		}
	}
	return z
}

// overflow64 books an overflow and returns the mode-appropriate
// result: the signed infinity, or the largest finite double for the
// modes that round back toward zero.
func overflow64(z float64, s *Status) uint64 {
	s.Overflow = true
	s.Inexact = true
	neg := math.Signbit(z)
	pin := false
	switch s.Rounding {
	case RoundZero:
		pin = true
	case RoundUp:
		pin = neg
	case RoundDown:
		pin = !neg
	}
	if pin {
		bits := uint64(0x7FEFFFFFFFFFFFFF)
		if neg {
			bits |= 0x8000000000000000
		}
		return bits
	}
	return math.Float64bits(z)
}

func bin32(a, b uint32, s *Status, f func(x, y float64) (float64, int)) uint32 {
	a, b = squash32(a, s), squash32(b, s)
	x := float64(math.Float32frombits(a))
	y := float64(math.Float32frombits(b))
	z, resid := f(x, y)
	if z != z {
		return settleNaN32([]uint32{a, b}, s)
	}
	return narrow32(z, resid, s)
}

func bin64(a, b uint64, s *Status, f func(x, y float64) (float64, int)) uint64 {
	a, b = squash64(a, s), squash64(b, s)
	x, y := math.Float64frombits(a), math.Float64frombits(b)
	z, resid := f(x, y)
	if z != z {
		return settleNaN64([]uint64{a, b}, s)
	}
	if math.IsInf(z, 0) && !math.IsInf(x, 0) && !math.IsInf(y, 0) && y != 0 {
		return overflow64(z, s)
	}
	return pack64(roundDir64(z, resid, s), s)
}

// bin16 computes a half-precision binary op by widening to double,
// computing there, and narrowing the result.
func bin16(a, b uint16, s *Status, f func(x, y float64) (float64, int)) uint16 {
	if isNaN16(a) || isNaN16(b) {
		if isSNaN16(a) || isSNaN16(b) {
			s.Invalid = true
		}
		if s.DefaultNaN {
			return DefaultNaN16
		}
		if isNaN16(a) {
			return a | 0x0200
		}
		return b | 0x0200
	}
	x := float64(float16.Frombits(a).Float32())
	y := float64(float16.Frombits(b).Float32())
	z, resid := f(x, y)
	if z != z {
		s.Invalid = true
		return DefaultNaN16
	}
	return narrow16(z, resid, s)
}

// narrow32 rounds an intermediate double to single precision under the
// status rounding mode. resid carries the sign of any error already
// discarded when the intermediate was formed.
func narrow32(v float64, resid int, s *Status) uint32 {
	if math.IsInf(v, 0) {
		return pack32(float32(v), s)
	}
	r := float32(v)
	rv := float64(r)
	if rv == v && resid == 0 {
		return pack32(r, s)
	}
	s.Inexact = true
	above := rv > v || (rv == v && resid < 0)
	below := rv < v || (rv == v && resid > 0)
	switch s.Rounding {
	case RoundUp:
		if below {
			r = nextUp32(r)
		}
	case RoundDown:
		if above {
			r = nextDown32(r)
		}
	case RoundZero:
		if v > 0 && above {
			r = nextDown32(r)
		}
		if v < 0 && below {
			r = nextUp32(r)
		}
	default:
		r = snapNearest32(v, r, resid)
	}
	if math.IsInf(float64(r), 0) || math.IsInf(rv, 0) {
		s.Overflow = true
	}
	return pack32(r, s)
}

// snapNearest32 fixes a to-nearest tie when the intermediate sits
// exactly between two singles and the discarded error breaks it.
func snapNearest32(v float64, r float32, resid int) float32 {
	rv := float64(r)
	if rv == v || resid == 0 {
		return r
	}
	other := nextUp32(r)
	if rv > v {
		other = nextDown32(r)
	}
	if math.Abs(rv-v) != math.Abs(v-float64(other)) {
		return r
	}
	if resid > 0 {
		if rv > v {
			return r
		}
		return other
	}
	if rv < v {
		return r
	}
	return other
}

func nextUp32(r float32) float32 {
	bits := math.Float32bits(r)
	if bits&0x80000000 == 0 {
		return math.Float32frombits(bits + 1)
	}
	if bits == 0x80000000 {
		return math.Float32frombits(1)
	}
	return math.Float32frombits(bits - 1)
}

func nextDown32(r float32) float32 {
	bits := math.Float32bits(r)
	if bits&0x80000000 != 0 {
		return math.Float32frombits(bits + 1)
	}
	if bits == 0 {
		return math.Float32frombits(0x80000001)
	}
	return math.Float32frombits(bits - 1)
}

// narrow16 rounds an intermediate double to half precision under the
// status rounding mode. resid carries the sign of any error already
// discarded when the intermediate was formed.
func narrow16(v float64, resid int, s *Status) uint16 {
	h := float16.Fromfloat32(float32(v))
	if math.IsInf(v, 0) {
		return h.Bits()
	}
	hv := float64(h.Float32())
	if hv == v && resid == 0 {
		return h.Bits()
	}
	s.Inexact = true
	above := hv > v || (hv == v && resid < 0)
	below := hv < v || (hv == v && resid > 0)
	switch s.Rounding {
	case RoundUp:
		if below {
			h = nextUp16(h)
		}
	case RoundDown:
		if above {
			h = nextDown16(h)
		}
	case RoundZero:
		if v > 0 && above {
			h = nextDown16(h)
		}
		if v < 0 && below {
			h = nextUp16(h)
		}
	default:
		h = snapNearest16(v, h, resid)
	}
	return h.Bits()
}

func snapNearest16(v float64, h float16.Float16, resid int) float16.Float16 {
	hv := float64(h.Float32())
	if hv == v || resid == 0 {
		return h
	}
	other := nextUp16(h)
	if hv > v {
		other = nextDown16(h)
	}
	if math.Abs(hv-v) != math.Abs(v-float64(other.Float32())) {
		return h
	}
	if resid > 0 {
		if hv > v {
			return h
		}
		return other
	}
	if hv < v {
		return h
	}
	return other
}

func nextUp16(h float16.Float16) float16.Float16 {
	bits := h.Bits()
	if bits&0x8000 == 0 {
		return float16.Frombits(bits + 1)
	}
	if bits == 0x8000 {
		return float16.Frombits(1)
	}
	return float16.Frombits(bits - 1)
}

func nextDown16(h float16.Float16) float16.Float16 {
	bits := h.Bits()
	if bits&0x8000 == 0 {
		if bits == 0 {
			return float16.Frombits(0x8001)
		}
		return float16.Frombits(bits - 1)
	}
	return float16.Frombits(bits + 1)
}

// Add16 adds half-precision values.
func Add16(a, b uint16, s *Status) uint16 {
	return bin16(a, b, s, addExact)
}

// Add32 adds single-precision values.
func Add32(a, b uint32, s *Status) uint32 {
	return bin32(a, b, s, addExact)
}

// Add64 adds double-precision values.
func Add64(a, b uint64, s *Status) uint64 {
	return bin64(a, b, s, addExact)
}

// Sub16 subtracts half-precision values.
func Sub16(a, b uint16, s *Status) uint16 {
	return bin16(a, b, s, subExact)
}

// Sub32 subtracts single-precision values.
func Sub32(a, b uint32, s *Status) uint32 {
	return bin32(a, b, s, subExact)
}

// Sub64 subtracts double-precision values.
func Sub64(a, b uint64, s *Status) uint64 {
	return bin64(a, b, s, subExact)
}

// Mul16 multiplies half-precision values.
func Mul16(a, b uint16, s *Status) uint16 {
	return bin16(a, b, s, mulExact)
}

// Mul32 multiplies single-precision values.
func Mul32(a, b uint32, s *Status) uint32 {
	return bin32(a, b, s, mulExact)
}

// Mul64 multiplies double-precision values.
func Mul64(a, b uint64, s *Status) uint64 {
	return bin64(a, b, s, mulExact)
}

// Div16 divides half-precision values.
func Div16(a, b uint16, s *Status) uint16 {
	if !isNaN16(a) && !isNaN16(b) &&
		b&0x7FFF == 0 && a&0x7FFF != 0 && a&0x7C00 != 0x7C00 {
		s.DivByZero = true
	}
	return bin16(a, b, s, divExact)
}

// Div32 divides single-precision values.
func Div32(a, b uint32, s *Status) uint32 {
	if !isNaN32(a) && !isNaN32(b) &&
		b&0x7FFFFFFF == 0 && a&0x7FFFFFFF != 0 && a&0x7F800000 != 0x7F800000 {
		s.DivByZero = true
	}
	return bin32(a, b, s, divExact)
}

// Div64 divides double-precision values.
func Div64(a, b uint64, s *Status) uint64 {
	if !isNaN64(a) && !isNaN64(b) &&
		b&0x7FFFFFFFFFFFFFFF == 0 && a&0x7FFFFFFFFFFFFFFF != 0 &&
		a&0x7FF0000000000000 != 0x7FF0000000000000 {
		s.DivByZero = true
	}
	return bin64(a, b, s, divExact)
}

// Sqrt16 takes a half-precision square root.
func Sqrt16(a uint16, s *Status) uint16 {
	return bin16(a, a, s, sqrtExact)
}

// Sqrt32 takes a single-precision square root.
func Sqrt32(a uint32, s *Status) uint32 {
	return bin32(a, a, s, sqrtExact)
}

// Sqrt64 takes a double-precision square root.
func Sqrt64(a uint64, s *Status) uint64 {
	return bin64(a, a, s, sqrtExact)
}

// MulAdd16 computes the fused a*b + c in half precision.
func MulAdd16(a, b, c uint16, s *Status) uint16 {
	if isNaN16(a) || isNaN16(b) || isNaN16(c) {
		if isSNaN16(a) || isSNaN16(b) || isSNaN16(c) {
			s.Invalid = true
		}
		if s.DefaultNaN {
			return DefaultNaN16
		}
		switch {
		case isNaN16(a):
			return a | 0x0200
		case isNaN16(b):
			return b | 0x0200
		default:
			return c | 0x0200
		}
	}
	z, resid := fmaExact(
		float64(float16.Frombits(a).Float32()),
		float64(float16.Frombits(b).Float32()),
		float64(float16.Frombits(c).Float32()),
	)
	if z != z {
		s.Invalid = true
		return DefaultNaN16
	}
	return narrow16(z, resid, s)
}

// MulAdd32 computes the fused a*b + c in single precision. The product
// of two singles is exact in a double, so a two-sum of product and
// addend recovers the bits a lone double-precision FMA would round
// away before the narrowing.
func MulAdd32(a, b, c uint32, s *Status) uint32 {
	a, b, c = squash32(a, s), squash32(b, s), squash32(c, s)
	p := float64(math.Float32frombits(a)) * float64(math.Float32frombits(b))
	z, e := twoSum(p, float64(math.Float32frombits(c)))
	if z != z {
		return settleNaN32([]uint32{a, b, c}, s)
	}
	return narrow32(z, fsign(e), s)
}

// MulAdd64 computes the fused a*b + c in double precision.
func MulAdd64(a, b, c uint64, s *Status) uint64 {
	a, b, c = squash64(a, s), squash64(b, s), squash64(c, s)
	x := math.Float64frombits(a)
	y := math.Float64frombits(b)
	w := math.Float64frombits(c)
	z, resid := fmaExact(x, y, w)
	if z != z {
		return settleNaN64([]uint64{a, b, c}, s)
	}
	if math.IsInf(z, 0) &&
		!math.IsInf(x, 0) && !math.IsInf(y, 0) && !math.IsInf(w, 0) {
		return overflow64(z, s)
	}
	return pack64(roundDir64(z, resid, s), s)
}

// MinNum16 is the IEEE 754-2008 minNum for half precision.
func MinNum16(a, b uint16, s *Status) uint16 {
	return minmax16(a, b, s, true)
}

// MaxNum16 is the IEEE 754-2008 maxNum for half precision.
func MaxNum16(a, b uint16, s *Status) uint16 {
	return minmax16(a, b, s, false)
}

// MinNum32 is the IEEE 754-2008 minNum for single precision.
func MinNum32(a, b uint32, s *Status) uint32 {
	return minmax32(a, b, s, true)
}

// MaxNum32 is the IEEE 754-2008 maxNum for single precision.
func MaxNum32(a, b uint32, s *Status) uint32 {
	return minmax32(a, b, s, false)
}

// MinNum64 is the IEEE 754-2008 minNum for double precision.
func MinNum64(a, b uint64, s *Status) uint64 {
	return minmax64(a, b, s, true)
}

// MaxNum64 is the IEEE 754-2008 maxNum for double precision.
func MaxNum64(a, b uint64, s *Status) uint64 {
	return minmax64(a, b, s, false)
}

func minmax32(a, b uint32, s *Status, min bool) uint32 {
	// A single quiet NaN loses to the numeric operand.
	if isNaN32(a) && !isSNaN32(a) && !isNaN32(b) {
		return b
	}
	if isNaN32(b) && !isSNaN32(b) && !isNaN32(a) {
		return a
	}
	if isNaN32(a) || isNaN32(b) {
		return settleNaN32([]uint32{a, b}, s)
	}
	fa, fb := math.Float32frombits(a), math.Float32frombits(b)
	if fa == fb {
		// Zeros compare equal; order the signs explicitly.
		if min {
			return a | b
		}
		return a & b
	}
	if (fa < fb) == min {
		return a
	}
	return b
}

func minmax64(a, b uint64, s *Status, min bool) uint64 {
	if isNaN64(a) && !isSNaN64(a) && !isNaN64(b) {
		return b
	}
	if isNaN64(b) && !isSNaN64(b) && !isNaN64(a) {
		return a
	}
	if isNaN64(a) || isNaN64(b) {
		return settleNaN64([]uint64{a, b}, s)
	}
	fa, fb := math.Float64frombits(a), math.Float64frombits(b)
	if fa == fb {
		if min {
			return a | b
		}
		return a & b
	}
	if (fa < fb) == min {
		return a
	}
	return b
}

func minmax16(a, b uint16, s *Status, min bool) uint16 {
	if isNaN16(a) && !isSNaN16(a) && !isNaN16(b) {
		return b
	}
	if isNaN16(b) && !isSNaN16(b) && !isNaN16(a) {
		return a
	}
	if isNaN16(a) || isNaN16(b) {
		if isSNaN16(a) || isSNaN16(b) {
			s.Invalid = true
		}
		return DefaultNaN16
	}
	fa := float16.Frombits(a).Float32()
	fb := float16.Frombits(b).Float32()
	if fa == fb {
		if min {
			return a | b
		}
		return a & b
	}
	if (fa < fb) == min {
		return a
	}
	return b
}
