// Package softfp implements the floating-point helper routines behind
// translated VFP instructions: arithmetic, comparison, and conversion
// over raw IEEE 754 bit patterns, with a status bank that carries the
// rounding mode and cumulative exception flags.
package softfp

// RoundingMode selects how inexact results are rounded.
type RoundingMode uint8

const (
	// RoundTieEven rounds to nearest, ties to even.
	RoundTieEven RoundingMode = iota
	// RoundUp rounds towards positive infinity.
	RoundUp
	// RoundDown rounds towards negative infinity.
	RoundDown
	// RoundZero rounds towards zero.
	RoundZero
	// RoundTieAway rounds to nearest, ties away from zero.
	RoundTieAway
)

// Status is one floating-point status bank: rounding control plus the
// sticky exception flags the bank has accumulated.
type Status struct {
	Rounding    RoundingMode
	DefaultNaN  bool
	FlushToZero bool
	AltHalf     bool

	Invalid       bool
	DivByZero     bool
	Overflow      bool
	Underflow     bool
	Inexact       bool
	InputDenormal bool
}

// ClearFlags resets the sticky exception flags.
func (s *Status) ClearFlags() {
	s.Invalid = false
	s.DivByZero = false
	s.Overflow = false
	s.Underflow = false
	s.Inexact = false
	s.InputDenormal = false
}

// Flags returns the sticky exception flags in FPSCR bit positions.
func (s *Status) Flags() uint32 {
	var f uint32
	if s.Invalid {
		f |= 1 << 0
	}
	if s.DivByZero {
		f |= 1 << 1
	}
	if s.Overflow {
		f |= 1 << 2
	}
	if s.Underflow {
		f |= 1 << 3
	}
	if s.Inexact {
		f |= 1 << 4
	}
	if s.InputDenormal {
		f |= 1 << 7
	}
	return f
}

// SetFlags installs sticky exception flags from FPSCR bit positions.
func (s *Status) SetFlags(f uint32) {
	s.Invalid = f&(1<<0) != 0
	s.DivByZero = f&(1<<1) != 0
	s.Overflow = f&(1<<2) != 0
	s.Underflow = f&(1<<3) != 0
	s.Inexact = f&(1<<4) != 0
	s.InputDenormal = f&(1<<7) != 0
}
