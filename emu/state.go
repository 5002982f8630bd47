// Package emu provides the architectural state and the evaluator that
// executes translated instruction programs against it.
package emu

import (
	"encoding/binary"

	"github.com/sarchlab/vfpsim/softfp"
)

// Banked selects one of the two security banks of an M-profile
// register.
const (
	// BankNS is the non-secure bank.
	BankNS = 0
	// BankS is the secure bank.
	BankS = 1
)

// FPSCR bit masks.
const (
	// FPSCRCumulative covers the sticky exception flags.
	FPSCRCumulative uint32 = 0x0000009F
	// FPSCRNZCV covers the comparison flags.
	FPSCRNZCV uint32 = 0xF0000000
	// FPSCRRModeShift is the position of the rounding mode field.
	FPSCRRModeShift = 22
	// FPSCRFZ16 flushes half-precision denormals.
	FPSCRFZ16 uint32 = 1 << 19
	// FPSCRFZ flushes single and double denormals.
	FPSCRFZ uint32 = 1 << 24
	// FPSCRDN replaces NaN results with the default NaN.
	FPSCRDN uint32 = 1 << 25
	// FPSCRAHP selects the alternative half-precision format.
	FPSCRAHP uint32 = 1 << 26
	// FPSCRLenShift is the position of the vector length field.
	FPSCRLenShift = 16
	// FPSCRStrideShift is the position of the vector stride field.
	FPSCRStrideShift = 20
)

// FPCCR bits.
const (
	// FPCCRLSPACT marks an active lazy state preservation context.
	FPCCRLSPACT uint32 = 1 << 0
	// FPCCRSBit marks the FP context as secure.
	FPCCRSBit uint32 = 1 << 2
	// FPCCRASPEN enables automatic FP context preservation.
	FPCCRASPEN uint32 = 1 << 31
)

// CONTROL bits.
const (
	// ControlFPCA marks an active FP context.
	ControlFPCA uint32 = 1 << 2
	// ControlSFPA marks secure FP state as active.
	ControlSFPA uint32 = 1 << 3
)

// State is the architectural state of one core: general registers, the
// FP register file, flags, and the FP system registers.
type State struct {
	GPR [16]uint32
	PC  uint32

	// Flags follow the split convention: ZF holds zero when Z is set,
	// NF and VF are meaningful in bit 31, CF is 0 or 1.
	ZF, NF, CF, VF uint32

	// VRegBytes is the FP register file. S registers live at byte
	// offset 4n, D registers at 8n, little-endian within a register.
	VRegBytes [256]byte

	FPSCR   uint32
	FPSID   uint32
	FPEXC   uint32
	FPINST  uint32
	FPINST2 uint32
	MVFR0   uint32
	MVFR1   uint32
	MVFR2   uint32

	// M-profile security state.
	FPCCR   [2]uint32
	FPDSCR  [2]uint32
	Control uint32
	VPR     uint32

	// StackLimit is the lowest address stack-relative FP system
	// register accesses may touch. Zero disables the check.
	StackLimit uint32

	// Status banks: FlavorFPCR and FlavorFPCR16.
	FPStatus [2]softfp.Status

	Mem *Memory
}

// NewState creates a state with fresh memory and feature registers
// advertising full scalar FP support.
func NewState() *State {
	return &State{
		FPSID: 0x41034000,
		MVFR0: 0x10110222,
		MVFR1: 0x12111111,
		MVFR2: 0x00000043,
		Mem:   NewMemory(),
	}
}

// ReadS returns single-precision register n.
func (s *State) ReadS(n uint8) uint32 {
	return binary.LittleEndian.Uint32(s.VRegBytes[4*uint32(n):])
}

// WriteS sets single-precision register n.
func (s *State) WriteS(n uint8, v uint32) {
	binary.LittleEndian.PutUint32(s.VRegBytes[4*uint32(n):], v)
}

// ReadD returns double-precision register n.
func (s *State) ReadD(n uint8) uint64 {
	return binary.LittleEndian.Uint64(s.VRegBytes[8*uint32(n):])
}

// WriteD sets double-precision register n.
func (s *State) WriteD(n uint8, v uint64) {
	binary.LittleEndian.PutUint64(s.VRegBytes[8*uint32(n):], v)
}

// NZCV returns the CPSR flag nibble, N in bit 3 through V in bit 0.
func (s *State) NZCV() uint32 {
	var r uint32
	if s.NF&0x80000000 != 0 {
		r |= 0b1000
	}
	if s.ZF == 0 {
		r |= 0b0100
	}
	if s.CF != 0 {
		r |= 0b0010
	}
	if s.VF&0x80000000 != 0 {
		r |= 0b0001
	}
	return r
}

// SetNZCV installs the CPSR flag nibble.
func (s *State) SetNZCV(nzcv uint32) {
	s.NF = 0
	if nzcv&0b1000 != 0 {
		s.NF = 0x80000000
	}
	s.ZF = 1
	if nzcv&0b0100 != 0 {
		s.ZF = 0
	}
	s.CF = 0
	if nzcv&0b0010 != 0 {
		s.CF = 1
	}
	s.VF = 0
	if nzcv&0b0001 != 0 {
		s.VF = 0x80000000
	}
}

// GetFPSCR composes the live FPSCR value: the stored control and
// comparison bits plus the sticky flags accumulated in the status
// banks.
func (s *State) GetFPSCR() uint32 {
	flags := s.FPStatus[0].Flags() | s.FPStatus[1].Flags()
	return s.FPSCR&^FPSCRCumulative | flags
}

// SetFPSCR installs an FPSCR value, distributing the control bits into
// the status banks.
func (s *State) SetFPSCR(v uint32) {
	s.FPSCR = v

	mode := softfp.RoundingMode(v >> FPSCRRModeShift & 0x3)
	for i := range s.FPStatus {
		st := &s.FPStatus[i]
		st.Rounding = mode
		st.DefaultNaN = v&FPSCRDN != 0
		st.SetFlags(v & FPSCRCumulative)
	}
	s.FPStatus[0].FlushToZero = v&FPSCRFZ != 0
	s.FPStatus[1].FlushToZero = v&FPSCRFZ16 != 0
	s.FPStatus[1].AltHalf = v&FPSCRAHP != 0
}

// VecLen returns the legacy short-vector length field.
func (s *State) VecLen() uint32 {
	return s.FPSCR >> FPSCRLenShift & 0x7
}

// VecStride returns the legacy short-vector stride field.
func (s *State) VecStride() uint32 {
	return s.FPSCR >> FPSCRStrideShift & 0x3
}
