// Package insts provides AArch32 VFP instruction definitions and decoding.
package insts

// Op represents a VFP instruction form.
type Op uint16

// VFP instruction forms.
const (
	OpUnknown Op = iota

	// Three-operand data processing
	OpVMLA
	OpVMLS
	OpVNMLS
	OpVNMLA
	OpVMUL
	OpVNMUL
	OpVADD
	OpVSUB
	OpVDIV
	OpVMINNM
	OpVMAXNM

	// Fused multiply-accumulate
	OpVFMA
	OpVFMS
	OpVFNMA
	OpVFNMS

	// Two-operand data processing
	OpVMOVImm
	OpVMOVReg
	OpVABS
	OpVNEG
	OpVSQRT
	OpVCMP
	OpVRINTR
	OpVRINTZ
	OpVRINTX

	// Conversions
	OpVCVT        // single<->double; Prec names the source precision
	OpVCVTFromF16 // half to single/double; Prec names the destination
	OpVCVTToF16   // single/double to half; Prec names the source
	OpVCVTIntFP   // 32-bit integer to float
	OpVCVTFPInt   // float to 32-bit integer
	OpVCVTFix     // fixed-point <-> float
	OpVJCVT       // double to 32-bit integer, A64 rounding semantics

	// v8 unconditional (rounding-selector) forms
	OpVSEL
	OpVRINT  // round to integral, mode from RM selector
	OpVCVTRM // float to integer, mode from RM selector

	// Register transfers
	OpVMSRVMRS
	OpVMOVHalfGP
	OpVMOVSingleGP
	OpVMOV64SP // two GP registers <-> two single registers
	OpVMOV64DP // two GP registers <-> one double register
	OpVMOVToGP // scalar lane to GP register
	OpVMOVFromGP
	OpVDUP
	OpVINS
	OpVMOVX

	// Loads and stores
	OpVLDRVSTR
	OpVLDMVSTM

	// M-profile specials
	OpVLLDMVLSTM
	OpVSCCLRM
	OpNOCP
	OpVLDRSysreg
	OpVSTRSysreg
)

// Precision selects the floating-point width of an operation.
type Precision uint8

// Operation precisions. The values index the translator's precision tables.
const (
	Half Precision = iota
	Single
	Double
)

// SysReg identifies a floating-point system register, using the
// architectural VMSR/VMRS reg field encoding.
type SysReg uint8

// Floating-point system registers.
const (
	RegFPSID       SysReg = 0b0000
	RegFPSCR       SysReg = 0b0001
	RegFPSCRNZCVQC SysReg = 0b0010 // M-profile flags view with QC
	RegMVFR2       SysReg = 0b0101
	RegMVFR1       SysReg = 0b0110
	RegMVFR0       SysReg = 0b0111
	RegFPEXC       SysReg = 0b1000
	RegFPINST      SysReg = 0b1001
	RegFPINST2     SysReg = 0b1010
	RegFPCXTS      SysReg = 0b1110 // M-profile secure FP context
	RegFPCXTNS     SysReg = 0b1111 // M-profile non-secure FP context

	// RegFPSCRNZCV is not an architectural encoding: it marks the
	// flags-only read of FPSCR into the CPSR condition flags (Rt == 15).
	RegFPSCRNZCV SysReg = 0x20
)

// Instruction represents a decoded VFP instruction.
// The decoder guarantees field values are within their encoded bit
// ranges; architectural legality (feature presence, D16-D31 existence)
// is checked by the translation handlers.
type Instruction struct {
	Op   Op        // Instruction form
	Prec Precision // Operation precision

	Vd uint8 // Destination register index
	Vn uint8 // First source register index
	Vm uint8 // Second source register index

	Rt  uint8 // GP transfer register
	Rt2 uint8 // Second GP transfer register
	Rn  uint8 // Base address register

	Imm uint32 // Immediate: expanded-imm byte, offset words, or list length

	Cond  uint8  // VSEL condition selector (eq/vs/ge/gt)
	RM    uint8  // Rounding-mode selector for VRINT/VCVT{A,N,P,M}
	Opc   uint8  // Fixed-point conversion op:U:sx bits
	Reg   SysReg // System register for VMSR/VMRS and sysreg load/store
	Size  uint8  // Scalar lane size in bytes (1, 2 or 4)
	Index uint8  // Scalar lane index

	Sign bool // Signed integer conversion
	RZ   bool // Round toward zero instead of FPSCR mode
	T    bool // Top (high) half selection for f16 sub-register forms
	Z    bool // Compare against zero
	E    bool // Compare raises Invalid Operation on quiet NaN
	L    bool // Load / read direction
	U    bool // Add (not subtract) offset; unsigned scalar extract
	P    bool // Pre-index addressing
	W    bool // Base register writeback
	B    bool // VDUP byte lanes
	Q    bool // VDUP quadword destination
	Full bool // Lazy-state multiple covers the full D0-D31 list
}
