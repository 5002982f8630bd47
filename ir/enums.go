package ir

// Cond enumerates comparison conditions for OpMovCond and OpBrCondImm.
type Cond uint8

const (
	// CondEQ holds when the operands are equal.
	CondEQ Cond = iota
	// CondNE holds when the operands differ.
	CondNE
	// CondLT holds for signed less-than.
	CondLT
	// CondGE holds for signed greater-or-equal.
	CondGE
	// CondGT holds for signed greater-than.
	CondGT
	// CondLE holds for signed less-or-equal.
	CondLE
	// CondLTU holds for unsigned less-than.
	CondLTU
	// CondGEU holds for unsigned greater-or-equal.
	CondGEU
)

// Field enumerates the architectural state fields a Program can load
// and store directly.
type Field uint8

const (
	// FieldZF is the zero flag, stored inverted: zero means Z set.
	FieldZF Field = iota
	// FieldNF is the negative flag, meaningful in bit 31.
	FieldNF
	// FieldCF is the carry flag, 0 or 1.
	FieldCF
	// FieldVF is the overflow flag, meaningful in bit 31.
	FieldVF
	// FieldFPSID is the FP system ID register.
	FieldFPSID
	// FieldFPEXC is the FP exception register.
	FieldFPEXC
	// FieldFPINST is the FP instruction register.
	FieldFPINST
	// FieldFPINST2 is the second FP instruction register.
	FieldFPINST2
	// FieldMVFR0 is media and VFP feature register 0.
	FieldMVFR0
	// FieldMVFR1 is media and VFP feature register 1.
	FieldMVFR1
	// FieldMVFR2 is media and VFP feature register 2.
	FieldMVFR2
	// FieldFPCCRS is the secure FP context control register.
	FieldFPCCRS
	// FieldFPCCRNS is the non-secure FP context control register.
	FieldFPCCRNS
	// FieldControl is the M-profile CONTROL register.
	FieldControl
	// FieldFPDSCRS is the secure FP default status control register.
	FieldFPDSCRS
	// FieldFPDSCRNS is the non-secure FP default status control
	// register.
	FieldFPDSCRNS
	// FieldVPR is the MVE vector predication register.
	FieldVPR
)

// StatusFlavor selects a float status bank for OpFPStatus.
type StatusFlavor uint8

const (
	// FlavorFPCR is the status bank governed by FPSCR for single and
	// double precision.
	FlavorFPCR StatusFlavor = iota
	// FlavorFPCR16 is the status bank for half precision, which honors
	// FZ16 instead of FZ.
	FlavorFPCR16
)

// Exception enumerates the exceptions a Program can raise.
type Exception uint8

const (
	// ExcUndefined is an undefined-instruction exception.
	ExcUndefined Exception = iota
	// ExcNOCP is an M-profile no-coprocessor UsageFault.
	ExcNOCP
	// ExcStackOverflow is an M-profile stack limit violation.
	ExcStackOverflow
	// ExcEnvCall is an environment call from the privileged auxiliary
	// instruction set.
	ExcEnvCall
	// ExcBreakpoint is a breakpoint trap.
	ExcBreakpoint
)

// Helper enumerates the runtime helper routines OpCall can invoke.
// Three-entry groups index by precision: half, single, double.
type Helper uint16

const (
	// HelperNone is the zero helper and is never called.
	HelperNone Helper = iota

	// HelperAddH adds two half-precision values.
	HelperAddH
	// HelperAddS adds two single-precision values.
	HelperAddS
	// HelperAddD adds two double-precision values.
	HelperAddD
	// HelperSubH subtracts half-precision values.
	HelperSubH
	// HelperSubS subtracts single-precision values.
	HelperSubS
	// HelperSubD subtracts double-precision values.
	HelperSubD
	// HelperMulH multiplies half-precision values.
	HelperMulH
	// HelperMulS multiplies single-precision values.
	HelperMulS
	// HelperMulD multiplies double-precision values.
	HelperMulD
	// HelperDivH divides half-precision values.
	HelperDivH
	// HelperDivS divides single-precision values.
	HelperDivS
	// HelperDivD divides double-precision values.
	HelperDivD
	// HelperSqrtH takes a half-precision square root.
	HelperSqrtH
	// HelperSqrtS takes a single-precision square root.
	HelperSqrtS
	// HelperSqrtD takes a double-precision square root.
	HelperSqrtD
	// HelperMinNumH is the half-precision IEEE 754-2008 minNum.
	HelperMinNumH
	// HelperMinNumS is the single-precision IEEE 754-2008 minNum.
	HelperMinNumS
	// HelperMinNumD is the double-precision IEEE 754-2008 minNum.
	HelperMinNumD
	// HelperMaxNumH is the half-precision IEEE 754-2008 maxNum.
	HelperMaxNumH
	// HelperMaxNumS is the single-precision IEEE 754-2008 maxNum.
	HelperMaxNumS
	// HelperMaxNumD is the double-precision IEEE 754-2008 maxNum.
	HelperMaxNumD
	// HelperMulAddH is the half-precision fused multiply-add.
	HelperMulAddH
	// HelperMulAddS is the single-precision fused multiply-add.
	HelperMulAddS
	// HelperMulAddD is the double-precision fused multiply-add.
	HelperMulAddD

	// HelperCmpH compares half-precision values, quiet on NaN.
	HelperCmpH
	// HelperCmpS compares single-precision values, quiet on NaN.
	HelperCmpS
	// HelperCmpD compares double-precision values, quiet on NaN.
	HelperCmpD
	// HelperCmpEH compares half-precision values, signaling on NaN.
	HelperCmpEH
	// HelperCmpES compares single-precision values, signaling on NaN.
	HelperCmpES
	// HelperCmpED compares double-precision values, signaling on NaN.
	HelperCmpED

	// HelperRintH rounds half precision to integral, honoring the
	// status rounding mode.
	HelperRintH
	// HelperRintS rounds single precision to integral.
	HelperRintS
	// HelperRintD rounds double precision to integral.
	HelperRintD
	// HelperRintXH rounds half precision to integral, raising inexact.
	HelperRintXH
	// HelperRintXS rounds single precision to integral, raising
	// inexact.
	HelperRintXS
	// HelperRintXD rounds double precision to integral, raising
	// inexact.
	HelperRintXD

	// HelperCvtF16F32 widens half to single precision.
	HelperCvtF16F32
	// HelperCvtF32F16 narrows single to half precision.
	HelperCvtF32F16
	// HelperCvtF16F64 widens half to double precision.
	HelperCvtF16F64
	// HelperCvtF64F16 narrows double to half precision.
	HelperCvtF64F16
	// HelperCvtF32F64 widens single to double precision.
	HelperCvtF32F64
	// HelperCvtF64F32 narrows double to single precision.
	HelperCvtF64F32

	// HelperSitoH converts a signed 32-bit integer to half precision.
	HelperSitoH
	// HelperSitoS converts a signed 32-bit integer to single precision.
	HelperSitoS
	// HelperSitoD converts a signed 32-bit integer to double precision.
	HelperSitoD
	// HelperUitoH converts an unsigned 32-bit integer to half
	// precision.
	HelperUitoH
	// HelperUitoS converts an unsigned 32-bit integer to single
	// precision.
	HelperUitoS
	// HelperUitoD converts an unsigned 32-bit integer to double
	// precision.
	HelperUitoD
	// HelperTosiH converts half precision to a signed 32-bit integer,
	// honoring the status rounding mode.
	HelperTosiH
	// HelperTosiS converts single precision to a signed 32-bit
	// integer.
	HelperTosiS
	// HelperTosiD converts double precision to a signed 32-bit
	// integer.
	HelperTosiD
	// HelperTouiH converts half precision to an unsigned 32-bit
	// integer.
	HelperTouiH
	// HelperTouiS converts single precision to an unsigned 32-bit
	// integer.
	HelperTouiS
	// HelperTouiD converts double precision to an unsigned 32-bit
	// integer.
	HelperTouiD

	// HelperCvtFixH converts between half precision and fixed point.
	// Arguments: value, fraction bits, operation code.
	HelperCvtFixH
	// HelperCvtFixS converts between single precision and fixed point.
	HelperCvtFixS
	// HelperCvtFixD converts between double precision and fixed point.
	HelperCvtFixD

	// HelperVJCVT converts double precision to a signed 32-bit integer
	// with the Javascript saturation rule, setting NZCV.
	HelperVJCVT

	// HelperSetRmode installs a rounding mode into a status bank and
	// returns the previous mode.
	HelperSetRmode
	// HelperGetFPSCR composes the FPSCR value from state.
	HelperGetFPSCR
	// HelperSetFPSCR decomposes a value into FPSCR state.
	HelperSetFPSCR
	// HelperPreserveFPState performs the M-profile lazy FP state
	// preservation.
	HelperPreserveFPState
	// HelperVLSTM saves the low FP context to the frame pointer in A.
	HelperVLSTM
	// HelperVLLDM restores the low FP context from the frame pointer
	// in A.
	HelperVLLDM
	// HelperStackCheck raises a stack overflow trap when the address
	// in A is below the stack limit.
	HelperStackCheck
	// HelperSRet performs a supervisor-mode trap return.
	HelperSRet
	// HelperMRet performs a machine-mode trap return.
	HelperMRet
	// HelperWFI suspends execution until an interrupt, resuming at the
	// address in A.
	HelperWFI
	// HelperTLBFlush invalidates cached address translations.
	HelperTLBFlush
)

// RoundTieEven and friends are the FPSCR rounding mode encodings used
// with HelperSetRmode.
const (
	RoundTieEven uint64 = 0
	RoundUp      uint64 = 1
	RoundDown    uint64 = 2
	RoundZero    uint64 = 3
	RoundTieAway uint64 = 4
)
