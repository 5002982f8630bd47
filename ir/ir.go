// Package ir defines the intermediate representation that instruction
// translation produces and the emulator evaluates. A translated
// instruction becomes a Program: a flat list of register-transfer ops
// over an unbounded set of temporaries.
package ir

// Temp identifies a temporary value inside a Program.
type Temp int32

// NoTemp marks an unused temp slot in an op.
const NoTemp Temp = -1

// Label identifies a branch target inside a Program.
type Label int32

// OpKind enumerates the operations a Program can contain.
type OpKind uint8

const (
	// OpNop does nothing.
	OpNop OpKind = iota
	// OpConst loads Imm into Dst.
	OpConst
	// OpMov copies A into Dst.
	OpMov
	// OpAnd computes Dst = A & B.
	OpAnd
	// OpOr computes Dst = A | B.
	OpOr
	// OpXor computes Dst = A ^ B.
	OpXor
	// OpAdd computes Dst = A + B.
	OpAdd
	// OpSub computes Dst = A - B.
	OpSub
	// OpAndImm computes Dst = A & Imm.
	OpAndImm
	// OpOrImm computes Dst = A | Imm.
	OpOrImm
	// OpXorImm computes Dst = A ^ Imm.
	OpXorImm
	// OpAddImm computes Dst = A + Imm.
	OpAddImm
	// OpShlImm computes Dst = A << Imm.
	OpShlImm
	// OpShrImm computes Dst = A >> Imm (logical).
	OpShrImm
	// OpSarImm computes Dst = A >> Imm (arithmetic).
	OpSarImm
	// OpDeposit inserts the low DepositLen bits of B into A at
	// DepositPos and writes the result to Dst.
	OpDeposit
	// OpMovCond writes C to Dst when A Cond B holds, D otherwise.
	OpMovCond
	// OpSetLabel marks the position of Label.
	OpSetLabel
	// OpBr branches unconditionally to Label.
	OpBr
	// OpBrCondImm branches to Label when A Cond Imm holds.
	OpBrCondImm
	// OpLoadField loads the state field Field into Dst.
	OpLoadField
	// OpStoreField stores A into the state field Field.
	OpStoreField
	// OpLoadVReg loads Width bytes of the FP register file at byte
	// offset Imm into Dst.
	OpLoadVReg
	// OpStoreVReg stores the low Width bytes of A into the FP register
	// file at byte offset Imm.
	OpStoreVReg
	// OpLoadGPR loads general-purpose register Imm into Dst.
	OpLoadGPR
	// OpStoreGPR stores A into general-purpose register Imm.
	OpStoreGPR
	// OpLoadMem loads Width bytes of memory at address A into Dst.
	OpLoadMem
	// OpStoreMem stores the low Width bytes of B to memory at
	// address A.
	OpStoreMem
	// OpFPStatus loads a handle for the float status bank Imm
	// into Dst.
	OpFPStatus
	// OpCall invokes Helper with arguments A, B, C and status handle D,
	// writing the result to Dst.
	OpCall
	// OpRaise raises exception Exc and ends the program.
	OpRaise
)

// Op is one operation in a Program. The meaning of each field depends
// on Kind; unused temp slots hold NoTemp.
type Op struct {
	Kind OpKind

	Dst Temp
	A   Temp
	B   Temp
	C   Temp
	D   Temp

	Imm   uint64
	Width uint8

	DepositPos uint8
	DepositLen uint8

	Cond   Cond
	Label  Label
	Field  Field
	Helper Helper
	Exc    Exception
}

// Program is a translated instruction: a flat op list plus the temp
// and label counts its evaluation needs.
type Program struct {
	Ops       []Op
	NumTemps  int
	NumLabels int
}
