// Package translate turns decoded VFP instructions into programs of
// register-transfer ops. Each handler either claims its instruction,
// producing a program (possibly one that just raises an exception), or
// declines it, in which case the encoding is unallocated.
package translate

import (
	"github.com/sarchlab/vfpsim/insts"
	"github.com/sarchlab/vfpsim/ir"
)

// Features describes the implemented architecture extensions.
type Features struct {
	// FPSP enables single-precision scalar FP.
	FPSP bool
	// FPDP enables double-precision scalar FP.
	FPDP bool
	// FPv3 marks the VFPv3 feature level, which adds the fixed-point
	// conversions and immediate moves and drops FPINST.
	FPv3 bool
	// FP16 enables half-precision arithmetic.
	FP16 bool
	// V8 enables the unconditional v8 operations.
	V8 bool
	// V81M enables the v8.1-M sysreg forms.
	V81M bool
	// JSCvt enables the Javascript conversion.
	JSCvt bool
	// D32 provides thirty-two double registers.
	D32 bool
	// ShortVectors enables the legacy vector stride and length fields.
	ShortVectors bool
	// SIMD enables the lane moves and duplication.
	SIMD bool
	// MVFR exposes the media and VFP feature registers.
	MVFR bool
	// MProfile selects M-profile behavior.
	MProfile bool
	// Secure marks secure state on M-profile.
	Secure bool
	// User marks unprivileged execution.
	User bool
	// BigEndian places the top half-precision slice at the low byte
	// offset of its single container.
	BigEndian bool
}

// DefaultFeatures returns a fully featured A-profile configuration.
func DefaultFeatures() Features {
	return Features{
		FPSP:         true,
		FPDP:         true,
		FPv3:         true,
		FP16:         true,
		V8:           true,
		JSCvt:        true,
		D32:          true,
		ShortVectors: true,
		SIMD:         true,
		MVFR:         true,
	}
}

// EndReason says why execution must leave the translated stream after
// this instruction.
type EndReason uint8

const (
	// EndNone continues to the next instruction.
	EndNone EndReason = iota
	// EndLookup re-resolves the translation because control state such
	// as FPSCR changed.
	EndLookup
	// EndExit returns to the outer loop with all state written back.
	EndExit
)

// Context is the per-instruction translation state: the snapshot of
// the control bits translation specializes on, plus the one-shot
// latches for the M-profile pending actions.
type Context struct {
	// PC is the address of the instruction being translated.
	PC uint32

	// VFPEnabled mirrors the FP enable bit. FPExcpEL, when nonzero,
	// means FP access traps outright.
	VFPEnabled bool
	FPExcpEL   int

	// VecLen and VecStride snapshot the legacy short-vector fields.
	VecLen    uint32
	VecStride uint32

	// LSPACT marks a pending lazy FP state preservation.
	LSPACT bool
	// FPCCRSWrong marks an FPCCR.S bit out of sync with the current
	// security state.
	FPCCRSWrong bool
	// NewFPCtx marks that a fresh FP context must be established.
	NewFPCtx bool

	// EndReason is set by translation when the stream must end.
	EndReason EndReason
}

// NewContext returns a context for the instruction at pc with FP
// access enabled.
func NewContext(pc uint32) *Context {
	return &Context{PC: pc, VFPEnabled: true}
}

// Translator translates decoded instructions under a fixed feature
// set.
type Translator struct {
	features Features
}

// Option configures a Translator.
type Option func(*Translator)

// WithFeatures replaces the feature set.
func WithFeatures(f Features) Option {
	return func(t *Translator) {
		t.features = f
	}
}

// NewTranslator creates a translator with the default A-profile
// features, then applies the options.
func NewTranslator(opts ...Option) *Translator {
	t := &Translator{features: DefaultFeatures()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Features returns the translator's feature set.
func (t *Translator) Features() Features {
	return t.features
}

// Translate builds the program for inst. The second result is false
// when the encoding is unallocated under the current features; the
// caller should treat the instruction as undefined. When it is true
// the program is valid, though it may do nothing but raise an
// exception.
func (t *Translator) Translate(ctx *Context, inst *insts.Instruction) (*ir.Program, bool) {
	tr := &trans{
		feat: t.features,
		ctx:  ctx,
		b:    ir.NewBuilder(),
	}
	if !tr.dispatch(inst) {
		return nil, false
	}
	return tr.b.Program(), true
}

// trans carries the state of one instruction's translation.
type trans struct {
	feat Features
	ctx  *Context
	b    Backend
}
