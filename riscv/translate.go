package riscv

import (
	"github.com/sarchlab/vfpsim/ir"
	"github.com/sarchlab/vfpsim/translate"
)

// Features describes the implemented privilege extensions.
type Features struct {
	// Supervisor enables supervisor mode and its trap return and
	// fence forms.
	Supervisor bool
	// Hypervisor enables the guest address-translation fences.
	Hypervisor bool
}

// DefaultFeatures returns a configuration with supervisor mode and no
// hypervisor extension.
func DefaultFeatures() Features {
	return Features{Supervisor: true}
}

// Context is the per-instruction translation state.
type Context struct {
	// PC is the address of the instruction being translated.
	PC uint32

	// EndReason is set by translation when the stream must end.
	EndReason translate.EndReason
}

// NewContext returns a context for the instruction at pc.
func NewContext(pc uint32) *Context {
	return &Context{PC: pc}
}

// Translator translates decoded privileged instructions under a fixed
// feature set.
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

// NewTranslator creates a translator with the default features, then
// applies the options.
func NewTranslator(opts ...Option) *Translator {
	t := &Translator{features: DefaultFeatures()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate builds the program for inst. The second result is false
// when the encoding is unallocated under the current features.
func (t *Translator) Translate(ctx *Context, inst *Instruction) (*ir.Program, bool) {
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

type trans struct {
	feat Features
	ctx  *Context
	b    translate.Backend
}

func (t *trans) dispatch(inst *Instruction) bool {
	switch inst.Op {
	case OpECALL:
		return t.transECALL(inst)
	case OpEBREAK:
		return t.transEBREAK(inst)
	case OpSRET:
		return t.transSRET(inst)
	case OpMRET:
		return t.transMRET(inst)
	case OpWFI:
		return t.transWFI(inst)
	case OpSFENCEVMA:
		return t.transSFENCEVMA(inst)
	case OpHFENCEBVMA, OpHFENCEGVMA:
		return t.transHFENCE(inst)
	}
	// uret and the legacy sfence.vm are not handled.
	return false
}

// transECALL raises the environment call trap. The trap is
// synchronous, so the stream ends here with no chaining.
func (t *trans) transECALL(inst *Instruction) bool {
	t.b.Raise(ir.ExcEnvCall)
	t.ctx.EndReason = translate.EndExit
	return true
}

func (t *trans) transEBREAK(inst *Instruction) bool {
	t.b.Raise(ir.ExcBreakpoint)
	t.ctx.EndReason = translate.EndExit
	return true
}

// transSRET returns from a supervisor trap. Without supervisor mode
// the encoding is an illegal instruction, not an unallocated one.
func (t *trans) transSRET(inst *Instruction) bool {
	if !t.feat.Supervisor {
		t.b.Raise(ir.ExcUndefined)
		return true
	}
	// The helper switches mode and installs the return address; the
	// target is only known at run time.
	t.b.Call(ir.HelperSRet, ir.NoTemp, ir.NoTemp)
	t.ctx.EndReason = translate.EndExit
	return true
}

func (t *trans) transMRET(inst *Instruction) bool {
	t.b.Call(ir.HelperMRet, ir.NoTemp, ir.NoTemp)
	t.ctx.EndReason = translate.EndExit
	return true
}

// transWFI suspends execution. Resumption happens at the following
// instruction, so the helper receives the advanced PC.
func (t *trans) transWFI(inst *Instruction) bool {
	next := t.b.Const32(t.ctx.PC + 4)
	t.b.Call(ir.HelperWFI, ir.NoTemp, ir.NoTemp, next)
	t.b.Free(next)
	t.ctx.EndReason = translate.EndExit
	return true
}

// transSFENCEVMA flushes the address-translation caches. Stale
// translations may be cached downstream of this block, so the stream
// re-resolves afterwards.
func (t *trans) transSFENCEVMA(inst *Instruction) bool {
	if !t.feat.Supervisor {
		t.b.Raise(ir.ExcUndefined)
		return true
	}
	t.b.Call(ir.HelperTLBFlush, ir.NoTemp, ir.NoTemp)
	t.ctx.EndReason = translate.EndLookup
	return true
}

func (t *trans) transHFENCE(inst *Instruction) bool {
	if !t.feat.Hypervisor {
		return false
	}
	t.b.Call(ir.HelperTLBFlush, ir.NoTemp, ir.NoTemp)
	t.ctx.EndReason = translate.EndLookup
	return true
}
