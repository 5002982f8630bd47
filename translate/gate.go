package translate

import "github.com/sarchlab/vfpsim/ir"

// raiseFPAccessTrap emits the exception for an instruction blocked by
// the FP access gate.
func (t *trans) raiseFPAccessTrap() {
	if t.feat.MProfile {
		t.b.Raise(ir.ExcNOCP)
		return
	}
	t.b.Raise(ir.ExcUndefined)
}

// accessCheck is the common FP access gate. It returns false when the
// instruction cannot proceed, in which case the trap has already been
// emitted. Handlers that were reached at all must return true to the
/// dispatcher afterwards: a gated-off instruction is still a claimed
// one.
func (t *trans) accessCheck() bool {
	return t.fullAccessCheck(false)
}

// fullAccessCheck is accessCheck with control over the enable bit for
// the ID register accesses that bypass it.
func (t *trans) fullAccessCheck(ignoreEnableBit bool) bool {
	if t.ctx.FPExcpEL != 0 {
		t.raiseFPAccessTrap()
		return false
	}

	if !t.ctx.VFPEnabled && !ignoreEnableBit {
		t.b.Raise(ir.ExcUndefined)
		return false
	}

	if t.feat.MProfile {
		t.mProfilePending()
	}
	return true
}

// mProfilePending performs the pending M-profile context actions in
/// their required order: drain any lazy preservation, resync the
// FPCCR.S ownership bit, then establish a fresh FP context. Each latch
// fires once per translation context.
func (t *trans) mProfilePending() {
	t.preserveFPState()

	if t.ctx.FPCCRSWrong {
		fpccr := t.b.NewTemp32()
		t.b.LoadField(fpccr, ir.FieldFPCCRS)
		if t.feat.Secure {
			t.b.OrImm(fpccr, fpccr, 1<<2)
		} else {
			t.b.AndImm(fpccr, fpccr, ^uint64(1<<2)&0xFFFFFFFF)
		}
		t.b.StoreField(ir.FieldFPCCRS, fpccr)
		t.b.Free(fpccr)
		t.ctx.FPCCRSWrong = false
	}

	if t.ctx.NewFPCtx {
		fpdscr := t.b.NewTemp32()
		if t.feat.Secure {
			t.b.LoadField(fpdscr, ir.FieldFPDSCRS)
		} else {
			t.b.LoadField(fpdscr, ir.FieldFPDSCRNS)
		}
		t.b.Call(ir.HelperSetFPSCR, ir.NoTemp, ir.NoTemp, fpdscr)
		t.b.Free(fpdscr)

		bits := uint64(1 << 2) // FPCA
		if t.feat.Secure {
			bits |= 1 << 3 // SFPA
		}
		control := t.b.NewTemp32()
		t.b.LoadField(control, ir.FieldControl)
		t.b.OrImm(control, control, bits)
		t.b.StoreField(ir.FieldControl, control)
		t.b.Free(control)
		t.ctx.NewFPCtx = false
	}
}

// branchFPInactive emits the runtime fpInactive test, branching to
// label either when the FP state is inactive (onInactive true) or when
// it is active. fpInactive holds when FPCCR_NS.ASPEN is set and
// CONTROL.FPCA is clear.
func (t *trans) branchFPInactive(onInactive bool, label ir.Label) {
	aspen := t.b.NewTemp32()
	fpca := t.b.NewTemp32()
	t.b.LoadField(aspen, ir.FieldFPCCRNS)
	t.b.LoadField(fpca, ir.FieldControl)
	t.b.AndImm(aspen, aspen, uint64(1)<<31)
	t.b.XorImm(aspen, aspen, uint64(1)<<31)
	t.b.AndImm(fpca, fpca, 1<<2)
	t.b.Or(fpca, fpca, aspen)
	// fpca|aspen is zero exactly when fpInactive holds.
	if onInactive {
		t.b.BrCondImm(ir.CondEQ, fpca, 0, label)
	} else {
		t.b.BrCondImm(ir.CondNE, fpca, 0, label)
	}
	t.b.Free(aspen, fpca)
}

// preserveFPState drains a pending lazy FP state preservation. The
// latch fires at most once per translation context; later instructions
// in the same block see LSPACT already clear.
func (t *trans) preserveFPState() {
	if !t.ctx.LSPACT {
		return
	}
	t.b.Call(ir.HelperPreserveFPState, ir.NoTemp, ir.NoTemp)
	t.ctx.LSPACT = false
}
