package translate

import (
	"github.com/sarchlab/vfpsim/insts"
	"github.com/sarchlab/vfpsim/ir"
)

// sysregCheck classifies the outcome of the common M-profile system
// register gate.
type sysregCheck uint8

const (
	// sysregFailed marks an unallocated access.
	sysregFailed sysregCheck = iota
	// sysregDone marks an access whose trap has been emitted;
	// translation is complete.
	sysregDone
	// sysregContinue marks an access that may proceed.
	sysregContinue
)

// mSysregChecks gates the M-profile system register forms. FPCXT_NS
// skips the access check: its handlers must decide between the active
// and inactive behaviors at runtime before touching any FP state.
func (t *trans) mSysregChecks(reg insts.SysReg) sysregCheck {
	if !t.feat.FPSP {
		return sysregFailed
	}
	switch reg {
	case insts.RegFPSCR, insts.RegFPSCRNZCV:
	case insts.RegFPSCRNZCVQC:
		if !t.feat.V81M {
			return sysregFailed
		}
	case insts.RegFPCXTS, insts.RegFPCXTNS:
		if !t.feat.V81M || !t.feat.Secure {
			return sysregFailed
		}
	default:
		return sysregFailed
	}
	if reg != insts.RegFPCXTNS && !t.accessCheck() {
		return sysregDone
	}
	return sysregContinue
}

// fpcxtWrite installs a value into the secure FP context view: bit 31
// becomes CONTROL.SFPA and the rest replaces FPSCR minus the flags.
func (t *trans) fpcxtWrite(loadfn func() ir.Temp) {
	v := loadfn()
	sfpa := t.b.NewTemp32()
	control := t.b.NewTemp32()
	t.b.ShrImm(sfpa, v, 31)
	t.b.LoadField(control, ir.FieldControl)
	t.b.Deposit(control, control, sfpa, 3, 1)
	t.b.StoreField(ir.FieldControl, control)
	t.b.AndImm(v, v, 0x0FFF_FFFF)
	t.b.Call(ir.HelperSetFPSCR, ir.NoTemp, ir.NoTemp, v)
	t.b.Free(v, sfpa, control)
}

// mSysregWrite writes an M-profile system register, pulling the value
// through loadfn. loadfn runs exactly once, after the point where the
// access can no longer fault for sysreg reasons, so a loadfn that
// reads memory keeps the architectural fault ordering.
func (t *trans) mSysregWrite(reg insts.SysReg, loadfn func() ir.Temp) bool {
	switch t.mSysregChecks(reg) {
	case sysregFailed:
		return false
	case sysregDone:
		return true
	}

	switch reg {
	case insts.RegFPSCR:
		v := loadfn()
		t.b.Call(ir.HelperSetFPSCR, ir.NoTemp, ir.NoTemp, v)
		t.b.Free(v)
		t.ctx.EndReason = EndLookup

	case insts.RegFPSCRNZCVQC:
		v := loadfn()
		fpscr := t.b.NewTemp32()
		t.b.AndImm(v, v, 0xF000_0000)
		t.b.Call(ir.HelperGetFPSCR, fpscr, ir.NoTemp)
		t.b.AndImm(fpscr, fpscr, 0x0FFF_FFFF)
		t.b.Or(fpscr, fpscr, v)
		t.b.Call(ir.HelperSetFPSCR, ir.NoTemp, ir.NoTemp, fpscr)
		t.b.Free(v, fpscr)

	case insts.RegFPCXTNS:
		// With no active FP context the write is a NOP.
		end := t.b.NewLabel()
		t.branchFPInactive(true, end)
		t.preserveFPState()
		t.fpcxtWrite(loadfn)
		t.b.SetLabel(end)

	case insts.RegFPCXTS:
		t.fpcxtWrite(loadfn)
	}
	return true
}

// mSysregRead reads an M-profile system register and hands the value
// to storefn. storefn runs before any side effect of the read, so a
// storefn that writes memory faults before state is consumed.
func (t *trans) mSysregRead(reg insts.SysReg, storefn func(ir.Temp)) bool {
	switch t.mSysregChecks(reg) {
	case sysregFailed:
		return false
	case sysregDone:
		return true
	}

	lookup := false
	switch reg {
	case insts.RegFPSCR:
		tmp := t.b.NewTemp32()
		t.b.Call(ir.HelperGetFPSCR, tmp, ir.NoTemp)
		storefn(tmp)
		t.b.Free(tmp)

	case insts.RegFPSCRNZCVQC, insts.RegFPSCRNZCV:
		tmp := t.b.NewTemp32()
		t.b.Call(ir.HelperGetFPSCR, tmp, ir.NoTemp)
		t.b.AndImm(tmp, tmp, 0xF000_0000)
		storefn(tmp)
		t.b.Free(tmp)

	case insts.RegFPCXTS:
		v := t.b.NewTemp32()
		sfpa := t.b.NewTemp32()
		t.b.Call(ir.HelperGetFPSCR, v, ir.NoTemp)
		t.b.AndImm(v, v, 0x0FFF_FFFF)
		t.b.LoadField(sfpa, ir.FieldControl)
		t.b.AndImm(sfpa, sfpa, 1<<3)
		t.b.ShlImm(sfpa, sfpa, 28)
		t.b.Or(v, v, sfpa)
		storefn(v)
		// Reading deactivates the secure context: SFPA drops and
		// FPSCR resets from the non-secure default.
		control := t.b.NewTemp32()
		fpdscr := t.b.NewTemp32()
		t.b.LoadField(control, ir.FieldControl)
		t.b.AndImm(control, control, ^uint64(1<<3)&0xFFFF_FFFF)
		t.b.StoreField(ir.FieldControl, control)
		t.b.LoadField(fpdscr, ir.FieldFPDSCRNS)
		t.b.Call(ir.HelperSetFPSCR, ir.NoTemp, ir.NoTemp, fpdscr)
		t.b.Free(v, sfpa, control, fpdscr)
		lookup = true

	case insts.RegFPCXTNS:
		lookup = true
		active := t.b.NewLabel()
		end := t.b.NewLabel()
		t.branchFPInactive(false, active)

		// Inactive: the register reads as the non-secure default.
		tmp := t.b.NewTemp32()
		t.b.LoadField(tmp, ir.FieldFPDSCRNS)
		storefn(tmp)
		t.b.Free(tmp)
		t.b.Br(end)

		t.b.SetLabel(active)
		t.preserveFPState()

		fpscr := t.b.NewTemp32()
		v := t.b.NewTemp32()
		sfpa := t.b.NewTemp32()
		control := t.b.NewTemp32()
		t.b.Call(ir.HelperGetFPSCR, fpscr, ir.NoTemp)
		t.b.AndImm(v, fpscr, 0x0FFF_FFFF)
		t.b.LoadField(control, ir.FieldControl)
		t.b.AndImm(sfpa, control, 1<<3)
		t.b.ShlImm(sfpa, sfpa, 28)
		t.b.Or(v, v, sfpa)
		storefn(v)
		// With SFPA clear the read also resets FPSCR from the
		// non-secure default.
		fpdscr := t.b.NewTemp32()
		zero := t.b.Const32(0)
		t.b.LoadField(fpdscr, ir.FieldFPDSCRNS)
		t.b.MovCond(ir.CondEQ, fpscr, sfpa, zero, fpdscr, fpscr)
		t.b.Call(ir.HelperSetFPSCR, ir.NoTemp, ir.NoTemp, fpscr)
		t.b.Free(fpscr, v, sfpa, control, fpdscr, zero)
		t.b.SetLabel(end)
	}
	if lookup {
		t.ctx.EndReason = EndLookup
	}
	return true
}

func (t *trans) transVMSRVMRS(inst *insts.Instruction) bool {
	if t.feat.MProfile {
		return t.mVMSRVMRS(inst)
	}
	return t.aVMSRVMRS(inst)
}

// mVMSRVMRS is the M-profile route: only the M-profile register set,
// with Rt == 15 meaning a flags-only FPSCR read.
func (t *trans) mVMSRVMRS(inst *insts.Instruction) bool {
	reg := inst.Reg
	if inst.Rt == 15 {
		if !inst.L || reg != insts.RegFPSCR {
			return false
		}
		reg = insts.RegFPSCRNZCV
	}
	if inst.L {
		return t.mSysregRead(reg, func(v ir.Temp) {
			if reg == insts.RegFPSCRNZCV {
				t.storeNZCV(v)
			} else {
				t.b.StoreGPR(inst.Rt, v)
			}
		})
	}
	return t.mSysregWrite(reg, func() ir.Temp {
		v := t.b.NewTemp32()
		t.b.LoadGPR(v, inst.Rt)
		return v
	})
}

// aVMSRVMRS is the A-profile route, with its per-register privilege
// and feature gates.
func (t *trans) aVMSRVMRS(inst *insts.Instruction) bool {
	if !t.feat.FPSP {
		return false
	}

	ignoreEnable := false
	switch inst.Reg {
	case insts.RegFPSCR:
	case insts.RegFPSID:
		// With VFPv3 the ID registers are privileged-only; reads
		// bypass the FP enable bit.
		if t.feat.User && t.feat.FPv3 {
			return false
		}
		ignoreEnable = true
	case insts.RegMVFR0, insts.RegMVFR1:
		if t.feat.User || !t.feat.MVFR {
			return false
		}
		ignoreEnable = true
	case insts.RegMVFR2:
		if t.feat.User || !t.feat.V8 {
			return false
		}
		ignoreEnable = true
	case insts.RegFPEXC:
		if t.feat.User {
			return false
		}
		ignoreEnable = true
	case insts.RegFPINST, insts.RegFPINST2:
		// FPINST and FPINST2 exist only up to VFPv2.
		if t.feat.User || t.feat.FPv3 {
			return false
		}
	default:
		return false
	}
	if !t.fullAccessCheck(ignoreEnable) {
		return true
	}

	if inst.L {
		return t.aVMRS(inst)
	}
	return t.aVMSR(inst)
}

func (t *trans) aVMRS(inst *insts.Instruction) bool {
	tmp := t.b.NewTemp32()
	switch inst.Reg {
	case insts.RegFPSCR:
		t.b.Call(ir.HelperGetFPSCR, tmp, ir.NoTemp)
	case insts.RegFPSID:
		t.b.LoadField(tmp, ir.FieldFPSID)
	case insts.RegMVFR0:
		t.b.LoadField(tmp, ir.FieldMVFR0)
	case insts.RegMVFR1:
		t.b.LoadField(tmp, ir.FieldMVFR1)
	case insts.RegMVFR2:
		t.b.LoadField(tmp, ir.FieldMVFR2)
	case insts.RegFPEXC:
		t.b.LoadField(tmp, ir.FieldFPEXC)
	case insts.RegFPINST:
		t.b.LoadField(tmp, ir.FieldFPINST)
	case insts.RegFPINST2:
		t.b.LoadField(tmp, ir.FieldFPINST2)
	}
	if inst.Rt == 15 && inst.Reg == insts.RegFPSCR {
		t.storeNZCV(tmp)
	} else {
		t.b.StoreGPR(inst.Rt, tmp)
	}
	t.b.Free(tmp)
	return true
}

func (t *trans) aVMSR(inst *insts.Instruction) bool {
	switch inst.Reg {
	case insts.RegFPSID, insts.RegMVFR0, insts.RegMVFR1, insts.RegMVFR2:
		// Writes to the ID registers are ignored.
		return true
	}

	tmp := t.b.NewTemp32()
	t.b.LoadGPR(tmp, inst.Rt)
	switch inst.Reg {
	case insts.RegFPSCR:
		t.b.Call(ir.HelperSetFPSCR, ir.NoTemp, ir.NoTemp, tmp)
		t.ctx.EndReason = EndLookup
	case insts.RegFPEXC:
		// Only the EN bit is writable in this model.
		t.b.AndImm(tmp, tmp, 1<<30)
		t.b.StoreField(ir.FieldFPEXC, tmp)
		t.ctx.EndReason = EndLookup
	case insts.RegFPINST:
		t.b.StoreField(ir.FieldFPINST, tmp)
	case insts.RegFPINST2:
		t.b.StoreField(ir.FieldFPINST2, tmp)
	}
	t.b.Free(tmp)
	return true
}

// sysregAddr computes the effective address of a memory-addressed
// system register access.
func (t *trans) sysregAddr(inst *insts.Instruction) ir.Temp {
	offset := inst.Imm
	if !inst.U {
		offset = -offset
	}
	addr := t.b.NewTemp32()
	t.b.LoadGPR(addr, inst.Rn)
	if inst.P {
		t.b.AddImm(addr, addr, uint64(offset))
	}
	return addr
}

// sysregWriteback finishes a memory-addressed access: a post-indexed
// form adds its offset now, and stack-relative writeback is checked
// against the stack limit before the base updates.
func (t *trans) sysregWriteback(inst *insts.Instruction, addr ir.Temp) {
	if inst.W {
		if !inst.P {
			offset := inst.Imm
			if !inst.U {
				offset = -offset
			}
			t.b.AddImm(addr, addr, uint64(offset))
		}
		if inst.Rn == 13 {
			t.b.Call(ir.HelperStackCheck, ir.NoTemp, ir.NoTemp, addr)
		}
		t.b.StoreGPR(inst.Rn, addr)
	}
	t.b.Free(addr)
}

func (t *trans) transSysregLoadStore(inst *insts.Instruction) bool {
	if !t.feat.MProfile || !t.feat.V81M {
		return false
	}
	if inst.Rn == 15 {
		return false
	}

	if inst.L {
		return t.mSysregWrite(inst.Reg, func() ir.Temp {
			addr := t.sysregAddr(inst)
			v := t.b.NewTemp32()
			t.b.LoadMem(v, addr, 4)
			t.sysregWriteback(inst, addr)
			return v
		})
	}
	return t.mSysregRead(inst.Reg, func(v ir.Temp) {
		addr := t.sysregAddr(inst)
		t.b.StoreMem(addr, v, 4)
		t.sysregWriteback(inst, addr)
	})
}

func (t *trans) transVLLDMVLSTM(inst *insts.Instruction) bool {
	if !t.feat.MProfile || !t.feat.V8 {
		return false
	}
	if inst.Full {
		// The full-list encoding needs the longer register file.
		if !t.feat.V81M {
			return false
		}
	} else if t.feat.D32 {
		t.b.Raise(ir.ExcUndefined)
		return true
	}
	if !t.feat.Secure {
		t.b.Raise(ir.ExcUndefined)
		return true
	}
	if !t.feat.FPSP && !t.feat.FPDP {
		// Without an FPU the instruction is a NOP.
		return true
	}

	fptr := t.b.NewTemp32()
	t.b.LoadGPR(fptr, inst.Rn)
	h := ir.HelperVLSTM
	if inst.L {
		h = ir.HelperVLLDM
	}
	t.b.Call(h, ir.NoTemp, ir.NoTemp, fptr)
	t.b.Free(fptr)

	// The helper rewrites FP context ownership wholesale.
	t.ctx.EndReason = EndExit
	return true
}

func (t *trans) transVSCCLRM(inst *insts.Instruction) bool {
	if !t.feat.MProfile || !t.feat.V81M {
		return false
	}
	if !t.feat.Secure {
		t.b.Raise(ir.ExcUndefined)
		return true
	}
	if !t.feat.FPSP && !t.feat.FPDP {
		// Without an FPU the instruction is a NOP.
		return true
	}

	// With no active secure FP context there is nothing to clear. The
	// test differs from the general inactive test: it uses the secure
	// FPCCR bank and SFPA.
	end := t.b.NewLabel()
	aspen := t.b.NewTemp32()
	sfpa := t.b.NewTemp32()
	t.b.LoadField(aspen, ir.FieldFPCCRS)
	t.b.AndImm(aspen, aspen, uint64(1)<<31)
	t.b.XorImm(aspen, aspen, uint64(1)<<31)
	t.b.LoadField(sfpa, ir.FieldControl)
	t.b.AndImm(sfpa, sfpa, 1<<3)
	t.b.Or(sfpa, sfpa, aspen)
	t.b.BrCondImm(ir.CondEQ, sfpa, 0, end)
	t.b.Free(aspen, sfpa)

	if t.ctx.FPExcpEL != 0 {
		t.b.Raise(ir.ExcNOCP)
		t.b.SetLabel(end)
		return true
	}

	btm := uint32(inst.Vd)
	top := btm + inst.Imm - 1
	if inst.Prec == insts.Double {
		btm *= 2
		top = top*2 + 1
	}
	if top > 63 || (top > 31 && top&1 == 0) {
		t.b.Raise(ir.ExcUndefined)
		t.b.SetLabel(end)
		return true
	}
	if top > 31 && !t.feat.D32 {
		top = 31
	}

	if !t.accessCheck() {
		t.b.SetLabel(end)
		return true
	}

	zero := t.b.Const32(0)
	zero64 := t.b.Const64(0)
	if btm&1 != 0 {
		t.b.StoreVReg32(sOff(uint8(btm)), zero)
		btm++
	}
	for ; btm+1 <= top; btm += 2 {
		t.b.StoreVReg64(dOff(uint8(btm/2)), zero64)
	}
	if btm == top {
		t.b.StoreVReg32(sOff(uint8(btm)), zero)
	}
	t.b.StoreField(ir.FieldVPR, zero)
	t.b.Free(zero, zero64)

	t.b.SetLabel(end)
	return true
}

// transNOCP claims the remaining coprocessor space on M-profile so the
// no-coprocessor fault takes priority over plain undefined-instruction
// handling.
func (t *trans) transNOCP(inst *insts.Instruction) bool {
	if !t.feat.MProfile {
		return false
	}
	cp := inst.Imm
	// The FP instruction set spans coprocessors 10 and 11.
	if cp == 11 {
		cp = 10
	}
	if t.feat.V81M && (cp == 8 || cp == 9 || cp == 14 || cp == 15) {
		// The v8.1-M extended coprocessor space faults like FP when
		// absent.
		cp = 10
	}
	if cp != 10 {
		t.b.Raise(ir.ExcNOCP)
		return true
	}
	if t.ctx.FPExcpEL != 0 {
		t.b.Raise(ir.ExcNOCP)
		return true
	}
	return false
}
