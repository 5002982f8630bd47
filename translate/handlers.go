package translate

import (
	"github.com/sarchlab/vfpsim/insts"
	"github.com/sarchlab/vfpsim/ir"
)

// Helper tables indexed by operation precision.
var (
	addHelpers    = [3]ir.Helper{ir.HelperAddH, ir.HelperAddS, ir.HelperAddD}
	subHelpers    = [3]ir.Helper{ir.HelperSubH, ir.HelperSubS, ir.HelperSubD}
	mulHelpers    = [3]ir.Helper{ir.HelperMulH, ir.HelperMulS, ir.HelperMulD}
	divHelpers    = [3]ir.Helper{ir.HelperDivH, ir.HelperDivS, ir.HelperDivD}
	sqrtHelpers   = [3]ir.Helper{ir.HelperSqrtH, ir.HelperSqrtS, ir.HelperSqrtD}
	minNumHelpers = [3]ir.Helper{ir.HelperMinNumH, ir.HelperMinNumS, ir.HelperMinNumD}
	maxNumHelpers = [3]ir.Helper{ir.HelperMaxNumH, ir.HelperMaxNumS, ir.HelperMaxNumD}
	mulAddHelpers = [3]ir.Helper{ir.HelperMulAddH, ir.HelperMulAddS, ir.HelperMulAddD}
	cmpHelpers    = [3]ir.Helper{ir.HelperCmpH, ir.HelperCmpS, ir.HelperCmpD}
	cmpEHelpers   = [3]ir.Helper{ir.HelperCmpEH, ir.HelperCmpES, ir.HelperCmpED}
	rintHelpers   = [3]ir.Helper{ir.HelperRintH, ir.HelperRintS, ir.HelperRintD}
	rintXHelpers  = [3]ir.Helper{ir.HelperRintXH, ir.HelperRintXS, ir.HelperRintXD}
	sitoHelpers   = [3]ir.Helper{ir.HelperSitoH, ir.HelperSitoS, ir.HelperSitoD}
	uitoHelpers   = [3]ir.Helper{ir.HelperUitoH, ir.HelperUitoS, ir.HelperUitoD}
	tosiHelpers   = [3]ir.Helper{ir.HelperTosiH, ir.HelperTosiS, ir.HelperTosiD}
	touiHelpers   = [3]ir.Helper{ir.HelperTouiH, ir.HelperTouiS, ir.HelperTouiD}
	fixHelpers    = [3]ir.Helper{ir.HelperCvtFixH, ir.HelperCvtFixS, ir.HelperCvtFixD}
)

// rmTable maps the RM field of the unconditional rounding forms onto
// rounding modes.
var rmTable = [4]uint64{ir.RoundTieAway, ir.RoundTieEven, ir.RoundUp, ir.RoundDown}

func statusFlavor(prec insts.Precision) ir.StatusFlavor {
	if prec == insts.Half {
		return ir.FlavorFPCR16
	}
	return ir.FlavorFPCR
}

func signBit(prec insts.Precision) uint64 {
	switch prec {
	case insts.Half:
		return 0x8000
	case insts.Single:
		return 0x8000_0000
	default:
		return 0x8000_0000_0000_0000
	}
}

// dispatch routes a decoded instruction to its handler. A false return
// marks the encoding unallocated.
func (t *trans) dispatch(inst *insts.Instruction) bool {
	switch inst.Op {
	case insts.OpVMLA:
		return t.mulAcc(inst, false, false)
	case insts.OpVMLS:
		return t.mulAcc(inst, true, false)
	case insts.OpVNMLS:
		return t.mulAcc(inst, false, true)
	case insts.OpVNMLA:
		return t.mulAcc(inst, true, true)
	case insts.OpVMUL:
		return t.do3op(inst.Prec, t.helper3(mulHelpers[inst.Prec], statusFlavor(inst.Prec)),
			inst.Vd, inst.Vn, inst.Vm, false)
	case insts.OpVNMUL:
		return t.transVNMUL(inst)
	case insts.OpVADD:
		return t.do3op(inst.Prec, t.helper3(addHelpers[inst.Prec], statusFlavor(inst.Prec)),
			inst.Vd, inst.Vn, inst.Vm, false)
	case insts.OpVSUB:
		return t.do3op(inst.Prec, t.helper3(subHelpers[inst.Prec], statusFlavor(inst.Prec)),
			inst.Vd, inst.Vn, inst.Vm, false)
	case insts.OpVDIV:
		return t.do3op(inst.Prec, t.helper3(divHelpers[inst.Prec], statusFlavor(inst.Prec)),
			inst.Vd, inst.Vn, inst.Vm, false)
	case insts.OpVMINNM:
		return t.minMaxNum(inst, minNumHelpers)
	case insts.OpVMAXNM:
		return t.minMaxNum(inst, maxNumHelpers)

	case insts.OpVFMA:
		return t.fusedMulAcc(inst, false, false)
	case insts.OpVFMS:
		return t.fusedMulAcc(inst, true, false)
	case insts.OpVFNMA:
		return t.fusedMulAcc(inst, true, true)
	case insts.OpVFNMS:
		return t.fusedMulAcc(inst, false, true)

	case insts.OpVMOVImm:
		return t.transVMOVImm(inst)
	case insts.OpVMOVReg:
		return t.do2op(inst.Prec, func(fd, f0 ir.Temp) { t.b.Mov(fd, f0) }, inst.Vd, inst.Vm)
	case insts.OpVABS:
		m := signBit(inst.Prec) - 1
		return t.do2op(inst.Prec, func(fd, f0 ir.Temp) { t.b.AndImm(fd, f0, m) }, inst.Vd, inst.Vm)
	case insts.OpVNEG:
		s := signBit(inst.Prec)
		return t.do2op(inst.Prec, func(fd, f0 ir.Temp) { t.b.XorImm(fd, f0, s) }, inst.Vd, inst.Vm)
	case insts.OpVSQRT:
		return t.do2op(inst.Prec, t.helper2(sqrtHelpers[inst.Prec], statusFlavor(inst.Prec)),
			inst.Vd, inst.Vm)
	case insts.OpVCMP:
		return t.transVCMP(inst)
	case insts.OpVRINTR:
		return t.roundIntegral(inst, rintHelpers, false)
	case insts.OpVRINTZ:
		return t.roundIntegralRZ(inst)
	case insts.OpVRINTX:
		return t.roundIntegral(inst, rintXHelpers, false)

	case insts.OpVCVT:
		return t.transVCVT(inst)
	case insts.OpVCVTFromF16:
		return t.transVCVTFromF16(inst)
	case insts.OpVCVTToF16:
		return t.transVCVTToF16(inst)
	case insts.OpVCVTIntFP:
		return t.transVCVTIntFP(inst)
	case insts.OpVCVTFPInt:
		return t.transVCVTFPInt(inst)
	case insts.OpVCVTFix:
		return t.transVCVTFix(inst)
	case insts.OpVJCVT:
		return t.transVJCVT(inst)

	case insts.OpVSEL:
		return t.transVSEL(inst)
	case insts.OpVRINT:
		return t.transVRINTRM(inst)
	case insts.OpVCVTRM:
		return t.transVCVTRM(inst)
	case insts.OpVINS:
		return t.transVINS(inst)
	case insts.OpVMOVX:
		return t.transVMOVX(inst)

	case insts.OpVMSRVMRS:
		return t.transVMSRVMRS(inst)
	case insts.OpVMOVHalfGP:
		return t.transVMOVHalfGP(inst)
	case insts.OpVMOVSingleGP:
		return t.transVMOVSingleGP(inst)
	case insts.OpVMOV64SP:
		return t.transVMOV64SP(inst)
	case insts.OpVMOV64DP:
		return t.transVMOV64DP(inst)
	case insts.OpVMOVToGP:
		return t.transVMOVToGP(inst)
	case insts.OpVMOVFromGP:
		return t.transVMOVFromGP(inst)
	case insts.OpVDUP:
		return t.transVDUP(inst)

	case insts.OpVLDRVSTR:
		return t.transVLDRVSTR(inst)
	case insts.OpVLDMVSTM:
		return t.transVLDMVSTM(inst)

	case insts.OpVLLDMVLSTM:
		return t.transVLLDMVLSTM(inst)
	case insts.OpVSCCLRM:
		return t.transVSCCLRM(inst)
	case insts.OpNOCP:
		return t.transNOCP(inst)
	case insts.OpVLDRSysreg, insts.OpVSTRSysreg:
		return t.transSysregLoadStore(inst)
	}
	return false
}

func (t *trans) do3op(prec insts.Precision, fn op3Fn, vd, vn, vm uint8, readsVd bool) bool {
	switch prec {
	case insts.Half:
		return t.do3opHP(fn, vd, vn, vm, readsVd)
	case insts.Single:
		return t.do3opSP(fn, vd, vn, vm, readsVd)
	default:
		return t.do3opDP(fn, vd, vn, vm, readsVd)
	}
}

func (t *trans) do2op(prec insts.Precision, fn op2Fn, vd, vm uint8) bool {
	switch prec {
	case insts.Half:
		return t.do2opHP(fn, vd, vm)
	case insts.Single:
		return t.do2opSP(fn, vd, vm)
	default:
		return t.do2opDP(fn, vd, vm)
	}
}

func (t *trans) elemTemp(prec insts.Precision) ir.Temp {
	if prec == insts.Double {
		return t.b.NewTemp64()
	}
	return t.b.NewTemp32()
}

// loadFP loads register reg of the given precision. Half-precision
// values live in the bottom slice of their single container.
func (t *trans) loadFP(prec insts.Precision, dst ir.Temp, reg uint8) {
	switch prec {
	case insts.Half:
		t.b.LoadVReg16(dst, t.f16Off(reg, false))
	case insts.Single:
		t.b.LoadVReg32(dst, sOff(reg))
	default:
		t.b.LoadVReg64(dst, dOff(reg))
	}
}

func (t *trans) storeFP(prec insts.Precision, reg uint8, src ir.Temp) {
	switch prec {
	case insts.Half:
		t.b.StoreVReg16(t.f16Off(reg, false), src)
	case insts.Single:
		t.b.StoreVReg32(sOff(reg), src)
	default:
		t.b.StoreVReg64(dOff(reg), src)
	}
}

// setRmode installs a rounding mode into the status bank and returns a
// temp holding the previous mode, to be restored with restoreRmode.
func (t *trans) setRmode(fpst ir.Temp, mode uint64) ir.Temp {
	m := t.b.Const32(uint32(mode))
	old := t.b.NewTemp32()
	t.b.Call(ir.HelperSetRmode, old, fpst, m)
	t.b.Free(m)
	return old
}

func (t *trans) restoreRmode(fpst, old ir.Temp) {
	t.b.Call(ir.HelperSetRmode, ir.NoTemp, fpst, old)
	t.b.Free(old)
}

// mulAcc covers the four multiply-accumulate forms. The product, the
// accumulator, or both may be negated; negation is a sign-bit flip, so
// NaN operands come through with their payloads intact.
func (t *trans) mulAcc(inst *insts.Instruction, negProduct, negAcc bool) bool {
	prec := inst.Prec
	sign := signBit(prec)
	fn := func(fd, f0, f1 ir.Temp) {
		fpst := t.b.FPStatus(statusFlavor(prec))
		tmp := t.elemTemp(prec)
		t.b.Call(mulHelpers[prec], tmp, fpst, f0, f1)
		if negProduct {
			t.b.XorImm(tmp, tmp, sign)
		}
		if negAcc {
			t.b.XorImm(fd, fd, sign)
		}
		t.b.Call(addHelpers[prec], fd, fpst, fd, tmp)
		t.b.Free(tmp, fpst)
	}
	return t.do3op(prec, fn, inst.Vd, inst.Vn, inst.Vm, true)
}

func (t *trans) transVNMUL(inst *insts.Instruction) bool {
	prec := inst.Prec
	sign := signBit(prec)
	fn := func(fd, f0, f1 ir.Temp) {
		fpst := t.b.FPStatus(statusFlavor(prec))
		t.b.Call(mulHelpers[prec], fd, fpst, f0, f1)
		t.b.XorImm(fd, fd, sign)
		t.b.Free(fpst)
	}
	return t.do3op(prec, fn, inst.Vd, inst.Vn, inst.Vm, false)
}

// minMaxNum handles VMINNM and VMAXNM, which never vectorize.
func (t *trans) minMaxNum(inst *insts.Instruction, helpers [3]ir.Helper) bool {
	if !t.feat.V8 {
		return false
	}
	if t.ctx.VecLen != 0 || t.ctx.VecStride != 0 {
		return false
	}
	return t.do3op(inst.Prec, t.helper3(helpers[inst.Prec], statusFlavor(inst.Prec)),
		inst.Vd, inst.Vn, inst.Vm, false)
}

// fusedMulAcc handles the VFMA family. negN flips the first factor and
// negD the addend before the fused operation.
func (t *trans) fusedMulAcc(inst *insts.Instruction, negN, negD bool) bool {
	prec := inst.Prec
	if t.ctx.VecLen != 0 || t.ctx.VecStride != 0 {
		return false
	}
	switch prec {
	case insts.Half:
		if !t.feat.FP16 {
			return false
		}
	case insts.Single:
		if !t.feat.FPSP {
			return false
		}
	default:
		if !t.feat.FPDP {
			return false
		}
		if !t.feat.D32 && (inst.Vd|inst.Vn|inst.Vm)&0x10 != 0 {
			return false
		}
	}
	if !t.accessCheck() {
		return true
	}

	sign := signBit(prec)
	fn := t.elemTemp(prec)
	fm := t.elemTemp(prec)
	fd := t.elemTemp(prec)
	t.loadFP(prec, fn, inst.Vn)
	t.loadFP(prec, fm, inst.Vm)
	t.loadFP(prec, fd, inst.Vd)
	if negN {
		t.b.XorImm(fn, fn, sign)
	}
	if negD {
		t.b.XorImm(fd, fd, sign)
	}
	fpst := t.b.FPStatus(statusFlavor(prec))
	t.b.Call(mulAddHelpers[prec], fd, fpst, fn, fm, fd)
	t.storeFP(prec, inst.Vd, fd)
	t.b.Free(fn, fm, fd, fpst)
	return true
}

func (t *trans) transVMOVImm(inst *insts.Instruction) bool {
	prec := inst.Prec
	imm8 := uint8(inst.Imm)
	switch prec {
	case insts.Half:
		if !t.feat.FP16 {
			return false
		}
		if t.ctx.VecLen != 0 || t.ctx.VecStride != 0 {
			return false
		}
		if !t.accessCheck() {
			return true
		}
		fd := t.b.Const32(uint32(vfpExpandImm(imm8, 16)))
		t.b.StoreVReg16(t.f16Off(inst.Vd, false), fd)
		t.b.Free(fd)
		return true

	case insts.Single:
		if !t.feat.FPSP || !t.feat.FPv3 {
			return false
		}
		if !t.vecGuard() {
			return false
		}
		if !t.accessCheck() {
			return true
		}
		veclen, deltaD, _ := t.vecParams(sIsScalar(inst.Vd), true, false)
		vd := inst.Vd
		fd := t.b.Const32(uint32(vfpExpandImm(imm8, 32)))
		for {
			t.b.StoreVReg32(sOff(vd), fd)
			if veclen == 0 {
				break
			}
			veclen--
			vd = sAdvance(vd, deltaD)
		}
		t.b.Free(fd)
		return true

	default:
		if !t.feat.FPDP || !t.feat.FPv3 {
			return false
		}
		if !t.feat.D32 && inst.Vd&0x10 != 0 {
			return false
		}
		if !t.vecGuard() {
			return false
		}
		if !t.accessCheck() {
			return true
		}
		veclen, deltaD, _ := t.vecParams(dIsScalar(inst.Vd), true, true)
		vd := inst.Vd
		fd := t.b.Const64(vfpExpandImm(imm8, 64))
		for {
			t.b.StoreVReg64(dOff(vd), fd)
			if veclen == 0 {
				break
			}
			veclen--
			vd = dAdvance(vd, deltaD)
		}
		t.b.Free(fd)
		return true
	}
}

func (t *trans) transVCMP(inst *insts.Instruction) bool {
	prec := inst.Prec
	switch prec {
	case insts.Half:
		if !t.feat.FP16 {
			return false
		}
	case insts.Single:
		if !t.feat.FPSP {
			return false
		}
	default:
		if !t.feat.FPDP {
			return false
		}
		if !t.feat.D32 && (inst.Vd|inst.Vm)&0x10 != 0 {
			return false
		}
	}
	// Vm bits must be zero in the compare-with-zero form.
	if inst.Z && inst.Vm != 0 {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	fd := t.elemTemp(prec)
	fm := t.elemTemp(prec)
	t.loadFP(prec, fd, inst.Vd)
	if inst.Z {
		t.b.MovImm(fm, 0)
	} else {
		t.loadFP(prec, fm, inst.Vm)
	}
	h := cmpHelpers
	if inst.E {
		h = cmpEHelpers
	}
	fpst := t.b.FPStatus(statusFlavor(prec))
	t.b.Call(h[prec], ir.NoTemp, fpst, fd, fm)
	t.b.Free(fd, fm, fpst)
	return true
}

// roundIntegralGate is the shared feature gate of the round-to-integral
// and direct-rounded conversion forms.
func (t *trans) roundIntegralGate(inst *insts.Instruction) bool {
	if inst.Prec == insts.Half {
		return t.feat.FP16
	}
	if !t.feat.V8 {
		return false
	}
	if inst.Prec == insts.Double {
		if !t.feat.FPDP {
			return false
		}
		if !t.feat.D32 && (inst.Vd|inst.Vm)&0x10 != 0 {
			return false
		}
	}
	return true
}

func (t *trans) roundIntegral(inst *insts.Instruction, helpers [3]ir.Helper, forceZero bool) bool {
	prec := inst.Prec
	if !t.roundIntegralGate(inst) {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	tmp := t.elemTemp(prec)
	t.loadFP(prec, tmp, inst.Vm)
	fpst := t.b.FPStatus(statusFlavor(prec))
	if forceZero {
		old := t.setRmode(fpst, ir.RoundZero)
		t.b.Call(helpers[prec], tmp, fpst, tmp)
		t.restoreRmode(fpst, old)
	} else {
		t.b.Call(helpers[prec], tmp, fpst, tmp)
	}
	t.storeFP(prec, inst.Vd, tmp)
	t.b.Free(tmp, fpst)
	return true
}

func (t *trans) roundIntegralRZ(inst *insts.Instruction) bool {
	return t.roundIntegral(inst, rintHelpers, true)
}

// transVCVT converts between single and double precision. Prec names
// the source width; the destination register uses the other numbering.
func (t *trans) transVCVT(inst *insts.Instruction) bool {
	if !t.feat.FPSP || !t.feat.FPDP {
		return false
	}
	if inst.Prec == insts.Single {
		if !t.feat.D32 && inst.Vd&0x10 != 0 {
			return false
		}
		if !t.accessCheck() {
			return true
		}
		sm := t.b.NewTemp32()
		dd := t.b.NewTemp64()
		t.b.LoadVReg32(sm, sOff(inst.Vm))
		fpst := t.b.FPStatus(ir.FlavorFPCR)
		t.b.Call(ir.HelperCvtF32F64, dd, fpst, sm)
		t.b.StoreVReg64(dOff(inst.Vd), dd)
		t.b.Free(sm, dd, fpst)
		return true
	}

	if !t.feat.D32 && inst.Vm&0x10 != 0 {
		return false
	}
	if !t.accessCheck() {
		return true
	}
	dm := t.b.NewTemp64()
	sd := t.b.NewTemp32()
	t.b.LoadVReg64(dm, dOff(inst.Vm))
	fpst := t.b.FPStatus(ir.FlavorFPCR)
	t.b.Call(ir.HelperCvtF64F32, sd, fpst, dm)
	t.b.StoreVReg32(sOff(inst.Vd), sd)
	t.b.Free(dm, sd, fpst)
	return true
}

func (t *trans) transVCVTFromF16(inst *insts.Instruction) bool {
	if !t.feat.FP16 {
		return false
	}
	if inst.Prec == insts.Double {
		if !t.feat.FPDP {
			return false
		}
		if !t.feat.D32 && inst.Vd&0x10 != 0 {
			return false
		}
	}
	if !t.accessCheck() {
		return true
	}

	tmp := t.b.NewTemp32()
	t.b.LoadVReg16(tmp, t.f16Off(inst.Vm, inst.T))
	fpst := t.b.FPStatus(ir.FlavorFPCR)
	if inst.Prec == insts.Double {
		dd := t.b.NewTemp64()
		t.b.Call(ir.HelperCvtF16F64, dd, fpst, tmp)
		t.b.StoreVReg64(dOff(inst.Vd), dd)
		t.b.Free(dd)
	} else {
		t.b.Call(ir.HelperCvtF16F32, tmp, fpst, tmp)
		t.b.StoreVReg32(sOff(inst.Vd), tmp)
	}
	t.b.Free(tmp, fpst)
	return true
}

func (t *trans) transVCVTToF16(inst *insts.Instruction) bool {
	if !t.feat.FP16 {
		return false
	}
	if inst.Prec == insts.Double {
		if !t.feat.FPDP {
			return false
		}
		if !t.feat.D32 && inst.Vm&0x10 != 0 {
			return false
		}
	}
	if !t.accessCheck() {
		return true
	}

	res := t.b.NewTemp32()
	fpst := t.b.FPStatus(ir.FlavorFPCR)
	if inst.Prec == insts.Double {
		dm := t.b.NewTemp64()
		t.b.LoadVReg64(dm, dOff(inst.Vm))
		t.b.Call(ir.HelperCvtF64F16, res, fpst, dm)
		t.b.Free(dm)
	} else {
		t.b.LoadVReg32(res, sOff(inst.Vm))
		t.b.Call(ir.HelperCvtF32F16, res, fpst, res)
	}
	// Only the selected half of the destination changes.
	t.b.StoreVReg16(t.f16Off(inst.Vd, inst.T), res)
	t.b.Free(res, fpst)
	return true
}

func (t *trans) transVCVTIntFP(inst *insts.Instruction) bool {
	prec := inst.Prec
	switch prec {
	case insts.Half:
		if !t.feat.FP16 {
			return false
		}
	case insts.Single:
		if !t.feat.FPSP {
			return false
		}
	default:
		if !t.feat.FPDP {
			return false
		}
		if !t.feat.D32 && inst.Vd&0x10 != 0 {
			return false
		}
	}
	if !t.accessCheck() {
		return true
	}

	src := t.b.NewTemp32()
	t.b.LoadVReg32(src, sOff(inst.Vm))
	h := uitoHelpers
	if inst.Sign {
		h = sitoHelpers
	}
	dst := t.elemTemp(prec)
	fpst := t.b.FPStatus(statusFlavor(prec))
	t.b.Call(h[prec], dst, fpst, src)
	t.storeFP(prec, inst.Vd, dst)
	t.b.Free(src, dst, fpst)
	return true
}

func (t *trans) transVCVTFPInt(inst *insts.Instruction) bool {
	prec := inst.Prec
	switch prec {
	case insts.Half:
		if !t.feat.FP16 {
			return false
		}
	case insts.Single:
		if !t.feat.FPSP {
			return false
		}
	default:
		if !t.feat.FPDP {
			return false
		}
		if !t.feat.D32 && inst.Vm&0x10 != 0 {
			return false
		}
	}
	if !t.accessCheck() {
		return true
	}

	src := t.elemTemp(prec)
	t.loadFP(prec, src, inst.Vm)
	h := touiHelpers
	if inst.Sign {
		h = tosiHelpers
	}
	dst := t.b.NewTemp32()
	fpst := t.b.FPStatus(statusFlavor(prec))
	if inst.RZ {
		old := t.setRmode(fpst, ir.RoundZero)
		t.b.Call(h[prec], dst, fpst, src)
		t.restoreRmode(fpst, old)
	} else {
		t.b.Call(h[prec], dst, fpst, src)
	}
	t.b.StoreVReg32(sOff(inst.Vd), dst)
	t.b.Free(src, dst, fpst)
	return true
}

// transVCVTFix converts between a register's floating value and a
// fixed-point field in the same register.
func (t *trans) transVCVTFix(inst *insts.Instruction) bool {
	prec := inst.Prec
	switch prec {
	case insts.Half:
		if !t.feat.FP16 {
			return false
		}
	case insts.Single:
		if !t.feat.FPSP || !t.feat.FPv3 {
			return false
		}
	default:
		if !t.feat.FPDP || !t.feat.FPv3 {
			return false
		}
		if !t.feat.D32 && inst.Vd&0x10 != 0 {
			return false
		}
	}
	if !t.accessCheck() {
		return true
	}

	fieldBits := uint32(16)
	if inst.Opc&0x1 != 0 {
		fieldBits = 32
	}
	fracBits := fieldBits - inst.Imm

	// The fixed field shares the full register container with the
	// floating value, so half precision uses its whole single slot.
	fd := t.elemTemp(prec)
	if prec == insts.Double {
		t.b.LoadVReg64(fd, dOff(inst.Vd))
	} else {
		t.b.LoadVReg32(fd, sOff(inst.Vd))
	}
	frac := t.b.Const32(fracBits)
	opc := t.b.Const32(uint32(inst.Opc))
	fpst := t.b.FPStatus(statusFlavor(prec))
	t.b.Call(fixHelpers[prec], fd, fpst, fd, frac, opc)
	if prec == insts.Double {
		t.b.StoreVReg64(dOff(inst.Vd), fd)
	} else {
		t.b.StoreVReg32(sOff(inst.Vd), fd)
	}
	t.b.Free(fd, frac, opc, fpst)
	return true
}

func (t *trans) transVJCVT(inst *insts.Instruction) bool {
	if !t.feat.JSCvt || !t.feat.FPDP {
		return false
	}
	if !t.feat.D32 && inst.Vm&0x10 != 0 {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	dm := t.b.NewTemp64()
	t.b.LoadVReg64(dm, dOff(inst.Vm))
	dst := t.b.NewTemp32()
	fpst := t.b.FPStatus(ir.FlavorFPCR)
	t.b.Call(ir.HelperVJCVT, dst, fpst, dm)
	t.b.StoreVReg32(sOff(inst.Vd), dst)
	t.b.Free(dm, dst, fpst)
	return true
}

// transVSEL selects between the n and m operands on a condition
// derived from the CPSR flags: eq, vs, ge or gt.
func (t *trans) transVSEL(inst *insts.Instruction) bool {
	prec := inst.Prec
	if !t.feat.V8 {
		return false
	}
	switch prec {
	case insts.Half:
		if !t.feat.FP16 {
			return false
		}
	case insts.Double:
		if !t.feat.FPDP {
			return false
		}
		if !t.feat.D32 && (inst.Vd|inst.Vn|inst.Vm)&0x10 != 0 {
			return false
		}
	}
	if !t.accessCheck() {
		return true
	}

	frn := t.elemTemp(prec)
	frm := t.elemTemp(prec)
	dest := t.elemTemp(prec)
	t.loadFP(prec, frn, inst.Vn)
	t.loadFP(prec, frm, inst.Vm)

	zero := t.b.Const32(0)
	// Reduce each flag test to a small predicate so the select works
	// the same at either operand width.
	switch inst.Cond {
	case 0: // eq: the inverted Z storage is zero when Z is set
		zf := t.b.NewTemp32()
		t.b.LoadField(zf, ir.FieldZF)
		t.b.MovCond(ir.CondEQ, dest, zf, zero, frn, frm)
		t.b.Free(zf)
	case 1: // vs: V lives in the sign bit
		vf := t.b.NewTemp32()
		t.b.LoadField(vf, ir.FieldVF)
		t.b.ShrImm(vf, vf, 31)
		t.b.MovCond(ir.CondNE, dest, vf, zero, frn, frm)
		t.b.Free(vf)
	case 2: // ge: N == V
		p := t.nxorV()
		t.b.MovCond(ir.CondEQ, dest, p, zero, frn, frm)
		t.b.Free(p)
	default: // gt: !Z && N == V
		zf := t.b.NewTemp32()
		t.b.LoadField(zf, ir.FieldZF)
		t.b.MovCond(ir.CondNE, dest, zf, zero, frn, frm)
		p := t.nxorV()
		t.b.MovCond(ir.CondEQ, dest, p, zero, dest, frm)
		t.b.Free(zf, p)
	}

	t.storeFP(prec, inst.Vd, dest)
	t.b.Free(frn, frm, dest, zero)
	return true
}

// nxorV returns a temp holding 1 when N != V and 0 when they agree.
func (t *trans) nxorV() ir.Temp {
	nf := t.b.NewTemp32()
	vf := t.b.NewTemp32()
	t.b.LoadField(nf, ir.FieldNF)
	t.b.LoadField(vf, ir.FieldVF)
	t.b.Xor(nf, nf, vf)
	t.b.ShrImm(nf, nf, 31)
	t.b.Free(vf)
	return nf
}

// transVRINTRM rounds to integral with the mode taken from the RM
// field rather than FPSCR.
func (t *trans) transVRINTRM(inst *insts.Instruction) bool {
	prec := inst.Prec
	if !t.roundIntegralGate(inst) {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	tmp := t.elemTemp(prec)
	t.loadFP(prec, tmp, inst.Vm)
	fpst := t.b.FPStatus(statusFlavor(prec))
	old := t.setRmode(fpst, rmTable[inst.RM&0x3])
	t.b.Call(rintHelpers[prec], tmp, fpst, tmp)
	t.restoreRmode(fpst, old)
	t.storeFP(prec, inst.Vd, tmp)
	t.b.Free(tmp, fpst)
	return true
}

// transVCVTRM converts to a 32-bit integer with the mode taken from
// the RM field. The destination always uses single numbering.
func (t *trans) transVCVTRM(inst *insts.Instruction) bool {
	prec := inst.Prec
	if prec == insts.Half {
		if !t.feat.FP16 {
			return false
		}
	} else if !t.feat.V8 {
		return false
	}
	if prec == insts.Double {
		if !t.feat.FPDP {
			return false
		}
		if !t.feat.D32 && inst.Vm&0x10 != 0 {
			return false
		}
	}
	if !t.accessCheck() {
		return true
	}

	src := t.elemTemp(prec)
	t.loadFP(prec, src, inst.Vm)
	h := touiHelpers
	if inst.Sign {
		h = tosiHelpers
	}
	dst := t.b.NewTemp32()
	fpst := t.b.FPStatus(statusFlavor(prec))
	old := t.setRmode(fpst, rmTable[inst.RM&0x3])
	t.b.Call(h[prec], dst, fpst, src)
	t.restoreRmode(fpst, old)
	t.b.StoreVReg32(sOff(inst.Vd), dst)
	t.b.Free(src, dst, fpst)
	return true
}

// transVINS copies the bottom half of m into the top half of d.
func (t *trans) transVINS(inst *insts.Instruction) bool {
	if !t.feat.FP16 {
		return false
	}
	if t.ctx.VecLen != 0 || t.ctx.VecStride != 0 {
		return false
	}
	if !t.accessCheck() {
		return true
	}
	tmp := t.b.NewTemp32()
	t.b.LoadVReg16(tmp, t.f16Off(inst.Vm, false))
	t.b.StoreVReg16(t.f16Off(inst.Vd, true), tmp)
	t.b.Free(tmp)
	return true
}

// transVMOVX moves the top half of m to the bottom of d and clears the
// top of d.
func (t *trans) transVMOVX(inst *insts.Instruction) bool {
	if !t.feat.FP16 {
		return false
	}
	if t.ctx.VecLen != 0 || t.ctx.VecStride != 0 {
		return false
	}
	if !t.accessCheck() {
		return true
	}
	tmp := t.b.NewTemp32()
	t.b.LoadVReg16(tmp, t.f16Off(inst.Vm, true))
	t.b.StoreVReg16(t.f16Off(inst.Vd, false), tmp)
	zero := t.b.Const32(0)
	t.b.StoreVReg16(t.f16Off(inst.Vd, true), zero)
	t.b.Free(tmp, zero)
	return true
}

func (t *trans) transVMOVHalfGP(inst *insts.Instruction) bool {
	if !t.feat.FP16 {
		return false
	}
	// Rt == 15 is unpredictable here; treat it as undefined.
	if inst.Rt == 15 {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	tmp := t.b.NewTemp32()
	if inst.L {
		t.b.LoadVReg16(tmp, t.f16Off(inst.Vn, false))
		t.b.StoreGPR(inst.Rt, tmp)
	} else {
		t.b.LoadGPR(tmp, inst.Rt)
		t.b.AndImm(tmp, tmp, 0xFFFF)
		t.b.StoreVReg32(sOff(inst.Vn), tmp)
	}
	t.b.Free(tmp)
	return true
}

func (t *trans) transVMOVSingleGP(inst *insts.Instruction) bool {
	if !t.feat.FPSP {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	tmp := t.b.NewTemp32()
	if inst.L {
		t.b.LoadVReg32(tmp, sOff(inst.Vn))
		if inst.Rt == 15 {
			t.storeNZCV(tmp)
		} else {
			t.b.StoreGPR(inst.Rt, tmp)
		}
	} else {
		t.b.LoadGPR(tmp, inst.Rt)
		t.b.StoreVReg32(sOff(inst.Vn), tmp)
	}
	t.b.Free(tmp)
	return true
}

// storeNZCV spreads the packed flag nibble in bits [31:28] of v into
// the split flag storage.
func (t *trans) storeNZCV(v ir.Temp) {
	t.b.StoreField(ir.FieldNF, v)

	tmp := t.b.NewTemp32()
	t.b.AndImm(tmp, v, 0x4000_0000)
	t.b.XorImm(tmp, tmp, 0x4000_0000)
	t.b.StoreField(ir.FieldZF, tmp)

	t.b.ShrImm(tmp, v, 29)
	t.b.AndImm(tmp, tmp, 1)
	t.b.StoreField(ir.FieldCF, tmp)

	t.b.ShlImm(tmp, v, 3)
	t.b.StoreField(ir.FieldVF, tmp)
	t.b.Free(tmp)
}

func (t *trans) transVMOV64SP(inst *insts.Instruction) bool {
	if !t.feat.FPSP {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	tmp := t.b.NewTemp32()
	if inst.L {
		t.b.LoadVReg32(tmp, sOff(inst.Vm))
		t.b.StoreGPR(inst.Rt, tmp)
		t.b.LoadVReg32(tmp, sOff(inst.Vm+1))
		t.b.StoreGPR(inst.Rt2, tmp)
	} else {
		t.b.LoadGPR(tmp, inst.Rt)
		t.b.StoreVReg32(sOff(inst.Vm), tmp)
		t.b.LoadGPR(tmp, inst.Rt2)
		t.b.StoreVReg32(sOff(inst.Vm+1), tmp)
	}
	t.b.Free(tmp)
	return true
}

func (t *trans) transVMOV64DP(inst *insts.Instruction) bool {
	// The double register is moved as two words, so double arithmetic
	// support is not required.
	if !t.feat.FPSP {
		return false
	}
	if !t.feat.D32 && inst.Vm&0x10 != 0 {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	lo := dOff(inst.Vm)
	hi := lo + 4
	tmp := t.b.NewTemp32()
	if inst.L {
		t.b.LoadVReg32(tmp, lo)
		t.b.StoreGPR(inst.Rt, tmp)
		t.b.LoadVReg32(tmp, hi)
		t.b.StoreGPR(inst.Rt2, tmp)
	} else {
		t.b.LoadGPR(tmp, inst.Rt)
		t.b.StoreVReg32(lo, tmp)
		t.b.LoadGPR(tmp, inst.Rt2)
		t.b.StoreVReg32(hi, tmp)
	}
	t.b.Free(tmp)
	return true
}

func (t *trans) laneGate(inst *insts.Instruction) bool {
	if inst.Size == 4 {
		if !t.feat.FPSP {
			return false
		}
	} else if !t.feat.SIMD {
		return false
	}
	if !t.feat.D32 && inst.Vn&0x10 != 0 {
		return false
	}
	return true
}

func (t *trans) transVMOVToGP(inst *insts.Instruction) bool {
	if !t.laneGate(inst) {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	off := dOff(inst.Vn) + uint32(inst.Index)*uint32(inst.Size)
	tmp := t.b.NewTemp32()
	switch inst.Size {
	case 1:
		t.b.LoadVReg8(tmp, off)
	case 2:
		t.b.LoadVReg16(tmp, off)
	default:
		t.b.LoadVReg32(tmp, off)
	}
	if !inst.U && inst.Size != 4 {
		sh := uint64(32 - 8*inst.Size)
		t.b.ShlImm(tmp, tmp, sh)
		t.b.SarImm(tmp, tmp, sh)
	}
	t.b.StoreGPR(inst.Rt, tmp)
	t.b.Free(tmp)
	return true
}

func (t *trans) transVMOVFromGP(inst *insts.Instruction) bool {
	if !t.laneGate(inst) {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	off := dOff(inst.Vn) + uint32(inst.Index)*uint32(inst.Size)
	tmp := t.b.NewTemp32()
	t.b.LoadGPR(tmp, inst.Rt)
	switch inst.Size {
	case 1:
		t.b.StoreVReg8(off, tmp)
	case 2:
		t.b.StoreVReg16(off, tmp)
	default:
		t.b.StoreVReg32(off, tmp)
	}
	t.b.Free(tmp)
	return true
}

func (t *trans) transVDUP(inst *insts.Instruction) bool {
	if !t.feat.SIMD {
		return false
	}
	if !t.feat.D32 && inst.Vn&0x10 != 0 {
		return false
	}
	if inst.B && inst.E {
		return false
	}
	if inst.Q && inst.Vn&1 != 0 {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	size := uint32(4)
	if inst.B {
		size = 1
	} else if inst.E {
		size = 2
	}
	total := uint32(8)
	if inst.Q {
		total = 16
	}

	tmp := t.b.NewTemp32()
	t.b.LoadGPR(tmp, inst.Rt)
	base := dOff(inst.Vn)
	for off := uint32(0); off < total; off += size {
		switch size {
		case 1:
			t.b.StoreVReg8(base+off, tmp)
		case 2:
			t.b.StoreVReg16(base+off, tmp)
		default:
			t.b.StoreVReg32(base+off, tmp)
		}
	}
	t.b.Free(tmp)
	return true
}

// loadBase produces the transfer base address: register rn, or the
// aligned PC-relative literal base.
func (t *trans) loadBase(rn uint8) ir.Temp {
	addr := t.b.NewTemp32()
	if rn == 15 {
		t.b.MovImm(addr, uint64((t.ctx.PC+8)&^3))
	} else {
		t.b.LoadGPR(addr, rn)
	}
	return addr
}

func (t *trans) transVLDRVSTR(inst *insts.Instruction) bool {
	prec := inst.Prec
	switch prec {
	case insts.Half:
		if !t.feat.FP16 {
			return false
		}
	case insts.Single:
		if !t.feat.FPSP {
			return false
		}
	default:
		// Moving a double as raw bytes needs no double arithmetic.
		if !t.feat.FPSP {
			return false
		}
		if !t.feat.D32 && inst.Vd&0x10 != 0 {
			return false
		}
	}
	if !t.accessCheck() {
		return true
	}

	offset := inst.Imm << 2
	if prec == insts.Half {
		offset = inst.Imm << 1
	}
	if !inst.U {
		offset = -offset
	}
	addr := t.loadBase(inst.Rn)
	t.b.AddImm(addr, addr, uint64(offset))

	switch prec {
	case insts.Half:
		tmp := t.b.NewTemp32()
		if inst.L {
			t.b.LoadMem(tmp, addr, 2)
			t.b.StoreVReg32(sOff(inst.Vd), tmp)
		} else {
			t.b.LoadVReg32(tmp, sOff(inst.Vd))
			t.b.StoreMem(addr, tmp, 2)
		}
		t.b.Free(tmp)
	case insts.Single:
		tmp := t.b.NewTemp32()
		if inst.L {
			t.b.LoadMem(tmp, addr, 4)
			t.b.StoreVReg32(sOff(inst.Vd), tmp)
		} else {
			t.b.LoadVReg32(tmp, sOff(inst.Vd))
			t.b.StoreMem(addr, tmp, 4)
		}
		t.b.Free(tmp)
	default:
		tmp := t.b.NewTemp64()
		if inst.L {
			t.b.LoadMem(tmp, addr, 8)
			t.b.StoreVReg64(dOff(inst.Vd), tmp)
		} else {
			t.b.LoadVReg64(tmp, dOff(inst.Vd))
			t.b.StoreMem(addr, tmp, 8)
		}
		t.b.Free(tmp)
	}
	t.b.Free(addr)
	return true
}

func (t *trans) transVLDMVSTM(inst *insts.Instruction) bool {
	if !t.feat.FPSP {
		return false
	}
	dp := inst.Prec == insts.Double

	n := inst.Imm
	if dp {
		n = inst.Imm >> 1
	}
	// Reject the unpredictable immediate shapes rather than emit them.
	if n == 0 || uint32(inst.Vd)+n > 32 {
		return false
	}
	if dp && n > 16 {
		return false
	}
	if dp && !t.feat.D32 && uint32(inst.Vd)+n > 16 {
		return false
	}
	if inst.Rn == 15 && inst.W {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	addr := t.loadBase(inst.Rn)
	if inst.P {
		t.b.AddImm(addr, addr, uint64(-(inst.Imm << 2)))
	}
	// The limit check covers the lowest address touched, before the
	// first access.
	if t.feat.MProfile && inst.W && inst.Rn == 13 {
		t.b.Call(ir.HelperStackCheck, ir.NoTemp, ir.NoTemp, addr)
	}

	step := uint64(4)
	width := uint8(4)
	if dp {
		step = 8
		width = 8
	}
	tmp := t.elemTemp(inst.Prec)
	for i := uint32(0); i < n; i++ {
		var off uint32
		if dp {
			off = dOff(inst.Vd + uint8(i))
		} else {
			off = sOff(inst.Vd + uint8(i))
		}
		if inst.L {
			t.b.LoadMem(tmp, addr, width)
			if dp {
				t.b.StoreVReg64(off, tmp)
			} else {
				t.b.StoreVReg32(off, tmp)
			}
		} else {
			if dp {
				t.b.LoadVReg64(tmp, off)
			} else {
				t.b.LoadVReg32(tmp, off)
			}
			t.b.StoreMem(addr, tmp, width)
		}
		t.b.AddImm(addr, addr, step)
	}
	t.b.Free(tmp)

	if inst.W {
		if inst.P {
			t.b.AddImm(addr, addr, uint64(-(step * uint64(n))))
		} else if dp && inst.Imm&1 != 0 {
			// The odd-length double form writes back the extra word.
			t.b.AddImm(addr, addr, 4)
		}
		t.b.StoreGPR(inst.Rn, addr)
	}
	t.b.Free(addr)
	return true
}
