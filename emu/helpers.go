package emu

import (
	"github.com/sarchlab/vfpsim/ir"
	"github.com/sarchlab/vfpsim/softfp"
)

// call dispatches one helper invocation. Argument temps are in A, B, C
// and the status handle, when the helper needs one, in D.
func (e *Evaluator) call(op *ir.Op, temps []uint64) error {
	var st *softfp.Status
	if op.D != ir.NoTemp {
		st = &e.state.FPStatus[temps[op.D]]
	}

	arg := func(t ir.Temp) uint64 {
		if t == ir.NoTemp {
			return 0
		}
		return temps[t]
	}
	a, b, c := arg(op.A), arg(op.B), arg(op.C)

	var r uint64
	switch op.Helper {
	case ir.HelperAddH:
		r = uint64(softfp.Add16(uint16(a), uint16(b), st))
	case ir.HelperAddS:
		r = uint64(softfp.Add32(uint32(a), uint32(b), st))
	case ir.HelperAddD:
		r = softfp.Add64(a, b, st)
	case ir.HelperSubH:
		r = uint64(softfp.Sub16(uint16(a), uint16(b), st))
	case ir.HelperSubS:
		r = uint64(softfp.Sub32(uint32(a), uint32(b), st))
	case ir.HelperSubD:
		r = softfp.Sub64(a, b, st)
	case ir.HelperMulH:
		r = uint64(softfp.Mul16(uint16(a), uint16(b), st))
	case ir.HelperMulS:
		r = uint64(softfp.Mul32(uint32(a), uint32(b), st))
	case ir.HelperMulD:
		r = softfp.Mul64(a, b, st)
	case ir.HelperDivH:
		r = uint64(softfp.Div16(uint16(a), uint16(b), st))
	case ir.HelperDivS:
		r = uint64(softfp.Div32(uint32(a), uint32(b), st))
	case ir.HelperDivD:
		r = softfp.Div64(a, b, st)
	case ir.HelperSqrtH:
		r = uint64(softfp.Sqrt16(uint16(a), st))
	case ir.HelperSqrtS:
		r = uint64(softfp.Sqrt32(uint32(a), st))
	case ir.HelperSqrtD:
		r = softfp.Sqrt64(a, st)
	case ir.HelperMinNumH:
		r = uint64(softfp.MinNum16(uint16(a), uint16(b), st))
	case ir.HelperMinNumS:
		r = uint64(softfp.MinNum32(uint32(a), uint32(b), st))
	case ir.HelperMinNumD:
		r = softfp.MinNum64(a, b, st)
	case ir.HelperMaxNumH:
		r = uint64(softfp.MaxNum16(uint16(a), uint16(b), st))
	case ir.HelperMaxNumS:
		r = uint64(softfp.MaxNum32(uint32(a), uint32(b), st))
	case ir.HelperMaxNumD:
		r = softfp.MaxNum64(a, b, st)
	case ir.HelperMulAddH:
		r = uint64(softfp.MulAdd16(uint16(a), uint16(b), uint16(c), st))
	case ir.HelperMulAddS:
		r = uint64(softfp.MulAdd32(uint32(a), uint32(b), uint32(c), st))
	case ir.HelperMulAddD:
		r = softfp.MulAdd64(a, b, c, st)

	case ir.HelperCmpH:
		e.setFPSCRNZCV(softfp.Cmp16(uint16(a), uint16(b), false, st).NZCV())
	case ir.HelperCmpS:
		e.setFPSCRNZCV(softfp.Cmp32(uint32(a), uint32(b), false, st).NZCV())
	case ir.HelperCmpD:
		e.setFPSCRNZCV(softfp.Cmp64(a, b, false, st).NZCV())
	case ir.HelperCmpEH:
		e.setFPSCRNZCV(softfp.Cmp16(uint16(a), uint16(b), true, st).NZCV())
	case ir.HelperCmpES:
		e.setFPSCRNZCV(softfp.Cmp32(uint32(a), uint32(b), true, st).NZCV())
	case ir.HelperCmpED:
		e.setFPSCRNZCV(softfp.Cmp64(a, b, true, st).NZCV())

	case ir.HelperRintH:
		r = uint64(softfp.RoundInt16(uint16(a), false, st))
	case ir.HelperRintS:
		r = uint64(softfp.RoundInt32(uint32(a), false, st))
	case ir.HelperRintD:
		r = softfp.RoundInt64(a, false, st)
	case ir.HelperRintXH:
		r = uint64(softfp.RoundInt16(uint16(a), true, st))
	case ir.HelperRintXS:
		r = uint64(softfp.RoundInt32(uint32(a), true, st))
	case ir.HelperRintXD:
		r = softfp.RoundInt64(a, true, st)

	case ir.HelperCvtF16F32:
		r = uint64(softfp.F16toF32(uint16(a), st))
	case ir.HelperCvtF32F16:
		r = uint64(softfp.F32toF16(uint32(a), st))
	case ir.HelperCvtF16F64:
		r = softfp.F16toF64(uint16(a), st)
	case ir.HelperCvtF64F16:
		r = uint64(softfp.F64toF16(a, st))
	case ir.HelperCvtF32F64:
		r = softfp.F32toF64(uint32(a), st)
	case ir.HelperCvtF64F32:
		r = uint64(softfp.F64toF32(a, st))

	case ir.HelperSitoH:
		r = uint64(softfp.Int32toF16(uint32(a), false, st))
	case ir.HelperSitoS:
		r = uint64(softfp.Int32toF32(uint32(a), false, st))
	case ir.HelperSitoD:
		r = softfp.Int32toF64(uint32(a), false, st)
	case ir.HelperUitoH:
		r = uint64(softfp.Int32toF16(uint32(a), true, st))
	case ir.HelperUitoS:
		r = uint64(softfp.Int32toF32(uint32(a), true, st))
	case ir.HelperUitoD:
		r = softfp.Int32toF64(uint32(a), true, st)
	case ir.HelperTosiH:
		r = uint64(softfp.F16toInt32(uint16(a), false, st))
	case ir.HelperTosiS:
		r = uint64(softfp.F32toInt32(uint32(a), false, st))
	case ir.HelperTosiD:
		r = uint64(softfp.F64toInt32(a, false, st))
	case ir.HelperTouiH:
		r = uint64(softfp.F16toInt32(uint16(a), true, st))
	case ir.HelperTouiS:
		r = uint64(softfp.F32toInt32(uint32(a), true, st))
	case ir.HelperTouiD:
		r = uint64(softfp.F64toInt32(a, true, st))

	case ir.HelperCvtFixH:
		r = softfp.CvtFix16(a, uint32(b), uint8(c), st)
	case ir.HelperCvtFixS:
		r = softfp.CvtFix32(a, uint32(b), uint8(c), st)
	case ir.HelperCvtFixD:
		r = softfp.CvtFix64(a, uint32(b), uint8(c), st)

	case ir.HelperVJCVT:
		v, nzcv := softfp.JSCvt(a, st)
		e.setFPSCRNZCV(nzcv)
		r = uint64(v)

	case ir.HelperSetRmode:
		r = uint64(st.Rounding)
		st.Rounding = softfp.RoundingMode(a)

	case ir.HelperGetFPSCR:
		r = uint64(e.state.GetFPSCR())
	case ir.HelperSetFPSCR:
		e.state.SetFPSCR(uint32(a))

	case ir.HelperPreserveFPState:
		// Lazy state preservation drain: the pending FP context is
		// written out and the activation bit drops.
		e.state.FPCCR[BankS] &^= FPCCRLSPACT
		e.state.FPCCR[BankNS] &^= FPCCRLSPACT

	case ir.HelperVLSTM:
		e.vlstm(uint32(a))
	case ir.HelperVLLDM:
		e.vlldm(uint32(a))

	case ir.HelperStackCheck:
		if e.state.StackLimit != 0 && uint32(a) < e.state.StackLimit {
			return &Trap{Exc: ir.ExcStackOverflow}
		}
	}

	if op.Dst != ir.NoTemp {
		temps[op.Dst] = r
	}
	return nil
}

// vlstm writes the low half of the FP context to the frame at fptr and
// deactivates it. With no context active it is a no-op.
func (e *Evaluator) vlstm(fptr uint32) {
	if e.state.Control&ControlFPCA == 0 {
		return
	}
	for i := uint8(0); i < 16; i++ {
		e.state.Mem.Write(fptr+4*uint32(i), 4, uint64(e.state.ReadS(i)))
	}
	e.state.Mem.Write(fptr+0x40, 4, uint64(e.state.GetFPSCR()))
	e.state.Mem.Write(fptr+0x44, 4, uint64(e.state.VPR))
	e.state.Control &^= ControlFPCA | ControlSFPA
}

// vlldm restores the low half of the FP context from the frame at
// fptr. When the preceding save was still lazily pending the frame was
// never written, so the activation latch is simply dropped.
func (e *Evaluator) vlldm(fptr uint32) {
	if e.state.FPCCR[BankS]&FPCCRLSPACT != 0 {
		e.state.FPCCR[BankS] &^= FPCCRLSPACT
		return
	}
	for i := uint8(0); i < 16; i++ {
		e.state.WriteS(i, uint32(e.state.Mem.Read(fptr+4*uint32(i), 4)))
	}
	e.state.SetFPSCR(uint32(e.state.Mem.Read(fptr+0x40, 4)))
	e.state.VPR = uint32(e.state.Mem.Read(fptr+0x44, 4))
	e.state.Control |= ControlFPCA | ControlSFPA
}

func (e *Evaluator) setFPSCRNZCV(nzcv uint32) {
	e.state.FPSCR = e.state.FPSCR&^FPSCRNZCV | nzcv<<28
}
