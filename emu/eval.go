package emu

import (
	"fmt"

	"github.com/sarchlab/vfpsim/ir"
)

// Trap reports an exception a program raised.
type Trap struct {
	Exc ir.Exception
}

// Error describes the trapped exception.
func (t *Trap) Error() string {
	switch t.Exc {
	case ir.ExcNOCP:
		return "trap: no-coprocessor usage fault"
	case ir.ExcStackOverflow:
		return "trap: stack limit violation"
	case ir.ExcEnvCall:
		return "trap: environment call"
	case ir.ExcBreakpoint:
		return "trap: breakpoint"
	default:
		return "trap: undefined instruction"
	}
}

// Evaluator executes translated programs against a State.
type Evaluator struct {
	state *State
}

// NewEvaluator creates an evaluator over state.
func NewEvaluator(state *State) *Evaluator {
	return &Evaluator{state: state}
}

// State returns the state the evaluator runs against.
func (e *Evaluator) State() *State {
	return e.state
}

// Run executes prog to completion. A raised exception is returned as a
// *Trap.
func (e *Evaluator) Run(prog *ir.Program) error {
	temps := make([]uint64, prog.NumTemps)

	labels := make([]int, prog.NumLabels)
	for i := range prog.Ops {
		if prog.Ops[i].Kind == ir.OpSetLabel {
			labels[prog.Ops[i].Label] = i
		}
	}

	for idx := 0; idx < len(prog.Ops); idx++ {
		op := &prog.Ops[idx]
		switch op.Kind {
		case ir.OpNop, ir.OpSetLabel:

		case ir.OpConst:
			temps[op.Dst] = op.Imm
		case ir.OpMov:
			temps[op.Dst] = mask(temps[op.A], op.Width)
		case ir.OpAnd:
			temps[op.Dst] = mask(temps[op.A]&temps[op.B], op.Width)
		case ir.OpOr:
			temps[op.Dst] = mask(temps[op.A]|temps[op.B], op.Width)
		case ir.OpXor:
			temps[op.Dst] = mask(temps[op.A]^temps[op.B], op.Width)
		case ir.OpAdd:
			temps[op.Dst] = mask(temps[op.A]+temps[op.B], op.Width)
		case ir.OpSub:
			temps[op.Dst] = mask(temps[op.A]-temps[op.B], op.Width)
		case ir.OpAndImm:
			temps[op.Dst] = mask(temps[op.A]&op.Imm, op.Width)
		case ir.OpOrImm:
			temps[op.Dst] = mask(temps[op.A]|op.Imm, op.Width)
		case ir.OpXorImm:
			temps[op.Dst] = mask(temps[op.A]^op.Imm, op.Width)
		case ir.OpAddImm:
			temps[op.Dst] = mask(temps[op.A]+op.Imm, op.Width)
		case ir.OpShlImm:
			temps[op.Dst] = mask(temps[op.A]<<op.Imm, op.Width)
		case ir.OpShrImm:
			temps[op.Dst] = mask(temps[op.A], op.Width) >> op.Imm
		case ir.OpSarImm:
			temps[op.Dst] = mask(uint64(signed(temps[op.A], op.Width)>>op.Imm), op.Width)
		case ir.OpDeposit:
			m := uint64(1)<<op.DepositLen - 1
			v := temps[op.A] &^ (m << op.DepositPos)
			v |= (temps[op.B] & m) << op.DepositPos
			temps[op.Dst] = mask(v, op.Width)
		case ir.OpMovCond:
			if holds(op.Cond, temps[op.A], temps[op.B], op.Width) {
				temps[op.Dst] = mask(temps[op.C], op.Width)
			} else {
				temps[op.Dst] = mask(temps[op.D], op.Width)
			}

		case ir.OpBr:
			idx = labels[op.Label]
		case ir.OpBrCondImm:
			if holds(op.Cond, temps[op.A], op.Imm, op.Width) {
				idx = labels[op.Label]
			}

		case ir.OpLoadField:
			temps[op.Dst] = uint64(e.loadField(op.Field))
		case ir.OpStoreField:
			e.storeField(op.Field, uint32(temps[op.A]))

		case ir.OpLoadVReg:
			temps[op.Dst] = e.loadVReg(uint32(op.Imm), op.Width)
		case ir.OpStoreVReg:
			e.storeVReg(uint32(op.Imm), op.Width, temps[op.A])

		case ir.OpLoadGPR:
			temps[op.Dst] = uint64(e.state.GPR[op.Imm])
		case ir.OpStoreGPR:
			e.state.GPR[op.Imm] = uint32(temps[op.A])

		case ir.OpLoadMem:
			temps[op.Dst] = e.state.Mem.Read(uint32(temps[op.A]), op.Width)
		case ir.OpStoreMem:
			e.state.Mem.Write(uint32(temps[op.A]), op.Width, temps[op.B])

		case ir.OpFPStatus:
			temps[op.Dst] = op.Imm
		case ir.OpCall:
			if err := e.call(op, temps); err != nil {
				return err
			}

		case ir.OpRaise:
			return &Trap{Exc: op.Exc}

		default:
			return fmt.Errorf("unhandled op kind %d", op.Kind)
		}
	}
	return nil
}

func mask(v uint64, width uint8) uint64 {
	if width == 4 {
		return v & 0xFFFFFFFF
	}
	return v
}

func signed(v uint64, width uint8) int64 {
	if width == 4 {
		return int64(int32(uint32(v)))
	}
	return int64(v)
}

func holds(c ir.Cond, a, b uint64, width uint8) bool {
	sa, sb := signed(a, width), signed(b, width)
	switch c {
	case ir.CondEQ:
		return a == b
	case ir.CondNE:
		return a != b
	case ir.CondLT:
		return sa < sb
	case ir.CondGE:
		return sa >= sb
	case ir.CondGT:
		return sa > sb
	case ir.CondLE:
		return sa <= sb
	case ir.CondLTU:
		return mask(a, width) < mask(b, width)
	default: // CondGEU
		return mask(a, width) >= mask(b, width)
	}
}

func (e *Evaluator) loadVReg(off uint32, width uint8) uint64 {
	var v uint64
	for i := uint8(0); i < width; i++ {
		v |= uint64(e.state.VRegBytes[off+uint32(i)]) << (8 * i)
	}
	return v
}

func (e *Evaluator) storeVReg(off uint32, width uint8, v uint64) {
	for i := uint8(0); i < width; i++ {
		e.state.VRegBytes[off+uint32(i)] = byte(v >> (8 * i))
	}
}

func (e *Evaluator) loadField(f ir.Field) uint32 {
	s := e.state
	switch f {
	case ir.FieldZF:
		return s.ZF
	case ir.FieldNF:
		return s.NF
	case ir.FieldCF:
		return s.CF
	case ir.FieldVF:
		return s.VF
	case ir.FieldFPSID:
		return s.FPSID
	case ir.FieldFPEXC:
		return s.FPEXC
	case ir.FieldFPINST:
		return s.FPINST
	case ir.FieldFPINST2:
		return s.FPINST2
	case ir.FieldMVFR0:
		return s.MVFR0
	case ir.FieldMVFR1:
		return s.MVFR1
	case ir.FieldMVFR2:
		return s.MVFR2
	case ir.FieldFPCCRS:
		return s.FPCCR[BankS]
	case ir.FieldFPCCRNS:
		return s.FPCCR[BankNS]
	case ir.FieldControl:
		return s.Control
	case ir.FieldFPDSCRS:
		return s.FPDSCR[BankS]
	case ir.FieldFPDSCRNS:
		return s.FPDSCR[BankNS]
	default: // FieldVPR
		return s.VPR
	}
}

func (e *Evaluator) storeField(f ir.Field, v uint32) {
	s := e.state
	switch f {
	case ir.FieldZF:
		s.ZF = v
	case ir.FieldNF:
		s.NF = v
	case ir.FieldCF:
		s.CF = v
	case ir.FieldVF:
		s.VF = v
	case ir.FieldFPSID:
		s.FPSID = v
	case ir.FieldFPEXC:
		s.FPEXC = v
	case ir.FieldFPINST:
		s.FPINST = v
	case ir.FieldFPINST2:
		s.FPINST2 = v
	case ir.FieldMVFR0:
		s.MVFR0 = v
	case ir.FieldMVFR1:
		s.MVFR1 = v
	case ir.FieldMVFR2:
		s.MVFR2 = v
	case ir.FieldFPCCRS:
		s.FPCCR[BankS] = v
	case ir.FieldFPCCRNS:
		s.FPCCR[BankNS] = v
	case ir.FieldControl:
		s.Control = v
	case ir.FieldFPDSCRS:
		s.FPDSCR[BankS] = v
	case ir.FieldFPDSCRNS:
		s.FPDSCR[BankNS] = v
	default: // FieldVPR
		s.VPR = v
	}
}
