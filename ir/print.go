package ir

import (
	"fmt"
	"io"
	"strings"
)

// String names the condition in lower case.
func (c Cond) String() string {
	switch c {
	case CondEQ:
		return "eq"
	case CondNE:
		return "ne"
	case CondLT:
		return "lt"
	case CondGE:
		return "ge"
	case CondGT:
		return "gt"
	case CondLE:
		return "le"
	case CondLTU:
		return "ltu"
	case CondGEU:
		return "geu"
	}
	return fmt.Sprintf("cond(%d)", uint8(c))
}

// String names the state field.
func (f Field) String() string {
	names := [...]string{
		FieldZF:       "zf",
		FieldNF:       "nf",
		FieldCF:       "cf",
		FieldVF:       "vf",
		FieldFPSID:    "fpsid",
		FieldFPEXC:    "fpexc",
		FieldFPINST:   "fpinst",
		FieldFPINST2:  "fpinst2",
		FieldMVFR0:    "mvfr0",
		FieldMVFR1:    "mvfr1",
		FieldMVFR2:    "mvfr2",
		FieldFPCCRS:   "fpccr_s",
		FieldFPCCRNS:  "fpccr_ns",
		FieldControl:  "control",
		FieldFPDSCRS:  "fpdscr_s",
		FieldFPDSCRNS: "fpdscr_ns",
		FieldVPR:      "vpr",
	}
	if int(f) < len(names) && names[f] != "" {
		return names[f]
	}
	return fmt.Sprintf("field(%d)", uint8(f))
}

// String names the exception.
func (e Exception) String() string {
	switch e {
	case ExcUndefined:
		return "undefined"
	case ExcNOCP:
		return "nocp"
	case ExcStackOverflow:
		return "stack_overflow"
	case ExcEnvCall:
		return "env_call"
	case ExcBreakpoint:
		return "breakpoint"
	}
	return fmt.Sprintf("exc(%d)", uint8(e))
}

var helperNames = map[Helper]string{
	HelperAddH:            "add_h",
	HelperAddS:            "add_s",
	HelperAddD:            "add_d",
	HelperSubH:            "sub_h",
	HelperSubS:            "sub_s",
	HelperSubD:            "sub_d",
	HelperMulH:            "mul_h",
	HelperMulS:            "mul_s",
	HelperMulD:            "mul_d",
	HelperDivH:            "div_h",
	HelperDivS:            "div_s",
	HelperDivD:            "div_d",
	HelperSqrtH:           "sqrt_h",
	HelperSqrtS:           "sqrt_s",
	HelperSqrtD:           "sqrt_d",
	HelperMinNumH:         "minnum_h",
	HelperMinNumS:         "minnum_s",
	HelperMinNumD:         "minnum_d",
	HelperMaxNumH:         "maxnum_h",
	HelperMaxNumS:         "maxnum_s",
	HelperMaxNumD:         "maxnum_d",
	HelperMulAddH:         "muladd_h",
	HelperMulAddS:         "muladd_s",
	HelperMulAddD:         "muladd_d",
	HelperCmpH:            "cmp_h",
	HelperCmpS:            "cmp_s",
	HelperCmpD:            "cmp_d",
	HelperCmpEH:           "cmpe_h",
	HelperCmpES:           "cmpe_s",
	HelperCmpED:           "cmpe_d",
	HelperRintH:           "rint_h",
	HelperRintS:           "rint_s",
	HelperRintD:           "rint_d",
	HelperRintXH:          "rintx_h",
	HelperRintXS:          "rintx_s",
	HelperRintXD:          "rintx_d",
	HelperCvtF16F32:       "cvt_f16_f32",
	HelperCvtF32F16:       "cvt_f32_f16",
	HelperCvtF16F64:       "cvt_f16_f64",
	HelperCvtF64F16:       "cvt_f64_f16",
	HelperCvtF32F64:       "cvt_f32_f64",
	HelperCvtF64F32:       "cvt_f64_f32",
	HelperSitoH:           "sito_h",
	HelperSitoS:           "sito_s",
	HelperSitoD:           "sito_d",
	HelperUitoH:           "uito_h",
	HelperUitoS:           "uito_s",
	HelperUitoD:           "uito_d",
	HelperTosiH:           "tosi_h",
	HelperTosiS:           "tosi_s",
	HelperTosiD:           "tosi_d",
	HelperTouiH:           "toui_h",
	HelperTouiS:           "toui_s",
	HelperTouiD:           "toui_d",
	HelperCvtFixH:         "cvt_fix_h",
	HelperCvtFixS:         "cvt_fix_s",
	HelperCvtFixD:         "cvt_fix_d",
	HelperVJCVT:           "vjcvt",
	HelperSetRmode:        "set_rmode",
	HelperGetFPSCR:        "get_fpscr",
	HelperSetFPSCR:        "set_fpscr",
	HelperPreserveFPState: "preserve_fp_state",
	HelperVLSTM:           "vlstm",
	HelperVLLDM:           "vlldm",
	HelperStackCheck:      "stack_check",
	HelperSRet:            "sret",
	HelperMRet:            "mret",
	HelperWFI:             "wfi",
	HelperTLBFlush:        "tlb_flush",
}

// String names the helper routine.
func (h Helper) String() string {
	if name, ok := helperNames[h]; ok {
		return name
	}
	return fmt.Sprintf("helper(%d)", uint16(h))
}

func tempName(t Temp) string {
	if t == NoTemp {
		return "_"
	}
	return fmt.Sprintf("t%d", t)
}

// String renders the op in a compact assembly-like form.
func (op Op) String() string {
	d := tempName(op.Dst)
	a := tempName(op.A)
	b := tempName(op.B)

	switch op.Kind {
	case OpNop:
		return "nop"
	case OpConst:
		return fmt.Sprintf("%s = 0x%x", d, op.Imm)
	case OpMov:
		return fmt.Sprintf("%s = %s", d, a)
	case OpAnd:
		return fmt.Sprintf("%s = %s & %s", d, a, b)
	case OpOr:
		return fmt.Sprintf("%s = %s | %s", d, a, b)
	case OpXor:
		return fmt.Sprintf("%s = %s ^ %s", d, a, b)
	case OpAdd:
		return fmt.Sprintf("%s = %s + %s", d, a, b)
	case OpSub:
		return fmt.Sprintf("%s = %s - %s", d, a, b)
	case OpAndImm:
		return fmt.Sprintf("%s = %s & 0x%x", d, a, op.Imm)
	case OpOrImm:
		return fmt.Sprintf("%s = %s | 0x%x", d, a, op.Imm)
	case OpXorImm:
		return fmt.Sprintf("%s = %s ^ 0x%x", d, a, op.Imm)
	case OpAddImm:
		return fmt.Sprintf("%s = %s + 0x%x", d, a, op.Imm)
	case OpShlImm:
		return fmt.Sprintf("%s = %s << %d", d, a, op.Imm)
	case OpShrImm:
		return fmt.Sprintf("%s = %s >> %d", d, a, op.Imm)
	case OpSarImm:
		return fmt.Sprintf("%s = %s >>s %d", d, a, op.Imm)
	case OpDeposit:
		return fmt.Sprintf("%s = deposit %s, %s, pos=%d, len=%d",
			d, a, b, op.DepositPos, op.DepositLen)
	case OpMovCond:
		return fmt.Sprintf("%s = %s %s %s ? %s : %s",
			d, a, op.Cond, b, tempName(op.C), tempName(op.D))
	case OpSetLabel:
		return fmt.Sprintf("L%d:", op.Label)
	case OpBr:
		return fmt.Sprintf("br L%d", op.Label)
	case OpBrCondImm:
		return fmt.Sprintf("br L%d if %s %s 0x%x",
			op.Label, a, op.Cond, op.Imm)
	case OpLoadField:
		return fmt.Sprintf("%s = %s", d, op.Field)
	case OpStoreField:
		return fmt.Sprintf("%s = %s", op.Field, a)
	case OpLoadVReg:
		return fmt.Sprintf("%s = vreg[%d]:%d", d, op.Imm, op.Width)
	case OpStoreVReg:
		return fmt.Sprintf("vreg[%d]:%d = %s", op.Imm, op.Width, a)
	case OpLoadGPR:
		return fmt.Sprintf("%s = r%d", d, op.Imm)
	case OpStoreGPR:
		return fmt.Sprintf("r%d = %s", op.Imm, a)
	case OpLoadMem:
		return fmt.Sprintf("%s = mem[%s]:%d", d, a, op.Width)
	case OpStoreMem:
		return fmt.Sprintf("mem[%s]:%d = %s", a, op.Width, b)
	case OpFPStatus:
		return fmt.Sprintf("%s = fpstatus[%d]", d, op.Imm)
	case OpCall:
		args := make([]string, 0, 3)
		for _, t := range []Temp{op.A, op.B, op.C} {
			if t != NoTemp {
				args = append(args, tempName(t))
			}
		}
		s := fmt.Sprintf("%s = call %s(%s)", d, op.Helper,
			strings.Join(args, ", "))
		if op.D != NoTemp {
			s += " status " + tempName(op.D)
		}
		return s
	case OpRaise:
		return fmt.Sprintf("raise %s", op.Exc)
	}
	return fmt.Sprintf("op(%d)", uint8(op.Kind))
}

// Fprint writes the program to w, one op per line.
func Fprint(w io.Writer, p *Program) error {
	for i, op := range p.Ops {
		if _, err := fmt.Fprintf(w, "%3d: %s\n", i, op.String()); err != nil {
			return err
		}
	}
	return nil
}
