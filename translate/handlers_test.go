package translate_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vfpsim/emu"
	"github.com/sarchlab/vfpsim/insts"
	"github.com/sarchlab/vfpsim/ir"
	"github.com/sarchlab/vfpsim/softfp"
	"github.com/sarchlab/vfpsim/translate"
)

func f32(v float32) uint32 { return math.Float32bits(v) }
func f64(v float64) uint64 { return math.Float64bits(v) }

var _ = Describe("Translation", func() {
	var (
		tr    *translate.Translator
		ctx   *translate.Context
		state *emu.State
	)

	BeforeEach(func() {
		tr = translate.NewTranslator()
		ctx = translate.NewContext(0x8000)
		state = emu.NewState()
	})

	run := func(inst *insts.Instruction) error {
		prog, ok := tr.Translate(ctx, inst)
		Expect(ok).To(BeTrue())
		return emu.NewEvaluator(state).Run(prog)
	}

	reject := func(inst *insts.Instruction) {
		_, ok := tr.Translate(ctx, inst)
		Expect(ok).To(BeFalse())
	}

	Describe("Data Processing", func() {
		It("should add single precision", func() {
			state.WriteS(1, f32(2.5))
			state.WriteS(2, f32(1.25))
			inst := &insts.Instruction{Op: insts.OpVADD, Prec: insts.Single,
				Vd: 0, Vn: 1, Vm: 2}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(3.75)))
		})

		It("should add double precision", func() {
			state.WriteD(1, f64(1.5))
			state.WriteD(2, f64(2.25))
			inst := &insts.Instruction{Op: insts.OpVADD, Prec: insts.Double,
				Vd: 0, Vn: 1, Vm: 2}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadD(0)).To(Equal(f64(3.75)))
		})

		It("should add half precision in the low slice", func() {
			state.WriteS(1, 0x3C00) // 1.0
			state.WriteS(2, 0x4000) // 2.0
			inst := &insts.Instruction{Op: insts.OpVADD, Prec: insts.Half,
				Vd: 0, Vn: 1, Vm: 2}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0) & 0xFFFF).To(Equal(uint32(0x4200))) // 3.0
		})

		It("should negate by flipping only the sign bit", func() {
			state.WriteS(1, f32(1.5))
			inst := &insts.Instruction{Op: insts.OpVNEG, Prec: insts.Single,
				Vd: 0, Vm: 1}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(-1.5)))
		})

		It("should take the absolute value of a NaN without trapping", func() {
			state.WriteS(1, 0xFFC00000)
			inst := &insts.Instruction{Op: insts.OpVABS, Prec: insts.Single,
				Vd: 0, Vm: 1}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(uint32(0x7FC00000)))
			Expect(state.GetFPSCR() & 0x9F).To(Equal(uint32(0)))
		})

		It("should accumulate with VMLA", func() {
			state.WriteS(0, f32(10))
			state.WriteS(1, f32(2))
			state.WriteS(2, f32(3))
			inst := &insts.Instruction{Op: insts.OpVMLA, Prec: insts.Single,
				Vd: 0, Vn: 1, Vm: 2}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(16)))
		})

		It("should negate both product and accumulator for VNMLA", func() {
			state.WriteS(0, f32(10))
			state.WriteS(1, f32(2))
			state.WriteS(2, f32(3))
			inst := &insts.Instruction{Op: insts.OpVNMLA, Prec: insts.Single,
				Vd: 0, Vn: 1, Vm: 2}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(-16)))
		})

		It("should fuse VFMA without intermediate rounding", func() {
			state.WriteS(0, f32(-1))
			state.WriteS(1, f32(1+0x1p-12))
			state.WriteS(2, f32(1+0x1p-12))
			inst := &insts.Instruction{Op: insts.OpVFMA, Prec: insts.Single,
				Vd: 0, Vn: 1, Vm: 2}

			Expect(run(inst)).To(Succeed())
			// (1+2^-12)^2 - 1 keeps the 2^-24 term only when fused.
			Expect(state.ReadS(0)).To(Equal(f32(0x1p-11 + 0x1p-24)))
		})

		It("should expand the immediate move encoding", func() {
			inst := &insts.Instruction{Op: insts.OpVMOVImm, Prec: insts.Single,
				Vd: 3, Imm: 0x70} // 1.0
			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(3)).To(Equal(f32(1.0)))
		})

		It("should iterate a short vector over the scratch banks", func() {
			ctx.VecLen = 2 // three elements
			for i := uint8(0); i < 3; i++ {
				state.WriteS(8+i, f32(float32(i+1)))
				state.WriteS(16+i, f32(10))
			}
			inst := &insts.Instruction{Op: insts.OpVADD, Prec: insts.Single,
				Vd: 24, Vn: 8, Vm: 16}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(24)).To(Equal(f32(11)))
			Expect(state.ReadS(25)).To(Equal(f32(12)))
			Expect(state.ReadS(26)).To(Equal(f32(13)))
		})

		It("should treat a bank-0 destination as scalar", func() {
			ctx.VecLen = 2
			state.WriteS(8, f32(1))
			state.WriteS(9, f32(7))
			state.WriteS(16, f32(2))
			inst := &insts.Instruction{Op: insts.OpVADD, Prec: insts.Single,
				Vd: 0, Vn: 8, Vm: 16}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(3)))
			Expect(state.ReadS(1)).To(Equal(uint32(0)))
		})

		It("should step by two and wrap inside the bank", func() {
			ctx.VecLen = 3
			ctx.VecStride = 1 // advance by two registers
			for i := uint8(0); i < 4; i++ {
				state.WriteS(8+2*i, f32(float32(i+1)))
				state.WriteS(16+2*i, f32(10))
			}
			inst := &insts.Instruction{Op: insts.OpVADD, Prec: insts.Single,
				Vd: 26, Vn: 8, Vm: 16}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(26)).To(Equal(f32(11)))
			Expect(state.ReadS(28)).To(Equal(f32(12)))
			Expect(state.ReadS(30)).To(Equal(f32(13)))
			// The fourth element wraps to the start of the bank.
			Expect(state.ReadS(24)).To(Equal(f32(14)))
		})

		It("should replicate a scalar source across the vector", func() {
			ctx.VecLen = 2
			state.WriteS(0, f32(2.5))
			inst := &insts.Instruction{Op: insts.OpVNEG, Prec: insts.Single,
				Vd: 8, Vm: 0}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(8)).To(Equal(f32(-2.5)))
			Expect(state.ReadS(9)).To(Equal(f32(-2.5)))
			Expect(state.ReadS(10)).To(Equal(f32(-2.5)))
		})
	})

	Describe("Compare", func() {
		It("should set ZC for equal operands", func() {
			state.WriteS(0, f32(1.0))
			state.WriteS(1, f32(1.0))
			inst := &insts.Instruction{Op: insts.OpVCMP, Prec: insts.Single,
				Vd: 0, Vm: 1}

			Expect(run(inst)).To(Succeed())
			Expect(state.FPSCR >> 28).To(Equal(uint32(0b0110)))
		})

		It("should set N for a less-than result", func() {
			state.WriteS(0, f32(1.0))
			state.WriteS(1, f32(2.0))
			inst := &insts.Instruction{Op: insts.OpVCMP, Prec: insts.Single,
				Vd: 0, Vm: 1}

			Expect(run(inst)).To(Succeed())
			Expect(state.FPSCR >> 28).To(Equal(uint32(0b1000)))
		})

		It("should compare against zero in the Z form", func() {
			state.WriteS(0, f32(-3.0))
			inst := &insts.Instruction{Op: insts.OpVCMP, Prec: insts.Single,
				Vd: 0, Z: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.FPSCR >> 28).To(Equal(uint32(0b1000)))
		})

		It("should reject a nonzero Vm in the zero-compare form", func() {
			reject(&insts.Instruction{Op: insts.OpVCMP, Prec: insts.Single,
				Vd: 0, Vm: 3, Z: true})
		})

		It("should keep a quiet NaN unsignaling without E", func() {
			state.WriteS(0, 0x7FC00000)
			state.WriteS(1, f32(1.0))
			inst := &insts.Instruction{Op: insts.OpVCMP, Prec: insts.Single,
				Vd: 0, Vm: 1}

			Expect(run(inst)).To(Succeed())
			Expect(state.FPSCR >> 28).To(Equal(uint32(0b0011)))
			Expect(state.GetFPSCR() & 1).To(Equal(uint32(0)))
		})

		It("should raise Invalid on a quiet NaN with E", func() {
			state.WriteS(0, 0x7FC00000)
			state.WriteS(1, f32(1.0))
			inst := &insts.Instruction{Op: insts.OpVCMP, Prec: insts.Single,
				Vd: 0, Vm: 1, E: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.GetFPSCR() & 1).To(Equal(uint32(1)))
		})
	})

	Describe("Conversions", func() {
		It("should widen single to double", func() {
			state.WriteS(2, f32(1.5))
			inst := &insts.Instruction{Op: insts.OpVCVT, Prec: insts.Single,
				Vd: 1, Vm: 2}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadD(1)).To(Equal(f64(1.5)))
		})

		It("should narrow double to single", func() {
			state.WriteD(2, f64(0.25))
			inst := &insts.Instruction{Op: insts.OpVCVT, Prec: insts.Double,
				Vd: 1, Vm: 2}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(1)).To(Equal(f32(0.25)))
		})

		It("should convert a signed integer to float", func() {
			state.WriteS(2, uint32(0xFFFFFFFB)) // -5
			inst := &insts.Instruction{Op: insts.OpVCVTIntFP, Prec: insts.Single,
				Vd: 1, Vm: 2, Sign: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(1)).To(Equal(f32(-5)))
		})

		It("should convert float to integer rounding to zero", func() {
			state.WriteS(2, f32(-2.75))
			inst := &insts.Instruction{Op: insts.OpVCVTFPInt, Prec: insts.Single,
				Vd: 1, Vm: 2, Sign: true, RZ: true}

			Expect(run(inst)).To(Succeed())
			Expect(int32(state.ReadS(1))).To(Equal(int32(-2)))
		})

		It("should restore the rounding mode after a directed conversion", func() {
			state.WriteS(2, f32(2.5))
			inst := &insts.Instruction{Op: insts.OpVCVTRM, Prec: insts.Single,
				Vd: 1, Vm: 2, Sign: true, RM: 0} // ties away

			Expect(run(inst)).To(Succeed())
			Expect(int32(state.ReadS(1))).To(Equal(int32(3)))
			Expect(state.FPStatus[0].Rounding).To(Equal(softfp.RoundTieEven))
		})

		It("should round toward minus infinity with the M selector", func() {
			state.WriteS(2, f32(-1.5))
			inst := &insts.Instruction{Op: insts.OpVCVTRM, Prec: insts.Single,
				Vd: 1, Vm: 2, Sign: true, RM: 3}

			Expect(run(inst)).To(Succeed())
			Expect(int32(state.ReadS(1))).To(Equal(int32(-2)))
		})

		It("should convert float to fixed point in place", func() {
			state.WriteS(0, f32(2.5))
			inst := &insts.Instruction{Op: insts.OpVCVTFix, Prec: insts.Single,
				Vd: 0, Opc: 0b101, Imm: 16} // to signed 32-bit, 16 frac bits

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(uint32(0x00028000)))
		})

		It("should convert fixed point to float in place", func() {
			state.WriteS(0, 0x00028000)
			inst := &insts.Instruction{Op: insts.OpVCVTFix, Prec: insts.Single,
				Vd: 0, Opc: 0b001, Imm: 16}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(2.5)))
		})

		It("should saturate the Javascript conversion and report via Z", func() {
			state.WriteD(2, f64(3))
			inst := &insts.Instruction{Op: insts.OpVJCVT, Vd: 1, Vm: 2}

			Expect(run(inst)).To(Succeed())
			Expect(int32(state.ReadS(1))).To(Equal(int32(3)))
			Expect(state.FPSCR >> 28).To(Equal(uint32(0b0100)))
		})

		It("should reject the Javascript conversion without the feature", func() {
			f := translate.DefaultFeatures()
			f.JSCvt = false
			tr = translate.NewTranslator(translate.WithFeatures(f))
			reject(&insts.Instruction{Op: insts.OpVJCVT, Vd: 1, Vm: 2})
		})

		It("should convert through half precision in the top slice", func() {
			state.WriteS(2, f32(1.5))
			inst := &insts.Instruction{Op: insts.OpVCVTToF16, Prec: insts.Single,
				Vd: 1, Vm: 2, T: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(1) >> 16).To(Equal(uint32(0x3E00)))
		})
	})

	Describe("VSEL", func() {
		vsel := func(cond uint8) *insts.Instruction {
			return &insts.Instruction{Op: insts.OpVSEL, Prec: insts.Single,
				Vd: 0, Vn: 1, Vm: 2, Cond: cond}
		}

		BeforeEach(func() {
			state.WriteS(1, f32(111))
			state.WriteS(2, f32(222))
			state.ZF = 1 // Z clear
		})

		It("should pick n for eq when Z is set", func() {
			state.ZF = 0
			Expect(run(vsel(0))).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(111)))
		})

		It("should pick m for eq when Z is clear", func() {
			Expect(run(vsel(0))).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(222)))
		})

		It("should pick n for ge when N equals V", func() {
			state.NF = 1 << 31
			state.VF = 1 << 31
			Expect(run(vsel(2))).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(111)))
		})

		It("should pick m for gt when Z is set", func() {
			state.ZF = 0
			Expect(run(vsel(3))).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(222)))
		})

		It("should pick n for gt when Z is clear and N equals V", func() {
			Expect(run(vsel(3))).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(111)))
		})
	})

	Describe("Register Moves", func() {
		It("should move a single register to a GP register", func() {
			state.WriteS(3, 0xCAFEBABE)
			inst := &insts.Instruction{Op: insts.OpVMOVSingleGP, Vn: 3, Rt: 5, L: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.GPR[5]).To(Equal(uint32(0xCAFEBABE)))
		})

		It("should move two GP registers into a double", func() {
			state.GPR[2] = 0x11111111
			state.GPR[3] = 0x22222222
			inst := &insts.Instruction{Op: insts.OpVMOV64DP, Vm: 4, Rt: 2, Rt2: 3}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadD(4)).To(Equal(uint64(0x22222222_11111111)))
		})

		It("should sign-extend a signed byte lane extract", func() {
			state.WriteD(0, 0x00000000_000000F0)
			inst := &insts.Instruction{Op: insts.OpVMOVToGP, Vn: 0, Rt: 1,
				Size: 1, Index: 0}

			Expect(run(inst)).To(Succeed())
			Expect(int32(state.GPR[1])).To(Equal(int32(-16)))
		})

		It("should zero-extend an unsigned byte lane extract", func() {
			state.WriteD(0, 0x00000000_000000F0)
			inst := &insts.Instruction{Op: insts.OpVMOVToGP, Vn: 0, Rt: 1,
				Size: 1, Index: 0, U: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.GPR[1]).To(Equal(uint32(0xF0)))
		})

		It("should duplicate a GP register across word lanes", func() {
			state.GPR[2] = 0xA5A5A5A5
			inst := &insts.Instruction{Op: insts.OpVDUP, Vn: 6, Rt: 2}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadD(6)).To(Equal(uint64(0xA5A5A5A5_A5A5A5A5)))
		})

		It("should insert into the top half with VINS", func() {
			state.WriteS(1, 0x0000BEEF)
			state.WriteS(0, 0x12345678)
			inst := &insts.Instruction{Op: insts.OpVINS, Vd: 0, Vm: 1}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(uint32(0xBEEF5678)))
		})

		It("should extract the top half and clear with VMOVX", func() {
			state.WriteS(1, 0xBEEF5678)
			state.WriteS(0, 0xFFFFFFFF)
			inst := &insts.Instruction{Op: insts.OpVMOVX, Vd: 0, Vm: 1}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(uint32(0x0000BEEF)))
		})
	})

	Describe("Loads and Stores", func() {
		It("should load a single register with a positive offset", func() {
			state.GPR[1] = 0x1000
			state.Mem.Write32(0x1008, f32(6.5))
			inst := &insts.Instruction{Op: insts.OpVLDRVSTR, Prec: insts.Single,
				Vd: 3, Rn: 1, Imm: 2, L: true, U: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(3)).To(Equal(f32(6.5)))
		})

		It("should store a double with a negative offset", func() {
			state.GPR[1] = 0x1010
			state.WriteD(2, f64(9.25))
			inst := &insts.Instruction{Op: insts.OpVLDRVSTR, Prec: insts.Double,
				Vd: 2, Rn: 1, Imm: 2}

			Expect(run(inst)).To(Succeed())
			Expect(state.Mem.Read64(0x1008)).To(Equal(f64(9.25)))
		})

		It("should use a halfword access for the half-precision form", func() {
			state.GPR[1] = 0x2000
			state.Mem.Write(0x2002, 2, 0x3C00)
			inst := &insts.Instruction{Op: insts.OpVLDRVSTR, Prec: insts.Half,
				Vd: 0, Rn: 1, Imm: 1, L: true, U: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(uint32(0x3C00)))
		})

		It("should align a PC-relative base", func() {
			ctx = translate.NewContext(0x8002)
			state.Mem.Write32(0x800C, f32(4.0))
			inst := &insts.Instruction{Op: insts.OpVLDRVSTR, Prec: insts.Single,
				Vd: 0, Rn: 15, Imm: 1, L: true, U: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(f32(4.0)))
		})

		It("should load a register list and write back", func() {
			state.GPR[1] = 0x1000
			state.Mem.Write32(0x1000, f32(1))
			state.Mem.Write32(0x1004, f32(2))
			inst := &insts.Instruction{Op: insts.OpVLDMVSTM, Prec: insts.Single,
				Vd: 4, Rn: 1, Imm: 2, L: true, U: true, W: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(4)).To(Equal(f32(1)))
			Expect(state.ReadS(5)).To(Equal(f32(2)))
			Expect(state.GPR[1]).To(Equal(uint32(0x1008)))
		})

		It("should pre-decrement for the DB form", func() {
			state.GPR[13] = 0x1008
			state.WriteS(4, f32(1))
			state.WriteS(5, f32(2))
			inst := &insts.Instruction{Op: insts.OpVLDMVSTM, Prec: insts.Single,
				Vd: 4, Rn: 13, Imm: 2, P: true, W: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.Mem.Read32(0x1000)).To(Equal(f32(1)))
			Expect(state.Mem.Read32(0x1004)).To(Equal(f32(2)))
			Expect(state.GPR[13]).To(Equal(uint32(0x1000)))
		})

		It("should write back the trailing word of the odd double form", func() {
			state.GPR[1] = 0x1000
			state.Mem.Write64(0x1000, f64(5))
			inst := &insts.Instruction{Op: insts.OpVLDMVSTM, Prec: insts.Double,
				Vd: 2, Rn: 1, Imm: 3, L: true, U: true, W: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadD(2)).To(Equal(f64(5)))
			Expect(state.GPR[1]).To(Equal(uint32(0x100C)))
		})

		It("should reject an empty register list", func() {
			reject(&insts.Instruction{Op: insts.OpVLDMVSTM, Prec: insts.Single,
				Vd: 4, Rn: 1, Imm: 0, L: true, U: true})
		})

		It("should reject a list running past the register file", func() {
			reject(&insts.Instruction{Op: insts.OpVLDMVSTM, Prec: insts.Single,
				Vd: 30, Rn: 1, Imm: 4, L: true, U: true})
		})

		It("should round-trip a double through memory", func() {
			state.GPR[1] = 0x3000
			state.WriteD(4, f64(-3.5))
			store := &insts.Instruction{Op: insts.OpVLDRVSTR, Prec: insts.Double,
				Vd: 4, Rn: 1, Imm: 1, U: true}
			load := &insts.Instruction{Op: insts.OpVLDRVSTR, Prec: insts.Double,
				Vd: 5, Rn: 1, Imm: 1, L: true, U: true}

			Expect(run(store)).To(Succeed())
			Expect(run(load)).To(Succeed())
			Expect(state.ReadD(5)).To(Equal(f64(-3.5)))
		})

		It("should trap before writing below the stack limit", func() {
			tr = translate.NewTranslator(
				translate.WithFeatures(mProfileFeatures()))
			state.GPR[13] = 0x3000
			state.StackLimit = 0x3000
			state.WriteS(4, f32(1))
			inst := &insts.Instruction{Op: insts.OpVLDMVSTM, Prec: insts.Single,
				Vd: 4, Rn: 13, Imm: 2, P: true, W: true}

			err := run(inst)
			var trap *emu.Trap
			Expect(errors.As(err, &trap)).To(BeTrue())
			Expect(trap.Exc).To(Equal(ir.ExcStackOverflow))
			// Nothing lands below the limit and the base is untouched.
			Expect(state.Mem.Read32(0x2FF8)).To(Equal(uint32(0)))
			Expect(state.Mem.Read32(0x2FFC)).To(Equal(uint32(0)))
			Expect(state.GPR[13]).To(Equal(uint32(0x3000)))
		})
	})

	Describe("Big-Endian Half Slices", func() {
		BeforeEach(func() {
			f := translate.DefaultFeatures()
			f.BigEndian = true
			tr = translate.NewTranslator(translate.WithFeatures(f))
		})

		It("should add halves taken from the flipped slice", func() {
			state.WriteS(1, 0x3C000000) // 1.0 in the arithmetic slice
			state.WriteS(2, 0x40000000) // 2.0
			inst := &insts.Instruction{Op: insts.OpVADD, Prec: insts.Half,
				Vd: 0, Vn: 1, Vm: 2}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0) >> 16).To(Equal(uint32(0x4200))) // 3.0
		})

		It("should keep VMOVX on the opposite slice", func() {
			state.WriteS(1, 0xBEEF5678)
			inst := &insts.Instruction{Op: insts.OpVMOVX, Vd: 0, Vm: 1}

			Expect(run(inst)).To(Succeed())
			Expect(state.ReadS(0)).To(Equal(uint32(0x56780000)))
		})
	})

	Describe("Access Gate", func() {
		It("should raise Undefined when FP is disabled", func() {
			ctx.VFPEnabled = false
			inst := &insts.Instruction{Op: insts.OpVADD, Prec: insts.Single,
				Vd: 0, Vn: 1, Vm: 2}

			err := run(inst)
			var trap *emu.Trap
			Expect(err).To(HaveOccurred())
			Expect(errors.As(err, &trap)).To(BeTrue())
			Expect(trap.Exc).To(Equal(ir.ExcUndefined))
		})

		It("should read ID registers with FP disabled", func() {
			f := translate.DefaultFeatures()
			f.User = false
			tr = translate.NewTranslator(translate.WithFeatures(f))
			ctx.VFPEnabled = false
			state.FPSID = 0x41034000
			inst := &insts.Instruction{Op: insts.OpVMSRVMRS,
				Reg: insts.RegFPSID, Rt: 2, L: true}

			Expect(run(inst)).To(Succeed())
			Expect(state.GPR[2]).To(Equal(uint32(0x41034000)))
		})

		It("should prioritize the trap over the enable bit", func() {
			ctx.FPExcpEL = 1
			ctx.VFPEnabled = false
			inst := &insts.Instruction{Op: insts.OpVADD, Prec: insts.Single,
				Vd: 0, Vn: 1, Vm: 2}

			err := run(inst)
			var trap *emu.Trap
			Expect(errors.As(err, &trap)).To(BeTrue())
			Expect(trap.Exc).To(Equal(ir.ExcUndefined))
		})
	})
})
