package riscv_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vfpsim/ir"
	"github.com/sarchlab/vfpsim/riscv"
	"github.com/sarchlab/vfpsim/translate"
)

// system encodes a SYSTEM-space word with rd = rs1 = 0.
func system(funct12 uint32) uint32 {
	return funct12<<20 | 0b1110011
}

// fence encodes a funct7-selected fence word.
func fence(funct7 uint32, rs2, rs1 uint8) uint32 {
	return funct7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | 0b1110011
}

var _ = Describe("Decoder", func() {
	var d *riscv.Decoder

	BeforeEach(func() {
		d = riscv.NewDecoder()
	})

	It("should decode the funct12 forms", func() {
		Expect(d.Decode(system(0x000)).Op).To(Equal(riscv.OpECALL))
		Expect(d.Decode(system(0x001)).Op).To(Equal(riscv.OpEBREAK))
		Expect(d.Decode(system(0x002)).Op).To(Equal(riscv.OpURET))
		Expect(d.Decode(system(0x102)).Op).To(Equal(riscv.OpSRET))
		Expect(d.Decode(system(0x302)).Op).To(Equal(riscv.OpMRET))
		Expect(d.Decode(system(0x105)).Op).To(Equal(riscv.OpWFI))
	})

	It("should decode sfence.vma with its register fields", func() {
		inst := d.Decode(fence(0b0001001, 7, 3))
		Expect(inst.Op).To(Equal(riscv.OpSFENCEVMA))
		Expect(inst.Rs1).To(Equal(uint8(3)))
		Expect(inst.Rs2).To(Equal(uint8(7)))
	})

	It("should decode the hypervisor fences", func() {
		Expect(d.Decode(fence(0b0010001, 0, 0)).Op).
			To(Equal(riscv.OpHFENCEBVMA))
		Expect(d.Decode(fence(0b0110001, 1, 2)).Op).
			To(Equal(riscv.OpHFENCEGVMA))
	})

	It("should decode the legacy sfence.vm with a nonzero rs1", func() {
		inst := d.Decode(system(0x104) | 5<<15)
		Expect(inst.Op).To(Equal(riscv.OpSFENCEVM))
		Expect(inst.Rs1).To(Equal(uint8(5)))
	})

	It("should not claim words outside the privileged space", func() {
		// csrrw x0, mtvec, x5 has funct3 = 001.
		Expect(d.Decode(0x30529073).Op).To(Equal(riscv.OpUnknown))
		// ecall-like word with a nonzero rd.
		Expect(d.Decode(system(0x000) | 1<<7).Op).To(Equal(riscv.OpUnknown))
		// wfi-like word with a nonzero rs1.
		Expect(d.Decode(system(0x105) | 1<<15).Op).To(Equal(riscv.OpUnknown))
		// An arithmetic word.
		Expect(d.Decode(0x003100B3).Op).To(Equal(riscv.OpUnknown))
	})
})

var _ = Describe("Translation", func() {
	var (
		d   *riscv.Decoder
		tr  *riscv.Translator
		ctx *riscv.Context
	)

	BeforeEach(func() {
		d = riscv.NewDecoder()
		tr = riscv.NewTranslator()
		ctx = riscv.NewContext(0x8000_0100)
	})

	translateWord := func(word uint32) *ir.Program {
		prog, ok := tr.Translate(ctx, d.Decode(word))
		Expect(ok).To(BeTrue())
		return prog
	}

	raised := func(prog *ir.Program) ir.Exception {
		for _, op := range prog.Ops {
			if op.Kind == ir.OpRaise {
				return op.Exc
			}
		}
		Fail("program raises no exception")
		return 0
	}

	called := func(prog *ir.Program) (ir.Op, bool) {
		for _, op := range prog.Ops {
			if op.Kind == ir.OpCall {
				return op, true
			}
		}
		return ir.Op{}, false
	}

	It("should raise an environment call for ecall", func() {
		prog := translateWord(system(0x000))
		Expect(raised(prog)).To(Equal(ir.ExcEnvCall))
		Expect(ctx.EndReason).To(Equal(translate.EndExit))
	})

	It("should raise a breakpoint for ebreak", func() {
		prog := translateWord(system(0x001))
		Expect(raised(prog)).To(Equal(ir.ExcBreakpoint))
		Expect(ctx.EndReason).To(Equal(translate.EndExit))
	})

	It("should not handle uret", func() {
		_, ok := tr.Translate(ctx, d.Decode(system(0x002)))
		Expect(ok).To(BeFalse())
	})

	It("should call the supervisor return helper for sret", func() {
		prog := translateWord(system(0x102))
		call, found := called(prog)
		Expect(found).To(BeTrue())
		Expect(call.Helper).To(Equal(ir.HelperSRet))
		Expect(ctx.EndReason).To(Equal(translate.EndExit))
	})

	It("should make sret illegal without supervisor mode", func() {
		tr = riscv.NewTranslator(riscv.WithFeatures(riscv.Features{}))
		prog := translateWord(system(0x102))
		Expect(raised(prog)).To(Equal(ir.ExcUndefined))
	})

	It("should call the machine return helper for mret", func() {
		prog := translateWord(system(0x302))
		call, found := called(prog)
		Expect(found).To(BeTrue())
		Expect(call.Helper).To(Equal(ir.HelperMRet))
		Expect(ctx.EndReason).To(Equal(translate.EndExit))
	})

	It("should pass the advanced PC to the wait helper for wfi", func() {
		prog := translateWord(system(0x105))
		call, found := called(prog)
		Expect(found).To(BeTrue())
		Expect(call.Helper).To(Equal(ir.HelperWFI))

		var next ir.Temp = ir.NoTemp
		for _, op := range prog.Ops {
			if op.Kind == ir.OpConst && op.Imm == 0x8000_0104 {
				next = op.Dst
			}
		}
		Expect(next).NotTo(Equal(ir.NoTemp))
		Expect(call.A).To(Equal(next))
		Expect(ctx.EndReason).To(Equal(translate.EndExit))
	})

	It("should flush translations for sfence.vma", func() {
		prog := translateWord(fence(0b0001001, 0, 0))
		call, found := called(prog)
		Expect(found).To(BeTrue())
		Expect(call.Helper).To(Equal(ir.HelperTLBFlush))
		Expect(ctx.EndReason).To(Equal(translate.EndLookup))
	})

	It("should make sfence.vma illegal without supervisor mode", func() {
		tr = riscv.NewTranslator(riscv.WithFeatures(riscv.Features{}))
		prog := translateWord(fence(0b0001001, 0, 0))
		Expect(raised(prog)).To(Equal(ir.ExcUndefined))
	})

	It("should not handle the legacy sfence.vm", func() {
		_, ok := tr.Translate(ctx, d.Decode(system(0x104)))
		Expect(ok).To(BeFalse())
	})

	It("should gate the hypervisor fences on the extension", func() {
		_, ok := tr.Translate(ctx, d.Decode(fence(0b0110001, 0, 0)))
		Expect(ok).To(BeFalse())

		tr = riscv.NewTranslator(riscv.WithFeatures(riscv.Features{
			Supervisor: true,
			Hypervisor: true,
		}))
		prog := translateWord(fence(0b0110001, 0, 0))
		call, found := called(prog)
		Expect(found).To(BeTrue())
		Expect(call.Helper).To(Equal(ir.HelperTLBFlush))
		Expect(ctx.EndReason).To(Equal(translate.EndLookup))
	})
})
