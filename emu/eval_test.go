package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vfpsim/emu"
	"github.com/sarchlab/vfpsim/ir"
	"github.com/sarchlab/vfpsim/softfp"
)

var _ = Describe("Evaluator", func() {
	var (
		state *emu.State
		ev    *emu.Evaluator
		b     *ir.Builder
	)

	BeforeEach(func() {
		state = emu.NewState()
		ev = emu.NewEvaluator(state)
		b = ir.NewBuilder()
	})

	It("should run straight-line arithmetic", func() {
		t := b.Const32(40)
		b.AddImm(t, t, 2)
		b.StoreGPR(0, t)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(state.GPR[0]).To(Equal(uint32(42)))
	})

	It("should wrap 32-bit temps", func() {
		t := b.Const32(0xFFFFFFFF)
		b.AddImm(t, t, 1)
		b.StoreGPR(1, t)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(state.GPR[1]).To(Equal(uint32(0)))
	})

	It("should execute a counted loop", func() {
		count := b.Const32(5)
		sum := b.Const32(0)
		top := b.NewLabel()
		b.SetLabel(top)
		b.Add(sum, sum, count)
		b.AddImm(count, count, 0xFFFFFFFF)
		b.BrCondImm(ir.CondNE, count, 0, top)
		b.StoreGPR(2, sum)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(state.GPR[2]).To(Equal(uint32(15)))
	})

	It("should deposit a bit field", func() {
		base := b.Const32(0xFFFF0000)
		src := b.Const32(0xAB)
		b.Deposit(base, base, src, 8, 8)
		b.StoreGPR(3, base)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(state.GPR[3]).To(Equal(uint32(0xFFFFAB00)))
	})

	It("should select with a signed condition", func() {
		a := b.Const32(0x80000000) // negative as int32
		zero := b.Const32(0)
		yes := b.Const32(1)
		no := b.Const32(2)
		dst := b.NewTemp32()
		b.MovCond(ir.CondLT, dst, a, zero, yes, no)
		b.StoreGPR(4, dst)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(state.GPR[4]).To(Equal(uint32(1)))
	})

	It("should access the FP register file by byte offset", func() {
		state.WriteS(1, 0xAABBCCDD)

		t := b.NewTemp32()
		b.LoadVReg16(t, 4+2) // top half of S1
		b.StoreGPR(5, t)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(state.GPR[5]).To(Equal(uint32(0xAABB)))
	})

	It("should store a 16-bit slice without touching neighbors", func() {
		state.WriteS(0, 0x11223344)

		t := b.Const32(0xBEEF)
		b.StoreVReg16(2, t)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(state.ReadS(0)).To(Equal(uint32(0xBEEF3344)))
	})

	It("should read and write memory", func() {
		state.Mem.Write32(0x100, 7)

		addr := b.Const32(0x100)
		t := b.NewTemp32()
		b.LoadMem(t, addr, 4)
		b.AddImm(t, t, 1)
		b.StoreMem(addr, t, 4)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(state.Mem.Read32(0x100)).To(Equal(uint32(8)))
	})

	It("should call float helpers through a status handle", func() {
		state.WriteS(0, math.Float32bits(1.5))
		state.WriteS(1, math.Float32bits(2.5))

		fpst := b.FPStatus(ir.FlavorFPCR)
		va := b.NewTemp32()
		vb := b.NewTemp32()
		b.LoadVReg32(va, 0)
		b.LoadVReg32(vb, 4)
		dst := b.NewTemp32()
		b.Call(ir.HelperAddS, dst, fpst, va, vb)
		b.StoreVReg32(8, dst)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(math.Float32frombits(state.ReadS(2))).To(Equal(float32(4.0)))
	})

	It("should swap the rounding mode through the helper", func() {
		fpst := b.FPStatus(ir.FlavorFPCR)
		mode := b.Const32(uint32(ir.RoundUp))
		old := b.NewTemp32()
		b.Call(ir.HelperSetRmode, old, fpst, mode)
		b.StoreGPR(6, old)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(state.GPR[6]).To(Equal(uint32(0)))
		Expect(state.FPStatus[0].Rounding).To(Equal(softfp.RoundUp))
	})

	It("should set comparison flags in FPSCR", func() {
		state.WriteD(0, math.Float64bits(1))
		state.WriteD(1, math.Float64bits(2))

		fpst := b.FPStatus(ir.FlavorFPCR)
		va := b.NewTemp64()
		vb := b.NewTemp64()
		b.LoadVReg64(va, 0)
		b.LoadVReg64(vb, 8)
		b.Call(ir.HelperCmpD, ir.NoTemp, fpst, va, vb)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(state.FPSCR >> 28).To(Equal(uint32(0b1000)))
	})

	It("should surface raised exceptions as traps", func() {
		b.Raise(ir.ExcNOCP)

		err := ev.Run(b.Program())
		var trap *emu.Trap
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(trap))
		Expect(err.(*emu.Trap).Exc).To(Equal(ir.ExcNOCP))
	})

	It("should clear lazy preservation state via the drain helper", func() {
		state.FPCCR[emu.BankS] = emu.FPCCRLSPACT | emu.FPCCRASPEN

		b.Call(ir.HelperPreserveFPState, ir.NoTemp, ir.NoTemp)

		Expect(ev.Run(b.Program())).To(Succeed())
		Expect(state.FPCCR[emu.BankS] & emu.FPCCRLSPACT).To(BeZero())
		Expect(state.FPCCR[emu.BankS] & emu.FPCCRASPEN).ToNot(BeZero())
	})
})
