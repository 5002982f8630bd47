package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vfpsim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Data Processing - Three Register", func() {
		// VADD.F32 S0, S1, S2 -> 0xEE300A81
		// Encoding: cond=1110, o1=011, Vn=0000 N=1, Vd=0000 D=0, sz=10, Vm=0001 M=0
		It("should decode VADD.F32 S0, S1, S2", func() {
			inst := decoder.Decode(0xEE300A81)

			Expect(inst.Op).To(Equal(insts.OpVADD))
			Expect(inst.Prec).To(Equal(insts.Single))
			Expect(inst.Vd).To(Equal(uint8(0)))
			Expect(inst.Vn).To(Equal(uint8(1)))
			Expect(inst.Vm).To(Equal(uint8(2)))
		})

		// VSUB.F32 S0, S1, S2 -> 0xEE300AC1 (op bit set)
		It("should decode VSUB.F32 S0, S1, S2", func() {
			inst := decoder.Decode(0xEE300AC1)

			Expect(inst.Op).To(Equal(insts.OpVSUB))
			Expect(inst.Prec).To(Equal(insts.Single))
		})

		// VMUL.F64 D2, D1, D0 -> 0xEE212B00
		It("should decode VMUL.F64 D2, D1, D0", func() {
			inst := decoder.Decode(0xEE212B00)

			Expect(inst.Op).To(Equal(insts.OpVMUL))
			Expect(inst.Prec).To(Equal(insts.Double))
			Expect(inst.Vd).To(Equal(uint8(2)))
			Expect(inst.Vn).To(Equal(uint8(1)))
			Expect(inst.Vm).To(Equal(uint8(0)))
		})

		// VADD.F16 S0, S1, S2 -> 0xEE300981 (sz=01)
		It("should decode VADD.F16 with the half-precision size", func() {
			inst := decoder.Decode(0xEE300981)

			Expect(inst.Op).To(Equal(insts.OpVADD))
			Expect(inst.Prec).To(Equal(insts.Half))
		})

		// VMLA.F32 S0, S1, S2 -> 0xEE000A81 (o1=000, op=0)
		It("should decode VMLA.F32", func() {
			inst := decoder.Decode(0xEE000A81)
			Expect(inst.Op).To(Equal(insts.OpVMLA))
		})

		// VNMLA.F32 S0, S1, S2 -> 0xEE100AC1 (o1=001, op=1)
		It("should decode VNMLA.F32", func() {
			inst := decoder.Decode(0xEE100AC1)
			Expect(inst.Op).To(Equal(insts.OpVNMLA))
		})

		// VDIV.F64 D0, D1, D2 -> 0xEE810B02 (o1=100)
		It("should decode VDIV.F64 D0, D1, D2", func() {
			inst := decoder.Decode(0xEE810B02)

			Expect(inst.Op).To(Equal(insts.OpVDIV))
			Expect(inst.Prec).To(Equal(insts.Double))
			Expect(inst.Vn).To(Equal(uint8(1)))
			Expect(inst.Vm).To(Equal(uint8(2)))
		})

		// VFMA.F32 S0, S1, S2 -> 0xEEA00A81 (o1=110, op=0)
		It("should decode VFMA.F32", func() {
			inst := decoder.Decode(0xEEA00A81)
			Expect(inst.Op).To(Equal(insts.OpVFMA))
		})

		// VFNMS.F32 S0, S1, S2 -> 0xEE900A81 (o1=101, op=0)
		It("should decode VFNMS.F32", func() {
			inst := decoder.Decode(0xEE900A81)
			Expect(inst.Op).To(Equal(insts.OpVFNMS))
		})
	})

	Describe("Data Processing - Two Register", func() {
		// VABS.F32 S4, S8 -> 0xEEB02AC4 (opc2=0000, opc3=11)
		It("should decode VABS.F32 S4, S8", func() {
			inst := decoder.Decode(0xEEB02AC4)

			Expect(inst.Op).To(Equal(insts.OpVABS))
			Expect(inst.Vd).To(Equal(uint8(4)))
			Expect(inst.Vm).To(Equal(uint8(8)))
		})

		// VMOV.F32 S4, S8 -> 0xEEB02A44 (opc3=01)
		It("should decode register VMOV.F32", func() {
			inst := decoder.Decode(0xEEB02A44)
			Expect(inst.Op).To(Equal(insts.OpVMOVReg))
		})

		// VNEG.F64 D0, D1 -> 0xEEB10B41 (opc2=0001, opc3=01)
		It("should decode VNEG.F64 D0, D1", func() {
			inst := decoder.Decode(0xEEB10B41)

			Expect(inst.Op).To(Equal(insts.OpVNEG))
			Expect(inst.Prec).To(Equal(insts.Double))
		})

		// VSQRT.F64 D0, D1 -> 0xEEB10BC1 (opc3=11)
		It("should decode VSQRT.F64 D0, D1", func() {
			inst := decoder.Decode(0xEEB10BC1)
			Expect(inst.Op).To(Equal(insts.OpVSQRT))
		})

		// VMOV.F32 S0, #1.0 -> 0xEEB70A00 (imm8=0x70)
		It("should decode immediate VMOV.F32 with the split immediate", func() {
			inst := decoder.Decode(0xEEB70A00)

			Expect(inst.Op).To(Equal(insts.OpVMOVImm))
			Expect(inst.Imm).To(Equal(uint32(0x70)))
		})

		// VCMP.F64 D0, D1 -> 0xEEB40B41
		It("should decode VCMP.F64 D0, D1", func() {
			inst := decoder.Decode(0xEEB40B41)

			Expect(inst.Op).To(Equal(insts.OpVCMP))
			Expect(inst.Z).To(BeFalse())
			Expect(inst.E).To(BeFalse())
		})

		// VCMPE.F32 S0, #0.0 -> 0xEEB50AC0 (opc2=0101, E=1)
		It("should decode VCMPE.F32 against zero", func() {
			inst := decoder.Decode(0xEEB50AC0)

			Expect(inst.Op).To(Equal(insts.OpVCMP))
			Expect(inst.Z).To(BeTrue())
			Expect(inst.E).To(BeTrue())
		})

		// VRINTX.F32 S0, S1 -> 0xEEB70A60 (opc2=0111, opc3=01)
		It("should decode VRINTX.F32", func() {
			inst := decoder.Decode(0xEEB70A60)
			Expect(inst.Op).To(Equal(insts.OpVRINTX))
		})

		// VCVT.F64.F32 D0, S2 -> 0xEEB70AC1 (opc2=0111, opc3=11, sz=10)
		It("should decode the single/double conversion", func() {
			inst := decoder.Decode(0xEEB70AC1)

			Expect(inst.Op).To(Equal(insts.OpVCVT))
			Expect(inst.Prec).To(Equal(insts.Single))
			Expect(inst.Vm).To(Equal(uint8(2)))
		})

		// VCVTB.F32.F16 S0, S1 -> 0xEEB20A60 (opc2=0010, T=0)
		It("should decode VCVTB from half precision", func() {
			inst := decoder.Decode(0xEEB20A60)

			Expect(inst.Op).To(Equal(insts.OpVCVTFromF16))
			Expect(inst.T).To(BeFalse())
		})

		// VCVTT.F16.F32 S0, S1 -> 0xEEB30AE0 (opc2=0011, T=1)
		It("should decode VCVTT to half precision", func() {
			inst := decoder.Decode(0xEEB30AE0)

			Expect(inst.Op).To(Equal(insts.OpVCVTToF16))
			Expect(inst.T).To(BeTrue())
		})
	})

	Describe("Integer and Fixed-Point Conversions", func() {
		// VCVT.F32.S32 S0, S1 -> 0xEEB80AD0 (opc2=1000, signed)
		It("should decode signed integer to float", func() {
			inst := decoder.Decode(0xEEB80AD0)

			Expect(inst.Op).To(Equal(insts.OpVCVTIntFP))
			Expect(inst.Sign).To(BeTrue())
			Expect(inst.Vm).To(Equal(uint8(1)))
		})

		// VCVT.S32.F32 S2, S3 (round to zero) -> 0xEEBD1AD1
		It("should decode float to signed integer with round-to-zero", func() {
			inst := decoder.Decode(0xEEBD1AD1)

			Expect(inst.Op).To(Equal(insts.OpVCVTFPInt))
			Expect(inst.Sign).To(BeTrue())
			Expect(inst.RZ).To(BeTrue())
			Expect(inst.Vd).To(Equal(uint8(2)))
			Expect(inst.Vm).To(Equal(uint8(3)))
		})

		// VCVT.F32.S32 S0, S0, #16 -> 0xEEBA0AC8
		// Fixed-point: sx=1 means a 32-bit field, imm5 = 32 - fracbits
		It("should decode fixed-point to float with the split immediate", func() {
			inst := decoder.Decode(0xEEBA0AC8)

			Expect(inst.Op).To(Equal(insts.OpVCVTFix))
			Expect(inst.Opc).To(Equal(uint8(0b001)))
			Expect(inst.Imm).To(Equal(uint32(16)))
		})

		// VJCVT S0, D1 -> 0xEEB90BC1 (opc2=1001, double only)
		It("should decode VJCVT", func() {
			inst := decoder.Decode(0xEEB90BC1)

			Expect(inst.Op).To(Equal(insts.OpVJCVT))
			Expect(inst.Prec).To(Equal(insts.Double))
		})
	})

	Describe("Unconditional Space", func() {
		// VSELEQ.F32 S0, S1, S2 -> 0xFE000A81 (cc=00)
		It("should decode VSELEQ.F32", func() {
			inst := decoder.Decode(0xFE000A81)

			Expect(inst.Op).To(Equal(insts.OpVSEL))
			Expect(inst.Cond).To(Equal(uint8(0)))
			Expect(inst.Vd).To(Equal(uint8(0)))
			Expect(inst.Vn).To(Equal(uint8(1)))
			Expect(inst.Vm).To(Equal(uint8(2)))
		})

		// VSELGE.F64 D0, D1, D2 -> 0xFE210B02 (cc=10)
		It("should decode VSELGE.F64", func() {
			inst := decoder.Decode(0xFE210B02)

			Expect(inst.Op).To(Equal(insts.OpVSEL))
			Expect(inst.Cond).To(Equal(uint8(2)))
			Expect(inst.Prec).To(Equal(insts.Double))
		})

		// VMAXNM.F32 S0, S1, S2 -> 0xFE800A81
		It("should decode VMAXNM.F32", func() {
			inst := decoder.Decode(0xFE800A81)
			Expect(inst.Op).To(Equal(insts.OpVMAXNM))
		})

		// VMINNM.F32 S0, S1, S2 -> 0xFE800AC1 (op=1)
		It("should decode VMINNM.F32", func() {
			inst := decoder.Decode(0xFE800AC1)
			Expect(inst.Op).To(Equal(insts.OpVMINNM))
		})

		// VRINTA.F32 S0, S1 -> 0xFEB80A50 (rm=00)
		It("should decode VRINTA.F32", func() {
			inst := decoder.Decode(0xFEB80A50)

			Expect(inst.Op).To(Equal(insts.OpVRINT))
			Expect(inst.RM).To(Equal(uint8(0)))
		})

		// VCVTA.S32.F32 S0, S1 -> 0xFEBC0AD0 (rm=00, signed)
		It("should decode VCVTA.S32.F32", func() {
			inst := decoder.Decode(0xFEBC0AD0)

			Expect(inst.Op).To(Equal(insts.OpVCVTRM))
			Expect(inst.RM).To(Equal(uint8(0)))
			Expect(inst.Sign).To(BeTrue())
		})

		// VINS.F16 S0, S1 -> 0xFEB00AD0
		It("should decode VINS.F16", func() {
			inst := decoder.Decode(0xFEB00AD0)
			Expect(inst.Op).To(Equal(insts.OpVINS))
		})

		// VMOVX.F16 S0, S1 -> 0xFEB00A50
		It("should decode VMOVX.F16", func() {
			inst := decoder.Decode(0xFEB00A50)
			Expect(inst.Op).To(Equal(insts.OpVMOVX))
		})
	})

	Describe("Register Transfers", func() {
		// VMOV R1, S0 -> 0xEE101A10
		It("should decode VMOV from single to GP", func() {
			inst := decoder.Decode(0xEE101A10)

			Expect(inst.Op).To(Equal(insts.OpVMOVSingleGP))
			Expect(inst.L).To(BeTrue())
			Expect(inst.Rt).To(Equal(uint8(1)))
			Expect(inst.Vn).To(Equal(uint8(0)))
		})

		// VMOV.F16 R0, S1 -> 0xEE100990 (coprocessor 1001)
		It("should decode the half-precision GP move", func() {
			inst := decoder.Decode(0xEE100990)

			Expect(inst.Op).To(Equal(insts.OpVMOVHalfGP))
			Expect(inst.L).To(BeTrue())
			Expect(inst.Vn).To(Equal(uint8(1)))
		})

		// VMSR FPSCR, R0 -> 0xEEE10A10
		It("should decode VMSR FPSCR", func() {
			inst := decoder.Decode(0xEEE10A10)

			Expect(inst.Op).To(Equal(insts.OpVMSRVMRS))
			Expect(inst.L).To(BeFalse())
			Expect(inst.Reg).To(Equal(insts.RegFPSCR))
			Expect(inst.Rt).To(Equal(uint8(0)))
		})

		// VMRS APSR_nzcv, FPSCR -> 0xEEF1FA10
		It("should decode VMRS with Rt=15", func() {
			inst := decoder.Decode(0xEEF1FA10)

			Expect(inst.Op).To(Equal(insts.OpVMSRVMRS))
			Expect(inst.L).To(BeTrue())
			Expect(inst.Rt).To(Equal(uint8(15)))
		})

		// VMOV.32 D0[1], R2 -> 0xEE202B10
		It("should decode VMOV from GP to a 32-bit lane", func() {
			inst := decoder.Decode(0xEE202B10)

			Expect(inst.Op).To(Equal(insts.OpVMOVFromGP))
			Expect(inst.Vn).To(Equal(uint8(0)))
			Expect(inst.Rt).To(Equal(uint8(2)))
			Expect(inst.Size).To(Equal(uint8(4)))
			Expect(inst.Index).To(Equal(uint8(1)))
		})

		// VMOV.U8 R3, D1[2] -> 0xEED13B50
		It("should decode an unsigned byte lane extract", func() {
			inst := decoder.Decode(0xEED13B50)

			Expect(inst.Op).To(Equal(insts.OpVMOVToGP))
			Expect(inst.U).To(BeTrue())
			Expect(inst.Vn).To(Equal(uint8(1)))
			Expect(inst.Rt).To(Equal(uint8(3)))
			Expect(inst.Size).To(Equal(uint8(1)))
			Expect(inst.Index).To(Equal(uint8(2)))
		})

		// VDUP.32 D0, R1 -> 0xEE801B10
		It("should decode VDUP", func() {
			inst := decoder.Decode(0xEE801B10)

			Expect(inst.Op).To(Equal(insts.OpVDUP))
			Expect(inst.Rt).To(Equal(uint8(1)))
			Expect(inst.B).To(BeFalse())
			Expect(inst.E).To(BeFalse())
			Expect(inst.Q).To(BeFalse())
		})

		// VMOV D0, R2, R3 -> 0xEC432B10
		It("should decode the two-register double move", func() {
			inst := decoder.Decode(0xEC432B10)

			Expect(inst.Op).To(Equal(insts.OpVMOV64DP))
			Expect(inst.L).To(BeFalse())
			Expect(inst.Rt).To(Equal(uint8(2)))
			Expect(inst.Rt2).To(Equal(uint8(3)))
			Expect(inst.Vm).To(Equal(uint8(0)))
		})

		// VMOV R2, R3, S0, S1 -> 0xEC532A10
		It("should decode the two-register single-pair move", func() {
			inst := decoder.Decode(0xEC532A10)

			Expect(inst.Op).To(Equal(insts.OpVMOV64SP))
			Expect(inst.L).To(BeTrue())
			Expect(inst.Vm).To(Equal(uint8(0)))
		})
	})

	Describe("Loads and Stores", func() {
		// VLDR S1, [R2, #8] -> 0xEDD20A02
		It("should decode VLDR with a positive offset", func() {
			inst := decoder.Decode(0xEDD20A02)

			Expect(inst.Op).To(Equal(insts.OpVLDRVSTR))
			Expect(inst.L).To(BeTrue())
			Expect(inst.U).To(BeTrue())
			Expect(inst.Prec).To(Equal(insts.Single))
			Expect(inst.Vd).To(Equal(uint8(1)))
			Expect(inst.Rn).To(Equal(uint8(2)))
			Expect(inst.Imm).To(Equal(uint32(2)))
		})

		// VSTR D3, [R4, #-16] -> 0xED443B04
		It("should decode VSTR with a negative offset", func() {
			inst := decoder.Decode(0xED443B04)

			Expect(inst.Op).To(Equal(insts.OpVLDRVSTR))
			Expect(inst.L).To(BeFalse())
			Expect(inst.U).To(BeFalse())
			Expect(inst.Prec).To(Equal(insts.Double))
			Expect(inst.Vd).To(Equal(uint8(3)))
			Expect(inst.Rn).To(Equal(uint8(4)))
			Expect(inst.Imm).To(Equal(uint32(4)))
		})

		// VSTMIA R0!, {D0-D3} -> 0xECA00B08
		It("should decode VSTM with writeback", func() {
			inst := decoder.Decode(0xECA00B08)

			Expect(inst.Op).To(Equal(insts.OpVLDMVSTM))
			Expect(inst.L).To(BeFalse())
			Expect(inst.W).To(BeTrue())
			Expect(inst.U).To(BeTrue())
			Expect(inst.P).To(BeFalse())
			Expect(inst.Imm).To(Equal(uint32(8)))
		})

		// VLDMIA R1, {S0-S3} -> 0xEC910A04
		It("should decode VLDM without writeback", func() {
			inst := decoder.Decode(0xEC910A04)

			Expect(inst.Op).To(Equal(insts.OpVLDMVSTM))
			Expect(inst.L).To(BeTrue())
			Expect(inst.W).To(BeFalse())
			Expect(inst.Prec).To(Equal(insts.Single))
			Expect(inst.Imm).To(Equal(uint32(4)))
		})
	})

	Describe("Unknown Words", func() {
		It("should return OpUnknown for a plain ALU word", func() {
			inst := decoder.Decode(0xE0810002) // ADD R0, R1, R2
			Expect(inst.Op).To(Equal(insts.OpUnknown))
		})

		It("should fall back to NOCP within the coprocessor space", func() {
			inst := decoder.Decode(0xEE300881) // sz=00, coprocessor 8
			Expect(inst.Op).To(Equal(insts.OpNOCP))
			Expect(inst.Imm).To(Equal(uint32(8)))
		})
	})
})
