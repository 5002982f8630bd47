// Package benchmarks provides instruction kernels for measuring
// translation and evaluation throughput.
package benchmarks

import (
	"math"

	"github.com/sarchlab/vfpsim/emu"
)

// Kernel is a short instruction sequence with a known result.
type Kernel struct {
	Name        string
	Description string
	Words       []uint32
	Setup       func(state *emu.State)
	// Check returns true when the state holds the expected result.
	Check func(state *emu.State) bool
}

// sReg splits a single-precision register number into its word
// fields.
func sReg(r uint8) (field, high uint32) {
	return uint32(r >> 1), uint32(r & 1)
}

// EncodeVADDF32 encodes VADD.F32 Sd, Sn, Sm.
func EncodeVADDF32(sd, sn, sm uint8) uint32 {
	return encodeDP(0xEE300A00, sd, sn, sm)
}

// EncodeVMULF32 encodes VMUL.F32 Sd, Sn, Sm.
func EncodeVMULF32(sd, sn, sm uint8) uint32 {
	return encodeDP(0xEE200A00, sd, sn, sm)
}

// EncodeVMLAF32 encodes VMLA.F32 Sd, Sn, Sm.
func EncodeVMLAF32(sd, sn, sm uint8) uint32 {
	return encodeDP(0xEE000A00, sd, sn, sm)
}

// EncodeVDIVF32 encodes VDIV.F32 Sd, Sn, Sm.
func EncodeVDIVF32(sd, sn, sm uint8) uint32 {
	return encodeDP(0xEE800A00, sd, sn, sm)
}

func encodeDP(base uint32, sd, sn, sm uint8) uint32 {
	vd, d := sReg(sd)
	vn, n := sReg(sn)
	vm, m := sReg(sm)
	return base | d<<22 | vn<<16 | vd<<12 | n<<7 | m<<5 | vm
}

// EncodeVMOVImmF32 encodes VMOV.F32 Sd, #expanded-imm.
func EncodeVMOVImmF32(sd uint8, imm8 uint8) uint32 {
	vd, d := sReg(sd)
	return 0xEEB00A00 | d<<22 | uint32(imm8>>4)<<16 | vd<<12 | uint32(imm8&0xF)
}

// EncodeVLDRF32 encodes VLDR Sd, [Rn, #offset] with a positive
// word-aligned offset.
func EncodeVLDRF32(sd, rn uint8, offset uint32) uint32 {
	vd, d := sReg(sd)
	return 0xED900A00 | d<<22 | uint32(rn)<<16 | vd<<12 | offset/4
}

// EncodeVSTRF32 encodes VSTR Sd, [Rn, #offset].
func EncodeVSTRF32(sd, rn uint8, offset uint32) uint32 {
	vd, d := sReg(sd)
	return 0xED800A00 | d<<22 | uint32(rn)<<16 | vd<<12 | offset/4
}

// EncodeVCMPF32 encodes VCMP.F32 Sd, Sm.
func EncodeVCMPF32(sd, sm uint8) uint32 {
	vd, d := sReg(sd)
	vm, m := sReg(sm)
	return 0xEEB40A40 | d<<22 | vd<<12 | m<<5 | vm
}

func f32bits(f float32) uint32 {
	return math.Float32bits(f)
}

// Kernels returns the standard kernel set.
func Kernels() []Kernel {
	return []Kernel{
		arithmeticChain(),
		multiplyAccumulate(),
		memoryTraffic(),
		divideLatency(),
	}
}

// arithmeticChain runs dependent adds, the classic latency chain.
func arithmeticChain() Kernel {
	words := make([]uint32, 0, 16)
	for i := 0; i < 16; i++ {
		words = append(words, EncodeVADDF32(0, 0, 1))
	}
	return Kernel{
		Name:        "arithmetic_chain",
		Description: "16 dependent VADD.F32, measures add latency",
		Words:       words,
		Setup: func(state *emu.State) {
			state.WriteS(0, f32bits(0))
			state.WriteS(1, f32bits(1))
		},
		Check: func(state *emu.State) bool {
			return state.ReadS(0) == f32bits(16)
		},
	}
}

// multiplyAccumulate runs a dot-product style VMLA chain.
func multiplyAccumulate() Kernel {
	words := make([]uint32, 0, 8)
	for i := 0; i < 8; i++ {
		words = append(words, EncodeVMLAF32(0, 1, 2))
	}
	return Kernel{
		Name:        "multiply_accumulate",
		Description: "8 dependent VMLA.F32, measures FMA-path throughput",
		Words:       words,
		Setup: func(state *emu.State) {
			state.WriteS(0, f32bits(0))
			state.WriteS(1, f32bits(2))
			state.WriteS(2, f32bits(3))
		},
		Check: func(state *emu.State) bool {
			return state.ReadS(0) == f32bits(48)
		},
	}
}

// memoryTraffic bounces a value through memory.
func memoryTraffic() Kernel {
	words := make([]uint32, 0, 16)
	for i := uint32(0); i < 8; i++ {
		words = append(words,
			EncodeVSTRF32(0, 1, i*4),
			EncodeVLDRF32(uint8(2+i), 1, i*4),
		)
	}
	return Kernel{
		Name:        "memory_traffic",
		Description: "8 VSTR/VLDR pairs, measures load-store translation",
		Words:       words,
		Setup: func(state *emu.State) {
			state.WriteS(0, f32bits(3.5))
			state.GPR[1] = 0x1000
		},
		Check: func(state *emu.State) bool {
			return state.ReadS(9) == f32bits(3.5)
		},
	}
}

// divideLatency runs dependent divides.
func divideLatency() Kernel {
	words := make([]uint32, 0, 4)
	for i := 0; i < 4; i++ {
		words = append(words, EncodeVDIVF32(0, 0, 1))
	}
	return Kernel{
		Name:        "divide_latency",
		Description: "4 dependent VDIV.F32, measures divide helper cost",
		Words:       words,
		Setup: func(state *emu.State) {
			state.WriteS(0, f32bits(16))
			state.WriteS(1, f32bits(2))
		},
		Check: func(state *emu.State) bool {
			return state.ReadS(0) == f32bits(1)
		},
	}
}
