// Package riscv translates the RISC-V privileged control instructions
// into register-transfer programs, using the same handler protocol as
// the VFP translator: a handler either claims its instruction or
// declines it, marking the encoding unallocated.
package riscv

// Op represents a privileged instruction form.
type Op uint8

// Privileged instruction forms from the SYSTEM opcode space.
const (
	OpUnknown Op = iota
	OpECALL
	OpEBREAK
	OpURET
	OpSRET
	OpMRET
	OpWFI
	OpSFENCEVM  // legacy pre-1.10 form
	OpSFENCEVMA
	OpHFENCEBVMA
	OpHFENCEGVMA
)

// Instruction represents a decoded privileged instruction.
type Instruction struct {
	Op Op

	// Rs1 and Rs2 are the address and ASID source registers of the
	// fence forms.
	Rs1 uint8
	Rs2 uint8
}

// Decoder decodes RV32 words from the SYSTEM opcode space into
// privileged instructions.
type Decoder struct{}

// NewDecoder creates a new privileged instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word. Words outside the
// privileged SYSTEM space decode to OpUnknown; CSR accesses and the
// unprivileged forms are not this decoder's business.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Op: OpUnknown}

	opcode := word & 0x7F        // bits [6:0]
	funct3 := (word >> 12) & 0x7 // bits [14:12]
	rd := (word >> 7) & 0x1F     // bits [11:7]
	if opcode != 0b1110011 || funct3 != 0 || rd != 0 {
		return inst
	}

	rs1 := uint8((word >> 15) & 0x1F) // bits [19:15]
	rs2 := uint8((word >> 20) & 0x1F) // bits [24:20]

	switch (word >> 25) & 0x7F { // funct7, bits [31:25]
	case 0b0001001:
		inst.Op = OpSFENCEVMA
		inst.Rs1, inst.Rs2 = rs1, rs2
		return inst
	case 0b0010001:
		inst.Op = OpHFENCEBVMA
		inst.Rs1, inst.Rs2 = rs1, rs2
		return inst
	case 0b0110001:
		inst.Op = OpHFENCEGVMA
		inst.Rs1, inst.Rs2 = rs1, rs2
		return inst
	}

	// The legacy sfence.vm keeps a usable rs1 field; the remaining
	// forms fix rs1 to zero and encode the operation in funct12.
	funct12 := (word >> 20) & 0xFFF // bits [31:20]
	if funct12 == 0x104 {
		inst.Op = OpSFENCEVM
		inst.Rs1 = rs1
		return inst
	}
	if rs1 != 0 {
		return inst
	}
	switch funct12 {
	case 0x000:
		inst.Op = OpECALL
	case 0x001:
		inst.Op = OpEBREAK
	case 0x002:
		inst.Op = OpURET
	case 0x102:
		inst.Op = OpSRET
	case 0x302:
		inst.Op = OpMRET
	case 0x105:
		inst.Op = OpWFI
	}
	return inst
}
