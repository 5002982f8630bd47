package insts

// Decoder decodes A32 words from the coprocessor 10/11 space into
// VFP instructions.
type Decoder struct{}

// NewDecoder creates a new VFP instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit A32 instruction word.
// Words outside the VFP space decode to OpUnknown.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Op: OpUnknown}

	cond := word >> 28 // bits [31:28]
	if cond == 0xF {
		d.decodeUncond(word, inst)
		return inst
	}

	switch {
	case d.isVLLDMVLSTM(word):
		d.decodeVLLDMVLSTM(word, inst)
	case d.isVSCCLRM(word):
		d.decodeVSCCLRM(word, inst)
	case d.isSysregLoadStore(word):
		d.decodeSysregLoadStore(word, inst)
	case d.isDataProcessing(word):
		d.decodeDataProcessing(word, inst)
	case d.isShortTransfer(word):
		d.decodeShortTransfer(word, inst)
	case d.isLongTransfer(word):
		d.decodeLongTransfer(word, inst)
	case d.isLoadStore(word):
		d.decodeLoadStore(word, inst)
	}

	if inst.Op == OpUnknown {
		d.decodeNOCP(word, inst)
	}
	return inst
}

// precOf maps the size field (bits [9:8]) to a precision.
// Returns false for the reserved 0b00 encoding.
func precOf(size uint32) (Precision, bool) {
	switch size {
	case 0b01:
		return Half, true
	case 0b10:
		return Single, true
	case 0b11:
		return Double, true
	}
	return 0, false
}

// vfpRegs extracts the Vd/Vn/Vm register numbers. Double-precision
// registers carry their high bit in D/N/M; single and half carry it
// as the low bit.
func vfpRegs(word uint32, prec Precision) (vd, vn, vm uint8) {
	dBit := (word >> 22) & 0x1  // bit 22
	nBit := (word >> 7) & 0x1   // bit 7
	mBit := (word >> 5) & 0x1   // bit 5
	vdF := (word >> 12) & 0xF   // bits [15:12]
	vnF := (word >> 16) & 0xF   // bits [19:16]
	vmF := word & 0xF           // bits [3:0]

	if prec == Double {
		return uint8(dBit<<4 | vdF), uint8(nBit<<4 | vnF), uint8(mBit<<4 | vmF)
	}
	return uint8(vdF<<1 | dBit), uint8(vnF<<1 | nBit), uint8(vmF<<1 | mBit)
}

// spVd extracts Vd with single-precision numbering regardless of the
// size field. Mixed-width conversions keep one operand in a single
// register even when the size field says double.
func spVd(word uint32) uint8 {
	return uint8((word>>12)&0xF<<1 | (word>>22)&0x1)
}

// spVm extracts Vm with single-precision numbering.
func spVm(word uint32) uint8 {
	return uint8(word&0xF<<1 | (word>>5)&0x1)
}

// isDataProcessing checks for the VFP data-processing space.
// Format: cond | 1110 | opc1 | opc2 | Vd | 101 | sz | opc3 | opc4, bit 4 == 0
func (d *Decoder) isDataProcessing(word uint32) bool {
	return (word>>24)&0xF == 0b1110 &&
		(word>>10)&0x3 == 0b10 &&
		(word>>4)&0x1 == 0
}

// decodeDataProcessing decodes the conditional data-processing groups.
func (d *Decoder) decodeDataProcessing(word uint32, inst *Instruction) {
	prec, ok := precOf((word >> 8) & 0x3) // bits [9:8]
	if !ok {
		return
	}
	inst.Prec = prec
	inst.Vd, inst.Vn, inst.Vm = vfpRegs(word, prec)

	o1 := (word>>23)&0x1<<2 | (word>>20)&0x3 // bits 23, [21:20]
	op := (word >> 6) & 0x1                  // bit 6

	switch o1 {
	case 0b000:
		inst.Op = pick(op, OpVMLA, OpVMLS)
	case 0b001:
		inst.Op = pick(op, OpVNMLS, OpVNMLA)
	case 0b010:
		inst.Op = pick(op, OpVMUL, OpVNMUL)
	case 0b011:
		inst.Op = pick(op, OpVADD, OpVSUB)
	case 0b100:
		if op == 0 {
			inst.Op = OpVDIV
		}
	case 0b101:
		inst.Op = pick(op, OpVFNMS, OpVFNMA)
	case 0b110:
		inst.Op = pick(op, OpVFMA, OpVFMS)
	case 0b111:
		d.decodeDPOther(word, inst)
	}
}

// pick selects between two forms on a single opcode bit.
func pick(bit uint32, zero, one Op) Op {
	if bit == 0 {
		return zero
	}
	return one
}

// decodeDPOther decodes the opc1 == 0b111 group: VMOV immediate and the
// two-register operations selected by opc2.
// Format: cond | 11101 | D | 11 | opc2 | Vd | 101 | sz | opc3 | . M 0 | Vm
func (d *Decoder) decodeDPOther(word uint32, inst *Instruction) {
	opc2 := (word >> 16) & 0xF // bits [19:16]
	opc3 := (word >> 6) & 0x3  // bits [7:6]

	if opc3&1 == 0 {
		// VMOV immediate: imm4H:imm4L
		inst.Op = OpVMOVImm
		inst.Imm = (word>>16)&0xF<<4 | word&0xF
		return
	}

	bit7 := (word >> 7) & 0x1

	switch opc2 {
	case 0b0000:
		inst.Op = pick(bit7, OpVMOVReg, OpVABS)
	case 0b0001:
		inst.Op = pick(bit7, OpVNEG, OpVSQRT)
	case 0b0010, 0b0011:
		// Half-precision conversions; the T bit selects the half of the
		// single container, and sz selects single or double on the wide
		// side. opc2 bit 0 selects the direction. The narrow operand is
		// always a single register.
		inst.T = bit7 == 1
		if opc2&1 == 0 {
			inst.Op = OpVCVTFromF16
			inst.Vm = spVm(word)
		} else {
			inst.Op = OpVCVTToF16
			inst.Vd = spVd(word)
		}
	case 0b0100:
		inst.Op = OpVCMP
		inst.E = bit7 == 1
	case 0b0101:
		inst.Op = OpVCMP
		inst.Z = true
		inst.E = bit7 == 1
	case 0b0110:
		inst.Op = pick(bit7, OpVRINTR, OpVRINTZ)
	case 0b0111:
		if bit7 == 0 {
			inst.Op = OpVRINTX
		} else {
			// The destination has the opposite width of the source, so
			// it uses the other numbering scheme.
			inst.Op = OpVCVT
			if inst.Prec == Double {
				inst.Vd = spVd(word)
			} else {
				inst.Vd = uint8((word>>22)&0x1<<4 | (word>>12)&0xF)
			}
		}
	case 0b1000:
		inst.Op = OpVCVTIntFP
		inst.Sign = bit7 == 1
		inst.Vm = spVm(word)
	case 0b1001:
		if bit7 == 1 && inst.Prec == Double {
			inst.Op = OpVJCVT
			inst.Vd = spVd(word)
		}
	case 0b1010, 0b1011, 0b1110, 0b1111:
		// Fixed-point conversion: opc = op:U:sx
		inst.Op = OpVCVTFix
		inst.Opc = uint8((word>>18)&0x1<<2 | (word>>16)&0x1<<1 | bit7)
		inst.Imm = (word&0xF)<<1 | (word>>5)&0x1
		// Vm bits carry immediate data here, not a register.
		inst.Vm = 0
	case 0b1100:
		inst.Op = OpVCVTFPInt
		inst.RZ = bit7 == 1
		inst.Vd = spVd(word)
	case 0b1101:
		inst.Op = OpVCVTFPInt
		inst.Sign = true
		inst.RZ = bit7 == 1
		inst.Vd = spVd(word)
	}
}

// decodeUncond decodes the unconditional (cond == 1111) VFP space:
// VSEL, VMAXNM/VMINNM, VRINT{A,N,P,M}, VCVT{A,N,P,M}, VINS, VMOVX.
func (d *Decoder) decodeUncond(word uint32, inst *Instruction) {
	if (word>>24)&0xF != 0b1110 || (word>>10)&0x3 != 0b10 || word>>4&0x1 != 0 {
		return
	}

	prec, ok := precOf((word >> 8) & 0x3)
	if !ok {
		return
	}
	inst.Prec = prec
	inst.Vd, inst.Vn, inst.Vm = vfpRegs(word, prec)

	if (word>>23)&0x1 == 0 {
		// VSEL: cc in bits [21:20]
		if (word>>6)&0x1 == 0 {
			inst.Op = OpVSEL
			inst.Cond = uint8((word >> 20) & 0x3)
		}
		return
	}

	switch (word >> 20) & 0x3 { // bits [21:20]
	case 0b00:
		inst.Op = pick((word>>6)&0x1, OpVMAXNM, OpVMINNM)
	case 0b11:
		switch (word >> 16) & 0xF { // bits [19:16]
		case 0b1000, 0b1001, 0b1010, 0b1011:
			if (word>>6)&0x3 == 0b01 {
				inst.Op = OpVRINT
				inst.RM = uint8((word >> 16) & 0x3)
			}
		case 0b1100, 0b1101, 0b1110, 0b1111:
			if (word>>6)&0x1 == 1 {
				inst.Op = OpVCVTRM
				inst.RM = uint8((word >> 16) & 0x3)
				inst.Sign = (word>>7)&0x1 == 1
				inst.Vd = spVd(word)
			}
		case 0b0000:
			// VINS / VMOVX are half-precision sub-register moves.
			if inst.Prec == Single && (word>>6)&0x1 == 1 {
				inst.Op = pick((word>>7)&0x1, OpVMOVX, OpVINS)
			}
		}
	}
}

// isShortTransfer checks the single-register transfer space.
// Format: cond | 1110 | ... | Rt | 101x | ...1..., bit 4 == 1
func (d *Decoder) isShortTransfer(word uint32) bool {
	return (word>>24)&0xF == 0b1110 &&
		(word>>10)&0x3 == 0b10 &&
		(word>>4)&0x1 == 1
}

// decodeShortTransfer decodes VMSR/VMRS, VMOV gp<->single/half,
// VMOV gp<->scalar and VDUP.
func (d *Decoder) decodeShortTransfer(word uint32, inst *Instruction) {
	rt := uint8((word >> 12) & 0xF) // bits [15:12]
	l := (word>>20)&0x1 == 1        // bit 20
	inst.Rt = rt
	inst.L = l

	coproc := (word >> 8) & 0xF // bits [11:8]
	if coproc == 0b1001 || coproc == 0b1010 {
		// Half or single moves; the 1010 space also holds VMSR/VMRS.
		switch (word >> 21) & 0x7 { // bits [23:21]
		case 0b000:
			if coproc == 0b1001 {
				inst.Op = OpVMOVHalfGP
			} else {
				inst.Op = OpVMOVSingleGP
			}
			inst.Vn = uint8((word>>16)&0xF<<1 | (word>>7)&0x1)
		case 0b111:
			if coproc == 0b1010 {
				inst.Op = OpVMSRVMRS
				inst.Reg = SysReg((word >> 16) & 0xF)
			}
		}
		return
	}

	// Coprocessor 1011: scalar lane transfers.
	vd := uint8((word>>7)&0x1<<4 | (word>>16)&0xF)
	if l {
		// VMOV scalar to GP register; U selects unsigned extract.
		inst.Op = OpVMOVToGP
		inst.Vn = vd
		inst.U = (word>>23)&0x1 == 1
		d.scalarLane(word, inst)
		return
	}
	if (word>>23)&0x1 == 0 {
		inst.Op = OpVMOVFromGP
		inst.Vn = vd
		d.scalarLane(word, inst)
		return
	}
	// VDUP: cond | 11101 | B Q 0 | Vd | Rt | 1011 | D 0 E 1 | 0000
	if (word>>6)&0x1 == 0 && word&0xF == 0 {
		inst.Op = OpVDUP
		inst.Vn = vd
		inst.B = (word>>22)&0x1 == 1
		inst.Q = (word>>21)&0x1 == 1
		inst.E = (word>>5)&0x1 == 1
	}
}

// scalarLane decodes lane size and index from opc1 (bits [22:21]) and
// opc2 (bits [6:5]).
func (d *Decoder) scalarLane(word uint32, inst *Instruction) {
	opc1 := (word >> 21) & 0x3
	opc2 := (word >> 5) & 0x3

	switch {
	case opc1&0x2 != 0:
		inst.Size = 1
		inst.Index = uint8(opc1&0x1<<2 | opc2)
	case opc2&0x1 != 0:
		inst.Size = 2
		inst.Index = uint8(opc1&0x1<<1 | opc2>>1)
	case opc2 == 0:
		inst.Size = 4
		inst.Index = uint8(opc1 & 0x1)
	default:
		inst.Op = OpUnknown
	}
}

// isLongTransfer checks the two-register transfer space.
// Format: cond | 1100010 | op | Rt2 | Rt | 101x | 00 M 1 | Vm
func (d *Decoder) isLongTransfer(word uint32) bool {
	return (word>>21)&0x7F == 0b1100010 && (word>>9)&0x7 == 0b101
}

// decodeLongTransfer decodes VMOV between two GP registers and either a
// single-precision pair or one double register.
func (d *Decoder) decodeLongTransfer(word uint32, inst *Instruction) {
	inst.L = (word>>20)&0x1 == 1 // 1: FP to GP
	inst.Rt2 = uint8((word >> 16) & 0xF)
	inst.Rt = uint8((word >> 12) & 0xF)

	if (word>>8)&0x1 == 0 {
		inst.Op = OpVMOV64SP
		inst.Prec = Single
		inst.Vm = uint8(word&0xF<<1 | (word>>5)&0x1)
	} else {
		inst.Op = OpVMOV64DP
		inst.Prec = Double
		inst.Vm = uint8((word>>5)&0x1<<4 | word&0xF)
	}
}

// isLoadStore checks the coprocessor load/store space.
// Format: cond | 110 | P U D W L | Rn | Vd | 101x | imm8
func (d *Decoder) isLoadStore(word uint32) bool {
	return (word>>25)&0x7 == 0b110 &&
		(word>>10)&0x3 == 0b10 &&
		!d.isLongTransfer(word)
}

// decodeLoadStore decodes VLDR/VSTR and VLDM/VSTM.
func (d *Decoder) decodeLoadStore(word uint32, inst *Instruction) {
	p := (word>>24)&0x1 == 1
	u := (word>>23)&0x1 == 1
	w := (word>>21)&0x1 == 1
	l := (word>>20)&0x1 == 1

	switch (word >> 8) & 0xF { // bits [11:8]
	case 0b1001:
		inst.Prec = Half
	case 0b1010:
		inst.Prec = Single
	case 0b1011:
		inst.Prec = Double
	default:
		return
	}

	inst.Rn = uint8((word >> 16) & 0xF)
	inst.Imm = word & 0xFF
	inst.L = l
	inst.U = u
	inst.P = p
	inst.W = w

	dBit := (word >> 22) & 0x1
	vdF := (word >> 12) & 0xF
	if inst.Prec == Double {
		inst.Vd = uint8(dBit<<4 | vdF)
	} else {
		inst.Vd = uint8(vdF<<1 | dBit)
	}

	if p && !w {
		inst.Op = OpVLDRVSTR
		return
	}
	if inst.Prec == Half {
		// No half-precision multiple-register form.
		return
	}
	if !p && !w && !u {
		return
	}
	inst.Op = OpVLDMVSTM
}

// isVLLDMVLSTM checks the M-profile lazy state multiple space.
// Format: 1110 | 1100001 | L | Rn | 0000 | 1010 | op | 0000000
func (d *Decoder) isVLLDMVLSTM(word uint32) bool {
	return (word>>21)&0x7FF == 0b11101100001 &&
		(word>>12)&0xF == 0 &&
		(word>>8)&0xF == 0b1010 &&
		word&0x7F == 0
}

func (d *Decoder) decodeVLLDMVLSTM(word uint32, inst *Instruction) {
	inst.Op = OpVLLDMVLSTM
	inst.L = (word>>20)&0x1 == 1
	inst.Rn = uint8((word >> 16) & 0xF)
	inst.Full = (word>>7)&0x1 == 1
}

// isVSCCLRM checks the secure context clear space.
// Format: 1110 | 11001 | D | 01 | 1111 | Vd | 101 | sz | imm8
func (d *Decoder) isVSCCLRM(word uint32) bool {
	return (word>>23)&0x1F == 0b11001 &&
		(word>>20)&0x3 == 0b01 &&
		(word>>16)&0xF == 0b1111 &&
		(word>>9)&0x7 == 0b101
}

func (d *Decoder) decodeVSCCLRM(word uint32, inst *Instruction) {
	inst.Op = OpVSCCLRM
	dBit := (word >> 22) & 0x1
	vdF := (word >> 12) & 0xF
	if (word>>8)&0x1 == 1 {
		// Double list: the length sits in bits [7:1], bit 0 is zero.
		inst.Prec = Double
		inst.Vd = uint8(dBit<<4 | vdF)
		inst.Imm = (word >> 1) & 0x7F
	} else {
		inst.Prec = Single
		inst.Vd = uint8(vdF<<1 | dBit)
		inst.Imm = word & 0xFF
	}
}

// isSysregLoadStore checks the memory-addressed system register forms,
// which live on coprocessor 14.
// Format: cond | 110 | P U D W L | Rn | reg:3 | 0 | 1110 | 0 | imm7
func (d *Decoder) isSysregLoadStore(word uint32) bool {
	if (word>>25)&0x7 != 0b110 || (word>>9)&0x7 != 0b111 {
		return false
	}
	if (word>>8)&0x1 != 0 || (word>>12)&0x1 != 0 || (word>>7)&0x1 != 0 {
		return false
	}
	p := (word>>24)&0x1 == 1
	w := (word>>21)&0x1 == 1
	return p || w
}

func (d *Decoder) decodeSysregLoadStore(word uint32, inst *Instruction) {
	inst.L = (word>>20)&0x1 == 1
	if inst.L {
		inst.Op = OpVLDRSysreg
	} else {
		inst.Op = OpVSTRSysreg
	}
	inst.Rn = uint8((word >> 16) & 0xF)
	inst.Reg = SysReg((word>>22)&0x1<<3 | (word>>13)&0x7)
	inst.Imm = (word & 0x7F) << 2
	inst.P = (word>>24)&0x1 == 1
	inst.U = (word>>23)&0x1 == 1
	inst.W = (word>>21)&0x1 == 1
}

// decodeNOCP marks otherwise-unmatched coprocessor-space words so
// M-profile translation can raise the no-coprocessor fault for them.
func (d *Decoder) decodeNOCP(word uint32, inst *Instruction) {
	if (word>>25)&0x7 != 0b110 && (word>>24)&0xF != 0b1110 {
		return
	}
	inst.Op = OpNOCP
	inst.Imm = (word >> 8) & 0xF
}
