package ir

// Builder accumulates ops into a Program. The zero value is ready to
// use.
type Builder struct {
	ops       []Op
	widths    []uint8
	numLabels int

	free32 []Temp
	free64 []Temp
}

// NewBuilder creates an empty program builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Program returns the accumulated program. The builder must not be
// used afterwards.
func (b *Builder) Program() *Program {
	return &Program{
		Ops:       b.ops,
		NumTemps:  len(b.widths),
		NumLabels: b.numLabels,
	}
}

// NewTemp32 allocates a 32-bit temporary.
func (b *Builder) NewTemp32() Temp {
	if n := len(b.free32); n > 0 {
		t := b.free32[n-1]
		b.free32 = b.free32[:n-1]
		return t
	}
	b.widths = append(b.widths, 4)
	return Temp(len(b.widths) - 1)
}

// NewTemp64 allocates a 64-bit temporary.
func (b *Builder) NewTemp64() Temp {
	if n := len(b.free64); n > 0 {
		t := b.free64[n-1]
		b.free64 = b.free64[:n-1]
		return t
	}
	b.widths = append(b.widths, 8)
	return Temp(len(b.widths) - 1)
}

// Free returns temporaries to the allocation pool.
func (b *Builder) Free(temps ...Temp) {
	for _, t := range temps {
		if t == NoTemp {
			continue
		}
		if b.widths[t] == 8 {
			b.free64 = append(b.free64, t)
		} else {
			b.free32 = append(b.free32, t)
		}
	}
}

func (b *Builder) emit(op Op) {
	b.ops = append(b.ops, op)
}

func (b *Builder) widthOf(t Temp) uint8 {
	return b.widths[t]
}

// Const32 allocates a 32-bit temp holding v.
func (b *Builder) Const32(v uint32) Temp {
	t := b.NewTemp32()
	b.emit(Op{Kind: OpConst, Dst: t, A: NoTemp, B: NoTemp, C: NoTemp, D: NoTemp, Imm: uint64(v), Width: 4})
	return t
}

// Const64 allocates a 64-bit temp holding v.
func (b *Builder) Const64(v uint64) Temp {
	t := b.NewTemp64()
	b.emit(Op{Kind: OpConst, Dst: t, A: NoTemp, B: NoTemp, C: NoTemp, D: NoTemp, Imm: v, Width: 8})
	return t
}

// MovImm writes the immediate v into dst.
func (b *Builder) MovImm(dst Temp, v uint64) {
	b.emit(Op{Kind: OpConst, Dst: dst, A: NoTemp, B: NoTemp, C: NoTemp, D: NoTemp, Imm: v, Width: b.widthOf(dst)})
}

// Mov copies src into dst.
func (b *Builder) Mov(dst, src Temp) {
	b.emit(Op{Kind: OpMov, Dst: dst, A: src, B: NoTemp, C: NoTemp, D: NoTemp, Width: b.widthOf(dst)})
}

func (b *Builder) alu(kind OpKind, dst, a, x Temp) {
	b.emit(Op{Kind: kind, Dst: dst, A: a, B: x, C: NoTemp, D: NoTemp, Width: b.widthOf(dst)})
}

func (b *Builder) aluImm(kind OpKind, dst, a Temp, imm uint64) {
	b.emit(Op{Kind: kind, Dst: dst, A: a, B: NoTemp, C: NoTemp, D: NoTemp, Imm: imm, Width: b.widthOf(dst)})
}

// And computes dst = a & c.
func (b *Builder) And(dst, a, c Temp) { b.alu(OpAnd, dst, a, c) }

// Or computes dst = a | c.
func (b *Builder) Or(dst, a, c Temp) { b.alu(OpOr, dst, a, c) }

// Xor computes dst = a ^ c.
func (b *Builder) Xor(dst, a, c Temp) { b.alu(OpXor, dst, a, c) }

// Add computes dst = a + c.
func (b *Builder) Add(dst, a, c Temp) { b.alu(OpAdd, dst, a, c) }

// Sub computes dst = a - c.
func (b *Builder) Sub(dst, a, c Temp) { b.alu(OpSub, dst, a, c) }

// AndImm computes dst = a & imm.
func (b *Builder) AndImm(dst, a Temp, imm uint64) { b.aluImm(OpAndImm, dst, a, imm) }

// OrImm computes dst = a | imm.
func (b *Builder) OrImm(dst, a Temp, imm uint64) { b.aluImm(OpOrImm, dst, a, imm) }

// XorImm computes dst = a ^ imm.
func (b *Builder) XorImm(dst, a Temp, imm uint64) { b.aluImm(OpXorImm, dst, a, imm) }

// AddImm computes dst = a + imm.
func (b *Builder) AddImm(dst, a Temp, imm uint64) { b.aluImm(OpAddImm, dst, a, imm) }

// ShlImm computes dst = a << imm.
func (b *Builder) ShlImm(dst, a Temp, imm uint64) { b.aluImm(OpShlImm, dst, a, imm) }

// ShrImm computes dst = a >> imm, shifting in zeroes.
func (b *Builder) ShrImm(dst, a Temp, imm uint64) { b.aluImm(OpShrImm, dst, a, imm) }

// SarImm computes dst = a >> imm, replicating the sign bit.
func (b *Builder) SarImm(dst, a Temp, imm uint64) { b.aluImm(OpSarImm, dst, a, imm) }

// Deposit inserts the low length bits of src into base at pos and
// writes the result to dst.
func (b *Builder) Deposit(dst, base, src Temp, pos, length uint8) {
	b.emit(Op{
		Kind: OpDeposit, Dst: dst, A: base, B: src, C: NoTemp, D: NoTemp,
		DepositPos: pos, DepositLen: length, Width: b.widthOf(dst),
	})
}

// MovCond writes t to dst when a cond c holds, f otherwise.
func (b *Builder) MovCond(cond Cond, dst, a, c, t, f Temp) {
	b.emit(Op{Kind: OpMovCond, Dst: dst, A: a, B: c, C: t, D: f, Cond: cond, Width: b.widthOf(dst)})
}

// NewLabel allocates a branch target.
func (b *Builder) NewLabel() Label {
	l := Label(b.numLabels)
	b.numLabels++
	return l
}

// SetLabel marks the current position as l.
func (b *Builder) SetLabel(l Label) {
	b.emit(Op{Kind: OpSetLabel, Dst: NoTemp, A: NoTemp, B: NoTemp, C: NoTemp, D: NoTemp, Label: l})
}

// Br branches unconditionally to l.
func (b *Builder) Br(l Label) {
	b.emit(Op{Kind: OpBr, Dst: NoTemp, A: NoTemp, B: NoTemp, C: NoTemp, D: NoTemp, Label: l})
}

// BrCondImm branches to l when a cond imm holds.
func (b *Builder) BrCondImm(cond Cond, a Temp, imm uint64, l Label) {
	b.emit(Op{Kind: OpBrCondImm, Dst: NoTemp, A: a, B: NoTemp, C: NoTemp, D: NoTemp, Imm: imm, Cond: cond, Label: l, Width: b.widthOf(a)})
}

// LoadField loads the state field f into dst.
func (b *Builder) LoadField(dst Temp, f Field) {
	b.emit(Op{Kind: OpLoadField, Dst: dst, A: NoTemp, B: NoTemp, C: NoTemp, D: NoTemp, Field: f, Width: 4})
}

// StoreField stores src into the state field f.
func (b *Builder) StoreField(f Field, src Temp) {
	b.emit(Op{Kind: OpStoreField, Dst: NoTemp, A: src, B: NoTemp, C: NoTemp, D: NoTemp, Field: f, Width: 4})
}

func (b *Builder) vreg(kind OpKind, t Temp, off uint32, width uint8) {
	op := Op{Kind: kind, Dst: NoTemp, A: NoTemp, B: NoTemp, C: NoTemp, D: NoTemp, Imm: uint64(off), Width: width}
	if kind == OpLoadVReg {
		op.Dst = t
	} else {
		op.A = t
	}
	b.emit(op)
}

// LoadVReg8 loads an 8-bit FP register slice at byte offset off.
func (b *Builder) LoadVReg8(dst Temp, off uint32) { b.vreg(OpLoadVReg, dst, off, 1) }

// LoadVReg16 loads a 16-bit FP register slice at byte offset off.
func (b *Builder) LoadVReg16(dst Temp, off uint32) { b.vreg(OpLoadVReg, dst, off, 2) }

// LoadVReg32 loads a 32-bit FP register at byte offset off.
func (b *Builder) LoadVReg32(dst Temp, off uint32) { b.vreg(OpLoadVReg, dst, off, 4) }

// LoadVReg64 loads a 64-bit FP register at byte offset off.
func (b *Builder) LoadVReg64(dst Temp, off uint32) { b.vreg(OpLoadVReg, dst, off, 8) }

// StoreVReg8 stores an 8-bit FP register slice at byte offset off.
func (b *Builder) StoreVReg8(off uint32, src Temp) { b.vreg(OpStoreVReg, src, off, 1) }

// StoreVReg16 stores a 16-bit FP register slice at byte offset off.
func (b *Builder) StoreVReg16(off uint32, src Temp) { b.vreg(OpStoreVReg, src, off, 2) }

// StoreVReg32 stores a 32-bit FP register at byte offset off.
func (b *Builder) StoreVReg32(off uint32, src Temp) { b.vreg(OpStoreVReg, src, off, 4) }

// StoreVReg64 stores a 64-bit FP register at byte offset off.
func (b *Builder) StoreVReg64(off uint32, src Temp) { b.vreg(OpStoreVReg, src, off, 8) }

// LoadGPR loads general-purpose register r into dst.
func (b *Builder) LoadGPR(dst Temp, r uint8) {
	b.emit(Op{Kind: OpLoadGPR, Dst: dst, A: NoTemp, B: NoTemp, C: NoTemp, D: NoTemp, Imm: uint64(r), Width: 4})
}

// StoreGPR stores src into general-purpose register r.
func (b *Builder) StoreGPR(r uint8, src Temp) {
	b.emit(Op{Kind: OpStoreGPR, Dst: NoTemp, A: src, B: NoTemp, C: NoTemp, D: NoTemp, Imm: uint64(r), Width: 4})
}

// LoadMem loads width bytes at address addr into dst.
func (b *Builder) LoadMem(dst, addr Temp, width uint8) {
	b.emit(Op{Kind: OpLoadMem, Dst: dst, A: addr, B: NoTemp, C: NoTemp, D: NoTemp, Width: width})
}

// StoreMem stores the low width bytes of src at address addr.
func (b *Builder) StoreMem(addr, src Temp, width uint8) {
	b.emit(Op{Kind: OpStoreMem, Dst: NoTemp, A: addr, B: src, C: NoTemp, D: NoTemp, Width: width})
}

// FPStatus loads a handle for the float status bank flavor.
func (b *Builder) FPStatus(flavor StatusFlavor) Temp {
	t := b.NewTemp32()
	b.emit(Op{Kind: OpFPStatus, Dst: t, A: NoTemp, B: NoTemp, C: NoTemp, D: NoTemp, Imm: uint64(flavor), Width: 4})
	return t
}

// Call invokes helper with up to three arguments and the status handle
// status, writing the result to dst. Pass NoTemp for unused slots.
func (b *Builder) Call(helper Helper, dst, status Temp, args ...Temp) {
	op := Op{Kind: OpCall, Dst: dst, A: NoTemp, B: NoTemp, C: NoTemp, D: status, Helper: helper}
	if dst != NoTemp {
		op.Width = b.widthOf(dst)
	}
	slots := []*Temp{&op.A, &op.B, &op.C}
	for i, a := range args {
		*slots[i] = a
	}
	b.emit(op)
}

// Raise raises exception exc and ends the program.
func (b *Builder) Raise(exc Exception) {
	b.emit(Op{Kind: OpRaise, Dst: NoTemp, A: NoTemp, B: NoTemp, C: NoTemp, D: NoTemp, Exc: exc})
}
