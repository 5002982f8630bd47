package translate

import "github.com/sarchlab/vfpsim/ir"

// Backend is the op sink translation emits into. ir.Builder is the
// production implementation; tests can substitute a recorder.
type Backend interface {
	Program() *ir.Program

	NewTemp32() ir.Temp
	NewTemp64() ir.Temp
	Free(temps ...ir.Temp)
	Const32(v uint32) ir.Temp
	Const64(v uint64) ir.Temp

	MovImm(dst ir.Temp, v uint64)
	Mov(dst, src ir.Temp)
	And(dst, a, c ir.Temp)
	Or(dst, a, c ir.Temp)
	Xor(dst, a, c ir.Temp)
	Add(dst, a, c ir.Temp)
	Sub(dst, a, c ir.Temp)
	AndImm(dst, a ir.Temp, imm uint64)
	OrImm(dst, a ir.Temp, imm uint64)
	XorImm(dst, a ir.Temp, imm uint64)
	AddImm(dst, a ir.Temp, imm uint64)
	ShlImm(dst, a ir.Temp, imm uint64)
	ShrImm(dst, a ir.Temp, imm uint64)
	SarImm(dst, a ir.Temp, imm uint64)
	Deposit(dst, base, src ir.Temp, pos, length uint8)
	MovCond(cond ir.Cond, dst, a, c, t, f ir.Temp)

	NewLabel() ir.Label
	SetLabel(l ir.Label)
	Br(l ir.Label)
	BrCondImm(cond ir.Cond, a ir.Temp, imm uint64, l ir.Label)

	LoadField(dst ir.Temp, f ir.Field)
	StoreField(f ir.Field, src ir.Temp)
	LoadVReg8(dst ir.Temp, off uint32)
	LoadVReg16(dst ir.Temp, off uint32)
	LoadVReg32(dst ir.Temp, off uint32)
	LoadVReg64(dst ir.Temp, off uint32)
	StoreVReg8(off uint32, src ir.Temp)
	StoreVReg16(off uint32, src ir.Temp)
	StoreVReg32(off uint32, src ir.Temp)
	StoreVReg64(off uint32, src ir.Temp)
	LoadGPR(dst ir.Temp, r uint8)
	StoreGPR(r uint8, src ir.Temp)
	LoadMem(dst, addr ir.Temp, width uint8)
	StoreMem(addr, src ir.Temp, width uint8)

	FPStatus(flavor ir.StatusFlavor) ir.Temp
	Call(helper ir.Helper, dst, status ir.Temp, args ...ir.Temp)
	Raise(exc ir.Exception)
}

var _ Backend = (*ir.Builder)(nil)
