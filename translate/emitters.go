package translate

import "github.com/sarchlab/vfpsim/ir"

// op3Fn emits the computation of one three-operand element: the result
// into fd from operands f0 and f1. For accumulating operations fd
// already holds the old destination value.
type op3Fn func(fd, f0, f1 ir.Temp)

// op2Fn emits the computation of one two-operand element.
type op2Fn func(fd, f0 ir.Temp)

// vecParams works out the legacy short-vector iteration for a
// destination and m operand: iterations beyond the first, the
// destination step, and the m step (zero for one-to-many replication
// of a scalar-bank m operand).
func (t *trans) vecParams(scalarD, scalarM bool, dp bool) (veclen, deltaD, deltaM uint32) {
	veclen = t.ctx.VecLen
	if veclen == 0 {
		return 0, 0, 0
	}
	if scalarD {
		return 0, 0, 0
	}
	if dp {
		deltaD = t.ctx.VecStride>>1 + 1
	} else {
		deltaD = t.ctx.VecStride + 1
	}
	if !scalarM {
		deltaM = deltaD
	}
	return veclen, deltaD, deltaM
}

// vecGuard rejects nonzero vector fields when short vectors are not
// implemented, or (for the v8-only half-precision ops) at all.
func (t *trans) vecGuard() bool {
	if !t.feat.ShortVectors &&
		(t.ctx.VecLen != 0 || t.ctx.VecStride != 0) {
		return false
	}
	return true
}

func (t *trans) do3opSP(fn op3Fn, vd, vn, vm uint8, readsVd bool) bool {
	if !t.feat.FPSP {
		return false
	}
	if !t.vecGuard() {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	veclen, deltaD, deltaM := t.vecParams(sIsScalar(vd), sIsScalar(vm), false)

	f0 := t.b.NewTemp32()
	f1 := t.b.NewTemp32()
	fd := t.b.NewTemp32()
	t.b.LoadVReg32(f0, sOff(vn))
	t.b.LoadVReg32(f1, sOff(vm))

	for {
		if readsVd {
			t.b.LoadVReg32(fd, sOff(vd))
		}
		fn(fd, f0, f1)
		t.b.StoreVReg32(sOff(vd), fd)

		if veclen == 0 {
			break
		}
		veclen--
		vd = sAdvance(vd, deltaD)
		vn = sAdvance(vn, deltaD)
		t.b.LoadVReg32(f0, sOff(vn))
		if deltaM != 0 {
			vm = sAdvance(vm, deltaM)
			t.b.LoadVReg32(f1, sOff(vm))
		}
	}

	t.b.Free(f0, f1, fd)
	return true
}

func (t *trans) do3opDP(fn op3Fn, vd, vn, vm uint8, readsVd bool) bool {
	if !t.feat.FPDP {
		return false
	}
	if !t.feat.D32 && (vd|vn|vm)&0x10 != 0 {
		return false
	}
	if !t.vecGuard() {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	veclen, deltaD, deltaM := t.vecParams(dIsScalar(vd), dIsScalar(vm), true)

	f0 := t.b.NewTemp64()
	f1 := t.b.NewTemp64()
	fd := t.b.NewTemp64()
	t.b.LoadVReg64(f0, dOff(vn))
	t.b.LoadVReg64(f1, dOff(vm))

	for {
		if readsVd {
			t.b.LoadVReg64(fd, dOff(vd))
		}
		fn(fd, f0, f1)
		t.b.StoreVReg64(dOff(vd), fd)

		if veclen == 0 {
			break
		}
		veclen--
		vd = dAdvance(vd, deltaD)
		vn = dAdvance(vn, deltaD)
		t.b.LoadVReg64(f0, dOff(vn))
		if deltaM != 0 {
			vm = dAdvance(vm, deltaM)
			t.b.LoadVReg64(f1, dOff(vm))
		}
	}

	t.b.Free(f0, f1, fd)
	return true
}

// do3opHP is the half-precision variant: no vector handling, since the
// short-vector scheme predates half-precision arithmetic.
func (t *trans) do3opHP(fn op3Fn, vd, vn, vm uint8, readsVd bool) bool {
	if !t.feat.FP16 {
		return false
	}
	if t.ctx.VecLen != 0 || t.ctx.VecStride != 0 {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	f0 := t.b.NewTemp32()
	f1 := t.b.NewTemp32()
	fd := t.b.NewTemp32()
	t.b.LoadVReg16(f0, t.f16Off(vn, false))
	t.b.LoadVReg16(f1, t.f16Off(vm, false))

	if readsVd {
		t.b.LoadVReg16(fd, t.f16Off(vd, false))
	}
	fn(fd, f0, f1)
	t.b.StoreVReg16(t.f16Off(vd, false), fd)

	t.b.Free(f0, f1, fd)
	return true
}

func (t *trans) do2opSP(fn op2Fn, vd, vm uint8) bool {
	if !t.feat.FPSP {
		return false
	}
	if !t.vecGuard() {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	veclen, deltaD, deltaM := t.vecParams(sIsScalar(vd), sIsScalar(vm), false)

	f0 := t.b.NewTemp32()
	fd := t.b.NewTemp32()
	t.b.LoadVReg32(f0, sOff(vm))

	for {
		fn(fd, f0)
		t.b.StoreVReg32(sOff(vd), fd)

		if veclen == 0 {
			break
		}
		if deltaM == 0 {
			// One-to-many: replicate the result across the vector.
			for veclen > 0 {
				veclen--
				vd = sAdvance(vd, deltaD)
				t.b.StoreVReg32(sOff(vd), fd)
			}
			break
		}
		veclen--
		vd = sAdvance(vd, deltaD)
		vm = sAdvance(vm, deltaM)
		t.b.LoadVReg32(f0, sOff(vm))
	}

	t.b.Free(f0, fd)
	return true
}

func (t *trans) do2opDP(fn op2Fn, vd, vm uint8) bool {
	if !t.feat.FPDP {
		return false
	}
	if !t.feat.D32 && (vd|vm)&0x10 != 0 {
		return false
	}
	if !t.vecGuard() {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	veclen, deltaD, deltaM := t.vecParams(dIsScalar(vd), dIsScalar(vm), true)

	f0 := t.b.NewTemp64()
	fd := t.b.NewTemp64()
	t.b.LoadVReg64(f0, dOff(vm))

	for {
		fn(fd, f0)
		t.b.StoreVReg64(dOff(vd), fd)

		if veclen == 0 {
			break
		}
		if deltaM == 0 {
			for veclen > 0 {
				veclen--
				vd = dAdvance(vd, deltaD)
				t.b.StoreVReg64(dOff(vd), fd)
			}
			break
		}
		veclen--
		vd = dAdvance(vd, deltaD)
		vm = dAdvance(vm, deltaM)
		t.b.LoadVReg64(f0, dOff(vm))
	}

	t.b.Free(f0, fd)
	return true
}

func (t *trans) do2opHP(fn op2Fn, vd, vm uint8) bool {
	if !t.feat.FP16 {
		return false
	}
	if t.ctx.VecLen != 0 || t.ctx.VecStride != 0 {
		return false
	}
	if !t.accessCheck() {
		return true
	}

	f0 := t.b.NewTemp32()
	fd := t.b.NewTemp32()
	t.b.LoadVReg16(f0, t.f16Off(vm, false))
	fn(fd, f0)
	t.b.StoreVReg16(t.f16Off(vd, false), fd)

	t.b.Free(f0, fd)
	return true
}

// helper3 adapts a float helper into an op3Fn over the given status
// flavor.
func (t *trans) helper3(h ir.Helper, flavor ir.StatusFlavor) op3Fn {
	return func(fd, f0, f1 ir.Temp) {
		fpst := t.b.FPStatus(flavor)
		t.b.Call(h, fd, fpst, f0, f1)
		t.b.Free(fpst)
	}
}

// helper2 adapts a one-operand float helper into an op2Fn.
func (t *trans) helper2(h ir.Helper, flavor ir.StatusFlavor) op2Fn {
	return func(fd, f0 ir.Temp) {
		fpst := t.b.FPStatus(flavor)
		t.b.Call(h, fd, fpst, f0)
		t.b.Free(fpst)
	}
}
