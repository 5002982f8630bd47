package translate

// Register file byte offsets: single n lives at 4n, double n at 8n,
// so D0 aliases the S0/S1 pair.

func sOff(n uint8) uint32 {
	return 4 * uint32(n)
}

func dOff(n uint8) uint32 {
	return 8 * uint32(n)
}

// f16Off returns the byte offset of the half-precision slice top or
// bottom of single register n. On a big-endian register file the top
// slice sits at the lower byte address.
func (t *trans) f16Off(n uint8, top bool) uint32 {
	off := sOff(n)
	if top != t.feat.BigEndian {
		off += 2
	}
	return off
}

// sIsScalar reports whether a single register sits in the scalar bank
// of the legacy short-vector scheme.
func sIsScalar(n uint8) bool {
	return n&0x18 == 0
}

// dIsScalar reports whether a double register sits in the scalar bank.
func dIsScalar(n uint8) bool {
	return n&0xc == 0
}

// sAdvance steps a single register within its vector bank.
func sAdvance(n uint8, delta uint32) uint8 {
	return uint8((uint32(n)+delta)&0x7) | n&^0x7
}

// dAdvance steps a double register within its vector bank.
func dAdvance(n uint8, delta uint32) uint8 {
	return uint8((uint32(n)+delta)&0x3) | n&^0x3
}

// vfpExpandImm expands the 8-bit FP immediate into a full
// floating-point constant of the given width in bits. The exponent is
// NOT(b) : Replicate(b) : imm[5:4] and the fraction is imm[3:0] padded
// with zeroes.
func vfpExpandImm(imm8 uint8, size int) uint64 {
	sign := uint64(imm8 >> 7)
	b := uint64(imm8 >> 6 & 1)
	e2 := uint64(imm8 >> 4 & 0x3)
	frac := uint64(imm8 & 0xF)

	switch size {
	case 64:
		exp := (b^1)<<10 | b*0xFF<<2 | e2
		return sign<<63 | exp<<52 | frac<<48
	case 32:
		exp := (b^1)<<7 | b*0x1F<<2 | e2
		return sign<<31 | exp<<23 | frac<<19
	default: // 16
		exp := (b^1)<<4 | b*0x3<<2 | e2
		return sign<<15 | exp<<10 | frac<<6
	}
}
