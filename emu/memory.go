package emu

import "encoding/binary"

const pageBits = 12
const pageSize = 1 << pageBits

// Memory is a sparse, page-backed byte-addressable memory.
type Memory struct {
	pages map[uint32]*[pageSize]byte
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint32]*[pageSize]byte)}
}

func (m *Memory) page(addr uint32, create bool) *[pageSize]byte {
	idx := addr >> pageBits
	p := m.pages[idx]
	if p == nil && create {
		p = &[pageSize]byte{}
		m.pages[idx] = p
	}
	return p
}

// Read8 returns the byte at addr. Unwritten memory reads as zero.
func (m *Memory) Read8(addr uint32) byte {
	p := m.page(addr, false)
	if p == nil {
		return 0
	}
	return p[addr&(pageSize-1)]
}

// Write8 sets the byte at addr.
func (m *Memory) Write8(addr uint32, v byte) {
	m.page(addr, true)[addr&(pageSize-1)] = v
}

// Read returns width bytes at addr as a little-endian value.
func (m *Memory) Read(addr uint32, width uint8) uint64 {
	var buf [8]byte
	for i := uint8(0); i < width; i++ {
		buf[i] = m.Read8(addr + uint32(i))
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// Write stores the low width bytes of v at addr, little-endian.
func (m *Memory) Write(addr uint32, width uint8, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	for i := uint8(0); i < width; i++ {
		m.Write8(addr+uint32(i), buf[i])
	}
}

// Read32 returns the 32-bit value at addr.
func (m *Memory) Read32(addr uint32) uint32 {
	return uint32(m.Read(addr, 4))
}

// Write32 stores a 32-bit value at addr.
func (m *Memory) Write32(addr uint32, v uint32) {
	m.Write(addr, 4, uint64(v))
}

// Read64 returns the 64-bit value at addr.
func (m *Memory) Read64(addr uint32) uint64 {
	return m.Read(addr, 8)
}

// Write64 stores a 64-bit value at addr.
func (m *Memory) Write64(addr uint32, v uint64) {
	m.Write(addr, 8, v)
}
