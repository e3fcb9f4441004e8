package cpu

import "micro11/interrupts"

// Memory is flat, byte addressed physical memory.
// Words are little endian and need not be aligned.
type Memory []byte

// NewMemory returns zeroed memory of size bytes
func NewMemory(size uint32) Memory {
	return make(Memory, size)
}

// Size of the memory in bytes
func (m Memory) Size() uint32 {
	return uint32(len(m))
}

// check panics with a bus error trap when [addr, addr+n) is not backed
// by memory. There is no wraparound at the end of memory.
func (m Memory) check(addr uint32, n uint32, what string) {
	if uint64(addr)+uint64(n) > uint64(len(m)) {
		panic(interrupts.Bus(addr, what))
	}
}

func (m Memory) readByte(addr uint32) byte {
	m.check(addr, 1, "byte read")
	return m[addr]
}

func (m Memory) readWord(addr uint32) uint16 {
	m.check(addr, 2, "word read")
	return uint16(m[addr+1])<<8 | uint16(m[addr])
}

func (m Memory) writeByte(addr uint32, data byte) {
	m.check(addr, 1, "byte write")
	m[addr] = data
}

func (m Memory) writeWord(addr uint32, data uint16) {
	m.check(addr, 2, "word write")
	m[addr] = byte(data & 0xff)
	m[addr+1] = byte(data >> 8)
}

// peekWord reads a word without faulting
func (m Memory) peekWord(addr uint32) (uint16, bool) {
	if uint64(addr)+2 > uint64(len(m)) {
		return 0, false
	}
	return uint16(m[addr+1])<<8 | uint16(m[addr]), true
}
