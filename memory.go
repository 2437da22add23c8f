// memory.go - flat 1 MiB real-mode address space with segment:offset
// access helpers.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// The teacher's memory_bus.go backs a 16 MiB flat-addressed bus behind a
// mutex and an I/O-region map, suited to a multi-peripheral retro VM. A
// DOS real-mode machine has neither: a single CPU thread touches memory
// (§5, no locking required) and there is no port-mapped I/O space wider
// than the handful of ports INT 21h/INT 10h synthesize directly. Memory
// here is pure storage: a 1 MiB byte slice plus segment:offset helpers,
// matching §4.1 exactly.

package main

const memorySize = 1 << 20 // 1 MiB

// Memory is the sole backing store for code, data, stack, the BIOS data
// area, and the video buffer. It has no side effects of its own.
type Memory struct {
	bytes [memorySize]byte
}

// NewMemory returns a zeroed 1 MiB address space.
func NewMemory() *Memory {
	return &Memory{}
}

// linear computes (segment<<4)+offset with 16-bit wraparound at the
// offset level only, per §4.1: an access at offset 0xFFFF reads/writes
// the byte at linear+1 of the same segment, not byte 0 of the segment.
func linear(segment, offset uint16) uint32 {
	return uint32(segment)<<4 + uint32(offset)
}

func (m *Memory) mask(addr uint32) uint32 {
	return addr & (memorySize - 1)
}

// Read8 reads one byte at segment:offset.
func (m *Memory) Read8(segment, offset uint16) byte {
	return m.bytes[m.mask(linear(segment, offset))]
}

// Write8 writes one byte at segment:offset.
func (m *Memory) Write8(segment, offset uint16, v byte) {
	m.bytes[m.mask(linear(segment, offset))] = v
}

// Read16 reads a little-endian word at segment:offset. When offset is
// 0xFFFF the high byte is read from linear+1, which may be outside the
// segment's nominal 64 KiB window (hardware behavior; see §4.1).
func (m *Memory) Read16(segment, offset uint16) uint16 {
	lo := m.bytes[m.mask(linear(segment, offset))]
	hi := m.bytes[m.mask(linear(segment, offset)+1)]
	return uint16(lo) | uint16(hi)<<8
}

// Write16 writes a little-endian word at segment:offset.
func (m *Memory) Write16(segment, offset uint16, v uint16) {
	addr := linear(segment, offset)
	m.bytes[m.mask(addr)] = byte(v)
	m.bytes[m.mask(addr+1)] = byte(v >> 8)
}

// Linear exposes the raw linear address for a segment:offset pair, for
// callers (the loader, the MCB walker) that need to scan a contiguous
// run rather than go cell by cell.
func (m *Memory) Linear(segment, offset uint16) uint32 {
	return m.mask(linear(segment, offset))
}

// Bytes returns the raw backing slice for bulk load/relocate operations.
func (m *Memory) Bytes() []byte {
	return m.bytes[:]
}

// ReadString reads a NUL-terminated ASCII string starting at
// segment:offset, capped at maxLen bytes as a runaway-read guard.
func (m *Memory) ReadString(segment, offset uint16, maxLen int) string {
	var out []byte
	off := offset
	for i := 0; i < maxLen; i++ {
		b := m.Read8(segment, off)
		if b == 0 {
			break
		}
		out = append(out, b)
		off++
	}
	return string(out)
}
