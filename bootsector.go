// bootsector.go - flat 512-byte boot-sector image loading, a "bare
// metal" mode distinct from COM/EXE loading.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on original_source's boot-sector path (Part D): the image is
// placed at the real-mode boot address 07C0:0000 and execution starts
// there directly, with no PSP, MCB, or DOS service state initialized -
// a program in this mode gets only the CPU, memory, and whatever BIOS
// vectors the stub table (stubs.go) already installs.
package main

import "errors"

const bootSectorSegment = 0x07C0

// LoadBootSector loads a raw 512-byte sector image at 07C0:0000 and
// returns the entry state: CS:IP at the boot address, a fresh stack
// below it, no PSP segment (PSPSegment is left 0).
func (mc *Machine) LoadBootSector(image []byte) (LoadResult, error) {
	if len(image) != 512 {
		return LoadResult{}, errors.New("boot sector image must be exactly 512 bytes")
	}
	for i, b := range image {
		mc.Memory.Write8(bootSectorSegment, uint16(i), b)
	}
	return LoadResult{
		PSPSegment: 0,
		CS: bootSectorSegment, IP: 0,
		SS: bootSectorSegment, SP: 0xFFFE,
		DS: bootSectorSegment, ES: bootSectorSegment,
	}, nil
}
