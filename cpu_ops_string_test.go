// cpu_ops_string_test.go - REP-qualified string instruction tests.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's TestX86_MOVS/TestX86_REP_STOSB idiom in
// cpu_x86_test.go: set up source/dest pointers and CX, step once, check
// the moved bytes and the terminal register state.

package main

import "testing"

func TestREP_STOSB_FillsCXBytesAndClearsCX(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.ES = 0x3000
	mc.CPU.Regs.DI = 0x0010
	mc.CPU.Regs.CX = 5
	mc.CPU.Regs.SetAL(0x41)
	load(mc, 0xF3, 0xAA) // REP STOSB

	mc.CPU.Step()

	if mc.CPU.Regs.CX != 0 {
		t.Errorf("CX: got %d, want 0", mc.CPU.Regs.CX)
	}
	if mc.CPU.Regs.DI != 0x0015 {
		t.Errorf("DI: got 0x%04X, want 0x0015", mc.CPU.Regs.DI)
	}
	for off := uint16(0x0010); off < 0x0015; off++ {
		if got := mc.Memory.Read8(0x3000, off); got != 0x41 {
			t.Errorf("byte at %04X: got 0x%02X, want 0x41", off, got)
		}
	}
}

func TestMOVSB_SingleByteNoPrefix(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.DS = 0x1000
	mc.CPU.Regs.ES = 0x2000
	mc.CPU.Regs.SI = 0x0000
	mc.CPU.Regs.DI = 0x0000
	mc.Memory.Write8(0x1000, 0, 0x99)
	load(mc, 0xA4) // MOVSB, no REP

	mc.CPU.Step()

	if got := mc.Memory.Read8(0x2000, 0); got != 0x99 {
		t.Errorf("dest byte: got 0x%02X, want 0x99", got)
	}
	if mc.CPU.Regs.SI != 1 || mc.CPU.Regs.DI != 1 {
		t.Errorf("SI/DI after MOVSB: got %d/%d, want 1/1", mc.CPU.Regs.SI, mc.CPU.Regs.DI)
	}
}

func TestREPNZ_SCASB_StopsOnMatch(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.ES = 0x4000
	mc.CPU.Regs.DI = 0
	mc.CPU.Regs.CX = 10
	mc.CPU.Regs.SetAL('X')
	for i := byte(0); i < 10; i++ {
		mc.Memory.Write8(0x4000, uint16(i), 'a'+i)
	}
	mc.Memory.Write8(0x4000, 3, 'X') // match at offset 3
	load(mc, 0xF2, 0xAE)             // REPNZ SCASB

	mc.CPU.Step()

	if mc.CPU.Regs.DI != 4 {
		t.Errorf("DI: got %d, want 4 (stopped right after the match)", mc.CPU.Regs.DI)
	}
	if mc.CPU.Regs.CX != 6 {
		t.Errorf("CX: got %d, want 6 (4 bytes scanned, one of them the match)", mc.CPU.Regs.CX)
	}
	if !mc.CPU.Flags.ZF {
		t.Error("ZF should be set: the scan stopped on a match")
	}
}

func TestStringOps_DirectionFlagReversesStep(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.ES = 0x4000
	mc.CPU.Regs.DI = 0x0010
	mc.CPU.Flags.DF = true
	load(mc, 0xAA) // STOSB, no REP

	mc.CPU.Step()

	if mc.CPU.Regs.DI != 0x000F {
		t.Errorf("DI with DF set: got 0x%04X, want 0x000F", mc.CPU.Regs.DI)
	}
}
