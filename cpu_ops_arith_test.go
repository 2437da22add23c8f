// cpu_ops_arith_test.go - ALU family, INC/DEC, and BCD/ASCII adjust tests.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's cpu_x86_test.go idiom: a fresh CPU, opcode
// bytes poked directly at CS:IP, one Step(), then register/flag checks.

package main

import "testing"

func newTestMachine() *Machine {
	mc := NewMachine(nil, ".")
	mc.CPU.Regs.CS = 0x1000
	mc.CPU.Regs.IP = 0
	mc.CPU.Regs.SS = 0x2000
	mc.CPU.Regs.SP = 0xFFFE
	return mc
}

func load(mc *Machine, bytes ...byte) {
	for i, b := range bytes {
		mc.Memory.Write8(mc.CPU.Regs.CS, uint16(i), b)
	}
}

func TestALU_ADD_AL_Ib(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.SetAL(0x20)
	load(mc, 0x04, 0x10) // ADD AL, 0x10

	mc.CPU.Step()

	if got := mc.CPU.Regs.AL(); got != 0x30 {
		t.Errorf("AL: got 0x%02X, want 0x30", got)
	}
	if mc.CPU.Flags.CF {
		t.Error("CF should be clear")
	}
	if mc.CPU.Flags.ZF {
		t.Error("ZF should be clear")
	}
}

func TestALU_ADD_AL_Ib_CarryOut(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.SetAL(0xF0)
	load(mc, 0x04, 0x20) // ADD AL, 0x20

	mc.CPU.Step()

	if got := mc.CPU.Regs.AL(); got != 0x10 {
		t.Errorf("AL: got 0x%02X, want 0x10", got)
	}
	if !mc.CPU.Flags.CF {
		t.Error("CF should be set on unsigned overflow")
	}
}

func TestALU_SUB_Ev_Gv(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.AX = 0x0005
	mc.CPU.Regs.BX = 0x0005
	load(mc, 0x29, 0xD8) // SUB AX, BX  (mod=11 reg=BX rm=AX)

	mc.CPU.Step()

	if mc.CPU.Regs.AX != 0 {
		t.Errorf("AX: got 0x%04X, want 0", mc.CPU.Regs.AX)
	}
	if !mc.CPU.Flags.ZF {
		t.Error("ZF should be set")
	}
}

func TestALU_ADC_AL_Ib_FoldsCarryIntoResultNotOperand(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.SetAL(0x0F)
	mc.CPU.Flags.CF = true
	load(mc, 0x14, 0x0F) // ADC AL, 0x0F

	mc.CPU.Step()

	if got := mc.CPU.Regs.AL(); got != 0x1F {
		t.Errorf("AL: got 0x%02X, want 0x1F (0x0F+0x0F+carry)", got)
	}
	if mc.CPU.Flags.CF {
		t.Error("CF should be clear: 0x1F does not overflow a byte")
	}
	if !mc.CPU.Flags.AF {
		t.Error("AF should be set: the low nibbles (0xF+0xF+1) carry out of bit 3")
	}
}

func TestALU_SBB_AL_Ib_FoldsBorrowIntoResultNotOperand(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.SetAL(0x00)
	mc.CPU.Flags.CF = true
	load(mc, 0x1C, 0x00) // SBB AL, 0x00

	mc.CPU.Step()

	if got := mc.CPU.Regs.AL(); got != 0xFF {
		t.Errorf("AL: got 0x%02X, want 0xFF (0-0-borrow)", got)
	}
	if !mc.CPU.Flags.CF {
		t.Error("CF should be set: the subtraction borrows")
	}
	if !mc.CPU.Flags.AF {
		t.Error("AF should be set: the low nibble borrows")
	}
}

func TestALU_CMP_DoesNotWriteBack(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.SetAL(0x05)
	load(mc, 0x3C, 0x05) // CMP AL, 5

	mc.CPU.Step()

	if got := mc.CPU.Regs.AL(); got != 0x05 {
		t.Errorf("CMP must not modify AL: got 0x%02X", got)
	}
	if !mc.CPU.Flags.ZF {
		t.Error("ZF should be set when operands are equal")
	}
}

func TestALU_XOR_SelfClearsAndSetsZF(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.AX = 0x1234
	load(mc, 0x31, 0xC0) // XOR AX, AX

	mc.CPU.Step()

	if mc.CPU.Regs.AX != 0 {
		t.Errorf("AX: got 0x%04X, want 0", mc.CPU.Regs.AX)
	}
	if !mc.CPU.Flags.ZF || mc.CPU.Flags.CF || mc.CPU.Flags.OF {
		t.Error("XOR should set ZF and clear CF/OF")
	}
}

func TestIncDec_PreservesCarryFlag(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.AX = 0x00FF
	mc.CPU.Flags.CF = true
	load(mc, 0x40) // INC AX

	mc.CPU.Step()

	if mc.CPU.Regs.AX != 0x0100 {
		t.Errorf("AX: got 0x%04X, want 0x0100", mc.CPU.Regs.AX)
	}
	if !mc.CPU.Flags.CF {
		t.Error("INC must not clear a pre-existing carry flag")
	}
}

func TestGrp1_Ev_Ib_SignExtends(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.AX = 0x0005
	// ADD AX, -1 (0x83 /0 with sign-extended imm8 0xFF)
	load(mc, 0x83, 0xC0, 0xFF)

	mc.CPU.Step()

	if mc.CPU.Regs.AX != 0x0004 {
		t.Errorf("AX: got 0x%04X, want 0x0004", mc.CPU.Regs.AX)
	}
}

func TestDAA_AdjustsAfterBCDAdd(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.SetAL(0x09)
	mc.CPU.Flags.AF = true
	load(mc, 0x27) // DAA

	mc.CPU.Step()

	if got := mc.CPU.Regs.AL(); got != 0x0F {
		t.Errorf("AL: got 0x%02X, want 0x0F", got)
	}
}

func TestAAM_DivideByZeroRaisesInterrupt0(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.CS = 0x1000
	// vector 0 stub lives at emulatorStubSegment per installStubs.
	load(mc, 0xD4, 0x00) // AAM 0 -> divide by zero

	mc.CPU.Step()

	// raiseInterrupt should have pushed flags/CS/IP and jumped CS:IP to
	// the vector-0 stub rather than falling through to AAM's own body.
	if mc.CPU.Regs.CS != emulatorStubSegment {
		t.Errorf("CS after AAM/0: got 0x%04X, want stub segment 0x%04X", mc.CPU.Regs.CS, emulatorStubSegment)
	}
}

func TestCBW_SignExtendsAL(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.AX = 0x0080
	load(mc, 0x98) // CBW

	mc.CPU.Step()

	if mc.CPU.Regs.AX != 0xFF80 {
		t.Errorf("AX: got 0x%04X, want 0xFF80", mc.CPU.Regs.AX)
	}
}

func TestCWD_SignExtendsAX(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.AX = 0x8000
	load(mc, 0x99) // CWD

	mc.CPU.Step()

	if mc.CPU.Regs.DX != 0xFFFF {
		t.Errorf("DX: got 0x%04X, want 0xFFFF", mc.CPU.Regs.DX)
	}
}
