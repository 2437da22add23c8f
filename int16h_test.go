// int16h_test.go - INT 16h keyboard service tests.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "testing"

func TestInt16h_BlockingReadReturnsQueuedKey(t *testing.T) {
	mc := NewMachine(nil, ".")
	mc.Keyboard.Push(0x1E, 'a')
	cpu := mc.CPU
	cpu.Regs.SetAH(0x00)

	mc.Services.Dispatch(0x16, cpu)

	if cpu.Regs.AL() != 'a' || cpu.Regs.AH() != 0x1E {
		t.Errorf("got AL=%q AH=0x%02X, want AL='a' AH=0x1E", cpu.Regs.AL(), cpu.Regs.AH())
	}
}

func TestInt16h_BlockingReadYieldsWhenEmpty(t *testing.T) {
	mc := NewMachine(nil, ".")
	cpu := mc.CPU
	cpu.Regs.SetAH(0x00)
	cpu.Regs.IP = 0x100

	mc.Services.Dispatch(0x16, cpu)

	if !mc.needsYield {
		t.Error("an empty ring must request a scheduler yield")
	}
	if cpu.Regs.IP != 0x0FE {
		t.Errorf("IP rewind: got 0x%04X, want 0x00FE", cpu.Regs.IP)
	}
}

func TestInt16h_NonBlockingPeekSetsZFWhenEmpty(t *testing.T) {
	mc := NewMachine(nil, ".")
	cpu := mc.CPU
	cpu.Regs.SetAH(0x01)

	mc.Services.Dispatch(0x16, cpu)

	if !cpu.Flags.ZF {
		t.Error("ZF must be set when no key is waiting")
	}
}

func TestInt16h_NonBlockingPeekClearsZFAndDoesNotConsume(t *testing.T) {
	mc := NewMachine(nil, ".")
	mc.Keyboard.Push(0x30, 'b')
	cpu := mc.CPU
	cpu.Regs.SetAH(0x01)

	mc.Services.Dispatch(0x16, cpu)

	if cpu.Flags.ZF {
		t.Error("ZF must be clear when a key is waiting")
	}
	if cpu.Regs.AL() != 'b' {
		t.Errorf("AL: got %q, want 'b'", cpu.Regs.AL())
	}
	if mc.Keyboard.Empty() {
		t.Error("peek must not consume the key")
	}
}

func TestInt16h_ShiftState(t *testing.T) {
	mc := NewMachine(nil, ".")
	mc.BDA.SetShiftState(0x08)
	cpu := mc.CPU
	cpu.Regs.SetAH(0x02)

	mc.Services.Dispatch(0x16, cpu)

	if cpu.Regs.AL() != 0x08 {
		t.Errorf("shift state: got 0x%02X, want 0x08", cpu.Regs.AL())
	}
}

// TestInt16h_StubReturnPreservesZFEndToEnd drives a real `CD 16` through
// the CPU's own interrupt stub so the non-blocking peek's ZF (§4.8) is
// checked after the stub's own RETF 2, not read straight off cpu.Flags
// before any return instruction has run.
func TestInt16h_StubReturnPreservesZFEndToEnd(t *testing.T) {
	mc := newTestMachine()
	cpu := mc.CPU
	mc.Keyboard.Push(0x30, 'b') // a key is waiting, so ZF must end up clear

	cpu.Regs.SetAH(0x01) // non-blocking peek
	cpu.Flags.ZF = true  // pre-call flags: deliberately the opposite of what the handler will set
	load(mc, 0xCD, 0x16, 0x90)

	cpu.Step() // CD 16: pushes the pre-call (ZF=true) FLAGS
	cpu.Step() // sentinel: upcalls svcInt16h, which clears ZF directly since a key is waiting
	if cpu.Flags.ZF {
		t.Fatal("svcInt16h must have cleared ZF after the sentinel upcall")
	}
	cpu.Step() // the stub's RETF 2

	if cpu.Regs.CS != 0x1000 || cpu.Regs.IP != 2 {
		t.Fatalf("after stub return: CS:IP got %04X:%04X, want 1000:0002", cpu.Regs.CS, cpu.Regs.IP)
	}
	if cpu.Flags.ZF {
		t.Error("RETF 2 must leave the handler's ZF=false intact, not restore the pre-call ZF=true")
	}
	if cpu.Regs.AL() != 'b' {
		t.Errorf("AL after return: got %q, want 'b'", cpu.Regs.AL())
	}
}
