// int10h_test.go - INT 10h video service dispatch tests.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "testing"

func TestInt10h_SetGetCursorPosition(t *testing.T) {
	mc := NewMachine(nil, ".")
	cpu := mc.CPU
	cpu.Regs.SetAH(0x02)
	cpu.Regs.SetBH(0)
	cpu.Regs.SetDL(5)
	cpu.Regs.SetDH(10)
	mc.Services.Dispatch(0x10, cpu)

	cpu.Regs.SetAH(0x03)
	cpu.Regs.SetBH(0)
	mc.Services.Dispatch(0x10, cpu)

	if cpu.Regs.DL() != 5 || cpu.Regs.DH() != 10 {
		t.Errorf("cursor pos: got (%d,%d), want (5,10)", cpu.Regs.DL(), cpu.Regs.DH())
	}
}

func TestInt10h_WriteCharAttrNTimes(t *testing.T) {
	mc := NewMachine(nil, ".")
	cpu := mc.CPU
	mc.BDA.SetCursorPos(0, 0, 0)
	cpu.Regs.SetAH(0x09)
	cpu.Regs.SetAL('Q')
	cpu.Regs.SetBL(0x4F)
	cpu.Regs.CX = 3
	mc.Services.Dispatch(0x10, cpu)

	for col := 0; col < 3; col++ {
		ch, attr := mc.Video.ReadCell(0, 0, col)
		if ch != 'Q' || attr != 0x4F {
			t.Errorf("cell %d: got (%q,0x%02X), want ('Q',0x4F)", col, ch, attr)
		}
	}
}

func TestInt10h_TeletypeOutput(t *testing.T) {
	mc := NewMachine(nil, ".")
	cpu := mc.CPU
	mc.BDA.SetCursorPos(0, 0, 0)
	cpu.Regs.SetAH(0x0E)
	cpu.Regs.SetAL('A')
	cpu.Regs.SetBL(0x07)
	mc.Services.Dispatch(0x10, cpu)

	ch, _ := mc.Video.ReadCell(0, 0, 0)
	if ch != 'A' {
		t.Errorf("teletype write: got %q, want 'A'", ch)
	}
	col, _ := mc.BDA.CursorPos(0)
	if col != 1 {
		t.Errorf("cursor advance: got col %d, want 1", col)
	}
}

func TestInt10h_GetVideoMode(t *testing.T) {
	mc := NewMachine(nil, ".")
	cpu := mc.CPU
	cpu.Regs.SetAH(0x0F)
	mc.Services.Dispatch(0x10, cpu)

	if cpu.Regs.AL() != 0x03 {
		t.Errorf("video mode: got 0x%02X, want 0x03", cpu.Regs.AL())
	}
	if cpu.Regs.AH() != 80 {
		t.Errorf("columns: got %d, want 80", cpu.Regs.AH())
	}
}

func TestInt10h_SetVideoMode(t *testing.T) {
	mc := NewMachine(nil, ".")
	cpu := mc.CPU
	cpu.Regs.SetAH(0x00)
	cpu.Regs.SetAL(0x00)
	mc.Services.Dispatch(0x10, cpu)

	if mc.BDA.VideoMode() != 0x00 {
		t.Errorf("video mode: got 0x%02X, want 0x00", mc.BDA.VideoMode())
	}
	if mc.BDA.Columns() != 40 {
		t.Errorf("columns: got %d, want 40", mc.BDA.Columns())
	}
}
