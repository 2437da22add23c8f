// cpu_decode_test.go - dispatch-table completeness and a few
// representative indirect-call shapes (JMP/CALL/PUSH/POP regs).
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on §4.2's opcode table and the teacher's own baseOps
// coverage expectations in cpu_x86_test.go (it never exhaustively walks
// its table, but individual opcode tests each assert a specific,
// documented encoding executes correctly - this file adds the
// table-shape check the teacher's single-ISA core never needed, since
// ours is hand-assembled via init() instead of generated per opcode).

package main

import "testing"

// documented8086Gaps lists opcode bytes this core deliberately leaves
// unmapped: undocumented/reserved forms (0x0F, 0xD6) and 80186+-only
// encodings (PUSHA/POPA/bound/push-imm range 0x60-0x6F, ENTER/LEAVE
// 0xC8/0xC9) that have no place in a true 8086.
func documented8086Gaps() map[byte]bool {
	gaps := map[byte]bool{
		0x0F: true, 0xD6: true, 0xC8: true, 0xC9: true, 0xF1: true,
		// Prefix bytes: intercepted by Step()/stepInner() before they ever
		// reach dispatch(), so baseOps has no entry for them.
		0x26: true, 0x2E: true, 0x36: true, 0x3E: true,
		0xF0: true, 0xF2: true, 0xF3: true,
	}
	for op := byte(0x60); op <= 0x6F; op++ {
		gaps[op] = true
	}
	return gaps
}

func TestBaseOps_NoUnexpectedGaps(t *testing.T) {
	gaps := documented8086Gaps()
	for op := 0; op < 256; op++ {
		b := byte(op)
		if gaps[b] {
			continue
		}
		if baseOps[b] == nil {
			t.Errorf("opcode 0x%02X has no handler and isn't a recognized gap", b)
		}
	}
}

func TestBaseOps_SentinelInstalled(t *testing.T) {
	if baseOps[interruptSentinel] == nil {
		t.Fatal("the interrupt sentinel opcode must always have a handler")
	}
}

func TestJMP_rel8_Forward(t *testing.T) {
	mc := newTestMachine()
	load(mc, 0xEB, 0x02, 0x90, 0x90, 0xF4) // JMP +2; NOP; NOP; HLT

	mc.CPU.Step()
	if mc.CPU.Regs.IP != 4 {
		t.Errorf("IP after JMP rel8: got %d, want 4", mc.CPU.Regs.IP)
	}
}

func TestCALL_RET_RoundTrips(t *testing.T) {
	mc := newTestMachine()
	// CALL rel16 +3 (to offset 6); at offset 6: RET
	load(mc, 0xE8, 0x03, 0x00, 0x90, 0x90, 0x90, 0xC3)

	mc.CPU.Step() // CALL
	if mc.CPU.Regs.IP != 6 {
		t.Errorf("IP after CALL: got %d, want 6", mc.CPU.Regs.IP)
	}
	mc.CPU.Step() // RET
	if mc.CPU.Regs.IP != 3 {
		t.Errorf("IP after RET: got %d, want 3 (return address)", mc.CPU.Regs.IP)
	}
}

func TestPUSH_POP_Reg16_RoundTrips(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Regs.BX = 0xBEEF
	startSP := mc.CPU.Regs.SP
	load(mc, 0x53, 0x5B) // PUSH BX; POP BX

	mc.CPU.Regs.BX = 0xBEEF
	mc.CPU.Step() // PUSH BX
	if mc.CPU.Regs.SP != startSP-2 {
		t.Errorf("SP after PUSH: got 0x%04X, want 0x%04X", mc.CPU.Regs.SP, startSP-2)
	}
	mc.CPU.Regs.BX = 0
	mc.CPU.Step() // POP BX
	if mc.CPU.Regs.BX != 0xBEEF {
		t.Errorf("BX after POP: got 0x%04X, want 0xBEEF", mc.CPU.Regs.BX)
	}
	if mc.CPU.Regs.SP != startSP {
		t.Errorf("SP after POP: got 0x%04X, want 0x%04X", mc.CPU.Regs.SP, startSP)
	}
}

func TestJcc_JZ_TakenAndNotTaken(t *testing.T) {
	mc := newTestMachine()
	mc.CPU.Flags.ZF = true
	load(mc, 0x74, 0x05) // JZ +5
	mc.CPU.Step()
	if mc.CPU.Regs.IP != 7 {
		t.Errorf("JZ taken: IP got %d, want 7", mc.CPU.Regs.IP)
	}

	mc2 := newTestMachine()
	mc2.CPU.Flags.ZF = false
	load(mc2, 0x74, 0x05)
	mc2.CPU.Step()
	if mc2.CPU.Regs.IP != 2 {
		t.Errorf("JZ not taken: IP got %d, want 2", mc2.CPU.Regs.IP)
	}
}
