// int16h.go - INT 16h keyboard services.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on §4.7/§4.8; a blocking read here does not actually block
// the host thread - it sets a CPU-visible "yield" flag the scheduler
// interprets as "sleep briefly, let timer/keyboard interrupts fire,
// and resume this same instruction", matching §9's coroutine-like
// blocking re-architecture note.

package main

func svcInt16h(mc *Machine, cpu *CPU) {
	switch cpu.Regs.AH() {
	case 0x00, 0x10: // blocking read
		if scancode, ascii, ok := mc.Keyboard.Pop(); ok {
			cpu.Regs.SetAL(ascii)
			cpu.Regs.SetAH(scancode)
		} else {
			mc.requestYieldAndRetry(cpu)
		}
	case 0x01, 0x11: // non-blocking peek
		if scancode, ascii, ok := mc.Keyboard.Peek(); ok {
			cpu.Regs.SetAL(ascii)
			cpu.Regs.SetAH(scancode)
			cpu.Flags.ZF = false
		} else {
			cpu.Flags.ZF = true
		}
	case 0x02: // shift state
		cpu.Regs.SetAL(mc.BDA.ShiftState())
	case 0x05: // store keystroke
		mc.Keyboard.Push(cpu.Regs.CH(), cpu.Regs.CL())
	default:
		mc.Logger.Debug("unhandled int16h function", "ah", cpu.Regs.AH())
	}
}

// requestYieldAndRetry rewinds IP back onto the INT instruction that
// triggered this call so the scheduler re-enters it after sleeping,
// giving timer ticks a chance to fire while waiting for input.
func (mc *Machine) requestYieldAndRetry(cpu *CPU) {
	cpu.Regs.IP -= 2 // back over this stub's vector-number byte and sentinel
	mc.needsYield = true
}
