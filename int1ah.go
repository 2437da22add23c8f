// int1ah.go - INT 1Ah timer/clock services.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on §4.8's two functions; the BCD packing for the real-time
// clock follows the same nibble-pack helper style as the BCD adjust
// instructions in cpu_ops_arith.go (two digits per byte, high nibble
// tens).

package main

import "time"

func svcInt1Ah(mc *Machine, cpu *CPU) {
	switch cpu.Regs.AH() {
	case 0x00: // read daily timer
		v := mc.BDA.TickCount()
		cpu.Regs.CX = uint16(v >> 16)
		cpu.Regs.DX = uint16(v)
		cpu.Regs.SetAL(0)
	case 0x01: // set daily timer
		v := uint32(cpu.Regs.CX)<<16 | uint32(cpu.Regs.DX)
		mc.BDA.SetTickCount(v)
	case 0x02: // read real-time clock
		now := time.Now()
		cpu.Regs.SetCH(toBCD(now.Hour()))
		cpu.Regs.SetCL(toBCD(now.Minute()))
		cpu.Regs.SetDH(toBCD(now.Second()))
		cpu.Regs.SetDL(0)
		cpu.Flags.CF = false
	default:
		mc.Logger.Debug("unhandled int1ah function", "ah", cpu.Regs.AH())
	}
}

func toBCD(v int) byte {
	return byte((v/10)<<4 | (v % 10))
}
