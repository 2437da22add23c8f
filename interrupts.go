// interrupts.go - the service layer: dispatch from a vector number
// (arriving via the CPU's sentinel-opcode upcall) to the handler for
// that BIOS/DOS interrupt.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on §4.8's vector-then-AH dispatch table and on the teacher's
// own opcode dispatch-table idiom (cpu_x86.go's baseOps array), reused
// here one level up: a [256]func table keyed by interrupt vector
// instead of opcode.

package main

// ServiceLayer owns the vector dispatch table and every piece of state
// the individual interrupt handlers need beyond what's already on
// Machine (nothing extra today). The handlers themselves are free
// functions taking (*Machine, *CPU).
type ServiceLayer struct {
	mc       *Machine
	handlers [256]func(*Machine, *CPU)
}

func NewServiceLayer(mc *Machine) *ServiceLayer {
	s := &ServiceLayer{mc: mc}
	s.handlers[0x00] = svcDivideError
	s.handlers[0x01] = svcSingleStep
	s.handlers[0x03] = svcBreakpoint
	s.handlers[0x04] = svcOverflow
	s.handlers[0x08] = svcTimerTick
	s.handlers[0x09] = svcKeyboardHardware
	s.handlers[0x10] = svcInt10h
	s.handlers[0x11] = svcEquipmentList
	s.handlers[0x12] = svcMemorySize
	s.handlers[0x16] = svcInt16h
	s.handlers[0x1A] = svcInt1Ah
	s.handlers[0x20] = svcInt20h
	s.handlers[0x21] = svcInt21h
	s.handlers[0x22] = svcTerminateAddress
	s.handlers[0x23] = svcCtrlCHandler
	s.handlers[0x24] = svcCriticalError
	s.handlers[0x28] = svcDOSIdle
	s.handlers[0x29] = svcFastConsole
	s.handlers[0x2A] = svcNetworkRedirector
	s.handlers[0x2F] = svcMultiplex
	s.handlers[0x33] = svcMouse
	return s
}

// Dispatch is reached from the CPU's opSentinel for every vector
// the emulator still owns. Apps that have rehooked a vector never
// trigger this path for that vector; see loader/psp for how a hooked
// vector instead points at app code.
func (s *ServiceLayer) Dispatch(vector byte, cpu *CPU) {
	fn := s.handlers[vector]
	if fn == nil {
		cpu.Flags.CF = true
		cpu.Regs.AX = 0x0001 // "not supported", a plausible default
		s.mc.Logger.Warn("unhandled interrupt vector", "vector", vector)
		return
	}
	fn(s.mc, cpu)
}

// HookedElsewhere reports whether a vector's current target no longer
// points into the emulator-owned stub segment, used to decide whether to
// synthesize periodic timer/tick interrupts (§4.2, §4.8).
func (mc *Machine) HookedElsewhere(vector byte, stubSegment uint16) bool {
	off := uint16(vector) * 4
	cs := mc.Memory.Read16(0, off+2)
	return cs != stubSegment
}

func svcDivideError(mc *Machine, cpu *CPU) {
	mc.Logger.Warn("divide error", "cs", cpu.Regs.CS, "ip", cpu.Regs.IP)
}

func svcSingleStep(mc *Machine, cpu *CPU) {}

func svcBreakpoint(mc *Machine, cpu *CPU) {}

func svcOverflow(mc *Machine, cpu *CPU) {}

func svcTimerTick(mc *Machine, cpu *CPU) {
	mc.BDA.IncrementTick()
	if mc.HookedElsewhere(0x1C, emulatorStubSegment) {
		// App has its own INT 1Ch handler; chain to it so it observes
		// the tick. If nobody has hooked it, firing the default stub
		// would just upcall back into this same no-op handler.
		cpu.raiseInterrupt(0x1C)
	}
}

func svcKeyboardHardware(mc *Machine, cpu *CPU) {}

func svcEquipmentList(mc *Machine, cpu *CPU) {
	cpu.Regs.AX = mc.Memory.Read16(bdaSegment, bdaEquipment)
}

func svcMemorySize(mc *Machine, cpu *CPU) {
	cpu.Regs.AX = mc.Memory.Read16(bdaSegment, bdaMemSizeKB)
}

func svcInt20h(mc *Machine, cpu *CPU) {
	mc.ExitProcess(0)
}

func svcTerminateAddress(mc *Machine, cpu *CPU) {
	mc.ExitProcess(mc.ExitCode)
}

func svcCtrlCHandler(mc *Machine, cpu *CPU) {
	mc.ExitProcess(0)
}

func svcCriticalError(mc *Machine, cpu *CPU) {
	cpu.Regs.AX = 0 // "ignore" - no real block devices to fail
}

func svcDOSIdle(mc *Machine, cpu *CPU) {}

// svcFastConsole implements INT 29h, the undocumented-but-common "fast
// putchar" some COM programs call directly instead of INT 21h/02,
// supplemented from original_source (Part D).
func svcFastConsole(mc *Machine, cpu *CPU) {
	mc.Video.Teletype(cpu.Regs.AL(), 0x07, false)
}

func svcNetworkRedirector(mc *Machine, cpu *CPU) {
	cpu.Flags.CF = true
}

func svcMultiplex(mc *Machine, cpu *CPU) {
	// AH=12h installation check: report "not installed" by leaving AL
	// unchanged, per the supplemented-features default (SPEC_FULL Part D).
}

func svcMouse(mc *Machine, cpu *CPU) {
	cpu.Regs.AX = 0 // no mouse hardware present
}
