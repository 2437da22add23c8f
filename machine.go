// machine.go - the Machine value: the single owner of memory, CPU,
// and every service-layer component, wired together with no globals or
// singletons.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's own top-level machine/bus struct (its
// machine_bus.go composes CPU + memory + device bus into one value that
// every subsystem is handed a pointer to rather than reaching for
// package-level state); this Machine follows the same shape, scaled
// down to the single 8086 core and DOS service set §2/§4 describe.

package main

import (
	"log/slog"

	"github.com/davidly/ntvdm-sub000/dlog"
)

// Machine owns every piece of emulated state for one running DOS
// session: the address space, the CPU executing against it, the MCB
// allocator, the handle-based file table (FCB opens also go through it;
// there is no separate FCB-based table), the PSP chain, the CGA text-mode
// mirror, the keyboard ring buffer, and the interrupt service layer
// that ties INT 10h/16h/1Ah/21h back to all of the above.
type Machine struct {
	Memory *Memory
	CPU    *CPU
	Logger *slog.Logger

	Allocator  *MCBAllocator
	Files      *FileTable
	PSPs       *PSPChain
	Video      *Video
	Keyboard   *Keyboard
	BDA        *BDA
	Services   *ServiceLayer
	ActivePSP  uint16
	Terminated bool
	ExitCode   byte
	needsYield bool

	Paths     *PathTranslator
	dtaSeg    uint16
	dtaOff    uint16
	lastError uint16
	findState *findState
}

// NewMachine builds an empty machine ready for a loader to populate.
// Passing a nil logger installs the discard logger so callers never
// need a nil check before logging. root is the host directory the
// guest's C:\ is translated against.
func NewMachine(logger *slog.Logger, root string) *Machine {
	if logger == nil {
		logger = dlog.Discard
	}
	if root == "" {
		root = "."
	}
	mem := NewMemory()
	mc := &Machine{
		Memory: mem,
		Logger: logger,
		Paths:  NewPathTranslator(root),
	}
	mc.CPU = NewCPU(mc)
	mc.Allocator = NewMCBAllocator(mc)
	mc.Files = NewFileTable()
	mc.PSPs = NewPSPChain()
	mc.BDA = NewBDA(mc)
	mc.Video = NewVideo(mc)
	mc.Keyboard = NewKeyboard(mc)
	mc.Services = NewServiceLayer(mc)
	installStubs(mc)
	return mc
}

// Reset clears CPU state and the termination flags; it does not
// reinitialize memory or the allocator, since a fresh machine for a new
// program is normally just constructed again via NewMachine.
func (mc *Machine) Reset() {
	mc.CPU.Reset()
	mc.Terminated = false
	mc.ExitCode = 0
}

// dispatchService is reached from opSentinel: the CPU hit the sentinel
// opcode inside an interrupt-vector stub owned by the emulator and is
// handing control to the service layer for the given vector.
func (mc *Machine) dispatchService(vector byte, cpu *CPU) {
	mc.Services.Dispatch(vector, cpu)
}

// In8/In16/Out8/Out16 give programs that probe hardware ports a
// deterministic, harmless answer instead of a crash. The spec defines
// no port-mapped devices of its own (§1 Non-goals excludes hardware
// beyond what the service layer emulates through software interrupts),
// so reads return all-bits-set (an unpopulated bus's idle value on
// real ISA hardware) and writes are discarded.
func (mc *Machine) In8(port uint16) byte    { return 0xFF }
func (mc *Machine) In16(port uint16) uint16 { return 0xFFFF }
func (mc *Machine) Out8(port uint16, v byte)    {}
func (mc *Machine) Out16(port uint16, v uint16) {}
