// cpu_interrupts.go - software/hardware interrupt dispatch, the
// sentinel-opcode upcall into the service layer, and the trap-flag
// single-step interrupt.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's raiseInterrupt-equivalent in cpu_x86.go
// (vector fetch from a flat table, FLAGS/CS/IP push, IF/TF clear) with
// the vector table relocated to real segment 0000 per §4.2, and on the
// teacher's own "bus trap" idiom (an otherwise-illegal opcode used to
// call back into host code) for the sentinel mechanism described in §9.

package main

// raiseInterrupt pushes FLAGS, CS, and IP (in that order, so IRET pops
// them back in reverse), clears IF and TF, and loads CS:IP from the
// four-byte real-mode vector table entry at segment 0000, offset
// 4*vector.
func (c *CPU) raiseInterrupt(vector byte) {
	c.push16(c.Flags.Pack())
	c.push16(c.Regs.CS)
	c.push16(c.Regs.IP)
	c.Flags.IF = false
	c.Flags.TF = false

	off := uint16(vector) * 4
	newIP := c.mem.Read16(0, off)
	newCS := c.mem.Read16(0, off+2)
	c.Regs.IP = newIP
	c.Regs.CS = newCS
}

// dispatchTrap fires the single-step interrupt (vector 1) after the
// instruction following the one that set TF has completed, per §4.2.
// Called once per Step, after dispatch returns.
func (c *CPU) dispatchTrap() {
	if c.trapPending && !c.trapIgnore {
		c.trapPending = false
		c.raiseInterrupt(1)
	}
}

// opSentinel is installed at interruptSentinel (0x69) inside every
// emulator-owned interrupt-vector stub. Each stub is two bytes long -
// the sentinel opcode followed by a literal vector-number byte - and is
// immediately followed by a return instruction (RETF 2, or IRET for
// vectors 0x08 and 0x09; see stubs.go), which the CPU reaches and
// executes normally once opSentinel returns. This keeps the return a
// real instruction the interrupted program's own stack frame gets
// unwound by, rather than something the sentinel has to fake.
func (c *CPU) opSentinel() {
	vector := c.fetch8()
	c.mc.dispatchService(vector, c)
}
