// cpu_ops_control.go - branches, calls, returns, loop instructions, and
// the software-interrupt entry points.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's opJx family in cpu_x86_ops.go (one closure
// per condition, reading a signed rel8), generalized here to also cover
// the near/far CALL and JMP forms the teacher's flat address space
// didn't need to distinguish - a far CALL/JMP here must load a new CS,
// not just a new IP.

package main

func relJump(c *CPU, rel8 byte) {
	c.Regs.IP += uint16(int16(int8(rel8)))
}

func jccFactory(test func(*Flags) bool) func(*CPU) {
	return func(c *CPU) {
		rel := c.fetch8()
		if test(&c.Flags) {
			relJump(c, rel)
		}
	}
}

func (c *CPU) opJMP_rel8() {
	rel := c.fetch8()
	relJump(c, rel)
}

func (c *CPU) opJMP_rel16() {
	rel := c.fetch16()
	c.Regs.IP += rel
}

func (c *CPU) opJMP_far() {
	ip := c.fetch16()
	cs := c.fetch16()
	c.Regs.IP = ip
	c.Regs.CS = cs
}

func (c *CPU) opCALL_rel16() {
	rel := c.fetch16()
	c.push16(c.Regs.IP)
	c.Regs.IP += rel
}

func (c *CPU) opCALL_far() {
	ip := c.fetch16()
	cs := c.fetch16()
	c.push16(c.Regs.CS)
	c.push16(c.Regs.IP)
	c.Regs.CS = cs
	c.Regs.IP = ip
}

func (c *CPU) opRET_near() {
	c.Regs.IP = c.pop16()
}

func (c *CPU) opRET_near_Iw() {
	imm := c.fetch16()
	c.Regs.IP = c.pop16()
	c.Regs.SP += imm
}

func (c *CPU) opRET_far() {
	c.Regs.IP = c.pop16()
	c.Regs.CS = c.pop16()
}

func (c *CPU) opRET_far_Iw() {
	imm := c.fetch16()
	c.Regs.IP = c.pop16()
	c.Regs.CS = c.pop16()
	c.Regs.SP += imm
}

func (c *CPU) opLOOP() {
	rel := c.fetch8()
	c.Regs.CX--
	if c.Regs.CX != 0 {
		relJump(c, rel)
	}
}

func (c *CPU) opLOOPE() {
	rel := c.fetch8()
	c.Regs.CX--
	if c.Regs.CX != 0 && c.Flags.ZF {
		relJump(c, rel)
	}
}

func (c *CPU) opLOOPNE() {
	rel := c.fetch8()
	c.Regs.CX--
	if c.Regs.CX != 0 && !c.Flags.ZF {
		relJump(c, rel)
	}
}

func (c *CPU) opJCXZ() {
	rel := c.fetch8()
	if c.Regs.CX == 0 {
		relJump(c, rel)
	}
}

func (c *CPU) opINT_Ib() {
	vec := c.fetch8()
	c.raiseInterrupt(vec)
}

func (c *CPU) opINT3() {
	c.raiseInterrupt(3)
}

func (c *CPU) opINTO() {
	if c.Flags.OF {
		c.raiseInterrupt(4)
	}
}

func (c *CPU) opIRET() {
	c.Regs.IP = c.pop16()
	c.Regs.CS = c.pop16()
	c.Flags.Unpack(c.pop16())
	c.trapIgnore = true
}
