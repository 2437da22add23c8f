// cpu_ops_arith.go - the ADD/OR/ADC/SBB/AND/SUB/XOR/CMP family, INC/DEC,
// flag-synthesis helpers, and the BCD/ASCII adjust instructions.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// The teacher implements each (operation, width, direction) combination
// as its own method (opADD_Eb_Gb, opADD_Ev_Gv, ...), 48 near-identical
// functions across ADD/OR/ADC/SBB/AND/SUB/XOR/CMP. §4.2 itself observes
// that the top 5 opcode bits select the operation and the low 2 select
// width/direction, so this version collapses the 48 into one table-
// driven dispatcher (execALU) plus the six addressing-mode shapes,
// keeping the teacher's per-width aluExec8/16 split and its
// setFlagsArithN/setFlagsLogicN naming.

package main

// ALU operation selectors, matching the reg field encoding for Grp1 and
// the top-5-bits grouping of opcodes 0x00-0x3D.
const (
	aluADD = 0
	aluOR  = 1
	aluADC = 2
	aluSBB = 3
	aluAND = 4
	aluSUB = 5
	aluXOR = 6
	aluCMP = 7
)

func (c *CPU) setFlagsArith8(result uint16, a, b byte, sub bool) {
	r := byte(result)
	c.Flags.CF = result > 0xFF
	c.Flags.AF = (uint16(a)^uint16(b)^result)&0x10 != 0
	if sub {
		c.Flags.OF = (a^b)&(a^r)&0x80 != 0
	} else {
		c.Flags.OF = ^(a^b)&(a^r)&0x80 != 0
	}
	c.Flags.ZF = r == 0
	c.Flags.SF = r&0x80 != 0
	c.Flags.PF = parity(r)
}

func (c *CPU) setFlagsArith16(result uint32, a, b uint16, sub bool) {
	r := uint16(result)
	c.Flags.CF = result > 0xFFFF
	c.Flags.AF = (uint32(a)^uint32(b)^result)&0x10 != 0
	if sub {
		c.Flags.OF = (a^b)&(a^r)&0x8000 != 0
	} else {
		c.Flags.OF = ^(a^b)&(a^r)&0x8000 != 0
	}
	c.Flags.ZF = r == 0
	c.Flags.SF = r&0x8000 != 0
	c.Flags.PF = parity(byte(r))
}

func (c *CPU) setFlagsLogic8(result byte) {
	c.Flags.CF = false
	c.Flags.OF = false
	c.Flags.ZF = result == 0
	c.Flags.SF = result&0x80 != 0
	c.Flags.PF = parity(result)
}

func (c *CPU) setFlagsLogic16(result uint16) {
	c.Flags.CF = false
	c.Flags.OF = false
	c.Flags.ZF = result == 0
	c.Flags.SF = result&0x8000 != 0
	c.Flags.PF = parity(byte(result))
}

// aluExec8 performs the selected ALU op at byte width, updates flags,
// and returns the result (CMP's result is discarded by the caller).
func (c *CPU) aluExec8(op byte, a, b byte) byte {
	switch op {
	case aluADD:
		result := uint16(a) + uint16(b)
		c.setFlagsArith8(result, a, b, false)
		return byte(result)
	case aluOR:
		r := a | b
		c.setFlagsLogic8(r)
		return r
	case aluADC:
		var carry byte
		if c.Flags.CF {
			carry = 1
		}
		result := uint16(a) + uint16(b) + uint16(carry)
		c.setFlagsArith8(result, a, b, false)
		return byte(result)
	case aluSBB:
		var borrow byte
		if c.Flags.CF {
			borrow = 1
		}
		result := uint16(a) - uint16(b) - uint16(borrow)
		c.setFlagsArith8(result, a, b, true)
		return byte(result)
	case aluAND:
		r := a & b
		c.setFlagsLogic8(r)
		return r
	case aluSUB, aluCMP:
		result := uint16(a) - uint16(b)
		c.setFlagsArith8(result, a, b, true)
		return byte(result)
	case aluXOR:
		r := a ^ b
		c.setFlagsLogic8(r)
		return r
	}
	return a
}

func (c *CPU) aluExec16(op byte, a, b uint16) uint16 {
	switch op {
	case aluADD:
		result := uint32(a) + uint32(b)
		c.setFlagsArith16(result, a, b, false)
		return uint16(result)
	case aluOR:
		r := a | b
		c.setFlagsLogic16(r)
		return r
	case aluADC:
		var carry uint16
		if c.Flags.CF {
			carry = 1
		}
		result := uint32(a) + uint32(b) + uint32(carry)
		c.setFlagsArith16(result, a, b, false)
		return uint16(result)
	case aluSBB:
		var borrow uint16
		if c.Flags.CF {
			borrow = 1
		}
		result := uint32(a) - uint32(b) - uint32(borrow)
		c.setFlagsArith16(result, a, b, true)
		return uint16(result)
	case aluAND:
		r := a & b
		c.setFlagsLogic16(r)
		return r
	case aluSUB, aluCMP:
		result := uint32(a) - uint32(b)
		c.setFlagsArith16(result, a, b, true)
		return uint16(result)
	case aluXOR:
		r := a ^ b
		c.setFlagsLogic16(r)
		return r
	}
	return a
}

// execALU dispatches one of the six regular addressing-mode shapes of
// the 0x00-0x3D opcode family for the given operation group.
func execALU(group byte, mode byte) func(*CPU) {
	return func(c *CPU) {
		switch mode {
		case 0: // Eb, Gb
			c.fetchModRM()
			a := c.readRM8()
			b := c.Regs.getReg8(c.regField)
			r := c.aluExec8(group, a, b)
			if group != aluCMP {
				c.writeRM8(r)
			}
		case 1: // Ev, Gv
			c.fetchModRM()
			a := c.readRM16()
			b := c.Regs.getReg16(c.regField)
			r := c.aluExec16(group, a, b)
			if group != aluCMP {
				c.writeRM16(r)
			}
		case 2: // Gb, Eb
			c.fetchModRM()
			a := c.Regs.getReg8(c.regField)
			b := c.readRM8()
			r := c.aluExec8(group, a, b)
			if group != aluCMP {
				c.Regs.setReg8(c.regField, r)
			}
		case 3: // Gv, Ev
			c.fetchModRM()
			a := c.Regs.getReg16(c.regField)
			b := c.readRM16()
			r := c.aluExec16(group, a, b)
			if group != aluCMP {
				c.Regs.setReg16(c.regField, r)
			}
		case 4: // AL, Ib
			b := c.fetch8()
			r := c.aluExec8(group, c.Regs.AL(), b)
			if group != aluCMP {
				c.Regs.SetAL(r)
			}
		case 5: // AX, Iv
			b := c.fetch16()
			r := c.aluExec16(group, c.Regs.AX, b)
			if group != aluCMP {
				c.Regs.AX = r
			}
		}
	}
}

// Grp1: immediate-operand ALU ops (opcodes 0x80/0x81/0x83), operation
// selected by the ModR/M reg field rather than by the opcode itself.
func (c *CPU) opGrp1_Eb_Ib() {
	c.fetchModRM()
	op := c.getModRMReg()
	a := c.readRM8()
	b := c.fetch8()
	r := c.aluExec8(op, a, b)
	if op != aluCMP {
		c.writeRM8(r)
	}
}

func (c *CPU) opGrp1_Ev_Iv() {
	c.fetchModRM()
	op := c.getModRMReg()
	a := c.readRM16()
	b := c.fetch16()
	r := c.aluExec16(op, a, b)
	if op != aluCMP {
		c.writeRM16(r)
	}
}

// opGrp1_Ev_Ib is the sign-extended-immediate form (0x83): the immediate
// byte is sign-extended to 16 bits before the operation.
func (c *CPU) opGrp1_Ev_Ib() {
	c.fetchModRM()
	op := c.getModRMReg()
	a := c.readRM16()
	b := uint16(int16(int8(c.fetch8())))
	r := c.aluExec16(op, a, b)
	if op != aluCMP {
		c.writeRM16(r)
	}
}

// TEST: ANDs operands and updates flags like AND, but never writes back.
func (c *CPU) opTEST_Eb_Gb() {
	c.fetchModRM()
	r := c.readRM8() & c.Regs.getReg8(c.regField)
	c.setFlagsLogic8(r)
}

func (c *CPU) opTEST_Ev_Gv() {
	c.fetchModRM()
	r := c.readRM16() & c.Regs.getReg16(c.regField)
	c.setFlagsLogic16(r)
}

func (c *CPU) opTEST_AL_Ib() {
	b := c.fetch8()
	c.setFlagsLogic8(c.Regs.AL() & b)
}

func (c *CPU) opTEST_AX_Iv() {
	b := c.fetch16()
	c.setFlagsLogic16(c.Regs.AX & b)
}

// incDec8/16 implement INC/DEC: CF is left untouched (§4.2, §8), OF set
// only when crossing the signed max/min boundary.
func (c *CPU) incDec8(v byte, inc bool) byte {
	savedCF := c.Flags.CF
	var r byte
	if inc {
		result := uint16(v) + 1
		c.setFlagsArith8(result, v, 1, false)
		r = byte(result)
	} else {
		result := uint16(v) - 1
		c.setFlagsArith8(result, v, 1, true)
		r = byte(result)
	}
	c.Flags.CF = savedCF
	return r
}

func (c *CPU) incDec16(v uint16, inc bool) uint16 {
	savedCF := c.Flags.CF
	var r uint16
	if inc {
		result := uint32(v) + 1
		c.setFlagsArith16(result, v, 1, false)
		r = uint16(result)
	} else {
		result := uint32(v) - 1
		c.setFlagsArith16(result, v, 1, true)
		r = uint16(result)
	}
	c.Flags.CF = savedCF
	return r
}

// incDecReg16 builds the 0x40-0x4F INC/DEC-reg16 opcode handlers.
func incDecReg16(reg byte, inc bool) func(*CPU) {
	return func(c *CPU) {
		c.Regs.setReg16(reg, c.incDec16(c.Regs.getReg16(reg), inc))
	}
}

func (c *CPU) opGrp4_Eb() {
	c.fetchModRM()
	switch c.getModRMReg() {
	case 0:
		c.writeRM8(c.incDec8(c.readRM8(), true))
	case 1:
		c.writeRM8(c.incDec8(c.readRM8(), false))
	}
}

// --- BCD/ASCII adjust and sign-extension instructions ---

func (c *CPU) opDAA() {
	al := c.Regs.AL()
	oldCF := c.Flags.CF
	oldAL := al
	c.Flags.CF = false
	if al&0x0F > 9 || c.Flags.AF {
		al += 6
		c.Flags.CF = oldCF || al < oldAL
		c.Flags.AF = true
	} else {
		c.Flags.AF = false
	}
	if oldAL > 0x99 || oldCF {
		al += 0x60
		c.Flags.CF = true
	}
	c.Regs.SetAL(al)
	c.Flags.ZF = al == 0
	c.Flags.SF = al&0x80 != 0
	c.Flags.PF = parity(al)
}

func (c *CPU) opDAS() {
	al := c.Regs.AL()
	oldCF := c.Flags.CF
	oldAL := al
	c.Flags.CF = false
	if al&0x0F > 9 || c.Flags.AF {
		c.Flags.CF = oldCF || al < 6
		al -= 6
		c.Flags.AF = true
	} else {
		c.Flags.AF = false
	}
	if oldAL > 0x99 || oldCF {
		al -= 0x60
		c.Flags.CF = true
	}
	c.Regs.SetAL(al)
	c.Flags.ZF = al == 0
	c.Flags.SF = al&0x80 != 0
	c.Flags.PF = parity(al)
}

func (c *CPU) opAAA() {
	al := c.Regs.AL()
	if al&0x0F > 9 || c.Flags.AF {
		c.Regs.AX += 0x106
		c.Flags.AF = true
		c.Flags.CF = true
	} else {
		c.Flags.AF = false
		c.Flags.CF = false
	}
	c.Regs.SetAL(c.Regs.AL() & 0x0F)
}

func (c *CPU) opAAS() {
	al := c.Regs.AL()
	if al&0x0F > 9 || c.Flags.AF {
		c.Regs.AX -= 6
		c.Regs.SetAH(c.Regs.AH() - 1)
		c.Flags.AF = true
		c.Flags.CF = true
	} else {
		c.Flags.AF = false
		c.Flags.CF = false
	}
	c.Regs.SetAL(c.Regs.AL() & 0x0F)
}

// opAAM implements AH = AL / imm8, AL = AL % imm8; a zero
// divisor raises interrupt 0 per §4.2.
func (c *CPU) opAAM() {
	divisor := c.fetch8()
	if divisor == 0 {
		c.raiseInterrupt(0)
		return
	}
	al := c.Regs.AL()
	c.Regs.SetAH(al / divisor)
	c.Regs.SetAL(al % divisor)
	c.setFlagsLogic8(c.Regs.AL())
}

func (c *CPU) opAAD() {
	base := c.fetch8()
	al, ah := c.Regs.AL(), c.Regs.AH()
	result := byte(uint16(ah)*uint16(base) + uint16(al))
	c.Regs.SetAL(result)
	c.Regs.SetAH(0)
	c.setFlagsLogic8(result)
}

func (c *CPU) opCBW() {
	if c.Regs.AL()&0x80 != 0 {
		c.Regs.SetAH(0xFF)
	} else {
		c.Regs.SetAH(0)
	}
}

func (c *CPU) opCWD() {
	if c.Regs.AX&0x8000 != 0 {
		c.Regs.DX = 0xFFFF
	} else {
		c.Regs.DX = 0
	}
}
