// cpu_modrm.go - ModR/M decode and effective-address computation for
// 16-bit real-mode addressing.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's calcEffectiveAddress16 in cpu_x86.go, which
// already implements the exact mod/rm base+index table §4.2 specifies -
// but then discards the computed segment ("_ = seg") because its own
// memory model is flat. This version keeps the segment and actually
// applies it, and fetches/caches the ModR/M byte at most once per
// instruction (modrmLoaded), matching the teacher's fetch-once pattern.

package main

// fetchModRM decodes the next byte as (mod, reg, rm) and, for memory
// operands, computes the effective segment:offset immediately so every
// instruction's R/M accessors can share the result.
func (c *CPU) fetchModRM() {
	if c.modrmLoaded {
		return
	}
	b := c.fetch8()
	c.modByte = b
	c.modField = (b >> 6) & 3
	c.regField = (b >> 3) & 7
	c.rmField = b & 7
	c.modrmLoaded = true

	if c.modField == 3 {
		c.rmIsMemory = false
		return
	}
	c.rmIsMemory = true

	var base uint16
	defaultSeg := c.Regs.DS
	switch c.rmField {
	case 0:
		base = c.Regs.BX + c.Regs.SI
	case 1:
		base = c.Regs.BX + c.Regs.DI
	case 2:
		base = c.Regs.BP + c.Regs.SI
		defaultSeg = c.Regs.SS
	case 3:
		base = c.Regs.BP + c.Regs.DI
		defaultSeg = c.Regs.SS
	case 4:
		base = c.Regs.SI
	case 5:
		base = c.Regs.DI
	case 6:
		if c.modField == 0 {
			base = c.fetch16() // disp16 direct, no base register
			defaultSeg = c.Regs.DS
		} else {
			base = c.Regs.BP
			defaultSeg = c.Regs.SS
		}
	case 7:
		base = c.Regs.BX
	}

	switch c.modField {
	case 1:
		disp := int8(c.fetch8())
		base += uint16(int16(disp))
	case 2:
		base += c.fetch16()
	}

	c.rmOffset = base
	c.rmSegment = c.effectiveSegment(defaultSeg)
}

func (c *CPU) getModRMReg() byte { return c.regField }

func (c *CPU) readRM8() byte {
	if c.rmIsMemory {
		return c.mem.Read8(c.rmSegment, c.rmOffset)
	}
	return c.Regs.getReg8(c.rmField)
}

func (c *CPU) writeRM8(v byte) {
	if c.rmIsMemory {
		c.mem.Write8(c.rmSegment, c.rmOffset, v)
		return
	}
	c.Regs.setReg8(c.rmField, v)
}

func (c *CPU) readRM16() uint16 {
	if c.rmIsMemory {
		return c.mem.Read16(c.rmSegment, c.rmOffset)
	}
	return c.Regs.getReg16(c.rmField)
}

func (c *CPU) writeRM16(v uint16) {
	if c.rmIsMemory {
		c.mem.Write16(c.rmSegment, c.rmOffset, v)
		return
	}
	c.Regs.setReg16(c.rmField, v)
}

// rmAddr returns the segment:offset of a decoded memory operand, for
// instructions (LEA, LDS/LES) that want the address rather than its
// contents. Only valid when the ModR/M selected a memory operand.
func (c *CPU) rmAddr() (uint16, uint16) {
	return c.rmSegment, c.rmOffset
}
