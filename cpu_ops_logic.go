// cpu_ops_logic.go - shift/rotate (Grp2), unary/multiply/divide (Grp3),
// and the INC/DEC/CALL/JMP/PUSH indirect family (Grp5).
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's shiftRotate8/16/32 in cpu_x86_grp.go (kept
// the count-masked-to-5-bits, zero-count-leaves-flags-untouched shape)
// with the 32-bit form dropped (386 extension, out of scope). CF ends up
// as the last bit shifted or rotated out. OF is computed only when the
// count is 1; for any larger count OF is left unchanged.

package main

const (
	rotROL = 0
	rotROR = 1
	rotRCL = 2
	rotRCR = 3
	rotSHL = 4
	rotSHR = 5
	rotSAL = 6 // same operation as SHL
	rotSAR = 7
)

func b2u8(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (c *CPU) shiftRotate8(val byte, count byte, op byte) byte {
	count &= 0x1F
	if count == 0 {
		return val
	}
	result := val
	cf := c.Flags.CF
	switch op {
	case rotROL:
		for i := byte(0); i < count; i++ {
			cf = result&0x80 != 0
			result = result<<1 | b2u8(cf)
		}
		c.Flags.CF = cf
		if count == 1 {
			c.Flags.OF = (result&0x80 != 0) != cf
		}
	case rotROR:
		for i := byte(0); i < count; i++ {
			cf = result&1 != 0
			result = result>>1 | b2u8(cf)<<7
		}
		c.Flags.CF = cf
		if count == 1 {
			c.Flags.OF = (result>>7)&1 != (result>>6)&1
		}
	case rotRCL:
		for i := byte(0); i < count; i++ {
			newCF := result&0x80 != 0
			result = result<<1 | b2u8(cf)
			cf = newCF
		}
		c.Flags.CF = cf
		if count == 1 {
			c.Flags.OF = (result&0x80 != 0) != cf
		}
	case rotRCR:
		for i := byte(0); i < count; i++ {
			newCF := result&1 != 0
			result = result>>1 | b2u8(cf)<<7
			cf = newCF
		}
		c.Flags.CF = cf
		if count == 1 {
			c.Flags.OF = (result>>7)&1 != (result>>6)&1
		}
	case rotSHL, rotSAL:
		if count == 1 {
			c.Flags.OF = (val>>7)&1 != (val>>6)&1
		}
		for i := byte(0); i < count; i++ {
			cf = result&0x80 != 0
			result <<= 1
		}
		c.Flags.CF = cf
		c.Flags.ZF = result == 0
		c.Flags.SF = result&0x80 != 0
		c.Flags.PF = parity(result)
	case rotSHR:
		if count == 1 {
			c.Flags.OF = val&0x80 != 0
		}
		for i := byte(0); i < count; i++ {
			cf = result&1 != 0
			result >>= 1
		}
		c.Flags.CF = cf
		c.Flags.ZF = result == 0
		c.Flags.SF = result&0x80 != 0
		c.Flags.PF = parity(result)
	case rotSAR:
		if count == 1 {
			c.Flags.OF = false
		}
		sresult := int8(result)
		for i := byte(0); i < count; i++ {
			cf = sresult&1 != 0
			sresult >>= 1
		}
		result = byte(sresult)
		c.Flags.CF = cf
		c.Flags.ZF = result == 0
		c.Flags.SF = result&0x80 != 0
		c.Flags.PF = parity(result)
	}
	return result
}

func (c *CPU) shiftRotate16(val uint16, count byte, op byte) uint16 {
	count &= 0x1F
	if count == 0 {
		return val
	}
	result := val
	cf := c.Flags.CF
	switch op {
	case rotROL:
		for i := byte(0); i < count; i++ {
			cf = result&0x8000 != 0
			result = result<<1 | uint16(b2u8(cf))
		}
		c.Flags.CF = cf
		if count == 1 {
			c.Flags.OF = (result&0x8000 != 0) != cf
		}
	case rotROR:
		for i := byte(0); i < count; i++ {
			cf = result&1 != 0
			result = result>>1 | uint16(b2u8(cf))<<15
		}
		c.Flags.CF = cf
		if count == 1 {
			c.Flags.OF = (result>>15)&1 != (result>>14)&1
		}
	case rotRCL:
		for i := byte(0); i < count; i++ {
			newCF := result&0x8000 != 0
			result = result<<1 | uint16(b2u8(cf))
			cf = newCF
		}
		c.Flags.CF = cf
		if count == 1 {
			c.Flags.OF = (result&0x8000 != 0) != cf
		}
	case rotRCR:
		for i := byte(0); i < count; i++ {
			newCF := result&1 != 0
			result = result>>1 | uint16(b2u8(cf))<<15
			cf = newCF
		}
		c.Flags.CF = cf
		if count == 1 {
			c.Flags.OF = (result>>15)&1 != (result>>14)&1
		}
	case rotSHL, rotSAL:
		if count == 1 {
			c.Flags.OF = (val>>15)&1 != (val>>14)&1
		}
		for i := byte(0); i < count; i++ {
			cf = result&0x8000 != 0
			result <<= 1
		}
		c.Flags.CF = cf
		c.Flags.ZF = result == 0
		c.Flags.SF = result&0x8000 != 0
		c.Flags.PF = parity(byte(result))
	case rotSHR:
		if count == 1 {
			c.Flags.OF = val&0x8000 != 0
		}
		for i := byte(0); i < count; i++ {
			cf = result&1 != 0
			result >>= 1
		}
		c.Flags.CF = cf
		c.Flags.ZF = result == 0
		c.Flags.SF = result&0x8000 != 0
		c.Flags.PF = parity(byte(result))
	case rotSAR:
		if count == 1 {
			c.Flags.OF = false
		}
		sresult := int16(result)
		for i := byte(0); i < count; i++ {
			cf = sresult&1 != 0
			sresult >>= 1
		}
		result = uint16(sresult)
		c.Flags.CF = cf
		c.Flags.ZF = result == 0
		c.Flags.SF = result&0x8000 != 0
		c.Flags.PF = parity(byte(result))
	}
	return result
}

func (c *CPU) opGrp2_Eb_1() {
	c.fetchModRM()
	op := c.getModRMReg()
	c.writeRM8(c.shiftRotate8(c.readRM8(), 1, op))
}

func (c *CPU) opGrp2_Ev_1() {
	c.fetchModRM()
	op := c.getModRMReg()
	c.writeRM16(c.shiftRotate16(c.readRM16(), 1, op))
}

func (c *CPU) opGrp2_Eb_CL() {
	c.fetchModRM()
	op := c.getModRMReg()
	c.writeRM8(c.shiftRotate8(c.readRM8(), c.Regs.CL(), op))
}

func (c *CPU) opGrp2_Ev_CL() {
	c.fetchModRM()
	op := c.getModRMReg()
	c.writeRM16(c.shiftRotate16(c.readRM16(), c.Regs.CL(), op))
}

func (c *CPU) opGrp2_Eb_Ib() {
	c.fetchModRM()
	op := c.getModRMReg()
	count := c.fetch8()
	c.writeRM8(c.shiftRotate8(c.readRM8(), count, op))
}

func (c *CPU) opGrp2_Ev_Ib() {
	c.fetchModRM()
	op := c.getModRMReg()
	count := c.fetch8()
	c.writeRM16(c.shiftRotate16(c.readRM16(), count, op))
}

// Grp3 (0xF6/0xF7): TEST imm / NOT / NEG / MUL / IMUL / DIV / IDIV,
// selected by the ModR/M reg field.
func (c *CPU) opGrp3_Eb() {
	c.fetchModRM()
	op := c.getModRMReg()
	switch op {
	case 0, 1: // TEST Eb, Ib
		a := c.readRM8()
		b := c.fetch8()
		c.setFlagsLogic8(a & b)
	case 2: // NOT
		c.writeRM8(^c.readRM8())
	case 3: // NEG
		a := c.readRM8()
		result := uint16(0) - uint16(a)
		c.setFlagsArith8(result, 0, a, true)
		c.Flags.CF = a != 0
		c.writeRM8(byte(result))
	case 4: // MUL AL * Eb -> AX
		a := c.readRM8()
		result := uint16(c.Regs.AL()) * uint16(a)
		c.Regs.AX = result
		c.Flags.CF = c.Regs.AH() != 0
		c.Flags.OF = c.Flags.CF
		c.Flags.ZF = byte(result) == 0
		c.Flags.SF = byte(result)&0x80 != 0
		c.Flags.PF = parity(byte(result))
	case 5: // IMUL AL * Eb -> AX
		a := int8(c.readRM8())
		result := int16(int8(c.Regs.AL())) * int16(a)
		c.Regs.AX = uint16(result)
		sext := result>>8 == 0 || result>>8 == -1
		c.Flags.CF = !sext
		c.Flags.OF = !sext
		c.Flags.ZF = byte(result) == 0
		c.Flags.SF = byte(result)&0x80 != 0
		c.Flags.PF = parity(byte(result))
	case 6: // DIV AX / Eb -> AL quot, AH rem
		divisor := c.readRM8()
		if divisor == 0 {
			c.raiseInterrupt(0)
			return
		}
		dividend := c.Regs.AX
		quot := dividend / uint16(divisor)
		if quot > 0xFF {
			c.raiseInterrupt(0)
			return
		}
		c.Regs.SetAL(byte(quot))
		c.Regs.SetAH(byte(dividend % uint16(divisor)))
	case 7: // IDIV AX / Eb -> AL quot, AH rem
		divisor := int8(c.readRM8())
		if divisor == 0 {
			c.raiseInterrupt(0)
			return
		}
		dividend := int16(c.Regs.AX)
		quot := dividend / int16(divisor)
		rem := dividend % int16(divisor)
		if quot > 127 || quot < -128 {
			c.raiseInterrupt(0)
			return
		}
		c.Regs.SetAL(byte(quot))
		c.Regs.SetAH(byte(rem))
	}
}

func (c *CPU) opGrp3_Ev() {
	c.fetchModRM()
	op := c.getModRMReg()
	switch op {
	case 0, 1: // TEST Ev, Iv
		a := c.readRM16()
		b := c.fetch16()
		c.setFlagsLogic16(a & b)
	case 2: // NOT
		c.writeRM16(^c.readRM16())
	case 3: // NEG
		a := c.readRM16()
		result := uint32(0) - uint32(a)
		c.setFlagsArith16(result, 0, a, true)
		c.Flags.CF = a != 0
		c.writeRM16(uint16(result))
	case 4: // MUL DX:AX = AX * Ev
		a := c.readRM16()
		result := uint32(c.Regs.AX) * uint32(a)
		c.Regs.AX = uint16(result)
		c.Regs.DX = uint16(result >> 16)
		c.Flags.CF = c.Regs.DX != 0
		c.Flags.OF = c.Flags.CF
		c.Flags.ZF = uint16(result) == 0
		c.Flags.SF = uint16(result)&0x8000 != 0
		c.Flags.PF = parity(byte(result))
	case 5: // IMUL DX:AX = AX * Ev
		a := int16(c.readRM16())
		result := int32(int16(c.Regs.AX)) * int32(a)
		c.Regs.AX = uint16(result)
		c.Regs.DX = uint16(uint32(result) >> 16)
		sext := result>>16 == 0 || result>>16 == -1
		c.Flags.CF = !sext
		c.Flags.OF = !sext
		c.Flags.ZF = uint16(result) == 0
		c.Flags.SF = uint16(result)&0x8000 != 0
		c.Flags.PF = parity(byte(result))
	case 6: // DIV DX:AX / Ev
		divisor := c.readRM16()
		if divisor == 0 {
			c.raiseInterrupt(0)
			return
		}
		dividend := uint32(c.Regs.DX)<<16 | uint32(c.Regs.AX)
		quot := dividend / uint32(divisor)
		if quot > 0xFFFF {
			c.raiseInterrupt(0)
			return
		}
		c.Regs.AX = uint16(quot)
		c.Regs.DX = uint16(dividend % uint32(divisor))
	case 7: // IDIV DX:AX / Ev
		divisor := int16(c.readRM16())
		if divisor == 0 {
			c.raiseInterrupt(0)
			return
		}
		dividend := int32(uint32(c.Regs.DX)<<16 | uint32(c.Regs.AX))
		quot := dividend / int32(divisor)
		rem := dividend % int32(divisor)
		if quot > 32767 || quot < -32768 {
			c.raiseInterrupt(0)
			return
		}
		c.Regs.AX = uint16(quot)
		c.Regs.DX = uint16(rem)
	}
}

// Grp5 (0xFF): INC/DEC/CALL near/far indirect/JMP near/far indirect/PUSH,
// selected by the ModR/M reg field on an Ev operand.
func (c *CPU) opGrp5_Ev() {
	c.fetchModRM()
	op := c.getModRMReg()
	switch op {
	case 0: // INC Ev
		c.writeRM16(c.incDec16(c.readRM16(), true))
	case 1: // DEC Ev
		c.writeRM16(c.incDec16(c.readRM16(), false))
	case 2: // CALL near indirect
		target := c.readRM16()
		c.push16(c.Regs.IP)
		c.Regs.IP = target
	case 3: // CALL far indirect
		seg, off := c.rmAddr()
		newIP := c.mem.Read16(seg, off)
		newCS := c.mem.Read16(seg, off+2)
		c.push16(c.Regs.CS)
		c.push16(c.Regs.IP)
		c.Regs.CS = newCS
		c.Regs.IP = newIP
	case 4: // JMP near indirect
		c.Regs.IP = c.readRM16()
	case 5: // JMP far indirect
		seg, off := c.rmAddr()
		c.Regs.IP = c.mem.Read16(seg, off)
		c.Regs.CS = c.mem.Read16(seg, off+2)
	case 6: // PUSH Ev
		c.push16(c.readRM16())
	}
}
