// cpu_ops_data.go - data movement: MOV, PUSH/POP, XCHG, LEA, LDS/LES,
// XLAT, IN/OUT, and the flag-bit/LAHF/SAHF instructions.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's register-half accessor pattern and its
// opIN_AL_imm8/opOUT_imm8_AL family in cpu_x86_ops.go, which delegates
// straight to a bus In/Out pair; kept that shape here against Machine's
// trivial port space (the spec has no port-mapped devices of its own,
// so IN/OUT only need to exist for programs that probe hardware ports
// and get a deterministic, harmless answer back).

package main

func (c *CPU) opMOV_Eb_Gb() {
	c.fetchModRM()
	c.writeRM8(c.Regs.getReg8(c.regField))
}

func (c *CPU) opMOV_Ev_Gv() {
	c.fetchModRM()
	c.writeRM16(c.Regs.getReg16(c.regField))
}

func (c *CPU) opMOV_Gb_Eb() {
	c.fetchModRM()
	c.Regs.setReg8(c.regField, c.readRM8())
}

func (c *CPU) opMOV_Gv_Ev() {
	c.fetchModRM()
	c.Regs.setReg16(c.regField, c.readRM16())
}

func (c *CPU) opMOV_Ew_Sw() {
	c.fetchModRM()
	c.writeRM16(c.Regs.getSeg(c.regField))
}

func (c *CPU) opMOV_Sw_Ew() {
	c.fetchModRM()
	c.Regs.setSeg(c.regField, c.readRM16())
}

func movRegImm8(reg byte) func(*CPU) {
	return func(c *CPU) { c.Regs.setReg8(reg, c.fetch8()) }
}

func movRegImm16(reg byte) func(*CPU) {
	return func(c *CPU) { c.Regs.setReg16(reg, c.fetch16()) }
}

func (c *CPU) opMOV_Eb_Ib() {
	c.fetchModRM()
	c.writeRM8(c.fetch8())
}

func (c *CPU) opMOV_Ev_Iv() {
	c.fetchModRM()
	c.writeRM16(c.fetch16())
}

func (c *CPU) opMOV_AL_Ob() {
	addr := c.fetch16()
	c.Regs.SetAL(c.mem.Read8(c.effectiveSegment(c.Regs.DS), addr))
}

func (c *CPU) opMOV_AX_Ov() {
	addr := c.fetch16()
	c.Regs.AX = c.mem.Read16(c.effectiveSegment(c.Regs.DS), addr)
}

func (c *CPU) opMOV_Ob_AL() {
	addr := c.fetch16()
	c.mem.Write8(c.effectiveSegment(c.Regs.DS), addr, c.Regs.AL())
}

func (c *CPU) opMOV_Ov_AX() {
	addr := c.fetch16()
	c.mem.Write16(c.effectiveSegment(c.Regs.DS), addr, c.Regs.AX)
}

// --- stack ---

func pushReg(reg byte) func(*CPU) { return func(c *CPU) { c.push16(c.Regs.getReg16(reg)) } }
func popReg(reg byte) func(*CPU)  { return func(c *CPU) { c.Regs.setReg16(reg, c.pop16()) } }

func pushSeg(seg byte) func(*CPU) { return func(c *CPU) { c.push16(c.Regs.getSeg(seg)) } }
func popSeg(seg byte) func(*CPU)  { return func(c *CPU) { c.Regs.setSeg(seg, c.pop16()) } }

func (c *CPU) opPUSHF() { c.push16(c.Flags.Pack()) }
func (c *CPU) opPOPF()  { c.Flags.Unpack(c.pop16()) }

// --- exchange, load-effective-address, far-pointer loads ---

func (c *CPU) opXCHG_Eb_Gb() {
	c.fetchModRM()
	a, b := c.readRM8(), c.Regs.getReg8(c.regField)
	c.writeRM8(b)
	c.Regs.setReg8(c.regField, a)
}

func (c *CPU) opXCHG_Ev_Gv() {
	c.fetchModRM()
	a, b := c.readRM16(), c.Regs.getReg16(c.regField)
	c.writeRM16(b)
	c.Regs.setReg16(c.regField, a)
}

func xchgAXReg(reg byte) func(*CPU) {
	return func(c *CPU) {
		a := c.Regs.AX
		c.Regs.AX = c.Regs.getReg16(reg)
		c.Regs.setReg16(reg, a)
	}
}

func (c *CPU) opLEA_Gv_M() {
	c.fetchModRM()
	_, off := c.rmAddr()
	c.Regs.setReg16(c.regField, off)
}

func (c *CPU) opLDS_Gv_Mp() {
	c.fetchModRM()
	seg, off := c.rmAddr()
	c.Regs.setReg16(c.regField, c.mem.Read16(seg, off))
	c.Regs.DS = c.mem.Read16(seg, off+2)
}

func (c *CPU) opLES_Gv_Mp() {
	c.fetchModRM()
	seg, off := c.rmAddr()
	c.Regs.setReg16(c.regField, c.mem.Read16(seg, off))
	c.Regs.ES = c.mem.Read16(seg, off+2)
}

func (c *CPU) opXLAT() {
	seg := c.effectiveSegment(c.Regs.DS)
	c.Regs.SetAL(c.mem.Read8(seg, c.Regs.BX+uint16(c.Regs.AL())))
}

// --- I/O ports ---

func (c *CPU) opIN_AL_Ib() {
	port := c.fetch8()
	c.Regs.SetAL(c.mc.In8(uint16(port)))
}

func (c *CPU) opIN_AX_Ib() {
	port := c.fetch8()
	c.Regs.AX = c.mc.In16(uint16(port))
}

func (c *CPU) opIN_AL_DX() { c.Regs.SetAL(c.mc.In8(c.Regs.DX)) }
func (c *CPU) opIN_AX_DX() { c.Regs.AX = c.mc.In16(c.Regs.DX) }

func (c *CPU) opOUT_Ib_AL() {
	port := c.fetch8()
	c.mc.Out8(uint16(port), c.Regs.AL())
}

func (c *CPU) opOUT_Ib_AX() {
	port := c.fetch8()
	c.mc.Out16(uint16(port), c.Regs.AX)
}

func (c *CPU) opOUT_DX_AL() { c.mc.Out8(c.Regs.DX, c.Regs.AL()) }
func (c *CPU) opOUT_DX_AX() { c.mc.Out16(c.Regs.DX, c.Regs.AX) }

// --- flag bits and LAHF/SAHF ---

func (c *CPU) opCLC() { c.Flags.CF = false }
func (c *CPU) opSTC() { c.Flags.CF = true }
func (c *CPU) opCMC() { c.Flags.CF = !c.Flags.CF }
func (c *CPU) opCLD() { c.Flags.DF = false }
func (c *CPU) opSTD() { c.Flags.DF = true }
func (c *CPU) opCLI() { c.Flags.IF = false }
func (c *CPU) opSTI() { c.Flags.IF = true }

func (c *CPU) opLAHF() {
	c.Regs.SetAH(byte(c.Flags.Pack()))
}

func (c *CPU) opSAHF() {
	cur := c.Flags.Pack()
	v := uint16(c.Regs.AH()) | cur&0xFF00
	c.Flags.Unpack(v)
}

func (c *CPU) opNOP() {}

func (c *CPU) opHLT() { c.halted = true }

// opPOP_Ev is Grp1A (0x8F): the only documented reg-field value is 0,
// POP into a register or memory destination.
func (c *CPU) opPOP_Ev() {
	c.fetchModRM()
	c.writeRM16(c.pop16())
}

// opESC consumes a coprocessor-escape instruction's ModR/M byte and
// does nothing else; there is no 8087 here, so a program's FWAIT-style
// presence probe just sees an idle bus instead of crashing the core.
func (c *CPU) opESC() {
	c.fetchModRM()
}
