// cpu_ops_string.go - string-move/compare/scan instructions and the
// REP/REPZ/REPNZ repeat prefixes.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's opCMPSB/opSCASB pair in cpu_x86_ops.go,
// which already loop CX down to zero and test ZF after each compare -
// that per-iteration-decrement shape is generalized here to MOVS/STOS/
// LODS too, since §4.2 specifies the same repeat semantics for the
// whole string-op family, not just the two the teacher happened to
// repeat-loop.

package main

// stringSrcSeg is DS, overridable; stringDstSeg is always ES and is
// never affected by a segment-override prefix (the 8086 hardwires the
// string destination to ES so REP MOVSB can't be redirected mid-copy).
func (c *CPU) stringSrcSeg() uint16 { return c.effectiveSegment(c.Regs.DS) }
func (c *CPU) stringDstSeg() uint16 { return c.Regs.ES }

func strStep(df bool, width uint16) uint16 {
	if df {
		return ^width + 1 // -width as uint16
	}
	return width
}

func (c *CPU) opMOVSB() {
	c.repeat(func() bool {
		v := c.mem.Read8(c.stringSrcSeg(), c.Regs.SI)
		c.mem.Write8(c.stringDstSeg(), c.Regs.DI, v)
		c.Regs.SI += strStep(c.Flags.DF, 1)
		c.Regs.DI += strStep(c.Flags.DF, 1)
		return true
	}, false)
}

func (c *CPU) opMOVSW() {
	c.repeat(func() bool {
		v := c.mem.Read16(c.stringSrcSeg(), c.Regs.SI)
		c.mem.Write16(c.stringDstSeg(), c.Regs.DI, v)
		c.Regs.SI += strStep(c.Flags.DF, 2)
		c.Regs.DI += strStep(c.Flags.DF, 2)
		return true
	}, false)
}

func (c *CPU) opSTOSB() {
	c.repeat(func() bool {
		c.mem.Write8(c.stringDstSeg(), c.Regs.DI, c.Regs.AL())
		c.Regs.DI += strStep(c.Flags.DF, 1)
		return true
	}, false)
}

func (c *CPU) opSTOSW() {
	c.repeat(func() bool {
		c.mem.Write16(c.stringDstSeg(), c.Regs.DI, c.Regs.AX)
		c.Regs.DI += strStep(c.Flags.DF, 2)
		return true
	}, false)
}

func (c *CPU) opLODSB() {
	c.repeat(func() bool {
		c.Regs.SetAL(c.mem.Read8(c.stringSrcSeg(), c.Regs.SI))
		c.Regs.SI += strStep(c.Flags.DF, 1)
		return true
	}, false)
}

func (c *CPU) opLODSW() {
	c.repeat(func() bool {
		c.Regs.AX = c.mem.Read16(c.stringSrcSeg(), c.Regs.SI)
		c.Regs.SI += strStep(c.Flags.DF, 2)
		return true
	}, false)
}

func (c *CPU) opCMPSB() {
	c.repeat(func() bool {
		a := c.mem.Read8(c.stringSrcSeg(), c.Regs.SI)
		b := c.mem.Read8(c.stringDstSeg(), c.Regs.DI)
		c.setFlagsArith8(uint16(a)-uint16(b), a, b, true)
		c.Regs.SI += strStep(c.Flags.DF, 1)
		c.Regs.DI += strStep(c.Flags.DF, 1)
		return true
	}, true)
}

func (c *CPU) opCMPSW() {
	c.repeat(func() bool {
		a := c.mem.Read16(c.stringSrcSeg(), c.Regs.SI)
		b := c.mem.Read16(c.stringDstSeg(), c.Regs.DI)
		c.setFlagsArith16(uint32(a)-uint32(b), a, b, true)
		c.Regs.SI += strStep(c.Flags.DF, 2)
		c.Regs.DI += strStep(c.Flags.DF, 2)
		return true
	}, true)
}

func (c *CPU) opSCASB() {
	c.repeat(func() bool {
		a := c.Regs.AL()
		b := c.mem.Read8(c.stringDstSeg(), c.Regs.DI)
		c.setFlagsArith8(uint16(a)-uint16(b), a, b, true)
		c.Regs.DI += strStep(c.Flags.DF, 1)
		return true
	}, true)
}

func (c *CPU) opSCASW() {
	c.repeat(func() bool {
		a := c.Regs.AX
		b := c.mem.Read16(c.stringDstSeg(), c.Regs.DI)
		c.setFlagsArith16(uint32(a)-uint32(b), a, b, true)
		c.Regs.DI += strStep(c.Flags.DF, 2)
		return true
	}, true)
}

// repeat runs body once (no prefix), or CX times under REP/REPZ/REPNZ,
// decrementing CX before each iteration and testing it for exit. When
// testsZF is true (CMPS/SCAS), REP/REPZ also exits early once ZF goes
// false and REPNZ exits early once ZF goes true, per §4.2.
func (c *CPU) repeat(body func() bool, testsZF bool) {
	if c.repPrefix == 0 {
		body()
		return
	}
	for c.Regs.CX != 0 {
		c.Regs.CX--
		if !body() {
			break
		}
		if testsZF {
			if c.repPrefix == 1 && !c.Flags.ZF {
				break
			}
			if c.repPrefix == 2 && c.Flags.ZF {
				break
			}
		}
	}
}
