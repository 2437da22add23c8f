// int10h.go - INT 10h video services dispatch, keyed on AH.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on §4.8's INT 10h contract; delegates directly to Video's
// mode/cursor/scroll/write operations rather than duplicating their
// logic here, matching the teacher's own thin-dispatch-then-delegate
// shape for its device interrupt handlers.

package main

func svcInt10h(mc *Machine, cpu *CPU) {
	switch cpu.Regs.AH() {
	case 0x00: // set video mode
		mc.Video.SetMode(cpu.Regs.AL())
	case 0x01: // set cursor size - no hardware cursor shape to track
	case 0x02: // set cursor position
		page := cpu.Regs.BH()
		mc.BDA.SetCursorPos(page, cpu.Regs.DL(), cpu.Regs.DH())
	case 0x03: // get cursor position
		page := cpu.Regs.BH()
		col, row := mc.BDA.CursorPos(page)
		cpu.Regs.SetDL(col)
		cpu.Regs.SetDH(row)
		cpu.Regs.CX = 0x0607 // plausible start/end scan line
	case 0x05: // select active display page
		mc.BDA.SetActivePage(cpu.Regs.AL())
	case 0x06: // scroll up
		top, left := int(cpu.Regs.CH()), int(cpu.Regs.CL())
		bottom, right := int(cpu.Regs.DH()), int(cpu.Regs.DL())
		mc.Video.ScrollUp(mc.BDA.ActivePage(), int(cpu.Regs.AL()), top, left, bottom, right, cpu.Regs.BH())
	case 0x07: // scroll down
		top, left := int(cpu.Regs.CH()), int(cpu.Regs.CL())
		bottom, right := int(cpu.Regs.DH()), int(cpu.Regs.DL())
		mc.Video.ScrollDown(mc.BDA.ActivePage(), int(cpu.Regs.AL()), top, left, bottom, right, cpu.Regs.BH())
	case 0x08: // read char+attr at cursor
		page := cpu.Regs.BH()
		col, row := mc.BDA.CursorPos(page)
		ch, attr := mc.Video.ReadCell(page, int(row), int(col))
		cpu.Regs.SetAL(ch)
		cpu.Regs.SetAH(attr)
	case 0x09: // write char+attr N times
		writeRepeated(mc, cpu, true)
	case 0x0A: // write char only N times
		writeRepeated(mc, cpu, false)
	case 0x0E: // teletype output
		mc.Video.Teletype(cpu.Regs.AL(), cpu.Regs.BL(), false)
	case 0x0F: // get current video mode
		cpu.Regs.SetAL(mc.BDA.VideoMode())
		cpu.Regs.SetAH(mc.BDA.Columns())
		cpu.Regs.SetBH(mc.BDA.ActivePage())
	case 0x10: // palette - ignored per §4.8
	case 0x12: // alternate select / EGA info
		if cpu.Regs.BL() == 0x10 {
			cpu.Regs.SetBH(0) // color mode
			cpu.Regs.SetBL(3) // 256KB installed
			cpu.Regs.CX = 0
		}
	case 0x1A: // video display combination get/set
		cpu.Regs.SetAL(0x1A)
		cpu.Regs.SetBL(0x08) // VGA with color display
	default:
		mc.Logger.Debug("unhandled int10h function", "ah", cpu.Regs.AH())
	}
}

func writeRepeated(mc *Machine, cpu *CPU, useAttr bool) {
	page := mc.BDA.ActivePage()
	col, row := mc.BDA.CursorPos(page)
	n := cpu.Regs.CX
	for i := uint16(0); i < n; i++ {
		c := int(col) + int(i)
		r := int(row)
		if c >= videoCols {
			r += c / videoCols
			c = c % videoCols
		}
		attr := cpu.Regs.BL()
		if !useAttr {
			_, attr = mc.Video.ReadCell(page, r, c)
		}
		mc.Video.WriteCell(page, r, c, cpu.Regs.AL(), attr)
	}
}
