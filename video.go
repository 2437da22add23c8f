// video.go - CGA-style text-mode video mirror at segment 0xB800.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's video_screen_buffer (shadow + diff-flush)
// pattern used by its pixel backends: a mirror the emulated core writes
// freely, a shadow snapshot of the last flushed frame, and a flush pass
// that only touches rows that actually changed. Cut down to text cells
// (character, attribute) pairs instead of pixels, per §4.6.

package main

const (
	videoSegment  = 0xB800
	videoPageSize = 0x1000 // 4 KiB per page
	videoCols     = 80
)

// Video owns the four-page CGA text mirror and the shadow buffer the
// host flush diffs against. It never talks to the host terminal
// itself; that is hostterm's job, driven by the scheduler.
type Video struct {
	mc     *Machine
	shadow [4 * videoPageSize]byte
}

func NewVideo(mc *Machine) *Video {
	v := &Video{mc: mc}
	v.ClearPage(0, 0x07)
	return v
}

func (v *Video) rows() int {
	return int(v.mc.BDA.RowsMinusOne()) + 1
}

func (v *Video) cellOffset(page byte, row, col int) uint16 {
	return uint16(page)*videoPageSize + uint16(row*videoCols*2+col*2)
}

func (v *Video) ReadCell(page byte, row, col int) (ch, attr byte) {
	off := v.cellOffset(page, row, col)
	ch = v.mc.Memory.Read8(videoSegment, off)
	attr = v.mc.Memory.Read8(videoSegment, off+1)
	return
}

func (v *Video) WriteCell(page byte, row, col int, ch, attr byte) {
	off := v.cellOffset(page, row, col)
	v.mc.Memory.Write8(videoSegment, off, ch)
	v.mc.Memory.Write8(videoSegment, off+1, attr)
}

// ClearPage fills an entire page with blanks under the given attribute.
func (v *Video) ClearPage(page byte, attr byte) {
	for r := 0; r < v.rows(); r++ {
		for c := 0; c < videoCols; c++ {
			v.WriteCell(page, r, c, ' ', attr)
		}
	}
}

// SetMode sets the BIOS video mode. Per §4.6, a high bit (0x80) set in
// AL requests the new mode without clearing the display.
func (v *Video) SetMode(al byte) {
	mode := al & 0x7F
	v.mc.BDA.SetVideoMode(mode)
	switch mode {
	case 0x00, 0x01:
		v.mc.BDA.SetColumns(40)
	default:
		v.mc.BDA.SetColumns(80)
	}
	if al&0x80 == 0 {
		for p := byte(0); p < 4; p++ {
			v.ClearPage(p, 0x07)
		}
	}
}

// ScrollUp moves `lines` rows up within [top,bottom] x [left,right],
// filling the exposed rows with (space, fillAttr). lines == 0 clears
// the whole window, matching real BIOS scroll semantics.
func (v *Video) ScrollUp(page byte, lines, top, left, bottom, right int, fillAttr byte) {
	if lines == 0 {
		for r := top; r <= bottom; r++ {
			for c := left; c <= right; c++ {
				v.WriteCell(page, r, c, ' ', fillAttr)
			}
		}
		return
	}
	for r := top; r <= bottom; r++ {
		src := r + lines
		for c := left; c <= right; c++ {
			if src <= bottom {
				ch, attr := v.ReadCell(page, src, c)
				v.WriteCell(page, r, c, ch, attr)
			} else {
				v.WriteCell(page, r, c, ' ', fillAttr)
			}
		}
	}
}

func (v *Video) ScrollDown(page byte, lines, top, left, bottom, right int, fillAttr byte) {
	if lines == 0 {
		for r := top; r <= bottom; r++ {
			for c := left; c <= right; c++ {
				v.WriteCell(page, r, c, ' ', fillAttr)
			}
		}
		return
	}
	for r := bottom; r >= top; r-- {
		src := r - lines
		for c := left; c <= right; c++ {
			if src >= top {
				ch, attr := v.ReadCell(page, src, c)
				v.WriteCell(page, r, c, ch, attr)
			} else {
				v.WriteCell(page, r, c, ' ', fillAttr)
			}
		}
	}
}

// Teletype writes one character at the current cursor, interpreting
// BS/LF/CR and scrolling the page when a write past the last line
// would otherwise run off the bottom.
func (v *Video) Teletype(ch byte, attr byte, useAttr bool) {
	page := v.mc.BDA.ActivePage()
	col, row := v.mc.BDA.CursorPos(page)
	ic, ir := int(col), int(row)

	switch ch {
	case 0x08: // backspace
		if ic > 0 {
			ic--
		}
	case 0x0A: // LF
		ir++
	case 0x0D: // CR
		ic = 0
	default:
		a := attr
		if !useAttr {
			_, a = v.ReadCell(page, ir, ic)
		}
		v.WriteCell(page, ir, ic, ch, a)
		ic++
	}

	if ic >= videoCols {
		ic = 0
		ir++
	}
	if ir >= v.rows() {
		v.ScrollUp(page, 1, 0, 0, v.rows()-1, videoCols-1, 0x07)
		ir = v.rows() - 1
	}
	v.mc.BDA.SetCursorPos(page, byte(ic), byte(ir))
}

// Flush diffs the live mirror against the shadow and returns the
// indices of the changed 160-byte rows (counted across all four pages),
// then updates the shadow to match. The host terminal driver (outside this package's
// scope) uses this to redraw only what changed.
func (v *Video) Flush() []int {
	mem := v.mc.Memory.Bytes()
	base := int(v.mc.Memory.Linear(videoSegment, 0))
	var changedRows []int
	total := 4 * videoPageSize
	for i := 0; i < total; i += videoCols * 2 {
		row := mem[base+i : base+i+videoCols*2]
		if !bytesEqual(row, v.shadow[i:i+videoCols*2]) {
			changedRows = append(changedRows, i/(videoCols*2))
			copy(v.shadow[i:i+videoCols*2], row)
		}
	}
	return changedRows
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
