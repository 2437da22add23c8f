// fcb.go - File Control Block API: the pre-handle DOS file surface,
// addressed by a 37-byte caller-owned structure in guest memory.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on §4.4's FCB contract; the struct-over-memory-accessor
// pattern follows the same shape this module already uses for the PSP
// (psp.go) and MCB (mcb.go) - a thin view object over a fixed guest
// memory layout, never copied out wholesale.

package main

import (
	"os"
	"strings"
)

const (
	fcbDrive     = 0x00
	fcbName      = 0x01 // 8 bytes, space-padded
	fcbExt       = 0x09 // 3 bytes, space-padded
	fcbCurBlock  = 0x0C
	fcbRecSize   = 0x0E
	fcbFileSize  = 0x10
	fcbDate      = 0x14
	fcbTime      = 0x16
	fcbReserved  = 0x18 // 8 bytes
	fcbCurRecord = 0x20
	fcbRecNumber = 0x21 // 4 bytes
	fcbLength    = 37

	extFCBPrefix   = 0xFF
	extFCBAttrByte = 0x05 // offset of the attribute byte within the 7-byte extended prefix
)

// FCB is a view over a 37-byte (or 44-byte extended) structure at a
// fixed guest address; it never holds the bytes itself.
type FCB struct {
	mc        *Machine
	seg, off  uint16
	extended  bool
	baseOff   uint16 // offset of the standard 37-byte body (after any extended prefix)
	hostPath  string // resolved lazily by Open/Create
	handle    int
	hasHandle bool
}

// LoadFCB builds a view over the FCB at seg:off, detecting the extended
// prefix byte 0xFF per §4.4.
func (mc *Machine) LoadFCB(seg, off uint16) *FCB {
	f := &FCB{mc: mc, seg: seg, off: off}
	if mc.Memory.Read8(seg, off) == extFCBPrefix {
		f.extended = true
		f.baseOff = off + 7
	} else {
		f.baseOff = off
	}
	return f
}

func (f *FCB) rd8(o uint16) byte       { return f.mc.Memory.Read8(f.seg, f.baseOff+o) }
func (f *FCB) wr8(o uint16, v byte)    { f.mc.Memory.Write8(f.seg, f.baseOff+o, v) }
func (f *FCB) rd16(o uint16) uint16    { return f.mc.Memory.Read16(f.seg, f.baseOff+o) }
func (f *FCB) wr16(o uint16, v uint16) { f.mc.Memory.Write16(f.seg, f.baseOff+o, v) }

func (f *FCB) rd32(o uint16) uint32 {
	lo := f.rd16(o)
	hi := f.rd16(o + 2)
	return uint32(hi)<<16 | uint32(lo)
}

func (f *FCB) wr32(o uint16, v uint32) {
	f.wr16(o, uint16(v))
	f.wr16(o+2, uint16(v>>16))
}

// Name8_3 reconstructs the "NAME.EXT" string (trimmed, dotted) from the
// packed 8+3 fields.
func (f *FCB) Name8_3() string {
	var nb, eb [8]byte
	n := 0
	for i := uint16(0); i < 8; i++ {
		c := f.rd8(fcbName + i)
		if c != ' ' {
			nb[n] = c
			n++
		}
	}
	name := string(nb[:n])
	e := 0
	for i := uint16(0); i < 3; i++ {
		c := f.rd8(fcbExt + i)
		if c != ' ' {
			eb[e] = c
			e++
		}
	}
	if e == 0 {
		return name
	}
	return name + "." + string(eb[:e])
}

// ParseFrom fills the drive/name/ext fields from a DOS-form filename
// string such as "FOO.TXT" or "B:BAR.DAT", space-padding short parts,
// per the PSP's own "two parsed FCBs" requirement in §4.5.
func (f *FCB) ParseFrom(spec string) {
	drive := byte(0)
	s := spec
	if len(s) >= 2 && s[1] == ':' {
		d := strings.ToUpper(s[:1])[0]
		drive = d - 'A' + 1
		s = s[2:]
	}
	name, ext := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		name, ext = s[:i], s[i+1:]
	}
	name = strings.ToUpper(name)
	ext = strings.ToUpper(ext)

	f.wr8(fcbDrive, drive)
	for i := uint16(0); i < 8; i++ {
		if int(i) < len(name) {
			f.wr8(fcbName+i, name[i])
		} else {
			f.wr8(fcbName+i, ' ')
		}
	}
	for i := uint16(0); i < 3; i++ {
		if int(i) < len(ext) {
			f.wr8(fcbExt+i, ext[i])
		} else {
			f.wr8(fcbExt+i, ' ')
		}
	}
}

func (f *FCB) recSize() uint16 {
	r := f.rd16(fcbRecSize)
	if r == 0 {
		return 128
	}
	return r
}

// seqOffset/randOffset implement §4.4's coherence invariant between the
// sequential and random position fields.
func (f *FCB) seqOffset() int64 {
	return int64(f.rd16(fcbCurBlock))*128*int64(f.recSize()) + int64(f.rd8(fcbCurRecord))*int64(f.recSize())
}

func (f *FCB) setSeqFromOffset(off int64) {
	rs := int64(f.recSize())
	block := off / (128 * rs)
	rec := (off / rs) % 128
	f.wr16(fcbCurBlock, uint16(block))
	f.wr8(fcbCurRecord, byte(rec))
}

func (f *FCB) randOffset() int64 {
	return int64(f.rd32(fcbRecNumber)) * int64(f.recSize())
}

// Open resolves the FCB's filename against the translator, opens the
// host file, and records the handle and size. Returns false (DOS error
// 0xFF convention for FCB calls) if the file doesn't exist.
func (f *FCB) Open(pt *PathTranslator, owner uint16) bool {
	drive := f.rd8(fcbDrive)
	spec := f.Name8_3()
	if drive != 0 {
		spec = string(rune('A'+drive-1)) + ":" + spec
	}
	host := pt.ToHost(spec)
	h, err := f.mc.Files.Open(host, true, owner)
	if err != nil {
		return false
	}
	f.handle = h
	f.hasHandle = true
	fi, _ := os.Stat(host)
	if fi != nil {
		f.wr32(fcbFileSize, uint32(fi.Size()))
	}
	f.wr16(fcbCurBlock, 0)
	f.wr8(fcbCurRecord, 0)
	return true
}

func (f *FCB) Create(pt *PathTranslator, owner uint16) bool {
	drive := f.rd8(fcbDrive)
	spec := f.Name8_3()
	if drive != 0 {
		spec = string(rune('A'+drive-1)) + ":" + spec
	}
	host := pt.ToHost(spec)
	h, err := f.mc.Files.Create(host, owner)
	if err != nil {
		return false
	}
	f.handle = h
	f.hasHandle = true
	f.wr32(fcbFileSize, 0)
	f.wr16(fcbCurBlock, 0)
	f.wr8(fcbCurRecord, 0)
	return true
}

func (f *FCB) Close() {
	if f.hasHandle {
		f.mc.Files.Close(f.handle)
		f.hasHandle = false
	}
}

// SequentialRead reads one record at the current sequential position
// into dtaSeg:dtaOff, advancing curBlock/curRecord, per §4.4.
func (f *FCB) SequentialRead(dtaSeg, dtaOff uint16) int {
	if !f.hasHandle {
		return 1
	}
	rs := int(f.recSize())
	buf := make([]byte, rs)
	f.mc.Files.Seek(f.handle, f.seqOffset(), 0)
	n, err := f.mc.Files.Read(f.handle, buf)
	if err != nil || n == 0 {
		return 1
	}
	for i := 0; i < rs; i++ {
		var b byte
		if i < n {
			b = buf[i]
		}
		f.mc.Memory.Write8(dtaSeg, dtaOff+uint16(i), b)
	}
	f.setSeqFromOffset(f.seqOffset() + int64(rs))
	if n < rs {
		return 3 // partial record at EOF
	}
	return 0
}

func (f *FCB) SequentialWrite(dtaSeg, dtaOff uint16) int {
	if !f.hasHandle {
		return 1
	}
	rs := int(f.recSize())
	buf := make([]byte, rs)
	for i := 0; i < rs; i++ {
		buf[i] = f.mc.Memory.Read8(dtaSeg, dtaOff+uint16(i))
	}
	f.mc.Files.Seek(f.handle, f.seqOffset(), 0)
	f.mc.Files.Write(f.handle, buf)
	f.setSeqFromOffset(f.seqOffset() + int64(rs))
	return 0
}

func (f *FCB) RandomRead(dtaSeg, dtaOff uint16) int {
	f.setSeqFromOffset(f.randOffset())
	return f.SequentialRead(dtaSeg, dtaOff)
}

func (f *FCB) RandomWrite(dtaSeg, dtaOff uint16) int {
	f.setSeqFromOffset(f.randOffset())
	return f.SequentialWrite(dtaSeg, dtaOff)
}

// RandomBlockIO performs count records of sequential I/O starting at
// the random-record position, then synchronizes curRecord/curBlock to
// the position reached, per §4.4.
func (f *FCB) RandomBlockIO(dtaSeg, dtaOff uint16, count uint16, write bool) (uint16, int) {
	f.setSeqFromOffset(f.randOffset())
	rs := uint16(f.recSize())
	var done uint16
	for ; done < count; done++ {
		var rc int
		if write {
			rc = f.SequentialWrite(dtaSeg, dtaOff+done*rs)
		} else {
			rc = f.SequentialRead(dtaSeg, dtaOff+done*rs)
		}
		if rc != 0 {
			break
		}
	}
	f.wr32(fcbRecNumber, uint32(f.seqOffset()/int64(rs)))
	return done, 0
}
