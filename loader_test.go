// loader_test.go - COM and EXE program loading tests.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"encoding/binary"
	"testing"
)

func TestIsEXE_DetectsMZSignature(t *testing.T) {
	if !IsEXE([]byte{'M', 'Z', 0, 0}) {
		t.Error("MZ-prefixed image must be detected as an EXE")
	}
	if IsEXE([]byte{0xB8, 0x00, 0x4C}) {
		t.Error("a raw COM image must not be detected as an EXE")
	}
	if IsEXE([]byte{'M'}) {
		t.Error("a one-byte image cannot be an EXE")
	}
}

func TestLoadCOM_EntryStateAndZeroReturnWord(t *testing.T) {
	mc := NewMachine(nil, ".")
	image := []byte{0xB8, 0x34, 0x12} // MOV AX, 0x1234

	res, err := mc.loadCOM(image, "", 0, 0)
	if err != nil {
		t.Fatalf("loadCOM: %v", err)
	}
	if res.CS != res.PSPSegment || res.IP != 0x100 {
		t.Errorf("entry: got CS=0x%04X IP=0x%04X, want CS=PSP IP=0x100", res.CS, res.IP)
	}
	if res.SS != res.CS || res.SP != 0xFFFE {
		t.Errorf("stack: got SS=0x%04X SP=0x%04X, want SS=CS SP=0xFFFE", res.SS, res.SP)
	}
	if got := mc.Memory.Read16(res.SS, res.SP); got != 0 {
		t.Errorf("zero return word at top of stack: got 0x%04X, want 0", got)
	}
	for i, want := range image {
		if got := mc.Memory.Read8(res.CS, 0x100+uint16(i)); got != want {
			t.Errorf("image byte %d: got 0x%02X, want 0x%02X", i, got, want)
		}
	}
}

func TestLoadCOM_BlockReservesFullSegmentIncludingTopOfStack(t *testing.T) {
	mc := NewMachine(nil, ".")
	res, err := mc.loadCOM([]byte{0x90}, "", 0, 0)
	if err != nil {
		t.Fatalf("loadCOM: %v", err)
	}

	// the zero return word at SP=0xFFFE must land inside this program's own
	// reserved block, not spill into whatever the allocator hands out next.
	seg2, _ := mc.Allocator.Allocate(0, 0)
	if seg2 == 0 {
		t.Fatal("a second allocation must still succeed")
	}
	if seg2 <= res.PSPSegment {
		t.Fatalf("second allocation segment 0x%04X must follow the first block 0x%04X", seg2, res.PSPSegment)
	}
	if uint32(res.PSPSegment)+0x1000 > uint32(seg2) {
		t.Errorf("loadCOM's block (seg 0x%04X + 0x1000 paragraphs) overlaps the next allocation at 0x%04X", res.PSPSegment, seg2)
	}
}

func TestLoadCOM_DTADefaultsToPSPCommandTail(t *testing.T) {
	mc := NewMachine(nil, ".")
	res, err := mc.loadCOM([]byte{0x90}, "", 0, 0)
	if err != nil {
		t.Fatalf("loadCOM: %v", err)
	}
	if mc.dtaSeg != res.PSPSegment || mc.dtaOff != 0x80 {
		t.Errorf("default DTA: got %04X:%04X, want %04X:0080", mc.dtaSeg, mc.dtaOff, res.PSPSegment)
	}
}

func buildTestEXE(bodyFirstWord uint16, body []byte) []byte {
	return buildTestEXEWithExtra(bodyFirstWord, body, 0, 0)
}

func buildTestEXEWithExtra(bodyFirstWord uint16, body []byte, minExtra, maxExtra uint16) []byte {
	header := make([]byte, 32)
	binary.LittleEndian.PutUint16(header[0:2], exeSignature)
	total := len(header) + len(body)
	blocks := (total + 511) / 512
	lastBlockBytes := total % 512
	binary.LittleEndian.PutUint16(header[2:4], uint16(lastBlockBytes))
	binary.LittleEndian.PutUint16(header[4:6], uint16(blocks))
	binary.LittleEndian.PutUint16(header[6:8], 1) // relocs
	binary.LittleEndian.PutUint16(header[8:10], 2) // headerParas (32 bytes)
	binary.LittleEndian.PutUint16(header[10:12], minExtra)
	binary.LittleEndian.PutUint16(header[12:14], maxExtra)
	binary.LittleEndian.PutUint16(header[14:16], 0) // initSS
	binary.LittleEndian.PutUint16(header[16:18], 0x100) // initSP
	binary.LittleEndian.PutUint16(header[20:22], 0x10) // initIP
	binary.LittleEndian.PutUint16(header[22:24], 0)    // initCS
	binary.LittleEndian.PutUint16(header[24:26], 28)   // relocTableOff
	// reloc entry at bytes [28:32]: offset 0, segment 0
	binary.LittleEndian.PutUint16(header[28:30], 0)
	binary.LittleEndian.PutUint16(header[30:32], 0)

	b := make([]byte, 0, total)
	b = append(b, header...)
	bodyCopy := append([]byte(nil), body...)
	binary.LittleEndian.PutUint16(bodyCopy[0:2], bodyFirstWord)
	b = append(b, bodyCopy...)
	return b
}

func TestLoadEXE_RelocationAndEntryState(t *testing.T) {
	mc := NewMachine(nil, ".")
	body := make([]byte, 16)
	image := buildTestEXE(0x0000, body)

	res, err := mc.loadEXE(image, "", 0, 0)
	if err != nil {
		t.Fatalf("loadEXE: %v", err)
	}
	dataSeg := res.PSPSegment + 1
	if res.CS != dataSeg || res.IP != 0x10 {
		t.Errorf("entry: got CS=0x%04X IP=0x%04X, want CS=0x%04X IP=0x10", res.CS, res.IP, dataSeg)
	}
	if res.SS != dataSeg || res.SP != 0x100 {
		t.Errorf("stack: got SS=0x%04X SP=0x%04X, want SS=0x%04X SP=0x100", res.SS, res.SP, dataSeg)
	}
	if got := mc.Memory.Read16(dataSeg, 0); got != dataSeg {
		t.Errorf("relocated word: got 0x%04X, want 0x%04X (the segment the fixup adds)", got, dataSeg)
	}
}

func TestLoadEXE_GrantsMaxExtraParagraphsWhenAvailable(t *testing.T) {
	mc := NewMachine(nil, ".")
	body := make([]byte, 16)
	image := buildTestEXEWithExtra(0x0000, body, 0, 100)

	res, err := mc.loadEXE(image, "", 0, 0)
	if err != nil {
		t.Fatalf("loadEXE: %v", err)
	}

	seg2, _ := mc.Allocator.Allocate(0, 0)
	if seg2 == 0 {
		t.Fatal("a second allocation must still succeed")
	}
	// PSP(1) + image(1, since body is 16 bytes = 1 paragraph) + maxExtra(100).
	wantBlockParas := uint16(1 + 1 + 100)
	if got := seg2 - res.PSPSegment; got < wantBlockParas {
		t.Errorf("block size: got %d paragraphs before the next allocation, want at least %d (max_alloc honored)", got, wantBlockParas)
	}
}

func TestLoadEXE_FallsBackBelowMaxExtraWhenArenaIsTight(t *testing.T) {
	mc := NewMachine(nil, ".")
	// Exhaust most of the arena, leaving a small but nonzero gap.
	mc.Allocator.Allocate(0x8F00, 0)

	body := make([]byte, 16)
	image := buildTestEXEWithExtra(0x0000, body, 2, 0xFFFF)

	res, err := mc.loadEXE(image, "", 0, 0)
	if err != nil {
		t.Fatalf("loadEXE must fall back to a smaller block rather than failing: %v", err)
	}
	if res.PSPSegment == 0 {
		t.Error("must still succeed when at least min_alloc fits")
	}
}

func TestLoadEXE_RejectsBadSignature(t *testing.T) {
	mc := NewMachine(nil, ".")
	_, err := mc.loadEXE([]byte{'X', 'X', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, "", 0, 0)
	if err == nil {
		t.Error("a non-MZ header must be rejected")
	}
}
