// mcb.go - paragraph-granularity memory allocator with an in-RAM MCB
// chain, mirroring DOS's own allocation strategy.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's sorted-interval allocator pattern used for
// its tracker-memory pooling in audio_mixer.go (first-fit over a sorted
// slice of live ranges); adapted here to also maintain the parallel
// in-RAM MCB headers §4.3 requires to stay byte-compatible with real
// DOS memory-probing programs.

package main

const (
	mcbHeaderMore = 'M'
	mcbHeaderLast = 'Z'

	appBaseSegment  = 0x1000 // first segment handed to the loaded program's block
	hardwareTopPara = 0x9FC0 // highest paragraph DOS considers usable (below EBDA/video)
)

type mcbEntry struct {
	segment   uint16 // segment of the usable block, one paragraph past its MCB
	paragraph uint16 // paragraph length of the usable block
	ownerPSP  uint16
}

// MCBAllocator implements DOS's first-fit paragraph allocator and keeps
// the in-memory MCB chain synchronized with its own bookkeeping list.
type MCBAllocator struct {
	mc      *Machine
	entries []mcbEntry
	cushion uint16 // slack paragraphs inserted between allocations; 0 by default
}

func NewMCBAllocator(mc *Machine) *MCBAllocator {
	return &MCBAllocator{mc: mc}
}

// SetCushion configures the LINK.EXE/DEBUG.COM bug-compatibility slack
// described in §4.3 and §9's open question. Off (0) unless a loader
// explicitly turns it on for a recognized program name.
func (a *MCBAllocator) SetCushion(paragraphs uint16) { a.cushion = paragraphs }

// Allocate reserves paragraphs+1 total paragraphs (the extra one for
// the MCB header) and returns the usable segment. On failure it returns
// segment 0 and the largest contiguous free run available, excluding
// the MCB paragraph that run would also need.
func (a *MCBAllocator) Allocate(paragraphs uint16, owner uint16) (uint16, uint16) {
	need := paragraphs + 1
	seg, ok, largest := a.findFit(need)
	if !ok && a.cushion > 0 {
		// Bug-compatibility cushion failed to fit; retry without it.
		seg, ok, largest = a.findFitCushion(need, 0)
	}
	if !ok {
		return 0, largest
	}
	a.entries = append(a.entries, mcbEntry{segment: seg + 1, paragraph: paragraphs, ownerPSP: owner})
	a.sortAndSync()
	return seg + 1, largest
}

func (a *MCBAllocator) findFit(need uint16) (uint16, bool, uint16) {
	return a.findFitCushion(need, a.cushion)
}

// findFitCushion walks the sorted free gaps (including the lead-in gap
// before the first entry and the tail gap after the last) looking for
// one at least `need` paragraphs wide, with `cushion` extra paragraphs
// reserved after each live block when computing gap starts.
func (a *MCBAllocator) findFitCushion(need, cushion uint16) (uint16, bool, uint16) {
	a.sortEntries()

	prevEnd := uint16(appBaseSegment)
	var largest uint16
	for _, e := range a.entries {
		gap := e.segment - 1 - prevEnd // space for this gap's own MCB header too
		if gap >= need {
			return prevEnd, true, gap - 1
		}
		if gap > 0 && gap-1 > largest {
			largest = gap - 1
		}
		prevEnd = e.segment + e.paragraph + cushion
	}

	tailGap := hardwareTopPara - prevEnd
	if tailGap >= need {
		return prevEnd, true, tailGap - 1
	}
	if tailGap > 0 && tailGap-1 > largest {
		largest = tailGap - 1
	}
	return 0, false, largest
}

// Free releases the block at segment (the usable segment, not its MCB).
// Freeing an unknown segment is tolerated per §4.3/§7 and reported as
// not-ok without side effects.
func (a *MCBAllocator) Free(segment uint16) bool {
	for i, e := range a.entries {
		if e.segment == segment {
			a.entries = append(a.entries[:i], a.entries[i+1:]...)
			a.sortAndSync()
			return true
		}
	}
	return false
}

// SetOwner retags the block at segment with owner, used by loaders that
// must allocate before they know the PSP segment they'll assign as owner
// (the PSP lives at the start of the block it owns, so the owner is only
// known once Allocate has returned it). Finds the entry by segment rather
// than by position, since sortAndSync may have reordered entries by the
// time the caller looks.
func (a *MCBAllocator) SetOwner(segment, owner uint16) {
	for i := range a.entries {
		if a.entries[i].segment == segment {
			a.entries[i].ownerPSP = owner
			a.syncMCBs()
			return
		}
	}
}

// FreeOwnedBy reclaims every allocation belonging to a terminating PSP.
func (a *MCBAllocator) FreeOwnedBy(owner uint16) {
	kept := a.entries[:0]
	for _, e := range a.entries {
		if e.ownerPSP != owner {
			kept = append(kept, e)
		}
	}
	a.entries = kept
	a.sortAndSync()
}

// Resize grows or shrinks a block in place, only into the gap that
// immediately follows it. Returns the achieved paragraph count and
// whether the requested size was met exactly.
func (a *MCBAllocator) Resize(segment, newParagraphs uint16) (bool, uint16) {
	a.sortEntries()
	idx := -1
	for i, e := range a.entries {
		if e.segment == segment {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, 0
	}

	var limit uint16
	if idx+1 < len(a.entries) {
		limit = a.entries[idx+1].segment - 1 - segment
	} else {
		limit = hardwareTopPara - segment
	}

	if newParagraphs <= limit {
		a.entries[idx].paragraph = newParagraphs
		a.syncMCBs()
		return true, newParagraphs
	}
	a.entries[idx].paragraph = limit
	a.syncMCBs()
	return false, limit
}

func (a *MCBAllocator) sortEntries() {
	for i := 1; i < len(a.entries); i++ {
		for j := i; j > 0 && a.entries[j-1].segment > a.entries[j].segment; j-- {
			a.entries[j-1], a.entries[j] = a.entries[j], a.entries[j-1]
		}
	}
}

func (a *MCBAllocator) sortAndSync() {
	a.sortEntries()
	a.syncMCBs()
}

// syncMCBs rewrites every MCB header in memory so the in-RAM chain
// agrees with the allocator's own bookkeeping, per §4.3's invariant.
func (a *MCBAllocator) syncMCBs() {
	for i, e := range a.entries {
		mcbSeg := e.segment - 1
		header := byte(mcbHeaderMore)
		paras := e.paragraph
		if i == len(a.entries)-1 {
			header = mcbHeaderLast
		} else {
			next := a.entries[i+1]
			paras = next.segment - e.segment - 1
		}
		a.mc.Memory.Write8(mcbSeg, 0, header)
		a.mc.Memory.Write16(mcbSeg, 1, e.ownerPSP)
		a.mc.Memory.Write16(mcbSeg, 3, paras)
	}
	if len(a.entries) > 0 {
		a.mc.BDA.SetFirstMCB(a.entries[0].segment - 1)
	}
}
