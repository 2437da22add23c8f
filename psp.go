// psp.go - Program Segment Prefix layout and the parent/child PSP
// chain.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on §3/§4.5's byte-exact PSP layout (must match published DOS
// field offsets because guest programs read them directly) and on the
// teacher's "link by value, not by reference" note for its own process
// tree (PSPs link to parents by segment number, mirroring the teacher's
// own acyclic parent-index convention used for its coprocessor worker
// tree in coproc_worker_registry.go, before that file was pruned).

package main

const (
	pspINT20         = 0x00 // 2 bytes: CD 20
	pspTopOfMemory   = 0x02
	pspReserved1     = 0x04
	pspDispatcherF   = 0x05 // far call dispatcher, historical
	pspParentPSP     = 0x16
	pspHandleCount   = 0x32
	pspHandleTable   = 0x34 // 20 bytes, 0xFF = unused
	pspEnvSegment    = 0x2C
	pspSavedSSSP     = 0x2E // historical field, reused here to save parent SS:SP
	pspTerminateIP   = 0x0A
	pspTerminateCS   = 0x0C
	pspCtrlCVector   = 0x0E
	pspCritErrVector = 0x12
	pspCmdTailLen    = 0x80
	pspCmdTail       = 0x81 // up to 127 chars, CR-terminated
	pspFCB1          = 0x5C
	pspFCB2          = 0x6C
	pspDTADefault    = 0x80 // default DTA is the command-tail area itself

	pspSize = 256
)

// PSP is a view over one process's 256-byte prefix block.
type PSP struct {
	mc       *Machine
	Segment  uint16
	Parent   uint16
	SavedSS  uint16
	SavedSP  uint16
	EnvSeg   uint16
	ExitCode byte
}

// PSPChain tracks the parent-linked process tree by segment value, per
// §3's "links to parents by segment number, a value not an owning
// reference" design note.
type PSPChain struct {
	mc     *Machine
	active map[uint16]*PSP
}

func NewPSPChain() *PSPChain {
	return &PSPChain{active: make(map[uint16]*PSP)}
}

// Init writes the full 256-byte PSP structure at segment, linking it to
// parent (0 for the root process).
func (pc *PSPChain) Init(mc *Machine, segment, topOfMemSeg, parent, envSeg uint16, cmdTail string) *PSP {
	p := &PSP{mc: mc, Segment: segment, Parent: parent, EnvSeg: envSeg}
	mem := mc.Memory

	mem.Write8(segment, pspINT20, 0xCD)
	mem.Write8(segment, pspINT20+1, 0x20)
	mem.Write16(segment, pspTopOfMemory, topOfMemSeg)
	mem.Write16(segment, pspParentPSP, parent)
	mem.Write16(segment, pspEnvSegment, envSeg)

	mem.Write8(segment, pspHandleCount, 20)
	for i := uint16(0); i < 20; i++ {
		v := byte(0xFF)
		if i < 5 {
			v = byte(i)
		}
		mem.Write8(segment, pspHandleTable+i, v)
	}

	tail := cmdTail
	if len(tail) > 126 {
		tail = tail[:126]
	}
	mem.Write8(segment, pspCmdTailLen, byte(len(tail)))
	for i := 0; i < len(tail); i++ {
		mem.Write8(segment, pspCmdTail+uint16(i), tail[i])
	}
	mem.Write8(segment, pspCmdTail+uint16(len(tail)), 0x0D)

	fcb1 := mc.LoadFCB(segment, pspFCB1)
	fcb2 := mc.LoadFCB(segment, pspFCB2)
	first, rest := firstArgWord(tail)
	fcb1.ParseFrom(first)
	fcb2.ParseFrom(rest)

	pc.active[segment] = p
	return p
}

// firstArgWord splits the command tail into its first whitespace-
// delimited word (for FCB1) and the remainder trimmed of its own first
// word (for FCB2), per §4.5's "two parsed FCBs from the first argument".
func firstArgWord(tail string) (string, string) {
	i := 0
	for i < len(tail) && tail[i] == ' ' {
		i++
	}
	start := i
	for i < len(tail) && tail[i] != ' ' {
		i++
	}
	first := tail[start:i]
	j := i
	for j < len(tail) && tail[j] == ' ' {
		j++
	}
	rest := tail[j:]
	k := 0
	for k < len(rest) && rest[k] != ' ' {
		k++
	}
	return first, rest[:k]
}

func (pc *PSPChain) Get(segment uint16) *PSP {
	return pc.active[segment]
}

func (pc *PSPChain) Remove(segment uint16) {
	delete(pc.active, segment)
}

// SetTerminateAddress stores the far pointer the child's INT 22h/20h
// exit path resumes at - the instruction after the parent's EXEC call,
// or the root sentinel if this PSP has no parent.
func (p *PSP) SetTerminateAddress(cs, ip uint16) {
	p.mc.Memory.Write16(p.Segment, pspTerminateCS, cs)
	p.mc.Memory.Write16(p.Segment, pspTerminateIP, ip)
}

func (p *PSP) TerminateAddress() (cs, ip uint16) {
	cs = p.mc.Memory.Read16(p.Segment, pspTerminateCS)
	ip = p.mc.Memory.Read16(p.Segment, pspTerminateIP)
	return
}

func (p *PSP) SaveParentStack(ss, sp uint16) {
	p.mc.Memory.Write16(p.Segment, pspSavedSSSP, sp)
	p.mc.Memory.Write16(p.Segment, pspSavedSSSP+2, ss)
}

func (p *PSP) ParentStack() (ss, sp uint16) {
	sp = p.mc.Memory.Read16(p.Segment, pspSavedSSSP)
	ss = p.mc.Memory.Read16(p.Segment, pspSavedSSSP+2)
	return
}

func (p *PSP) CommandTail() string {
	n := p.mc.Memory.Read8(p.Segment, pspCmdTailLen)
	b := make([]byte, n)
	for i := byte(0); i < n; i++ {
		b[i] = p.mc.Memory.Read8(p.Segment, pspCmdTail+uint16(i))
	}
	return string(b)
}
