// exec.go - child-process execution (INT 21h/4B), covering the three
// load-and-{run,suspend,overlay} modes §4.5 describes.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's save/restore-registers-around-a-call
// pattern from its own coroutine-style subroutine dispatch (pruned
// debug_monitor stepper used the same "snapshot, replace, on return
// restore" shape for single-stepping into a called function).

package main

// ExecParamBlock mirrors the EXEC function's caller-supplied parameter
// block for mode 0/1: environment segment, command-tail pointer and two
// default FCB pointers, read by dosExec as consecutive words with each
// pointer's segment word before its offset word.
type ExecParamBlock struct {
	EnvSegment    uint16
	CmdTailSeg    uint16
	CmdTailOff    uint16
	FCB1Seg       uint16
	FCB1Off       uint16
	FCB2Seg       uint16
	FCB2Off       uint16
	ChildSSOut    uint16 // mode 1 output: child SS:SP
	ChildSPOut    uint16
	ChildCSOut    uint16 // mode 1 output: child CS:IP
	ChildIPOut    uint16
}

// ExecChild implements AH=4Bh. mode is AL (0 load-and-run, 1
// load-don't-run, 3 load-overlay). Returns a DOS error code (0 = ok).
func (mc *Machine) ExecChild(mode byte, hostPath string, pb *ExecParamBlock) byte {
	image, err := ReadExecutableFile(hostPath)
	if err != nil {
		return 2 // file not found
	}

	cmdTail := readCounted127(mc, pb.CmdTailSeg, pb.CmdTailOff)
	parentPSP := mc.ActivePSP

	switch mode {
	case 3:
		return mc.loadOverlay(image, pb)
	case 1:
		res, lerr := mc.LoadProgram(hostPath, image, cmdTail, parentPSP, pb.EnvSegment)
		if lerr != nil {
			return derrCode(lerr)
		}
		mc.Memory.Write16(res.SS, res.SP-2, 0xFFFF)
		pb.ChildSSOut, pb.ChildSPOut = res.SS, res.SP-2
		pb.ChildCSOut, pb.ChildIPOut = res.CS, res.IP
		return 0
	default: // mode 0
		res, lerr := mc.LoadProgram(hostPath, image, cmdTail, parentPSP, pb.EnvSegment)
		if lerr != nil {
			return derrCode(lerr)
		}

		parent := mc.PSPs.Get(parentPSP)
		saved := mc.CPU.Regs
		parent.SaveParentStack(saved.SS, saved.SP)

		child := mc.PSPs.Get(res.PSPSegment)
		child.SetTerminateAddress(saved.CS, saved.IP)

		_ = saved
		mc.ActivePSP = res.PSPSegment
		mc.CPU.Regs.CS, mc.CPU.Regs.IP = res.CS, res.IP
		mc.CPU.Regs.SS, mc.CPU.Regs.SP = res.SS, res.SP
		mc.CPU.Regs.DS, mc.CPU.Regs.ES = res.DS, res.ES
		return 0
	}
}

func (mc *Machine) loadOverlay(image []byte, pb *ExecParamBlock) byte {
	// Mode 3: load at a caller-supplied segment/relocation factor; no
	// allocation, no PSP. The caller passes the target segment via
	// EnvSegment (reused as the load segment per common DOS practice)
	// and the relocation factor via FCB1Seg.
	loadSeg := pb.EnvSegment
	relocFactor := pb.FCB1Seg
	if IsEXE(image) {
		h, err := parseEXEHeader(image)
		if err != nil {
			return 11
		}
		headerBytes := int(h.headerParas) * paragraph
		body := image[headerBytes:]
		for i, b := range body {
			mc.Memory.Write8(loadSeg, uint16(i), b)
		}
		relocOff := int(h.relocTableOff)
		for i := 0; i < int(h.relocs); i++ {
			o := relocOff + i*4
			if o+4 > len(image) {
				break
			}
			relOffset := uint16(image[o]) | uint16(image[o+1])<<8
			relSegment := uint16(image[o+2]) | uint16(image[o+3])<<8
			targetSeg := loadSeg + relSegment + relocFactor
			cur := mc.Memory.Read16(targetSeg, relOffset)
			mc.Memory.Write16(targetSeg, relOffset, cur+loadSeg+relocFactor)
		}
	} else {
		for i, b := range image {
			mc.Memory.Write8(loadSeg, uint16(i), b)
		}
	}
	return 0
}

// ExitProcess implements the exit funnel §4.5 describes for INT 20h,
// INT 21h/4Ch, the COM zero-word RET path, INT 22h, and INT 23h: close
// files, free memory, free the environment, and either resume the
// parent or end emulation at the root.
func (mc *Machine) ExitProcess(exitCode byte) {
	psp := mc.PSPs.Get(mc.ActivePSP)
	if psp == nil {
		mc.Terminated = true
		mc.ExitCode = exitCode
		return
	}

	mc.Files.CloseOwnedBy(mc.ActivePSP)
	mc.Allocator.FreeOwnedBy(mc.ActivePSP)
	if psp.EnvSeg != 0 {
		mc.Allocator.Free(psp.EnvSeg)
	}
	mc.ExitCode = exitCode
	mc.PSPs.Remove(mc.ActivePSP)

	if psp.Parent == 0 {
		mc.Terminated = true
		return
	}

	cs, ip := psp.TerminateAddress()
	parent := mc.PSPs.Get(psp.Parent)
	ss, sp := parent.ParentStack()

	mc.ActivePSP = psp.Parent
	mc.CPU.Regs.CS, mc.CPU.Regs.IP = cs, ip
	mc.CPU.Regs.SS, mc.CPU.Regs.SP = ss, sp
	mc.CPU.Regs.SetAL(exitCode)
	mc.CPU.Regs.SetAH(0)
	mc.CPU.Flags.CF = false
}

func readCounted127(mc *Machine, seg, off uint16) string {
	n := mc.Memory.Read8(seg, off)
	b := make([]byte, n)
	for i := byte(0); i < n; i++ {
		b[i] = mc.Memory.Read8(seg, off+1+uint16(i))
	}
	return string(b)
}

func derrCode(err error) byte {
	if de, ok := err.(*DOSError); ok {
		return de.Code
	}
	return 2
}
