// int21h.go - INT 21h, the DOS function dispatch surface.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on §4.8's function list and §7's error-reporting convention
// (CF=1, AX=error code); each case here either delegates straight into
// an already-built component (Files, Allocator, PSPs, FCB, Video,
// Keyboard) or returns the documented plausible default for a function
// this runtime doesn't need to do anything real for.

package main

import (
	"io"
	"os"
	"time"
)

func svcInt21h(mc *Machine, cpu *CPU) {
	ah := cpu.Regs.AH()
	switch ah {
	case 0x00: // program terminate
		mc.ExitProcess(0)

	case 0x01: // read char with echo
		ch := blockingReadChar(mc, cpu)
		mc.Video.Teletype(ch, 0x07, false)
		cpu.Regs.SetAL(ch)
	case 0x02: // write char
		mc.Video.Teletype(cpu.Regs.DL(), 0x07, false)
	case 0x06: // direct console I/O
		if cpu.Regs.DL() == 0xFF {
			if scancode, ascii, ok := mc.Keyboard.Pop(); ok {
				_ = scancode
				cpu.Regs.SetAL(ascii)
				cpu.Flags.ZF = false
			} else {
				cpu.Regs.SetAL(0)
				cpu.Flags.ZF = true
			}
		} else {
			mc.Video.Teletype(cpu.Regs.DL(), 0x07, false)
		}
	case 0x07, 0x08: // read char, no echo (with/without Ctrl-C check)
		cpu.Regs.SetAL(blockingReadChar(mc, cpu))
	case 0x09: // print string ($-terminated)
		printDollarString(mc, cpu)
	case 0x0A: // buffered line input
		bufferedLineInput(mc, cpu)
	case 0x0B: // check keyboard status
		if mc.Keyboard.Empty() {
			cpu.Regs.SetAL(0)
		} else {
			cpu.Regs.SetAL(0xFF)
		}
	case 0x0C: // flush buffer and read
		for !mc.Keyboard.Empty() {
			mc.Keyboard.Pop()
		}
		sub := cpu.Regs.AL()
		cpu.Regs.SetAH(sub)
		svcInt21h(mc, cpu)

	case 0x0D: // disk reset
	case 0x0E: // select default drive
		cpu.Regs.SetAL(1)

	case 0x0F, 0x10, 0x13, 0x14, 0x15, 0x16, 0x17, 0x21, 0x22, 0x23, 0x24, 0x27, 0x28, 0x29:
		fcbDispatch(mc, cpu, ah)

	case 0x19: // get current default drive
		cpu.Regs.SetAL(2) // "C:"
	case 0x1A: // set DTA
		mc.dtaSeg, mc.dtaOff = cpu.Regs.DS, cpu.Regs.DX

	case 0x25: // set interrupt vector
		off := uint16(cpu.Regs.AL()) * 4
		mc.Memory.Write16(0, off, cpu.Regs.DX)
		mc.Memory.Write16(0, off+2, cpu.Regs.DS)
	case 0x2A: // get date
		now := time.Now()
		cpu.Regs.CX = uint16(now.Year())
		cpu.Regs.SetDH(byte(now.Month()))
		cpu.Regs.SetDL(byte(now.Day()))
		cpu.Regs.SetAL(byte(now.Weekday()))
	case 0x2C: // get time
		now := time.Now()
		cpu.Regs.SetCH(byte(now.Hour()))
		cpu.Regs.SetCL(byte(now.Minute()))
		cpu.Regs.SetDH(byte(now.Second()))
		cpu.Regs.SetDL(byte(now.Nanosecond() / 10000000))
	case 0x2F: // get DTA
		cpu.Regs.ES, cpu.Regs.BX = mc.dtaSeg, mc.dtaOff
	case 0x30: // get DOS version
		cpu.Regs.SetAL(3)
		cpu.Regs.SetAH(30)
		cpu.Regs.BX = 0
		cpu.Regs.CX = 0
	case 0x31: // TSR
		mc.ExitProcess(cpu.Regs.AL())
	case 0x33: // Ctrl-C check get/set
		if cpu.Regs.AL() == 0 {
			cpu.Regs.SetDL(0)
		}
	case 0x35: // get interrupt vector
		off := uint16(cpu.Regs.AL()) * 4
		cpu.Regs.BX = mc.Memory.Read16(0, off)
		cpu.Regs.ES = mc.Memory.Read16(0, off+2)
	case 0x36: // disk free space
		cpu.Regs.AX = 64
		cpu.Regs.BX = 0xFFFF
		cpu.Regs.CX = 512
		cpu.Regs.DX = 0xFFFF
	case 0x38: // country info
		cpu.Flags.CF = true
		cpu.Regs.AX = 1
	case 0x39: // mkdir
		dosMkdir(mc, cpu)
	case 0x3A: // rmdir
		dosRmdir(mc, cpu)
	case 0x3B: // chdir
		dosChdir(mc, cpu)
	case 0x3C: // create
		dosCreate(mc, cpu)
	case 0x3D: // open
		dosOpen(mc, cpu)
	case 0x3E: // close
		if mc.Files.Close(int(cpu.Regs.BX)) {
			cpu.Flags.CF = false
		} else {
			dosFail(cpu, 6)
		}
	case 0x3F: // read
		dosRead(mc, cpu)
	case 0x40: // write
		dosWrite(mc, cpu)
	case 0x41: // delete
		dosDelete(mc, cpu)
	case 0x42: // seek (lseek)
		dosSeek(mc, cpu)
	case 0x43: // get/set file attributes
		cpu.Flags.CF = false
		cpu.Regs.CX = 0x20
	case 0x44: // IOCTL
		dosIOCTL(mc, cpu)
	case 0x45: // dup
		if nh, ok := mc.Files.Dup(int(cpu.Regs.BX)); ok {
			cpu.Regs.AX = uint16(nh)
			cpu.Flags.CF = false
		} else {
			dosFail(cpu, 6)
		}
	case 0x46: // force dup (dup2)
	case 0x47: // get current directory
		dosGetCwd(mc, cpu)
	case 0x48: // allocate memory
		seg, largest := mc.Allocator.Allocate(cpu.Regs.BX, mc.ActivePSP)
		if seg == 0 {
			dosFail(cpu, 8)
			cpu.Regs.BX = largest
		} else {
			cpu.Regs.AX = seg
			cpu.Flags.CF = false
		}
	case 0x49: // free memory
		if mc.Allocator.Free(cpu.Regs.ES) {
			cpu.Flags.CF = false
		} else {
			dosFail(cpu, 9)
		}
	case 0x4A: // resize memory
		ok, maxp := mc.Allocator.Resize(cpu.Regs.ES, cpu.Regs.BX)
		if !ok {
			dosFail(cpu, 8)
			cpu.Regs.BX = maxp
		} else {
			cpu.Flags.CF = false
		}
	case 0x4B: // exec
		dosExec(mc, cpu)
	case 0x4C: // exit with code
		mc.ExitProcess(cpu.Regs.AL())
	case 0x4D: // get child exit code
		cpu.Regs.SetAL(mc.ExitCode)
		cpu.Regs.SetAH(0)
	case 0x4E: // find first
		dosFindFirst(mc, cpu)
	case 0x4F: // find next
		dosFindNext(mc, cpu)
	case 0x50: // set PSP
		mc.ActivePSP = cpu.Regs.BX
	case 0x51, 0x62: // get PSP
		cpu.Regs.BX = mc.ActivePSP
	case 0x52: // get list of lists
		cpu.Regs.ES = bdaSegment
		cpu.Regs.BX = bdaFirstListPtrO
	case 0x56: // rename
		dosRename(mc, cpu)
	case 0x57: // get/set file date-time
		if cpu.Regs.AL() == 0 {
			cpu.Regs.CX = 0
			cpu.Regs.DX = 0
		}
		cpu.Flags.CF = false
	case 0x58: // get/set allocation strategy
		cpu.Regs.AX = 0
		cpu.Flags.CF = false
	case 0x59: // extended error
		cpu.Regs.AX = uint16(mc.lastError)
		cpu.Regs.SetBH(0)
		cpu.Regs.SetBL(1)
		cpu.Regs.SetCH(0)
	case 0x68: // commit file
		cpu.Flags.CF = false

	default:
		mc.Logger.Warn("unhandled int21h function", "ah", ah)
		dosFail(cpu, 1)
	}
}

func dosFail(cpu *CPU, code uint16) {
	cpu.Flags.CF = true
	cpu.Regs.AX = code
}

func blockingReadChar(mc *Machine, cpu *CPU) byte {
	if _, ascii, ok := mc.Keyboard.Pop(); ok {
		return ascii
	}
	mc.requestYieldAndRetry(cpu)
	return 0
}

func printDollarString(mc *Machine, cpu *CPU) {
	seg, off := cpu.Regs.DS, cpu.Regs.DX
	for i := uint16(0); i < 0xFFFF; i++ {
		ch := mc.Memory.Read8(seg, off+i)
		if ch == '$' {
			break
		}
		mc.Video.Teletype(ch, 0x07, false)
	}
}

func bufferedLineInput(mc *Machine, cpu *CPU) {
	seg, off := cpu.Regs.DS, cpu.Regs.DX
	maxLen := mc.Memory.Read8(seg, off)
	var n byte
	for n < maxLen {
		ch := blockingReadChar(mc, cpu)
		if mc.needsYield {
			return
		}
		if ch == 0x0D {
			break
		}
		if ch == 0x08 {
			if n > 0 {
				n--
				mc.Video.Teletype(0x08, 0x07, false)
				mc.Video.Teletype(' ', 0x07, false)
				mc.Video.Teletype(0x08, 0x07, false)
			}
			continue
		}
		mc.Memory.Write8(seg, off+2+uint16(n), ch)
		mc.Video.Teletype(ch, 0x07, false)
		n++
	}
	mc.Memory.Write8(seg, off+1, n)
}

func dosCreate(mc *Machine, cpu *CPU) {
	path := mc.Paths.ToHost(readASCIZ(mc, cpu.Regs.DS, cpu.Regs.DX))
	h, err := mc.Files.Create(path, mc.ActivePSP)
	if err != nil {
		dosFail(cpu, hostErrToDOS(err))
		return
	}
	cpu.Regs.AX = uint16(h)
	cpu.Flags.CF = false
}

func dosOpen(mc *Machine, cpu *CPU) {
	path := mc.Paths.ToHost(readASCIZ(mc, cpu.Regs.DS, cpu.Regs.DX))
	writable := cpu.Regs.AL()&0x03 != 0
	h, err := mc.Files.Open(path, writable, mc.ActivePSP)
	if err != nil {
		dosFail(cpu, hostErrToDOS(err))
		return
	}
	cpu.Regs.AX = uint16(h)
	cpu.Flags.CF = false
}

func dosRead(mc *Machine, cpu *CPU) {
	handle := int(cpu.Regs.BX)
	n := cpu.Regs.CX
	buf := make([]byte, n)
	if handle == handleStdin {
		var i uint16
		for ; i < n; i++ {
			buf[i] = blockingReadChar(mc, cpu)
			if mc.needsYield {
				return
			}
			if buf[i] == 0x0D {
				i++
				break
			}
		}
		writeBuf(mc, cpu.Regs.DS, cpu.Regs.DX, buf[:i])
		cpu.Regs.AX = i
		cpu.Flags.CF = false
		return
	}
	got, err := mc.Files.Read(handle, buf)
	if err != nil {
		dosFail(cpu, hostErrToDOS(err))
		return
	}
	writeBuf(mc, cpu.Regs.DS, cpu.Regs.DX, buf[:got])
	cpu.Regs.AX = uint16(got)
	cpu.Flags.CF = false
}

func dosWrite(mc *Machine, cpu *CPU) {
	handle := int(cpu.Regs.BX)
	n := cpu.Regs.CX
	buf := readBuf(mc, cpu.Regs.DS, cpu.Regs.DX, n)
	if handle == handleStdout || handle == handleStderr {
		for _, b := range buf {
			mc.Video.Teletype(b, 0x07, false)
		}
		cpu.Regs.AX = n
		cpu.Flags.CF = false
		return
	}
	written, err := mc.Files.Write(handle, buf)
	if err != nil {
		dosFail(cpu, hostErrToDOS(err))
		return
	}
	cpu.Regs.AX = uint16(written)
	cpu.Flags.CF = false
}

func dosDelete(mc *Machine, cpu *CPU) {
	path := mc.Paths.ToHost(readASCIZ(mc, cpu.Regs.DS, cpu.Regs.DX))
	if err := os.Remove(path); err != nil {
		dosFail(cpu, hostErrToDOS(err))
		return
	}
	cpu.Flags.CF = false
}

func dosRename(mc *Machine, cpu *CPU) {
	oldPath := mc.Paths.ToHost(readASCIZ(mc, cpu.Regs.DS, cpu.Regs.DX))
	newPath := mc.Paths.ToHost(readASCIZ(mc, cpu.Regs.ES, cpu.Regs.DI))
	if err := os.Rename(oldPath, newPath); err != nil {
		dosFail(cpu, hostErrToDOS(err))
		return
	}
	cpu.Flags.CF = false
}

func dosSeek(mc *Machine, cpu *CPU) {
	handle := int(cpu.Regs.BX)
	offset := int64(int32(uint32(cpu.Regs.CX)<<16 | uint32(cpu.Regs.DX)))
	whence := map[byte]int{0: io.SeekStart, 1: io.SeekCurrent, 2: io.SeekEnd}[cpu.Regs.AL()]
	pos, err := mc.Files.Seek(handle, offset, whence)
	if err != nil {
		dosFail(cpu, hostErrToDOS(err))
		return
	}
	cpu.Regs.DX = uint16(pos >> 16)
	cpu.Regs.AX = uint16(pos)
	cpu.Flags.CF = false
}

func dosIOCTL(mc *Machine, cpu *CPU) {
	switch cpu.Regs.AL() {
	case 0x00: // get device info
		handle := int(cpu.Regs.BX)
		if handle < firstUserHdl {
			cpu.Regs.DX = 0x80D3 // char device, supports output until busy
		} else {
			cpu.Regs.DX = 0x0000
		}
		cpu.Flags.CF = false
	case 0x06: // get input status
		cpu.Regs.SetAL(0xFF)
		cpu.Flags.CF = false
	default:
		dosFail(cpu, 1)
	}
}

func dosMkdir(mc *Machine, cpu *CPU) {
	path := mc.Paths.ToHost(readASCIZ(mc, cpu.Regs.DS, cpu.Regs.DX))
	if err := os.Mkdir(path, 0755); err != nil {
		dosFail(cpu, hostErrToDOS(err))
		return
	}
	cpu.Flags.CF = false
}

func dosRmdir(mc *Machine, cpu *CPU) {
	path := mc.Paths.ToHost(readASCIZ(mc, cpu.Regs.DS, cpu.Regs.DX))
	if err := os.Remove(path); err != nil {
		dosFail(cpu, hostErrToDOS(err))
		return
	}
	cpu.Flags.CF = false
}

func dosChdir(mc *Machine, cpu *CPU) {
	cpu.Flags.CF = false
}

func dosGetCwd(mc *Machine, cpu *CPU) {
	writeBuf(mc, cpu.Regs.DS, cpu.Regs.SI, []byte("\x00"))
	cpu.Flags.CF = false
}

func dosExec(mc *Machine, cpu *CPU) {
	path := mc.Paths.ToHost(readASCIZ(mc, cpu.Regs.DS, cpu.Regs.DX))
	pb := &ExecParamBlock{
		EnvSegment: mc.Memory.Read16(cpu.Regs.ES, cpu.Regs.BX),
		CmdTailSeg: mc.Memory.Read16(cpu.Regs.ES, cpu.Regs.BX+2),
		CmdTailOff: mc.Memory.Read16(cpu.Regs.ES, cpu.Regs.BX+4),
		FCB1Seg:    mc.Memory.Read16(cpu.Regs.ES, cpu.Regs.BX+6),
		FCB1Off:    mc.Memory.Read16(cpu.Regs.ES, cpu.Regs.BX+8),
		FCB2Seg:    mc.Memory.Read16(cpu.Regs.ES, cpu.Regs.BX+10),
		FCB2Off:    mc.Memory.Read16(cpu.Regs.ES, cpu.Regs.BX+12),
	}
	code := mc.ExecChild(cpu.Regs.AL(), path, pb)
	if code != 0 {
		dosFail(cpu, uint16(code))
		return
	}
	if cpu.Regs.AL() == 1 {
		mc.Memory.Write16(cpu.Regs.ES, cpu.Regs.BX, pb.ChildCSOut)
		mc.Memory.Write16(cpu.Regs.ES, cpu.Regs.BX+2, pb.ChildIPOut)
		mc.Memory.Write16(cpu.Regs.ES, cpu.Regs.BX+4, pb.ChildSSOut)
		mc.Memory.Write16(cpu.Regs.ES, cpu.Regs.BX+6, pb.ChildSPOut)
	}
	cpu.Flags.CF = false
}

func fcbDispatch(mc *Machine, cpu *CPU, ah byte) {
	fcb := mc.LoadFCB(cpu.Regs.DS, cpu.Regs.DX)
	switch ah {
	case 0x0F:
		cpu.Regs.SetAL(boolToFF(fcb.Open(mc.Paths, mc.ActivePSP)))
	case 0x10:
		fcb.Close()
		cpu.Regs.SetAL(0)
	case 0x14:
		cpu.Regs.SetAL(byte(fcb.SequentialRead(mc.dtaSeg, mc.dtaOff)))
	case 0x15:
		cpu.Regs.SetAL(byte(fcb.SequentialWrite(mc.dtaSeg, mc.dtaOff)))
	case 0x16:
		cpu.Regs.SetAL(boolToFF(fcb.Create(mc.Paths, mc.ActivePSP)))
	case 0x17:
		cpu.Regs.SetAL(0xFF) // rename via FCB - unsupported pattern form
	case 0x21:
		cpu.Regs.SetAL(byte(fcb.RandomRead(mc.dtaSeg, mc.dtaOff)))
	case 0x22:
		cpu.Regs.SetAL(byte(fcb.RandomWrite(mc.dtaSeg, mc.dtaOff)))
	case 0x23:
		cpu.Regs.SetAL(0) // get file size - recorded at Open time
	case 0x24:
		// set relative record field from curBlock/curRecord - handled by seqOffset itself
	case 0x27:
		done, _ := fcb.RandomBlockIO(mc.dtaSeg, mc.dtaOff, cpu.Regs.CX, false)
		cpu.Regs.CX = done
		cpu.Regs.SetAL(0)
	case 0x28:
		done, _ := fcb.RandomBlockIO(mc.dtaSeg, mc.dtaOff, cpu.Regs.CX, true)
		cpu.Regs.CX = done
		cpu.Regs.SetAL(0)
	case 0x29:
		fcb.ParseFrom(readASCIZ(mc, cpu.Regs.DS, cpu.Regs.SI))
	default:
		cpu.Regs.SetAL(0xFF)
	}
}

func boolToFF(ok bool) byte {
	if ok {
		return 0x00
	}
	return 0xFF
}

func dosFindFirst(mc *Machine, cpu *CPU) {
	pattern := readASCIZ(mc, cpu.Regs.DS, cpu.Regs.DX)
	mc.findState = newFindState(mc.Paths, pattern)
	dosFindNext(mc, cpu)
}

func dosFindNext(mc *Machine, cpu *CPU) {
	if mc.findState == nil {
		dosFail(cpu, 18)
		return
	}
	rec, ok := mc.findState.Next()
	if !ok {
		dosFail(cpu, 18)
		return
	}
	writeFindRecord(mc, rec)
	cpu.Flags.CF = false
}

func readASCIZ(mc *Machine, seg, off uint16) string {
	return mc.Memory.ReadString(seg, off, 260)
}

func writeBuf(mc *Machine, seg, off uint16, buf []byte) {
	for i, b := range buf {
		mc.Memory.Write8(seg, off+uint16(i), b)
	}
}

func readBuf(mc *Machine, seg, off, n uint16) []byte {
	buf := make([]byte, n)
	for i := uint16(0); i < n; i++ {
		buf[i] = mc.Memory.Read8(seg, off+i)
	}
	return buf
}

func hostErrToDOS(err error) uint16 {
	if os.IsNotExist(err) {
		return 2
	}
	if os.IsPermission(err) {
		return 5
	}
	return 2
}
