// cpu_decode.go - assembles the 256-entry opcode dispatch table from the
// handler families defined across cpu_ops_*.go.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Grounded on the teacher's cpu_x86.go baseOps[256] table (an init()-
// populated array of opcode->handler closures); this keeps that exact
// shape. §4.2 lays the opcode map out by bit pattern rather than by
// opcode value, so this file builds the regular families (ALU group,
// register-parameterized MOV/PUSH/POP/XCHG/INC/DEC, Jcc) with loops over
// execALU/jccFactory/incDecReg16/pushReg/popReg/etc., and fills the
// remaining single-opcode slots (Grp1-5, string ops, control transfer,
// the sentinel) directly.

package main

var baseOps [256]func(*CPU)

func init() {
	// ALU family: ADD/OR/ADC/SBB/AND/SUB/XOR/CMP, each occupying 8
	// opcodes (6 regular addressing modes at +0..+5, PUSH/POP segment or
	// an irregular instruction at +6/+7), per §4.2's top-5-bits grouping.
	aluBases := []byte{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38}
	for i, base := range aluBases {
		group := byte(i)
		for mode := byte(0); mode < 6; mode++ {
			baseOps[base+mode] = execALU(group, mode)
		}
	}

	// The +6/+7 slots: segment PUSH/POP for ADD/ADC/SBB (ES/SS/DS), and
	// the irregular BCD/ASCII-adjust opcodes that share the rest of the
	// 0x00-0x3F range (0x26/0x2E/0x36/0x3E are the override prefixes,
	// intercepted in cpu.go's Step before dispatch ever sees them).
	baseOps[0x06] = pushSeg(segES)
	baseOps[0x07] = popSeg(segES)
	baseOps[0x0E] = pushSeg(segCS)
	baseOps[0x16] = pushSeg(segSS)
	baseOps[0x17] = popSeg(segSS)
	baseOps[0x1E] = pushSeg(segDS)
	baseOps[0x1F] = popSeg(segDS)
	baseOps[0x27] = (*CPU).opDAA
	baseOps[0x2F] = (*CPU).opDAS
	baseOps[0x37] = (*CPU).opAAA
	baseOps[0x3F] = (*CPU).opAAS

	// 0x40-0x4F: INC/DEC reg16, in the fixed AX,CX,DX,BX,SP,BP,SI,DI order.
	for reg := byte(0); reg < 8; reg++ {
		baseOps[0x40+reg] = incDecReg16(reg, true)
		baseOps[0x48+reg] = incDecReg16(reg, false)
	}

	// 0x50-0x5F: PUSH/POP reg16.
	for reg := byte(0); reg < 8; reg++ {
		baseOps[0x50+reg] = pushReg(reg)
		baseOps[0x58+reg] = popReg(reg)
	}

	// 0x70-0x7F: Jcc rel8, the 16 standard condition codes.
	baseOps[0x70] = jccFactory(func(f *Flags) bool { return f.OF })
	baseOps[0x71] = jccFactory(func(f *Flags) bool { return !f.OF })
	baseOps[0x72] = jccFactory(func(f *Flags) bool { return f.CF })
	baseOps[0x73] = jccFactory(func(f *Flags) bool { return !f.CF })
	baseOps[0x74] = jccFactory(func(f *Flags) bool { return f.ZF })
	baseOps[0x75] = jccFactory(func(f *Flags) bool { return !f.ZF })
	baseOps[0x76] = jccFactory(func(f *Flags) bool { return f.CF || f.ZF })
	baseOps[0x77] = jccFactory(func(f *Flags) bool { return !f.CF && !f.ZF })
	baseOps[0x78] = jccFactory(func(f *Flags) bool { return f.SF })
	baseOps[0x79] = jccFactory(func(f *Flags) bool { return !f.SF })
	baseOps[0x7A] = jccFactory(func(f *Flags) bool { return f.PF })
	baseOps[0x7B] = jccFactory(func(f *Flags) bool { return !f.PF })
	baseOps[0x7C] = jccFactory(func(f *Flags) bool { return f.SF != f.OF })
	baseOps[0x7D] = jccFactory(func(f *Flags) bool { return f.SF == f.OF })
	baseOps[0x7E] = jccFactory(func(f *Flags) bool { return f.ZF || f.SF != f.OF })
	baseOps[0x7F] = jccFactory(func(f *Flags) bool { return !f.ZF && f.SF == f.OF })

	// 0x80-0x8F: Grp1 immediate ALU, TEST, XCHG, MOV, LEA, segment MOV,
	// and the Grp1A memory POP.
	baseOps[0x80] = (*CPU).opGrp1_Eb_Ib
	baseOps[0x81] = (*CPU).opGrp1_Ev_Iv
	baseOps[0x82] = (*CPU).opGrp1_Eb_Ib // undocumented alias of 0x80
	baseOps[0x83] = (*CPU).opGrp1_Ev_Ib
	baseOps[0x84] = (*CPU).opTEST_Eb_Gb
	baseOps[0x85] = (*CPU).opTEST_Ev_Gv
	baseOps[0x86] = (*CPU).opXCHG_Eb_Gb
	baseOps[0x87] = (*CPU).opXCHG_Ev_Gv
	baseOps[0x88] = (*CPU).opMOV_Eb_Gb
	baseOps[0x89] = (*CPU).opMOV_Ev_Gv
	baseOps[0x8A] = (*CPU).opMOV_Gb_Eb
	baseOps[0x8B] = (*CPU).opMOV_Gv_Ev
	baseOps[0x8C] = (*CPU).opMOV_Ew_Sw
	baseOps[0x8D] = (*CPU).opLEA_Gv_M
	baseOps[0x8E] = (*CPU).opMOV_Sw_Ew
	baseOps[0x8F] = (*CPU).opPOP_Ev

	// 0x90-0x9F: NOP/XCHG AX,reg, CBW/CWD, far CALL, WAIT, PUSHF/POPF,
	// SAHF/LAHF.
	baseOps[0x90] = (*CPU).opNOP
	for reg := byte(1); reg < 8; reg++ {
		baseOps[0x90+reg] = xchgAXReg(reg)
	}
	baseOps[0x98] = (*CPU).opCBW
	baseOps[0x99] = (*CPU).opCWD
	baseOps[0x9A] = (*CPU).opCALL_far // direct far CALL (Ap operand)
	baseOps[0x9B] = (*CPU).opNOP      // WAIT: no 8087 to wait on
	baseOps[0x9C] = (*CPU).opPUSHF
	baseOps[0x9D] = (*CPU).opPOPF
	baseOps[0x9E] = (*CPU).opSAHF
	baseOps[0x9F] = (*CPU).opLAHF

	// 0xA0-0xAF: direct-offset MOV AL/AX, and the string-op family.
	baseOps[0xA0] = (*CPU).opMOV_AL_Ob
	baseOps[0xA1] = (*CPU).opMOV_AX_Ov
	baseOps[0xA2] = (*CPU).opMOV_Ob_AL
	baseOps[0xA3] = (*CPU).opMOV_Ov_AX
	baseOps[0xA4] = (*CPU).opMOVSB
	baseOps[0xA5] = (*CPU).opMOVSW
	baseOps[0xA6] = (*CPU).opCMPSB
	baseOps[0xA7] = (*CPU).opCMPSW
	baseOps[0xA8] = (*CPU).opTEST_AL_Ib
	baseOps[0xA9] = (*CPU).opTEST_AX_Iv
	baseOps[0xAA] = (*CPU).opSTOSB
	baseOps[0xAB] = (*CPU).opSTOSW
	baseOps[0xAC] = (*CPU).opLODSB
	baseOps[0xAD] = (*CPU).opLODSW
	baseOps[0xAE] = (*CPU).opSCASB
	baseOps[0xAF] = (*CPU).opSCASW

	// 0xB0-0xBF: MOV reg,imm, in the same AL,CL,DL,BL,AH,CH,DH,BH /
	// AX,CX,DX,BX,SP,BP,SI,DI orders as getReg8/getReg16.
	for reg := byte(0); reg < 8; reg++ {
		baseOps[0xB0+reg] = movRegImm8(reg)
		baseOps[0xB8+reg] = movRegImm16(reg)
	}

	// 0xC0-0xCF: immediate-count Grp2 shifts (80186 extension many DOS
	// binaries still use), RET, LES/LDS, Grp11 immediate MOV, far RET,
	// INT3/INT/INTO/IRET.
	baseOps[0xC0] = (*CPU).opGrp2_Eb_Ib
	baseOps[0xC1] = (*CPU).opGrp2_Ev_Ib
	baseOps[0xC2] = (*CPU).opRET_near_Iw
	baseOps[0xC3] = (*CPU).opRET_near
	baseOps[0xC4] = (*CPU).opLES_Gv_Mp
	baseOps[0xC5] = (*CPU).opLDS_Gv_Mp
	baseOps[0xC6] = (*CPU).opMOV_Eb_Ib
	baseOps[0xC7] = (*CPU).opMOV_Ev_Iv
	baseOps[0xCA] = (*CPU).opRET_far_Iw
	baseOps[0xCB] = (*CPU).opRET_far
	baseOps[0xCC] = (*CPU).opINT3
	baseOps[0xCD] = (*CPU).opINT_Ib
	baseOps[0xCE] = (*CPU).opINTO
	baseOps[0xCF] = (*CPU).opIRET

	// 0xD0-0xD7: Grp2 shifts by 1/CL, AAM, AAD, XLAT.
	baseOps[0xD0] = (*CPU).opGrp2_Eb_1
	baseOps[0xD1] = (*CPU).opGrp2_Ev_1
	baseOps[0xD2] = (*CPU).opGrp2_Eb_CL
	baseOps[0xD3] = (*CPU).opGrp2_Ev_CL
	baseOps[0xD4] = (*CPU).opAAM
	baseOps[0xD5] = (*CPU).opAAD
	baseOps[0xD7] = (*CPU).opXLAT

	// 0xD8-0xDF: coprocessor escapes, harmlessly absorbed (no 8087).
	for op := byte(0xD8); op <= 0xDF; op++ {
		baseOps[op] = (*CPU).opESC
	}

	// 0xE0-0xEF: LOOPNE/LOOPE/LOOP/JCXZ, IN/OUT with an immediate port,
	// near CALL/JMP, direct far JMP, short JMP, IN/OUT via DX.
	baseOps[0xE0] = (*CPU).opLOOPNE
	baseOps[0xE1] = (*CPU).opLOOPE
	baseOps[0xE2] = (*CPU).opLOOP
	baseOps[0xE3] = (*CPU).opJCXZ
	baseOps[0xE4] = (*CPU).opIN_AL_Ib
	baseOps[0xE5] = (*CPU).opIN_AX_Ib
	baseOps[0xE6] = (*CPU).opOUT_Ib_AL
	baseOps[0xE7] = (*CPU).opOUT_Ib_AX
	baseOps[0xE8] = (*CPU).opCALL_rel16
	baseOps[0xE9] = (*CPU).opJMP_rel16
	baseOps[0xEA] = (*CPU).opJMP_far // direct far JMP (Ap operand)
	baseOps[0xEB] = (*CPU).opJMP_rel8
	baseOps[0xEC] = (*CPU).opIN_AL_DX
	baseOps[0xED] = (*CPU).opIN_AX_DX
	baseOps[0xEE] = (*CPU).opOUT_DX_AL
	baseOps[0xEF] = (*CPU).opOUT_DX_AX

	// 0xF4-0xFF: HLT, flag-bit instructions, Grp3/4/5, CMC.
	// 0xF0/0xF2/0xF3 (LOCK/REPNZ/REP) are intercepted in cpu.go's Step
	// before a terminal opcode reaches dispatch, so they need no entry.
	baseOps[0xF4] = (*CPU).opHLT
	baseOps[0xF5] = (*CPU).opCMC
	baseOps[0xF6] = (*CPU).opGrp3_Eb
	baseOps[0xF7] = (*CPU).opGrp3_Ev
	baseOps[0xF8] = (*CPU).opCLC
	baseOps[0xF9] = (*CPU).opSTC
	baseOps[0xFA] = (*CPU).opCLI
	baseOps[0xFB] = (*CPU).opSTI
	baseOps[0xFC] = (*CPU).opCLD
	baseOps[0xFD] = (*CPU).opSTD
	baseOps[0xFE] = (*CPU).opGrp4_Eb
	baseOps[0xFF] = (*CPU).opGrp5_Ev

	// The interrupt-service sentinel, unreachable in genuine 8086 object
	// code (§4.2, §9).
	baseOps[interruptSentinel] = (*CPU).opSentinel

	// Deliberately left nil: 0x0F (undocumented POP CS), 0xD6 (undocumented
	// SALC), 0xF1 (reserved/undocumented), 0xC8/0xC9 (ENTER/LEAVE, 80186+),
	// 0x60-0x6F (PUSHA/POPA/BOUND/push-imm/INS/OUTS, all 80186+). None of
	// these exist on a true 8086; hitting one halts via dispatch's
	// unhandled-opcode path.
}
