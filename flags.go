// flags.go - independent boolean flag storage and FLAGS (un)packing.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later
//
// Per design note: flags are stored as separate booleans and synthesized
// into the packed 16-bit FLAGS word only at PUSHF/POPF/interrupt
// entry/IRET. This avoids bit-masking on every arithmetic instruction,
// which otherwise dominates runtime.

package main

// Packed FLAGS bit positions.
const (
	flagCF = 1 << 0
	flagPF = 1 << 2
	flagAF = 1 << 4
	flagZF = 1 << 6
	flagSF = 1 << 7
	flagTF = 1 << 8
	flagIF = 1 << 9
	flagDF = 1 << 10
	flagOF = 1 << 11
	// Bit 1 reads as 1 on real 8086 hardware; programs that PUSHF/POP
	// and compare the raw word observe it, so Pack sets it explicitly.
	// The high reserved bits (12-15) are left 0.
	flagsReservedOnes = 1 << 1
)

// Flags is the 8086 flag register, stored unpacked.
type Flags struct {
	CF bool // carry
	PF bool // parity (even)
	AF bool // auxiliary carry
	ZF bool // zero
	SF bool // sign
	TF bool // trap
	IF bool // interrupt enable
	DF bool // direction
	OF bool // overflow
}

// Pack materializes the independent booleans into a 16-bit FLAGS value.
func (f *Flags) Pack() uint16 {
	var v uint16 = flagsReservedOnes
	if f.CF {
		v |= flagCF
	}
	if f.PF {
		v |= flagPF
	}
	if f.AF {
		v |= flagAF
	}
	if f.ZF {
		v |= flagZF
	}
	if f.SF {
		v |= flagSF
	}
	if f.TF {
		v |= flagTF
	}
	if f.IF {
		v |= flagIF
	}
	if f.DF {
		v |= flagDF
	}
	if f.OF {
		v |= flagOF
	}
	return v
}

// Unpack splits a 16-bit FLAGS value back into the independent booleans.
func (f *Flags) Unpack(v uint16) {
	f.CF = v&flagCF != 0
	f.PF = v&flagPF != 0
	f.AF = v&flagAF != 0
	f.ZF = v&flagZF != 0
	f.SF = v&flagSF != 0
	f.TF = v&flagTF != 0
	f.IF = v&flagIF != 0
	f.DF = v&flagDF != 0
	f.OF = v&flagOF != 0
}

func parity(v byte) bool {
	p := true
	for v != 0 {
		p = !p
		v &= v - 1
	}
	return p
}
