package cpu

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/instr"
)

// Flag bit positions inside F when viewed through AF.
const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

// Flags are the four condition flags. The low nibble of F does not exist.
type Flags struct {
	Z, N, H, C bool
}

// Byte packs the flags into bits 7..4.
func (f Flags) Byte() byte {
	var b byte
	if f.Z {
		b |= flagZ
	}
	if f.N {
		b |= flagN
	}
	if f.H {
		b |= flagH
	}
	if f.C {
		b |= flagC
	}
	return b
}

// FlagsFromByte unpacks bits 7..4; bits 3..0 are dropped.
func FlagsFromByte(b byte) Flags {
	return Flags{Z: b&flagZ != 0, N: b&flagN != 0, H: b&flagH != 0, C: b&flagC != 0}
}

func (f Flags) String() string {
	s := []byte("----")
	for i, on := range []bool{f.Z, f.N, f.H, f.C} {
		if on {
			s[i] = "ZNHC"[i]
		}
	}
	return string(s)
}

// Registers is the programmer-visible register file. The 16-bit pairs are
// computed from their halves and have no storage of their own.
type Registers struct {
	A, B, C, D, E, H, L byte
	F                   Flags

	SP uint16
	PC uint16
}

func (r *Registers) AF() uint16 { return bits.Word(r.A, r.F.Byte()) }
func (r *Registers) BC() uint16 { return bits.Word(r.B, r.C) }
func (r *Registers) DE() uint16 { return bits.Word(r.D, r.E) }
func (r *Registers) HL() uint16 { return bits.Word(r.H, r.L) }

func (r *Registers) SetAF(v uint16) { r.A, r.F = bits.High(v), FlagsFromByte(bits.Low(v)) }
func (r *Registers) SetBC(v uint16) { r.B, r.C = bits.High(v), bits.Low(v) }
func (r *Registers) SetDE(v uint16) { r.D, r.E = bits.High(v), bits.Low(v) }
func (r *Registers) SetHL(v uint16) { r.H, r.L = bits.High(v), bits.Low(v) }

// Get returns an 8-bit register by name.
func (r *Registers) Get(reg instr.Reg) byte {
	switch reg {
	case instr.A:
		return r.A
	case instr.B:
		return r.B
	case instr.C:
		return r.C
	case instr.D:
		return r.D
	case instr.E:
		return r.E
	case instr.H:
		return r.H
	case instr.L:
		return r.L
	}
	panic(fmt.Sprintf("cpu: no register %v", reg))
}

// Set stores an 8-bit register by name.
func (r *Registers) Set(reg instr.Reg, v byte) {
	switch reg {
	case instr.A:
		r.A = v
	case instr.B:
		r.B = v
	case instr.C:
		r.C = v
	case instr.D:
		r.D = v
	case instr.E:
		r.E = v
	case instr.H:
		r.H = v
	case instr.L:
		r.L = v
	default:
		panic(fmt.Sprintf("cpu: no register %v", reg))
	}
}

// Pair returns a 16-bit register pair (or SP) by name.
func (r *Registers) Pair(p instr.Pair) uint16 {
	switch p {
	case instr.BC:
		return r.BC()
	case instr.DE:
		return r.DE()
	case instr.HL:
		return r.HL()
	case instr.SP:
		return r.SP
	case instr.AF:
		return r.AF()
	}
	panic(fmt.Sprintf("cpu: no register pair %v", p))
}

// SetPair stores a 16-bit register pair (or SP) by name.
func (r *Registers) SetPair(p instr.Pair, v uint16) {
	switch p {
	case instr.BC:
		r.SetBC(v)
	case instr.DE:
		r.SetDE(v)
	case instr.HL:
		r.SetHL(v)
	case instr.SP:
		r.SP = v
	case instr.AF:
		r.SetAF(v)
	default:
		panic(fmt.Sprintf("cpu: no register pair %v", p))
	}
}

func (r Registers) String() string {
	return fmt.Sprintf("A=%02X F=%s B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X PC=%04X",
		r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L, r.SP, r.PC)
}
