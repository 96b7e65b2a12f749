// Package instr models the LR35902 instruction set: the closed set of opcode
// variants, their typed operands, and the decoder/encoder between byte streams
// and Instruction values. Interpretation lives in package cpu.
package instr

import "fmt"

// Reg names one of the seven 8-bit registers an opcode can address. The flag
// byte is never addressed directly; it is only reachable through AF.
type Reg uint8

const (
	A Reg = iota
	B
	C
	D
	E
	H
	L
)

var regNames = [...]string{"A", "B", "C", "D", "E", "H", "L"}

func (r Reg) String() string {
	if int(r) < len(regNames) {
		return regNames[r]
	}
	return fmt.Sprintf("Reg(%d)", uint8(r))
}

// Pair names a 16-bit register pair (or SP) used as an operand.
type Pair uint8

const (
	BC Pair = iota
	DE
	HL
	SP
	AF
)

var pairNames = [...]string{"BC", "DE", "HL", "SP", "AF"}

func (p Pair) String() string {
	if int(p) < len(pairNames) {
		return pairNames[p]
	}
	return fmt.Sprintf("Pair(%d)", uint8(p))
}

// Cond is a branch condition. Exactly one flag is tested.
type Cond uint8

const (
	NZ Cond = iota
	Z
	NC
	CY
)

var condNames = [...]string{"NZ", "Z", "NC", "C"}

func (c Cond) String() string {
	if int(c) < len(condNames) {
		return condNames[c]
	}
	return fmt.Sprintf("Cond(%d)", uint8(c))
}

// Vector is an RST target address: one of 0x00, 0x08, ... 0x38.
type Vector uint8

// Valid reports whether v is one of the eight reset addresses.
func (v Vector) Valid() bool { return v&^0x38 == 0 }

func (v Vector) String() string { return fmt.Sprintf("$%02X", uint8(v)) }

// Instruction is one decoded opcode with the operands its encoding supplies.
// Fields the encoding does not supply stay zero, so two decodes of the same
// bytes compare equal with ==.
type Instruction struct {
	Op   Op
	R    Reg    // destination, or the only register operand
	R2   Reg    // source register of LD r,r'
	Pair Pair   // 16-bit operand
	N    uint8  // 8-bit immediate
	NN   uint16 // 16-bit immediate or address
	D    int8   // signed displacement (JR, ADD SP,d, LD HL,SP+d)
	Bit  uint8  // bit index 0-7 for BIT/SET/RES
	Cond Cond
	Vec  Vector
}

// Ticks is the fixed clock cost of the instruction.
func (in Instruction) Ticks() int { return in.Op.Ticks() }

// Len is the encoded length in bytes.
func (in Instruction) Len() int { return in.Op.Len() }

func (in Instruction) String() string {
	m := in.Op.Mnemonic()
	switch in.Op {
	case LdRR:
		return fmt.Sprintf("LD %s,%s", in.R, in.R2)
	case LdRN:
		return fmt.Sprintf("LD %s,$%02X", in.R, in.N)
	case LdRMem:
		return fmt.Sprintf("LD %s,(HL)", in.R)
	case LdMemR:
		return fmt.Sprintf("LD (HL),%s", in.R)
	case LdMemN:
		return fmt.Sprintf("LD (HL),$%02X", in.N)
	case LdAIndNN:
		return fmt.Sprintf("LD A,($%04X)", in.NN)
	case LdIndNNA:
		return fmt.Sprintf("LD ($%04X),A", in.NN)
	case LdhAN:
		return fmt.Sprintf("LDH A,($FF00+$%02X)", in.N)
	case LdhNA:
		return fmt.Sprintf("LDH ($FF00+$%02X),A", in.N)
	case LdPairNN:
		return fmt.Sprintf("LD %s,$%04X", in.Pair, in.NN)
	case LdHLSPD:
		return fmt.Sprintf("LD HL,SP%+d", in.D)
	case LdNNSP:
		return fmt.Sprintf("LD ($%04X),SP", in.NN)
	case Push, Pop, IncPair, DecPair:
		return fmt.Sprintf("%s %s", m, in.Pair)
	case AddHLPair:
		return fmt.Sprintf("ADD HL,%s", in.Pair)
	case AddSPD:
		return fmt.Sprintf("ADD SP,%+d", in.D)
	case AddR, AdcR, SbcR:
		return fmt.Sprintf("%s A,%s", m, in.R)
	case AddN, AdcN, SbcN:
		return fmt.Sprintf("%s A,$%02X", m, in.N)
	case AddMem, AdcMem, SbcMem:
		return m + " A,(HL)"
	case SubR, AndR, OrR, XorR, CpR, IncR, DecR,
		RlcR, RrcR, RlR, RrR, SlaR, SraR, SwapR, SrlR:
		return fmt.Sprintf("%s %s", m, in.R)
	case SubN, AndN, OrN, XorN, CpN:
		return fmt.Sprintf("%s $%02X", m, in.N)
	case SubMem, AndMem, OrMem, XorMem, CpMem, IncMem, DecMem,
		RlcMem, RrcMem, RlMem, RrMem, SlaMem, SraMem, SwapMem, SrlMem:
		return m + " (HL)"
	case BitR, SetR, ResR:
		return fmt.Sprintf("%s %d,%s", m, in.Bit, in.R)
	case BitMem, SetMem, ResMem:
		return fmt.Sprintf("%s %d,(HL)", m, in.Bit)
	case JpNN, CallNN:
		return fmt.Sprintf("%s $%04X", m, in.NN)
	case JpCondNN, CallCondNN:
		return fmt.Sprintf("%s %s,$%04X", m, in.Cond, in.NN)
	case JrD:
		return fmt.Sprintf("JR %+d", in.D)
	case JrCondD:
		return fmt.Sprintf("JR %s,%+d", in.Cond, in.D)
	case RetCond:
		return fmt.Sprintf("RET %s", in.Cond)
	case Rst:
		return fmt.Sprintf("RST %s", in.Vec)
	}
	return in.Op.String()
}
