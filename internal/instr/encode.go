package instr

import (
	"errors"
	"fmt"
)

// ErrUnencodable is returned by Encode for operand combinations no opcode expresses.
var ErrUnencodable = errors.New("instruction has no encoding")

func regCode(r Reg) (byte, bool) {
	switch r {
	case B:
		return 0, true
	case C:
		return 1, true
	case D:
		return 2, true
	case E:
		return 3, true
	case H:
		return 4, true
	case L:
		return 5, true
	case A:
		return 7, true
	}
	return 0, false
}

func pairCode(p Pair, stack bool) (byte, bool) {
	switch p {
	case BC:
		return 0, true
	case DE:
		return 1, true
	case HL:
		return 2, true
	case SP:
		return 3, !stack
	case AF:
		return 3, stack
	}
	return 0, false
}

func aluCode(op Op) (y byte, form int, ok bool) {
	for i, f := range aluCodes {
		switch op {
		case f.r:
			return byte(i), 0, true
		case f.n:
			return byte(i), 1, true
		case f.mem:
			return byte(i), 2, true
		}
	}
	return 0, 0, false
}

func cbCode(op Op) (x, y byte, mem, ok bool) {
	for i, f := range rotCodes {
		if op == f.r || op == f.mem {
			return 0, byte(i), op == f.mem, true
		}
	}
	for i, f := range bitCodes[1:] {
		if op == f.r || op == f.mem {
			return byte(i + 1), 0, op == f.mem, true
		}
	}
	return 0, 0, false, false
}

func indexOf(ops []Op, op Op) int {
	for i, o := range ops {
		if o == op {
			return i
		}
	}
	return -1
}

// Encode returns the byte encoding of in. It is the inverse of Decode.
func Encode(in Instruction) ([]byte, error) {
	bad := func() ([]byte, error) { return nil, fmt.Errorf("%w: %s", ErrUnencodable, in) }
	lo, hi := byte(in.NN), byte(in.NN>>8)

	switch in.Op {
	case Nop:
		return []byte{0x00}, nil
	case Halt:
		return []byte{0x76}, nil
	case Stop:
		return []byte{0x10, 0x00}, nil
	case Di:
		return []byte{0xF3}, nil
	case Ei:
		return []byte{0xFB}, nil

	case LdRR:
		d, ok1 := regCode(in.R)
		s, ok2 := regCode(in.R2)
		if !ok1 || !ok2 {
			return bad()
		}
		return []byte{0x40 | d<<3 | s}, nil
	case LdRN:
		d, ok := regCode(in.R)
		if !ok {
			return bad()
		}
		return []byte{0x06 | d<<3, in.N}, nil
	case LdRMem:
		d, ok := regCode(in.R)
		if !ok {
			return bad()
		}
		return []byte{0x46 | d<<3}, nil
	case LdMemR:
		s, ok := regCode(in.R)
		if !ok {
			return bad()
		}
		return []byte{0x70 | s}, nil
	case LdMemN:
		return []byte{0x36, in.N}, nil
	case LdAIndC:
		return []byte{0xF2}, nil
	case LdAIndBC:
		return []byte{0x0A}, nil
	case LdAIndDE:
		return []byte{0x1A}, nil
	case LdAIndNN:
		return []byte{0xFA, lo, hi}, nil
	case LdIndCA:
		return []byte{0xE2}, nil
	case LdIndBCA:
		return []byte{0x02}, nil
	case LdIndDEA:
		return []byte{0x12}, nil
	case LdIndNNA:
		return []byte{0xEA, lo, hi}, nil
	case LddAMem:
		return []byte{0x3A}, nil
	case LddMemA:
		return []byte{0x32}, nil
	case LdiAMem:
		return []byte{0x2A}, nil
	case LdiMemA:
		return []byte{0x22}, nil
	case LdhAN:
		return []byte{0xF0, in.N}, nil
	case LdhNA:
		return []byte{0xE0, in.N}, nil

	case LdPairNN, AddHLPair, IncPair, DecPair:
		p, ok := pairCode(in.Pair, false)
		if !ok {
			return bad()
		}
		switch in.Op {
		case LdPairNN:
			return []byte{0x01 | p<<4, lo, hi}, nil
		case AddHLPair:
			return []byte{0x09 | p<<4}, nil
		case IncPair:
			return []byte{0x03 | p<<4}, nil
		}
		return []byte{0x0B | p<<4}, nil
	case LdSPHL:
		return []byte{0xF9}, nil
	case LdHLSPD:
		return []byte{0xF8, byte(in.D)}, nil
	case LdNNSP:
		return []byte{0x08, lo, hi}, nil
	case Push, Pop:
		p, ok := pairCode(in.Pair, true)
		if !ok {
			return bad()
		}
		if in.Op == Push {
			return []byte{0xC5 | p<<4}, nil
		}
		return []byte{0xC1 | p<<4}, nil

	case IncR, DecR:
		r, ok := regCode(in.R)
		if !ok {
			return bad()
		}
		if in.Op == IncR {
			return []byte{0x04 | r<<3}, nil
		}
		return []byte{0x05 | r<<3}, nil
	case IncMem:
		return []byte{0x34}, nil
	case DecMem:
		return []byte{0x35}, nil
	case AddSPD:
		return []byte{0xE8, byte(in.D)}, nil

	case Rlca, Rrca, Rla, Rra, Daa, Cpl, Scf, Ccf:
		y := indexOf([]Op{Rlca, Rrca, Rla, Rra, Daa, Cpl, Scf, Ccf}, in.Op)
		return []byte{0x07 | byte(y)<<3}, nil

	case JpNN:
		return []byte{0xC3, lo, hi}, nil
	case JpCondNN:
		if in.Cond > CY {
			return bad()
		}
		return []byte{0xC2 | byte(in.Cond)<<3, lo, hi}, nil
	case JpHL:
		return []byte{0xE9}, nil
	case JrD:
		return []byte{0x18, byte(in.D)}, nil
	case JrCondD:
		if in.Cond > CY {
			return bad()
		}
		return []byte{0x20 | byte(in.Cond)<<3, byte(in.D)}, nil
	case CallNN:
		return []byte{0xCD, lo, hi}, nil
	case CallCondNN:
		if in.Cond > CY {
			return bad()
		}
		return []byte{0xC4 | byte(in.Cond)<<3, lo, hi}, nil
	case Rst:
		if !in.Vec.Valid() {
			return bad()
		}
		return []byte{0xC7 | byte(in.Vec)}, nil
	case Ret:
		return []byte{0xC9}, nil
	case RetCond:
		if in.Cond > CY {
			return bad()
		}
		return []byte{0xC0 | byte(in.Cond)<<3}, nil
	case Reti:
		return []byte{0xD9}, nil
	}

	if y, form, ok := aluCode(in.Op); ok {
		switch form {
		case 0:
			r, ok := regCode(in.R)
			if !ok {
				return bad()
			}
			return []byte{0x80 | y<<3 | r}, nil
		case 1:
			return []byte{0xC6 | y<<3, in.N}, nil
		}
		return []byte{0x86 | y<<3}, nil
	}

	if x, y, mem, ok := cbCode(in.Op); ok {
		if x != 0 {
			if in.Bit > 7 {
				return bad()
			}
			y = in.Bit
		}
		z := byte(memCode)
		if !mem {
			r, ok := regCode(in.R)
			if !ok {
				return bad()
			}
			z = r
		}
		return []byte{0xCB, x<<6 | y<<3 | z}, nil
	}
	return bad()
}
