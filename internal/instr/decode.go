package instr

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrTruncated is reported when the byte source ends before an opcode and
	// all of its operands have been read.
	ErrTruncated = errors.New("instruction stream ended early")
	// ErrUnknownOpcode is reported for the unused primary opcodes and for a
	// STOP byte not followed by 0x00.
	ErrUnknownOpcode = errors.New("unknown opcode")
)

// ByteSource produces the instruction stream one byte at a time. Next returns
// io.EOF once the stream is exhausted.
type ByteSource interface {
	Next() (byte, error)
}

// DecodeError describes a failed decode. Bytes holds what was consumed.
type DecodeError struct {
	Bytes []byte
	Err   error
}

func (e *DecodeError) Error() string {
	if len(e.Bytes) == 0 {
		return "decode: " + e.Err.Error()
	}
	hex := make([]string, len(e.Bytes))
	for i, b := range e.Bytes {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("decode [%s]: %v", strings.Join(hex, " "), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SliceSource is a ByteSource over a fixed byte slice.
type SliceSource struct {
	buf []byte
	pos int
}

func NewSliceSource(b []byte) *SliceSource { return &SliceSource{buf: b} }

func (s *SliceSource) Next() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, io.EOF
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

// Pos returns the number of bytes consumed so far.
func (s *SliceSource) Pos() int { return s.pos }

// decoder tracks the bytes consumed so errors can report them.
type decoder struct {
	src  ByteSource
	seen []byte
}

func (d *decoder) next() (byte, error) {
	b, err := d.src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrTruncated
		}
		return 0, &DecodeError{Bytes: d.seen, Err: err}
	}
	d.seen = append(d.seen, b)
	return b, nil
}

func (d *decoder) imm16() (uint16, error) {
	lo, err := d.next()
	if err != nil {
		return 0, err
	}
	hi, err := d.next()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func (d *decoder) unknown() error {
	return &DecodeError{Bytes: d.seen, Err: ErrUnknownOpcode}
}

// register operand encoding: B C D E H L (HL) A
var regCodes = [8]Reg{B, C, D, E, H, L, 0, A}

const memCode = 6

// rp and rp2 pair tables
var (
	pairCodes      = [4]Pair{BC, DE, HL, SP}
	stackPairCodes = [4]Pair{BC, DE, HL, AF}
)

type aluForms struct{ r, n, mem Op }

var aluCodes = [8]aluForms{
	{AddR, AddN, AddMem},
	{AdcR, AdcN, AdcMem},
	{SubR, SubN, SubMem},
	{SbcR, SbcN, SbcMem},
	{AndR, AndN, AndMem},
	{XorR, XorN, XorMem},
	{OrR, OrN, OrMem},
	{CpR, CpN, CpMem},
}

type cbForms struct{ r, mem Op }

var rotCodes = [8]cbForms{
	{RlcR, RlcMem},
	{RrcR, RrcMem},
	{RlR, RlMem},
	{RrR, RrMem},
	{SlaR, SlaMem},
	{SraR, SraMem},
	{SwapR, SwapMem},
	{SrlR, SrlMem},
}

var bitCodes = [4]cbForms{{}, {BitR, BitMem}, {ResR, ResMem}, {SetR, SetMem}}

// Decode reads one instruction from src. Failures are always *DecodeError;
// errors from the source other than io.EOF are wrapped unchanged.
func Decode(src ByteSource) (Instruction, error) {
	d := decoder{src: src, seen: make([]byte, 0, 3)}
	op, err := d.next()
	if err != nil {
		return Instruction{}, err
	}
	x, y, z := op>>6, (op>>3)&7, op&7
	p, q := y>>1, y&1

	switch x {
	case 0:
		return d.block0(y, z, p, q)
	case 1:
		if y == memCode && z == memCode {
			return Instruction{Op: Halt}, nil
		}
		switch {
		case y == memCode:
			return Instruction{Op: LdMemR, R: regCodes[z]}, nil
		case z == memCode:
			return Instruction{Op: LdRMem, R: regCodes[y]}, nil
		}
		return Instruction{Op: LdRR, R: regCodes[y], R2: regCodes[z]}, nil
	case 2:
		if z == memCode {
			return Instruction{Op: aluCodes[y].mem}, nil
		}
		return Instruction{Op: aluCodes[y].r, R: regCodes[z]}, nil
	}
	return d.block3(y, z, p, q)
}

func (d *decoder) block0(y, z, p, q byte) (Instruction, error) {
	switch z {
	case 0:
		switch y {
		case 0:
			return Instruction{Op: Nop}, nil
		case 1:
			nn, err := d.imm16()
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Op: LdNNSP, NN: nn}, nil
		case 2:
			b, err := d.next()
			if err != nil {
				return Instruction{}, err
			}
			if b != 0x00 {
				return Instruction{}, d.unknown()
			}
			return Instruction{Op: Stop}, nil
		case 3:
			n, err := d.next()
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Op: JrD, D: int8(n)}, nil
		default:
			n, err := d.next()
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Op: JrCondD, Cond: Cond(y - 4), D: int8(n)}, nil
		}
	case 1:
		if q == 1 {
			return Instruction{Op: AddHLPair, Pair: pairCodes[p]}, nil
		}
		nn, err := d.imm16()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: LdPairNN, Pair: pairCodes[p], NN: nn}, nil
	case 2:
		stores := [4]Op{LdIndBCA, LdIndDEA, LdiMemA, LddMemA}
		loads := [4]Op{LdAIndBC, LdAIndDE, LdiAMem, LddAMem}
		if q == 0 {
			return Instruction{Op: stores[p]}, nil
		}
		return Instruction{Op: loads[p]}, nil
	case 3:
		if q == 0 {
			return Instruction{Op: IncPair, Pair: pairCodes[p]}, nil
		}
		return Instruction{Op: DecPair, Pair: pairCodes[p]}, nil
	case 4:
		if y == memCode {
			return Instruction{Op: IncMem}, nil
		}
		return Instruction{Op: IncR, R: regCodes[y]}, nil
	case 5:
		if y == memCode {
			return Instruction{Op: DecMem}, nil
		}
		return Instruction{Op: DecR, R: regCodes[y]}, nil
	case 6:
		n, err := d.next()
		if err != nil {
			return Instruction{}, err
		}
		if y == memCode {
			return Instruction{Op: LdMemN, N: n}, nil
		}
		return Instruction{Op: LdRN, R: regCodes[y], N: n}, nil
	}
	misc := [8]Op{Rlca, Rrca, Rla, Rra, Daa, Cpl, Scf, Ccf}
	return Instruction{Op: misc[y]}, nil
}

func (d *decoder) block3(y, z, p, q byte) (Instruction, error) {
	switch z {
	case 0:
		switch y {
		case 0, 1, 2, 3:
			return Instruction{Op: RetCond, Cond: Cond(y)}, nil
		}
		n, err := d.next()
		if err != nil {
			return Instruction{}, err
		}
		switch y {
		case 4:
			return Instruction{Op: LdhNA, N: n}, nil
		case 5:
			return Instruction{Op: AddSPD, D: int8(n)}, nil
		case 6:
			return Instruction{Op: LdhAN, N: n}, nil
		}
		return Instruction{Op: LdHLSPD, D: int8(n)}, nil
	case 1:
		if q == 0 {
			return Instruction{Op: Pop, Pair: stackPairCodes[p]}, nil
		}
		return Instruction{Op: [4]Op{Ret, Reti, JpHL, LdSPHL}[p]}, nil
	case 2:
		switch y {
		case 4:
			return Instruction{Op: LdIndCA}, nil
		case 6:
			return Instruction{Op: LdAIndC}, nil
		}
		nn, err := d.imm16()
		if err != nil {
			return Instruction{}, err
		}
		switch y {
		case 5:
			return Instruction{Op: LdIndNNA, NN: nn}, nil
		case 7:
			return Instruction{Op: LdAIndNN, NN: nn}, nil
		}
		return Instruction{Op: JpCondNN, Cond: Cond(y), NN: nn}, nil
	case 3:
		switch y {
		case 0:
			nn, err := d.imm16()
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Op: JpNN, NN: nn}, nil
		case 1:
			return d.prefixed()
		case 6:
			return Instruction{Op: Di}, nil
		case 7:
			return Instruction{Op: Ei}, nil
		}
		return Instruction{}, d.unknown()
	case 4:
		if y > 3 {
			return Instruction{}, d.unknown()
		}
		nn, err := d.imm16()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: CallCondNN, Cond: Cond(y), NN: nn}, nil
	case 5:
		if q == 0 {
			return Instruction{Op: Push, Pair: stackPairCodes[p]}, nil
		}
		if p != 0 {
			return Instruction{}, d.unknown()
		}
		nn, err := d.imm16()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: CallNN, NN: nn}, nil
	case 6:
		n, err := d.next()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: aluCodes[y].n, N: n}, nil
	}
	return Instruction{Op: Rst, Vec: Vector(y * 8)}, nil
}

// prefixed decodes the byte following 0xCB.
func (d *decoder) prefixed() (Instruction, error) {
	op, err := d.next()
	if err != nil {
		return Instruction{}, err
	}
	x, y, z := op>>6, (op>>3)&7, op&7
	var forms cbForms
	var in Instruction
	if x == 0 {
		forms = rotCodes[y]
	} else {
		forms = bitCodes[x]
		in.Bit = y
	}
	if z == memCode {
		in.Op = forms.mem
		return in, nil
	}
	in.Op = forms.r
	in.R = regCodes[z]
	return in, nil
}
