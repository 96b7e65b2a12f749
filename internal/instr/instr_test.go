package instr

import (
	"bytes"
	"errors"
	"testing"
)

var unusedOpcodes = map[byte]bool{
	0xD3: true, 0xDB: true, 0xDD: true, 0xE3: true, 0xE4: true, 0xEB: true,
	0xEC: true, 0xED: true, 0xF4: true, 0xFC: true, 0xFD: true,
}

// streamFor returns a plausible byte sequence starting with op: operand
// bytes are filled with a fixed pattern, STOP gets its 0x00.
func streamFor(op byte) []byte {
	if op == 0x10 {
		return []byte{0x10, 0x00}
	}
	return []byte{op, 0x34, 0x12}
}

func TestDecodeEncodeRoundTripPrimary(t *testing.T) {
	seen := map[Op]bool{}
	for i := 0; i < 256; i++ {
		op := byte(i)
		if op == 0xCB || unusedOpcodes[op] {
			continue
		}
		src := NewSliceSource(streamFor(op))
		in, err := Decode(src)
		if err != nil {
			t.Fatalf("decode %02X: %v", op, err)
		}
		if src.Pos() != in.Len() {
			t.Fatalf("%02X (%s) consumed %d bytes, Len()=%d", op, in, src.Pos(), in.Len())
		}
		enc, err := Encode(in)
		if err != nil {
			t.Fatalf("encode %s: %v", in, err)
		}
		if !bytes.Equal(enc, streamFor(op)[:len(enc)]) {
			t.Fatalf("%02X round trip got % X (%s)", op, enc, in)
		}
		back, err := Decode(NewSliceSource(enc))
		if err != nil || back != in {
			t.Fatalf("%02X re-decode got %+v err=%v want %+v", op, back, err, in)
		}
		seen[in.Op] = true
	}
	for i := 0; i < 256; i++ {
		in, err := Decode(NewSliceSource([]byte{0xCB, byte(i)}))
		if err != nil {
			t.Fatalf("decode CB %02X: %v", i, err)
		}
		if in.Len() != 2 {
			t.Fatalf("CB %02X Len()=%d want 2", i, in.Len())
		}
		enc, err := Encode(in)
		if err != nil {
			t.Fatalf("encode %s: %v", in, err)
		}
		if !bytes.Equal(enc, []byte{0xCB, byte(i)}) {
			t.Fatalf("CB %02X round trip got % X (%s)", i, enc, in)
		}
		seen[in.Op] = true
	}
	for _, op := range Ops() {
		if !seen[op] {
			t.Fatalf("no encoding decodes to %v", op)
		}
	}
}

func TestDecodeUnusedOpcodes(t *testing.T) {
	for op := range unusedOpcodes {
		_, err := Decode(NewSliceSource([]byte{op, 0, 0}))
		if !errors.Is(err, ErrUnknownOpcode) {
			t.Fatalf("opcode %02X got err=%v want ErrUnknownOpcode", op, err)
		}
		var de *DecodeError
		if !errors.As(err, &de) || len(de.Bytes) != 1 || de.Bytes[0] != op {
			t.Fatalf("opcode %02X DecodeError bytes %v", op, de)
		}
	}
}

func TestDecodeStopContinuation(t *testing.T) {
	if _, err := Decode(NewSliceSource([]byte{0x10, 0x01})); !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("STOP with 01 got %v want ErrUnknownOpcode", err)
	}
	if _, err := Decode(NewSliceSource([]byte{0x10})); !errors.Is(err, ErrTruncated) {
		t.Fatalf("lone STOP got %v want ErrTruncated", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	cases := [][]byte{
		{},
		{0x3E},       // LD A,n
		{0x01, 0x00}, // LD BC,nn
		{0xCD},       // CALL nn
		{0xCB},       // prefix only
		{0x18},       // JR
		{0xFA, 0x00}, // LD A,(nn)
	}
	for _, c := range cases {
		_, err := Decode(NewSliceSource(c))
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("% X got err=%v want ErrTruncated", c, err)
		}
	}
}

type failingSource struct{ err error }

func (f failingSource) Next() (byte, error) { return 0, f.err }

func TestDecodeWrapsSourceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Decode(failingSource{boom})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v want wrapped boom", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got %T want *DecodeError", err)
	}
}

func TestDecodeOperands(t *testing.T) {
	cases := []struct {
		in   []byte
		want Instruction
	}{
		{[]byte{0x3E, 0x05}, Instruction{Op: LdRN, R: A, N: 0x05}},
		{[]byte{0x78}, Instruction{Op: LdRR, R: A, R2: B}},
		{[]byte{0x7E}, Instruction{Op: LdRMem, R: A}},
		{[]byte{0x70}, Instruction{Op: LdMemR, R: B}},
		{[]byte{0x21, 0x34, 0x12}, Instruction{Op: LdPairNN, Pair: HL, NN: 0x1234}},
		{[]byte{0x18, 0xFE}, Instruction{Op: JrD, D: -2}},
		{[]byte{0x38, 0x05}, Instruction{Op: JrCondD, Cond: CY, D: 5}},
		{[]byte{0xF8, 0x80}, Instruction{Op: LdHLSPD, D: -128}},
		{[]byte{0xE8, 0x7F}, Instruction{Op: AddSPD, D: 127}},
		{[]byte{0xF5}, Instruction{Op: Push, Pair: AF}},
		{[]byte{0xC1}, Instruction{Op: Pop, Pair: BC}},
		{[]byte{0xFF}, Instruction{Op: Rst, Vec: 0x38}},
		{[]byte{0xCB, 0x7E}, Instruction{Op: BitMem, Bit: 7}},
		{[]byte{0xCB, 0x37}, Instruction{Op: SwapR, R: A}},
		{[]byte{0xCB, 0xC0}, Instruction{Op: SetR, Bit: 0, R: B}},
		{[]byte{0xCB, 0x86}, Instruction{Op: ResMem, Bit: 0}},
		{[]byte{0xD9}, Instruction{Op: Reti}},
		{[]byte{0xC4, 0x00, 0x80}, Instruction{Op: CallCondNN, Cond: NZ, NN: 0x8000}},
	}
	for _, tc := range cases {
		got, err := Decode(NewSliceSource(tc.in))
		if err != nil {
			t.Fatalf("% X: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("% X got %+v want %+v", tc.in, got, tc.want)
		}
	}
}

func TestEncodeRejectsBadOperands(t *testing.T) {
	cases := []Instruction{
		{Op: Push, Pair: SP},
		{Op: LdPairNN, Pair: AF},
		{Op: Rst, Vec: 0x09},
		{Op: BitR, Bit: 8, R: A},
		{Op: LdRR, R: Reg(9), R2: A},
		{Op: JrCondD, Cond: Cond(4)},
		{Op: Invalid},
	}
	for _, in := range cases {
		if _, err := Encode(in); !errors.Is(err, ErrUnencodable) {
			t.Fatalf("Encode(%+v) err=%v want ErrUnencodable", in, err)
		}
	}
}

func TestString(t *testing.T) {
	cases := map[string]Instruction{
		"LD A,B":       {Op: LdRR, R: A, R2: B},
		"LD A,$05":     {Op: LdRN, R: A, N: 5},
		"LD A,(HL+)":   {Op: LdiAMem},
		"JR NZ,-2":     {Op: JrCondD, Cond: NZ, D: -2},
		"BIT 7,(HL)":   {Op: BitMem, Bit: 7},
		"PUSH BC":      {Op: Push, Pair: BC},
		"RST $38":      {Op: Rst, Vec: 0x38},
		"LD HL,SP+4":   {Op: LdHLSPD, D: 4},
		"ADD HL,DE":    {Op: AddHLPair, Pair: DE},
		"CP (HL)":      {Op: CpMem},
		"SBC A,C":      {Op: SbcR, R: C},
		"CALL C,$1234": {Op: CallCondNN, Cond: CY, NN: 0x1234},
		"NOP":          {Op: Nop},
	}
	for want, in := range cases {
		if got := in.String(); got != want {
			t.Fatalf("String() got %q want %q", got, want)
		}
	}
}

func TestTicks(t *testing.T) {
	cases := []struct {
		op    Op
		ticks int
	}{
		{Nop, 4}, {LdRN, 8}, {Push, 16}, {Pop, 12}, {Rst, 32},
		{JpCondNN, 12}, {JrCondD, 8}, {CallNN, 12}, {BitMem, 16}, {LdNNSP, 20},
	}
	for _, tc := range cases {
		if got := tc.op.Ticks(); got != tc.ticks {
			t.Fatalf("%v ticks got %d want %d", tc.op, got, tc.ticks)
		}
	}
	for _, op := range Ops() {
		if tk := op.Ticks(); tk < 4 || tk > 32 {
			t.Fatalf("%v ticks %d outside 4..32", op, tk)
		}
	}
}
