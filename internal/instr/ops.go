package instr

import "fmt"

// Op identifies an instruction variant: one value per opcode, or per opcode
// family sharing an operand class (LD r,r' is one Op with two Reg operands).
type Op uint8

// Mem suffixes mark the (HL)-indirect operand; Ind marks other indirect forms.
const (
	Invalid Op = iota

	Nop
	Halt
	Stop
	Di
	Ei

	// 8-bit loads
	LdRR     // LD r,r'
	LdRN     // LD r,n
	LdRMem   // LD r,(HL)
	LdMemR   // LD (HL),r
	LdMemN   // LD (HL),n
	LdAIndC  // LD A,(C)
	LdAIndBC // LD A,(BC)
	LdAIndDE // LD A,(DE)
	LdAIndNN // LD A,(nn)
	LdIndCA  // LD (C),A
	LdIndBCA // LD (BC),A
	LdIndDEA // LD (DE),A
	LdIndNNA // LD (nn),A
	LddAMem  // LD A,(HL-)
	LddMemA  // LD (HL-),A
	LdiAMem  // LD A,(HL+)
	LdiMemA  // LD (HL+),A
	LdhAN    // LDH A,(n)
	LdhNA    // LDH (n),A

	// 16-bit loads and stack
	LdPairNN // LD rr,nn
	LdSPHL   // LD SP,HL
	LdHLSPD  // LDHL SP,d
	LdNNSP   // LD (nn),SP
	Push
	Pop

	// 8-bit arithmetic and logic
	AddR
	AddN
	AddMem
	AdcR
	AdcN
	AdcMem
	SubR
	SubN
	SubMem
	SbcR
	SbcN
	SbcMem
	AndR
	AndN
	AndMem
	OrR
	OrN
	OrMem
	XorR
	XorN
	XorMem
	CpR
	CpN
	CpMem
	IncR
	IncMem
	DecR
	DecMem

	// 16-bit arithmetic
	AddHLPair
	AddSPD
	IncPair
	DecPair

	// misc
	Daa
	Cpl
	Ccf
	Scf

	// accumulator rotates
	Rlca
	Rla
	Rrca
	Rra

	// CB-prefixed
	RlcR
	RlcMem
	RrcR
	RrcMem
	RlR
	RlMem
	RrR
	RrMem
	SlaR
	SlaMem
	SraR
	SraMem
	SwapR
	SwapMem
	SrlR
	SrlMem
	BitR
	BitMem
	SetR
	SetMem
	ResR
	ResMem

	// control flow
	JpNN
	JpCondNN
	JpHL
	JrD
	JrCondD
	CallNN
	CallCondNN
	Rst
	Ret
	RetCond
	Reti

	numOps
)

// definition is the static metadata of an Op. Tick costs follow the classic
// Game Boy CPU manual: conditional forms are charged the same whether or not
// the branch is taken.
type definition struct {
	mnemonic string
	text     string // full syntax for operand-free forms
	length   int
	ticks    int
}

var definitions = [numOps]definition{
	Invalid: {"???", "", 0, 0},

	Nop:  {"NOP", "NOP", 1, 4},
	Halt: {"HALT", "HALT", 1, 4},
	Stop: {"STOP", "STOP", 2, 4},
	Di:   {"DI", "DI", 1, 4},
	Ei:   {"EI", "EI", 1, 4},

	LdRR:     {"LD", "", 1, 4},
	LdRN:     {"LD", "", 2, 8},
	LdRMem:   {"LD", "", 1, 8},
	LdMemR:   {"LD", "", 1, 8},
	LdMemN:   {"LD", "", 2, 12},
	LdAIndC:  {"LD", "LD A,(C)", 1, 8},
	LdAIndBC: {"LD", "LD A,(BC)", 1, 8},
	LdAIndDE: {"LD", "LD A,(DE)", 1, 8},
	LdAIndNN: {"LD", "", 3, 16},
	LdIndCA:  {"LD", "LD (C),A", 1, 8},
	LdIndBCA: {"LD", "LD (BC),A", 1, 8},
	LdIndDEA: {"LD", "LD (DE),A", 1, 8},
	LdIndNNA: {"LD", "", 3, 16},
	LddAMem:  {"LDD", "LD A,(HL-)", 1, 8},
	LddMemA:  {"LDD", "LD (HL-),A", 1, 8},
	LdiAMem:  {"LDI", "LD A,(HL+)", 1, 8},
	LdiMemA:  {"LDI", "LD (HL+),A", 1, 8},
	LdhAN:    {"LDH", "", 2, 12},
	LdhNA:    {"LDH", "", 2, 12},

	LdPairNN: {"LD", "", 3, 12},
	LdSPHL:   {"LD", "LD SP,HL", 1, 8},
	LdHLSPD:  {"LDHL", "", 2, 12},
	LdNNSP:   {"LD", "", 3, 20},
	Push:     {"PUSH", "", 1, 16},
	Pop:      {"POP", "", 1, 12},

	AddR:   {"ADD", "", 1, 4},
	AddN:   {"ADD", "", 2, 8},
	AddMem: {"ADD", "", 1, 8},
	AdcR:   {"ADC", "", 1, 4},
	AdcN:   {"ADC", "", 2, 8},
	AdcMem: {"ADC", "", 1, 8},
	SubR:   {"SUB", "", 1, 4},
	SubN:   {"SUB", "", 2, 8},
	SubMem: {"SUB", "", 1, 8},
	SbcR:   {"SBC", "", 1, 4},
	SbcN:   {"SBC", "", 2, 8},
	SbcMem: {"SBC", "", 1, 8},
	AndR:   {"AND", "", 1, 4},
	AndN:   {"AND", "", 2, 8},
	AndMem: {"AND", "", 1, 8},
	OrR:    {"OR", "", 1, 4},
	OrN:    {"OR", "", 2, 8},
	OrMem:  {"OR", "", 1, 8},
	XorR:   {"XOR", "", 1, 4},
	XorN:   {"XOR", "", 2, 8},
	XorMem: {"XOR", "", 1, 8},
	CpR:    {"CP", "", 1, 4},
	CpN:    {"CP", "", 2, 8},
	CpMem:  {"CP", "", 1, 8},
	IncR:   {"INC", "", 1, 4},
	IncMem: {"INC", "", 1, 12},
	DecR:   {"DEC", "", 1, 4},
	DecMem: {"DEC", "", 1, 12},

	AddHLPair: {"ADD", "", 1, 8},
	AddSPD:    {"ADD", "", 2, 16},
	IncPair:   {"INC", "", 1, 8},
	DecPair:   {"DEC", "", 1, 8},

	Daa: {"DAA", "DAA", 1, 4},
	Cpl: {"CPL", "CPL", 1, 4},
	Ccf: {"CCF", "CCF", 1, 4},
	Scf: {"SCF", "SCF", 1, 4},

	Rlca: {"RLCA", "RLCA", 1, 4},
	Rla:  {"RLA", "RLA", 1, 4},
	Rrca: {"RRCA", "RRCA", 1, 4},
	Rra:  {"RRA", "RRA", 1, 4},

	RlcR:    {"RLC", "", 2, 8},
	RlcMem:  {"RLC", "", 2, 16},
	RrcR:    {"RRC", "", 2, 8},
	RrcMem:  {"RRC", "", 2, 16},
	RlR:     {"RL", "", 2, 8},
	RlMem:   {"RL", "", 2, 16},
	RrR:     {"RR", "", 2, 8},
	RrMem:   {"RR", "", 2, 16},
	SlaR:    {"SLA", "", 2, 8},
	SlaMem:  {"SLA", "", 2, 16},
	SraR:    {"SRA", "", 2, 8},
	SraMem:  {"SRA", "", 2, 16},
	SwapR:   {"SWAP", "", 2, 8},
	SwapMem: {"SWAP", "", 2, 16},
	SrlR:    {"SRL", "", 2, 8},
	SrlMem:  {"SRL", "", 2, 16},
	BitR:    {"BIT", "", 2, 8},
	BitMem:  {"BIT", "", 2, 16},
	SetR:    {"SET", "", 2, 8},
	SetMem:  {"SET", "", 2, 16},
	ResR:    {"RES", "", 2, 8},
	ResMem:  {"RES", "", 2, 16},

	JpNN:       {"JP", "", 3, 12},
	JpCondNN:   {"JP", "", 3, 12},
	JpHL:       {"JP", "JP (HL)", 1, 4},
	JrD:        {"JR", "", 2, 8},
	JrCondD:    {"JR", "", 2, 8},
	CallNN:     {"CALL", "", 3, 12},
	CallCondNN: {"CALL", "", 3, 12},
	Rst:        {"RST", "", 1, 32},
	Ret:        {"RET", "RET", 1, 8},
	RetCond:    {"RET", "", 1, 8},
	Reti:       {"RETI", "RETI", 1, 8},
}

func (op Op) def() definition {
	if op >= numOps {
		return definitions[Invalid]
	}
	return definitions[op]
}

// Valid reports whether op names a real instruction variant.
func (op Op) Valid() bool { return op > Invalid && op < numOps }

// Mnemonic returns the assembler mnemonic, e.g. "LD" or "SWAP".
func (op Op) Mnemonic() string { return op.def().mnemonic }

// Ticks returns the fixed clock cost charged for op.
func (op Op) Ticks() int { return op.def().ticks }

// Len returns the encoded length of op in bytes, including any 0xCB prefix.
func (op Op) Len() int { return op.def().length }

func (op Op) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
	if t := op.def().text; t != "" {
		return t
	}
	return op.def().mnemonic
}

// Ops returns every valid Op in declaration order.
func Ops() []Op {
	out := make([]Op, 0, numOps-1)
	for op := Invalid + 1; op < numOps; op++ {
		out = append(out, op)
	}
	return out
}
