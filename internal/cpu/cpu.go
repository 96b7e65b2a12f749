// Package cpu interprets decoded LR35902 instructions against a register file
// and a memory bus.
package cpu

import (
	"errors"
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/instr"
)

// Bus is the memory capability the CPU executes against.
type Bus interface {
	Read(addr uint16) (byte, error)
	Write(addr uint16, v byte) error
}

// Checker is implemented by buses that can tell, without side effects,
// whether an access would fail. The CPU uses it to make two-byte writes
// all-or-nothing.
type Checker interface {
	Check(addr uint16, write bool) error
}

var (
	// ErrBoundary is matched by every program counter / stack pointer range error.
	ErrBoundary       = errors.New("address arithmetic out of range")
	ErrPCOverflow     = fmt.Errorf("%w: program counter would pass FFFF", ErrBoundary)
	ErrStackUnderflow = fmt.Errorf("%w: push with stack pointer below 0002", ErrBoundary)
	ErrStackOverflow  = fmt.Errorf("%w: pop with stack pointer above FFFD", ErrBoundary)

	ErrUnsupported = errors.New("unsupported instruction")
)

// StepError wraps the failure of a single Step with the address it started at.
type StepError struct {
	PC      uint16
	Decoded bool // Instr is valid
	Instr   instr.Instruction
	Err     error
}

func (e *StepError) Error() string {
	if e.Decoded {
		return fmt.Sprintf("at %04X %s: %v", e.PC, e.Instr, e.Err)
	}
	return fmt.Sprintf("at %04X: %v", e.PC, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// CPU is the LR35902 core: registers plus the minimal control state.
type CPU struct {
	Registers

	IME     bool // interrupt master enable, tracked but never serviced
	Halted  bool
	Stopped bool

	// Cycles accumulates the tick cost of every executed instruction.
	Cycles uint64

	bus Bus
}

// New creates a CPU in the power-on state (SP=FFFE, PC=0100, registers zero).
func New(b Bus) *CPU {
	c := &CPU{bus: b}
	c.Reset()
	return c
}

// Reset restores the power-on state. Memory is not touched.
func (c *CPU) Reset() {
	c.Registers = Registers{SP: 0xFFFE, PC: 0x0100}
	c.IME = false
	c.Halted = false
	c.Stopped = false
	c.Cycles = 0
}

// ResetPostBoot loads the register values the DMG boot ROM leaves behind.
func (c *CPU) ResetPostBoot() {
	c.Reset()
	c.A, c.F = 0x01, FlagsFromByte(0xB0)
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
}

// Bus exposes the underlying bus for tests/tools.
func (c *CPU) Bus() Bus { return c.bus }

// pcSource feeds the decoder from memory at PC, advancing PC per byte.
type pcSource struct{ c *CPU }

func (s pcSource) Next() (byte, error) { return s.c.fetch8() }

func (c *CPU) fetch8() (byte, error) {
	if c.PC == 0xFFFF {
		return 0, ErrPCOverflow
	}
	b, err := c.bus.Read(c.PC)
	if err != nil {
		return 0, err
	}
	c.PC++
	return b, nil
}

// Fetch decodes the instruction at PC and leaves PC past it.
func (c *CPU) Fetch() (instr.Instruction, error) {
	return instr.Decode(pcSource{c})
}

// Step decodes and executes one instruction and returns its tick cost.
// Effects applied before a failure are not rolled back, but no single
// memory write of a two-byte store is ever left half done.
func (c *CPU) Step() (int, error) {
	pc := c.PC
	in, err := c.Fetch()
	if err != nil {
		return 0, &StepError{PC: pc, Err: err}
	}
	ticks, err := c.Execute(in)
	if err != nil {
		return 0, &StepError{PC: pc, Decoded: true, Instr: in, Err: err}
	}
	return ticks, nil
}

func (c *CPU) read8(addr uint16) (byte, error)  { return c.bus.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) error { return c.bus.Write(addr, v) }

func (c *CPU) read16(addr uint16) (uint16, error) {
	lo, err := c.read8(addr)
	if err != nil {
		return 0, err
	}
	hi, err := c.read8(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// check probes both cells of a two-byte write.
func (c *CPU) check(a1, a2 uint16) error {
	chk, ok := c.bus.(Checker)
	if !ok {
		return nil
	}
	if err := chk.Check(a1, true); err != nil {
		return err
	}
	return chk.Check(a2, true)
}

// write16 stores v little-endian at addr, or nothing at all.
func (c *CPU) write16(addr uint16, v uint16) error {
	if err := c.check(addr, addr+1); err != nil {
		return err
	}
	if err := c.write8(addr, byte(v)); err != nil {
		return err
	}
	return c.write8(addr+1, byte(v>>8))
}

// push16 writes the high byte at SP-1 then the low byte at SP-2.
func (c *CPU) push16(v uint16) error {
	if c.SP < 2 {
		return ErrStackUnderflow
	}
	hiAddr, loAddr := c.SP-1, c.SP-2
	if err := c.check(hiAddr, loAddr); err != nil {
		return err
	}
	if err := c.write8(hiAddr, byte(v>>8)); err != nil {
		return err
	}
	if err := c.write8(loAddr, byte(v)); err != nil {
		return err
	}
	c.SP -= 2
	return nil
}

func (c *CPU) pop16() (uint16, error) {
	if c.SP > 0xFFFD {
		return 0, ErrStackOverflow
	}
	v, err := c.read16(c.SP)
	if err != nil {
		return 0, err
	}
	c.SP += 2
	return v, nil
}
