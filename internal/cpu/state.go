package cpu

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

type cpuState struct {
	Regs    Registers
	IME     bool
	Halted  bool
	Stopped bool
	Cycles  uint64
}

// SaveState serializes registers and control flags.
func (c *CPU) SaveState() []byte {
	var buf bytes.Buffer
	s := cpuState{Regs: c.Registers, IME: c.IME, Halted: c.Halted, Stopped: c.Stopped, Cycles: c.Cycles}
	_ = gob.NewEncoder(&buf).Encode(s)
	return buf.Bytes()
}

// LoadState restores a snapshot produced by SaveState. The bus is kept.
func (c *CPU) LoadState(data []byte) error {
	var s cpuState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("cpu state: %w", err)
	}
	c.Registers = s.Regs
	c.IME, c.Halted, c.Stopped = s.IME, s.Halted, s.Stopped
	c.Cycles = s.Cycles
	return nil
}
