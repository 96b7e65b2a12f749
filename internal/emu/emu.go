// Package emu ties the memory bus, cartridge loader and CPU into a machine
// that frontends can step, inspect and snapshot.
package emu

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/screen"
)

// RunError reports which step of a Run failed.
type RunError struct {
	Step int
	Err  error
}

func (e *RunError) Error() string { return fmt.Sprintf("emulation error at step %d: %v", e.Step, e.Err) }
func (e *RunError) Unwrap() error { return e.Err }

type Machine struct {
	cfg Config

	bus    *bus.Bus
	cpu    *cpu.CPU
	header *cart.Header

	romPath string
	serial  io.Writer
	trace   *log.Logger
	steps   uint64
}

// New creates a machine with an empty (all-NOP) ROM mapped.
func New(cfg Config) *Machine {
	m := &Machine{cfg: cfg}
	if cfg.Trace {
		w := cfg.TraceWriter
		if w == nil {
			w = os.Stderr
		}
		m.trace = log.New(w, "", 0)
	}
	m.reset(bus.New())
	return m
}

func (m *Machine) reset(b *bus.Bus) {
	m.bus = b
	m.bus.SetSerialWriter(m.serial)
	m.cpu = cpu.New(b)
	if m.cfg.PostBoot {
		m.cpu.ResetPostBoot()
	}
	m.steps = 0
}

// LoadCartridge validates rom, maps it into a fresh memory and resets the CPU.
func (m *Machine) LoadCartridge(rom []byte) error {
	img, err := cart.Load(rom)
	if err != nil {
		return err
	}
	b := bus.New()
	b.LoadROM(&img.Bank0, &img.Bank1)
	m.reset(b)
	m.header = img.Header
	m.romPath = ""
	return nil
}

// LoadROMFromFile replaces the current cartridge with a ROM from disk.
func (m *Machine) LoadROMFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := m.LoadCartridge(data); err != nil {
		return err
	}
	m.romPath = path
	return nil
}

// ROMPath returns the currently loaded ROM file path, if any.
func (m *Machine) ROMPath() string { return m.romPath }

// Header returns the parsed header of the loaded cartridge, nil before the first load.
func (m *Machine) Header() *cart.Header { return m.header }

// ResetPostBoot restarts the CPU from the boot ROM's exit state, keeping memory.
func (m *Machine) ResetPostBoot() {
	m.cpu.ResetPostBoot()
	m.steps = 0
}

func (m *Machine) CPU() *cpu.CPU    { return m.cpu }
func (m *Machine) Memory() *bus.Bus { return m.bus }
func (m *Machine) Steps() uint64    { return m.steps }
func (m *Machine) Halted() bool     { return m.cpu.Halted }
func (m *Machine) Cycles() uint64   { return m.cpu.Cycles }
func (m *Machine) Config() Config   { return m.cfg }

// SetSerialWriter connects an io.Writer to receive bytes written to the serial port (FF01/FF02).
// Useful for running test ROMs that report via serial. It survives cartridge reloads.
func (m *Machine) SetSerialWriter(w io.Writer) {
	m.serial = w
	m.bus.SetSerialWriter(w)
}

// Step executes one instruction.
func (m *Machine) Step() error {
	pc := m.cpu.PC
	if m.trace != nil {
		m.traceStep(pc)
	}
	if _, err := m.cpu.Step(); err != nil {
		return err
	}
	m.steps++
	return nil
}

func (m *Machine) traceStep(pc uint16) {
	text := "??"
	if in, err := m.Disassemble(pc); err == nil {
		text = in.String()
	}
	m.trace.Printf("%04X  %-22s %s", pc, text, m.cpu.Registers)
}

// Run executes up to n instructions. It returns the number executed; on
// failure the error is a *RunError naming the zero-based failing step.
func (m *Machine) Run(n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := m.Step(); err != nil {
			return i, &RunError{Step: i, Err: err}
		}
		if m.cfg.StopOnHalt && m.cpu.Halted {
			return i + 1, nil
		}
	}
	return n, nil
}

// Screen renders the background currently in video RAM.
func (m *Machine) Screen() (*screen.Screen, error) { return screen.Render(m.bus) }

// --- Save/Load state ---
type machineState struct {
	Bus   []byte
	CPU   []byte
	Steps uint64
}

func (m *Machine) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(machineState{Bus: m.bus.SaveState(), CPU: m.cpu.SaveState(), Steps: m.steps})
	return buf.Bytes()
}

// LoadState restores a snapshot taken with the same cartridge loaded.
func (m *Machine) LoadState(data []byte) error {
	var s machineState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return fmt.Errorf("machine state: %w", err)
	}
	if err := m.bus.LoadState(s.Bus); err != nil {
		return err
	}
	if err := m.cpu.LoadState(s.CPU); err != nil {
		return err
	}
	m.steps = s.Steps
	return nil
}

func (m *Machine) SaveStateToFile(path string) error {
	return os.WriteFile(path, m.SaveState(), 0644)
}

func (m *Machine) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadState(data)
}
