package debugger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
)

func newMachine(t *testing.T, prog ...byte) *emu.Machine {
	t.Helper()
	rom := make([]byte, 0x8000)
	copy(rom[0x0100:], []byte{0xC3, 0x50, 0x01}) // JP 0150
	copy(rom[0x0150:], prog)
	m := emu.New(emu.Config{})
	if err := m.LoadCartridge(rom); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	return m
}

func TestDebugger_StepAndRegisters(t *testing.T) {
	m := newMachine(t, 0x3E, 0x99, 0x76) // LD A,99; HALT
	d := New(m)
	d.Step(1)
	d.Step(1)
	var buf bytes.Buffer
	d.DrawRegisters(&buf)
	if !strings.Contains(buf.String(), "A=99") || !strings.Contains(buf.String(), "PC=0152") {
		t.Fatalf("registers view got:\n%s", buf.String())
	}
	buf.Reset()
	d.DrawListing(&buf, 2)
	if !strings.HasPrefix(buf.String(), "> 0152  76") || !strings.Contains(buf.String(), "HALT") {
		t.Fatalf("listing got:\n%s", buf.String())
	}
}

func TestDebugger_RunToHalt(t *testing.T) {
	m := newMachine(t, 0x00, 0x00, 0x76)
	d := New(m)
	d.RunToHalt()
	if !m.Halted() || m.Steps() != 4 {
		t.Fatalf("halted=%v steps=%d want true 4", m.Halted(), m.Steps())
	}
	var buf bytes.Buffer
	d.DrawStatus(&buf)
	if !strings.Contains(buf.String(), "halted after 4 steps") {
		t.Fatalf("status got %q", buf.String())
	}
}

func TestDebugger_RunToHaltLimit(t *testing.T) {
	d := New(newMachine(t)) // NOPs forever
	d.RunLimit = 50
	d.RunToHalt()
	var buf bytes.Buffer
	d.DrawStatus(&buf)
	if !strings.Contains(buf.String(), "no HALT within 50 steps") {
		t.Fatalf("status got %q", buf.String())
	}
}

func TestDebugger_ErrorStopsStepping(t *testing.T) {
	m := newMachine(t, 0x77, 0x00) // LD (HL),A into ROM
	d := New(m)
	d.Step(continueSteps)
	if !errors.Is(d.Err(), bus.ErrROMWrite) {
		t.Fatalf("Err got %v", d.Err())
	}
	steps := m.Steps()
	d.Step(1)
	d.RunToHalt()
	if m.Steps() != steps {
		t.Fatalf("stepped after error: %d -> %d", steps, m.Steps())
	}
	var buf bytes.Buffer
	d.DrawRegisters(&buf)
	if !strings.Contains(buf.String(), "error at step 1") {
		t.Fatalf("registers view got:\n%s", buf.String())
	}
}

func TestDebugger_MemoryView(t *testing.T) {
	m := newMachine(t)
	_ = m.Memory().Write(0xC001, 0xAB)
	d := New(m)
	var buf bytes.Buffer
	d.DrawMemory(&buf)
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.HasPrefix(first, "C000  00 AB 00") {
		t.Fatalf("memory row got %q", first)
	}
	buf.Reset()
	d.MemAddr = 0xA000 // cartridge RAM is not mapped
	d.DrawMemory(&buf)
	if !strings.HasPrefix(buf.String(), "A000  -- --") {
		t.Fatalf("unmapped row got %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}
}
