// Package debugger is a terminal step debugger over an emu.Machine, laid out
// with gocui: registers, a disassembly window around PC, a memory dump and a
// status log.
package debugger

import (
	"errors"
	"fmt"
	"io"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/jroimartin/gocui"
)

const (
	continueSteps = 1000
	memRows       = 8
	memCols       = 16
	statusLines   = 200
)

type Debugger struct {
	m *emu.Machine

	// RunLimit bounds the r command.
	RunLimit int
	// MemAddr is the first address of the memory view.
	MemAddr uint16

	status []string
	err    error
}

func New(m *emu.Machine) *Debugger {
	return &Debugger{m: m, RunLimit: 5_000_000, MemAddr: 0xC000}
}

// Run opens the terminal UI and blocks until the user quits.
func (d *Debugger) Run() error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("debugger: %w", err)
	}
	defer g.Close()

	g.SetManagerFunc(d.layout)
	if err := d.bindKeys(g); err != nil {
		return err
	}
	d.logf("loaded %s, PC=%04X", d.m.ROMPath(), d.m.CPU().PC)

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (d *Debugger) bindKeys(g *gocui.Gui) error {
	bind := func(key interface{}, fn func()) error {
		return g.SetKeybinding("", key, gocui.ModNone, func(*gocui.Gui, *gocui.View) error {
			fn()
			return nil
		})
	}
	quit := func(*gocui.Gui, *gocui.View) error { return gocui.ErrQuit }
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return err
	}
	if err := g.SetKeybinding("", 'q', gocui.ModNone, quit); err != nil {
		return err
	}
	for key, fn := range map[rune]func(){
		's': func() { d.Step(1) },
		'c': func() { d.Step(continueSteps) },
		'r': d.RunToHalt,
		'm': func() { d.MemAddr += memRows * memCols },
		'M': func() { d.MemAddr -= memRows * memCols },
		'p': func() { d.MemAddr = d.m.CPU().PC &^ 0x0F },
		'h': func() { d.MemAddr = d.m.CPU().HL() &^ 0x0F },
		'k': func() { d.MemAddr = d.m.CPU().SP &^ 0x0F },
	} {
		if err := bind(key, fn); err != nil {
			return err
		}
	}
	return nil
}

// layout (re)creates the four views and redraws their contents.
func (d *Debugger) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	split := maxX / 2
	views := []struct {
		name, title    string
		x0, y0, x1, y1 int
		draw           func(io.Writer)
	}{
		{"registers", "Registers", 0, 0, split - 1, 5, d.DrawRegisters},
		{"disasm", "Code", 0, 6, split - 1, maxY - 1, func(w io.Writer) { d.DrawListing(w, maxY-8) }},
		{"memory", "Memory", split, 0, maxX - 1, memRows + 1, d.DrawMemory},
		{"status", "Status  s:step c:+1000 r:run m/M:page p/h/k:PC/HL/SP q:quit", split, memRows + 2, maxX - 1, maxY - 1, d.DrawStatus},
	}
	for _, vw := range views {
		v, err := g.SetView(vw.name, vw.x0, vw.y0, vw.x1, vw.y1)
		if err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
			v.Title = vw.title
			v.Autoscroll = vw.name == "status"
		}
		v.Clear()
		vw.draw(v)
	}
	return nil
}

func (d *Debugger) logf(format string, args ...interface{}) {
	d.status = append(d.status, fmt.Sprintf(format, args...))
	if len(d.status) > statusLines {
		d.status = d.status[len(d.status)-statusLines:]
	}
}

// Step executes up to n instructions, stopping at the first error.
func (d *Debugger) Step(n int) {
	if d.err != nil {
		d.logf("stopped: %v", d.err)
		return
	}
	done, err := d.m.Run(n)
	if err != nil {
		d.err = err
		d.logf("%v", err)
		return
	}
	if n > 1 {
		d.logf("ran %d steps, PC=%04X", done, d.m.CPU().PC)
	}
}

// RunToHalt steps until HALT, an error, or RunLimit steps.
func (d *Debugger) RunToHalt() {
	if d.err != nil {
		d.logf("stopped: %v", d.err)
		return
	}
	for i := 0; i < d.RunLimit; i++ {
		if err := d.m.Step(); err != nil {
			d.err = &emu.RunError{Step: i, Err: err}
			d.logf("%v", d.err)
			return
		}
		if d.m.Halted() {
			d.logf("halted after %d steps at PC=%04X", i+1, d.m.CPU().PC)
			return
		}
	}
	d.logf("no HALT within %d steps, PC=%04X", d.RunLimit, d.m.CPU().PC)
}

// Err returns the error that stopped execution, if any.
func (d *Debugger) Err() error { return d.err }

func (d *Debugger) DrawRegisters(w io.Writer) {
	c := d.m.CPU()
	fmt.Fprintf(w, " A=%02X  F=%s  BC=%04X  DE=%04X  HL=%04X\n", c.A, c.F, c.BC(), c.DE(), c.HL())
	fmt.Fprintf(w, " SP=%04X  PC=%04X  IME=%v  HALT=%v  STOP=%v\n", c.SP, c.PC, c.IME, c.Halted, c.Stopped)
	fmt.Fprintf(w, " steps=%d  cycles=%d\n", d.m.Steps(), d.m.Cycles())
	if d.err != nil {
		var re *emu.RunError
		if errors.As(d.err, &re) {
			fmt.Fprintf(w, " error at step %d", re.Step)
		} else {
			fmt.Fprint(w, " error")
		}
	}
}

// DrawListing disassembles n lines starting at PC.
func (d *Debugger) DrawListing(w io.Writer, n int) {
	if n < 1 {
		n = 1
	}
	pc := d.m.CPU().PC
	for i, l := range d.m.Listing(pc, n) {
		marker := "  "
		if i == 0 {
			marker = "> "
		}
		fmt.Fprintf(w, "%s%s\n", marker, l)
	}
}

func (d *Debugger) DrawMemory(w io.Writer) {
	mem := d.m.Memory()
	for row := 0; row < memRows; row++ {
		base := d.MemAddr + uint16(row*memCols)
		fmt.Fprintf(w, "%04X ", base)
		for col := 0; col < memCols; col++ {
			if v, err := mem.Read(base + uint16(col)); err != nil {
				fmt.Fprint(w, " --")
			} else {
				fmt.Fprintf(w, " %02X", v)
			}
		}
		fmt.Fprintln(w)
	}
}

func (d *Debugger) DrawStatus(w io.Writer) {
	for _, l := range d.status {
		fmt.Fprintln(w, l)
	}
}
