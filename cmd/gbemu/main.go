package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ui"
)

type CLIFlags struct {
	ROMPath       string
	Scale         int
	Title         string
	Trace         bool
	StepsPerFrame int
	ShowRegs      bool
	ROMsDir       string
	StateDir      string

	// headless
	Headless bool
	Steps    int
	PNGOut   string
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb)")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "gbemu", "window title")
	flag.BoolVar(&f.Trace, "trace", false, "CPU trace log to stderr")
	flag.IntVar(&f.StepsPerFrame, "steps-per-frame", 0, "instructions per UI frame (0 = default)")
	flag.BoolVar(&f.ShowRegs, "regs", false, "start with the register overlay visible")
	flag.StringVar(&f.ROMsDir, "romdir", "roms", "directory listed by the ROM menu")
	flag.StringVar(&f.StateDir, "statedir", ".", "directory for save-state slots")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Steps, "steps", 1_000_000, "instructions to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write the background map to PNG at path")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, steps int, pngPath string, scale int) error {
	start := time.Now()
	n, err := m.Run(steps)
	dur := time.Since(start)
	log.Printf("headless: steps=%d cycles=%d elapsed=%s", n, m.Cycles(), dur.Truncate(time.Millisecond))
	if err != nil {
		return err
	}
	if pngPath == "" {
		return nil
	}
	s, err := m.Screen()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	f, err := os.Create(pngPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := s.WritePNG(f, scale); err != nil {
		return fmt.Errorf("write PNG: %w", err)
	}
	log.Printf("wrote %s", pngPath)
	return nil
}

func main() {
	f := parseFlags()

	m := emu.New(emu.Config{Trace: f.Trace, PostBoot: true, StopOnHalt: f.Headless})
	if f.ROMPath != "" {
		path := f.ROMPath
		// prefer absolute path for state placement consistency
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if err := m.LoadROMFromFile(path); err != nil {
			log.Fatalf("load cart: %v", err)
		}
		log.Printf("ROM: %s", m.Header())
	}

	if f.Headless {
		if err := runHeadless(m, f.Steps, f.PNGOut, f.Scale); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg := ui.Config{
		Title:         f.Title,
		Scale:         f.Scale,
		StepsPerFrame: f.StepsPerFrame,
		ShowRegisters: f.ShowRegs,
		ROMsDir:       f.ROMsDir,
		StateDir:      f.StateDir,
	}
	if err := ui.NewApp(cfg, m).Run(); err != nil {
		log.Fatal(err)
	}
}
