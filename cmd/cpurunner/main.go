package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"golang.org/x/term"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	steps := flag.Int("steps", 5_000_000, "max CPU steps to run")
	trace := flag.Bool("trace", false, "print each instruction with the registers before it runs")
	until := flag.String("until", "Passed", "stop when serial output contains this substring (case-insensitive); empty to disable")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	postBoot := flag.Bool("postboot", true, "start from the boot ROM's exit register values")
	halt := flag.Bool("halt", false, "stop at the first HALT")
	outPNG := flag.String("outpng", "", "write the background map to PNG at path when done")
	scale := flag.Int("scale", 2, "PNG scale factor")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}

	m := emu.New(emu.Config{Trace: *trace, TraceWriter: os.Stdout, PostBoot: *postBoot})
	var ser bytes.Buffer
	m.SetSerialWriter(io.MultiWriter(os.Stdout, &ser))
	if err := m.LoadROMFromFile(*romPath); err != nil {
		log.Fatalf("load rom: %v", err)
	}
	if h := m.Header(); h != nil {
		log.Printf("ROM: %s", h)
		if !h.ChecksumOK {
			log.Printf("warning: header checksum mismatch")
		}
	}

	progress := term.IsTerminal(int(os.Stderr.Fd())) && !*trace
	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	needle := strings.ToLower(*until)

	code := 0
	reason := "step limit"
	for i := 0; i < *steps; i++ {
		if err := m.Step(); err != nil {
			fmt.Printf("\n%v\n", &emu.RunError{Step: i, Err: err})
			code, reason = 1, "error"
			break
		}
		if *halt && m.Halted() {
			reason = "HALT"
			break
		}
		if needle != "" && strings.Contains(strings.ToLower(ser.String()), needle) {
			reason = fmt.Sprintf("detected %q in serial output", *until)
			break
		}
		if i&0xFFFF == 0 {
			if progress {
				fmt.Fprintf(os.Stderr, "\rsteps=%d PC=%04X", i, m.CPU().PC)
			}
			if !deadline.IsZero() && time.Now().After(deadline) {
				code, reason = 2, "timeout"
				break
			}
		}
	}
	if progress {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
	fmt.Printf("\nDone (%s): steps=%d cycles=%d elapsed=%s\n", reason, m.Steps(), m.Cycles(), time.Since(start).Truncate(time.Millisecond))

	if *outPNG != "" {
		if err := writePNG(m, *outPNG, *scale); err != nil {
			log.Fatalf("write PNG: %v", err)
		}
		log.Printf("wrote %s", *outPNG)
	}
	os.Exit(code)
}

func writePNG(m *emu.Machine, path string, scale int) error {
	s, err := m.Screen()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.WritePNG(f, scale)
}
