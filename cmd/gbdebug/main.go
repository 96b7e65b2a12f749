package main

import (
	"flag"
	"log"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/debugger"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	postBoot := flag.Bool("postboot", true, "start from the boot ROM's exit register values")
	limit := flag.Int("limit", 5_000_000, "max steps for the run-to-HALT command")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	m := emu.New(emu.Config{PostBoot: *postBoot})
	if err := m.LoadROMFromFile(*romPath); err != nil {
		log.Fatalf("load rom: %v", err)
	}
	d := debugger.New(m)
	d.RunLimit = *limit
	if err := d.Run(); err != nil {
		log.Fatal(err)
	}
}
