package emu

import "io"

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace       bool      // log one line per executed instruction
	TraceWriter io.Writer // trace destination, stderr when nil
	StopOnHalt  bool      // Run returns early once HALT executes
	PostBoot    bool      // start from the DMG boot ROM's register values instead of zeros
}
