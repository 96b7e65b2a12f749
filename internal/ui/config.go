package ui

// Config contains window and stepping settings.
type Config struct {
	Title         string // window title
	Scale         int    // integer upscaling factor
	StepsPerFrame int    // instructions executed per ebiten update
	ShowRegisters bool   // start with the register overlay visible
	ROMsDir       string // directory to browse for ROMs
	StateDir      string // where save-state slots are written
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.StepsPerFrame <= 0 {
		c.StepsPerFrame = 17556 // one frame of 4-tick instructions
	}
	if c.ROMsDir == "" {
		c.ROMsDir = "roms"
	}
	if c.StateDir == "" {
		c.StateDir = "."
	}
}
