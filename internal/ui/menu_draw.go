package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

func (a *App) drawMenu(screen *ebiten.Image) {
	a.drawPanel(screen, 0, 0, a.curH/14)
	switch a.menuMode {
	case "slot":
		a.drawSlotMenu(screen)
	case "rom":
		a.drawRomMenu(screen)
	default:
		a.drawMainMenu(screen)
	}
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	lines := []string{
		"Menu:",
		fmt.Sprintf("  Save state (slot %d)", a.currentSlot+1),
		fmt.Sprintf("  Load state (slot %d)", a.currentSlot+1),
		"  Select Slot",
		"  Switch ROM",
		"  Reset",
		"  Close",
	}
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+i*14)
	}
	// quick hints, keep on-screen
	hint := "F5: Save  F9: Load  P: Pause  N: Step  Tab: Registers  F12: Screenshot"
	ebitenutil.DebugPrintAt(screen, a.truncateText(hint, a.maxCharsForText(10)), 10, 10+len(lines)*14)
}

func (a *App) drawSlotMenu(screen *ebiten.Image) {
	// Show 4 slots, mark empty ones
	lines := []string{"Select Slot:"}
	for i := 0; i < 4; i++ {
		state := "[empty]"
		if _, err := os.Stat(a.statePath(i)); err == nil {
			state = ""
		}
		lines = append(lines, fmt.Sprintf("  %d %s", i+1, state))
	}
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+i*14)
	}
}

func (a *App) drawRomMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Select ROM (Enter to load, Backspace/Esc to return)", 10, 10)
	// show configured ROMs directory
	d := a.truncateText("Dir: "+a.cfg.ROMsDir, a.maxCharsForText(10))
	ebitenutil.DebugPrintAt(screen, d, 10, 24)
	if len(a.romList) == 0 {
		ebitenutil.DebugPrintAt(screen, "No ROMs found", 10, romListY)
		return
	}
	maxRows := a.romRows()
	end := a.romOff + maxRows
	if end > len(a.romList) {
		end = len(a.romList)
	}
	maxChars := a.maxCharsForText(10) - 2 // account for "> " prefix
	for i, p := range a.romList[a.romOff:end] {
		prefix := "  "
		if a.romOff+i == a.romSel {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+a.truncateText(filepath.Base(p), maxChars), 10, romListY+i*14)
	}
	// scroll indicators
	if a.romOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, romListY)
	}
	if end < len(a.romList) {
		ebitenutil.DebugPrintAt(screen, "v", 2, romListY+(maxRows-1)*14)
	}
}
