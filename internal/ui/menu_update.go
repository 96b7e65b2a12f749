package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var mainMenuItems = []string{"save", "load", "slot", "rom", "reset", "close"}

func (a *App) updateMainMenu() {
	max := len(mainMenuItems) - 1
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < max {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch mainMenuItems[a.menuIdx] {
		case "save":
			a.saveSlotToast()
		case "load":
			a.loadSlotToast()
		case "slot":
			a.menuMode = "slot"
			a.menuIdx = a.currentSlot
		case "rom":
			a.romList = a.findROMs()
			a.romSel = 0
			a.romOff = 0
			a.menuMode = "rom"
		case "reset":
			a.reset()
			a.showMenu = false
		case "close":
			a.showMenu = false
		}
	}
	// Back with Backspace
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) updateSlotMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < 3 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.currentSlot = a.menuIdx
		a.toast(fmt.Sprintf("Slot set to %d", a.currentSlot+1))
		a.menuMode = "main"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}

func (a *App) updateRomMenu() {
	n := len(a.romList)
	if n == 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
			a.menuMode = "main"
		}
		return
	}
	// compute window to maintain selection visibility
	maxRows := a.romRows()
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
		a.romSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
		a.romSel++
	}
	if a.romSel < a.romOff {
		a.romOff = a.romSel
	}
	if a.romSel >= a.romOff+maxRows {
		a.romOff = a.romSel - maxRows + 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		path := a.romList[a.romSel]
		if err := a.m.LoadROMFromFile(path); err == nil {
			a.err = nil
			a.toast("Loaded ROM: " + filepath.Base(path))
			ebiten.SetWindowTitle(windowTitle(a.cfg.Title, a.m))
			a.showMenu = false
		} else {
			a.toast("ROM load failed: " + err.Error())
		}
		a.menuMode = "main"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}

const romListY = 40

func (a *App) romRows() int {
	rows := (a.curH - romListY) / 14
	if rows < 1 {
		return 1
	}
	return rows
}

// findROMs lists .gb files directly under the configured directory.
func (a *App) findROMs() []string {
	entries, err := os.ReadDir(a.cfg.ROMsDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".gb") {
			out = append(out, filepath.Join(a.cfg.ROMsDir, e.Name()))
		}
	}
	sort.Strings(out)
	return out
}
