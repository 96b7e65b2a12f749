// Package ui is the windowed viewer: it steps a Machine from the ebiten game
// loop and shows the background tile map.
package ui

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/screen"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	paused bool
	err    error // last emulation error; stepping stops until reset

	showRegs   bool
	toastMsg   string
	toastUntil time.Time
	curW, curH int

	// overlay/menu
	showMenu    bool
	menuMode    string // "main", "slot", "rom"
	menuIdx     int
	currentSlot int
	romList     []string
	romSel      int
	romOff      int
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(windowTitle(cfg.Title, m))
	ebiten.SetWindowSize(screen.Width*cfg.Scale, screen.Height*cfg.Scale)
	return &App{cfg: cfg, m: m, showRegs: cfg.ShowRegisters, menuMode: "main"}
}

func windowTitle(base string, m *emu.Machine) string {
	if h := m.Header(); h != nil && h.Title != "" {
		return base + " - [" + h.Title + "]"
	}
	return base
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	// Toggle menu (Escape)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && (!a.showMenu || a.menuMode == "main") {
		a.showMenu = !a.showMenu
		a.menuMode, a.menuIdx = "main", 0
		return nil
	}
	if a.showMenu {
		switch a.menuMode {
		case "slot":
			a.updateSlotMenu()
		case "rom":
			a.updateRomMenu()
		default:
			a.updateMainMenu()
		}
		return nil
	}

	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	// Register overlay (Tab)
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		a.showRegs = !a.showRegs
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.saveSlotToast()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		a.loadSlotToast()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if name, err := a.saveScreenshot(); err != nil {
			a.toast("Screenshot failed: " + err.Error())
		} else {
			a.toast("Saved " + name)
		}
	}

	if a.err != nil {
		return nil
	}
	// Single step when paused (N)
	if a.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			if err := a.m.Step(); err != nil {
				a.stop(err)
			}
		}
		return nil
	}
	if _, err := a.m.Run(a.cfg.StepsPerFrame); err != nil {
		a.stop(err)
	}
	return nil
}

func (a *App) stop(err error) {
	a.err = err
	log.Printf("emulation stopped: %v", err)
}

func (a *App) reset() {
	a.m.ResetPostBoot()
	a.err = nil
	a.toast("Reset")
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

var (
	overlayBG   = color.RGBA{0, 0, 0, 160}
	overlayText = color.RGBA{230, 230, 230, 255}
	errorText   = color.RGBA{255, 90, 90, 255}
)

func (a *App) Draw(dst *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(screen.Width, screen.Height)
	}
	if s, err := a.m.Screen(); err == nil {
		a.tex.WritePixels(s.RGBA())
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(a.cfg.Scale), float64(a.cfg.Scale))
	dst.DrawImage(a.tex, op)

	if a.showMenu {
		a.drawMenu(dst)
		return
	}
	face := basicfont.Face7x13
	if a.showRegs {
		lines := a.registerLines()
		a.drawPanel(dst, 0, 0, len(lines))
		for i, l := range lines {
			text.Draw(dst, l, face, 6, 16+i*14, overlayText)
		}
	}
	if a.err != nil {
		y := a.curH - 10
		for _, l := range a.wrapText(a.err.Error(), a.maxCharsForText(6)) {
			text.Draw(dst, l, face, 6, y, errorText)
			y -= 14
		}
	} else if a.paused {
		text.Draw(dst, "PAUSED  N: step  P: resume", face, 6, a.curH-10, overlayText)
	}
	if time.Now().Before(a.toastUntil) {
		text.Draw(dst, a.toastMsg, face, 6, a.curH-26, overlayText)
	}
}

func (a *App) drawPanel(dst *ebiten.Image, x, y, rows int) {
	w := a.curW
	h := rows*14 + 8
	if w <= 0 || h <= 0 {
		return
	}
	panel := ebiten.NewImage(w, h)
	panel.Fill(overlayBG)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	dst.DrawImage(panel, op)
}

// registerLines formats the CPU state for the overlay.
func (a *App) registerLines() []string {
	c := a.m.CPU()
	lines := []string{
		fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X", c.AF(), c.BC(), c.DE(), c.HL()),
		fmt.Sprintf("SP=%04X PC=%04X F=%s IME=%v", c.SP, c.PC, c.F, c.IME),
		fmt.Sprintf("steps=%d cycles=%d halt=%v", a.m.Steps(), a.m.Cycles(), c.Halted),
	}
	for _, l := range a.m.Listing(c.PC, 3) {
		lines = append(lines, l.String())
	}
	return lines
}

func (a *App) Layout(outW, outH int) (int, int) {
	a.curW, a.curH = screen.Width*a.cfg.Scale, screen.Height*a.cfg.Scale
	return a.curW, a.curH
}

// maxCharsForText is how many 7px glyphs fit after a left margin.
func (a *App) maxCharsForText(margin int) int {
	n := (a.curW - 2*margin) / 7
	if n < 1 {
		return 1
	}
	return n
}

func (a *App) truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func (a *App) wrapText(s string, max int) []string {
	var out []string
	for len(s) > max {
		cut := strings.LastIndex(s[:max], " ")
		if cut <= 0 {
			cut = max
		}
		out = append(out, s[:cut])
		s = strings.TrimLeft(s[cut:], " ")
	}
	return append(out, s)
}

func (a *App) statePath(slot int) string {
	base := "noname"
	if p := a.m.ROMPath(); p != "" {
		base = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	}
	return filepath.Join(a.cfg.StateDir, fmt.Sprintf("%s.slot%d.state", base, slot+1))
}

func (a *App) saveSlotToast() {
	if err := a.m.SaveStateToFile(a.statePath(a.currentSlot)); err != nil {
		a.toast("Save failed: " + err.Error())
		return
	}
	a.toast(fmt.Sprintf("Saved slot %d", a.currentSlot+1))
}

func (a *App) loadSlotToast() {
	path := a.statePath(a.currentSlot)
	if _, err := os.Stat(path); err != nil {
		a.toast("Slot is empty")
		return
	}
	if err := a.m.LoadStateFromFile(path); err != nil {
		a.toast("Load failed: " + err.Error())
		return
	}
	a.err = nil
	a.toast(fmt.Sprintf("Loaded slot %d", a.currentSlot+1))
}

func (a *App) saveScreenshot() (string, error) {
	s, err := a.m.Screen()
	if err != nil {
		return "", err
	}
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("screenshot_%s.png", ts)
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return name, s.WritePNG(f, a.cfg.Scale)
}
