// Package screen reads the background tile map out of video RAM into a
// 160x144 grid of shades. There is no LCD timing, scrolling or sprite layer:
// a Render is a snapshot of the first 20x18 map entries.
package screen

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

const (
	Width  = 160
	Height = 144

	BGMap    = 0x9800 // first map row
	TileData = 0x8000 // tile 0

	mapStride = 32 // entries per map row, only the first 20 are visible
)

// VRAM is the read access Render needs. *bus.Bus satisfies it.
type VRAM interface {
	Read(addr uint16) (byte, error)
}

// Shade is a 2-bit grey level, 0 lightest and 3 darkest.
type Shade uint8

// Palette maps shades to output colours.
type Palette [4]color.RGBA

// DMGGray is the four-level grey ramp used for every output.
var DMGGray = Palette{
	{255, 255, 255, 255},
	{150, 150, 150, 255},
	{70, 70, 70, 255},
	{0, 0, 0, 255},
}

type Screen struct {
	Pix [Height][Width]Shade
}

// At returns the shade of pixel (x, y).
func (s *Screen) At(x, y int) Shade { return s.Pix[y][x] }

// Render reads the visible background into a new Screen.
func Render(src VRAM) (*Screen, error) {
	s := &Screen{}
	var q fifo
	f := &tileFetcher{mem: src, fifo: &q}
	for y := 0; y < Height; y++ {
		mapRow := uint16(y>>3) * mapStride
		for tx := 0; tx < Width/8; tx++ {
			q.Clear()
			if err := f.Fetch(BGMap+mapRow+uint16(tx), byte(y&7)); err != nil {
				return nil, fmt.Errorf("render row %d tile %d: %w", y, tx, err)
			}
			for px := 0; px < 8; px++ {
				ci, _ := q.Pop()
				s.Pix[y][tx*8+px] = Shade(ci)
			}
		}
	}
	return s, nil
}

// Image converts the screen to RGBA using p.
func (s *Screen) Image(p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			img.SetRGBA(x, y, p[s.Pix[y][x]&3])
		}
	}
	return img
}

// RGBA returns the framebuffer as 4 bytes per pixel, rows top to bottom.
func (s *Screen) RGBA() []byte { return s.Image(DMGGray).Pix }

// WritePNG encodes the screen, scaled by an integer factor with nearest
// neighbour sampling.
func (s *Screen) WritePNG(w io.Writer, scale int) error {
	if scale < 1 {
		scale = 1
	}
	src := s.Image(DMGGray)
	var out image.Image = src
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, Width*scale, Height*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		out = dst
	}
	return png.Encode(w, out)
}
