//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws a status line over the top of the grid, and a key help
// line when toggled with H.
type Overlay struct {
	showHelp bool
	hidden   bool
	pixel    *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay() *Overlay {
	o := &Overlay{}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the help line (H) and the whole overlay (O).
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.showHelp = !o.showHelp
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		o.hidden = !o.hidden
	}
}

// Draw renders status, and help when enabled, onto the screen.
func (o *Overlay) Draw(screen *ebiten.Image, status, help string) {
	if o.hidden {
		return
	}
	lines := []string{status}
	if o.showHelp {
		lines = append(lines, help)
	}
	width := screen.Bounds().Dx()
	o.drawBar(screen, width, len(lines)*lineHeight+4)
	face := basicfont.Face7x13
	for i, line := range lines {
		text.Draw(screen, line, face, 4, headerBaseline+i*lineHeight, valueColor)
	}
}

func (o *Overlay) drawBar(screen *ebiten.Image, w, h int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(h))
	op.ColorScale.Scale(0, 0, 0, 0.6)
	screen.DrawImage(o.pixel, op)
}
