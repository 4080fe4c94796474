//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"ringlife/internal/core"
)

// GridPainter keeps one N×N image and refreshes it from cell data.
type GridPainter struct {
	n       int
	img     *ebiten.Image
	buf     []byte
	palette []color.RGBA
}

// NewGridPainter allocates a painter for an n×n grid.
func NewGridPainter(n int, palette []color.RGBA) *GridPainter {
	if palette == nil {
		palette = DefaultPalette
	}
	return &GridPainter{n: n, img: ebiten.NewImage(n, n), buf: make([]byte, 4*n*n), palette: palette}
}

// Blit uploads g into the painter image and draws it scaled onto dst.
func (gp *GridPainter) Blit(dst *ebiten.Image, g *core.Grid, scale int) {
	if g == nil || g.Size() != gp.n {
		return
	}
	fillPaletteRGBA(gp.buf, g.Cells(), gp.palette)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the side of the underlying image.
func (gp *GridPainter) Size() int { return gp.n }
