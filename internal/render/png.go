package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"ringlife/internal/core"
)

// Image paints g into an RGBA image, each cell scale×scale pixels.
func Image(g *core.Grid, scale int, palette []color.RGBA) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	n := g.Size()
	base := image.NewRGBA(image.Rect(0, 0, n, n))
	fillPaletteRGBA(base.Pix, g.Cells(), palette)
	if scale == 1 {
		return base
	}
	out := image.NewRGBA(image.Rect(0, 0, n*scale, n*scale))
	for y := 0; y < n*scale; y++ {
		for x := 0; x < n*scale; x++ {
			out.SetRGBA(x, y, base.RGBAAt(x/scale, y/scale))
		}
	}
	return out
}

// WritePNG encodes g as a PNG.
func WritePNG(w io.Writer, g *core.Grid, scale int, palette []color.RGBA) error {
	if err := png.Encode(w, Image(g, scale, palette)); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}
