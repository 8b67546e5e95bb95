package heatmap

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const titleGap = 8

// DrawTitle writes text below the grid area, left aligned with the first
// column. It reports false when the canvas has no room for a line of text.
func DrawTitle(img *image.NRGBA, grid *Grid, text string, theme Theme) bool {
	face := basicfont.Face7x13
	baseline := grid.Bounds().Max.Y + titleGap + face.Ascent
	if text == "" || baseline+face.Descent > img.Bounds().Max.Y {
		return false
	}

	ink := color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
	if theme == Dark {
		ink = color.NRGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(img.Bounds().Min.X, baseline),
	}
	d.DrawString(text)
	return true
}
