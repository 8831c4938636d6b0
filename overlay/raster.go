package overlay

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const padding = 6

var (
	Background = color.RGBA{0, 0, 0, 160}
	Foreground = color.RGBA{255, 255, 255, 255}
)

// Rasterize draws lines in the 7x13 bitmap font on a translucent box sized
// to fit them. Row 0 of the result is the top of the panel.
func Rasterize(lines []string) *image.RGBA {
	face := basicfont.Face7x13
	lineH := face.Metrics().Height.Ceil()

	width := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, width+2*padding, len(lines)*lineH+2*padding))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(Foreground),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	for i, l := range lines {
		d.Dot = fixed.P(padding, padding+i*lineH+ascent)
		d.DrawString(l)
	}
	return img
}
