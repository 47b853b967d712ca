// Package export writes meter images to disk the way a host button shows
// them: composited over the button background.
package export

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/olivier-w/levelmeter/internal/meter"
)

// MaxScale bounds the upscaling factor.
const MaxScale = 16

// Image converts an ARGB pixel buffer to a straight-alpha NRGBA image.
func Image(buf *meter.PixelBuffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			c := buf.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}

// Compose draws the meter over a solid background and upscales the result
// by scale with nearest-neighbour sampling, keeping pixel edges crisp.
func Compose(buf *meter.PixelBuffer, bg colorful.Color, scale int) image.Image {
	scale = min(max(scale, 1), MaxScale)

	dc := gg.NewContext(buf.Width, buf.Height)
	r, g, b := bg.Clamped().RGB255()
	dc.SetRGB255(int(r), int(g), int(b))
	dc.Clear()
	dc.DrawImage(Image(buf), 0, 0)

	out := dc.Image()
	if scale == 1 {
		return out
	}
	return imaging.Resize(out, buf.Width*scale, buf.Height*scale, imaging.NearestNeighbor)
}

// Encode writes the composed image as PNG.
func Encode(w io.Writer, buf *meter.PixelBuffer, bg colorful.Color, scale int) error {
	if err := imaging.Encode(w, Compose(buf, bg, scale), imaging.PNG); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PNG writes the composed image to path.
func PNG(path string, buf *meter.PixelBuffer, bg colorful.Color, scale int) error {
	if err := imaging.Save(Compose(buf, bg, scale), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
