// Package preview draws meter pixel buffers as terminal text.
package preview

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/olivier-w/levelmeter/internal/meter"
)

// Renderer converts an ARGB meter buffer into a terminal string. Pixels are
// composited over a solid background first, since a terminal cell has no
// alpha. It supports two modes:
//   - Color (half-block): "▀" with fg = top pixel, bg = bottom pixel.
//   - ASCII (no color): one lightness character per pixel.
type Renderer struct {
	mode ColorMode
	bg   colorful.Color
	sb   strings.Builder
}

// NewRenderer creates a renderer for the current terminal.
func NewRenderer(bg colorful.Color) *Renderer {
	return NewRendererMode(DetectColorMode(), bg)
}

// NewRendererMode creates a renderer with a fixed color mode.
func NewRendererMode(mode ColorMode, bg colorful.Color) *Renderer {
	return &Renderer{mode: mode, bg: bg}
}

// SetBackground changes the color pixels are composited over.
func (r *Renderer) SetBackground(bg colorful.Color) { r.bg = bg }

// Mode returns the renderer's color mode.
func (r *Renderer) Mode() ColorMode { return r.mode }

// Size returns the terminal cells needed to show buf pixel for pixel.
func (r *Renderer) Size(buf *meter.PixelBuffer) (cols, rows int) {
	if r.mode == ColorOff {
		return buf.Width, buf.Height
	}
	return buf.Width, (buf.Height + 1) / 2
}

// Render draws buf into outW x outH terminal cells using nearest-neighbour
// sampling. In color mode each cell row covers two pixel rows.
func (r *Renderer) Render(buf *meter.PixelBuffer, outW, outH int) string {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 || outW <= 0 || outH <= 0 {
		return ""
	}

	r.sb.Reset()
	r.sb.Grow(outW * outH * 24)

	if r.mode == ColorOff {
		r.renderASCII(buf, outW, outH)
	} else {
		r.renderHalfBlock(buf, outW, outH)
	}
	return r.sb.String()
}

func (r *Renderer) renderHalfBlock(buf *meter.PixelBuffer, outW, outH int) {
	pixelRows := outH * 2
	var lastFg, lastBg string

	for row := 0; row < outH; row++ {
		topY := row * 2 * buf.Height / pixelRows
		botY := (row*2 + 1) * buf.Height / pixelRows

		for col := 0; col < outW; col++ {
			x := col * buf.Width / outW
			top := r.flatten(buf.At(x, topY))
			bot := r.flatten(buf.At(x, botY))

			if fg := colorSeq(r.mode, foreground, top); fg != lastFg {
				r.sb.WriteString(fg)
				lastFg = fg
			}
			if bgc := colorSeq(r.mode, background, bot); bgc != lastBg {
				r.sb.WriteString(bgc)
				lastBg = bgc
			}
			r.sb.WriteString("▀")
		}

		r.sb.WriteString(ansiReset)
		lastFg, lastBg = "", ""
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

func (r *Renderer) renderASCII(buf *meter.PixelBuffer, outW, outH int) {
	for row := 0; row < outH; row++ {
		y := row * buf.Height / outH
		for col := 0; col < outW; col++ {
			r.sb.WriteByte(rampChar(r.flatten(buf.At(col*buf.Width/outW, y))))
		}
		if row < outH-1 {
			r.sb.WriteByte('\n')
		}
	}
}

// flatten composites a straight-alpha pixel over the background.
func (r *Renderer) flatten(c meter.RGBA) colorful.Color {
	px := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return r.bg.BlendRgb(px, float64(c.A)/255).Clamped()
}
