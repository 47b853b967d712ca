package meter

import (
	"image"
	"math"
)

const (
	measurePad = 6 // padding at both ends of the measurement axis
	crossPad   = 2 // padding at both ends of the cross axis

	lumaLow  = 0.85 // dim end of the fill
	lumaHigh = 1.10 // hot end of the fill

	frameAlpha = 0.7
)

var (
	frameColor = RGBA{R: 255, G: 255, B: 255}
	peakColor  = RGBA{R: 255, G: 255, B: 255, A: 230}
)

// Reading is what the rasterizer draws: the smoothed level and, optionally,
// the peak-hold level.
type Reading struct {
	DB       float64
	Peak     float64
	ShowPeak bool
}

// Layout is the track geometry of a meter. Rectangles use exclusive maxima.
type Layout struct {
	Track image.Rectangle // frame outline
	Inner image.Rectangle // fill area inside the frame
}

// NewLayout computes the track rectangle for cfg inside a Size x Size image.
func NewLayout(cfg Config) Layout {
	cfg = cfg.sanitized()
	thick := cfg.Thickness
	pos01 := float64(cfg.Position-PositionLow) / float64(PositionHigh-PositionLow)

	var x0, y0, x1, y1 int
	switch cfg.Variant {
	case Horizontal:
		minY0, maxY0 := crossPad, Size-crossPad-thick
		y0 = int(math.Round(float64(minY0) + float64(maxY0-minY0)*(1-pos01)))
		y1 = y0 + thick - 1
		x0, x1 = measurePad, Size-measurePad-1
	default:
		minX0, maxX0 := crossPad, Size-crossPad-thick
		x0 = int(math.Round(float64(minX0) + float64(maxX0-minX0)*pos01))
		x1 = x0 + thick - 1
		y0, y1 = measurePad, Size-measurePad-1
	}

	return Layout{
		Track: image.Rect(x0, y0, x1+1, y1+1),
		Inner: image.Rect(x0+1, y0+1, x1, y1),
	}
}

// Render draws the meter for r into a new Size x Size buffer.
func Render(r Reading, cfg Config) *PixelBuffer {
	cfg = cfg.sanitized()
	buf := NewPixelBuffer(Size, Size)
	lay := NewLayout(cfg)
	m := cfg.Mapper()
	alpha := cfg.Alpha()
	zones := NewZoner(alpha)

	frame := frameColor
	frame.A = uint8(math.Round(float64(alpha) * frameAlpha))
	drawFrame(buf, lay.Track, frame)

	t := newTrack(lay.Inner, cfg.Variant)
	if t.length <= 0 {
		return buf
	}

	filled := int(math.Round(float64(t.length) * clamp01(m.Position(r.DB))))
	span := float64(max(1, t.length-1))
	for i := 0; i < filled; i++ {
		frac := float64(i) / span
		base := zones.ColorFor(m.DB(frac))
		t.slice(buf, i, scaleLuma(base, lumaLow+(lumaHigh-lumaLow)*frac))
	}

	if r.ShowPeak {
		i := int(math.Round(m.Position(r.Peak) * float64(t.length-1)))
		if i >= 0 && i < t.length {
			t.slice(buf, i, peakColor)
		}
	}
	return buf
}

func drawFrame(buf *PixelBuffer, r image.Rectangle, c RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		buf.Set(x, r.Min.Y, c)
		buf.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		buf.Set(r.Min.X, y, c)
		buf.Set(r.Max.X-1, y, c)
	}
}

// track walks the inner rectangle from the zero end (bottom or left) to
// the full end (top or right).
type track struct {
	inner   image.Rectangle
	variant Variant
	length  int
}

func newTrack(inner image.Rectangle, v Variant) track {
	n := inner.Dy()
	if v == Horizontal {
		n = inner.Dx()
	}
	return track{inner: inner, variant: v, length: n}
}

// slice paints the i-th row or column, counted from the zero end, across
// the full cross-axis width of the track.
func (t track) slice(buf *PixelBuffer, i int, c RGBA) {
	if t.variant == Horizontal {
		x := t.inner.Min.X + i
		for y := t.inner.Min.Y; y < t.inner.Max.Y; y++ {
			buf.Set(x, y, c)
		}
		return
	}
	y := t.inner.Max.Y - 1 - i
	for x := t.inner.Min.X; x < t.inner.Max.X; x++ {
		buf.Set(x, y, c)
	}
}
