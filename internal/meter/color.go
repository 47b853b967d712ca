package meter

import "math"

// RGBA is an 8-bit color with straight (non-premultiplied) alpha.
type RGBA struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// Zone boundaries in dB.
const (
	SafeEnd     = -22.0 // solid safe color at or below
	CautionFrom = -14.0 // solid caution color from here ...
	CautionTo   = -6.0  // ... to here
	HotFrom     = 0.0   // solid hot color at or above
)

// Base zone colors; alpha is supplied by the opacity setting.
var (
	SafeColor    = RGBA{R: 80, G: 180, B: 90}
	CautionColor = RGBA{R: 210, G: 170, B: 60}
	HotColor     = RGBA{R: 210, G: 60, B: 60}
)

type colorStop struct {
	db float64
	c  RGBA
}

// Zoner maps dB values to zone colors, blending linearly between stops so
// neighbouring rows never show a hard band.
type Zoner struct {
	stops []colorStop
}

// NewZoner builds the safe/caution/hot ramp with every stop at alpha.
func NewZoner(alpha uint8) Zoner {
	safe, caution, hot := SafeColor, CautionColor, HotColor
	safe.A, caution.A, hot.A = alpha, alpha, alpha
	return Zoner{stops: []colorStop{
		{db: SafeEnd, c: safe},
		{db: CautionFrom, c: caution},
		{db: CautionTo, c: caution},
		{db: HotFrom, c: hot},
	}}
}

// ColorFor returns the zone color at db.
func (z Zoner) ColorFor(db float64) RGBA {
	if len(z.stops) == 0 {
		return RGBA{}
	}
	first, last := z.stops[0], z.stops[len(z.stops)-1]
	if math.IsNaN(db) || db <= first.db {
		return first.c
	}
	if db >= last.db {
		return last.c
	}
	for i := 1; i < len(z.stops); i++ {
		hi := z.stops[i]
		if db >= hi.db {
			continue
		}
		lo := z.stops[i-1]
		return lerpColor(lo.c, hi.c, (db-lo.db)/(hi.db-lo.db))
	}
	return last.c
}

func lerpColor(a, b RGBA, t float64) RGBA {
	t = clamp01(t)
	return RGBA{
		R: lerp8(a.R, b.R, t),
		G: lerp8(a.G, b.G, t),
		B: lerp8(a.B, b.B, t),
		A: lerp8(a.A, b.A, t),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return clamp255(float64(a) + (float64(b)-float64(a))*t)
}

// scaleLuma brightens or dims the color channels; alpha is kept.
func scaleLuma(c RGBA, luma float64) RGBA {
	return RGBA{
		R: clamp255(float64(c.R) * luma),
		G: clamp255(float64(c.G) * luma),
		B: clamp255(float64(c.B) * luma),
		A: c.A,
	}
}

func clamp255(v float64) uint8 {
	return uint8(clamp(math.Round(v), 0, 255))
}
