package meter

import "math"

// Mapper converts between dB values and normalized meter positions.
// MinDB must be below MaxDB; Config guarantees this.
type Mapper struct {
	MinDB float64
	MaxDB float64
	Scale Scale
	Gamma float64
}

// Position maps db onto 0..1. The logarithmic scale raises the linear
// fraction to Gamma, which compresses quiet levels.
func (m Mapper) Position(db float64) float64 {
	if math.IsNaN(db) {
		return 0
	}
	clamped := clamp(db, m.MinDB, m.MaxDB)
	u := clamp01((clamped - m.MinDB) / (m.MaxDB - m.MinDB))
	if m.Scale == Linear {
		return u
	}
	return math.Pow(u, m.Gamma)
}

// DB is the inverse of Position: it returns the dB value drawn at pos.
func (m Mapper) DB(pos float64) float64 {
	if math.IsNaN(pos) {
		return m.MinDB
	}
	p := clamp01(pos)
	lin := p
	if m.Scale != Linear {
		lin = math.Pow(p, 1/m.Gamma)
	}
	return m.MinDB + (m.MaxDB-m.MinDB)*lin
}
