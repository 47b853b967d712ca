package meter

import (
	"math"
	"strings"
)

// Variant selects the meter orientation.
type Variant uint8

const (
	Vertical Variant = iota
	Horizontal
)

// ParseVariant accepts "v"/"vertical" and "h"/"horizontal"; anything else
// is vertical.
func ParseVariant(s string) Variant {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "horizontal":
		return Horizontal
	}
	return Vertical
}

func (v Variant) String() string {
	if v == Horizontal {
		return "h"
	}
	return "v"
}

// Next returns the other orientation.
func (v Variant) Next() Variant {
	if v == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Scale selects how dB values map onto the meter length.
type Scale uint8

const (
	Logarithmic Scale = iota
	Linear
)

// ParseScale accepts "linear"; anything else is logarithmic.
func ParseScale(s string) Scale {
	if strings.EqualFold(strings.TrimSpace(s), "linear") {
		return Linear
	}
	return Logarithmic
}

func (s Scale) String() string {
	if s == Linear {
		return "linear"
	}
	return "log"
}

// Next returns the other scale.
func (s Scale) Next() Scale {
	if s == Linear {
		return Logarithmic
	}
	return Linear
}

// Option bounds and defaults.
const (
	DefaultMinDB = -60.0
	MinDBLow     = -120.0
	MinDBHigh    = -1.0

	DefaultMaxDB = 0.0
	MaxDBLow     = -60.0
	MaxDBHigh    = 20.0

	DefaultGamma = 2.8
	GammaLow     = 1.2
	GammaHigh    = 6.0

	DefaultPosition = 0
	PositionLow     = -50
	PositionHigh    = 50

	DefaultThickness = 10
	ThicknessLow     = 4
	ThicknessHigh    = 24

	DefaultOpacity = 100
	OpacityLow     = 1
	OpacityHigh    = 100
)

// Config describes one meter render. Build it with NewConfig so every field
// is within bounds.
type Config struct {
	Variant   Variant
	Position  int // cross-axis offset, -50..50
	Thickness int // track thickness in pixels
	MinDB     float64
	MaxDB     float64
	Scale     Scale
	Gamma     float64 // used only by the logarithmic scale
	Opacity   int     // percent
}

// ConfigOption mutates a Config before it is sanitized.
type ConfigOption func(*rawConfig)

// rawConfig carries unvalidated values so options can pass NaN or
// out-of-range input through to sanitize.
type rawConfig struct {
	variant   Variant
	position  float64
	thickness float64
	minDB     float64
	maxDB     float64
	scale     Scale
	gamma     float64
	opacity   float64
}

// WithVariant sets the orientation.
func WithVariant(v Variant) ConfigOption {
	return func(c *rawConfig) { c.variant = v }
}

// WithPosition sets the cross-axis offset; it is rounded and clamped.
func WithPosition(p float64) ConfigOption {
	return func(c *rawConfig) { c.position = p }
}

// WithThickness sets the track thickness; it is floored and clamped.
func WithThickness(px float64) ConfigOption {
	return func(c *rawConfig) { c.thickness = px }
}

// WithRange sets the dB range.
func WithRange(minDB, maxDB float64) ConfigOption {
	return func(c *rawConfig) {
		c.minDB = minDB
		c.maxDB = maxDB
	}
}

// WithScale sets the scale mode.
func WithScale(s Scale) ConfigOption {
	return func(c *rawConfig) { c.scale = s }
}

// WithGamma sets the logarithmic gamma exponent.
func WithGamma(g float64) ConfigOption {
	return func(c *rawConfig) { c.gamma = g }
}

// WithOpacity sets the opacity percentage; it is rounded and clamped.
func WithOpacity(pct float64) ConfigOption {
	return func(c *rawConfig) { c.opacity = pct }
}

// DefaultConfig returns the default meter configuration.
func DefaultConfig() Config {
	return NewConfig()
}

// NewConfig applies opts over the defaults and corrects anything out of
// range. Non-finite values fall back to their defaults and a range with
// MinDB >= MaxDB is repaired by moving MinDB to MaxDB-1.
func NewConfig(opts ...ConfigOption) Config {
	raw := rawConfig{
		variant:   Vertical,
		position:  DefaultPosition,
		thickness: DefaultThickness,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
		scale:     Logarithmic,
		gamma:     DefaultGamma,
		opacity:   DefaultOpacity,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&raw)
		}
	}
	return raw.sanitize()
}

func (r rawConfig) sanitize() Config {
	minDB := clamp(orDefault(r.minDB, DefaultMinDB), MinDBLow, MinDBHigh)
	maxDB := clamp(orDefault(r.maxDB, DefaultMaxDB), MaxDBLow, MaxDBHigh)
	if minDB >= maxDB {
		minDB = maxDB - 1
	}

	variant := r.variant
	if variant != Horizontal {
		variant = Vertical
	}
	scale := r.scale
	if scale != Linear {
		scale = Logarithmic
	}

	return Config{
		Variant:   variant,
		Position:  int(clamp(roundHalfUp(orDefault(r.position, DefaultPosition)), PositionLow, PositionHigh)),
		Thickness: int(clamp(math.Floor(orDefault(r.thickness, DefaultThickness)), ThicknessLow, ThicknessHigh)),
		MinDB:     minDB,
		MaxDB:     maxDB,
		Scale:     scale,
		Gamma:     clamp(orDefault(r.gamma, DefaultGamma), GammaLow, GammaHigh),
		Opacity:   int(clamp(roundHalfUp(orDefault(r.opacity, DefaultOpacity)), OpacityLow, OpacityHigh)),
	}
}

// sanitized re-applies the bounds, so zero or hand-built configs render safely.
func (c Config) sanitized() Config {
	return rawConfig{
		variant:   c.Variant,
		position:  float64(c.Position),
		thickness: float64(c.Thickness),
		minDB:     c.MinDB,
		maxDB:     c.MaxDB,
		scale:     c.Scale,
		gamma:     c.Gamma,
		opacity:   float64(c.Opacity),
	}.sanitize()
}

// Mapper returns the scale mapper for this configuration.
func (c Config) Mapper() Mapper {
	return Mapper{MinDB: c.MinDB, MaxDB: c.MaxDB, Scale: c.Scale, Gamma: c.Gamma}
}

// Alpha is the opacity as an 8-bit alpha value.
func (c Config) Alpha() uint8 {
	return uint8(clamp(math.Round(float64(c.Opacity)/100*255), 0, 255))
}

func orDefault(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundHalfUp rounds .5 toward positive infinity, so -12.5 becomes -12.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
