// Package feedback is the render boundary a host talks to: it takes the
// loosely typed option bag of one meter instance, resolves and parses the
// level value, applies ballistics and returns the rendered image.
package feedback

import (
	"github.com/olivier-w/levelmeter/internal/meter"
)

// Options is the option bag a host stores for one meter instance. Value may
// be text (possibly holding variables) or a number.
type Options struct {
	Value     any     `yaml:"value"`
	Variant   string  `yaml:"variant"`
	Scale     string  `yaml:"scale"`
	MinDB     float64 `yaml:"mindb"`
	MaxDB     float64 `yaml:"maxdb"`
	Gamma     float64 `yaml:"gamma"`
	Position  float64 `yaml:"position"`
	Thickness float64 `yaml:"thickness"`
	Opacity   float64 `yaml:"opacity"`
}

// DefaultOptions returns the option defaults a new meter instance starts with.
func DefaultOptions() Options {
	return Options{
		Value:     "",
		Variant:   meter.Vertical.String(),
		Scale:     meter.Logarithmic.String(),
		MinDB:     meter.DefaultMinDB,
		MaxDB:     meter.DefaultMaxDB,
		Gamma:     meter.DefaultGamma,
		Position:  meter.DefaultPosition,
		Thickness: meter.DefaultThickness,
		Opacity:   meter.DefaultOpacity,
	}
}

// Config converts the option bag into a validated render configuration.
func (o Options) Config() meter.Config {
	return meter.NewConfig(
		meter.WithVariant(meter.ParseVariant(o.Variant)),
		meter.WithScale(meter.ParseScale(o.Scale)),
		meter.WithRange(o.MinDB, o.MaxDB),
		meter.WithGamma(o.Gamma),
		meter.WithPosition(o.Position),
		meter.WithThickness(o.Thickness),
		meter.WithOpacity(o.Opacity),
	)
}
