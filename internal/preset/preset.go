// Package preset loads named meter setups: a button style plus the meter
// options. Built-in presets are embedded; a user file can override or add
// presets by id.
package preset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/olivier-w/levelmeter/internal/feedback"
)

// ErrNotFound is returned by Set.Get for unknown ids.
var ErrNotFound = errors.New("preset not found")

// DefaultID is the preset used when none is chosen.
const DefaultID = "simple_meter_default"

type (
	// Style is the button look around the meter image.
	Style struct {
		Text    string `yaml:"text"`
		Color   string `yaml:"color"`
		BgColor string `yaml:"bgcolor"`
	}

	// Preset is one named meter setup.
	Preset struct {
		ID       string           `yaml:"-"`
		Name     string           `yaml:"name"`
		Category string           `yaml:"category"`
		Style    Style            `yaml:"style"`
		Feedback feedback.Options `yaml:"feedback"`
	}

	// Set is a collection of presets keyed by id.
	Set struct {
		presets map[string]Preset
		ids     []string
	}
)

//go:embed presets.yml
var defaultPresetsYaml []byte

// Defaults returns the built-in presets.
func Defaults() Set {
	s := Set{presets: make(map[string]Preset)}
	if err := s.merge(defaultPresetsYaml); err != nil {
		panic(fmt.Errorf("failed to unmarshal built-in presets: %w", err))
	}
	return s
}

// Load returns the built-in presets merged with the YAML file at path.
// Keys missing from a file entry keep their built-in or default values.
func Load(path string) (Set, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read presets: %w", err)
	}
	if err := s.merge(data); err != nil {
		return s, fmt.Errorf("parse presets %s: %w", path, err)
	}
	return s, nil
}

// UserPath is where LoadUser looks for a presets file.
func UserPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "levelmeter", "presets.yml"), nil
}

// LoadUser merges the user's presets file over the built-ins. exists is
// false when there is no user file, in which case err is nil.
func LoadUser() (set Set, exists bool, err error) {
	path, err := UserPath()
	if err != nil {
		return Defaults(), false, nil
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		return Defaults(), false, nil
	}
	set, err = Load(path)
	return set, true, err
}

func (s *Set) merge(data []byte) error {
	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return err
	}
	for id, node := range nodes {
		p, ok := s.presets[id]
		if !ok {
			p = newPreset(id)
		}
		if err := node.Decode(&p); err != nil {
			return fmt.Errorf("preset %q: %w", id, err)
		}
		p.ID = id
		if p.Name == "" {
			p.Name = id
		}
		s.presets[id] = p
	}
	s.ids = s.ids[:0]
	for id := range s.presets {
		s.ids = append(s.ids, id)
	}
	sort.Strings(s.ids)
	return nil
}

func newPreset(id string) Preset {
	return Preset{
		ID:       id,
		Category: "Meters",
		Style:    Style{Color: "#ffffff", BgColor: "#000000"},
		Feedback: feedback.DefaultOptions(),
	}
}

// Get returns the preset with the given id.
func (s Set) Get(id string) (Preset, error) {
	p, ok := s.presets[id]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// IDs returns the preset ids in sorted order.
func (s Set) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len returns the number of presets.
func (s Set) Len() int { return len(s.ids) }

// Next returns the id after id, wrapping around.
func (s Set) Next(id string) string {
	if len(s.ids) == 0 {
		return id
	}
	i := sort.SearchStrings(s.ids, id)
	if i < len(s.ids) && s.ids[i] == id {
		i++
	}
	return s.ids[i%len(s.ids)]
}

// Background is the button background color; invalid colors are black.
func (p Preset) Background() colorful.Color {
	return parseColor(p.Style.BgColor, colorful.Color{})
}

// Foreground is the button text color; invalid colors are white.
func (p Preset) Foreground() colorful.Color {
	return parseColor(p.Style.Color, colorful.Color{R: 1, G: 1, B: 1})
}

func parseColor(s string, fallback colorful.Color) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c
}
