package preview

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// asciiRamp separates background, frame and fill when colors are off.
const asciiRamp = " .:+*#@"

// ColorMode is how much color the terminal can show.
type ColorMode uint8

const (
	ColorOff ColorMode = iota // NO_COLOR or dumb terminal
	ColorANSI16
	ColorANSI256
	ColorTrue
)

var (
	detectOnce sync.Once
	termColor  ColorMode
)

// DetectColorMode inspects the environment once and caches the result.
func DetectColorMode() ColorMode {
	detectOnce.Do(func() {
		termColor = colorModeFromEnv(os.LookupEnv)
	})
	return termColor
}

func colorModeFromEnv(lookup func(string) (string, bool)) ColorMode {
	if _, ok := lookup("NO_COLOR"); ok {
		return ColorOff
	}
	term, _ := lookup("TERM")
	ct, _ := lookup("COLORTERM")
	term, ct = strings.ToLower(term), strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "truecolor"), strings.Contains(ct, "24bit"):
		return ColorTrue
	case strings.Contains(term, "256color"):
		return ColorANSI256
	case term == "dumb", term == "" && runtime.GOOS != "windows":
		return ColorOff
	default:
		return ColorANSI16
	}
}

// rampChar picks a character by CIE lightness.
func rampChar(c colorful.Color) byte {
	l, _, _ := c.Clamped().Lab()
	i := int(l * float64(len(asciiRamp)))
	return asciiRamp[min(max(i, 0), len(asciiRamp)-1)]
}

type layer uint8

const (
	foreground layer = iota
	background
)

// colorSeq returns the escape sequence selecting c for the layer, or ""
// when colors are off.
func colorSeq(mode ColorMode, l layer, c colorful.Color) string {
	r, g, b := c.Clamped().RGB255()
	sgr := 38 + 10*int(l)
	switch mode {
	case ColorTrue:
		return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", sgr, r, g, b)
	case ColorANSI256:
		cube := func(v uint8) int { return int(v) * 5 / 255 }
		return fmt.Sprintf("\x1b[%d;5;%dm", sgr, 16+36*cube(r)+6*cube(g)+cube(b))
	case ColorANSI16:
		i := nearestANSI16(c)
		code := 30 + 10*int(l) + i%8
		if i >= 8 {
			code += 60
		}
		return fmt.Sprintf("\x1b[%dm", code)
	default:
		return ""
	}
}

const ansiReset = "\x1b[0m"

// ansi16 is the common xterm rendition of the 16 base colors, normal then
// bright.
var ansi16 = hexColors(
	"#000000", "#cd3131", "#0dbc79", "#e5e510", "#2472c8", "#bc3fbc", "#11a8cd", "#e5e5e5",
	"#666666", "#f14c4c", "#23d18b", "#f5f543", "#3b8eea", "#d670d6", "#29b8db", "#ffffff",
)

func nearestANSI16(c colorful.Color) int {
	best, bestDist := 0, c.DistanceRgb(ansi16[0])
	for i, p := range ansi16[1:] {
		if d := c.DistanceRgb(p); d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return best
}

func hexColors(hex ...string) []colorful.Color {
	out := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}
