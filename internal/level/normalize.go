// Package level turns loosely formatted level readings into decibel values.
package level

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Silence is the floor used when a reading cannot be parsed.
const Silence = -60.0

var numberPattern = regexp.MustCompile(`[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// foldPunctuation maps dash variants to '-' and NBSP to a plain space.
var foldPunctuation = runes.Map(func(r rune) rune {
	switch r {
	case '\u2212', '\u2013', '\u2014':
		return '-'
	case '\u00a0':
		return ' '
	}
	return r
})

// Parse extracts the first number found in v. Units, labels and other
// surrounding text are ignored. It reports false when v is nil, holds no
// number, or the number is not finite.
func Parse(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}

	s, ok := text(v)
	if !ok {
		return 0, false
	}
	return ParseString(s)
}

// ParseOr is Parse with a fallback for unparseable input.
func ParseOr(v any, fallback float64) float64 {
	if db, ok := Parse(v); ok {
		return db
	}
	return fallback
}

// ParseString parses a textual reading such as "-12.5 dBFS" or "−3,2".
func ParseString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if folded, _, err := transform.String(foldPunctuation, s); err == nil {
		s = folded
	}
	// Only the first comma is treated as a decimal separator.
	s = strings.Replace(s, ",", ".", 1)

	tok := numberPattern.FindString(s)
	if tok == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		// ParseFloat reports overflow as ±Inf with an error; both are rejected.
		return 0, false
	}
	return finite(f)
}

func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
