package util

import (
	"fmt"
	"math"
)

// FormatDB formats a level as "-12.5 dB". Non-finite levels print as "-inf dB".
func FormatDB(db float64) string {
	if math.IsNaN(db) || math.IsInf(db, 0) {
		return "-inf dB"
	}
	if math.Abs(db) < 0.05 {
		db = 0
	}
	return fmt.Sprintf("%.1f dB", db)
}

// FormatRange formats a dB range as "-60..0 dB".
func FormatRange(minDB, maxDB float64) string {
	return fmt.Sprintf("%g..%g dB", minDB, maxDB)
}
