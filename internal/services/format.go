package services

import (
	"fmt"
	"math"
)

// FormatSeconds renders a duration the way tracking summaries show it:
// "2h 5m" when at least an hour, "5m 30s" when at least a minute,
// otherwise "30s". Fractions of a second are dropped.
func FormatSeconds(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}
