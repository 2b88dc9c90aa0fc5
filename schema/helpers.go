package schema

import "math"

// ClampScore clamps a score to the [0, 100] range.
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// RoundClamp rounds a score to the nearest integer and clamps it to
// [0, 100]. Every integer score exposed to callers goes through this.
func RoundClamp(v float64) int {
	return int(ClampScore(math.Round(v)))
}
