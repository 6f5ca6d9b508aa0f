package utils

import (
	"time"
)

// =============================================================================
// Preference Scoring Utilities
// =============================================================================

// TimeBucketIncrement is added to the current time-of-day bucket on every event
const TimeBucketIncrement = 0.1

// Clamp01 bounds v to [0,1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// TimeBucket returns the time-of-day bucket of t:
// morning [05,12), afternoon [12,17), evening [17,21), night otherwise.
func TimeBucket(t time.Time) string {
	h := t.Hour()
	switch {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 21:
		return "evening"
	default:
		return "night"
	}
}
