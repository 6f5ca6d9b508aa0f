package utils

import (
	"strconv"
	"strings"
)

// =============================================================================
// Popularity Utilities
// =============================================================================

// PopularityAssumedMax is the view count that normalizes to 1. Counts above
// it normalize past 1, so busier content keeps ranking higher.
const PopularityAssumedMax = 10.0

// NormalizeCount scales a raw interaction count by assumedMax. It is not capped.
func NormalizeCount(count int64, assumedMax float64) float64 {
	if count <= 0 || assumedMax <= 0 {
		return 0
	}
	return float64(count) / assumedMax
}

// PopularityScore weights a normalized count
func PopularityScore(count int64, weight float64) float64 {
	return weight * NormalizeCount(count, PopularityAssumedMax)
}

// TimeframeDays converts a timeframe name ("day", "week", "month", "year") or a
// plain day count into days. Unknown values fall back to def.
func TimeframeDays(timeframe string, def int) int {
	switch strings.ToLower(strings.TrimSpace(timeframe)) {
	case "day", "daily", "24h":
		return 1
	case "week", "weekly", "7d":
		return 7
	case "month", "monthly", "30d":
		return 30
	case "year", "yearly":
		return 365
	}
	if n, err := strconv.Atoi(strings.TrimSpace(timeframe)); err == nil && n > 0 {
		return n
	}
	return def
}
