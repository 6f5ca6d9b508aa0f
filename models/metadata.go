package models

import (
	"strconv"
	"strings"
)

// Well-known keys inside InteractionEvent.Metadata
const (
	MetaTags                 = "tags"
	MetaCategory             = "category"
	MetaSearchQuery          = "search_query"
	MetaTimeSpent            = "time_spent" // seconds
	MetaCompletionPercentage = "completion_percentage"
	MetaReferrer             = "referrer"
	MetaDevice               = "device"
	MetaLocation             = "location" // {"lat": .., "lon": ..}
	MetaCreatorID            = "creator_id"
)

// MetadataTags returns the normalized tag list. Accepts a JSON array or a comma-separated string.
func MetadataTags(m map[string]interface{}) []string {
	var raw []string
	switch v := m[MetaTags].(type) {
	case []string:
		raw = v
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.Split(v, ",")
	}

	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// MetadataString returns a trimmed string value, or "" when absent or not a string
func MetadataString(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// MetadataNumber returns a numeric value; numeric strings are accepted
func MetadataNumber(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}

// MetadataCompletion returns the completion fraction in [0,1] for a complete event.
// A missing percentage counts as fully completed.
func MetadataCompletion(m map[string]interface{}) float64 {
	pct, ok := MetadataNumber(m, MetaCompletionPercentage)
	if !ok {
		return 1.0
	}
	if pct > 1 {
		pct = pct / 100
	}
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}
