package utils

import (
	"sort"
)

// SortOrder defines the direction of sorting
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// Scored is implemented by anything ranked by a float score
type Scored interface {
	GetScore() float64
}

// SortByScore stably sorts items by score. Equal scores keep their input order,
// so ranking is deterministic for a given input.
func SortByScore[T Scored](items []T, order SortOrder) {
	sort.SliceStable(items, func(i, j int) bool {
		if order == Descending {
			return items[i].GetScore() > items[j].GetScore()
		}
		return items[i].GetScore() < items[j].GetScore()
	})
}

// KeyScore is one entry of a ranked score map
type KeyScore struct {
	Key   string
	Score float64
}

// TopN returns the n highest-scoring entries of scores. Ties are broken by key
// so the result does not depend on map iteration order. n <= 0 returns all.
func TopN(scores map[string]float64, n int) []KeyScore {
	out := make([]KeyScore, 0, len(scores))
	for k, v := range scores {
		out = append(out, KeyScore{Key: k, Score: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Truncate caps a slice at limit. limit <= 0 returns the slice unchanged.
func Truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
