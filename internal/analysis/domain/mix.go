package analysis

import (
	"math"
	"sort"
)

// MixResult is the greedy charger-mix record set. RatingsKW is sorted
// descending and deduplicated; Counts in each hour row parallel it.
type MixResult struct {
	RatingsKW []float64 `json:"ratings_kw"`
	Hours     []HourMix `json:"hours"`
}

// HourMix is one hour of a greedy largest-first fill.
type HourMix struct {
	Hour        int     `json:"hour"`
	ExcessKW    float64 `json:"excess_power_kw"`
	Counts      []int   `json:"counts"`
	UsedKW      float64 `json:"used_kw"`
	RemainingKW float64 `json:"remaining_kw"`
}

// OptimizeMix fits discrete charger units into each hour's excess with a
// single deterministic greedy pass: ratings sorted descending, floor
// division per rating, subtract, continue. The result is an estimate, not a
// minimum-remainder optimum; a rating set like {5, 4} against a headroom of
// 8 keeps a remainder of 3 where two 4 kW units would leave 0. User-facing
// labels must present it as an estimate, never as optimal. Hours with
// negative excess skip allocation entirely: counts stay zero and the
// remainder carries the negative excess through.
func OptimizeMix(evaluations []HourEvaluation, ratingsKW []float64) (MixResult, error) {
	ratings := distinctDescending(ratingsKW)
	if len(ratings) == 0 {
		return MixResult{}, ErrNoRatings
	}

	hours := make([]HourMix, 0, len(evaluations))
	for _, evaluation := range evaluations {
		row := HourMix{
			Hour:        evaluation.Hour,
			ExcessKW:    evaluation.ExcessKW,
			Counts:      make([]int, len(ratings)),
			RemainingKW: evaluation.ExcessKW,
		}
		if evaluation.ExcessKW >= 0 {
			remaining := evaluation.ExcessKW
			for i, rating := range ratings {
				count := int(math.Floor(remaining / rating))
				if count > 0 {
					row.Counts[i] = count
					remaining -= float64(count) * rating
				}
			}
			row.UsedKW = evaluation.ExcessKW - remaining
			row.RemainingKW = remaining
		}
		hours = append(hours, row)
	}
	return MixResult{RatingsKW: ratings, Hours: hours}, nil
}

func distinctDescending(ratings []float64) []float64 {
	seen := make(map[float64]bool, len(ratings))
	distinct := make([]float64, 0, len(ratings))
	for _, rating := range ratings {
		if rating <= 0 || seen[rating] {
			continue
		}
		seen[rating] = true
		distinct = append(distinct, rating)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))
	return distinct
}
