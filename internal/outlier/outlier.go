// Package outlier ranks videos against their peers with a modified Z-score.
//
// The score uses the median and the median absolute deviation instead of the
// mean and standard deviation: view counts are heavy-tailed, and a single
// viral video would otherwise inflate the deviation enough to mask the
// outliers the score exists to find.
package outlier

import (
	"math"
	"sort"
)

// Metric is one video's value for the metric being ranked. The scorer never
// knows which counter the value came from.
type Metric struct {
	ID    string
	Value float64
}

// The standard consistency constant relating MAD to the standard deviation
// of a normal distribution.
const madScale = 0.6745

// Scores maps each video id to its modified Z-score within the batch,
// rounded to two decimals.
//
// Batches of fewer than two videos carry no distribution, and a zero MAD
// means the batch is too uniform to rank; both cases yield all-zero scores.
// Scores are only comparable within the batch they were computed against.
func Scores(videos []Metric) map[string]float64 {
	scores := make(map[string]float64, len(videos))
	if len(videos) < 2 {
		for _, v := range videos {
			scores[v.ID] = 0
		}
		return scores
	}

	values := make([]float64, len(videos))
	for i, v := range videos {
		values[i] = v.Value
	}
	med := median(values)

	deviations := make([]float64, len(values))
	for i, x := range values {
		deviations[i] = math.Abs(x - med)
	}
	mad := median(deviations)

	if mad == 0 {
		for _, v := range videos {
			scores[v.ID] = 0
		}
		return scores
	}

	for _, v := range videos {
		scores[v.ID] = round2(madScale * (v.Value - med) / mad)
	}
	return scores
}

// median returns the middle value of xs, averaging the two central values for
// even-sized input. xs is copied, not mutated.
func median(xs []float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
