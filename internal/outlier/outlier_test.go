package outlier

import (
	"fmt"
	"math"
	"testing"
)

func TestScoresWorkedExample(t *testing.T) {
	// median = 2000, MAD = median(1000, 0, 998000) = 1000.
	videos := []Metric{
		{ID: "A", Value: 1000},
		{ID: "B", Value: 2000},
		{ID: "C", Value: 1000000},
	}

	scores := Scores(videos)

	want := map[string]float64{"A": -0.67, "B": 0, "C": 673.26}
	for id, w := range want {
		if got := scores[id]; got != w {
			t.Errorf("score[%s] = %v, want %v", id, got, w)
		}
	}
}

func TestScoresTooFewVideos(t *testing.T) {
	for _, videos := range [][]Metric{
		nil,
		{},
		{{ID: "only", Value: 123456}},
	} {
		scores := Scores(videos)
		if len(scores) != len(videos) {
			t.Errorf("expected %d scores, got %d", len(videos), len(scores))
		}
		for id, s := range scores {
			if s != 0 {
				t.Errorf("score[%s] = %v, want 0 for batch of size %d", id, s, len(videos))
			}
		}
	}
}

func TestScoresUniformBatch(t *testing.T) {
	videos := make([]Metric, 5)
	for i := range videos {
		videos[i] = Metric{ID: fmt.Sprintf("v%d", i), Value: 777}
	}

	for id, s := range Scores(videos) {
		if s != 0 {
			t.Errorf("score[%s] = %v, want 0 when MAD is zero", id, s)
		}
	}
}

func TestScoresMonotonicity(t *testing.T) {
	videos := []Metric{
		{ID: "low", Value: 100},
		{ID: "mid1", Value: 500},
		{ID: "mid2", Value: 600},
		{ID: "high", Value: 50000},
		{ID: "tie", Value: 500},
	}

	scores := Scores(videos)

	// A value above the median never scores at or below a value at or
	// below the median.
	med := 500.0
	for _, a := range videos {
		for _, b := range videos {
			if a.Value > med && b.Value <= med && scores[a.ID] <= scores[b.ID] {
				t.Errorf("score[%s]=%v should exceed score[%s]=%v", a.ID, scores[a.ID], b.ID, scores[b.ID])
			}
		}
	}

	// Identical values score identically.
	if scores["mid1"] != scores["tie"] {
		t.Errorf("tied values scored differently: %v vs %v", scores["mid1"], scores["tie"])
	}
}

func TestScoresSignAgnostic(t *testing.T) {
	// The formula must not special-case negatives even though real
	// counters are non-negative.
	videos := []Metric{
		{ID: "a", Value: -100},
		{ID: "b", Value: 0},
		{ID: "c", Value: 100},
	}

	scores := Scores(videos)
	if scores["a"] >= 0 {
		t.Errorf("expected negative score below median, got %v", scores["a"])
	}
	if scores["c"] <= 0 {
		t.Errorf("expected positive score above median, got %v", scores["c"])
	}
	if math.Abs(scores["a"]+scores["c"]) > 0.001 {
		t.Errorf("symmetric values should score symmetrically: %v vs %v", scores["a"], scores["c"])
	}
}

func TestScoresRounding(t *testing.T) {
	videos := []Metric{
		{ID: "a", Value: 1},
		{ID: "b", Value: 2},
		{ID: "c", Value: 4},
	}

	for id, s := range Scores(videos) {
		if got := math.Round(s*100) / 100; got != s {
			t.Errorf("score[%s] = %v not rounded to 2 decimals", id, s)
		}
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		xs   []float64
		want float64
	}{
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
		{[]float64{5}, 5},
		{[]float64{2, 2, 2, 2}, 2},
	}
	for _, tt := range tests {
		if got := median(tt.xs); got != tt.want {
			t.Errorf("median(%v) = %v, want %v", tt.xs, got, tt.want)
		}
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	xs := []float64{3, 1, 2}
	median(xs)
	if xs[0] != 3 || xs[1] != 1 || xs[2] != 2 {
		t.Errorf("median mutated its input: %v", xs)
	}
}
