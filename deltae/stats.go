package deltae

import (
	"math"
	"sort"
)

// Stats holds per-sample errors of one metric and their aggregates.
type Stats struct {
	Errors []float64 `json:"errors"`
	Mean   float64   `json:"mean"`
	Median float64   `json:"median"`
	Max    float64   `json:"max"`
	// ArgMax is the index of the first sample attaining Max, -1 if empty.
	ArgMax int `json:"argmax"`
}

// Summarize aggregates a per-sample error sequence. errs is retained, not
// copied.
func Summarize(errs []float64) Stats {
	s := Stats{Errors: errs, ArgMax: -1}
	if len(errs) == 0 {
		return s
	}
	s.Max = math.Inf(-1)
	sum := 0.0
	for i, v := range errs {
		sum += v
		if v > s.Max {
			s.Max = v
			s.ArgMax = i
		}
	}
	s.Mean = sum / float64(len(errs))

	sorted := append([]float64(nil), errs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		s.Median = sorted[n/2]
	} else {
		s.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return s
}

// Mean is the average of errs, 0 for an empty slice.
func Mean(errs []float64) float64 {
	if len(errs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range errs {
		sum += v
	}
	return sum / float64(len(errs))
}
