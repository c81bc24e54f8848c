// Package deltae implements color difference metrics over batches of
// L*a*b* (or, for MSE, raw response) triplets.
package deltae

import (
	"fmt"
	"strings"

	"github.com/mmuldo/colorcal/colorimetry"
)

// ErrUnknownMetric is returned for metric names outside the supported set.
var ErrUnknownMetric = fmt.Errorf("unknown metric: %w", colorimetry.ErrUnsupportedEnum)

// Metric names a color difference formula.
type Metric string

const (
	MSE      Metric = "mse"
	CIEDE00  Metric = "ciede00"
	CIEDE94  Metric = "ciede94"
	CIEDELab Metric = "ciedelab"
	CMCDE    Metric = "cmcde"
)

// Metrics lists every supported metric in report order.
var Metrics = []Metric{MSE, CIEDE00, CIEDE94, CIEDELab, CMCDE}

// Func computes one error per row pair.
type Func func(x, y [][3]float64, omitLightness bool) ([]float64, error)

var funcs = map[Metric]Func{
	MSE:      MeanSquared,
	CIEDE00:  CIEDE2000,
	CIEDE94:  CIE94,
	CIEDELab: CIE76,
	CMCDE:    CMC,
}

// ParseMetric validates a metric name. Names are case-insensitive.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := funcs[m]; !ok {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownMetric)
	}
	return m, nil
}

// ParseMetrics validates a list of metric names, dropping duplicates.
func ParseMetrics(names []string) ([]Metric, error) {
	seen := make(map[Metric]bool)
	var ms []Metric
	for _, n := range names {
		m, e := ParseMetric(n)
		if e != nil {
			return nil, e
		}
		if !seen[m] {
			seen[m] = true
			ms = append(ms, m)
		}
	}
	return ms, nil
}

// InLab reports whether the metric compares L*a*b* values. MSE compares the
// original responses instead.
func (m Metric) InLab() bool {
	return m != MSE
}

// Compute evaluates metric m on paired rows.
func Compute(m Metric, x, y [][3]float64, omitLightness bool) ([]float64, error) {
	f, ok := funcs[m]
	if !ok {
		return nil, fmt.Errorf("%q: %w", m, ErrUnknownMetric)
	}
	return f(x, y, omitLightness)
}

func check(x, y [][3]float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%d rows vs %d rows: %w", len(x), len(y), colorimetry.ErrShapeMismatch)
	}
	return nil
}

func sq(v float64) float64 {
	return v * v
}
