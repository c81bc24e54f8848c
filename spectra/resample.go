package spectra

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/mmuldo/colorcal/colorimetry"
)

// Step is the spacing of the common grid spectra are resampled onto.
const Step = 5.0

func checkGrid(name string, wl []float64) error {
	if len(wl) < 2 {
		return fmt.Errorf("%s: need at least 2 wavelengths, got %d: %w", name, len(wl), colorimetry.ErrInvalidShape)
	}
	for i := 1; i < len(wl); i++ {
		if !(wl[i] > wl[i-1]) {
			return fmt.Errorf("%s: wavelengths not strictly increasing at index %d: %w", name, i, colorimetry.ErrInvalidShape)
		}
	}
	return nil
}

// overlap returns the intersection [lo, hi] of the ranges of all grids.
func overlap(grids ...[]float64) (lo, hi float64, err error) {
	lo, hi = math.Inf(-1), math.Inf(1)
	for _, g := range grids {
		lo = math.Max(lo, g[0])
		hi = math.Min(hi, g[len(g)-1])
	}
	if hi-lo < Step {
		return lo, hi, fmt.Errorf("wavelength ranges do not overlap (%g..%g): %w", lo, hi, colorimetry.ErrInvalidShape)
	}
	return lo, hi, nil
}

// uniformGrid returns lo, lo+Step, ... up to hi.
func uniformGrid(lo, hi float64) []float64 {
	n := int(math.Floor((hi-lo)/Step+1e-9)) + 1
	g := make([]float64, n)
	for i := range g {
		g[i] = lo + Step*float64(i)
	}
	return g
}

// linspace returns n evenly spaced points from a to b inclusive.
func linspace(a, b float64, n int) []float64 {
	g := make([]float64, n)
	for i := range g {
		g[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	return g
}

// resample evaluates the shape-preserving cubic through (xs, ys) at every
// point of grid. Inputs Fit would panic on are reported as ErrInvalidShape. All grid points must lie inside [xs[0], xs[len(xs)-1]].
func resample(xs, ys, grid []float64) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%d wavelengths for %d values: %w", len(xs), len(ys), colorimetry.ErrInvalidShape)
	}
	if e := checkGrid("curve", xs); e != nil {
		return nil, e
	}
	var fb interp.FritschButland
	if e := fb.Fit(xs, ys); e != nil {
		return nil, fmt.Errorf("resampling %d points: %w", len(xs), e)
	}
	out := make([]float64, len(grid))
	for i, x := range grid {
		out[i] = fb.Predict(x)
	}
	return out, nil
}

// weights returns the wavelength interval each grid point stands for. On a
// uniform grid every weight equals the step.
func weights(grid []float64) []float64 {
	n := len(grid)
	w := make([]float64, n)
	w[0] = grid[1] - grid[0]
	w[n-1] = grid[n-1] - grid[n-2]
	for i := 1; i < n-1; i++ {
		w[i] = (grid[i+1] - grid[i-1]) / 2
	}
	return w
}

// within returns the indices of wl inside [lo, hi].
func within(wl []float64, lo, hi float64) []int {
	var idx []int
	for i, v := range wl {
		if v >= lo-1e-9 && v <= hi+1e-9 {
			idx = append(idx, i)
		}
	}
	return idx
}
