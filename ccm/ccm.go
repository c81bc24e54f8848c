// Package ccm fits, applies and validates color correction matrices that map
// camera responses onto a target color space.
package ccm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmuldo/colorcal/colorimetry"
	"github.com/mmuldo/colorcal/deltae"
	"github.com/mmuldo/colorcal/model"
)

// ErrRankDeficient is returned when the expanded camera responses do not
// determine a unique matrix and the caller asked not to regularize.
var ErrRankDeficient = errors.New("rank deficient feature matrix")

// Correction is a fitted color correction. It is a plain value: Apply and
// Validate never modify it.
type Correction struct {
	Model       model.Model            `json:"model"`
	Bias        bool                   `json:"bias"`
	Matrix      [][3]float64           `json:"matrix"`
	Scale       float64                `json:"scale"`
	TargetSpace colorimetry.ColorSpace `json:"targetcolorspace"`
}

// Options configures Train and Validate. Zero fields take the values of
// DefaultOptions.
type Options struct {
	Model model.Model
	Bias  bool

	TargetSpace colorimetry.ColorSpace
	Illuminant  colorimetry.Illuminant
	Observer    colorimetry.Observer

	// PreserveWhite constrains the fit so that camera white [1,1,1] maps
	// exactly onto WhitePoint.
	PreserveWhite bool
	// WhitePoint is an XYZ triplet in [0,1]. The zero value selects the
	// reference white of Illuminant and Observer (D65 for sRGB targets).
	WhitePoint [3]float64

	// Loss is minimized by Train. Metrics are only reported.
	Loss          deltae.Metric
	Metrics       []deltae.Metric
	OmitLightness bool

	MaxIterations       int
	Tolerance           float64
	FailOnRankDeficient bool

	Logger *slog.Logger
}

// DefaultOptions returns the options used for unset fields.
func DefaultOptions() Options {
	return Options{
		Model:         model.Linear3x3,
		TargetSpace:   colorimetry.SpaceXYZ,
		Illuminant:    colorimetry.IlluminantD65,
		Observer:      colorimetry.Observer1931,
		Loss:          deltae.CIEDE00,
		Metrics:       deltae.Metrics,
		MaxIterations: 2000,
		Tolerance:     1e-8,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Model == "" {
		o.Model = d.Model
	}
	if o.TargetSpace == "" {
		o.TargetSpace = d.TargetSpace
	}
	if o.Illuminant == "" {
		o.Illuminant = d.Illuminant
	}
	if o.Observer == "" {
		o.Observer = d.Observer
	}
	if o.Loss == "" {
		o.Loss = d.Loss
	}
	if len(o.Metrics) == 0 {
		o.Metrics = d.Metrics
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// check validates every enum before any numeric work.
func (o Options) check() error {
	if _, e := model.New(o.Model, o.Bias); e != nil {
		return e
	}
	if _, e := colorimetry.ParseColorSpace(string(o.TargetSpace)); e != nil {
		return e
	}
	if _, e := colorimetry.WhitePoint(o.Illuminant, o.Observer); e != nil {
		return e
	}
	for _, m := range append([]deltae.Metric{o.Loss}, o.Metrics...) {
		if _, e := deltae.ParseMetric(string(m)); e != nil {
			return e
		}
	}
	return nil
}

// targetWhite is the white point expressed in the target space.
func (o Options) targetWhite() ([3]float64, error) {
	w := o.WhitePoint
	if w == ([3]float64{}) {
		ill, obs := o.Illuminant, o.Observer
		if o.TargetSpace == colorimetry.SpaceSRGB {
			ill, obs = colorimetry.IlluminantD65, colorimetry.Observer1931
		}
		ref, e := colorimetry.WhitePoint(ill, obs)
		if e != nil {
			return w, e
		}
		w = [3]float64{ref[0] / 100, ref[1] / 100, ref[2] / 100}
	}
	if o.TargetSpace == colorimetry.SpaceSRGB {
		w = colorimetry.XYZToLinSRGBRow(w)
	}
	return w, nil
}

// Report maps each requested metric to its per-sample errors and
// aggregates.
type Report struct {
	Metrics []deltae.Metric                `json:"metrics"`
	Stats   map[deltae.Metric]deltae.Stats `json:"stats"`
}

// scorer compares predictions against a fixed target batch.
type scorer struct {
	target    [][3]float64
	targetLab [][3]float64
	opts      Options
}

func newScorer(target [][3]float64, opts Options) (*scorer, error) {
	lab, e := colorimetry.ToLab(target, opts.TargetSpace, opts.Illuminant, opts.Observer)
	if e != nil {
		return nil, e
	}
	return &scorer{target: target, targetLab: lab, opts: opts}, nil
}

// errors computes metric m for predicted. The target is the reference
// sample for asymmetric formulas.
func (s *scorer) errors(m deltae.Metric, predicted [][3]float64) ([]float64, error) {
	if !m.InLab() {
		return deltae.Compute(m, s.target, predicted, s.opts.OmitLightness)
	}
	lab, e := colorimetry.ToLab(predicted, s.opts.TargetSpace, s.opts.Illuminant, s.opts.Observer)
	if e != nil {
		return nil, e
	}
	return deltae.Compute(m, s.targetLab, lab, s.opts.OmitLightness)
}

func (s *scorer) report(predicted [][3]float64) (*Report, error) {
	r := &Report{
		Metrics: s.opts.Metrics,
		Stats:   make(map[deltae.Metric]deltae.Stats, len(s.opts.Metrics)),
	}
	for _, m := range s.opts.Metrics {
		errs, e := s.errors(m, predicted)
		if e != nil {
			return nil, fmt.Errorf("%s: %w", m, e)
		}
		r.Stats[m] = deltae.Summarize(errs)
	}
	return r, nil
}
