package ccm

import (
	"fmt"

	"github.com/mmuldo/colorcal/colorimetry"
	"github.com/mmuldo/colorcal/model"
)

// Apply maps camera responses through a correction:
// expand(scale·camera) · matrix.
func Apply(camera [][3]float64, c Correction) ([][3]float64, error) {
	exp, e := model.New(c.Model, c.Bias)
	if e != nil {
		return nil, e
	}
	if e := exp.CheckMatrix(c.Matrix); e != nil {
		return nil, e
	}
	if !(c.Scale > 0) {
		return nil, fmt.Errorf("scale %g: %w", c.Scale, colorimetry.ErrOutOfRange)
	}
	features, e := exp.Expand(camera, c.Scale)
	if e != nil {
		return nil, e
	}
	return multiply(features, c.Matrix), nil
}

// Validate applies c to camera and scores the prediction against target
// with opts.Metrics. Inputs are checked before anything is computed. The
// target space of c takes precedence over opts.TargetSpace.
func Validate(camera, target [][3]float64, c Correction, opts Options) ([][3]float64, *Report, error) {
	if c.TargetSpace != "" {
		opts.TargetSpace = c.TargetSpace
	}
	opts.Model, opts.Bias = c.Model, c.Bias
	opts = opts.withDefaults()
	if e := opts.check(); e != nil {
		return nil, nil, e
	}
	if e := colorimetry.CheckPaired(camera, target); e != nil {
		return nil, nil, e
	}
	if e := colorimetry.CheckSamples("camera", camera); e != nil {
		return nil, nil, e
	}
	if e := colorimetry.CheckSamples("target", target); e != nil {
		return nil, nil, e
	}

	predicted, e := Apply(camera, c)
	if e != nil {
		return nil, nil, e
	}
	score, e := newScorer(target, opts)
	if e != nil {
		return nil, nil, e
	}
	report, e := score.report(predicted)
	if e != nil {
		return nil, nil, e
	}
	return predicted, report, nil
}
