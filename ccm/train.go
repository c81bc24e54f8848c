package ccm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/mmuldo/colorcal/colorimetry"
	"github.com/mmuldo/colorcal/deltae"
	"github.com/mmuldo/colorcal/model"
)

// Result is the outcome of Train.
type Result struct {
	Correction Correction
	// Predicted is Apply(camera, Correction).
	Predicted [][3]float64
	Report    *Report
	// Baseline is the mean loss of the closed-form least squares solution,
	// Loss that of the returned correction. Loss <= Baseline always holds.
	Baseline float64
	Loss     float64
}

// objective evaluates the mean loss of a parameter vector holding the
// matrix entries row by row, followed by the scale when it is free.
type objective struct {
	exp      model.Expander
	camera   [][3]float64
	score    *scorer
	loss     deltae.Metric
	features [][]float64 // at scale 1, reused when the scale is fixed
	free     bool
	white    *[3]float64
}

func (o *objective) decode(p []float64) ([][3]float64, float64) {
	f := o.exp.Features()
	matrix := make([][3]float64, f)
	for i := range matrix {
		copy(matrix[i][:], p[3*i:3*i+3])
	}
	scale := 1.0
	if o.free {
		scale = p[3*f]
	}
	if o.white != nil && scale > 0 {
		project(matrix, o.whiteFeatures(scale), *o.white)
	}
	return matrix, scale
}

func (o *objective) encode(matrix [][3]float64, scale float64) []float64 {
	p := make([]float64, 0, 3*len(matrix)+1)
	for _, r := range matrix {
		p = append(p, r[:]...)
	}
	if o.free {
		p = append(p, scale)
	}
	return p
}

func (o *objective) whiteFeatures(scale float64) []float64 {
	e := make([]float64, o.exp.Features())
	o.exp.ExpandRow([3]float64{scale, scale, scale}, e)
	return e
}

func (o *objective) predict(matrix [][3]float64, scale float64) [][3]float64 {
	features := o.features
	if scale != 1 {
		features, _ = o.exp.Expand(o.camera, scale)
	}
	return multiply(features, matrix)
}

func (o *objective) eval(p []float64) float64 {
	matrix, scale := o.decode(p)
	if !(scale > 0) {
		return math.Inf(1)
	}
	errs, e := o.score.errors(o.loss, o.predict(matrix, scale))
	if e != nil {
		return math.Inf(1)
	}
	v := deltae.Mean(errs)
	if math.IsNaN(v) {
		return math.Inf(1)
	}
	return v
}

//**exported functions**//

// Train fits a correction mapping camera onto target. Both batches are N×3
// with values in [0,1].
//
// The closed-form least squares solution at scale 1 is refined with
// Nelder-Mead on the mean of opts.Loss. The refinement is kept only if it
// lowers the loss. For expansions where a global scale is redundant with the
// matrix (linear and root-polynomial without bias) the scale stays 1.
func Train(camera, target [][3]float64, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger
	if e := opts.check(); e != nil {
		return nil, e
	}
	if e := colorimetry.CheckPaired(camera, target); e != nil {
		return nil, e
	}
	if e := colorimetry.CheckSamples("camera", camera); e != nil {
		return nil, e
	}
	if e := colorimetry.CheckSamples("target", target); e != nil {
		return nil, e
	}

	exp, e := model.New(opts.Model, opts.Bias)
	if e != nil {
		return nil, e
	}
	if opts.Bias && opts.Model.Biased() {
		log.Warn("model already has a constant term, ignoring bias", "model", opts.Model)
	}
	score, e := newScorer(target, opts)
	if e != nil {
		return nil, e
	}

	obj := &objective{
		exp:    exp,
		camera: camera,
		score:  score,
		loss:   opts.Loss,
		free:   !exp.Homogeneous(),
	}
	obj.features, _ = exp.Expand(camera, 1)

	var e1 []float64
	if opts.PreserveWhite {
		w, e := opts.targetWhite()
		if e != nil {
			return nil, e
		}
		obj.white = &w
		e1 = obj.whiteFeatures(1)
	}

	ridge := 0.0
	if r := rank(dense(obj.features)); r < exp.Features() {
		if opts.FailOnRankDeficient {
			return nil, fmt.Errorf("%d samples span rank %d of %d %s features: %w", len(camera), r, exp.Features(), opts.Model, ErrRankDeficient)
		}
		ridge = ridgeFor(obj.features)
		log.Warn("rank deficient training data, using a regularized solve",
			"model", opts.Model, "rank", r, "features", exp.Features(), "ridge", ridge)
	}
	matrix, e := leastSquares(obj.features, target, ridge, e1, obj.white)
	if e != nil {
		return nil, e
	}

	p0 := obj.encode(matrix, 1)
	baseline := obj.eval(p0)
	best, loss := p0, baseline

	closedForm := opts.Loss == deltae.MSE && !obj.free && obj.white == nil
	if baseline > 0 && !closedForm {
		res, e := optimize.Minimize(
			optimize.Problem{Func: obj.eval},
			p0,
			&optimize.Settings{
				MajorIterations: opts.MaxIterations,
				Converger: &optimize.FunctionConverge{
					Absolute:   opts.Tolerance,
					Relative:   opts.Tolerance,
					Iterations: 50,
				},
			},
			&optimize.NelderMead{},
		)
		switch {
		case res == nil:
			log.Warn("refinement failed, keeping the least squares solution", "err", e)
		default:
			if e != nil {
				log.Debug("refinement stopped early", "status", res.Status, "err", e)
			}
			if res.F < baseline {
				best, loss = res.X, res.F
			}
			log.Info("refined correction", "model", opts.Model, "loss", opts.Loss,
				"baseline", baseline, "refined", loss, "iterations", res.Stats.MajorIterations)
		}
	}

	matrix, scale := obj.decode(best)
	c := Correction{
		Model:       opts.Model,
		Bias:        opts.Bias,
		Matrix:      matrix,
		Scale:       scale,
		TargetSpace: opts.TargetSpace,
	}
	predicted, e := Apply(camera, c)
	if e != nil {
		return nil, e
	}
	report, e := score.report(predicted)
	if e != nil {
		return nil, e
	}
	return &Result{
		Correction: c,
		Predicted:  predicted,
		Report:     report,
		Baseline:   baseline,
		Loss:       loss,
	}, nil
}
