package ccm

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmuldo/colorcal/colorimetry"
	"github.com/mmuldo/colorcal/deltae"
	"github.com/mmuldo/colorcal/model"
)

// camera RGB to XYZ of a well behaved sensor, rows are camera channels
var sensor = [3][3]float64{
	{0.37, 0.19, 0.02},
	{0.32, 0.65, 0.11},
	{0.16, 0.06, 0.86},
}

func patches(seed int64, n int) [][3]float64 {
	r := rand.New(rand.NewSource(seed))
	rgb := make([][3]float64, n)
	for i := range rgb {
		rgb[i] = [3]float64{0.05 + 0.85*r.Float64(), 0.05 + 0.85*r.Float64(), 0.05 + 0.85*r.Float64()}
	}
	return rgb
}

func toXYZ(rgb [][3]float64, gamma float64) [][3]float64 {
	xyz := make([][3]float64, len(rgb))
	for i, v := range rgb {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				xyz[i][j] += math.Pow(v[k], gamma) * sensor[k][j]
			}
		}
	}
	return xyz
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestIdentityFit(t *testing.T) {
	rgb := patches(1, 24)
	res, err := Train(rgb, rgb, Options{Model: model.Linear3x3, Logger: quiet()})
	require.NoError(t, err)

	identity := [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if d := cmp.Diff(identity, res.Correction.Matrix, cmpopts.EquateApprox(0, 1e-6)); d != "" {
		t.Errorf("matrix (-want +got):\n%s", d)
	}
	assert.Equal(t, 1.0, res.Correction.Scale)
	if d := cmp.Diff(rgb, res.Predicted, cmpopts.EquateApprox(0, 1e-6)); d != "" {
		t.Errorf("predicted (-want +got):\n%s", d)
	}
	for _, m := range deltae.Metrics {
		assert.InDelta(t, 0, res.Report.Stats[m].Mean, 1e-4, m)
	}
}

func TestIdentityFitSRGB(t *testing.T) {
	rgb := patches(2, 12)
	res, err := Train(rgb, rgb, Options{
		Model:       model.Linear3x3,
		TargetSpace: colorimetry.SpaceSRGB,
		Logger:      quiet(),
	})
	require.NoError(t, err)
	if d := cmp.Diff(rgb, res.Predicted, cmpopts.EquateApprox(0, 1e-6)); d != "" {
		t.Error(d)
	}
}

func TestLinearSensorRecovered(t *testing.T) {
	rgb := patches(3, 24)
	res, err := Train(rgb, toXYZ(rgb, 1), Options{Model: model.Linear3x3, Logger: quiet()})
	require.NoError(t, err)
	for i := range sensor {
		assert.InDeltaSlice(t, sensor[i][:], res.Correction.Matrix[i][:], 1e-6)
	}
	assert.Less(t, res.Report.Stats[deltae.CIEDE00].Max, 1e-4)
}

func TestRefinementNeverWorse(t *testing.T) {
	rgb := patches(4, 30)
	xyz := toXYZ(rgb, 1.6)
	for _, m := range []model.Model{model.Linear3x3, model.Root6x3, model.Poly6x3, model.Poly9x3, model.Poly4x3} {
		res, err := Train(rgb, xyz, Options{Model: m, MaxIterations: 400, Logger: quiet()})
		require.NoError(t, err, m)
		assert.LessOrEqual(t, res.Loss, res.Baseline, m)
		assert.InDelta(t, res.Loss, res.Report.Stats[deltae.CIEDE00].Mean, 1e-12, m)
		for _, row := range res.Correction.Matrix {
			for _, v := range row {
				assert.False(t, math.IsNaN(v), m)
			}
		}
		assert.Greater(t, res.Correction.Scale, 0.0, m)
	}
}

func TestHomogeneousScaleFixed(t *testing.T) {
	rgb := patches(5, 20)
	res, err := Train(rgb, toXYZ(rgb, 1.3), Options{Model: model.Root13x3, MaxIterations: 200, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Correction.Scale)
	assert.Len(t, res.Correction.Matrix, 13)
}

func TestTrainValidateDeterministic(t *testing.T) {
	camera := [][3]float64{
		{0.20, 0.30, 0.10},
		{0.70, 0.50, 0.20},
		{0.10, 0.40, 0.80},
		{0.90, 0.85, 0.80},
	}
	target := toXYZ(camera, 1.2)
	for _, m := range []model.Model{model.Linear3x3, model.Poly4x3} {
		opts := Options{Model: m, MaxIterations: 300, Logger: quiet()}
		res, err := Train(camera, target, opts)
		require.NoError(t, err, m)

		predicted, report, err := Validate(camera, target, res.Correction, opts)
		require.NoError(t, err, m)
		assert.Equal(t, res.Predicted, predicted, m)
		assert.Equal(t, res.Report.Stats, report.Stats, m)

		again, err := Train(camera, target, opts)
		require.NoError(t, err, m)
		assert.Equal(t, res.Correction, again.Correction, m)
	}
}

func TestRankDeficient(t *testing.T) {
	camera := [][3]float64{{0.2, 0.3, 0.4}, {0.2, 0.3, 0.4}, {0.4, 0.6, 0.8}, {0.1, 0.15, 0.2}}
	target := toXYZ(camera, 1)

	_, err := Train(camera, target, Options{Model: model.Root6x3, FailOnRankDeficient: true, Logger: quiet()})
	assert.True(t, errors.Is(err, ErrRankDeficient))

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	res, err := Train(camera, target, Options{Model: model.Root6x3, MaxIterations: 100, Logger: log})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "rank deficient")
	for _, row := range res.Correction.Matrix {
		for _, v := range row {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

func TestPreserveWhite(t *testing.T) {
	rgb := patches(6, 24)
	xyz := toXYZ(rgb, 1.4)
	ref, err := colorimetry.WhitePoint(colorimetry.IlluminantD65, colorimetry.Observer1931)
	require.NoError(t, err)
	want := [3]float64{ref[0] / 100, ref[1] / 100, ref[2] / 100}

	for _, m := range []model.Model{model.Linear3x3, model.Root6x3, model.Poly7x3, model.Poly9x3} {
		res, err := Train(rgb, xyz, Options{Model: m, PreserveWhite: true, MaxIterations: 300, Logger: quiet()})
		require.NoError(t, err, m)
		white, err := Apply([][3]float64{{1, 1, 1}}, res.Correction)
		require.NoError(t, err)
		assert.InDeltaSlice(t, want[:], white[0][:], 1e-9, m)
	}
}

func TestPreserveWhiteSRGB(t *testing.T) {
	rgb := patches(7, 24)
	res, err := Train(rgb, rgb, Options{
		Model:         model.Root6x3,
		TargetSpace:   colorimetry.SpaceSRGB,
		PreserveWhite: true,
		MaxIterations: 100,
		Logger:        quiet(),
	})
	require.NoError(t, err)
	white, err := Apply([][3]float64{{1, 1, 1}}, res.Correction)
	require.NoError(t, err)
	for _, v := range white[0] {
		assert.InDelta(t, 1, v, 1e-3)
	}
}

func TestBiasIgnoredWarns(t *testing.T) {
	var buf bytes.Buffer
	rgb := patches(8, 12)
	res, err := Train(rgb, toXYZ(rgb, 1), Options{
		Model: model.Poly4x3, Bias: true, MaxIterations: 50,
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ignoring bias")
	assert.Len(t, res.Correction.Matrix, 4)
}

func TestMSELossIsClosedForm(t *testing.T) {
	rgb := patches(9, 16)
	res, err := Train(rgb, toXYZ(rgb, 1.5), Options{Model: model.Root6x3, Loss: deltae.MSE, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, res.Baseline, res.Loss)
}

func TestValidateFailsFast(t *testing.T) {
	c := Correction{
		Model:  model.Linear3x3,
		Matrix: [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Scale:  1,
	}
	_, _, err := Validate([][3]float64{{0.2, 1.2, 0.3}}, [][3]float64{{0.2, 0.5, 0.3}}, c, Options{})
	assert.True(t, errors.Is(err, colorimetry.ErrOutOfRange))

	_, _, err = Validate([][3]float64{{0.2, 0.2, 0.3}}, [][3]float64{{0.2, -0.5, 0.3}}, c, Options{})
	assert.True(t, errors.Is(err, colorimetry.ErrOutOfRange))

	_, _, err = Validate(make([][3]float64, 2), make([][3]float64, 3), c, Options{})
	assert.True(t, errors.Is(err, colorimetry.ErrShapeMismatch))

	bad := c
	bad.Matrix = bad.Matrix[:2]
	_, _, err = Validate(make([][3]float64, 2), make([][3]float64, 2), bad, Options{})
	assert.True(t, errors.Is(err, colorimetry.ErrShapeMismatch))

	_, _, err = Validate(make([][3]float64, 2), make([][3]float64, 2), c, Options{Metrics: []deltae.Metric{"ciede2001"}})
	assert.True(t, errors.Is(err, deltae.ErrUnknownMetric))
}

func TestTrainRejectsBadOptions(t *testing.T) {
	rgb := patches(10, 6)
	_, err := Train(rgb, rgb, Options{Model: "poly5x3"})
	assert.True(t, errors.Is(err, colorimetry.ErrUnsupportedEnum))

	_, err = Train(rgb, rgb, Options{Illuminant: "D93"})
	assert.True(t, errors.Is(err, colorimetry.ErrUnsupportedEnum))

	_, err = Train(rgb, rgb, Options{Loss: "bogus"})
	assert.True(t, errors.Is(err, deltae.ErrUnknownMetric))
}

func TestValidateReportsRequestedMetrics(t *testing.T) {
	rgb := patches(11, 10)
	xyz := toXYZ(rgb, 1)
	c := Correction{Model: model.Linear3x3, Matrix: [][3]float64{sensor[0], sensor[1], sensor[2]}, Scale: 1}
	_, report, err := Validate(rgb, xyz, c, Options{Metrics: []deltae.Metric{deltae.CIEDELab, deltae.MSE}})
	require.NoError(t, err)
	assert.Equal(t, []deltae.Metric{deltae.CIEDELab, deltae.MSE}, report.Metrics)
	assert.Len(t, report.Stats, 2)
	assert.InDelta(t, 0, report.Stats[deltae.CIEDELab].Max, 1e-9)
	assert.Len(t, report.Stats[deltae.MSE].Errors, 10)
}

func TestApplyIsPure(t *testing.T) {
	c := Correction{Model: model.Poly4x3, Matrix: [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0.1, 0.1, 0.1}}, Scale: 0.5}
	in := [][3]float64{{0.2, 0.4, 0.6}}
	out, err := Apply(in, c)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.2, 0.3, 0.4}, out[0][:], 1e-15)
	assert.Equal(t, [][3]float64{{0.2, 0.4, 0.6}}, in)

	c.Scale = 0
	_, err = Apply(in, c)
	assert.True(t, errors.Is(err, colorimetry.ErrOutOfRange))
}
