package deltae

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/jkl1337/go-chromath"
	chromade "github.com/jkl1337/go-chromath/deltae"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmuldo/colorcal/colorimetry"
)

// Test pairs from Sharma, Wu and Dalal, "The CIEDE2000 color-difference
// formula: implementation notes, supplementary test data, and mathematical
// observations" (2005).
var sharma = []struct {
	lab1, lab2 [3]float64
	de         float64
}{
	{[3]float64{50.0000, 2.6772, -79.7751}, [3]float64{50.0000, 0.0000, -82.7485}, 2.0425},
	{[3]float64{50.0000, 3.1571, -77.2803}, [3]float64{50.0000, 0.0000, -82.7485}, 2.8615},
	{[3]float64{50.0000, 2.8361, -74.0200}, [3]float64{50.0000, 0.0000, -82.7485}, 3.4412},
	{[3]float64{50.0000, -1.3802, -84.2814}, [3]float64{50.0000, 0.0000, -82.7485}, 1.0000},
	{[3]float64{50.0000, -1.1848, -84.8006}, [3]float64{50.0000, 0.0000, -82.7485}, 1.0000},
	{[3]float64{50.0000, -0.9009, -85.5211}, [3]float64{50.0000, 0.0000, -82.7485}, 1.0000},
	{[3]float64{50.0000, 0.0000, 0.0000}, [3]float64{50.0000, -1.0000, 2.0000}, 2.3669},
	{[3]float64{50.0000, -1.0000, 2.0000}, [3]float64{50.0000, 0.0000, 0.0000}, 2.3669},
	{[3]float64{50.0000, 2.4900, -0.0010}, [3]float64{50.0000, -2.4900, 0.0009}, 7.1792},
	{[3]float64{50.0000, 2.4900, -0.0010}, [3]float64{50.0000, -2.4900, 0.0010}, 7.1792},
	{[3]float64{50.0000, 2.4900, -0.0010}, [3]float64{50.0000, -2.4900, 0.0011}, 7.2195},
	{[3]float64{50.0000, 2.4900, -0.0010}, [3]float64{50.0000, -2.4900, 0.0012}, 7.2195},
	{[3]float64{50.0000, -0.0010, 2.4900}, [3]float64{50.0000, 0.0009, -2.4900}, 4.8045},
	{[3]float64{50.0000, -0.0010, 2.4900}, [3]float64{50.0000, 0.0010, -2.4900}, 4.8045},
	{[3]float64{50.0000, -0.0010, 2.4900}, [3]float64{50.0000, 0.0011, -2.4900}, 4.7461},
	{[3]float64{50.0000, 2.5000, 0.0000}, [3]float64{50.0000, 0.0000, -2.5000}, 4.3065},
	{[3]float64{50.0000, 2.5000, 0.0000}, [3]float64{73.0000, 25.0000, -18.0000}, 27.1492},
	{[3]float64{50.0000, 2.5000, 0.0000}, [3]float64{61.0000, -5.0000, 29.0000}, 22.8977},
	{[3]float64{50.0000, 2.5000, 0.0000}, [3]float64{56.0000, -27.0000, -3.0000}, 31.9030},
	{[3]float64{50.0000, 2.5000, 0.0000}, [3]float64{58.0000, 24.0000, 15.0000}, 19.4535},
	{[3]float64{50.0000, 2.5000, 0.0000}, [3]float64{50.0000, 3.1736, 0.5854}, 1.0000},
	{[3]float64{50.0000, 2.5000, 0.0000}, [3]float64{50.0000, 3.2972, 0.0000}, 1.0000},
	{[3]float64{50.0000, 2.5000, 0.0000}, [3]float64{50.0000, 1.8634, 0.5757}, 1.0000},
	{[3]float64{50.0000, 2.5000, 0.0000}, [3]float64{50.0000, 3.2592, 0.3350}, 1.0000},
	{[3]float64{60.2574, -34.0099, 36.2677}, [3]float64{60.4626, -34.1751, 39.4387}, 1.2644},
	{[3]float64{63.0109, -31.0961, -5.8663}, [3]float64{62.8187, -29.7946, -4.0864}, 1.2630},
	{[3]float64{61.2901, 3.7196, -5.3901}, [3]float64{61.4292, 2.2480, -4.9620}, 1.8731},
	{[3]float64{35.0831, -44.1164, 3.7933}, [3]float64{35.0232, -40.0716, 1.5901}, 1.8645},
	{[3]float64{22.7233, 20.0904, -46.6940}, [3]float64{23.0331, 14.9730, -42.5619}, 2.0373},
	{[3]float64{36.4612, 47.8580, 18.3852}, [3]float64{36.2715, 50.5065, 21.2231}, 1.4146},
	{[3]float64{90.8027, -2.0831, 1.4410}, [3]float64{91.1528, -1.6435, 0.0447}, 1.4441},
	{[3]float64{90.9257, -0.5406, -0.9208}, [3]float64{88.6381, -0.8985, -0.7239}, 1.5381},
	{[3]float64{6.7747, -0.2908, -2.4247}, [3]float64{5.8714, -0.0985, -2.2286}, 0.6377},
	{[3]float64{2.0776, 0.0795, -1.1350}, [3]float64{0.9033, -0.0636, -0.5514}, 0.9082},
}

func TestCIEDE2000Sharma(t *testing.T) {
	x := make([][3]float64, len(sharma))
	y := make([][3]float64, len(sharma))
	for i, p := range sharma {
		x[i], y[i] = p.lab1, p.lab2
	}
	got, err := CIEDE2000(x, y, false)
	require.NoError(t, err)
	for i, p := range sharma {
		assert.InDelta(t, p.de, got[i], 1e-4, "pair %d", i+1)
	}
}

func TestCIEDE2000HueBoundary(t *testing.T) {
	// pairs 9 to 16 straddle or sit exactly on a 180 degree hue difference
	for i, p := range sharma[8:16] {
		assert.InDelta(t, p.de, ciede2000(p.lab1, p.lab2, false), 1e-4, "pair %d", i+9)
		assert.InDelta(t, p.de, ciede2000(p.lab2, p.lab1, false), 1e-4, "pair %d swapped", i+9)
	}
}

func TestCIEDE2000MatchesChromath(t *testing.T) {
	for i, p := range sharma {
		if i == 9 {
			// chromath wraps this exactly antiparallel pair the other way
			continue
		}
		want := chromade.CIE2000(chromath.Lab(p.lab1), chromath.Lab(p.lab2), &chromade.KLChDefault)
		assert.InDelta(t, want, ciede2000(p.lab1, p.lab2, false), 1e-4, "pair %d", i+1)
	}
}

func randomLab(r *rand.Rand, n int) [][3]float64 {
	lab := make([][3]float64, n)
	for i := range lab {
		lab[i] = [3]float64{100 * r.Float64(), 200*r.Float64() - 100, 200*r.Float64() - 100}
	}
	return lab
}

func TestIdenticalIsZero(t *testing.T) {
	lab := randomLab(rand.New(rand.NewSource(1)), 50)
	lab = append(lab, [3]float64{0, 0, 0}, [3]float64{50, 0, 0}, [3]float64{100, 0, 0})
	for _, m := range Metrics {
		for _, omit := range []bool{false, true} {
			errs, err := Compute(m, lab, lab, omit)
			require.NoError(t, err)
			for i, v := range errs {
				assert.InDelta(t, 0, v, 1e-12, "%s row %d", m, i)
			}
		}
	}
}

func TestCIEDE2000Symmetric(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	x, y := randomLab(r, 200), randomLab(r, 200)
	xy, err := CIEDE2000(x, y, false)
	require.NoError(t, err)
	yx, err := CIEDE2000(y, x, false)
	require.NoError(t, err)
	for i := range xy {
		assert.InDelta(t, xy[i], yx[i], 1e-9, "row %d", i)
	}
}

func TestOmitLightness(t *testing.T) {
	x := [][3]float64{{30, 10, -20}, {80, 0, 0}}
	y := [][3]float64{{60, 10, -20}, {20, 0, 0}}
	for _, m := range []Metric{CIEDE00, CIEDE94, CIEDELab, CMCDE} {
		errs, err := Compute(m, x, y, true)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, errs, m)

		errs, err = Compute(m, x, y, false)
		require.NoError(t, err)
		assert.Greater(t, errs[0], 0.0, m)
	}
}

func TestKnownValues(t *testing.T) {
	x := [][3]float64{{50, 0, 0}}
	y := [][3]float64{{50, 3, 4}}

	got, err := CIE76(x, y, false)
	require.NoError(t, err)
	assert.InDelta(t, 5, got[0], 1e-12)

	// neutral reference: S_C = S_H = 1
	got, err = CIE94(x, y, false)
	require.NoError(t, err)
	assert.InDelta(t, 5, got[0], 1e-12)

	// neutral reference: S_C = 0.638, F = 0 so S_H = S_C
	got, err = CMC(x, y, false)
	require.NoError(t, err)
	assert.InDelta(t, 5/0.638, got[0], 1e-9)

	got, err = MeanSquared([][3]float64{{0, 0, 0}}, [][3]float64{{1, 1, 1}}, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, got)
}

func TestMSEIdenticalRGB(t *testing.T) {
	rgb := [][3]float64{{0.1, 0.2, 0.3}, {1, 1, 1}, {0, 0, 0}}
	got, err := MeanSquared(rgb, rgb, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, got)
}

func TestShapeMismatch(t *testing.T) {
	for _, m := range Metrics {
		_, err := Compute(m, make([][3]float64, 2), make([][3]float64, 3), false)
		assert.True(t, errors.Is(err, colorimetry.ErrShapeMismatch), m)
	}
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("CIEDE00")
	require.NoError(t, err)
	assert.Equal(t, CIEDE00, m)

	_, err = ParseMetric("ciede2001")
	assert.True(t, errors.Is(err, ErrUnknownMetric))
	assert.True(t, errors.Is(err, colorimetry.ErrUnsupportedEnum))

	_, err = Compute("bogus", nil, nil, false)
	assert.True(t, errors.Is(err, ErrUnknownMetric))

	ms, err := ParseMetrics([]string{"mse", "ciede00", "mse"})
	require.NoError(t, err)
	assert.Equal(t, []Metric{MSE, CIEDE00}, ms)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 3, 2, 3})
	assert.Equal(t, 2.25, s.Mean)
	assert.Equal(t, 2.5, s.Median)
	assert.Equal(t, 3.0, s.Max)
	assert.Equal(t, 1, s.ArgMax)

	s = Summarize([]float64{4, 1, 2})
	assert.Equal(t, 2.0, s.Median)
	assert.Equal(t, 0, s.ArgMax)

	s = Summarize(nil)
	assert.Equal(t, -1, s.ArgMax)
}

func TestNearIdenticalIsFinite(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	x := randomLab(r, 500)
	y := make([][3]float64, len(x))
	for i, v := range x {
		// same chroma, hue nudged by a rounding-sized rotation
		c, s := math.Cos(1e-12), math.Sin(1e-12)
		y[i] = [3]float64{v[0], c*v[1] - s*v[2], s*v[1] + c*v[2]}
	}
	for _, m := range Metrics {
		for _, omit := range []bool{false, true} {
			errs, err := Compute(m, x, y, omit)
			require.NoError(t, err)
			for i, v := range errs {
				assert.False(t, math.IsNaN(v), "%s row %d", m, i)
				assert.Less(t, v, 1e-6, "%s row %d", m, i)
			}
		}
	}
}

func TestCIE94ReferenceIsFirst(t *testing.T) {
	x := [][3]float64{{50, 40, 0}}
	y := [][3]float64{{50, 0, 0}}
	xy, err := CIE94(x, y, false)
	require.NoError(t, err)
	yx, err := CIE94(y, x, false)
	require.NoError(t, err)
	// S_C = 1 + 0.045·C of the reference
	assert.InDelta(t, 40/(1+0.045*40), xy[0], 1e-12)
	assert.InDelta(t, 40, yx[0], 1e-12)
}
