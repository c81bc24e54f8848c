package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmuldo/colorcal/ccm"
	"github.com/mmuldo/colorcal/colorimetry"
	"github.com/mmuldo/colorcal/deltae"
	"github.com/mmuldo/colorcal/model"
)

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.json")
	colors := [][3]float64{{0.1, 0.2, 0.3}, {1, 0, 0.123456789012345}}
	require.NoError(t, writeJSON(nil, path, colors))

	got, err := readColors(path)
	require.NoError(t, err)
	assert.Equal(t, colors, got)
}

func TestWriteJSONStdout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, "", [][3]float64{{1, 0, 0}}))
	assert.JSONEq(t, `[[1,0,0]]`, buf.String())
}

func TestReadJSONBadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("[[1,2"), 0644))
	_, err := readColors(path)
	assert.Error(t, err)

	_, err = readColors(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestCorrectionSurvivesJSON(t *testing.T) {
	camera := [][3]float64{{0.2, 0.3, 0.1}, {0.7, 0.5, 0.2}, {0.1, 0.4, 0.8}, {0.9, 0.85, 0.8}, {0.5, 0.5, 0.5}}
	target := [][3]float64{{0.15, 0.2, 0.1}, {0.5, 0.45, 0.2}, {0.2, 0.3, 0.7}, {0.8, 0.85, 0.82}, {0.4, 0.42, 0.45}}
	quiet := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	res, err := ccm.Train(camera, target, ccm.Options{Model: model.Poly4x3, MaxIterations: 200, Logger: quiet})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ccm.json")
	require.NoError(t, writeJSON(nil, path, res.Correction))
	var c ccm.Correction
	require.NoError(t, readJSON(path, &c))
	assert.Equal(t, res.Correction, c)

	predicted, _, err := ccm.Validate(camera, target, c, ccm.Options{Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, res.Predicted, predicted)
}

func TestConvertSpectra(t *testing.T) {
	wl := make([]float64, 0, 81)
	flat := make([]float64, 0, 81)
	for w := 380.0; w <= 780; w += 5 {
		wl = append(wl, w)
		flat = append(flat, 0.5)
	}
	doc := spectraDoc{Wavelengths: wl, Spectra: [][]float64{flat}, Illuminant: "d50"}
	s := settings{Illuminant: colorimetry.IlluminantD65, Observer: colorimetry.Observer1931, Space: colorimetry.SpaceXYZ}

	fromDoc, err := convertSpectra(doc, s, false)
	require.NoError(t, err)
	fromFlag, err := convertSpectra(doc, s, true)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, fromDoc[0][1], 1e-9)
	assert.InDelta(t, 0.5, fromFlag[0][1], 1e-9)
	// D50 is yellower than D65
	assert.Less(t, fromDoc[0][2], fromFlag[0][2])

	doc.Illuminant = "D93"
	_, err = convertSpectra(doc, s, false)
	assert.ErrorIs(t, err, colorimetry.ErrUnsupportedEnum)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false).Info("hidden")
	newLogger(&buf, false).Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	newLogger(&buf, true).Debug("details")
	assert.Contains(t, buf.String(), "details")
}

func TestTrainOptionsDefaults(t *testing.T) {
	opts, err := trainOptions()
	require.NoError(t, err)
	assert.Equal(t, model.Linear3x3, opts.Model)
	assert.Equal(t, deltae.CIEDE00, opts.Loss)
	assert.Equal(t, colorimetry.IlluminantD65, opts.Illuminant)
	assert.Len(t, opts.Metrics, 5)
	assert.Equal(t, 2000, opts.MaxIterations)
}
