// Package spectra integrates spectral measurements against a standard
// observer to produce tristimulus values.
package spectra

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmuldo/colorcal/colorimetry"
)

// ErrMissingIlluminant is returned when reflectance spectra are integrated
// without an illuminant.
var ErrMissingIlluminant = errors.New("missing illuminant")

// LargeBatch is the number of spectra above which the spectra themselves
// are no longer resampled. The illuminant and observer are resampled onto
// the native spectral grid instead, trading interpolation accuracy for speed.
const LargeBatch = 1000

// Default wavelength range assumed when the caller gives none.
const (
	DefaultStart = 380.0
	DefaultEnd   = 780.0
)

// Options controls ToColors.
type Options struct {
	// Illuminant names a built-in SPD. Ignored when SPD is set.
	Illuminant colorimetry.Illuminant
	// SPD is an explicit illuminant. If its Wavelengths are empty it must
	// share the grid of the spectra.
	SPD *SPD
	// Embedded marks radiance spectra that already include the illuminant.
	Embedded bool
	Observer colorimetry.Observer
	// Space selects XYZ (default) or linear sRGB output.
	Space  colorimetry.ColorSpace
	Logger *slog.Logger
}

//**exported functions**//

// ToColors converts N spectra sampled at wavelengths into N tristimulus
// triplets. For reflectance spectra the result is scaled so that a perfect
// diffuser has Y = 1.
func ToColors(spectra [][]float64, wavelengths []float64, opts Options) ([][3]float64, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if len(spectra) == 0 {
		return nil, fmt.Errorf("no spectra: %w", colorimetry.ErrInvalidShape)
	}
	w := len(spectra[0])
	for i, row := range spectra {
		if len(row) != w {
			return nil, fmt.Errorf("spectrum %d has %d samples, want %d: %w", i, len(row), w, colorimetry.ErrInvalidShape)
		}
	}

	obs := opts.Observer
	if obs == "" {
		obs = colorimetry.Observer1931
	}
	cmf, e := ColorMatching(obs)
	if e != nil {
		return nil, e
	}
	space := opts.Space
	if space == "" {
		space = colorimetry.SpaceXYZ
	}
	if space != colorimetry.SpaceXYZ && space != colorimetry.SpaceSRGB {
		return nil, fmt.Errorf("color space %q: %w", space, colorimetry.ErrUnsupportedEnum)
	}

	spd, e := illuminant(opts, w)
	if e != nil {
		return nil, e
	}

	switch {
	case wavelengths != nil:
	case spd != nil && opts.SPD != nil && len(opts.SPD.Wavelengths) == w:
		log.Warn("no wavelengths given for spectra, using the illuminant's", "from", spd.Wavelengths[0], "to", spd.Wavelengths[w-1])
		wavelengths = spd.Wavelengths
	default:
		wavelengths = linspace(DefaultStart, DefaultEnd, w)
		log.Warn("no wavelengths given for spectra, assuming a uniform grid", "from", DefaultStart, "to", DefaultEnd, "samples", w)
	}
	if len(wavelengths) != w {
		return nil, fmt.Errorf("%d wavelengths for %d spectral samples: %w", len(wavelengths), w, colorimetry.ErrInvalidShape)
	}
	if e := checkGrid("spectra", wavelengths); e != nil {
		return nil, e
	}
	if spd != nil && len(spd.Wavelengths) == 0 {
		spd = &SPD{Wavelengths: wavelengths, Values: spd.Values}
	}

	grids := [][]float64{wavelengths, cmf.Wavelengths}
	if spd != nil {
		if e := checkGrid("illuminant", spd.Wavelengths); e != nil {
			return nil, e
		}
		grids = append(grids, spd.Wavelengths)
	}
	lo, hi, e := overlap(grids...)
	if e != nil {
		return nil, e
	}
	if wavelengths[0] < lo || wavelengths[w-1] > hi {
		log.Warn("dropping spectral data outside the common wavelength range", "from", lo, "to", hi)
	}

	// Bring every curve onto one grid.
	var grid []float64
	var samples [][]float64
	if len(spectra) > LargeBatch {
		idx := within(wavelengths, lo, hi)
		if len(idx) < 2 {
			return nil, fmt.Errorf("fewer than 2 native wavelengths in %g..%g: %w", lo, hi, colorimetry.ErrInvalidShape)
		}
		log.Info("large batch, integrating on the native spectral grid without resampling", "spectra", len(spectra), "threshold", LargeBatch)
		grid = make([]float64, len(idx))
		for i, j := range idx {
			grid[i] = wavelengths[j]
		}
		samples = make([][]float64, len(spectra))
		for n, row := range spectra {
			samples[n] = make([]float64, len(idx))
			for i, j := range idx {
				samples[n][i] = row[j]
			}
		}
	} else {
		grid = uniformGrid(lo, hi)
		samples = make([][]float64, len(spectra))
		for n, row := range spectra {
			if samples[n], e = resample(wavelengths, row, grid); e != nil {
				return nil, fmt.Errorf("spectrum %d: %w", n, e)
			}
		}
	}
	var xbar, ybar, zbar []float64
	if xbar, e = resample(cmf.Wavelengths, cmf.X, grid); e != nil {
		return nil, e
	}
	if ybar, e = resample(cmf.Wavelengths, cmf.Y, grid); e != nil {
		return nil, e
	}
	if zbar, e = resample(cmf.Wavelengths, cmf.Z, grid); e != nil {
		return nil, e
	}
	dl := weights(grid)

	// Fold the illuminant and interval weights into the observer curves.
	k := 1.0
	if spd != nil {
		power, e := resample(spd.Wavelengths, spd.Values, grid)
		if e != nil {
			return nil, fmt.Errorf("illuminant: %w", e)
		}
		norm := 0.0
		for i := range grid {
			dl[i] *= power[i]
			norm += dl[i] * ybar[i]
		}
		if norm <= 0 {
			return nil, fmt.Errorf("illuminant has no luminance in %g..%g: %w", lo, hi, colorimetry.ErrOutOfRange)
		}
		k = 1 / norm
	}

	colors := make([][3]float64, len(samples))
	for n, s := range samples {
		var x, y, z float64
		for i, v := range s {
			c := dl[i] * v
			x += c * xbar[i]
			y += c * ybar[i]
			z += c * zbar[i]
		}
		colors[n] = [3]float64{k * x, k * y, k * z}
	}

	if space == colorimetry.SpaceSRGB {
		colors = colorimetry.XYZToLinSRGB(colors)
	}
	return colors, nil
}

// illuminant resolves the SPD requested by opts. It returns nil for
// embedded illuminants.
func illuminant(opts Options, w int) (*SPD, error) {
	if opts.Embedded {
		return nil, nil
	}
	if opts.SPD != nil && opts.SPD.Len() > 0 {
		s := *opts.SPD
		if len(s.Wavelengths) == 0 && s.Len() != w {
			return nil, fmt.Errorf("illuminant without wavelengths has %d samples, spectra have %d: %w", s.Len(), w, colorimetry.ErrInvalidShape)
		}
		if len(s.Wavelengths) != 0 && len(s.Wavelengths) != s.Len() {
			return nil, fmt.Errorf("illuminant has %d wavelengths for %d values: %w", len(s.Wavelengths), s.Len(), colorimetry.ErrInvalidShape)
		}
		return &s, nil
	}
	if opts.Illuminant == "" {
		return nil, ErrMissingIlluminant
	}
	s, e := Named(opts.Illuminant)
	if e != nil {
		return nil, e
	}
	return &s, nil
}
