package spectra

import (
	"fmt"
	"math"

	"github.com/mmuldo/colorcal/colorimetry"
)

// SPD is a relative spectral power distribution sampled on Wavelengths (nm).
type SPD struct {
	Wavelengths []float64 `json:"wavelengths"`
	Values      []float64 `json:"values"`
}

// Len returns the number of samples.
func (s SPD) Len() int { return len(s.Values) }

// Named returns the built-in SPD of a CIE illuminant.
func Named(ill colorimetry.Illuminant) (SPD, error) {
	switch ill {
	case colorimetry.IlluminantA:
		return planckA(), nil
	case colorimetry.IlluminantD50:
		return daylight(5000 * 1.4388 / 1.4380), nil
	case colorimetry.IlluminantD55:
		return daylight(5500 * 1.4388 / 1.4380), nil
	case colorimetry.IlluminantD65:
		return daylight(6500 * 1.4388 / 1.4380), nil
	case colorimetry.IlluminantD75:
		return daylight(7500 * 1.4388 / 1.4380), nil
	case colorimetry.IlluminantC:
		return grid(380, 10, illC[:]), nil
	case colorimetry.IlluminantF2:
		return grid(380, 5, illF2[:]), nil
	case colorimetry.IlluminantF7:
		return grid(380, 5, illF7[:]), nil
	case colorimetry.IlluminantF11:
		return grid(380, 5, illF11[:]), nil
	}
	return SPD{}, fmt.Errorf("illuminant %q: %w", ill, colorimetry.ErrUnsupportedEnum)
}

func grid(start, step float64, values []float64) SPD {
	s := SPD{
		Wavelengths: make([]float64, len(values)),
		Values:      append([]float64(nil), values...),
	}
	for i := range values {
		s.Wavelengths[i] = start + step*float64(i)
	}
	return s
}

// planckA evaluates illuminant A as a Planckian radiator, normalized to 100
// at 560 nm.
func planckA() SPD {
	const (
		c2 = 1.435e7 // nm·K
		t  = 2848.0
	)
	s := SPD{}
	for wl := 380.0; wl <= 780; wl += 5 {
		v := 100 * math.Pow(560/wl, 5) * math.Expm1(c2/(t*560)) / math.Expm1(c2/(t*wl))
		s.Wavelengths = append(s.Wavelengths, wl)
		s.Values = append(s.Values, v)
	}
	return s
}

// daylight builds a CIE D-series illuminant of correlated color temperature
// cct from the S0, S1, S2 basis functions. The 10 nm result is linearly
// interpolated to 5 nm.
func daylight(cct float64) SPD {
	var xd float64
	if cct <= 7000 {
		xd = -4.6070e9/math.Pow(cct, 3) + 2.9678e6/(cct*cct) + 0.09911e3/cct + 0.244063
	} else {
		xd = -2.0064e9/math.Pow(cct, 3) + 1.9018e6/(cct*cct) + 0.24748e3/cct + 0.237040
	}
	yd := -3*xd*xd + 2.870*xd - 0.275

	m := 0.0241 + 0.2562*xd - 0.7341*yd
	m1 := round3((-1.3515 - 1.7703*xd + 5.9114*yd) / m)
	m2 := round3((0.0300 - 31.4424*xd + 30.0717*yd) / m)

	coarse := make([]float64, len(daylightS0))
	for i := range coarse {
		coarse[i] = daylightS0[i] + m1*daylightS1[i] + m2*daylightS2[i]
	}
	s := SPD{}
	for i, v := range coarse {
		wl := 380 + 10*float64(i)
		s.Wavelengths = append(s.Wavelengths, wl)
		s.Values = append(s.Values, v)
		if i+1 < len(coarse) {
			s.Wavelengths = append(s.Wavelengths, wl+5)
			s.Values = append(s.Values, (v+coarse[i+1])/2)
		}
	}
	return s
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Daylight basis functions, 380..780 nm at 10 nm.
var daylightS0 = [41]float64{
	63.4, 65.8, 94.8, 104.8, 105.9, 96.8, 113.9, 125.6, 125.5, 121.3,
	121.3, 113.5, 113.1, 110.8, 106.5, 108.8, 105.3, 104.4, 100.0, 96.0,
	95.1, 89.1, 90.5, 90.3, 88.4, 84.0, 85.1, 81.9, 82.6, 84.9,
	81.3, 71.9, 74.3, 76.4, 63.3, 71.7, 77.0, 65.2, 47.7, 68.6,
	65.0,
}

var daylightS1 = [41]float64{
	38.5, 35.0, 43.4, 46.3, 43.9, 37.1, 36.7, 35.9, 32.6, 27.9,
	24.3, 20.1, 16.2, 13.2, 8.6, 6.1, 4.2, 1.9, 0.0, -1.6,
	-3.5, -3.5, -5.8, -7.2, -8.6, -9.5, -10.9, -10.7, -12.0, -14.0,
	-13.6, -12.0, -13.3, -12.9, -10.6, -11.6, -12.2, -10.2, -7.8, -11.2,
	-10.4,
}

var daylightS2 = [41]float64{
	3.0, 1.2, -1.1, -0.5, -0.7, -1.2, -2.6, -2.9, -2.8, -2.6,
	-2.6, -1.8, -1.5, -1.3, -1.2, -1.0, -0.5, -0.3, 0.0, 0.2,
	0.5, 2.1, 3.2, 4.1, 4.7, 5.1, 6.7, 7.3, 8.6, 9.8,
	10.2, 8.3, 9.6, 8.5, 7.0, 7.6, 8.0, 6.7, 5.2, 7.4,
	6.8,
}

// Illuminant C, 380..780 nm at 10 nm.
var illC = [41]float64{
	33.00, 47.40, 63.30, 80.60, 98.10, 112.40, 121.50, 124.00, 123.10, 123.80,
	123.90, 120.70, 112.10, 102.30, 96.90, 98.00, 102.10, 105.20, 105.30, 102.30,
	97.80, 93.20, 89.70, 88.40, 88.10, 88.00, 87.80, 88.20, 87.90, 86.30,
	84.00, 80.20, 76.30, 72.40, 68.30, 64.40, 61.50, 59.20, 58.10, 58.20,
	59.10,
}

// Fluorescent illuminants, 380..780 nm at 5 nm.
var illF2 = [81]float64{
	1.18, 1.48, 1.84, 2.15, 3.44, 15.69, 3.85, 3.74, 4.19, 4.62,
	5.06, 34.98, 11.81, 6.27, 6.63, 6.93, 7.19, 7.40, 7.54, 7.62,
	7.65, 7.62, 7.62, 7.45, 7.28, 7.15, 7.05, 7.04, 7.16, 7.47,
	8.04, 8.88, 10.01, 24.88, 16.64, 14.59, 16.16, 17.56, 18.62, 21.47,
	22.79, 19.29, 18.66, 17.73, 16.54, 15.21, 13.80, 12.36, 10.95, 9.65,
	8.40, 7.32, 6.31, 5.43, 4.68, 4.02, 3.45, 2.96, 2.55, 2.19,
	1.89, 1.64, 1.53, 1.27, 1.10, 0.99, 0.88, 0.76, 0.68, 0.61,
	0.56, 0.54, 0.51, 0.47, 0.47, 0.43, 0.46, 0.47, 0.40, 0.33,
	0.27,
}

var illF7 = [81]float64{
	2.56, 3.18, 3.84, 4.53, 6.15, 19.37, 7.37, 7.05, 7.71, 8.41,
	9.15, 44.14, 17.52, 11.35, 12.00, 12.58, 13.08, 13.45, 13.71, 13.88,
	13.95, 13.93, 13.82, 13.64, 13.43, 13.25, 13.08, 12.93, 12.78, 12.60,
	12.44, 12.33, 12.26, 29.52, 17.05, 12.44, 12.58, 12.72, 12.83, 15.46,
	16.75, 12.83, 12.67, 12.45, 12.19, 11.89, 11.60, 11.35, 11.12, 10.95,
	10.76, 10.42, 10.11, 10.04, 10.02, 10.11, 9.87, 8.65, 7.27, 6.44,
	5.83, 5.41, 5.04, 4.57, 4.12, 3.77, 3.46, 3.08, 2.73, 2.47,
	2.25, 2.06, 1.90, 1.75, 1.62, 1.54, 1.45, 1.32, 1.17, 0.99,
	0.81,
}

var illF11 = [81]float64{
	0.91, 0.63, 0.46, 0.37, 1.29, 12.68, 1.59, 1.79, 2.46, 3.33,
	4.49, 33.94, 12.13, 6.95, 7.19, 7.12, 6.72, 6.13, 5.46, 4.79,
	5.66, 14.29, 14.96, 8.97, 4.72, 2.33, 1.47, 1.10, 0.89, 0.83,
	1.18, 4.90, 39.59, 72.84, 32.61, 7.52, 2.83, 1.96, 1.67, 4.43,
	11.28, 14.76, 12.73, 9.74, 7.33, 9.72, 55.27, 42.58, 13.18, 13.16,
	12.26, 5.11, 2.07, 2.34, 3.58, 3.01, 2.48, 2.14, 1.54, 1.33,
	1.46, 1.94, 2.00, 1.20, 1.35, 4.10, 5.58, 2.51, 0.57, 0.27,
	0.23, 0.21, 0.24, 0.24, 0.20, 0.24, 0.32, 0.26, 0.16, 0.12,
	0.09,
}
