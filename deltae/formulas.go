package deltae

import (
	"math"

	"github.com/jkl1337/go-chromath"
	chromade "github.com/jkl1337/go-chromath/deltae"
)

const (
	deg = math.Pi / 180
	// chroma products below this are treated as achromatic
	achromatic = 1e-12
)

// hue returns the hue angle of (a, b) in degrees within [0, 360). A
// neutral color has hue 0.
func hue(b, a float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	h := math.Atan2(b, a) / deg
	if h < 0 {
		h += 360
	}
	return h
}

// MeanSquared is the row-wise mean of squared channel differences in the
// original response space. omitLightness has no effect.
func MeanSquared(x, y [][3]float64, _ bool) ([]float64, error) {
	if e := check(x, y); e != nil {
		return nil, e
	}
	out := make([]float64, len(x))
	for i := range x {
		out[i] = (sq(x[i][0]-y[i][0]) + sq(x[i][1]-y[i][1]) + sq(x[i][2]-y[i][2])) / 3
	}
	return out, nil
}

// withLightness gives sample the lightness of std when omitLightness is
// set, which zeroes the lightness term of every formula.
func withLightness(std, sample [3]float64, omitLightness bool) (chromath.Lab, chromath.Lab) {
	if omitLightness {
		sample[0] = std[0]
	}
	return chromath.Lab(std), chromath.Lab(sample)
}

// CIE76 is the Euclidean distance in L*a*b*, or in a*b* only when
// omitLightness is set.
func CIE76(x, y [][3]float64, omitLightness bool) ([]float64, error) {
	if e := check(x, y); e != nil {
		return nil, e
	}
	out := make([]float64, len(x))
	for i := range x {
		out[i] = chromade.CIE76(withLightness(x[i], y[i], omitLightness))
	}
	return out, nil
}

// CIE94 uses the graphic arts weights (kL = 1, K1 = 0.045, K2 = 0.015).
// x is the reference: its chroma sets the weighting functions.
func CIE94(x, y [][3]float64, omitLightness bool) ([]float64, error) {
	if e := check(x, y); e != nil {
		return nil, e
	}
	out := make([]float64, len(x))
	for i := range x {
		std, sample := withLightness(x[i], y[i], omitLightness)
		d := chromade.CIE94(std, sample, &chromade.KLCH94GraphicArts)
		// ΔH² is not clamped, so a zero difference can round to the root
		// of a tiny negative number
		if math.IsNaN(d) {
			d = 0
		}
		out[i] = d
	}
	return out, nil
}

// CMCL and CMCC are the lightness and chroma weights of the CMC(l:c)
// formula.
const (
	CMCL = 2.0
	CMCC = 1.0
)

// CMC is the CMC(l:c) difference with l = CMCL and c = CMCC. x is the
// reference sample.
func CMC(x, y [][3]float64, omitLightness bool) ([]float64, error) {
	if e := check(x, y); e != nil {
		return nil, e
	}
	out := make([]float64, len(x))
	for i := range x {
		l1, a1, b1 := x[i][0], x[i][1], x[i][2]
		l2, a2, b2 := y[i][0], y[i][1], y[i][2]
		c1 := math.Hypot(a1, b1)
		c2 := math.Hypot(a2, b2)
		h1 := hue(b1, a1)

		dL := l1 - l2
		dC := c1 - c2
		dH2 := math.Max(sq(a1-a2)+sq(b1-b2)-sq(dC), 0)

		sL := 0.511
		if l1 >= 16 {
			sL = 0.040975 * l1 / (1 + 0.01765*l1)
		}
		sC := 0.0638*c1/(1+0.0131*c1) + 0.638

		var t float64
		if h1 >= 164 && h1 <= 345 {
			t = 0.56 + math.Abs(0.2*math.Cos((h1+168)*deg))
		} else {
			t = 0.36 + math.Abs(0.4*math.Cos((h1+35)*deg))
		}
		c4 := sq(sq(c1))
		f := math.Sqrt(c4 / (c4 + 1900))
		sH := sC * (f*t + 1 - f)

		vL := dL / (CMCL * sL)
		if omitLightness {
			vL = 0
		}
		out[i] = math.Sqrt(sq(vL) + sq(dC/(CMCC*sC)) + dH2/sq(sH))
	}
	return out, nil
}

// CIEDE2000 implements the CIE 2000 color difference with kL = kC = kH = 1,
// following Sharma, Wu and Dalal (2005).
func CIEDE2000(x, y [][3]float64, omitLightness bool) ([]float64, error) {
	if e := check(x, y); e != nil {
		return nil, e
	}
	out := make([]float64, len(x))
	for i := range x {
		out[i] = ciede2000(x[i], y[i], omitLightness)
	}
	return out, nil
}

func ciede2000(lab1, lab2 [3]float64, omitLightness bool) float64 {
	const (
		kL, kC, kH = 1.0, 1.0, 1.0
		pow25to7   = 6103515625.0 // 25^7
	)
	l1, a1, b1 := lab1[0], lab1[1], lab1[2]
	l2, a2, b2 := lab2[0], lab2[1], lab2[2]

	cBar := (math.Hypot(a1, b1) + math.Hypot(a2, b2)) / 2
	cBar7 := math.Pow(cBar, 7)
	g := 0.5 * (1 - math.Sqrt(cBar7/(cBar7+pow25to7)))

	a1p := (1 + g) * a1
	a2p := (1 + g) * a2
	c1p := math.Hypot(a1p, b1)
	c2p := math.Hypot(a2p, b2)
	h1p := hue(b1, a1p)
	h2p := hue(b2, a2p)

	dLp := l2 - l1
	dCp := c2p - c1p

	// Hue difference in (-180, 180], taken from the angle between the two
	// chroma vectors so that the wrap is decided once. Antiparallel vectors
	// keep the sign of the unwrapped difference. Undefined when either color
	// is achromatic, where it is taken as 0.
	var dhp float64
	cProd := c1p * c2p
	if cProd > achromatic {
		cross := a1p*b2 - b1*a2p
		dot := a1p*a2p + b1*b2
		switch {
		case cross == 0 && dot < 0 && h2p < h1p:
			dhp = -180
		case cross == 0 && dot < 0:
			dhp = 180
		default:
			dhp = math.Atan2(cross, dot) / deg
		}
	}
	dHp := 2 * math.Sqrt(cProd) * math.Sin(dhp*deg/2)

	lBarP := (l1 + l2) / 2
	cBarP := (c1p + c2p) / 2

	hBarP := h1p + h2p
	if cProd > achromatic {
		hBarP = math.Mod(h1p+dhp/2+360, 360)
	}

	t := 1 -
		0.17*math.Cos((hBarP-30)*deg) +
		0.24*math.Cos(2*hBarP*deg) +
		0.32*math.Cos((3*hBarP+6)*deg) -
		0.20*math.Cos((4*hBarP-63)*deg)

	dTheta := 30 * math.Exp(-sq((hBarP-275)/25))
	cBarP7 := math.Pow(cBarP, 7)
	rC := 2 * math.Sqrt(cBarP7/(cBarP7+pow25to7))
	l50 := sq(lBarP - 50)
	sL := 1 + 0.015*l50/math.Sqrt(20+l50)
	sC := 1 + 0.045*cBarP
	sH := 1 + 0.015*cBarP*t
	rT := -math.Sin(2*dTheta*deg) * rC

	vL := dLp / (kL * sL)
	if omitLightness {
		vL = 0
	}
	vC := dCp / (kC * sC)
	vH := dHp / (kH * sH)
	return math.Sqrt(sq(vL) + sq(vC) + sq(vH) + rT*vC*vH)
}
