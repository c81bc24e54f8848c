package colorimetry

import (
	"fmt"

	"github.com/jkl1337/go-chromath"
)

// Lab transformers for every tabulated white, built once.
var labTransformers = func() map[whiteKey]*chromath.LabTransformer {
	m := make(map[whiteKey]*chromath.LabTransformer, len(whitePoints))
	for k, w := range whitePoints {
		m[k] = labTransformer(w)
	}
	return m
}()

func labTransformer(white [3]float64) *chromath.LabTransformer {
	return chromath.NewLabTransformer(&chromath.IlluminantRef{XYZ: chromath.XYZ(white)})
}

// XYZToLabRow converts one XYZ triplet to L*a*b*. xyz and white must use the
// same scale (Y of white = 100 for the tabulated white points).
func XYZToLabRow(xyz, white [3]float64) [3]float64 {
	return [3]float64(labTransformer(white).Invert(chromath.XYZ(xyz)))
}

// LabToXYZRow is the inverse of XYZToLabRow.
func LabToXYZRow(lab, white [3]float64) [3]float64 {
	return [3]float64(labTransformer(white).Convert(chromath.Lab(lab)))
}

// XYZToLab converts a batch of XYZ rows to L*a*b*.
func XYZToLab(xyz [][3]float64, white [3]float64) [][3]float64 {
	t := labTransformer(white)
	lab := make([][3]float64, len(xyz))
	for i, v := range xyz {
		lab[i] = [3]float64(t.Invert(chromath.XYZ(v)))
	}
	return lab
}

// LabToXYZ converts a batch of L*a*b* rows back to XYZ.
func LabToXYZ(lab [][3]float64, white [3]float64) [][3]float64 {
	t := labTransformer(white)
	xyz := make([][3]float64, len(lab))
	for i, v := range lab {
		xyz[i] = [3]float64(t.Convert(chromath.Lab(v)))
	}
	return xyz
}

// LinSRGBToLab converts one linear sRGB triplet in [0,1] to L*a*b* under
// D65 and the 1931 observer.
func LinSRGBToLab(rgb [3]float64) [3]float64 {
	xyz := LinSRGBToXYZRow(rgb)
	t := labTransformers[whiteKey{IlluminantD65, Observer1931}]
	return [3]float64(t.Invert(chromath.XYZ{100 * xyz[0], 100 * xyz[1], 100 * xyz[2]}))
}

// ToLab converts [0,1] samples of the given color space into L*a*b*.
// XYZ samples use the white of (ill, obs); linear sRGB is always referred to
// D65 and the 1931 observer, the conditions sRGB is defined under.
func ToLab(colors [][3]float64, space ColorSpace, ill Illuminant, obs Observer) ([][3]float64, error) {
	lab := make([][3]float64, len(colors))
	switch space {
	case SpaceSRGB:
		for i, v := range colors {
			lab[i] = LinSRGBToLab(v)
		}
		return lab, nil
	case SpaceXYZ:
	default:
		return nil, fmt.Errorf("color space %q: %w", space, ErrUnsupportedEnum)
	}
	t, ok := labTransformers[whiteKey{ill, obs}]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", ill, obs, ErrUnsupportedWhitePoint)
	}
	for i, v := range colors {
		lab[i] = [3]float64(t.Invert(chromath.XYZ{100 * v[0], 100 * v[1], 100 * v[2]}))
	}
	return lab, nil
}
