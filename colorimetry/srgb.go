package colorimetry

// XYZ (D65) to linear sRGB.
var xyzToSRGB = [3][3]float64{
	{3.2404542, -1.5371385, -0.4985314},
	{-0.9692660, 1.8760108, 0.0415560},
	{0.0556434, -0.2040259, 1.0572252},
}

// sRGBToXYZ is the inverse of xyzToSRGB to double precision, so a round
// trip through both matrices is lossless for in-gamut colors.
var sRGBToXYZ = [3][3]float64{
	{0.41245643226823603, 0.35757607628002747, 0.1804374802944501},
	{0.212672846318362, 0.7151521671548808, 0.07217499957321262},
	{0.01933390410329902, 0.11919202824322096, 0.950304073677404},
}

func apply3(m *[3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// XYZToLinSRGBRow converts XYZ in [0,1] to linear sRGB without clipping.
func XYZToLinSRGBRow(xyz [3]float64) [3]float64 {
	return apply3(&xyzToSRGB, xyz)
}

// XYZToLinSRGB converts XYZ rows in [0,1] to linear sRGB. Out of gamut
// channels are clamped to [0,1], so the conversion is lossy for them.
func XYZToLinSRGB(xyz [][3]float64) [][3]float64 {
	rgb := make([][3]float64, len(xyz))
	for i, v := range xyz {
		c := XYZToLinSRGBRow(v)
		for j := range c {
			c[j] = clamp(c[j], 0, 1)
		}
		rgb[i] = c
	}
	return rgb
}

// LinSRGBToXYZRow converts one linear sRGB triplet to XYZ.
func LinSRGBToXYZRow(rgb [3]float64) [3]float64 {
	return apply3(&sRGBToXYZ, rgb)
}

// LinSRGBToXYZ converts linear sRGB rows to XYZ. No clamping is applied.
func LinSRGBToXYZ(rgb [][3]float64) [][3]float64 {
	xyz := make([][3]float64, len(rgb))
	for i, v := range rgb {
		xyz[i] = LinSRGBToXYZRow(v)
	}
	return xyz
}
