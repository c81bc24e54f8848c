package colorimetry

import "fmt"

type whiteKey struct {
	ill Illuminant
	obs Observer
}

// Tristimulus values of the reference whites, Y normalized to 100.
var whitePoints = map[whiteKey][3]float64{
	{IlluminantA, Observer1931}:   {109.850, 100, 35.585},
	{IlluminantC, Observer1931}:   {98.074, 100, 118.232},
	{IlluminantD50, Observer1931}: {96.422, 100, 82.521},
	{IlluminantD55, Observer1931}: {95.682, 100, 92.149},
	{IlluminantD65, Observer1931}: {95.047, 100, 108.883},
	{IlluminantD75, Observer1931}: {94.972, 100, 122.638},
	{IlluminantF2, Observer1931}:  {99.187, 100, 67.395},
	{IlluminantF7, Observer1931}:  {95.044, 100, 108.755},
	{IlluminantF11, Observer1931}: {100.966, 100, 64.370},

	{IlluminantA, Observer1964}:   {111.144, 100, 35.200},
	{IlluminantC, Observer1964}:   {97.285, 100, 116.145},
	{IlluminantD50, Observer1964}: {96.720, 100, 81.427},
	{IlluminantD55, Observer1964}: {95.799, 100, 90.926},
	{IlluminantD65, Observer1964}: {94.811, 100, 107.304},
	{IlluminantD75, Observer1964}: {94.416, 100, 120.641},
	{IlluminantF2, Observer1964}:  {103.280, 100, 69.026},
	{IlluminantF7, Observer1964}:  {95.792, 100, 107.687},
	{IlluminantF11, Observer1964}: {103.866, 100, 65.627},
}

// WhitePoint returns the XYZ of the reference white for an illuminant seen
// by an observer, scaled so that Y = 100.
func WhitePoint(ill Illuminant, obs Observer) ([3]float64, error) {
	w, ok := whitePoints[whiteKey{ill, obs}]
	if !ok {
		return [3]float64{}, fmt.Errorf("%s/%s: %w", ill, obs, ErrUnsupportedWhitePoint)
	}
	return w, nil
}
