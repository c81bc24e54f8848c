package colorimetry

import (
	"fmt"
	"strings"
)

// Observer identifies a CIE standard observer.
type Observer string

const (
	Observer1931 Observer = "1931" // 2 degree
	Observer1964 Observer = "1964" // 10 degree
)

// ParseObserver accepts "1931" or "1964".
func ParseObserver(s string) (Observer, error) {
	switch o := Observer(strings.TrimSpace(s)); o {
	case Observer1931, Observer1964:
		return o, nil
	}
	return "", fmt.Errorf("observer %q: %w", s, ErrUnsupportedEnum)
}

// Illuminant is a CIE reference illuminant name.
type Illuminant string

const (
	IlluminantA   Illuminant = "A"
	IlluminantC   Illuminant = "C"
	IlluminantD50 Illuminant = "D50"
	IlluminantD55 Illuminant = "D55"
	IlluminantD65 Illuminant = "D65"
	IlluminantD75 Illuminant = "D75"
	IlluminantF2  Illuminant = "F2"
	IlluminantF7  Illuminant = "F7"
	IlluminantF11 Illuminant = "F11"
)

// Illuminants lists every supported reference illuminant.
var Illuminants = []Illuminant{
	IlluminantA, IlluminantC,
	IlluminantD50, IlluminantD55, IlluminantD65, IlluminantD75,
	IlluminantF2, IlluminantF7, IlluminantF11,
}

// ParseIlluminant is case-insensitive: "d65" and "D65" are the same.
func ParseIlluminant(s string) (Illuminant, error) {
	name := Illuminant(strings.ToUpper(strings.TrimSpace(s)))
	for _, ill := range Illuminants {
		if ill == name {
			return ill, nil
		}
	}
	return "", fmt.Errorf("illuminant %q: %w", s, ErrUnsupportedEnum)
}

// ColorSpace is the space target colors are expressed in.
type ColorSpace string

const (
	SpaceSRGB ColorSpace = "sRGB" // linear sRGB, D65
	SpaceXYZ  ColorSpace = "XYZ"
)

// ParseColorSpace accepts "sRGB" or "XYZ" in any letter case.
func ParseColorSpace(s string) (ColorSpace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "srgb":
		return SpaceSRGB, nil
	case "xyz":
		return SpaceXYZ, nil
	}
	return "", fmt.Errorf("color space %q: %w", s, ErrUnsupportedEnum)
}
