package colorimetry

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every package in this module. Callers match with
// errors.Is.
var (
	ErrInvalidShape    = errors.New("invalid shape")
	ErrOutOfRange      = errors.New("value out of range")
	ErrUnsupportedEnum = errors.New("unsupported value")

	ErrShapeMismatch         = fmt.Errorf("shape mismatch: %w", ErrInvalidShape)
	ErrUnsupportedWhitePoint = fmt.Errorf("white point: %w", ErrUnsupportedEnum)
)

// CheckSamples reports ErrOutOfRange if any value lies outside [0,1].
func CheckSamples(name string, rows [][3]float64) error {
	for i, r := range rows {
		for j, v := range r {
			if !(v >= 0 && v <= 1) {
				return fmt.Errorf("%s[%d][%d] = %g not in [0,1]: %w", name, i, j, v, ErrOutOfRange)
			}
		}
	}
	return nil
}

// CheckPaired reports ErrShapeMismatch unless both batches have the same,
// non-zero, number of rows.
func CheckPaired(x, y [][3]float64) error {
	if len(x) == 0 {
		return fmt.Errorf("empty sample batch: %w", ErrInvalidShape)
	}
	if len(x) != len(y) {
		return fmt.Errorf("%d rows vs %d rows: %w", len(x), len(y), ErrShapeMismatch)
	}
	return nil
}
