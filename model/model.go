// Package model expands camera responses into the feature rows used by
// linear, polynomial and root-polynomial color correction.
package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/mmuldo/colorcal/colorimetry"
)

// Model names a color correction model.
type Model string

const (
	Linear3x3 Model = "linear3x3"
	Root6x3   Model = "root6x3"
	Root13x3  Model = "root13x3"
	Poly4x3   Model = "poly4x3"
	Poly6x3   Model = "poly6x3"
	Poly7x3   Model = "poly7x3"
	Poly9x3   Model = "poly9x3"
)

type definition struct {
	features int
	// has a constant term of its own
	biased bool
	// expand(s*rgb) == s*expand(rgb)
	homogeneous bool
	fill        func(r, g, b float64, out []float64)
}

var models = map[Model]definition{
	Linear3x3: {3, false, true, linear},
	Poly4x3:   {4, true, false, poly4},
	Poly6x3:   {6, false, false, poly6},
	Poly7x3:   {7, true, false, poly7},
	Poly9x3:   {9, false, false, poly9},
	Root6x3:   {6, false, true, root6},
	Root13x3:  {13, false, true, root13},
}

// Models lists every supported model.
var Models = []Model{Linear3x3, Root6x3, Root13x3, Poly4x3, Poly6x3, Poly7x3, Poly9x3}

// Parse validates a model name.
func Parse(s string) (Model, error) {
	m := Model(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := models[m]; !ok {
		return "", fmt.Errorf("model %q: %w", s, colorimetry.ErrUnsupportedEnum)
	}
	return m, nil
}

// Biased reports whether the model already carries a constant term.
func (m Model) Biased() bool {
	return models[m].biased
}

func linear(r, g, b float64, out []float64) {
	out[0], out[1], out[2] = r, g, b
}

func poly4(r, g, b float64, out []float64) {
	linear(r, g, b, out)
	out[3] = 1
}

func poly6(r, g, b float64, out []float64) {
	linear(r, g, b, out)
	out[3], out[4], out[5] = r*g, g*b, r*b
}

func poly7(r, g, b float64, out []float64) {
	poly6(r, g, b, out)
	out[6] = 1
}

func poly9(r, g, b float64, out []float64) {
	poly6(r, g, b, out)
	out[6], out[7], out[8] = r*r, g*g, b*b
}

// Negative products are clamped to 0 before taking roots, so negative
// channels never yield NaN features.

func sqrt0(v float64) float64 {
	return math.Sqrt(math.Max(v, 0))
}

func cbrt0(v float64) float64 {
	return math.Cbrt(math.Max(v, 0))
}

func root6(r, g, b float64, out []float64) {
	linear(r, g, b, out)
	out[3], out[4], out[5] = sqrt0(r*g), sqrt0(g*b), sqrt0(r*b)
}

// root13 is the degree 3 root-polynomial of Finlayson, Mackiewicz and
// Hurlbert (2015).
func root13(r, g, b float64, out []float64) {
	root6(r, g, b, out)
	out[6] = cbrt0(r * g * g)
	out[7] = cbrt0(r * b * b)
	out[8] = cbrt0(g * b * b)
	out[9] = cbrt0(g * r * r)
	out[10] = cbrt0(b * g * g)
	out[11] = cbrt0(b * r * r)
	out[12] = cbrt0(r * g * b)
}

//**exported functions**//

// Expander maps camera responses to feature rows for one model.
type Expander struct {
	Model Model
	// Bias appends a constant 1 feature. It is ignored for models that
	// already have one.
	Bias bool
}

// New validates m and returns its expander.
func New(m Model, bias bool) (Expander, error) {
	if _, ok := models[m]; !ok {
		return Expander{}, fmt.Errorf("model %q: %w", m, colorimetry.ErrUnsupportedEnum)
	}
	return Expander{Model: m, Bias: bias}, nil
}

func (x Expander) bias() bool {
	return x.Bias && !models[x.Model].biased
}

// Features is the number of features per row, i.e. the number of rows the
// correction matrix must have.
func (x Expander) Features() int {
	n := models[x.Model].features
	if x.bias() {
		n++
	}
	return n
}

// Homogeneous reports whether scaling the input by s scales every feature
// by s. For such expansions a global scale factor is redundant with the
// matrix.
func (x Expander) Homogeneous() bool {
	return models[x.Model].homogeneous && !x.bias()
}

// ExpandRow writes the features of one rgb triplet into out, which must
// have Features() elements.
func (x Expander) ExpandRow(rgb [3]float64, out []float64) {
	models[x.Model].fill(rgb[0], rgb[1], rgb[2], out)
	if x.bias() {
		out[len(out)-1] = 1
	}
}

// Expand returns the feature rows of rgb scaled by scale.
func (x Expander) Expand(rgb [][3]float64, scale float64) ([][]float64, error) {
	if _, ok := models[x.Model]; !ok {
		return nil, fmt.Errorf("model %q: %w", x.Model, colorimetry.ErrUnsupportedEnum)
	}
	f := x.Features()
	data := make([]float64, len(rgb)*f)
	rows := make([][]float64, len(rgb))
	for i, v := range rgb {
		rows[i] = data[i*f : (i+1)*f : (i+1)*f]
		x.ExpandRow([3]float64{scale * v[0], scale * v[1], scale * v[2]}, rows[i])
	}
	return rows, nil
}

// CheckMatrix reports ErrShapeMismatch unless the matrix has one row per
// feature.
func (x Expander) CheckMatrix(matrix [][3]float64) error {
	if len(matrix) != x.Features() {
		return fmt.Errorf("%s needs a %dx3 matrix, got %dx3: %w", x.Model, x.Features(), len(matrix), colorimetry.ErrShapeMismatch)
	}
	return nil
}
