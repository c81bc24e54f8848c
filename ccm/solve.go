package ccm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// rankTolerance is the relative singular value threshold below which the
// feature matrix is considered rank deficient.
const rankTolerance = 1e-10

// ridgeFactor scales the mean diagonal of XᵀX into the ridge added when the
// feature matrix is rank deficient.
const ridgeFactor = 1e-8

func dense(rows [][]float64) *mat.Dense {
	n, f := len(rows), len(rows[0])
	data := make([]float64, 0, n*f)
	for _, r := range rows {
		data = append(data, r...)
	}
	return mat.NewDense(n, f, data)
}

func dense3(rows [][3]float64) *mat.Dense {
	data := make([]float64, 0, 3*len(rows))
	for _, r := range rows {
		data = append(data, r[0], r[1], r[2])
	}
	return mat.NewDense(len(rows), 3, data)
}

// rank returns the numerical rank of x.
func rank(x *mat.Dense) int {
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDNone) {
		return 0
	}
	vals := svd.Values(nil)
	if len(vals) == 0 || vals[0] == 0 {
		return 0
	}
	r := 0
	for _, v := range vals {
		if v > rankTolerance*vals[0] {
			r++
		}
	}
	return r
}

// leastSquares solves min ‖X·M − Y‖ for the F×3 matrix M.
//
// ridge > 0 solves the regularized normal equations (XᵀX + ridge·I)M = XᵀY
// instead of the QR least squares problem. A non-nil white adds the equality
// constraint e·M = white, solved through the KKT system
//
//	[ XᵀX + ridge·I  eᵀ ] [M]   [XᵀY  ]
//	[ e              0  ] [λ] = [white]
func leastSquares(features [][]float64, target [][3]float64, ridge float64, e []float64, white *[3]float64) ([][3]float64, error) {
	x := dense(features)
	y := dense3(target)
	_, f := x.Dims()

	var sol mat.Dense
	if white == nil && ridge == 0 {
		if err := sol.Solve(x, y); err != nil {
			return nil, fmt.Errorf("least squares: %w", err)
		}
		return toMatrix(&sol, f)
	}

	var xtx, xty mat.Dense
	xtx.Mul(x.T(), x)
	xty.Mul(x.T(), y)

	size := f
	if white != nil {
		size++
	}
	a := mat.NewDense(size, size, nil)
	b := mat.NewDense(size, 3, nil)
	a.Slice(0, f, 0, f).(*mat.Dense).Copy(&xtx)
	b.Slice(0, f, 0, 3).(*mat.Dense).Copy(&xty)
	for i := 0; i < f; i++ {
		a.Set(i, i, a.At(i, i)+ridge)
	}
	if white != nil {
		for i := 0; i < f; i++ {
			a.Set(f, i, e[i])
			a.Set(i, f, e[i])
		}
		for j := 0; j < 3; j++ {
			b.Set(f, j, white[j])
		}
	}
	if err := sol.Solve(a, b); err != nil {
		return nil, fmt.Errorf("normal equations: %w", err)
	}
	return toMatrix(&sol, f)
}

// ridgeFor returns the ridge used for a rank deficient feature matrix.
func ridgeFor(features [][]float64) float64 {
	trace := 0.0
	for _, r := range features {
		for _, v := range r {
			trace += v * v
		}
	}
	f := float64(len(features[0]))
	return ridgeFactor * math.Max(trace/f, 1)
}

func toMatrix(sol *mat.Dense, f int) ([][3]float64, error) {
	m := make([][3]float64, f)
	for i := range m {
		for j := 0; j < 3; j++ {
			v := sol.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("non-finite matrix entry (%d,%d): %w", i, j, ErrRankDeficient)
			}
			m[i][j] = v
		}
	}
	return m, nil
}

// multiply returns features · matrix.
func multiply(features [][]float64, matrix [][3]float64) [][3]float64 {
	out := make([][3]float64, len(features))
	for i, row := range features {
		var p [3]float64
		for k, v := range row {
			p[0] += v * matrix[k][0]
			p[1] += v * matrix[k][1]
			p[2] += v * matrix[k][2]
		}
		out[i] = p
	}
	return out
}

// project moves matrix onto the affine set {M : e·M = white} along e.
func project(matrix [][3]float64, e []float64, white [3]float64) {
	ee := 0.0
	for _, v := range e {
		ee += v * v
	}
	for j := 0; j < 3; j++ {
		r := -white[j]
		for k, v := range e {
			r += v * matrix[k][j]
		}
		for k, v := range e {
			matrix[k][j] -= v * r / ee
		}
	}
}
