// Package mean provides basis functions for the mean of a Gaussian process.
// A basis evaluated at n points is an n×q matrix, one column per function.
package mean

import (
	"gonum.org/v1/gonum/mat"
)

// Constant basis: a single column of ones.
type Constant struct{}

func NewConstant() *Constant {
	return &Constant{}
}

func (m *Constant) Basis(x mat.Matrix, meanparam []float64) *mat.Dense {
	n, _ := x.Dims()
	data := make([]float64, n)
	for i := range data {
		data[i] = 1
	}
	return mat.NewDense(n, 1, data)
}

// Linear basis [1, x_1, ..., x_d].
type Linear struct{}

func NewLinear() *Linear {
	return &Linear{}
}

func (m *Linear) Basis(x mat.Matrix, meanparam []float64) *mat.Dense {
	n, d := x.Dims()
	out := mat.NewDense(n, d+1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, 1)
		for j := 0; j < d; j++ {
			out.Set(i, j+1, x.At(i, j))
		}
	}
	return out
}
