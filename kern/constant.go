package kern

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	constant *Constant
	_        Kernel = constant // Check that Constant respects the Kernel interface.
)

// Constant covariance σ² between any two points. Parameters are [log σ²].
type Constant struct{}

func NewConstant() *Constant {
	return &Constant{}
}

func (k *Constant) NumParams(dim int) int {
	return 1
}

func (k *Constant) Cov(x, y mat.Matrix, covparam []float64) *mat.Dense {
	if y == nil {
		y = x
	}
	n, _ := x.Dims()
	m, _ := y.Dims()
	data := make([]float64, n*m)
	variance := math.Exp(covparam[0])
	for i := range data {
		data[i] = variance
	}
	return mat.NewDense(n, m, data)
}

func (k *Constant) Pairwise(x, y mat.Matrix, covparam []float64) *mat.VecDense {
	n, _ := x.Dims()
	data := make([]float64, n)
	variance := math.Exp(covparam[0])
	for i := range data {
		data[i] = variance
	}
	return mat.NewVecDense(n, data)
}
