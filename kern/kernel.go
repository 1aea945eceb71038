package kern

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Relative nugget added on the diagonal of self covariances.
const nugget = 10 * 2.220446049250313e-16

type Kernel interface {
	// Covariance matrix k(x_i, y_j). A nil y means y is x, in which case the
	// nugget is added to the diagonal.
	Cov(x, y mat.Matrix, covparam []float64) *mat.Dense

	// Covariances k(x_i, y_i) of matching rows. A nil y means y is x.
	Pairwise(x, y mat.Matrix, covparam []float64) *mat.VecDense

	// Number of covariance parameters for inputs of dimension dim.
	NumParams(dim int) int
}

// Euclidean distance between row i of x and row j of y, after scaling each
// coordinate by invrho.
func scaledDistance(x mat.Matrix, i int, y mat.Matrix, j int, invrho []float64) float64 {
	sum := 0.0
	for k, s := range invrho {
		d := (x.At(i, k) - y.At(j, k)) * s
		sum += d * d
	}
	return math.Sqrt(sum)
}
