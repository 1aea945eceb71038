package gp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/johncoltrane1/gpmp/kern"
	"github.com/johncoltrane1/gpmp/num"
)

// Points of a one-dimensional design, one per row.
func points(xs ...float64) *mat.Dense {
	return mat.NewDense(len(xs), 1, append([]float64(nil), xs...))
}

func values(zs ...float64) *mat.VecDense {
	return mat.NewVecDense(len(zs), append([]float64(nil), zs...))
}

func newTestModel(mean Mean, opts ...Option) *Model {
	opts = append([]Option{
		WithCovParam([]float64{math.Log(1.5), -math.Log(0.6)}),
		WithBackend(num.NewGonum(num.WithSeed(1))),
	}, opts...)
	return NewModel(mean, kern.NewMatern32(), opts...)
}

// Sample of a smooth function on a fixed design.
func testData() (*mat.Dense, *mat.VecDense) {
	xs := []float64{-1, -0.72, -0.45, -0.1, 0.15, 0.4, 0.71, 0.95}
	zs := make([]float64, len(xs))
	for i, x := range xs {
		zs[i] = -(0.7*x + math.Sin(5*x+1) + 0.1*math.Sin(10*x))
	}
	return points(xs...), values(zs...)
}

// A covariance that is negative definite on the observations.
type negativeCov struct{}

func (negativeCov) Cov(x, y mat.Matrix, covparam []float64) *mat.Dense {
	n, _ := x.Dims()
	if y == nil {
		out := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			out.Set(i, i, -1)
		}
		return out
	}
	m, _ := y.Dims()
	return mat.NewDense(n, m, nil)
}

func (negativeCov) Pairwise(x, y mat.Matrix, covparam []float64) *mat.VecDense {
	n, _ := x.Dims()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, -1)
	}
	return out
}

// A covariance whose prior variances at the targets are too small, which
// forces negative posterior variances.
type shrunkCov struct {
	Covariance
	shift float64
}

func (c shrunkCov) Pairwise(x, y mat.Matrix, covparam []float64) *mat.VecDense {
	v := c.Covariance.Pairwise(x, y, covparam)
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, v.AtVec(i)-c.shift)
	}
	return v
}

func dropRow(x *mat.Dense, i int) *mat.Dense {
	n, d := x.Dims()
	out := mat.NewDense(n-1, d, nil)
	r := 0
	for k := 0; k < n; k++ {
		if k == i {
			continue
		}
		out.SetRow(r, x.RawRowView(k))
		r++
	}
	return out
}

func dropVec(z *mat.VecDense, i int) *mat.VecDense {
	n := z.Len()
	out := mat.NewVecDense(n-1, nil)
	r := 0
	for k := 0; k < n; k++ {
		if k == i {
			continue
		}
		out.SetVec(r, z.AtVec(k))
		r++
	}
	return out
}
