package num_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/johncoltrane1/gpmp/num"
)

func spd() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		4, 2, 0.6,
		2, 5, 1,
		0.6, 1, 3,
	})
}

func TestCholeskyReconstructs(t *testing.T) {
	b := num.NewGonum()
	a := spd()
	l, err := b.Cholesky(a)
	require.NoError(t, err)

	var llt mat.Dense
	llt.Mul(l, l.T())
	assert.True(t, mat.EqualApprox(&llt, a, 1e-12))
	// Upper triangle of the factor is zero.
	assert.Zero(t, l.At(0, 2))
}

func TestCholeskyFailureIsPoisoned(t *testing.T) {
	b := num.NewGonum()
	a := mat.NewDense(2, 2, []float64{1, 2, 2, 1})
	l, err := b.Cholesky(a)
	require.ErrorIs(t, err, num.ErrNotPositiveDefinite)
	require.NotNil(t, l)
	assert.True(t, math.IsNaN(l.At(1, 0)))
	assert.True(t, math.IsNaN(l.At(0, 0)))
}

func TestCholeskySolve(t *testing.T) {
	b := num.NewGonum()
	a := spd()
	rhs := mat.NewDense(3, 2, []float64{1, 0, 2, 1, 3, -1})
	l, err := b.Cholesky(a)
	require.NoError(t, err)
	x := b.CholeskySolve(l, rhs)

	var ax mat.Dense
	ax.Mul(a, x)
	assert.True(t, mat.EqualApprox(&ax, rhs, 1e-12))
	// The right-hand side is not overwritten.
	assert.Equal(t, 3.0, rhs.At(2, 0))
}

func TestSolveSPD(t *testing.T) {
	b := num.NewGonum()
	rhs := mat.NewDense(3, 1, []float64{1, 2, 3})
	x, err := b.SolveSPD(spd(), rhs)
	require.NoError(t, err)
	var ax mat.Dense
	ax.Mul(spd(), x)
	assert.True(t, mat.EqualApprox(&ax, rhs, 1e-12))

	_, err = b.SolveSPD(mat.NewDense(2, 2, []float64{-1, 0, 0, 1}), mat.NewDense(2, 1, nil))
	assert.ErrorIs(t, err, num.ErrNotPositiveDefinite)

	_, err = b.SolveSPD(spd(), mat.NewDense(2, 1, nil))
	assert.ErrorIs(t, err, num.ErrShape)
}

func TestSolveIndefinite(t *testing.T) {
	b := num.NewGonum()
	// Saddle-point system of the kind built by universal kriging.
	a := mat.NewDense(3, 3, []float64{
		1, 0.5, 1,
		0.5, 1, 1,
		1, 1, 0,
	})
	rhs := mat.NewDense(3, 1, []float64{0.2, 0.3, 1})
	x, err := b.Solve(a, rhs)
	require.NoError(t, err)
	var ax mat.Dense
	ax.Mul(a, x)
	assert.True(t, mat.EqualApprox(&ax, rhs, 1e-12))
}

func TestSolveSingular(t *testing.T) {
	b := num.NewGonum()
	a := mat.NewDense(2, 2, []float64{1, 2, 2, 4})
	_, err := b.Solve(a, mat.NewDense(2, 1, []float64{1, 1}))
	require.ErrorIs(t, err, num.ErrSingular)

	_, err = b.Solve(mat.NewDense(2, 3, nil), mat.NewDense(2, 1, nil))
	require.ErrorIs(t, err, num.ErrShape)
}

func TestQRComplete(t *testing.T) {
	b := num.NewGonum()
	p := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 1,
		1, 2,
		1, 3,
	})
	q, r := b.QR(p)
	rows, cols := q.Dims()
	require.Equal(t, 4, rows)
	require.Equal(t, 4, cols)

	var qtq mat.Dense
	qtq.Mul(q.T(), q)
	assert.True(t, mat.EqualApprox(&qtq, eye(4), 1e-12))

	var qr mat.Dense
	qr.Mul(q, r)
	assert.True(t, mat.EqualApprox(&qr, p, 1e-12))

	// Trailing columns are orthogonal to the column space of p.
	var wtp mat.Dense
	wtp.Mul(q.Slice(0, 4, 2, 4).T(), p)
	assert.True(t, mat.EqualApprox(&wtp, mat.NewDense(2, 2, nil), 1e-12))
}

func TestSVD(t *testing.T) {
	b := num.NewGonum()
	a := spd()
	u, s, vt, err := b.SVD(a)
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.True(t, floats.Min(s) > 0)

	var us, usvt mat.Dense
	us.Mul(u, mat.NewDiagDense(3, s))
	usvt.Mul(&us, vt)
	assert.True(t, mat.EqualApprox(&usvt, a, 1e-12))
}

func TestRandnIsSeeded(t *testing.T) {
	a := num.NewGonum(num.WithSeed(42)).Randn(50, 40)
	b := num.NewGonum(num.WithSeed(42)).Randn(50, 40)
	c := num.NewGonum(num.WithSeed(43)).Randn(50, 40)
	assert.True(t, mat.Equal(a, b))
	assert.False(t, mat.Equal(a, c))

	data := a.RawMatrix().Data
	mean := floats.Sum(data) / float64(len(data))
	assert.InDelta(t, 0, mean, 0.1)
	var ss float64
	for _, v := range data {
		ss += (v - mean) * (v - mean)
	}
	assert.InDelta(t, 1, ss/float64(len(data)-1), 0.15)
}

func TestGradient(t *testing.T) {
	b := num.NewGonum()
	f := func(x []float64) float64 {
		return x[0]*x[0] + 3*x[0]*x[1] + math.Exp(x[1])
	}
	grad := b.Gradient(f, []float64{1, 0.5})
	assert.InDelta(t, 2+1.5, grad[0], 1e-6)
	assert.InDelta(t, 3+math.Exp(0.5), grad[1], 1e-6)
}

func eye(n int) *mat.Dense {
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}
	return out
}
