package gp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/johncoltrane1/gpmp/utils"
)

// SampleMethod is the square root of the covariance matrix used to draw
// sample paths.
type SampleMethod int

const (
	CholeskyMethod SampleMethod = iota
	SVDMethod
)

type sampleConfig struct {
	method SampleMethod
	check  bool
}

type SampleOption func(*sampleConfig)

func WithMethod(method SampleMethod) SampleOption {
	return func(c *sampleConfig) {
		c.method = method
	}
}

// SkipCheck disables the check for non-finite entries in the Cholesky factor.
func SkipCheck() SampleOption {
	return func(c *sampleConfig) {
		c.check = false
	}
}

// SamplePaths draws nbPaths unconditional sample paths of GP(0, k) at the
// rows of xt, one path per column. With the Cholesky method and the check
// on, a factorization that produced non-finite values is ErrCholeskyFailed;
// the SVD method is never substituted silently.
func (m *Model) SamplePaths(xt mat.Matrix, nbPaths int, opts ...SampleOption) (*mat.Dense, error) {
	const op = "Model.SamplePaths"
	cfg := sampleConfig{method: CholeskyMethod, check: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if nbPaths <= 0 {
		return nil, fmt.Errorf("%s: %d paths: %w", op, nbPaths, ErrShapeMismatch)
	}

	k := m.cov.Cov(xt, nil, m.CovParam)
	n, _ := k.Dims()
	var root mat.Matrix
	switch cfg.method {
	case CholeskyMethod:
		// A failed factorization comes back filled with NaN.
		l, _ := m.backend.Cholesky(k)
		if cfg.check && !finite(l) {
			return nil, fmt.Errorf("%s: %w", op, ErrCholeskyFailed)
		}
		root = l
	case SVDMethod:
		u, s, vt, err := m.backend.SVD(k)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sqrtS := mat.NewDiagDense(len(s), nil)
		for i, v := range s {
			sqrtS.SetDiag(i, math.Sqrt(v))
		}
		var us, c mat.Dense
		us.Mul(u, sqrtS)
		c.Mul(&us, vt)
		root = &c
	default:
		return nil, fmt.Errorf("%s: unknown sampling method %d", op, cfg.method)
	}

	var zsim mat.Dense
	zsim.Mul(root, m.backend.Randn(n, nbPaths))
	return &zsim, nil
}

// ConditionalSamplePaths turns unconditional paths ztsim into paths
// conditioned on the values zi at rows xiInd of ztsim ("conditioning by
// kriging"), and returns them at rows xtInd. lambda holds the kriging weights
// of the observations at xiInd for the targets at xtInd, as returned by
// Predict with ReturnWeights or by the kriging predictors.
func (m *Model) ConditionalSamplePaths(ztsim mat.Matrix, xiInd []int, zi mat.Vector, xtInd []int, lambda mat.Matrix) (*mat.Dense, error) {
	const op = "Model.ConditionalSamplePaths"
	n, nbPaths := ztsim.Dims()
	lr, lc := lambda.Dims()
	if len(xiInd) == 0 || len(xtInd) == 0 || len(xiInd) != zi.Len() || lr != len(xiInd) || lc != len(xtInd) {
		return nil, fmt.Errorf("%s: %d observation indices, %d values, %d target indices, %dx%d weights: %w",
			op, len(xiInd), zi.Len(), len(xtInd), lr, lc, ErrShapeMismatch)
	}
	for _, ind := range [][]int{xiInd, xtInd} {
		for _, i := range ind {
			if i < 0 || i >= n {
				return nil, fmt.Errorf("%s: index %d with %d simulated points: %w", op, i, n, ErrIndexOutOfRange)
			}
		}
	}

	// d = zi - ztsim[xiInd]
	d := utils.Rows(ztsim, xiInd)
	for i := range xiInd {
		for j := 0; j < nbPaths; j++ {
			d.Set(i, j, zi.AtVec(i)-d.At(i, j))
		}
	}

	// ztsimc = ztsim[xtInd] + λᵀ d
	out := utils.Rows(ztsim, xtInd)
	var correction mat.Dense
	correction.Mul(lambda.T(), d)
	out.Add(out, &correction)
	return out, nil
}

func finite(l *mat.TriDense) bool {
	n, _ := l.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if v := l.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
