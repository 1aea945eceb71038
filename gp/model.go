// Package gp implements Gaussian-process kriging: prediction, leave-one-out
// diagnostics, (restricted) likelihood criteria and sample paths, for a model
// made of a parameterized mean basis and a parameterized covariance function.
package gp

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/johncoltrane1/gpmp/num"
)

var (
	ErrShapeMismatch      = errors.New("gp: shape mismatch")
	ErrTooFewObservations = errors.New("gp: not more observations than mean basis functions")
	ErrCholeskyFailed     = errors.New("gp: Cholesky factorization failed, consider using jitter or the SVD method")
	ErrIndexOutOfRange    = errors.New("gp: index out of range")
	ErrInvalidStart       = errors.New("gp: criterion is not finite at the starting point")
)

// Mean evaluates q basis functions at the rows of x and returns them as the
// columns of an n×q matrix.
type Mean interface {
	Basis(x mat.Matrix, meanparam []float64) *mat.Dense
}

// MeanFunc adapts an ordinary function to the Mean interface.
type MeanFunc func(x mat.Matrix, meanparam []float64) *mat.Dense

func (f MeanFunc) Basis(x mat.Matrix, meanparam []float64) *mat.Dense {
	return f(x, meanparam)
}

// Covariance of the process. A nil y stands for x itself: Cov(xi, nil, ·) is
// the covariance of the observations and Cov(xt, nil, ·) the prior
// covariance of the predictands, so both evaluations must be compatible.
type Covariance interface {
	Cov(x, y mat.Matrix, covparam []float64) *mat.Dense
	Pairwise(x, y mat.Matrix, covparam []float64) *mat.VecDense
}

// Model is a Gaussian process with a parameterized mean and covariance. A
// nil mean stands for a zero-mean process.
//
// The parameter vectors are read, never written, by the model's methods.
// Replace them between calls, for instance after SelectParameters.
type Model struct {
	MeanParam []float64
	CovParam  []float64

	mean    Mean
	cov     Covariance
	backend num.Backend
	logger  *zap.Logger
}

type Option func(*Model)

func WithMeanParam(meanparam []float64) Option {
	return func(m *Model) {
		m.MeanParam = meanparam
	}
}

func WithCovParam(covparam []float64) Option {
	return func(m *Model) {
		m.CovParam = covparam
	}
}

func WithBackend(backend num.Backend) Option {
	return func(m *Model) {
		m.backend = backend
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

func NewModel(mean Mean, cov Covariance, opts ...Option) *Model {
	m := &Model{
		mean:   mean,
		cov:    cov,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.backend == nil {
		m.backend = num.NewGonum(num.WithLogger(m.logger))
	}
	return m
}

func (m *Model) Backend() num.Backend {
	return m.backend
}

func (m *Model) Logger() *zap.Logger {
	return m.logger
}

// HasMean is false for zero-mean models.
func (m *Model) HasMean() bool {
	return m.mean != nil
}

// Mean basis at the rows of x.
func (m *Model) basis(x mat.Matrix) (*mat.Dense, error) {
	p := m.mean.Basis(x, m.MeanParam)
	n, _ := x.Dims()
	if r, _ := p.Dims(); r != n {
		return nil, fmt.Errorf("mean basis has %d rows for %d points: %w", r, n, ErrShapeMismatch)
	}
	return p, nil
}

func checkData(xi mat.Matrix, zi mat.Vector) error {
	n, _ := xi.Dims()
	if zi.Len() != n {
		return fmt.Errorf("%d points and %d values: %w", n, zi.Len(), ErrShapeMismatch)
	}
	return nil
}

func checkTargets(xi, xt mat.Matrix) error {
	_, di := xi.Dims()
	_, dt := xt.Dims()
	if di != dt {
		return fmt.Errorf("points of dimension %d and %d: %w", di, dt, ErrShapeMismatch)
	}
	return nil
}

func vecData(v mat.Vector) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
