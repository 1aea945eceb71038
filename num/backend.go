// Package num defines the numeric context used by the kriging core.
//
// Every factorization, solve and random draw made by package gp goes through
// a Backend. The concrete backend is chosen when a model is built and never
// switched globally.
package num

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotPositiveDefinite = errors.New("num: matrix is not positive definite")
	ErrSingular            = errors.New("num: matrix is singular")
	ErrShape               = errors.New("num: dimension mismatch")
	ErrSVDFailed           = errors.New("num: SVD did not converge")
)

type Backend interface {
	// General linear solve A X = B.
	Solve(a, b mat.Matrix) (*mat.Dense, error)

	// Linear solve A X = B for a symmetric positive-definite A.
	SolveSPD(a, b mat.Matrix) (*mat.Dense, error)

	// Lower Cholesky factor L of A = L Lᵀ, read from the lower triangle of a.
	// If A is not positive definite, the factor is filled with NaN and
	// ErrNotPositiveDefinite is returned alongside it.
	Cholesky(a mat.Matrix) (*mat.TriDense, error)

	// Solve L Lᵀ X = B reusing a factor returned by Cholesky.
	CholeskySolve(l *mat.TriDense, b mat.Matrix) *mat.Dense

	// Complete QR decomposition: q is n×n orthogonal, r is n×c.
	QR(a mat.Matrix) (q, r *mat.Dense)

	// Full SVD a = u diag(s) vt.
	SVD(a mat.Matrix) (u *mat.Dense, s []float64, vt *mat.Dense, err error)

	// Matrix of independent standard normal draws.
	Randn(rows, cols int) *mat.Dense

	// Gradient of a scalar function at x.
	Gradient(f func([]float64) float64, x []float64) []float64
}
