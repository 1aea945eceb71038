package gp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/johncoltrane1/gpmp/num"
	"github.com/johncoltrane1/gpmp/utils"
)

var log2Pi = math.Log(2 * math.Pi)

// NegativeLogLikelihood of covparam given (xi, zi) under the zero-mean
// model: ½ (n log 2π + log det K + zᵀK⁻¹z). A covariance matrix that is not
// positive definite is an error.
func (m *Model) NegativeLogLikelihood(covparam []float64, xi mat.Matrix, zi mat.Vector) (float64, error) {
	const op = "Model.NegativeLogLikelihood"
	if err := checkData(xi, zi); err != nil {
		return math.NaN(), fmt.Errorf("%s: %w", op, err)
	}
	k := m.cov.Cov(xi, nil, covparam)
	l, err := m.backend.Cholesky(k)
	if err != nil {
		return math.NaN(), fmt.Errorf("%s: %w", op, err)
	}
	n := float64(zi.Len())
	return 0.5 * (n*log2Pi + logDet(l) + quadForm(m.backend, l, zi)), nil
}

// NegativeLogRestrictedLikelihood of covparam given (xi, zi), with the mean
// coefficients profiled out through a basis W of contrasts orthogonal to the
// mean basis: ½ ((n-q) log 2π + log det G + (Wᵀz)ᵀG⁻¹(Wᵀz)), G = WᵀKW.
//
// When G is not positive definite the result is +Inf and the error is nil,
// so that an optimizer can reject covparam and carry on. Only inconsistent
// shapes are errors. A zero-mean model has W = I and this is the likelihood.
func (m *Model) NegativeLogRestrictedLikelihood(covparam []float64, xi mat.Matrix, zi mat.Vector) (float64, error) {
	const op = "Model.NegativeLogRestrictedLikelihood"
	w, err := m.contrasts(xi, zi)
	if err != nil {
		return math.NaN(), fmt.Errorf("%s: %w", op, err)
	}
	k := m.cov.Cov(xi, nil, covparam)
	return m.restrictedLikelihood(k, w, zi), nil
}

// NormKSqrdWithZeroMean returns zᵀK⁻¹z.
func (m *Model) NormKSqrdWithZeroMean(xi mat.Matrix, zi mat.Vector, covparam []float64) (float64, error) {
	const op = "Model.NormKSqrdWithZeroMean"
	if err := checkData(xi, zi); err != nil {
		return math.NaN(), fmt.Errorf("%s: %w", op, err)
	}
	k := m.cov.Cov(xi, nil, covparam)
	l, err := m.backend.Cholesky(k)
	if err != nil {
		return math.NaN(), fmt.Errorf("%s: %w", op, err)
	}
	return quadForm(m.backend, l, zi), nil
}

// NormKSqrd returns (Wᵀz)ᵀ(WᵀKW)⁻¹(Wᵀz) for the contrasts W of the mean
// basis.
func (m *Model) NormKSqrd(xi mat.Matrix, zi mat.Vector, covparam []float64) (float64, error) {
	const op = "Model.NormKSqrd"
	w, err := m.contrasts(xi, zi)
	if err != nil {
		return math.NaN(), fmt.Errorf("%s: %w", op, err)
	}
	k := m.cov.Cov(xi, nil, covparam)
	norm2, _, err := m.contrastForms(k, w, zi)
	if err != nil {
		return math.NaN(), fmt.Errorf("%s: %w", op, err)
	}
	return norm2, nil
}

// Orthonormal basis of the orthogonal complement of the mean basis, taken
// from the trailing n-q columns of a complete QR decomposition. Built afresh
// on every call.
func (m *Model) contrasts(xi mat.Matrix, zi mat.Vector) (*mat.Dense, error) {
	if err := checkData(xi, zi); err != nil {
		return nil, err
	}
	n := zi.Len()
	if m.mean == nil {
		return utils.Eye(n), nil
	}
	p, err := m.basis(xi)
	if err != nil {
		return nil, err
	}
	_, q := p.Dims()
	if n <= q {
		return nil, fmt.Errorf("%d observations for %d basis functions: %w", n, q, ErrTooFewObservations)
	}
	qm, _ := m.backend.QR(p)
	return mat.DenseCopyOf(qm.Slice(0, n, q, n)), nil
}

func (m *Model) restrictedLikelihood(k, w *mat.Dense, zi mat.Vector) float64 {
	norm2, ldet, err := m.contrastForms(k, w, zi)
	if err != nil {
		return math.Inf(1)
	}
	_, nc := w.Dims()
	return 0.5 * (float64(nc)*log2Pi + ldet + norm2)
}

// Quadratic form and log-determinant of the contrast covariance G = WᵀKW.
func (m *Model) contrastForms(k, w *mat.Dense, zi mat.Vector) (norm2, ldet float64, err error) {
	var wz mat.VecDense
	wz.MulVec(w.T(), zi)
	var kw, g mat.Dense
	kw.Mul(k, w)
	g.Mul(w.T(), &kw)
	l, err := m.backend.Cholesky(&g)
	if err != nil {
		return math.NaN(), math.NaN(), err
	}
	return quadForm(m.backend, l, &wz), logDet(l), nil
}

// zᵀA⁻¹z with A = L Lᵀ.
func quadForm(b num.Backend, l *mat.TriDense, z mat.Vector) float64 {
	x := b.CholeskySolve(l, z)
	return mat.Dot(z, x.ColView(0))
}

// log det A = 2 Σ log L_ii with A = L Lᵀ.
func logDet(l *mat.TriDense) float64 {
	n, _ := l.Dims()
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += math.Log(l.At(i, i))
	}
	return 2 * sum
}
