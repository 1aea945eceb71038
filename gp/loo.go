package gp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/johncoltrane1/gpmp/utils"
)

// LOOResult holds leave-one-out predictions, variances and errors, indexed
// like the observations.
type LOOResult struct {
	ZLOO      *mat.VecDense
	Sigma2LOO *mat.VecDense
	ELOO      *mat.VecDense
}

// LOOWithZeroMean computes leave-one-out predictions with the virtual
// cross-validation formulas e_i = (K⁻¹z)_i / K⁻¹_ii, σ²_i = 1 / K⁻¹_ii.
func (m *Model) LOOWithZeroMean(xi mat.Matrix, zi mat.Vector) (*LOOResult, error) {
	const op = "Model.LOOWithZeroMean"
	if err := checkData(xi, zi); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n := zi.Len()
	k := m.cov.Cov(xi, nil, m.CovParam)
	l, err := m.backend.Cholesky(k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	kinv := m.backend.CholeskySolve(l, utils.Eye(n))
	return virtualCrossValidation(kinv, zi), nil
}

// LOO computes leave-one-out predictions for a model with a mean, replacing
// K⁻¹ in the virtual cross-validation formulas by
// Q⁻¹ = K⁻¹ - K⁻¹P (PᵀK⁻¹P)⁻¹ PᵀK⁻¹. Zero-mean models use LOOWithZeroMean.
func (m *Model) LOO(xi mat.Matrix, zi mat.Vector) (*LOOResult, error) {
	const op = "Model.LOO"
	if m.mean == nil {
		return m.LOOWithZeroMean(xi, zi)
	}
	if err := checkData(xi, zi); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n := zi.Len()
	k := m.cov.Cov(xi, nil, m.CovParam)
	p, err := m.basis(xi)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	l, err := m.backend.Cholesky(k)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	kinv := m.backend.CholeskySolve(l, utils.Eye(n))
	kinvP := m.backend.CholeskySolve(l, p)

	var ptKinvP mat.Dense
	ptKinvP.Mul(p.T(), kinvP)
	r, err := m.backend.Solve(&ptKinvP, kinvP.T())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var qinv mat.Dense
	qinv.Mul(kinvP, r)
	qinv.Sub(kinv, &qinv)
	return virtualCrossValidation(&qinv, zi), nil
}

func virtualCrossValidation(qinv mat.Matrix, zi mat.Vector) *LOOResult {
	n := zi.Len()
	var qz mat.VecDense
	qz.MulVec(qinv, zi)
	out := &LOOResult{
		ZLOO:      mat.NewVecDense(n, nil),
		Sigma2LOO: mat.NewVecDense(n, nil),
		ELOO:      mat.NewVecDense(n, nil),
	}
	for i := 0; i < n; i++ {
		d := qinv.At(i, i)
		e := qz.AtVec(i) / d
		out.ELOO.SetVec(i, e)
		out.Sigma2LOO.SetVec(i, 1/d)
		out.ZLOO.SetVec(i, zi.AtVec(i)-e)
	}
	return out
}
