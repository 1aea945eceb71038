package gp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/johncoltrane1/gpmp/utils"
)

// VarianceMode selects the second moment computed by the kriging predictors.
type VarianceMode int

const (
	NoVariance VarianceMode = iota
	PointwiseVariance
	FullCovariance
)

type Kriging struct {
	Weights    *mat.Dense    // n×m kriging weights.
	Variance   *mat.VecDense // Posterior variances, PointwiseVariance only.
	Covariance *mat.Dense    // Posterior covariance, FullCovariance only.
}

// KrigingPredictorWithZeroMean solves Kii λ = Kit for the simple-kriging
// weights.
func (m *Model) KrigingPredictorWithZeroMean(xi, xt mat.Matrix, mode VarianceMode) (*Kriging, error) {
	const op = "Model.KrigingPredictorWithZeroMean"
	if err := checkTargets(xi, xt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	kii := m.cov.Cov(xi, nil, m.CovParam)
	kit := m.cov.Cov(xi, xt, m.CovParam)

	lambda, err := m.backend.SolveSPD(kii, kit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := &Kriging{Weights: lambda}
	m.posterior(out, xt, lambda, kit, mode)
	return out, nil
}

// KrigingPredictor solves the universal-kriging system
//
//	[ Kii  P ] [ λ ]   [ Kit ]
//	[ Pᵀ   0 ] [ μ ] = [ Ptᵀ ]
//
// once and returns the top block λ as the kriging weights.
func (m *Model) KrigingPredictor(xi, xt mat.Matrix, mode VarianceMode) (*Kriging, error) {
	const op = "Model.KrigingPredictor"
	if err := checkTargets(xi, xt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	kii := m.cov.Cov(xi, nil, m.CovParam)
	pi, err := m.basis(xi)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	lhs := utils.Block([][]mat.Matrix{
		{kii, pi},
		{pi.T(), nil},
	})

	kit := m.cov.Cov(xi, xt, m.CovParam)
	pt, err := m.basis(xt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rhs := utils.Block([][]mat.Matrix{
		{kit},
		{pt.T()},
	})

	lambdamu, err := m.backend.Solve(lhs, rhs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ni, _ := xi.Dims()
	_, nt := rhs.Dims()
	out := &Kriging{Weights: mat.DenseCopyOf(lambdamu.Slice(0, ni, 0, nt))}
	m.posterior(out, xt, lambdamu, rhs, mode)
	return out, nil
}

// Prior second moment at xt minus its reduction by the weights.
func (m *Model) posterior(out *Kriging, xt mat.Matrix, weights, rhs *mat.Dense, mode VarianceMode) {
	switch mode {
	case PointwiseVariance:
		v := m.cov.Pairwise(xt, nil, m.CovParam)
		v.SubVec(v, utils.ContractRows(weights, rhs))
		out.Variance = v
	case FullCovariance:
		c := m.cov.Cov(xt, nil, m.CovParam)
		var reduction mat.Dense
		reduction.Mul(weights.T(), rhs)
		c.Sub(c, &reduction)
		out.Covariance = c
	}
}
