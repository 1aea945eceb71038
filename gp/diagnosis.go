package gp

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Diagnosis summarizes leave-one-out performance of a model on its data.
type Diagnosis struct {
	CovParam []float64
	LOO      *LOOResult

	MSE float64 // Mean squared LOO error.
	R2  float64 // 1 - MSE / Var(z).

	// Mean and variance of the standardized LOO errors e_i / σ_i, close to 0
	// and 1 for a well-specified model.
	StdErrorMean     float64
	StdErrorVariance float64
}

func (m *Model) Diagnose(xi mat.Matrix, zi mat.Vector) (*Diagnosis, error) {
	const op = "Model.Diagnose"
	loo, err := m.LOO(xi, zi)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n := zi.Len()
	sq := make([]float64, n)
	std := make([]float64, n)
	for i := 0; i < n; i++ {
		e := loo.ELOO.AtVec(i)
		sq[i] = e * e
		std[i] = e / math.Sqrt(loo.Sigma2LOO.AtVec(i))
	}
	d := &Diagnosis{
		CovParam: append([]float64(nil), m.CovParam...),
		LOO:      loo,
		MSE:      stat.Mean(sq, nil),
	}
	d.R2 = 1 - d.MSE/stat.PopVariance(vecData(zi), nil)
	d.StdErrorMean, d.StdErrorVariance = stat.MeanVariance(std, nil)

	m.logger.Info("model diagnosis",
		zap.Float64s("covparam", d.CovParam),
		zap.Float64("loo_mse", d.MSE),
		zap.Float64("loo_r2", d.R2),
		zap.Float64("std_error_mean", d.StdErrorMean),
		zap.Float64("std_error_variance", d.StdErrorVariance),
	)
	return d, nil
}
