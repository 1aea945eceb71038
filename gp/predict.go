package gp

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

type Prediction struct {
	Mean     *mat.VecDense // Posterior mean at the targets.
	Variance *mat.VecDense // Posterior variance at the targets.
	Weights  *mat.Dense    // Kriging weights, only with ReturnWeights.
}

type predictConfig struct {
	returnWeights bool
	keepNegative  bool
}

type PredictOption func(*predictConfig)

// ReturnWeights keeps the n×m kriging weights in the prediction, for use with
// ConditionalSamplePaths.
func ReturnWeights() PredictOption {
	return func(c *predictConfig) {
		c.returnWeights = true
	}
}

// KeepNegativeVariances disables flooring negative posterior variances at 0.
func KeepNegativeVariances() PredictOption {
	return func(c *predictConfig) {
		c.keepNegative = true
	}
}

// Predict computes the posterior mean and variance at xt given the data
// (xi, zi). Negative variances, a symptom of poor conditioning, are logged
// as a warning and floored at zero unless KeepNegativeVariances is given.
func (m *Model) Predict(xi mat.Matrix, zi mat.Vector, xt mat.Matrix, opts ...PredictOption) (*Prediction, error) {
	const op = "Model.Predict"
	var cfg predictConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := checkData(xi, zi); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		k   *Kriging
		err error
	)
	if m.mean == nil {
		k, err = m.KrigingPredictorWithZeroMean(xi, xt, PointwiseVariance)
	} else {
		k, err = m.KrigingPredictor(xi, xt, PointwiseVariance)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	variance := k.Variance
	negative, lowest := 0, 0.0
	for i := 0; i < variance.Len(); i++ {
		if v := variance.AtVec(i); v < 0 {
			negative++
			lowest = math.Min(lowest, v)
		}
	}
	if negative > 0 {
		m.logger.Warn("negative posterior variances detected, consider using jitter",
			zap.Int("count", negative),
			zap.Float64("min_variance", lowest),
		)
		if !cfg.keepNegative {
			for i := 0; i < variance.Len(); i++ {
				variance.SetVec(i, math.Max(variance.AtVec(i), 0))
			}
		}
	}

	_, nt := k.Weights.Dims()
	mean := mat.NewVecDense(nt, nil)
	mean.MulVec(k.Weights.T(), zi)

	out := &Prediction{
		Mean:     mean,
		Variance: variance,
	}
	if cfg.returnWeights {
		out.Weights = k.Weights
	}
	return out, nil
}
