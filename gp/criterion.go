package gp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type CriterionKind int

const (
	LogLikelihood CriterionKind = iota
	RestrictedLogLikelihood
)

func (k CriterionKind) String() string {
	switch k {
	case LogLikelihood:
		return "negative log-likelihood"
	case RestrictedLogLikelihood:
		return "negative log-restricted-likelihood"
	}
	return fmt.Sprintf("CriterionKind(%d)", int(k))
}

// Criterion is a parameter-selection criterion as a pair of functions of the
// covariance parameters, with the data fixed. The signatures match the Func
// and Grad fields of gonum's optimize.Problem.
//
// Value is +Inf where the covariance is not positive definite; Gradient
// fills dst with NaN there.
type Criterion struct {
	Kind     CriterionKind
	Value    func(covparam []float64) float64
	Gradient func(dst, covparam []float64)
}

// Criterion snapshots (xi, zi) and returns the selection criterion of the
// given kind. Gradients come from the model's backend.
func (m *Model) Criterion(kind CriterionKind, xi mat.Matrix, zi mat.Vector) (*Criterion, error) {
	const op = "Model.Criterion"
	xs := mat.DenseCopyOf(xi)
	zs := mat.VecDenseCopyOf(zi)

	var value func([]float64) float64
	switch kind {
	case LogLikelihood:
		if err := checkData(xs, zs); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		value = func(covparam []float64) float64 {
			v, err := m.NegativeLogLikelihood(covparam, xs, zs)
			if err != nil {
				return math.Inf(1)
			}
			return v
		}
	case RestrictedLogLikelihood:
		if _, err := m.contrasts(xs, zs); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		value = func(covparam []float64) float64 {
			v, err := m.NegativeLogRestrictedLikelihood(covparam, xs, zs)
			if err != nil {
				return math.Inf(1)
			}
			return v
		}
	default:
		return nil, fmt.Errorf("%s: unknown criterion %v", op, kind)
	}

	return &Criterion{
		Kind:  kind,
		Value: value,
		Gradient: func(dst, covparam []float64) {
			if v := value(covparam); math.IsInf(v, 0) || math.IsNaN(v) {
				for i := range dst {
					dst[i] = math.NaN()
				}
				return
			}
			copy(dst, m.backend.Gradient(value, covparam))
		},
	}, nil
}
