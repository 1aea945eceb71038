package kern

import (
	"gonum.org/v1/gonum/mat"
)

var (
	add *Add
	_   Kernel = add // Check that Add respects the Kernel interface.
)

// Sum of kernels. The parameter vector is the concatenation of the parts'
// parameter vectors, in order.
type Add struct {
	parts []Kernel
}

func NewAdd(first, second Kernel) *Add {
	parts := make([]Kernel, 0, 2)
	switch first := first.(type) {
	case *Add:
		parts = append(parts, first.parts...)
	default:
		parts = append(parts, first)
	}
	switch second := second.(type) {
	case *Add:
		parts = append(parts, second.parts...)
	default:
		parts = append(parts, second)
	}
	return &Add{
		parts: parts,
	}
}

func (k *Add) NumParams(dim int) int {
	total := 0
	for _, part := range k.parts {
		total += part.NumParams(dim)
	}
	return total
}

// Split covparam into the parts' parameter vectors.
func (k *Add) split(x mat.Matrix, covparam []float64) [][]float64 {
	_, dim := x.Dims()
	out := make([][]float64, len(k.parts))
	offset := 0
	for i, part := range k.parts {
		size := part.NumParams(dim)
		out[i] = covparam[offset : offset+size]
		offset += size
	}
	return out
}

func (k *Add) Cov(x, y mat.Matrix, covparam []float64) *mat.Dense {
	params := k.split(x, covparam)
	var out *mat.Dense
	for i, part := range k.parts {
		cov := part.Cov(x, y, params[i])
		if out == nil {
			out = cov
		} else {
			out.Add(out, cov)
		}
	}
	return out
}

func (k *Add) Pairwise(x, y mat.Matrix, covparam []float64) *mat.VecDense {
	params := k.split(x, covparam)
	var out *mat.VecDense
	for i, part := range k.parts {
		v := part.Pairwise(x, y, params[i])
		if out == nil {
			out = v
		} else {
			out.AddVec(out, v)
		}
	}
	return out
}
