package mean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestConstant(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{0, 1, 2, 3, 4, 5})
	p := NewConstant().Basis(x, nil)
	assert.True(t, mat.Equal(p, mat.NewDense(3, 1, []float64{1, 1, 1})))
}

func TestLinear(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{0, 1, 2, 3})
	p := NewLinear().Basis(x, nil)
	assert.True(t, mat.Equal(p, mat.NewDense(2, 3, []float64{
		1, 0, 1,
		1, 2, 3,
	})))
}
