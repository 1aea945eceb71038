package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBlock(t *testing.T) {
	k := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	p := mat.NewDense(2, 1, []float64{5, 6})
	out := Block([][]mat.Matrix{
		{k, p},
		{p.T(), nil},
	})
	want := mat.NewDense(3, 3, []float64{
		1, 2, 5,
		3, 4, 6,
		5, 6, 0,
	})
	assert.True(t, mat.Equal(out, want))
}

func TestBlockStack(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{1, 2})
	b := mat.NewDense(2, 2, []float64{3, 4, 5, 6})
	out := Block([][]mat.Matrix{{a}, {b}})
	r, c := out.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	assert.Equal(t, 6.0, out.At(2, 1))
}

func TestRows(t *testing.T) {
	a := mat.NewDense(3, 2, []float64{0, 1, 10, 11, 20, 21})
	out := Rows(a, []int{2, 0, 2})
	assert.True(t, mat.Equal(out, mat.NewDense(3, 2, []float64{20, 21, 0, 1, 20, 21})))
}

func TestContractRows(t *testing.T) {
	a := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := mat.NewDense(2, 3, []float64{1, 1, 1, 2, 0, -1})
	out := ContractRows(a, b)
	assert.Equal(t, []float64{9, 2, -3}, out.RawVector().Data)
}

func TestDiagAndEye(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	assert.Equal(t, []float64{1, 4}, Diag(a).RawVector().Data)
	assert.True(t, mat.Equal(Eye(2), mat.NewDense(2, 2, []float64{1, 0, 0, 1})))
}
