package utils

import (
	"gonum.org/v1/gonum/mat"
)

// Assemble a block matrix. Blocks on a row share their number of rows,
// blocks on a column share their number of columns. A nil block is zero and
// takes its shape from its neighbours.
func Block(blocks [][]mat.Matrix) *mat.Dense {
	heights := make([]int, len(blocks))
	widths := make([]int, len(blocks[0]))
	for i, row := range blocks {
		for j, b := range row {
			if b == nil {
				continue
			}
			heights[i], widths[j] = b.Dims()
		}
	}
	rows, cols := 0, 0
	for _, h := range heights {
		rows += h
	}
	for _, w := range widths {
		cols += w
	}
	out := mat.NewDense(rows, cols, nil)
	roff := 0
	for i, row := range blocks {
		coff := 0
		for j, b := range row {
			if b != nil {
				slice := out.Slice(roff, roff+heights[i], coff, coff+widths[j])
				slice.(*mat.Dense).Copy(b)
			}
			coff += widths[j]
		}
		roff += heights[i]
	}
	return out
}

// Rows of a matrix picked by index, in the given order.
func Rows(a mat.Matrix, idx []int) *mat.Dense {
	_, c := a.Dims()
	out := mat.NewDense(len(idx), c, nil)
	row := make([]float64, c)
	for i, k := range idx {
		mat.Row(row, k, a)
		out.SetRow(i, row)
	}
	return out
}

// Column-wise contraction out_j = sum_i a_ij * b_ij.
func ContractRows(a, b mat.Matrix) *mat.VecDense {
	r, c := a.Dims()
	out := mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += a.At(i, j) * b.At(i, j)
		}
		out.SetVec(j, sum)
	}
	return out
}

// Diagonal of a square matrix.
func Diag(a mat.Matrix) *mat.VecDense {
	n, _ := a.Dims()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, a.At(i, i))
	}
	return out
}

// Identity Matrix.
func Eye(n int) *mat.Dense {
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}
	return out
}
