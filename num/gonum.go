package num

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	gonumBackend *Gonum
	_            Backend = gonumBackend // Check that Gonum respects the Backend interface.
)

// Gonum is a Backend on top of gonum's BLAS/LAPACK bindings.
type Gonum struct {
	src    rand.Source
	step   float64
	logger *zap.Logger
}

type Option func(*Gonum)

// WithSeed makes the normal draws reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Gonum) {
		g.src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	}
}

// WithStep sets the finite-difference step of Gradient. Zero selects the
// formula's default step.
func WithStep(step float64) Option {
	return func(g *Gonum) {
		g.step = step
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Gonum) {
		g.logger = logger
	}
}

func NewGonum(opts ...Option) *Gonum {
	g := &Gonum{
		src:    rand.NewPCG(rand.Uint64(), rand.Uint64()),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gonum) Solve(a, b mat.Matrix) (*mat.Dense, error) {
	n, c := a.Dims()
	br, _ := b.Dims()
	if n != c || br != n {
		return nil, fmt.Errorf("solve %dx%d with %d rows: %w", n, c, br, ErrShape)
	}
	var lu mat.LU
	lu.Factorize(a)
	var x mat.Dense
	err := lu.SolveTo(&x, false, b)
	var cond mat.Condition
	switch {
	case err == nil:
		return &x, nil
	case errors.As(err, &cond) && !math.IsInf(float64(cond), 1):
		g.logger.Debug("ill-conditioned linear system",
			zap.Int("n", n),
			zap.Float64("condition_number", float64(cond)),
		)
		return &x, nil
	default:
		return nil, fmt.Errorf("solve %dx%d: %w", n, n, ErrSingular)
	}
}

func (g *Gonum) SolveSPD(a, b mat.Matrix) (*mat.Dense, error) {
	br, _ := b.Dims()
	if r, _ := a.Dims(); br != r {
		return nil, fmt.Errorf("solve %dx%d with %d rows: %w", r, r, br, ErrShape)
	}
	l, err := g.Cholesky(a)
	if err != nil {
		return nil, err
	}
	return g.CholeskySolve(l, b), nil
}

func (g *Gonum) Cholesky(a mat.Matrix) (*mat.TriDense, error) {
	n, c := a.Dims()
	if n != c {
		return nil, fmt.Errorf("cholesky of %dx%d: %w", n, c, ErrShape)
	}
	// Only the lower triangle is read, as with LAPACK's potrf.
	sym := blas64.Symmetric{
		N:      n,
		Stride: n,
		Data:   make([]float64, n*n),
		Uplo:   blas.Lower,
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sym.Data[i*n+j] = a.At(i, j)
		}
	}
	t, ok := lapack64.Potrf(sym)
	l := mat.NewTriDense(n, mat.Lower, t.Data)
	if !ok {
		for i := range t.Data {
			t.Data[i] = math.NaN()
		}
		return l, ErrNotPositiveDefinite
	}
	return l, nil
}

func (g *Gonum) CholeskySolve(l *mat.TriDense, b mat.Matrix) *mat.Dense {
	x := mat.DenseCopyOf(b)
	lapack64.Potrs(l.RawTriangular(), x.RawMatrix())
	return x
}

func (g *Gonum) QR(a mat.Matrix) (q, r *mat.Dense) {
	var qr mat.QR
	qr.Factorize(a)
	q, r = new(mat.Dense), new(mat.Dense)
	qr.QTo(q)
	qr.RTo(r)
	return
}

func (g *Gonum) SVD(a mat.Matrix) (u *mat.Dense, s []float64, vt *mat.Dense, err error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return nil, nil, nil, ErrSVDFailed
	}
	var v mat.Dense
	u = new(mat.Dense)
	svd.UTo(u)
	svd.VTo(&v)
	return u, svd.Values(nil), mat.DenseCopyOf(v.T()), nil
}

func (g *Gonum) Randn(rows, cols int) *mat.Dense {
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: g.src}
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = dist.Rand()
	}
	return mat.NewDense(rows, cols, data)
}

func (g *Gonum) Gradient(f func([]float64) float64, x []float64) []float64 {
	return fd.Gradient(nil, f, x, &fd.Settings{
		Formula: fd.Central,
		Step:    g.step,
	})
}
