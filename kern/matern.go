package kern

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	matern *MaternP
	_      Kernel = matern // Check that MaternP respects the Kernel interface.
)

// Anisotropic Matérn covariance with half-integer regularity ν = p + 1/2.
//
// Parameters are [log σ², -log ρ_1, ..., -log ρ_d].
type MaternP struct {
	p      int
	lambda float64   // sqrt(2ν)
	coeffs []float64 // coeffs[i] multiplies (2λh)^(p-i)
}

func NewMaternP(p int) *MaternP {
	if p < 0 {
		panic("kern: negative Matérn order")
	}
	// Γ(p+1)/Γ(2p+1) · (p+i)! / (i! (p-i)!)
	norm := factorial(p) / factorial(2*p)
	coeffs := make([]float64, p+1)
	for i := 0; i <= p; i++ {
		coeffs[i] = norm * factorial(p+i) / (factorial(i) * factorial(p-i))
	}
	return &MaternP{
		p:      p,
		lambda: math.Sqrt(float64(2*p + 1)),
		coeffs: coeffs,
	}
}

func NewMatern12() *MaternP {
	return NewMaternP(0)
}

func NewMatern32() *MaternP {
	return NewMaternP(1)
}

func NewMatern52() *MaternP {
	return NewMaternP(2)
}

func (k *MaternP) Order() int {
	return k.p
}

func (k *MaternP) NumParams(dim int) int {
	return 1 + dim
}

// Correlation at scaled distance h.
func (k *MaternP) eval(h float64) float64 {
	u := 2 * k.lambda * h
	poly := 0.0
	for _, c := range k.coeffs {
		poly = poly*u + c
	}
	return poly * math.Exp(-k.lambda*h)
}

func (k *MaternP) params(covparam []float64) (sigma2 float64, invrho []float64) {
	sigma2 = math.Exp(covparam[0])
	invrho = make([]float64, len(covparam)-1)
	for i, v := range covparam[1:] {
		invrho[i] = math.Exp(v)
	}
	return
}

func (k *MaternP) Cov(x, y mat.Matrix, covparam []float64) *mat.Dense {
	sigma2, invrho := k.params(covparam)
	n, _ := x.Dims()
	if y == nil {
		out := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			out.Set(i, i, sigma2*(1+nugget))
			for j := i + 1; j < n; j++ {
				v := sigma2 * k.eval(scaledDistance(x, i, x, j, invrho))
				out.Set(i, j, v)
				out.Set(j, i, v)
			}
		}
		return out
	}
	m, _ := y.Dims()
	out := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			out.Set(i, j, sigma2*k.eval(scaledDistance(x, i, y, j, invrho)))
		}
	}
	return out
}

func (k *MaternP) Pairwise(x, y mat.Matrix, covparam []float64) *mat.VecDense {
	sigma2, invrho := k.params(covparam)
	n, _ := x.Dims()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if y == nil {
			out.SetVec(i, sigma2*(1+nugget))
		} else {
			out.SetVec(i, sigma2*k.eval(scaledDistance(x, i, y, i, invrho)))
		}
	}
	return out
}

func factorial(n int) float64 {
	out := 1.0
	for i := 2; i <= n; i++ {
		out *= float64(i)
	}
	return out
}
