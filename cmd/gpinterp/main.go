// Command gpinterp interpolates a one-dimensional test function with a
// constant-mean Matérn Gaussian process whose covariance parameters are
// selected by restricted maximum likelihood, and prints the fit as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/johncoltrane1/gpmp/gp"
	"github.com/johncoltrane1/gpmp/kern"
	"github.com/johncoltrane1/gpmp/mean"
	"github.com/johncoltrane1/gpmp/num"
)

type config struct {
	nt      int
	ni      int
	order   int
	starts  int
	workers int
	seed    uint64
	verbose bool
}

type result struct {
	Criterion    string    `json:"criterion"`
	CovParam     []float64 `json:"covparam"`
	InitialValue float64   `json:"initial_value"`
	Value        float64   `json:"value"`
	LOOMSE       float64   `json:"loo_mse"`
	LOOR2        float64   `json:"loo_r2"`
	RMSE         float64   `json:"rmse"` // Prediction error on the grid.
	Xi           []float64 `json:"xi"`
	Zi           []float64 `json:"zi"`
	Xt           []float64 `json:"xt"`
	Zt           []float64 `json:"zt"`
	Mean         []float64 `json:"mean"`
	Variance     []float64 `json:"variance"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config
	cmd := &cobra.Command{
		Use:   "gpinterp",
		Short: "Interpolate the two-bumps function with a ReML-fitted Gaussian process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cfg.verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			res, err := run(cfg, logger)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&cfg.nt, "nt", 200, "number of points of the prediction grid on [-1, 1]")
	flags.IntVar(&cfg.ni, "ni", 6, "number of observations")
	flags.IntVar(&cfg.order, "order", 3, "Matérn order p, regularity p + 1/2")
	flags.IntVar(&cfg.starts, "starts", 1, "number of starting points of the parameter selection")
	flags.IntVar(&cfg.workers, "workers", runtime.NumCPU(), "number of concurrent selection runs")
	flags.Uint64Var(&cfg.seed, "seed", 1, "seed of the design and of the backend")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "development logging")
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg config, logger *zap.Logger) (*result, error) {
	if cfg.nt < 2 || cfg.ni < 2 {
		return nil, fmt.Errorf("need at least 2 grid points and 2 observations, got %d and %d", cfg.nt, cfg.ni)
	}
	if cfg.order < 0 {
		return nil, fmt.Errorf("negative Matérn order %d", cfg.order)
	}
	xt := regularGrid(cfg.nt, -1, 1)
	zt := twoBumps(xt)
	xi := uniformDesign(cfg.ni, -1, 1, cfg.seed)
	zi := twoBumps(xi)

	backend := num.NewGonum(num.WithSeed(cfg.seed), num.WithLogger(logger))
	model := gp.NewModel(mean.NewConstant(), kern.NewMaternP(cfg.order),
		gp.WithBackend(backend),
		gp.WithLogger(logger),
	)

	covparam0, err := gp.AnisotropicInitialGuess(model, xi, zi)
	if err != nil {
		return nil, fmt.Errorf("initial guess: %w", err)
	}
	crit, err := model.Criterion(gp.RestrictedLogLikelihood, xi, zi)
	if err != nil {
		return nil, err
	}
	starts := spreadStarts(covparam0, cfg.starts)
	covparam, info, err := gp.SelectParametersMultiStart(starts, crit, cfg.workers, gp.WithSelectionLogger(logger))
	if err != nil {
		return nil, err
	}
	model.CovParam = covparam

	diag, err := model.Diagnose(xi, zi)
	if err != nil {
		return nil, err
	}
	pred, err := model.Predict(xi, zi, xt)
	if err != nil {
		return nil, err
	}

	res := &result{
		Criterion:    info.Criterion.String(),
		CovParam:     covparam,
		InitialValue: info.InitialValue,
		Value:        info.Value,
		LOOMSE:       diag.MSE,
		LOOR2:        diag.R2,
		Xi:           mat.Col(nil, 0, xi),
		Zi:           zi.RawVector().Data,
		Xt:           mat.Col(nil, 0, xt),
		Zt:           zt.RawVector().Data,
		Mean:         pred.Mean.RawVector().Data,
		Variance:     pred.Variance.RawVector().Data,
	}
	res.RMSE = floats.Distance(res.Mean, res.Zt, 2) / math.Sqrt(float64(cfg.nt))
	logger.Info("interpolation done",
		zap.Float64s("covparam", covparam),
		zap.Float64("rmse", res.RMSE),
	)
	return res, nil
}

// spreadStarts returns n starting points around covparam0 whose ranges are
// scaled by successive powers of 2.
func spreadStarts(covparam0 []float64, n int) [][]float64 {
	starts := make([][]float64, max(n, 1))
	for k := range starts {
		shift := (float64(k) - float64(len(starts)-1)/2) * math.Ln2
		s := append([]float64(nil), covparam0...)
		for j := 1; j < len(s); j++ {
			s[j] -= shift
		}
		starts[k] = s
	}
	return starts
}

func regularGrid(n int, lo, hi float64) *mat.Dense {
	x := make([]float64, n)
	floats.Span(x, lo, hi)
	return mat.NewDense(n, 1, x)
}

func uniformDesign(n int, lo, hi float64, seed uint64) *mat.Dense {
	u := distuv.Uniform{Min: lo, Max: hi, Src: rand.NewPCG(seed, seed+1)}
	x := make([]float64, n)
	for i := range x {
		x[i] = u.Rand()
	}
	return mat.NewDense(n, 1, x)
}

// twoBumps is the test function -(0.7x + sin(5x + 1) + 0.1 sin(10x)).
func twoBumps(x mat.Matrix) *mat.VecDense {
	n, _ := x.Dims()
	z := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v := x.At(i, 0)
		z.SetVec(i, -(0.7*v + math.Sin(5*v+1) + 0.1*math.Sin(10*v)))
	}
	return z
}
