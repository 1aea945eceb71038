package gp

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// AnisotropicInitialGuess returns starting covariance parameters
// [log σ², -log ρ_1, ..., -log ρ_d] for kernels parameterized that way: ρ_k
// is proportional to the extent of the design along dimension k, and σ² is
// the generalized least-squares estimate NormKSqrd / n at unit variance.
func AnisotropicInitialGuess(m *Model, xi mat.Matrix, zi mat.Vector) ([]float64, error) {
	const op = "AnisotropicInitialGuess"
	if err := checkData(xi, zi); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n, d := xi.Dims()
	lg, _ := math.Lgamma(float64(d)/2 + 1)
	scale := math.Exp(lg/float64(d)) / math.Sqrt(math.Pi)

	covparam := make([]float64, d+1)
	col := make([]float64, n)
	for k := 0; k < d; k++ {
		mat.Col(col, k, xi)
		delta := floats.Max(col) - floats.Min(col)
		covparam[k+1] = -math.Log(scale * delta)
	}
	norm2, err := m.NormKSqrd(xi, zi, covparam)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	covparam[0] = math.Log(norm2 / float64(n))
	return covparam, nil
}

type SelectionInfo struct {
	Criterion    CriterionKind
	InitialParam []float64
	InitialValue float64
	Param        []float64
	Value        float64
	Status       optimize.Status
	Stats        optimize.Stats
	Runtime      time.Duration
}

type selectConfig struct {
	newMethod func() optimize.Method
	settings  *optimize.Settings
	logger   *zap.Logger
}

type SelectOption func(*selectConfig)

// WithOptimizer sets the optimization method. newMethod is called once per
// run, since gonum methods keep state between iterations.
func WithOptimizer(newMethod func() optimize.Method) SelectOption {
	return func(c *selectConfig) {
		c.newMethod = newMethod
	}
}

func WithSettings(settings *optimize.Settings) SelectOption {
	return func(c *selectConfig) {
		c.settings = settings
	}
}

func WithSelectionLogger(logger *zap.Logger) SelectOption {
	return func(c *selectConfig) {
		c.logger = logger
	}
}

func newSelectConfig(opts []SelectOption) selectConfig {
	cfg := selectConfig{
		newMethod: func() optimize.Method {
			return &optimize.BFGS{Linesearcher: &optimize.Backtracking{}}
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// SelectParameters minimizes crit starting from covparam0 and returns the
// best covariance parameters found. It does not modify any model; assign
// the result to Model.CovParam to use it.
//
// The default method is BFGS with a backtracking line search, which only
// needs function values during the search, so that +Inf values met where
// the covariance is not positive definite shrink the step.
func SelectParameters(covparam0 []float64, crit *Criterion, opts ...SelectOption) ([]float64, *SelectionInfo, error) {
	const op = "SelectParameters"
	cfg := newSelectConfig(opts)

	start := time.Now()
	init := crit.Value(covparam0)
	if math.IsInf(init, 0) || math.IsNaN(init) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidStart)
	}
	problem := optimize.Problem{
		Func: crit.Value,
		Grad: crit.Gradient,
	}
	result, err := optimize.Minimize(problem, covparam0, cfg.settings, cfg.newMethod())
	if result == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if err != nil {
		// Keep the best point of a failed line search if it improves on the start.
		if math.IsInf(result.F, 0) || math.IsNaN(result.F) || result.F > init {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		cfg.logger.Warn("parameter selection stopped early",
			zap.Error(err),
			zap.Stringer("status", result.Status),
		)
	}

	info := &SelectionInfo{
		Criterion:    crit.Kind,
		InitialParam: append([]float64(nil), covparam0...),
		InitialValue: init,
		Param:        append([]float64(nil), result.X...),
		Value:        result.F,
		Status:       result.Status,
		Stats:        result.Stats,
		Runtime:      time.Since(start),
	}
	cfg.logger.Info("parameter selection done",
		zap.Stringer("criterion", crit.Kind),
		zap.Float64s("covparam0", info.InitialParam),
		zap.Float64s("covparam", info.Param),
		zap.Float64("initial_value", init),
		zap.Float64("value", info.Value),
		zap.Int("func_evaluations", result.FuncEvaluations),
		zap.Duration("runtime", info.Runtime),
	)
	return info.Param, info, nil
}

// SelectParametersMultiStart runs SelectParameters from every starting point
// on nWorkers goroutines and keeps the lowest criterion value. Starts that
// fail are skipped; the call fails only when all of them do.
func SelectParametersMultiStart(starts [][]float64, crit *Criterion, nWorkers int, opts ...SelectOption) ([]float64, *SelectionInfo, error) {
	const op = "SelectParametersMultiStart"
	if len(starts) == 0 {
		return nil, nil, fmt.Errorf("%s: no starting point: %w", op, ErrInvalidStart)
	}
	nWorkers = max(1, min(nWorkers, len(starts)))

	type outcome struct {
		info *SelectionInfo
		err  error
	}
	outcomes := make([]outcome, len(starts))
	jobs := make(chan int, len(starts))
	var wg sync.WaitGroup
	for w := 0; w < nWorkers; w++ {
		go func() {
			for i := range jobs {
				_, info, err := SelectParameters(starts[i], crit, opts...)
				outcomes[i] = outcome{info: info, err: err}
				wg.Done()
			}
		}()
	}
	for i := range starts {
		wg.Add(1)
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	cfg := newSelectConfig(opts)
	var (
		best   *SelectionInfo
		errs   []error
		failed int
	)
	for i, o := range outcomes {
		if o.err != nil {
			failed++
			errs = append(errs, fmt.Errorf("start %d: %w", i, o.err))
			continue
		}
		if best == nil || o.info.Value < best.Value {
			best = o.info
		}
	}
	if best == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}
	cfg.logger.Info("multi-start parameter selection done",
		zap.Int("starts", len(starts)),
		zap.Int("failed", failed),
		zap.Float64s("covparam", best.Param),
		zap.Float64("value", best.Value),
	)
	return best.Param, best, nil
}
