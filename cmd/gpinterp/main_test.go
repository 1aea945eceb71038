package main

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun(t *testing.T) {
	res, err := run(config{nt: 25, ni: 8, order: 2, starts: 3, workers: 2, seed: 3}, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, res.Mean, 25)
	require.Len(t, res.Variance, 25)
	require.Len(t, res.Xi, 8)
	assert.Len(t, res.CovParam, 2)
	assert.LessOrEqual(t, res.Value, res.InitialValue)
	for _, v := range res.Variance {
		assert.GreaterOrEqual(t, v, 0.0)
	}
	for _, x := range res.Xi {
		assert.True(t, x >= -1 && x <= 1)
	}
	assert.Equal(t, -1.0, res.Xt[0])
	assert.Equal(t, 1.0, res.Xt[24])
}

func TestRunRejectsBadConfig(t *testing.T) {
	_, err := run(config{nt: 1, ni: 6, order: 3}, zap.NewNop())
	assert.Error(t, err)
	_, err = run(config{nt: 10, ni: 6, order: -1}, zap.NewNop())
	assert.Error(t, err)
}

func TestUniformDesignIsReproducible(t *testing.T) {
	a := uniformDesign(5, -1, 1, 42)
	b := uniformDesign(5, -1, 1, 42)
	assert.Equal(t, a.RawMatrix().Data, b.RawMatrix().Data)
}

func TestTwoBumps(t *testing.T) {
	z := twoBumps(regularGrid(3, -1, 1))
	assert.InDelta(t, 0.7-0.7568024953079282-0.05440211108893698, z.AtVec(0), 1e-12)
	assert.InDelta(t, -0.8414709848078965, z.AtVec(1), 1e-12)
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--nt", "10", "--ni", "7", "--seed", "5"})
	require.NoError(t, cmd.Execute())

	var res result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Len(t, res.Mean, 10)
	assert.Equal(t, "negative log-restricted-likelihood", res.Criterion)
}

func TestSpreadStarts(t *testing.T) {
	starts := spreadStarts([]float64{0.5, 1}, 3)
	require.Len(t, starts, 3)
	assert.Equal(t, []float64{0.5, 1}, starts[1])
	assert.InDelta(t, 1+math.Ln2, starts[0][1], 1e-15)
	assert.InDelta(t, 1-math.Ln2, starts[2][1], 1e-15)
	for _, s := range starts {
		assert.Equal(t, 0.5, s[0])
	}
	assert.Len(t, spreadStarts([]float64{0, 0}, 0), 1)
}
