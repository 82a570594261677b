package bench

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimlab/swarmopt"
)

func TestFixedPoints(t *testing.T) {
	assert.InDelta(t, 0, Booth{}.Eval([]float64{1, 3}), 1e-12, "booth")
	assert.InDelta(t, 0, Rastrigin{NDim: 4}.Eval(make([]float64, 4)), 1e-12, "rastrigin at origin")
	assert.InDelta(t, 0, Schwefel{NDim: 2}.Eval([]float64{420.9687, 420.9687}), 1e-3, "schwefel")
	assert.InDelta(t, -19.2085, HolderTable{}.Eval([]float64{8.05502, 9.66459}), 1e-3, "holder_table")
	assert.InDelta(t, -959.6407, Eggholder{}.Eval([]float64{512, 404.2319}), 1e-3, "eggholder")
	assert.InDelta(t, 0, Ackley{}.Eval([]float64{0, 0}), 1e-12, "ackley at origin")
	assert.InDelta(t, -2.06261, CrossTray{}.Eval([]float64{1.34941, 1.34941}), 1e-3, "cross_tray")
	assert.InDelta(t, 0, Schaffer2{}.Eval([]float64{0, 0}), 1e-12, "schaffer2 at origin")
	assert.InDelta(t, 0, Rosenbrock{NDim: 5}.Eval([]float64{1, 1, 1, 1, 1}), 1e-12, "rosenbrock at ones")

	// booth is asymmetric; make sure the terms aren't swapped
	assert.InDelta(t, 74, Booth{}.Eval([]float64{0, 0}), 1e-12, "booth at origin")
}

func TestOptimaConsistent(t *testing.T) {
	for _, fn := range AllFuncs {
		low, up := fn.Bounds()
		require.Equal(t, len(low), len(up), "%v: bounds lengths differ", fn.Name())

		for _, opt := range fn.Optima() {
			require.Equal(t, len(low), opt.Len(), "%v: optimum dimension", fn.Name())
			pos := opt.Pos()
			for i := range pos {
				assert.GreaterOrEqual(t, pos[i], low[i], "%v: optimum below bounds", fn.Name())
				assert.LessOrEqual(t, pos[i], up[i], "%v: optimum above bounds", fn.Name())
			}
			assert.InDelta(t, opt.Val, fn.Eval(pos), 0.05,
				"%v: declared optimum disagrees with Eval", fn.Name())
		}
	}
}

func TestByName(t *testing.T) {
	fn, err := ByName("booth", 2)
	require.NoError(t, err)
	assert.Equal(t, "booth", fn.Name())

	fn, err = ByName("RASTRIGIN", 10)
	require.NoError(t, err)
	low, _ := fn.Bounds()
	assert.Len(t, low, 10)

	_, err = ByName("holder_table", 2)
	assert.NoError(t, err)

	_, err = ByName("booth", 3)
	assert.ErrorIs(t, err, swarmopt.ErrBadConfig, "2d-only function accepted dim 3")

	_, err = ByName("rastrigin", 0)
	assert.ErrorIs(t, err, swarmopt.ErrBadConfig, "accepted dim 0")

	_, err = ByName("no_such_function", 2)
	assert.ErrorIs(t, err, ErrUnknownFunc)
	assert.ErrorIs(t, err, swarmopt.ErrBadConfig, "unknown-function error is not a config error")
}

type fakeRunner struct {
	vals []float64
	i    int
}

func (r *fakeRunner) Step() (swarmopt.Point, int, error) {
	v := r.vals[r.i]
	r.i++
	return swarmopt.NewPoint([]float64{1, 3}, v), 10, nil
}

func TestBenchmark(t *testing.T) {
	fn := Booth{}

	r := &fakeRunner{vals: []float64{5, 1, 1e-5}}
	best, niter, neval, err := Benchmark(r, fn, .01, 1000, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, niter)
	assert.Equal(t, 30, neval)
	assert.InDelta(t, 1e-5, best.Val, 1e-12)

	// iteration budget exhausted before the threshold is reached
	r = &fakeRunner{vals: []float64{5, 4, 3, 2}}
	_, niter, _, err = Benchmark(r, fn, .01, 1000, 4)
	assert.Error(t, err)
	assert.Equal(t, 4, niter)

	// evaluation budget cuts the run short
	r = &fakeRunner{vals: []float64{5, 4, 3, 2}}
	_, niter, _, err = Benchmark(r, fn, .01, 20, 100)
	assert.Error(t, err)
	assert.Equal(t, 2, niter)
}

func TestErrUnknownFunc(t *testing.T) {
	if !errors.Is(ErrUnknownFunc, swarmopt.ErrBadConfig) {
		t.Errorf("ErrUnknownFunc does not wrap swarmopt.ErrBadConfig")
	}
}
