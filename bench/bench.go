// Package bench provides benchmark optimization functions from
// http://en.wikipedia.org/wiki/Test_functions_for_optimization along with a
// name registry and tools for testing solvers against them.
package bench

import (
	"fmt"
	"math"
	"strings"

	"github.com/optimlab/swarmopt"
)

var (
	sin  = math.Sin
	cos  = math.Cos
	abs  = math.Abs
	exp  = math.Exp
	sqrt = math.Sqrt
)

var AllFuncs = []Func{
	Booth{},
	Rastrigin{NDim: 2},
	Rastrigin{NDim: 10},
	Schwefel{NDim: 2},
	Schwefel{NDim: 10},
	HolderTable{},
	Eggholder{},
	Ackley{},
	CrossTray{},
	Schaffer2{},
	Styblinski{NDim: 2},
	Styblinski{NDim: 10},
	Rosenbrock{NDim: 2},
	Rosenbrock{NDim: 10},
}

type Func interface {
	Eval(v []float64) float64
	Bounds() (low, up []float64)
	Optima() []swarmopt.Point
	Name() string
}

// ErrUnknownFunc reports an objective name with no registered function.  It
// wraps swarmopt.ErrBadConfig.
var ErrUnknownFunc = fmt.Errorf("%w: unknown objective function", swarmopt.ErrBadConfig)

// ByName returns the benchmark function registered under name, configured
// for ndim dimensions.  Matching is case-insensitive, and functions defined
// only on two dimensions reject any other ndim.  Failures are reported
// before any swarm state is built and wrap swarmopt.ErrBadConfig.
func ByName(name string, ndim int) (Func, error) {
	if ndim < 1 {
		return nil, swarmopt.BadConfigf("dimension %v < 1", ndim)
	}
	only2d := func(fn Func) (Func, error) {
		if ndim != 2 {
			return nil, swarmopt.BadConfigf("%v is only defined on 2 dimensions, not %v", fn.Name(), ndim)
		}
		return fn, nil
	}

	switch strings.ToLower(name) {
	case "booth":
		return only2d(Booth{})
	case "rastrigin":
		return Rastrigin{NDim: ndim}, nil
	case "schwefel":
		return Schwefel{NDim: ndim}, nil
	case "holder_table", "holdertable":
		return only2d(HolderTable{})
	case "eggholder":
		return only2d(Eggholder{})
	case "ackley":
		return only2d(Ackley{})
	case "cross_tray", "crosstray":
		return only2d(CrossTray{})
	case "schaffer2":
		return only2d(Schaffer2{})
	case "styblinski":
		return Styblinski{NDim: ndim}, nil
	case "rosenbrock":
		return Rosenbrock{NDim: ndim}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFunc, name)
}

type Booth struct{}

func (fn Booth) Name() string { return "booth" }

func (fn Booth) Eval(v []float64) float64 {
	x := v[0]
	y := v[1]
	return math.Pow(x+2*y-7, 2) + math.Pow(2*x+y-5, 2)
}

func (fn Booth) Bounds() (low, up []float64) {
	return []float64{-10, -10}, []float64{10, 10}
}

func (fn Booth) Optima() []swarmopt.Point {
	return []swarmopt.Point{
		swarmopt.NewPoint([]float64{1, 3}, 0),
	}
}

type Rastrigin struct {
	NDim int
}

func (fn Rastrigin) Name() string { return fmt.Sprintf("rastrigin_%vD", fn.NDim) }

func (fn Rastrigin) Eval(x []float64) float64 {
	tot := 10 * float64(len(x))
	for _, v := range x {
		tot += v*v - 10*cos(2*math.Pi*v)
	}
	return tot
}

func (fn Rastrigin) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -5.12
		up[i] = 5.12
	}
	return low, up
}

func (fn Rastrigin) Optima() []swarmopt.Point {
	return []swarmopt.Point{
		swarmopt.NewPoint(make([]float64, fn.NDim), 0),
	}
}

type Schwefel struct {
	NDim int
}

func (fn Schwefel) Name() string { return fmt.Sprintf("schwefel_%vD", fn.NDim) }

func (fn Schwefel) Eval(x []float64) float64 {
	tot := 418.9829 * float64(len(x))
	for _, v := range x {
		tot -= v * sin(sqrt(abs(v)))
	}
	return tot
}

func (fn Schwefel) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -500
		up[i] = 500
	}
	return low, up
}

func (fn Schwefel) Optima() []swarmopt.Point {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = 420.9687
	}
	return []swarmopt.Point{
		swarmopt.NewPoint(pos, 0),
	}
}

type HolderTable struct{}

func (fn HolderTable) Name() string { return "holder_table" }

func (fn HolderTable) Eval(v []float64) float64 {
	x := v[0]
	y := v[1]
	return -abs(sin(x) * cos(y) * exp(abs(1-sqrt(x*x+y*y)/math.Pi)))
}

func (fn HolderTable) Bounds() (low, up []float64) {
	return []float64{-10, -10}, []float64{10, 10}
}

func (fn HolderTable) Optima() []swarmopt.Point {
	return []swarmopt.Point{
		swarmopt.NewPoint([]float64{8.05502, 9.66459}, -19.2085),
		swarmopt.NewPoint([]float64{-8.05502, 9.66459}, -19.2085),
		swarmopt.NewPoint([]float64{8.05502, -9.66459}, -19.2085),
		swarmopt.NewPoint([]float64{-8.05502, -9.66459}, -19.2085),
	}
}

type Eggholder struct{}

func (fn Eggholder) Name() string { return "eggholder" }

func (fn Eggholder) Eval(v []float64) float64 {
	x := v[0]
	y := v[1]
	return -(y+47)*sin(sqrt(abs(y+x/2+47))) - x*sin(sqrt(abs(x-(y+47))))
}

func (fn Eggholder) Bounds() (low, up []float64) {
	return []float64{-512, -512}, []float64{512, 512}
}

func (fn Eggholder) Optima() []swarmopt.Point {
	return []swarmopt.Point{
		swarmopt.NewPoint([]float64{512, 404.2319}, -959.6407),
	}
}

type Ackley struct{}

func (fn Ackley) Name() string { return "ackley" }

func (fn Ackley) Eval(v []float64) float64 {
	x := v[0]
	y := v[1]
	return -20*exp(-0.2*sqrt(0.5*(x*x+y*y))) -
		exp(0.5*(cos(2*math.Pi*x)+cos(2*math.Pi*y))) +
		20 + math.E
}

func (fn Ackley) Bounds() (low, up []float64) {
	return []float64{-5, -5}, []float64{5, 5}
}

func (fn Ackley) Optima() []swarmopt.Point {
	return []swarmopt.Point{
		swarmopt.NewPoint([]float64{0, 0}, 0),
	}
}

type CrossTray struct{}

func (fn CrossTray) Name() string { return "cross_tray" }

func (fn CrossTray) Eval(v []float64) float64 {
	x := v[0]
	y := v[1]
	return -.0001 * math.Pow(abs(sin(x)*sin(y)*exp(abs(100-sqrt(x*x+y*y)/math.Pi)))+1, 0.1)
}

func (fn CrossTray) Bounds() (low, up []float64) {
	return []float64{-10, -10}, []float64{10, 10}
}

func (fn CrossTray) Optima() []swarmopt.Point {
	return []swarmopt.Point{
		swarmopt.NewPoint([]float64{1.34941, -1.34941}, -2.06261),
		swarmopt.NewPoint([]float64{1.34941, 1.34941}, -2.06261),
		swarmopt.NewPoint([]float64{-1.34941, 1.34941}, -2.06261),
		swarmopt.NewPoint([]float64{-1.34941, -1.34941}, -2.06261),
	}
}

type Schaffer2 struct{}

func (fn Schaffer2) Name() string { return "schaffer2" }

func (fn Schaffer2) Eval(v []float64) float64 {
	x := v[0]
	y := v[1]
	return 0.5 + (math.Pow(sin(x*x-y*y), 2)-0.5)/math.Pow(1+.0001*(x*x+y*y), 2)
}

func (fn Schaffer2) Bounds() (low, up []float64) {
	return []float64{-100, -100}, []float64{100, 100}
}

func (fn Schaffer2) Optima() []swarmopt.Point {
	return []swarmopt.Point{
		swarmopt.NewPoint([]float64{0, 0}, 0),
	}
}

type Styblinski struct {
	NDim int
}

func (fn Styblinski) Name() string { return fmt.Sprintf("styblinski_%vD", fn.NDim) }

func (fn Styblinski) Eval(x []float64) float64 {
	tot := 0.0
	for _, v := range x {
		tot += math.Pow(v, 4) - 16*math.Pow(v, 2) + 5*v
	}
	return tot / 2
}

func (fn Styblinski) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -5
		up[i] = 5
	}
	return low, up
}

func (fn Styblinski) Optima() []swarmopt.Point {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = -2.903534
	}
	return []swarmopt.Point{
		swarmopt.NewPoint(pos, -39.16599*float64(fn.NDim)),
	}
}

type Rosenbrock struct {
	NDim int
}

func (fn Rosenbrock) Name() string { return fmt.Sprintf("rosenbrock_%vD", fn.NDim) }

func (fn Rosenbrock) Eval(x []float64) float64 {
	tot := 0.0
	for i := 0; i < len(x)-1; i++ {
		tot += 100*math.Pow(x[i+1]-x[i]*x[i], 2) + math.Pow(x[i]-1, 2)
	}
	return tot
}

func (fn Rosenbrock) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -10
		up[i] = 10
	}
	return low, up
}

func (fn Rosenbrock) Optima() []swarmopt.Point {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = 1
	}
	return []swarmopt.Point{
		swarmopt.NewPoint(pos, 0),
	}
}

// Benchmark drives r until its best value is within tol*|optimum| of fn's
// known optimum (with an absolute floor of 0.001) or until the evaluation
// or iteration budget is spent.  A non-nil error means the optimum was
// never reached.
func Benchmark(r swarmopt.Runner, fn Func, tol float64, maxeval, maxiter int) (best swarmopt.Point, niter, neval int, err error) {
	optimum := fn.Optima()[0].Val
	thresh := tol * abs(optimum)
	if 0.001 > thresh {
		thresh = 0.001
	}

	best = swarmopt.NewPoint(nil, math.Inf(1))
	for neval < maxeval && niter < maxiter {
		var n int
		best, n, err = r.Step()
		neval += n
		niter++
		if err != nil {
			return best, niter, neval, err
		} else if abs(optimum-best.Val) < thresh {
			return best, niter, neval, nil
		}
	}
	return best, niter, neval, fmt.Errorf("never converged: got %v, want %v", best.Val, optimum)
}
