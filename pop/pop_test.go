package pop

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/optimlab/swarmopt"
)

func TestNew(t *testing.T) {
	low := []float64{-2, 0, 10}
	up := []float64{2, 1, 20}

	points := New(swarmopt.NewRng(7), 40, low, up)
	if len(points) != 40 {
		t.Fatalf("got %v points, want 40", len(points))
	}
	for i, p := range points {
		if !math.IsInf(p.Val, 1) {
			t.Errorf("point %v: value %v, want +Inf", i, p.Val)
		}
		for j := 0; j < p.Len(); j++ {
			if p.At(j) < low[j] || p.At(j) > up[j] {
				t.Errorf("point %v dim %v: %v outside [%v, %v]", i, j, p.At(j), low[j], up[j])
			}
		}
	}

	// same seed, same population
	again := New(swarmopt.NewRng(7), 40, low, up)
	for i := range points {
		for j := 0; j < points[i].Len(); j++ {
			if points[i].At(j) != again[i].At(j) {
				t.Fatalf("point %v dim %v: populations with equal seeds diverged", i, j)
			}
		}
	}
}

// feasibility constraint: 0 <= x0+x1 <= 10 inside a [0,100]^5 box (0.5%
// of samples are feasible).
func constrProblem() (lb, ub []float64, low, A, up *mat.Dense) {
	lb = make([]float64, 5)
	ub = []float64{100, 100, 100, 100, 100}
	low = mat.NewDense(1, 1, []float64{0})
	up = mat.NewDense(1, 1, []float64{10})
	A = mat.NewDense(1, 5, []float64{1, 1, 0, 0, 0})
	return lb, ub, low, A, up
}

func feasible(pos []float64) bool {
	sum := pos[0] + pos[1]
	return sum >= -1e-9 && sum <= 10+1e-9
}

func TestNewConstr(t *testing.T) {
	n := 50
	maxiter := 100000
	lb, ub, low, A, up := constrProblem()

	points, nbad, iter := NewConstr(swarmopt.NewRng(42), n, maxiter, lb, ub, low, A, up)

	if len(points) != n {
		t.Fatalf("got %v points, want %v", len(points), n)
	}
	if nbad != 0 {
		t.Errorf("%v infeasible points, want 0", nbad)
	}
	if iter >= maxiter {
		t.Errorf("took all %v samples to find %v feasible points", iter, n)
	}
	for i, p := range points {
		if !feasible(p.Pos()) {
			t.Errorf("point %v violates constraints: %v", i, p.Pos())
		}
	}
	t.Logf("%v feasible points from %v samples (%.2f%%)", n, iter, 100*float64(n)/float64(iter))
}

func TestNewProj(t *testing.T) {
	lb, ub, low, A, up := constrProblem()

	points := NewProj(swarmopt.NewRng(42), 30, lb, ub, low, A, up)
	if len(points) != 30 {
		t.Fatalf("got %v points, want 30", len(points))
	}
	for i, p := range points {
		if !feasible(p.Pos()) {
			t.Errorf("point %v violates constraints after projection: %v", i, p.Pos())
		}
	}
}

func TestStackConstr(t *testing.T) {
	low := mat.NewDense(2, 1, []float64{0, -5})
	up := mat.NewDense(2, 1, []float64{10, 5})
	A := mat.NewDense(2, 3, []float64{
		1, 1, 0,
		0, 2, -1,
	})

	stack, b, ranges := StackConstr(low, A, up)

	m, n := stack.Dims()
	if m != 4 || n != 3 {
		t.Fatalf("stacked system is %vx%v, want 4x3", m, n)
	}

	// x satisfying both two-sided constraints satisfies all stacked rows
	x := mat.NewDense(3, 1, []float64{1, 2, 1})
	var ax mat.Dense
	ax.Mul(stack, x)
	for i := 0; i < m; i++ {
		if ax.At(i, 0) > b.At(i, 0) {
			t.Errorf("feasible point violates stacked row %v: %v > %v", i, ax.At(i, 0), b.At(i, 0))
		}
	}

	for i, r := range ranges {
		if r <= 0 {
			t.Errorf("range %v is %v, want > 0", i, r)
		}
	}
}
