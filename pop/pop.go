// Package pop generates initial particle positions: plain uniform box
// sampling plus two strategies for seeding inside a linearly constrained
// region.
package pop

import (
	"math"

	"github.com/petar/GoLLRB/llrb"
	"gonum.org/v1/gonum/mat"

	"github.com/optimlab/swarmopt"
	"github.com/optimlab/swarmopt/project"
)

// New generates n positions uniformly distributed inside the box bounds
// low/up, drawing from rng.  Point values are initialized to +infinity.
func New(rng swarmopt.Rng, n int, low, up []float64) []swarmopt.Point {
	if len(low) != len(up) {
		panic("low and up vectors are not same length")
	}

	points := make([]swarmopt.Point, n)
	for i := range points {
		pos := make([]float64, len(low))
		for j := range pos {
			pos[j] = swarmopt.Uniform(rng, low[j], up[j])
		}
		points[i] = swarmopt.NewPoint(pos, math.Inf(1))
	}
	return points
}

type item struct {
	swarmopt.Point
	howbad float64
}

func (it item) Less(than llrb.Item) bool {
	return it.howbad < than.(item).howbad
}

// NewConstr tries to generate a population of n points inside the box
// bounds lb/ub that satisfy the linear constraints "low <= Ax <= up".  It
// samples the box at most maxiter times, keeping feasible points and
// queueing up the least-infeasible rejects; if maxiter samples don't yield
// n feasible points, the best rejects fill out the population and nbad
// reports how many.  maxiter should be much larger than n.
func NewConstr(rng swarmopt.Rng, n, maxiter int, lb, ub []float64, low, A, up *mat.Dense) (points []swarmopt.Point, nbad, iter int) {
	stack, b, ranges := StackConstr(low, A, up)
	_, ndims := A.Dims()

	violaters := llrb.New()
	points = make([]swarmopt.Point, 0, n)
	for iter = 1; iter <= maxiter; iter++ {
		pos := make([]float64, ndims)
		for j := range pos {
			pos[j] = swarmopt.Uniform(rng, lb[j], ub[j])
		}

		var ax mat.Dense
		ax.Mul(stack, mat.NewDense(ndims, 1, pos))
		m, _ := ax.Dims()
		howbad := 0.0
		for r := 0; r < m; r++ {
			if diff := ax.At(r, 0) - b.At(r, 0); diff > 0 {
				howbad += diff / ranges[r]
			}
		}

		if howbad == 0 {
			points = append(points, swarmopt.NewPoint(pos, math.Inf(1)))
			if len(points) == n {
				return points, 0, iter
			}
			continue
		}

		violaters.InsertNoReplace(item{swarmopt.NewPoint(pos, math.Inf(1)), howbad})
		for violaters.Len() > n-len(points) {
			violaters.DeleteMax()
		}
	}

	nbad = n - len(points)
	for len(points) < n {
		points = append(points, violaters.DeleteMin().(item).Point)
	}
	return points, nbad, maxiter
}

// NewProj generates n positions by sampling the box bounds lb/ub and
// orthogonally projecting each infeasible sample onto the constraint set
// "low <= Ax <= up".  Projected positions can land outside the box bounds.
func NewProj(rng swarmopt.Rng, n int, lb, ub []float64, low, A, up *mat.Dense) []swarmopt.Point {
	stack, b, _ := StackConstr(low, A, up)
	_, ndims := A.Dims()

	points := make([]swarmopt.Point, 0, n)
	for len(points) < n {
		pos := make([]float64, ndims)
		for j := range pos {
			pos[j] = swarmopt.Uniform(rng, lb[j], ub[j])
		}
		proj := project.Nearest(pos, stack, b)
		points = append(points, swarmopt.NewPoint(proj, math.Inf(1)))
	}
	return points
}

// StackConstr converts the two-sided constraint system "low <= Ax <= up"
// into the one-sided equivalent "stack*x <= b".  ranges holds the width
// up-low of the constraint bounding each stacked row, for normalizing
// violation magnitudes across constraints.
func StackConstr(low, A, up *mat.Dense) (stack, b *mat.Dense, ranges []float64) {
	m, n := A.Dims()
	stack = mat.NewDense(2*m, n, nil)
	b = mat.NewDense(2*m, 1, nil)
	ranges = make([]float64, 2*m)

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			stack.Set(i, j, -A.At(i, j))
			stack.Set(m+i, j, A.At(i, j))
		}
		b.Set(i, 0, -low.At(i, 0))
		b.Set(m+i, 0, up.At(i, 0))

		r := up.At(i, 0) - low.At(i, 0)
		if r == 0 {
			r = 1
		}
		ranges[i], ranges[m+i] = r, r
	}
	return stack, b, ranges
}
