// Package swarmopt provides the shared vocabulary for the particle swarm
// optimization engine in the swarm subpackage: positions paired with
// objective values, the objective-function contract, and deterministic
// random streams.
package swarmopt

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrBadConfig tags configuration problems detected before any swarm state
// is constructed - unknown objective names, non-positive sizes, inverted
// bounds.  Test for it with errors.Is.
var ErrBadConfig = errors.New("invalid configuration")

// BadConfigf wraps ErrBadConfig with a formatted description.
func BadConfigf(format string, args ...any) error {
	args = append([]any{ErrBadConfig}, args...)
	return fmt.Errorf("%w: "+format, args...)
}

// Objectiver is the contract between solvers and the function being
// minimized.
type Objectiver interface {
	// Objective evaluates the variables in v and returns the objective
	// function value.  The objective must be framed so that lower values
	// are better.  A failed evaluation returns positive infinity along
	// with an error.
	Objective(v []float64) (float64, error)
}

// Runner advances an optimization run one iteration at a time.
type Runner interface {
	// Step runs a single iteration of a solver and reports the number of
	// objective evaluations n performed during it and the best point found
	// so far.
	Step() (best Point, n int, err error)
}

// Rng is a source of uniform random numbers in [0, 1).  Implementations are
// not safe for concurrent use; every goroutine gets its own stream.
type Rng interface {
	Float64() float64
}

// NewRng returns a deterministic stream for the given seed.  Worker w of an
// engine seeded with s draws from NewRng(s + int64(w)), so streams never
// share state and a run is reproducible for a fixed seed and worker count.
func NewRng(seed int64) Rng {
	return rand.New(rand.NewSource(seed))
}

// Uniform draws a sample from [min, max) using rng.
func Uniform(rng Rng, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}
