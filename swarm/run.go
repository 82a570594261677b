package swarm

import (
	"fmt"
	"math"
	"sync"

	"github.com/optimlab/swarmopt"
)

// pool is a fixed set of worker goroutines that each execute one closure
// per phase.  run does not return until every worker has finished, giving
// the barrier between an update phase and the reduction that reads its
// results.
type pool struct {
	jobs []chan func(w int)
	wg   sync.WaitGroup
}

func newPool(n int) *pool {
	pl := &pool{jobs: make([]chan func(w int), n)}
	for w := range pl.jobs {
		ch := make(chan func(w int))
		pl.jobs[w] = ch
		go func(w int, ch chan func(w int)) {
			for fn := range ch {
				fn(w)
				pl.wg.Done()
			}
		}(w, ch)
	}
	return pl
}

// run fans fn out to every worker and blocks until all of them finish.
func (pl *pool) run(fn func(w int)) {
	pl.wg.Add(len(pl.jobs))
	for _, ch := range pl.jobs {
		ch <- fn
	}
	pl.wg.Wait()
}

func (pl *pool) stop() {
	for _, ch := range pl.jobs {
		close(ch)
	}
}

// blockRange returns worker w's half-open range [lo, hi) of n particles
// split into p contiguous blocks.  Block sizes differ by at most one, and a
// block is empty only when p > n.
func blockRange(n, p, w int) (lo, hi int) {
	return w * n / p, (w + 1) * n / p
}

// Step runs a single iteration: move and re-evaluate every particle against
// the global-best snapshot from the previous iteration, reduce the new
// global best, and broadcast its index.  It reports the number of objective
// evaluations n performed and the swarm's best point.  An evaluation error
// aborts the iteration after the update barrier; the error from the
// lowest-numbered worker wins.
func (o *Optimizer) Step() (best swarmopt.Point, n int, err error) {
	o.count++

	inertia := o.InertiaFn(o.count)
	o.pool.run(func(w int) {
		lo, hi := blockRange(len(o.Pop), o.nworkers, w)
		rng := o.streams[w]
		for i := lo; i < hi; i++ {
			p := o.Pop[i]
			p.Move(o.gpos, rng, o.Low, o.Up, o.Vmax, inertia, o.Cognition, o.Social)
			val, err := o.obj.Objective(p.Pos)
			if err != nil {
				o.errs[w] = err
				return
			}
			o.nevals[w]++
			p.Update(val)
		}
	})

	n = o.takeEvals()
	o.neval += n
	if err := o.takeErr(); err != nil {
		return o.Best(), n, fmt.Errorf("swarm: iteration %v: %w", o.count, err)
	}

	o.finishIter()

	best = o.Best()
	if err := o.updateDb(); err != nil {
		return best, n, fmt.Errorf("swarm: recording iteration %v: %w", o.count, err)
	}
	if o.progress != nil {
		o.progress(o.count, best)
	}
	return best, n, nil
}

// Run executes exactly maxiter iterations, with no convergence check, and
// returns the best point found and the number of objective evaluations
// spent.  It stops early only on error.
func (o *Optimizer) Run(maxiter int) (best swarmopt.Point, neval int, err error) {
	if maxiter < 0 {
		return o.Best(), 0, swarmopt.BadConfigf("iteration count %v < 0", maxiter)
	}
	best = o.Best()
	for i := 0; i < maxiter; i++ {
		var n int
		best, n, err = o.Step()
		neval += n
		if err != nil {
			return best, neval, err
		}
	}
	return best, neval, nil
}

// finishIter runs the reduce and broadcast phases: merge the per-block
// minima into the global-best index, snapshot that particle's position for
// the next update phase, and write the index into every particle.
func (o *Optimizer) finishIter() {
	g := o.reduce()
	o.gbest = g
	copy(o.gpos, o.Pop[g].Pos)

	o.pool.run(func(w int) {
		lo, hi := blockRange(len(o.Pop), o.nworkers, w)
		for i := lo; i < hi; i++ {
			o.Pop[i].GBest = g
		}
	})
}

// reduce finds the index of the particle with the lowest personal-best
// value.  Each worker scans its own block keeping the first strict minimum
// it encounters; the merge then walks workers in id order and lets any
// value equal to the minimum overwrite the pick, so on exact cross-block
// ties the highest-numbered worker wins.  Workers with empty blocks are
// skipped.
func (o *Optimizer) reduce() int {
	o.pool.run(func(w int) {
		lo, hi := blockRange(len(o.Pop), o.nworkers, w)
		idx, val := -1, math.Inf(1)
		if lo < hi {
			idx, val = lo, o.Pop[lo].Best.Val
			for i := lo + 1; i < hi; i++ {
				if o.Pop[i].Best.Val < val {
					idx, val = i, o.Pop[i].Best.Val
				}
			}
		}
		o.locIdx[w], o.locVal[w] = idx, val
	})

	first := -1
	min := math.Inf(1)
	for w, v := range o.locVal {
		if o.locIdx[w] < 0 {
			continue
		}
		if first == -1 {
			first, min = w, v
		} else if v < min {
			min = v
		}
	}

	g := o.locIdx[first]
	for w, v := range o.locVal {
		if o.locIdx[w] >= 0 && v == min {
			g = o.locIdx[w]
		}
	}
	return g
}

// Best returns the swarm's current global-best point.
func (o *Optimizer) Best() swarmopt.Point { return o.Pop[o.gbest].Best }

// GBest returns the index of the swarm's current global-best particle.
func (o *Optimizer) GBest() int { return o.gbest }

// Iter returns the number of iterations run so far.
func (o *Optimizer) Iter() int { return o.count }

// Evals returns the total number of objective evaluations performed,
// including the one-per-particle initialization pass.
func (o *Optimizer) Evals() int { return o.neval }

// RunID returns the id tagging this run's rows in the recording database,
// or "" when recording is off.
func (o *Optimizer) RunID() string { return o.runid }

// Stop releases the worker pool.  The optimizer must not be stepped after.
func (o *Optimizer) Stop() { o.pool.stop() }

// takeErr returns the evaluation error from the lowest-numbered worker that
// hit one, clearing all worker error slots.
func (o *Optimizer) takeErr() error {
	var err error
	for w := range o.errs {
		if err == nil && o.errs[w] != nil {
			err = o.errs[w]
		}
		o.errs[w] = nil
	}
	return err
}

// takeEvals drains and sums the per-worker evaluation counters.
func (o *Optimizer) takeEvals() int {
	n := 0
	for w := range o.nevals {
		n += o.nevals[w]
		o.nevals[w] = 0
	}
	return n
}
