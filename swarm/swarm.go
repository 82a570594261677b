// Package swarm implements a data-parallel particle swarm optimizer.
//
// A fixed pool of workers owns disjoint, contiguous blocks of the particle
// population.  Every iteration runs three barrier-separated phases: each
// worker moves and re-evaluates the particles in its block, the per-block
// minima are merged into a single global-best index, and that index is
// broadcast back to every particle.  Workers draw from private random
// streams, so a run is fully reproducible for a fixed seed and worker count.
package swarm

import (
	"database/sql"
	"math"

	"github.com/google/uuid"

	"github.com/optimlab/swarmopt"
)

// Default coefficients for the velocity update.  See Constriction for an
// alternative, theoretically grounded choice.
const (
	DefaultInertia   = 0.79
	DefaultCognition = 1.49
	DefaultSocial    = 1.49
)

// Constriction calculates the constriction coefficient for the given c1 and
// c2 for the particle velocity equation:
//
//	v_next = k*(v_curr + c1*rand*(p_personal-x_curr) + c2*rand*(p_glob-x_curr))
//
// c1 + c2 should usually be greater than (but close to) 4.  Using k as the
// inertia together with k*c1 and k*c2 as the learning factors reproduces the
// adaptive swarm described in:
//
//	Clerc, M. "The swarm and the queen: towards a deterministic and
//	adaptive particle swarm optimization" Proc. 1999 Congress on
//	Evolutionary Computation, pp. 1951-1957.
func Constriction(c1, c2 float64) float64 {
	phi := c1 + c2
	return 2 / math.Abs(2-phi-math.Sqrt(phi*phi-4*phi))
}

// Particle is one member of the swarm.  Pos and Vel are mutated in place by
// the worker that owns the particle's block; Best only ever improves.
type Particle struct {
	Id  int
	Pos []float64
	Vel []float64
	// Val is the objective value at Pos from the most recent evaluation.
	Val float64
	// Best is the lowest-valued point this particle has ever occupied.
	Best swarmopt.Point
	// GBest is the index of the swarm's best particle as of the most
	// recent broadcast.  Every particle holds the same value during an
	// update phase.
	GBest int
}

// Move advances the particle one velocity step toward gbest.  r1 and r2 are
// drawn per dimension.  A velocity component that leaves
// [-vmax[i], vmax[i]] is replaced with a fresh uniform sample from that
// range rather than clipped, and the new position is clamped to
// [low[i], up[i]].
func (p *Particle) Move(gbest []float64, rng swarmopt.Rng, low, up, vmax []float64, inertia, cognition, social float64) {
	for i, currv := range p.Vel {
		r1 := rng.Float64()
		r2 := rng.Float64()
		v := inertia*currv +
			cognition*r1*(p.Best.At(i)-p.Pos[i]) +
			social*r2*(gbest[i]-p.Pos[i])
		if v < -vmax[i] || v > vmax[i] {
			v = swarmopt.Uniform(rng, -vmax[i], vmax[i])
		}
		p.Vel[i] = v

		p.Pos[i] += v
		if p.Pos[i] > up[i] {
			p.Pos[i] = up[i]
		} else if p.Pos[i] < low[i] {
			p.Pos[i] = low[i]
		}
	}
}

// Update records the objective value val observed at the particle's current
// position.  Only a strictly better value replaces Best, so Best never
// worsens and a NaN never displaces it.
func (p *Particle) Update(val float64) {
	p.Val = val
	if val < p.Best.Val {
		p.Best = swarmopt.NewPoint(p.Pos, val)
	}
}

// Population is the set of particles being evolved by an Optimizer.
type Population []*Particle

// Points returns a copy of every particle's personal best.
func (pop Population) Points() []swarmopt.Point {
	points := make([]swarmopt.Point, 0, len(pop))
	for _, p := range pop {
		points = append(points, p.Best)
	}
	return points
}

// Option configures an Optimizer before any particle state is built.
type Option func(*Optimizer)

// Workers sets the number of pool goroutines n that the population is
// partitioned across.  The default is 1.
func Workers(n int) Option {
	return func(o *Optimizer) { o.nworkers = n }
}

// Seed sets the base seed for the per-worker random streams; worker w draws
// from a stream seeded with seed+w.
func Seed(seed int64) Option {
	return func(o *Optimizer) { o.seed = seed }
}

// LearnFactors sets the cognition and social learning factors of the
// velocity equation.
func LearnFactors(cognition, social float64) Option {
	return func(o *Optimizer) {
		o.Cognition = cognition
		o.Social = social
	}
}

// FixedInertia sets the particle velocity inertia to a constant.
func FixedInertia(inertia float64) Option {
	return func(o *Optimizer) {
		o.InertiaFn = func(iter int) float64 { return inertia }
	}
}

// LinInertia linearly interpolates the inertia from start to end over
// maxiter iterations.  Common values are start=0.9 and end=0.4.
func LinInertia(start, end float64, maxiter int) Option {
	return func(o *Optimizer) {
		o.InertiaFn = func(iter int) float64 {
			return start - (start-end)*float64(iter)/float64(maxiter)
		}
	}
}

// Vmax overrides the per-dimension velocity bounds.  The default for each
// dimension is the width of its box bounds.
func Vmax(vmax []float64) Option {
	return func(o *Optimizer) { o.Vmax = append([]float64{}, vmax...) }
}

// DB records every iteration's swarm state into the tables named by the
// Tbl* constants, tagged with a fresh run id.
func DB(db *sql.DB) Option {
	return func(o *Optimizer) { o.db = db }
}

// Progress registers fn to be called at the end of every iteration with the
// iteration count and the swarm's best point.
func Progress(fn func(iter int, best swarmopt.Point)) Option {
	return func(o *Optimizer) { o.progress = fn }
}

// StartAt seeds initial particle positions from points instead of sampling
// them uniformly; len(points) must equal the swarm size passed to New.
// Positions are clamped to the box bounds and velocities are still sampled.
func StartAt(points []swarmopt.Point) Option {
	return func(o *Optimizer) { o.start = points }
}

// Optimizer evolves a fixed-size population of particles inside box bounds.
// Exported fields are read-only once New returns.
type Optimizer struct {
	Pop       Population
	Low, Up   []float64
	Vmax      []float64
	Cognition float64
	Social    float64
	InertiaFn func(iter int) float64

	obj      swarmopt.Objectiver
	nworkers int
	seed     int64
	pool     *pool
	streams  []swarmopt.Rng

	// per-worker scratch, indexed by worker id
	locIdx []int
	locVal []float64
	errs   []error
	nevals []int

	gbest int
	// gpos is a snapshot of the global-best position taken after each
	// reduction; update phases read it instead of the live particle.
	gpos  []float64
	count int
	neval int

	db       *sql.DB
	runid    string
	progress func(int, swarmopt.Point)
	start    []swarmopt.Point
}

// New builds a swarm of n particles over the box bounds low/up and fully
// initializes it: positions and velocities are sampled in parallel, one
// block per worker, every particle is evaluated once, and the initial
// global best is reduced and broadcast.  Configuration problems are
// detected before any particle state exists and the returned error wraps
// swarmopt.ErrBadConfig.
func New(obj swarmopt.Objectiver, low, up []float64, n int, opts ...Option) (*Optimizer, error) {
	switch {
	case obj == nil:
		return nil, swarmopt.BadConfigf("nil objective")
	case n < 1:
		return nil, swarmopt.BadConfigf("swarm size %v < 1", n)
	case len(low) == 0:
		return nil, swarmopt.BadConfigf("zero-dimension bounds")
	case len(low) != len(up):
		return nil, swarmopt.BadConfigf("bounds length mismatch: %v != %v", len(low), len(up))
	}
	for i := range low {
		if low[i] >= up[i] {
			return nil, swarmopt.BadConfigf("bounds[%v]: low %v >= up %v", i, low[i], up[i])
		}
	}

	o := &Optimizer{
		obj:       obj,
		Low:       append([]float64{}, low...),
		Up:        append([]float64{}, up...),
		Cognition: DefaultCognition,
		Social:    DefaultSocial,
		InertiaFn: func(iter int) float64 { return DefaultInertia },
		nworkers:  1,
		gbest:     -1,
	}
	for _, opt := range opts {
		opt(o)
	}

	switch {
	case o.nworkers < 1:
		return nil, swarmopt.BadConfigf("worker count %v < 1", o.nworkers)
	case o.Vmax != nil && len(o.Vmax) != len(o.Low):
		return nil, swarmopt.BadConfigf("vmax length %v != bounds length %v", len(o.Vmax), len(o.Low))
	case o.start != nil && len(o.start) != n:
		return nil, swarmopt.BadConfigf("%v starting points for %v particles", len(o.start), n)
	}
	if o.Vmax == nil {
		o.Vmax = vmaxfrombounds(o.Low, o.Up)
	}

	o.streams = make([]swarmopt.Rng, o.nworkers)
	for w := range o.streams {
		o.streams[w] = swarmopt.NewRng(o.seed + int64(w))
	}
	o.locIdx = make([]int, o.nworkers)
	o.locVal = make([]float64, o.nworkers)
	o.errs = make([]error, o.nworkers)
	o.nevals = make([]int, o.nworkers)
	o.gpos = make([]float64, len(o.Low))
	o.Pop = make(Population, n)
	o.pool = newPool(o.nworkers)

	o.pool.run(o.initBlock)
	o.neval += o.takeEvals()
	if err := o.takeErr(); err != nil {
		o.Stop()
		return nil, err
	}
	o.finishIter()

	if o.db != nil {
		o.runid = uuid.NewString()
		if err := o.initdb(); err != nil {
			o.Stop()
			return nil, err
		}
		if err := o.updateDb(); err != nil {
			o.Stop()
			return nil, err
		}
	}
	return o, nil
}

// initBlock samples and evaluates worker w's block of particles.
func (o *Optimizer) initBlock(w int) {
	lo, hi := blockRange(len(o.Pop), o.nworkers, w)
	rng := o.streams[w]
	ndim := len(o.Low)

	for i := lo; i < hi; i++ {
		p := &Particle{
			Id:    i,
			Pos:   make([]float64, ndim),
			Vel:   make([]float64, ndim),
			GBest: -1,
		}
		for j := 0; j < ndim; j++ {
			if o.start != nil {
				p.Pos[j] = math.Min(math.Max(o.start[i].At(j), o.Low[j]), o.Up[j])
			} else {
				p.Pos[j] = swarmopt.Uniform(rng, o.Low[j], o.Up[j])
			}
			p.Vel[j] = swarmopt.Uniform(rng, -o.Vmax[j], o.Vmax[j])
		}
		o.Pop[i] = p

		val, err := o.obj.Objective(p.Pos)
		if err != nil {
			o.errs[w] = err
			return
		}
		o.nevals[w]++
		p.Val = val
		p.Best = swarmopt.NewPoint(p.Pos, val)
	}
}

func vmaxfrombounds(low, up []float64) []float64 {
	vmax := make([]float64, len(low))
	for i := range vmax {
		vmax[i] = up[i] - low[i]
	}
	return vmax
}
