package main

import "github.com/optimlab/swarmopt"

// Config holds the parameters of an optimization run.  It can be populated
// from command-line flags or from a gcfg file like:
//
//	[run]
//	function = booth
//	dim = 2
//	particles = 30
//	xmin = -10
//	xmax = 10
//	maxiter = 200
//	workers = 4
//	seed = 42
//	trials = 10
type Config struct {
	Run struct {
		Function  string
		Dim       int
		Particles int
		Xmin      float64
		Xmax      float64
		MaxIter   int
		Workers   int
		Seed      int64
		Inertia   float64
		Cognition float64
		Social    float64
		Db        string
		Trials    int
		Progress  bool
	}
}

// Validate reports the first configuration problem as an error wrapping
// swarmopt.ErrBadConfig, before any swarm state is built.
func (c *Config) Validate() error {
	r := &c.Run
	switch {
	case r.Function == "":
		return swarmopt.BadConfigf("no objective function given")
	case r.Dim < 1:
		return swarmopt.BadConfigf("dimension %v < 1", r.Dim)
	case r.Particles < 1:
		return swarmopt.BadConfigf("swarm size %v < 1", r.Particles)
	case r.Xmin >= r.Xmax:
		return swarmopt.BadConfigf("xmin %v >= xmax %v", r.Xmin, r.Xmax)
	case r.MaxIter < 1:
		return swarmopt.BadConfigf("maxiter %v < 1", r.MaxIter)
	case r.Workers < 1:
		return swarmopt.BadConfigf("worker count %v < 1", r.Workers)
	case r.Trials < 1:
		return swarmopt.BadConfigf("trial count %v < 1", r.Trials)
	}
	return nil
}
