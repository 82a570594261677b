// swarmopt runs the parallel particle swarm optimizer against a named
// benchmark function and reports per-trial and aggregate results.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/gcfg.v1"
	_ "modernc.org/sqlite"

	"github.com/optimlab/swarmopt"
	"github.com/optimlab/swarmopt/bench"
	"github.com/optimlab/swarmopt/swarm"
)

var (
	fconfig    = flag.String("config", "", "gcfg run-configuration file (flags set on the command line override it)")
	ffunc      = flag.String("func", "booth", "objective function name")
	fdim       = flag.Int("dim", 2, "problem dimensionality")
	fparticles = flag.Int("n", 30, "swarm size")
	fxmin      = flag.Float64("xmin", math.NaN(), "lower box bound for every dimension (default: the function's own)")
	fxmax      = flag.Float64("xmax", math.NaN(), "upper box bound for every dimension (default: the function's own)")
	fmaxiter   = flag.Int("iter", 200, "iterations per trial")
	fworkers   = flag.Int("workers", runtime.NumCPU(), "worker goroutines")
	fseed      = flag.Int64("seed", 42, "base random seed (trial t uses seed+t)")
	finertia   = flag.Float64("w", swarm.DefaultInertia, "velocity inertia")
	fcog       = flag.Float64("c1", swarm.DefaultCognition, "cognition learning factor")
	fsoc       = flag.Float64("c2", swarm.DefaultSocial, "social learning factor")
	fdb        = flag.String("db", "", "sqlite database file to record runs into")
	ftrials    = flag.Int("trials", 1, "number of independent trials")
	fprogress  = flag.Bool("progress", false, "print the best point after every iteration")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("swarmopt: ")
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the gcfg file when -config is given and then lets every
// flag explicitly set on the command line override it.
func loadConfig() (*Config, error) {
	cfg := &Config{}
	r := &cfg.Run
	setall := func() {
		r.Function = *ffunc
		r.Dim = *fdim
		r.Particles = *fparticles
		r.Xmin = *fxmin
		r.Xmax = *fxmax
		r.MaxIter = *fmaxiter
		r.Workers = *fworkers
		r.Seed = *fseed
		r.Inertia = *finertia
		r.Cognition = *fcog
		r.Social = *fsoc
		r.Db = *fdb
		r.Trials = *ftrials
		r.Progress = *fprogress
	}
	setall()

	if *fconfig != "" {
		if err := gcfg.ReadFileInto(cfg, *fconfig); err != nil {
			return nil, fmt.Errorf("reading %v: %w", *fconfig, err)
		}
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "func":
				r.Function = *ffunc
			case "dim":
				r.Dim = *fdim
			case "n":
				r.Particles = *fparticles
			case "xmin":
				r.Xmin = *fxmin
			case "xmax":
				r.Xmax = *fxmax
			case "iter":
				r.MaxIter = *fmaxiter
			case "workers":
				r.Workers = *fworkers
			case "seed":
				r.Seed = *fseed
			case "w":
				r.Inertia = *finertia
			case "c1":
				r.Cognition = *fcog
			case "c2":
				r.Social = *fsoc
			case "db":
				r.Db = *fdb
			case "trials":
				r.Trials = *ftrials
			case "progress":
				r.Progress = *fprogress
			}
		})
	}
	return cfg, nil
}

func run(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	fn, err := bench.ByName(cfg.Run.Function, cfg.Run.Dim)
	if err != nil {
		return err
	}

	low, up := fn.Bounds()
	for i := range low {
		if !math.IsNaN(cfg.Run.Xmin) {
			low[i] = cfg.Run.Xmin
		}
		if !math.IsNaN(cfg.Run.Xmax) {
			up[i] = cfg.Run.Xmax
		}
	}

	var db *sql.DB
	if cfg.Run.Db != "" {
		db, err = sql.Open("sqlite", cfg.Run.Db)
		if err != nil {
			return fmt.Errorf("opening %v: %w", cfg.Run.Db, err)
		}
		defer db.Close()
	}

	optimum := fn.Optima()[0].Val
	thresh := .01*math.Abs(optimum) + .001

	nsuccess := 0
	toteval := 0
	start := time.Now()
	for trial := 0; trial < cfg.Run.Trials; trial++ {
		opts := []swarm.Option{
			swarm.Workers(cfg.Run.Workers),
			swarm.Seed(cfg.Run.Seed + int64(trial)),
			swarm.FixedInertia(cfg.Run.Inertia),
			swarm.LearnFactors(cfg.Run.Cognition, cfg.Run.Social),
		}
		if db != nil {
			opts = append(opts, swarm.DB(db))
		}
		if cfg.Run.Progress {
			opts = append(opts, swarm.Progress(func(iter int, best swarmopt.Point) {
				fmt.Fprintf(os.Stderr, "iter %v: best %v at %v\n", iter, best.Val, best.Pos())
			}))
		}

		o, err := swarm.New(swarmopt.SimpleObjectiver(fn.Eval), low, up, cfg.Run.Particles, opts...)
		if err != nil {
			return err
		}
		best, _, err := o.Run(cfg.Run.MaxIter)
		neval := o.Evals()
		o.Stop()
		if err != nil {
			return err
		}

		toteval += neval
		status := "failed"
		if math.Abs(best.Val-optimum) < thresh {
			status = "succeeded"
			nsuccess++
		}
		fmt.Printf("trial %v %v after %v evals: best %v at %v\n",
			trial, status, humanize.Comma(int64(neval)), best.Val, best.Pos())
	}

	fmt.Printf("%v: %.0f%% of %v trials succeeded (%v evals in %v)\n",
		fn.Name(), 100*float64(nsuccess)/float64(cfg.Run.Trials), cfg.Run.Trials,
		humanize.Comma(int64(toteval)), time.Since(start).Round(time.Millisecond))
	return nil
}
