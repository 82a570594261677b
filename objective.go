package swarmopt

import (
	"crypto/sha1"
	"fmt"
	"sync"
)

// SimpleObjectiver adapts a plain function to the Objectiver interface.
type SimpleObjectiver func([]float64) float64

func (so SimpleObjectiver) Objective(v []float64) (float64, error) { return so(v), nil }

// ObjectivePrinter prints the value of every objective evaluation it
// forwards.  Useful for watching what a solver is doing.
type ObjectivePrinter struct {
	Objectiver
	Count int
}

func NewObjectivePrinter(obj Objectiver) *ObjectivePrinter {
	return &ObjectivePrinter{Objectiver: obj}
}

func (op *ObjectivePrinter) Objective(v []float64) (float64, error) {
	val, err := op.Objectiver.Objective(v)

	op.Count++
	fmt.Print(op.Count, " ")
	for _, x := range v {
		fmt.Print(x, " ")
	}
	fmt.Println("    ", val)

	return val, err
}

// CacheObjectiver memoizes objective values by position so revisited points
// cost nothing.  It is safe for concurrent use by the engine's workers.
// Failed evaluations are not cached.
type CacheObjectiver struct {
	Objectiver
	mu    sync.Mutex
	cache map[[sha1.Size]byte]float64
}

func NewCacheObjectiver(obj Objectiver) *CacheObjectiver {
	return &CacheObjectiver{
		Objectiver: obj,
		cache:      map[[sha1.Size]byte]float64{},
	}
}

func (co *CacheObjectiver) Objective(v []float64) (float64, error) {
	h := hashPoint(NewPoint(v, 0))

	co.mu.Lock()
	val, ok := co.cache[h]
	co.mu.Unlock()
	if ok {
		return val, nil
	}

	val, err := co.Objectiver.Objective(v)
	if err != nil {
		return val, err
	}

	co.mu.Lock()
	co.cache[h] = val
	co.mu.Unlock()
	return val, nil
}
