package swarmopt

import (
	"crypto/sha1"
	"encoding/binary"
	"math"
)

// Point is a position paired with its objective value.  The position is
// copied on the way in and on the way out, so points can be passed between
// goroutines without aliasing worries.
type Point struct {
	pos []float64
	Val float64
}

// NewPoint copies pos into a new point with objective value val.
func NewPoint(pos []float64, val float64) Point {
	cpos := make([]float64, len(pos))
	copy(cpos, pos)
	return Point{pos: cpos, Val: val}
}

// At returns the position's i'th coordinate.
func (p Point) At(i int) float64 { return p.pos[i] }

// Len returns the dimensionality of the point's position.
func (p Point) Len() int { return len(p.pos) }

// Pos returns a copy of the point's position.
func (p Point) Pos() []float64 {
	pos := make([]float64, len(p.pos))
	copy(pos, p.pos)
	return pos
}

func hashPoint(p Point) [sha1.Size]byte {
	data := make([]byte, 8*p.Len())
	for i := 0; i < p.Len(); i++ {
		binary.BigEndian.PutUint64(data[i*8:], math.Float64bits(p.At(i)))
	}
	return sha1.Sum(data)
}
