// Package generator produces the randomized draws behind the simulation.
package generator

import (
	"math/rand"
	"time"
)

// Generator wraps a seeded random source.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed, producing a repeatable sequence.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Float64 returns a value in [0, 1).
func (g *Generator) Float64() float64 {
	return g.rnd.Float64()
}

// Intn returns a value in [0, n).
func (g *Generator) Intn(n int) int {
	return g.rnd.Intn(n)
}

// Between returns a value in [lo, hi). It returns lo when hi <= lo.
func (g *Generator) Between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rnd.Float64()*(hi-lo)
}
