// Package generator draws randomized trial timings.
package generator

import (
	"math/rand"
	"time"
)

// Range is the half-open duration interval [Min, Max). An empty range
// always yields Min.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Generator produces uniform stimulus delays and visible durations.
type Generator struct {
	rnd     *rand.Rand
	delay   Range
	visible Range
}

// New returns a Generator seeded with the current time.
func New(delay, visible Range) *Generator {
	return NewSeeded(delay, visible, time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(delay, visible Range, seed int64) *Generator {
	return &Generator{
		rnd:     rand.New(rand.NewSource(seed)),
		delay:   delay,
		visible: visible,
	}
}

// NextDelay returns the wait before the next stimulus.
func (g *Generator) NextDelay() time.Duration {
	return uniform(g.rnd, g.delay)
}

// NextVisible returns how long the next stimulus stays on screen.
func (g *Generator) NextVisible() time.Duration {
	return uniform(g.rnd, g.visible)
}

func uniform(rnd *rand.Rand, r Range) time.Duration {
	lo, hi := r.Min, r.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	span := hi - lo
	if span <= 0 {
		return lo
	}
	return lo + time.Duration(rnd.Float64()*float64(span))
}
