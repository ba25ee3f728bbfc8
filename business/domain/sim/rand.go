package sim

import (
	"math/rand/v2"
	"time"
)

// Rand is the source of visual jitter. Float64 returns a value in [0, 1).
type Rand interface {
	Float64() float64
}

func NewRand() Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>32|1))
}

// SequenceRand replays a fixed sequence of values, wrapping around at the end.
type SequenceRand struct {
	values []float64
	next   int
}

func NewSequenceRand(values ...float64) *SequenceRand {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &SequenceRand{values: values}
}

func (r *SequenceRand) Float64() float64 {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}
