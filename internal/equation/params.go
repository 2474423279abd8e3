package equation

import (
	"math"
	"sync/atomic"
)

// atomicFloat stores a float64 as its IEEE 754 bit pattern in a
// uint64, so concurrent Store/Load never observe a torn value. Orderings
// across distinct coefficients are not coordinated; each field is only
// individually consistent.
type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}
