// Package equation implements the UniversalEquation model: a tunable,
// deterministic energy calculator over the vertices of a unit hypercube
// in a cycling number of dimensions.
//
// The central type is [Calculator]. Each simulation tick the caller
// advances the active dimension and reads back a four-component energy
// snapshot:
//
//	calc, err := equation.New(equation.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	data := calc.UpdateCache() // observable, potential, dark matter, dark energy
//	calc.AdvanceCycle()
//
// Every coefficient is independently settable from any goroutine; the
// derived vertex/interaction/cosine caches rebuild lazily under a single
// mutex, gated by a monotonic version counter. [Compute] never returns
// NaN or Inf: exponential terms go through a clamped safeExp.
//
// The model is a physical analogy, not physics. Dark matter and dark
// energy are named coefficients, nothing more.
package equation
