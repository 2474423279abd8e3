package equation

import "math"

// safeExp argument bounds. Below expFloor the true value is smaller
// than any contribution we care about, so it collapses to zero instead
// of producing denormals; above expCeil the argument is clamped so the
// result stays finite.
const (
	expFloor = -60.0
	expCeil  = 60.0
)

// safeExp is a guarded math.Exp that never returns NaN or Inf.
func safeExp(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x < expFloor:
		return 0
	case x > expCeil:
		x = expCeil
	}
	return math.Exp(x)
}

// interactionStrength models locality falloff: full influence up to
// three dimensions, attenuated by the weak factor above.
func (c *Calculator) interactionStrength(dim int, distance float64) float64 {
	s := c.influence.Load() * safeExp(-c.alpha.Load()*distance)
	if dim > 3 {
		s *= c.weak.Load()
	}
	return s
}

// permeationTerm is the one-dimensional leakage contribution for the
// vertex at idx. The cosine sample is itself fed through cos, matching
// the original tuning.
func (c *Calculator) permeationTerm(idx int) float64 {
	return c.oneDPermeation.Load() * c.beta.Load() * math.Cos(c.cosTable[idx])
}

// darkEnergyTerm saturates toward the darkEnergy coefficient as
// distance grows; the scale is tied to the dimension ceiling.
func (c *Calculator) darkEnergyTerm(distance float64) float64 {
	return c.darkEnergy.Load() * (1 - safeExp(-2*distance*c.invMaxDim))
}

// collapseTerm damps with dimension: an exponential decay in (dim-1)
// scaled by beta, modulated into [0,1] by the cached cosine sample.
// Higher dimensions collapse more weakly into observable 3-space.
func (c *Calculator) collapseTerm(dim, idx int) float64 {
	osc := 0.5 + 0.5*c.cosTable[idx]
	return c.collapse.Load() * float64(dim) * safeExp(-c.beta.Load()*float64(dim-1)) * osc
}
