package equation

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
)

const (
	// MinDimensions and MaxSupportedDimensions bound the dimension
	// ceiling a Calculator can be constructed with.
	MinDimensions          = 1
	MaxSupportedDimensions = 20

	// initAttempts bounds the retry loop around the first cache build.
	initAttempts = 3
)

var (
	ErrDimensionRange = errors.New("equation: max dimensions outside supported range")
	ErrInit           = errors.New("equation: initial cache build failed")
)

// Calculator owns the model coefficients and the derived geometric
// caches. Coefficients are independent atomics and safe to mutate from
// any goroutine; the vertex/interaction/cosine caches rebuild lazily
// under mu when the version counter has moved past the built version.
type Calculator struct {
	maxDimensions int
	omega         float64 // 2π / (2·maxDimensions − 1)
	invMaxDim     float64

	currentDim atomic.Int64
	mode       atomic.Int64

	influence      atomicFloat
	weak           atomicFloat
	collapse       atomicFloat
	twoD           atomicFloat
	threeD         atomicFloat
	oneDPermeation atomicFloat
	darkMatter     atomicFloat
	darkEnergy     atomicFloat
	alpha          atomicFloat
	beta           atomicFloat
	debug          atomic.Bool

	// version is bumped by any mutation that invalidates the caches.
	version atomic.Uint64

	mu           sync.Mutex
	built        uint64 // version the caches were last rebuilt at
	cacheDim     int    // dimension the caches were built for
	vertices     [][]float64
	cosTable     []float64
	interactions []Interaction

	// Weak association with a navigator; the calculator never owns it.
	navigators *NavigatorRegistry
	navigator  atomic.Uint64

	traceMu sync.Mutex // serializes debug output only, never held with mu
}

// New constructs a Calculator and performs the initial cache build with
// a bounded retry. It fails for a dimension ceiling outside
// [MinDimensions, MaxSupportedDimensions] or if the build never
// produces a consistent cache.
func New(cfg Config) (*Calculator, error) {
	if cfg.MaxDimensions < MinDimensions || cfg.MaxDimensions > MaxSupportedDimensions {
		return nil, fmt.Errorf("%w: %d", ErrDimensionRange, cfg.MaxDimensions)
	}

	c := &Calculator{
		maxDimensions: cfg.MaxDimensions,
		omega:         2 * math.Pi / float64(2*cfg.MaxDimensions-1),
		invMaxDim:     1 / float64(cfg.MaxDimensions),
	}

	mode := cfg.Mode
	if mode < 1 || mode > cfg.MaxDimensions {
		mode = 1
	}
	c.currentDim.Store(int64(mode))
	c.mode.Store(int64(mode))

	c.influence.Store(cfg.Influence)
	c.weak.Store(cfg.Weak)
	c.collapse.Store(cfg.Collapse)
	c.twoD.Store(cfg.TwoD)
	c.threeD.Store(cfg.ThreeD)
	c.oneDPermeation.Store(cfg.OneDPermeation)
	c.darkMatter.Store(cfg.DarkMatter)
	c.darkEnergy.Store(cfg.DarkEnergy)
	c.alpha.Store(cfg.Alpha)
	c.beta.Store(cfg.Beta)
	c.debug.Store(cfg.Debug)

	c.version.Store(1)

	if err := c.initializeWithRetry(initAttempts); err != nil {
		return nil, err
	}
	return c, nil
}

// initializeWithRetry performs the first cache build. Building is the
// only operation expected to fail at startup; after attempts tries the
// calculator is unusable and construction must not proceed.
func (c *Calculator) initializeWithRetry(attempts int) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		c.mu.Lock()
		c.rebuildLocked(c.version.Load())
		lastErr = c.validateLocked()
		c.mu.Unlock()

		if lastErr == nil {
			return nil
		}
		c.trace("cache build attempt failed", "attempt", i+1, "err", lastErr)
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrInit, attempts, lastErr)
}

// AdvanceCycle moves the active dimension forward, wrapping back to 1
// after maxDimensions, and keeps mode tracking it. This is the sole
// driver of which dimension is active.
func (c *Calculator) AdvanceCycle() {
	for {
		cur := c.currentDim.Load()
		next := cur%int64(c.maxDimensions) + 1
		if !c.currentDim.CompareAndSwap(cur, next) {
			continue
		}
		c.mode.Store(next)
		c.version.Add(1)
		c.notifyNavigator(int(next))
		c.trace("advanced cycle", "dimension", next)
		return
	}
}

// Compute aggregates the energy terms over the interaction cache,
// rebuilding it first if any invalidating mutation happened. The result
// is always finite.
func (c *Calculator) Compute() EnergyResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, _ := c.computeLocked()
	return res
}

// UpdateCache is the per-tick integration point for rendering code: one
// fresh computation packaged with the dimension it was computed for.
func (c *Calculator) UpdateCache() DimensionData {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, dim := c.computeLocked()
	return DimensionData{
		Dimension:  dim,
		Observable: res.Observable,
		Potential:  res.Potential,
		DarkMatter: res.DarkMatter,
		DarkEnergy: res.DarkEnergy,
	}
}

func (c *Calculator) computeLocked() (EnergyResult, int) {
	c.ensureFreshLocked()

	dim := c.cacheDim
	n := len(c.interactions)
	var res EnergyResult
	if n == 0 {
		return res, dim
	}

	geom := 1.0
	switch dim {
	case 2:
		geom = c.twoD.Load()
	case 3:
		geom = c.threeD.Load()
	}

	// Permeation is fully weighted only at dimension 1; above that a
	// residual leakage proportional to 1/maxDimensions remains.
	permWeight := c.invMaxDim
	if dim == 1 {
		permWeight = 1.0
	}

	var strengthSum, darkSum float64
	for _, in := range c.interactions {
		res.Observable += in.Strength*geom + permWeight*c.permeationTerm(in.Vertex)
		res.Potential += c.collapseTerm(dim, in.Vertex)
		strengthSum += in.Strength
		darkSum += c.darkEnergyTerm(in.Distance)
	}

	// Mean-field approximations: dark matter couples to the average
	// interaction strength, dark energy to the average distance response.
	res.DarkMatter = c.darkMatter.Load() * strengthSum / float64(n)
	res.DarkEnergy = darkSum / float64(n)

	if !res.IsFinite() {
		c.trace("non-finite energy result suppressed", "dimension", dim)
		return EnergyResult{}, dim
	}
	return res, dim
}

// ensureFreshLocked rebuilds the caches if any invalidating mutation
// happened since the last build. Callers must hold mu.
func (c *Calculator) ensureFreshLocked() {
	want := c.version.Load()
	if c.built == want {
		return
	}
	c.rebuildLocked(want)
}

// rebuildLocked regenerates vertices, cosine samples, and the
// interaction list for the current dimension, then records the version
// the build corresponds to. Callers must hold mu.
func (c *Calculator) rebuildLocked(version uint64) {
	dim := int(c.currentDim.Load())
	c.cacheDim = dim
	c.vertices = buildVertices(dim)

	n := len(c.vertices)
	c.cosTable = make([]float64, n)
	for i := 0; i < n; i++ {
		c.cosTable[i] = math.Cos(c.omega * float64(i+dim))
	}

	c.interactions = make([]Interaction, n)
	for i := 0; i < n; i++ {
		d := vertexDistance(i)
		c.interactions[i] = Interaction{
			Vertex:   i,
			Distance: d,
			Strength: c.interactionStrength(dim, d),
		}
	}

	c.built = version
	c.trace("rebuilt caches", "dimension", dim, "vertices", n)
}

// validateLocked checks the structural invariants of a freshly built
// cache. Callers must hold mu.
func (c *Calculator) validateLocked() error {
	want := vertexCount(c.cacheDim)
	if len(c.vertices) != want {
		return fmt.Errorf("vertex count %d, want %d", len(c.vertices), want)
	}
	for i, v := range c.vertices {
		if len(v) != c.cacheDim {
			return fmt.Errorf("vertex %d has %d axes, want %d", i, len(v), c.cacheDim)
		}
	}
	if len(c.cosTable) != want || len(c.interactions) != want {
		return fmt.Errorf("cache tables inconsistent: cos=%d interactions=%d want %d",
			len(c.cosTable), len(c.interactions), want)
	}
	return nil
}

// Interactions returns a copy of the current interaction list,
// rebuilding first if needed.
func (c *Calculator) Interactions() []Interaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureFreshLocked()
	out := make([]Interaction, len(c.interactions))
	copy(out, c.interactions)
	return out
}

// VertexCount returns the number of cached hypercube vertices.
func (c *Calculator) VertexCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureFreshLocked()
	return len(c.vertices)
}

// Vertices returns a deep copy of the cached vertex set.
func (c *Calculator) Vertices() [][]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureFreshLocked()
	out := make([][]float64, len(c.vertices))
	for i, v := range c.vertices {
		out[i] = append([]float64(nil), v...)
	}
	return out
}

func (c *Calculator) MaxDimensions() int    { return c.maxDimensions }
func (c *Calculator) Omega() float64        { return c.omega }
func (c *Calculator) CurrentDimension() int { return int(c.currentDim.Load()) }
func (c *Calculator) Mode() int             { return int(c.mode.Load()) }

// SetMode overrides the mode tag without moving the active dimension.
func (c *Calculator) SetMode(mode int) { c.mode.Store(int64(mode)) }

func (c *Calculator) Influence() float64 { return c.influence.Load() }
func (c *Calculator) SetInfluence(v float64) {
	c.influence.Store(v)
	c.version.Add(1) // cached strengths depend on influence
}

func (c *Calculator) Weak() float64 { return c.weak.Load() }
func (c *Calculator) SetWeak(v float64) {
	c.weak.Store(v)
	c.version.Add(1)
}

func (c *Calculator) Alpha() float64 { return c.alpha.Load() }
func (c *Calculator) SetAlpha(v float64) {
	c.alpha.Store(v)
	c.version.Add(1)
}

// The remaining coefficients only weight terms at compute time, so
// their setters do not invalidate the caches.

func (c *Calculator) Collapse() float64               { return c.collapse.Load() }
func (c *Calculator) SetCollapse(v float64)           { c.collapse.Store(v) }
func (c *Calculator) TwoD() float64                   { return c.twoD.Load() }
func (c *Calculator) SetTwoD(v float64)               { c.twoD.Store(v) }
func (c *Calculator) ThreeD() float64                 { return c.threeD.Load() }
func (c *Calculator) SetThreeD(v float64)             { c.threeD.Store(v) }
func (c *Calculator) OneDPermeation() float64         { return c.oneDPermeation.Load() }
func (c *Calculator) SetOneDPermeation(v float64)     { c.oneDPermeation.Store(v) }
func (c *Calculator) DarkMatterStrength() float64     { return c.darkMatter.Load() }
func (c *Calculator) SetDarkMatterStrength(v float64) { c.darkMatter.Store(v) }
func (c *Calculator) DarkEnergyStrength() float64     { return c.darkEnergy.Load() }
func (c *Calculator) SetDarkEnergyStrength(v float64) { c.darkEnergy.Store(v) }
func (c *Calculator) Beta() float64                   { return c.beta.Load() }
func (c *Calculator) SetBeta(v float64)               { c.beta.Store(v) }

func (c *Calculator) Debug() bool      { return c.debug.Load() }
func (c *Calculator) SetDebug(on bool) { c.debug.Store(on) }

// Coefficients returns a snapshot of all tunables keyed by name.
func (c *Calculator) Coefficients() map[string]float64 {
	return map[string]float64{
		"influence":        c.influence.Load(),
		"weak":             c.weak.Load(),
		"collapse":         c.collapse.Load(),
		"two_d":            c.twoD.Load(),
		"three_d":          c.threeD.Load(),
		"one_d_permeation": c.oneDPermeation.Load(),
		"dark_matter":      c.darkMatter.Load(),
		"dark_energy":      c.darkEnergy.Load(),
		"alpha":            c.alpha.Load(),
		"beta":             c.beta.Load(),
	}
}

// SetCoefficient sets a tunable by name.
func (c *Calculator) SetCoefficient(name string, v float64) error {
	switch name {
	case "influence":
		c.SetInfluence(v)
	case "weak":
		c.SetWeak(v)
	case "collapse":
		c.SetCollapse(v)
	case "two_d":
		c.SetTwoD(v)
	case "three_d":
		c.SetThreeD(v)
	case "one_d_permeation":
		c.SetOneDPermeation(v)
	case "dark_matter":
		c.SetDarkMatterStrength(v)
	case "dark_energy":
		c.SetDarkEnergyStrength(v)
	case "alpha":
		c.SetAlpha(v)
	case "beta":
		c.SetBeta(v)
	default:
		return fmt.Errorf("unknown coefficient: %s", name)
	}
	return nil
}

func (c *Calculator) trace(msg string, args ...any) {
	if !c.debug.Load() {
		return
	}
	c.traceMu.Lock()
	defer c.traceMu.Unlock()
	slog.Debug(msg, args...)
}
