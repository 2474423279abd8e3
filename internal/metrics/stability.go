package metrics

import (
	"math"

	"github.com/selkora/hyperfield/internal/equation"
)

// Drift measures the largest relative jump of the observable component
// between consecutive cycles. A stable tuning keeps this low even as
// the dimension wraps around.
type Drift struct {
	prev     float64
	maxDrift float64
	samples  int
}

func NewDrift() *Drift { return &Drift{} }

func (m *Drift) Name() string { return "observable_drift" }

func (m *Drift) Observe(data equation.DimensionData, cycle int) {
	if m.samples > 0 && math.Abs(m.prev) > 1e-12 {
		drift := math.Abs(data.Observable-m.prev) / math.Abs(m.prev)
		if drift > m.maxDrift {
			m.maxDrift = drift
		}
	}
	m.prev = data.Observable
	m.samples++
}

func (m *Drift) Value() float64 { return m.maxDrift }

func (m *Drift) Reset() {
	m.prev = 0
	m.maxDrift = 0
	m.samples = 0
}
