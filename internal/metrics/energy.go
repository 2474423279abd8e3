package metrics

import (
	"math"

	"github.com/selkora/hyperfield/internal/equation"
)

// MeanObservable averages the observable component over a run.
type MeanObservable struct {
	sum     float64
	samples int
}

func NewMeanObservable() *MeanObservable { return &MeanObservable{} }

func (m *MeanObservable) Name() string { return "mean_observable" }

func (m *MeanObservable) Observe(data equation.DimensionData, cycle int) {
	m.sum += data.Observable
	m.samples++
}

func (m *MeanObservable) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanObservable) Reset() {
	m.sum = 0
	m.samples = 0
}

// EnergyBalance tracks the mean ratio of dark components to the
// observable component; high values mean the dark terms dominate what
// the renderer actually shows.
type EnergyBalance struct {
	sum     float64
	samples int
}

func NewEnergyBalance() *EnergyBalance { return &EnergyBalance{} }

func (m *EnergyBalance) Name() string { return "energy_balance" }

func (m *EnergyBalance) Observe(data equation.DimensionData, cycle int) {
	denom := math.Abs(data.Observable)
	if denom < 1e-12 {
		return
	}
	m.sum += (data.DarkMatter + data.DarkEnergy) / denom
	m.samples++
}

func (m *EnergyBalance) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *EnergyBalance) Reset() {
	m.sum = 0
	m.samples = 0
}

// PeakPotential records the largest absolute potential seen.
type PeakPotential struct {
	peak float64
}

func NewPeakPotential() *PeakPotential { return &PeakPotential{} }

func (m *PeakPotential) Name() string { return "peak_potential" }

func (m *PeakPotential) Observe(data equation.DimensionData, cycle int) {
	if p := math.Abs(data.Potential); p > m.peak {
		m.peak = p
	}
}

func (m *PeakPotential) Value() float64 { return m.peak }

func (m *PeakPotential) Reset() { m.peak = 0 }
