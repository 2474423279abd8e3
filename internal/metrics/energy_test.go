package metrics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/selkora/hyperfield/internal/equation"
	"github.com/selkora/hyperfield/internal/metrics"
)

func frame(dim int, obs, pot, dm, de float64) equation.DimensionData {
	return equation.DimensionData{
		Dimension:  dim,
		Observable: obs,
		Potential:  pot,
		DarkMatter: dm,
		DarkEnergy: de,
	}
}

var _ = Describe("MeanObservable", func() {
	It("averages the observable component", func() {
		m := metrics.NewMeanObservable()
		m.Observe(frame(1, 2.0, 0, 0, 0), 0)
		m.Observe(frame(2, 4.0, 0, 0, 0), 1)
		Expect(m.Value()).To(BeNumerically("~", 3.0, 1e-12))
	})

	It("returns zero with no samples", func() {
		Expect(metrics.NewMeanObservable().Value()).To(BeZero())
	})

	It("resets to zero", func() {
		m := metrics.NewMeanObservable()
		m.Observe(frame(1, 5.0, 0, 0, 0), 0)
		m.Reset()
		Expect(m.Value()).To(BeZero())
	})
})

var _ = Describe("EnergyBalance", func() {
	It("relates dark components to the observable", func() {
		m := metrics.NewEnergyBalance()
		m.Observe(frame(1, 2.0, 0, 0.5, 0.5), 0)
		Expect(m.Value()).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("skips frames with a vanishing observable", func() {
		m := metrics.NewEnergyBalance()
		m.Observe(frame(1, 0, 0, 1.0, 1.0), 0)
		Expect(m.Value()).To(BeZero())
	})
})

var _ = Describe("PeakPotential", func() {
	It("records the absolute peak", func() {
		m := metrics.NewPeakPotential()
		m.Observe(frame(1, 0, -3.0, 0, 0), 0)
		m.Observe(frame(2, 0, 2.0, 0, 0), 1)
		Expect(m.Value()).To(Equal(3.0))
	})
})

var _ = Describe("Drift", func() {
	It("tracks the largest relative jump", func() {
		m := metrics.NewDrift()
		m.Observe(frame(1, 1.0, 0, 0, 0), 0)
		m.Observe(frame(2, 1.5, 0, 0, 0), 1)
		m.Observe(frame(3, 1.4, 0, 0, 0), 2)
		Expect(m.Value()).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("is zero for a constant signal", func() {
		m := metrics.NewDrift()
		for i := 0; i < 5; i++ {
			m.Observe(frame(1, 2.0, 0, 0, 0), i)
		}
		Expect(m.Value()).To(BeZero())
	})
})

var _ = Describe("Against a live calculator", func() {
	It("produces finite metric values over a full cycle", func() {
		cfg := equation.DefaultConfig()
		cfg.MaxDimensions = 6
		calc, err := equation.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		mean := metrics.NewMeanObservable()
		drift := metrics.NewDrift()
		for i := 0; i < 6; i++ {
			data := calc.UpdateCache()
			mean.Observe(data, i)
			drift.Observe(data, i)
			calc.AdvanceCycle()
		}

		Expect(mean.Value()).NotTo(BeZero())
		Expect(drift.Value()).To(BeNumerically(">=", 0))
	})
})
