package viz

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/selkora/hyperfield/internal/equation"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := equation.DefaultConfig()
	cfg.MaxDimensions = 4
	calc, err := equation.New(cfg)
	if err != nil {
		t.Fatalf("calculator construction failed: %v", err)
	}
	return NewModel(calc, 30)
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestResetRestoresDimensionAndCoefficients(t *testing.T) {
	m := newTestModel(t)
	startDim := m.calc.CurrentDimension()
	startInfluence := m.calc.Influence()

	// Advance a few ticks and nudge a coefficient so reset has work to do.
	var next tea.Model = m
	for i := 0; i < 3; i++ {
		next, _ = next.(Model).Update(TickMsg(time.Now()))
	}
	m = next.(Model)
	m.calc.SetInfluence(startInfluence * 2)

	if m.calc.CurrentDimension() == startDim {
		t.Fatal("ticks did not move the dimension, reset has nothing to verify")
	}

	next, _ = m.Update(keyMsg('r'))
	m = next.(Model)

	if got := m.calc.CurrentDimension(); got != startDim {
		t.Errorf("dimension after reset = %d, want %d", got, startDim)
	}
	if got := m.calc.Influence(); got != startInfluence {
		t.Errorf("influence after reset = %v, want %v", got, startInfluence)
	}
	if m.cycle != 0 {
		t.Errorf("cycle after reset = %d, want 0", m.cycle)
	}
	if len(m.history) != 0 {
		t.Errorf("history not cleared, %d entries remain", len(m.history))
	}
	if m.latest.Dimension != startDim {
		t.Errorf("latest frame dimension = %d, want %d", m.latest.Dimension, startDim)
	}
}

func TestPauseStopsTicks(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(keyMsg(' '))
	m = next.(Model)
	if m.running {
		t.Fatal("space did not pause")
	}

	dim := m.calc.CurrentDimension()
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if m.cycle != 0 || m.calc.CurrentDimension() != dim {
		t.Error("paused model still advanced")
	}
}
