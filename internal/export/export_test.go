package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/selkora/hyperfield/internal/equation"
)

func testFrames() []equation.DimensionData {
	return []equation.DimensionData{
		{Dimension: 1, Observable: 1.25, Potential: 0.5, DarkMatter: 0.1, DarkEnergy: 0.05},
		{Dimension: 2, Observable: 2.5, Potential: 0.9, DarkMatter: 0.2, DarkEnergy: 0.15},
		{Dimension: 3, Observable: 1.8, Potential: 0.7, DarkMatter: 0.15, DarkEnergy: 0.2},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testFrames()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[0][2] != "observable" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[2][1] != "2" {
		t.Errorf("expected dimension 2 in row 2, got %s", records[2][1])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	run := Run{
		ID:      "abc",
		Preset:  "standard",
		Metrics: map[string]float64{"mean_observable": 1.5},
		Frames:  testFrames(),
	}
	if err := WriteJSON(&buf, run); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var decoded Run
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if decoded.ID != "abc" || len(decoded.Frames) != 3 {
		t.Errorf("round trip failed: %+v", decoded)
	}
}

func TestEnergySVG(t *testing.T) {
	svg, err := EnergySVG(testFrames(), 640, 320)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing xml header")
	}
	if got := strings.Count(svg, "<path"); got != 4 {
		t.Errorf("expected 4 series paths, got %d", got)
	}
	if !strings.Contains(svg, "</svg>") {
		t.Error("unterminated svg")
	}
}

func TestEnergySVGTooFewFrames(t *testing.T) {
	if _, err := EnergySVG(testFrames()[:1], 100, 100); err == nil {
		t.Error("expected error for single frame")
	}
}
