package zfinder

import "testing"

func testEfficiencyConfig() []EfficiencyConfig {
	return []EfficiencyConfig{{
		Cut:         "acc(ET)",
		AbsEtaEdges: []float64{0, 1.4442, 2.5},
		PtEdges:     []float64{20, 40, 1000},
		Values:      [][]float64{{0.95, 0.97}, {0.90, 0.93}},
	}}
}

func TestEfficiencyTableLookup(t *testing.T) {
	table, err := NewEfficiencyTable(testEfficiencyConfig())
	if err != nil {
		t.Fatalf("NewEfficiencyTable: %v", err)
	}

	tests := []struct {
		eta, pt float64
		want    float64
		ok      bool
	}{
		{0.5, 30, 0.95, true},
		{-0.5, 50, 0.97, true},
		{2.0, 20, 0.90, true},
		{-1.4442, 40, 0.93, true},
		{2.5, 30, 0, false},
		{0.5, 10, 0, false},
	}
	for _, tt := range tests {
		got, ok := table.Efficiency("acc(ET)", tt.eta, tt.pt)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Efficiency(%g, %g) = %g, %v; want %g, %v", tt.eta, tt.pt, got, ok, tt.want, tt.ok)
		}
	}
	if _, ok := table.Efficiency("WP80", 0, 30); ok {
		t.Fatal("unknown cut should have no efficiency")
	}
}

func TestEfficiencyTableApply(t *testing.T) {
	table, err := NewEfficiencyTable(testEfficiencyConfig())
	if err != nil {
		t.Fatalf("NewEfficiencyTable: %v", err)
	}

	e := NewElectron(30, 0.5, 0, -1)
	e.SetCut("acc(ET)", true)
	table.Apply(e)
	if w := e.CutWeight("acc(ET)"); w != 0.95 {
		t.Fatalf("weight = %g, want 0.95", w)
	}
	if passed, _ := e.CutPassed("acc(ET)"); !passed {
		t.Fatal("applying a weight changed the cut decision")
	}

	bare := NewElectron(30, 0.5, 0, -1)
	table.Apply(bare)
	if _, found := bare.CutPassed("acc(ET)"); found {
		t.Fatal("weights must not create cuts")
	}
}

func TestEfficiencyTableRejectsBadBinning(t *testing.T) {
	bad := []EfficiencyConfig{
		{Cut: "", AbsEtaEdges: []float64{0, 1}, PtEdges: []float64{0, 1}, Values: [][]float64{{1}}},
		{Cut: "a", AbsEtaEdges: []float64{0}, PtEdges: []float64{0, 1}, Values: [][]float64{{1}}},
		{Cut: "a", AbsEtaEdges: []float64{1, 0}, PtEdges: []float64{0, 1}, Values: [][]float64{{1}}},
		{Cut: "a", AbsEtaEdges: []float64{0, 1}, PtEdges: []float64{0, 1}, Values: [][]float64{{1, 2}}},
		{Cut: "a", AbsEtaEdges: []float64{0, 1, 2}, PtEdges: []float64{0, 1}, Values: [][]float64{{1}}},
	}
	for i, cfg := range bad {
		if _, err := NewEfficiencyTable([]EfficiencyConfig{cfg}); err == nil {
			t.Errorf("config %d: expected an error", i)
		}
	}
}
