package zfinder

import "testing"

func TestPreciseTicksLabelsWithinRange(t *testing.T) {
	ticks := PreciseTicks{NSuggestedTicks: 5}.Ticks(60, 120)

	labelled := 0
	for _, tick := range ticks {
		if tick.Value < 60 || tick.Value > 120 {
			t.Fatalf("tick %g outside range", tick.Value)
		}
		if tick.Label != "" {
			labelled++
		}
	}
	if labelled < 3 {
		t.Fatalf("expected at least 3 labelled ticks, got %d", labelled)
	}
}

func TestLevelHistsFillPassingLevels(t *testing.T) {
	def := mustDefinition(t, etet)
	lh := NewLevelHists(def, 60, 60, 120)
	if len(lh.Hists) != 3 {
		t.Fatalf("expected 3 histograms, got %d", len(lh.Hists))
	}

	pass := testEvent(NewElectron(25, 1.0, 0, -1), NewElectron(15, 2.0, 3, 1), 91)
	partial := testEvent(NewElectron(25, 2.3, 0, -1), NewElectron(15, 2.0, 3, 1), 91)
	for _, ev := range []*Event{pass, partial} {
		def.ApplySelection(ev)
		if !lh.Fill(ev, ev.Z.Mass) {
			t.Fatal("Fill reported a missing ledger")
		}
	}

	want := []int64{2, 1, 1}
	for i, h := range lh.Hists {
		if got := h.Entries(); got != want[i] {
			t.Errorf("level %d entries = %d, want %d", i, got, want[i])
		}
	}

	if lh.Fill(NewEvent(1, 1, [2]*Electron{}), 91) {
		t.Fatal("Fill should report events without a ledger")
	}
}
