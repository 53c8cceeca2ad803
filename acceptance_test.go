package zfinder

import "testing"

func TestAcceptanceRegions(t *testing.T) {
	tests := []struct {
		eta  float64
		pass map[string]bool
	}{
		{0.5, map[string]bool{AccEB: true, AccEE: false, AccET: true, AccNT: false, AccHF: false}},
		{-2.0, map[string]bool{AccEB: false, AccEE: true, AccET: true, AccNT: false, AccHF: false}},
		{1.5, map[string]bool{AccEB: false, AccEE: false, AccET: false, AccNT: false, AccHF: false}},
		{2.7, map[string]bool{AccEB: false, AccEE: false, AccET: false, AccNT: true, AccHF: false}},
		{-4.0, map[string]bool{AccEB: false, AccEE: false, AccET: false, AccNT: false, AccHF: true}},
	}

	s := NewAcceptanceSetter()
	for _, tt := range tests {
		e := NewElectron(30, tt.eta, 0, -1)
		s.SetElectron(e)
		if passed, found := e.CutPassed(AccAll); !found || !passed {
			t.Fatalf("eta %g: acc(ALL) not set", tt.eta)
		}
		for name, want := range tt.pass {
			passed, found := e.CutPassed(name)
			if !found {
				t.Fatalf("eta %g: %s not set", tt.eta, name)
			}
			if passed != want {
				t.Errorf("eta %g: %s = %v, want %v", tt.eta, name, passed, want)
			}
		}
	}
}

func TestAcceptanceMinPt(t *testing.T) {
	s := &AcceptanceSetter{MinPt: 25}
	ev := NewEvent(1, 1, [2]*Electron{NewElectron(30, 0, 0, -1), NewElectron(20, 0, 3, 1)})
	s.Set(ev)

	if passed, _ := ev.Reco[0].CutPassed(AccMinPt); !passed {
		t.Fatal("leading electron should pass the minimum pt")
	}
	if passed, _ := ev.Reco[1].CutPassed(AccMinPt); passed {
		t.Fatal("trailing electron should fail the minimum pt")
	}
}

func TestTruthMatcherReordersTruth(t *testing.T) {
	r0, r1 := NewElectron(40, 1.0, 0.5, -1), NewElectron(30, -1.0, -2.0, 1)
	ev := NewEvent(1, 1, [2]*Electron{r0, r1})
	far := NewElectron(30, -1.01, -2.01, 1)
	near := NewElectron(40, 1.01, 0.49, -1)
	ev.SetTruth([2]*Electron{far, near})

	NewTruthMatcher().Set(ev)

	if ev.Truth[0] != near || ev.Truth[1] != far {
		t.Fatal("truth electrons were not matched to reco order")
	}
	for i, r := range ev.Reco {
		if passed, found := r.CutPassed(GenMatch); !found || !passed {
			t.Fatalf("reco electron %d not flagged as matched", i)
		}
	}
}

func TestTruthMatcherSkipsRealData(t *testing.T) {
	ev := NewEvent(1, 1, [2]*Electron{NewElectron(40, 0, 0, -1), NewElectron(30, 0, 3, 1)})
	ev.IsRealData = true
	NewTruthMatcher().Set(ev)
	if _, found := ev.Reco[0].CutPassed(GenMatch); found {
		t.Fatal("real data should not get a generator match flag")
	}
}

func TestTruthMatcherFlagsUnmatched(t *testing.T) {
	ev := NewEvent(1, 1, [2]*Electron{NewElectron(40, 0, 0, -1), NewElectron(30, 2, 3, 1)})
	ev.SetTruth([2]*Electron{NewElectron(40, 0.05, 0, -1), NewElectron(30, -2, 0, 1)})
	NewTruthMatcher().Set(ev)

	if passed, _ := ev.Reco[0].CutPassed(GenMatch); !passed {
		t.Fatal("close electron should match")
	}
	if passed, found := ev.Reco[1].CutPassed(GenMatch); !found || passed {
		t.Fatal("distant electron should be flagged as unmatched")
	}
}
