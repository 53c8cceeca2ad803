package zfinder

// GenMatch is set on reco electrons that have a generator electron nearby.
const GenMatch = "gen_match"

// TruthMatcher orders the generator electrons of a simulated event so that
// Truth[i] is the one closest to Reco[i], and flags matched reco electrons.
type TruthMatcher struct {
	MaxDeltaR float64
}

func NewTruthMatcher() *TruthMatcher {
	return &TruthMatcher{MaxDeltaR: 0.3}
}

func (m *TruthMatcher) Set(ev *Event) {
	if ev.IsRealData || !ev.HasTruth() {
		return
	}

	r0, r1 := ev.Reco[0], ev.Reco[1]
	t0, t1 := ev.Truth[0], ev.Truth[1]
	if r0 != nil && r1 != nil && t0 != nil && t1 != nil {
		if DeltaR(r0, t1)+DeltaR(r1, t0) < DeltaR(r0, t0)+DeltaR(r1, t1) {
			ev.SetTruth([2]*Electron{t1, t0})
		}
	}

	for i, r := range ev.Reco {
		if r == nil {
			continue
		}
		t := ev.Truth[i]
		r.SetCut(GenMatch, t != nil && DeltaR(r, t) < m.MaxDeltaR)
	}
}
