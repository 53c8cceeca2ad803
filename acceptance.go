package zfinder

import "math"

// Setter adds named cut results or weights to the electrons of an event
// before selections run.
type Setter interface {
	Set(ev *Event)
}

// Detector acceptance cut names.
const (
	AccAll   = "acc(ALL)"
	AccEB    = "acc(EB)"
	AccEE    = "acc(EE)"
	AccET    = "acc(ET)"
	AccNT    = "acc(NT)"
	AccHF    = "acc(HF)"
	AccMinPt = "acc(MIN_PT)"
)

// AcceptanceSetter marks which detector region each electron falls in.
type AcceptanceSetter struct {
	MinPt float64
}

func NewAcceptanceSetter() *AcceptanceSetter {
	return &AcceptanceSetter{MinPt: 20}
}

func (s *AcceptanceSetter) Set(ev *Event) {
	for _, e := range ev.Electrons() {
		s.SetElectron(e)
	}
}

func (s *AcceptanceSetter) SetElectron(e *Electron) {
	absEta := math.Abs(e.Eta)
	eb := absEta < 1.4442
	ee := absEta > 1.566 && absEta < 2.5

	e.SetCut(AccAll, true)
	e.SetCut(AccEB, eb)
	e.SetCut(AccEE, ee)
	e.SetCut(AccET, eb || ee)
	e.SetCut(AccNT, absEta > 2.5 && absEta < 2.85)
	e.SetCut(AccHF, absEta > 3.1 && absEta < 4.6)
	e.SetCut(AccMinPt, e.Pt > s.MinPt)
}
