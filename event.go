package zfinder

import "sort"

// Event holds one dielectron candidate event. Reco and Truth are ordered so
// that Truth[i] is the generator electron matched to Reco[i]; Truth is empty
// for real data. Ledgers produced by selections are attached by name.
type Event struct {
	RunNumber   int64
	EventNumber uint64
	IsRealData  bool
	Weight      float64

	Reco  [2]*Electron
	Truth [2]*Electron

	Z      ZKinematics
	TruthZ ZKinematics

	ledgers map[string]Ledger
}

// NewEvent builds an event from two reconstructed electrons and computes
// the Z kinematics when both are present.
func NewEvent(run int64, number uint64, reco [2]*Electron) *Event {
	ev := &Event{
		RunNumber:   run,
		EventNumber: number,
		Weight:      1,
		Reco:        reco,
	}
	if reco[0] != nil && reco[1] != nil {
		ev.Z = DielectronKinematics(reco[0], reco[1])
	}
	return ev
}

// SetTruth attaches the generator electrons and computes their kinematics.
func (ev *Event) SetTruth(truth [2]*Electron) {
	ev.Truth = truth
	ev.TruthZ = ZKinematics{}
	if truth[0] != nil && truth[1] != nil {
		ev.TruthZ = DielectronKinematics(truth[0], truth[1])
	}
}

// HasTruth reports whether any generator electron is attached.
func (ev *Event) HasTruth() bool {
	return ev.Truth[0] != nil || ev.Truth[1] != nil
}

// Electrons returns the attached reco and truth electrons, skipping nils.
func (ev *Event) Electrons() []*Electron {
	var out []*Electron
	for _, set := range [][2]*Electron{ev.Reco, ev.Truth} {
		for _, e := range set {
			if e != nil {
				out = append(out, e)
			}
		}
	}
	return out
}

// SetLedger attaches l under name, replacing any earlier ledger.
func (ev *Event) SetLedger(name string, l Ledger) {
	if ev.ledgers == nil {
		ev.ledgers = make(map[string]Ledger)
	}
	ev.ledgers[name] = l
}

func (ev *Event) Ledger(name string) (Ledger, bool) {
	l, ok := ev.ledgers[name]
	return l, ok
}

// LedgerNames lists the attached ledgers, sorted.
func (ev *Event) LedgerNames() []string {
	names := make([]string, 0, len(ev.ledgers))
	for name := range ev.ledgers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
