package zfinder

// Tag assignments. TagElectron0 is the normal ordering: slot-0 cuts on
// electron 0 and slot-1 cuts on electron 1. TagElectron1 swaps them.
const (
	TagElectron0 = 0
	TagElectron1 = 1
)

// CutLevel is the state of one selection level for one event.
type CutLevel struct {
	Pass               bool
	TagProbePass       [2]bool
	TagProbeEfficiency [2]float64
	EventWeight        float64
}

func newCutLevel() CutLevel {
	return CutLevel{
		TagProbeEfficiency: [2]float64{1, 1},
		EventWeight:        1,
	}
}

// Level is a named entry of a Ledger.
type Level struct {
	Name string
	CutLevel
}

// Ledger is the ordered per-event record of a selection: one level per cut
// index followed by the mass-window level. The mass level passes on the mass
// window alone, except for events where no tag assignment passes the first
// cut level: those pass no level at all.
type Ledger []Level

func (l Ledger) Len() int { return len(l) }

// Level returns the level at index i. Negative indices count from the end.
func (l Ledger) Level(i int) (Level, bool) {
	if i < 0 {
		i += len(l)
	}
	if i < 0 || i >= len(l) {
		return Level{}, false
	}
	return l[i], true
}

// Find returns the index of the level with the given name, or -1.
func (l Ledger) Find(name string) int {
	for i := range l {
		if l[i].Name == name {
			return i
		}
	}
	return -1
}

// PassedThrough reports whether every level up to and including i passed.
// Each level is evaluated on its own, so consumers counting events per level
// use this rather than the single level's Pass.
func (l Ledger) PassedThrough(i int) bool {
	if i < 0 {
		i += len(l)
	}
	if i < 0 || i >= len(l) {
		return false
	}
	for j := 0; j <= i; j++ {
		if !l[j].Pass {
			return false
		}
	}
	return true
}

// Passed reports whether the event passes the whole selection.
func (l Ledger) Passed() bool { return l.PassedThrough(-1) }

// Numerator is the final level of the ledger.
func (l Ledger) Numerator() (Level, bool) { return l.Level(-1) }

// Denominator is the level just before the final one.
func (l Ledger) Denominator() (Level, bool) { return l.Level(-2) }

// TagChoice returns the tag assignment whose weight applies at level i. When
// both assignments pass the choice is eventNumber%2, so the same event always
// resolves the same way. ok is false when neither assignment passes.
func (l Ledger) TagChoice(i int, eventNumber uint64) (tag int, ok bool) {
	lvl, found := l.Level(i)
	if !found {
		return 0, false
	}
	t0, t1 := lvl.TagProbePass[TagElectron0], lvl.TagProbePass[TagElectron1]
	switch {
	case t0 && t1:
		return int(eventNumber % 2), true
	case t0:
		return TagElectron0, true
	case t1:
		return TagElectron1, true
	}
	return 0, false
}

// Weight is the efficiency weight of the chosen tag assignment at level i
// times the event weight. It is zero when no assignment passes.
func (l Ledger) Weight(i int, eventNumber uint64) float64 {
	tag, ok := l.TagChoice(i, eventNumber)
	if !ok {
		return 0
	}
	lvl, _ := l.Level(i)
	return lvl.TagProbeEfficiency[tag] * lvl.EventWeight
}
