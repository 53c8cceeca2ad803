package zfinder

import (
	"math"
	"sort"
)

const electronMass = 0.000510998928

// CutResult is the outcome of a named cut on one electron.
type CutResult struct {
	Passed bool
	Weight float64
}

// Electron is a reconstructed or generator-level electron candidate with its
// table of named cut results.
type Electron struct {
	Pt     float64
	Eta    float64
	Phi    float64
	Charge int

	cuts map[string]CutResult
}

func NewElectron(pt, eta, phi float64, charge int) *Electron {
	return &Electron{Pt: pt, Eta: eta, Phi: phi, Charge: charge}
}

// SetCut records a named cut result with unit weight, replacing any
// previous result of the same name.
func (e *Electron) SetCut(name string, passed bool) {
	e.SetCutWeight(name, passed, 1)
}

func (e *Electron) SetCutWeight(name string, passed bool, weight float64) {
	if e.cuts == nil {
		e.cuts = make(map[string]CutResult)
	}
	e.cuts[name] = CutResult{Passed: passed, Weight: weight}
}

// CutPassed looks up a named cut. found is false if the cut was never set.
func (e *Electron) CutPassed(name string) (passed, found bool) {
	r, found := e.cuts[name]
	return r.Passed, found
}

// CutWeight returns the weight of a named cut, 1 if the cut was never set.
func (e *Electron) CutWeight(name string) float64 {
	r, found := e.cuts[name]
	if !found {
		return 1
	}
	return r.Weight
}

// CutNames returns the names of all cuts set on e, sorted.
func (e *Electron) CutNames() []string {
	names := make([]string, 0, len(e.cuts))
	for name := range e.cuts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns the kinematic quantity v. Generator and reco variables read
// the same fields; which electron is asked is the caller's choice.
func (e *Electron) Value(v Variable) (float64, bool) {
	switch v {
	case VarPt, VarGenPt:
		return e.Pt, true
	case VarEta, VarGenEta:
		return e.Eta, true
	case VarPhi, VarGenPhi:
		return e.Phi, true
	case VarCharge, VarGenCharge:
		return float64(e.Charge), true
	}
	return 0, false
}

// DeltaR is the distance of two electrons in (eta, phi).
func DeltaR(a, b *Electron) float64 {
	return math.Hypot(a.Eta-b.Eta, deltaPhi(a.Phi, b.Phi))
}

func deltaPhi(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	switch {
	case d > math.Pi:
		d -= 2 * math.Pi
	case d <= -math.Pi:
		d += 2 * math.Pi
	}
	return d
}

// SortByPt orders electrons by decreasing transverse momentum.
func SortByPt(electrons []*Electron) {
	sort.SliceStable(electrons, func(i, j int) bool {
		return electrons[i].Pt > electrons[j].Pt
	})
}
