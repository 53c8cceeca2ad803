package zfinder

import (
	"fmt"
	"math"
	"sort"
)

type binnedEfficiency struct {
	absEtaEdges []float64
	ptEdges     []float64
	values      [][]float64
}

// lookup returns the efficiency of the bin holding (absEta, pt). Values
// outside the binning are not covered.
func (b binnedEfficiency) lookup(absEta, pt float64) (float64, bool) {
	i := findBin(b.absEtaEdges, absEta)
	j := findBin(b.ptEdges, pt)
	if i < 0 || j < 0 {
		return 0, false
	}
	return b.values[i][j], true
}

func findBin(edges []float64, x float64) int {
	if len(edges) < 2 || x < edges[0] || x >= edges[len(edges)-1] {
		return -1
	}
	return sort.Search(len(edges), func(i int) bool { return edges[i] > x }) - 1
}

// EfficiencyTable attaches binned per-electron efficiencies to named cuts as
// cut weights. Electrons that do not carry a configured cut, or fall outside
// its binning, keep their weight.
type EfficiencyTable struct {
	cuts  map[string]binnedEfficiency
	names []string
}

func NewEfficiencyTable(cfgs []EfficiencyConfig) (*EfficiencyTable, error) {
	t := &EfficiencyTable{cuts: make(map[string]binnedEfficiency)}
	for _, c := range cfgs {
		if c.Cut == "" {
			return nil, fmt.Errorf("efficiency entry without a cut name")
		}
		if _, dup := t.cuts[c.Cut]; dup {
			return nil, fmt.Errorf("efficiency for cut %q defined twice", c.Cut)
		}
		if err := checkEdges(c.AbsEtaEdges); err != nil {
			return nil, fmt.Errorf("efficiency %q: abs_eta_edges: %w", c.Cut, err)
		}
		if err := checkEdges(c.PtEdges); err != nil {
			return nil, fmt.Errorf("efficiency %q: pt_edges: %w", c.Cut, err)
		}
		if len(c.Values) != len(c.AbsEtaEdges)-1 {
			return nil, fmt.Errorf("efficiency %q: %d eta rows for %d bins", c.Cut, len(c.Values), len(c.AbsEtaEdges)-1)
		}
		for i, row := range c.Values {
			if len(row) != len(c.PtEdges)-1 {
				return nil, fmt.Errorf("efficiency %q: row %d has %d values for %d pt bins", c.Cut, i, len(row), len(c.PtEdges)-1)
			}
		}
		t.cuts[c.Cut] = binnedEfficiency{
			absEtaEdges: c.AbsEtaEdges,
			ptEdges:     c.PtEdges,
			values:      c.Values,
		}
		t.names = append(t.names, c.Cut)
	}
	return t, nil
}

func checkEdges(edges []float64) error {
	if len(edges) < 2 {
		return fmt.Errorf("need at least two edges, got %d", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return fmt.Errorf("edges not increasing at %d", i)
		}
	}
	return nil
}

// Efficiency returns the efficiency of cut for an electron at (eta, pt).
func (t *EfficiencyTable) Efficiency(cut string, eta, pt float64) (float64, bool) {
	b, ok := t.cuts[cut]
	if !ok {
		return 0, false
	}
	return b.lookup(math.Abs(eta), pt)
}

func (t *EfficiencyTable) Set(ev *Event) {
	for _, e := range ev.Reco {
		if e != nil {
			t.Apply(e)
		}
	}
}

// Apply sets the weight of every configured cut that e carries.
func (t *EfficiencyTable) Apply(e *Electron) {
	for _, name := range t.names {
		passed, found := e.CutPassed(name)
		if !found {
			continue
		}
		if eff, ok := t.Efficiency(name, e.Eta, e.Pt); ok {
			e.SetCutWeight(name, passed, eff)
		}
	}
}
