// Package zfinder selects Z -> ee candidates with cascading, configurable cut
// sequences and records per-level tag/probe results for efficiency studies.
package zfinder

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// ZDefinition is a named selection: two parallel cut sequences, one per
// electron slot, followed by a dielectron mass window. It is immutable after
// construction and safe for concurrent use.
type ZDefinition struct {
	name    string
	slot0   []CutSpec
	slot1   []CutSpec
	massMin float64
	massMax float64
	levels  []string
	logger  *zap.Logger
}

// Option configures a ZDefinition.
type Option func(*ZDefinition)

// WithLogger sets the logger used for evaluation diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(d *ZDefinition) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewZDefinition parses the cut tokens of cfg and validates the selection.
// All failures are *ConfigurationError.
func NewZDefinition(cfg SelectionConfig, opts ...Option) (*ZDefinition, error) {
	d := &ZDefinition{
		name:    cfg.Name,
		massMin: cfg.MassMin,
		massMax: cfg.MassMax,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if cfg.Name == "" {
		return nil, &ConfigurationError{Kind: ErrMissingName}
	}
	if len(cfg.Cuts0) != len(cfg.Cuts1) {
		return nil, &ConfigurationError{
			Kind:      ErrMismatchedCuts,
			Selection: cfg.Name,
			Detail:    fmt.Sprintf("cuts0 has %d entries, cuts1 has %d", len(cfg.Cuts0), len(cfg.Cuts1)),
		}
	}
	if cfg.MassMin > cfg.MassMax {
		return nil, &ConfigurationError{
			Kind:      ErrInvertedMassWindow,
			Selection: cfg.Name,
			Detail:    fmt.Sprintf("%g > %g", cfg.MassMin, cfg.MassMax),
		}
	}

	var err error
	if d.slot0, err = d.parseSlot(cfg.Cuts0); err != nil {
		return nil, err
	}
	if d.slot1, err = d.parseSlot(cfg.Cuts1); err != nil {
		return nil, err
	}

	for i := range d.slot0 {
		d.levels = append(d.levels, d.slot0[i].Token+" AND "+d.slot1[i].Token)
	}
	d.levels = append(d.levels, formatMass(d.massMin)+" < M_ee < "+formatMass(d.massMax))

	return d, nil
}

func (d *ZDefinition) parseSlot(tokens []string) ([]CutSpec, error) {
	specs := make([]CutSpec, 0, len(tokens))
	for _, tok := range tokens {
		spec, err := ParseCut(tok)
		if err != nil {
			if cerr, ok := err.(*ConfigurationError); ok {
				cerr.Selection = d.name
			}
			return nil, err
		}
		if spec.IsComparison && spec.Variable == VarNone {
			d.logger.Warn("cut compares an unknown variable and will never pass",
				zap.String("selection", d.name),
				zap.String("cut", tok),
			)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func formatMass(m float64) string {
	return strconv.FormatFloat(m, 'g', -1, 64)
}

func (d *ZDefinition) Name() string { return d.name }

// LevelNames returns the level names in ledger order.
func (d *ZDefinition) LevelNames() []string {
	return append([]string(nil), d.levels...)
}

// MassWindow returns the inclusive mass window.
func (d *ZDefinition) MassWindow() (min, max float64) {
	return d.massMin, d.massMax
}

// Cuts returns copies of the two parsed cut sequences.
func (d *ZDefinition) Cuts() (slot0, slot1 []CutSpec) {
	return append([]CutSpec(nil), d.slot0...), append([]CutSpec(nil), d.slot1...)
}

// evaluation is the per-call scratch state of ApplySelection, indexed by
// [slot][assignment][cut].
type evaluation struct {
	pass   [2][2][]bool
	weight [2][2][]float64
}

// electronIndex maps a cut slot under a tag assignment to an electron index.
func electronIndex(slot, assignment int) int {
	return slot ^ assignment
}

// ApplySelection evaluates the selection on ev and attaches the resulting
// ledger to ev under the selection's name. Evaluation problems fail the
// affected cut and never abort the event.
func (d *ZDefinition) ApplySelection(ev *Event) {
	ev.SetLedger(d.name, d.Evaluate(ev))
}

// Evaluate computes the ledger for ev without attaching it.
func (d *ZDefinition) Evaluate(ev *Event) Ledger {
	n := len(d.slot0)
	var eval evaluation
	for slot, cuts := range [2][]CutSpec{d.slot0, d.slot1} {
		for a := 0; a < 2; a++ {
			eval.pass[slot][a] = make([]bool, n)
			eval.weight[slot][a] = make([]float64, n)
			idx := electronIndex(slot, a)
			for i, c := range cuts {
				eval.pass[slot][a][i], eval.weight[slot][a][i] = d.evalCut(ev, c, idx, a == TagElectron0)
			}
		}
	}
	return d.fillLedger(ev, &eval)
}

// evalCut evaluates c on electron idx. Diagnostics are only logged when
// report is set, so each cut is reported once per event rather than once
// per tag assignment.
func (d *ZDefinition) evalCut(ev *Event, c CutSpec, idx int, report bool) (bool, float64) {
	if c.IsComparison {
		return d.evalComparison(ev, c, idx, report), 1
	}

	e := ev.Reco[idx]
	if e == nil {
		return false, 1
	}
	passed, found := e.CutPassed(c.Name())
	if !found {
		return false, 1
	}
	if c.Invert {
		return !passed, 1
	}
	return passed, e.CutWeight(c.Name())
}

func (d *ZDefinition) evalComparison(ev *Event, c CutSpec, idx int, report bool) bool {
	if c.Variable == VarNone {
		return false
	}

	e := ev.Reco[idx]
	if c.Variable.IsGen() {
		if ev.IsRealData {
			if !report {
				return false
			}
			d.logger.Warn("generator-level cut applied to real data",
				zap.String("selection", d.name),
				zap.String("cut", c.Token),
				zap.Int64("run", ev.RunNumber),
				zap.Uint64("event", ev.EventNumber),
			)
			return false
		}
		if ev.HasTruth() {
			e = ev.Truth[idx]
		}
	}
	if e == nil {
		return false
	}

	v, ok := e.Value(c.Variable)
	if !ok {
		return false
	}
	return c.Operator.Compare(v, c.Threshold) != c.Invert
}

// fillLedger folds the cut matrix into cumulative per-assignment chains and
// picks one tag assignment for the whole ledger: the first level where the
// chains disagree decides, otherwise the normal assignment is kept.
func (d *ZDefinition) fillLedger(ev *Event, eval *evaluation) Ledger {
	n := len(d.slot0)
	var chains [2][]bool
	var effs [2][]float64
	for a := 0; a < 2; a++ {
		chains[a] = make([]bool, n)
		effs[a] = make([]float64, n)
		pass, eff := true, 1.0
		for i := 0; i < n; i++ {
			pass = pass && eval.pass[0][a][i] && eval.pass[1][a][i]
			eff *= eval.weight[0][a][i] * eval.weight[1][a][i]
			chains[a][i] = pass
			effs[a][i] = eff
		}
	}

	locked := TagElectron0
	for i := 0; i < n; i++ {
		if chains[TagElectron0][i] != chains[TagElectron1][i] {
			if chains[TagElectron1][i] {
				locked = TagElectron1
			}
			break
		}
	}

	noCandidate := n > 0 && !chains[TagElectron0][0] && !chains[TagElectron1][0]
	if noCandidate {
		d.logger.Warn("no tag assignment passes the first level",
			zap.String("selection", d.name),
			zap.Int64("run", ev.RunNumber),
			zap.Uint64("event", ev.EventNumber),
		)
	}

	ledger := make(Ledger, 0, n+1)
	for i := 0; i < n; i++ {
		lvl := newCutLevel()
		lvl.Pass = chains[locked][i]
		lvl.TagProbePass = [2]bool{chains[0][i], chains[1][i]}
		lvl.TagProbeEfficiency = [2]float64{effs[0][i], effs[1][i]}
		lvl.EventWeight = ev.Weight
		ledger = append(ledger, Level{Name: d.levels[i], CutLevel: lvl})
	}

	mass := ev.Z.Mass
	massPass := d.massMin <= mass && mass <= d.massMax

	lvl := newCutLevel()
	lvl.Pass = massPass && !noCandidate
	lvl.TagProbePass = [2]bool{massPass, massPass}
	lvl.EventWeight = ev.Weight
	if n > 0 {
		lvl.TagProbePass = [2]bool{chains[0][n-1] && massPass, chains[1][n-1] && massPass}
		lvl.TagProbeEfficiency = [2]float64{effs[0][n-1], effs[1][n-1]}
	}
	ledger = append(ledger, Level{Name: d.levels[n], CutLevel: lvl})

	return ledger
}
