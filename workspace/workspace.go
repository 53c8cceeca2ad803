// Package workspace writes fit-ready datasets of Z candidates passing the
// numerator and denominator levels of a selection.
package workspace

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"unicode"

	"go-hep.org/x/hep/csvutil"

	"github.com/decibelcooper/zfinder"
)

const header = "## mass;phistar;y;weight;tag\n"

// Dataset is one CSV table and the running weight sums of its rows.
type Dataset struct {
	Path  string
	Rows  int
	SumW  float64
	SumW2 float64

	tbl *csvutil.Table
}

func createDataset(path string) (*Dataset, error) {
	tbl, err := csvutil.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	tbl.Writer.Comma = ';'
	if err := tbl.WriteHeader(header); err != nil {
		_ = tbl.Close()
		return nil, fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	return &Dataset{Path: path, tbl: tbl}, nil
}

func (d *Dataset) write(ev *zfinder.Event, weight float64, tag int) error {
	if err := d.tbl.WriteRow(ev.Z.Mass, ev.Z.Phistar, ev.Z.Y, weight, tag); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", d.Path, err)
	}
	d.Rows++
	d.SumW += weight
	d.SumW2 += weight * weight
	return nil
}

// Writer fills the numerator (final level) and denominator (second to last
// level) datasets of one selection. A selection without cut levels has no
// denominator.
type Writer struct {
	selection   string
	Numerator   *Dataset
	Denominator *Dataset
}

// Create opens <dir>/<selection>_numerator.csv and _denominator.csv.
func Create(dir string, def *zfinder.ZDefinition) (*Writer, error) {
	base := filepath.Join(dir, fileStem(def.Name()))
	w := &Writer{selection: def.Name()}

	var err error
	if w.Numerator, err = createDataset(base + "_numerator.csv"); err != nil {
		return nil, err
	}
	if len(def.LevelNames()) > 1 {
		if w.Denominator, err = createDataset(base + "_denominator.csv"); err != nil {
			_ = w.Numerator.tbl.Close()
			return nil, err
		}
	}
	return w, nil
}

func fileStem(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return '_'
	}, name)
}

// Fill writes ev to every dataset whose level it reaches without failing an
// earlier one. The weight is the
// tag/probe efficiency of the chosen tag times the event weight; events
// whose level passes without a passing tag assignment get the event weight
// and tag -1.
func (w *Writer) Fill(ev *zfinder.Event) error {
	ledger, ok := ev.Ledger(w.selection)
	if !ok {
		return nil
	}

	sets := []struct {
		idx int
		ds  *Dataset
	}{
		{-1, w.Numerator},
		{-2, w.Denominator},
	}
	for _, set := range sets {
		if set.ds == nil {
			continue
		}
		if !ledger.PassedThrough(set.idx) {
			continue
		}
		lvl, _ := ledger.Level(set.idx)
		weight, tag := lvl.EventWeight, -1
		if t, ok := ledger.TagChoice(set.idx, ev.EventNumber); ok {
			weight, tag = ledger.Weight(set.idx, ev.EventNumber), t
		}
		if err := set.ds.write(ev, weight, tag); err != nil {
			return err
		}
	}
	return nil
}

// Efficiency is the weighted numerator/denominator ratio with a binomial
// error using the effective number of denominator entries.
func (w *Writer) Efficiency() (eff, err float64) {
	if w.Denominator == nil || w.Denominator.SumW == 0 {
		return 0, 0
	}
	eff = w.Numerator.SumW / w.Denominator.SumW
	nEff := w.Denominator.SumW * w.Denominator.SumW / w.Denominator.SumW2
	if eff > 0 && eff < 1 {
		err = math.Sqrt(eff * (1 - eff) / nEff)
	}
	return eff, err
}

func (w *Writer) Close() error {
	var firstErr error
	for _, ds := range []*Dataset{w.Numerator, w.Denominator} {
		if ds == nil {
			continue
		}
		if err := ds.tbl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
