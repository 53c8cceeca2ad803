package zfinder

import (
	"image/color"
	"math"
	"strconv"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
)

// PreciseTicks places major ticks on round values with labels carrying only
// the digits needed to tell them apart, and unlabelled minor ticks between.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	n := t.NSuggestedTicks
	if n == 0 {
		n = 4
	}
	if max <= min {
		panic("illegal range")
	}

	mult, step := majorStep(max-min, n)

	var ticks []plot.Tick
	major := make(map[float64]bool)
	prec := int(math.Ceil(math.Log10(max+step)) - math.Floor(math.Log10(step)))
	for v := math.Floor(min/step) * step; v <= max; v += step {
		if v < min {
			continue
		}
		v = round(v, prec)
		major[v] = true
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
	}

	minor := step / 2
	switch mult {
	case 3, 6:
		minor = step / 3
	case 5:
		minor = step / 5
	}
	for v := math.Floor(min/minor) * minor; v <= max; v += minor {
		if v >= min && !major[v] {
			ticks = append(ticks, plot.Tick{Value: v})
		}
	}
	return ticks
}

// majorStep picks a spacing of mult*10^k giving roughly n labelled ticks.
func majorStep(span float64, n int) (int, float64) {
	tens := math.Pow10(int(math.Floor(math.Log10(span))))
	for span/tens < float64(n)-1 {
		tens /= 10
	}

	mult := int(span / tens / float64(n-1))
	switch mult {
	case 0:
		mult = 1
	case 7:
		mult = 6
	case 9:
		mult = 8
	}
	return mult, float64(mult) * tens
}

func round(x float64, prec int) float64 {
	if x == 0 {
		return 0
	}
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	scaled := x * pow
	if math.IsInf(scaled, 0) {
		return x
	}
	if x < 0 {
		scaled = math.Ceil(scaled - 0.5)
	} else {
		scaled = math.Floor(scaled + 0.5)
	}
	if scaled == 0 {
		return 0
	}
	return scaled / pow
}

// LineColor is the color used for the i-th overlaid histogram.
func LineColor(i int) color.Color {
	switch i % 6 {
	case 1:
		return color.RGBA{G: 255, A: 255}
	case 2:
		return color.RGBA{B: 255, A: 255}
	case 3:
		return color.RGBA{R: 255, B: 127, G: 127, A: 255}
	case 4:
		return color.RGBA{R: 255, A: 255}
	case 5:
		return color.RGBA{R: 127, B: 255, A: 255}
	}
	return color.RGBA{A: 255}
}

// LevelHists holds one histogram per ledger level of a selection. An event
// fills every level up to its first failure, weighted by that level's
// tag/probe weight.
type LevelHists struct {
	Selection string
	Names     []string
	Hists     []*hbook.H1D
}

func NewLevelHists(def *ZDefinition, nBins int, min, max float64) *LevelHists {
	lh := &LevelHists{Selection: def.Name(), Names: def.LevelNames()}
	for range lh.Names {
		lh.Hists = append(lh.Hists, hbook.NewH1D(nBins, min, max))
	}
	return lh
}

// Fill adds x for each level the event passes, stopping at the first
// failure. It reports whether the event carried a ledger for the selection.
func (lh *LevelHists) Fill(ev *Event, x float64) bool {
	ledger, ok := ev.Ledger(lh.Selection)
	if !ok {
		return false
	}
	for i := range lh.Hists {
		lvl, found := ledger.Level(i)
		if !found || !lvl.Pass {
			break
		}
		w := ledger.Weight(i, ev.EventNumber)
		if w == 0 {
			w = lvl.EventWeight
		}
		lh.Hists[i].Fill(x, w)
	}
	return true
}

// DrawLevels overlays the level histograms on p with a legend entry each.
func DrawLevels(p *plot.Plot, lh *LevelHists) {
	for i, hist := range lh.Hists {
		h := hplot.NewH1D(hist)
		h.FillColor = nil
		h.LineStyle.Color = LineColor(i)
		h.Infos.Style = hplot.HInfoNone

		p.Add(h)
		p.Legend.Add(lh.Names[i], h)
	}
}
