package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"

	"go-hep.org/x/hep/hbook"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/zfinder"
	"github.com/decibelcooper/zfinder/input"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <input-files>...

Plots the efficiency of the final level of each selection relative to the
level before it, as a function of the probe electron eta.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	var (
		configPath = flag.String("config", "zfinder.toml", "selection config file")
		title      = flag.String("title", "", "plot title")
		prefix     = flag.String("prefix", "zeff", "output file prefix")
		realData   = flag.Bool("realdata", false, "treat inputs as detector data")
		bField     = flag.Float64("bfield", 5, "solenoid field (T) for LCIO tracks")
		selections zfinder.StringArrayFlags
		edges      = zfinder.FloatArrayFlags{Array: []float64{-2.5, -1.566, -1.4442, -0.8, 0, 0.8, 1.4442, 1.566, 2.5}}
	)
	flag.Var(&selections, "selection", "selection name (repeatable)")
	flag.Var(&edges, "edges", "probe eta bin edges (repeatable or comma separated)")
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 || len(selections.Array) == 0 || len(edges.Array) < 2 {
		printUsage()
		log.Fatal("Invalid arguments")
	}

	opts, err := zfinder.LoadOptions()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := zfinder.NewLogger(opts.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg, err := zfinder.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	var defs []*zfinder.ZDefinition
	for _, name := range selections.Array {
		def, err := cfg.Definition(name, zfinder.WithLogger(logger))
		if err != nil {
			log.Fatal(err)
		}
		if len(def.LevelNames()) < 2 {
			log.Fatalf("selection %q has no cut level to measure against", name)
		}
		defs = append(defs, def)
	}
	setters, err := cfg.Setters()
	if err != nil {
		log.Fatal(err)
	}

	sources, err := input.OpenAll(flag.Args(), input.Options{RealData: *realData, BField: *bField, Logger: logger})
	if err != nil {
		log.Fatal(err)
	}
	defer input.CloseAll(sources)

	counters := make([]*probeCounter, len(defs))
	for i, def := range defs {
		counters[i] = newProbeCounter(def.Name(), edges.Array)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = zfinder.Analyze(ctx, sources, setters, defs, opts.Threads, func(ev *zfinder.Event) {
		for _, c := range counters {
			c.fill(ev)
		}
	})
	if err != nil {
		log.Fatal(err)
	}

	p, _ := plot.New()
	p.Title.Text = *title
	p.X.Label.Text = "probe eta"
	p.Y.Label.Text = "efficiency"
	p.X.Tick.Marker = zfinder.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = zfinder.PreciseTicks{NSuggestedTicks: 5}

	for i, c := range counters {
		errPoints := c.points(edges.Array)
		xerr, err := plotter.NewXErrorBars(errPoints)
		if err != nil {
			log.Fatal(err)
		}
		yerr, err := plotter.NewYErrorBars(errPoints)
		if err != nil {
			log.Fatal(err)
		}
		points, err := plotter.NewScatter(errPoints.XYs)
		if err != nil {
			log.Fatal(err)
		}
		xerr.LineStyle.Color = zfinder.LineColor(i)
		yerr.LineStyle.Color = zfinder.LineColor(i)
		points.GlyphStyle.Color = zfinder.LineColor(i)

		p.Add(xerr, yerr, points)
		p.Legend.Add(c.selection, points)
		logger.Info("efficiency measured",
			zap.String("selection", c.selection),
			zap.Float64("numerator", c.num.SumW()),
			zap.Float64("denominator", c.den.SumW()),
		)
	}

	p.Save(6*vg.Inch, 4*vg.Inch, *prefix+".pdf")
	p.Save(6*vg.Inch, 4*vg.Inch, *prefix+".png")
}

// probeCounter histograms the probe eta of events reaching the denominator
// and numerator levels of one selection.
type probeCounter struct {
	selection string
	num, den  *hbook.H1D
}

func newProbeCounter(selection string, edges []float64) *probeCounter {
	return &probeCounter{
		selection: selection,
		num:       hbook.NewH1DFromEdges(edges),
		den:       hbook.NewH1DFromEdges(edges),
	}
}

func (c *probeCounter) fill(ev *zfinder.Event) {
	ledger, ok := ev.Ledger(c.selection)
	if !ok || !ledger.PassedThrough(-2) {
		return
	}
	tag, ok := ledger.TagChoice(-2, ev.EventNumber)
	if !ok {
		return
	}
	probe := ev.Reco[1-tag]
	if probe == nil {
		return
	}

	c.den.Fill(probe.Eta, ledger.Weight(-2, ev.EventNumber))
	if ledger.PassedThrough(-1) {
		c.num.Fill(probe.Eta, ledger.Weight(-1, ev.EventNumber))
	}
}

func (c *probeCounter) points(edges []float64) plotutil.ErrorPoints {
	n := len(edges) - 1
	points := make(plotter.XYs, n)
	xErrors := make(plotter.XErrors, n)
	yErrors := make(plotter.YErrors, n)
	for i := range points {
		binHalfWidth := (edges[i+1] - edges[i]) / 2
		binSigma := binHalfWidth / math.Sqrt(3.)

		points[i].X = edges[i] + binHalfWidth
		xErrors[i].Low = binSigma
		xErrors[i].High = binSigma

		_, denY := c.den.XY(i)
		_, numY := c.num.XY(i)
		if denY > 0 {
			eff := numY / denY
			points[i].Y = eff
			yErrors[i].Low = math.Sqrt(math.Max(0, (1-eff)*numY) / math.Pow(denY, 2))
			yErrors[i].High = yErrors[i].Low
		}
	}
	return plotutil.ErrorPoints{XYs: points, XErrors: xErrors, YErrors: yErrors}
}
