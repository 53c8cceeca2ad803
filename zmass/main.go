package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/zfinder"
	"github.com/decibelcooper/zfinder/input"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <input-files>...

Plots the dielectron mass at every level of the chosen selections, one
output file per selection.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	var (
		configPath = flag.String("config", "zfinder.toml", "selection config file")
		title      = flag.String("title", "", "plot title")
		prefix     = flag.String("prefix", "zmass", "output file prefix")
		nBins      = flag.Int("nbins", 60, "number of bins")
		massMin    = flag.Float64("min", 60, "minimum mass (GeV)")
		massMax    = flag.Float64("max", 120, "maximum mass (GeV)")
		realData   = flag.Bool("realdata", false, "treat inputs as detector data")
		bField     = flag.Float64("bfield", 5, "solenoid field (T) for LCIO tracks")
		selections zfinder.StringArrayFlags
	)
	flag.Var(&selections, "selection", "selection to plot (repeatable, default all)")
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 {
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
	defs, err := cfg.Definitions(zfinder.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	if len(selections.Array) > 0 {
		defs = defs[:0]
		for _, name := range selections.Array {
			def, err := cfg.Definition(name, zfinder.WithLogger(logger))
			if err != nil {
				log.Fatal(err)
			}
			defs = append(defs, def)
		}
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

	hists := make([]*zfinder.LevelHists, len(defs))
	for i, def := range defs {
		hists[i] = zfinder.NewLevelHists(def, *nBins, *massMin, *massMax)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var nEvents int
	err = zfinder.Analyze(ctx, sources, setters, defs, opts.Threads, func(ev *zfinder.Event) {
		nEvents++
		for _, lh := range hists {
			lh.Fill(ev, ev.Z.Mass)
		}
	})
	if err != nil {
		log.Fatal(err)
	}
	logger.Info("analysis done", zap.Int("events", nEvents))

	for _, lh := range hists {
		p, _ := plot.New()
		p.Title.Text = *title
		if p.Title.Text == "" {
			p.Title.Text = lh.Selection
		}
		p.X.Label.Text = "M_ee (GeV)"
		p.X.Tick.Marker = zfinder.PreciseTicks{NSuggestedTicks: 5}
		p.Y.Tick.Marker = zfinder.PreciseTicks{NSuggestedTicks: 5}
		zfinder.DrawLevels(p, lh)

		output := *prefix + "_" + outputStem(lh.Selection) + ".png"
		if err := p.Save(6*vg.Inch, 4*vg.Inch, output); err != nil {
			log.Fatal(err)
		}
		logger.Info("wrote plot", zap.String("selection", lh.Selection), zap.String("file", output))
	}
}

func outputStem(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch r {
		case '/', ' ', '(', ')':
			out[i] = '_'
		}
	}
	return string(out)
}
