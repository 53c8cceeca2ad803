package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/zfinder"
	"github.com/decibelcooper/zfinder/input"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <input-files>...

Plots phistar at every level of a selection.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	var (
		configPath = flag.String("config", "zfinder.toml", "selection config file")
		selection  = flag.String("selection", "", "selection name")
		title      = flag.String("title", "", "plot title")
		output     = flag.String("output", "zphistar.png", "output file")
		nBins      = flag.Int("nbins", 50, "number of bins")
		phistarMax = flag.Float64("max", 1, "maximum phistar")
		realData   = flag.Bool("realdata", false, "treat inputs as detector data")
		bField     = flag.Float64("bfield", 5, "solenoid field (T) for LCIO tracks")
		doProfile  = flag.Bool("profile", false, "write a CPU profile")
	)
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 || *selection == "" {
		printUsage()
		log.Fatal("Invalid arguments")
	}

	opts, err := zfinder.LoadOptions()
	if err != nil {
		log.Fatal(err)
	}
	if *doProfile || opts.Profile {
		defer profile.Start(profile.ProfilePath(".")).Stop()
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
	def, err := cfg.Definition(*selection, zfinder.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
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

	lh := zfinder.NewLevelHists(def, *nBins, 0, *phistarMax)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = zfinder.Analyze(ctx, sources, setters, []*zfinder.ZDefinition{def}, opts.Threads, func(ev *zfinder.Event) {
		lh.Fill(ev, ev.Z.Phistar)
	})
	if err != nil {
		log.Fatal(err)
	}
	for i, h := range lh.Hists {
		logger.Info("level filled",
			zap.String("level", lh.Names[i]),
			zap.Int64("entries", h.Entries()),
			zap.Float64("sumw", h.SumW()),
		)
	}

	p, _ := plot.New()
	p.Title.Text = *title
	p.X.Label.Text = "phi*"
	p.X.Tick.Marker = zfinder.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = plot.LogTicks{}
	p.Y.Scale = plot.LogScale{}
	zfinder.DrawLevels(p, lh)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, *output); err != nil {
		log.Fatal(err)
	}
}
