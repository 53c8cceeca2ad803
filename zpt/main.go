package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/zfinder"
	"github.com/decibelcooper/zfinder/input"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <input-files>...

Compares the reconstructed and generated Z transverse momentum of events
passing a selection.

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
		output     = flag.String("output", "zpt.png", "output file")
		nBins      = flag.Int("nbins", 50, "number of bins")
		ptMax      = flag.Float64("max", 100, "maximum Z pT (GeV)")
		bField     = flag.Float64("bfield", 5, "solenoid field (T) for LCIO tracks")
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

	sources, err := input.OpenAll(flag.Args(), input.Options{BField: *bField, Logger: logger})
	if err != nil {
		log.Fatal(err)
	}
	defer input.CloseAll(sources)

	recoHist := hbook.NewH1D(*nBins, 0, *ptMax)
	truthHist := hbook.NewH1D(*nBins, 0, *ptMax)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var nPassed int
	err = zfinder.Analyze(ctx, sources, setters, []*zfinder.ZDefinition{def}, opts.Threads, func(ev *zfinder.Event) {
		ledger, ok := ev.Ledger(def.Name())
		if !ok || !ledger.Passed() {
			return
		}
		nPassed++

		w := ledger.Weight(-1, ev.EventNumber)
		if w == 0 {
			w = ev.Weight
		}
		recoHist.Fill(ev.Z.Pt, w)
		if ev.Truth[0] != nil && ev.Truth[1] != nil {
			truthHist.Fill(ev.TruthZ.Pt, w)
		}
	})
	if err != nil {
		log.Fatal(err)
	}
	logger.Info("analysis done", zap.String("selection", def.Name()), zap.Int("passed", nPassed))

	p, _ := plot.New()
	p.Title.Text = *title
	p.X.Label.Text = "Z p_T (GeV)"
	p.X.Tick.Marker = zfinder.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = zfinder.PreciseTicks{NSuggestedTicks: 5}

	for i, hist := range []*hbook.H1D{truthHist, recoHist} {
		h := hplot.NewH1D(hist)
		h.FillColor = nil
		h.LineStyle.Color = zfinder.LineColor(i)
		h.Infos.Style = hplot.HInfoNone

		p.Add(h)
		p.Legend.Add([]string{"generated", "reconstructed"}[i], h)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, *output); err != nil {
		log.Fatal(err)
	}
}
