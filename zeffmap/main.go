package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/decibelcooper/zfinder"
	"github.com/decibelcooper/zfinder/input"
)

var (
	configPath = flag.String("config", "zfinder.toml", "selection config file")
	selection  = flag.String("selection", "", "selection name")
	pTMin      = flag.Float64("minpt", 10, "minimum probe transverse momentum")
	pTMax      = flag.Float64("maxpt", 100, "maximum probe transverse momentum")
	etaLimit   = flag.Float64("etalimit", 2.5, "maximum absolute value of probe eta")
	nBinsPT    = flag.Int("nbinspt", 9, "number of bins in transverse momentum")
	nBinsEta   = flag.Int("nbinseta", 10, "number of bins in eta")
	realData   = flag.Bool("realdata", false, "treat inputs as detector data")
	bField     = flag.Float64("bfield", 5, "solenoid field (T) for LCIO tracks")
	title      = flag.String("title", "", "plot title")
	output     = flag.String("output", "zeffmap.png", "output file")
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <input-files>...

Draws the final-level efficiency of a selection as a map in probe eta and
transverse momentum.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
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

	sources, err := input.OpenAll(flag.Args(), input.Options{RealData: *realData, BField: *bField, Logger: logger})
	if err != nil {
		log.Fatal(err)
	}
	defer input.CloseAll(sources)

	effGrid := NewEffGrid(*nBinsEta, -*etaLimit, *etaLimit, *nBinsPT, *pTMin, *pTMax)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = zfinder.Analyze(ctx, sources, setters, []*zfinder.ZDefinition{def}, opts.Threads, func(ev *zfinder.Event) {
		effGrid.FillEvent(ev, def.Name())
	})
	if err != nil {
		log.Fatal(err)
	}

	p, _ := plot.New()
	p.Title.Text = *title
	p.X.Label.Text = "probe eta"
	p.Y.Label.Text = "probe p_T"
	p.X.Tick.Marker = zfinder.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = zfinder.PreciseTicks{NSuggestedTicks: 5}

	img := vgimg.New(670, 400)
	dc := draw.New(img)
	dc0 := draw.Crop(dc, 0, -70, 0, 0)
	dc1 := draw.Crop(dc, 620, 0, 0, 0)

	colorMap := moreland.ExtendedBlackBody()
	colorMap.SetMin(0)
	colorMap.SetMax(1)
	pal := colorMap.Palette(1000)
	heatMap := plotter.NewHeatMap(effGrid, pal)
	heatMap.Min = 0
	heatMap.Max = 1
	p.Add(heatMap)

	p.Draw(dc0)

	p, _ = plot.New()

	colorBar := &plotter.ColorBar{ColorMap: colorMap}
	colorBar.Vertical = true
	p.Add(colorBar)
	p.HideX()
	p.Y.Padding = 0

	p.Draw(dc1)

	w, err := os.Create(*output)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err = png.WriteTo(w); err != nil {
		log.Fatal(err)
	}
}

// EffGrid is a plotter.GridXYZ of the weighted numerator/denominator ratio
// per (eta, pT) bin of the probe electron.
type EffGrid struct {
	hNum, hDen     *hbook.H2D
	nBinsX, nBinsY int
}

func NewEffGrid(nBinsX int, xLow, xHigh float64, nBinsY int, yLow, yHigh float64) *EffGrid {
	return &EffGrid{
		hbook.NewH2D(nBinsX, xLow, xHigh, nBinsY, yLow, yHigh),
		hbook.NewH2D(nBinsX, xLow, xHigh, nBinsY, yLow, yHigh),
		nBinsX, nBinsY,
	}
}

// FillEvent adds the probe electron of an event reaching the denominator
// level of selection.
func (g *EffGrid) FillEvent(ev *zfinder.Event, selection string) {
	ledger, ok := ev.Ledger(selection)
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

	g.hDen.Fill(probe.Eta, probe.Pt, ledger.Weight(-2, ev.EventNumber))
	if ledger.PassedThrough(-1) {
		g.hNum.Fill(probe.Eta, probe.Pt, ledger.Weight(-1, ev.EventNumber))
	}
}

func (g *EffGrid) Dims() (int, int) {
	return g.nBinsX, g.nBinsY
}

// Z is zero for empty bins.
func (g *EffGrid) Z(i, j int) float64 {
	den := g.hDen.GridXYZ().Z(i, j)
	if den <= 0 {
		return 0
	}
	return g.hNum.GridXYZ().Z(i, j) / den
}

func (g *EffGrid) X(i int) float64 {
	return g.hDen.GridXYZ().X(i)
}

func (g *EffGrid) Y(j int) float64 {
	return g.hDen.GridXYZ().Y(j)
}
