package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/decibelcooper/zfinder"
	"github.com/decibelcooper/zfinder/input"
	"github.com/decibelcooper/zfinder/workspace"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <input-files>...

Writes numerator and denominator datasets of each selection for fitting and
prints the summary efficiency.

options:
`,
	)
	flag.PrintDefaults()
}

var (
	configPath = flag.String("config", "zfinder.toml", "selection config file")
	outDir     = flag.String("dir", ".", "output directory")
	realData   = flag.Bool("realdata", false, "treat inputs as detector data")
	bField     = flag.Float64("bfield", 5, "solenoid field (T) for LCIO tracks")
	selections zfinder.StringArrayFlags
)

func main() {
	flag.Var(&selections, "selection", "selection name (repeatable, default all)")
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
	var defs []*zfinder.ZDefinition
	if len(selections.Array) == 0 {
		if defs, err = cfg.Definitions(zfinder.WithLogger(logger)); err != nil {
			log.Fatal(err)
		}
	}
	for _, name := range selections.Array {
		def, err := cfg.Definition(name, zfinder.WithLogger(logger))
		if err != nil {
			log.Fatal(err)
		}
		defs = append(defs, def)
	}
	setters, err := cfg.Setters()
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}
	writers := make([]*workspace.Writer, len(defs))
	for i, def := range defs {
		if writers[i], err = workspace.Create(*outDir, def); err != nil {
			log.Fatal(err)
		}
	}

	sources, err := input.OpenAll(flag.Args(), input.Options{RealData: *realData, BField: *bField, Logger: logger})
	if err != nil {
		log.Fatal(err)
	}
	defer input.CloseAll(sources)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var writeErr error
	err = zfinder.Analyze(ctx, sources, setters, defs, opts.Threads, func(ev *zfinder.Event) {
		if writeErr != nil {
			return
		}
		for _, w := range writers {
			if writeErr = w.Fill(ev); writeErr != nil {
				cancel()
				return
			}
		}
	})
	if writeErr != nil {
		log.Fatal(writeErr)
	}
	if err != nil {
		log.Fatal(err)
	}

	for i, w := range writers {
		if err := w.Close(); err != nil {
			log.Fatal(err)
		}
		eff, effErr := w.Efficiency()
		fields := []zap.Field{
			zap.String("selection", defs[i].Name()),
			zap.String("numerator", w.Numerator.Path),
			zap.Int("numerator_rows", w.Numerator.Rows),
		}
		if w.Denominator != nil {
			fields = append(fields,
				zap.String("denominator", w.Denominator.Path),
				zap.Int("denominator_rows", w.Denominator.Rows),
			)
			fmt.Printf("%s: efficiency %.4f +- %.4f\n", defs[i].Name(), eff, effErr)
		}
		logger.Info("datasets written", fields...)
	}
}
