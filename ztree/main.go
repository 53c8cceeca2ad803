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
	"github.com/decibelcooper/zfinder/store"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <input-files>...

Stores the selection ledger of every event in an SQLite database and prints
per-level pass counts.

options:
`,
	)
	flag.PrintDefaults()
}

var (
	configPath = flag.String("config", "zfinder.toml", "selection config file")
	dbPath     = flag.String("db", "zfinder.db", "output database")
	batchSize  = flag.Int("batch", 1000, "events per transaction")
	realData   = flag.Bool("realdata", false, "treat inputs as detector data")
	bField     = flag.Float64("bfield", 5, "solenoid field (T) for LCIO tracks")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 || *batchSize < 1 {
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
	setters, err := cfg.Setters()
	if err != nil {
		log.Fatal(err)
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	sources, err := input.OpenAll(flag.Args(), input.Options{RealData: *realData, BField: *bField, Logger: logger})
	if err != nil {
		log.Fatal(err)
	}
	defer input.CloseAll(sources)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runID, err := db.BeginRun(ctx, defs, flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	logger.Info("run started", zap.String("run", runID), zap.String("db", *dbPath))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		batch    []*zfinder.Event
		writeErr error
		nEvents  int
	)
	flush := func() {
		if writeErr != nil || len(batch) == 0 {
			return
		}
		if writeErr = db.WriteEvents(ctx, runID, batch); writeErr != nil {
			cancel()
		}
		nEvents += len(batch)
		batch = batch[:0]
	}

	err = zfinder.Analyze(ctx, sources, setters, defs, opts.Threads, func(ev *zfinder.Event) {
		batch = append(batch, ev)
		if len(batch) >= *batchSize {
			flush()
		}
	})
	flush()
	if writeErr != nil {
		log.Fatal(writeErr)
	}
	if err != nil {
		log.Fatal(err)
	}
	logger.Info("run stored", zap.String("run", runID), zap.Int("events", nEvents))

	for _, def := range defs {
		counts, err := db.PassCounts(context.Background(), runID, def.Name())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(def.Name())
		for _, c := range counts {
			fmt.Printf("  %2d %-40s %8d / %d\n", c.Index, c.Name, c.Passed, c.Total)
		}
	}
}
