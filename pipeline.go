package zfinder

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// EventSource delivers events read from one input. The channel is closed
// when the input is exhausted or fails; Err reports the failure.
type EventSource interface {
	ScanEvents() <-chan *Event
	Err() error
	Close() error
}

// Analyze reads up to nThreads sources concurrently, runs the setters and
// every selection on each event, and hands the event to fill. fill is always
// called from the calling goroutine, so it may update histograms without
// locking.
func Analyze(ctx context.Context, sources []EventSource, setters []Setter, defs []*ZDefinition, nThreads int, fill func(*Event)) error {
	if nThreads < 1 {
		nThreads = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	events := make(chan *Event, nThreads)

	g.Go(func() error {
		defer close(events)

		readers, rctx := errgroup.WithContext(ctx)
		readers.SetLimit(nThreads)
		for _, src := range sources {
			src := src
			readers.Go(func() error {
				return process(rctx, src, setters, defs, events)
			})
		}
		return readers.Wait()
	})

	for ev := range events {
		fill(ev)
	}
	return g.Wait()
}

// Process runs the setters and selections on a single event.
func Process(ev *Event, setters []Setter, defs []*ZDefinition) {
	for _, s := range setters {
		s.Set(ev)
	}
	for _, d := range defs {
		d.ApplySelection(ev)
	}
}

func process(ctx context.Context, src EventSource, setters []Setter, defs []*ZDefinition, out chan<- *Event) error {
	for ev := range src.ScanEvents() {
		if err := ctx.Err(); err != nil {
			return err
		}
		Process(ev, setters, defs)
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return src.Err()
}
