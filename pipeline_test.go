package zfinder

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type sliceSource struct {
	events []*Event
	err    error
}

func (s *sliceSource) ScanEvents() <-chan *Event {
	ch := make(chan *Event, len(s.events))
	go func() {
		defer close(ch)
		for _, ev := range s.events {
			ch <- ev
		}
	}()
	return ch
}

func (s *sliceSource) Err() error   { return s.err }
func (s *sliceSource) Close() error { return nil }

func zEvents(n int, run int64) []*Event {
	out := make([]*Event, n)
	for i := range out {
		out[i] = NewEvent(run, uint64(i+1), [2]*Electron{NewElectron(40, 0.3, 0, -1), NewElectron(35, -0.4, 3, 1)})
	}
	return out
}

func TestAnalyzeAppliesEverySelection(t *testing.T) {
	defs := []*ZDefinition{
		mustDefinition(t, SelectionConfig{Name: "ET-ET", Cuts0: []string{"acc(ET)"}, Cuts1: []string{"acc(ET)"}, MassMin: 60, MassMax: 120}),
		mustDefinition(t, SelectionConfig{Name: "loose", MassMin: 0, MassMax: 1000}),
	}
	sources := []EventSource{
		&sliceSource{events: zEvents(10, 1)},
		&sliceSource{events: zEvents(7, 2)},
		&sliceSource{events: zEvents(5, 3)},
	}

	n := 0
	err := Analyze(context.Background(), sources, []Setter{NewAcceptanceSetter()}, defs, 2, func(ev *Event) {
		n++
		for _, def := range defs {
			ledger, ok := ev.Ledger(def.Name())
			if !ok {
				t.Errorf("event %d/%d missing ledger %s", ev.RunNumber, ev.EventNumber, def.Name())
				continue
			}
			if !ledger[0].Pass {
				t.Errorf("event %d/%d failed %s", ev.RunNumber, ev.EventNumber, def.Name())
			}
		}
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if n != 22 {
		t.Fatalf("filled %d events, want 22", n)
	}
}

func TestAnalyzeReportsSourceError(t *testing.T) {
	readErr := errors.New("truncated file")
	sources := []EventSource{
		&sliceSource{events: zEvents(3, 1)},
		&sliceSource{events: zEvents(2, 2), err: readErr},
	}
	err := Analyze(context.Background(), sources, nil, nil, 1, func(*Event) {})
	if !errors.Is(err, readErr) {
		t.Fatalf("error = %v, want %v", err, readErr)
	}
}

type countingSetter struct{ n int64 }

func (s *countingSetter) Set(*Event) { atomic.AddInt64(&s.n, 1) }

func TestAnalyzeStopsProcessingWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	setter := &countingSetter{}
	sources := []EventSource{&sliceSource{events: zEvents(50, 1)}}
	filled := 0
	err := Analyze(ctx, sources, []Setter{setter}, nil, 1, func(*Event) { filled++ })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if n := atomic.LoadInt64(&setter.n); n != 0 || filled != 0 {
		t.Fatalf("processed %d and filled %d events after cancellation", n, filled)
	}
}
