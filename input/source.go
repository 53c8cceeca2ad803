// Package input reads simulated events into zfinder events.
package input

import (
	"math"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/decibelcooper/zfinder"
)

// Options control how input files are turned into events.
type Options struct {
	// RealData marks events as detector data: generator electrons are
	// dropped.
	RealData bool
	// BField is the solenoid field in tesla, used for LCIO track momenta.
	BField float64
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.BField == 0 {
		o.BField = 5
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Source is a zfinder.EventSource that also counts skipped events.
type Source interface {
	zfinder.EventSource
	Skipped() int64
}

// Open opens an input file, choosing the format by extension: .slcio is
// LCIO, anything else proio.
func Open(path string, opts Options) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".slcio") {
		return OpenLCIO(path, opts)
	}
	return OpenProio(path, opts)
}

// OpenAll opens every path. On failure the sources opened so far are closed.
func OpenAll(paths []string, opts Options) ([]zfinder.EventSource, error) {
	sources := make([]zfinder.EventSource, 0, len(paths))
	for _, path := range paths {
		src, err := Open(path, opts)
		if err != nil {
			CloseAll(sources)
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// CloseAll closes sources, returning the first error.
func CloseAll(sources []zfinder.EventSource) error {
	var firstErr error
	for _, src := range sources {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// stream is the channel plumbing shared by the sources.
type stream struct {
	events    chan *zfinder.Event
	done      chan struct{}
	start     sync.Once
	closeOnce sync.Once
	skipped   int64
	err       error
}

func (s *stream) init() {
	s.events = make(chan *zfinder.Event)
	s.done = make(chan struct{})
}

func (s *stream) scan(run func()) <-chan *zfinder.Event {
	s.start.Do(func() {
		go func() {
			defer close(s.events)
			run()
		}()
	})
	return s.events
}

// send delivers ev, returning false once the stream is closed.
func (s *stream) send(ev *zfinder.Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

func (s *stream) skip() { atomic.AddInt64(&s.skipped, 1) }

func (s *stream) Skipped() int64 { return atomic.LoadInt64(&s.skipped) }

// Err is only meaningful after the event channel is closed.
func (s *stream) Err() error { return s.err }

func (s *stream) stop() {
	s.closeOnce.Do(func() { close(s.done) })
}

func electronFromMomentum(px, py, pz float64, charge int) *zfinder.Electron {
	pt := math.Hypot(px, py)
	eta := math.Copysign(math.Inf(1), pz)
	if pt > 0 {
		eta = math.Asinh(pz / pt)
	}
	return zfinder.NewElectron(pt, eta, math.Atan2(py, px), charge)
}

// buildEvent keeps the two leading electrons of each collection. Events with
// fewer than two reco electrons carry no Z candidate and return nil.
func buildEvent(run int64, number uint64, reco, truth []*zfinder.Electron, opts Options) *zfinder.Event {
	if len(reco) < 2 {
		return nil
	}
	zfinder.SortByPt(reco)
	ev := zfinder.NewEvent(run, number, [2]*zfinder.Electron{reco[0], reco[1]})
	ev.IsRealData = opts.RealData
	if opts.RealData || len(truth) == 0 {
		return ev
	}

	zfinder.SortByPt(truth)
	var t [2]*zfinder.Electron
	copy(t[:], truth)
	ev.SetTruth(t)
	return ev
}
