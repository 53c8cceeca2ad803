package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/decibelcooper/zfinder"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "ledgers.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testDefinition(t *testing.T) *zfinder.ZDefinition {
	t.Helper()
	def, err := zfinder.NewZDefinition(zfinder.SelectionConfig{
		Name:    "ET-ET",
		Cuts0:   []string{"pt>20", "eta<2.1"},
		Cuts1:   []string{"pt>10", "eta<2.4"},
		MassMin: 60,
		MassMax: 120,
	})
	if err != nil {
		t.Fatalf("NewZDefinition: %v", err)
	}
	return def
}

func selectedEvent(def *zfinder.ZDefinition, number uint64, e0, e1 *zfinder.Electron, mass float64) *zfinder.Event {
	ev := zfinder.NewEvent(1, number, [2]*zfinder.Electron{e0, e1})
	ev.Z.Mass = mass
	def.ApplySelection(ev)
	return ev
}

func TestPassCounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	def := testDefinition(t)

	runID, err := s.BeginRun(ctx, []*zfinder.ZDefinition{def}, []string{"a.proio", "b.proio"})
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	events := []*zfinder.Event{
		selectedEvent(def, 1, zfinder.NewElectron(25, 1.0, 0, -1), zfinder.NewElectron(15, 2.0, 3, 1), 91),
		selectedEvent(def, 2, zfinder.NewElectron(25, 2.3, 0, -1), zfinder.NewElectron(15, 2.0, 3, 1), 91),
		selectedEvent(def, 3, zfinder.NewElectron(25, 1.0, 0, -1), zfinder.NewElectron(15, 2.0, 3, 1), 40),
	}
	if err := s.WriteEvents(ctx, runID, events); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}

	counts, err := s.PassCounts(ctx, runID, "ET-ET")
	if err != nil {
		t.Fatalf("PassCounts: %v", err)
	}
	want := []LevelCount{
		{Index: 0, Name: "pt>20 AND pt>10", Passed: 3, Total: 3},
		{Index: 1, Name: "eta<2.1 AND eta<2.4", Passed: 2, Total: 3},
		{Index: 2, Name: "60 < M_ee < 120", Passed: 2, Total: 3},
	}
	if !reflect.DeepEqual(counts, want) {
		t.Fatalf("PassCounts = %+v, want %+v", counts, want)
	}
}

func TestPassCountsSeparatesRuns(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	def := testDefinition(t)

	first, err := s.BeginRun(ctx, []*zfinder.ZDefinition{def}, nil)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	second, err := s.BeginRun(ctx, []*zfinder.ZDefinition{def}, nil)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if first == second {
		t.Fatal("run ids should be unique")
	}

	ev := selectedEvent(def, 1, zfinder.NewElectron(25, 1.0, 0, -1), zfinder.NewElectron(15, 2.0, 3, 1), 91)
	if err := s.WriteEvents(ctx, first, []*zfinder.Event{ev}); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}

	counts, err := s.PassCounts(ctx, second, "ET-ET")
	if err != nil {
		t.Fatalf("PassCounts: %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(counts))
	}
	for _, c := range counts {
		if c.Passed != 0 || c.Total != 0 {
			t.Errorf("level %d of an empty run counted %d/%d", c.Index, c.Passed, c.Total)
		}
	}
}

func TestPassCountsUnknownSelection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	runID, err := s.BeginRun(ctx, []*zfinder.ZDefinition{testDefinition(t)}, nil)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	counts, err := s.PassCounts(ctx, runID, "missing")
	if err != nil {
		t.Fatalf("PassCounts: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("expected no levels, got %+v", counts)
	}
}
