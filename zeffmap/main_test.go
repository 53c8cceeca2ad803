package main

import (
	"testing"

	"github.com/decibelcooper/zfinder"
)

func TestEffGrid(t *testing.T) {
	def, err := zfinder.NewZDefinition(zfinder.SelectionConfig{
		Name:    "tp",
		Cuts0:   []string{"pt>20"},
		Cuts1:   []string{"pt>10"},
		MassMin: 60,
		MassMax: 120,
	})
	if err != nil {
		t.Fatal(err)
	}

	g := NewEffGrid(2, -2, 2, 2, 0, 100)
	if nx, ny := g.Dims(); nx != 2 || ny != 2 {
		t.Fatalf("Dims = %d, %d", nx, ny)
	}

	for i, mass := range []float64{91, 30} {
		ev := zfinder.NewEvent(1, uint64(i), [2]*zfinder.Electron{
			zfinder.NewElectron(40, 0.5, 0, -1),
			zfinder.NewElectron(15, 1.0, 3, 1),
		})
		ev.Z.Mass = mass
		def.ApplySelection(ev)
		g.FillEvent(ev, "tp")
	}

	if z := g.Z(1, 0); z != 0.5 {
		t.Fatalf("Z(1, 0) = %g, want 0.5", z)
	}
	if z := g.Z(0, 1); z != 0 {
		t.Fatalf("empty bin Z = %g, want 0", z)
	}
}
