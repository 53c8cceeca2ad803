package zfinder

import (
	"math"
	"testing"
)

func TestDielectronKinematicsBackToBack(t *testing.T) {
	a := NewElectron(45, 0, 0, -1)
	b := NewElectron(45, 0, math.Pi, 1)

	z := DielectronKinematics(a, b)
	if math.Abs(z.Mass-90) > 1e-3 {
		t.Fatalf("mass = %g, want 90", z.Mass)
	}
	if z.Pt > 1e-9 {
		t.Fatalf("pt = %g, want 0", z.Pt)
	}
	if math.Abs(z.Y) > 1e-9 {
		t.Fatalf("y = %g, want 0", z.Y)
	}
	if z.Phistar > 1e-9 {
		t.Fatalf("phistar = %g, want 0 for back-to-back electrons", z.Phistar)
	}
}

func TestPhistarSymmetricInChargeOrder(t *testing.T) {
	a := NewElectron(40, 0.5, 0.2, -1)
	b := NewElectron(35, -1.2, 2.9, 1)

	if math.Abs(Phistar(a, b)-Phistar(b, a)) > 1e-12 {
		t.Fatal("phistar depends on argument order for an opposite-sign pair")
	}

	dphi := math.Pi - (2.9 - 0.2)
	cosTheta := math.Tanh((0.5 - -1.2) / 2)
	want := math.Tan(dphi/2) * math.Sqrt(1-cosTheta*cosTheta)
	if got := Phistar(a, b); math.Abs(got-want) > 1e-12 {
		t.Fatalf("phistar = %g, want %g", got, want)
	}
}

func TestDeltaRWrapsPhi(t *testing.T) {
	a := NewElectron(10, 0, math.Pi-0.1, -1)
	b := NewElectron(10, 0, -math.Pi+0.1, 1)
	if d := DeltaR(a, b); math.Abs(d-0.2) > 1e-9 {
		t.Fatalf("DeltaR = %g, want 0.2", d)
	}
}

func TestSortByPt(t *testing.T) {
	es := []*Electron{NewElectron(5, 0, 0, 1), NewElectron(50, 0, 0, 1), NewElectron(20, 0, 0, 1)}
	SortByPt(es)
	if es[0].Pt != 50 || es[1].Pt != 20 || es[2].Pt != 5 {
		t.Fatalf("unexpected order: %v %v %v", es[0].Pt, es[1].Pt, es[2].Pt)
	}
}
