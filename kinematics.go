package zfinder

import (
	"math"

	"go-hep.org/x/hep/fmom"
)

// ZKinematics are the properties of a dielectron system.
type ZKinematics struct {
	Mass    float64
	Y       float64
	Pt      float64
	Phistar float64
}

// p4 uses the cartesian form so that sums of nearly back-to-back electrons
// stay well defined.
func (e *Electron) p4() fmom.P4 {
	px := e.Pt * math.Cos(e.Phi)
	py := e.Pt * math.Sin(e.Phi)
	pz := e.Pt * math.Sinh(e.Eta)
	en := math.Sqrt(px*px + py*py + pz*pz + electronMass*electronMass)
	p := fmom.NewPxPyPzE(px, py, pz, en)
	return &p
}

// DielectronKinematics computes the Z candidate built from a and b.
func DielectronKinematics(a, b *Electron) ZKinematics {
	pa, pb := a.p4(), b.p4()
	z := fmom.Add(pa, pb)

	var y float64
	if e, pz := z.E(), z.Pz(); e > math.Abs(pz) {
		y = 0.5 * math.Log((e+pz)/(e-pz))
	}

	return ZKinematics{
		Mass:    z.M(),
		Y:       y,
		Pt:      math.Hypot(z.Px(), z.Py()),
		Phistar: Phistar(a, b),
	}
}

// Phistar is tan((pi - dphi)/2) * sin(theta*), with cos(theta*) =
// tanh((eta- - eta+)/2). Without an opposite-sign pair, a is taken as the
// negative electron.
func Phistar(a, b *Electron) float64 {
	minus, plus := a, b
	if a.Charge > 0 && b.Charge < 0 {
		minus, plus = b, a
	}
	dphi := math.Abs(deltaPhi(minus.Phi, plus.Phi))
	cosTheta := math.Tanh((minus.Eta - plus.Eta) / 2)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	return math.Tan((math.Pi-dphi)/2) * sinTheta
}
