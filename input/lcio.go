package input

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/lcio"
	"go.uber.org/zap"

	"github.com/decibelcooper/zfinder"
)

// curvatureToPt converts B[T]/|omega[1/mm]| into pT in GeV.
const curvatureToPt = 2.99792458e-4

// LCIOSource reads events from an LCIO file. Reco electrons are built from
// the "Tracks" collection, generator electrons from stable "MCParticle"
// entries with |PDG| = 11.
type LCIOSource struct {
	stream
	path   string
	reader *lcio.Reader
	opts   Options
}

func OpenLCIO(path string, opts Options) (*LCIOSource, error) {
	reader, err := lcio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lcio file %s: %w", path, err)
	}
	s := &LCIOSource{path: path, reader: reader, opts: opts.withDefaults()}
	s.init()
	return s, nil
}

func (s *LCIOSource) ScanEvents() <-chan *zfinder.Event {
	return s.scan(s.run)
}

func (s *LCIOSource) run() {
	n := 0
	for s.reader.Next() {
		event := s.reader.Event()
		n++

		var reco, truth []*zfinder.Electron
		if tracks, ok := event.Get("Tracks").(*lcio.TrackContainer); ok {
			for _, track := range tracks.Tracks {
				if e := trackElectron(track.Omega(), track.TanL(), track.Phi(), s.opts.BField); e != nil {
					reco = append(reco, e)
				}
			}
		}
		if mc, ok := event.Get("MCParticle").(*lcio.McParticleContainer); ok {
			for _, part := range mc.Particles {
				if part.GenStatus != 1 || (part.PDG != 11 && part.PDG != -11) {
					continue
				}
				charge := int(math.Copysign(1, float64(part.Charge)))
				truth = append(truth, electronFromMomentum(part.P[0], part.P[1], part.P[2], charge))
			}
		}

		ev := buildEvent(int64(event.RunNumber), uint64(event.EventNumber), reco, truth, s.opts)
		if ev == nil {
			s.skip()
			continue
		}
		if !s.send(ev) {
			return
		}
	}

	if err := s.reader.Err(); err != nil {
		s.err = fmt.Errorf("failed to read lcio file %s: %w", s.path, err)
	}
	s.opts.Logger.Debug("lcio file done",
		zap.String("file", s.path),
		zap.Int("events", n),
		zap.Int64("skipped", s.Skipped()),
	)
}

func (s *LCIOSource) Close() error {
	s.stop()
	return s.reader.Close()
}

// trackElectron builds an electron from helix parameters. Tracks without
// curvature have no measurable momentum and are dropped.
func trackElectron(omega, tanL, phi float64, bField float64) *zfinder.Electron {
	if omega == 0 {
		return nil
	}
	pt := curvatureToPt * bField / math.Abs(omega)
	charge := int(math.Copysign(1, omega))
	return zfinder.NewElectron(pt, math.Asinh(tanL), phi, charge)
}
